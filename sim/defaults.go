package sim

import (
	"math"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/palette"
)

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DefaultParams returns a small single-population run with the steering
// constants the config defaults use.
func DefaultParams() Params {
	return Params{
		Width:          256,
		Height:         256,
		AgentCount:     4000,
		Iterations:     300,
		SensorAngle:    Radians(22.5),
		SensorDistance: 9,
		TurnAngle:      Radians(45),
		StepSize:       1,
		DepositAmount:  5,
		DecayFactor:    0.9,
		Populations: []Population{
			{Name: "slime", Color: palette.RGB{R: 255, G: 220, B: 80}, Fraction: 1},
		},
		Repulsion:  0.5,
		FoodWeight: 2,
		Food:       food.Params{Strategy: food.Clusters, Density: 1, Clusters: food.DefaultClusters},
		Seed:       42,
		Gamma:      DefaultGamma,
		ColorRelax: DefaultColorRelax,
	}
}
