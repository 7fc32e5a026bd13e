// Package sim implements the multi-population trail engine: agents sense
// their own, rival and food signals, turn, move, deposit trail, and the trail
// grids diffuse and decay between steps. A run is a pure function of its
// parameters, seed and optional supplied food field.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/palette"
)

// DefaultGamma is applied during normalization when Params.Gamma is zero.
const DefaultGamma = 0.5

// DefaultColorRelax is the per-deposit fraction by which an agent's carried
// color moves toward the food color under it.
const DefaultColorRelax = 0.05

var (
	ErrInvalidDimensions = errors.New("sim: grid dimensions must be positive")
	ErrNoAgents          = errors.New("sim: agent count must be positive")
	ErrInvalidIterations = errors.New("sim: iteration count must not be negative")
	ErrInvalidDecay      = errors.New("sim: decay factor must be in (0,1]")
	ErrNoPopulations     = errors.New("sim: at least one population is required")
	ErrInvalidFraction   = errors.New("sim: population fraction must be a non-negative number")
	ErrInvalidParam      = errors.New("sim: invalid parameter")
	ErrNoFoodColor       = errors.New("sim: color-carrying run needs a food field with color channels or a food palette")
)

// Population is a named, colored share of the agents with its own trail.
type Population struct {
	Name     string
	Color    palette.RGB
	Fraction float64
}

// Params is the full parameter record of a run. Angles are in radians.
type Params struct {
	Width, Height int
	AgentCount    int
	Iterations    int

	SensorAngle    float64
	SensorDistance float64
	TurnAngle      float64
	StepSize       float64
	DepositAmount  float64
	DecayFactor    float64

	Populations []Population
	Repulsion   float64
	FoodWeight  float64
	Food        food.Params

	Seed int64
	// Gamma is the exponent applied after normalization; zero means
	// DefaultGamma.
	Gamma float64

	// CarryColor gives every agent a color picked up from the food field
	// and accumulates it into three color grids.
	CarryColor bool
	// ColorRelax is zero for DefaultColorRelax.
	ColorRelax float64
}

// Options carries collaborators that are not part of the reproducible
// parameter record.
type Options struct {
	// Food, when set, is used instead of a procedurally generated field.
	// It must match the grid size.
	Food *food.Field
	// Logger receives setup and warning messages; nil uses slog.Default().
	Logger *slog.Logger
	// Workers splits diffusion rows across this many goroutines. Values
	// below 2 keep diffusion on the calling goroutine. Results are identical
	// either way.
	Workers int
	// Phases, when set, is told when each phase of a step begins.
	Phases PhaseRecorder
}

// Phase names reported to a PhaseRecorder.
const (
	PhaseAgents    = "agents"
	PhaseDiffusion = "diffusion"
)

// PhaseRecorder receives phase boundaries, typically for timing.
type PhaseRecorder interface {
	StartPhase(name string)
}

// EffectiveGamma returns Gamma with the default applied.
func (p Params) EffectiveGamma() float64 {
	if p.Gamma == 0 {
		return DefaultGamma
	}
	return p.Gamma
}

// EffectiveColorRelax returns ColorRelax with the default applied.
func (p Params) EffectiveColorRelax() float64 {
	if p.ColorRelax == 0 {
		return DefaultColorRelax
	}
	return p.ColorRelax
}

// Validate checks the parameter record. It allocates nothing and consumes no
// randomness.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	if p.AgentCount <= 0 {
		return fmt.Errorf("%w: got %d", ErrNoAgents, p.AgentCount)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidIterations, p.Iterations)
	}
	if !(p.DecayFactor > 0 && p.DecayFactor <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidDecay, p.DecayFactor)
	}
	if len(p.Populations) == 0 {
		return ErrNoPopulations
	}
	for i, pop := range p.Populations {
		if !(pop.Fraction >= 0) || math.IsInf(pop.Fraction, 0) {
			return fmt.Errorf("%w: population %d (%s) has %v", ErrInvalidFraction, i, pop.Name, pop.Fraction)
		}
	}

	checks := []struct {
		name string
		v    float64
	}{
		{"sensor distance", p.SensorDistance},
		{"step size", p.StepSize},
		{"deposit amount", p.DepositAmount},
		{"gamma", p.Gamma},
	}
	for _, c := range checks {
		if !(c.v >= 0) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidParam, c.name, c.v)
		}
	}
	for _, v := range []float64{p.SensorAngle, p.TurnAngle, p.Repulsion, p.FoodWeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite steering parameter %v", ErrInvalidParam, v)
		}
	}
	if !(p.ColorRelax >= 0 && p.ColorRelax <= 1) {
		return fmt.Errorf("%w: color relax must be in [0,1], got %v", ErrInvalidParam, p.ColorRelax)
	}

	return p.Food.Validate()
}

// checkFood verifies the food source before anything is allocated.
func (p Params) checkFood(supplied *food.Field) error {
	if supplied != nil {
		if err := supplied.Validate(p.Width, p.Height); err != nil {
			return err
		}
		if err := checkUnitRange(supplied); err != nil {
			return err
		}
	} else if p.Food.Strategy == food.Image {
		return food.ErrImageRequired
	}

	if p.CarryColor && p.Food.Palette == "" {
		if supplied == nil || !supplied.HasColor() {
			return ErrNoFoodColor
		}
	}
	return nil
}

// checkUnitRange rejects supplied food values outside [0,1], including NaN.
func checkUnitRange(f *food.Field) error {
	channels := []struct {
		name string
		data []float32
	}{{"value", f.Value}, {"red", f.R}, {"green", f.G}, {"blue", f.B}}
	for _, c := range channels {
		for i, v := range c.data {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("%w: food %s at cell %d is %v, want [0,1]", ErrInvalidParam, c.name, i, v)
			}
		}
	}
	return nil
}
