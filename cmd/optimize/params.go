// Package main provides CMA-ES optimization of steering and trail
// parameters toward a target trail coverage.
package main

import (
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

// ParamSpec bounds one searched parameter. Path is the YAML key it maps to.
type ParamSpec struct {
	Name     string
	Path     string
	Min, Max float64
	Default  float64
}

// ParamVector is the ordered search space.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the searched steering and trail parameters.
// Defaults follow sim.DefaultParams.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Sensing
			{Name: "sensor_angle_deg", Path: "sensor.angle_deg", Min: 5, Max: 90, Default: 22.5},
			{Name: "sensor_distance", Path: "sensor.distance", Min: 1, Max: 30, Default: 9},
			// Steering
			{Name: "turn_deg", Path: "motion.turn_deg", Min: 5, Max: 90, Default: 45},
			// Trail
			{Name: "decay", Path: "trail.decay", Min: 0.5, Max: 0.99, Default: 0.9},
			{Name: "deposit", Path: "trail.deposit", Min: 0.5, Max: 20, Default: 5},
		},
	}
}

func (s ParamSpec) span() float64 { return s.Max - s.Min }

// Dim is the search-space dimension.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// each builds a vector by applying f to every ParamSpec and its input value.
func (pv *ParamVector) each(in []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		var v float64
		if in != nil {
			v = in[i]
		}
		out[i] = f(spec, v)
	}
	return out
}

// DefaultVector returns every parameter default.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto [0,1] per parameter bounds, which is the space
// CMA-ES searches.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / s.span() })
}

// Denormalize is the inverse of Normalize. Results may fall outside the
// bounds; see Clamp.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(unit, func(s ParamSpec, u float64) float64 { return s.Min + u*s.span() })
}

// Clamp limits each value to its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(v, func(s ParamSpec, x float64) float64 { return min(max(x, s.Min), s.Max) })
}

// ApplyToParams writes clamped values into p. Order must match Specs.
func (pv *ParamVector) ApplyToParams(p *sim.Params, values []float64) {
	c := pv.Clamp(values)
	p.SensorAngle = sim.Radians(c[0])
	p.SensorDistance = c[1]
	p.TurnAngle = sim.Radians(c[2])
	p.DecayFactor = c[3]
	p.DepositAmount = c[4]
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	p := cfg.SimParams()
	pv.ApplyToParams(&p, values)
	cfg.ApplyParams(p)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Sensor.AngleDeg,
		cfg.Sensor.Distance,
		cfg.Motion.TurnDeg,
		cfg.Trail.Decay,
		cfg.Trail.Deposit,
	}
}
