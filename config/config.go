// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/render"
	"github.com/pthm-cable/slime/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidColor is returned for a population color that is not three
// components in 0..255.
var ErrInvalidColor = errors.New("config: population color must be [r, g, b] with components in 0..255")

// Config holds all simulation configuration parameters.
type Config struct {
	Grid        GridConfig         `yaml:"grid"`
	Agents      AgentsConfig       `yaml:"agents"`
	Sensor      SensorConfig       `yaml:"sensor"`
	Motion      MotionConfig       `yaml:"motion"`
	Trail       TrailConfig        `yaml:"trail"`
	Populations []PopulationConfig `yaml:"populations"`
	Interaction InteractionConfig  `yaml:"interaction"`
	Food        food.Params        `yaml:"food"`
	Color       ColorConfig        `yaml:"color"`
	Render      render.Options     `yaml:"render"`
	Run         RunConfig          `yaml:"run"`
	Telemetry   TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the simulation grid size in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AgentsConfig holds agent count, run length and seed.
type AgentsConfig struct {
	Count      int   `yaml:"count"`
	Iterations int   `yaml:"iterations"`
	Seed       int64 `yaml:"seed"`
}

// SensorConfig holds sensor geometry.
type SensorConfig struct {
	AngleDeg float64 `yaml:"angle_deg"` // Offset of the side sensors from the heading
	Distance float64 `yaml:"distance"`  // Cells ahead of the agent
}

// MotionConfig holds steering and movement parameters.
type MotionConfig struct {
	TurnDeg float64 `yaml:"turn_deg"`
	Step    float64 `yaml:"step"` // Cells moved per iteration
}

// TrailConfig holds deposit and diffusion parameters.
type TrailConfig struct {
	Deposit float64 `yaml:"deposit"`
	Decay   float64 `yaml:"decay"` // Multiplier applied after diffusion, in (0,1]
	Gamma   float64 `yaml:"gamma"` // 0 = sim.DefaultGamma
}

// PopulationConfig describes one population.
type PopulationConfig struct {
	Name     string  `yaml:"name"`
	Color    []int   `yaml:"color,flow"` // [r, g, b]
	Fraction float64 `yaml:"fraction"`
}

// InteractionConfig holds cross-population and food steering weights.
type InteractionConfig struct {
	Repulsion  float64 `yaml:"repulsion"`
	FoodWeight float64 `yaml:"food_weight"`
}

// ColorConfig holds carried-color parameters.
type ColorConfig struct {
	Carry bool    `yaml:"carry"`
	Relax float64 `yaml:"relax"` // 0 = sim.DefaultColorRelax
}

// RunConfig holds execution settings that do not affect results.
type RunConfig struct {
	Workers    int `yaml:"workers"`     // Diffusion workers (<=1 = sequential)
	FrameEvery int `yaml:"frame_every"` // Time-lapse frame interval (0 = off)
	LogEvery   int `yaml:"log_every"`   // Progress log interval (0 = off)
}

// TelemetryConfig holds statistics collection parameters.
type TelemetryConfig struct {
	PerfWindow        int     `yaml:"perf_window"`        // Steps in the rolling perf window
	CoverageThreshold float64 `yaml:"coverage_threshold"` // Normalized value counted as covered
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SensorAngle float64 // Sensor.AngleDeg in radians
	TurnAngle   float64 // Motion.TurnDeg in radians
	Populations []sim.Population
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; a populations list
		// replaces the default list as a whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.SensorAngle = sim.Radians(c.Sensor.AngleDeg)
	c.Derived.TurnAngle = sim.Radians(c.Motion.TurnDeg)

	c.Derived.Populations = make([]sim.Population, len(c.Populations))
	for i, pc := range c.Populations {
		rgb, err := parseColor(pc.Color)
		if err != nil {
			return fmt.Errorf("population %d (%s): %w", i, pc.Name, err)
		}
		name := pc.Name
		if name == "" {
			name = fmt.Sprintf("pop%d", i)
		}
		c.Derived.Populations[i] = sim.Population{Name: name, Color: rgb, Fraction: pc.Fraction}
	}
	return nil
}

func parseColor(c []int) (palette.RGB, error) {
	if len(c) != 3 {
		return palette.RGB{}, fmt.Errorf("%w: got %v", ErrInvalidColor, c)
	}
	for _, v := range c {
		if v < 0 || v > 255 {
			return palette.RGB{}, fmt.Errorf("%w: got %v", ErrInvalidColor, c)
		}
	}
	return palette.RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}, nil
}

// SimParams converts the configuration into simulation parameters. Range
// checks are left to sim.Params.Validate.
func (c *Config) SimParams() sim.Params {
	pops := make([]sim.Population, len(c.Derived.Populations))
	copy(pops, c.Derived.Populations)
	return sim.Params{
		Width:          c.Grid.Width,
		Height:         c.Grid.Height,
		AgentCount:     c.Agents.Count,
		Iterations:     c.Agents.Iterations,
		SensorAngle:    c.Derived.SensorAngle,
		SensorDistance: c.Sensor.Distance,
		TurnAngle:      c.Derived.TurnAngle,
		StepSize:       c.Motion.Step,
		DepositAmount:  c.Trail.Deposit,
		DecayFactor:    c.Trail.Decay,
		Populations:    pops,
		Repulsion:      c.Interaction.Repulsion,
		FoodWeight:     c.Interaction.FoodWeight,
		Food:           c.Food,
		Seed:           c.Agents.Seed,
		Gamma:          c.Trail.Gamma,
		CarryColor:     c.Color.Carry,
		ColorRelax:     c.Color.Relax,
	}
}

// RenderOptions returns the renderer settings.
func (c *Config) RenderOptions() render.Options {
	return c.Render
}

// ApplyParams writes the steering and trail fields of p back into the
// configuration, converting angles to degrees.
func (c *Config) ApplyParams(p sim.Params) {
	c.Sensor.AngleDeg = p.SensorAngle * 180 / math.Pi
	c.Sensor.Distance = p.SensorDistance
	c.Motion.TurnDeg = p.TurnAngle * 180 / math.Pi
	c.Motion.Step = p.StepSize
	c.Trail.Deposit = p.DepositAmount
	c.Trail.Decay = p.DecayFactor
	c.Derived.SensorAngle = p.SensorAngle
	c.Derived.TurnAngle = p.TurnAngle
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
