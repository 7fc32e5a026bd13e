package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/render"
	"github.com/pthm-cable/slime/sim"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsMatchSimDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := cfg.SimParams()
	want := sim.DefaultParams()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SimParams() = %+v\nwant %+v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestDefaultRenderOptions(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := render.Options{
		Palette:         "magma",
		AmbientRadius:   render.DefaultAmbientRadius,
		AmbientStrength: render.DefaultAmbientStrength,
	}
	if got := cfg.RenderOptions(); got != want {
		t.Errorf("RenderOptions() = %+v, want %+v", got, want)
	}
	if cfg.Telemetry.PerfWindow <= 0 {
		t.Errorf("perf window = %d, want positive", cfg.Telemetry.PerfWindow)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := writeFile(t, `
agents:
  seed: 7
sensor:
  angle_deg: 45
populations:
  - name: red
    color: [255, 0, 0]
    fraction: 0.5
  - color: [0, 0, 255]
    fraction: 0.5
food:
  strategy: veins
color:
  carry: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.SimParams()
	if p.Seed != 7 {
		t.Errorf("seed = %d, want 7", p.Seed)
	}
	if p.AgentCount != 4000 {
		t.Errorf("agent count = %d, want default 4000", p.AgentCount)
	}
	if math.Abs(p.SensorAngle-math.Pi/4) > 1e-12 {
		t.Errorf("sensor angle = %v rad, want pi/4", p.SensorAngle)
	}
	if p.Food.Strategy != food.Veins || p.Food.Clusters != 5 {
		t.Errorf("food = %+v, want veins with default clusters", p.Food)
	}
	if !p.CarryColor {
		t.Error("carry color not applied")
	}

	want := []sim.Population{
		{Name: "red", Color: palette.RGB{R: 255}, Fraction: 0.5},
		{Name: "pop1", Color: palette.RGB{B: 255}, Fraction: 0.5},
	}
	if !reflect.DeepEqual(p.Populations, want) {
		t.Errorf("populations = %+v, want %+v", p.Populations, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"short color", "populations:\n  - color: [1, 2]\n    fraction: 1\n", ErrInvalidColor},
		{"color out of range", "populations:\n  - color: [1, 2, 300]\n    fraction: 1\n", ErrInvalidColor},
		{"unknown strategy", "food:\n  strategy: spiral\n", nil},
		{"malformed yaml", "grid: [1, 2\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLReloads(t *testing.T) {
	cfg, err := Load(writeFile(t, "food:\n  strategy: grid\n  palette: viridis\ntrail:\n  decay: 0.8\n"))
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(out); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if !reflect.DeepEqual(cfg.SimParams(), again.SimParams()) {
		t.Errorf("reloaded params differ:\n%+v\n%+v", cfg.SimParams(), again.SimParams())
	}
	if again.Food.Strategy != food.Lattice {
		t.Errorf("strategy = %v, want grid", again.Food.Strategy)
	}
}

func TestApplyParams(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.SimParams()
	p.SensorAngle *= 2
	p.DecayFactor = 0.75
	p.SensorDistance = 12

	cfg.ApplyParams(p)
	if math.Abs(cfg.Sensor.AngleDeg-45) > 1e-9 {
		t.Errorf("angle_deg = %v, want 45", cfg.Sensor.AngleDeg)
	}
	got := cfg.SimParams()
	if got.SensorAngle != p.SensorAngle || got.DecayFactor != 0.75 || got.SensorDistance != 12 {
		t.Errorf("SimParams after apply = %+v", got)
	}
}

func TestSimParamsCopiesPopulations(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.SimParams()
	p.Populations[0].Fraction = 0
	if cfg.SimParams().Populations[0].Fraction != 1 {
		t.Error("SimParams shares its population slice with the config")
	}
}

func TestInitAndCfg(t *testing.T) {
	defer func() { global = nil }()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Cfg() before Init should panic")
			}
		}()
		global = nil
		Cfg()
	}()

	MustInit("")
	if Cfg().Grid.Width != 256 {
		t.Errorf("grid width = %d, want 256", Cfg().Grid.Width)
	}
}
