package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/slime/grid"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	d := Describe(values)

	if math.Abs(d.Mean-0.55) > 1e-9 {
		t.Errorf("mean = %v, want 0.55", d.Mean)
	}
	// Population standard deviation of 0.1..1.0.
	if math.Abs(d.Std-0.28723) > 1e-4 {
		t.Errorf("std = %v, want ~0.2872", d.Std)
	}
	if math.Abs(d.P10-0.19) > 0.001 || math.Abs(d.P50-0.55) > 0.001 || math.Abs(d.P90-0.91) > 0.001 {
		t.Errorf("percentiles = %v %v %v, want 0.19 0.55 0.91", d.P10, d.P50, d.P90)
	}
	if values[0] != 0.1 {
		t.Error("Describe should sort its input")
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("Describe(nil) = %+v, want zero", d)
	}
}

func TestMeasureTrail(t *testing.T) {
	g := grid.New(4, 1)
	copy(g.Data, []float32{0, 2, 4, 8})

	ts, buf := MeasureTrail(g, 0.5, nil)
	if ts.Mass != 14 || ts.Peak != 8 {
		t.Errorf("mass/peak = %v/%v, want 14/8", ts.Mass, ts.Peak)
	}
	if ts.Coverage != 0.5 {
		t.Errorf("coverage = %v, want 0.5", ts.Coverage)
	}
	if math.Abs(ts.Dist.Mean-0.4375) > 1e-9 {
		t.Errorf("mean = %v, want 0.4375", ts.Dist.Mean)
	}

	zero := grid.New(4, 1)
	ts, _ = MeasureTrail(zero, 0.5, buf)
	if ts.Peak != 0 || ts.Coverage != 0 || ts.Dist.Mean != 0 {
		t.Errorf("zero grid stats = %+v", ts)
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name      string
		data      []float32
		threshold float32
		want      float64
	}{
		{"empty", nil, 0.1, 0},
		{"none", []float32{0, 0.05}, 0.1, 0},
		{"inclusive", []float32{0.1, 0.2, 0, 0}, 0.1, 0.5},
		{"all", []float32{1, 1}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coverage(tt.data, tt.threshold); got != tt.want {
				t.Errorf("Coverage() = %v, want %v", got, tt.want)
			}
		})
	}
}
