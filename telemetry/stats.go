// Package telemetry provides trail statistics, milestones, performance timing
// and CSV/chart output for simulation runs.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/slime/grid"
)

// WindowStats holds one population's statistics at the end of a window.
type WindowStats struct {
	WindowStart int    `csv:"-"`
	WindowEnd   int    `csv:"window_end"`
	Population  string `csv:"population"`
	Agents      int    `csv:"agents"`

	// Events during window
	Deposits    int     `csv:"deposits"`
	Respawns    int     `csv:"respawns"`
	RespawnRate float64 `csv:"respawn_rate"` // Respawns per agent per step

	// Trail state at window end
	Mass     float64 `csv:"mass"`
	Peak     float64 `csv:"peak"`
	Coverage float64 `csv:"coverage"` // Fraction of cells at or above the threshold

	// Distribution of peak-normalized cell values
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Describe computes the population mean and standard deviation and the
// 10th, 50th and 90th percentiles. values is sorted in place.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	slices.Sort(values)
	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(values, 0.10),
		P50:  Percentile(values, 0.50),
		P90:  Percentile(values, 0.90),
	}
}

// TrailStats holds whole-grid measurements of one trail.
type TrailStats struct {
	Mass     float64
	Peak     float64
	Coverage float64
	Dist     Distribution
}

// MeasureTrail measures g. Cell values are divided by the grid peak before
// the distribution and coverage are computed, so live and normalized grids
// compare directly. buf is reused when large enough and may be nil.
func MeasureTrail(g *grid.Grid, threshold float64, buf []float64) (TrailStats, []float64) {
	ts := TrailStats{Mass: float64(g.Mass()), Peak: float64(g.Max())}
	buf = slices.Grow(buf[:0], len(g.Data))
	if ts.Peak <= 0 {
		for range g.Data {
			buf = append(buf, 0)
		}
		ts.Dist = Describe(buf)
		return ts, buf
	}

	inv := 1 / ts.Peak
	covered := 0
	for _, v := range g.Data {
		n := float64(v) * inv
		if n >= threshold {
			covered++
		}
		buf = append(buf, n)
	}
	ts.Coverage = float64(covered) / float64(len(g.Data))
	ts.Dist = Describe(buf)
	return ts, buf
}

// Coverage returns the fraction of values at or above threshold.
func Coverage(data []float32, threshold float32) float64 {
	if len(data) == 0 {
		return 0
	}
	n := 0
	for _, v := range data {
		if v >= threshold {
			n++
		}
	}
	return float64(n) / float64(len(data))
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", s.WindowEnd),
		slog.String("population", s.Population),
		slog.Int("deposits", s.Deposits),
		slog.Int("respawns", s.Respawns),
		slog.Float64("mass", s.Mass),
		slog.Float64("coverage", s.Coverage),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
	)
}

// Log writes the window stats to logger at info level.
func (s WindowStats) Log(logger *slog.Logger) {
	logger.Info("stats",
		"window_end", s.WindowEnd,
		"population", s.Population,
		"agents", s.Agents,
		"deposits", s.Deposits,
		"respawns", s.Respawns,
		"respawn_rate", s.RespawnRate,
		"mass", s.Mass,
		"peak", s.Peak,
		"coverage", s.Coverage,
		"mean", s.Mean,
		"std", s.Std,
	)
}
