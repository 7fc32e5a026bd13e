package telemetry

import (
	"github.com/pthm-cable/slime/grid"
	"github.com/pthm-cable/slime/sim"
)

// TrailSource exposes live trail state. *sim.Engine satisfies it.
type TrailSource interface {
	Populations() []sim.PopulationInfo
	Trail(i int) *grid.Grid
}

// Collector accumulates per-step statistics within windows of a fixed number
// of steps and produces one WindowStats per population when flushed. It also
// keeps the per-step trail mass of every population for charting.
type Collector struct {
	windowSteps int
	threshold   float64

	// Current window tracking
	windowStart int
	deposits    []int
	respawns    []int

	mass [][]float64
	buf  []float64
}

// NewCollector creates a collector for the given number of populations.
// windowSteps is clamped to at least 1; threshold is the peak-relative value
// a cell must reach to count as covered.
func NewCollector(populations, windowSteps int, threshold float64) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{
		windowSteps: windowSteps,
		threshold:   threshold,
		deposits:    make([]int, populations),
		respawns:    make([]int, populations),
		mass:        make([][]float64, populations),
	}
}

// Record adds one step's counters and samples each population's trail mass.
func (c *Collector) Record(s sim.StepStats, src TrailSource) {
	for i := range c.deposits {
		c.deposits[i] += s.Deposits[i]
		c.respawns[i] += s.Respawns[i]
		c.mass[i] = append(c.mass[i], float64(src.Trail(i).Mass()))
	}
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(iteration int) bool {
	return iteration-c.windowStart >= c.windowSteps
}

// Flush measures every trail, produces one WindowStats per population and
// resets counters for the next window.
func (c *Collector) Flush(iteration int, src TrailSource) []WindowStats {
	pops := src.Populations()
	steps := iteration - c.windowStart
	out := make([]WindowStats, len(pops))

	for i, pop := range pops {
		var ts TrailStats
		ts, c.buf = MeasureTrail(src.Trail(i), c.threshold, c.buf)

		var rate float64
		if steps > 0 && pop.Agents > 0 {
			rate = float64(c.respawns[i]) / float64(steps*pop.Agents)
		}

		out[i] = WindowStats{
			WindowStart: c.windowStart,
			WindowEnd:   iteration,
			Population:  pop.Name,
			Agents:      pop.Agents,
			Deposits:    c.deposits[i],
			Respawns:    c.respawns[i],
			RespawnRate: rate,
			Mass:        ts.Mass,
			Peak:        ts.Peak,
			Coverage:    ts.Coverage,
			Mean:        ts.Dist.Mean,
			Std:         ts.Dist.Std,
			P10:         ts.Dist.P10,
			P50:         ts.Dist.P50,
			P90:         ts.Dist.P90,
		}
		c.deposits[i] = 0
		c.respawns[i] = 0
	}

	c.windowStart = iteration
	return out
}

// MassHistory returns the recorded per-step mass of each population. The
// slices are owned by the collector.
func (c *Collector) MassHistory() [][]float64 {
	return c.mass
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int {
	return c.windowSteps
}
