package telemetry

import "github.com/pthm-cable/slime/sim"

// Summary describes one population of a finished run.
type Summary struct {
	Population string  `csv:"population"`
	Agents     int     `csv:"agents"`
	Iterations int     `csv:"iterations"`
	Seed       int64   `csv:"seed"`
	Coverage   float64 `csv:"coverage"`
	Mean       float64 `csv:"mean"`
	Std        float64 `csv:"std"`
	P50        float64 `csv:"p50"`
	P90        float64 `csv:"p90"`
}

// Summarize measures each normalized trail of res. threshold is the value a
// cell must reach to count as covered.
func Summarize(res *sim.Result, threshold float64) []Summary {
	out := make([]Summary, len(res.Trails))
	var buf []float64
	for i, g := range res.Trails {
		var ts TrailStats
		ts, buf = MeasureTrail(g, threshold, buf)
		out[i] = Summary{
			Population: res.Populations[i].Name,
			Agents:     res.Populations[i].Agents,
			Iterations: res.Iterations,
			Seed:       res.Seed,
			Coverage:   ts.Coverage,
			Mean:       ts.Dist.Mean,
			Std:        ts.Dist.Std,
			P50:        ts.Dist.P50,
			P90:        ts.Dist.P90,
		}
	}
	return out
}
