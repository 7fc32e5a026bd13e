package sim

import (
	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/grid"
	"github.com/pthm-cable/slime/palette"
)

// PopulationInfo describes one population of a finished run.
type PopulationInfo struct {
	Name   string
	Color  palette.RGB
	Agents int
}

// Result is the normalized outcome of a run. It does not share buffers with
// the engine that produced it, except Food, which is never modified.
type Result struct {
	Width, Height int
	Seed          int64
	Iterations    int
	Gamma         float64

	Populations []PopulationInfo
	// Trails holds one grid per population with values in [0,1]. A
	// population that deposited anything has a maximum of exactly 1.
	Trails []*grid.Grid
	Food   *food.Field
	// Color holds the R, G and B accumulators normalized by their shared
	// per-cell maximum, or nil when the run did not carry color.
	Color []*grid.Grid
}

// HasColor reports whether the result carries color accumulators.
func (r *Result) HasColor() bool {
	return len(r.Color) == 3
}

// Result builds a normalized snapshot of the current state. The engine's own
// buffers are copied, not modified, so Result can be called between steps.
func (e *Engine) Result() *Result {
	gamma := e.p.EffectiveGamma()
	res := &Result{
		Width:       e.p.Width,
		Height:      e.p.Height,
		Seed:        e.p.Seed,
		Iterations:  e.iter,
		Gamma:       gamma,
		Populations: e.Populations(),
		Trails:      make([]*grid.Grid, len(e.trails)),
		Food:        e.food,
	}
	for i, t := range e.trails {
		g := t.Clone()
		g.Normalize(gamma)
		res.Trails[i] = g
	}
	if e.color != nil {
		res.Color = make([]*grid.Grid, 3)
		for c := range e.color {
			res.Color[c] = e.color[c].Clone()
		}
		grid.NormalizeShared(res.Color[0], res.Color[1], res.Color[2], gamma)
	}
	return res
}

// Simulate runs a full simulation and returns its result.
func Simulate(p Params, opts Options) (*Result, error) {
	e, err := New(p, opts)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	e.Run()
	return e.Result(), nil
}
