package telemetry

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pthm-cable/slime/sim"
)

// ErrTooFewSamples is returned when a chart series has fewer than two points.
var ErrTooFewSamples = errors.New("telemetry: mass chart needs at least two samples")

// RenderMassChart draws each population's trail mass over iterations as a
// PNG line chart. history[i] is population i's mass after each step.
func RenderMassChart(w io.Writer, pops []sim.PopulationInfo, history [][]float64) error {
	if len(history) == 0 || len(history[0]) < 2 {
		return ErrTooFewSamples
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(history))
	for i, ys := range history {
		xs := make([]float64, len(ys))
		for k, y := range ys {
			xs[k] = float64(k + 1)
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}

		name := fmt.Sprintf("pop%d", i)
		style := chart.Style{StrokeWidth: 2}
		if i < len(pops) {
			name = pops[i].Name
			c := pops[i].Color
			style.StrokeColor = drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	yAxis := chart.YAxis{Name: "mass"}
	if hi <= lo {
		// A flat series has no range to scale against.
		yAxis.Range = &chart.ContinuousRange{Min: lo, Max: lo + 1}
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis:  chart.XAxis{Name: "iteration"},
		YAxis:  yAxis,
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering mass chart: %w", err)
	}
	return nil
}
