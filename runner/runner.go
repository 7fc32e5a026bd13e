// Package runner drives a configured simulation run end to end: stepping,
// telemetry windows, an optional time-lapse and the final image and CSV
// outputs.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/render"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/telemetry"
)

// Options configures a run. Zero values fall back to the config.
type Options struct {
	Config *config.Config
	// Food replaces the procedural food field, typically from LoadFoodImage.
	Food *food.Field
	// OutputDir receives trail.png, CSV logs, mass.png, config.yaml and the
	// time-lapse. Empty disables file output.
	OutputDir string
	Logger    *slog.Logger
}

// Runner owns an engine and its observers for one run.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	params sim.Params
	ropts  render.Options

	engine    *sim.Engine
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	timelapse *timelapse
	logStats  bool
}

// New builds the engine and opens every output. The caller must Close the
// runner.
func New(opts Options) (*Runner, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("runner: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		cfg:      cfg,
		logger:   logger,
		params:   cfg.SimParams(),
		ropts:    cfg.RenderOptions(),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats: cfg.Run.LogEvery > 0,
	}

	engine, err := sim.New(r.params, sim.Options{
		Food:    opts.Food,
		Logger:  logger,
		Workers: cfg.Run.Workers,
		Phases:  r.perf,
	})
	if err != nil {
		return nil, err
	}
	r.engine = engine

	window := cfg.Run.LogEvery
	if window <= 0 {
		window = max(r.params.Iterations, 1)
	}
	pops := engine.NumPopulations()
	r.collector = telemetry.NewCollector(pops, window, cfg.Telemetry.CoverageThreshold)
	r.bookmarks = telemetry.NewBookmarkDetector(pops, 8, cfg.Telemetry.CoverageThreshold)

	if r.output, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.output.WriteConfig(cfg); err != nil {
		r.Close()
		return nil, err
	}

	if every := cfg.Run.FrameEvery; every > 0 && r.output != nil {
		tl, err := newTimelapse(r.output.Path("timelapse.avi"), r.params.Width, r.params.Height, every)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.timelapse = tl
	}
	return r, nil
}

// Engine returns the underlying engine.
func (r *Runner) Engine() *sim.Engine {
	return r.engine
}

// Run steps until the configured iteration count is reached or ctx is
// cancelled, then writes the final outputs and returns the result. A
// cancelled run still writes outputs for the iterations completed.
func (r *Runner) Run(ctx context.Context) (*sim.Result, error) {
	e := r.engine
	r.logger.Info("starting simulation",
		"seed", r.params.Seed,
		"size", fmt.Sprintf("%dx%d", r.params.Width, r.params.Height),
		"agents", r.params.AgentCount,
		"iterations", r.params.Iterations,
		"populations", e.NumPopulations(),
		"food", r.params.Food.Strategy.String(),
	)

	var runErr error
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run interrupted", "iteration", e.Iteration(), "error", err)
			runErr = err
			break
		}

		r.perf.StartStep()
		e.Step()

		r.perf.StartPhase(telemetry.PhaseTelemetry)
		r.collector.Record(e.Stats(), e)
		if err := r.flushTelemetry(); err != nil {
			return nil, err
		}

		if r.timelapse != nil && r.timelapse.due(e.Iteration()) {
			r.perf.StartPhase(telemetry.PhaseFrame)
			if err := r.timelapse.add(e.Result(), r.ropts); err != nil {
				return nil, err
			}
		}
		r.perf.EndStep()
	}

	res := e.Result()
	if err := r.writeFinal(res); err != nil {
		return nil, err
	}
	r.logger.Info("simulation finished", "iterations", res.Iterations)
	return res, runErr
}

// writeFinal renders the result and writes the summary outputs.
func (r *Runner) writeFinal(res *sim.Result) error {
	if r.output == nil {
		return nil
	}
	img, err := render.Render(res, r.ropts)
	if err != nil {
		return err
	}
	path := r.output.Path("trail.png")
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	r.logger.Info("wrote image", "path", path, "mode", render.SelectMode(res).String())

	if err := r.output.WriteSummary(telemetry.Summarize(res, r.cfg.Telemetry.CoverageThreshold)); err != nil {
		return err
	}
	if err := r.output.WriteMassChart(res.Populations, r.collector.MassHistory()); err != nil {
		// Too few iterations for a chart is not worth failing the run.
		r.logger.Warn("skipping mass chart", "error", err)
	}
	return nil
}

// Close releases the engine workers and closes every output file.
func (r *Runner) Close() error {
	if r.engine != nil {
		r.engine.Close()
	}
	var firstErr error
	if r.timelapse != nil {
		firstErr = r.timelapse.close()
	}
	if err := r.output.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
