package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/runner"
)

// evalRow is one line of optimize_log.csv. Parameter columns hold the
// clamped values actually simulated.
type evalRow struct {
	Eval           int     `csv:"eval"`
	Fitness        float64 `csv:"fitness"`
	Coverage       float64 `csv:"coverage"`
	SensorAngleDeg float64 `csv:"sensor_angle_deg"`
	SensorDistance float64 `csv:"sensor_distance"`
	TurnDeg        float64 `csv:"turn_deg"`
	Decay          float64 `csv:"decay"`
	Deposit        float64 `csv:"deposit"`
}

func newEvalRow(eval int, fitness, coverage float64, v []float64) evalRow {
	return evalRow{
		Eval:           eval,
		Fitness:        fitness,
		Coverage:       coverage,
		SensorAngleDeg: v[0],
		SensorDistance: v[1],
		TurnDeg:        v[2],
		Decay:          v[3],
		Deposit:        v[4],
	}
}

// evalLog appends rows to a CSV file, writing the header once.
type evalLog struct {
	file   *os.File
	header bool
}

func (l *evalLog) write(row evalRow) error {
	rows := []evalRow{row}
	if !l.header {
		l.header = true
		return gocsv.Marshal(rows, l.file)
	}
	return gocsv.MarshalWithoutHeaders(rows, l.file)
}

// formatDuration formats a duration as HhMMmSSs or MmSSs for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	iterations := flag.Int("iterations", 0, "Iterations per run (0 = use config)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	target := flag.Float64("target", 0.3, "Target fraction of covered cells")
	outputDir := flag.String("output", "", "Output directory for results")
	logFormat := flag.String("log-format", "text", "Log format: json, text or logfmt")
	flag.Parse()

	logger, err := runner.NewLogger(os.Stderr, *logFormat, false)
	if err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	if *outputDir == "" {
		logger.Error("--output is required")
		os.Exit(2)
	}
	if *target <= 0 || *target >= 1 {
		logger.Error("--target must be in (0,1)", "target", *target)
		os.Exit(2)
	}
	if err := run(logger, *configPath, *outputDir, *iterations, *seeds, *maxEvals, *population, *target); err != nil {
		logger.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, outputDir string, iterations, seeds, maxEvals, population int, target float64) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Load base config
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000) + baseCfg.Agents.Seed
	}

	evaluator := NewFitnessEvaluator(params, baseCfg.SimParams(), iterations, evalSeeds,
		target, baseCfg.Telemetry.CoverageThreshold)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	evals := &evalLog{file: logFile}

	evalCount := 0
	bestFitness := invalidFitness
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness || bestParams == nil {
				bestFitness = fitness
				bestParams = clamped
			}

			coverage := evaluator.LastCoverage()
			if err := evals.write(newEvalRow(evalCount, fitness, coverage, clamped)); err != nil {
				logger.Warn("failed to write log row", "error", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			logger.Info("eval",
				"n", evalCount,
				"of", maxEvals,
				"fitness", fitness,
				"coverage", coverage,
				"best", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	logger.Info("starting CMA-ES",
		"params", dim,
		"population", popSize,
		"max_evals", maxEvals,
		"seeds", seeds,
		"iterations", evaluator.iterations,
		"target", target,
	)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		logger.Warn("optimization ended", "error", err)
	}

	// Best params may come from any evaluation, not just the final one
	if bestParams == nil {
		if result == nil {
			return fmt.Errorf("no evaluations completed")
		}
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	logger.Info("optimization complete",
		"evals", evalCount,
		"took", formatDuration(time.Since(startTime)),
		"best_fitness", bestFitness,
	)
	for i, spec := range params.Specs {
		logger.Info("best parameter", "name", spec.Name, "path", spec.Path, "value", bestParams[i])
	}

	bestCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return err
	}
	logger.Info("best config saved", "path", configOutPath)
	return nil
}
