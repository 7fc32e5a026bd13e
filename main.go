package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/runner"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	iterations := flag.Int("iterations", 0, "Iterations to run (0 = use config)")
	outputDir := flag.String("output-dir", "out", "Output directory for image, CSV logs and config snapshot (empty = none)")
	foodImage := flag.String("food-image", "", "PNG/JPEG to use as the food field")
	paletteName := flag.String("palette", "", "Render palette for single-population runs (empty = use config)")
	workers := flag.Int("workers", -1, "Diffusion workers (-1 = use config)")
	frames := flag.Int("frames", 0, "Write a time-lapse frame every N iterations (0 = use config)")
	logFormat := flag.String("log-format", "json", "Log format: json, text or logfmt")
	logEvery := flag.Int("log-every", -1, "Log stats every N iterations (-1 = use config, 0 = off)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	logger, err := runner.NewLogger(os.Stdout, *logFormat, *verbose)
	if err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Flags override config
	if *seed != 0 {
		cfg.Agents.Seed = *seed
	}
	if *iterations > 0 {
		cfg.Agents.Iterations = *iterations
	}
	if *paletteName != "" {
		cfg.Render.Palette = *paletteName
	}
	if *workers >= 0 {
		cfg.Run.Workers = *workers
	}
	if *frames > 0 {
		cfg.Run.FrameEvery = *frames
	}
	if *logEvery >= 0 {
		cfg.Run.LogEvery = *logEvery
	}

	var field *food.Field
	if *foodImage != "" {
		field, err = runner.LoadFoodImage(*foodImage, cfg.Grid.Width, cfg.Grid.Height)
		if err != nil {
			slog.Error("failed to load food image", "error", err)
			os.Exit(1)
		}
		cfg.Food.Strategy = food.Image
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := runner.New(runner.Options{
		Config:    cfg,
		Food:      field,
		OutputDir: *outputDir,
		Logger:    logger,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	_, runErr := r.Run(ctx)
	if err := r.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
		os.Exit(1)
	}
	if runErr != nil {
		slog.Error("simulation stopped", "error", runErr)
		os.Exit(1)
	}
}
