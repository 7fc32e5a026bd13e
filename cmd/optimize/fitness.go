package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/telemetry"
)

// Fitness weights.
const (
	stdWeight = 0.5
	// invalidFitness is returned for vectors the engine rejects. Coverage
	// error is at most 1, so this is always worse than any real run.
	invalidFitness = 10.0
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	base       sim.Params
	seeds      []int64
	target     float64
	threshold  float64
	iterations int
	logger     *slog.Logger

	mu           sync.Mutex
	bestFitness  float64
	lastCoverage float64 // mean coverage from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. target is the coverage to aim
// for and threshold the normalized value a cell must reach to be covered.
func NewFitnessEvaluator(params *ParamVector, base sim.Params, iterations int, seeds []int64, target, threshold float64) *FitnessEvaluator {
	base.Populations = append([]sim.Population(nil), base.Populations...)
	if iterations > 0 {
		base.Iterations = iterations
	}
	return &FitnessEvaluator{
		params:      params,
		base:        base,
		seeds:       seeds,
		target:      target,
		threshold:   threshold,
		iterations:  base.Iterations,
		logger:      slog.New(slog.DiscardHandler),
		bestFitness: math.Inf(1),
	}
}

// LastCoverage returns the mean coverage from the most recent evaluation.
func (fe *FitnessEvaluator) LastCoverage() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCoverage
}

// BestFitness returns the lowest fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	coverage float64
	err      error
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	p := fe.params.paramsFor(fe.base, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSeed(p, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalCoverage float64
	for _, r := range results {
		if r.err != nil {
			fe.logger.Debug("evaluation rejected", "error", r.err)
			return invalidFitness
		}
		totalFitness += r.fitness
		totalCoverage += r.coverage
	}
	n := float64(len(fe.seeds))
	avg := totalFitness / n

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, avg)
	fe.lastCoverage = totalCoverage / n
	fe.mu.Unlock()

	return avg
}

func (pv *ParamVector) paramsFor(base sim.Params, x []float64) sim.Params {
	p := base
	pv.ApplyToParams(&p, x)
	return p
}

// runSeed executes a single headless run and scores its final trails.
func (fe *FitnessEvaluator) runSeed(p sim.Params, seed int64) seedResult {
	p.Seed = seed
	res, err := sim.Simulate(p, sim.Options{Logger: fe.logger})
	if err != nil {
		return seedResult{err: err}
	}
	sums := telemetry.Summarize(res, fe.threshold)
	fitness, coverage := score(sums, fe.target)
	return seedResult{fitness: fitness, coverage: coverage}
}

// score averages |coverage - target| - stdWeight*std over populations.
func score(sums []telemetry.Summary, target float64) (fitness, coverage float64) {
	if len(sums) == 0 {
		return invalidFitness, 0
	}
	for _, s := range sums {
		fitness += math.Abs(s.Coverage-target) - stdWeight*s.Std
		coverage += s.Coverage
	}
	n := float64(len(sums))
	return fitness / n, coverage / n
}
