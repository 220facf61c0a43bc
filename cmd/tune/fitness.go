package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

// Score summarises how well one parameter set grew a network.
type Score struct {
	Contrast     float64 // Mean trail on mold-food lines over mean trail far from them
	LineFraction float64 // Share of line samples above the vein threshold
	FoodReached  float64 // Share of food sources carrying a trail at their centre
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	foodCount  int
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastScore   Score
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, foodCount int, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		foodCount:   foodCount,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastScore returns the mean score from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Every seed runs in its own goroutine on the same parameters.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	scores := make([]Score, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			scores[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var mean Score
	for _, s := range scores {
		mean.Contrast += s.Contrast
		mean.LineFraction += s.LineFraction
		mean.FoodReached += s.FoodReached
	}
	n := float64(len(scores))
	mean.Contrast /= n
	mean.LineFraction /= n
	mean.FoodReached /= n

	fitness := computeFitness(mean)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastScore = mean
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes one headless auto-setup run and scores the
// trail it leaves behind. A run that fails to start scores zero.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) Score {
	s, err := sim.New(sim.Options{
		Config:  cfg.Clone(),
		Seed:    seed,
		Workers: 1,
	})
	if err != nil {
		return Score{}
	}
	defer s.Close()

	s.AutoSetup(fe.foodCount)
	for s.Tick() < fe.maxTicks {
		s.Step()
	}

	report := s.VeinReport()
	score := Score{
		Contrast:     report.Contrast,
		LineFraction: report.LineFraction,
	}
	if foods := len(s.FoodSources()); foods > 0 {
		score.FoodReached = float64(s.FoodReached()) / float64(foods)
	}
	return score
}

// computeFitness turns a score into a value to minimise.
// Contrast dominates; connecting more food sources adds up to 50%.
func computeFitness(s Score) float64 {
	return -(s.Contrast * (1 + 0.5*s.FoodReached))
}
