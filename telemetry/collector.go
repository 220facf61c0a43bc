package telemetry

import "github.com/pthm-cable/slime/systems"

// Collector accumulates per-agent outcomes within tick windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	lost        int
	exploring   int
	normal      int
	bounces     int
	improving   int
	depositMass float64
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// RecordOutcome records one agent update.
func (c *Collector) RecordOutcome(mode systems.Mode, bounced, improving bool, deposit float32) {
	switch mode {
	case systems.ModeLost:
		c.lost++
	case systems.ModeExploring:
		c.exploring++
	default:
		c.normal++
	}
	if bounced {
		c.bounces++
	}
	if improving {
		c.improving++
	}
	if deposit > 0 {
		c.depositMass += float64(deposit)
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population holds the counts sampled at window end.
type Population struct {
	Agents      int
	FoodSources int
	MoldSources int
	FoodReached int
	Convergence float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population, fitness []float64, trail TrailSample) WindowStats {
	fMean, fP10, fP50, fP90 := ComputeFitnessStats(fitness)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Convergence:     pop.Convergence,

		Agents:      pop.Agents,
		FoodSources: pop.FoodSources,
		MoldSources: pop.MoldSources,
		FoodReached: pop.FoodReached,

		TrailMass:     trail.Mass,
		TrailMean:     trail.Mean,
		TrailStd:      trail.Std,
		OccupiedCells: trail.Occupied,
		VeinCells:     trail.Veins,
		OccupiedP50:   trail.P50,
		OccupiedP90:   trail.P90,

		FitnessMean: fMean,
		FitnessP10:  fP10,
		FitnessP50:  fP50,
		FitnessP90:  fP90,

		Lost:        c.lost,
		Exploring:   c.exploring,
		Normal:      c.normal,
		Bounces:     c.bounces,
		Improving:   c.improving,
		DepositMass: c.depositMass,
	}

	c.Reset(currentTick)
	return stats
}

// Reset clears the counters and starts a new window at tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.lost = 0
	c.exploring = 0
	c.normal = 0
	c.bounces = 0
	c.improving = 0
	c.depositMass = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
