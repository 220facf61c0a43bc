// Package sim owns the simulation context: the field, the agent world, the
// food and mold sources, and the tick driver that advances them.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Config        *config.Config // nil = embedded defaults
	Seed          int64          // 0 = time-based
	Workers       int            // 0 = config value, then GOMAXPROCS
	LogStats      bool           // Output stats via slog
	OutputDir     string         // Directory for CSV output (empty = disabled)
	StatsCallback func(telemetry.WindowStats)
}

// Simulation holds the complete simulation state.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	seed int64

	// Agent storage
	world       *ecs.World
	agentMapper *ecs.Map3[components.Position, components.Rotation, components.Vitals]
	agentFilter *ecs.Filter3[components.Position, components.Rotation, components.Vitals]
	posMap      *ecs.Map1[components.Position]
	rotMap      *ecs.Map1[components.Rotation]
	vitMap      *ecs.Map1[components.Vitals]

	// Grid and sources
	field *systems.Field
	foods []systems.FoodSource
	molds []systems.MoldSource

	// Per-tick parameters
	tunables     Tunables
	params       systems.AgentParams
	decay        systems.TrailDecay
	foodGradient systems.FoodGradient
	moldBlob     systems.MoldBlob
	autoBlob     systems.MoldBlob

	// State
	tick       int32
	paused     bool
	agentCount int

	parallel *parallelState
	commands *CommandQueue

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	fitnessBuf    []float64
	statsCallback func(telemetry.WindowStats)
	logStats      bool
}

// New creates a simulation with an empty plate.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Simulation.Workers
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	s := &Simulation{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,

		field: systems.NewFieldFromConfig(cfg),

		params:       systems.NewAgentParams(cfg),
		decay:        systems.NewTrailDecay(cfg.Trail),
		foodGradient: systems.NewFoodGradient(cfg.Food),
		moldBlob:     systems.NewMoldBlob(cfg.Mold),
		autoBlob:     systems.NewMoldBlob(cfg.AutoSetup.Mold),

		parallel: newParallelState(workers),
		commands: NewCommandQueue(),

		collector:     telemetry.NewCollector(int32(cfg.Telemetry.StatsWindow)),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: outputManager,
		bookmarks:     telemetry.NewBookmarkDetector(10),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}
	s.newWorld()
	s.SetTunables(DefaultTunables(cfg))

	slog.Debug("simulation created",
		"seed", seed,
		"grid_w", cfg.Grid.Width,
		"grid_h", cfg.Grid.Height,
		"plate_radius", s.field.PlateRadius(),
		"workers", s.parallel.numWorkers,
	)

	return s, nil
}

// newWorld replaces the agent world and its mappers with empty ones.
func (s *Simulation) newWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.agentMapper = ecs.NewMap3[components.Position, components.Rotation, components.Vitals](world)
	s.agentFilter = ecs.NewFilter3[components.Position, components.Rotation, components.Vitals](world)
	s.posMap = ecs.NewMap1[components.Position](world)
	s.rotMap = ecs.NewMap1[components.Rotation](world)
	s.vitMap = ecs.NewMap1[components.Vitals](world)
	s.agentCount = 0
}

// Update drains queued commands and, unless paused, runs StepsPerUpdate ticks.
func (s *Simulation) Update() {
	if s.paused {
		s.commands.Drain(s)
		return
	}
	steps := s.cfg.Simulation.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		s.Step()
	}
}

// Step advances exactly one tick: queued commands, all agents, their
// deposits, then one diffusion pass.
func (s *Simulation) Step() {
	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseCommands)
	s.commands.Drain(s)

	s.tick++
	convergence := systems.Convergence(s.tick, s.cfg.Convergence.Horizon)

	s.perfCollector.StartPhase(telemetry.PhaseAgents)
	s.updateAgents(convergence)

	s.perfCollector.StartPhase(telemetry.PhaseDeposits)
	s.applyIntents()

	s.perfCollector.StartPhase(telemetry.PhaseDiffusion)
	s.field.Diffuse(s.decay, convergence)

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry(convergence)

	s.perfCollector.EndTick()
}

// Reset removes all agents and sources, zeroes both grids and the tick counter.
func (s *Simulation) Reset() {
	s.newWorld()
	s.foods = s.foods[:0]
	s.molds = s.molds[:0]
	s.field.Clear()
	s.tick = 0
	s.collector.Reset(0)
	s.bookmarks.Reset()

	slog.Debug("simulation reset")
}

// SetPaused starts or stops the tick loop driven by Update.
func (s *Simulation) SetPaused(paused bool) {
	s.paused = paused
}

// Paused reports whether Update is currently a no-op.
func (s *Simulation) Paused() bool {
	return s.paused
}

// Tick returns the number of completed ticks since the last reset.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Convergence returns the convergence ramp at the current tick.
func (s *Simulation) Convergence() float32 {
	return systems.Convergence(s.tick, s.cfg.Convergence.Horizon)
}

// AgentCount returns the number of live agents.
func (s *Simulation) AgentCount() int {
	return s.agentCount
}

// FoodSources returns the placed food sources. Callers must not modify it.
func (s *Simulation) FoodSources() []systems.FoodSource {
	return s.foods
}

// MoldSources returns the placed mold sources. Callers must not modify it.
func (s *Simulation) MoldSources() []systems.MoldSource {
	return s.molds
}

// Field returns the live field. Callers must treat it as read-only.
func (s *Simulation) Field() *systems.Field {
	return s.field
}

// Commands returns the queue other goroutines use to mutate the simulation.
func (s *Simulation) Commands() *CommandQueue {
	return s.commands
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Seed returns the RNG seed in use.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// PerfStats returns the rolling tick timing.
func (s *Simulation) PerfStats() telemetry.PerfStats {
	return s.perfCollector.Stats()
}

// RecordFrame records frame timing for graphics mode.
func (s *Simulation) RecordFrame() {
	s.perfCollector.RecordFrame()
}

// Agents calls fn for every agent. fn must not retain the pointers.
func (s *Simulation) Agents(fn func(pos *components.Position, rot *components.Rotation, vit *components.Vitals)) {
	query := s.agentFilter.Query()
	for query.Next() {
		pos, rot, vit := query.Get()
		fn(pos, rot, vit)
	}
}

// Close stops the worker pool and closes telemetry output.
func (s *Simulation) Close() error {
	s.parallel.stopWorkers()
	return s.outputManager.Close()
}
