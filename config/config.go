// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Grid        GridConfig        `yaml:"grid"`
	Agents      AgentsConfig      `yaml:"agents"`
	Sensing     SensingConfig     `yaml:"sensing"`
	Convergence ConvergenceConfig `yaml:"convergence"`
	Trail       TrailConfig       `yaml:"trail"`
	Food        FoodConfig        `yaml:"food"`
	Mold        MoldConfig        `yaml:"mold"`
	AutoSetup   AutoSetupConfig   `yaml:"auto_setup"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Server      ServerConfig      `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"`
}

// GridConfig holds the field dimensions and the plate inset.
type GridConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	BoundaryMargin float64 `yaml:"boundary_margin"` // Plate radius = min(w,h)/2 - this
}

// AgentsConfig holds agent movement and spawn parameters.
type AgentsConfig struct {
	PerSource      int     `yaml:"per_source"`
	StepSize       float64 `yaml:"step_size"`
	RotationAngle  float64 `yaml:"rotation_angle"` // Radians per turn decision
	DepositAmount  float64 `yaml:"deposit_amount"`
	SpawnRadius    float64 `yaml:"spawn_radius"`
	BouncePenalty  float64 `yaml:"bounce_penalty"`
	BounceJitter   float64 `yaml:"bounce_jitter"`
	ExploreJumpP   float64 `yaml:"explore_jump_p"`
	LostTurnFactor float64 `yaml:"lost_turn_factor"`
}

// SensingConfig holds sensor geometry and weighting.
type SensingConfig struct {
	Distance          float64 `yaml:"distance"`
	Angle             float64 `yaml:"angle"`
	SampleRadius      int     `yaml:"sample_radius"` // 2 = 5x5 neighbourhood
	TrailWeightBase   float64 `yaml:"trail_weight_base"`
	TrailWeightGrowth float64 `yaml:"trail_weight_growth"`
	TrailCap          float64 `yaml:"trail_cap"`
	FoodAttraction    float64 `yaml:"food_attraction"`
}

// ConvergenceConfig holds the exploration-to-exploitation ramp.
type ConvergenceConfig struct {
	Horizon int `yaml:"horizon"` // Ticks until convergence reaches 1
}

// TrailConfig holds diffusion, decay and pruning parameters.
type TrailConfig struct {
	DiffuseRate   float64 `yaml:"diffuse_rate"`
	DecaySpeed    float64 `yaml:"decay_speed"` // 1 (slowest) to 10 (fastest)
	PruneBase     float64 `yaml:"prune_base"`
	PruneGrowth   float64 `yaml:"prune_growth"`
	PruneRateBase float64 `yaml:"prune_rate_base"`
	PruneRateDrop float64 `yaml:"prune_rate_drop"`
	Floor         float64 `yaml:"floor"`
}

// FoodConfig holds food source stamping parameters.
type FoodConfig struct {
	Radius         float64 `yaml:"radius"`
	GradientRadius float64 `yaml:"gradient_radius"`
	BaseStrength   float64 `yaml:"base_strength"`
	DecayLength    float64 `yaml:"decay_length"`
}

// MoldConfig holds the initial trail blob stamped at a mold source.
type MoldConfig struct {
	Radius  float64 `yaml:"radius"`
	Base    float64 `yaml:"base"`
	Span    float64 `yaml:"span"`
	Falloff float64 `yaml:"falloff"`
}

// AutoSetupConfig holds the random layout used by AutoSetup.
type AutoSetupConfig struct {
	FoodCount         int        `yaml:"food_count"`
	PlateInset        float64    `yaml:"plate_inset"`
	MinFoodSpacing    float64    `yaml:"min_food_spacing"`
	MinCenterDistance float64    `yaml:"min_center_distance"`
	MaxAttempts       int        `yaml:"max_attempts"`
	Mold              MoldConfig `yaml:"mold"`
}

// SimulationConfig holds tick driver parameters.
type SimulationConfig struct {
	StepsPerUpdate int `yaml:"steps_per_update"`
	Workers        int `yaml:"workers"` // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int     `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	VeinThreshold       float64 `yaml:"vein_threshold"`
	OccupiedThreshold   float64 `yaml:"occupied_threshold"`
}

// ServerConfig holds the WebSocket observer settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`           // Empty disables the server
	FrameInterval int    `yaml:"frame_interval"` // Ticks between broadcast frames
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PlateRadius float32 // min(w,h)/2 - boundary margin
	CenterX     float32
	CenterY     float32
	DecayFactor float32 // 1 - decay_speed * 0.001
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// validate rejects values the kernel cannot run with.
// Out-of-range tunables are clamped later by the simulation instead.
func (c *Config) validate() error {
	if c.Grid.Width < 3 || c.Grid.Height < 3 {
		return fmt.Errorf("grid must be at least 3x3, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	minSide := c.Grid.Width
	if c.Grid.Height < minSide {
		minSide = c.Grid.Height
	}
	if c.Grid.BoundaryMargin < 0 || c.Grid.BoundaryMargin >= float64(minSide)/2 {
		return fmt.Errorf("boundary margin %.1f leaves no plate on a %dx%d grid",
			c.Grid.BoundaryMargin, c.Grid.Width, c.Grid.Height)
	}
	if c.Sensing.SampleRadius < 0 {
		return fmt.Errorf("sensing sample radius must be >= 0, got %d", c.Sensing.SampleRadius)
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}
	if c.Server.FrameInterval < 1 {
		c.Server.FrameInterval = 1
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	minSide := c.Grid.Width
	if c.Grid.Height < minSide {
		minSide = c.Grid.Height
	}
	c.Derived.PlateRadius = float32(float64(minSide)/2 - c.Grid.BoundaryMargin)
	c.Derived.CenterX = float32(c.Grid.Width) / 2
	c.Derived.CenterY = float32(c.Grid.Height) / 2
	c.Derived.DecayFactor = float32(1 - c.Trail.DecaySpeed*0.001)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
