package sim

import (
	"math"

	"github.com/pthm-cable/slime/config"
)

// Tunables are the parameters an operator may change between ticks.
type Tunables struct {
	AgentsPerSource int     `json:"agents_per_source"`
	StepSize        float32 `json:"step_size"`
	SensorDistance  float32 `json:"sensor_distance"`
	DepositAmount   float32 `json:"deposit_amount"`
	DecaySpeed      float32 `json:"decay_speed"`
	FoodAttraction  float32 `json:"food_attraction"`
}

// Accepted tunable ranges.
const (
	MinAgentsPerSource = 1
	MaxAgentsPerSource = 100000
	MinStepSize        = 0.1
	MaxStepSize        = 20
	MinSensorDistance  = 1
	MaxSensorDistance  = 200
	MaxDepositAmount   = 255
	MinDecaySpeed      = 1
	MaxDecaySpeed      = 10
	MaxFoodAttraction  = 100
)

// DefaultTunables reads the tunables from the config.
func DefaultTunables(cfg *config.Config) Tunables {
	return Tunables{
		AgentsPerSource: cfg.Agents.PerSource,
		StepSize:        float32(cfg.Agents.StepSize),
		SensorDistance:  float32(cfg.Sensing.Distance),
		DepositAmount:   float32(cfg.Agents.DepositAmount),
		DecaySpeed:      float32(cfg.Trail.DecaySpeed),
		FoodAttraction:  float32(cfg.Sensing.FoodAttraction),
	}
}

// Clamp returns t with every field forced into its accepted range.
// NaN values fall back to the matching field of def.
func (t Tunables) Clamp(def Tunables) Tunables {
	t.AgentsPerSource = min(max(t.AgentsPerSource, MinAgentsPerSource), MaxAgentsPerSource)
	t.StepSize = clampTunable(t.StepSize, MinStepSize, MaxStepSize, def.StepSize)
	t.SensorDistance = clampTunable(t.SensorDistance, MinSensorDistance, MaxSensorDistance, def.SensorDistance)
	t.DepositAmount = clampTunable(t.DepositAmount, 0, MaxDepositAmount, def.DepositAmount)
	t.DecaySpeed = clampTunable(t.DecaySpeed, MinDecaySpeed, MaxDecaySpeed, def.DecaySpeed)
	t.FoodAttraction = clampTunable(t.FoodAttraction, 0, MaxFoodAttraction, def.FoodAttraction)
	return t
}

func clampTunable(v, lo, hi, def float32) float32 {
	if math.IsNaN(float64(v)) {
		v = def
	}
	return min(max(v, lo), hi)
}

// SetTunables clamps and applies t. Changes take effect on the next tick;
// AgentsPerSource applies to the next mold placement.
func (s *Simulation) SetTunables(t Tunables) {
	t = t.Clamp(DefaultTunables(s.cfg))
	s.tunables = t

	s.params.StepSize = t.StepSize
	s.params.SensorDistance = t.SensorDistance
	s.params.DepositAmount = t.DepositAmount
	s.params.FoodAttraction = t.FoodAttraction
	s.decay.DecaySpeed = t.DecaySpeed
}

// Tunables returns the tunables in effect.
func (s *Simulation) Tunables() Tunables {
	return s.tunables
}

// ResetTunables restores the config defaults.
func (s *Simulation) ResetTunables() {
	s.SetTunables(DefaultTunables(s.cfg))
}

// TunablesPatch is a partial tunables update. Nil fields keep their
// current value.
type TunablesPatch struct {
	AgentsPerSource *int     `json:"agents_per_source,omitempty"`
	StepSize        *float32 `json:"step_size,omitempty"`
	SensorDistance  *float32 `json:"sensor_distance,omitempty"`
	DepositAmount   *float32 `json:"deposit_amount,omitempty"`
	DecaySpeed      *float32 `json:"decay_speed,omitempty"`
	FoodAttraction  *float32 `json:"food_attraction,omitempty"`
}

// Empty reports whether the patch sets no field.
func (p TunablesPatch) Empty() bool {
	return p.AgentsPerSource == nil && p.StepSize == nil && p.SensorDistance == nil &&
		p.DepositAmount == nil && p.DecaySpeed == nil && p.FoodAttraction == nil
}

// Merge returns t with every set field of p applied.
func (p TunablesPatch) Merge(t Tunables) Tunables {
	if p.AgentsPerSource != nil {
		t.AgentsPerSource = *p.AgentsPerSource
	}
	if p.StepSize != nil {
		t.StepSize = *p.StepSize
	}
	if p.SensorDistance != nil {
		t.SensorDistance = *p.SensorDistance
	}
	if p.DepositAmount != nil {
		t.DepositAmount = *p.DepositAmount
	}
	if p.DecaySpeed != nil {
		t.DecaySpeed = *p.DecaySpeed
	}
	if p.FoodAttraction != nil {
		t.FoodAttraction = *p.FoodAttraction
	}
	return t
}

// PatchTunables merges p over the tunables in effect and applies the result.
func (s *Simulation) PatchTunables(p TunablesPatch) {
	s.SetTunables(p.Merge(s.tunables))
}
