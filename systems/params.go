package systems

import "github.com/pthm-cable/slime/config"

// AgentParams holds the per-tick agent constants. A copy is taken at the
// start of every tick, so changes apply from the next tick on.
type AgentParams struct {
	StepSize      float32
	RotationAngle float32
	DepositAmount float32

	SensorDistance    float32
	SensorAngle       float32
	SampleRadius      int
	TrailWeightBase   float32
	TrailWeightGrowth float32
	TrailCap          float32
	FoodAttraction    float32

	BouncePenalty  float32
	BounceJitter   float32
	ExploreJumpP   float32
	LostTurnFactor float32
}

// NewAgentParams reads agent parameters from the config.
func NewAgentParams(cfg *config.Config) AgentParams {
	return AgentParams{
		StepSize:      float32(cfg.Agents.StepSize),
		RotationAngle: float32(cfg.Agents.RotationAngle),
		DepositAmount: float32(cfg.Agents.DepositAmount),

		SensorDistance:    float32(cfg.Sensing.Distance),
		SensorAngle:       float32(cfg.Sensing.Angle),
		SampleRadius:      cfg.Sensing.SampleRadius,
		TrailWeightBase:   float32(cfg.Sensing.TrailWeightBase),
		TrailWeightGrowth: float32(cfg.Sensing.TrailWeightGrowth),
		TrailCap:          float32(cfg.Sensing.TrailCap),
		FoodAttraction:    float32(cfg.Sensing.FoodAttraction),

		BouncePenalty:  float32(cfg.Agents.BouncePenalty),
		BounceJitter:   float32(cfg.Agents.BounceJitter),
		ExploreJumpP:   float32(cfg.Agents.ExploreJumpP),
		LostTurnFactor: float32(cfg.Agents.LostTurnFactor),
	}
}

// Convergence is the exploration-to-exploitation ramp min(tick/horizon, 1).
// A non-positive horizon means fully converged.
func Convergence(tick int32, horizon int) float32 {
	if horizon <= 0 {
		return 1
	}
	if tick <= 0 {
		return 0
	}
	c := float32(tick) / float32(horizon)
	if c > 1 {
		return 1
	}
	return c
}
