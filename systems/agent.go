package systems

import (
	"github.com/pthm-cable/slime/components"
)

// Rand is the random source agents draw from. *math/rand.Rand satisfies it.
type Rand interface {
	Float32() float32
}

// Mode is an agent's behavioural mode for one tick.
type Mode uint8

const (
	ModeNormal    Mode = iota // Steer by sensed signals
	ModeExploring             // Weak signal, random heading jumps
	ModeLost                  // Poor fitness, turn toward nearest food
)

// Fitness and signal bands.
const (
	lostFitness      = -20
	exploreSignal    = 80
	cautiousFitness  = -10
	strongFitness    = 10
	strongMultiplier = 1.5
	weakMultiplier   = 0.3
)

// String returns the display name for a Mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeExploring:
		return "exploring"
	case ModeLost:
		return "lost"
	}
	return "unknown"
}

// ClassifyMode maps fitness and the summed sensed signal to a Mode.
func ClassifyMode(fitness, totalSignal float32) Mode {
	if fitness < lostFitness {
		return ModeLost
	}
	if totalSignal < exploreSignal {
		return ModeExploring
	}
	return ModeNormal
}

// ExplorationFactor scales random steering; poorly performing agents steer less.
func ExplorationFactor(fitness float32) float32 {
	if fitness > cautiousFitness {
		return 0.6
	}
	return 0.3
}

// DepositMultiplier scales the deposit by fitness band.
func DepositMultiplier(fitness float32) float32 {
	if fitness > strongFitness {
		return strongMultiplier
	}
	if fitness < -strongFitness {
		return weakMultiplier
	}
	return 1
}

// Outcome is what one agent update produced.
type Outcome struct {
	Mode         Mode
	RewardBefore float32
	RewardAfter  float32
	Bounced      bool
	DepositIdx   int     // NoCell if the final position is off-grid
	Deposit      float32 // Amount to add at DepositIdx
}

// UpdateAgent runs one sense, steer, move and score step for a single agent.
// It reads the field but never writes it; the caller applies the deposit.
func UpdateAgent(
	f *Field,
	foods []FoodSource,
	pos *components.Position,
	rot *components.Rotation,
	vit *components.Vitals,
	convergence float32,
	p *AgentParams,
	rng Rand,
) Outcome {
	var out Outcome
	out.RewardBefore = CalculateReward(f, foods, *pos, vit, convergence)

	fwd := Sense(f, *pos, rot.Heading, 0, convergence, p)
	left := Sense(f, *pos, rot.Heading, -p.SensorAngle, convergence, p)
	right := Sense(f, *pos, rot.Heading, p.SensorAngle, convergence, p)

	randomSteer := (rng.Float32() - 0.5) * ExplorationFactor(vit.Fitness)

	out.Mode = ClassifyMode(vit.Fitness, fwd+left+right)
	heading := rot.Heading

	switch out.Mode {
	case ModeLost:
		if _, _, i := NearestFood(foods, pos.X, pos.Y); i >= 0 {
			target := atan2f(foods[i].Y-pos.Y, foods[i].X-pos.X)
			heading += normalizeAngle(target-heading) * p.LostTurnFactor
		}

	case ModeExploring:
		if rng.Float32() < p.ExploreJumpP {
			heading += (rng.Float32() - 0.5) * p.RotationAngle * 4
		}

	default:
		switch {
		case fwd > left && fwd > right:
			heading += randomSteer * 0.5
		case fwd < left && fwd < right:
			sign := float32(1)
			if rng.Float32() < 0.5 {
				sign = -1
			}
			heading += sign*p.RotationAngle + randomSteer
		case right > left:
			heading += p.RotationAngle + randomSteer
		case left > right:
			heading -= p.RotationAngle + randomSteer
		default:
			heading += randomSteer
		}
	}

	// Move, bouncing back toward the centre at the plate edge
	nx := pos.X + fastCos(heading)*p.StepSize
	ny := pos.Y + fastSin(heading)*p.StepSize
	if f.WithinPlate(nx, ny) {
		pos.X, pos.Y = nx, ny
	} else {
		cx, cy := f.Center()
		heading = atan2f(cy-pos.Y, cx-pos.X) + (rng.Float32()-0.5)*p.BounceJitter
		vit.Fitness -= p.BouncePenalty
		out.Bounced = true

		nx = pos.X + fastCos(heading)*p.StepSize
		ny = pos.Y + fastSin(heading)*p.StepSize
		if f.WithinPlate(nx, ny) {
			pos.X, pos.Y = nx, ny
		}
	}
	rot.Heading = normalizeHeading(heading)

	out.RewardAfter = CalculateReward(f, foods, *pos, vit, convergence)

	out.DepositIdx = f.CellIndex(pos.X, pos.Y)
	out.Deposit = p.DepositAmount * DepositMultiplier(vit.Fitness)
	return out
}
