package systems

import (
	"math"

	"github.com/pthm-cable/slime/components"
)

// Reward shaping constants.
const (
	proximityRange  = 100
	strongTrail     = 30
	weakTrail       = 10
	farDistance     = 150
	farScale        = 15
	spanMinDistance = 80
	spanRatio       = 0.6
	spanPenalty     = 8
	fitnessGain     = 0.1
)

// CalculateReward scores the agent's current position, folds the reward into
// Fitness and records the nearest food distance. Every call updates
// LastFoodDistance exactly once.
//
// With no food sources the distance terms are skipped and LastFoodDistance
// stays +Inf.
func CalculateReward(f *Field, foods []FoodSource, pos components.Position, v *components.Vitals, convergence float32) float32 {
	d, d2, _ := NearestFood(foods, pos.X, pos.Y)
	trail := f.TrailAt(pos.X, pos.Y)

	var reward float32

	// Trail following
	if trail > strongTrail {
		reward += 5 + convergence*10
	} else if trail > weakTrail {
		reward += 2
	}

	if !math.IsInf(float64(d), 1) {
		// Proximity
		if d < proximityRange {
			reward += (proximityRange - d) / 10
		}

		// Direction versus previous call
		if d > v.LastFoodDistance {
			reward -= 2 + convergence*3
		} else if d < v.LastFoodDistance {
			reward += 3
		}

		// Far from any food
		if d > farDistance {
			reward -= (d - farDistance) / farScale * (1 + convergence*2)
		}

		// Long span while another food is proportionally much closer
		if !math.IsInf(float64(d2), 1) && d > spanMinDistance && d2 < d*spanRatio {
			reward -= spanPenalty * convergence
		}
	}

	v.LastFoodDistance = d
	v.Fitness += reward * fitnessGain
	return reward
}
