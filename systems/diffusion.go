package systems

import "github.com/pthm-cable/slime/config"

// TrailDecay holds the per-tick diffusion, decay and pruning parameters.
type TrailDecay struct {
	DiffuseRate   float32 // Blend weight of the blurred value
	DecaySpeed    float32 // 1 (slowest) to 10 (fastest)
	PruneBase     float32 // Prune threshold at convergence 0
	PruneGrowth   float32 // Threshold added at convergence 1
	PruneRateBase float32 // Prune multiplier at convergence 0
	PruneRateDrop float32 // Multiplier removed at convergence 1
	Floor         float32 // Values below this snap to zero
}

// NewTrailDecay converts the trail config section.
func NewTrailDecay(c config.TrailConfig) TrailDecay {
	return TrailDecay{
		DiffuseRate:   float32(c.DiffuseRate),
		DecaySpeed:    float32(c.DecaySpeed),
		PruneBase:     float32(c.PruneBase),
		PruneGrowth:   float32(c.PruneGrowth),
		PruneRateBase: float32(c.PruneRateBase),
		PruneRateDrop: float32(c.PruneRateDrop),
		Floor:         float32(c.Floor),
	}
}

// DecayFactor returns the per-tick exponential decay multiplier.
func (d TrailDecay) DecayFactor() float32 {
	return 1 - d.DecaySpeed*0.001
}

// Diffuse runs one blur, blend, decay, prune and floor pass over the trail.
//
// The blur reads only Trail and writes only the scratch buffer, so no cell
// sees a value already overwritten by the same pass. Border cells are not
// blurred: their scratch stays zero and the blend pulls them toward zero,
// making the one-cell frame an absorbing edge.
func (f *Field) Diffuse(d TrailDecay, convergence float32) {
	w, h := f.W, f.H
	src := f.Trail
	dst := f.tmp

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			n := i - w
			s := i + w
			sum := src[n-1] + src[n] + src[n+1] +
				src[i-1] + src[i] + src[i+1] +
				src[s-1] + src[s] + src[s+1]
			dst[i] = sum / 9
		}
	}

	rate := clampFloat(d.DiffuseRate, 0, 1)
	decay := clampFloat(d.DecayFactor(), 0, 1)
	threshold := d.PruneBase + convergence*d.PruneGrowth
	pruneRate := clampFloat(d.PruneRateBase-convergence*d.PruneRateDrop, 0, 1)

	for i := range src {
		v := dst[i]*rate + src[i]*(1-rate)
		v *= decay
		if v < threshold {
			v *= pruneRate
		}
		if v < d.Floor {
			v = 0
		}
		src[i] = v
	}
}
