package systems

import "github.com/pthm-cable/slime/components"

// Sense averages the weighted trail and food signal in a square window
// projected SensorDistance ahead along heading+offset.
// Returns 0 when the whole window lies outside the grid.
func Sense(f *Field, pos components.Position, heading, offset, convergence float32, p *AgentParams) float32 {
	a := heading + offset
	sx := pos.X + fastCos(a)*p.SensorDistance
	sy := pos.Y + fastSin(a)*p.SensorDistance

	weight := p.TrailWeightBase + convergence*p.TrailWeightGrowth
	r := p.SampleRadius

	var sum float32
	count := 0
	for ox := -r; ox <= r; ox++ {
		for oy := -r; oy <= r; oy++ {
			idx := f.CellIndex(sx+float32(ox), sy+float32(oy))
			if idx == NoCell {
				continue
			}
			t := f.Trail[idx] * weight
			if t > p.TrailCap {
				t = p.TrailCap
			}
			sum += t + f.Food[idx]*p.FoodAttraction
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float32(count)
}
