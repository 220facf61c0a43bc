package systems

import "math"

// FoodSource is a static food point. Its gradient is baked into Field.Food
// at placement time.
type FoodSource struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"radius"`
}

// ReachedTrail is the trail level at a food centre above which the mold
// counts as having reached that food.
const ReachedTrail = 50

// Reached reports whether the trail at the food centre exceeds ReachedTrail.
func (fs FoodSource) Reached(f *Field) bool {
	return f.TrailAt(fs.X, fs.Y) > ReachedTrail
}

// MoldSource is a spawn anchor recorded for rendering.
type MoldSource struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"radius"`
}

// NearestFood scans foods for the nearest and second-nearest source to (x, y).
// Missing distances are +Inf and a missing index is -1.
func NearestFood(foods []FoodSource, x, y float32) (nearest, second float32, idx int) {
	inf := float32(math.Inf(1))
	nearest, second, idx = inf, inf, -1
	for i := range foods {
		d := distance(x, y, foods[i].X, foods[i].Y)
		if d < nearest {
			second = nearest
			nearest = d
			idx = i
		} else if d < second {
			second = d
		}
	}
	return nearest, second, idx
}
