package systems

import (
	"math"

	"github.com/pthm-cable/slime/config"
)

// NoCell is returned by CellIndex for coordinates outside the grid.
const NoCell = -1

// MaxTrail is the saturation value of both grids.
const MaxTrail = 255

// Field is the shared scalar grid agents sense and deposit into.
// One cell covers one unit of the continuous coordinate space.
type Field struct {
	W, H int

	// Pheromone deposited by agents, in [0, MaxTrail]
	Trail []float32
	// Static chemoattractant stamped at food placement, in [0, MaxTrail]
	Food []float32

	// Scratch buffer for diffusion
	tmp []float32

	// Plate geometry
	cx, cy      float32
	plateRadius float32
	plateR2     float32
}

// FoodGradient describes the food stamp written by StampFood.
type FoodGradient struct {
	Radius         float32 // Full strength inside this radius
	GradientRadius float32 // Stamp extent
	BaseStrength   float32 // Strength scale of the exponential tail
	DecayLength    float32 // Tail decay length
}

// MoldBlob describes the initial trail written by StampMold.
type MoldBlob struct {
	Radius  float32
	Base    float32
	Span    float32
	Falloff float32
}

// NewField creates a zeroed field with a circular plate inset by boundaryMargin.
func NewField(w, h int, boundaryMargin float32) *Field {
	minSide := w
	if h < minSide {
		minSide = h
	}
	r := float32(minSide)/2 - boundaryMargin
	if r < 0 {
		r = 0
	}
	return &Field{
		W: w, H: h,
		Trail: make([]float32, w*h),
		Food:  make([]float32, w*h),
		tmp:   make([]float32, w*h),

		cx:          float32(w) / 2,
		cy:          float32(h) / 2,
		plateRadius: r,
		plateR2:     r * r,
	}
}

// NewFieldFromConfig creates a field sized by the grid config.
func NewFieldFromConfig(cfg *config.Config) *Field {
	return NewField(cfg.Grid.Width, cfg.Grid.Height, float32(cfg.Grid.BoundaryMargin))
}

// NewFoodGradient converts the food config section.
func NewFoodGradient(c config.FoodConfig) FoodGradient {
	return FoodGradient{
		Radius:         float32(c.Radius),
		GradientRadius: float32(c.GradientRadius),
		BaseStrength:   float32(c.BaseStrength),
		DecayLength:    float32(c.DecayLength),
	}
}

// NewMoldBlob converts a mold config section.
func NewMoldBlob(c config.MoldConfig) MoldBlob {
	return MoldBlob{
		Radius:  float32(c.Radius),
		Base:    float32(c.Base),
		Span:    float32(c.Span),
		Falloff: float32(c.Falloff),
	}
}

// CellIndex maps continuous coordinates to a cell index by flooring both.
// Returns NoCell outside the rectangle or for NaN input.
func (f *Field) CellIndex(x, y float32) int {
	fx := math.Floor(float64(x))
	fy := math.Floor(float64(y))
	// Negated form also rejects NaN
	if !(fx >= 0 && fx < float64(f.W) && fy >= 0 && fy < float64(f.H)) {
		return NoCell
	}
	return int(fy)*f.W + int(fx)
}

// WithinPlate reports whether (x, y) lies inside the inset circular plate.
func (f *Field) WithinPlate(x, y float32) bool {
	return distanceSq(x, y, f.cx, f.cy) <= f.plateR2
}

// Deposit adds amount to the trail at idx, saturating at MaxTrail.
// No-op for NoCell or a non-positive amount.
func (f *Field) Deposit(idx int, amount float32) {
	if idx < 0 || idx >= len(f.Trail) || !(amount > 0) {
		return
	}
	v := f.Trail[idx] + amount
	if v > MaxTrail {
		v = MaxTrail
	}
	f.Trail[idx] = v
}

// TrailAt returns the trail at (x, y), or 0 outside the grid.
func (f *Field) TrailAt(x, y float32) float32 {
	idx := f.CellIndex(x, y)
	if idx == NoCell {
		return 0
	}
	return f.Trail[idx]
}

// FoodAt returns the food value at (x, y), or 0 outside the grid.
func (f *Field) FoodAt(x, y float32) float32 {
	idx := f.CellIndex(x, y)
	if idx == NoCell {
		return 0
	}
	return f.Food[idx]
}

// StampFood max-writes a radial food gradient centred on (x, y).
// Overlapping stamps keep the stronger value, so re-stamping is idempotent.
func (f *Field) StampFood(x, y float32, g FoodGradient) {
	r := int(math.Ceil(float64(g.GradientRadius)))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if dist > g.GradientRadius {
				continue
			}
			idx := f.CellIndex(x+float32(dx), y+float32(dy))
			if idx == NoCell {
				continue
			}

			var strength float32
			if dist <= g.Radius {
				strength = MaxTrail
			} else if g.DecayLength > 0 {
				strength = g.BaseStrength * float32(math.Exp(-float64(dist/g.DecayLength)))
			}
			strength = clampFloat(strength, 0, MaxTrail)

			if strength > f.Food[idx] {
				f.Food[idx] = strength
			}
		}
	}
}

// StampMold max-writes an initial trail blob centred on (x, y).
func (f *Field) StampMold(x, y float32, b MoldBlob) {
	if b.Radius <= 0 {
		return
	}
	r := int(math.Ceil(float64(b.Radius)))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if dist > b.Radius {
				continue
			}
			idx := f.CellIndex(x+float32(dx), y+float32(dy))
			if idx == NoCell {
				continue
			}

			v := clampFloat(b.Base+(1-dist/b.Radius*b.Falloff)*b.Span, 0, MaxTrail)
			if v > f.Trail[idx] {
				f.Trail[idx] = v
			}
		}
	}
}

// Clear zeroes the trail, food and scratch grids.
func (f *Field) Clear() {
	clear(f.Trail)
	clear(f.Food)
	clear(f.tmp)
}

// TotalTrail returns the summed trail mass.
func (f *Field) TotalTrail() float64 {
	var sum float64
	for _, v := range f.Trail {
		sum += float64(v)
	}
	return sum
}

// Dims returns the grid dimensions.
func (f *Field) Dims() (int, int) {
	return f.W, f.H
}

// Center returns the plate centre.
func (f *Field) Center() (float32, float32) {
	return f.cx, f.cy
}

// PlateRadius returns the radius of the active plate.
func (f *Field) PlateRadius() float32 {
	return f.plateRadius
}
