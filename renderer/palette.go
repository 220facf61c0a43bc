package renderer

import (
	"image/color"
	"math"
)

// Colour bands of the petri dish.
var (
	OatColor  = color.RGBA{R: 245, G: 235, B: 210, A: 255}
	AgarColor = color.RGBA{R: 5, G: 5, B: 5, A: 255}
)

// Trail bands.
const (
	foodVisible  = 200
	trailVisible = 2
	sheetTrail   = 40
	veinTrail    = 100
	matureTrail  = 160
)

// TrailColor maps one cell to a pixel. Food cores show as oat, trail as a
// yellow sheet that brightens into veins, everything else as dark agar.
func TrailColor(trail, food float32) color.RGBA {
	if food > foodVisible {
		return OatColor
	}
	if trail <= trailVisible {
		return AgarColor
	}

	var brightness, alpha float32
	switch {
	case trail < sheetTrail:
		brightness = 0.4 + trail/sheetTrail*0.3
		alpha = 0.6
	case trail < veinTrail:
		brightness = 0.5 + (trail-sheetTrail)/(veinTrail-sheetTrail)*0.4
		alpha = 0.8
	default:
		brightness = float32(math.Sqrt(math.Min(float64(trail)/matureTrail, 1)))
		alpha = 1
	}

	return color.RGBA{
		R: channel(255 * brightness),
		G: channel(250 * brightness),
		B: channel(50 * brightness),
		A: channel(255 * alpha),
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// GlowStop is one colour stop of a radial glow, Pos in [0, 1].
type GlowStop struct {
	Pos   float32
	Color color.RGBA
}

// FoodGlow lights food sources the mold has reached.
var FoodGlow = []GlowStop{
	{0, color.RGBA{R: 255, G: 255, B: 180, A: 242}},
	{0.3, color.RGBA{R: 255, G: 250, B: 120, A: 178}},
	{0.6, color.RGBA{R: 255, G: 245, B: 80, A: 76}},
	{1, color.RGBA{R: 255, G: 240, B: 50, A: 0}},
}

// MoldGlow marks mold sources.
var MoldGlow = []GlowStop{
	{0, color.RGBA{R: 255, G: 255, B: 150, A: 255}},
	{0.4, color.RGBA{R: 255, G: 250, B: 100, A: 204}},
	{0.7, color.RGBA{R: 255, G: 240, B: 80, A: 102}},
	{1, color.RGBA{R: 255, G: 230, B: 60, A: 0}},
}

// GlowAt interpolates stops at t, clamping outside the first and last stop.
func GlowAt(stops []GlowStop, t float32) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Pos {
			a, b := stops[i-1], stops[i]
			f := (t - a.Pos) / (b.Pos - a.Pos)
			return color.RGBA{
				R: lerp8(a.Color.R, b.Color.R, f),
				G: lerp8(a.Color.G, b.Color.G, f),
				B: lerp8(a.Color.B, b.Color.B, f),
				A: lerp8(a.Color.A, b.Color.A, f),
			}
		}
	}
	return stops[len(stops)-1].Color
}

// GlowRing is one disc of a glow: a gradient from Inner at the centre to
// OuterColor at radius fraction Outer.
type GlowRing struct {
	Outer      float32
	Inner      color.RGBA
	OuterColor color.RGBA
}

// GlowRings splits stops into n evenly spaced discs, outermost first. Each
// disc runs from the colour at the previous ring's edge to its own edge.
func GlowRings(stops []GlowStop, n int) []GlowRing {
	if n < 1 || len(stops) == 0 {
		return nil
	}
	rings := make([]GlowRing, n)
	for i := 0; i < n; i++ {
		outer := float32(n-i) / float32(n)
		inner := float32(n-i-1) / float32(n)
		rings[i] = GlowRing{
			Outer:      outer,
			Inner:      GlowAt(stops, inner),
			OuterColor: GlowAt(stops, outer),
		}
	}
	return rings
}

func lerp8(a, b uint8, f float32) uint8 {
	return channel(float32(a) + (float32(b)-float32(a))*f + 0.5)
}
