package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/systems"
)

// Glow radii as multiples of the source radius.
const (
	foodGlowScale = 1.8
	moldGlowScale = 1.3
)

// glowRings is the number of gradient discs drawn per glow.
const glowRings = 8

// Culler reports whether a circle in grid coordinates may be on screen.
type Culler interface {
	IsVisible(x, y, radius float32) bool
}

// Viewport maps grid coordinates to screen pixels.
type Viewport struct {
	X, Y  float32 // Screen position of grid (0, 0)
	Scale float32 // Pixels per cell
}

// ToScreen converts grid coordinates to screen coordinates.
func (v Viewport) ToScreen(x, y float32) (float32, float32) {
	return v.X + x*v.Scale, v.Y + y*v.Scale
}

// ToGrid converts screen coordinates to grid coordinates.
func (v Viewport) ToGrid(sx, sy float32) (float32, float32) {
	if v.Scale == 0 {
		return 0, 0
	}
	return (sx - v.X) / v.Scale, (sy - v.Y) / v.Scale
}

// PlateRenderer draws the trail and food grids as a texture with glows on top.
type PlateRenderer struct {
	tex         rl.Texture2D
	pixels      []color.RGBA
	texW, texH  int
	initialized bool
}

// NewPlateRenderer creates a renderer. Init runs lazily on the first Update.
func NewPlateRenderer() *PlateRenderer {
	return &PlateRenderer{}
}

// Init allocates the texture (must be called after the raylib window is created).
func (r *PlateRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}
	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, AgarColor)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update recolours every cell from the field and uploads the texture.
func (r *PlateRenderer) Update(f *systems.Field) {
	w, h := f.Dims()
	if !r.initialized {
		r.Init(w, h)
	}
	if w != r.texW || h != r.texH {
		return
	}
	for i := range r.pixels {
		r.pixels[i] = TrailColor(f.Trail[i], f.Food[i])
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the plate texture, the source glows and the plate rim.
// Glows the culler rejects are skipped; a nil culler draws them all.
func (r *PlateRenderer) Draw(v Viewport, cull Culler, s *sim.Simulation) {
	if !r.initialized {
		return
	}

	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: v.X, Y: v.Y, Width: float32(r.texW) * v.Scale, Height: float32(r.texH) * v.Scale}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)

	f := s.Field()
	for _, fd := range s.FoodSources() {
		if fd.Reached(f) {
			drawGlow(v, cull, fd.X, fd.Y, fd.Radius*foodGlowScale, FoodGlow)
		}
	}
	for _, m := range s.MoldSources() {
		drawGlow(v, cull, m.X, m.Y, m.Radius*moldGlowScale, MoldGlow)
	}

	cx, cy := f.Center()
	sx, sy := v.ToScreen(cx, cy)
	rl.DrawCircleLines(int32(sx), int32(sy), f.PlateRadius()*v.Scale, color.RGBA{R: 60, G: 60, B: 55, A: 255})
}

// drawGlow approximates a radial gradient with nested gradient discs,
// outermost first.
func drawGlow(v Viewport, cull Culler, x, y, radius float32, stops []GlowStop) {
	if cull != nil && !cull.IsVisible(x, y, radius) {
		return
	}
	sx, sy := v.ToScreen(x, y)
	for _, ring := range GlowRings(stops, glowRings) {
		r := ring.Outer * radius * v.Scale
		if r <= 0 {
			continue
		}
		rl.DrawCircleGradient(int32(sx), int32(sy), r, ring.Inner, ring.OuterColor)
	}
}

// Unload frees GPU resources.
func (r *PlateRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
