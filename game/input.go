package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	q := g.sim.Commands()

	if rl.IsKeyPressed(rl.KeySpace) {
		q.SetPaused(!g.sim.Paused())
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.placingFood = false
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.placingFood = true
	}
	if rl.IsKeyPressed(rl.KeyA) {
		q.AutoSetup(g.cfg.AutoSetup.FoodCount)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		q.Reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.camera.Reset()
	}

	g.handleCamera()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.handleClick(rl.GetMousePosition())
	}
}

// handleCamera zooms toward the cursor on wheel and pans on right drag.
func (g *Game) handleCamera() {
	mouse := rl.GetMousePosition()
	if !g.camera.Contains(mouse.X, mouse.Y) {
		return
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		factor := float32(1.15)
		if wheel < 0 {
			factor = 1 / factor
		}
		g.camera.ZoomAt(mouse.X, mouse.Y, factor)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(d.X, d.Y)
	}
}

// handleClick places the selected source type when the click lands on the plate.
func (g *Game) handleClick(mouse rl.Vector2) {
	if !g.camera.Contains(mouse.X, mouse.Y) {
		return
	}
	x, y := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	if !g.sim.Field().WithinPlate(x, y) {
		slog.Debug("click outside plate ignored", "x", x, "y", y)
		return
	}
	if g.placingFood {
		g.sim.Commands().PlaceFood(x, y)
	} else {
		g.sim.Commands().PlaceMold(x, y)
	}
}

// handleResize checks for window resize and recomputes the layout.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.layout()
}
