// Package game is the desktop viewer: a raylib window that renders the
// plate, forwards clicks and keys to the simulation's command queue and
// shows the parameter panel.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/ui"
)

const controlsLegend = "[Space] run/pause  [M] mold  [F] food  [A] auto setup  [R] reset  [Wheel] zoom  [RMB] pan  [C] recentre  [P] perf"

var _ renderer.Culler = (*camera.Camera)(nil)

// Game holds the viewer state around a simulation.
type Game struct {
	sim *sim.Simulation
	cfg *config.Config

	// Rendering
	plate     *renderer.PlateRenderer
	chrome    *ui.Renderer
	hud       *ui.HUD
	panel     *ui.ParamsPanel
	perfPanel *ui.PerfPanel
	camera    *camera.Camera

	// State
	screenWidth  float32
	screenHeight float32
	placingFood  bool
	showPerf     bool
}

// NewGame wraps s in a viewer. The raylib window must already be open.
func NewGame(s *sim.Simulation) *Game {
	cfg := s.Config()
	g := &Game{
		sim:          s,
		cfg:          cfg,
		plate:        renderer.NewPlateRenderer(),
		chrome:       ui.NewRenderer(),
		hud:          ui.NewHUD(),
		panel:        ui.NewParamsPanel(cfg.AutoSetup.FoodCount),
		perfPanel:    ui.NewPerfPanel(),
		screenWidth:  float32(rl.GetScreenWidth()),
		screenHeight: float32(rl.GetScreenHeight()),
	}
	w, h := s.Field().Dims()
	g.camera = camera.New(0, 0, 1, 1, float32(w), float32(h))
	g.layout()
	return g
}

// layout fits the camera to the area right of the side panel.
func (g *Game) layout() {
	panelW := float32(g.cfg.Screen.PanelWidth)
	g.camera.Resize(panelW, 0, g.screenWidth-panelW, g.screenHeight)
}

// viewport returns the camera transform in the form the plate renderer takes.
func (g *Game) viewport() renderer.Viewport {
	x, y := g.camera.Origin()
	return renderer.Viewport{X: x, Y: y, Scale: g.camera.Scale()}
}

// Update handles input and advances the simulation.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Update()
}

// Tick returns the simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// applyActions turns panel requests into queued commands.
func (g *Game) applyActions(a ui.Actions) {
	if !a.Any() {
		return
	}
	q := g.sim.Commands()
	if a.TunablesDirty {
		q.SetTunables(a.Tunables)
	}
	if a.ResetTunables {
		q.ResetTunables()
	}
	if a.TogglePause {
		q.SetPaused(!g.sim.Paused())
	}
	if a.ToggleMode {
		g.placingFood = !g.placingFood
	}
	if a.Reset {
		q.Reset()
	}
	if a.AutoSetup {
		q.AutoSetup(a.FoodCount)
	}
	slog.Debug("panel actions", "tunables", a.TunablesDirty, "pause", a.TogglePause, "auto_setup", a.AutoSetup, "reset", a.Reset)
}

// Unload frees GPU resources.
func (g *Game) Unload() {
	g.plate.Unload()
}
