package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/ui"
)

// Draw renders the plate and the side panel, then applies panel actions.
func (g *Game) Draw() {
	g.sim.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(renderer.AgarColor)

	g.plate.Update(g.sim.Field())
	c := g.camera
	rl.BeginScissorMode(int32(c.ScreenX), int32(c.ScreenY), int32(c.ScreenW), int32(c.ScreenH))
	g.plate.Draw(g.viewport(), g.camera, g.sim)
	rl.EndScissorMode()

	panelW := int32(g.cfg.Screen.PanelWidth)
	screenH := int32(g.screenHeight)
	theme := g.chrome.Theme
	g.chrome.DrawPanel(0, 0, panelW, screenH)

	x := theme.Padding
	inner := panelW - theme.Padding*2
	y := g.hud.Draw(x, theme.Padding, inner, ui.HUDData{
		Tick:        g.sim.Tick(),
		Convergence: g.sim.Convergence(),
		Agents:      g.sim.AgentCount(),
		Foods:       len(g.sim.FoodSources()),
		Molds:       len(g.sim.MoldSources()),
		FPS:         rl.GetFPS(),
		Paused:      g.sim.Paused(),
		PlacingFood: g.placingFood,
	})

	actions := g.panel.Draw(x, y, inner, g.sim.Tunables(), g.sim.Paused(), g.placingFood)

	if g.showPerf {
		g.perfPanel.Draw(x, screenH-150, g.sim.PerfStats())
	}
	g.hud.DrawControls(screenH, controlsLegend)

	rl.EndDrawing()

	g.applyActions(actions)
}
