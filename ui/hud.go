package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/telemetry"
)

// HUDData holds all the data needed to render the run summary.
type HUDData struct {
	Tick        int32
	Convergence float32
	Agents      int
	Foods       int
	Molds       int
	FPS         int32
	Paused      bool
	PlacingFood bool
}

// HUD renders the run summary at the top of the side panel.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD and returns the next free Y.
func (h *HUD) Draw(x, y, width int32, data HUDData) int32 {
	r := h.renderer
	inner := width

	rl.DrawText("Physarum", x, y, 20, rl.White)
	y += 26

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	mode := "Mold"
	if data.PlacingFood {
		mode = "Food"
	}

	y = r.DrawLabelValue(x, y, "Status", status, inner)
	y = r.DrawLabelValue(x, y, "Placing", mode, inner)
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick), inner)
	y = r.DrawLabelValue(x, y, "Agents", fmt.Sprintf("%d", data.Agents), inner)
	y = r.DrawLabelValue(x, y, "Food / Mold", fmt.Sprintf("%d / %d", data.Foods, data.Molds), inner)
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS), inner)
	y = r.DrawBar(x, y, "Convergence", data.Convergence, inner)

	return y + 4
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{renderer: NewRenderer()}
}

// Draw renders the performance panel and returns the next free Y.
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) int32 {
	r := p.renderer
	y = r.DrawSectionHeader(x, y, "Performance")

	rl.DrawText(fmt.Sprintf("Tick: %s  (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, r.Theme.FontSize, rl.Yellow)
	y += r.Theme.LineHeight

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", phase, pct), x, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight - 2
	}
	return y + 4
}
