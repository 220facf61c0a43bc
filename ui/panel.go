package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/sim"
)

// Actions are the user requests collected during one frame.
type Actions struct {
	Tunables      sim.Tunables
	TunablesDirty bool
	TogglePause   bool
	ToggleMode    bool
	AutoSetup     bool
	FoodCount     int
	Reset         bool
	ResetTunables bool
}

// Any reports whether anything was requested.
func (a Actions) Any() bool {
	return a.TunablesDirty || a.TogglePause || a.ToggleMode || a.AutoSetup || a.Reset || a.ResetTunables
}

// sliderSpec describes one tunable slider.
type sliderSpec struct {
	label    string
	min, max float32
	integer  bool
	format   string
	get      func(*sim.Tunables) float32
	set      func(*sim.Tunables, float32)
}

var sliders = []sliderSpec{
	{"Agents / source", 1000, 50000, true, "%.0f",
		func(t *sim.Tunables) float32 { return float32(t.AgentsPerSource) },
		func(t *sim.Tunables, v float32) { t.AgentsPerSource = int(v) }},
	{"Step size", 0.5, 10, false, "%.1f",
		func(t *sim.Tunables) float32 { return t.StepSize },
		func(t *sim.Tunables, v float32) { t.StepSize = v }},
	{"Sensor distance", 5, 100, true, "%.0f",
		func(t *sim.Tunables) float32 { return t.SensorDistance },
		func(t *sim.Tunables, v float32) { t.SensorDistance = v }},
	{"Deposit", 1, 20, true, "%.0f",
		func(t *sim.Tunables) float32 { return t.DepositAmount },
		func(t *sim.Tunables, v float32) { t.DepositAmount = v }},
	{"Decay speed", sim.MinDecaySpeed, sim.MaxDecaySpeed, true, "%.0f",
		func(t *sim.Tunables) float32 { return t.DecaySpeed },
		func(t *sim.Tunables, v float32) { t.DecaySpeed = v }},
	{"Food attraction", 0, 50, false, "%.1f",
		func(t *sim.Tunables) float32 { return t.FoodAttraction },
		func(t *sim.Tunables, v float32) { t.FoodAttraction = v }},
}

// ParamsPanel renders the tunable sliders and plate buttons.
type ParamsPanel struct {
	renderer  *Renderer
	foodCount float32
}

// NewParamsPanel creates a panel whose auto setup slider starts at foodCount.
func NewParamsPanel(foodCount int) *ParamsPanel {
	return &ParamsPanel{renderer: NewRenderer(), foodCount: float32(foodCount)}
}

// snap applies the slider's integer rounding.
func (s sliderSpec) snap(v float32) float32 {
	if s.integer {
		return float32(math.Round(float64(v)))
	}
	return v
}

// Draw renders the panel at (x, y) and returns what the user asked for.
func (p *ParamsPanel) Draw(x, y, width int32, t sim.Tunables, paused, placingFood bool) Actions {
	r := p.renderer
	a := Actions{Tunables: t}

	y = r.DrawSectionHeader(x, y, "Parameters")
	fx, fw := float32(x), float32(width)

	for _, s := range sliders {
		cur := s.get(&a.Tunables)
		rl.DrawText(s.label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		valText := fmt.Sprintf(s.format, cur)
		rl.DrawText(valText, x+width-rl.MeasureText(valText, r.Theme.FontSize), y, r.Theme.FontSize, r.Theme.ValueColor)
		y += 14

		next := s.snap(gui.SliderBar(
			rl.Rectangle{X: fx, Y: float32(y), Width: fw, Height: 14},
			"", "",
			cur, s.min, s.max,
		))
		if next != cur {
			s.set(&a.Tunables, next)
			a.TunablesDirty = true
		}
		y += 22
	}

	half := (fw - 6) / 2
	row := func(left, right string) (bool, bool) {
		l := gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: half, Height: 24}, left)
		rr := gui.Button(rl.Rectangle{X: fx + half + 6, Y: float32(y), Width: half, Height: 24}, right)
		y += 30
		return l, rr
	}

	runText := "Pause"
	if paused {
		runText = "Run"
	}
	modeText := "Place food"
	if placingFood {
		modeText = "Place mold"
	}
	a.TogglePause, a.ToggleMode = row(runText, modeText)
	a.Reset, a.ResetTunables = row("Reset plate", "Default params")

	y += 4
	rl.DrawText("Auto food", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	countText := fmt.Sprintf("%.0f", p.foodCount)
	rl.DrawText(countText, x+width-rl.MeasureText(countText, r.Theme.FontSize), y, r.Theme.FontSize, r.Theme.ValueColor)
	y += 14
	p.foodCount = float32(math.Round(float64(gui.SliderBar(
		rl.Rectangle{X: fx, Y: float32(y), Width: fw, Height: 14},
		"", "",
		p.foodCount, 1, 20,
	))))
	y += 22
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: fw, Height: 24}, "Auto setup") {
		a.AutoSetup = true
		a.FoodCount = int(p.foodCount)
	}

	return a
}
