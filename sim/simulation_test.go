package sim

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/systems"
	"github.com/pthm-cable/slime/telemetry"
)

func init() {
	config.MustInit("")
}

func testConfig(w, h, agents int) *config.Config {
	cfg := config.Defaults()
	cfg.Grid.Width = w
	cfg.Grid.Height = h
	cfg.Agents.PerSource = agents
	cfg.Simulation.Workers = 1
	return cfg
}

func newTestSim(t testing.TB, cfg *config.Config, seed int64) *Simulation {
	t.Helper()
	s, err := New(Options{Config: cfg, Seed: seed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStepConfinesAgents(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 100), 1)
	s.PlaceMoldSource(50, 50)

	for i := 0; i < 50; i++ {
		s.Step()
	}

	if s.Tick() != 50 {
		t.Errorf("tick = %d, want 50", s.Tick())
	}
	if s.AgentCount() != 100 {
		t.Errorf("agents = %d, want 100", s.AgentCount())
	}

	f := s.Field()
	s.Agents(func(pos *components.Position, rot *components.Rotation, _ *components.Vitals) {
		if !f.WithinPlate(pos.X, pos.Y) {
			t.Errorf("agent at (%v, %v) left the plate", pos.X, pos.Y)
		}
		if rot.Heading < 0 || rot.Heading >= 2*math.Pi {
			t.Errorf("heading %v outside [0, 2pi)", rot.Heading)
		}
	})

	mass := f.TotalTrail()
	if mass <= 0 {
		t.Error("expected trail mass after 50 ticks")
	}
	if limit := 255.0 * 100 * 100; mass > limit {
		t.Errorf("trail mass %v exceeds saturation limit %v", mass, limit)
	}
	for i, v := range f.Trail {
		if v < 0 || v > 255 {
			t.Fatalf("trail[%d] = %v out of range", i, v)
		}
	}
}

func TestPlaceMoldOutsidePlateClampsAgents(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 50), 2)
	s.PlaceMoldSource(1, 1)

	f := s.Field()
	s.Agents(func(pos *components.Position, _ *components.Rotation, _ *components.Vitals) {
		if !f.WithinPlate(pos.X, pos.Y) {
			t.Errorf("spawned agent at (%v, %v) outside plate", pos.X, pos.Y)
		}
	})
}

func TestSpawnHeadingsSpread(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 4), 3)
	s.PlaceMoldSource(50, 50)

	var headings []float32
	s.Agents(func(_ *components.Position, rot *components.Rotation, vit *components.Vitals) {
		headings = append(headings, rot.Heading)
		if vit.Fitness != 0 || !math.IsInf(float64(vit.LastFoodDistance), 1) {
			t.Errorf("fresh agent vitals = %+v", *vit)
		}
	})
	want := []float32{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	if len(headings) != len(want) {
		t.Fatalf("got %d agents, want %d", len(headings), len(want))
	}
	for i := range want {
		if math.Abs(float64(headings[i]-want[i])) > 1e-5 {
			t.Errorf("heading[%d] = %v, want %v", i, headings[i], want[i])
		}
	}
}

func TestReset(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 100), 4)
	s.PlaceMoldSource(50, 50)
	s.PlaceFoodSource(30, 30)
	for i := 0; i < 10; i++ {
		s.Step()
	}

	s.Reset()

	if s.Tick() != 0 || s.AgentCount() != 0 {
		t.Errorf("tick=%d agents=%d after reset, want 0 and 0", s.Tick(), s.AgentCount())
	}
	if len(s.FoodSources()) != 0 || len(s.MoldSources()) != 0 {
		t.Error("sources survived reset")
	}
	if s.Field().TotalTrail() != 0 {
		t.Error("trail survived reset")
	}
	for _, v := range s.Field().Food {
		if v != 0 {
			t.Fatal("food grid survived reset")
		}
	}
	var n int
	s.Agents(func(*components.Position, *components.Rotation, *components.Vitals) { n++ })
	if n != 0 {
		t.Errorf("query found %d agents after reset", n)
	}

	// Stepping an empty plate only decays
	s.Step()
	if s.Field().TotalTrail() != 0 {
		t.Error("empty plate grew trail")
	}
}

func runScenario(t testing.TB, workers int, ticks int) *Simulation {
	cfg := testConfig(200, 200, 1500)
	cfg.Simulation.Workers = workers
	s := newTestSim(t, cfg, 99)
	s.PlaceMoldSource(100, 100)
	s.PlaceMoldSource(60, 120)
	s.PlaceFoodSource(40, 60)
	s.PlaceFoodSource(150, 140)
	for i := 0; i < ticks; i++ {
		s.Step()
	}
	return s
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	serial := runScenario(t, 1, 40)
	parallel := runScenario(t, 4, 40)

	a, b := serial.Field().Trail, parallel.Field().Trail
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trail differs at %d: serial %v, parallel %v", i, a[i], b[i])
		}
	}

	var posA, posB []components.Position
	serial.Agents(func(p *components.Position, _ *components.Rotation, _ *components.Vitals) { posA = append(posA, *p) })
	parallel.Agents(func(p *components.Position, _ *components.Rotation, _ *components.Vitals) { posB = append(posB, *p) })
	if len(posA) != len(posB) {
		t.Fatalf("agent counts differ: %d vs %d", len(posA), len(posB))
	}
	for i := range posA {
		if posA[i] != posB[i] {
			t.Fatalf("agent %d differs: %+v vs %+v", i, posA[i], posB[i])
		}
	}
}

func TestSameSeedSameResult(t *testing.T) {
	a := runScenario(t, 2, 25)
	b := runScenario(t, 2, 25)
	if a.Field().TotalTrail() != b.Field().TotalTrail() {
		t.Errorf("total trail differs: %v vs %v", a.Field().TotalTrail(), b.Field().TotalTrail())
	}
}

func TestVeinsFormBetweenSources(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long vein formation run in short mode")
	}

	s := newTestSim(t, testConfig(100, 100, 300), 7)
	s.PlaceFoodSource(20, 20)
	s.PlaceFoodSource(80, 80)
	s.PlaceMoldSource(50, 50)

	for i := 0; i < 500; i++ {
		s.Step()
	}

	r := s.VeinReport()
	if r.FarSamples == 0 {
		t.Fatal("no off-path cells sampled")
	}
	if r.LineMean <= r.FarMean {
		t.Errorf("line mean %v not above off-path mean %v", r.LineMean, r.FarMean)
	}
	if r.LineFraction <= r.FarFraction {
		t.Errorf("line fraction %v not above off-path fraction %v", r.LineFraction, r.FarFraction)
	}
}

func TestTunablesClamp(t *testing.T) {
	s := newTestSim(t, testConfig(50, 50, 10), 5)
	def := s.Tunables()

	s.SetTunables(Tunables{
		AgentsPerSource: 0,
		StepSize:        float32(math.NaN()),
		SensorDistance:  1e6,
		DepositAmount:   -4,
		DecaySpeed:      0.5,
		FoodAttraction:  50,
	})
	got := s.Tunables()

	if got.AgentsPerSource != MinAgentsPerSource {
		t.Errorf("agents = %d, want %d", got.AgentsPerSource, MinAgentsPerSource)
	}
	if got.StepSize != def.StepSize {
		t.Errorf("NaN step size = %v, want default %v", got.StepSize, def.StepSize)
	}
	if got.SensorDistance != MaxSensorDistance {
		t.Errorf("sensor distance = %v, want %v", got.SensorDistance, float32(MaxSensorDistance))
	}
	if got.DepositAmount != 0 {
		t.Errorf("deposit = %v, want 0", got.DepositAmount)
	}
	if got.DecaySpeed != MinDecaySpeed {
		t.Errorf("decay = %v, want %v", got.DecaySpeed, float32(MinDecaySpeed))
	}
	if got.FoodAttraction != 50 {
		t.Errorf("food attraction = %v, want 50", got.FoodAttraction)
	}
	if s.params.SensorDistance != MaxSensorDistance || s.decay.DecaySpeed != MinDecaySpeed {
		t.Error("clamped tunables not applied to the step parameters")
	}

	s.ResetTunables()
	if s.Tunables() != def {
		t.Errorf("after reset = %+v, want %+v", s.Tunables(), def)
	}
}

func TestTunableAgentsApplyToNextMold(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 10), 6)
	s.PlaceMoldSource(50, 50)

	tun := s.Tunables()
	tun.AgentsPerSource = 25
	s.SetTunables(tun)

	if s.AgentCount() != 10 {
		t.Errorf("existing agents changed to %d", s.AgentCount())
	}
	s.PlaceMoldSource(40, 40)
	if s.AgentCount() != 35 {
		t.Errorf("agents = %d, want 35", s.AgentCount())
	}
}

func TestPatchTunables(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 10), 6)
	before := s.Tunables()

	if !(TunablesPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}

	deposit := float32(0)
	step := float32(4)
	s.Commands().PatchTunables(TunablesPatch{StepSize: &step})
	s.Update()

	got := s.Tunables()
	want := before
	want.StepSize = 4
	if got != want {
		t.Errorf("after step patch = %+v, want %+v", got, want)
	}

	// An explicit zero is a value, not an omission
	s.PatchTunables(TunablesPatch{DepositAmount: &deposit})
	if s.Tunables().DepositAmount != 0 || s.Tunables().StepSize != 4 {
		t.Errorf("after deposit patch = %+v", s.Tunables())
	}
}

func TestFoodReachedCount(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 10), 3)
	s.PlaceFoodSource(30, 30)
	s.PlaceFoodSource(70, 70)
	if s.FoodReached() != 0 {
		t.Fatalf("fresh plate reports %d foods reached", s.FoodReached())
	}

	f := s.Field()
	f.Trail[f.CellIndex(30, 30)] = systems.ReachedTrail + 10
	if s.FoodReached() != 1 {
		t.Errorf("foods reached = %d, want 1", s.FoodReached())
	}
}

func TestCommandQueue(t *testing.T) {
	s := newTestSim(t, testConfig(100, 100, 20), 8)
	q := s.Commands()

	q.PlaceFood(30, 30)
	q.PlaceMold(50, 50)
	if q.Len() != 2 {
		t.Fatalf("queue len = %d, want 2", q.Len())
	}
	if len(s.FoodSources()) != 0 {
		t.Fatal("command applied before the step")
	}

	s.Update()
	if q.Len() != 0 {
		t.Errorf("queue len after update = %d, want 0", q.Len())
	}
	if len(s.FoodSources()) != 1 || s.AgentCount() != 20 {
		t.Errorf("foods=%d agents=%d, want 1 and 20", len(s.FoodSources()), s.AgentCount())
	}

	q.SetPaused(true)
	s.Update()
	paused := s.Tick()
	if !s.Paused() {
		t.Fatal("pause command not applied")
	}

	// Commands still apply while paused, ticks do not
	q.PlaceFood(70, 70)
	s.Update()
	s.Update()
	if s.Tick() != paused {
		t.Errorf("tick advanced while paused: %d -> %d", paused, s.Tick())
	}
	if len(s.FoodSources()) != 2 {
		t.Errorf("foods = %d, want 2", len(s.FoodSources()))
	}

	q.SetPaused(false)
	q.Reset()
	s.Update()
	if s.Paused() || s.AgentCount() != 0 {
		t.Errorf("paused=%v agents=%d after resume and reset", s.Paused(), s.AgentCount())
	}
}

func TestCommandKindString(t *testing.T) {
	if CmdPlaceFood.String() == CmdPlaceMold.String() {
		t.Error("command kinds share a name")
	}
}

func TestAutoSetup(t *testing.T) {
	cfg := testConfig(800, 800, 200)
	s := newTestSim(t, cfg, 11)
	s.PlaceFoodSource(10, 10)

	placed := s.AutoSetup(8)
	if placed < 1 || placed > 8 {
		t.Fatalf("placed = %d, want 1..8", placed)
	}
	if len(s.FoodSources()) != placed {
		t.Errorf("foods = %d, want %d (auto setup resets first)", len(s.FoodSources()), placed)
	}
	if len(s.MoldSources()) != 1 {
		t.Fatalf("molds = %d, want 1", len(s.MoldSources()))
	}

	cx, cy := s.Field().Center()
	m := s.MoldSources()[0]
	if m.X != cx || m.Y != cy {
		t.Errorf("mold at (%v, %v), want centre (%v, %v)", m.X, m.Y, cx, cy)
	}

	foods := s.FoodSources()
	spacing := float32(cfg.AutoSetup.MinFoodSpacing)
	for i, a := range foods {
		if !s.Field().WithinPlate(a.X, a.Y) {
			t.Errorf("food %d at (%v, %v) outside plate", i, a.X, a.Y)
		}
		dc := math.Hypot(float64(a.X-cx), float64(a.Y-cy))
		if dc < cfg.AutoSetup.MinCenterDistance-1e-3 {
			t.Errorf("food %d only %v from centre", i, dc)
		}
		for j := i + 1; j < len(foods); j++ {
			b := foods[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			if dx*dx+dy*dy < spacing*spacing {
				t.Errorf("foods %d and %d closer than %v", i, j, spacing)
			}
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSim(t, testConfig(60, 60, 10), 12)
	s.PlaceMoldSource(30, 30)
	s.PlaceFoodSource(20, 20)

	snap := s.Snapshot()
	if snap.W != 60 || snap.H != 60 || len(snap.Trail) != 3600 {
		t.Fatalf("snapshot dims %dx%d len %d", snap.W, snap.H, len(snap.Trail))
	}
	snap.Trail[30*60+30] = -1
	snap.Foods[0].X = 0
	if s.Field().Trail[30*60+30] == -1 || s.FoodSources()[0].X == 0 {
		t.Error("snapshot aliases live state")
	}

	frame := s.Snapshot().Frame()
	if len(frame.Trail) != 3600 || len(frame.Food) != 3600 {
		t.Errorf("frame grid lengths %d, %d", len(frame.Trail), len(frame.Food))
	}
	if frame.Agents != 10 || len(frame.Molds) != 1 {
		t.Errorf("frame agents=%d molds=%d", frame.Agents, len(frame.Molds))
	}
}

func TestQuantise(t *testing.T) {
	got := quantise([]float32{-3, 0, 0.4, 0.6, 127.5, 254.6, 300})
	want := []byte{0, 0, 0, 1, 128, 255, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("quantise[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestStatsCallbackAndOutput(t *testing.T) {
	cfg := testConfig(80, 80, 50)
	cfg.Telemetry.StatsWindow = 5
	dir := filepath.Join(t.TempDir(), "run")

	var windows []telemetry.WindowStats
	s, err := New(Options{
		Config:        cfg,
		Seed:          13,
		OutputDir:     dir,
		StatsCallback: func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.PlaceMoldSource(40, 40)
	for i := 0; i < 10; i++ {
		s.Step()
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("callback fired %d times, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 5 || windows[1].WindowEndTick != 10 {
		t.Errorf("window ends %d, %d, want 5, 10", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[1].Agents != 50 || windows[1].TrailMass <= 0 {
		t.Errorf("unexpected window: %+v", windows[1])
	}
	if got := windows[0].Lost + windows[0].Exploring + windows[0].Normal; got != 5*50 {
		t.Errorf("agent-ticks = %d, want 250", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func BenchmarkStep(b *testing.B) {
	cfg := testConfig(400, 400, 10000)
	cfg.Simulation.Workers = 0
	s := newTestSim(b, cfg, 1)
	s.PlaceMoldSource(200, 200)
	s.PlaceFoodSource(120, 120)
	s.PlaceFoodSource(300, 260)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step()
	}
}
