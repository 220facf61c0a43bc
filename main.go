package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/game"
	"github.com/pthm-cable/slime/server"
	"github.com/pthm-cable/slime/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	serve := flag.String("serve", "", "Serve WebSocket observers on this address, e.g. :8080 (empty = config value)")
	autoFood := flag.Int("auto-food", -1, "Auto setup with N food sources at start (-1 = off, 0 = config count)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *stepsPerUpdate > 0 {
		cfg.Simulation.StepsPerUpdate = *stepsPerUpdate
	}

	s, err := sim.New(sim.Options{
		Config:    cfg,
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close simulation", "error", err)
		}
	}()

	if *autoFood >= 0 {
		n := *autoFood
		if n == 0 {
			n = cfg.AutoSetup.FoodCount
		}
		s.AutoSetup(n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pub := startServer(ctx, s, cfg, *serve)

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		slog.Info("starting headless simulation",
			"seed", s.Seed(),
			"max_ticks", *maxTicks,
			"steps_per_update", cfg.Simulation.StepsPerUpdate,
			"agents", s.AgentCount(),
		)

		for ctx.Err() == nil {
			s.Update()
			pub.maybePublish(s)
			if s.Paused() && s.Commands().Len() == 0 {
				// Only observer commands can change anything now
				time.Sleep(10 * time.Millisecond)
			}

			if *maxTicks > 0 && int(s.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", s.Tick())
				return
			}
		}
		slog.Info("interrupted", "tick", s.Tick())
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Physarum")
	defer rl.CloseWindow()
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(s)
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()
		pub.maybePublish(s)

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// publisher forwards frames to the observer hub every FrameInterval ticks.
type publisher struct {
	hub      *server.Hub
	interval int32
	last     int32
}

func (p *publisher) maybePublish(s *sim.Simulation) {
	if p == nil {
		return
	}
	tick := s.Tick()
	if tick < p.last {
		// Plate was reset
		p.last = tick
	}
	if !s.Paused() && tick != 0 && tick-p.last < p.interval {
		return
	}
	p.last = tick
	p.hub.Publish(s.Snapshot().Frame())
}

// startServer launches the observer hub when an address is configured.
// Returns nil when serving is disabled.
func startServer(ctx context.Context, s *sim.Simulation, cfg *config.Config, addr string) *publisher {
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if addr == "" {
		return nil
	}

	w, h := s.Field().Dims()
	hub := server.NewHub(s.Commands(), w, h, s.Field().PlateRadius(), cfg.AutoSetup.FoodCount)
	go hub.Run(ctx)
	go func() {
		if err := server.ListenAndServe(ctx, addr, hub); err != nil {
			slog.Error("observer server failed", "addr", addr, "error", err)
		}
	}()

	return &publisher{hub: hub, interval: int32(cfg.Server.FrameInterval)}
}
