package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Grid.Width != 800 || cfg.Grid.Height != 800 {
		t.Errorf("expected 800x800 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Agents.PerSource != 18000 {
		t.Errorf("expected 18000 agents per source, got %d", cfg.Agents.PerSource)
	}
	if cfg.Convergence.Horizon != 3000 {
		t.Errorf("expected horizon 3000, got %d", cfg.Convergence.Horizon)
	}
	if cfg.Derived.PlateRadius != 390 {
		t.Errorf("expected plate radius 390, got %f", cfg.Derived.PlateRadius)
	}
	if cfg.Derived.CenterX != 400 || cfg.Derived.CenterY != 400 {
		t.Errorf("expected center (400,400), got (%f,%f)", cfg.Derived.CenterX, cfg.Derived.CenterY)
	}
	if d := cfg.Derived.DecayFactor; d < 0.9949 || d > 0.9951 {
		t.Errorf("expected decay factor 0.995, got %f", d)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	overlay := []byte("grid:\n  width: 100\n  height: 120\nagents:\n  per_source: 250\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Grid.Width != 100 || cfg.Grid.Height != 120 {
		t.Errorf("overlay not applied: got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Agents.PerSource != 250 {
		t.Errorf("expected 250 agents per source, got %d", cfg.Agents.PerSource)
	}
	// Fields absent from the overlay keep their defaults
	if cfg.Agents.StepSize != 3.0 {
		t.Errorf("expected default step size 3.0, got %f", cfg.Agents.StepSize)
	}
	// Plate radius uses the shorter side
	if cfg.Derived.PlateRadius != 40 {
		t.Errorf("expected plate radius 40, got %f", cfg.Derived.PlateRadius)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "grid: [1, 2"},
		{"tiny grid", "grid:\n  width: 2\n"},
		{"margin swallows plate", "grid:\n  width: 40\n  height: 40\n  boundary_margin: 20\n"},
		{"negative sample radius", "sensing:\n  sample_radius: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %q", tt.body)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Trail.DecaySpeed = 7
	cfg.Sensing.FoodAttraction = 12.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if loaded.Trail.DecaySpeed != 7 || loaded.Sensing.FoodAttraction != 12.5 {
		t.Errorf("written values not preserved: decay=%f attraction=%f",
			loaded.Trail.DecaySpeed, loaded.Sensing.FoodAttraction)
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after MustInit")
	}
}
