package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/slime/systems"
)

func TestLineProfile(t *testing.T) {
	f := systems.NewField(20, 20, 0)
	for x := 0; x < 20; x++ {
		f.Trail[5*20+x] = 10
	}

	p := LineProfile(f, 2.5, 5.5, 12.5, 5.5)
	if len(p) != 11 {
		t.Fatalf("len = %d, want 11", len(p))
	}
	for i, v := range p {
		if v != 10 {
			t.Errorf("sample %d = %v, want 10", i, v)
		}
	}

	if p := LineProfile(f, 3.5, 5.5, 3.5, 5.5); len(p) != 1 || p[0] != 10 {
		t.Errorf("degenerate profile = %v, want [10]", p)
	}
}

func TestFractionAbove(t *testing.T) {
	tests := []struct {
		values    []float64
		threshold float64
		want      float64
	}{
		{nil, 1, 0},
		{[]float64{0, 1, 2, 3}, 1, 0.5},
		{[]float64{5, 5}, 5, 0},
		{[]float64{5, 6}, 0, 1},
	}
	for _, tt := range tests {
		if got := FractionAbove(tt.values, tt.threshold); got != tt.want {
			t.Errorf("FractionAbove(%v, %v) = %v, want %v", tt.values, tt.threshold, got, tt.want)
		}
	}
}

func TestVeinContrastPaintedLine(t *testing.T) {
	f := systems.NewField(100, 100, 2)
	molds := []systems.MoldSource{{X: 20, Y: 50, Radius: 5}}
	foods := []systems.FoodSource{{X: 80, Y: 50, Radius: 5}}

	// Paint a thick vein along y = 50
	for y := 48; y <= 52; y++ {
		for x := 20; x <= 80; x++ {
			f.Trail[y*100+x] = 120
		}
	}

	r := VeinContrast(f, molds, foods, 50)
	if r.LineFraction < 0.95 {
		t.Errorf("line fraction = %v, want ~1", r.LineFraction)
	}
	if r.FarMean != 0 || r.FarFraction != 0 {
		t.Errorf("far region mean=%v frac=%v, want 0", r.FarMean, r.FarFraction)
	}
	if r.FarSamples == 0 {
		t.Error("expected far samples")
	}
	if math.Abs(r.Contrast-r.LineMean) > 1e-9 {
		t.Errorf("contrast = %v, want line mean %v", r.Contrast, r.LineMean)
	}
}

func TestVeinContrastUniform(t *testing.T) {
	f := systems.NewField(100, 100, 2)
	for i := range f.Trail {
		f.Trail[i] = 30
	}
	r := VeinContrast(f,
		[]systems.MoldSource{{X: 50, Y: 50}},
		[]systems.FoodSource{{X: 20, Y: 20}, {X: 80, Y: 80}},
		10,
	)
	if r.LineMean != 30 || r.FarMean != 30 {
		t.Errorf("line=%v far=%v, want 30 and 30", r.LineMean, r.FarMean)
	}
	if r.LineSamples == 0 || r.FarSamples == 0 {
		t.Errorf("samples line=%d far=%d, want both > 0", r.LineSamples, r.FarSamples)
	}
}

func TestVeinContrastNoSources(t *testing.T) {
	f := systems.NewField(50, 50, 2)
	if r := VeinContrast(f, nil, []systems.FoodSource{{X: 1, Y: 1}}, 10); r != (VeinReport{}) {
		t.Errorf("report = %+v, want zero", r)
	}
}
