package renderer

import (
	"image/color"
	"testing"
)

func TestTrailColor(t *testing.T) {
	tests := []struct {
		name        string
		trail, food float32
		want        color.RGBA
	}{
		{"empty agar", 0, 0, AgarColor},
		{"faint trail", 2, 0, AgarColor},
		{"food core wins", 255, 201, OatColor},
		{"food below core", 0, 200, AgarColor},
		{"sheet", 20, 0, color.RGBA{R: 140, G: 137, B: 27, A: 153}},
		{"vein", 60, 0, color.RGBA{R: 161, G: 158, B: 31, A: 204}},
		{"young mature vein", 100, 0, color.RGBA{R: 201, G: 197, B: 39, A: 255}},
		{"mature vein", 160, 0, color.RGBA{R: 255, G: 250, B: 50, A: 255}},
		{"saturated", 255, 0, color.RGBA{R: 255, G: 250, B: 50, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrailColor(tt.trail, tt.food); got != tt.want {
				t.Errorf("TrailColor(%v, %v) = %v, want %v", tt.trail, tt.food, got, tt.want)
			}
		})
	}
}

func TestTrailColorBrightensWithTrail(t *testing.T) {
	prev := TrailColor(3, 0)
	for trail := float32(4); trail <= 255; trail++ {
		c := TrailColor(trail, 0)
		// Band edges reset brightness but never alpha
		if c.A < prev.A {
			t.Fatalf("alpha fell from %d to %d at trail %v", prev.A, c.A, trail)
		}
		prev = c
	}
}

func TestGlowAt(t *testing.T) {
	if got := GlowAt(MoldGlow, -1); got != MoldGlow[0].Color {
		t.Errorf("GlowAt(-1) = %v, want first stop", got)
	}
	if got := GlowAt(MoldGlow, 2); got != MoldGlow[3].Color {
		t.Errorf("GlowAt(2) = %v, want last stop", got)
	}
	if got := GlowAt(FoodGlow, 0.3); got != FoodGlow[1].Color {
		t.Errorf("GlowAt(0.3) = %v, want stop at 0.3", got)
	}

	mid := GlowAt(MoldGlow, 0.85)
	if mid.A != 51 {
		t.Errorf("alpha halfway between 0.7 and 1 = %d, want 51", mid.A)
	}
	if GlowAt(nil, 0.5) != (color.RGBA{}) {
		t.Error("GlowAt(nil) should be transparent")
	}
}

func TestGlowRings(t *testing.T) {
	rings := GlowRings(MoldGlow, 4)
	if len(rings) != 4 {
		t.Fatalf("got %d rings, want 4", len(rings))
	}
	if rings[0].Outer != 1 || rings[0].OuterColor != MoldGlow[3].Color {
		t.Errorf("outermost ring = %+v, want radius 1 fading to the last stop", rings[0])
	}
	if rings[0].Inner != GlowAt(MoldGlow, 0.75) {
		t.Errorf("outermost ring inner colour = %v, want GlowAt(0.75)", rings[0].Inner)
	}
	if last := rings[3]; last.Outer != 0.25 || last.Inner != MoldGlow[0].Color {
		t.Errorf("innermost ring = %+v, want radius 0.25 from the first stop", last)
	}
	for i := 1; i < len(rings); i++ {
		if rings[i].Outer >= rings[i-1].Outer {
			t.Errorf("ring %d radius %v not inside ring %d", i, rings[i].Outer, i-1)
		}
		if rings[i].OuterColor != rings[i-1].Inner {
			t.Errorf("ring %d edge colour does not meet ring %d", i, i-1)
		}
	}
	if GlowRings(MoldGlow, 0) != nil || GlowRings(nil, 4) != nil {
		t.Error("degenerate input should give no rings")
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{X: 280, Y: 10, Scale: 0.5}
	sx, sy := v.ToScreen(100, 40)
	if sx != 330 || sy != 30 {
		t.Errorf("ToScreen = (%v, %v), want (330, 30)", sx, sy)
	}
	gx, gy := v.ToGrid(sx, sy)
	if gx != 100 || gy != 40 {
		t.Errorf("ToGrid = (%v, %v), want (100, 40)", gx, gy)
	}
	if gx, gy := (Viewport{}).ToGrid(5, 5); gx != 0 || gy != 0 {
		t.Error("zero-scale viewport should map to origin")
	}
}
