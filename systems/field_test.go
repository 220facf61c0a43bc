package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/slime/config"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

func TestCellIndex(t *testing.T) {
	f := NewField(10, 10, 1)
	nan := float32(math.NaN())

	tests := []struct {
		name string
		x, y float32
		want int
	}{
		{"origin", 0, 0, 0},
		{"floors fraction", 3.5, 2.7, 23},
		{"last cell", 9.99, 9.99, 99},
		{"negative x", -0.1, 0, NoCell},
		{"x at width", 10, 0, NoCell},
		{"y at height", 0, 10, NoCell},
		{"nan", nan, 5, NoCell},
		{"huge", 1e30, 5, NoCell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.CellIndex(tt.x, tt.y); got != tt.want {
				t.Errorf("CellIndex(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestWithinPlate(t *testing.T) {
	f := NewField(100, 100, 10)

	if f.PlateRadius() != 40 {
		t.Fatalf("expected plate radius 40, got %f", f.PlateRadius())
	}

	tests := []struct {
		x, y float32
		want bool
	}{
		{50, 50, true},
		{90, 50, true},
		{90.5, 50, false},
		{50, 10, true},
		{0, 0, false},
		{80, 80, false},
	}
	for _, tt := range tests {
		if got := f.WithinPlate(tt.x, tt.y); got != tt.want {
			t.Errorf("WithinPlate(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDepositSaturates(t *testing.T) {
	tests := []struct {
		start, amount, want float32
	}{
		{0, 6, 6},
		{100, 50, 150},
		{250, 6, 255},
		{255, 9, 255},
		{10, 0, 10},
		{10, -5, 10},
	}
	for _, tt := range tests {
		f := NewField(4, 4, 0)
		f.Trail[5] = tt.start
		f.Deposit(5, tt.amount)
		if f.Trail[5] != tt.want {
			t.Errorf("Deposit(%v) onto %v = %v, want %v", tt.amount, tt.start, f.Trail[5], tt.want)
		}
		if f.Trail[5] < tt.start {
			t.Errorf("Deposit decreased trail from %v to %v", tt.start, f.Trail[5])
		}
	}
}

func TestDepositNoCell(t *testing.T) {
	f := NewField(4, 4, 0)
	f.Deposit(NoCell, 10)
	f.Deposit(len(f.Trail), 10)
	if f.TotalTrail() != 0 {
		t.Errorf("expected out-of-range deposits to be ignored, total=%f", f.TotalTrail())
	}
}

func TestStampFood(t *testing.T) {
	f := NewField(100, 100, 10)
	g := NewFoodGradient(config.Cfg().Food)
	f.StampFood(50, 50, g)

	if got := f.FoodAt(50, 50); got != MaxTrail {
		t.Errorf("expected full strength at centre, got %f", got)
	}
	if got := f.FoodAt(62, 50); got != MaxTrail {
		t.Errorf("expected full strength at food radius, got %f", got)
	}

	want := float32(150 * math.Exp(-20.0/15.0))
	if got := f.FoodAt(70, 50); math.Abs(float64(got-want)) > 0.01 {
		t.Errorf("expected tail strength %f at distance 20, got %f", want, got)
	}
	if got := f.FoodAt(91, 50); got != 0 {
		t.Errorf("expected no food beyond gradient radius, got %f", got)
	}

	for i, v := range f.Food {
		if v < 0 || v > MaxTrail {
			t.Fatalf("food[%d] = %f out of range", i, v)
		}
	}
}

func TestStampFoodIdempotent(t *testing.T) {
	f := NewField(100, 100, 10)
	g := NewFoodGradient(config.Cfg().Food)

	f.StampFood(30.5, 40.25, g)
	first := make([]float32, len(f.Food))
	copy(first, f.Food)

	f.StampFood(30.5, 40.25, g)
	for i := range first {
		if f.Food[i] != first[i] {
			t.Fatalf("re-stamping changed food[%d]: %f -> %f", i, first[i], f.Food[i])
		}
	}
}

func TestStampFoodOverlapKeepsMax(t *testing.T) {
	f := NewField(100, 100, 10)
	g := NewFoodGradient(config.Cfg().Food)

	f.StampFood(40, 50, g)
	at60 := f.FoodAt(60, 50)
	f.StampFood(80, 50, g)

	if got := f.FoodAt(60, 50); got < at60 {
		t.Errorf("overlapping stamp erased food: %f -> %f", at60, got)
	}
	if got := f.FoodAt(40, 50); got != MaxTrail {
		t.Errorf("first food centre lost strength: %f", got)
	}
}

func TestStampMold(t *testing.T) {
	f := NewField(100, 100, 10)
	b := NewMoldBlob(config.Cfg().Mold)
	f.StampMold(50, 50, b)

	if got := f.TrailAt(50, 50); got != 200 {
		t.Errorf("expected 200 at blob centre, got %f", got)
	}
	if got := f.TrailAt(68, 50); math.Abs(float64(got-160)) > 0.001 {
		t.Errorf("expected 160 at blob edge, got %f", got)
	}
	if got := f.TrailAt(69, 50); got != 0 {
		t.Errorf("expected no trail beyond blob, got %f", got)
	}

	// Max-based: an existing stronger value survives
	f.Trail[f.CellIndex(50, 50)] = 250
	f.StampMold(50, 50, b)
	if got := f.TrailAt(50, 50); got != 250 {
		t.Errorf("stamp overwrote stronger trail: got %f", got)
	}
}

func TestStampNearEdge(t *testing.T) {
	f := NewField(20, 20, 1)
	f.StampFood(0, 0, NewFoodGradient(config.Cfg().Food))
	f.StampMold(19.5, 19.5, NewMoldBlob(config.Cfg().Mold))

	if f.FoodAt(0, 0) != MaxTrail {
		t.Error("expected food at corner stamp centre")
	}
	if f.TrailAt(19, 19) == 0 {
		t.Error("expected trail at corner blob centre")
	}
}

func TestClear(t *testing.T) {
	f := NewField(50, 50, 5)
	f.StampFood(25, 25, NewFoodGradient(config.Cfg().Food))
	f.StampMold(25, 25, NewMoldBlob(config.Cfg().Mold))
	f.Diffuse(NewTrailDecay(config.Cfg().Trail), 0)

	f.Clear()
	for i := range f.Trail {
		if f.Trail[i] != 0 || f.Food[i] != 0 || f.tmp[i] != 0 {
			t.Fatalf("cell %d not cleared", i)
		}
	}
}

func TestFoodReached(t *testing.T) {
	f := NewField(20, 20, 1)
	fs := FoodSource{X: 10.5, Y: 10.5, Radius: 3}
	idx := f.CellIndex(fs.X, fs.Y)

	tests := []struct {
		trail float32
		want  bool
	}{
		{0, false},
		{ReachedTrail, false},
		{ReachedTrail + 1, true},
		{MaxTrail, true},
	}
	for _, tt := range tests {
		f.Trail[idx] = tt.trail
		if got := fs.Reached(f); got != tt.want {
			t.Errorf("Reached() with trail %v = %v, want %v", tt.trail, got, tt.want)
		}
	}

	off := FoodSource{X: -5, Y: 3}
	if off.Reached(f) {
		t.Error("food off the grid should never count as reached")
	}
}
