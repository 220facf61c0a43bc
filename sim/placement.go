package sim

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/systems"
)

// PlaceMoldSource spawns AgentsPerSource agents around (x, y) with evenly
// spread headings and stamps the initial trail blob.
// Placement is not restricted to the plate; callers reject clicks outside it.
func (s *Simulation) PlaceMoldSource(x, y float32) {
	s.placeMold(x, y, s.moldBlob)
}

func (s *Simulation) placeMold(x, y float32, blob systems.MoldBlob) {
	s.molds = append(s.molds, systems.MoldSource{X: x, Y: y, Radius: blob.Radius})
	s.spawnAgents(x, y, s.tunables.AgentsPerSource)
	s.field.StampMold(x, y, blob)

	slog.Debug("mold placed", "x", x, "y", y, "agents", s.agentCount, "tick", s.tick)
}

// PlaceFoodSource records a food source and stamps its gradient.
func (s *Simulation) PlaceFoodSource(x, y float32) {
	s.foods = append(s.foods, systems.FoodSource{X: x, Y: y, Radius: s.foodGradient.Radius})
	s.field.StampFood(x, y, s.foodGradient)

	slog.Debug("food placed", "x", x, "y", y, "foods", len(s.foods), "tick", s.tick)
}

// spawnAgents creates n agents clustered around (x, y). Agent i heads
// outward at angle i/n * 2*Pi.
func (s *Simulation) spawnAgents(x, y float32, n int) {
	spawnRadius := float32(s.cfg.Agents.SpawnRadius)
	for i := 0; i < n; i++ {
		angle := float32(i) / float32(n) * 2 * math.Pi
		r := s.rng.Float32() * spawnRadius
		px := x + float32(math.Cos(float64(angle)))*r
		py := y + float32(math.Sin(float64(angle)))*r
		px, py = s.clampToPlate(px, py)

		pos := components.Position{X: px, Y: py}
		rot := components.Rotation{Heading: angle}
		vit := components.NewVitals()
		s.agentMapper.NewEntity(&pos, &rot, &vit)
	}
	s.agentCount += n
}

// clampToPlate pulls a point outside the plate back onto it, half a cell
// inside the rim.
func (s *Simulation) clampToPlate(x, y float32) (float32, float32) {
	if s.field.WithinPlate(x, y) {
		return x, y
	}
	cx, cy := s.field.Center()
	dx, dy := x-cx, y-cy
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	r := s.field.PlateRadius() - 0.5
	if r <= 0 || d == 0 {
		return cx, cy
	}
	return cx + dx/d*r, cy + dy/d*r
}

// AutoSetup resets the plate, places a mold source at the centre and up to
// foodCount food sources at random spaced positions. Returns the number of
// food sources placed.
func (s *Simulation) AutoSetup(foodCount int) int {
	as := s.cfg.AutoSetup
	s.Reset()

	cx, cy := s.field.Center()
	s.placeMold(cx, cy, s.autoBlob)

	w, h := s.field.Dims()
	maxDist := float32(min(w, h))/2 - float32(as.PlateInset)
	minDist := float32(as.MinCenterDistance)
	spacing := float32(as.MinFoodSpacing)

	placed := 0
	for attempt := 0; attempt < as.MaxAttempts && placed < foodCount; attempt++ {
		angle := s.rng.Float64() * 2 * math.Pi
		dist := minDist + s.rng.Float32()*(maxDist-minDist)
		x := cx + float32(math.Cos(angle))*dist
		y := cy + float32(math.Sin(angle))*dist

		if !s.field.WithinPlate(x, y) || s.tooCloseToFood(x, y, spacing) {
			continue
		}
		s.PlaceFoodSource(x, y)
		placed++
	}

	slog.Info("auto setup",
		"food_requested", foodCount,
		"food_placed", placed,
		"agents", s.agentCount,
	)
	return placed
}

func (s *Simulation) tooCloseToFood(x, y, spacing float32) bool {
	for _, f := range s.foods {
		dx, dy := x-f.X, y-f.Y
		if dx*dx+dy*dy < spacing*spacing {
			return true
		}
	}
	return false
}
