package sim

import (
	"github.com/pthm-cable/slime/systems"
)

// Snapshot is a read-only copy of the state an observer renders.
type Snapshot struct {
	Tick        int32
	Convergence float32
	AgentCount  int
	Paused      bool

	W, H        int
	PlateRadius float32
	Trail       []float32
	Food        []float32
	Foods       []systems.FoodSource
	Molds       []systems.MoldSource
}

// Snapshot deep-copies the grids and source lists.
func (s *Simulation) Snapshot() Snapshot {
	w, h := s.field.Dims()
	snap := Snapshot{
		Tick:        s.tick,
		Convergence: s.Convergence(),
		AgentCount:  s.agentCount,
		Paused:      s.paused,
		W:           w,
		H:           h,
		PlateRadius: s.field.PlateRadius(),
		Trail:       make([]float32, len(s.field.Trail)),
		Food:        make([]float32, len(s.field.Food)),
		Foods:       append([]systems.FoodSource(nil), s.foods...),
		Molds:       append([]systems.MoldSource(nil), s.molds...),
	}
	copy(snap.Trail, s.field.Trail)
	copy(snap.Food, s.field.Food)
	return snap
}

// Frame is a compact snapshot with grids quantised to bytes.
type Frame struct {
	Tick        int32                `json:"tick"`
	Convergence float32              `json:"convergence"`
	Agents      int                  `json:"agents"`
	Paused      bool                 `json:"paused"`
	W           int                  `json:"w"`
	H           int                  `json:"h"`
	Trail       []byte               `json:"trail"` // base64 in JSON
	Food        []byte               `json:"food"`
	Foods       []systems.FoodSource `json:"foods"`
	Molds       []systems.MoldSource `json:"molds"`
}

// Frame quantises the snapshot for network observers.
func (snap Snapshot) Frame() Frame {
	return Frame{
		Tick:        snap.Tick,
		Convergence: snap.Convergence,
		Agents:      snap.AgentCount,
		Paused:      snap.Paused,
		W:           snap.W,
		H:           snap.H,
		Trail:       quantise(snap.Trail),
		Food:        quantise(snap.Food),
		Foods:       snap.Foods,
		Molds:       snap.Molds,
	}
}

// quantise rounds each value in [0, 255] to a byte.
func quantise(src []float32) []byte {
	out := make([]byte, len(src))
	for i, v := range src {
		switch {
		case v <= 0:
			out[i] = 0
		case v >= systems.MaxTrail:
			out[i] = systems.MaxTrail
		default:
			out[i] = byte(v + 0.5)
		}
	}
	return out
}
