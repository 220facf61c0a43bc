// Package components defines ECS components for the simulation.
package components

import "math"

// Position represents an agent's position in grid coordinates.
type Position struct {
	X, Y float32
}

// Rotation represents an agent's heading.
type Rotation struct {
	Heading float32 // radians, kept in [0, 2*Pi)
}

// Vitals holds an agent's slow-moving fitness state.
type Vitals struct {
	Fitness          float32 // Low-pass integral of reward
	LastFoodDistance float32 // Nearest food distance at the previous reward call
}

// NewVitals returns the vitals of a freshly spawned agent.
// No reward has been computed yet, so the last food distance is infinite.
func NewVitals() Vitals {
	return Vitals{LastFoodDistance: float32(math.Inf(1))}
}
