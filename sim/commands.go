package sim

import (
	"log/slog"
	"sync"
)

// CommandKind identifies a queued mutation.
type CommandKind uint8

const (
	CmdPlaceFood CommandKind = iota
	CmdPlaceMold
	CmdAutoSetup
	CmdReset
	CmdSetTunables
	CmdResetTunables
	CmdSetPaused
	CmdPatchTunables
)

// String returns the display name for a CommandKind.
func (k CommandKind) String() string {
	switch k {
	case CmdPlaceFood:
		return "place_food"
	case CmdPlaceMold:
		return "place_mold"
	case CmdAutoSetup:
		return "auto_setup"
	case CmdReset:
		return "reset"
	case CmdSetTunables:
		return "set_tunables"
	case CmdResetTunables:
		return "reset_tunables"
	case CmdSetPaused:
		return "set_paused"
	case CmdPatchTunables:
		return "patch_tunables"
	}
	return "unknown"
}

// Command is a mutation requested from outside the tick goroutine.
type Command struct {
	Kind      CommandKind
	X, Y      float32       // place_food, place_mold
	FoodCount int           // auto_setup
	Tunables  Tunables      // set_tunables
	Patch     TunablesPatch // patch_tunables
	Paused    bool          // set_paused
}

// CommandQueue collects commands from any goroutine. The tick goroutine
// applies them with Drain, so they never overlap an in-flight tick.
type CommandQueue struct {
	mu      sync.Mutex
	pending []Command
	spare   []Command
}

// NewCommandQueue creates an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push enqueues a command.
func (q *CommandQueue) Push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// PlaceFood enqueues a food placement.
func (q *CommandQueue) PlaceFood(x, y float32) {
	q.Push(Command{Kind: CmdPlaceFood, X: x, Y: y})
}

// PlaceMold enqueues a mold placement.
func (q *CommandQueue) PlaceMold(x, y float32) {
	q.Push(Command{Kind: CmdPlaceMold, X: x, Y: y})
}

// AutoSetup enqueues an auto setup with foodCount food sources.
func (q *CommandQueue) AutoSetup(foodCount int) {
	q.Push(Command{Kind: CmdAutoSetup, FoodCount: foodCount})
}

// Reset enqueues a reset.
func (q *CommandQueue) Reset() {
	q.Push(Command{Kind: CmdReset})
}

// SetTunables enqueues a tunables change.
func (q *CommandQueue) SetTunables(t Tunables) {
	q.Push(Command{Kind: CmdSetTunables, Tunables: t})
}

// PatchTunables enqueues a partial tunables change, merged over the
// tunables in effect when the command is applied.
func (q *CommandQueue) PatchTunables(p TunablesPatch) {
	q.Push(Command{Kind: CmdPatchTunables, Patch: p})
}

// ResetTunables enqueues a return to default tunables.
func (q *CommandQueue) ResetTunables() {
	q.Push(Command{Kind: CmdResetTunables})
}

// SetPaused enqueues a pause or resume.
func (q *CommandQueue) SetPaused(paused bool) {
	q.Push(Command{Kind: CmdSetPaused, Paused: paused})
}

// Len returns the number of pending commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain applies all pending commands to s in arrival order and returns how
// many were applied. Must be called from the goroutine that steps s.
func (q *CommandQueue) Drain(s *Simulation) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, c := range batch {
		s.apply(c)
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}

// apply executes a single command.
func (s *Simulation) apply(c Command) {
	switch c.Kind {
	case CmdPlaceFood:
		s.PlaceFoodSource(c.X, c.Y)
	case CmdPlaceMold:
		s.PlaceMoldSource(c.X, c.Y)
	case CmdAutoSetup:
		s.AutoSetup(c.FoodCount)
	case CmdReset:
		s.Reset()
	case CmdSetTunables:
		s.SetTunables(c.Tunables)
	case CmdPatchTunables:
		s.PatchTunables(c.Patch)
	case CmdResetTunables:
		s.ResetTunables()
	case CmdSetPaused:
		s.SetPaused(c.Paused)
	default:
		slog.Warn("unknown command", "kind", c.Kind)
	}
}
