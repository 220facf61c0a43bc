// Package server streams simulation frames to WebSocket observers and turns
// their messages into simulation commands.
package server

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/slime/sim"
)

// Client message types.
const (
	MsgPlaceFood     = "place_food"
	MsgPlaceMold     = "place_mold"
	MsgAutoSetup     = "auto_setup"
	MsgReset         = "reset"
	MsgPause         = "pause"
	MsgResume        = "resume"
	MsgSetTunables   = "set_tunables"
	MsgResetTunables = "reset_tunables"
)

// ClientMessage is any message an observer may send.
type ClientMessage struct {
	Type      string             `json:"type"`
	X         *float32           `json:"x,omitempty"`
	Y         *float32           `json:"y,omitempty"`
	FoodCount int                `json:"food_count,omitempty"`
	Tunables  *sim.TunablesPatch `json:"tunables,omitempty"`
}

// ConfigMessage is sent once when an observer connects.
type ConfigMessage struct {
	Type        string  `json:"type"`
	W           int     `json:"w"`
	H           int     `json:"h"`
	PlateRadius float32 `json:"plate_radius"`
}

// FrameMessage wraps a frame for the wire.
type FrameMessage struct {
	Type string `json:"type"`
	sim.Frame
}

// ReplyMessage acknowledges or rejects a client message.
type ReplyMessage struct {
	Type    string `json:"type"` // "ack" or "error"
	Request string `json:"request,omitempty"`
	Error   string `json:"error,omitempty"`
}

var (
	errMissingPosition = errors.New("x and y are required")
	errMissingTunables = errors.New("tunables are required")
)

// Dispatch validates msg and enqueues the matching command.
// defaultFood is used for auto_setup when food_count is absent.
func Dispatch(msg ClientMessage, q *sim.CommandQueue, defaultFood int) error {
	switch msg.Type {
	case MsgPlaceFood, MsgPlaceMold:
		if msg.X == nil || msg.Y == nil {
			return fmt.Errorf("%s: %w", msg.Type, errMissingPosition)
		}
		if msg.Type == MsgPlaceFood {
			q.PlaceFood(*msg.X, *msg.Y)
		} else {
			q.PlaceMold(*msg.X, *msg.Y)
		}
	case MsgAutoSetup:
		n := msg.FoodCount
		if n <= 0 {
			n = defaultFood
		}
		q.AutoSetup(n)
	case MsgReset:
		q.Reset()
	case MsgPause:
		q.SetPaused(true)
	case MsgResume:
		q.SetPaused(false)
	case MsgSetTunables:
		if msg.Tunables == nil || msg.Tunables.Empty() {
			return fmt.Errorf("%s: %w", msg.Type, errMissingTunables)
		}
		q.PatchTunables(*msg.Tunables)
	case MsgResetTunables:
		q.ResetTunables()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}
