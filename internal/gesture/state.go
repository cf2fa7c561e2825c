package gesture

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Mode represents the current phase of pointer interaction.
type Mode int

const (
	// Idle means no drag or resize is in progress.
	Idle Mode = iota
	// Dragging means a window header was grabbed and follows the pointer.
	Dragging
	// Resizing means a resize handle was grabbed.
	Resizing
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*m = Idle
	case "dragging":
		*m = Dragging
	case "resizing":
		*m = Resizing
	default:
		return fmt.Errorf("unknown gesture mode %q", string(text))
	}
	return nil
}

// Session is the transient record of an active drag or resize.
type Session struct {
	Mode         Mode           `json:"mode"`
	WindowID     string         `json:"window_id"`
	PointerStart geometry.Point `json:"pointer_start"`
	StartBounds  geometry.Rect  `json:"start_bounds"`
	// Offset is the pointer position relative to the window origin (drag only).
	Offset geometry.Point `json:"offset"`
	// Edge is the handle being dragged (resize only).
	Edge geometry.Edge `json:"edge,omitempty"`
}
