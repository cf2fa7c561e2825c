// Package gesture tracks the single drag or resize gesture of a desktop and
// turns pointer movement into clamped window geometry.
package gesture

import (
	"errors"
	"fmt"

	"github.com/1broseidon/deskwm/internal/geometry"
)

var (
	// ErrGestureActive is returned when a drag or resize is already running.
	ErrGestureActive = errors.New("a drag or resize is already in progress")
	// ErrInvalidEdge is returned for a resize handle that is not one of the eight compass edges.
	ErrInvalidEdge = errors.New("invalid resize edge")
)

// Interaction suspends text selection and pointer interaction with every
// window other than the gesture target while a gesture runs.
type Interaction interface {
	Suspend(target string)
	Resume()
}

type nopInteraction struct{}

func (nopInteraction) Suspend(string) {}
func (nopInteraction) Resume()        {}

// Controller is the drag/resize state machine. At most one session exists at
// any time; a new gesture is refused until the current one ends.
type Controller struct {
	session     *Session
	interaction Interaction
	suspended   bool
}

// NewController creates an idle controller. A nil interaction is allowed.
func NewController(interaction Interaction) *Controller {
	if interaction == nil {
		interaction = nopInteraction{}
	}
	return &Controller{interaction: interaction}
}

// Mode returns the current phase.
func (c *Controller) Mode() Mode {
	if c.session == nil {
		return Idle
	}
	return c.session.Mode
}

// Active reports whether a drag or resize is in progress.
func (c *Controller) Active() bool {
	return c.session != nil
}

// Session returns a copy of the running session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Target returns the window id of the running session, or "".
func (c *Controller) Target() string {
	if c.session == nil {
		return ""
	}
	return c.session.WindowID
}

// BeginDrag starts dragging a window whose current geometry is bounds. The
// pointer offset inside the window is kept so the window does not jump.
func (c *Controller) BeginDrag(id string, pointer geometry.Point, bounds geometry.Rect) error {
	if c.session != nil {
		return ErrGestureActive
	}
	c.start(&Session{
		Mode:         Dragging,
		WindowID:     id,
		PointerStart: pointer,
		StartBounds:  bounds,
		Offset:       pointer.Sub(bounds.TopLeft()),
	})
	return nil
}

// BeginResize starts resizing a window from the given handle.
func (c *Controller) BeginResize(id string, edge geometry.Edge, pointer geometry.Point, bounds geometry.Rect) error {
	if c.session != nil {
		return ErrGestureActive
	}
	if !edge.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidEdge, edge)
	}
	c.start(&Session{
		Mode:         Resizing,
		WindowID:     id,
		PointerStart: pointer,
		StartBounds:  bounds,
		Edge:         edge,
	})
	return nil
}

// Move computes the target window geometry for a pointer position. current is
// the window geometry right now (its size is kept while dragging). It returns
// false when no gesture is running.
func (c *Controller) Move(pointer geometry.Point, current geometry.Rect, vp geometry.Viewport, lim geometry.Limits) (geometry.Rect, bool) {
	if c.session == nil {
		return geometry.Rect{}, false
	}
	s := c.session
	switch s.Mode {
	case Dragging:
		origin := pointer.Sub(s.Offset)
		next := geometry.Rect{X: origin.X, Y: origin.Y, Width: current.Width, Height: current.Height}
		return geometry.ClampPosition(next, vp), true
	case Resizing:
		delta := pointer.Sub(s.PointerStart)
		next := geometry.ApplyResize(s.StartBounds, s.Edge, delta.X, delta.Y)
		next = geometry.ClampSize(next, s.StartBounds, s.Edge, lim)
		return geometry.ClampPosition(next, vp), true
	}
	return geometry.Rect{}, false
}

// End finishes the running gesture (pointer released anywhere) and returns the
// finished session.
func (c *Controller) End() (Session, bool) {
	return c.finish()
}

// Cancel aborts the running gesture. The caller restores the returned
// session's StartBounds.
func (c *Controller) Cancel() (Session, bool) {
	return c.finish()
}

func (c *Controller) start(s *Session) {
	c.session = s
	if !c.suspended {
		c.suspended = true
		c.interaction.Suspend(s.WindowID)
	}
}

func (c *Controller) finish() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	s := *c.session
	c.session = nil
	if c.suspended {
		c.suspended = false
		c.interaction.Resume()
	}
	return s, true
}
