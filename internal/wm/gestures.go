package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/gesture"
)

// BeginDrag starts dragging a window by its header. The window is focused
// first. While another gesture runs the call is rejected and the running
// gesture is left untouched.
func (m *Manager) BeginDrag(id string, p geometry.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.gestureTargetLocked(id)
	if err != nil {
		return err
	}
	m.focusLocked(id)
	m.leaveMaximizedLocked(w)
	if err := m.gesture.BeginDrag(id, p, w.Bounds); err != nil {
		return err
	}
	m.preGesture = w

	m.log.Debug("drag started", "window", id, "x", p.X, "y", p.Y)
	m.actions.Log(actionlog.ActionDrag, id, map[string]interface{}{"x": w.Bounds.X, "y": w.Bounds.Y})
	return nil
}

// BeginResize starts resizing a window from one of its eight handles.
func (m *Manager) BeginResize(id string, edge geometry.Edge, p geometry.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !edge.Valid() {
		return fmt.Errorf("%w: %s", gesture.ErrInvalidEdge, edge)
	}
	w, err := m.gestureTargetLocked(id)
	if err != nil {
		return err
	}
	m.focusLocked(id)
	m.leaveMaximizedLocked(w)
	if err := m.gesture.BeginResize(id, edge, p, w.Bounds); err != nil {
		return err
	}
	m.preGesture = w

	m.log.Debug("resize started", "window", id, "edge", edge.String())
	m.actions.Log(actionlog.ActionResize, id, map[string]interface{}{
		"edge":   edge.String(),
		"width":  w.Bounds.Width,
		"height": w.Bounds.Height,
	})
	return nil
}

func (m *Manager) gestureTargetLocked(id string) (desktop.Window, error) {
	if m.gesture.Active() {
		return desktop.Window{}, ErrGestureActive
	}
	w, ok := m.state.Window(id)
	if !ok {
		return desktop.Window{}, fmt.Errorf("%w: %s", ErrNotVisible, id)
	}
	if w.Visibility != desktop.Visible {
		return desktop.Window{}, fmt.Errorf("%w: %s", ErrNotVisible, id)
	}
	return w, nil
}

// leaveMaximizedLocked drops the maximized state of a window a gesture is
// about to move; the gesture geometry becomes its normal geometry.
func (m *Manager) leaveMaximizedLocked(w desktop.Window) {
	if w.Maximized {
		m.state.SetMaximized(w.ID, false, geometry.Rect{})
	}
}

// PointerMove applies the running gesture to its window and returns the new
// geometry. It returns false when no gesture is running.
func (m *Manager) PointerMove(p geometry.Point) (geometry.Rect, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.gesture.Target()
	if id == "" {
		return geometry.Rect{}, false
	}
	w, ok := m.state.Window(id)
	if !ok || w.Visibility != desktop.Visible {
		m.gesture.Cancel()
		return geometry.Rect{}, false
	}
	next, ok := m.gesture.Move(p, w.Bounds, m.viewport, m.limits)
	if !ok {
		return geometry.Rect{}, false
	}
	if next != w.Bounds {
		m.state.SetBounds(id, next)
		m.renderLocked(id)
	}
	return next, true
}

// PointerUp ends the running gesture wherever the pointer is released.
func (m *Manager) PointerUp() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.gesture.End()
	if !ok {
		return false
	}
	m.preGesture = desktop.Window{}
	if w, ok := m.state.Window(s.WindowID); ok {
		m.log.Debug("gesture released", "window", s.WindowID, "mode", s.Mode.String())
		m.actions.Log(actionlog.ActionRelease, s.WindowID, map[string]interface{}{
			"mode":   s.Mode.String(),
			"x":      w.Bounds.X,
			"y":      w.Bounds.Y,
			"width":  w.Bounds.Width,
			"height": w.Bounds.Height,
		})
	}
	return true
}

// CancelGesture aborts the running gesture and puts its window back where it
// was when the gesture began.
func (m *Manager) CancelGesture() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelGestureLocked()
}

func (m *Manager) cancelGestureLocked() bool {
	s, ok := m.gesture.Cancel()
	if !ok {
		return false
	}
	pre := m.preGesture
	m.preGesture = desktop.Window{}
	if m.state.Has(s.WindowID) {
		m.state.SetBounds(s.WindowID, s.StartBounds)
		if pre.ID == s.WindowID && pre.Maximized {
			m.state.SetMaximized(s.WindowID, true, pre.RestoreBounds)
		}
		m.renderLocked(s.WindowID)
	}
	m.log.Debug("gesture cancelled", "window", s.WindowID, "mode", s.Mode.String())
	m.actions.Log(actionlog.ActionCancel, s.WindowID, map[string]interface{}{"mode": s.Mode.String()})
	return true
}
