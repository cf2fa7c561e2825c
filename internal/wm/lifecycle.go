package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// Open shows a window and focuses it. A window opened for the first time is
// placed at the cascade position for the number of windows already visible
// and gets a taskbar entry; a minimized window is shown again with its
// geometry intact; an already visible window is only focused.
func (m *Manager) Open(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	title, ok := m.catalog.Title(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}

	if w, ok := m.state.Window(id); ok {
		if w.Visibility == desktop.Minimized {
			m.state.SetVisibility(id, desktop.Visible)
			m.renderLocked(id)
			m.actions.Log(actionlog.ActionRestore, id, nil)
		}
		m.focusLocked(id)
		return nil
	}

	bounds := geometry.ClampPosition(geometry.Cascade(m.state.VisibleCount(), m.cascade), m.viewport)
	m.state.Add(id, title, bounds)
	m.renderLocked(id)
	m.syncTaskbarLocked()
	m.focusLocked(id)

	m.log.Info("window opened", "window", id, "x", bounds.X, "y", bounds.Y, "width", bounds.Width, "height", bounds.Height)
	m.actions.Log(actionlog.ActionOpen, id, map[string]interface{}{
		"x":      bounds.X,
		"y":      bounds.Y,
		"width":  bounds.Width,
		"height": bounds.Height,
	})
	return nil
}

// Focus brings a visible window to the front and makes it the only active
// window. Unknown, closed and minimized windows are ignored.
func (m *Manager) Focus(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focusLocked(id)
}

func (m *Manager) focusLocked(id string) {
	w, ok := m.state.Window(id)
	if !ok || w.Visibility != desktop.Visible {
		return
	}

	prev := m.state.ActiveID()
	if prev == id && w.Active {
		// Already frontmost; only the taskbar representation may need refreshing.
		if m.state.SetTaskbarActive(id, true) {
			m.syncTaskbarLocked()
		}
		return
	}

	stamp, _ := m.state.Stamp(id)
	if prev != "" && prev != id {
		m.renderLocked(prev)
	}
	m.renderLocked(id)
	m.syncTaskbarLocked()

	m.log.Debug("window focused", "window", id, "z", stamp)
	m.actions.Log(actionlog.ActionFocus, id, map[string]interface{}{"z": stamp})
}

// Close hides a window and removes it from the registry and the taskbar. If
// it was active, no window is active afterwards.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Has(id) {
		return
	}
	if m.gesture.Target() == id {
		m.gesture.Cancel()
		m.preGesture = desktop.Window{}
	}
	m.state.Remove(id)
	m.surface.Hide(id)
	m.syncTaskbarLocked()

	m.log.Info("window closed", "window", id)
	m.actions.Log(actionlog.ActionClose, id, nil)
}

// Minimize hides a visible window. Its geometry and taskbar entry are kept,
// the taskbar entry is deactivated, and the active reference is left alone.
func (m *Manager) Minimize(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.state.Window(id)
	if !ok || w.Visibility != desktop.Visible {
		return
	}
	if m.gesture.Target() == id {
		m.cancelGestureLocked()
	}
	m.state.SetVisibility(id, desktop.Minimized)
	m.state.SetTaskbarActive(id, false)
	m.surface.Hide(id)
	m.syncTaskbarLocked()

	m.log.Debug("window minimized", "window", id)
	m.actions.Log(actionlog.ActionMinimize, id, nil)
}

// Maximize toggles a visible window between the full usable viewport and the
// geometry it had before it was maximized.
func (m *Manager) Maximize(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.state.Window(id)
	if !ok || w.Visibility != desktop.Visible {
		return
	}
	if m.gesture.Target() == id {
		m.gesture.End()
		m.preGesture = desktop.Window{}
		w, _ = m.state.Window(id)
	}

	var next geometry.Rect
	if w.Maximized {
		next = w.RestoreBounds
		if next.Width <= 0 || next.Height <= 0 {
			next = m.restoreGeometry
		}
		next = geometry.ClampPosition(next, m.viewport)
		m.state.SetMaximized(id, false, geometry.Rect{})
	} else {
		next = geometry.Maximized(m.viewport)
		m.state.SetMaximized(id, true, w.Bounds)
	}
	m.state.SetBounds(id, next)
	m.renderLocked(id)

	m.log.Debug("window maximize toggled", "window", id, "maximized", !w.Maximized)
	m.actions.Log(actionlog.ActionMaximize, id, map[string]interface{}{
		"maximized": !w.Maximized,
		"width":     next.Width,
		"height":    next.Height,
	})
}

// RestoreFromTaskbar handles a taskbar entry click: a minimized window is
// shown and focused, a visible one is focused.
func (m *Manager) RestoreFromTaskbar(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.state.Window(id)
	if !ok {
		return
	}
	if w.Visibility == desktop.Minimized {
		m.state.SetVisibility(id, desktop.Visible)
		m.renderLocked(id)
		m.actions.Log(actionlog.ActionRestore, id, nil)
	}
	m.focusLocked(id)
}
