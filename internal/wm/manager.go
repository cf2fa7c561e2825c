// Package wm implements window lifecycle, focus and gesture handling for a
// single simulated desktop.
package wm

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/gesture"
)

var (
	// ErrUnknownWindow is returned when an id is not in the catalog.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrNotVisible is returned when a gesture targets a closed or minimized window.
	ErrNotVisible = errors.New("window is not visible")
	// ErrGestureActive is returned when a gesture starts while another one runs.
	ErrGestureActive = gesture.ErrGestureActive
)

// Options configures a Manager.
type Options struct {
	Viewport        geometry.Viewport
	Limits          geometry.Limits
	Cascade         geometry.CascadeRule
	RestoreGeometry geometry.Rect
	FocusBase       int

	Catalog Catalog
	Surface Surface
	Taskbar Taskbar
	Logger  *slog.Logger
	Actions *actionlog.Logger
}

// DefaultOptions returns a 1920x1080 desktop with the standard geometry rules.
func DefaultOptions() Options {
	return Options{
		Viewport: geometry.Viewport{
			Width:         1920,
			Height:        1080,
			TaskbarHeight: geometry.DefaultTaskbarHeight,
		},
		Limits:          geometry.DefaultLimits(),
		Cascade:         geometry.DefaultCascade(),
		RestoreGeometry: geometry.Rect{X: 50, Y: 50, Width: 600, Height: 400},
		FocusBase:       desktop.DefaultFocusBase,
	}
}

// Snapshot is an immutable copy of the desktop.
type Snapshot struct {
	Viewport geometry.Viewport      `json:"viewport"`
	ActiveID string                 `json:"active_id"`
	Counter  int                    `json:"counter"`
	Gesture  *gesture.Session       `json:"gesture,omitempty"`
	Windows  []desktop.Window       `json:"windows"`
	Taskbar  []desktop.TaskbarEntry `json:"taskbar"`
}

// Window returns the window with the given id from the snapshot.
func (s Snapshot) Window(id string) (desktop.Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return desktop.Window{}, false
}

// Visible returns the shown windows in paint order.
func (s Snapshot) Visible() []desktop.Window {
	out := make([]desktop.Window, 0, len(s.Windows))
	for _, w := range s.Windows {
		if w.Visibility == desktop.Visible {
			out = append(out, w)
		}
	}
	return out
}

// Manager owns one desktop: its registry, its gesture controller and its
// collaborators. Public methods are serialized by a mutex so adapters running
// on different goroutines see the single-threaded semantics of a UI loop.
type Manager struct {
	mu sync.Mutex

	state   *desktop.State
	gesture *gesture.Controller

	viewport        geometry.Viewport
	limits          geometry.Limits
	cascade         geometry.CascadeRule
	restoreGeometry geometry.Rect

	catalog Catalog
	surface Surface
	taskbar Taskbar
	log     *slog.Logger
	actions *actionlog.Logger

	// preGesture is the target window as it was when the running gesture began.
	preGesture desktop.Window
}

// NewManager creates a desktop with no open windows.
func NewManager(opts Options) *Manager {
	opts = normalizeOptions(opts)
	return &Manager{
		state:           desktop.NewState(opts.FocusBase),
		gesture:         gesture.NewController(surfaceInteraction{surface: opts.Surface}),
		viewport:        opts.Viewport,
		limits:          opts.Limits,
		cascade:         opts.Cascade,
		restoreGeometry: opts.RestoreGeometry,
		catalog:         opts.Catalog,
		surface:         opts.Surface,
		taskbar:         opts.Taskbar,
		log:             opts.Logger,
		actions:         opts.Actions,
	}
}

func normalizeOptions(opts Options) Options {
	defaults := DefaultOptions()
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = defaults.Viewport
	}
	if opts.Limits.MinWidth <= 0 {
		opts.Limits.MinWidth = defaults.Limits.MinWidth
	}
	if opts.Limits.MinHeight <= 0 {
		opts.Limits.MinHeight = defaults.Limits.MinHeight
	}
	if opts.Cascade.Width <= 0 || opts.Cascade.Height <= 0 {
		opts.Cascade = defaults.Cascade
	}
	if opts.RestoreGeometry.Width <= 0 || opts.RestoreGeometry.Height <= 0 {
		opts.RestoreGeometry = defaults.RestoreGeometry
	}
	if opts.FocusBase <= 0 {
		opts.FocusBase = defaults.FocusBase
	}
	if opts.Catalog == nil {
		opts.Catalog = StaticCatalog(nil)
	}
	if opts.Surface == nil {
		opts.Surface = nopSurface{}
	}
	if opts.Taskbar == nil {
		opts.Taskbar = nopTaskbar{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts
}

// Reconfigure applies reloaded options to a running desktop: the geometry
// rules, the catalog, the logger and the viewport. Open windows keep their
// titles even when they left the catalog. The focus base and the
// collaborators are fixed for the lifetime of the manager, and a nil
// Actions keeps the current action log.
func (m *Manager) Reconfigure(opts Options) {
	opts = normalizeOptions(opts)

	m.mu.Lock()
	m.limits = opts.Limits
	m.cascade = opts.Cascade
	m.restoreGeometry = opts.RestoreGeometry
	m.catalog = opts.Catalog
	m.log = opts.Logger
	if opts.Actions != nil {
		m.actions = opts.Actions
	}
	m.log.Debug("desktop reconfigured",
		"min_width", opts.Limits.MinWidth,
		"min_height", opts.Limits.MinHeight,
		"catalog", len(opts.Catalog.Entries()))
	m.mu.Unlock()

	m.SetViewport(opts.Viewport)
}

// Snapshot returns a copy of the whole desktop.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		Viewport: m.viewport,
		ActiveID: m.state.ActiveID(),
		Counter:  m.state.Counter(),
		Windows:  m.state.Windows(),
		Taskbar:  m.state.Taskbar(),
	}
	if s, ok := m.gesture.Session(); ok {
		snap.Gesture = &s
	}
	return snap
}

// Window returns a copy of a registered window.
func (m *Manager) Window(id string) (desktop.Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Window(id)
}

// ActiveID returns the active window id, or "" when none is active.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ActiveID()
}

// GestureMode returns the current gesture phase.
func (m *Manager) GestureMode() gesture.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gesture.Mode()
}

// Viewport returns the current viewport.
func (m *Manager) Viewport() geometry.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

// Catalog returns the launchable windows.
func (m *Manager) Catalog() []CatalogEntry {
	m.mu.Lock()
	catalog := m.catalog
	m.mu.Unlock()
	return catalog.Entries()
}

// SetViewport changes the desktop size. Maximized windows are re-fitted and
// every other window is clamped back inside the new bounds.
func (m *Manager) SetViewport(vp geometry.Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	m.viewport = vp
	for _, w := range m.state.Windows() {
		next := geometry.ClampPosition(w.Bounds, vp)
		if w.Maximized {
			next = geometry.Maximized(vp)
		}
		if next == w.Bounds {
			continue
		}
		m.state.SetBounds(w.ID, next)
		m.renderLocked(w.ID)
	}
	m.log.Debug("viewport changed", "width", vp.Width, "height", vp.Height, "taskbar", vp.TaskbarHeight)
	m.actions.Log(actionlog.ActionViewport, "", map[string]interface{}{
		"width":  vp.Width,
		"height": vp.Height,
	})
}

// renderLocked pushes the current state of one window to the surface.
func (m *Manager) renderLocked(id string) {
	w, ok := m.state.Window(id)
	if !ok || w.Visibility != desktop.Visible {
		return
	}
	m.surface.Render(w)
}

func (m *Manager) syncTaskbarLocked() {
	m.taskbar.Sync(m.state.Taskbar())
}
