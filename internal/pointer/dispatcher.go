// Package pointer turns raw pointer and key input into desktop operations.
// It is the adapter between a front end (the terminal UI or the daemon's
// pointer commands) and the window manager.
package pointer

import (
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/hittest"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Desktop is the subset of *wm.Manager the dispatcher drives.
type Desktop interface {
	Snapshot() wm.Snapshot
	Catalog() []wm.CatalogEntry
	Open(id string) error
	Close(id string)
	Focus(id string)
	Minimize(id string)
	Maximize(id string)
	RestoreFromTaskbar(id string)
	BeginDrag(id string, p geometry.Point) error
	BeginResize(id string, edge geometry.Edge, p geometry.Point) error
	PointerMove(p geometry.Point) (geometry.Rect, bool)
	PointerUp() bool
	CancelGesture() bool
}

// Action names what a pointer press did.
type Action string

const (
	ActionNone     Action = "none"
	ActionOpen     Action = "open"
	ActionClose    Action = "close"
	ActionFocus    Action = "focus"
	ActionMinimize Action = "minimize"
	ActionMaximize Action = "maximize"
	ActionRestore  Action = "restore"
	ActionDrag     Action = "drag"
	ActionResize   Action = "resize"
	ActionSelect   Action = "select"
)

// Outcome reports what a press resolved to.
type Outcome struct {
	Action   Action        `json:"action"`
	WindowID string        `json:"window_id,omitempty"`
	Edge     geometry.Edge `json:"edge,omitempty"`
}

// Layout bundles the hit testing geometry of one front end.
type Layout struct {
	Chrome  hittest.Chrome
	Taskbar hittest.TaskbarLayout
	Icons   hittest.IconLayout
}

// DefaultLayout returns the pixel layout used by the daemon.
func DefaultLayout() Layout {
	return Layout{
		Chrome:  hittest.DefaultChrome(),
		Taskbar: hittest.DefaultTaskbarLayout(),
		Icons:   hittest.DefaultIconLayout(),
	}
}

// DefaultDoubleClick is the interval within which two presses on the same
// desktop icon open it.
const DefaultDoubleClick = 400 * time.Millisecond

// Dispatcher routes presses to the window under the pointer and forwards
// motion and release to the running gesture.
type Dispatcher struct {
	desktop     Desktop
	doubleClick time.Duration
	now         func() time.Time

	mu        sync.Mutex
	layout    Layout
	lastIcon  string
	lastPress time.Time
}

// NewDispatcher creates a dispatcher. A zero doubleClick uses DefaultDoubleClick.
func NewDispatcher(d Desktop, layout Layout, doubleClick time.Duration) *Dispatcher {
	if doubleClick <= 0 {
		doubleClick = DefaultDoubleClick
	}
	return &Dispatcher{
		desktop:     d,
		layout:      layout,
		doubleClick: doubleClick,
		now:         time.Now,
	}
}

// Layout returns the hit testing geometry.
func (d *Dispatcher) Layout() Layout {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.layout
}

// SetLayout replaces the hit testing geometry, for example after the window
// chrome was reconfigured.
func (d *Dispatcher) SetLayout(layout Layout) {
	d.mu.Lock()
	d.layout = layout
	d.mu.Unlock()
}

// Down handles a primary button press at p. While a drag or resize runs,
// every press is rejected so no other window, button or taskbar entry can
// react until the gesture is released or cancelled.
func (d *Dispatcher) Down(p geometry.Point) (Outcome, error) {
	snap := d.desktop.Snapshot()
	if snap.Gesture != nil {
		return Outcome{Action: ActionNone, WindowID: snap.Gesture.WindowID}, wm.ErrGestureActive
	}
	layout := d.Layout()

	if snap.Viewport.Taskbar().Contains(p) {
		d.resetIcon()
		id, ok := layout.Taskbar.EntryAt(snap.Viewport, snap.Taskbar, p)
		if !ok {
			return Outcome{Action: ActionNone}, nil
		}
		d.desktop.RestoreFromTaskbar(id)
		return Outcome{Action: ActionRestore, WindowID: id}, nil
	}

	if w, region, ok := layout.Chrome.Topmost(snap.Windows, p); ok {
		d.resetIcon()
		return d.pressWindow(w.ID, region, p)
	}

	return d.pressDesktop(layout.Icons, p)
}

func (d *Dispatcher) pressWindow(id string, region hittest.Region, p geometry.Point) (Outcome, error) {
	switch region.Kind {
	case hittest.Handle:
		if err := d.desktop.BeginResize(id, region.Edge, p); err != nil {
			return Outcome{Action: ActionNone, WindowID: id}, err
		}
		return Outcome{Action: ActionResize, WindowID: id, Edge: region.Edge}, nil
	case hittest.CloseButton:
		d.desktop.Close(id)
		return Outcome{Action: ActionClose, WindowID: id}, nil
	case hittest.MinimizeButton:
		d.desktop.Focus(id)
		d.desktop.Minimize(id)
		return Outcome{Action: ActionMinimize, WindowID: id}, nil
	case hittest.MaximizeButton:
		// The press raises the window first, so a maximized window is never
		// left behind the active one.
		d.desktop.Focus(id)
		d.desktop.Maximize(id)
		return Outcome{Action: ActionMaximize, WindowID: id}, nil
	case hittest.Header:
		if err := d.desktop.BeginDrag(id, p); err != nil {
			return Outcome{Action: ActionNone, WindowID: id}, err
		}
		return Outcome{Action: ActionDrag, WindowID: id}, nil
	default:
		d.desktop.Focus(id)
		return Outcome{Action: ActionFocus, WindowID: id}, nil
	}
}

// pressDesktop handles presses on the bare desktop. The first press on an
// icon selects it, a second press on the same icon within the double click
// interval opens its window.
func (d *Dispatcher) pressDesktop(icons hittest.IconLayout, p geometry.Point) (Outcome, error) {
	catalog := d.desktop.Catalog()
	i, ok := icons.IconAt(len(catalog), p)
	if !ok {
		d.resetIcon()
		return Outcome{Action: ActionNone}, nil
	}
	id := catalog[i].ID

	d.mu.Lock()
	now := d.now()
	double := d.lastIcon == id && now.Sub(d.lastPress) <= d.doubleClick
	if double {
		d.lastIcon = ""
		d.lastPress = time.Time{}
	} else {
		d.lastIcon = id
		d.lastPress = now
	}
	d.mu.Unlock()

	if !double {
		return Outcome{Action: ActionSelect, WindowID: id}, nil
	}
	if err := d.desktop.Open(id); err != nil {
		return Outcome{Action: ActionNone, WindowID: id}, err
	}
	return Outcome{Action: ActionOpen, WindowID: id}, nil
}

func (d *Dispatcher) resetIcon() {
	d.mu.Lock()
	d.lastIcon = ""
	d.lastPress = time.Time{}
	d.mu.Unlock()
}

// Move forwards pointer motion to the running gesture, wherever the pointer is.
func (d *Dispatcher) Move(p geometry.Point) (geometry.Rect, bool) {
	return d.desktop.PointerMove(p)
}

// Up ends the running gesture, wherever the pointer is released.
func (d *Dispatcher) Up() bool {
	return d.desktop.PointerUp()
}

// Escape aborts the running gesture.
func (d *Dispatcher) Escape() bool {
	return d.desktop.CancelGesture()
}
