// Package desktop holds the window registry, the taskbar entries and the focus
// order of a single simulated desktop.
package desktop

import (
	"sort"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// DefaultFocusBase is the focus counter value before the first focus.
const DefaultFocusBase = 1000

// Visibility describes whether a registered window is shown.
type Visibility int

const (
	// Closed means the window is not registered.
	Closed Visibility = iota
	// Visible means the window is shown on the desktop.
	Visible
	// Minimized means the window is hidden but keeps its taskbar entry.
	Minimized
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case Closed:
		return "closed"
	case Visible:
		return "visible"
	case Minimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "visible":
		*v = Visible
	case "minimized":
		*v = Minimized
	default:
		*v = Closed
	}
	return nil
}

// Window is a snapshot of one registered window.
type Window struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Bounds        geometry.Rect `json:"bounds"`
	ZRank         int           `json:"z_rank"`
	Visibility    Visibility    `json:"visibility"`
	Maximized     bool          `json:"maximized"`
	RestoreBounds geometry.Rect `json:"restore_bounds"`
	Active        bool          `json:"active"`
}

// TaskbarEntry mirrors one registered window on the taskbar.
type TaskbarEntry struct {
	WindowID string `json:"window_id"`
	Label    string `json:"label"`
	Active   bool   `json:"active"`
}

// State is the registry of open windows. It is not safe for concurrent use;
// the window manager serializes access.
type State struct {
	windows map[string]*Window
	taskbar []TaskbarEntry
	counter int
	active  string
}

// NewState creates an empty desktop whose first focus stamp is base+1.
func NewState(base int) *State {
	return &State{
		windows: make(map[string]*Window),
		counter: base,
	}
}

// Window returns a copy of the registered window with the given id.
func (s *State) Window(id string) (Window, bool) {
	w, ok := s.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Has reports whether id is registered.
func (s *State) Has(id string) bool {
	_, ok := s.windows[id]
	return ok
}

// Windows returns every registered window in paint order (lowest ZRank first).
func (s *State) Windows() []Window {
	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZRank != out[j].ZRank {
			return out[i].ZRank < out[j].ZRank
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Taskbar returns the taskbar entries in the order windows were opened.
func (s *State) Taskbar() []TaskbarEntry {
	out := make([]TaskbarEntry, len(s.taskbar))
	copy(out, s.taskbar)
	return out
}

// ActiveID returns the active window id, or "" when none is active.
func (s *State) ActiveID() string {
	return s.active
}

// Counter returns the last focus stamp handed out.
func (s *State) Counter() int {
	return s.counter
}

// VisibleCount returns how many registered windows are currently shown.
func (s *State) VisibleCount() int {
	n := 0
	for _, w := range s.windows {
		if w.Visibility == Visible {
			n++
		}
	}
	return n
}

// Add registers a visible window and appends its taskbar entry. Adding an
// already registered id is a no-op and returns false.
func (s *State) Add(id, title string, bounds geometry.Rect) bool {
	if _, ok := s.windows[id]; ok {
		return false
	}
	s.windows[id] = &Window{
		ID:         id,
		Title:      title,
		Bounds:     bounds,
		Visibility: Visible,
	}
	s.taskbar = append(s.taskbar, TaskbarEntry{WindowID: id, Label: title})
	return true
}

// Remove unregisters a window and drops its taskbar entry. The active
// reference is cleared if it pointed at the removed window; no other window
// is promoted.
func (s *State) Remove(id string) bool {
	if _, ok := s.windows[id]; !ok {
		return false
	}
	delete(s.windows, id)
	for i, e := range s.taskbar {
		if e.WindowID == id {
			s.taskbar = append(s.taskbar[:i], s.taskbar[i+1:]...)
			break
		}
	}
	if s.active == id {
		s.active = ""
	}
	return true
}

// SetBounds writes the window geometry.
func (s *State) SetBounds(id string, r geometry.Rect) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	w.Bounds = r
	return true
}

// SetVisibility shows or hides a registered window.
func (s *State) SetVisibility(id string, v Visibility) bool {
	w, ok := s.windows[id]
	if !ok || v == Closed {
		return false
	}
	w.Visibility = v
	return true
}

// SetMaximized records the maximize flag and the geometry to restore to.
func (s *State) SetMaximized(id string, maximized bool, restore geometry.Rect) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	w.Maximized = maximized
	w.RestoreBounds = restore
	return true
}

// Stamp focuses a window: every other window and taskbar entry loses its
// active flag, the target gets the next focus stamp and becomes active.
func (s *State) Stamp(id string) (int, bool) {
	target, ok := s.windows[id]
	if !ok {
		return 0, false
	}
	for _, w := range s.windows {
		w.Active = false
	}
	for i := range s.taskbar {
		s.taskbar[i].Active = s.taskbar[i].WindowID == id
	}
	s.counter++
	target.ZRank = s.counter
	target.Active = true
	s.active = id
	return s.counter, true
}

// SetTaskbarActive toggles only the taskbar representation of a window.
func (s *State) SetTaskbarActive(id string, active bool) bool {
	for i := range s.taskbar {
		if s.taskbar[i].WindowID == id {
			s.taskbar[i].Active = active
			return true
		}
	}
	return false
}
