package wm

import "github.com/1broseidon/deskwm/internal/desktop"

// Surface is the rendering side of the desktop. The manager calls it with its
// lock held, so implementations must not call back into the Manager.
type Surface interface {
	// Render shows a window and writes its geometry, paint order and active style.
	Render(win desktop.Window)
	// Hide removes a window from view (minimized or closed).
	Hide(id string)
	// SuspendInteraction disables text selection and pointer input on every
	// window except target while a gesture runs.
	SuspendInteraction(target string)
	// ResumeInteraction undoes SuspendInteraction.
	ResumeInteraction()
}

// Taskbar receives the full list of entries whenever it changes.
type Taskbar interface {
	Sync(entries []desktop.TaskbarEntry)
}

// CatalogEntry describes a launchable window (a desktop icon).
type CatalogEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// Catalog resolves window ids to titles.
type Catalog interface {
	Title(id string) (string, bool)
	Entries() []CatalogEntry
}

// StaticCatalog is a fixed, ordered catalog.
type StaticCatalog []CatalogEntry

// Title implements Catalog.
func (c StaticCatalog) Title(id string) (string, bool) {
	for _, e := range c {
		if e.ID == id {
			return e.Title, true
		}
	}
	return "", false
}

// Entries implements Catalog.
func (c StaticCatalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c))
	copy(out, c)
	return out
}

type nopSurface struct{}

func (nopSurface) Render(desktop.Window)     {}
func (nopSurface) Hide(string)               {}
func (nopSurface) SuspendInteraction(string) {}
func (nopSurface) ResumeInteraction()        {}

type nopTaskbar struct{}

func (nopTaskbar) Sync([]desktop.TaskbarEntry) {}

// surfaceInteraction forwards gesture side effects to the surface.
type surfaceInteraction struct {
	surface Surface
}

func (s surfaceInteraction) Suspend(target string) { s.surface.SuspendInteraction(target) }
func (s surfaceInteraction) Resume()               { s.surface.ResumeInteraction() }
