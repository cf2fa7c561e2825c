package hittest

import (
	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// TaskbarLayout places taskbar entries left to right after a start area and
// keeps room for the clock at the right end.
type TaskbarLayout struct {
	StartWidth int
	EntryWidth int
	ClockWidth int
}

// DefaultTaskbarLayout returns the pixel layout used by the daemon.
func DefaultTaskbarLayout() TaskbarLayout {
	return TaskbarLayout{StartWidth: 0, EntryWidth: 160, ClockWidth: 80}
}

// Entries returns the bounds of each taskbar entry, in entry order. Entries
// that would overlap the clock are dropped.
func (l TaskbarLayout) Entries(vp geometry.Viewport, entries []desktop.TaskbarEntry) []geometry.Rect {
	bar := vp.Taskbar()
	limit := bar.Right() - l.ClockWidth
	out := make([]geometry.Rect, 0, len(entries))
	x := bar.X + l.StartWidth
	for range entries {
		if l.EntryWidth <= 0 || x+l.EntryWidth > limit {
			break
		}
		out = append(out, geometry.Rect{X: x, Y: bar.Y, Width: l.EntryWidth, Height: bar.Height})
		x += l.EntryWidth
	}
	return out
}

// Clock returns the clock area at the right end of the taskbar.
func (l TaskbarLayout) Clock(vp geometry.Viewport) geometry.Rect {
	bar := vp.Taskbar()
	return geometry.Rect{X: bar.Right() - l.ClockWidth, Y: bar.Y, Width: l.ClockWidth, Height: bar.Height}
}

// EntryAt returns the window id of the taskbar entry under p.
func (l TaskbarLayout) EntryAt(vp geometry.Viewport, entries []desktop.TaskbarEntry, p geometry.Point) (string, bool) {
	for i, r := range l.Entries(vp, entries) {
		if r.Contains(p) {
			return entries[i].WindowID, true
		}
	}
	return "", false
}

// IconLayout places desktop icons in a single column from the top left.
type IconLayout struct {
	Origin  geometry.Point
	Width   int
	Height  int
	Spacing int
}

// DefaultIconLayout returns the pixel layout used by the daemon.
func DefaultIconLayout() IconLayout {
	return IconLayout{Origin: geometry.Point{X: 20, Y: 20}, Width: 80, Height: 80, Spacing: 20}
}

// Icon returns the bounds of the i-th icon.
func (l IconLayout) Icon(i int) geometry.Rect {
	return geometry.Rect{
		X:      l.Origin.X,
		Y:      l.Origin.Y + i*(l.Height+l.Spacing),
		Width:  l.Width,
		Height: l.Height,
	}
}

// IconAt returns the index of the icon under p among n icons.
func (l IconLayout) IconAt(n int, p geometry.Point) (int, bool) {
	for i := 0; i < n; i++ {
		if l.Icon(i).Contains(p) {
			return i, true
		}
	}
	return -1, false
}
