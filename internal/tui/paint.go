package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/hittest"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
)

const clockFormat = "15:04"

// scene is everything one frame needs.
type scene struct {
	snap     wm.Snapshot
	catalog  []wm.CatalogEntry
	layout   pointer.Layout
	selected string
	clock    time.Time
	hint     string
}

func paint(s scene) *canvas {
	vp := s.snap.Viewport
	c := newCanvas(vp.Width, vp.Height)

	c.fill(vp.Usable(), ' ', styleDesktop)
	paintIcons(c, s)
	for _, w := range s.snap.Visible() {
		paintWindow(c, s.layout.Chrome, w)
	}
	paintTaskbar(c, s)
	return c
}

func paintIcons(c *canvas, s scene) {
	for i, entry := range s.catalog {
		r := s.layout.Icons.Icon(i)
		style := styleIcon
		if entry.ID == s.selected {
			style = styleIconSelected
		}
		c.fill(r, ' ', style)
		glyph := "[" + strings.ToUpper(firstRune(entry.Title)) + "]"
		c.text(r.X+(r.Width-len(glyph))/2, r.Y+1, r.Right(), glyph, style)
		label := entry.Title
		if len(label) > r.Width {
			label = label[:r.Width]
		}
		c.text(r.X+(r.Width-len(label))/2, r.Y+2, r.Right(), label, style)
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return "?"
}

func paintWindow(c *canvas, chrome hittest.Chrome, w desktop.Window) {
	b := w.Bounds
	if b.Width < 2 || b.Height < 2 {
		return
	}

	frame, title := styleFrame, styleTitle
	if w.Active {
		frame, title = styleFrameActive, styleTitleActive
	}

	c.fill(b, ' ', styleBody)

	// Border.
	for x := b.X + 1; x < b.Right()-1; x++ {
		c.set(x, b.Y, '─', frame)
		c.set(x, b.Bottom()-1, '─', frame)
	}
	for y := b.Y + 1; y < b.Bottom()-1; y++ {
		c.set(b.X, y, '│', frame)
		c.set(b.Right()-1, y, '│', frame)
	}
	c.set(b.X, b.Y, '┌', frame)
	c.set(b.Right()-1, b.Y, '┐', frame)
	c.set(b.X, b.Bottom()-1, '└', frame)
	c.set(b.Right()-1, b.Bottom()-1, '┘', frame)

	// Title bar rows between the top border and the body.
	for y := b.Y + chrome.HandleSize; y < b.Y+chrome.HeaderHeight; y++ {
		c.fill(geometry.Rect{X: b.X + chrome.HandleSize, Y: y, Width: b.Width - 2*chrome.HandleSize, Height: 1}, ' ', title)
	}
	titleY := b.Y + chrome.HeaderHeight - 1

	buttons := []struct {
		kind  hittest.Kind
		glyph string
	}{
		{hittest.MinimizeButton, " _ "},
		{hittest.MaximizeButton, " + "},
		{hittest.CloseButton, " x "},
	}
	limit := b.Right() - chrome.HandleSize
	for _, btn := range buttons {
		r, ok := chrome.Button(b, btn.kind)
		if !ok {
			continue
		}
		c.text(r.X, titleY, r.Right(), btn.glyph, styleButton)
		if r.X < limit {
			limit = r.X
		}
	}
	c.text(b.X+chrome.HandleSize+1, titleY, limit-1, w.Title, title)

	// Body: the window's own geometry, useful while dragging.
	bodyY := b.Y + chrome.HeaderHeight + 1
	if bodyY < b.Bottom()-1 {
		info := fmt.Sprintf("%d,%d  %dx%d", b.X, b.Y, b.Width, b.Height)
		if w.Maximized {
			info += "  maximized"
		}
		c.text(b.X+2, bodyY, b.Right()-1, info, styleBody)
	}
}

func paintTaskbar(c *canvas, s scene) {
	vp := s.snap.Viewport
	bar := vp.Taskbar()
	c.fill(bar, ' ', styleTaskbar)

	rects := s.layout.Taskbar.Entries(vp, s.snap.Taskbar)
	end := bar.X + s.layout.Taskbar.StartWidth
	for i, r := range rects {
		entry := s.snap.Taskbar[i]
		style := styleEntry
		if entry.Active {
			style = styleEntryActive
		}
		c.fill(geometry.Rect{X: r.X, Y: r.Y, Width: r.Width - 1, Height: r.Height}, ' ', style)
		c.text(r.X+1, r.Y, r.Right()-2, entry.Label, style)
		end = r.Right()
	}

	clock := s.layout.Taskbar.Clock(vp)
	if s.hint != "" {
		c.text(end+1, bar.Y, clock.X-1, s.hint, styleHint)
	}
	label := s.clock.Format(clockFormat)
	c.text(clock.X+(clock.Width-len(label))/2, clock.Y, clock.Right(), label, styleClock)
}
