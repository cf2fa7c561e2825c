// Package hittest maps pointer positions to the part of the desktop under
// them: a window region (resize handle, control button, header or body), a
// taskbar entry or a desktop icon.
//
// All functions are unit agnostic. The daemon works in pixels while the
// terminal front end works in character cells, each with its own Chrome.
package hittest

import (
	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// Kind identifies a window region.
type Kind uint8

const (
	None Kind = iota
	Body
	Header
	Handle
	CloseButton
	MinimizeButton
	MaximizeButton
)

func (k Kind) String() string {
	switch k {
	case Body:
		return "body"
	case Header:
		return "header"
	case Handle:
		return "handle"
	case CloseButton:
		return "close"
	case MinimizeButton:
		return "minimize"
	case MaximizeButton:
		return "maximize"
	default:
		return "none"
	}
}

// Region is the result of hit testing a window. Edge is set for handles only.
type Region struct {
	Kind Kind
	Edge geometry.Edge
}

// Chrome describes the window decoration layout.
type Chrome struct {
	HeaderHeight int `yaml:"header_height" json:"header_height"`
	HandleSize   int `yaml:"handle_size" json:"handle_size"`
	ButtonWidth  int `yaml:"button_width" json:"button_width"`
}

// DefaultChrome returns the pixel layout used by the daemon.
func DefaultChrome() Chrome {
	return Chrome{HeaderHeight: 30, HandleSize: 6, ButtonWidth: 30}
}

// Window classifies a point relative to one window. Handles sit in front of
// the header and buttons, and buttons sit in front of the header, so a press
// on a corner always resizes and a press on a button never drags.
func (c Chrome) Window(bounds geometry.Rect, p geometry.Point) Region {
	if !bounds.Contains(p) {
		return Region{}
	}

	var edge geometry.Edge
	if c.HandleSize > 0 {
		if p.X < bounds.X+c.HandleSize {
			edge |= geometry.EdgeWest
		} else if p.X >= bounds.Right()-c.HandleSize {
			edge |= geometry.EdgeEast
		}
		if p.Y < bounds.Y+c.HandleSize {
			edge |= geometry.EdgeNorth
		} else if p.Y >= bounds.Bottom()-c.HandleSize {
			edge |= geometry.EdgeSouth
		}
	}
	if edge != 0 {
		return Region{Kind: Handle, Edge: edge}
	}

	if p.Y >= bounds.Y+c.HeaderHeight {
		return Region{Kind: Body}
	}

	// Buttons are laid out right to left: close, maximize, minimize.
	right := bounds.Right() - c.HandleSize
	for _, k := range []Kind{CloseButton, MaximizeButton, MinimizeButton} {
		left := right - c.ButtonWidth
		if c.ButtonWidth > 0 && p.X >= left && p.X < right {
			return Region{Kind: k}
		}
		right = left
	}
	return Region{Kind: Header}
}

// Button returns the bounds of a control button, for renderers.
func (c Chrome) Button(bounds geometry.Rect, k Kind) (geometry.Rect, bool) {
	right := bounds.Right() - c.HandleSize
	for _, b := range []Kind{CloseButton, MaximizeButton, MinimizeButton} {
		left := right - c.ButtonWidth
		if b == k {
			return geometry.Rect{X: left, Y: bounds.Y, Width: c.ButtonWidth, Height: c.HeaderHeight}, true
		}
		right = left
	}
	return geometry.Rect{}, false
}

// Topmost finds the frontmost visible window under p. windows must be in
// paint order (back to front), as returned by desktop.State.Windows.
func (c Chrome) Topmost(windows []desktop.Window, p geometry.Point) (desktop.Window, Region, bool) {
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if w.Visibility != desktop.Visible {
			continue
		}
		if r := c.Window(w.Bounds, p); r.Kind != None {
			return w, r, true
		}
	}
	return desktop.Window{}, Region{}, false
}

// GrabPoint returns a header point that starts a drag: just right of the west
// handle, halfway down the header.
func (c Chrome) GrabPoint(bounds geometry.Rect) geometry.Point {
	return geometry.Point{X: bounds.X + c.HandleSize, Y: bounds.Y + c.HandleSize + (c.HeaderHeight-c.HandleSize)/2}
}

// HandlePoint returns a point inside the resize handle for edge.
func (c Chrome) HandlePoint(bounds geometry.Rect, edge geometry.Edge) geometry.Point {
	p := geometry.Point{X: bounds.X + bounds.Width/2, Y: bounds.Y + bounds.Height/2}
	switch {
	case edge.Has(geometry.EdgeWest):
		p.X = bounds.X
	case edge.Has(geometry.EdgeEast):
		p.X = bounds.Right() - 1
	}
	switch {
	case edge.Has(geometry.EdgeNorth):
		p.Y = bounds.Y
	case edge.Has(geometry.EdgeSouth):
		p.Y = bounds.Bottom() - 1
	}
	return p
}
