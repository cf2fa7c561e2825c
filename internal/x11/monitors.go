package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds geometry.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs report no size or no outputs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: geometry.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	return monitors, nil
}

// PrimaryMonitor returns the monitor under the pointer, falling back to the
// first one, clipped to the window manager's work area when one is published.
func (c *Connection) PrimaryMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	mon := monitors[0]
	if ptr, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if found, ok := monitorAt(monitors, geometry.Point{X: int(ptr.RootX), Y: int(ptr.RootY)}); ok {
			mon = found
		}
	}

	if areas, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(areas) > 0 {
		idx := 0
		if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
			idx = int(cur)
		}
		wa := areas[idx]
		mon.Bounds = clipToWorkArea(mon.Bounds, geometry.Rect{
			X:      int(wa.X),
			Y:      int(wa.Y),
			Width:  int(wa.Width),
			Height: int(wa.Height),
		})
	}

	return mon, nil
}

func monitorAt(monitors []Monitor, p geometry.Point) (Monitor, bool) {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
	}
	return Monitor{}, false
}

// clipToWorkArea intersects a monitor with the work area. A work area that
// does not overlap the monitor leaves it unchanged.
func clipToWorkArea(mon, wa geometry.Rect) geometry.Rect {
	x1 := max(mon.X, wa.X)
	y1 := max(mon.Y, wa.Y)
	x2 := min(mon.Right(), wa.Right())
	y2 := min(mon.Bottom(), wa.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return mon
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// ViewportFor sizes a desktop viewport to a monitor, reserving taskbarHeight
// at the bottom.
func ViewportFor(mon Monitor, taskbarHeight int) geometry.Viewport {
	return geometry.Viewport{
		Width:         mon.Bounds.Width,
		Height:        mon.Bounds.Height,
		TaskbarHeight: taskbarHeight,
	}
}

// ProbeViewport connects to display, measures the primary monitor and
// disconnects.
func ProbeViewport(display string, taskbarHeight int) (geometry.Viewport, error) {
	conn, err := NewConnection(display)
	if err != nil {
		return geometry.Viewport{}, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	mon, err := conn.PrimaryMonitor()
	if err != nil {
		return geometry.Viewport{}, err
	}
	if mon.Bounds.Height <= taskbarHeight {
		return geometry.Viewport{}, fmt.Errorf("monitor %s is %dpx tall, too small for a %dpx taskbar", mon.Name, mon.Bounds.Height, taskbarHeight)
	}
	return ViewportFor(mon, taskbarHeight), nil
}
