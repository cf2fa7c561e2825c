package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/deskwm/internal/geometry"
)

func TestClipToWorkArea(t *testing.T) {
	mon := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	tests := []struct {
		name string
		wa   geometry.Rect
		want geometry.Rect
	}{
		{"top panel", geometry.Rect{X: 0, Y: 32, Width: 1920, Height: 1048}, geometry.Rect{X: 0, Y: 32, Width: 1920, Height: 1048}},
		{"spans two monitors", geometry.Rect{X: 0, Y: 0, Width: 3840, Height: 1040}, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}},
		{"disjoint keeps monitor", geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}, mon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clipToWorkArea(mon, tt.wa))
		})
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", Bounds: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "HDMI-1", Bounds: geometry.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
	}

	m, ok := monitorAt(monitors, geometry.Point{X: 2000, Y: 100})
	assert.True(t, ok)
	assert.Equal(t, "HDMI-1", m.Name)

	_, ok = monitorAt(monitors, geometry.Point{X: 100, Y: 1200})
	assert.False(t, ok)
}

func TestViewportFor(t *testing.T) {
	mon := Monitor{Bounds: geometry.Rect{X: 1920, Y: 32, Width: 2560, Height: 1408}}
	assert.Equal(t, geometry.Viewport{Width: 2560, Height: 1408, TaskbarHeight: 30}, ViewportFor(mon, 30))
}
