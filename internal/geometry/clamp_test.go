package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = Viewport{Width: 1920, Height: 1080, TaskbarHeight: 30}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		in      string
		want    Edge
		wantErr bool
	}{
		{"n", EdgeNorth, false},
		{"S", EdgeSouth, false},
		{"e", EdgeEast, false},
		{"w", EdgeWest, false},
		{"ne", EdgeNorthEast, false},
		{"nw", EdgeNorthWest, false},
		{"se", EdgeSouthEast, false},
		{"sw", EdgeSouthWest, false},
		{"", 0, true},
		{"ns", 0, true},
		{"ew", 0, true},
		{"nn", 0, true},
		{"x", 0, true},
		{"nse", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEdge(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEdgeStringRoundTrip(t *testing.T) {
	for _, e := range AllEdges {
		parsed, err := ParseEdge(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
	assert.Len(t, AllEdges, 8)
}

func TestApplyResize(t *testing.T) {
	start := Rect{X: 100, Y: 100, Width: 850, Height: 600}
	tests := []struct {
		edge   Edge
		dx, dy int
		want   Rect
	}{
		{EdgeEast, 50, 999, Rect{100, 100, 900, 600}},
		{EdgeWest, 50, 999, Rect{150, 100, 800, 600}},
		{EdgeSouth, 999, 40, Rect{100, 100, 850, 640}},
		{EdgeNorth, 999, 40, Rect{100, 140, 850, 560}},
		{EdgeNorthWest, -20, -10, Rect{80, 90, 870, 610}},
		{EdgeSouthEast, 100, 50, Rect{100, 100, 950, 650}},
		{EdgeNorthEast, 10, 10, Rect{100, 110, 860, 590}},
		{EdgeSouthWest, 10, 10, Rect{110, 100, 840, 610}},
	}
	for _, tt := range tests {
		t.Run(tt.edge.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyResize(start, tt.edge, tt.dx, tt.dy))
		})
	}
}

func TestClampSize_MinimumsHoldForAllEdges(t *testing.T) {
	start := Rect{X: 400, Y: 300, Width: 850, Height: 600}
	lim := DefaultLimits()
	deltas := []int{-2000, -900, -600, -1, 0, 1, 600, 900, 2000}
	for _, edge := range AllEdges {
		for _, dx := range deltas {
			for _, dy := range deltas {
				r := ClampSize(ApplyResize(start, edge, dx, dy), start, edge, lim)
				assert.GreaterOrEqual(t, r.Width, lim.MinWidth, "edge=%s dx=%d dy=%d", edge, dx, dy)
				assert.GreaterOrEqual(t, r.Height, lim.MinHeight, "edge=%s dx=%d dy=%d", edge, dx, dy)
			}
		}
	}
}

func TestClampSize_WestAndNorthAnchorOppositeEdge(t *testing.T) {
	start := Rect{X: 100, Y: 50, Width: 850, Height: 600}
	lim := DefaultLimits()

	r := ClampSize(ApplyResize(start, EdgeWest, 700, 0), start, EdgeWest, lim)
	assert.Equal(t, 300, r.Width)
	assert.Equal(t, start.Right(), r.Right(), "right edge must stay fixed")
	assert.Equal(t, 650, r.X)

	r = ClampSize(ApplyResize(start, EdgeNorth, 0, 500), start, EdgeNorth, lim)
	assert.Equal(t, 200, r.Height)
	assert.Equal(t, start.Bottom(), r.Bottom(), "bottom edge must stay fixed")

	r = ClampSize(ApplyResize(start, EdgeNorthWest, 700, 500), start, EdgeNorthWest, lim)
	assert.Equal(t, Rect{X: 650, Y: 450, Width: 300, Height: 200}, r)
}

func TestClampSize_WestInwardWithinLimitsShiftsLeftByWidthReduction(t *testing.T) {
	start := Rect{X: 100, Y: 50, Width: 850, Height: 600}
	r := ClampSize(ApplyResize(start, EdgeWest, 120, 0), start, EdgeWest, DefaultLimits())
	assert.Equal(t, start.Width-120, r.Width)
	assert.Equal(t, start.X+(start.Width-r.Width), r.X)
}

func TestClampSize_EastDoesNotMoveLeft(t *testing.T) {
	start := Rect{X: 50, Y: 50, Width: 850, Height: 600}
	r := ClampSize(ApplyResize(start, EdgeSouthEast, -700, 0), start, EdgeSouthEast, DefaultLimits())
	assert.Equal(t, Rect{X: 50, Y: 50, Width: 300, Height: 600}, r)
}

func TestClampPosition_Bounds(t *testing.T) {
	for _, p := range []Point{{-500, -500}, {0, 0}, {5000, 5000}, {1000, 400}, {-1, 2000}} {
		r := ClampPosition(Rect{X: p.X, Y: p.Y, Width: 850, Height: 600}, testViewport)
		assert.GreaterOrEqual(t, r.X, 0)
		assert.LessOrEqual(t, r.X, testViewport.Width-r.Width)
		assert.GreaterOrEqual(t, r.Y, 0)
		assert.LessOrEqual(t, r.Y, testViewport.Height-r.Height-testViewport.TaskbarHeight)
	}
}

func TestClampPosition_Idempotent(t *testing.T) {
	boxes := []Rect{
		{X: -20, Y: 900, Width: 850, Height: 600},
		{X: 3000, Y: -3, Width: 300, Height: 200},
		{X: 10, Y: 10, Width: 4000, Height: 3000},
		{X: 70, Y: 80, Width: 850, Height: 600},
	}
	for _, b := range boxes {
		once := ClampPosition(b, testViewport)
		assert.Equal(t, once, ClampPosition(once, testViewport))
	}
}

func TestClampPosition_OversizedPinsToOrigin(t *testing.T) {
	r := ClampPosition(Rect{X: 10, Y: 10, Width: 4000, Height: 3000}, testViewport)
	assert.Equal(t, 0, r.X)
	assert.Equal(t, 0, r.Y)
}

func TestCascadeAndMaximized(t *testing.T) {
	assert.Equal(t, Rect{X: 50, Y: 50, Width: 850, Height: 600}, Cascade(0, DefaultCascade()))
	assert.Equal(t, Rect{X: 80, Y: 80, Width: 850, Height: 600}, Cascade(1, DefaultCascade()))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 1920, Height: 1050}, Maximized(testViewport))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.True(t, r.Contains(Point{10, 10}))
	assert.True(t, r.Contains(Point{14, 14}))
	assert.False(t, r.Contains(Point{15, 10}))
	assert.False(t, r.Contains(Point{9, 12}))
}
