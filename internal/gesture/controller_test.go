package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskwm/internal/geometry"
)

var (
	vp  = geometry.Viewport{Width: 1920, Height: 1080, TaskbarHeight: 30}
	lim = geometry.DefaultLimits()
)

type recordingInteraction struct {
	events []string
}

func (r *recordingInteraction) Suspend(target string) { r.events = append(r.events, "suspend:"+target) }
func (r *recordingInteraction) Resume()               { r.events = append(r.events, "resume") }

func TestController_DragKeepsPointerOffset(t *testing.T) {
	c := NewController(nil)
	bounds := geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}
	require.NoError(t, c.BeginDrag("calc", geometry.Point{X: 70, Y: 60}, bounds))
	assert.Equal(t, Dragging, c.Mode())

	got, ok := c.Move(geometry.Point{X: 170, Y: 160}, bounds, vp, lim)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 150, Y: 150, Width: 850, Height: 600}, got)
}

func TestController_DragIsClamped(t *testing.T) {
	c := NewController(nil)
	bounds := geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}
	require.NoError(t, c.BeginDrag("calc", geometry.Point{X: 60, Y: 60}, bounds))

	for _, p := range []geometry.Point{{X: -400, Y: -400}, {X: 5000, Y: 5000}, {X: 1919, Y: 0}, {X: 0, Y: 1079}} {
		got, ok := c.Move(p, bounds, vp, lim)
		require.True(t, ok)
		assert.GreaterOrEqual(t, got.X, 0)
		assert.LessOrEqual(t, got.X, vp.Width-got.Width)
		assert.GreaterOrEqual(t, got.Y, 0)
		assert.LessOrEqual(t, got.Y, vp.Height-got.Height-vp.TaskbarHeight)
	}
}

func TestController_ResizeSouthEast(t *testing.T) {
	c := NewController(nil)
	start := geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}
	pointer := geometry.Point{X: 900, Y: 650}
	require.NoError(t, c.BeginResize("calc", geometry.EdgeSouthEast, pointer, start))

	got, ok := c.Move(geometry.Point{X: 1000, Y: 700}, start, vp, lim)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 950, Height: 650}, got)

	got, _ = c.Move(geometry.Point{X: 200, Y: 650}, got, vp, lim)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 300, Height: 600}, got)
}

func TestController_ResizeUsesStartBoundsNotCurrent(t *testing.T) {
	c := NewController(nil)
	start := geometry.Rect{X: 300, Y: 200, Width: 850, Height: 600}
	require.NoError(t, c.BeginResize("notes", geometry.EdgeWest, geometry.Point{X: 300, Y: 400}, start))

	first, _ := c.Move(geometry.Point{X: 250, Y: 400}, start, vp, lim)
	second, _ := c.Move(geometry.Point{X: 250, Y: 400}, first, vp, lim)
	assert.Equal(t, first, second, "repeating the same pointer position must not accumulate")
	assert.Equal(t, geometry.Rect{X: 250, Y: 200, Width: 900, Height: 600}, second)
}

func TestController_SecondGestureRejected(t *testing.T) {
	c := NewController(nil)
	bounds := geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}
	require.NoError(t, c.BeginDrag("calc", geometry.Point{X: 60, Y: 60}, bounds))

	err := c.BeginResize("calc", geometry.EdgeEast, geometry.Point{X: 900, Y: 300}, bounds)
	assert.ErrorIs(t, err, ErrGestureActive)
	err = c.BeginDrag("notes", geometry.Point{X: 0, Y: 0}, bounds)
	assert.ErrorIs(t, err, ErrGestureActive)

	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, Dragging, s.Mode)
	assert.Equal(t, "calc", s.WindowID)
	assert.Equal(t, geometry.Point{X: 10, Y: 10}, s.Offset)
}

func TestController_ResizeRejectsDragAfter(t *testing.T) {
	c := NewController(nil)
	bounds := geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}
	require.NoError(t, c.BeginResize("calc", geometry.EdgeNorth, geometry.Point{X: 100, Y: 50}, bounds))
	assert.ErrorIs(t, c.BeginDrag("calc", geometry.Point{X: 100, Y: 60}, bounds), ErrGestureActive)
	assert.Equal(t, Resizing, c.Mode())
}

func TestController_InvalidEdge(t *testing.T) {
	c := NewController(nil)
	err := c.BeginResize("calc", geometry.EdgeNorth|geometry.EdgeSouth, geometry.Point{}, geometry.Rect{})
	assert.ErrorIs(t, err, ErrInvalidEdge)
	assert.False(t, c.Active())
}

func TestController_SuspendResumePairing(t *testing.T) {
	rec := &recordingInteraction{}
	c := NewController(rec)
	bounds := geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}

	require.NoError(t, c.BeginDrag("calc", geometry.Point{X: 60, Y: 60}, bounds))
	_ = c.BeginResize("calc", geometry.EdgeEast, geometry.Point{}, bounds)
	_, ok := c.End()
	require.True(t, ok)
	_, ok = c.End()
	assert.False(t, ok, "a second release must be ignored")

	require.NoError(t, c.BeginResize("notes", geometry.EdgeEast, geometry.Point{}, bounds))
	_, ok = c.Cancel()
	require.True(t, ok)

	assert.Equal(t, []string{"suspend:calc", "resume", "suspend:notes", "resume"}, rec.events)
}

func TestController_MoveWhenIdle(t *testing.T) {
	c := NewController(nil)
	_, ok := c.Move(geometry.Point{X: 1, Y: 1}, geometry.Rect{}, vp, lim)
	assert.False(t, ok)
	assert.Equal(t, Idle, c.Mode())
	assert.Equal(t, "", c.Target())
}

func TestController_CancelReturnsStartBounds(t *testing.T) {
	c := NewController(nil)
	start := geometry.Rect{X: 120, Y: 90, Width: 850, Height: 600}
	require.NoError(t, c.BeginResize("calc", geometry.EdgeSouth, geometry.Point{X: 400, Y: 690}, start))
	s, ok := c.Cancel()
	require.True(t, ok)
	assert.Equal(t, start, s.StartBounds)
	assert.False(t, c.Active())
}
