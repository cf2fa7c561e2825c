package wm

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/gesture"
)

type recordingSurface struct {
	rendered  map[string]desktop.Window
	hidden    []string
	suspended []string
	resumed   int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{rendered: make(map[string]desktop.Window)}
}

func (s *recordingSurface) Render(w desktop.Window)          { s.rendered[w.ID] = w }
func (s *recordingSurface) Hide(id string)                   { s.hidden = append(s.hidden, id) }
func (s *recordingSurface) SuspendInteraction(target string) { s.suspended = append(s.suspended, target) }
func (s *recordingSurface) ResumeInteraction()               { s.resumed++ }

type recordingTaskbar struct {
	last  []desktop.TaskbarEntry
	syncs int
}

func (t *recordingTaskbar) Sync(entries []desktop.TaskbarEntry) {
	t.last = entries
	t.syncs++
}

var testCatalog = StaticCatalog{
	{ID: "calc", Title: "Calculator"},
	{ID: "notes", Title: "Notes"},
	{ID: "term", Title: "Terminal"},
}

func newTestManager(t *testing.T) (*Manager, *recordingSurface, *recordingTaskbar) {
	t.Helper()
	surface := newRecordingSurface()
	taskbar := &recordingTaskbar{}
	opts := DefaultOptions()
	opts.Catalog = testCatalog
	opts.Surface = surface
	opts.Taskbar = taskbar
	return NewManager(opts), surface, taskbar
}

func activeWindows(snap Snapshot) []string {
	var ids []string
	for _, w := range snap.Windows {
		if w.Active {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func TestOpen_FirstWindowScenario(t *testing.T) {
	m, surface, taskbar := newTestManager(t)

	require.NoError(t, m.Open("calc"))

	calc, ok := m.Window("calc")
	require.True(t, ok)
	assert.Equal(t, 1001, calc.ZRank)
	assert.True(t, calc.Active)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}, calc.Bounds)
	assert.Equal(t, "calc", m.ActiveID())

	require.Len(t, taskbar.last, 1)
	assert.Equal(t, "Calculator", taskbar.last[0].Label)
	assert.True(t, taskbar.last[0].Active)
	assert.Equal(t, 1001, surface.rendered["calc"].ZRank)
}

func TestOpen_SecondWindowCascadesAndTakesFocus(t *testing.T) {
	m, surface, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))

	calc, _ := m.Window("calc")
	notes, _ := m.Window("notes")
	assert.False(t, calc.Active)
	assert.True(t, notes.Active)
	assert.Equal(t, 1002, notes.ZRank)
	assert.Equal(t, geometry.Point{X: 80, Y: 80}, notes.Bounds.TopLeft())

	// The previously active window was re-rendered without its active style.
	assert.False(t, surface.rendered["calc"].Active)

	require.Len(t, taskbar.last, 2)
	assert.False(t, taskbar.last[0].Active)
	assert.True(t, taskbar.last[1].Active)
}

func TestOpen_AlreadyOpenOnlyFocuses(t *testing.T) {
	m, _, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))
	require.NoError(t, m.Open("calc"))

	assert.Len(t, taskbar.last, 2)
	calc, _ := m.Window("calc")
	assert.True(t, calc.Active)
	assert.Equal(t, 1003, calc.ZRank)
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, calc.Bounds.TopLeft())
}

func TestOpen_UnknownWindow(t *testing.T) {
	m, _, _ := newTestManager(t)
	err := m.Open("paint")
	assert.ErrorIs(t, err, ErrUnknownWindow)
	assert.Empty(t, m.Snapshot().Windows)
}

func TestFocus_SingleActiveWindow(t *testing.T) {
	m, _, _ := newTestManager(t)
	for _, id := range []string{"calc", "notes", "term"} {
		require.NoError(t, m.Open(id))
	}

	for _, id := range []string{"calc", "term", "notes", "calc"} {
		m.Focus(id)
		snap := m.Snapshot()
		assert.Equal(t, []string{id}, activeWindows(snap))
		assert.Equal(t, id, snap.ActiveID)

		top := snap.Windows[len(snap.Windows)-1]
		assert.Equal(t, id, top.ID, "focused window paints last")
	}
}

func TestFocus_AlreadyActiveIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	before := m.Snapshot().Counter

	m.Focus("calc")
	m.Focus("calc")

	assert.Equal(t, before, m.Snapshot().Counter)
}

func TestFocus_IgnoresUnknownAndClosed(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	before := m.Snapshot()

	m.Focus("notes")
	m.Focus("nope")
	m.Close("nope")
	m.Minimize("nope")
	m.Maximize("nope")
	m.RestoreFromTaskbar("nope")

	assert.Equal(t, before, m.Snapshot())
}

func TestClose_ActiveWindowLeavesNoneActive(t *testing.T) {
	m, surface, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))

	m.Close("notes")

	snap := m.Snapshot()
	assert.Equal(t, "", snap.ActiveID)
	assert.Empty(t, activeWindows(snap))
	require.Len(t, taskbar.last, 1)
	assert.Equal(t, "calc", taskbar.last[0].WindowID)
	assert.Contains(t, surface.hidden, "notes")

	_, ok := m.Window("notes")
	assert.False(t, ok)
}

func TestClose_ThenReopenCascadesFromVisibleCount(t *testing.T) {
	m, _, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	m.Close("calc")
	require.NoError(t, m.Open("calc"))

	calc, _ := m.Window("calc")
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, calc.Bounds.TopLeft())
	assert.Len(t, taskbar.last, 1)
}

func TestMinimize_KeepsEntryAndGeometry(t *testing.T) {
	m, surface, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	before, _ := m.Window("calc")

	m.Minimize("calc")

	calc, _ := m.Window("calc")
	assert.Equal(t, desktop.Minimized, calc.Visibility)
	assert.Equal(t, before.Bounds, calc.Bounds)
	assert.Equal(t, "calc", m.ActiveID())
	require.Len(t, taskbar.last, 1)
	assert.False(t, taskbar.last[0].Active)
	assert.Contains(t, surface.hidden, "calc")
}

func TestRestoreFromTaskbar_ShowsMinimizedWindow(t *testing.T) {
	m, _, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))
	m.Minimize("calc")

	m.RestoreFromTaskbar("calc")

	calc, _ := m.Window("calc")
	notes, _ := m.Window("notes")
	assert.Equal(t, desktop.Visible, calc.Visibility)
	assert.Greater(t, calc.ZRank, notes.ZRank)
	assert.True(t, calc.Active)
	assert.Equal(t, "calc", m.ActiveID())
	assert.True(t, taskbar.last[0].Active)
	assert.False(t, taskbar.last[1].Active)
}

func TestRestoreFromTaskbar_ActiveMinimizedWindowReactivatesEntry(t *testing.T) {
	m, _, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	m.Minimize("calc")
	require.False(t, taskbar.last[0].Active)

	m.RestoreFromTaskbar("calc")

	assert.True(t, taskbar.last[0].Active)
	calc, _ := m.Window("calc")
	assert.Equal(t, desktop.Visible, calc.Visibility)
}

func TestOpen_MinimizedWindowIsShownInPlace(t *testing.T) {
	m, _, taskbar := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))
	m.Minimize("notes")

	require.NoError(t, m.Open("notes"))

	notes, _ := m.Window("notes")
	assert.Equal(t, desktop.Visible, notes.Visibility)
	assert.Equal(t, geometry.Point{X: 80, Y: 80}, notes.Bounds.TopLeft())
	assert.Len(t, taskbar.last, 2)
}

func TestMaximize_TogglesAndRestoresExactGeometry(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))

	m.Maximize("notes")
	notes, _ := m.Window("notes")
	assert.True(t, notes.Maximized)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1050}, notes.Bounds)
	assert.Equal(t, geometry.Rect{X: 80, Y: 80, Width: 850, Height: 600}, notes.RestoreBounds)

	m.Maximize("notes")
	notes, _ = m.Window("notes")
	assert.False(t, notes.Maximized)
	assert.Equal(t, geometry.Rect{X: 80, Y: 80, Width: 850, Height: 600}, notes.Bounds)
}

func TestMaximize_ResizeWhileMaximizedKeepsNewGeometry(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	m.Maximize("calc")

	require.NoError(t, m.BeginResize("calc", geometry.EdgeEast, geometry.Point{X: 1919, Y: 500}))
	_, ok := m.PointerMove(geometry.Point{X: 1519, Y: 500})
	require.True(t, ok)
	require.True(t, m.PointerUp())

	calc, _ := m.Window("calc")
	assert.False(t, calc.Maximized)
	assert.Equal(t, 1520, calc.Bounds.Width)

	// The next toggle maximizes again instead of jumping to stale geometry.
	m.Maximize("calc")
	calc, _ = m.Window("calc")
	assert.True(t, calc.Maximized)
	assert.Equal(t, 1920, calc.Bounds.Width)
}

func TestResize_SouthEastScenario(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))

	start := geometry.Point{X: 900, Y: 650}
	require.NoError(t, m.BeginResize("calc", geometry.EdgeSouthEast, start))

	got, ok := m.PointerMove(geometry.Point{X: 1000, Y: 700})
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 950, Height: 650}, got)

	got, ok = m.PointerMove(geometry.Point{X: 200, Y: 650})
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 300, Height: 600}, got)

	require.True(t, m.PointerUp())
	assert.Equal(t, gesture.Idle, m.GestureMode())
}

func TestResize_WestAnchorsRightEdge(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))

	require.NoError(t, m.BeginResize("calc", geometry.EdgeWest, geometry.Point{X: 50, Y: 300}))
	got, ok := m.PointerMove(geometry.Point{X: 250, Y: 300})
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 250, Y: 50, Width: 650, Height: 600}, got)

	got, _ = m.PointerMove(geometry.Point{X: 800, Y: 300})
	assert.Equal(t, 300, got.Width)
	assert.Equal(t, 900, got.Right())
}

func TestDrag_FocusesAndClamps(t *testing.T) {
	m, surface, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))

	require.NoError(t, m.BeginDrag("calc", geometry.Point{X: 100, Y: 60}))
	assert.Equal(t, "calc", m.ActiveID())
	assert.Equal(t, gesture.Dragging, m.GestureMode())
	assert.Equal(t, []string{"calc"}, surface.suspended)

	got, ok := m.PointerMove(geometry.Point{X: 5000, Y: 5000})
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 1920 - 850, Y: 1080 - 600 - 30, Width: 850, Height: 600}, got)

	got, _ = m.PointerMove(geometry.Point{X: -100, Y: -100})
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, got.TopLeft())

	require.True(t, m.PointerUp())
	assert.Equal(t, 1, surface.resumed)
	assert.False(t, m.PointerUp())
}

func TestGesture_SecondStartIsRejected(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))

	require.NoError(t, m.BeginDrag("notes", geometry.Point{X: 100, Y: 90}))
	before := m.Snapshot()

	assert.ErrorIs(t, m.BeginResize("calc", geometry.EdgeSouth, geometry.Point{X: 300, Y: 650}), ErrGestureActive)
	assert.ErrorIs(t, m.BeginDrag("calc", geometry.Point{X: 60, Y: 60}), ErrGestureActive)

	after := m.Snapshot()
	assert.Equal(t, before, after)
	require.NotNil(t, after.Gesture)
	assert.Equal(t, "notes", after.Gesture.WindowID)
	assert.Equal(t, gesture.Dragging, after.Gesture.Mode)
}

func TestGesture_RejectsHiddenWindowsAndBadEdges(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	m.Minimize("calc")

	assert.ErrorIs(t, m.BeginDrag("calc", geometry.Point{}), ErrNotVisible)
	assert.ErrorIs(t, m.BeginDrag("notes", geometry.Point{}), ErrNotVisible)
	assert.ErrorIs(t, m.BeginResize("calc", geometry.Edge(0), geometry.Point{}), gesture.ErrInvalidEdge)
	assert.Equal(t, gesture.Idle, m.GestureMode())
}

func TestCancelGesture_RestoresStartGeometry(t *testing.T) {
	m, surface, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	m.Maximize("calc")
	maxed, _ := m.Window("calc")

	require.NoError(t, m.BeginDrag("calc", geometry.Point{X: 400, Y: 10}))
	_, ok := m.PointerMove(geometry.Point{X: 300, Y: 10})
	require.True(t, ok)

	require.True(t, m.CancelGesture())
	calc, _ := m.Window("calc")
	assert.Equal(t, maxed.Bounds, calc.Bounds)
	assert.True(t, calc.Maximized)
	assert.Equal(t, maxed.RestoreBounds, calc.RestoreBounds)
	assert.Equal(t, 1, surface.resumed)
	assert.False(t, m.CancelGesture())
}

func TestClose_DuringGestureEndsIt(t *testing.T) {
	m, surface, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.BeginDrag("calc", geometry.Point{X: 60, Y: 60}))

	m.Close("calc")

	assert.Equal(t, gesture.Idle, m.GestureMode())
	assert.Equal(t, 1, surface.resumed)
	_, ok := m.PointerMove(geometry.Point{X: 70, Y: 70})
	assert.False(t, ok)
}

func TestSetViewport_ClampsAndRefitsWindows(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))
	require.NoError(t, m.Open("notes"))
	m.Maximize("calc")

	m.SetViewport(geometry.Viewport{Width: 900, Height: 650, TaskbarHeight: 30})

	calc, _ := m.Window("calc")
	notes, _ := m.Window("notes")
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 900, Height: 620}, calc.Bounds)
	assert.Equal(t, geometry.Rect{X: 50, Y: 20, Width: 850, Height: 600}, notes.Bounds)
	assert.Equal(t, 900, m.Viewport().Width)
}

func TestReconfigure_AppliesLimitsCatalogAndLogger(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Open("calc"))

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Limits = geometry.Limits{MinWidth: 400, MinHeight: 300}
	opts.Catalog = StaticCatalog{{ID: "calc", Title: "Calculator"}, {ID: "editor", Title: "Editor"}}
	opts.Viewport = geometry.Viewport{Width: 1280, Height: 720, TaskbarHeight: 30}
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m.Reconfigure(opts)

	assert.Equal(t, opts.Viewport, m.Viewport())
	assert.Len(t, m.Catalog(), 2)
	require.NoError(t, m.Open("editor"))
	assert.ErrorIs(t, m.Open("term"), ErrUnknownWindow)

	require.NoError(t, m.BeginResize("calc", geometry.EdgeSouthEast, geometry.Point{X: 900, Y: 650}))
	got, ok := m.PointerMove(geometry.Point{X: 100, Y: 100})
	require.True(t, ok)
	assert.Equal(t, 400, got.Width)
	assert.Equal(t, 300, got.Height)
	require.True(t, m.PointerUp())

	assert.Contains(t, buf.String(), "desktop reconfigured")
	assert.Contains(t, buf.String(), "window opened")
}
