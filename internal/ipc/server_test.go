package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

func startServer(t *testing.T) (*Server, *Client, chan struct{}) {
	t.Helper()

	// Unix socket paths are length limited, so avoid the long per-test dirs.
	dir, err := os.MkdirTemp("", "dwm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	t.Setenv(runtimepath.SocketEnv, filepath.Join(dir, "s.sock"))

	cfg := config.DefaultConfig()
	cfg.Windows = []config.WindowEntry{
		{ID: "calc", Title: "Calculator"},
		{ID: "notes", Title: "Notes"},
	}
	mgr := wm.NewManager(cfg.ManagerOptions())
	disp := pointer.NewDispatcher(mgr, pointer.DefaultLayout(), 0)

	reload := make(chan struct{}, 1)
	srv, err := NewServer(cfg, mgr, disp, reload)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	return srv, NewClient(), reload
}

func TestServer_OpenReturnsSnapshot(t *testing.T) {
	_, c, _ := startServer(t)

	snap, err := c.Open("calc")
	require.NoError(t, err)

	w, ok := snap.Window("calc")
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}, w.Bounds)
	assert.Equal(t, 1001, w.ZRank)
	assert.True(t, w.Active)
	assert.Equal(t, "calc", snap.ActiveID)
	assert.Equal(t, []desktop.TaskbarEntry{{WindowID: "calc", Label: "Calculator", Active: true}}, snap.Taskbar)
}

func TestServer_UnknownWindowOnlyFailsOpen(t *testing.T) {
	_, c, _ := startServer(t)

	_, err := c.Open("paint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon error")
	assert.Contains(t, err.Error(), "unknown window: paint")

	_, err = c.Open("calc")
	require.NoError(t, err)
	for name, call := range map[string]func(string) (*wm.Snapshot, error){
		"close":    c.Close,
		"focus":    c.Focus,
		"minimize": c.Minimize,
		"maximize": c.Maximize,
		"restore":  c.Restore,
	} {
		snap, err := call("paint")
		require.NoError(t, err, name)
		assert.Equal(t, "calc", snap.ActiveID, name)
		assert.Len(t, snap.Windows, 1, name)
	}

	_, err = c.Focus("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window_id is required")
}

func TestServer_WindowLifecycle(t *testing.T) {
	_, c, _ := startServer(t)

	_, err := c.Open("calc")
	require.NoError(t, err)
	_, err = c.Open("notes")
	require.NoError(t, err)

	snap, err := c.Minimize("notes")
	require.NoError(t, err)
	w, _ := snap.Window("notes")
	assert.Equal(t, desktop.Minimized, w.Visibility)
	assert.Len(t, snap.Taskbar, 2)

	snap, err = c.Restore("notes")
	require.NoError(t, err)
	w, _ = snap.Window("notes")
	assert.Equal(t, desktop.Visible, w.Visibility)
	assert.True(t, w.Active)

	snap, err = c.Maximize("calc")
	require.NoError(t, err)
	w, _ = snap.Window("calc")
	assert.True(t, w.Maximized)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1050}, w.Bounds)

	// Closing the active window leaves no window active.
	snap, err = c.Close("notes")
	require.NoError(t, err)
	_, ok := snap.Window("notes")
	assert.False(t, ok)
	assert.Equal(t, "", snap.ActiveID)
	assert.Len(t, snap.Taskbar, 1)
}

func TestServer_PointerGestureRoundTrip(t *testing.T) {
	_, c, _ := startServer(t)

	_, err := c.Open("calc")
	require.NoError(t, err)

	// Header of calc at 50,50.
	down, err := c.PointerDown(300, 65)
	require.NoError(t, err)
	require.NotNil(t, down.Outcome)
	assert.Equal(t, pointer.ActionDrag, down.Outcome.Action)
	require.NotNil(t, down.Snapshot.Gesture)

	move, err := c.PointerMove(100, 80)
	require.NoError(t, err)
	require.NotNil(t, move.Bounds)
	assert.True(t, move.Handled)
	// The pointer offset would put the window at x=-150; it is clamped to 0.
	assert.Equal(t, geometry.Rect{X: 0, Y: 65, Width: 850, Height: 600}, *move.Bounds)

	up, err := c.PointerUp()
	require.NoError(t, err)
	assert.True(t, up.Handled)
	assert.Nil(t, up.Snapshot.Gesture)

	up, err = c.PointerUp()
	require.NoError(t, err)
	assert.False(t, up.Handled)
}

func TestServer_CancelGestureRestoresBounds(t *testing.T) {
	_, c, _ := startServer(t)

	_, err := c.Open("calc")
	require.NoError(t, err)
	_, err = c.PointerDown(898, 648)
	require.NoError(t, err)
	_, err = c.PointerMove(998, 748)
	require.NoError(t, err)

	res, err := c.CancelGesture()
	require.NoError(t, err)
	assert.True(t, res.Handled)
	w, _ := res.Snapshot.Window("calc")
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}, w.Bounds)
}

func TestServer_SetViewport(t *testing.T) {
	_, c, _ := startServer(t)

	_, err := c.Open("calc")
	require.NoError(t, err)

	snap, err := c.SetViewport(880, 680, 0)
	require.NoError(t, err)
	assert.Equal(t, geometry.Viewport{Width: 880, Height: 680, TaskbarHeight: 30}, snap.Viewport)
	w, _ := snap.Window("calc")
	assert.Equal(t, geometry.Rect{X: 30, Y: 50, Width: 850, Height: 600}, w.Bounds)

	_, err = c.SetViewport(0, 600, 0)
	require.Error(t, err)
	_, err = c.SetViewport(800, 30, 30)
	require.Error(t, err)
}

func TestServer_StatusAndListWindows(t *testing.T) {
	_, c, _ := startServer(t)

	_, err := c.Open("notes")
	require.NoError(t, err)

	status, err := c.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.Equal(t, "notes", status.ActiveWindow)
	assert.Equal(t, 1, status.WindowCount)
	assert.Equal(t, 1, status.VisibleCount)
	assert.Equal(t, "idle", status.Gesture)

	list, err := c.ListWindows()
	require.NoError(t, err)
	require.Len(t, list.Windows, 2)
	assert.Equal(t, "calc", list.Windows[0].ID)
	assert.Equal(t, "closed", list.Windows[0].State)
	assert.False(t, list.Windows[0].OnTaskbar)
	assert.Equal(t, "notes", list.Windows[1].ID)
	assert.Equal(t, "visible", list.Windows[1].State)
	assert.True(t, list.Windows[1].OnTaskbar)
	assert.True(t, list.Windows[1].TaskActive)
	require.NotNil(t, list.Windows[1].Bounds)

	require.NoError(t, c.Ping())
}

func TestServer_Reload(t *testing.T) {
	srv, c, reload := startServer(t)

	next := config.DefaultConfig()
	next.TaskbarHeight = 40
	srv.SetConfigLoader(func() (*config.Config, error) { return next, nil })

	require.NoError(t, c.Reload())
	assert.Same(t, next, srv.GetConfig())
	select {
	case <-reload:
	default:
		t.Fatal("expected reload notification")
	}

	srv.SetConfigLoader(func() (*config.Config, error) { return nil, errors.New("bad yaml") })
	err := c.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad yaml")
	assert.Same(t, next, srv.GetConfig())
}

func TestServer_UnknownCommand(t *testing.T) {
	_, c, _ := startServer(t)

	err := c.call(CommandType("EXPLODE"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown command: EXPLODE")
}

func TestClient_NoDaemon(t *testing.T) {
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "missing.sock"))

	_, err := NewClient().GetStatus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}
