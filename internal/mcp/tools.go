package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskwm/internal/desktop"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
)

func toDesktopOutput(snap *wm.Snapshot) DesktopOutput {
	out := DesktopOutput{
		ViewportWidth:  snap.Viewport.Width,
		ViewportHeight: snap.Viewport.Height,
		TaskbarHeight:  snap.Viewport.TaskbarHeight,
		ActiveWindow:   snap.ActiveID,
		Gesture:        "idle",
		Windows:        make([]WindowState, 0, len(snap.Windows)),
		Taskbar:        make([]TaskbarItem, 0, len(snap.Taskbar)),
	}
	if snap.Gesture != nil {
		out.Gesture = snap.Gesture.Mode.String()
	}
	for _, w := range snap.Windows {
		out.Windows = append(out.Windows, toWindowState(w))
	}
	for _, e := range snap.Taskbar {
		out.Taskbar = append(out.Taskbar, TaskbarItem{WindowID: e.WindowID, Label: e.Label, Active: e.Active})
	}
	return out
}

func toWindowState(w desktop.Window) WindowState {
	return WindowState{
		ID:        w.ID,
		Title:     w.Title,
		State:     w.Visibility.String(),
		Active:    w.Active,
		Maximized: w.Maximized,
		ZRank:     w.ZRank,
		X:         w.Bounds.X,
		Y:         w.Bounds.Y,
		Width:     w.Bounds.Width,
		Height:    w.Bounds.Height,
	}
}

func requireWindowID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("window_id is required")
	}
	return id, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]CatalogWindow, 0, len(data.Windows))}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, CatalogWindow{
			ID:        w.ID,
			Title:     w.Title,
			Icon:      w.Icon,
			State:     w.State,
			Active:    w.Active,
			OnTaskbar: w.OnTaskbar,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	snap, err := s.desktop.GetState()
	if err != nil {
		return nil, DesktopOutput{}, err
	}
	return nil, toDesktopOutput(snap), nil
}

// windowTool adapts a per-window daemon call to a tool handler.
func (s *Server) windowTool(name string, call func(string) (*wm.Snapshot, error), args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	id, err := requireWindowID(args.WindowID)
	if err != nil {
		return nil, DesktopOutput{}, err
	}
	snap, err := call(id)
	if err != nil {
		log.Printf("mcp: %s %s failed: %v", name, id, err)
		return nil, DesktopOutput{}, err
	}
	return nil, toDesktopOutput(snap), nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	return s.windowTool("open_window", s.desktop.Open, args)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	return s.windowTool("close_window", s.desktop.Close, args)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	return s.windowTool("focus_window", s.desktop.Focus, args)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	return s.windowTool("minimize_window", s.desktop.Minimize, args)
}

func (s *Server) handleToggleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	return s.windowTool("toggle_maximize", s.desktop.Maximize, args)
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	return s.windowTool("restore_window", s.desktop.Restore, args)
}

// visibleWindow focuses id, which also raises it so a synthesized press on
// its chrome cannot land on a window in front of it.
func (s *Server) visibleWindow(id string) (desktop.Window, error) {
	snap, err := s.desktop.Focus(id)
	if err != nil {
		return desktop.Window{}, err
	}
	w, ok := snap.Window(id)
	if !ok || w.Visibility != desktop.Visible {
		return desktop.Window{}, fmt.Errorf("window %q is not visible", id)
	}
	return w, nil
}

// gesture presses at from, expecting want, moves to to and releases.
func (s *Server) gesture(from, to geometry.Point, want pointer.Action) (*wm.Snapshot, error) {
	down, err := s.desktop.PointerDown(from.X, from.Y)
	if err != nil {
		return nil, err
	}
	if down.Outcome == nil || down.Outcome.Action != want {
		got := pointer.ActionNone
		if down.Outcome != nil {
			got = down.Outcome.Action
		}
		if _, err := s.desktop.PointerUp(); err != nil {
			log.Printf("mcp: release after misdirected press failed: %v", err)
		}
		return nil, fmt.Errorf("press at %d,%d started %s, expected %s", from.X, from.Y, got, want)
	}
	if _, err := s.desktop.PointerMove(to.X, to.Y); err != nil {
		s.desktop.PointerUp()
		return nil, err
	}
	up, err := s.desktop.PointerUp()
	if err != nil {
		return nil, err
	}
	return &up.Snapshot, nil
}

func (s *Server) handleDragWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args DragWindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	id, err := requireWindowID(args.WindowID)
	if err != nil {
		return nil, DesktopOutput{}, err
	}
	w, err := s.visibleWindow(id)
	if err != nil {
		return nil, DesktopOutput{}, err
	}

	grab := s.chrome.GrabPoint(w.Bounds)
	to := geometry.Point{
		X: grab.X + args.X - w.Bounds.X,
		Y: grab.Y + args.Y - w.Bounds.Y,
	}
	snap, err := s.gesture(grab, to, pointer.ActionDrag)
	if err != nil {
		return nil, DesktopOutput{}, fmt.Errorf("drag %s: %w", id, err)
	}
	return nil, toDesktopOutput(snap), nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	id, err := requireWindowID(args.WindowID)
	if err != nil {
		return nil, DesktopOutput{}, err
	}
	edge, err := geometry.ParseEdge(args.Edge)
	if err != nil {
		return nil, DesktopOutput{}, err
	}
	w, err := s.visibleWindow(id)
	if err != nil {
		return nil, DesktopOutput{}, err
	}

	from := s.chrome.HandlePoint(w.Bounds, edge)
	to := geometry.Point{X: from.X + args.DX, Y: from.Y + args.DY}
	snap, err := s.gesture(from, to, pointer.ActionResize)
	if err != nil {
		return nil, DesktopOutput{}, fmt.Errorf("resize %s: %w", id, err)
	}
	return nil, toDesktopOutput(snap), nil
}

func (s *Server) handleSetViewport(_ context.Context, _ *mcpsdk.CallToolRequest, args SetViewportInput) (*mcpsdk.CallToolResult, DesktopOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, DesktopOutput{}, fmt.Errorf("width and height must be positive")
	}
	snap, err := s.desktop.SetViewport(args.Width, args.Height, args.TaskbarHeight)
	if err != nil {
		return nil, DesktopOutput{}, err
	}
	return nil, toDesktopOutput(snap), nil
}

var _ Desktop = (*ipc.Client)(nil)
