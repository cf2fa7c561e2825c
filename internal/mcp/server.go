// Package mcp exposes the desktop to MCP clients as a set of tools. It talks
// to a running daemon through the IPC client.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/hittest"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/wm"
)

const (
	ServerName    = "deskwm"
	ServerVersion = "0.1.0"
)

// Desktop is the daemon surface the tools drive. *ipc.Client implements it.
type Desktop interface {
	GetState() (*wm.Snapshot, error)
	ListWindows() (*ipc.WindowsData, error)
	Open(id string) (*wm.Snapshot, error)
	Close(id string) (*wm.Snapshot, error)
	Focus(id string) (*wm.Snapshot, error)
	Minimize(id string) (*wm.Snapshot, error)
	Maximize(id string) (*wm.Snapshot, error)
	Restore(id string) (*wm.Snapshot, error)
	PointerDown(x, y int) (*ipc.PointerData, error)
	PointerMove(x, y int) (*ipc.PointerData, error)
	PointerUp() (*ipc.PointerData, error)
	SetViewport(width, height, taskbarHeight int) (*wm.Snapshot, error)
}

// Server is the MCP server for desktop automation.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
	// chrome must match the daemon's so synthesized presses land on the
	// header and handles.
	chrome hittest.Chrome
}

// NewServer creates an MCP server that drives the daemon over IPC.
func NewServer(cfg *config.Config) *Server {
	return newServer(ipc.NewClient(), cfg.Chrome)
}

func newServer(desktop Desktop, chrome hittest.Chrome) *Server {
	s := &Server{
		desktop: desktop,
		chrome:  chrome,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every launchable window with its state (closed, visible or minimized) and whether it is active.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_desktop",
		Description: "Return the full desktop: viewport, open windows in paint order with geometry and z-rank, taskbar entries, the active window and the running gesture.",
	}, s.handleGetDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window from the catalog. A window that is already open is focused instead; a minimized one is shown in place.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window and remove its taskbar entry.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a visible window to the front and make it the active window.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Hide a window while keeping its taskbar entry and geometry.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Maximize a window to the area above the taskbar, or restore it to the geometry it had before.",
	}, s.handleToggleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Act like a click on the window's taskbar entry: a minimized window is shown and focused.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drag_window",
		Description: "Move a window by dragging its header so its top-left corner ends at x,y. The result is clamped so the window stays inside the viewport above the taskbar.",
	}, s.handleDragWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window by dragging one of its eight handles by dx,dy pixels. The opposite edge stays anchored and the minimum size is enforced.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_viewport",
		Description: "Resize the desktop. Windows are clamped back inside the new viewport and maximized windows are re-fitted.",
	}, s.handleSetViewport)
}
