package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen          CommandType = "OPEN"
	CommandClose         CommandType = "CLOSE"
	CommandFocus         CommandType = "FOCUS"
	CommandMinimize      CommandType = "MINIMIZE"
	CommandMaximize      CommandType = "MAXIMIZE"
	CommandRestore       CommandType = "RESTORE"
	CommandPointerDown   CommandType = "POINTER_DOWN"
	CommandPointerMove   CommandType = "POINTER_MOVE"
	CommandPointerUp     CommandType = "POINTER_UP"
	CommandCancelGesture CommandType = "CANCEL_GESTURE"
	CommandSetViewport   CommandType = "SET_VIEWPORT"
	CommandGetState      CommandType = "GET_STATE"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandListWindows   CommandType = "LIST_WINDOWS"
	CommandReload        CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowPayload targets one window by id.
type WindowPayload struct {
	WindowID string `json:"window_id"`
}

// PointerPayload carries a pointer position in desktop pixels.
type PointerPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ViewportPayload is the payload for SET_VIEWPORT. A zero taskbar height
// keeps the current one.
type ViewportPayload struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	TaskbarHeight int `json:"taskbar_height,omitempty"`
}

// PointerData is returned by the pointer commands.
type PointerData struct {
	Outcome  *pointer.Outcome `json:"outcome,omitempty"`
	Bounds   *geometry.Rect   `json:"bounds,omitempty"`
	Handled  bool             `json:"handled"`
	Snapshot wm.Snapshot      `json:"snapshot"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveWindow  string `json:"active_window"`
	WindowCount   int    `json:"window_count"`
	VisibleCount  int    `json:"visible_count"`
	Gesture       string `json:"gesture"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// WindowInfo describes a launchable window and its current state.
type WindowInfo struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Icon       string         `json:"icon,omitempty"`
	State      string         `json:"state"`
	Active     bool           `json:"active"`
	Maximized  bool           `json:"maximized"`
	ZRank      int            `json:"z_rank,omitempty"`
	Bounds     *geometry.Rect `json:"bounds,omitempty"`
	OnTaskbar  bool           `json:"on_taskbar"`
	TaskActive bool           `json:"task_active"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// BuildWindowList joins the catalog with the desktop snapshot, in catalog order.
func BuildWindowList(catalog []wm.CatalogEntry, snap wm.Snapshot) []WindowInfo {
	tasks := make(map[string]bool, len(snap.Taskbar))
	for _, e := range snap.Taskbar {
		tasks[e.WindowID] = e.Active
	}

	out := make([]WindowInfo, 0, len(catalog))
	for _, entry := range catalog {
		info := WindowInfo{
			ID:    entry.ID,
			Title: entry.Title,
			Icon:  entry.Icon,
			State: "closed",
		}
		if w, ok := snap.Window(entry.ID); ok {
			bounds := w.Bounds
			info.State = w.Visibility.String()
			info.Active = w.Active
			info.Maximized = w.Maximized
			info.ZRank = w.ZRank
			info.Bounds = &bounds
		}
		info.TaskActive, info.OnTaskbar = tasks[entry.ID]
		out = append(out, info)
	}
	return out
}
