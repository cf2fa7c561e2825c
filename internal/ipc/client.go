package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data into out.
func (c *Client) call(cmd CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

func (c *Client) windowCommand(cmd CommandType, id string) (*wm.Snapshot, error) {
	var snap wm.Snapshot
	if err := c.call(cmd, WindowPayload{WindowID: id}, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Open opens a window from the catalog, or focuses it when already open.
func (c *Client) Open(id string) (*wm.Snapshot, error) {
	return c.windowCommand(CommandOpen, id)
}

// Close closes a window.
func (c *Client) Close(id string) (*wm.Snapshot, error) {
	return c.windowCommand(CommandClose, id)
}

// Focus raises and activates a visible window.
func (c *Client) Focus(id string) (*wm.Snapshot, error) {
	return c.windowCommand(CommandFocus, id)
}

// Minimize hides a window while keeping its taskbar entry.
func (c *Client) Minimize(id string) (*wm.Snapshot, error) {
	return c.windowCommand(CommandMinimize, id)
}

// Maximize toggles a window between maximized and its previous geometry.
func (c *Client) Maximize(id string) (*wm.Snapshot, error) {
	return c.windowCommand(CommandMaximize, id)
}

// Restore acts like a click on the window's taskbar entry.
func (c *Client) Restore(id string) (*wm.Snapshot, error) {
	return c.windowCommand(CommandRestore, id)
}

// PointerDown presses the primary button at x,y.
func (c *Client) PointerDown(x, y int) (*PointerData, error) {
	return c.pointerCommand(CommandPointerDown, &PointerPayload{X: x, Y: y})
}

// PointerMove moves the pointer to x,y.
func (c *Client) PointerMove(x, y int) (*PointerData, error) {
	return c.pointerCommand(CommandPointerMove, &PointerPayload{X: x, Y: y})
}

// PointerUp releases the primary button.
func (c *Client) PointerUp() (*PointerData, error) {
	return c.pointerCommand(CommandPointerUp, nil)
}

// CancelGesture aborts a running drag or resize.
func (c *Client) CancelGesture() (*PointerData, error) {
	return c.pointerCommand(CommandCancelGesture, nil)
}

func (c *Client) pointerCommand(cmd CommandType, payload *PointerPayload) (*PointerData, error) {
	var data PointerData
	var err error
	if payload != nil {
		err = c.call(cmd, payload, &data)
	} else {
		err = c.call(cmd, nil, &data)
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// SetViewport resizes the desktop. A zero taskbarHeight keeps the current one.
func (c *Client) SetViewport(width, height, taskbarHeight int) (*wm.Snapshot, error) {
	var snap wm.Snapshot
	payload := ViewportPayload{Width: width, Height: height, TaskbarHeight: taskbarHeight}
	if err := c.call(CommandSetViewport, payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetState retrieves the full desktop snapshot.
func (c *Client) GetState() (*wm.Snapshot, error) {
	var snap wm.Snapshot
	if err := c.call(CommandGetState, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListWindows retrieves the catalog joined with each window's state.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
