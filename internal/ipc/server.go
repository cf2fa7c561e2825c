package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	loadConfig   func() (*config.Config, error)
	desktop      *wm.Manager
	pointer      *pointer.Dispatcher
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, desktop *wm.Manager, dispatcher *pointer.Dispatcher, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		loadConfig: config.Load,
		desktop:    desktop,
		pointer:    dispatcher,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// SetConfigLoader replaces the loader used by RELOAD, for daemons started
// with an explicit config path.
func (s *Server) SetConfigLoader(load func() (*config.Config, error)) {
	s.cfgMu.Lock()
	s.loadConfig = load
	s.cfgMu.Unlock()
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandOpen, CommandClose, CommandFocus, CommandMinimize, CommandMaximize, CommandRestore:
		return s.handleWindowCommand(req.Command, req.Payload)
	case CommandPointerDown:
		return s.handlePointerDown(req.Payload)
	case CommandPointerMove:
		return s.handlePointerMove(req.Payload)
	case CommandPointerUp:
		return s.handlePointerUp()
	case CommandCancelGesture:
		return s.handleCancelGesture()
	case CommandSetViewport:
		return s.handleSetViewport(req.Payload)
	case CommandGetState:
		return s.snapshotResponse()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleWindowCommand runs one of the per-window operations and returns the
// resulting desktop.
func (s *Server) handleWindowCommand(cmd CommandType, payload json.RawMessage) *Response {
	var p WindowPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	if p.WindowID == "" {
		return NewErrorResponse("window_id is required")
	}

	// Only OPEN consults the catalog. The other commands are no-ops for ids
	// that are not on the desktop.
	switch cmd {
	case CommandOpen:
		if err := s.desktop.Open(p.WindowID); err != nil {
			return NewErrorResponse(err.Error())
		}
	case CommandClose:
		s.desktop.Close(p.WindowID)
	case CommandFocus:
		s.desktop.Focus(p.WindowID)
	case CommandMinimize:
		s.desktop.Minimize(p.WindowID)
	case CommandMaximize:
		s.desktop.Maximize(p.WindowID)
	case CommandRestore:
		s.desktop.RestoreFromTaskbar(p.WindowID)
	}
	return s.snapshotResponse()
}


func (s *Server) handlePointerDown(payload json.RawMessage) *Response {
	p, err := parsePoint(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	outcome, err := s.pointer.Down(p)
	if err != nil {
		if errors.Is(err, wm.ErrGestureActive) {
			return NewErrorResponse(fmt.Sprintf("pointer down rejected: %v", err))
		}
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(PointerData{
		Outcome:  &outcome,
		Handled:  outcome.Action != pointer.ActionNone,
		Snapshot: s.desktop.Snapshot(),
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handlePointerMove(payload json.RawMessage) *Response {
	p, err := parsePoint(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	data := PointerData{Snapshot: s.desktop.Snapshot()}
	if bounds, ok := s.pointer.Move(p); ok {
		data.Bounds = &bounds
		data.Handled = true
		data.Snapshot = s.desktop.Snapshot()
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handlePointerUp() *Response {
	handled := s.pointer.Up()
	resp, err := NewOKResponse(PointerData{Handled: handled, Snapshot: s.desktop.Snapshot()})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleCancelGesture() *Response {
	handled := s.pointer.Escape()
	resp, err := NewOKResponse(PointerData{Handled: handled, Snapshot: s.desktop.Snapshot()})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func parsePoint(payload json.RawMessage) (geometry.Point, error) {
	var p PointerPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return geometry.Point{}, fmt.Errorf("invalid pointer payload: %v", err)
	}
	return geometry.Point{X: p.X, Y: p.Y}, nil
}

func (s *Server) handleSetViewport(payload json.RawMessage) *Response {
	var p ViewportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}
	if p.Width <= 0 || p.Height <= 0 {
		return NewErrorResponse(fmt.Sprintf("viewport must be positive, got %dx%d", p.Width, p.Height))
	}
	vp := s.desktop.Viewport()
	vp.Width = p.Width
	vp.Height = p.Height
	if p.TaskbarHeight > 0 {
		vp.TaskbarHeight = p.TaskbarHeight
	}
	if vp.TaskbarHeight >= vp.Height {
		return NewErrorResponse(fmt.Sprintf("taskbar height %d does not fit a %d px tall viewport", vp.TaskbarHeight, vp.Height))
	}

	log.Printf("IPC: Viewport set to %dx%d", vp.Width, vp.Height)
	s.desktop.SetViewport(vp)
	return s.snapshotResponse()
}

func (s *Server) snapshotResponse() *Response {
	resp, err := NewOKResponse(s.desktop.Snapshot())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	snap := s.desktop.Snapshot()
	status := StatusData{
		ActiveWindow:  snap.ActiveID,
		WindowCount:   len(snap.Windows),
		VisibleCount:  len(snap.Visible()),
		Gesture:       s.desktop.GestureMode().String(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows() *Response {
	data := WindowsData{
		Windows: BuildWindowList(s.desktop.Catalog(), s.desktop.Snapshot()),
	}
	resp, _ := NewOKResponse(data)
	return resp
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	s.cfgMu.RLock()
	load := s.loadConfig
	s.cfgMu.RUnlock()

	newCfg, err := load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.UpdateConfig(newCfg)

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal error response: %v", err)
		return
	}
	respData = append(respData, '\n')
	conn.Write(respData)
}

// Stop stops the IPC server
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}

	os.Remove(s.socketPath)

	return nil
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the server's config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}
