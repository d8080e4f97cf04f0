package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/windowing"
)

const (
	ServerName    = "windowkit"
	ServerVersion = "0.1.0"

	// pumpInterval bounds how long the event loop blocks between checks of
	// the server context.
	pumpInterval = 250 * time.Millisecond
)

var errLoopStopped = errors.New("windowing event loop has stopped")

// Server exposes a windowing state as MCP tools. Tool handlers run on SDK
// goroutines and forward every state call to the goroutine running Serve.
type Server struct {
	mcpServer *mcpsdk.Server
	state     *windowing.State
	logger    *slog.Logger
	queue     *mainQueue
	events    *EventLog

	// Only touched on the state goroutine.
	windows map[string]*windowing.Window
	ids     map[*windowing.Window]string
	cursors map[platform.CursorShape]*windowing.Cursor
}

// NewServer wraps an initialized state.
func NewServer(state *windowing.State, logger *slog.Logger) (*Server, error) {
	if state == nil || !state.Initialized() {
		return nil, fmt.Errorf("windowing state is not initialized")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		state:   state,
		logger:  logger,
		queue:   newMainQueue(state.PostEmptyEvent),
		events:  NewEventLog(DefaultEventCapacity),
		windows: make(map[string]*windowing.Window),
		ids:     make(map[*windowing.Window]string),
		cursors: make(map[platform.CursorShape]*windowing.Cursor),
	}

	state.SetMonitorCallback(func(m *windowing.Monitor, connected bool) {
		kind := "monitor_disconnected"
		if connected {
			kind = "monitor_connected"
		}
		s.events.Add("", kind, m.Name())
	})
	state.SetErrorCallback(func(err *windowing.Error) {
		s.events.Add("", "error", err.Error())
	})

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Serve runs the MCP session on a goroutine and the windowing event loop on
// the caller until ctx ends or the transport closes. It must be called on the
// goroutine that initialized the state.
func (s *Server) Serve(ctx context.Context, transport mcpsdk.Transport) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.mcpServer.Run(ctx, transport)
		cancel()
		s.state.PostEmptyEvent()
	}()

	s.logger.Info("mcp server started", "platform", s.state.Platform())
	for ctx.Err() == nil {
		s.Pump(pumpInterval)
	}
	s.queue.stop()
	s.closeAll()

	err := <-errCh
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Run serves over stdio.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcpsdk.StdioTransport{})
}

// Pump waits up to timeout for platform events, dispatches them, then runs
// queued tool work.
func (s *Server) Pump(timeout time.Duration) {
	if err := s.state.WaitEventsTimeout(timeout); err != nil {
		s.logger.Warn("event wait failed", "error", err)
	}
	s.queue.drain()
}

// Events exposes the recorded event log.
func (s *Server) Events() *EventLog {
	return s.events
}

// closeAll destroys the windows and cursors this server created.
func (s *Server) closeAll() {
	for id, w := range s.windows {
		s.state.DestroyWindow(w)
		delete(s.windows, id)
		delete(s.ids, w)
	}
	for shape, c := range s.cursors {
		s.state.DestroyCursor(c)
		delete(s.cursors, shape)
	}
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors with position, physical size, content scale, work area and current video mode. The first entry is the primary monitor.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_video_modes",
		Description: "List the video modes a monitor supports, sorted by color depth, then area, then width, then refresh rate.",
	}, s.handleListVideoModes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Create a window using the configured hints, optionally overriding some of them. Passing monitor creates a full screen window on that monitor. Returns the window id used by the other tools.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "destroy_window",
		Description: "Destroy a window created by create_window.",
	}, s.handleDestroyWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window",
		Description: "Change window properties: title, size, position, decorations, resizability, floating, mouse passthrough, opacity, close flag, a state action (show, hide, focus, maximize, minimize, restore, request_attention) or full screen placement.",
	}, s.handleSetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window",
		Description: "Return a snapshot of a window's geometry, state, attributes and cursor.",
	}, s.handleGetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_cursor_mode",
		Description: "Set a window's cursor mode (normal, hidden, disabled, captured), its standard cursor shape, and raw mouse motion.",
	}, s.handleSetCursorMode)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clipboard",
		Description: "Read the system clipboard, or replace it when text is given.",
	}, s.handleClipboard)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "vulkan_info",
		Description: "Report whether a Vulkan loader was found and which instance extensions window surfaces need.",
	}, s.handleVulkanInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "recent_events",
		Description: "Return recorded window, monitor and error events newer than a sequence number. Cursor motion is not recorded.",
	}, s.handleRecentEvents)
}
