package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/windowing"
)

const (
	defaultWindowTitle = "windowkit"
	defaultEventLimit  = 100
)

func modeInfo(m windowing.VideoMode) VideoModeInfo {
	return VideoModeInfo{
		Width:       m.Width,
		Height:      m.Height,
		RedBits:     m.RedBits,
		GreenBits:   m.GreenBits,
		BlueBits:    m.BlueBits,
		RefreshRate: m.RefreshRate,
	}
}

func rectInfo(r windowing.Rect) RectInfo {
	return RectInfo{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (s *Server) monitorAt(index int) (*windowing.Monitor, error) {
	monitors := s.state.Monitors()
	if index < 0 || index >= len(monitors) {
		return nil, fmt.Errorf("no monitor at index %d (%d connected)", index, len(monitors))
	}
	return monitors[index], nil
}

func (s *Server) window(id string) (*windowing.Window, error) {
	w, ok := s.windows[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("unknown window %q", id)
	}
	return w, nil
}

func (s *Server) windowInfo(id string, w *windowing.Window) WindowInfo {
	x, y := w.Pos()
	width, height := w.Size()
	fbw, fbh := w.FramebufferSize()
	xs, ys := w.ContentScale()
	cx, cy := w.CursorPos()
	info := WindowInfo{
		ID:          id,
		Title:       w.Title(),
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		FBWidth:     fbw,
		FBHeight:    fbh,
		ScaleX:      xs,
		ScaleY:      ys,
		Visible:     w.Visible(),
		Focused:     w.Focused(),
		Hovered:     w.Hovered(),
		Minimized:   w.Minimized(),
		Maximized:   w.Maximized(),
		Decorated:   w.Decorated(),
		Resizable:   w.Resizable(),
		Floating:    w.Floating(),
		Opacity:     w.Opacity(),
		ShouldClose: w.ShouldClose(),
		CursorMode:  w.CursorMode().String(),
		RawMouse:    w.RawMouseMotion(),
		CursorX:     cx,
		CursorY:     cy,
	}
	if m := w.Monitor(); m != nil {
		info.Monitor = m.Name()
	}
	if c := w.Cursor(); c != nil {
		if c.Custom() {
			info.CustomCursor = true
		} else {
			info.StandardShape = c.Shape().String()
		}
	}
	return info
}

func (s *Server) handleListMonitors(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	var out ListMonitorsOutput
	err := s.queue.do(ctx, func() error {
		out.Platform = s.state.Platform()
		out.Monitors = make([]MonitorInfo, 0, len(s.state.Monitors()))
		for i, m := range s.state.Monitors() {
			x, y := m.Pos()
			wmm, hmm := m.PhysicalSize()
			xs, ys := m.ContentScale()
			info := MonitorInfo{
				Index:    i,
				Name:     m.Name(),
				Primary:  i == 0,
				X:        x,
				Y:        y,
				WidthMM:  wmm,
				HeightMM: hmm,
				ScaleX:   xs,
				ScaleY:   ys,
				WorkArea: rectInfo(m.WorkArea()),
			}
			if mode, err := m.VideoMode(); err == nil {
				info.CurrentMode = modeInfo(mode)
			}
			if w := m.Window(); w != nil {
				info.Window = s.ids[w]
			}
			out.Monitors = append(out.Monitors, info)
		}
		return nil
	})
	return nil, out, err
}

func (s *Server) handleListVideoModes(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListVideoModesInput) (*mcpsdk.CallToolResult, ListVideoModesOutput, error) {
	var out ListVideoModesOutput
	err := s.queue.do(ctx, func() error {
		m, err := s.monitorAt(args.Monitor)
		if err != nil {
			return err
		}
		modes, err := m.VideoModes()
		if err != nil {
			return err
		}
		out.Monitor = m.Name()
		out.Modes = make([]VideoModeInfo, 0, len(modes))
		for _, mode := range modes {
			out.Modes = append(out.Modes, modeInfo(mode))
		}
		return nil
	})
	return nil, out, err
}

func (s *Server) handleCreateWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	var out WindowInfo
	err := s.queue.do(ctx, func() error {
		var monitor *windowing.Monitor
		if args.Monitor != nil {
			m, err := s.monitorAt(*args.Monitor)
			if err != nil {
				return err
			}
			monitor = m
		}
		title := args.Title
		if title == "" {
			title = defaultWindowTitle
		}

		saved := s.state.Hints()
		hints := saved
		override := func(dst *bool, v *bool) {
			if v != nil {
				*dst = *v
			}
		}
		override(&hints.Visible, args.Visible)
		override(&hints.Decorated, args.Decorated)
		override(&hints.Resizable, args.Resizable)
		override(&hints.Floating, args.Floating)
		override(&hints.Focused, args.Focused)
		if err := s.state.SetHints(hints); err != nil {
			return err
		}
		w, err := s.state.CreateWindow(args.Width, args.Height, title, monitor)
		if restoreErr := s.state.SetHints(saved); restoreErr != nil {
			s.logger.Warn("failed to restore window hints", "error", restoreErr)
		}
		if err != nil {
			return err
		}

		id := uuid.NewString()
		s.windows[id] = w
		s.ids[w] = id
		w.SetUserData(id)
		s.events.recordWindow(id, w)
		s.events.Add(id, "created", fmt.Sprintf("%dx%d %q", args.Width, args.Height, title))
		s.logger.Info("window created", "id", id, "title", title)
		out = s.windowInfo(id, w)
		return nil
	})
	return nil, out, err
}

func (s *Server) handleDestroyWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, DestroyWindowOutput, error) {
	out := DestroyWindowOutput{ID: args.ID}
	err := s.queue.do(ctx, func() error {
		w, err := s.window(args.ID)
		if err != nil {
			return err
		}
		s.state.DestroyWindow(w)
		delete(s.windows, args.ID)
		delete(s.ids, w)
		s.events.Add(args.ID, "destroyed", "")
		out.Destroyed = true
		return nil
	})
	return nil, out, err
}

func (s *Server) handleGetWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	var out WindowInfo
	err := s.queue.do(ctx, func() error {
		w, err := s.window(args.ID)
		if err != nil {
			return err
		}
		out = s.windowInfo(args.ID, w)
		return nil
	})
	return nil, out, err
}

func (s *Server) handleSetWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetWindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	var out WindowInfo
	err := s.queue.do(ctx, func() error {
		w, err := s.window(args.ID)
		if err != nil {
			return err
		}
		if err := applyWindowChanges(s.state, w, args); err != nil {
			return err
		}
		out = s.windowInfo(args.ID, w)
		return nil
	})
	return nil, out, err
}

func applyWindowChanges(state *windowing.State, w *windowing.Window, args SetWindowInput) error {
	if (args.Width == nil) != (args.Height == nil) {
		return fmt.Errorf("width and height must be given together")
	}
	if (args.X == nil) != (args.Y == nil) {
		return fmt.Errorf("x and y must be given together")
	}

	if args.Title != nil {
		if err := w.SetTitle(*args.Title); err != nil {
			return err
		}
	}
	if args.Width != nil {
		if err := w.SetSize(*args.Width, *args.Height); err != nil {
			return err
		}
	}
	if args.X != nil {
		if err := w.SetPos(*args.X, *args.Y); err != nil {
			return err
		}
	}

	toggles := []struct {
		value *bool
		set   func(bool) error
	}{
		{args.Decorated, w.SetDecorated},
		{args.Resizable, w.SetResizable},
		{args.Floating, w.SetFloating},
		{args.MousePassthrough, w.SetMousePassthrough},
	}
	for _, t := range toggles {
		if t.value == nil {
			continue
		}
		if err := t.set(*t.value); err != nil {
			return err
		}
	}
	if args.Opacity != nil {
		if err := w.SetOpacity(*args.Opacity); err != nil {
			return err
		}
	}
	if args.ShouldClose != nil {
		w.SetShouldClose(*args.ShouldClose)
	}

	if args.Action != "" {
		actions := map[string]func() error{
			"show":              w.Show,
			"hide":              w.Hide,
			"focus":             w.Focus,
			"maximize":          w.Maximize,
			"minimize":          w.Minimize,
			"restore":           w.Restore,
			"request_attention": w.RequestAttention,
		}
		action, ok := actions[args.Action]
		if !ok {
			return fmt.Errorf("unknown action %q", args.Action)
		}
		if err := action(); err != nil {
			return err
		}
	}

	if args.Fullscreen != nil {
		return applyFullscreen(state, w, *args.Fullscreen, args.Borderless)
	}
	return nil
}

func applyFullscreen(state *windowing.State, w *windowing.Window, index int, borderless bool) error {
	if index < 0 {
		x, y := w.Pos()
		width, height := w.Size()
		return w.SetMonitor(nil, x, y, width, height, windowing.DontCare)
	}
	monitors := state.Monitors()
	if index >= len(monitors) {
		return fmt.Errorf("no monitor at index %d (%d connected)", index, len(monitors))
	}
	m := monitors[index]
	if borderless {
		return w.SetMonitorBorderless(m)
	}
	mode, err := m.VideoMode()
	if err != nil {
		return err
	}
	return w.SetMonitor(m, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

func (s *Server) handleSetCursorMode(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetCursorModeInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	var out WindowInfo
	err := s.queue.do(ctx, func() error {
		w, err := s.window(args.ID)
		if err != nil {
			return err
		}
		if args.Shape != "" {
			if err := s.setCursorShape(w, args.Shape); err != nil {
				return err
			}
		}
		if args.Mode != "" {
			mode, err := platform.ParseCursorMode(args.Mode)
			if err != nil {
				return err
			}
			if err := w.SetCursorMode(mode); err != nil {
				return err
			}
		}
		if args.RawMotion != nil {
			if err := w.SetRawMouseMotion(*args.RawMotion); err != nil {
				return err
			}
		}
		out = s.windowInfo(args.ID, w)
		return nil
	})
	return nil, out, err
}

// setCursorShape shares one standard cursor per shape across windows.
func (s *Server) setCursorShape(w *windowing.Window, name string) error {
	if name == "default" {
		return w.SetCursor(nil)
	}
	shape, err := platform.ParseCursorShape(name)
	if err != nil {
		return err
	}
	c, ok := s.cursors[shape]
	if !ok {
		c, err = s.state.CreateStandardCursor(shape)
		if err != nil {
			return err
		}
		s.cursors[shape] = c
	}
	return w.SetCursor(c)
}

func (s *Server) handleClipboard(ctx context.Context, _ *mcpsdk.CallToolRequest, args ClipboardInput) (*mcpsdk.CallToolResult, ClipboardOutput, error) {
	var out ClipboardOutput
	err := s.queue.do(ctx, func() error {
		if args.Text != nil {
			if err := s.state.SetClipboardString(*args.Text); err != nil {
				return err
			}
			out.Text = *args.Text
			return nil
		}
		text, err := s.state.ClipboardString()
		if err != nil {
			return err
		}
		out.Text = text
		return nil
	})
	return nil, out, err
}

func (s *Server) handleVulkanInfo(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, VulkanInfoOutput, error) {
	var out VulkanInfoOutput
	err := s.queue.do(ctx, func() error {
		out.Supported = s.state.VulkanSupported()
		if !out.Supported {
			return nil
		}
		if l := s.state.VulkanLoader(); l != nil {
			out.Loader = l.Path()
			out.LoaderExtensions = len(l.Extensions())
		}
		for _, ext := range s.state.RequiredInstanceExtensions() {
			if ext != "" {
				out.InstanceExtensions = append(out.InstanceExtensions, ext)
			}
		}
		return nil
	})
	return nil, out, err
}

// handleRecentEvents reads the log directly; it never touches the state.
func (s *Server) handleRecentEvents(_ context.Context, _ *mcpsdk.CallToolRequest, args RecentEventsInput) (*mcpsdk.CallToolResult, RecentEventsOutput, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	events, next := s.events.Since(args.After, strings.TrimSpace(args.Window), limit)
	return nil, RecentEventsOutput{Events: events, Next: next}, nil
}
