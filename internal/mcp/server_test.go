package mcp

import (
	"context"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/windowing"
)

func newTestServer(t *testing.T, opts headless.Options) (*Server, *headless.Backend) {
	t.Helper()
	backend := headless.New(opts)
	state := windowing.New(windowing.Options{Backend: backend})
	if err := state.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(state.Shutdown)
	s, err := NewServer(state, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s, backend
}

// call runs a handler on another goroutine, the way the SDK does, while the
// test goroutine pumps the event loop.
func call[T any](t *testing.T, s *Server, fn func(ctx context.Context) (T, error)) (T, error) {
	t.Helper()
	var (
		out T
		err error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		out, err = fn(context.Background())
	}()
	deadline := time.Now().Add(5 * time.Second)
	for {
		select {
		case <-done:
			return out, err
		default:
		}
		if time.Now().After(deadline) {
			t.Fatalf("handler did not complete")
		}
		s.Pump(10 * time.Millisecond)
	}
}

func createWindow(t *testing.T, s *Server, args CreateWindowInput) WindowInfo {
	t.Helper()
	info, err := call(t, s, func(ctx context.Context) (WindowInfo, error) {
		_, out, err := s.handleCreateWindow(ctx, nil, args)
		return out, err
	})
	if err != nil {
		t.Fatalf("create_window failed: %v", err)
	}
	return info
}

func TestNewServerRequiresInitializedState(t *testing.T) {
	state := windowing.New(windowing.Options{Backend: headless.New(headless.Options{})})
	if _, err := NewServer(state, nil); err == nil {
		t.Fatalf("expected an error for an uninitialized state")
	}
}

func TestListMonitorsAndModes(t *testing.T) {
	s, _ := newTestServer(t, headless.Options{})

	monitors, err := call(t, s, func(ctx context.Context) (ListMonitorsOutput, error) {
		_, out, err := s.handleListMonitors(ctx, nil, EmptyInput{})
		return out, err
	})
	if err != nil {
		t.Fatalf("list_monitors failed: %v", err)
	}
	if monitors.Platform != "headless" || len(monitors.Monitors) != 1 {
		t.Fatalf("unexpected monitors %+v", monitors)
	}
	primary := monitors.Monitors[0]
	if !primary.Primary || primary.Name != "Headless-1" || primary.CurrentMode.Width != 1920 {
		t.Fatalf("unexpected primary monitor %+v", primary)
	}

	modes, err := call(t, s, func(ctx context.Context) (ListVideoModesOutput, error) {
		_, out, err := s.handleListVideoModes(ctx, nil, ListVideoModesInput{})
		return out, err
	})
	if err != nil {
		t.Fatalf("list_video_modes failed: %v", err)
	}
	if len(modes.Modes) != 3 || modes.Modes[0].Width != 800 || modes.Modes[2].Width != 1920 {
		t.Fatalf("expected 3 ascending modes, got %+v", modes.Modes)
	}

	_, err = call(t, s, func(ctx context.Context) (ListVideoModesOutput, error) {
		_, out, err := s.handleListVideoModes(ctx, nil, ListVideoModesInput{Monitor: 3})
		return out, err
	})
	if err == nil {
		t.Fatalf("expected an error for a missing monitor")
	}
}

func TestCreateWindowAppliesHintOverrides(t *testing.T) {
	s, _ := newTestServer(t, headless.Options{})
	hidden := false
	info := createWindow(t, s, CreateWindowInput{Width: 640, Height: 480, Visible: &hidden})

	if info.ID == "" || info.Title != defaultWindowTitle {
		t.Fatalf("unexpected window %+v", info)
	}
	if info.Visible || info.Width != 640 || info.Height != 480 {
		t.Fatalf("hint override not applied: %+v", info)
	}
	if !s.state.Hints().Visible {
		t.Fatalf("state hints not restored after creation")
	}

	_, err := call(t, s, func(ctx context.Context) (WindowInfo, error) {
		_, out, err := s.handleCreateWindow(ctx, nil, CreateWindowInput{Width: 0, Height: 480})
		return out, err
	})
	if err == nil {
		t.Fatalf("expected an error for a zero width")
	}
}

func TestSetWindowChangesAndFullscreen(t *testing.T) {
	s, b := newTestServer(t, headless.Options{})
	info := createWindow(t, s, CreateWindowInput{Width: 800, Height: 600, Title: "tool"})

	title := "renamed"
	width, height := 1024, 768
	undecorated := false
	opacity := float32(0.5)
	primary := 0
	got, err := call(t, s, func(ctx context.Context) (WindowInfo, error) {
		_, out, err := s.handleSetWindow(ctx, nil, SetWindowInput{
			ID:         info.ID,
			Title:      &title,
			Width:      &width,
			Height:     &height,
			Decorated:  &undecorated,
			Opacity:    &opacity,
			Fullscreen: &primary,
		})
		return out, err
	})
	if err != nil {
		t.Fatalf("set_window failed: %v", err)
	}
	if got.Title != "renamed" || got.Opacity != 0.5 || got.Monitor != "Headless-1" {
		t.Fatalf("changes not applied: %+v", got)
	}
	if !b.ScreensaverInhibited() {
		t.Fatalf("expected the screensaver inhibited while full screen")
	}

	windowed := -1
	got, err = call(t, s, func(ctx context.Context) (WindowInfo, error) {
		_, out, err := s.handleSetWindow(ctx, nil, SetWindowInput{ID: info.ID, Fullscreen: &windowed})
		return out, err
	})
	if err != nil {
		t.Fatalf("set_window windowed failed: %v", err)
	}
	if got.Monitor != "" || got.Decorated {
		t.Fatalf("expected an undecorated windowed window, got %+v", got)
	}

	tests := []struct {
		name string
		args SetWindowInput
	}{
		{name: "width alone", args: SetWindowInput{ID: info.ID, Width: &width}},
		{name: "unknown action", args: SetWindowInput{ID: info.ID, Action: "shake"}},
		{name: "unknown window", args: SetWindowInput{ID: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, s, func(ctx context.Context) (WindowInfo, error) {
				_, out, err := s.handleSetWindow(ctx, nil, tt.args)
				return out, err
			})
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestSetCursorModeSharesStandardCursors(t *testing.T) {
	s, _ := newTestServer(t, headless.Options{RawMouseMotion: true})
	first := createWindow(t, s, CreateWindowInput{Width: 300, Height: 200})
	second := createWindow(t, s, CreateWindowInput{Width: 300, Height: 200})

	raw := true
	for _, id := range []string{first.ID, second.ID} {
		got, err := call(t, s, func(ctx context.Context) (WindowInfo, error) {
			_, out, err := s.handleSetCursorMode(ctx, nil, SetCursorModeInput{ID: id, Shape: "crosshair", Mode: "hidden", RawMotion: &raw})
			return out, err
		})
		if err != nil {
			t.Fatalf("set_cursor_mode failed: %v", err)
		}
		if got.StandardShape != "crosshair" || got.CursorMode != "hidden" || !got.RawMouse {
			t.Fatalf("unexpected cursor state %+v", got)
		}
	}
	if len(s.cursors) != 1 {
		t.Fatalf("expected one shared cursor, got %d", len(s.cursors))
	}

	_, err := call(t, s, func(ctx context.Context) (WindowInfo, error) {
		_, out, err := s.handleSetCursorMode(ctx, nil, SetCursorModeInput{ID: first.ID, Mode: "locked"})
		return out, err
	})
	if err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}

func TestDestroyWindowAndEvents(t *testing.T) {
	s, _ := newTestServer(t, headless.Options{})
	info := createWindow(t, s, CreateWindowInput{Width: 320, Height: 240})
	hw := s.windows[info.ID].Native().(*headless.Window)

	hw.RequestClose()
	s.Pump(0)

	_, out, err := s.handleRecentEvents(context.Background(), nil, RecentEventsInput{Window: info.ID})
	if err != nil {
		t.Fatalf("recent_events failed: %v", err)
	}
	var sawClose bool
	for _, e := range out.Events {
		if e.Kind == "close" {
			sawClose = true
		}
	}
	if !sawClose {
		t.Fatalf("expected a close event, got %+v", out.Events)
	}

	destroyed, err := call(t, s, func(ctx context.Context) (DestroyWindowOutput, error) {
		_, out, err := s.handleDestroyWindow(ctx, nil, WindowInput{ID: info.ID})
		return out, err
	})
	if err != nil || !destroyed.Destroyed {
		t.Fatalf("destroy_window failed: %+v %v", destroyed, err)
	}
	if len(s.state.Windows()) != 0 || len(s.windows) != 0 {
		t.Fatalf("window still tracked after destroy")
	}

	_, later, _ := s.handleRecentEvents(context.Background(), nil, RecentEventsInput{After: out.Next})
	if len(later.Events) == 0 || later.Events[len(later.Events)-1].Kind != "destroyed" {
		t.Fatalf("expected the destroy event last after %d, got %+v", out.Next, later.Events)
	}
	for _, e := range later.Events {
		if e.Seq <= out.Next {
			t.Fatalf("event %d returned again after %d", e.Seq, out.Next)
		}
	}
}

func TestClipboardAndVulkanInfo(t *testing.T) {
	s, _ := newTestServer(t, headless.Options{})
	text := "hello"
	if _, err := call(t, s, func(ctx context.Context) (ClipboardOutput, error) {
		_, out, err := s.handleClipboard(ctx, nil, ClipboardInput{Text: &text})
		return out, err
	}); err != nil {
		t.Fatalf("clipboard write failed: %v", err)
	}
	got, err := call(t, s, func(ctx context.Context) (ClipboardOutput, error) {
		_, out, err := s.handleClipboard(ctx, nil, ClipboardInput{})
		return out, err
	})
	if err != nil || got.Text != "hello" {
		t.Fatalf("expected hello back, got %q (%v)", got.Text, err)
	}

	info, err := call(t, s, func(ctx context.Context) (VulkanInfoOutput, error) {
		_, out, err := s.handleVulkanInfo(ctx, nil, EmptyInput{})
		return out, err
	})
	if err != nil {
		t.Fatalf("vulkan_info failed: %v", err)
	}
	if !info.Supported && len(info.InstanceExtensions) != 0 {
		t.Fatalf("extensions reported without Vulkan support: %+v", info)
	}
}

func TestServeOverInMemoryTransport(t *testing.T) {
	s, _ := newTestServer(t, headless.Options{})
	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type result struct {
		res *mcpsdk.CallToolResult
		err error
	}
	results := make(chan result, 1)
	go func() {
		client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
		session, err := client.Connect(ctx, clientTransport, nil)
		if err != nil {
			results <- result{err: err}
			cancel()
			return
		}
		res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      "list_monitors",
			Arguments: map[string]any{},
		})
		results <- result{res: res, err: err}
		session.Close()
		cancel()
	}()

	if err := s.Serve(ctx, serverTransport); err != nil {
		t.Logf("serve returned: %v", err)
	}

	r := <-results
	if r.err != nil {
		t.Fatalf("call failed: %v", r.err)
	}
	if r.res.IsError {
		t.Fatalf("tool reported an error: %+v", r.res.Content)
	}
	data, ok := r.res.StructuredContent.(map[string]any)
	if !ok || data["platform"] != "headless" {
		t.Fatalf("unexpected structured content %#v", r.res.StructuredContent)
	}
}
