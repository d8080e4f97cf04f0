package headless

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/windowkit/internal/platform"
)

// host is a minimal platform.Host that records monitor notifications.
type host struct {
	connected    []string
	disconnected []string
}

func (h *host) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (h *host) InputMonitorConnect(m platform.NativeMonitor, _ platform.Placement) {
	h.connected = append(h.connected, m.Name())
}

func (h *host) InputMonitorDisconnect(m platform.NativeMonitor) {
	h.disconnected = append(h.disconnected, m.Name())
}

func TestNewMonitorDefaults(t *testing.T) {
	m, err := newMonitor(MonitorSpec{Name: "Plain", X: 100, Width: 1024, Height: 768})
	if err != nil {
		t.Fatalf("newMonitor failed: %v", err)
	}
	if xs, _ := m.ContentScale(); xs != 1 {
		t.Fatalf("expected scale 1, got %v", xs)
	}
	if area := m.WorkArea(); area != (platform.Rect{X: 100, Width: 1024, Height: 768}) {
		t.Fatalf("unexpected work area %+v", area)
	}
	modes, _ := m.VideoModes()
	if len(modes) != 1 || modes[0].Width != 1024 || modes[0].BitsPerPixel() != 24 {
		t.Fatalf("expected a single 1024x768x24 mode, got %v", modes)
	}

	if _, err := newMonitor(MonitorSpec{Width: 1, Height: 1}); err == nil {
		t.Fatalf("expected an error for an unnamed monitor")
	}
	if _, err := newMonitor(MonitorSpec{Name: "Broken"}); err == nil {
		t.Fatalf("expected an error for a zero sized monitor")
	}
}

func TestMonitorModeSwitching(t *testing.T) {
	m, err := newMonitor(DefaultMonitor())
	if err != nil {
		t.Fatal(err)
	}
	unsupported := platform.VideoMode{Width: 1, Height: 1, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60}
	if err := m.SetVideoMode(unsupported); platform.CodeOf(err) != platform.PlatformError {
		t.Fatalf("expected platform_error for an unsupported mode, got %v", err)
	}

	target := DefaultMonitor().Modes[2]
	if err := m.SetVideoMode(target); err != nil {
		t.Fatalf("SetVideoMode failed: %v", err)
	}
	if current, _ := m.CurrentMode(); current != target {
		t.Fatalf("expected %s, got %s", target, current)
	}
	m.RestoreVideoMode()
	if current, _ := m.CurrentMode(); current.Width != 1920 {
		t.Fatalf("expected the original mode back, got %s", current)
	}
	if m.ModeSwitches() != 1 {
		t.Fatalf("expected 1 switch, got %d", m.ModeSwitches())
	}
}

func TestHotplugIsDeliveredOnPoll(t *testing.T) {
	b := New(Options{})
	h := &host{}
	if err := b.Init(h); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	m, err := b.ConnectMonitor(MonitorSpec{Name: "Extra", Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.connected) != 0 {
		t.Fatalf("connect delivered before the event pump")
	}
	b.PollEvents()
	if len(h.connected) != 1 || len(b.Monitors()) != 2 {
		t.Fatalf("expected Extra connected, got %v and %d monitors", h.connected, len(b.Monitors()))
	}

	b.DisconnectMonitor(m)
	b.PollEvents()
	if len(h.disconnected) != 1 || h.disconnected[0] != "Extra" || len(b.Monitors()) != 1 {
		t.Fatalf("expected Extra disconnected, got %v", h.disconnected)
	}
	if _, err := b.MonitorByName("Extra"); err == nil {
		t.Fatalf("disconnected monitor still found by name")
	}
}

func TestKeyNames(t *testing.T) {
	b := New(Options{})
	tests := []struct {
		key  platform.Key
		want string
	}{
		{key: platform.KeyA, want: "a"},
		{key: platform.Key5, want: "5"},
		{key: platform.KeyKP3, want: "3"},
		{key: platform.KeyBackslash, want: `\`},
		{key: platform.KeyF1, want: ""},
		{key: platform.KeyLeftShift, want: ""},
	}
	for _, tt := range tests {
		if got := b.KeyName(tt.key, 0); got != tt.want {
			t.Errorf("KeyName(%s) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if got := b.KeyScancode(platform.KeyUnknown); got != -1 {
		t.Fatalf("expected -1 for KeyUnknown, got %d", got)
	}
}

func TestStandardCursorAvailability(t *testing.T) {
	b := New(Options{MissingShapes: []platform.CursorShape{platform.CursorResizeAll}})
	if _, err := b.CreateStandardCursor(platform.CursorResizeAll); platform.CodeOf(err) != platform.CursorUnavailable {
		t.Fatalf("expected cursor_unavailable, got %v", err)
	}
	c, err := b.CreateStandardCursor(platform.CursorInput)
	if err != nil {
		t.Fatalf("CreateStandardCursor failed: %v", err)
	}
	hc := c.(*Cursor)
	if hc.Shape() != platform.CursorInput || hc.Custom() {
		t.Fatalf("unexpected cursor %+v", hc)
	}
	c.Destroy()
	if !hc.Destroyed() {
		t.Fatalf("cursor not marked destroyed")
	}
}
