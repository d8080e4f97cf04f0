package windowing

import (
	"testing"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
)

func primaryNative(t *testing.T, b *headless.Backend) *headless.Monitor {
	t.Helper()
	hm, err := b.MonitorByName("Headless-1")
	if err != nil {
		t.Fatal(err)
	}
	return hm
}

func TestFullscreenSwitchesAndRestoresVideoMode(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	hm := primaryNative(t, b)
	w, hw := newTestWindow(t, s, "game")

	if err := w.SetMonitor(m, 0, 0, 1280, 720, DontCare); err != nil {
		t.Fatalf("SetMonitor failed: %v", err)
	}
	if w.Monitor() != m || m.Window() != w {
		t.Fatalf("window and monitor do not reference each other")
	}
	if hw.FullscreenMonitor() != hm {
		t.Fatalf("native window not placed on the monitor")
	}
	mode, err := m.VideoMode()
	if err != nil {
		t.Fatal(err)
	}
	if mode.Width != 1280 || mode.Height != 720 {
		t.Fatalf("expected 1280x720, got %s", mode)
	}
	if area := hw.Area(); area.Width != 1280 || area.Height != 720 {
		t.Fatalf("expected the window to cover the mode, got %+v", area)
	}
	if !b.ScreensaverInhibited() {
		t.Fatalf("expected the screensaver inhibited while full screen")
	}

	if err := w.SetMonitor(nil, 10, 20, 640, 480, DontCare); err != nil {
		t.Fatalf("SetMonitor(nil) failed: %v", err)
	}
	if w.Monitor() != nil || m.Window() != nil {
		t.Fatalf("full screen references left behind")
	}
	if mode, _ := m.VideoMode(); mode.Width != 1920 || mode.Height != 1080 {
		t.Fatalf("expected the original mode restored, got %s", mode)
	}
	if area := hw.Area(); area != (platform.Rect{X: 10, Y: 20, Width: 640, Height: 480}) {
		t.Fatalf("expected windowed area 10,20 640x480, got %+v", area)
	}
	if b.ScreensaverInhibited() {
		t.Fatalf("screensaver still inhibited")
	}
}

func TestCreateFullscreenWindowCentersCursor(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, err := s.CreateWindow(800, 600, "full", s.PrimaryMonitor())
	if err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	hw := nativeWindow(t, w)
	if !hw.Visible() || !hw.Focused() {
		t.Fatalf("full screen window must be shown and focused")
	}
	if x, y := hw.CursorPos(); x != 400 || y != 300 {
		t.Fatalf("expected the pointer centered at 400,300, got %v,%v", x, y)
	}
}

func TestBorderlessFullscreenKeepsMode(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	hm := primaryNative(t, b)
	w, hw := newTestWindow(t, s, "borderless")

	if err := w.SetMonitorBorderless(m); err != nil {
		t.Fatalf("SetMonitorBorderless failed: %v", err)
	}
	if !w.Borderless() {
		t.Fatalf("expected a borderless window")
	}
	if hm.ModeSwitches() != 0 {
		t.Fatalf("borderless full screen switched modes %d times", hm.ModeSwitches())
	}
	if area := hw.Area(); area.Width != 1920 || area.Height != 1080 {
		t.Fatalf("expected 1920x1080, got %+v", area)
	}
	if err := w.SetMonitorBorderless(nil); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value without a monitor, got %v", err)
	}
}

func TestMonitorHasOneOccupant(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	first, _ := newTestWindow(t, s, "first")
	second, _ := newTestWindow(t, s, "second")

	if err := first.SetMonitor(m, 0, 0, 800, 600, 60); err != nil {
		t.Fatalf("SetMonitor failed: %v", err)
	}
	if err := second.SetMonitor(m, 0, 0, 800, 600, 60); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for an occupied monitor, got %v", err)
	}
	if second.Monitor() != nil || m.Window() != first {
		t.Fatalf("rejected window took the monitor")
	}
}

func TestFullscreenResizeReappliesMode(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	hm := primaryNative(t, b)
	w, _ := newTestWindow(t, s, "resize")
	w.SetMonitor(m, 0, 0, 1280, 720, DontCare)

	if err := w.SetSize(800, 600); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	if mode, _ := m.VideoMode(); mode.Width != 800 || mode.Height != 600 {
		t.Fatalf("expected 800x600 after resizing, got %s", mode)
	}
	if hm.ModeSwitches() != 2 {
		t.Fatalf("expected 2 mode switches, got %d", hm.ModeSwitches())
	}
	if err := w.SetPos(50, 50); err != nil {
		t.Fatal(err)
	}
	if x, y := w.Pos(); x != 0 || y != 0 {
		t.Fatalf("full screen window moved to %d,%d", x, y)
	}
}

func TestFailedModeSwitchKeepsFullscreen(t *testing.T) {
	spec := headless.DefaultMonitor()
	spec.FailModeSwitch = true
	s, _ := newTestState(t, headless.Options{Monitors: []headless.MonitorSpec{spec}})
	codes := recordErrors(s)
	m := s.PrimaryMonitor()
	w, hw := newTestWindow(t, s, "stubborn")

	if err := w.SetMonitor(m, 0, 0, 800, 600, DontCare); err != nil {
		t.Fatalf("SetMonitor failed: %v", err)
	}
	if w.Monitor() != m {
		t.Fatalf("window not full screen after a failed mode switch")
	}
	if area := hw.Area(); area.Width != 1920 {
		t.Fatalf("expected the window to cover the unchanged mode, got %+v", area)
	}
	if len(*codes) != 1 || (*codes)[0] != platform.PlatformError {
		t.Fatalf("expected one platform_error, got %v", *codes)
	}
}

func TestAttributesDeferredWhileFullscreen(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	w, hw := newTestWindow(t, s, "deferred")
	w.SetMonitor(m, 0, 0, 1280, 720, DontCare)

	if err := w.SetDecorated(false); err != nil {
		t.Fatal(err)
	}
	if !hw.Decorated() {
		t.Fatalf("decoration changed while full screen")
	}
	w.SetMonitor(nil, 0, 0, 800, 600, DontCare)
	if hw.Decorated() {
		t.Fatalf("stored decoration not applied on leaving full screen")
	}
}

func TestMonitorDisconnectRevertsFullscreenWindow(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	hm := primaryNative(t, b)
	w, err := s.CreateWindow(1280, 720, "full", m)
	if err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	hw := nativeWindow(t, w)
	s.PollEvents()

	var events []string
	s.SetMonitorCallback(func(got *Monitor, connected bool) {
		if got != m || connected {
			t.Errorf("unexpected monitor event %q connected=%v", got.Name(), connected)
		}
		if w.Monitor() != nil {
			t.Errorf("window still full screen when the callback ran")
		}
		events = append(events, "monitor:"+got.Name())
	})
	w.SetSizeCallback(func(_ *Window, width, height int) {
		events = append(events, "size")
	})

	b.DisconnectMonitor(hm)
	s.PollEvents()

	if len(events) < 2 || events[0] != "size" || events[len(events)-1] != "monitor:Headless-1" {
		t.Fatalf("expected a size event then the disconnect, got %v", events)
	}
	if w.Monitor() != nil || hw.FullscreenMonitor() != nil {
		t.Fatalf("window still references the disconnected monitor")
	}
	if len(s.Monitors()) != 0 || s.PrimaryMonitor() != nil {
		t.Fatalf("disconnected monitor still listed")
	}
	if _, err := m.VideoModes(); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value from a disconnected monitor, got %v", err)
	}
	if b.ScreensaverInhibited() {
		t.Fatalf("screensaver still inhibited")
	}
	if len(s.Windows()) != 1 {
		t.Fatalf("window destroyed by the disconnect")
	}
}

func TestMonitorHotplug(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	var connected []string
	s.SetMonitorCallback(func(m *Monitor, ok bool) {
		if ok {
			connected = append(connected, m.Name())
		}
	})
	if _, err := b.ConnectMonitor(headless.MonitorSpec{Name: "Side", X: 1920, Width: 1280, Height: 1024, Scale: 1.5}); err != nil {
		t.Fatal(err)
	}
	s.PollEvents()

	monitors := s.Monitors()
	if len(monitors) != 2 || monitors[0].Name() != "Headless-1" || monitors[1].Name() != "Side" {
		t.Fatalf("expected [Headless-1 Side], got %d monitors", len(monitors))
	}
	if len(connected) != 1 || connected[0] != "Side" {
		t.Fatalf("expected one connect callback for Side, got %v", connected)
	}
	side := monitors[1]
	if x, _ := side.Pos(); x != 1920 {
		t.Fatalf("expected Side at x=1920, got %d", x)
	}
	if xs, ys := side.ContentScale(); xs != 1.5 || ys != 1.5 {
		t.Fatalf("expected scale 1.5, got %v,%v", xs, ys)
	}
	if area := side.WorkArea(); area != (Rect{X: 1920, Width: 1280, Height: 1024}) {
		t.Fatalf("expected the work area to default to the monitor, got %+v", area)
	}
}

func TestMonitorProperties(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	if m == nil {
		t.Fatalf("expected a primary monitor")
	}
	if w, h := m.PhysicalSize(); w != 527 || h != 296 {
		t.Fatalf("expected 527x296mm, got %dx%d", w, h)
	}
	m.SetUserData(42)
	if m.UserData() != 42 {
		t.Fatalf("expected user data 42, got %v", m.UserData())
	}
}
