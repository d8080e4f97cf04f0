package windowing

import (
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
)

// newTestState initializes a State on a headless backend and shuts it down
// when the test ends.
func newTestState(t *testing.T, opts headless.Options) (*State, *headless.Backend) {
	t.Helper()
	b := headless.New(opts)
	s := New(Options{Backend: b})
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(s.Shutdown)
	return s, b
}

// newTestWindow creates a visible, focused window and pumps the resulting
// focus event.
func newTestWindow(t *testing.T, s *State, title string) (*Window, *headless.Window) {
	t.Helper()
	w, err := s.CreateWindow(800, 600, title, nil)
	if err != nil {
		t.Fatalf("CreateWindow(%q) failed: %v", title, err)
	}
	if err := s.PollEvents(); err != nil {
		t.Fatalf("PollEvents failed: %v", err)
	}
	return w, nativeWindow(t, w)
}

func nativeWindow(t *testing.T, w *Window) *headless.Window {
	t.Helper()
	hw, ok := w.Native().(*headless.Window)
	if !ok {
		t.Fatalf("expected a headless native window, got %T", w.Native())
	}
	return hw
}

// recordErrors collects every error passed to the error callback.
func recordErrors(s *State) *[]ErrorCode {
	var codes []ErrorCode
	s.SetErrorCallback(func(err *Error) {
		codes = append(codes, err.Code)
	})
	return &codes
}

func TestOperationsBeforeInitReportNotInitialized(t *testing.T) {
	s := New(Options{Backend: headless.New(headless.Options{})})
	codes := recordErrors(s)

	if err := s.PollEvents(); platform.CodeOf(err) != platform.NotInitialized {
		t.Fatalf("expected not_initialized from PollEvents, got %v", err)
	}
	if _, err := s.CreateWindow(640, 480, "early", nil); platform.CodeOf(err) != platform.NotInitialized {
		t.Fatalf("expected not_initialized from CreateWindow, got %v", err)
	}
	if got := s.Monitors(); got != nil {
		t.Fatalf("expected no monitors before Init, got %d", len(got))
	}
	if len(*codes) != 3 {
		t.Fatalf("expected 3 reported errors, got %v", *codes)
	}
	for _, code := range *codes {
		if code != platform.NotInitialized {
			t.Fatalf("expected only not_initialized, got %v", *codes)
		}
	}
}

func TestErrorsMatchByCode(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	err := s.WaitEventsTimeout(-time.Second)
	if !errors.Is(err, &platform.Error{Code: platform.InvalidValue}) {
		t.Fatalf("expected invalid_value, got %v", err)
	}
	if errors.Is(err, &platform.Error{Code: platform.InvalidEnum}) {
		t.Fatalf("invalid_value error must not match invalid_enum")
	}
}

func TestErrorCallbackReplacement(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	first := recordErrors(s)
	prev := s.SetErrorCallback(nil)
	if prev == nil {
		t.Fatalf("expected the previous callback to be returned")
	}
	s.WindowHint(Hint(99), true)
	if len(*first) != 0 {
		t.Fatalf("removed callback still received %v", *first)
	}
}

func TestInitIsIdempotentAndShutdownReinitializes(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	if err := s.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if got := len(s.Monitors()); got != 1 {
		t.Fatalf("expected 1 monitor after repeated Init, got %d", got)
	}
	if s.Platform() != "headless" {
		t.Fatalf("expected platform headless, got %q", s.Platform())
	}

	w, hw := newTestWindow(t, s, "survivor")
	s.Shutdown()
	if !hw.Destroyed() {
		t.Fatalf("Shutdown must destroy native windows")
	}
	if w.Native() != nil {
		t.Fatalf("window still has a native handle after Shutdown")
	}
	if s.Initialized() {
		t.Fatalf("state still initialized after Shutdown")
	}
	s.Shutdown()

	if err := s.Init(); err != nil {
		t.Fatalf("Init after Shutdown failed: %v", err)
	}
	if len(s.Windows()) != 0 {
		t.Fatalf("expected no windows after reinit, got %d", len(s.Windows()))
	}
	if len(b.Windows()) != 0 {
		t.Fatalf("backend still tracks %d windows", len(b.Windows()))
	}
}

func TestShutdownRestoresVideoModes(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	if _, err := s.CreateWindow(800, 600, "full", s.PrimaryMonitor()); err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	hm, err := b.MonitorByName("Headless-1")
	if err != nil {
		t.Fatal(err)
	}
	if mode, _ := hm.CurrentMode(); mode.Width != 800 {
		t.Fatalf("expected an 800 wide mode while full screen, got %s", mode)
	}
	s.Shutdown()
	if mode, _ := hm.CurrentMode(); mode.Width != 1920 || mode.Height != 1080 {
		t.Fatalf("expected 1920x1080 after Shutdown, got %s", mode)
	}
	if b.ScreensaverInhibited() {
		t.Fatalf("screensaver still inhibited after Shutdown")
	}
}

func TestWaitEventsTimeout(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	start := time.Now()
	if err := s.WaitEventsTimeout(20 * time.Millisecond); err != nil {
		t.Fatalf("WaitEventsTimeout failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Fatalf("expected to wait about 20ms, returned after %s", elapsed)
	}
}

func TestPostEmptyEventWakesWaitEvents(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.PostEmptyEvent()
	}()
	if err := s.WaitEvents(); err != nil {
		t.Fatalf("WaitEvents failed: %v", err)
	}
}

func TestWaitEventsDeliversInjectedInput(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "wait")

	var got []rune
	w.SetCharCallback(func(_ *Window, r rune) { got = append(got, r) })
	go hw.Char('x')

	if err := s.WaitEventsTimeout(time.Second); err != nil {
		t.Fatalf("WaitEventsTimeout failed: %v", err)
	}
	if len(got) != 1 || got[0] != 'x' {
		t.Fatalf("expected char x, got %q", got)
	}
}

func TestClipboard(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	if _, err := s.ClipboardString(); platform.CodeOf(err) != platform.FormatUnavailable {
		t.Fatalf("expected format_unavailable from empty clipboard, got %v", err)
	}
	if err := s.SetClipboardString("héllo"); err != nil {
		t.Fatalf("SetClipboardString failed: %v", err)
	}
	text, err := s.ClipboardString()
	if err != nil {
		t.Fatalf("ClipboardString failed: %v", err)
	}
	if text != "héllo" {
		t.Fatalf("expected héllo, got %q", text)
	}
}

func TestKeyNameAndScancode(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	codes := recordErrors(s)

	tests := []struct {
		name     string
		key      Key
		scancode int
		want     string
	}{
		{name: "letter", key: platform.KeyA, want: "a"},
		{name: "punctuation", key: platform.KeySlash, want: "/"},
		{name: "keypad digit", key: platform.KeyKP7, want: "7"},
		{name: "non printable", key: platform.KeyEscape, want: ""},
		{name: "by scancode", key: platform.KeyUnknown, scancode: int(platform.KeyQ), want: "q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.KeyName(tt.key, tt.scancode); got != tt.want {
				t.Fatalf("KeyName = %q, want %q", got, tt.want)
			}
		})
	}

	if got := s.KeyScancode(platform.KeyA); got != int(platform.KeyA) {
		t.Fatalf("expected scancode %d, got %d", int(platform.KeyA), got)
	}
	if got := s.KeyScancode(Key(10000)); got != -1 {
		t.Fatalf("expected -1 for an invalid key, got %d", got)
	}
	if len(*codes) != 1 || (*codes)[0] != platform.InvalidEnum {
		t.Fatalf("expected one invalid_enum, got %v", *codes)
	}
}

func TestRawMouseMotionSupported(t *testing.T) {
	s, _ := newTestState(t, headless.Options{RawMouseMotion: true})
	if !s.RawMouseMotionSupported() {
		t.Fatalf("expected raw motion support")
	}
	plain, _ := newTestState(t, headless.Options{})
	if plain.RawMouseMotionSupported() {
		t.Fatalf("expected no raw motion support")
	}
}
