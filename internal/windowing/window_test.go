package windowing

import (
	"image"
	"testing"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
)

func TestCreateWindowReportsRequestedSize(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	w, err := s.CreateWindow(800, 600, "Test", nil)
	if err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	if w == nil {
		t.Fatalf("expected a window")
	}
	if width, height := w.Size(); width != 800 || height != 600 {
		t.Fatalf("expected 800x600, got %dx%d", width, height)
	}
	if !w.Visible() || !w.Focused() {
		t.Fatalf("expected a visible focused window")
	}
	if b.FocusedWindow() != nativeWindow(t, w) {
		t.Fatalf("backend focus is not on the new window")
	}
	if w.Title() != "Test" {
		t.Fatalf("expected title Test, got %q", w.Title())
	}
}

func TestCreateWindowRejectsInvalidArguments(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	tests := []struct {
		name          string
		width, height int
		title         string
	}{
		{name: "zero width", width: 0, height: 600, title: "x"},
		{name: "negative height", width: 800, height: -1, title: "x"},
		{name: "empty title", width: 800, height: 600, title: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := s.CreateWindow(tt.width, tt.height, tt.title, nil)
			if w != nil {
				t.Fatalf("expected no window")
			}
			if platform.CodeOf(err) != platform.InvalidValue {
				t.Fatalf("expected invalid_value, got %v", err)
			}
		})
	}
	if len(b.Windows()) != 0 || len(s.Windows()) != 0 {
		t.Fatalf("rejected windows left records behind")
	}
}

func TestWindowsAreListedNewestFirst(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	first, _ := newTestWindow(t, s, "first")
	second, _ := newTestWindow(t, s, "second")
	got := s.Windows()
	if len(got) != 2 || got[0] != second || got[1] != first {
		t.Fatalf("expected [second first], got %v", got)
	}
}

func TestHintsApplyToNextWindow(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	if err := s.WindowHint(HintVisible, false); err != nil {
		t.Fatalf("WindowHint failed: %v", err)
	}
	if err := s.WindowHint(HintDecorated, false); err != nil {
		t.Fatalf("WindowHint failed: %v", err)
	}
	w, err := s.CreateWindow(320, 240, "hidden", nil)
	if err != nil {
		t.Fatalf("CreateWindow failed: %v", err)
	}
	hw := nativeWindow(t, w)
	if hw.Visible() || hw.Focused() {
		t.Fatalf("hidden window must not be shown or focused")
	}
	if w.Decorated() || hw.Decorated() {
		t.Fatalf("expected an undecorated window")
	}
	if left, top, right, bottom := w.FrameSize(); left+top+right+bottom != 0 {
		t.Fatalf("undecorated window has a frame %d %d %d %d", left, top, right, bottom)
	}

	s.DefaultWindowHints()
	if h := s.Hints(); !h.Visible || !h.Decorated {
		t.Fatalf("DefaultWindowHints did not reset hints: %+v", h)
	}
}

func TestWindowHintValidation(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	if err := s.WindowHint(Hint(42), true); platform.CodeOf(err) != platform.InvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
	h := DefaultHints()
	h.RefreshRate = 0
	if err := s.SetHints(h); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for refresh rate 0, got %v", err)
	}
	h = DefaultHints()
	h.RedBits = -5
	if err := s.SetHints(h); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for negative depth, got %v", err)
	}
	if s.Hints() != DefaultHints() {
		t.Fatalf("rejected hints must not be stored")
	}
}

func TestShouldCloseIsSticky(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "close")

	for range 3 {
		w.SetShouldClose(true)
	}
	if !w.ShouldClose() {
		t.Fatalf("expected the close flag to be set")
	}
	if len(s.Windows()) != 1 || hw.Destroyed() {
		t.Fatalf("setting the close flag must not destroy the window")
	}

	w.SetShouldClose(false)
	closes := 0
	w.SetCloseCallback(func(*Window) { closes++ })
	hw.RequestClose()
	hw.RequestClose()
	s.PollEvents()
	if !w.ShouldClose() || closes != 2 {
		t.Fatalf("expected close flag and 2 callbacks, got %v and %d", w.ShouldClose(), closes)
	}
	if len(s.Windows()) != 1 {
		t.Fatalf("close request destroyed the window")
	}
}

func TestDestroyWindow(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	s.DestroyWindow(nil)

	w, hw := newTestWindow(t, s, "doomed")
	calls := 0
	w.SetKeyCallback(func(*Window, Key, KeyState) { calls++ })
	w.SetCharCallback(func(*Window, rune) { calls++ })
	hw.Key(platform.KeyA, int(platform.KeyA), platform.Pressed)
	hw.Char('a')

	s.DestroyWindow(w)
	s.PollEvents()
	if calls != 0 {
		t.Fatalf("expected no callbacks after destroy, got %d", calls)
	}
	if !hw.Destroyed() {
		t.Fatalf("native window not destroyed")
	}
	if len(s.Windows()) != 0 {
		t.Fatalf("destroyed window still listed")
	}

	codes := recordErrors(s)
	if err := w.SetTitle("again"); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value on a destroyed window, got %v", err)
	}
	if width, height := w.Size(); width != 0 || height != 0 {
		t.Fatalf("destroyed window reports size %dx%d", width, height)
	}
	if len(*codes) != 2 {
		t.Fatalf("expected 2 reported errors, got %v", *codes)
	}
	s.DestroyWindow(w)
}

func TestSizeLimitsRejectMaxBelowMin(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "limits")
	codes := recordErrors(s)

	err := w.SetSizeLimits(100, 100, 50, 50)
	if platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value, got %v", err)
	}
	if len(*codes) != 1 || (*codes)[0] != platform.InvalidValue {
		t.Fatalf("expected one invalid_value through the callback, got %v", *codes)
	}
	minW, minH, maxW, maxH := w.SizeLimits()
	if minW != DontCare || minH != DontCare || maxW != DontCare || maxH != DontCare {
		t.Fatalf("limits changed by a rejected call: %d %d %d %d", minW, minH, maxW, maxH)
	}

	if err := w.SetSizeLimits(200, 150, 400, 300); err != nil {
		t.Fatalf("SetSizeLimits failed: %v", err)
	}
	if width, height := w.Size(); width != 400 || height != 300 {
		t.Fatalf("expected the window clamped to 400x300, got %dx%d", width, height)
	}
	if _, _, maxW, _ := hw.SizeLimits(); maxW != 400 {
		t.Fatalf("limits not forwarded to the backend, max width %d", maxW)
	}
}

func TestSizeLimitsStoredButNotAppliedWhenFixedSize(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	if err := s.WindowHint(HintResizable, false); err != nil {
		t.Fatal(err)
	}
	w, hw := newTestWindow(t, s, "fixed")
	if err := w.SetSizeLimits(100, 100, 200, 200); err != nil {
		t.Fatalf("SetSizeLimits failed: %v", err)
	}
	if minW, _, _, _ := w.SizeLimits(); minW != 100 {
		t.Fatalf("limits not stored, min width %d", minW)
	}
	if minW, _, _, _ := hw.SizeLimits(); minW != DontCare {
		t.Fatalf("limits applied to a non-resizable window")
	}
}

func TestAspectRatioValidation(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, _ := newTestWindow(t, s, "aspect")
	tests := []struct {
		name         string
		numer, denom int
		wantCode     platform.ErrorCode
	}{
		{name: "one dont care", numer: 16, denom: DontCare, wantCode: platform.InvalidValue},
		{name: "zero", numer: 0, denom: 9, wantCode: platform.InvalidValue},
		{name: "valid", numer: 16, denom: 9, wantCode: platform.NoError},
		{name: "cleared", numer: DontCare, denom: DontCare, wantCode: platform.NoError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := platform.CodeOf(w.SetAspectRatio(tt.numer, tt.denom)); got != tt.wantCode {
				t.Fatalf("SetAspectRatio(%d, %d) = %v, want %v", tt.numer, tt.denom, got, tt.wantCode)
			}
		})
	}
}

func TestSizeAndFramebufferCallbacks(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "resize")

	var sizes, framebuffers [][2]int
	var scales []float32
	w.SetSizeCallback(func(_ *Window, width, height int) { sizes = append(sizes, [2]int{width, height}) })
	w.SetFramebufferSizeCallback(func(_ *Window, width, height int) {
		framebuffers = append(framebuffers, [2]int{width, height})
	})
	w.SetContentScaleCallback(func(_ *Window, x, _ float32) { scales = append(scales, x) })

	hw.UserResize(1024, 768)
	s.PollEvents()
	hw.SetScale(2)
	s.PollEvents()

	if len(sizes) != 1 || sizes[0] != [2]int{1024, 768} {
		t.Fatalf("expected one 1024x768 size event, got %v", sizes)
	}
	if len(framebuffers) != 2 || framebuffers[1] != [2]int{2048, 1536} {
		t.Fatalf("expected framebuffer 2048x1536 after scaling, got %v", framebuffers)
	}
	if len(scales) != 1 || scales[0] != 2 {
		t.Fatalf("expected content scale 2, got %v", scales)
	}
	if x, _ := w.ContentScale(); x != 2 {
		t.Fatalf("expected ContentScale 2, got %v", x)
	}
}

func TestWindowStateCallbacks(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, _ := newTestWindow(t, s, "states")

	var events []string
	w.SetMinimizeCallback(func(_ *Window, v bool) {
		if v {
			events = append(events, "minimized")
		} else {
			events = append(events, "unminimized")
		}
	})
	w.SetMaximizeCallback(func(_ *Window, v bool) {
		if v {
			events = append(events, "maximized")
		} else {
			events = append(events, "unmaximized")
		}
	})

	w.Maximize()
	s.PollEvents()
	w.Restore()
	s.PollEvents()
	w.Minimize()
	s.PollEvents()
	if !w.Minimized() {
		t.Fatalf("expected a minimized window")
	}
	w.Restore()
	s.PollEvents()

	want := []string{"maximized", "unmaximized", "minimized", "unminimized"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, events)
		}
	}
}

func TestAttributesAndOpacity(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "attrs")

	if err := w.SetFloating(true); err != nil {
		t.Fatal(err)
	}
	if err := w.SetResizable(false); err != nil {
		t.Fatal(err)
	}
	if err := w.SetMousePassthrough(true); err != nil {
		t.Fatal(err)
	}
	if !hw.Floating() || hw.Resizable() || !hw.Passthrough() {
		t.Fatalf("attributes not forwarded: floating=%v resizable=%v passthrough=%v",
			hw.Floating(), hw.Resizable(), hw.Passthrough())
	}

	if err := w.SetOpacity(1.5); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for opacity 1.5, got %v", err)
	}
	if err := w.SetOpacity(0.25); err != nil {
		t.Fatalf("SetOpacity failed: %v", err)
	}
	if got := w.Opacity(); got != 0.25 {
		t.Fatalf("expected opacity 0.25, got %v", got)
	}

	if err := w.RequestAttention(); err != nil || !hw.AttentionRequested() {
		t.Fatalf("RequestAttention not forwarded: %v", err)
	}
}

func TestSetIcon(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "icon")
	small := image.NewRGBA(image.Rect(0, 0, 16, 16))
	large := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if err := w.SetIcon(small, large); err != nil {
		t.Fatalf("SetIcon failed: %v", err)
	}
	if hw.Icons() != 2 {
		t.Fatalf("expected 2 icon candidates, got %d", hw.Icons())
	}
	if err := w.SetIcon(image.NewRGBA(image.Rectangle{})); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for an empty icon, got %v", err)
	}
	if err := w.SetIcon(); err != nil || hw.Icons() != 0 {
		t.Fatalf("expected the default icon to be restored, got %d icons, err %v", hw.Icons(), err)
	}
}

func TestUserData(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, _ := newTestWindow(t, s, "data")
	w.SetUserData("payload")
	if w.UserData() != "payload" {
		t.Fatalf("expected payload, got %v", w.UserData())
	}
	var nilWindow *Window
	if nilWindow.UserData() != nil || nilWindow.ShouldClose() {
		t.Fatalf("nil window accessors must be safe")
	}
}
