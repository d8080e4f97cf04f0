package windowing

import (
	"image"
	"testing"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
)

// hover moves the pointer into the window so it owns the cursor image.
func hover(t *testing.T, s *State, hw *headless.Window) {
	t.Helper()
	hw.Enter(true)
	if err := s.PollEvents(); err != nil {
		t.Fatalf("PollEvents failed: %v", err)
	}
}

func TestDestroyCursorResetsWindowCursor(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "cursor")
	hover(t, s, hw)

	cursor, err := s.CreateStandardCursor(platform.CursorArrow)
	if err != nil {
		t.Fatalf("CreateStandardCursor failed: %v", err)
	}
	if err := w.SetCursor(cursor); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}
	native := cursor.Native().(*headless.Cursor)
	if hw.AppliedCursor() != native {
		t.Fatalf("cursor image not applied to the hovered window")
	}

	s.DestroyCursor(cursor)
	if w.Cursor() != nil {
		t.Fatalf("window still references the destroyed cursor")
	}
	if hw.AppliedCursor() != nil {
		t.Fatalf("expected the default cursor image, got %+v", hw.AppliedCursor())
	}
	if !native.Destroyed() {
		t.Fatalf("native cursor not destroyed")
	}
	if err := w.SetCursor(cursor); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for a destroyed cursor, got %v", err)
	}
	s.DestroyCursor(nil)
}

func TestCreateStandardCursorErrors(t *testing.T) {
	s, _ := newTestState(t, headless.Options{
		MissingShapes: []platform.CursorShape{platform.CursorNotAllowed},
	})
	if _, err := s.CreateStandardCursor(platform.CursorNotAllowed); platform.CodeOf(err) != platform.CursorUnavailable {
		t.Fatalf("expected cursor_unavailable, got %v", err)
	}
	if _, err := s.CreateStandardCursor(CursorShape(77)); platform.CodeOf(err) != platform.InvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
}

func TestCreateCustomCursor(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	if _, err := s.CreateCursor(image.NewRGBA(image.Rectangle{}), 0, 0); platform.CodeOf(err) != platform.InvalidValue {
		t.Fatalf("expected invalid_value for an empty image, got %v", err)
	}
	c, err := s.CreateCursor(image.NewRGBA(image.Rect(0, 0, 16, 16)), 8, 8)
	if err != nil {
		t.Fatalf("CreateCursor failed: %v", err)
	}
	if !c.Custom() {
		t.Fatalf("expected a custom cursor")
	}
	native := c.Native().(*headless.Cursor)
	s.Shutdown()
	if !native.Destroyed() {
		t.Fatalf("Shutdown must destroy remaining cursors")
	}
}

func TestDisabledCursorRoundTripRestoresPosition(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "fps")
	if err := w.SetCursorPos(100, 50); err != nil {
		t.Fatal(err)
	}

	if err := w.SetCursorMode(platform.CursorDisabled); err != nil {
		t.Fatalf("SetCursorMode(disabled) failed: %v", err)
	}
	if hw.Capture() != platform.CursorDisabled {
		t.Fatalf("expected the native cursor locked, got %v", hw.Capture())
	}
	if x, y := hw.CursorPos(); x != 400 || y != 300 {
		t.Fatalf("expected the pointer centered at 400,300, got %v,%v", x, y)
	}
	if x, y := w.CursorPos(); x != 100 || y != 50 {
		t.Fatalf("expected virtual position 100,50, got %v,%v", x, y)
	}

	var moves [][2]float64
	w.SetCursorPosCallback(func(_ *Window, x, y float64) { moves = append(moves, [2]float64{x, y}) })
	hw.MoveCursor(410, 295)
	s.PollEvents()
	if len(moves) != 1 || moves[0] != [2]float64{110, 45} {
		t.Fatalf("expected relative motion to 110,45, got %v", moves)
	}

	if err := w.SetCursorMode(platform.CursorNormal); err != nil {
		t.Fatalf("SetCursorMode(normal) failed: %v", err)
	}
	if hw.Capture() != platform.CursorNormal {
		t.Fatalf("expected the native cursor released, got %v", hw.Capture())
	}
	if x, y := hw.CursorPos(); x != 100 || y != 50 {
		t.Fatalf("expected the pointer restored to 100,50, got %v,%v", x, y)
	}
}

func TestSetCursorPosWhileDisabledMovesVirtualCursor(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "virtual")
	w.SetCursorMode(platform.CursorDisabled)
	if err := w.SetCursorPos(-5000, 12000); err != nil {
		t.Fatal(err)
	}
	if x, y := w.CursorPos(); x != -5000 || y != 12000 {
		t.Fatalf("expected unbounded virtual position, got %v,%v", x, y)
	}
	if x, y := hw.CursorPos(); x != 400 || y != 300 {
		t.Fatalf("native pointer moved to %v,%v", x, y)
	}
}

func TestSetCursorPosIgnoredWithoutFocus(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "unfocused")
	hw.Blur()
	s.PollEvents()
	if err := w.SetCursorPos(10, 10); err != nil {
		t.Fatal(err)
	}
	if x, y := hw.CursorPos(); x != 0 || y != 0 {
		t.Fatalf("unfocused window warped the pointer to %v,%v", x, y)
	}
}

func TestCursorModeFollowsFocus(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "focus")
	w.SetCursorMode(platform.CursorCaptured)
	if hw.Capture() != platform.CursorCaptured {
		t.Fatalf("expected captured, got %v", hw.Capture())
	}

	hw.Blur()
	s.PollEvents()
	if hw.Capture() != platform.CursorNormal {
		t.Fatalf("expected the capture released on focus loss, got %v", hw.Capture())
	}
	if w.CursorMode() != platform.CursorCaptured {
		t.Fatalf("logical mode changed on focus loss: %v", w.CursorMode())
	}

	w.Focus()
	s.PollEvents()
	if hw.Capture() != platform.CursorCaptured {
		t.Fatalf("expected the capture re-applied on focus gain, got %v", hw.Capture())
	}
}

func TestDisabledCursorFocusLossRestoresPosition(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "alt-tab")
	if err := w.SetCursorPos(100, 50); err != nil {
		t.Fatal(err)
	}
	if err := w.SetCursorMode(platform.CursorDisabled); err != nil {
		t.Fatalf("SetCursorMode(disabled) failed: %v", err)
	}

	hw.Blur()
	s.PollEvents()
	if hw.Capture() != platform.CursorNormal {
		t.Fatalf("expected the lock released on focus loss, got %v", hw.Capture())
	}
	if x, y := hw.CursorPos(); x != 100 || y != 50 {
		t.Fatalf("expected the pointer handed back at 100,50, got %v,%v", x, y)
	}

	if err := w.SetCursorMode(platform.CursorNormal); err != nil {
		t.Fatalf("SetCursorMode(normal) failed: %v", err)
	}
	w.Focus()
	s.PollEvents()
	if hw.Capture() != platform.CursorNormal {
		t.Fatalf("expected a normal cursor after refocus, got %v", hw.Capture())
	}
	if x, y := hw.CursorPos(); x != 100 || y != 50 {
		t.Fatalf("expected the pointer to stay at 100,50, got %v,%v", x, y)
	}
}

func TestDisabledCursorRefocusRecordsNewRestorePosition(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "refocus")
	if err := w.SetCursorPos(100, 50); err != nil {
		t.Fatal(err)
	}
	w.SetCursorMode(platform.CursorDisabled)

	hw.Blur()
	s.PollEvents()
	// The user moves the pointer elsewhere before coming back.
	hw.SetCursorPos(250, 120)
	w.Focus()
	s.PollEvents()
	if hw.Capture() != platform.CursorDisabled {
		t.Fatalf("expected the lock re-applied on focus gain, got %v", hw.Capture())
	}
	if x, y := hw.CursorPos(); x != 400 || y != 300 {
		t.Fatalf("expected the pointer centered at 400,300, got %v,%v", x, y)
	}

	if err := w.SetCursorMode(platform.CursorNormal); err != nil {
		t.Fatalf("SetCursorMode(normal) failed: %v", err)
	}
	if x, y := hw.CursorPos(); x != 250 || y != 120 {
		t.Fatalf("expected the pointer restored to 250,120, got %v,%v", x, y)
	}
}

func TestNilWindowCursorMode(t *testing.T) {
	var w *Window
	if w.CursorMode() != platform.CursorNormal {
		t.Fatalf("expected normal for a nil window")
	}
}

func TestCursorModeValidation(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, _ := newTestWindow(t, s, "modes")
	if err := w.SetCursorMode(CursorMode(9)); platform.CodeOf(err) != platform.InvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
	if w.CursorMode() != platform.CursorNormal {
		t.Fatalf("rejected mode was stored: %v", w.CursorMode())
	}
}

func TestHiddenCursorImage(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "hidden")
	hover(t, s, hw)
	if hw.AppliedCursorMode() != platform.CursorNormal {
		t.Fatalf("expected normal cursor on enter, got %v", hw.AppliedCursorMode())
	}
	w.SetCursorMode(platform.CursorHidden)
	if hw.AppliedCursorMode() != platform.CursorHidden {
		t.Fatalf("expected hidden cursor, got %v", hw.AppliedCursorMode())
	}
	if hw.Capture() != platform.CursorHidden {
		t.Fatalf("hidden mode must not lock the pointer, got %v", hw.Capture())
	}
}

func TestRawMouseMotion(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		s, _ := newTestState(t, headless.Options{})
		w, _ := newTestWindow(t, s, "raw")
		if err := w.SetRawMouseMotion(true); platform.CodeOf(err) != platform.FeatureUnavailable {
			t.Fatalf("expected feature_unavailable, got %v", err)
		}
	})

	t.Run("only while disabled", func(t *testing.T) {
		s, _ := newTestState(t, headless.Options{RawMouseMotion: true})
		w, hw := newTestWindow(t, s, "raw")
		if err := w.SetRawMouseMotion(true); err != nil {
			t.Fatalf("SetRawMouseMotion failed: %v", err)
		}
		if hw.RawMotion() {
			t.Fatalf("raw motion enabled outside disabled mode")
		}
		w.SetCursorMode(platform.CursorDisabled)
		if !hw.RawMotion() {
			t.Fatalf("raw motion not enabled for the disabled cursor")
		}
		w.SetCursorMode(platform.CursorNormal)
		if hw.RawMotion() {
			t.Fatalf("raw motion still enabled after leaving disabled mode")
		}
		if !w.RawMouseMotion() {
			t.Fatalf("window setting lost")
		}
	})
}
