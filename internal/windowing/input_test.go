package windowing

import (
	"fmt"
	"slices"
	"testing"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
)

// eventLog records callbacks as short strings in delivery order.
type eventLog []string

func (l *eventLog) attach(w *Window) {
	w.SetKeyCallback(func(_ *Window, key Key, state KeyState) {
		*l = append(*l, fmt.Sprintf("key %s %s", key, state))
	})
	w.SetMouseButtonCallback(func(_ *Window, button MouseButton, state KeyState) {
		*l = append(*l, fmt.Sprintf("button %d %s", int(button), state))
	})
	w.SetFocusCallback(func(_ *Window, focused bool) {
		*l = append(*l, fmt.Sprintf("focus %v", focused))
	})
	w.SetCharCallback(func(_ *Window, r rune) {
		*l = append(*l, fmt.Sprintf("char %U", r))
	})
}

func TestFocusLossReleasesHeldInput(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "focus")
	var log eventLog
	log.attach(w)

	hw.Key(platform.KeyA, int(platform.KeyA), platform.Pressed)
	hw.Key(platform.KeyB, int(platform.KeyB), platform.Pressed)
	hw.Button(platform.MouseButtonLeft, platform.Pressed)
	s.PollEvents()
	log = nil

	hw.Blur()
	s.PollEvents()
	want := eventLog{
		"focus false",
		"key a released",
		"key b released",
		"button 0 released",
	}
	if !slices.Equal(log, want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	if w.Key(platform.KeyA) != platform.Released || w.MouseButton(platform.MouseButtonLeft) != platform.Released {
		t.Fatalf("held input not cleared on focus loss")
	}

	log = nil
	w.Focus()
	s.PollEvents()
	if !slices.Equal(log, eventLog{"focus true"}) {
		t.Fatalf("expected only a focus event on refocus, got %v", log)
	}
}

func TestKeyRepeatAndStrayRelease(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "keys")
	var log eventLog
	log.attach(w)

	hw.Key(platform.KeyX, 0, platform.Released)
	hw.Key(platform.KeyX, 0, platform.Pressed)
	hw.Key(platform.KeyX, 0, platform.Pressed)
	hw.Key(platform.KeyX, 0, platform.Repeat)
	hw.Key(platform.KeyX, 0, platform.Released)
	hw.Key(platform.KeyX, 0, platform.Released)
	s.PollEvents()

	want := eventLog{
		"key x pressed",
		"key x repeat",
		"key x repeat",
		"key x released",
	}
	if !slices.Equal(log, want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
}

func TestUnknownKeysPassThrough(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "unknown")
	var log eventLog
	log.attach(w)

	hw.Key(platform.KeyUnknown, 0x1ff, platform.Released)
	hw.Key(platform.KeyUnknown, 0x1ff, platform.Released)
	s.PollEvents()
	if len(log) != 2 {
		t.Fatalf("expected both unknown key events delivered, got %v", log)
	}
}

func TestKeyQueryValidation(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, _ := newTestWindow(t, s, "query")
	codes := recordErrors(s)
	if w.Key(Key(5000)) != platform.Released {
		t.Fatalf("expected released for an invalid key")
	}
	if w.MouseButton(MouseButton(12)) != platform.Released {
		t.Fatalf("expected released for an invalid button")
	}
	if len(*codes) != 2 || (*codes)[0] != platform.InvalidEnum || (*codes)[1] != platform.InvalidEnum {
		t.Fatalf("expected two invalid_enum errors, got %v", *codes)
	}
}

func TestCharFiltersControlCodes(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "chars")
	var log eventLog
	log.attach(w)

	for _, r := range []rune{0x08, 0x1f, 'a', 0x7f, 0x85, 0x9f, 0xa0, 'é', 0x1f600} {
		hw.Char(r)
	}
	s.PollEvents()

	want := eventLog{"char U+0061", "char U+00A0", "char U+00E9", "char U+1F600"}
	if !slices.Equal(log, want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
}

func TestPointerEvents(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "pointer")

	var positions [][2]float64
	var enters []bool
	var scrolls [][2]float64
	var drops [][]string
	w.SetCursorPosCallback(func(_ *Window, x, y float64) { positions = append(positions, [2]float64{x, y}) })
	w.SetCursorEnterCallback(func(_ *Window, entered bool) { enters = append(enters, entered) })
	w.SetScrollCallback(func(_ *Window, x, y float64) { scrolls = append(scrolls, [2]float64{x, y}) })
	w.SetDropCallback(func(_ *Window, paths []string) { drops = append(drops, paths) })

	hw.Enter(true)
	hw.MoveCursor(10, 20)
	hw.MoveCursor(10, 20)
	hw.MoveCursor(15, 25)
	hw.Scroll(0, -1)
	hw.Drop()
	hw.Drop("/tmp/a.txt", "/tmp/b c.txt")
	hw.Enter(false)
	s.PollEvents()

	if !slices.Equal(enters, []bool{true, false}) {
		t.Fatalf("expected enter then leave, got %v", enters)
	}
	if len(positions) != 2 || positions[0] != [2]float64{10, 20} || positions[1] != [2]float64{15, 25} {
		t.Fatalf("expected two distinct positions, got %v", positions)
	}
	if len(scrolls) != 1 || scrolls[0] != [2]float64{0, -1} {
		t.Fatalf("expected one scroll, got %v", scrolls)
	}
	if len(drops) != 1 || !slices.Equal(drops[0], []string{"/tmp/a.txt", "/tmp/b c.txt"}) {
		t.Fatalf("expected one drop with two paths, got %v", drops)
	}
	if w.Hovered() {
		t.Fatalf("expected the pointer outside the window")
	}
}

func TestCallbackSettersReturnPrevious(t *testing.T) {
	s, _ := newTestState(t, headless.Options{})
	w, hw := newTestWindow(t, s, "setters")

	calls := 0
	first := func(*Window, float64, float64) { calls++ }
	if prev := w.SetScrollCallback(first); prev != nil {
		t.Fatalf("expected no previous callback")
	}
	if prev := w.SetScrollCallback(nil); prev == nil {
		t.Fatalf("expected the first callback back")
	}
	hw.Scroll(1, 1)
	s.PollEvents()
	if calls != 0 {
		t.Fatalf("removed callback was called %d times", calls)
	}
}
