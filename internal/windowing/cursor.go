package windowing

import (
	"image"
	"math"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Cursor is a cursor image owned by the State.
type Cursor struct {
	state  *State
	native platform.NativeCursor
	shape  CursorShape
	custom bool
}

// Shape is the standard shape, meaningful only when Custom is false.
func (c *Cursor) Shape() CursorShape { return c.shape }

func (c *Cursor) Custom() bool { return c.custom }

// CreateCursor builds a cursor from img with the hotspot at (xhot, yhot)
// relative to its top-left corner.
func (s *State) CreateCursor(img image.Image, xhot, yhot int) (*Cursor, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, s.inputError(platform.InvalidValue, "Invalid image dimensions for cursor")
	}
	native, err := s.backend.CreateCursor(platform.ToRGBA(img), xhot, yhot)
	if err != nil {
		return nil, s.report(err)
	}
	c := &Cursor{state: s, native: native, custom: true}
	s.cursors = slices.Insert(s.cursors, 0, c)
	return c, nil
}

// CreateStandardCursor builds a cursor with a system shape. Backends without
// the shape report Cursor_Unavailable.
func (s *State) CreateStandardCursor(shape CursorShape) (*Cursor, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	if !shape.Valid() {
		return nil, s.inputError(platform.InvalidEnum, "Invalid standard cursor %d", int(shape))
	}
	native, err := s.backend.CreateStandardCursor(shape)
	if err != nil {
		return nil, s.report(err)
	}
	c := &Cursor{state: s, native: native, shape: shape}
	s.cursors = slices.Insert(s.cursors, 0, c)
	return c, nil
}

// DestroyCursor destroys c, resetting every window that uses it to the
// default cursor first. A nil cursor is ignored.
func (s *State) DestroyCursor(c *Cursor) {
	if c == nil || c.state != s || c.native == nil {
		return
	}
	if s.checkInit() != nil {
		return
	}
	for _, w := range s.windows {
		if w.cursor == c {
			w.SetCursor(nil)
		}
	}
	c.native.Destroy()
	c.native = nil
	if i := slices.Index(s.cursors, c); i >= 0 {
		s.cursors = slices.Delete(s.cursors, i, i+1)
	}
}

// SetCursor sets the cursor image shown over the content area; nil selects
// the default arrow.
func (w *Window) SetCursor(c *Cursor) error {
	if err := w.check(); err != nil {
		return err
	}
	if c != nil && c.native == nil {
		return w.state.inputError(platform.InvalidValue, "Cursor has been destroyed")
	}
	w.cursor = c
	w.updateCursorImage()
	return nil
}

func (w *Window) Cursor() *Cursor {
	if w == nil {
		return nil
	}
	return w.cursor
}

// CursorMode is the logical cursor mode.
func (w *Window) CursorMode() CursorMode {
	if w == nil {
		return platform.CursorNormal
	}
	return w.cursorMode
}

func capturing(mode CursorMode) bool {
	return mode == platform.CursorDisabled || mode == platform.CursorCaptured
}

// SetCursorMode switches between Normal, Hidden, Disabled and Captured.
// Entering Disabled or Captured remembers the cursor position; returning to
// Normal or Hidden puts the cursor back there.
func (w *Window) SetCursorMode(mode CursorMode) error {
	if err := w.check(); err != nil {
		return err
	}
	if !mode.Valid() {
		return w.state.inputError(platform.InvalidEnum, "Invalid cursor mode %d", int(mode))
	}
	if mode == w.cursorMode {
		return nil
	}

	old := w.cursorMode
	x, y := w.native.CursorPos()
	if !capturing(old) && capturing(mode) {
		w.restoreCursorX, w.restoreCursorY = x, y
	}
	w.virtualCursorX, w.virtualCursorY = x, y
	w.cursorMode = mode

	if w.focused {
		w.applyCursorMode(capturing(old) && !capturing(mode))
	}
	w.updateCursorImage()
	return nil
}

// applyCursorMode pushes the logical mode to the native window.
func (w *Window) applyCursorMode(restore bool) {
	s := w.state
	switch w.cursorMode {
	case platform.CursorDisabled:
		s.disabledCursorWindow = w
		width, height := w.native.Size()
		w.native.SetCursorPos(float64(width)/2, float64(height)/2)
		w.native.SetCursorCapture(platform.CursorDisabled)
		if w.rawMouseMotion && s.backend.RawMouseMotionSupported() {
			w.native.SetRawMouseMotion(true)
		}
	case platform.CursorCaptured:
		w.releaseDisabled()
		w.native.SetCursorCapture(platform.CursorCaptured)
	default:
		w.releaseDisabled()
		w.native.SetCursorCapture(w.cursorMode)
		if restore {
			w.native.SetCursorPos(w.restoreCursorX, w.restoreCursorY)
		}
	}
}

func (w *Window) releaseDisabled() {
	s := w.state
	if s.disabledCursorWindow != w {
		return
	}
	s.disabledCursorWindow = nil
	if w.rawMouseMotion && s.backend.RawMouseMotionSupported() {
		w.native.SetRawMouseMotion(false)
	}
}

// updateCursorImage refreshes the visible cursor. Only a focused window under
// the pointer owns the image.
func (w *Window) updateCursorImage() {
	if !w.focused || !w.hovered {
		return
	}
	var nc platform.NativeCursor
	if w.cursor != nil {
		nc = w.cursor.native
	}
	w.native.ApplyCursor(w.cursorMode, nc)
}

// CursorPos returns the cursor position relative to the content area. While
// disabled this is the unbounded virtual position.
func (w *Window) CursorPos() (x, y float64) {
	if w.check() != nil {
		return 0, 0
	}
	if w.cursorMode == platform.CursorDisabled {
		return w.virtualCursorX, w.virtualCursorY
	}
	return w.native.CursorPos()
}

// SetCursorPos warps the cursor. It is ignored unless the window has focus;
// while disabled only the virtual position moves.
func (w *Window) SetCursorPos(x, y float64) error {
	if err := w.check(); err != nil {
		return err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return w.state.inputError(platform.InvalidValue, "Invalid cursor position %f %f", x, y)
	}
	if !w.native.Focused() {
		return nil
	}
	if w.cursorMode == platform.CursorDisabled {
		w.virtualCursorX, w.virtualCursorY = x, y
		return nil
	}
	w.native.SetCursorPos(x, y)
	return nil
}

// SetRawMouseMotion toggles unaccelerated motion for the disabled cursor.
func (w *Window) SetRawMouseMotion(enabled bool) error {
	if err := w.check(); err != nil {
		return err
	}
	s := w.state
	if !s.backend.RawMouseMotionSupported() {
		return s.inputError(platform.FeatureUnavailable, "Raw mouse motion is not supported on this system")
	}
	if w.rawMouseMotion == enabled {
		return nil
	}
	w.rawMouseMotion = enabled
	if s.disabledCursorWindow == w {
		w.native.SetRawMouseMotion(enabled)
	}
	return nil
}

func (w *Window) RawMouseMotion() bool {
	return w != nil && w.rawMouseMotion
}

// Native returns the backend handle, nil after DestroyCursor.
func (c *Cursor) Native() platform.NativeCursor { return c.native }
