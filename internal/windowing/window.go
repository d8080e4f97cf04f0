package windowing

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Window is a top-level window record. It owns its native handle; after
// DestroyWindow every operation on it reports Invalid_Value.
type Window struct {
	state  *State
	native platform.NativeWindow
	title  string

	// monitor is set while the window is full screen.
	monitor    *Monitor
	videoMode  VideoMode
	borderless bool
	cursor     *Cursor

	resizable        bool
	decorated        bool
	floating         bool
	focusOnShow      bool
	mousePassthrough bool
	shouldClose      bool

	minWidth, minHeight int
	maxWidth, maxHeight int
	numer, denom        int

	cursorMode     CursorMode
	rawMouseMotion bool
	keys           [platform.KeyLast + 1]KeyState
	buttons        [platform.MouseButtonLast + 1]KeyState

	// Last known cursor position; the only position while disabled.
	virtualCursorX, virtualCursorY float64
	// Position to return to when the cursor leaves Disabled or Captured.
	restoreCursorX, restoreCursorY float64

	focused bool
	hovered bool

	callbacks windowCallbacks
	userData  any
}

// CreateWindow creates a window using the current hints. With a non-nil
// monitor the window starts full screen on it. On failure nothing is left
// behind and the error has already gone through the error callback.
func (s *State) CreateWindow(width, height int, title string, monitor *Monitor) (*Window, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, s.inputError(platform.InvalidValue, "Invalid window size %dx%d", width, height)
	}
	if title == "" {
		return nil, s.inputError(platform.InvalidValue, "Window title must not be empty")
	}
	if monitor != nil {
		if err := monitor.check(); err != nil {
			return nil, err
		}
	}

	h := s.hints
	cfg := h.config(width, height, title)
	w := &Window{
		state: s,
		title: title,
		videoMode: VideoMode{
			Width:       width,
			Height:      height,
			RedBits:     h.RedBits,
			GreenBits:   h.GreenBits,
			BlueBits:    h.BlueBits,
			RefreshRate: h.RefreshRate,
		},
		resizable:        cfg.Resizable,
		decorated:        cfg.Decorated,
		floating:         cfg.Floating,
		focusOnShow:      cfg.FocusOnShow,
		mousePassthrough: cfg.MousePassthrough,
		minWidth:         DontCare,
		minHeight:        DontCare,
		maxWidth:         DontCare,
		maxHeight:        DontCare,
		numer:            DontCare,
		denom:            DontCare,
		cursorMode:       platform.CursorNormal,
	}
	s.windows = slices.Insert(s.windows, 0, w)

	native, err := s.backend.CreateWindow(cfg, w)
	if err != nil {
		s.DestroyWindow(w)
		return nil, s.report(fmt.Errorf("failed to create window %q: %w", title, err))
	}
	w.native = native

	if monitor != nil {
		if err := s.acquireMonitor(w, monitor); err != nil {
			s.DestroyWindow(w)
			return nil, err
		}
		native.Show()
		native.Focus()
		cw, ch := native.Size()
		native.SetCursorPos(float64(cw)/2, float64(ch)/2)
	} else if cfg.Visible {
		native.Show()
		if cfg.Focused {
			native.Focus()
		}
	}

	s.logger.Debug("window created", "title", title, "width", width, "height", height, "fullscreen", monitor != nil)
	return w, nil
}

// DestroyWindow destroys w and its native handle. A nil window is ignored.
// It must not be called from a callback of the same window.
func (s *State) DestroyWindow(w *Window) {
	if w == nil || w.state != s {
		return
	}
	if s.checkInit() != nil {
		return
	}

	w.callbacks = windowCallbacks{}
	if s.disabledCursorWindow == w {
		s.disabledCursorWindow = nil
	}
	if w.monitor != nil {
		s.releaseMonitor(w, true)
	}
	if w.native != nil {
		w.native.Destroy()
		w.native = nil
	}
	if i := slices.Index(s.windows, w); i >= 0 {
		s.windows = slices.Delete(s.windows, i, i+1)
	}
	s.logger.Debug("window destroyed", "title", w.title)
}

func (w *Window) check() error {
	if w == nil {
		return platform.Errorf(platform.InvalidValue, "[Window] nil window")
	}
	if err := w.state.checkInit(); err != nil {
		return err
	}
	if w.native == nil {
		return w.state.inputError(platform.InvalidValue, "Window %q has been destroyed", w.title)
	}
	return nil
}

func (w *Window) attributes() platform.Attributes {
	return platform.Attributes{
		Resizable: w.resizable,
		Decorated: w.decorated,
		Floating:  w.floating,
	}
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w != nil && w.shouldClose
}

func (w *Window) SetShouldClose(v bool) {
	if w != nil {
		w.shouldClose = v
	}
}

func (w *Window) Title() string {
	if w == nil {
		return ""
	}
	return w.title
}

func (w *Window) SetTitle(title string) error {
	if err := w.check(); err != nil {
		return err
	}
	w.title = title
	w.native.SetTitle(title)
	return nil
}

// SetIcon sets the window icon from candidate images; the backend picks the
// best size. No images restores the default icon.
func (w *Window) SetIcon(images ...image.Image) error {
	if err := w.check(); err != nil {
		return err
	}
	icons := make([]*image.RGBA, 0, len(images))
	for i, img := range images {
		if img == nil || img.Bounds().Empty() {
			return w.state.inputError(platform.InvalidValue, "Invalid image dimensions for icon %d", i)
		}
		icons = append(icons, platform.ToRGBA(img))
	}
	if err := w.native.SetIcon(icons); err != nil {
		return w.state.report(err)
	}
	return nil
}

// Pos returns the content area position. Backends that cannot know it
// report Feature_Unavailable and return zero.
func (w *Window) Pos() (x, y int) {
	if w.check() != nil {
		return 0, 0
	}
	x, y, err := w.native.Pos()
	if err != nil {
		w.state.report(err)
		return 0, 0
	}
	return x, y
}

// SetPos moves the content area. Ignored while full screen.
func (w *Window) SetPos(x, y int) error {
	if err := w.check(); err != nil {
		return err
	}
	if w.monitor != nil {
		return nil
	}
	if err := w.native.SetPos(x, y); err != nil {
		return w.state.report(err)
	}
	return nil
}

func (w *Window) Size() (width, height int) {
	if w.check() != nil {
		return 0, 0
	}
	return w.native.Size()
}

// SetSize resizes the content area. A full screen window switches to the
// closest video mode instead.
func (w *Window) SetSize(width, height int) error {
	if err := w.check(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return w.state.inputError(platform.InvalidValue, "Invalid window size %dx%d", width, height)
	}
	w.videoMode.Width = width
	w.videoMode.Height = height
	if w.monitor != nil {
		return w.state.acquireMonitor(w, w.monitor)
	}
	w.native.SetSize(width, height)
	return nil
}

func (w *Window) FramebufferSize() (width, height int) {
	if w.check() != nil {
		return 0, 0
	}
	return w.native.FramebufferSize()
}

// FrameSize returns the decoration extents around the content area.
func (w *Window) FrameSize() (left, top, right, bottom int) {
	if w.check() != nil {
		return 0, 0, 0, 0
	}
	return w.native.FrameSize()
}

func (w *Window) ContentScale() (xscale, yscale float32) {
	if w.check() != nil {
		return 0, 0
	}
	return w.native.ContentScale()
}

// SetSizeLimits constrains the content area size. Any value may be DontCare;
// the rest must be non-negative with max not below min.
func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) error {
	if err := w.check(); err != nil {
		return err
	}
	for _, v := range []int{minWidth, minHeight, maxWidth, maxHeight} {
		if v != DontCare && v < 0 {
			return w.state.inputError(platform.InvalidValue, "Invalid window size limit %d", v)
		}
	}
	if minWidth != DontCare && maxWidth != DontCare && maxWidth < minWidth {
		return w.state.inputError(platform.InvalidValue, "Invalid window width limits %d..%d", minWidth, maxWidth)
	}
	if minHeight != DontCare && maxHeight != DontCare && maxHeight < minHeight {
		return w.state.inputError(platform.InvalidValue, "Invalid window height limits %d..%d", minHeight, maxHeight)
	}

	w.minWidth, w.minHeight = minWidth, minHeight
	w.maxWidth, w.maxHeight = maxWidth, maxHeight
	if w.monitor != nil || !w.resizable {
		return nil
	}
	w.native.SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight)
	return nil
}

// SizeLimits returns the stored limits.
func (w *Window) SizeLimits() (minWidth, minHeight, maxWidth, maxHeight int) {
	if w == nil {
		return DontCare, DontCare, DontCare, DontCare
	}
	return w.minWidth, w.minHeight, w.maxWidth, w.maxHeight
}

// SetAspectRatio locks the content area ratio. Both terms must be positive,
// or both DontCare to remove the constraint.
func (w *Window) SetAspectRatio(numer, denom int) error {
	if err := w.check(); err != nil {
		return err
	}
	if (numer == DontCare) != (denom == DontCare) {
		return w.state.inputError(platform.InvalidValue, "Invalid window aspect ratio %d:%d", numer, denom)
	}
	if numer != DontCare && (numer <= 0 || denom <= 0) {
		return w.state.inputError(platform.InvalidValue, "Invalid window aspect ratio %d:%d", numer, denom)
	}

	w.numer, w.denom = numer, denom
	if w.monitor != nil || !w.resizable {
		return nil
	}
	w.native.SetAspectRatio(numer, denom)
	return nil
}

// Show makes the window visible, focusing it when FocusOnShow is set.
// Ignored while full screen.
func (w *Window) Show() error {
	if err := w.check(); err != nil {
		return err
	}
	if w.monitor != nil {
		return nil
	}
	w.native.Show()
	if w.focusOnShow {
		w.native.Focus()
	}
	return nil
}

// Hide is ignored while full screen.
func (w *Window) Hide() error {
	if err := w.check(); err != nil {
		return err
	}
	if w.monitor != nil {
		return nil
	}
	w.native.Hide()
	return nil
}

func (w *Window) Focus() error {
	if err := w.check(); err != nil {
		return err
	}
	w.native.Focus()
	return nil
}

// Maximize is ignored while full screen.
func (w *Window) Maximize() error {
	if err := w.check(); err != nil {
		return err
	}
	if w.monitor != nil {
		return nil
	}
	w.native.Maximize()
	return nil
}

func (w *Window) Minimize() error {
	if err := w.check(); err != nil {
		return err
	}
	w.native.Minimize()
	return nil
}

func (w *Window) Restore() error {
	if err := w.check(); err != nil {
		return err
	}
	w.native.Restore()
	return nil
}

func (w *Window) RequestAttention() error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.native.RequestAttention(); err != nil {
		return w.state.report(err)
	}
	return nil
}

func (w *Window) Focused() bool {
	return w.check() == nil && w.native.Focused()
}

func (w *Window) Minimized() bool {
	return w.check() == nil && w.native.Minimized()
}

func (w *Window) Maximized() bool {
	return w.check() == nil && w.native.Maximized()
}

func (w *Window) Visible() bool {
	return w.check() == nil && w.native.Visible()
}

// Hovered reports whether the cursor is over the content area.
func (w *Window) Hovered() bool {
	return w.check() == nil && w.native.Hovered()
}

func (w *Window) Resizable() bool { return w != nil && w.resizable }
func (w *Window) Decorated() bool { return w != nil && w.decorated }
func (w *Window) Floating() bool { return w != nil && w.floating }
func (w *Window) FocusOnShow() bool { return w != nil && w.focusOnShow }
func (w *Window) MousePassthrough() bool { return w != nil && w.mousePassthrough }

// SetResizable is stored always but applied only while windowed.
func (w *Window) SetResizable(enabled bool) error {
	if err := w.check(); err != nil {
		return err
	}
	if w.resizable == enabled {
		return nil
	}
	w.resizable = enabled
	if w.monitor == nil {
		w.native.SetResizable(enabled)
	}
	return nil
}

// SetDecorated is stored always but applied only while windowed.
func (w *Window) SetDecorated(enabled bool) error {
	if err := w.check(); err != nil {
		return err
	}
	if w.decorated == enabled {
		return nil
	}
	w.decorated = enabled
	if w.monitor == nil {
		w.native.SetDecorated(enabled)
	}
	return nil
}

// SetFloating is stored always but applied only while windowed.
func (w *Window) SetFloating(enabled bool) error {
	if err := w.check(); err != nil {
		return err
	}
	if w.floating == enabled {
		return nil
	}
	w.floating = enabled
	if w.monitor == nil {
		w.native.SetFloating(enabled)
	}
	return nil
}

func (w *Window) SetFocusOnShow(enabled bool) error {
	if err := w.check(); err != nil {
		return err
	}
	w.focusOnShow = enabled
	return nil
}

// SetMousePassthrough lets pointer input fall through to whatever is below.
func (w *Window) SetMousePassthrough(enabled bool) error {
	if err := w.check(); err != nil {
		return err
	}
	if err := w.native.SetMousePassthrough(enabled); err != nil {
		return w.state.report(err)
	}
	w.mousePassthrough = enabled
	return nil
}

func (w *Window) Opacity() float32 {
	if w.check() != nil {
		return 0
	}
	return w.native.Opacity()
}

// SetOpacity sets whole-window opacity in [0, 1].
func (w *Window) SetOpacity(opacity float32) error {
	if err := w.check(); err != nil {
		return err
	}
	if math.IsNaN(float64(opacity)) || opacity < 0 || opacity > 1 {
		return w.state.inputError(platform.InvalidValue, "Invalid window opacity %f", opacity)
	}
	if err := w.native.SetOpacity(opacity); err != nil {
		return w.state.report(err)
	}
	return nil
}

func (w *Window) SetUserData(v any) {
	if w != nil {
		w.userData = v
	}
}

func (w *Window) UserData() any {
	if w == nil {
		return nil
	}
	return w.userData
}

// Native returns the backend handle, nil after DestroyWindow.
func (w *Window) Native() platform.NativeWindow {
	if w == nil {
		return nil
	}
	return w.native
}
