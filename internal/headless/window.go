package headless

import (
	"image"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/vkloader"
	vulkan "github.com/goki/vulkan"
)

// Decoration extents reported for decorated windows.
const (
	frameSide   = 1
	frameTop    = 24
	frameBottom = 1
)

// Window implements platform.NativeWindow. Requests change its state at once;
// the matching notifications are delivered on the next event pump, as a
// window manager would.
type Window struct {
	backend *Backend
	events  platform.WindowEvents

	title string
	icons int

	x, y          int
	width, height int
	scale         float32

	visible   bool
	focused   bool
	minimized bool
	maximized bool
	hovered   bool
	attention bool
	destroyed bool

	resizable   bool
	decorated   bool
	floating    bool
	passthrough bool
	opacity     float32

	minWidth, minHeight int
	maxWidth, maxHeight int
	numer, denom        int

	monitor  *Monitor
	windowed platform.Rect

	cursorX, cursorY float64
	capture          platform.CursorMode
	appliedMode      platform.CursorMode
	appliedCursor    *Cursor
	rawMotion        bool
}

// post queues an event for this window, dropped if the window is destroyed
// before the pump runs.
func (w *Window) post(fn func(ev platform.WindowEvents)) {
	w.backend.enqueue(func() {
		if !w.destroyed {
			fn(w.events)
		}
	})
}

func (w *Window) Destroy() {
	w.destroyed = true
	w.backend.removeWindow(w)
}

func (w *Window) SetTitle(title string) { w.title = title }

func (w *Window) SetIcon(images []*image.RGBA) error {
	w.icons = len(images)
	return nil
}

func (w *Window) Pos() (x, y int, err error) { return w.x, w.y, nil }

func (w *Window) SetPos(x, y int) error {
	if w.x == x && w.y == y {
		return nil
	}
	w.x, w.y = x, y
	w.post(func(ev platform.WindowEvents) { ev.InputWindowPos(x, y) })
	return nil
}

func (w *Window) Size() (width, height int) { return w.width, w.height }

func (w *Window) SetSize(width, height int) {
	w.resize(width, height)
}

func (w *Window) resize(width, height int) {
	if w.minWidth != platform.DontCare && width < w.minWidth {
		width = w.minWidth
	}
	if w.minHeight != platform.DontCare && height < w.minHeight {
		height = w.minHeight
	}
	if w.maxWidth != platform.DontCare && width > w.maxWidth {
		width = w.maxWidth
	}
	if w.maxHeight != platform.DontCare && height > w.maxHeight {
		height = w.maxHeight
	}
	w.setArea(w.x, w.y, width, height)
}

func (w *Window) setArea(x, y, width, height int) {
	moved := x != w.x || y != w.y
	resized := width != w.width || height != w.height
	w.x, w.y, w.width, w.height = x, y, width, height
	if moved {
		w.post(func(ev platform.WindowEvents) { ev.InputWindowPos(x, y) })
	}
	if resized {
		fw, fh := w.FramebufferSize()
		w.post(func(ev platform.WindowEvents) {
			ev.InputWindowSize(width, height)
			ev.InputFramebufferSize(fw, fh)
		})
	}
}

func (w *Window) FramebufferSize() (width, height int) {
	s := w.contentScale()
	return int(float32(w.width) * s), int(float32(w.height) * s)
}

func (w *Window) FrameSize() (left, top, right, bottom int) {
	if !w.decorated || w.monitor != nil {
		return 0, 0, 0, 0
	}
	return frameSide, frameTop, frameSide, frameBottom
}

func (w *Window) contentScale() float32 {
	if w.scale != 0 {
		return w.scale
	}
	if len(w.backend.monitors) > 0 {
		return w.backend.monitors[0].spec.Scale
	}
	return 1
}

func (w *Window) ContentScale() (xscale, yscale float32) {
	s := w.contentScale()
	return s, s
}

func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	w.minWidth, w.minHeight = minWidth, minHeight
	w.maxWidth, w.maxHeight = maxWidth, maxHeight
	w.resize(w.width, w.height)
}

func (w *Window) SetAspectRatio(numer, denom int) {
	w.numer, w.denom = numer, denom
	if numer == platform.DontCare || denom == platform.DontCare {
		return
	}
	w.resize(w.width, w.width*denom/numer)
}

func (w *Window) Show() { w.visible = true }

func (w *Window) Hide() {
	w.visible = false
	if w.backend.focused == w {
		w.backend.requestFocus(nil)
	}
}

func (w *Window) Focus() {
	if !w.visible || w.minimized {
		return
	}
	w.backend.requestFocus(w)
}

func (w *Window) Maximize() {
	if w.maximized {
		return
	}
	w.maximized = true
	w.post(func(ev platform.WindowEvents) { ev.InputWindowMaximize(true) })
}

func (w *Window) Minimize() {
	if w.minimized {
		return
	}
	w.minimized = true
	w.post(func(ev platform.WindowEvents) { ev.InputWindowMinimize(true) })
}

func (w *Window) Restore() {
	switch {
	case w.minimized:
		w.minimized = false
		w.post(func(ev platform.WindowEvents) { ev.InputWindowMinimize(false) })
	case w.maximized:
		w.maximized = false
		w.post(func(ev platform.WindowEvents) { ev.InputWindowMaximize(false) })
	}
}

func (w *Window) RequestAttention() error {
	w.attention = true
	return nil
}

func (w *Window) Focused() bool { return w.focused }
func (w *Window) Minimized() bool { return w.minimized }
func (w *Window) Maximized() bool { return w.maximized }
func (w *Window) Visible() bool { return w.visible }
func (w *Window) Hovered() bool { return w.hovered }

func (w *Window) SetResizable(enabled bool) { w.resizable = enabled }
func (w *Window) SetDecorated(enabled bool) { w.decorated = enabled }
func (w *Window) SetFloating(enabled bool) { w.floating = enabled }

func (w *Window) SetMousePassthrough(enabled bool) error {
	w.passthrough = enabled
	return nil
}

func (w *Window) Opacity() float32 { return w.opacity }

func (w *Window) SetOpacity(opacity float32) error {
	w.opacity = opacity
	return nil
}

func (w *Window) SetMonitor(monitor platform.NativeMonitor, area platform.Rect, attrs platform.Attributes) {
	if monitor != nil {
		if w.monitor == nil {
			w.windowed = platform.Rect{X: w.x, Y: w.y, Width: w.width, Height: w.height}
		}
		w.monitor, _ = monitor.(*Monitor)
		w.setArea(area.X, area.Y, area.Width, area.Height)
		return
	}
	w.monitor = nil
	w.resizable = attrs.Resizable
	w.decorated = attrs.Decorated
	w.floating = attrs.Floating
	w.setArea(area.X, area.Y, area.Width, area.Height)
}

func (w *Window) CursorPos() (x, y float64) { return w.cursorX, w.cursorY }

func (w *Window) SetCursorPos(x, y float64) {
	w.cursorX, w.cursorY = x, y
}

func (w *Window) SetCursorCapture(mode platform.CursorMode) { w.capture = mode }

func (w *Window) ApplyCursor(mode platform.CursorMode, cursor platform.NativeCursor) {
	w.appliedMode = mode
	w.appliedCursor, _ = cursor.(*Cursor)
}

func (w *Window) SetRawMouseMotion(enabled bool) { w.rawMotion = enabled }

// CreateVulkanSurface always fails: there is no presentation engine.
func (w *Window) CreateVulkanSurface(loader *vkloader.Loader, instance vulkan.Instance, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result) {
	var none vulkan.Surface
	return none, vulkan.ErrorExtensionNotPresent
}

// Inspection helpers.

func (w *Window) Title() string { return w.title }
func (w *Window) Area() platform.Rect { return platform.Rect{X: w.x, Y: w.y, Width: w.width, Height: w.height} }
func (w *Window) Destroyed() bool { return w.destroyed }
func (w *Window) Capture() platform.CursorMode { return w.capture }
func (w *Window) AppliedCursorMode() platform.CursorMode { return w.appliedMode }
func (w *Window) AppliedCursor() *Cursor { return w.appliedCursor }
func (w *Window) RawMotion() bool { return w.rawMotion }
func (w *Window) FullscreenMonitor() *Monitor { return w.monitor }
func (w *Window) Icons() int { return w.icons }
func (w *Window) AttentionRequested() bool { return w.attention }
func (w *Window) Passthrough() bool { return w.passthrough }
func (w *Window) Resizable() bool { return w.resizable }
func (w *Window) Decorated() bool { return w.decorated }
func (w *Window) Floating() bool { return w.floating }

func (w *Window) SizeLimits() (minWidth, minHeight, maxWidth, maxHeight int) {
	return w.minWidth, w.minHeight, w.maxWidth, w.maxHeight
}

// Input injection. Each call is delivered on the next PollEvents or
// WaitEvents and may be made from any goroutine.

// Key injects a key transition.
func (w *Window) Key(key platform.Key, scancode int, state platform.KeyState) {
	w.post(func(ev platform.WindowEvents) { ev.InputKey(key, scancode, state) })
}

// Char injects a text input codepoint.
func (w *Window) Char(codepoint rune) {
	w.post(func(ev platform.WindowEvents) { ev.InputChar(codepoint) })
}

// Button injects a mouse button transition.
func (w *Window) Button(button platform.MouseButton, state platform.KeyState) {
	w.post(func(ev platform.WindowEvents) { ev.InputMouseClick(button, state) })
}

// MoveCursor moves the pointer to (x, y). While the cursor is disabled the
// motion is reported as a delta, like a locked pointer.
func (w *Window) MoveCursor(x, y float64) {
	w.post(func(ev platform.WindowEvents) {
		dx, dy := x-w.cursorX, y-w.cursorY
		w.cursorX, w.cursorY = x, y
		if ev.CursorMode() == platform.CursorDisabled {
			ev.InputCursorDelta(dx, dy)
			return
		}
		ev.InputCursorPos(x, y)
	})
}

// Enter injects the pointer entering or leaving the content area.
func (w *Window) Enter(entered bool) {
	w.post(func(ev platform.WindowEvents) {
		w.hovered = entered
		ev.InputCursorEnter(entered)
	})
}

func (w *Window) Scroll(xoffset, yoffset float64) {
	w.post(func(ev platform.WindowEvents) { ev.InputScroll(xoffset, yoffset) })
}

func (w *Window) Drop(paths ...string) {
	w.post(func(ev platform.WindowEvents) { ev.InputDrop(paths) })
}

// RequestClose injects a close button press.
func (w *Window) RequestClose() {
	w.post(func(ev platform.WindowEvents) { ev.InputWindowCloseRequest() })
}

// Blur takes focus away, as if another application was activated.
func (w *Window) Blur() {
	w.backend.enqueue(func() {
		if w.backend.focused == w {
			w.backend.requestFocus(nil)
		}
	})
}

// UserResize injects an interactive resize.
func (w *Window) UserResize(width, height int) {
	w.backend.enqueue(func() {
		if !w.destroyed {
			w.resize(width, height)
		}
	})
}

// SetScale injects a content scale change.
func (w *Window) SetScale(scale float32) {
	w.post(func(ev platform.WindowEvents) {
		w.scale = scale
		ev.InputWindowContentScale(scale, scale)
		fw, fh := w.FramebufferSize()
		ev.InputFramebufferSize(fw, fh)
	})
}
