package windowing

// Callback shapes. Each receives the window (or monitor) it concerns first.
type (
	ErrorFunc              func(err *Error)
	MonitorFunc            func(m *Monitor, connected bool)
	WindowPosFunc          func(w *Window, x, y int)
	WindowSizeFunc         func(w *Window, width, height int)
	WindowMinimizeFunc     func(w *Window, minimized bool)
	WindowMaximizeFunc     func(w *Window, maximized bool)
	WindowCloseFunc        func(w *Window)
	WindowFocusFunc        func(w *Window, focused bool)
	FramebufferSizeFunc    func(w *Window, width, height int)
	WindowContentScaleFunc func(w *Window, xscale, yscale float32)
	MouseButtonFunc        func(w *Window, button MouseButton, state KeyState)
	CursorPosFunc          func(w *Window, x, y float64)
	CursorEnterFunc        func(w *Window, entered bool)
	ScrollFunc             func(w *Window, xoffset, yoffset float64)
	KeyFunc                func(w *Window, key Key, state KeyState)
	CharFunc               func(w *Window, codepoint rune)
	DropFunc               func(w *Window, paths []string)
)

type windowCallbacks struct {
	pos          WindowPosFunc
	size         WindowSizeFunc
	minimize     WindowMinimizeFunc
	maximize     WindowMaximizeFunc
	close        WindowCloseFunc
	focus        WindowFocusFunc
	fbsize       FramebufferSizeFunc
	contentScale WindowContentScaleFunc
	mouseButton  MouseButtonFunc
	cursorPos    CursorPosFunc
	cursorEnter  CursorEnterFunc
	scroll       ScrollFunc
	key          KeyFunc
	char         CharFunc
	drop         DropFunc
}

// SetMonitorCallback installs the hot-plug callback and returns the previous one.
func (s *State) SetMonitorCallback(fn MonitorFunc) MonitorFunc {
	prev := s.monitorCallback
	s.monitorCallback = fn
	return prev
}

// The setters below install a callback (nil removes it) and return the
// previous one.

func (w *Window) SetPosCallback(fn WindowPosFunc) WindowPosFunc {
	prev := w.callbacks.pos
	w.callbacks.pos = fn
	return prev
}

func (w *Window) SetSizeCallback(fn WindowSizeFunc) WindowSizeFunc {
	prev := w.callbacks.size
	w.callbacks.size = fn
	return prev
}

func (w *Window) SetMinimizeCallback(fn WindowMinimizeFunc) WindowMinimizeFunc {
	prev := w.callbacks.minimize
	w.callbacks.minimize = fn
	return prev
}

func (w *Window) SetMaximizeCallback(fn WindowMaximizeFunc) WindowMaximizeFunc {
	prev := w.callbacks.maximize
	w.callbacks.maximize = fn
	return prev
}

func (w *Window) SetCloseCallback(fn WindowCloseFunc) WindowCloseFunc {
	prev := w.callbacks.close
	w.callbacks.close = fn
	return prev
}

func (w *Window) SetFocusCallback(fn WindowFocusFunc) WindowFocusFunc {
	prev := w.callbacks.focus
	w.callbacks.focus = fn
	return prev
}

func (w *Window) SetFramebufferSizeCallback(fn FramebufferSizeFunc) FramebufferSizeFunc {
	prev := w.callbacks.fbsize
	w.callbacks.fbsize = fn
	return prev
}

func (w *Window) SetContentScaleCallback(fn WindowContentScaleFunc) WindowContentScaleFunc {
	prev := w.callbacks.contentScale
	w.callbacks.contentScale = fn
	return prev
}

func (w *Window) SetMouseButtonCallback(fn MouseButtonFunc) MouseButtonFunc {
	prev := w.callbacks.mouseButton
	w.callbacks.mouseButton = fn
	return prev
}

func (w *Window) SetCursorPosCallback(fn CursorPosFunc) CursorPosFunc {
	prev := w.callbacks.cursorPos
	w.callbacks.cursorPos = fn
	return prev
}

func (w *Window) SetCursorEnterCallback(fn CursorEnterFunc) CursorEnterFunc {
	prev := w.callbacks.cursorEnter
	w.callbacks.cursorEnter = fn
	return prev
}

func (w *Window) SetScrollCallback(fn ScrollFunc) ScrollFunc {
	prev := w.callbacks.scroll
	w.callbacks.scroll = fn
	return prev
}

func (w *Window) SetKeyCallback(fn KeyFunc) KeyFunc {
	prev := w.callbacks.key
	w.callbacks.key = fn
	return prev
}

func (w *Window) SetCharCallback(fn CharFunc) CharFunc {
	prev := w.callbacks.char
	w.callbacks.char = fn
	return prev
}

func (w *Window) SetDropCallback(fn DropFunc) DropFunc {
	prev := w.callbacks.drop
	w.callbacks.drop = fn
	return prev
}
