package windowing

import "github.com/1broseidon/windowkit/internal/platform"

// Key returns the last reported state of key: Pressed or Released.
func (w *Window) Key(key Key) KeyState {
	if w.check() != nil {
		return platform.Released
	}
	if !key.Valid() {
		w.state.inputError(platform.InvalidEnum, "Invalid key %d", int(key))
		return platform.Released
	}
	return w.keys[key]
}

// MouseButton returns the last reported state of button.
func (w *Window) MouseButton(button MouseButton) KeyState {
	if w.check() != nil {
		return platform.Released
	}
	if !button.Valid() {
		w.state.inputError(platform.InvalidEnum, "Invalid mouse button %d", int(button))
		return platform.Released
	}
	return w.buttons[button]
}

// The methods below implement platform.WindowEvents. Backends call them from
// inside PollEvents and WaitEvents.

func (w *Window) InputWindowPos(x, y int) {
	if fn := w.callbacks.pos; fn != nil {
		fn(w, x, y)
	}
}

func (w *Window) InputWindowSize(width, height int) {
	if fn := w.callbacks.size; fn != nil {
		fn(w, width, height)
	}
}

func (w *Window) InputFramebufferSize(width, height int) {
	if fn := w.callbacks.fbsize; fn != nil {
		fn(w, width, height)
	}
}

func (w *Window) InputWindowContentScale(xscale, yscale float32) {
	if fn := w.callbacks.contentScale; fn != nil {
		fn(w, xscale, yscale)
	}
}

func (w *Window) InputWindowMinimize(minimized bool) {
	if fn := w.callbacks.minimize; fn != nil {
		fn(w, minimized)
	}
}

func (w *Window) InputWindowMaximize(maximized bool) {
	if fn := w.callbacks.maximize; fn != nil {
		fn(w, maximized)
	}
}

// InputWindowFocus records focus changes. On focus loss the callback runs
// first, then every held key and button gets a synthetic release. A disabled
// cursor is handed back at its restore position while unfocused and locked
// again, from wherever the pointer is, on focus gain.
func (w *Window) InputWindowFocus(focused bool) {
	if w.native == nil || w.focused == focused {
		return
	}
	w.focused = focused

	if focused {
		if w.cursorMode == platform.CursorDisabled {
			w.restoreCursorX, w.restoreCursorY = w.native.CursorPos()
		}
		if capturing(w.cursorMode) {
			w.applyCursorMode(false)
		}
		w.updateCursorImage()
	} else if capturing(w.cursorMode) {
		disabled := w.cursorMode == platform.CursorDisabled
		w.releaseDisabled()
		w.native.SetCursorCapture(platform.CursorNormal)
		if disabled {
			w.native.SetCursorPos(w.restoreCursorX, w.restoreCursorY)
		}
	}

	if fn := w.callbacks.focus; fn != nil {
		fn(w, focused)
	}

	if focused {
		return
	}
	for key := platform.KeySpace; key <= platform.KeyLast; key++ {
		if w.keys[key] == platform.Pressed {
			w.InputKey(key, w.state.backend.KeyScancode(key), platform.Released)
		}
	}
	for button := platform.MouseButton1; button <= platform.MouseButtonLast; button++ {
		if w.buttons[button] == platform.Pressed {
			w.InputMouseClick(button, platform.Released)
		}
	}
}

func (w *Window) InputWindowCloseRequest() {
	w.shouldClose = true
	if fn := w.callbacks.close; fn != nil {
		fn(w)
	}
}

// InputKey tracks key state. A press of a held key is delivered as Repeat and
// a release of a key that is not held is dropped.
func (w *Window) InputKey(key Key, scancode int, state KeyState) {
	if key.Valid() {
		held := w.keys[key] == platform.Pressed
		switch state {
		case platform.Released:
			if !held {
				return
			}
			w.keys[key] = platform.Released
		case platform.Pressed:
			if held {
				state = platform.Repeat
			}
			w.keys[key] = platform.Pressed
		case platform.Repeat:
			w.keys[key] = platform.Pressed
		}
	}
	if fn := w.callbacks.key; fn != nil {
		fn(w, key, state)
	}
}

// InputChar drops control characters: below 32 and 127 through 159.
func (w *Window) InputChar(codepoint rune) {
	if codepoint < 32 || (codepoint > 126 && codepoint < 160) {
		return
	}
	if fn := w.callbacks.char; fn != nil {
		fn(w, codepoint)
	}
}

// InputMouseClick tracks button state with the same rules as InputKey.
func (w *Window) InputMouseClick(button MouseButton, state KeyState) {
	if !button.Valid() {
		return
	}
	held := w.buttons[button] == platform.Pressed
	switch state {
	case platform.Released:
		if !held {
			return
		}
		w.buttons[button] = platform.Released
	default:
		if held {
			state = platform.Repeat
		}
		w.buttons[button] = platform.Pressed
	}
	if fn := w.callbacks.mouseButton; fn != nil {
		fn(w, button, state)
	}
}

// InputCursorPos reports a new absolute position; unchanged positions are
// dropped.
func (w *Window) InputCursorPos(x, y float64) {
	if w.virtualCursorX == x && w.virtualCursorY == y {
		return
	}
	w.virtualCursorX, w.virtualCursorY = x, y
	if fn := w.callbacks.cursorPos; fn != nil {
		fn(w, x, y)
	}
}

// InputCursorDelta accumulates relative motion into the virtual position.
func (w *Window) InputCursorDelta(dx, dy float64) {
	w.InputCursorPos(w.virtualCursorX+dx, w.virtualCursorY+dy)
}

func (w *Window) InputCursorEnter(entered bool) {
	w.hovered = entered
	if entered && w.native != nil {
		w.updateCursorImage()
	}
	if fn := w.callbacks.cursorEnter; fn != nil {
		fn(w, entered)
	}
}

func (w *Window) InputScroll(xoffset, yoffset float64) {
	if fn := w.callbacks.scroll; fn != nil {
		fn(w, xoffset, yoffset)
	}
}

func (w *Window) InputDrop(paths []string) {
	if len(paths) == 0 {
		return
	}
	if fn := w.callbacks.drop; fn != nil {
		fn(w, paths)
	}
}
