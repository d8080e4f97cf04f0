//go:build windows

package win32

import (
	"unicode"
	"unicode/utf16"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"golang.org/x/sys/windows"
)

// handleMessage processes a message for w. ok is false when the message
// should also reach DefWindowProc.
func (w *Window) handleMessage(message uint32, wParam, lParam uintptr) (result uintptr, ok bool) {
	switch message {
	case wmMouseActivate:
		// A click on the title bar starts a frame action; the cursor stays
		// free until it ends.
		if hiword(lParam) == wmLButtonDown && loword(lParam) == htCaption {
			w.frameAction = true
		}

	case wmCaptureChanged:
		if lParam == 0 && w.frameAction {
			w.frameAction = false
			w.reclipCursor()
		}

	case wmSetFocus:
		w.focused = true
		w.events.InputWindowFocus(true)
		return 0, true

	case wmKillFocus:
		w.focused = false
		w.events.InputWindowFocus(false)
		return 0, true

	case wmSysCommand:
		switch wParam & 0xfff0 {
		case scScreenSave, scMonitorPower:
			// Keep the monitor on while full screen.
			if w.monitor != nil {
				return 0, true
			}
		}

	case wmClose:
		w.events.InputWindowCloseRequest()
		return 0, true

	case wmInputLangChange:
		w.b.keyNames = nil

	case wmChar, wmSysChar:
		if r, complete := w.decodeChar(uint16(wParam)); complete {
			w.events.InputChar(r)
		}
		return 0, true

	case wmUniChar:
		// Probe from the system to see whether WM_UNICHAR is supported.
		if wParam == unicodeNoChar {
			return 1, true
		}
		w.events.InputChar(rune(wParam))
		return 0, true

	case wmKeyDown, wmSysKeyDown, wmKeyUp, wmSysKeyUp:
		w.handleKey(wParam, lParam)

	case wmLButtonDown, wmRButtonDown, wmMButtonDown, wmXButtonDown,
		wmLButtonUp, wmRButtonUp, wmMButtonUp, wmXButtonUp:
		w.handleButton(message, wParam)
		if message == wmXButtonDown || message == wmXButtonUp {
			return 1, true
		}
		return 0, true

	case wmMouseMove:
		w.handleMouseMove(lParam)
		return 0, true

	case wmInput:
		w.handleRawInput(lParam)

	case wmMouseLeave:
		w.hovered = false
		w.events.InputCursorEnter(false)
		return 0, true

	case wmMouseWheel:
		w.events.InputScroll(0, float64(int16(hiword(wParam)))/wheelDelta)
		return 0, true

	case wmMouseHWheel:
		// This message is only sent on Windows Vista and later.
		w.events.InputScroll(-float64(int16(hiword(wParam)))/wheelDelta, 0)
		return 0, true

	case wmEnterSizeMove, wmEnterMenuLoop:
		if w.frameAction {
			break
		}
		if w.b.captured == w {
			procClipCursor.Call(0)
		}

	case wmExitSizeMove, wmExitMenuLoop:
		if w.frameAction {
			break
		}
		w.reclipCursor()

	case wmSize:
		w.handleSize(wParam, lParam)
		return 0, true

	case wmMove:
		if w.b.captured == w {
			w.captureCursor()
		}
		x, y := lparamPoint(lParam)
		w.events.InputWindowPos(int(x), int(y))
		return 0, true

	case wmSizing:
		if w.numer == platform.DontCare || w.denom == platform.DontCare {
			break
		}
		w.applyAspectRatio(wParam, (*rect)(unsafe.Pointer(lParam)))
		return 1, true

	case wmGetMinMaxInfo:
		if w.monitor != nil {
			break
		}
		w.applyMinMaxInfo((*minMaxInfo)(unsafe.Pointer(lParam)))
		return 0, true

	case wmEraseBkgnd:
		return 1, true

	case wmNCActivate, wmNCPaint:
		// Keep Windows from drawing a title bar on undecorated windows.
		if !w.decorated {
			return 1, true
		}

	case wmDpiChanged:
		scale := float32(hiword(wParam)) / userDefaultDPI
		if w.monitor == nil {
			suggested := (*rect)(unsafe.Pointer(lParam))
			procSetWindowPos.Call(w.hwnd, hwndTop,
				uintptr(suggested.left), uintptr(suggested.top),
				uintptr(suggested.right-suggested.left), uintptr(suggested.bottom-suggested.top),
				swpNoActivate|swpNoZOrder)
		}
		w.events.InputWindowContentScale(scale, scale)

	case wmSetCursor:
		if loword(lParam) == htClient {
			procSetCursor.Call(w.cursor)
			return 1, true
		}

	case wmDropFiles:
		w.handleDrop(wParam)
		return 0, true
	}
	return 0, false
}

// decodeChar combines UTF-16 surrogate pairs split over two messages.
func (w *Window) decodeChar(unit uint16) (rune, bool) {
	switch {
	case utf16.IsSurrogate(rune(unit)) && unit < 0xdc00:
		w.highSurrogate = unit
		return 0, false
	case utf16.IsSurrogate(rune(unit)):
		high := w.highSurrogate
		w.highSurrogate = 0
		if high == 0 {
			return 0, false
		}
		r := utf16.DecodeRune(rune(high), rune(unit))
		return r, r != unicode.ReplacementChar
	default:
		w.highSurrogate = 0
		return rune(unit), true
	}
}

// handleKey translates a key message. Windows reports several keys in ways
// that need fixing up before they reach the key table.
func (w *Window) handleKey(wParam, lParam uintptr) {
	b := w.b
	flags := hiword(lParam)
	state := platform.Pressed
	if flags&kfUp != 0 {
		state = platform.Released
	}

	scancode := int(flags & (kfExtended | 0xff))
	if scancode == 0 {
		// NOTE: Some synthetic key messages have a scancode of zero.
		r, _, _ := procMapVirtualKey.Call(wParam, mapVKToVSC)
		scancode = int(r)
	}
	scancode = fixScancode(scancode)
	key := b.keycodes[scancode&0x1ff]

	switch wParam {
	case vkControl:
		if flags&kfExtended != 0 {
			// Right side keys have the extended key bit set.
			key = platform.KeyRightControl
		} else if w.fakeControl() {
			return
		} else {
			key = platform.KeyLeftControl
		}
	case vkProcess:
		// An IME is composing; the characters arrive as WM_CHAR.
		return
	}

	switch {
	case state == platform.Released && wParam == vkShift:
		// Releasing one Shift while both are held reports no release for
		// the other, so release both.
		w.inputKey(platform.KeyLeftShift, scancode, state)
		w.inputKey(platform.KeyRightShift, scancode, state)
	case wParam == vkSnapshot:
		// Print Screen only sends a release.
		w.inputKey(key, scancode, platform.Pressed)
		w.inputKey(key, scancode, platform.Released)
	default:
		w.inputKey(key, scancode, state)
	}
}

// fixScancode maps the scancodes some key combinations report onto the
// plain key's scancode.
func fixScancode(scancode int) int {
	switch scancode {
	case 0x54: // Alt+Print Screen
		return 0x137
	case 0x146: // Ctrl+Pause
		return 0x45
	case 0x136: // right Shift with the extended bit from CJK IMEs
		return 0x36
	}
	return scancode
}

// fakeControl reports whether the Left Control message just received is
// the one AltGr sends ahead of Right Alt.
func (w *Window) fakeControl() bool {
	var next msg
	t, _, _ := procGetMessageTime.Call()
	if r, _, _ := procPeekMessage.Call(ptr(&next), 0, 0, 0, pmNoRemove); r == 0 {
		return false
	}
	switch next.message {
	case wmKeyDown, wmSysKeyDown, wmKeyUp, wmSysKeyUp:
		return next.wParam == vkMenu && hiword(next.lParam)&kfExtended != 0 && next.time == uint32(t)
	}
	return false
}

func (w *Window) inputKey(key platform.Key, scancode int, state platform.KeyState) {
	if state == platform.Released {
		delete(w.keysDown, key)
	} else {
		w.keysDown[key] = true
	}
	w.events.InputKey(key, scancode, state)
}

func (w *Window) handleButton(message uint32, wParam uintptr) {
	var button platform.MouseButton
	switch message {
	case wmLButtonDown, wmLButtonUp:
		button = platform.MouseButtonLeft
	case wmRButtonDown, wmRButtonUp:
		button = platform.MouseButtonRight
	case wmMButtonDown, wmMButtonUp:
		button = platform.MouseButtonMiddle
	default:
		if hiword(wParam) == xButton1 {
			button = platform.MouseButton4
		} else {
			button = platform.MouseButton5
		}
	}
	state := platform.Released
	switch message {
	case wmLButtonDown, wmRButtonDown, wmMButtonDown, wmXButtonDown:
		state = platform.Pressed
	}

	// Capture the mouse while any button is held so releases outside the
	// window are still seen.
	bit := uint8(1) << button
	if state == platform.Pressed {
		if w.buttons == 0 {
			procSetCapture.Call(w.hwnd)
		}
		w.buttons |= bit
	} else {
		w.buttons &^= bit
		if w.buttons == 0 {
			procReleaseCapture.Call()
		}
	}
	w.events.InputMouseClick(button, state)
}

func (w *Window) handleMouseMove(lParam uintptr) {
	px, py := lparamPoint(lParam)
	x, y := float64(px), float64(py)

	if !w.hovered {
		tme := trackMouseEvent{flags: tmeLeave, track: w.hwnd}
		tme.size = uint32(unsafe.Sizeof(tme))
		procTrackMouseEvent.Call(ptr(&tme))
		w.hovered = true
		w.events.InputCursorEnter(true)
	}

	if w.b.disabled == w {
		if w.rawMotion {
			return
		}
		dx, dy := x-w.lastCursorX, y-w.lastCursorY
		if dx != 0 || dy != 0 {
			w.events.InputCursorDelta(dx, dy)
		}
	} else {
		w.events.InputCursorPos(x, y)
	}
	w.lastCursorX, w.lastCursorY = x, y
}

// handleRawInput reports raw mouse deltas while the cursor is disabled.
func (w *Window) handleRawInput(lParam uintptr) {
	b := w.b
	if b.disabled != w || !w.rawMotion {
		return
	}
	var size uint32
	headerSize := unsafe.Sizeof(rawInputHeader{})
	procGetRawInputData.Call(lParam, ridInput, 0, ptr(&size), headerSize)
	if size == 0 {
		return
	}
	if int(size) > len(b.rawInput) {
		b.rawInput = make([]byte, size)
	}
	r, _, _ := procGetRawInputData.Call(lParam, ridInput, uintptr(unsafe.Pointer(&b.rawInput[0])), ptr(&size), headerSize)
	if int32(r) == -1 {
		b.logger.Warn("failed to retrieve raw input data")
		return
	}
	data := (*rawInput)(unsafe.Pointer(&b.rawInput[0]))

	var dx, dy float64
	if data.mouse.flags&mouseMoveAbs != 0 {
		var origin point
		width, height := systemMetric(smCXScreen), systemMetric(smCYScreen)
		if data.mouse.flags&mouseVirtualDesktop != 0 {
			origin = point{x: int32(systemMetric(smXVirtualScreen)), y: int32(systemMetric(smYVirtualScreen))}
			width, height = systemMetric(smCXVirtualScreen), systemMetric(smCYVirtualScreen)
		}
		p := point{
			x: origin.x + int32(float64(data.mouse.lastX)/65535*float64(width)),
			y: origin.y + int32(float64(data.mouse.lastY)/65535*float64(height)),
		}
		procScreenToClient.Call(w.hwnd, ptr(&p))
		dx, dy = float64(p.x)-w.lastCursorX, float64(p.y)-w.lastCursorY
	} else {
		dx, dy = float64(data.mouse.lastX), float64(data.mouse.lastY)
	}
	w.events.InputCursorDelta(dx, dy)
	w.lastCursorX += dx
	w.lastCursorY += dy
}

func (w *Window) handleSize(wParam, lParam uintptr) {
	width, height := int(loword(lParam)), int(hiword(lParam))
	minimized := wParam == sizeMinimized
	maximized := wParam == sizeMaximized || (w.maximized && wParam != sizeRestored)

	if w.b.captured == w {
		w.captureCursor()
	}
	if w.minimized != minimized {
		w.events.InputWindowMinimize(minimized)
	}
	if w.maximized != maximized {
		w.events.InputWindowMaximize(maximized)
	}
	if width != w.width || height != w.height {
		w.width, w.height = width, height
		w.events.InputFramebufferSize(width, height)
		w.events.InputWindowSize(width, height)
	}
	w.minimized, w.maximized = minimized, maximized
}

// applyMinMaxInfo turns the content size limits into frame limits.
func (w *Window) applyMinMaxInfo(mmi *minMaxInfo) {
	var frame rect
	w.adjustRect(&frame)
	fw, fh := frame.right-frame.left, frame.bottom-frame.top

	if w.minWidth != platform.DontCare && w.minHeight != platform.DontCare {
		mmi.minTrackSize = point{x: int32(w.minWidth) + fw, y: int32(w.minHeight) + fh}
	}
	if w.maxWidth != platform.DontCare && w.maxHeight != platform.DontCare {
		mmi.maxTrackSize = point{x: int32(w.maxWidth) + fw, y: int32(w.maxHeight) + fh}
	}
	if !w.decorated {
		// Maximize undecorated windows to the work area, not the monitor.
		mi := monitorInfoEx{}
		mi.size = uint32(unsafe.Sizeof(mi))
		handle, _, _ := procMonitorFromWindow.Call(w.hwnd, monitorNearest)
		procGetMonitorInfo.Call(handle, ptr(&mi))
		mmi.maxPosition = point{x: mi.work.left - mi.monitor.left, y: mi.work.top - mi.monitor.top}
		mmi.maxSize = point{x: mi.work.right - mi.work.left, y: mi.work.bottom - mi.work.top}
	}
}

// reclipCursor restores the confinement of a captured cursor after a frame
// action released it.
func (w *Window) reclipCursor() {
	if w.capture == platform.CursorDisabled || w.capture == platform.CursorCaptured {
		if w.focused {
			w.captureCursor()
		}
	}
}

func (w *Window) handleDrop(drop uintptr) {
	defer procDragFinish.Call(drop)

	count, _, _ := procDragQueryFile.Call(drop, 0xffffffff, 0, 0)
	var p point
	procDragQueryPoint.Call(drop, ptr(&p))
	w.events.InputCursorPos(float64(p.x), float64(p.y))

	paths := make([]string, 0, count)
	for i := uintptr(0); i < count; i++ {
		n, _, _ := procDragQueryFile.Call(drop, i, 0, 0)
		buf := make([]uint16, n+1)
		procDragQueryFile.Call(drop, i, uintptr(unsafe.Pointer(&buf[0])), n+1)
		paths = append(paths, windows.UTF16ToString(buf))
	}
	if len(paths) > 0 {
		w.events.InputDrop(paths)
	}
}
