//go:build linux

package wayland

import (
	"encoding/binary"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
	"golang.org/x/sys/unix"
)

func (b *Backend) handleSeat(opcode uint32, args eventArgs) {
	if opcode != seatCapabilities {
		return
	}
	caps := args.Uint(0)

	switch {
	case caps&seatCapabilityPointer != 0 && b.pointer == 0:
		b.pointer = b.g.seat.create(seatGetPointer, pointerIface, 0, newID{})
		b.pointer.listen(b.handlePointer)
		if b.g.relativePointers != 0 {
			b.relativePointer = b.g.relativePointers.create(relativePointerManagerGet, relativePointerIface, 0, newID{}, b.pointer)
			b.relativePointer.listen(b.handleRelativePointer)
		}
	case caps&seatCapabilityPointer == 0 && b.pointer != 0:
		b.releasePointerDevice()
	}

	switch {
	case caps&seatCapabilityKeyboard != 0 && b.keyboard == 0:
		b.keyboard = b.g.seat.create(seatGetKeyboard, keyboardIface, 0, newID{})
		b.keyboard.listen(b.handleKeyboard)
	case caps&seatCapabilityKeyboard == 0 && b.keyboard != 0:
		b.releaseKeyboardDevice()
	}
}

func (b *Backend) releaseSeatDevices() {
	b.releasePointerDevice()
	b.releaseKeyboardDevice()
}

func (b *Backend) releasePointerDevice() {
	b.relativePointer.destroy(relativePointerDestroy)
	b.relativePointer = 0
	if b.pointer != 0 {
		if b.pointer.version() >= 3 {
			b.pointer.destroy(pointerRelease)
		} else {
			b.pointer.release()
		}
		b.pointer = 0
	}
	b.pointerFocus = nil
}

func (b *Backend) releaseKeyboardDevice() {
	b.stopKeyRepeat()
	if b.keyboard != 0 {
		if b.keyboard.version() >= 3 {
			b.keyboard.destroy(keyboardRelease)
		} else {
			b.keyboard.release()
		}
		b.keyboard = 0
	}
	b.keyboardFocus = nil
}

func (b *Backend) handlePointer(opcode uint32, args eventArgs) {
	switch opcode {
	case pointerEnter:
		w := b.windows[args.Object(1)]
		if w == nil {
			return
		}
		b.pointerSerial = args.Uint(0)
		b.pointerFocus = w
		w.cursorX, w.cursorY = args.Fixed(2), args.Fixed(3)
		b.updateCursor(w)
		w.events.InputCursorEnter(true)
		w.events.InputCursorPos(w.cursorX, w.cursorY)
	case pointerLeave:
		w := b.pointerFocus
		if w == nil {
			return
		}
		b.pointerSerial = args.Uint(0)
		b.pointerFocus = nil
		w.events.InputCursorEnter(false)
	case pointerMotion:
		w := b.pointerFocus
		if w == nil {
			return
		}
		x, y := args.Fixed(1), args.Fixed(2)
		dx, dy := x-w.cursorX, y-w.cursorY
		w.cursorX, w.cursorY = x, y
		if w.events.CursorMode() == platform.CursorDisabled {
			// Without a relative pointer the lock is unavailable and
			// absolute motion stands in for it.
			if b.relativePointer == 0 {
				w.events.InputCursorDelta(dx, dy)
			}
			return
		}
		w.events.InputCursorPos(x, y)
	case pointerButton:
		w := b.pointerFocus
		if w == nil {
			return
		}
		b.pointerSerial = args.Uint(0)
		b.inputSerial = args.Uint(0)
		button, ok := translateButton(args.Uint(2))
		if !ok {
			return
		}
		state := platform.Released
		if args.Uint(3) == buttonStatePressed {
			state = platform.Pressed
		}
		w.events.InputMouseClick(button, state)
	case pointerAxis:
		w := b.pointerFocus
		if w == nil {
			return
		}
		// One wheel notch is ten units of axis motion.
		value := -args.Fixed(2) / 10
		switch args.Uint(1) {
		case axisVerticalScroll:
			w.events.InputScroll(0, value)
		case axisHorizontalScroll:
			w.events.InputScroll(value, 0)
		}
	}
}

func (b *Backend) handleRelativePointer(opcode uint32, args eventArgs) {
	w := b.pointerFocus
	if opcode != relativePointerMotion || w == nil || w.events.CursorMode() != platform.CursorDisabled {
		return
	}
	dx, dy := args.Fixed(2), args.Fixed(3)
	if w.rawMotion {
		dx, dy = args.Fixed(4), args.Fixed(5)
	}
	w.events.InputCursorDelta(dx, dy)
}

func (b *Backend) handleKeyboard(opcode uint32, args eventArgs) {
	switch opcode {
	case keyboardKeymap:
		fd := args.FD(1)
		defer unix.Close(fd)
		if args.Uint(0) != keyboardKeymapFormatXKBV1 {
			b.logger.Warn("unknown keymap format", "format", args.Uint(0))
			return
		}
		if err := b.loadKeymap(fd, int(args.Uint(2))); err != nil {
			b.logger.Error("failed to load keymap", "error", err)
		}
	case keyboardEnter:
		w := b.windows[args.Object(1)]
		if w == nil {
			return
		}
		b.inputSerial = args.Uint(0)
		b.keyboardFocus = w
		w.events.InputWindowFocus(true)
	case keyboardLeave:
		w := b.keyboardFocus
		if w == nil {
			return
		}
		b.inputSerial = args.Uint(0)
		b.keyboardFocus = nil
		b.stopKeyRepeat()
		w.events.InputWindowFocus(false)
	case keyboardKey:
		w := b.keyboardFocus
		if w == nil {
			return
		}
		b.inputSerial = args.Uint(0)
		scancode := args.Uint(2)
		pressed := args.Uint(3) == keyStatePressed
		b.inputKey(w, scancode, pressed)
		switch {
		case pressed && b.repeatRate > 0 && b.xkb.repeats(scancode):
			b.startKeyRepeat(scancode)
		case !pressed && scancode == b.repeatKey:
			b.stopKeyRepeat()
		}
	case keyboardModifiers:
		b.inputSerial = args.Uint(0)
		b.xkb.updateModifiers(args.Uint(1), args.Uint(2), args.Uint(3), args.Uint(4))
	case keyboardRepeatInfo:
		b.repeatRate, b.repeatDelay = args.Int(0), args.Int(1)
	}
}

func (b *Backend) loadKeymap(fd, size int) error {
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	text := append([]byte(nil), data...)
	unix.Munmap(data)
	return b.xkb.loadKeymap(text)
}

// inputKey reports a key transition and, for presses, the typed character.
func (b *Backend) inputKey(w *Window, scancode uint32, pressed bool) {
	state := platform.Released
	if pressed {
		state = platform.Pressed
	}
	w.events.InputKey(translateKey(scancode), int(scancode), state)
	if pressed {
		b.inputChar(w, scancode)
	}
}

func (b *Backend) inputChar(w *Window, scancode uint32) {
	if b.xkb.controlActive() {
		return
	}
	if r, ok := b.xkb.keyRune(scancode); ok {
		w.events.InputChar(r)
	}
}

// Client-side key repeat, driven by a timerfd polled with the display.

func (b *Backend) startKeyRepeat(scancode uint32) {
	b.repeatKey = scancode
	interval := time.Second / time.Duration(b.repeatRate)
	spec := unix.ItimerSpec{
		Value:    unix.NsecToTimespec(int64(time.Duration(b.repeatDelay) * time.Millisecond)),
		Interval: unix.NsecToTimespec(int64(interval)),
	}
	if err := unix.TimerfdSettime(b.repeatFD, 0, &spec, nil); err != nil {
		b.logger.Warn("failed to arm key repeat", "error", err)
	}
}

func (b *Backend) stopKeyRepeat() {
	b.repeatKey = 0
	if b.repeatFD < 0 {
		return
	}
	var spec unix.ItimerSpec
	unix.TimerfdSettime(b.repeatFD, 0, &spec, nil)
}

// fireKeyRepeat emits one repeat per expiration since the last read.
func (b *Backend) fireKeyRepeat() bool {
	var buf [8]byte
	n, err := unix.Read(b.repeatFD, buf[:])
	if err != nil || n != len(buf) {
		return false
	}
	w := b.keyboardFocus
	if w == nil || b.repeatKey == 0 {
		return false
	}
	count := binary.NativeEndian.Uint64(buf[:])
	key := translateKey(b.repeatKey)
	for range count {
		w.events.InputKey(key, int(b.repeatKey), platform.Repeat)
		b.inputChar(w, b.repeatKey)
	}
	return count > 0
}

// Cursor position and capture.

func (w *Window) CursorPos() (x, y float64) { return w.cursorX, w.cursorY }

// SetCursorPos cannot warp the pointer on Wayland; while locked the new
// position is sent as a hint for where the cursor reappears.
func (w *Window) SetCursorPos(x, y float64) {
	if w.locked == 0 {
		return
	}
	w.locked.request(lockedPointerCursorHint, fixed(x), fixed(y))
	w.commit()
}

func (w *Window) SetCursorCapture(mode platform.CursorMode) {
	if mode == w.captureMode {
		return
	}
	w.releasePointer()
	w.captureMode = mode
	b := w.b
	pc := b.g.pointerConstraints
	if pc == 0 || b.pointer == 0 {
		if mode == platform.CursorDisabled || mode == platform.CursorCaptured {
			b.logger.Debug("compositor does not support pointer constraints")
		}
		return
	}
	switch mode {
	case platform.CursorDisabled:
		w.locked = pc.create(pointerConstraintsLock, lockedPointerIface, 0, newID{}, w.surface, b.pointer, nil, uint32(constraintLifetimePersistent))
	case platform.CursorCaptured:
		w.confined = pc.create(pointerConstraintsConfine, confinedPointerIface, 0, newID{}, w.surface, b.pointer, nil, uint32(constraintLifetimePersistent))
	}
}

func (w *Window) releasePointer() {
	w.locked.destroy(lockedPointerDestroy)
	w.locked = 0
	w.confined.destroy(confinedPointerDestroy)
	w.confined = 0
	w.captureMode = platform.CursorNormal
}

func (w *Window) ApplyCursor(mode platform.CursorMode, cursor platform.NativeCursor) {
	w.cursorMode = mode
	w.cursor, _ = cursor.(*Cursor)
	if w.b.pointerFocus == w {
		w.b.updateCursor(w)
	}
}

func (w *Window) SetRawMouseMotion(enabled bool) { w.rawMotion = enabled }
