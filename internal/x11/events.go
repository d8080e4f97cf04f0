package x11

import (
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// handleEvent translates one server event into window notifications.
func (b *Backend) handleEvent(ev xgb.Event) {
	switch e := ev.(type) {
	case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
		b.refreshMonitors()
	case xproto.MappingNotifyEvent:
		if e.Request == xproto.MappingKeyboard || e.Request == xproto.MappingModifier {
			keyMap, modMap := keybind.MapsGet(b.conn.XUtil)
			keybind.KeyMapSet(b.conn.XUtil, keyMap)
			keybind.ModMapSet(b.conn.XUtil, modMap)
			b.buildKeyTable()
			b.numLockMask = b.findNumLockMask()
		}
	case xproto.SelectionRequestEvent:
		b.handleSelectionRequest(e)
	case xproto.SelectionClearEvent:
		if e.Owner == b.helper && e.Selection == b.conn.atom("CLIPBOARD") {
			b.ownsClipboard = false
			b.clipboard = ""
		}
	case xproto.SelectionNotifyEvent:
		if w := b.windows[e.Requestor]; w != nil && e.Selection == b.conn.atom("XdndSelection") {
			b.finishDrop(w, e)
		}
	case xproto.KeyPressEvent:
		if w := b.windows[e.Event]; w != nil {
			b.handleKeyPress(w, e)
		}
	case xproto.KeyReleaseEvent:
		if w := b.windows[e.Event]; w != nil {
			b.handleKeyRelease(w, e)
		}
	case xproto.ButtonPressEvent:
		if w := b.windows[e.Event]; w != nil {
			handleButton(w, e.Detail, platform.Pressed)
		}
	case xproto.ButtonReleaseEvent:
		if w := b.windows[e.Event]; w != nil {
			handleButton(w, e.Detail, platform.Released)
		}
	case xproto.MotionNotifyEvent:
		if w := b.windows[e.Event]; w != nil {
			w.handleMotion(float64(e.EventX), float64(e.EventY))
		}
	case xproto.EnterNotifyEvent:
		if w := b.windows[e.Event]; w != nil {
			w.hovered = true
			w.events.InputCursorEnter(true)
			w.handleMotion(float64(e.EventX), float64(e.EventY))
		}
	case xproto.LeaveNotifyEvent:
		if w := b.windows[e.Event]; w != nil {
			w.hovered = false
			w.events.InputCursorEnter(false)
		}
	case xproto.FocusInEvent:
		if w := b.windows[e.Event]; w != nil && !grabFocusMode(e.Mode) {
			w.focused = true
			w.events.InputWindowFocus(true)
		}
	case xproto.FocusOutEvent:
		if w := b.windows[e.Event]; w != nil && !grabFocusMode(e.Mode) {
			w.focused = false
			w.events.InputWindowFocus(false)
		}
	case xproto.ConfigureNotifyEvent:
		if w := b.windows[e.Window]; w != nil && e.Event == e.Window {
			w.handleConfigure(e)
		}
	case xproto.MapNotifyEvent:
		if w := b.windows[e.Window]; w != nil {
			w.mapped = true
		}
	case xproto.UnmapNotifyEvent:
		if w := b.windows[e.Window]; w != nil {
			w.mapped = false
		}
	case xproto.PropertyNotifyEvent:
		if w := b.windows[e.Window]; w != nil {
			w.handleProperty(e)
		}
	case xproto.ClientMessageEvent:
		if w := b.windows[e.Window]; w != nil {
			b.handleClientMessage(w, e)
		}
	}
}

// Focus changes caused by grabs, including the window manager's own while
// dragging, are not real focus changes.
func grabFocusMode(mode byte) bool {
	return mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab
}

func (b *Backend) handleKeyPress(w *Window, e xproto.KeyPressEvent) {
	key := b.translateKey(e.Detail)
	w.events.InputKey(key, int(e.Detail), platform.Pressed)
	if e.State&xproto.ModMaskControl != 0 {
		return
	}
	if r, ok := b.lookupRune(e.Detail, e.State); ok {
		w.events.InputChar(r)
	}
}

// handleKeyRelease drops the release half of a server auto-repeat pair,
// which is followed at once by a press with the same keycode and time.
func (b *Backend) handleKeyRelease(w *Window, e xproto.KeyReleaseEvent) {
	if next, ok := b.peekEvent().(xproto.KeyPressEvent); ok {
		if next.Event == e.Event && next.Detail == e.Detail && next.Time == e.Time {
			return
		}
	}
	w.events.InputKey(b.translateKey(e.Detail), int(e.Detail), platform.Released)
}

// handleButton maps core buttons: 1-3 are left, middle and right, 4-7 are
// wheel steps and 8 and up are the extra buttons.
func handleButton(w *Window, detail xproto.Button, state platform.KeyState) {
	switch detail {
	case 1:
		w.events.InputMouseClick(platform.MouseButtonLeft, state)
	case 2:
		w.events.InputMouseClick(platform.MouseButtonMiddle, state)
	case 3:
		w.events.InputMouseClick(platform.MouseButtonRight, state)
	case 4, 5, 6, 7:
		if state != platform.Pressed {
			return
		}
		switch detail {
		case 4:
			w.events.InputScroll(0, 1)
		case 5:
			w.events.InputScroll(0, -1)
		case 6:
			w.events.InputScroll(1, 0)
		case 7:
			w.events.InputScroll(-1, 0)
		}
	default:
		button := platform.MouseButton4 + platform.MouseButton(detail-8)
		if button.Valid() {
			w.events.InputMouseClick(button, state)
		}
	}
}

// handleMotion reports absolute motion, or the delta from the last position
// while the pointer is locked to this window.
func (w *Window) handleMotion(x, y float64) {
	if x == w.lastCursorX && y == w.lastCursorY {
		return
	}
	if w.b.disabled == w {
		w.events.InputCursorDelta(x-w.lastCursorX, y-w.lastCursorY)
	} else {
		w.events.InputCursorPos(x, y)
	}
	w.lastCursorX, w.lastCursorY = x, y
}

// recenterDisabledCursor warps a locked pointer back to the window centre so
// it never hits the screen edge.
func (b *Backend) recenterDisabledCursor() {
	w := b.disabled
	if w == nil || !w.focused {
		return
	}
	cx, cy := float64(w.width/2), float64(w.height/2)
	if w.lastCursorX != cx || w.lastCursorY != cy {
		w.SetCursorPos(cx, cy)
	}
}

func (w *Window) handleConfigure(e xproto.ConfigureNotifyEvent) {
	width, height := int(e.Width), int(e.Height)
	if width != w.width || height != w.height {
		w.width, w.height = width, height
		w.events.InputWindowSize(width, height)
		w.events.InputFramebufferSize(width, height)
	}

	// Reparenting window managers report the position relative to the frame.
	x, y, err := w.Pos()
	if err != nil {
		return
	}
	if x != w.x || y != w.y {
		w.x, w.y = x, y
		w.events.InputWindowPos(x, y)
	}
}

func (w *Window) handleProperty(e xproto.PropertyNotifyEvent) {
	if e.State != xproto.PropertyNewValue {
		return
	}
	switch e.Atom {
	case w.b.conn.atom("WM_STATE"):
		if minimized := w.Minimized(); minimized != w.minimized {
			w.minimized = minimized
			w.events.InputWindowMinimize(minimized)
		}
	case w.b.conn.atom("_NET_WM_STATE"):
		if maximized := w.Maximized(); maximized != w.maximized {
			w.maximized = maximized
			w.events.InputWindowMaximize(maximized)
		}
	}
}

func (b *Backend) handleClientMessage(w *Window, e xproto.ClientMessageEvent) {
	c := b.conn
	switch e.Type {
	case c.atom("WM_PROTOCOLS"):
		if len(e.Data.Data32) == 0 {
			return
		}
		switch xproto.Atom(e.Data.Data32[0]) {
		case c.atom("WM_DELETE_WINDOW"):
			w.events.InputWindowCloseRequest()
		case c.atom("_NET_WM_PING"):
			// The window manager checks we are alive; echo to the root.
			reply := e
			reply.Window = c.Root
			xproto.SendEvent(c.XUtil.Conn(), false, c.Root,
				xproto.EventMaskSubstructureNotify|xproto.EventMaskSubstructureRedirect,
				string(reply.Bytes()))
		}
	case c.atom("XdndEnter"), c.atom("XdndPosition"), c.atom("XdndDrop"), c.atom("XdndLeave"):
		b.handleXdnd(w, e)
	}
}
