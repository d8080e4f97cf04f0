package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// sourceApplication is the EWMH source indication for normal applications.
const sourceApplication = 1

// EWMH _NET_WM_STATE actions.
const (
	stateRemove = 0
	stateAdd    = 1
)

// sendRootMessage sends a 32-bit client message about win to the root
// window. We build the message manually because the xgbutil ewmh request
// helpers panic on this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(win xproto.Window, messageType string, data ...uint32) error {
	typ := c.atom(messageType)
	if typ == xproto.AtomNone {
		return fmt.Errorf("failed to intern %s", messageType)
	}

	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// sendWindowMessage sends a client message directly to win, as XDND
// requires.
func (c *Connection) sendWindowMessage(win xproto.Window, messageType xproto.Atom, data ...uint32) error {
	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   messageType,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// setWMState adds or removes up to two _NET_WM_STATE atoms on a mapped window.
func (c *Connection) setWMState(win xproto.Window, add bool, first, second string) error {
	action := uint32(stateRemove)
	if add {
		action = stateAdd
	}
	a1 := c.atom(first)
	var a2 xproto.Atom
	if second != "" {
		a2 = c.atom(second)
	}
	return c.sendRootMessage(win, "_NET_WM_STATE", action, uint32(a1), uint32(a2), sourceApplication)
}

// activateWindow asks the window manager to raise and focus win.
func (c *Connection) activateWindow(win xproto.Window) error {
	return c.sendRootMessage(win, "_NET_ACTIVE_WINDOW", sourceApplication, uint32(xproto.TimeCurrentTime), 0)
}
