package x11

import (
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// dndState tracks the XDND session in progress.
type dndState struct {
	source  xproto.Window
	version uint32
	format  xproto.Atom
	target  *Window
}

// handleXdnd implements the target side of XDND for text/uri-list drops.
func (b *Backend) handleXdnd(w *Window, e xproto.ClientMessageEvent) {
	c := b.conn
	data := e.Data.Data32
	if len(data) < 5 {
		return
	}
	uriList := c.atom("text/uri-list")

	switch e.Type {
	case c.atom("XdndEnter"):
		b.dnd = dndState{
			source:  xproto.Window(data[0]),
			version: data[1] >> 24,
			target:  w,
		}
		if b.dnd.version > xdndVersion {
			return
		}
		var offered []uint
		if data[1]&1 != 0 {
			offered, _ = xprop.PropValNums(xprop.GetProperty(c.XUtil, b.dnd.source, "XdndTypeList"))
		} else {
			offered = []uint{uint(data[2]), uint(data[3]), uint(data[4])}
		}
		for _, t := range offered {
			if xproto.Atom(t) == uriList {
				b.dnd.format = uriList
				break
			}
		}

	case c.atom("XdndPosition"):
		if b.dnd.target != w || b.dnd.version > xdndVersion {
			return
		}
		rootX, rootY := int16(data[2]>>16), int16(data[2]&0xffff)
		if t, err := xproto.TranslateCoordinates(c.XUtil.Conn(), c.Root, w.id, rootX, rootY).Reply(); err == nil {
			w.events.InputCursorPos(float64(t.DstX), float64(t.DstY))
		}
		status := []uint32{uint32(w.id), 0, 0, 0, 0}
		if b.dnd.format != xproto.AtomNone {
			status[1] = 1
			if b.dnd.version >= 2 {
				status[4] = uint32(c.atom("XdndActionCopy"))
			}
		}
		c.sendWindowMessage(b.dnd.source, c.atom("XdndStatus"), status...)

	case c.atom("XdndDrop"):
		if b.dnd.target != w || b.dnd.version > xdndVersion {
			return
		}
		if b.dnd.format == xproto.AtomNone {
			if b.dnd.version >= 2 {
				c.sendWindowMessage(b.dnd.source, c.atom("XdndFinished"), uint32(w.id), 0, 0)
			}
			b.dnd = dndState{}
			return
		}
		stamp := xproto.Timestamp(xproto.TimeCurrentTime)
		if b.dnd.version >= 1 {
			stamp = xproto.Timestamp(data[2])
		}
		selection := c.atom("XdndSelection")
		xproto.ConvertSelection(c.XUtil.Conn(), w.id, selection, b.dnd.format, selection, stamp)

	case c.atom("XdndLeave"):
		b.dnd = dndState{}
	}
}

// finishDrop reads the converted uri list and reports it as dropped paths.
func (b *Backend) finishDrop(w *Window, e xproto.SelectionNotifyEvent) {
	c := b.conn
	if e.Property != xproto.AtomNone {
		reply, err := xproto.GetProperty(c.XUtil.Conn(), true, w.id, e.Property, xproto.GetPropertyTypeAny, 0, maxPropertyLength).Reply()
		if err == nil {
			if paths := platform.ParseURIList(string(reply.Value)); len(paths) > 0 {
				w.events.InputDrop(paths)
			}
		}
	}
	if b.dnd.target == w && b.dnd.version >= 2 {
		accepted := uint32(0)
		if e.Property != xproto.AtomNone {
			accepted = 1
		}
		c.sendWindowMessage(b.dnd.source, c.atom("XdndFinished"), uint32(w.id), accepted, uint32(c.atom("XdndActionCopy")))
	}
	b.dnd = dndState{}
}
