package x11

import (
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// selectionProperty is where converted selections are delivered on the
// helper window.
const selectionProperty = "WINDOWKIT_SELECTION"

// maxPropertyLength bounds a single GetProperty, in 32-bit units.
const maxPropertyLength = 1 << 24

func (b *Backend) SetClipboardString(text string) error {
	c := b.conn
	xc := c.XUtil.Conn()
	clipboard := c.atom("CLIPBOARD")

	b.clipboard = text
	xproto.SetSelectionOwner(xc, b.helper, clipboard, xproto.TimeCurrentTime)
	reply, err := xproto.GetSelectionOwner(xc, clipboard).Reply()
	if err != nil || reply.Owner != b.helper {
		b.ownsClipboard = false
		return platform.Errorf(platform.PlatformError, "[Window] X11: failed to become owner of clipboard selection")
	}
	b.ownsClipboard = true
	return nil
}

// ClipboardString converts CLIPBOARD to UTF8_STRING, falling back to STRING,
// and waits for the owner up to the configured timeout.
func (b *Backend) ClipboardString() (string, error) {
	c := b.conn
	xc := c.XUtil.Conn()
	clipboard := c.atom("CLIPBOARD")

	if b.ownsClipboard {
		return b.clipboard, nil
	}
	owner, err := xproto.GetSelectionOwner(xc, clipboard).Reply()
	if err != nil || owner.Owner == xproto.WindowNone {
		return "", platform.Errorf(platform.FormatUnavailable, "[Window] X11: clipboard is empty")
	}

	property := c.atom(selectionProperty)
	deadline := time.Now().Add(b.opts.ClipboardTimeout)
	for _, target := range []xproto.Atom{c.atom("UTF8_STRING"), xproto.AtomString} {
		xproto.ConvertSelection(xc, b.helper, clipboard, target, property, xproto.TimeCurrentTime)
		ev, ok := b.nextEvent(deadline, func(ev xgb.Event) bool {
			n, ok := ev.(xproto.SelectionNotifyEvent)
			return ok && n.Requestor == b.helper && n.Selection == clipboard
		})
		if !ok {
			return "", platform.Errorf(platform.PlatformError, "[Window] X11: timed out waiting for clipboard owner")
		}
		if ev.(xproto.SelectionNotifyEvent).Property == xproto.AtomNone {
			continue
		}
		data, err := b.readSelection(property, deadline)
		if err != nil {
			return "", err
		}
		if target == xproto.AtomString {
			return latin1ToUTF8(data), nil
		}
		return string(data), nil
	}
	return "", platform.Errorf(platform.FormatUnavailable, "[Window] X11: failed to convert clipboard to string")
}

// readSelection reads and deletes the converted property, following the
// INCR protocol for large transfers.
func (b *Backend) readSelection(property xproto.Atom, deadline time.Time) ([]byte, error) {
	xc := b.conn.XUtil.Conn()
	reply, err := xproto.GetProperty(xc, true, b.helper, property, xproto.GetPropertyTypeAny, 0, maxPropertyLength).Reply()
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to read clipboard")
	}
	if reply.Type != b.conn.atom("INCR") {
		return reply.Value, nil
	}

	var data []byte
	for {
		_, ok := b.nextEvent(deadline, func(ev xgb.Event) bool {
			n, ok := ev.(xproto.PropertyNotifyEvent)
			return ok && n.Window == b.helper && n.Atom == property && n.State == xproto.PropertyNewValue
		})
		if !ok {
			return nil, platform.Errorf(platform.PlatformError, "[Window] X11: timed out during incremental clipboard transfer")
		}
		chunk, err := xproto.GetProperty(xc, true, b.helper, property, xproto.GetPropertyTypeAny, 0, maxPropertyLength).Reply()
		if err != nil {
			return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to read clipboard chunk")
		}
		if len(chunk.Value) == 0 {
			return data, nil
		}
		data = append(data, chunk.Value...)
	}
}

func latin1ToUTF8(data []byte) string {
	runes := make([]rune, len(data))
	for i, c := range data {
		runes[i] = rune(c)
	}
	return string(runes)
}

// handleSelectionRequest serves our clipboard to another client.
func (b *Backend) handleSelectionRequest(req xproto.SelectionRequestEvent) {
	c := b.conn
	xc := c.XUtil.Conn()
	property := req.Property
	if property == xproto.AtomNone {
		// Obsolete requestors leave the property to us.
		property = req.Target
	}

	utf8 := c.atom("UTF8_STRING")
	targets := c.atom("TARGETS")
	switch {
	case req.Selection != c.atom("CLIPBOARD") || !b.ownsClipboard:
		property = xproto.AtomNone
	case req.Target == targets:
		supported := []xproto.Atom{targets, utf8, xproto.AtomString, c.atom("TEXT")}
		buf := make([]byte, 4*len(supported))
		for i, a := range supported {
			xgb.Put32(buf[i*4:], uint32(a))
		}
		xproto.ChangeProperty(xc, xproto.PropModeReplace, req.Requestor, property,
			xproto.AtomAtom, 32, uint32(len(supported)), buf)
	case req.Target == utf8, req.Target == c.atom("TEXT"):
		xproto.ChangeProperty(xc, xproto.PropModeReplace, req.Requestor, property,
			utf8, 8, uint32(len(b.clipboard)), []byte(b.clipboard))
	case req.Target == xproto.AtomString:
		text := utf8ToLatin1(b.clipboard)
		xproto.ChangeProperty(xc, xproto.PropModeReplace, req.Requestor, property,
			xproto.AtomString, 8, uint32(len(text)), text)
	default:
		property = xproto.AtomNone
	}

	ev := xproto.SelectionNotifyEvent{
		Time:      req.Time,
		Requestor: req.Requestor,
		Selection: req.Selection,
		Target:    req.Target,
		Property:  property,
	}
	xproto.SendEvent(xc, false, req.Requestor, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

func utf8ToLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}
