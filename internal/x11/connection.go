// Package x11 is the X11 windowing backend. It talks to the server through
// xgb/xgbutil, uses RandR for monitors and video modes, RENDER for ARGB
// cursors and SHAPE for mouse passthrough.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/screensaver"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and the extensions the backend uses.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	hasRandR       bool
	hasRender      bool
	hasShape       bool
	hasXinerama    bool
	hasScreensaver bool
}

// NewConnection connects to display ($DISPLAY when empty) and probes the
// optional extensions.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Keyboard and modifier maps back keycode translation.
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	conn := xu.Conn()
	if randr.Init(conn) == nil {
		if v, err := randr.QueryVersion(conn, 1, 3).Reply(); err == nil && (v.MajorVersion > 1 || v.MinorVersion >= 3) {
			c.hasRandR = true
		}
	}
	c.hasRender = render.Init(conn) == nil
	c.hasShape = shape.Init(conn) == nil
	if xinerama.Init(conn) == nil {
		if active, err := xinerama.IsActive(conn).Reply(); err == nil && active.State != 0 {
			c.hasXinerama = true
		}
	}
	c.hasScreensaver = screensaver.Init(conn) == nil
	return c, nil
}

// atom interns name, returning AtomNone when the server refuses.
func (c *Connection) atom(name string) xproto.Atom {
	a, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return xproto.AtomNone
	}
	return a
}

// atomName resolves an atom, empty on failure.
func (c *Connection) atomName(a xproto.Atom) string {
	name, err := xprop.AtomName(c.XUtil, a)
	if err != nil {
		return ""
	}
	return name
}

// rootDepth is the depth of the default visual.
func (c *Connection) rootDepth() int {
	return int(c.XUtil.Screen().RootDepth)
}

func (c *Connection) String() string {
	return fmt.Sprintf("x11(root=0x%x randr=%t render=%t shape=%t)", c.Root, c.hasRandR, c.hasRender, c.hasShape)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
