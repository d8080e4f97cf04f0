package x11

import (
	"fmt"
	"image"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// Cursor is a server-side cursor.
type Cursor struct {
	b  *Backend
	id xproto.Cursor
}

func (c *Cursor) Destroy() {
	if c.id == 0 || c.b.conn == nil {
		return
	}
	xproto.FreeCursor(c.b.conn.XUtil.Conn(), c.id)
	c.id = 0
}

// Core cursor font glyphs for the standard shapes. The diagonal resize and
// not-allowed shapes have no glyph in the core font.
var fontCursors = map[platform.CursorShape]uint16{
	platform.CursorArrow:            xcursor.LeftPtr,
	platform.CursorInput:            xcursor.XTerm,
	platform.CursorCrosshair:        xcursor.Crosshair,
	platform.CursorPointingHand:     xcursor.Hand2,
	platform.CursorResizeHorizontal: xcursor.SBHDoubleArrow,
	platform.CursorResizeVertical:   xcursor.SBVDoubleArrow,
	platform.CursorResizeAll:        xcursor.Fleur,
}

func (b *Backend) CreateStandardCursor(shape platform.CursorShape) (platform.NativeCursor, error) {
	glyph, ok := fontCursors[shape]
	if !ok {
		return nil, platform.Errorf(platform.CursorUnavailable, "[Window] X11: standard cursor shape %s unavailable", shape)
	}
	id, err := xcursor.CreateCursor(b.conn.XUtil, glyph)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to create standard cursor")
	}
	return &Cursor{b: b, id: id}, nil
}

// CreateCursor uploads img as a 32-bit ARGB picture and turns it into a
// RENDER cursor.
func (b *Backend) CreateCursor(img *image.RGBA, xhot, yhot int) (platform.NativeCursor, error) {
	if b.argbFormat == 0 {
		return nil, platform.Errorf(platform.PlatformError, "[Window] X11: RENDER with an ARGB32 format is required for custom cursors")
	}
	xc := b.conn.XUtil.Conn()
	width, height := img.Rect.Dx(), img.Rect.Dy()

	pix, err := xproto.NewPixmapId(xc)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to allocate cursor pixmap")
	}
	if err := xproto.CreatePixmapChecked(xc, 32, pix, xproto.Drawable(b.conn.Root), uint16(width), uint16(height)).Check(); err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to create cursor pixmap")
	}
	defer xproto.FreePixmap(xc, pix)

	gc, err := xproto.NewGcontextId(xc)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to allocate graphics context")
	}
	xproto.CreateGC(xc, gc, xproto.Drawable(pix), 0, nil)
	defer xproto.FreeGC(xc, gc)

	xproto.PutImage(xc, xproto.ImageFormatZPixmap, xproto.Drawable(pix), gc,
		uint16(width), uint16(height), 0, 0, 0, 32, platform.PremultipliedBGRA(img))

	pic, err := render.NewPictureId(xc)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to allocate picture")
	}
	render.CreatePicture(xc, pic, xproto.Drawable(pix), b.argbFormat, 0, nil)
	defer render.FreePicture(xc, pic)

	id, err := xproto.NewCursorId(xc)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to allocate cursor")
	}
	if err := render.CreateCursorChecked(xc, id, pic, uint16(xhot), uint16(yhot)).Check(); err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to create cursor")
	}
	return &Cursor{b: b, id: id}, nil
}

// findARGBFormat picks the direct 32-bit format with alpha in the top byte.
func (b *Backend) findARGBFormat() render.Pictformat {
	reply, err := render.QueryPictFormats(b.conn.XUtil.Conn()).Reply()
	if err != nil {
		b.logger.Warn("failed to query picture formats", "error", err)
		return 0
	}
	for _, f := range reply.Formats {
		d := f.Direct
		if f.Type == render.PictTypeDirect && f.Depth == 32 &&
			d.AlphaShift == 24 && d.AlphaMask == 0xff &&
			d.RedShift == 16 && d.RedMask == 0xff &&
			d.GreenShift == 8 && d.GreenMask == 0xff &&
			d.BlueShift == 0 && d.BlueMask == 0xff {
			return f.Id
		}
	}
	return 0
}

// createHiddenCursor builds the invisible cursor used by the hidden and
// disabled modes from an empty 1x1 bitmap.
func (b *Backend) createHiddenCursor() error {
	xc := b.conn.XUtil.Conn()
	pix, err := xproto.NewPixmapId(xc)
	if err != nil {
		return err
	}
	if err := xproto.CreatePixmapChecked(xc, 1, pix, xproto.Drawable(b.conn.Root), 1, 1).Check(); err != nil {
		return fmt.Errorf("failed to create bitmap: %w", err)
	}
	defer xproto.FreePixmap(xc, pix)

	gc, err := xproto.NewGcontextId(xc)
	if err != nil {
		return err
	}
	xproto.CreateGC(xc, gc, xproto.Drawable(pix), xproto.GcForeground, []uint32{0})
	xproto.PolyFillRectangle(xc, xproto.Drawable(pix), gc, []xproto.Rectangle{{Width: 1, Height: 1}})
	xproto.FreeGC(xc, gc)

	id, err := xproto.NewCursorId(xc)
	if err != nil {
		return err
	}
	if err := xproto.CreateCursorChecked(xc, id, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to create cursor: %w", err)
	}
	b.hiddenCursor = id
	return nil
}

// CursorPos queries the pointer relative to the content area.
func (w *Window) CursorPos() (x, y float64) {
	reply, err := xproto.QueryPointer(w.b.conn.XUtil.Conn(), w.id).Reply()
	if err != nil {
		return w.lastCursorX, w.lastCursorY
	}
	return float64(reply.WinX), float64(reply.WinY)
}

// SetCursorPos warps the pointer and records the target so the resulting
// motion event is not reported.
func (w *Window) SetCursorPos(x, y float64) {
	w.lastCursorX, w.lastCursorY = x, y
	xproto.WarpPointer(w.b.conn.XUtil.Conn(), xproto.WindowNone, w.id, 0, 0, 0, 0, int16(x), int16(y))
}

// SetCursorCapture grabs the pointer confined to the window for the disabled
// and captured modes and releases it otherwise.
func (w *Window) SetCursorCapture(mode platform.CursorMode) {
	b := w.b
	xc := b.conn.XUtil.Conn()
	w.capture = mode

	switch mode {
	case platform.CursorDisabled, platform.CursorCaptured:
		cursor := xproto.Cursor(xproto.CursorNone)
		if mode == platform.CursorDisabled {
			cursor = b.hiddenCursor
			b.disabled = w
		} else if b.disabled == w {
			b.disabled = nil
		}
		reply, err := xproto.GrabPointer(xc, true, w.id,
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
			xproto.GrabModeAsync, xproto.GrabModeAsync, w.id, cursor, xproto.TimeCurrentTime).Reply()
		if err != nil || reply.Status != xproto.GrabStatusSuccess {
			b.logger.Warn("pointer grab failed", "window", w.id, "mode", mode.String())
		}
	default:
		if b.disabled == w {
			b.disabled = nil
		}
		xproto.UngrabPointer(xc, xproto.TimeCurrentTime)
	}
}

// ApplyCursor sets the window cursor attribute. CursorNone inherits the
// root cursor, which is the default arrow.
func (w *Window) ApplyCursor(mode platform.CursorMode, cursor platform.NativeCursor) {
	id := xproto.Cursor(xproto.CursorNone)
	switch {
	case mode == platform.CursorHidden || mode == platform.CursorDisabled:
		id = w.b.hiddenCursor
	case cursor != nil:
		if c, ok := cursor.(*Cursor); ok {
			id = c.id
		}
	}
	xproto.ChangeWindowAttributes(w.b.conn.XUtil.Conn(), w.id, xproto.CwCursor, []uint32{uint32(id)})
}

// SetRawMouseMotion is a no-op: the core protocol has no raw motion and
// RawMouseMotionSupported reports false.
func (w *Window) SetRawMouseMotion(enabled bool) {}
