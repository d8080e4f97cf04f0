package x11

import (
	"image"
	"os"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xprop"
)

const windowEventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskExposure |
	xproto.EventMaskFocusChange |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskPropertyChange

// xdndVersion is the XDND protocol version we speak.
const xdndVersion = 5

// Window is a top-level X11 window. Geometry is tracked from
// ConfigureNotify so that Size never needs a round trip.
type Window struct {
	b      *Backend
	id     xproto.Window
	events platform.WindowEvents

	x, y          int
	width, height int

	mapped    bool
	focused   bool
	hovered   bool
	minimized bool
	maximized bool

	resizable bool
	decorated bool
	floating  bool
	opacity   float32

	minWidth, minHeight int
	maxWidth, maxHeight int
	numer, denom        int

	monitor *Monitor

	// lastCursorX/Y is the last pointer position seen or warped to.
	lastCursorX, lastCursorY float64
	capture                  platform.CursorMode
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig, events platform.WindowEvents) (platform.NativeWindow, error) {
	xu := b.conn.XUtil
	xc := xu.Conn()
	screen := xu.Screen()

	wid, err := xproto.NewWindowId(xc)
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to allocate window id")
	}
	err = xproto.CreateWindowChecked(xc, screen.RootDepth, wid, b.conn.Root,
		0, 0, uint16(cfg.Width), uint16(cfg.Height), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{screen.BlackPixel, 0, windowEventMask}).Check()
	if err != nil {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to create window")
	}

	w := &Window{
		b:         b,
		id:        wid,
		events:    events,
		width:     cfg.Width,
		height:    cfg.Height,
		resizable: cfg.Resizable,
		decorated: cfg.Decorated,
		floating:  cfg.Floating,
		opacity:   1,
		minWidth:  platform.DontCare,
		minHeight: platform.DontCare,
		maxWidth:  platform.DontCare,
		maxHeight: platform.DontCare,
		numer:     platform.DontCare,
		denom:     platform.DontCare,
	}
	b.windows[wid] = w

	if err := icccm.WmProtocolsSet(xu, wid, []string{"WM_DELETE_WINDOW", "_NET_WM_PING"}); err != nil {
		b.logger.Warn("failed to set WM_PROTOCOLS", "error", err)
	}
	ewmh.WmPidSet(xu, wid, uint(os.Getpid()))
	ewmh.WmWindowTypeSet(xu, wid, []string{"_NET_WM_WINDOW_TYPE_NORMAL"})
	icccm.WmHintsSet(xu, wid, &icccm.Hints{
		Flags:        icccm.HintInput | icccm.HintState,
		Input:        1,
		InitialState: icccm.StateNormal,
	})
	instance := os.Getenv("RESOURCE_NAME")
	if instance == "" {
		instance = cfg.Title
	}
	icccm.WmClassSet(xu, wid, &icccm.WmClass{Instance: instance, Class: cfg.Title})
	xprop.ChangeProp32(xu, wid, "XdndAware", "ATOM", xdndVersion)

	var initial []string
	if cfg.Maximized {
		initial = append(initial, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if cfg.Floating {
		initial = append(initial, "_NET_WM_STATE_ABOVE")
	}
	if len(initial) > 0 {
		ewmh.WmStateSet(xu, wid, initial)
	}

	w.SetTitle(cfg.Title)
	w.updateNormalHints()
	if !cfg.Decorated {
		w.SetDecorated(false)
	}
	if cfg.MousePassthrough {
		if err := w.SetMousePassthrough(true); err != nil {
			b.logger.Warn("mouse passthrough unavailable", "error", err)
		}
	}

	b.logger.Debug("window created", "window", wid, "width", cfg.Width, "height", cfg.Height)
	return w, nil
}

func (w *Window) Destroy() {
	b := w.b
	xc := b.conn.XUtil.Conn()
	if w.capture == platform.CursorDisabled || w.capture == platform.CursorCaptured {
		xproto.UngrabPointer(xc, xproto.TimeCurrentTime)
	}
	xproto.UnmapWindow(xc, w.id)
	xproto.DestroyWindow(xc, w.id)
	b.forget(w)
}

// forget drops every backend reference to a destroyed window.
func (b *Backend) forget(w *Window) {
	if b.dnd.target == w {
		b.dnd = dndState{}
	}
	if b.disabled == w {
		b.disabled = nil
	}
	delete(b.windows, w.id)
	w.events = nil
}

func (w *Window) SetTitle(title string) {
	xu := w.b.conn.XUtil
	ewmh.WmNameSet(xu, w.id, title)
	ewmh.WmIconNameSet(xu, w.id, title)
	icccm.WmNameSet(xu, w.id, title)
	icccm.WmIconNameSet(xu, w.id, title)
}

// SetIcon publishes _NET_WM_ICON as packed ARGB; no images clears it.
func (w *Window) SetIcon(images []*image.RGBA) error {
	xu := w.b.conn.XUtil
	if len(images) == 0 {
		return xproto.DeletePropertyChecked(xu.Conn(), w.id, w.b.conn.atom("_NET_WM_ICON")).Check()
	}
	icons := make([]ewmh.WmIcon, 0, len(images))
	for _, img := range images {
		width, height := img.Rect.Dx(), img.Rect.Dy()
		data := make([]uint, 0, width*height)
		for i := 0; i+3 < len(img.Pix) && len(data) < width*height; i += 4 {
			r, g, bl, a := uint(img.Pix[i]), uint(img.Pix[i+1]), uint(img.Pix[i+2]), uint(img.Pix[i+3])
			data = append(data, a<<24|r<<16|g<<8|bl)
		}
		icons = append(icons, ewmh.WmIcon{Width: uint(width), Height: uint(height), Data: data})
	}
	if err := ewmh.WmIconSet(xu, w.id, icons); err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to set window icon")
	}
	return nil
}

// Pos translates the content origin to root coordinates.
func (w *Window) Pos() (x, y int, err error) {
	reply, err := xproto.TranslateCoordinates(w.b.conn.XUtil.Conn(), w.id, w.b.conn.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to query window position")
	}
	return int(reply.DstX), int(reply.DstY), nil
}

func (w *Window) SetPos(x, y int) error {
	if !w.mapped {
		// Window managers honour the position hint only before mapping.
		w.x, w.y = x, y
		w.updateNormalHints()
	}
	return xproto.ConfigureWindowChecked(w.b.conn.XUtil.Conn(), w.id,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))}).Check()
}

func (w *Window) Size() (width, height int) { return w.width, w.height }

func (w *Window) SetSize(width, height int) {
	if !w.resizable {
		// Fixed-size windows advertise their size through min = max.
		w.width, w.height = width, height
		w.updateNormalHints()
	}
	xproto.ConfigureWindow(w.b.conn.XUtil.Conn(), w.id,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)})
}

func (w *Window) FramebufferSize() (width, height int) { return w.width, w.height }

// FrameSize reads _NET_FRAME_EXTENTS as set by the window manager.
func (w *Window) FrameSize() (left, top, right, bottom int) {
	if !w.decorated || w.monitor != nil {
		return 0, 0, 0, 0
	}
	extents, err := ewmh.FrameExtentsGet(w.b.conn.XUtil, w.id)
	if err != nil {
		return 0, 0, 0, 0
	}
	return extents.Left, extents.Top, extents.Right, extents.Bottom
}

func (w *Window) ContentScale() (xscale, yscale float32) {
	return w.b.scale, w.b.scale
}

func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	w.minWidth, w.minHeight = minWidth, minHeight
	w.maxWidth, w.maxHeight = maxWidth, maxHeight
	w.updateNormalHints()
}

func (w *Window) SetAspectRatio(numer, denom int) {
	w.numer, w.denom = numer, denom
	w.updateNormalHints()
}

// updateNormalHints rewrites WM_NORMAL_HINTS from the current limits.
func (w *Window) updateNormalHints() {
	hints := &icccm.NormalHints{
		Flags:      icccm.SizeHintPWinGravity,
		WinGravity: xproto.GravityStatic,
	}
	if !w.mapped && (w.x != 0 || w.y != 0) {
		hints.Flags |= icccm.SizeHintPPosition | icccm.SizeHintUSPosition
		hints.X, hints.Y = w.x, w.y
	}

	switch {
	case w.monitor != nil:
	case !w.resizable:
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(w.width), uint(w.width)
		hints.MinHeight, hints.MaxHeight = uint(w.height), uint(w.height)
	default:
		if w.minWidth != platform.DontCare && w.minHeight != platform.DontCare {
			hints.Flags |= icccm.SizeHintPMinSize
			hints.MinWidth, hints.MinHeight = uint(w.minWidth), uint(w.minHeight)
		}
		if w.maxWidth != platform.DontCare && w.maxHeight != platform.DontCare {
			hints.Flags |= icccm.SizeHintPMaxSize
			hints.MaxWidth, hints.MaxHeight = uint(w.maxWidth), uint(w.maxHeight)
		}
		if w.numer != platform.DontCare && w.denom != platform.DontCare {
			hints.Flags |= icccm.SizeHintPAspect
			hints.MinAspectNum, hints.MinAspectDen = uint(w.numer), uint(w.denom)
			hints.MaxAspectNum, hints.MaxAspectDen = uint(w.numer), uint(w.denom)
		}
	}

	if err := icccm.WmNormalHintsSet(w.b.conn.XUtil, w.id, hints); err != nil {
		w.b.logger.Warn("failed to set WM_NORMAL_HINTS", "window", w.id, "error", err)
	}
}

func (w *Window) Show() {
	if w.mapped {
		return
	}
	xproto.MapWindow(w.b.conn.XUtil.Conn(), w.id)
	w.mapped = true
}

func (w *Window) Hide() {
	xproto.UnmapWindow(w.b.conn.XUtil.Conn(), w.id)
	w.mapped = false
}

// Focus activates the window through the window manager when it supports
// _NET_ACTIVE_WINDOW, otherwise raises it and takes input focus directly.
func (w *Window) Focus() {
	c := w.b.conn
	if supported, err := ewmh.SupportedGet(c.XUtil); err == nil && slices.Contains(supported, "_NET_ACTIVE_WINDOW") {
		if err := c.activateWindow(w.id); err == nil {
			return
		}
	}
	if !w.mapped {
		return
	}
	xc := c.XUtil.Conn()
	xproto.ConfigureWindow(xc, w.id, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	xproto.SetInputFocus(xc, xproto.InputFocusPointerRoot, w.id, xproto.TimeCurrentTime)
}

func (w *Window) Maximize() {
	if !w.mapped {
		w.addInitialState("_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
		return
	}
	if err := w.b.conn.setWMState(w.id, true, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
		w.b.logger.Warn("maximize request failed", "window", w.id, "error", err)
	}
}

// Minimize sends the ICCCM WM_CHANGE_STATE iconify request.
func (w *Window) Minimize() {
	if err := w.b.conn.sendRootMessage(w.id, "WM_CHANGE_STATE", icccm.StateIconic); err != nil {
		w.b.logger.Warn("iconify request failed", "window", w.id, "error", err)
	}
}

func (w *Window) Restore() {
	if w.Minimized() {
		xproto.MapWindow(w.b.conn.XUtil.Conn(), w.id)
		w.mapped = true
		return
	}
	if w.Maximized() {
		if err := w.b.conn.setWMState(w.id, false, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
			w.b.logger.Warn("restore request failed", "window", w.id, "error", err)
		}
	}
}

func (w *Window) RequestAttention() error {
	if err := w.b.conn.setWMState(w.id, true, "_NET_WM_STATE_DEMANDS_ATTENTION", ""); err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to request attention")
	}
	return nil
}

// addInitialState merges atoms into _NET_WM_STATE of an unmapped window.
func (w *Window) addInitialState(names ...string) {
	xu := w.b.conn.XUtil
	states, _ := ewmh.WmStateGet(xu, w.id)
	for _, name := range names {
		if !slices.Contains(states, name) {
			states = append(states, name)
		}
	}
	ewmh.WmStateSet(xu, w.id, states)
}

func (w *Window) removeInitialState(names ...string) {
	xu := w.b.conn.XUtil
	states, err := ewmh.WmStateGet(xu, w.id)
	if err != nil {
		return
	}
	states = slices.DeleteFunc(states, func(s string) bool { return slices.Contains(names, s) })
	ewmh.WmStateSet(xu, w.id, states)
}

func (w *Window) Focused() bool {
	reply, err := xproto.GetInputFocus(w.b.conn.XUtil.Conn()).Reply()
	if err != nil {
		return w.focused
	}
	return reply.Focus == w.id
}

func (w *Window) Minimized() bool {
	state, err := icccm.WmStateGet(w.b.conn.XUtil, w.id)
	if err != nil {
		return false
	}
	return state.State == icccm.StateIconic
}

func (w *Window) Maximized() bool {
	states, err := ewmh.WmStateGet(w.b.conn.XUtil, w.id)
	if err != nil {
		return false
	}
	return slices.Contains(states, "_NET_WM_STATE_MAXIMIZED_VERT") &&
		slices.Contains(states, "_NET_WM_STATE_MAXIMIZED_HORZ")
}

func (w *Window) Visible() bool {
	reply, err := xproto.GetWindowAttributes(w.b.conn.XUtil.Conn(), w.id).Reply()
	if err != nil {
		return w.mapped
	}
	return reply.MapState == xproto.MapStateViewable
}

// Hovered walks the pointer's window stack from the root looking for us.
func (w *Window) Hovered() bool {
	xc := w.b.conn.XUtil.Conn()
	win := w.b.conn.Root
	for win != 0 {
		reply, err := xproto.QueryPointer(xc, win).Reply()
		if err != nil || !reply.SameScreen {
			return false
		}
		if reply.Child == w.id {
			return true
		}
		win = reply.Child
	}
	return false
}

func (w *Window) SetResizable(enabled bool) {
	w.resizable = enabled
	w.updateNormalHints()
}

// SetDecorated toggles decorations through _MOTIF_WM_HINTS.
func (w *Window) SetDecorated(enabled bool) {
	w.decorated = enabled
	hints := &motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}
	if enabled {
		hints.Decoration = motif.DecorationAll
	}
	if err := motif.WmHintsSet(w.b.conn.XUtil, w.id, hints); err != nil {
		w.b.logger.Warn("failed to set _MOTIF_WM_HINTS", "window", w.id, "error", err)
	}
}

func (w *Window) SetFloating(enabled bool) {
	w.floating = enabled
	if !w.mapped {
		if enabled {
			w.addInitialState("_NET_WM_STATE_ABOVE")
		} else {
			w.removeInitialState("_NET_WM_STATE_ABOVE")
		}
		return
	}
	if err := w.b.conn.setWMState(w.id, enabled, "_NET_WM_STATE_ABOVE", ""); err != nil {
		w.b.logger.Warn("floating request failed", "window", w.id, "error", err)
	}
}

// SetMousePassthrough empties the SHAPE input region, or resets it.
func (w *Window) SetMousePassthrough(enabled bool) error {
	c := w.b.conn
	if !c.hasShape {
		return platform.Errorf(platform.FeatureUnavailable, "[Window] X11: SHAPE extension is required for mouse passthrough")
	}
	xc := c.XUtil.Conn()
	if enabled {
		return shape.RectanglesChecked(xc, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted, w.id, 0, 0, nil).Check()
	}
	return shape.MaskChecked(xc, shape.SoSet, shape.SkInput, w.id, 0, 0, xproto.PixmapNone).Check()
}

func (w *Window) Opacity() float32 {
	opacity, err := ewmh.WmWindowOpacityGet(w.b.conn.XUtil, w.id)
	if err != nil {
		return w.opacity
	}
	return float32(opacity)
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY; it takes effect under a
// compositing manager.
func (w *Window) SetOpacity(opacity float32) error {
	w.opacity = opacity
	if opacity == 1 {
		return xproto.DeletePropertyChecked(w.b.conn.XUtil.Conn(), w.id, w.b.conn.atom("_NET_WM_WINDOW_OPACITY")).Check()
	}
	if err := ewmh.WmWindowOpacitySet(w.b.conn.XUtil, w.id, float64(opacity)); err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to set opacity")
	}
	return nil
}

// SetMonitor enters full screen through _NET_WM_STATE_FULLSCREEN, or leaves
// it and re-applies the windowed attributes.
func (w *Window) SetMonitor(monitor platform.NativeMonitor, area platform.Rect, attrs platform.Attributes) {
	c := w.b.conn
	xc := c.XUtil.Conn()

	if monitor != nil {
		w.monitor, _ = monitor.(*Monitor)
		w.updateNormalHints()
		xprop.ChangeProp32(c.XUtil, w.id, "_NET_WM_BYPASS_COMPOSITOR", "CARDINAL", 1)
		if w.mapped {
			c.setWMState(w.id, true, "_NET_WM_STATE_FULLSCREEN", "")
		} else {
			w.addInitialState("_NET_WM_STATE_FULLSCREEN")
		}
		xproto.ConfigureWindow(xc, w.id,
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
			[]uint32{uint32(int32(area.X)), uint32(int32(area.Y)), uint32(area.Width), uint32(area.Height), xproto.StackModeAbove})
		return
	}

	w.monitor = nil
	xproto.DeleteProperty(xc, w.id, c.atom("_NET_WM_BYPASS_COMPOSITOR"))
	if w.mapped {
		c.setWMState(w.id, false, "_NET_WM_STATE_FULLSCREEN", "")
	} else {
		w.removeInitialState("_NET_WM_STATE_FULLSCREEN")
	}
	w.resizable = attrs.Resizable
	w.updateNormalHints()
	w.SetDecorated(attrs.Decorated)
	w.SetFloating(attrs.Floating)
	xproto.ConfigureWindow(xc, w.id,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(area.X)), uint32(int32(area.Y)), uint32(area.Width), uint32(area.Height)})
}
