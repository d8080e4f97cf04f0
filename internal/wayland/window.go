//go:build linux

package wayland

import (
	"encoding/binary"
	"image"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Window is a wl_surface with an xdg_toplevel role while shown.
type Window struct {
	b      *Backend
	events platform.WindowEvents

	surface    proxy
	xdgSurface proxy
	toplevel   proxy
	decoration proxy
	inhibitor  proxy

	title string

	width, height int
	scale         int
	outputs       []*Monitor

	visible     bool
	maximized   bool
	fullscreen  bool
	activated   bool
	resizable   bool
	decorated   bool
	passthrough bool

	minWidth, minHeight int
	maxWidth, maxHeight int
	numer, denom        int

	monitor *Monitor

	// Size and states of the configure sequence being received.
	pendingWidth, pendingHeight int
	pendingMaximized            bool
	pendingFullscreen           bool
	pendingActivated            bool

	cursorX, cursorY float64
	cursorMode       platform.CursorMode
	cursor           *Cursor
	captureMode      platform.CursorMode
	locked           proxy
	confined         proxy
	rawMotion        bool
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig, events platform.WindowEvents) (platform.NativeWindow, error) {
	if b.g.compositor == 0 {
		return nil, platform.Errorf(platform.PlatformError, "[Window] Wayland: compositor does not offer wl_compositor")
	}
	w := &Window{
		b:           b,
		events:      events,
		title:       cfg.Title,
		width:       cfg.Width,
		height:      cfg.Height,
		scale:       1,
		resizable:   cfg.Resizable,
		decorated:   cfg.Decorated,
		maximized:   cfg.Maximized,
		passthrough: cfg.MousePassthrough,
		minWidth:    platform.DontCare,
		minHeight:   platform.DontCare,
		maxWidth:    platform.DontCare,
		maxHeight:   platform.DontCare,
		numer:       platform.DontCare,
		denom:       platform.DontCare,
	}
	w.surface = b.g.compositor.create(compositorCreateSurface, surfaceIface, 0, newID{})
	if w.surface == 0 {
		return nil, platform.Errorf(platform.PlatformError, "[Window] Wayland: failed to create window surface")
	}
	w.surface.listen(w.handleSurface)
	b.windows[w.surface] = w

	if cfg.MousePassthrough {
		w.SetMousePassthrough(true)
	}
	if b.inhibitIdle {
		w.updateIdleInhibitor()
	}
	return w, nil
}

func (w *Window) Destroy() {
	b := w.b
	if b.pointerFocus == w {
		b.pointerFocus = nil
	}
	if b.keyboardFocus == w {
		b.keyboardFocus = nil
		b.stopKeyRepeat()
	}
	if b.dragWindow == w {
		b.dragWindow = nil
	}
	w.releasePointer()
	w.inhibitor.destroy(idleInhibitorDestroy)
	w.inhibitor = 0
	w.destroyShell()
	delete(b.windows, w.surface)
	w.surface.destroy(surfaceDestroy)
	w.surface = 0
}

func (w *Window) handleSurface(opcode uint32, args eventArgs) {
	var m *Monitor
	output := args.Object(0)
	for _, candidate := range w.b.monitors {
		if candidate.output == output {
			m = candidate
			break
		}
	}
	if m == nil {
		return
	}
	switch opcode {
	case surfaceEnter:
		if !slices.Contains(w.outputs, m) {
			w.outputs = append(w.outputs, m)
		}
	case surfaceLeave:
		w.outputs = slices.DeleteFunc(w.outputs, func(o *Monitor) bool { return o == m })
	}
	w.updateScale()
}

func (w *Window) outputLeft(m *Monitor) {
	if !slices.Contains(w.outputs, m) {
		return
	}
	w.outputs = slices.DeleteFunc(w.outputs, func(o *Monitor) bool { return o == m })
	w.updateScale()
}

// updateScale uses the largest scale of the outputs the surface is on.
func (w *Window) updateScale() {
	scale := 1
	for _, m := range w.outputs {
		scale = max(scale, m.scale)
	}
	if scale == w.scale || w.surface.version() < 3 {
		return
	}
	w.scale = scale
	w.surface.request(surfaceSetBufferScale, int32(scale))
	w.surface.request(surfaceCommit)
	w.events.InputWindowContentScale(float32(scale), float32(scale))
	fw, fh := w.FramebufferSize()
	w.events.InputFramebufferSize(fw, fh)
}

// createShell gives the surface its xdg_toplevel role.
func (w *Window) createShell() {
	b := w.b
	w.xdgSurface = b.g.wmBase.create(wmBaseGetXdgSurface, xdgSurfaceIface, 0, newID{}, w.surface)
	w.xdgSurface.listen(w.handleXdgSurface)
	w.toplevel = w.xdgSurface.create(xdgSurfaceGetToplevel, toplevelIface, 0, newID{})
	w.toplevel.listen(w.handleToplevel)

	if b.opts.AppID != "" {
		w.toplevel.request(toplevelSetAppID, b.opts.AppID)
	}
	w.toplevel.request(toplevelSetTitle, w.title)
	switch {
	case w.monitor != nil:
		w.toplevel.request(toplevelSetFullscreen, w.monitor.output)
	case w.maximized:
		w.toplevel.request(toplevelSetMaximized)
	}
	w.applySizeLimits()
	w.applyDecoration()
	w.xdgSurface.request(xdgSurfaceSetWindowGeometry, int32(0), int32(0), int32(w.width), int32(w.height))

	w.surface.request(surfaceCommit)
	wl.displayRoundtrip(b.display)
}

func (w *Window) destroyShell() {
	w.decoration.destroy(toplevelDecorationDestroy)
	w.decoration = 0
	w.toplevel.destroy(toplevelDestroy)
	w.toplevel = 0
	w.xdgSurface.destroy(xdgSurfaceDestroy)
	w.xdgSurface = 0
}

func (w *Window) applyDecoration() {
	dm := w.b.g.decorationManager
	if dm == 0 || w.toplevel == 0 {
		return
	}
	if w.decoration == 0 {
		w.decoration = dm.create(decorationManagerGetToplevelDecor, toplevelDecorationIface, 0, newID{}, w.toplevel)
	}
	mode := uint32(decorationModeClientSide)
	if w.decorated && w.monitor == nil {
		mode = decorationModeServerSide
	}
	w.decoration.request(toplevelDecorationSetMode, mode)
}

func (w *Window) handleXdgSurface(opcode uint32, args eventArgs) {
	if opcode != xdgSurfaceConfigure {
		return
	}
	w.xdgSurface.request(xdgSurfaceAckConfigure, args.Uint(0))

	w.activated = w.pendingActivated
	if w.pendingMaximized != w.maximized {
		w.maximized = w.pendingMaximized
		w.events.InputWindowMaximize(w.maximized)
	}
	w.fullscreen = w.pendingFullscreen

	width, height := w.pendingWidth, w.pendingHeight
	if width == 0 || height == 0 {
		return
	}
	if !w.maximized && !w.fullscreen && w.numer != platform.DontCare && w.denom != platform.DontCare {
		aspect := float64(w.numer) / float64(w.denom)
		if float64(width)/float64(height) < aspect {
			height = int(float64(width) / aspect)
		} else {
			width = int(float64(height) * aspect)
		}
	}
	w.resize(width, height)
}

func (w *Window) handleToplevel(opcode uint32, args eventArgs) {
	switch opcode {
	case toplevelConfigure:
		w.pendingWidth, w.pendingHeight = int(args.Int(0)), int(args.Int(1))
		w.pendingMaximized, w.pendingFullscreen, w.pendingActivated = false, false, false
		states := args.Array(2)
		for i := 0; i+4 <= len(states); i += 4 {
			switch binary.NativeEndian.Uint32(states[i:]) {
			case toplevelStateMaximized:
				w.pendingMaximized = true
			case toplevelStateFullscreen:
				w.pendingFullscreen = true
			case toplevelStateActivated:
				w.pendingActivated = true
			}
		}
	case toplevelClose:
		w.events.InputWindowCloseRequest()
	}
}

// resize applies a new content size and reports it.
func (w *Window) resize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	if w.xdgSurface != 0 {
		w.xdgSurface.request(xdgSurfaceSetWindowGeometry, int32(0), int32(0), int32(width), int32(height))
	}
	if !w.resizable {
		w.applySizeLimits()
	}
	w.events.InputWindowSize(width, height)
	fw, fh := w.FramebufferSize()
	w.events.InputFramebufferSize(fw, fh)
}

func (w *Window) SetTitle(title string) {
	w.title = title
	if w.toplevel != 0 {
		w.toplevel.request(toplevelSetTitle, title)
	}
}

func (w *Window) SetIcon(images []*image.RGBA) error {
	return platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: The platform does not support setting the window icon")
}

func (w *Window) Pos() (x, y int, err error) {
	return 0, 0, platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: The platform does not provide the window position")
}

func (w *Window) SetPos(x, y int) error {
	return platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: The platform does not support setting the window position")
}

func (w *Window) Size() (width, height int) { return w.width, w.height }

// SetSize resizes immediately; the compositor has no say over floating
// client sizes.
func (w *Window) SetSize(width, height int) {
	if w.monitor != nil {
		return
	}
	w.b.deferCall(func() {
		if w.surface != 0 {
			w.resize(width, height)
		}
	})
	if w.xdgSurface != 0 {
		w.xdgSurface.request(xdgSurfaceSetWindowGeometry, int32(0), int32(0), int32(width), int32(height))
	}
}

func (w *Window) FramebufferSize() (width, height int) {
	return w.width * w.scale, w.height * w.scale
}

// FrameSize is zero: decorations are drawn by the compositor outside the
// window geometry, or not at all.
func (w *Window) FrameSize() (left, top, right, bottom int) { return 0, 0, 0, 0 }

func (w *Window) ContentScale() (xscale, yscale float32) {
	return float32(w.scale), float32(w.scale)
}

func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	w.minWidth, w.minHeight = minWidth, minHeight
	w.maxWidth, w.maxHeight = maxWidth, maxHeight
	w.applySizeLimits()
	w.commit()
}

func (w *Window) applySizeLimits() {
	if w.toplevel == 0 {
		return
	}
	var minW, minH, maxW, maxH int32
	switch {
	case !w.resizable:
		minW, minH = int32(w.width), int32(w.height)
		maxW, maxH = minW, minH
	default:
		if w.minWidth != platform.DontCare && w.minHeight != platform.DontCare {
			minW, minH = int32(w.minWidth), int32(w.minHeight)
		}
		if w.maxWidth != platform.DontCare && w.maxHeight != platform.DontCare {
			maxW, maxH = int32(w.maxWidth), int32(w.maxHeight)
		}
	}
	w.toplevel.request(toplevelSetMinSize, minW, minH)
	w.toplevel.request(toplevelSetMaxSize, maxW, maxH)
}

func (w *Window) SetAspectRatio(numer, denom int) {
	w.numer, w.denom = numer, denom
	if numer == platform.DontCare || denom == platform.DontCare || w.maximized || w.fullscreen {
		return
	}
	height := w.width * denom / numer
	if height > 0 && height != w.height {
		w.SetSize(w.width, height)
	}
}

func (w *Window) commit() {
	if w.surface != 0 {
		w.surface.request(surfaceCommit)
	}
}

func (w *Window) Show() {
	if w.visible {
		return
	}
	w.visible = true
	if w.toplevel == 0 {
		w.createShell()
	}
}

// Hide drops the toplevel role and the attached buffer, which unmaps the
// surface.
func (w *Window) Hide() {
	if !w.visible {
		return
	}
	w.visible = false
	w.destroyShell()
	w.surface.request(surfaceAttach, nil, int32(0), int32(0))
	w.surface.request(surfaceCommit)
}

// Focus is a no-op: clients cannot take keyboard focus on Wayland.
func (w *Window) Focus() {
	w.b.logger.Debug("focus requests are not supported on wayland")
}

func (w *Window) Maximize() {
	if w.toplevel != 0 {
		w.toplevel.request(toplevelSetMaximized)
	}
	w.maximized = true
}

func (w *Window) Minimize() {
	if w.toplevel != 0 {
		w.toplevel.request(toplevelSetMinimized)
	}
}

func (w *Window) Restore() {
	if w.toplevel == 0 {
		w.maximized = false
		return
	}
	if w.monitor != nil {
		w.toplevel.request(toplevelUnsetFullscreen)
	}
	if w.maximized {
		w.toplevel.request(toplevelUnsetMaximized)
	}
}

func (w *Window) RequestAttention() error {
	return platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: The platform does not support requesting attention")
}

func (w *Window) Focused() bool { return w.b.keyboardFocus == w }

// Minimized is always false: xdg-shell never tells a client it was
// minimized.
func (w *Window) Minimized() bool { return false }

func (w *Window) Maximized() bool { return w.maximized }

func (w *Window) Visible() bool { return w.visible }

func (w *Window) Hovered() bool { return w.b.pointerFocus == w }

func (w *Window) SetResizable(enabled bool) {
	w.resizable = enabled
	w.applySizeLimits()
	w.commit()
}

func (w *Window) SetDecorated(enabled bool) {
	w.decorated = enabled
	w.applyDecoration()
}

func (w *Window) SetFloating(enabled bool) {
	if enabled {
		w.b.logger.Debug("always-on-top windows are not supported on wayland")
	}
}

// SetMousePassthrough installs an empty input region so clicks reach
// whatever is below the window.
func (w *Window) SetMousePassthrough(enabled bool) error {
	w.passthrough = enabled
	if !enabled {
		w.surface.request(surfaceSetInputRegion, nil)
		w.commit()
		return nil
	}
	region := w.b.g.compositor.create(compositorCreateRegion, regionIface, 0, newID{})
	w.surface.request(surfaceSetInputRegion, region)
	w.commit()
	region.destroy(regionDestroy)
	return nil
}

func (w *Window) Opacity() float32 { return 1 }

func (w *Window) SetOpacity(opacity float32) error {
	return platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: The platform does not support setting the window opacity")
}

func (w *Window) SetMonitor(monitor platform.NativeMonitor, area platform.Rect, attrs platform.Attributes) {
	m, _ := monitor.(*Monitor)
	w.monitor = m
	if m != nil {
		if w.toplevel != 0 {
			w.toplevel.request(toplevelSetFullscreen, m.output)
		}
		w.applyDecoration()
		return
	}
	w.resizable = attrs.Resizable
	w.decorated = attrs.Decorated
	if w.toplevel != 0 {
		w.toplevel.request(toplevelUnsetFullscreen)
	}
	w.applyDecoration()
	w.applySizeLimits()
	w.SetSize(area.Width, area.Height)
}

func (w *Window) updateIdleInhibitor() {
	m := w.b.g.idleInhibitManager
	switch {
	case w.b.inhibitIdle && w.inhibitor == 0 && m != 0:
		w.inhibitor = m.create(idleInhibitManagerCreate, idleInhibitorIface, 0, newID{}, w.surface)
	case !w.b.inhibitIdle && w.inhibitor != 0:
		w.inhibitor.destroy(idleInhibitorDestroy)
		w.inhibitor = 0
	}
}
