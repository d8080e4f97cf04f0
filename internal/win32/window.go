//go:build windows

package win32

import (
	"image"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Window is a top-level Win32 window of the backend's class.
type Window struct {
	b      *Backend
	hwnd   uintptr
	events platform.WindowEvents

	bigIcon, smallIcon uintptr

	resizable bool
	decorated bool
	floating  bool

	focused     bool
	hovered     bool
	minimized   bool
	maximized   bool
	frameAction bool
	rawMotion   bool

	width, height int

	minWidth, minHeight int
	maxWidth, maxHeight int
	numer, denom        int

	monitor *Monitor

	// lastCursorX/Y is the last client position seen or warped to.
	lastCursorX, lastCursorY float64
	capture                  platform.CursorMode
	cursor                   uintptr

	highSurrogate uint16
	keysDown      map[platform.Key]bool
	buttons       uint8
}

// windowStyle computes WS_* for a window in the given state.
func windowStyle(fullscreen, decorated, resizable bool) uint32 {
	style := uint32(wsClipSiblings | wsClipChildren)
	switch {
	case fullscreen:
		style |= wsPopup
	case decorated:
		style |= wsSysMenu | wsMinimizeBox | wsCaption
		if resizable {
			style |= wsMaximizeBox | wsThickFrame
		}
	default:
		style |= wsPopup | wsSysMenu | wsMinimizeBox
	}
	return style
}

func windowExStyle(fullscreen, floating bool) uint32 {
	ex := uint32(wsExAppWindow)
	if fullscreen || floating {
		ex |= wsExTopmost
	}
	return ex
}

func (w *Window) style() uint32 {
	return windowStyle(w.monitor != nil, w.decorated, w.resizable)
}

func (w *Window) exStyle() uint32 {
	return windowExStyle(w.monitor != nil, w.floating)
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig, events platform.WindowEvents) (platform.NativeWindow, error) {
	w := &Window{
		b:         b,
		events:    events,
		resizable: cfg.Resizable,
		decorated: cfg.Decorated,
		floating:  cfg.Floating,
		minWidth:  platform.DontCare,
		minHeight: platform.DontCare,
		maxWidth:  platform.DontCare,
		maxHeight: platform.DontCare,
		numer:     platform.DontCare,
		denom:     platform.DontCare,
		keysDown:  make(map[platform.Key]bool),
	}

	style, ex := w.style(), w.exStyle()
	if cfg.Maximized {
		style |= wsMaximize
	}
	frame := rect{right: int32(cfg.Width), bottom: int32(cfg.Height)}
	procAdjustWindowRectEx.Call(ptr(&frame), uintptr(style), 0, uintptr(ex))

	hwnd, _, err := procCreateWindowEx.Call(
		uintptr(ex),
		uintptr(unsafe.Pointer(b.className)),
		uintptr(unsafe.Pointer(utf16Ptr(cfg.Title))),
		uintptr(style),
		cwUseDefault, cwUseDefault,
		uintptr(frame.right-frame.left), uintptr(frame.bottom-frame.top),
		0, 0, b.instance, 0)
	if hwnd == 0 {
		return nil, platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to create window")
	}
	w.hwnd = hwnd
	b.windows[hwnd] = w

	// Let drops and clipboard messages through from lower integrity processes.
	for _, m := range []uintptr{wmDropFiles, wmCopyData, wmCopyGlobalData} {
		procChangeWindowMessageFilterEx.Call(hwnd, m, msgfltAllow, 0)
	}

	w.fitContentToDPI(cfg.Width, cfg.Height)
	if cfg.Maximized && !cfg.Decorated {
		// Windows maximizes undecorated windows over the whole monitor.
		work := w.nearestMonitorWork()
		procSetWindowPos.Call(hwnd, hwndTop,
			uintptr(work.left), uintptr(work.top),
			uintptr(work.right-work.left), uintptr(work.bottom-work.top),
			swpNoActivate|swpNoZOrder)
	}

	procDragAcceptFiles.Call(hwnd, 1)
	if cfg.MousePassthrough {
		w.SetMousePassthrough(true)
	}
	w.width, w.height = w.clientSize()
	w.maximized = cfg.Maximized

	b.logger.Debug("window created", "window", hwnd, "width", cfg.Width, "height", cfg.Height)
	return w, nil
}

// fitContentToDPI resizes the frame so the content area is width by height
// at the window's DPI, keeping the position Windows picked.
func (w *Window) fitContentToDPI(width, height int) {
	frame := rect{right: int32(width), bottom: int32(height)}
	w.adjustRect(&frame)

	wp := windowPlacement{}
	wp.length = uint32(unsafe.Sizeof(wp))
	procGetWindowPlacement.Call(w.hwnd, ptr(&wp))
	dx := wp.normalPosition.left - frame.left
	dy := wp.normalPosition.top - frame.top
	wp.normalPosition = rect{
		left:   frame.left + dx,
		top:    frame.top + dy,
		right:  frame.right + dx,
		bottom: frame.bottom + dy,
	}
	wp.showCmd = swHide
	procSetWindowPlacement.Call(w.hwnd, ptr(&wp))
}

// adjustRect grows a client rectangle to the window rectangle.
func (w *Window) adjustRect(r *rect) {
	style, ex := w.style(), w.exStyle()
	if procAdjustWindowRectExForDpi.Find() == nil {
		procAdjustWindowRectExForDpi.Call(ptr(r), uintptr(style), 0, uintptr(ex), uintptr(w.dpi()))
		return
	}
	procAdjustWindowRectEx.Call(ptr(r), uintptr(style), 0, uintptr(ex))
}

func (w *Window) dpi() uint32 {
	if procGetDpiForWindow.Find() == nil {
		if dpi, _, _ := procGetDpiForWindow.Call(w.hwnd); dpi != 0 {
			return uint32(dpi)
		}
	}
	return userDefaultDPI
}

func (w *Window) nearestMonitorWork() rect {
	mi := monitorInfoEx{}
	mi.size = uint32(unsafe.Sizeof(mi))
	handle, _, _ := procMonitorFromWindow.Call(w.hwnd, monitorNearest)
	procGetMonitorInfo.Call(handle, ptr(&mi))
	return mi.work
}

func (w *Window) clientSize() (width, height int) {
	var r rect
	procGetClientRect.Call(w.hwnd, ptr(&r))
	return int(r.right), int(r.bottom)
}

func (w *Window) Destroy() {
	b := w.b
	if b.disabled == w {
		b.disabled = nil
		w.setRawInput(false)
	}
	if b.captured == w || w.capture == platform.CursorDisabled || w.capture == platform.CursorCaptured {
		procClipCursor.Call(0)
		b.captured = nil
	}
	delete(b.windows, w.hwnd)
	procDestroyWindow.Call(w.hwnd)
	if w.bigIcon != 0 {
		procDestroyIcon.Call(w.bigIcon)
	}
	if w.smallIcon != 0 {
		procDestroyIcon.Call(w.smallIcon)
	}
	w.events = nil
}

func (w *Window) SetTitle(title string) {
	procSetWindowText.Call(w.hwnd, uintptr(unsafe.Pointer(utf16Ptr(title))))
}

// SetIcon picks the images closest to the system's big and small icon
// sizes. An empty list restores the class icon.
func (w *Window) SetIcon(images []*image.RGBA) error {
	var big, small uintptr
	if len(images) > 0 {
		bigImg := closestIcon(images, systemMetric(smCXIcon), systemMetric(smCYIcon))
		smallImg := closestIcon(images, systemMetric(smCXSmIcon), systemMetric(smCYSmIcon))
		var err error
		if big, err = createIcon(bigImg, 0, 0, true); err != nil {
			return err
		}
		if small, err = createIcon(smallImg, 0, 0, true); err != nil {
			procDestroyIcon.Call(big)
			return err
		}
	} else {
		big, _, _ = procGetClassLongPtr.Call(w.hwnd, longIndex(gclpHIcon))
		small, _, _ = procGetClassLongPtr.Call(w.hwnd, longIndex(gclpHIconS))
	}
	procSendMessage.Call(w.hwnd, wmSetIcon, iconBig, big)
	procSendMessage.Call(w.hwnd, wmSetIcon, iconSmall, small)

	if w.bigIcon != 0 {
		procDestroyIcon.Call(w.bigIcon)
	}
	if w.smallIcon != 0 {
		procDestroyIcon.Call(w.smallIcon)
	}
	if len(images) > 0 {
		w.bigIcon, w.smallIcon = big, small
	} else {
		w.bigIcon, w.smallIcon = 0, 0
	}
	return nil
}

// closestIcon returns the image whose area is closest to width by height.
func closestIcon(images []*image.RGBA, width, height int) *image.RGBA {
	var closest *image.RGBA
	least := int(^uint(0) >> 1)
	for _, img := range images {
		size := img.Rect.Dx()*img.Rect.Dy() - width*height
		if size < 0 {
			size = -size
		}
		if size < least {
			closest, least = img, size
		}
	}
	return closest
}

// Pos returns the screen position of the content area.
func (w *Window) Pos() (x, y int, err error) {
	var p point
	procClientToScreen.Call(w.hwnd, ptr(&p))
	return int(p.x), int(p.y), nil
}

func (w *Window) SetPos(x, y int) error {
	r := rect{left: int32(x), top: int32(y), right: int32(x), bottom: int32(y)}
	w.adjustRect(&r)
	procSetWindowPos.Call(w.hwnd, 0, uintptr(r.left), uintptr(r.top), 0, 0,
		swpNoActivate|swpNoZOrder|swpNoSize)
	return nil
}

func (w *Window) Size() (width, height int) { return w.clientSize() }

func (w *Window) SetSize(width, height int) {
	r := rect{right: int32(width), bottom: int32(height)}
	w.adjustRect(&r)
	procSetWindowPos.Call(w.hwnd, hwndTop, 0, 0,
		uintptr(r.right-r.left), uintptr(r.bottom-r.top),
		swpNoActivate|swpNoOwnerZOrder|swpNoMove|swpNoZOrder)
}

func (w *Window) FramebufferSize() (width, height int) { return w.clientSize() }

func (w *Window) FrameSize() (left, top, right, bottom int) {
	width, height := w.clientSize()
	r := rect{right: int32(width), bottom: int32(height)}
	w.adjustRect(&r)
	return int(-r.left), int(-r.top), int(r.right) - width, int(r.bottom) - height
}

func (w *Window) ContentScale() (xscale, yscale float32) {
	scale := float32(w.dpi()) / userDefaultDPI
	return scale, scale
}

// SetSizeLimits stores the limits for WM_GETMINMAXINFO and nudges the
// window so they apply at once.
func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	w.minWidth, w.minHeight = minWidth, minHeight
	w.maxWidth, w.maxHeight = maxWidth, maxHeight
	if (minWidth == platform.DontCare || minHeight == platform.DontCare) &&
		(maxWidth == platform.DontCare || maxHeight == platform.DontCare) {
		return
	}
	var r rect
	procGetWindowRect.Call(w.hwnd, ptr(&r))
	procMoveWindow.Call(w.hwnd, uintptr(r.left), uintptr(r.top),
		uintptr(r.right-r.left), uintptr(r.bottom-r.top), 1)
}

func (w *Window) SetAspectRatio(numer, denom int) {
	w.numer, w.denom = numer, denom
	if numer == platform.DontCare || denom == platform.DontCare {
		return
	}
	var r rect
	procGetWindowRect.Call(w.hwnd, ptr(&r))
	w.applyAspectRatio(wmszBottomRight, &r)
	procMoveWindow.Call(w.hwnd, uintptr(r.left), uintptr(r.top),
		uintptr(r.right-r.left), uintptr(r.bottom-r.top), 1)
}

// applyAspectRatio adjusts a frame rectangle being dragged by edge so the
// content keeps numer:denom.
func (w *Window) applyAspectRatio(edge uintptr, area *rect) {
	var frame rect
	w.adjustRect(&frame)
	applyAspect(edge, area, frame, float64(w.numer)/float64(w.denom))
}

func applyAspect(edge uintptr, area *rect, frame rect, ratio float64) {
	offsetX := frame.right - frame.left
	offsetY := frame.bottom - frame.top
	switch edge {
	case wmszLeft, wmszBottomLeft, wmszRight, wmszBottomRight:
		area.bottom = area.top + offsetY + int32(float64(area.right-area.left-offsetX)/ratio)
	case wmszTopLeft, wmszTopRight:
		area.top = area.bottom - offsetY - int32(float64(area.right-area.left-offsetX)/ratio)
	case wmszTop, wmszBottom:
		area.right = area.left + offsetX + int32(float64(area.bottom-area.top-offsetY)*ratio)
	}
}

func (w *Window) Show() {
	procShowWindow.Call(w.hwnd, swShowNA)
}

func (w *Window) Hide() {
	procShowWindow.Call(w.hwnd, swHide)
}

func (w *Window) Focus() {
	procBringWindowToTop.Call(w.hwnd)
	procSetForegroundWindow.Call(w.hwnd)
	procSetFocus.Call(w.hwnd)
}

func (w *Window) Maximize() {
	if w.Visible() {
		procShowWindow.Call(w.hwnd, swMaximize)
		return
	}
	w.maximizeHidden(true)
}

// maximizeHidden changes the placement of a hidden window without showing it.
func (w *Window) maximizeHidden(maximize bool) {
	style, _, _ := procGetWindowLongPtr.Call(w.hwnd, longIndex(gwlStyle))
	if maximize {
		style |= wsMaximize
	} else {
		style &^= wsMaximize
	}
	procSetWindowLongPtr.Call(w.hwnd, longIndex(gwlStyle), style)
	w.maximized = maximize
}

func (w *Window) Minimize() {
	procShowWindow.Call(w.hwnd, swMinimize)
}

func (w *Window) Restore() {
	if !w.Visible() && w.Maximized() {
		w.maximizeHidden(false)
		return
	}
	procShowWindow.Call(w.hwnd, swRestore)
}

func (w *Window) RequestAttention() error {
	procFlashWindow.Call(w.hwnd, 1)
	return nil
}

func (w *Window) Focused() bool {
	active, _, _ := procGetActiveWindow.Call()
	return active == w.hwnd
}

func (w *Window) Minimized() bool {
	r, _, _ := procIsIconic.Call(w.hwnd)
	return r != 0
}

func (w *Window) Maximized() bool {
	r, _, _ := procIsZoomed.Call(w.hwnd)
	return r != 0
}

func (w *Window) Visible() bool {
	r, _, _ := procIsWindowVisible.Call(w.hwnd)
	return r != 0
}

// Hovered checks that the window under the pointer is this one and the
// pointer is inside the content area.
func (w *Window) Hovered() bool {
	var p point
	if r, _, _ := procGetCursorPos.Call(ptr(&p)); r == 0 {
		return false
	}
	under, _, _ := procWindowFromPoint.Call(uintptr(*(*uint64)(unsafe.Pointer(&p))))
	if under != w.hwnd {
		return false
	}
	var area rect
	procGetClientRect.Call(w.hwnd, ptr(&area))
	procScreenToClient.Call(w.hwnd, ptr(&p))
	return p.x >= area.left && p.x < area.right && p.y >= area.top && p.y < area.bottom
}

func (w *Window) SetResizable(enabled bool) {
	w.resizable = enabled
	w.updateStyles()
}

func (w *Window) SetDecorated(enabled bool) {
	w.decorated = enabled
	w.updateStyles()
}

func (w *Window) SetFloating(enabled bool) {
	w.floating = enabled
	after := hwndNoTopmost
	if enabled {
		after = hwndTopmost
	}
	procSetWindowPos.Call(w.hwnd, after, 0, 0, 0, 0, swpNoActivate|swpNoMove|swpNoSize)
}

// updateStyles swaps the style bits this package owns and keeps the content
// area where it was.
func (w *Window) updateStyles() {
	current, _, _ := procGetWindowLongPtr.Call(w.hwnd, longIndex(gwlStyle))
	style := uint32(current)
	style &^= wsOverlappedWindow | wsPopup
	style |= w.style()

	var r rect
	procGetClientRect.Call(w.hwnd, ptr(&r))
	procClientToScreen.Call(w.hwnd, ptr((*point)(unsafe.Pointer(&r.left))))
	procClientToScreen.Call(w.hwnd, ptr((*point)(unsafe.Pointer(&r.right))))
	procSetWindowLongPtr.Call(w.hwnd, longIndex(gwlStyle), uintptr(style))
	w.adjustRect(&r)
	procSetWindowPos.Call(w.hwnd, hwndTop,
		uintptr(r.left), uintptr(r.top), uintptr(r.right-r.left), uintptr(r.bottom-r.top),
		swpFrameChanged|swpNoActivate|swpNoZOrder)
}

func (w *Window) SetMousePassthrough(enabled bool) error {
	ex, _, _ := procGetWindowLongPtr.Call(w.hwnd, longIndex(gwlExStyle))
	var key, flags uint32
	var alpha uint8
	if ex&wsExLayered != 0 {
		procGetLayeredWindowAttributes.Call(w.hwnd, ptr(&key), ptr(&alpha), ptr(&flags))
	}
	if enabled {
		ex |= wsExTransparent | wsExLayered
	} else {
		ex &^= wsExTransparent
		// Drop the layered style only if nothing else needs it.
		if ex&wsExLayered != 0 && flags&lwaAlpha == 0 {
			ex &^= wsExLayered
		}
	}
	procSetWindowLongPtr.Call(w.hwnd, longIndex(gwlExStyle), ex)
	if enabled {
		procSetLayeredWindowAttributes.Call(w.hwnd, uintptr(key), uintptr(alpha), uintptr(flags))
	}
	return nil
}

func (w *Window) Opacity() float32 {
	ex, _, _ := procGetWindowLongPtr.Call(w.hwnd, longIndex(gwlExStyle))
	if ex&wsExLayered == 0 {
		return 1
	}
	var alpha uint8
	var flags uint32
	if r, _, _ := procGetLayeredWindowAttributes.Call(w.hwnd, 0, ptr(&alpha), ptr(&flags)); r != 0 && flags&lwaAlpha != 0 {
		return float32(alpha) / 255
	}
	return 1
}

func (w *Window) SetOpacity(opacity float32) error {
	ex, _, _ := procGetWindowLongPtr.Call(w.hwnd, longIndex(gwlExStyle))
	if opacity < 1 || ex&wsExTransparent != 0 {
		ex |= wsExLayered
		procSetWindowLongPtr.Call(w.hwnd, longIndex(gwlExStyle), ex)
		procSetLayeredWindowAttributes.Call(w.hwnd, 0, uintptr(uint8(opacity*255)), lwaAlpha)
		return nil
	}
	ex &^= wsExLayered
	procSetWindowLongPtr.Call(w.hwnd, longIndex(gwlExStyle), ex)
	return nil
}

func (w *Window) SetMonitor(monitor platform.NativeMonitor, area platform.Rect, attrs platform.Attributes) {
	if monitor != nil {
		w.monitor, _ = monitor.(*Monitor)
		w.updateStyles()
		procSetWindowPos.Call(w.hwnd, hwndTopmost,
			uintptr(area.X), uintptr(area.Y), uintptr(area.Width), uintptr(area.Height),
			swpShowWindow|swpNoActivate|swpNoCopyBits|swpFrameChanged)
		return
	}

	w.monitor = nil
	w.resizable = attrs.Resizable
	w.decorated = attrs.Decorated
	w.floating = attrs.Floating
	w.updateStyles()

	after := hwndNoTopmost
	if w.floating {
		after = hwndTopmost
	}
	r := rect{
		left:   int32(area.X),
		top:    int32(area.Y),
		right:  int32(area.X + area.Width),
		bottom: int32(area.Y + area.Height),
	}
	w.adjustRect(&r)
	procSetWindowPos.Call(w.hwnd, after,
		uintptr(r.left), uintptr(r.top), uintptr(r.right-r.left), uintptr(r.bottom-r.top),
		swpFrameChanged|swpNoActivate|swpNoCopyBits)
}
