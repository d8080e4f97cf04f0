//go:build windows

package win32

import (
	"image"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Cursor is a cursor handle. Shared handles belong to the system and are
// never destroyed.
type Cursor struct {
	handle uintptr
	shared bool
}

func (c *Cursor) Destroy() {
	if c.handle != 0 && !c.shared {
		procDestroyIcon.Call(c.handle)
	}
	c.handle = 0
}

var standardCursors = map[platform.CursorShape]uintptr{
	platform.CursorArrow:              ocrNormal,
	platform.CursorInput:              ocrIBeam,
	platform.CursorCrosshair:          ocrCross,
	platform.CursorPointingHand:       ocrHand,
	platform.CursorResizeHorizontal:   ocrSizeWE,
	platform.CursorResizeVertical:     ocrSizeNS,
	platform.CursorResizeDiagonalTLBR: ocrSizeNWSE,
	platform.CursorResizeDiagonalTRBL: ocrSizeNESW,
	platform.CursorResizeAll:          ocrSizeAll,
	platform.CursorNotAllowed:         ocrNo,
}

func (b *Backend) CreateStandardCursor(shape platform.CursorShape) (platform.NativeCursor, error) {
	id, ok := standardCursors[shape]
	if !ok {
		return nil, platform.Errorf(platform.CursorUnavailable, "[Window] Win32: Unknown standard cursor %s", shape)
	}
	handle, _, err := procLoadImage.Call(0, id, imageCursor, 0, 0, lrDefaultSize|lrShared)
	if handle == 0 {
		return nil, platform.Wrap(platform.CursorUnavailable, err, "[Window] Win32: Failed to create standard cursor")
	}
	return &Cursor{handle: handle, shared: true}, nil
}

func (b *Backend) CreateCursor(img *image.RGBA, xhot, yhot int) (platform.NativeCursor, error) {
	handle, err := createIcon(img, xhot, yhot, false)
	if err != nil {
		return nil, err
	}
	return &Cursor{handle: handle}, nil
}

// createIcon builds an icon or cursor from a 32-bit top-down DIB with an
// alpha channel and an empty monochrome mask.
func createIcon(img *image.RGBA, xhot, yhot int, icon bool) (uintptr, error) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	bi := bitmapV5Header{
		width:       int32(width),
		height:      -int32(height),
		planes:      1,
		bitCount:    32,
		compression: biBitfields,
		redMask:     0x00ff0000,
		greenMask:   0x0000ff00,
		blueMask:    0x000000ff,
		alphaMask:   0xff000000,
	}
	bi.size = uint32(unsafe.Sizeof(bi))

	dc, _, _ := procGetDC.Call(0)
	var bits unsafe.Pointer
	color, _, err := procCreateDIBSection.Call(dc, ptr(&bi), dibRGBColors, uintptr(unsafe.Pointer(&bits)), 0, 0)
	procReleaseDC.Call(0, dc)
	if color == 0 {
		return 0, platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to create RGBA bitmap")
	}
	defer procDeleteObject.Call(color)

	mask, _, err := procCreateBitmap.Call(uintptr(width), uintptr(height), 1, 1, 0)
	if mask == 0 {
		return 0, platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to create mask bitmap")
	}
	defer procDeleteObject.Call(mask)

	copy(unsafe.Slice((*byte)(bits), width*height*4), toBGRA(img))

	ii := iconInfo{
		xHotspot: uint32(xhot),
		yHotspot: uint32(yhot),
		mask:     mask,
		color:    color,
	}
	if icon {
		ii.icon = 1
	}
	handle, _, err := procCreateIconIndirect.Call(ptr(&ii))
	if handle == 0 {
		if icon {
			return 0, platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to create icon")
		}
		return 0, platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to create cursor")
	}
	return handle, nil
}

// toBGRA reorders straight RGBA pixels into the DIB's BGRA layout.
func toBGRA(img *image.RGBA) []byte {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			i, o := x*4, (y*width+x)*4
			out[o] = row[i+2]
			out[o+1] = row[i+1]
			out[o+2] = row[i]
			out[o+3] = row[i+3]
		}
	}
	return out
}

// CursorPos reads the pointer position relative to the content area.
func (w *Window) CursorPos() (x, y float64) {
	var p point
	if r, _, _ := procGetCursorPos.Call(ptr(&p)); r == 0 {
		return w.lastCursorX, w.lastCursorY
	}
	procScreenToClient.Call(w.hwnd, ptr(&p))
	return float64(p.x), float64(p.y)
}

// SetCursorPos warps the pointer and records the target so the resulting
// WM_MOUSEMOVE is not reported as motion.
func (w *Window) SetCursorPos(x, y float64) {
	p := point{x: int32(x), y: int32(y)}
	w.lastCursorX, w.lastCursorY = float64(p.x), float64(p.y)
	procClientToScreen.Call(w.hwnd, ptr(&p))
	procSetCursorPos.Call(uintptr(p.x), uintptr(p.y))
}

// SetCursorCapture confines the pointer to the content area for the
// disabled and captured modes and releases it otherwise.
func (w *Window) SetCursorCapture(mode platform.CursorMode) {
	b := w.b
	w.capture = mode
	switch mode {
	case platform.CursorDisabled:
		b.disabled = w
		w.captureCursor()
		if w.rawMotion {
			w.setRawInput(true)
		}
	case platform.CursorCaptured:
		if b.disabled == w {
			b.disabled = nil
			w.setRawInput(false)
		}
		w.captureCursor()
	default:
		if b.disabled == w {
			b.disabled = nil
			w.setRawInput(false)
		}
		if b.captured == w {
			w.releaseCursor()
		}
	}
}

func (w *Window) captureCursor() {
	var r rect
	procGetClientRect.Call(w.hwnd, ptr(&r))
	procClientToScreen.Call(w.hwnd, ptr((*point)(unsafe.Pointer(&r.left))))
	procClientToScreen.Call(w.hwnd, ptr((*point)(unsafe.Pointer(&r.right))))
	procClipCursor.Call(ptr(&r))
	w.b.captured = w
}

func (w *Window) releaseCursor() {
	procClipCursor.Call(0)
	w.b.captured = nil
}

// ApplyCursor sets the cursor image now and remembers it for WM_SETCURSOR.
func (w *Window) ApplyCursor(mode platform.CursorMode, cursor platform.NativeCursor) {
	w.cursor = 0
	switch {
	case mode == platform.CursorHidden || mode == platform.CursorDisabled:
	case cursor != nil:
		if c, ok := cursor.(*Cursor); ok {
			w.cursor = c.handle
		}
	default:
		w.cursor, _, _ = procLoadCursor.Call(0, ocrNormal)
	}
	procSetCursor.Call(w.cursor)
}

// SetRawMouseMotion registers for WM_INPUT while the cursor is disabled.
func (w *Window) SetRawMouseMotion(enabled bool) {
	if w.rawMotion == enabled {
		return
	}
	w.rawMotion = enabled
	if w.b.disabled == w {
		w.setRawInput(enabled)
	}
}

func (w *Window) setRawInput(enabled bool) {
	rid := rawInputDevice{usagePage: 0x01, usage: 0x02}
	if enabled {
		rid.target = w.hwnd
	} else {
		rid.flags = ridevRemove
	}
	r, _, err := procRegisterRawInputDevices.Call(ptr(&rid), 1, unsafe.Sizeof(rid))
	if r == 0 {
		if enabled {
			w.b.logger.Warn("failed to register raw input device", "error", err)
		} else {
			w.b.logger.Warn("failed to remove raw input device", "error", err)
		}
	}
}
