package platform

import (
	"image"
	"log/slog"
	"time"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/vkloader"
	vulkan "github.com/goki/vulkan"
)

// Backend abstracts one native windowing system (Win32, X11, Wayland or the
// in-memory headless backend). Exactly one backend is active per process
// state and every public windowing operation goes through it.
type Backend interface {
	// Name identifies the backend ("x11", "wayland", "win32", "headless").
	Name() string
	// Init connects to the windowing system. Monitors discovered during Init
	// are returned by Monitors, primary first.
	Init(host Host) error
	// Shutdown releases every backend resource. Windows and cursors have
	// already been destroyed by the caller.
	Shutdown()
	Monitors() []NativeMonitor

	CreateWindow(cfg WindowConfig, events WindowEvents) (NativeWindow, error)
	CreateCursor(img *image.RGBA, xhot, yhot int) (NativeCursor, error)
	CreateStandardCursor(shape CursorShape) (NativeCursor, error)

	// PollEvents processes pending events without blocking.
	PollEvents()
	// WaitEvents blocks until at least one event was processed, the timeout
	// elapsed, or PostEmptyEvent was called. A negative timeout waits forever.
	WaitEvents(timeout time.Duration)
	// PostEmptyEvent wakes a blocked WaitEvents. Safe from any goroutine.
	PostEmptyEvent()

	SetClipboardString(text string) error
	ClipboardString() (string, error)

	RawMouseMotionSupported() bool
	KeyScancode(key Key) int
	KeyName(key Key, scancode int) string
	SetScreensaverInhibited(inhibit bool)

	// VulkanSurfaceExtension is the platform surface extension name, for
	// example "VK_KHR_xcb_surface". Empty when Vulkan cannot be used.
	VulkanSurfaceExtension() string
}

// Host is the process state as seen by a backend.
type Host interface {
	Logger() *slog.Logger
	InputMonitorConnect(monitor NativeMonitor, placement Placement)
	InputMonitorDisconnect(monitor NativeMonitor)
}

// NativeWindow is the backend half of a window. Sizes are content-area
// sizes in screen coordinates on every backend.
type NativeWindow interface {
	Destroy()

	SetTitle(title string)
	SetIcon(images []*image.RGBA) error

	Pos() (x, y int, err error)
	SetPos(x, y int) error
	Size() (width, height int)
	SetSize(width, height int)
	FramebufferSize() (width, height int)
	FrameSize() (left, top, right, bottom int)
	ContentScale() (xscale, yscale float32)
	SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int)
	SetAspectRatio(numer, denom int)

	Show()
	Hide()
	Focus()
	Maximize()
	Minimize()
	Restore()
	RequestAttention() error

	Focused() bool
	Minimized() bool
	Maximized() bool
	Visible() bool
	Hovered() bool

	SetResizable(enabled bool)
	SetDecorated(enabled bool)
	SetFloating(enabled bool)
	SetMousePassthrough(enabled bool) error
	Opacity() float32
	SetOpacity(opacity float32) error

	// SetMonitor places the window full screen on monitor covering area, or
	// back to windowed mode at area with attrs re-applied when monitor is nil.
	SetMonitor(monitor NativeMonitor, area Rect, attrs Attributes)

	CursorPos() (x, y float64)
	SetCursorPos(x, y float64)
	// SetCursorCapture locks (CursorDisabled), confines (CursorCaptured) or
	// releases (any other mode) the pointer.
	SetCursorCapture(mode CursorMode)
	// ApplyCursor shows the cursor image for mode: hidden for Hidden and
	// Disabled, otherwise cursor or the default arrow when cursor is nil.
	ApplyCursor(mode CursorMode, cursor NativeCursor)
	SetRawMouseMotion(enabled bool)

	CreateVulkanSurface(loader *vkloader.Loader, instance vulkan.Instance, allocator unsafe.Pointer) (vulkan.Surface, vulkan.Result)
}

// NativeMonitor is the backend half of a monitor.
type NativeMonitor interface {
	Name() string
	Pos() (x, y int)
	WorkArea() Rect
	PhysicalSize() (widthMM, heightMM int)
	ContentScale() (xscale, yscale float32)
	VideoModes() ([]VideoMode, error)
	CurrentMode() (VideoMode, error)
	SetVideoMode(mode VideoMode) error
	RestoreVideoMode()
}

// NativeCursor is a backend cursor handle.
type NativeCursor interface {
	Destroy()
}

// WindowEvents receives normalized input for one window. Backends call it
// synchronously from PollEvents/WaitEvents.
type WindowEvents interface {
	InputWindowPos(x, y int)
	InputWindowSize(width, height int)
	InputFramebufferSize(width, height int)
	InputWindowContentScale(xscale, yscale float32)
	InputWindowMinimize(minimized bool)
	InputWindowMaximize(maximized bool)
	InputWindowFocus(focused bool)
	InputWindowCloseRequest()

	InputKey(key Key, scancode int, state KeyState)
	InputChar(codepoint rune)
	InputMouseClick(button MouseButton, state KeyState)
	// InputCursorPos reports an absolute content-area position.
	InputCursorPos(x, y float64)
	// InputCursorDelta reports relative motion while the cursor is disabled.
	InputCursorDelta(dx, dy float64)
	InputCursorEnter(entered bool)
	InputScroll(xoffset, yoffset float64)
	InputDrop(paths []string)

	// CursorMode is the window's current logical cursor mode.
	CursorMode() CursorMode
}

// ToRGBA converts any image to a tightly packed, non-premultiplied RGBA image.
func ToRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a != 0 && a != 0xffff {
				r = r * 0xffff / a
				g = g * 0xffff / a
				bl = bl * 0xffff / a
			}
			i := y*out.Stride + x*4
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			out.Pix[i+3] = uint8(a >> 8)
		}
	}
	return out
}
