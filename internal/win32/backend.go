//go:build windows

// Package win32 implements the windowing backend on the Win32 API. All
// calls must come from the goroutine that called Init, which is locked to
// its OS thread because window messages are delivered per thread.
package win32

import (
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/google/uuid"
	"golang.org/x/sys/windows"
)

// Options configures the Win32 backend.
type Options struct {
	// ClipboardTimeout bounds how long clipboard calls retry while another
	// process holds the clipboard open.
	ClipboardTimeout time.Duration
}

// Backend implements platform.Backend with Win32 windows.
type Backend struct {
	opts   Options
	host   platform.Host
	logger *slog.Logger

	instance  uintptr
	className *uint16
	helper    uintptr

	monitors []*Monitor
	windows  map[uintptr]*Window

	keycodes  [512]platform.Key
	scancodes map[platform.Key]int
	keyNames  map[int]string

	// disabled and captured are the windows holding the pointer, if any.
	disabled *Window
	captured *Window

	rawInput []byte

	foregroundLockTimeout uint32
	screensaverInhibited  bool
}

var (
	_ platform.Backend       = (*Backend)(nil)
	_ platform.NativeWindow  = (*Window)(nil)
	_ platform.NativeMonitor = (*Monitor)(nil)
	_ platform.NativeCursor  = (*Cursor)(nil)
)

// active is the initialized backend the window procedure dispatches to.
var active *Backend

var windowProcCallback = sync.OnceValue(func() uintptr {
	return windows.NewCallback(windowProc)
})

// New returns an uninitialized Win32 backend.
func New(opts Options) *Backend {
	if opts.ClipboardTimeout <= 0 {
		opts.ClipboardTimeout = time.Second
	}
	return &Backend{
		opts:    opts,
		windows: make(map[uintptr]*Window),
	}
}

func (b *Backend) Name() string { return "win32" }

// Init registers the window class, creates the helper window and reads
// the monitors.
func (b *Backend) Init(host platform.Host) error {
	b.host = host
	b.logger = host.Logger().With("backend", "win32")

	if err := user32.Load(); err != nil {
		return platform.Wrap(platform.APIUnavailable, err, "[Window] Win32: failed to load user32.dll")
	}
	if active != nil {
		return platform.Errorf(platform.PlatformError, "[Window] Win32: another backend is already initialized")
	}
	requireWindows7()
	runtime.LockOSThread()

	// Let focus requests win over the foreground lock.
	procSystemParametersInfo.Call(spiGetForegroundLockTimeout, 0, ptr(&b.foregroundLockTimeout), 0)
	procSystemParametersInfo.Call(spiSetForegroundLockTimeout, 0, 0, spifSendChange)

	b.setDPIAwareness()
	b.keycodes, b.scancodes = keyTables()
	b.instance = moduleHandle()

	if err := b.registerClass(); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	active = b
	if err := b.createHelperWindow(); err != nil {
		b.unregisterClass()
		active = nil
		runtime.UnlockOSThread()
		return err
	}
	b.pollMonitors(false)

	b.logger.Debug("win32 backend ready", "monitors", len(b.monitors))
	return nil
}

func (b *Backend) setDPIAwareness() {
	switch {
	case procSetProcessDpiAwarenessCtx.Find() == nil:
		procSetProcessDpiAwarenessCtx.Call(dpiAwarenessPMv2)
	case procSetProcessDPIAware.Find() == nil:
		procSetProcessDPIAware.Call()
	}
}

// requireWindows7 shows a message box and exits the process on versions
// older than Windows 7.
func requireWindows7() {
	v := windows.RtlGetVersion()
	if v.MajorVersion > 6 || (v.MajorVersion == 6 && v.MinorVersion >= 1) {
		return
	}
	windows.MessageBox(0,
		utf16Ptr("Unsupported Windows version. Windows 7 or newer is required."),
		utf16Ptr("Unsupported Windows Version"),
		windows.MB_OK|windows.MB_ICONERROR)
	os.Exit(1)
}

// registerClass registers a window class whose name is unique to this
// backend, so two processes loading the package never share a class.
func (b *Backend) registerClass() error {
	b.className = utf16Ptr("WindowKit-" + uuid.NewString())
	arrow, _, _ := procLoadCursor.Call(0, ocrNormal)
	wc := wndClassEx{
		style:     csHRedraw | csVRedraw | csOwnDC,
		wndProc:   windowProcCallback(),
		instance:  b.instance,
		cursor:    arrow,
		className: b.className,
	}
	wc.size = uint32(unsafe.Sizeof(wc))
	r, _, err := procRegisterClassEx.Call(ptr(&wc))
	if r == 0 {
		var errno windows.Errno
		if errors.As(err, &errno) && errno == errorClassExists {
			return nil
		}
		return platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to register window class")
	}
	return nil
}

func (b *Backend) unregisterClass() {
	procUnregisterClass.Call(uintptr(unsafe.Pointer(b.className)), b.instance)
}

// createHelperWindow creates the hidden window that owns the clipboard,
// receives display changes and wakes WaitEvents.
func (b *Backend) createHelperWindow() error {
	hwnd, _, err := procCreateWindowEx.Call(
		wsExOverlappedWindow,
		uintptr(unsafe.Pointer(b.className)),
		uintptr(unsafe.Pointer(utf16Ptr("WindowKit Helper"))),
		wsClipSiblings|wsClipChildren,
		0, 0, 1, 1,
		0, 0, b.instance, 0)
	if hwnd == 0 {
		return platform.Wrap(platform.PlatformError, err, "[Window] Win32: Failed to create helper window")
	}
	b.helper = hwnd
	// The first ShowWindow call may be ignored if the parent process passed
	// STARTUPINFO, so spend it here.
	procShowWindow.Call(hwnd, swHide)

	var m msg
	for {
		r, _, _ := procPeekMessage.Call(ptr(&m), hwnd, 0, 0, pmRemove)
		if r == 0 {
			break
		}
		procTranslateMessage.Call(ptr(&m))
		procDispatchMessage.Call(ptr(&m))
	}
	return nil
}

func (b *Backend) Shutdown() {
	if active != b {
		return
	}
	b.SetScreensaverInhibited(false)
	for _, m := range b.monitors {
		m.RestoreVideoMode()
	}
	if b.helper != 0 {
		procDestroyWindow.Call(b.helper)
		b.helper = 0
	}
	b.unregisterClass()
	procSystemParametersInfo.Call(spiSetForegroundLockTimeout, 0, uintptr(b.foregroundLockTimeout), spifSendChange)

	b.monitors = nil
	b.windows = make(map[uintptr]*Window)
	b.rawInput = nil
	active = nil
	runtime.UnlockOSThread()
}

func (b *Backend) Monitors() []platform.NativeMonitor {
	out := make([]platform.NativeMonitor, len(b.monitors))
	for i, m := range b.monitors {
		out[i] = m
	}
	return out
}

// Event processing.

func (b *Backend) PollEvents() {
	var m msg
	for {
		r, _, _ := procPeekMessage.Call(ptr(&m), 0, 0, 0, pmRemove)
		if r == 0 {
			break
		}
		if m.message == wmQuit {
			// Another process, such as Task Manager, asked us to quit.
			for _, w := range b.windows {
				w.events.InputWindowCloseRequest()
			}
			continue
		}
		procTranslateMessage.Call(ptr(&m))
		procDispatchMessage.Call(ptr(&m))
	}

	b.releaseStuckKeys()

	b.recenterDisabledCursor()
}

// recenterDisabledCursor keeps a disabled cursor at the centre of its window
// so it never stops at the screen edge.
func (b *Backend) recenterDisabledCursor() {
	w := b.disabled
	if w == nil || !w.focused {
		return
	}
	width, height := w.Size()
	cx, cy := float64(width/2), float64(height/2)
	if w.lastCursorX != cx || w.lastCursorY != cy {
		w.SetCursorPos(cx, cy)
	}
}

// releaseStuckKeys reports releases the system never sent: the first of two
// held Shift keys and the Windows keys after some hotkeys.
func (b *Backend) releaseStuckKeys() {
	active, _, _ := procGetActiveWindow.Call()
	w := b.windows[active]
	if w == nil {
		return
	}
	for _, k := range []struct {
		vk  uintptr
		key platform.Key
	}{
		{vkLShift, platform.KeyLeftShift},
		{vkRShift, platform.KeyRightShift},
		{vkLWin, platform.KeyLeftSuper},
		{vkRWin, platform.KeyRightSuper},
	} {
		state, _, _ := procGetAsyncKeyState.Call(k.vk)
		if state&0x8000 != 0 || !w.keysDown[k.key] {
			continue
		}
		w.inputKey(k.key, b.scancodes[k.key], platform.Released)
	}
}

func (b *Backend) WaitEvents(timeout time.Duration) {
	ms := uintptr(infinite)
	if timeout >= 0 {
		ms = uintptr(timeout.Milliseconds())
	}
	procMsgWaitForMultipleObjects.Call(0, 0, 0, ms, qsAllInput)
	b.PollEvents()
}

// PostEmptyEvent posts a null message to the helper window, which is safe
// from any thread.
func (b *Backend) PostEmptyEvent() {
	if b.helper != 0 {
		procPostMessage.Call(b.helper, wmNull, 0, 0)
	}
}

func (b *Backend) RawMouseMotionSupported() bool { return true }

func (b *Backend) SetScreensaverInhibited(inhibit bool) {
	if inhibit == b.screensaverInhibited {
		return
	}
	b.screensaverInhibited = inhibit
	flags := uintptr(esContinuous)
	if inhibit {
		flags |= esDisplayReq | esSystemRequired
	}
	procSetThreadExecutionState.Call(flags)
}

func (b *Backend) VulkanSurfaceExtension() string { return "VK_KHR_win32_surface" }

// windowProc receives the messages of every window of the class. Messages
// sent before a window is registered, and those of the helper window, take
// the helper path.
func windowProc(hwnd, message, wParam, lParam uintptr) uintptr {
	b := active
	if b != nil {
		if w := b.windows[hwnd]; w != nil {
			if r, ok := w.handleMessage(uint32(message), wParam, lParam); ok {
				return r
			}
		} else {
			b.handleHelperMessage(hwnd, uint32(message))
		}
	}
	r, _, _ := procDefWindowProc.Call(hwnd, message, wParam, lParam)
	return r
}

func (b *Backend) handleHelperMessage(hwnd uintptr, message uint32) {
	switch message {
	case wmNCCreate:
		if procEnableNonClientDpiScaling.Find() == nil {
			procEnableNonClientDpiScaling.Call(hwnd)
		}
	case wmDisplayChange:
		b.pollMonitors(true)
	}
}
