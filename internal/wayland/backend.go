//go:build linux

package wayland

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
	"golang.org/x/sys/unix"
)

// Options configures the Wayland backend.
type Options struct {
	// Display overrides $WAYLAND_DISPLAY.
	Display string
	// AppID is sent as the xdg_toplevel app id.
	AppID string
	// CursorTheme and CursorSize override $XCURSOR_THEME and $XCURSOR_SIZE.
	CursorTheme string
	CursorSize  int
	// ClipboardTimeout bounds how long ClipboardString waits for the
	// selection owner.
	ClipboardTimeout time.Duration
}

// globals are the registry objects the backend binds.
type globals struct {
	compositor         proxy
	shm                proxy
	seat               proxy
	seatName           uint32
	wmBase             proxy
	dataDeviceManager  proxy
	decorationManager  proxy
	relativePointers   proxy
	pointerConstraints proxy
	idleInhibitManager proxy
}

// Backend implements platform.Backend on a Wayland connection.
type Backend struct {
	opts   Options
	host   platform.Host
	logger *slog.Logger

	display  uintptr
	registry proxy
	g        globals

	monitors []*Monitor
	windows  map[proxy]*Window
	ready    bool

	// Seat devices and their focus.
	pointer         proxy
	keyboard        proxy
	relativePointer proxy
	pointerFocus    *Window
	keyboardFocus   *Window
	pointerSerial   uint32
	inputSerial     uint32

	xkb         *xkb
	repeatRate  int32
	repeatDelay int32
	repeatKey   uint32
	repeatFD    int

	cursors       *cursorTheme
	cursorSurface proxy
	arrow         *Cursor

	dataDevice   proxy
	offers       map[proxy]*dataOffer
	selection    *dataOffer
	dragOffer    *dataOffer
	dragWindow   *Window
	dragSerial   uint32
	source       proxy
	sourceText   string
	inhibitIdle  bool
	wakeFD       int
	pendingCalls []func()
}

var (
	_ platform.Backend       = (*Backend)(nil)
	_ platform.NativeWindow  = (*Window)(nil)
	_ platform.NativeMonitor = (*Monitor)(nil)
	_ platform.NativeCursor  = (*Cursor)(nil)
)

// New returns an unconnected Wayland backend.
func New(opts Options) *Backend {
	return &Backend{
		opts:     opts,
		windows:  make(map[proxy]*Window),
		offers:   make(map[proxy]*dataOffer),
		repeatFD: -1,
		wakeFD:   -1,
	}
}

func (b *Backend) Name() string { return "wayland" }

// Init connects to the compositor, binds the globals and waits for the
// initial output and seat state.
func (b *Backend) Init(host platform.Host) error {
	b.host = host
	b.logger = host.Logger().With("backend", "wayland")

	if err := loadClient(); err != nil {
		return platform.Wrap(platform.APIUnavailable, err, "[Window] Wayland: failed to load libwayland-client")
	}
	var name *byte
	if b.opts.Display != "" {
		name = &cString(b.opts.Display)[0]
	}
	b.display = wl.displayConnect(name)
	if b.display == 0 {
		return platform.Errorf(platform.PlatformError, "[Window] Wayland: failed to connect to display %q", b.opts.Display)
	}

	x, err := openXKB()
	if err != nil {
		b.disconnect()
		return platform.Wrap(platform.APIUnavailable, err, "[Window] Wayland: failed to load libxkbcommon")
	}
	b.xkb = x

	b.wakeFD, err = unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		b.disconnect()
		return platform.Wrap(platform.PlatformError, err, "[Window] Wayland: failed to create wake event")
	}
	b.repeatFD, err = unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		b.disconnect()
		return platform.Wrap(platform.PlatformError, err, "[Window] Wayland: failed to create key repeat timer")
	}

	b.registry = proxy(b.display).create(1, registryIface, 1, newID{})
	b.registry.listen(b.handleRegistry)

	// Sync so we got all registry objects, then again for their initial events.
	wl.displayRoundtrip(b.display)
	wl.displayRoundtrip(b.display)

	if b.g.wmBase == 0 {
		b.disconnect()
		return platform.Errorf(platform.PlatformError, "[Window] Wayland: Failed to find xdg-shell in your compositor")
	}
	if b.g.shm == 0 {
		b.disconnect()
		return platform.Errorf(platform.PlatformError, "[Window] Wayland: Failed to find wl_shm in your compositor")
	}

	b.cursors = b.loadCursorTheme()
	b.cursorSurface = b.g.compositor.create(compositorCreateSurface, surfaceIface, 0, newID{})
	if b.g.dataDeviceManager != 0 && b.g.seat != 0 {
		b.dataDevice = b.g.dataDeviceManager.create(dataDeviceManagerGetDevice, dataDeviceIface, 0, newID{}, b.g.seat)
		b.dataDevice.listen(b.handleDataDevice)
	}

	b.ready = true
	b.logger.Debug("wayland backend ready", "monitors", len(b.monitors),
		"decorations", b.g.decorationManager != 0, "pointer_constraints", b.g.pointerConstraints != 0)
	return nil
}

func (b *Backend) handleRegistry(opcode uint32, args eventArgs) {
	switch opcode {
	case registryGlobal:
		b.bindGlobal(args.Uint(0), args.String(1), args.Uint(2))
	case registryGlobalRemove:
		name := args.Uint(0)
		for _, m := range b.monitors {
			if m.name == name {
				b.removeMonitor(m)
				return
			}
		}
	}
}

func (b *Backend) bindGlobal(name uint32, ifaceName string, version uint32) {
	bind := func(i *iface, supported uint32) proxy {
		v := min(version, supported)
		return b.registry.create(registryBind, i, v, name, i.name, v, newID{})
	}
	switch ifaceName {
	case "wl_compositor":
		b.g.compositor = bind(compositorIface, 4)
	case "wl_shm":
		b.g.shm = bind(shmIface, 1)
	case "wl_output":
		b.addOutput(name, bind(outputIface, 4))
	case "wl_seat":
		if b.g.seat == 0 {
			b.g.seat = bind(seatIface, 5)
			b.g.seatName = name
			b.g.seat.listen(b.handleSeat)
		}
	case "wl_data_device_manager":
		b.g.dataDeviceManager = bind(dataDeviceManagerIface, 3)
	case "xdg_wm_base":
		b.g.wmBase = bind(wmBaseIface, 1)
		b.g.wmBase.listen(func(opcode uint32, args eventArgs) {
			if opcode == wmBasePing {
				b.g.wmBase.request(wmBasePong, args.Uint(0))
			}
		})
	case "zxdg_decoration_manager_v1":
		b.g.decorationManager = bind(decorationManagerIface, 1)
	case "zwp_relative_pointer_manager_v1":
		b.g.relativePointers = bind(relativePointerManagerIface, 1)
	case "zwp_pointer_constraints_v1":
		b.g.pointerConstraints = bind(pointerConstraintsIface, 1)
	case "zwp_idle_inhibit_manager_v1":
		b.g.idleInhibitManager = bind(idleInhibitManagerIface, 1)
	}
}

// Shutdown destroys every global and disconnects.
func (b *Backend) Shutdown() {
	b.ready = false
	for _, m := range b.monitors {
		m.destroy()
	}
	b.monitors = nil
	b.destroySource()
	for _, o := range b.offers {
		o.destroy()
	}
	b.offers = map[proxy]*dataOffer{}
	b.selection, b.dragOffer = nil, nil
	if b.dataDevice != 0 {
		if b.dataDevice.version() >= 2 {
			b.dataDevice.destroy(dataDeviceRelease)
		} else {
			b.dataDevice.release()
		}
		b.dataDevice = 0
	}
	b.releaseSeatDevices()
	if b.cursorSurface != 0 {
		b.cursorSurface.destroy(surfaceDestroy)
		b.cursorSurface = 0
	}
	b.arrow = nil
	if b.cursors != nil {
		b.cursors.destroy()
		b.cursors = nil
	}
	g := &b.g
	g.relativePointers.destroy(relativePointerManagerDestroy)
	g.pointerConstraints.destroy(pointerConstraintsDestroy)
	g.idleInhibitManager.destroy(idleInhibitManagerDestroy)
	g.decorationManager.destroy(decorationManagerDestroy)
	g.wmBase.destroy(wmBaseDestroy)
	g.dataDeviceManager.release()
	g.shm.release()
	g.compositor.release()
	if g.seat != 0 {
		if g.seat.version() >= 5 {
			g.seat.destroy(seatRelease)
		} else {
			g.seat.release()
		}
	}
	b.g = globals{}
	b.registry.release()
	b.registry = 0
	b.disconnect()
}

func (b *Backend) disconnect() {
	if b.xkb != nil {
		b.xkb.close()
		b.xkb = nil
	}
	if b.repeatFD >= 0 {
		unix.Close(b.repeatFD)
		b.repeatFD = -1
	}
	if b.wakeFD >= 0 {
		unix.Close(b.wakeFD)
		b.wakeFD = -1
	}
	if b.display != 0 {
		wl.displayFlush(b.display)
		wl.displayDisconnect(b.display)
		b.display = 0
	}
}

func (b *Backend) Monitors() []platform.NativeMonitor {
	out := make([]platform.NativeMonitor, 0, len(b.monitors))
	for _, m := range b.monitors {
		if m.done {
			out = append(out, m)
		}
	}
	return out
}

// deferCall queues fn to run on the next event pump, for notifications caused
// by requests rather than by the compositor.
func (b *Backend) deferCall(fn func()) {
	b.pendingCalls = append(b.pendingCalls, fn)
}

func (b *Backend) runDeferred() bool {
	if len(b.pendingCalls) == 0 {
		return false
	}
	calls := b.pendingCalls
	b.pendingCalls = nil
	for _, fn := range calls {
		fn()
	}
	return true
}

func (b *Backend) PollEvents() {
	b.handleEvents(0)
}

// WaitEvents blocks until an event was handled or the timeout elapsed.
func (b *Backend) WaitEvents(timeout time.Duration) {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		remaining := time.Duration(-1)
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
		}
		if b.handleEvents(remaining) || remaining == 0 {
			return
		}
	}
}

// handleEvents reads and dispatches compositor events, key repeats and
// wake-ups, waiting up to timeout (forever when negative). It reports
// whether anything was handled.
func (b *Backend) handleEvents(timeout time.Duration) bool {
	if b.display == 0 {
		return false
	}
	handled := b.runDeferred()
	for wl.displayPrepareRead(b.display) != 0 {
		if wl.displayDispatchPend(b.display) > 0 {
			handled = true
		}
	}
	if wl.displayFlush(b.display) < 0 && wl.displayGetError(b.display) != 0 {
		wl.displayCancelRead(b.display)
		b.connectionLost()
		return true
	}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}
	if handled {
		ms = 0
	}
	fds := []unix.PollFd{
		{Fd: int32(wl.displayGetFD(b.display)), Events: unix.POLLIN},
		{Fd: int32(b.repeatFD), Events: unix.POLLIN},
		{Fd: int32(b.wakeFD), Events: unix.POLLIN},
	}
	n, err := unix.Poll(fds, ms)
	if err != nil && !errors.Is(err, unix.EINTR) {
		b.logger.Error("poll failed", "error", err)
	}
	if n <= 0 {
		wl.displayCancelRead(b.display)
		return handled
	}

	if fds[0].Revents&unix.POLLIN != 0 {
		if wl.displayReadEvents(b.display) < 0 {
			b.connectionLost()
			return true
		}
		if wl.displayDispatchPend(b.display) > 0 {
			handled = true
		}
	} else {
		wl.displayCancelRead(b.display)
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
		b.connectionLost()
		return true
	}
	if fds[1].Revents&unix.POLLIN != 0 && b.fireKeyRepeat() {
		handled = true
	}
	if fds[2].Revents&unix.POLLIN != 0 {
		var buf [8]byte
		unix.Read(b.wakeFD, buf[:])
		handled = true
	}
	if b.runDeferred() {
		handled = true
	}
	return handled
}

// connectionLost asks every window to close; nothing else can be done once
// the compositor is gone.
func (b *Backend) connectionLost() {
	if b.display != 0 {
		b.logger.Error("connection to the compositor lost", "code", wl.displayGetError(b.display))
	}
	for _, w := range b.windows {
		w.events.InputWindowCloseRequest()
	}
}

// PostEmptyEvent wakes WaitEvents through the eventfd.
func (b *Backend) PostEmptyEvent() {
	if b.wakeFD < 0 {
		return
	}
	one := [8]byte{1}
	unix.Write(b.wakeFD, one[:])
}

func (b *Backend) RawMouseMotionSupported() bool {
	return b.g.relativePointers != 0
}

func (b *Backend) KeyScancode(key platform.Key) int {
	if code, ok := scancodes[key]; ok {
		return code
	}
	return -1
}

func (b *Backend) KeyName(key platform.Key, scancode int) string {
	if key != platform.KeyUnknown {
		code, ok := scancodes[key]
		if !ok {
			return ""
		}
		scancode = code
	}
	if scancode < 0 || b.xkb == nil {
		return ""
	}
	return b.xkb.keyName(uint32(scancode))
}

// SetScreensaverInhibited creates an idle inhibitor on every window surface.
func (b *Backend) SetScreensaverInhibited(inhibit bool) {
	b.inhibitIdle = inhibit
	for _, w := range b.windows {
		w.updateIdleInhibitor()
	}
}

func (b *Backend) VulkanSurfaceExtension() string { return "VK_KHR_wayland_surface" }

// cursorEnv resolves the cursor theme and size.
func (b *Backend) cursorEnv() (string, int) {
	theme := b.opts.CursorTheme
	if theme == "" {
		theme = os.Getenv("XCURSOR_THEME")
	}
	size := b.opts.CursorSize
	if size <= 0 {
		size = envInt("XCURSOR_SIZE", 24)
	}
	return theme, size
}
