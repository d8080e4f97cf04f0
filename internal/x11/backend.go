package x11

import (
	"bufio"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/screensaver"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Options configures the X11 backend.
type Options struct {
	// Display overrides $DISPLAY.
	Display string
	// ClipboardTimeout bounds how long a clipboard read waits for the owner.
	ClipboardTimeout time.Duration
}

// Backend implements platform.Backend on top of an X11 connection.
type Backend struct {
	opts   Options
	host   platform.Host
	logger *slog.Logger

	conn *Connection
	// helper is an unmapped window that owns selections.
	helper xproto.Window
	scale  float32

	monitors []*Monitor
	windows  map[xproto.Window]*Window

	keys        keyTable
	numLockMask uint16

	hiddenCursor xproto.Cursor
	argbFormat   render.Pictformat

	events  chan xgb.Event
	backlog []xgb.Event
	wake    chan struct{}
	done    chan struct{}

	clipboard     string
	ownsClipboard bool

	screensaverSaved bool
	savedTimeout     int16
	savedInterval    int16
	savedBlanking    byte
	savedExposures   byte

	// disabled is the window whose pointer is locked, if any.
	disabled *Window

	dnd dndState
	xcb *xcbConnection
}

var (
	_ platform.Backend       = (*Backend)(nil)
	_ platform.NativeWindow  = (*Window)(nil)
	_ platform.NativeMonitor = (*Monitor)(nil)
	_ platform.NativeCursor  = (*Cursor)(nil)
)

// New returns an unconnected X11 backend.
func New(opts Options) *Backend {
	if opts.ClipboardTimeout <= 0 {
		opts.ClipboardTimeout = 3 * time.Second
	}
	return &Backend{
		opts:    opts,
		windows: make(map[xproto.Window]*Window),
		wake:    make(chan struct{}, 1),
	}
}

func (b *Backend) Name() string { return "x11" }

// Init connects to the display, reads monitors and the keyboard map and
// starts reading events.
func (b *Backend) Init(host platform.Host) error {
	b.host = host
	b.logger = host.Logger().With("backend", "x11")

	conn, err := NewConnection(b.opts.Display)
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to open display %q", b.opts.Display)
	}
	b.conn = conn
	b.scale = b.readContentScale()

	if err := b.createHelperWindow(); err != nil {
		conn.Close()
		return err
	}
	if err := b.createHiddenCursor(); err != nil {
		b.logger.Warn("failed to create hidden cursor", "error", err)
	}
	if conn.hasRender {
		b.argbFormat = b.findARGBFormat()
	}

	b.buildKeyTable()
	b.numLockMask = b.findNumLockMask()

	monitors, err := b.discoverMonitors()
	if err != nil {
		conn.Close()
		return err
	}
	b.monitors = monitors
	if conn.hasRandR {
		randr.SelectInput(conn.XUtil.Conn(), conn.Root, randr.NotifyMaskOutputChange|randr.NotifyMaskCrtcChange|randr.NotifyMaskScreenChange)
	}

	b.events = make(chan xgb.Event, 256)
	b.done = make(chan struct{})
	go b.pump()

	b.logger.Debug("x11 backend ready", "conn", conn.String(), "monitors", len(monitors), "scale", b.scale)
	return nil
}

func (b *Backend) createHelperWindow() error {
	xc := b.conn.XUtil.Conn()
	wid, err := xproto.NewWindowId(xc)
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to allocate helper window")
	}
	err = xproto.CreateWindowChecked(xc, 0, wid, b.conn.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOnly, 0,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return platform.Wrap(platform.PlatformError, err, "[Window] X11: failed to create helper window")
	}
	b.helper = wid
	return nil
}

// readContentScale derives the scale from Xft.dpi in RESOURCE_MANAGER.
func (b *Backend) readContentScale() float32 {
	db, err := xprop.PropValStr(xprop.GetProperty(b.conn.XUtil, b.conn.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return 1
	}
	sc := bufio.NewScanner(strings.NewReader(db))
	for sc.Scan() {
		name, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(name) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil || dpi <= 0 {
			return 1
		}
		return float32(dpi / 96)
	}
	return 1
}

func (b *Backend) Shutdown() {
	if b.conn == nil {
		return
	}
	b.SetScreensaverInhibited(false)
	if b.done != nil {
		close(b.done)
	}
	if b.xcb != nil {
		b.xcb.close()
		b.xcb = nil
	}
	xc := b.conn.XUtil.Conn()
	if b.hiddenCursor != 0 {
		xproto.FreeCursor(xc, b.hiddenCursor)
	}
	if b.helper != 0 {
		xproto.DestroyWindow(xc, b.helper)
	}
	b.conn.Close()
	b.conn = nil
	b.monitors = nil
	b.windows = make(map[xproto.Window]*Window)
	b.backlog = nil
}

func (b *Backend) Monitors() []platform.NativeMonitor {
	out := make([]platform.NativeMonitor, len(b.monitors))
	for i, m := range b.monitors {
		out[i] = m
	}
	return out
}

// pump forwards server events to the owning goroutine.
func (b *Backend) pump() {
	xc := b.conn.XUtil.Conn()
	for {
		ev, xerr := xc.WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			b.logger.Debug("x11 protocol error", "error", xerr.Error())
			continue
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

func (b *Backend) PollEvents() {
	for {
		if len(b.backlog) > 0 {
			ev := b.backlog[0]
			b.backlog = b.backlog[1:]
			b.handleEvent(ev)
			continue
		}
		select {
		case ev := <-b.events:
			b.handleEvent(ev)
		default:
			b.recenterDisabledCursor()
			return
		}
	}
}

// peekEvent returns the next pending event without consuming it, or nil.
func (b *Backend) peekEvent() xgb.Event {
	if len(b.backlog) > 0 {
		return b.backlog[0]
	}
	select {
	case ev := <-b.events:
		b.backlog = append(b.backlog, ev)
		return ev
	default:
		return nil
	}
}

func (b *Backend) WaitEvents(timeout time.Duration) {
	if len(b.backlog) > 0 {
		b.PollEvents()
		return
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case ev := <-b.events:
		b.handleEvent(ev)
		b.PollEvents()
	case <-b.wake:
	case <-expired:
	}
	b.recenterDisabledCursor()
}

func (b *Backend) PostEmptyEvent() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// nextEvent waits up to deadline for an event matching want, handing
// everything else to the backlog. Selection requests are served inline so
// reading our own clipboard cannot deadlock.
func (b *Backend) nextEvent(deadline time.Time, want func(xgb.Event) bool) (xgb.Event, bool) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	for {
		select {
		case ev := <-b.events:
			if want(ev) {
				return ev, true
			}
			if req, ok := ev.(xproto.SelectionRequestEvent); ok {
				b.handleSelectionRequest(req)
				continue
			}
			b.backlog = append(b.backlog, ev)
		case <-timer.C:
			return nil, false
		}
	}
}

func (b *Backend) RawMouseMotionSupported() bool { return false }

// SetScreensaverInhibited suspends the screen saver while a window is full
// screen, through MIT-SCREEN-SAVER or the core timeout.
func (b *Backend) SetScreensaverInhibited(inhibit bool) {
	if b.conn == nil {
		return
	}
	xc := b.conn.XUtil.Conn()
	if b.conn.hasScreensaver {
		screensaver.Suspend(xc, inhibit)
		return
	}

	if inhibit {
		if b.screensaverSaved {
			return
		}
		reply, err := xproto.GetScreenSaver(xc).Reply()
		if err != nil {
			b.logger.Warn("failed to read screen saver settings", "error", err)
			return
		}
		b.savedTimeout = int16(reply.Timeout)
		b.savedInterval = int16(reply.Interval)
		b.savedBlanking = reply.PreferBlanking
		b.savedExposures = reply.AllowExposures
		b.screensaverSaved = true
		xproto.SetScreenSaver(xc, 0, 0, xproto.BlankingNotPreferred, xproto.ExposuresAllowed)
		return
	}
	if b.screensaverSaved {
		xproto.SetScreenSaver(xc, b.savedTimeout, b.savedInterval, b.savedBlanking, b.savedExposures)
		b.screensaverSaved = false
	}
}

func (b *Backend) VulkanSurfaceExtension() string { return "VK_KHR_xcb_surface" }
