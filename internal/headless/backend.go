// Package headless is an in-memory windowing backend. It keeps window and
// monitor state in plain structs and lets callers inject input, which is
// delivered through the normal event pump. It backs tests and the demo on
// machines without a display.
package headless

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Options configures the simulated system.
type Options struct {
	Monitors []MonitorSpec
	// RawMouseMotion reports raw motion as supported.
	RawMouseMotion bool
	// VulkanExtension is returned as the surface extension; empty disables
	// Vulkan surfaces.
	VulkanExtension string
	// MissingShapes lists standard cursors that report Cursor_Unavailable.
	MissingShapes []platform.CursorShape
}

// DefaultMonitor is used when Options.Monitors is empty.
func DefaultMonitor() MonitorSpec {
	return MonitorSpec{
		Name:     "Headless-1",
		Width:    1920,
		Height:   1080,
		WidthMM:  527,
		HeightMM: 296,
		Modes: []platform.VideoMode{
			{Width: 1920, Height: 1080, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60},
			{Width: 1280, Height: 720, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60},
			{Width: 800, Height: 600, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60},
		},
	}
}

// Backend implements platform.Backend.
type Backend struct {
	opts   Options
	host   platform.Host
	logger *slog.Logger

	monitors []*Monitor
	windows  []*Window
	focused  *Window

	clipboard    string
	hasClipboard bool
	inhibited    bool

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// New returns an uninitialized headless backend.
func New(opts Options) *Backend {
	return &Backend{opts: opts, wake: make(chan struct{}, 1)}
}

func (b *Backend) Name() string { return "headless" }

func (b *Backend) Init(host platform.Host) error {
	b.host = host
	b.logger = host.Logger().With("backend", "headless")
	specs := b.opts.Monitors
	if len(specs) == 0 {
		specs = []MonitorSpec{DefaultMonitor()}
	}
	for _, spec := range specs {
		m, err := newMonitor(spec)
		if err != nil {
			return err
		}
		b.monitors = append(b.monitors, m)
	}
	b.logger.Debug("headless backend ready", "monitors", len(b.monitors))
	return nil
}

func (b *Backend) Shutdown() {
	b.mu.Lock()
	b.pending = nil
	b.mu.Unlock()
	b.windows = nil
	b.monitors = nil
	b.focused = nil
}

func (b *Backend) Monitors() []platform.NativeMonitor {
	out := make([]platform.NativeMonitor, len(b.monitors))
	for i, m := range b.monitors {
		out[i] = m
	}
	return out
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig, events platform.WindowEvents) (platform.NativeWindow, error) {
	w := &Window{
		backend:     b,
		events:      events,
		title:       cfg.Title,
		width:       cfg.Width,
		height:      cfg.Height,
		resizable:   cfg.Resizable,
		decorated:   cfg.Decorated,
		floating:    cfg.Floating,
		passthrough: cfg.MousePassthrough,
		maximized:   cfg.Maximized,
		opacity:     1,
		minWidth:    platform.DontCare,
		minHeight:   platform.DontCare,
		maxWidth:    platform.DontCare,
		maxHeight:   platform.DontCare,
		numer:       platform.DontCare,
		denom:       platform.DontCare,
	}
	b.windows = append(b.windows, w)
	return w, nil
}

func (b *Backend) CreateCursor(img *image.RGBA, xhot, yhot int) (platform.NativeCursor, error) {
	if img == nil || img.Rect.Empty() {
		return nil, platform.Errorf(platform.InvalidValue, "[Window] Headless: empty cursor image")
	}
	return &Cursor{custom: true, width: img.Rect.Dx(), height: img.Rect.Dy(), xhot: xhot, yhot: yhot}, nil
}

func (b *Backend) CreateStandardCursor(shape platform.CursorShape) (platform.NativeCursor, error) {
	for _, missing := range b.opts.MissingShapes {
		if missing == shape {
			return nil, platform.Errorf(platform.CursorUnavailable, "[Window] Headless: standard cursor %s not available", shape)
		}
	}
	return &Cursor{shape: shape}, nil
}

// enqueue schedules fn for the next event pump. Safe from any goroutine.
func (b *Backend) enqueue(fn func()) {
	b.mu.Lock()
	b.pending = append(b.pending, fn)
	b.mu.Unlock()
	b.signal()
}

func (b *Backend) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// dispatch runs the queued events, including ones queued while running.
func (b *Backend) dispatch() int {
	n := 0
	for {
		b.mu.Lock()
		batch := b.pending
		b.pending = nil
		b.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
		}
		n += len(batch)
	}
}

// PollEvents drops any pending wakeup; everything it stood for is
// dispatched here.
func (b *Backend) PollEvents() {
	select {
	case <-b.wake:
	default:
	}
	b.dispatch()
}

func (b *Backend) WaitEvents(timeout time.Duration) {
	if b.dispatch() > 0 {
		return
	}
	var timer <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case <-b.wake:
	case <-timer:
	}
	b.dispatch()
}

func (b *Backend) PostEmptyEvent() {
	b.signal()
}

func (b *Backend) SetClipboardString(text string) error {
	b.clipboard = text
	b.hasClipboard = true
	return nil
}

func (b *Backend) ClipboardString() (string, error) {
	if !b.hasClipboard {
		return "", platform.Errorf(platform.FormatUnavailable, "[Window] Headless: clipboard is empty")
	}
	return b.clipboard, nil
}

func (b *Backend) RawMouseMotionSupported() bool { return b.opts.RawMouseMotion }

// KeyScancode uses the key value itself as the scancode.
func (b *Backend) KeyScancode(key platform.Key) int {
	if !key.Valid() {
		return -1
	}
	return int(key)
}

func (b *Backend) KeyName(key platform.Key, scancode int) string {
	if key == platform.KeyUnknown {
		key = platform.Key(scancode)
	}
	if !key.Printable() {
		return ""
	}
	if key >= platform.KeyKP0 && key <= platform.KeyKP9 {
		return string(rune('0' + (key - platform.KeyKP0)))
	}
	name := key.String()
	if len(name) == 1 {
		return strings.ToLower(name)
	}
	if r, ok := printableRunes[key]; ok {
		return string(r)
	}
	return ""
}

var printableRunes = map[platform.Key]rune{
	platform.KeyApostrophe:   '\'',
	platform.KeyComma:        ',',
	platform.KeyMinus:        '-',
	platform.KeyPeriod:       '.',
	platform.KeySlash:        '/',
	platform.KeySemicolon:    ';',
	platform.KeyEqual:        '=',
	platform.KeyLeftBracket:  '[',
	platform.KeyBackslash:    '\\',
	platform.KeyRightBracket: ']',
	platform.KeyGraveAccent:  '`',
}

func (b *Backend) SetScreensaverInhibited(inhibit bool) {
	b.inhibited = inhibit
}

func (b *Backend) VulkanSurfaceExtension() string { return b.opts.VulkanExtension }

// ScreensaverInhibited reports the last inhibit request.
func (b *Backend) ScreensaverInhibited() bool { return b.inhibited }

// Windows returns the live native windows in creation order.
func (b *Backend) Windows() []*Window {
	out := make([]*Window, len(b.windows))
	copy(out, b.windows)
	return out
}

// FocusedWindow returns the window holding input focus.
func (b *Backend) FocusedWindow() *Window { return b.focused }

// ConnectMonitor simulates a hot-plugged monitor; it is announced on the next
// event pump.
func (b *Backend) ConnectMonitor(spec MonitorSpec) (*Monitor, error) {
	m, err := newMonitor(spec)
	if err != nil {
		return nil, err
	}
	b.enqueue(func() {
		b.monitors = append(b.monitors, m)
		b.host.InputMonitorConnect(m, platform.PlaceLast)
	})
	return m, nil
}

// DisconnectMonitor simulates unplugging m on the next event pump.
func (b *Backend) DisconnectMonitor(m *Monitor) {
	b.enqueue(func() {
		for i, cur := range b.monitors {
			if cur == m {
				b.monitors = append(b.monitors[:i], b.monitors[i+1:]...)
				break
			}
		}
		b.host.InputMonitorDisconnect(m)
	})
}

// MonitorByName finds a connected monitor.
func (b *Backend) MonitorByName(name string) (*Monitor, error) {
	for _, m := range b.monitors {
		if m.spec.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no headless monitor named %q", name)
}

// requestFocus moves focus at once and queues the notifications.
func (b *Backend) requestFocus(w *Window) {
	if b.focused == w {
		return
	}
	if prev := b.focused; prev != nil {
		prev.focused = false
		prev.post(func(ev platform.WindowEvents) { ev.InputWindowFocus(false) })
	}
	b.focused = w
	if w != nil {
		w.focused = true
		w.post(func(ev platform.WindowEvents) { ev.InputWindowFocus(true) })
	}
}

func (b *Backend) removeWindow(w *Window) {
	for i, cur := range b.windows {
		if cur == w {
			b.windows = append(b.windows[:i], b.windows[i+1:]...)
			break
		}
	}
	if b.focused == w {
		b.focused = nil
	}
}

// Cursor is a headless cursor handle.
type Cursor struct {
	shape         platform.CursorShape
	custom        bool
	width, height int
	xhot, yhot    int
	destroyed     bool
}

func (c *Cursor) Destroy() { c.destroyed = true }

func (c *Cursor) Shape() platform.CursorShape { return c.shape }

func (c *Cursor) Custom() bool { return c.custom }

func (c *Cursor) Destroyed() bool { return c.destroyed }
