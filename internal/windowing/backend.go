package windowing

import (
	"time"

	"github.com/1broseidon/windowkit/internal/headless"
)

// BackendOptions carries per-backend settings. Backends ignore fields that
// do not concern them.
type BackendOptions struct {
	// X11Display overrides $DISPLAY.
	X11Display string
	// ClipboardTimeout bounds X11 selection conversions.
	ClipboardTimeout time.Duration

	// WaylandDisplay overrides $WAYLAND_DISPLAY.
	WaylandDisplay string
	// AppID is the Wayland xdg_toplevel app id.
	AppID       string
	CursorTheme string
	CursorSize  int

	// Headless configures the in-memory backend.
	Headless headless.Options
}

const defaultClipboardTimeout = 3 * time.Second

func (o BackendOptions) clipboardTimeout() time.Duration {
	if o.ClipboardTimeout <= 0 {
		return defaultClipboardTimeout
	}
	return o.ClipboardTimeout
}

// BackendNames lists the names accepted by Options.Platform on this OS.
func BackendNames() []string {
	return append([]string{"auto"}, platformBackends...)
}
