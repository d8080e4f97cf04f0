//go:build linux

package windowing

import (
	"os"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/wayland"
	"github.com/1broseidon/windowkit/internal/x11"
)

var platformBackends = []string{"x11", "wayland", "headless"}

// newBackend picks the backend by name. "auto" prefers Wayland when a
// Wayland session is detected and libwayland-client loads, and falls back to
// X11 when a display is reachable.
func newBackend(name string, opts BackendOptions) (platform.Backend, error) {
	switch name {
	case "", "auto":
		if waylandSession(opts) && wayland.Available() {
			return newWayland(opts), nil
		}
		if opts.X11Display != "" || os.Getenv("DISPLAY") != "" {
			return newX11(opts), nil
		}
		return nil, platform.Errorf(platform.APIUnavailable, "[Window] Failed to detect any supported platform")
	case "x11":
		return newX11(opts), nil
	case "wayland":
		if !wayland.Available() {
			return nil, platform.Errorf(platform.APIUnavailable, "[Window] Wayland: failed to load libwayland-client")
		}
		return newWayland(opts), nil
	case "headless":
		return headless.New(opts.Headless), nil
	default:
		return nil, platform.Errorf(platform.InvalidEnum, "[Window] Invalid platform %q", name)
	}
}

func waylandSession(opts BackendOptions) bool {
	return opts.WaylandDisplay != "" ||
		os.Getenv("WAYLAND_DISPLAY") != "" ||
		os.Getenv("XDG_SESSION_TYPE") == "wayland"
}

func newX11(opts BackendOptions) platform.Backend {
	return x11.New(x11.Options{
		Display:          opts.X11Display,
		ClipboardTimeout: opts.clipboardTimeout(),
	})
}

func newWayland(opts BackendOptions) platform.Backend {
	return wayland.New(wayland.Options{
		Display:          opts.WaylandDisplay,
		AppID:            opts.AppID,
		CursorTheme:      opts.CursorTheme,
		CursorSize:       opts.CursorSize,
		ClipboardTimeout: opts.clipboardTimeout(),
	})
}
