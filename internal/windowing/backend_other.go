//go:build !linux && !windows

package windowing

import (
	"os"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/x11"
)

// X11 is the only native backend on the BSDs.
var platformBackends = []string{"x11", "headless"}

func newBackend(name string, opts BackendOptions) (platform.Backend, error) {
	switch name {
	case "", "auto", "x11":
		if name != "x11" && opts.X11Display == "" && os.Getenv("DISPLAY") == "" {
			return nil, platform.Errorf(platform.APIUnavailable, "[Window] Failed to detect any supported platform")
		}
		return x11.New(x11.Options{
			Display:          opts.X11Display,
			ClipboardTimeout: opts.clipboardTimeout(),
		}), nil
	case "headless":
		return headless.New(opts.Headless), nil
	default:
		return nil, platform.Errorf(platform.InvalidEnum, "[Window] Invalid platform %q", name)
	}
}
