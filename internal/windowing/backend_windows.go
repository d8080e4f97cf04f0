//go:build windows

package windowing

import (
	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/win32"
)

var platformBackends = []string{"win32", "headless"}

func newBackend(name string, opts BackendOptions) (platform.Backend, error) {
	switch name {
	case "", "auto", "win32":
		return win32.New(win32.Options{ClipboardTimeout: opts.clipboardTimeout()}), nil
	case "headless":
		return headless.New(opts.Headless), nil
	default:
		return nil, platform.Errorf(platform.InvalidEnum, "[Window] Invalid platform %q", name)
	}
}
