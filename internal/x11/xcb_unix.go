//go:build !windows

package x11

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// xcbConnection is a libxcb connection used only to create Vulkan surfaces.
type xcbConnection struct {
	lib  uintptr
	conn uintptr

	disconnect func(conn uintptr)
}

func openXCB(display string) (*xcbConnection, error) {
	lib, err := purego.Dlopen("libxcb.so.1", purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("failed to load libxcb: %w", err)
	}

	x := &xcbConnection{lib: lib}
	var connect func(display string, screen *int32) uintptr
	var hasError func(conn uintptr) int32
	for name, fptr := range map[string]any{
		"xcb_connect":              &connect,
		"xcb_connection_has_error": &hasError,
		"xcb_disconnect":           &x.disconnect,
	} {
		sym, err := purego.Dlsym(lib, name)
		if err != nil {
			purego.Dlclose(lib)
			return nil, fmt.Errorf("libxcb is missing %s: %w", name, err)
		}
		purego.RegisterFunc(fptr, sym)
	}

	x.conn = connect(display, nil)
	if x.conn == 0 || hasError(x.conn) != 0 {
		if x.conn != 0 {
			x.disconnect(x.conn)
		}
		purego.Dlclose(lib)
		return nil, fmt.Errorf("xcb_connect(%q) failed", display)
	}
	return x, nil
}

func (x *xcbConnection) close() {
	if x.conn != 0 {
		x.disconnect(x.conn)
		x.conn = 0
	}
	purego.Dlclose(x.lib)
}
