//go:build linux

package wayland

import (
	"fmt"

	"github.com/ebitengine/purego"
)

const (
	xkbKeymapFormatTextV1 = 1
	xkbStateModsEffective = 8
	xkbModInvalid         = 0xffffffff
)

// xkb wraps the libxkbcommon calls needed to translate wl_keyboard input.
type xkb struct {
	lib uintptr

	contextNew          func(flags int32) uintptr
	contextUnref        func(ctx uintptr)
	keymapNewFromString func(ctx uintptr, text *byte, format, flags int32) uintptr
	keymapUnref         func(keymap uintptr)
	keymapModGetIndex   func(keymap uintptr, name string) uint32
	keymapKeyRepeats    func(keymap uintptr, key uint32) int32
	keymapKeyGetSyms    func(keymap uintptr, key, layout, level uint32, syms **uint32) int32
	stateNew            func(keymap uintptr) uintptr
	stateUnref          func(state uintptr)
	stateUpdateMask     func(state uintptr, depressed, latched, locked, depLayout, latLayout, lockedLayout uint32) int32
	stateKeyGetSyms     func(state uintptr, key uint32, syms **uint32) int32
	stateKeyGetLayout   func(state uintptr, key uint32) uint32
	stateModIndexActive func(state uintptr, idx uint32, kind int32) int32
	keysymToUTF32       func(sym uint32) uint32

	ctx    uintptr
	keymap uintptr
	state  uintptr

	controlIndex uint32
}

func openXKB() (*xkb, error) {
	lib, err := purego.Dlopen("libxkbcommon.so.0", purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("failed to load libxkbcommon: %w", err)
	}
	x := &xkb{lib: lib}
	for name, fptr := range map[string]any{
		"xkb_context_new":                  &x.contextNew,
		"xkb_context_unref":                &x.contextUnref,
		"xkb_keymap_new_from_string":       &x.keymapNewFromString,
		"xkb_keymap_unref":                 &x.keymapUnref,
		"xkb_keymap_mod_get_index":         &x.keymapModGetIndex,
		"xkb_keymap_key_repeats":           &x.keymapKeyRepeats,
		"xkb_keymap_key_get_syms_by_level": &x.keymapKeyGetSyms,
		"xkb_state_new":                    &x.stateNew,
		"xkb_state_unref":                  &x.stateUnref,
		"xkb_state_update_mask":            &x.stateUpdateMask,
		"xkb_state_key_get_syms":           &x.stateKeyGetSyms,
		"xkb_state_key_get_layout":         &x.stateKeyGetLayout,
		"xkb_state_mod_index_is_active":    &x.stateModIndexActive,
		"xkb_keysym_to_utf32":              &x.keysymToUTF32,
	} {
		sym, err := purego.Dlsym(lib, name)
		if err != nil {
			purego.Dlclose(lib)
			return nil, fmt.Errorf("libxkbcommon is missing %s: %w", name, err)
		}
		purego.RegisterFunc(fptr, sym)
	}
	x.ctx = x.contextNew(0)
	if x.ctx == 0 {
		purego.Dlclose(lib)
		return nil, fmt.Errorf("xkb_context_new failed")
	}
	return x, nil
}

// loadKeymap compiles a keymap sent by the compositor and resets the state.
func (x *xkb) loadKeymap(text []byte) error {
	if len(text) == 0 || text[len(text)-1] != 0 {
		text = append(text, 0)
	}
	keymap := x.keymapNewFromString(x.ctx, &text[0], xkbKeymapFormatTextV1, 0)
	if keymap == 0 {
		return fmt.Errorf("failed to compile keymap")
	}
	state := x.stateNew(keymap)
	if state == 0 {
		x.keymapUnref(keymap)
		return fmt.Errorf("failed to create keyboard state")
	}
	x.dropKeymap()
	x.keymap, x.state = keymap, state
	x.controlIndex = x.keymapModGetIndex(keymap, "Control")
	return nil
}

func (x *xkb) dropKeymap() {
	if x.state != 0 {
		x.stateUnref(x.state)
		x.state = 0
	}
	if x.keymap != 0 {
		x.keymapUnref(x.keymap)
		x.keymap = 0
	}
}

func (x *xkb) close() {
	x.dropKeymap()
	if x.ctx != 0 {
		x.contextUnref(x.ctx)
		x.ctx = 0
	}
	purego.Dlclose(x.lib)
}

func (x *xkb) updateModifiers(depressed, latched, locked, group uint32) {
	if x.state == 0 {
		return
	}
	x.stateUpdateMask(x.state, depressed, latched, locked, 0, 0, group)
}

func (x *xkb) controlActive() bool {
	if x.state == 0 || x.controlIndex == xkbModInvalid {
		return false
	}
	return x.stateModIndexActive(x.state, x.controlIndex, xkbStateModsEffective) == 1
}

// xkb keycodes are evdev scancodes offset by 8.
func xkbKeycode(scancode uint32) uint32 { return scancode + 8 }

func (x *xkb) repeats(scancode uint32) bool {
	if x.keymap == 0 {
		return false
	}
	return x.keymapKeyRepeats(x.keymap, xkbKeycode(scancode)) == 1
}

// keyRune is the code point typed by the key in the current state.
func (x *xkb) keyRune(scancode uint32) (rune, bool) {
	if x.state == 0 {
		return 0, false
	}
	var syms *uint32
	if x.stateKeyGetSyms(x.state, xkbKeycode(scancode), &syms) != 1 {
		return 0, false
	}
	cp := x.keysymToUTF32(*syms)
	if cp == 0 {
		return 0, false
	}
	return rune(cp), true
}

// keyName is the unmodified symbol of the key in the active layout.
func (x *xkb) keyName(scancode uint32) string {
	if x.state == 0 {
		return ""
	}
	code := xkbKeycode(scancode)
	layout := x.stateKeyGetLayout(x.state, code)
	if layout == xkbModInvalid {
		return ""
	}
	var syms *uint32
	if x.keymapKeyGetSyms(x.keymap, code, layout, 0, &syms) != 1 {
		return ""
	}
	cp := x.keysymToUTF32(*syms)
	if cp == 0 {
		return ""
	}
	return string(rune(cp))
}
