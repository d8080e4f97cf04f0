package x11

import (
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Keysyms from X11/keysymdef.h that the key table needs.
const (
	xkBackSpace   = 0xff08
	xkTab         = 0xff09
	xkReturn      = 0xff0d
	xkPause       = 0xff13
	xkScrollLock  = 0xff14
	xkEscape      = 0xff1b
	xkHome        = 0xff50
	xkLeft        = 0xff51
	xkUp          = 0xff52
	xkRight       = 0xff53
	xkDown        = 0xff54
	xkPrior       = 0xff55
	xkNext        = 0xff56
	xkEnd         = 0xff57
	xkPrint       = 0xff61
	xkInsert      = 0xff63
	xkMenu        = 0xff67
	xkModeSwitch  = 0xff7e
	xkNumLock     = 0xff7f
	xkKPSpace     = 0xff80
	xkKPEnter     = 0xff8d
	xkKPHome      = 0xff95
	xkKPLeft      = 0xff96
	xkKPUp        = 0xff97
	xkKPRight     = 0xff98
	xkKPDown      = 0xff99
	xkKPPrior     = 0xff9a
	xkKPNext      = 0xff9b
	xkKPEnd       = 0xff9c
	xkKPBegin     = 0xff9d
	xkKPInsert    = 0xff9e
	xkKPDelete    = 0xff9f
	xkKPMultiply  = 0xffaa
	xkKPAdd       = 0xffab
	xkKPSeparator = 0xffac
	xkKPSubtract  = 0xffad
	xkKPDecimal   = 0xffae
	xkKPDivide    = 0xffaf
	xkKP0         = 0xffb0
	xkKP9         = 0xffb9
	xkKPEqual     = 0xffbd
	xkF1          = 0xffbe
	xkF25         = 0xffd6
	xkShiftL      = 0xffe1
	xkShiftR      = 0xffe2
	xkControlL    = 0xffe3
	xkControlR    = 0xffe4
	xkCapsLock    = 0xffe5
	xkMetaL       = 0xffe7
	xkMetaR       = 0xffe8
	xkAltL        = 0xffe9
	xkAltR        = 0xffea
	xkSuperL      = 0xffeb
	xkSuperR      = 0xffec
	xkDelete      = 0xffff
	xkLevel3Shift = 0xfe03

	xkUnicodeOffset = 0x01000000
)

var functionKeys = map[xproto.Keysym]platform.Key{
	xkEscape:      platform.KeyEscape,
	xkTab:         platform.KeyTab,
	xkShiftL:      platform.KeyLeftShift,
	xkShiftR:      platform.KeyRightShift,
	xkControlL:    platform.KeyLeftControl,
	xkControlR:    platform.KeyRightControl,
	xkMetaL:       platform.KeyLeftAlt,
	xkAltL:        platform.KeyLeftAlt,
	xkModeSwitch:  platform.KeyRightAlt,
	xkLevel3Shift: platform.KeyRightAlt,
	xkMetaR:       platform.KeyRightAlt,
	xkAltR:        platform.KeyRightAlt,
	xkSuperL:      platform.KeyLeftSuper,
	xkSuperR:      platform.KeyRightSuper,
	xkMenu:        platform.KeyMenu,
	xkNumLock:     platform.KeyNumLock,
	xkCapsLock:    platform.KeyCapsLock,
	xkPrint:       platform.KeyPrintScreen,
	xkScrollLock:  platform.KeyScrollLock,
	xkPause:       platform.KeyPause,
	xkDelete:      platform.KeyDelete,
	xkBackSpace:   platform.KeyBackspace,
	xkReturn:      platform.KeyEnter,
	xkHome:        platform.KeyHome,
	xkEnd:         platform.KeyEnd,
	xkPrior:       platform.KeyPageUp,
	xkNext:        platform.KeyPageDown,
	xkInsert:      platform.KeyInsert,
	xkLeft:        platform.KeyLeft,
	xkRight:       platform.KeyRight,
	xkDown:        platform.KeyDown,
	xkUp:          platform.KeyUp,
	xkKPDivide:    platform.KeyKPDivide,
	xkKPMultiply:  platform.KeyKPMultiply,
	xkKPSubtract:  platform.KeyKPSubtract,
	xkKPAdd:       platform.KeyKPAdd,
	xkKPEnter:     platform.KeyKPEnter,
	xkKPEqual:     platform.KeyKPEqual,

	// Keypad keys with Num Lock off.
	xkKPInsert: platform.KeyKP0,
	xkKPEnd:    platform.KeyKP1,
	xkKPDown:   platform.KeyKP2,
	xkKPNext:   platform.KeyKP3,
	xkKPLeft:   platform.KeyKP4,
	xkKPBegin:  platform.KeyKP5,
	xkKPRight:  platform.KeyKP6,
	xkKPHome:   platform.KeyKP7,
	xkKPUp:     platform.KeyKP8,
	xkKPPrior:  platform.KeyKP9,
	xkKPDelete: platform.KeyKPDecimal,
}

// Latin keysyms, which equal their ASCII codes.
var printableKeys = map[xproto.Keysym]platform.Key{
	' ':  platform.KeySpace,
	'\'': platform.KeyApostrophe,
	',':  platform.KeyComma,
	'-':  platform.KeyMinus,
	'.':  platform.KeyPeriod,
	'/':  platform.KeySlash,
	';':  platform.KeySemicolon,
	'=':  platform.KeyEqual,
	'[':  platform.KeyLeftBracket,
	'\\': platform.KeyBackslash,
	']':  platform.KeyRightBracket,
	'`':  platform.KeyGraveAccent,
	'<':  platform.KeyWorld1,
}

// translateKeysym maps the unshifted keysym of a key to a Key.
func translateKeysym(sym xproto.Keysym) platform.Key {
	if k, ok := functionKeys[sym]; ok {
		return k
	}
	switch {
	case sym >= xkF1 && sym <= xkF25:
		return platform.KeyF1 + platform.Key(sym-xkF1)
	case sym >= xkKP0 && sym <= xkKP9:
		return platform.KeyKP0 + platform.Key(sym-xkKP0)
	case sym == xkKPDecimal || sym == xkKPSeparator:
		return platform.KeyKPDecimal
	case sym >= 'a' && sym <= 'z':
		return platform.KeyA + platform.Key(sym-'a')
	case sym >= 'A' && sym <= 'Z':
		return platform.KeyA + platform.Key(sym-'A')
	case sym >= '0' && sym <= '9':
		return platform.Key0 + platform.Key(sym-'0')
	}
	if k, ok := printableKeys[sym]; ok {
		return k
	}
	return platform.KeyUnknown
}

// keyTable caches the keycode to Key mapping of the current keyboard map.
type keyTable struct {
	keycodes  [256]platform.Key
	scancodes [platform.KeyLast + 1]int
}

// buildKeyTable reads the server keyboard map. Keypad keys are matched by
// their Num Lock keysym first so layouts agree on them.
func (b *Backend) buildKeyTable() {
	xu := b.conn.XUtil
	setup := xproto.Setup(xu.Conn())
	perCode := 0
	if km := keybind.KeyMapGet(xu); km != nil {
		perCode = int(km.KeysymsPerKeycode)
	}

	for i := range b.keys.keycodes {
		b.keys.keycodes[i] = platform.KeyUnknown
	}
	for i := range b.keys.scancodes {
		b.keys.scancodes[i] = -1
	}
	if perCode == 0 {
		return
	}

	for code := int(setup.MinKeycode); code <= int(setup.MaxKeycode); code++ {
		kc := xproto.Keycode(code)
		key := platform.KeyUnknown
		if perCode > 1 {
			if sym := keybind.KeysymGet(xu, kc, 1); isKeypadValue(sym) {
				key = translateKeysym(sym)
			}
		}
		if key == platform.KeyUnknown {
			key = translateKeysym(keybind.KeysymGet(xu, kc, 0))
		}
		b.keys.keycodes[code] = key
		if key != platform.KeyUnknown && b.keys.scancodes[key] < 0 {
			b.keys.scancodes[key] = code
		}
	}
}

func (b *Backend) translateKey(code xproto.Keycode) platform.Key {
	return b.keys.keycodes[code]
}

func (b *Backend) KeyScancode(key platform.Key) int {
	if !key.Valid() {
		return -1
	}
	return b.keys.scancodes[key]
}

// KeyName is the character the key produces without modifiers.
func (b *Backend) KeyName(key platform.Key, scancode int) string {
	if scancode < 0 || scancode > 255 {
		return ""
	}
	key = b.keys.keycodes[scancode]
	if !key.Printable() {
		return ""
	}
	r, ok := keysymRune(keybind.KeysymGet(b.conn.XUtil, xproto.Keycode(scancode), 0))
	if !ok {
		return ""
	}
	return string(r)
}

// keysymRune maps a keysym to the Unicode code point it types.
func keysymRune(sym xproto.Keysym) (rune, bool) {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return rune(sym), true
	case sym >= xkUnicodeOffset+0x20 && sym <= xkUnicodeOffset+0x10ffff:
		return rune(sym - xkUnicodeOffset), true
	case sym >= xkKP0 && sym <= xkKP9:
		return '0' + rune(sym-xkKP0), true
	}
	switch sym {
	case xkKPSpace:
		return ' ', true
	case xkKPMultiply:
		return '*', true
	case xkKPAdd:
		return '+', true
	case xkKPSeparator:
		return ',', true
	case xkKPSubtract:
		return '-', true
	case xkKPDecimal:
		return '.', true
	case xkKPDivide:
		return '/', true
	case xkKPEqual:
		return '=', true
	}
	return 0, false
}

// lookupRune picks the keysym column from the modifier state as the core
// protocol describes and converts it to a code point.
func (b *Backend) lookupRune(code xproto.Keycode, state uint16) (rune, bool) {
	xu := b.conn.XUtil
	km := keybind.KeyMapGet(xu)
	if km == nil || km.KeysymsPerKeycode == 0 {
		return 0, false
	}

	lower := keybind.KeysymGet(xu, code, 0)
	upper := lower
	if km.KeysymsPerKeycode > 1 {
		if s := keybind.KeysymGet(xu, code, 1); s != 0 {
			upper = s
		}
	}
	if upper == lower && lower >= 'a' && lower <= 'z' {
		upper = lower - 'a' + 'A'
	}

	shift := state&xproto.ModMaskShift != 0
	numLock := b.numLockMask != 0 && state&b.numLockMask != 0
	capsLock := state&xproto.ModMaskLock != 0

	sym := lower
	switch {
	case numLock && isKeypadKeysym(upper):
		if !shift {
			sym = upper
		}
	case shift != (capsLock && lower >= 'a' && lower <= 'z'):
		sym = upper
	}
	return keysymRune(sym)
}

// isKeypadValue reports keypad keysyms that carry a value with Num Lock on.
func isKeypadValue(sym xproto.Keysym) bool {
	switch {
	case sym >= xkKP0 && sym <= xkKP9:
		return true
	case sym == xkKPDecimal, sym == xkKPSeparator, sym == xkKPEqual:
		return true
	}
	return false
}

func isKeypadKeysym(sym xproto.Keysym) bool {
	return sym >= xkKPSpace && sym <= xkKPEqual
}

// findNumLockMask returns the modifier bit Num_Lock is bound to.
func (b *Backend) findNumLockMask() uint16 {
	xu := b.conn.XUtil
	mm := keybind.ModMapGet(xu)
	if mm == nil || mm.KeycodesPerModifier == 0 {
		return 0
	}
	for i, code := range mm.Keycodes {
		if code == 0 {
			continue
		}
		if keybind.KeysymGet(xu, code, 0) == xkNumLock {
			return keybind.Modifiers[i/int(mm.KeycodesPerModifier)]
		}
	}
	return 0
}
