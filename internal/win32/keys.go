//go:build windows

package win32

import (
	"unicode/utf16"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Keypad virtual keys, which MapVirtualKey does not return for keypad
// scancodes while Num Lock is off.
const (
	vkNumpad0  = 0x60
	vkMultiply = 0x6A
	vkAdd      = 0x6B
	vkSubtract = 0x6D
	vkDecimal  = 0x6E
	vkDivide   = 0x6F
)

// scancodeKeys maps set 1 scancodes, with 0x100 marking the extended
// prefix, to keys.
var scancodeKeys = map[int]platform.Key{
	0x00B: platform.Key0,
	0x002: platform.Key1,
	0x003: platform.Key2,
	0x004: platform.Key3,
	0x005: platform.Key4,
	0x006: platform.Key5,
	0x007: platform.Key6,
	0x008: platform.Key7,
	0x009: platform.Key8,
	0x00A: platform.Key9,
	0x01E: platform.KeyA,
	0x030: platform.KeyB,
	0x02E: platform.KeyC,
	0x020: platform.KeyD,
	0x012: platform.KeyE,
	0x021: platform.KeyF,
	0x022: platform.KeyG,
	0x023: platform.KeyH,
	0x017: platform.KeyI,
	0x024: platform.KeyJ,
	0x025: platform.KeyK,
	0x026: platform.KeyL,
	0x032: platform.KeyM,
	0x031: platform.KeyN,
	0x018: platform.KeyO,
	0x019: platform.KeyP,
	0x010: platform.KeyQ,
	0x013: platform.KeyR,
	0x01F: platform.KeyS,
	0x014: platform.KeyT,
	0x016: platform.KeyU,
	0x02F: platform.KeyV,
	0x011: platform.KeyW,
	0x02D: platform.KeyX,
	0x015: platform.KeyY,
	0x02C: platform.KeyZ,

	0x028: platform.KeyApostrophe,
	0x02B: platform.KeyBackslash,
	0x033: platform.KeyComma,
	0x00D: platform.KeyEqual,
	0x029: platform.KeyGraveAccent,
	0x01A: platform.KeyLeftBracket,
	0x00C: platform.KeyMinus,
	0x034: platform.KeyPeriod,
	0x01B: platform.KeyRightBracket,
	0x027: platform.KeySemicolon,
	0x035: platform.KeySlash,
	0x056: platform.KeyWorld2,

	0x00E: platform.KeyBackspace,
	0x153: platform.KeyDelete,
	0x14F: platform.KeyEnd,
	0x01C: platform.KeyEnter,
	0x001: platform.KeyEscape,
	0x147: platform.KeyHome,
	0x152: platform.KeyInsert,
	0x15D: platform.KeyMenu,
	0x151: platform.KeyPageDown,
	0x149: platform.KeyPageUp,
	0x045: platform.KeyPause,
	0x039: platform.KeySpace,
	0x00F: platform.KeyTab,
	0x03A: platform.KeyCapsLock,
	0x145: platform.KeyNumLock,
	0x046: platform.KeyScrollLock,

	0x03B: platform.KeyF1,
	0x03C: platform.KeyF1 + 1,
	0x03D: platform.KeyF1 + 2,
	0x03E: platform.KeyF1 + 3,
	0x03F: platform.KeyF1 + 4,
	0x040: platform.KeyF1 + 5,
	0x041: platform.KeyF1 + 6,
	0x042: platform.KeyF1 + 7,
	0x043: platform.KeyF1 + 8,
	0x044: platform.KeyF1 + 9,
	0x057: platform.KeyF1 + 10,
	0x058: platform.KeyF1 + 11,
	0x064: platform.KeyF1 + 12,
	0x065: platform.KeyF1 + 13,
	0x066: platform.KeyF1 + 14,
	0x067: platform.KeyF1 + 15,
	0x068: platform.KeyF1 + 16,
	0x069: platform.KeyF1 + 17,
	0x06A: platform.KeyF1 + 18,
	0x06B: platform.KeyF1 + 19,
	0x06C: platform.KeyF1 + 20,
	0x06D: platform.KeyF1 + 21,
	0x06E: platform.KeyF1 + 22,
	0x076: platform.KeyF1 + 23,

	0x038: platform.KeyLeftAlt,
	0x01D: platform.KeyLeftControl,
	0x02A: platform.KeyLeftShift,
	0x15B: platform.KeyLeftSuper,
	0x137: platform.KeyPrintScreen,
	0x138: platform.KeyRightAlt,
	0x11D: platform.KeyRightControl,
	0x036: platform.KeyRightShift,
	0x15C: platform.KeyRightSuper,
	0x150: platform.KeyDown,
	0x14B: platform.KeyLeft,
	0x14D: platform.KeyRight,
	0x148: platform.KeyUp,

	0x052: platform.KeyKP0,
	0x04F: platform.KeyKP1,
	0x050: platform.KeyKP2,
	0x051: platform.KeyKP3,
	0x04B: platform.KeyKP4,
	0x04C: platform.KeyKP5,
	0x04D: platform.KeyKP6,
	0x047: platform.KeyKP7,
	0x048: platform.KeyKP8,
	0x049: platform.KeyKP9,
	0x04E: platform.KeyKPAdd,
	0x053: platform.KeyKPDecimal,
	0x135: platform.KeyKPDivide,
	0x11C: platform.KeyKPEnter,
	0x059: platform.KeyKPEqual,
	0x037: platform.KeyKPMultiply,
	0x04A: platform.KeyKPSubtract,
}

// keyTables builds the scancode to key table and its inverse.
func keyTables() (keycodes [512]platform.Key, scancodes map[platform.Key]int) {
	for i := range keycodes {
		keycodes[i] = platform.KeyUnknown
	}
	scancodes = make(map[platform.Key]int, len(scancodeKeys))
	for scancode, key := range scancodeKeys {
		keycodes[scancode] = key
		scancodes[key] = scancode
	}
	return keycodes, scancodes
}

func (b *Backend) KeyScancode(key platform.Key) int {
	if scancode, ok := b.scancodes[key]; ok {
		return scancode
	}
	return -1
}

// keypadVirtualKey returns the virtual key of a keypad key that produces
// text, or 0.
func keypadVirtualKey(key platform.Key) uintptr {
	switch {
	case key >= platform.KeyKP0 && key <= platform.KeyKP9:
		return vkNumpad0 + uintptr(key-platform.KeyKP0)
	case key == platform.KeyKPDecimal:
		return vkDecimal
	case key == platform.KeyKPDivide:
		return vkDivide
	case key == platform.KeyKPMultiply:
		return vkMultiply
	case key == platform.KeyKPSubtract:
		return vkSubtract
	case key == platform.KeyKPAdd:
		return vkAdd
	}
	return 0
}

// KeyName returns the character the scancode produces in the current
// layout with no modifiers, or "" for keys that produce none.
func (b *Backend) KeyName(key platform.Key, scancode int) string {
	if key != platform.KeyUnknown {
		scancode = b.KeyScancode(key)
	}
	if scancode < 0 || scancode >= len(b.keycodes) {
		return ""
	}
	if !b.keycodes[scancode].Printable() {
		return ""
	}
	if name, ok := b.keyNames[scancode]; ok {
		return name
	}
	if b.keyNames == nil {
		b.keyNames = make(map[int]string)
	}
	name := b.translateScancode(scancode)
	b.keyNames[scancode] = name
	return name
}

func (b *Backend) translateScancode(scancode int) string {
	vk := keypadVirtualKey(b.keycodes[scancode])
	if vk == 0 {
		vk, _, _ = procMapVirtualKey.Call(uintptr(scancode), mapVSCToVK)
	}
	var state [256]byte
	var chars [16]uint16
	n, _, _ := procToUnicode.Call(vk, uintptr(scancode), ptr(&state), ptr(&chars), uintptr(len(chars)), 0)
	length := int(int32(n))
	if length == -1 {
		// Dead keys leave their state in the keyboard buffer; press again
		// to clear it.
		n, _, _ = procToUnicode.Call(vk, uintptr(scancode), ptr(&state), ptr(&chars), uintptr(len(chars)), 0)
		length = int(int32(n))
	}
	if length < 1 {
		return ""
	}
	return string(utf16.Decode(chars[:1]))
}
