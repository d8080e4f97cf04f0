//go:build linux

package wayland

import "github.com/1broseidon/windowkit/internal/platform"

// evdevKeys maps Linux input event codes, which wl_keyboard reports as
// scancodes, to keys.
var evdevKeys = map[uint32]platform.Key{
	1:   platform.KeyEscape,
	2:   platform.Key1,
	3:   platform.Key2,
	4:   platform.Key3,
	5:   platform.Key4,
	6:   platform.Key5,
	7:   platform.Key6,
	8:   platform.Key7,
	9:   platform.Key8,
	10:  platform.Key9,
	11:  platform.Key0,
	12:  platform.KeyMinus,
	13:  platform.KeyEqual,
	14:  platform.KeyBackspace,
	15:  platform.KeyTab,
	16:  platform.KeyQ,
	17:  platform.KeyW,
	18:  platform.KeyE,
	19:  platform.KeyR,
	20:  platform.KeyT,
	21:  platform.KeyY,
	22:  platform.KeyU,
	23:  platform.KeyI,
	24:  platform.KeyO,
	25:  platform.KeyP,
	26:  platform.KeyLeftBracket,
	27:  platform.KeyRightBracket,
	28:  platform.KeyEnter,
	29:  platform.KeyLeftControl,
	30:  platform.KeyA,
	31:  platform.KeyS,
	32:  platform.KeyD,
	33:  platform.KeyF,
	34:  platform.KeyG,
	35:  platform.KeyH,
	36:  platform.KeyJ,
	37:  platform.KeyK,
	38:  platform.KeyL,
	39:  platform.KeySemicolon,
	40:  platform.KeyApostrophe,
	41:  platform.KeyGraveAccent,
	42:  platform.KeyLeftShift,
	43:  platform.KeyBackslash,
	44:  platform.KeyZ,
	45:  platform.KeyX,
	46:  platform.KeyC,
	47:  platform.KeyV,
	48:  platform.KeyB,
	49:  platform.KeyN,
	50:  platform.KeyM,
	51:  platform.KeyComma,
	52:  platform.KeyPeriod,
	53:  platform.KeySlash,
	54:  platform.KeyRightShift,
	55:  platform.KeyKPMultiply,
	56:  platform.KeyLeftAlt,
	57:  platform.KeySpace,
	58:  platform.KeyCapsLock,
	59:  platform.KeyF1,
	60:  platform.KeyF2,
	61:  platform.KeyF3,
	62:  platform.KeyF4,
	63:  platform.KeyF5,
	64:  platform.KeyF6,
	65:  platform.KeyF7,
	66:  platform.KeyF8,
	67:  platform.KeyF9,
	68:  platform.KeyF10,
	69:  platform.KeyNumLock,
	70:  platform.KeyScrollLock,
	71:  platform.KeyKP7,
	72:  platform.KeyKP8,
	73:  platform.KeyKP9,
	74:  platform.KeyKPSubtract,
	75:  platform.KeyKP4,
	76:  platform.KeyKP5,
	77:  platform.KeyKP6,
	78:  platform.KeyKPAdd,
	79:  platform.KeyKP1,
	80:  platform.KeyKP2,
	81:  platform.KeyKP3,
	82:  platform.KeyKP0,
	83:  platform.KeyKPDecimal,
	86:  platform.KeyWorld2,
	87:  platform.KeyF11,
	88:  platform.KeyF12,
	96:  platform.KeyKPEnter,
	97:  platform.KeyRightControl,
	98:  platform.KeyKPDivide,
	99:  platform.KeyPrintScreen,
	100: platform.KeyRightAlt,
	102: platform.KeyHome,
	103: platform.KeyUp,
	104: platform.KeyPageUp,
	105: platform.KeyLeft,
	106: platform.KeyRight,
	107: platform.KeyEnd,
	108: platform.KeyDown,
	109: platform.KeyPageDown,
	110: platform.KeyInsert,
	111: platform.KeyDelete,
	117: platform.KeyKPEqual,
	119: platform.KeyPause,
	125: platform.KeyLeftSuper,
	126: platform.KeyRightSuper,
	127: platform.KeyMenu,
	183: platform.KeyF13,
	184: platform.KeyF14,
	185: platform.KeyF15,
	186: platform.KeyF16,
	187: platform.KeyF17,
	188: platform.KeyF18,
	189: platform.KeyF19,
	190: platform.KeyF20,
	191: platform.KeyF21,
	192: platform.KeyF22,
	193: platform.KeyF23,
	194: platform.KeyF24,
}

// scancodes is the inverse of evdevKeys.
var scancodes = func() map[platform.Key]int {
	m := make(map[platform.Key]int, len(evdevKeys))
	for code, key := range evdevKeys {
		m[key] = int(code)
	}
	return m
}()

func translateKey(scancode uint32) platform.Key {
	if k, ok := evdevKeys[scancode]; ok {
		return k
	}
	return platform.KeyUnknown
}

// Linux input event codes of pointer buttons.
const (
	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// translateButton maps BTN_* codes to buttons; side and extra buttons follow
// the middle button in code order.
func translateButton(code uint32) (platform.MouseButton, bool) {
	switch code {
	case btnLeft:
		return platform.MouseButtonLeft, true
	case btnRight:
		return platform.MouseButtonRight, true
	case btnMiddle:
		return platform.MouseButtonMiddle, true
	}
	if code > btnMiddle {
		b := platform.MouseButton4 + platform.MouseButton(code-btnMiddle-1)
		if b.Valid() {
			return b, true
		}
	}
	return 0, false
}
