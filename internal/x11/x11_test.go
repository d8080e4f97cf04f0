package x11

import (
	"testing"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestTranslateKeysym(t *testing.T) {
	tests := []struct {
		sym  xproto.Keysym
		want platform.Key
	}{
		{'a', platform.KeyA},
		{'Z', platform.KeyZ},
		{'7', platform.Key7},
		{'[', platform.KeyLeftBracket},
		{'<', platform.KeyWorld1},
		{xkEscape, platform.KeyEscape},
		{xkF1, platform.KeyF1},
		{xkF25, platform.KeyF25},
		{xkKP0 + 5, platform.KeyKP5},
		{xkKPHome, platform.KeyKP7},
		{xkKPSeparator, platform.KeyKPDecimal},
		{xkLevel3Shift, platform.KeyRightAlt},
		{xkSuperL, platform.KeyLeftSuper},
		{0x1234, platform.KeyUnknown},
	}
	for _, tt := range tests {
		if got := translateKeysym(tt.sym); got != tt.want {
			t.Errorf("translateKeysym(%#x) = %v, want %v", tt.sym, got, tt.want)
		}
	}
}

func TestKeysymRune(t *testing.T) {
	tests := []struct {
		sym  xproto.Keysym
		want rune
		ok   bool
	}{
		{'a', 'a', true},
		{0xe9, 'é', true},
		{xkUnicodeOffset + 0x20ac, '€', true},
		{xkKP0 + 3, '3', true},
		{xkKPDivide, '/', true},
		{xkEscape, 0, false},
		{0x1f, 0, false},
	}
	for _, tt := range tests {
		got, ok := keysymRune(tt.sym)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keysymRune(%#x) = %q, %v; want %q, %v", tt.sym, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRefreshRate(t *testing.T) {
	// 1920x1080@60 CEA timing.
	mi := randr.ModeInfo{DotClock: 148500000, Htotal: 2200, Vtotal: 1125}
	if got := refreshRate(mi); got != 60 {
		t.Fatalf("refreshRate = %d, want 60", got)
	}
	if got := refreshRate(randr.ModeInfo{DotClock: 1}); got != 0 {
		t.Fatalf("refreshRate without totals = %d, want 0", got)
	}
}

func TestFindModeInfo(t *testing.T) {
	modes := []randr.ModeInfo{{Id: 10, Width: 800}, {Id: 11, Width: 1024}}
	mi, ok := findModeInfo(modes, 11)
	if !ok || mi.Width != 1024 {
		t.Fatalf("findModeInfo(11) = %+v, %v", mi, ok)
	}
	if _, ok := findModeInfo(modes, 12); ok {
		t.Fatalf("findModeInfo(12) found a mode")
	}
}

func TestRotated(t *testing.T) {
	if !rotated(randr.RotationRotate90) || !rotated(randr.RotationRotate270) {
		t.Fatalf("quarter turns should be rotated")
	}
	if rotated(randr.RotationRotate0) || rotated(randr.RotationRotate180) {
		t.Fatalf("half turns should not be rotated")
	}
}

func TestUpdateStrutsTopPanel(t *testing.T) {
	// Two monitors side by side, a 30px panel on the left one only.
	left := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	sp := &ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}

	var acc dockStruts
	updateStruts(left, 3840, 1080, sp, &acc)
	if acc.top != 30 {
		t.Fatalf("left monitor top strut = %d, want 30", acc.top)
	}

	acc = dockStruts{}
	updateStruts(right, 3840, 1080, sp, &acc)
	if acc != (dockStruts{}) {
		t.Fatalf("right monitor struts = %+v, want none", acc)
	}
}

func TestUpdateStrutsBottomAndRight(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1600, Height: 900}
	sp := &ewmh.WmStrutPartial{
		Bottom:       40,
		BottomStartX: 0,
		BottomEndX:   1599,
		Right:        64,
		RightStartY:  0,
		RightEndY:    899,
	}
	var acc dockStruts
	updateStruts(area, 1600, 900, sp, &acc)
	if acc.bottom != 40 || acc.right != 64 {
		t.Fatalf("struts = %+v, want bottom 40 right 64", acc)
	}
}

func TestRectIntersect(t *testing.T) {
	a := rect{0, 0, 100, 100}
	if got := a.intersect(rect{50, 50, 150, 150}); got != (intersection{w: 50, h: 50}) {
		t.Fatalf("intersect = %+v", got)
	}
	if got := a.intersect(rect{100, 0, 200, 100}); got != (intersection{}) {
		t.Fatalf("touching rects intersect = %+v", got)
	}
}

func TestLatin1RoundTrip(t *testing.T) {
	if got := latin1ToUTF8([]byte{'c', 'a', 'f', 0xe9}); got != "café" {
		t.Fatalf("latin1ToUTF8 = %q", got)
	}
	if got := string(utf8ToLatin1("a€")); got != "a?" {
		t.Fatalf("utf8ToLatin1 = %q", got)
	}
}

func TestFontCursorsCoverSupportedShapes(t *testing.T) {
	for shape := platform.CursorArrow; shape <= platform.CursorNotAllowed; shape++ {
		_, ok := fontCursors[shape]
		unavailable := shape == platform.CursorResizeDiagonalTLBR ||
			shape == platform.CursorResizeDiagonalTRBL ||
			shape == platform.CursorNotAllowed
		if ok == unavailable {
			t.Errorf("shape %s: glyph present = %v", shape, ok)
		}
	}
}

func TestForgetClearsWindowReferences(t *testing.T) {
	b := &Backend{windows: make(map[xproto.Window]*Window)}
	w := &Window{b: b, id: 42}
	other := &Window{b: b, id: 43}
	b.windows[w.id] = w
	b.windows[other.id] = other
	b.disabled = w
	b.dnd.target = w

	b.forget(w)
	if b.disabled != nil {
		t.Fatalf("destroyed window still holds the pointer lock")
	}
	if b.dnd.target != nil {
		t.Fatalf("destroyed window still is the drop target")
	}
	if _, ok := b.windows[42]; ok {
		t.Fatalf("destroyed window still registered")
	}

	b.disabled = other
	b.forget(&Window{b: b, id: 44})
	if b.disabled != other || b.windows[43] != other {
		t.Fatalf("forgetting one window touched another")
	}
}
