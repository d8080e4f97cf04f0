//go:build windows

package win32

import (
	"image"
	"testing"

	"github.com/1broseidon/windowkit/internal/platform"
)

func TestLparamPointIsSigned(t *testing.T) {
	// (-5, 300) as packed by the system.
	lParam := uintptr(uint16(0xfffb)) | uintptr(300)<<16
	x, y := lparamPoint(lParam)
	if x != -5 || y != 300 {
		t.Errorf("lparamPoint() = %d, %d; want -5, 300", x, y)
	}
}

func TestWindowStyle(t *testing.T) {
	tests := []struct {
		name                             string
		fullscreen, decorated, resizable bool
		has, lacks                       uint32
	}{
		{"decorated resizable", false, true, true, wsCaption | wsThickFrame | wsMaximizeBox, wsPopup},
		{"decorated fixed", false, true, false, wsCaption | wsMinimizeBox, wsThickFrame | wsMaximizeBox},
		{"undecorated", false, false, true, wsPopup | wsMinimizeBox, wsCaption | wsThickFrame},
		{"fullscreen", true, true, true, wsPopup, wsCaption | wsThickFrame | wsSysMenu},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := windowStyle(tt.fullscreen, tt.decorated, tt.resizable)
			if style&tt.has != tt.has {
				t.Errorf("style %#x lacks %#x", style, tt.has)
			}
			if style&tt.lacks != 0 {
				t.Errorf("style %#x has %#x", style, style&tt.lacks)
			}
			if style&(wsClipSiblings|wsClipChildren) != wsClipSiblings|wsClipChildren {
				t.Errorf("style %#x does not clip", style)
			}
		})
	}
}

func TestWindowExStyleTopmost(t *testing.T) {
	if windowExStyle(false, false)&wsExTopmost != 0 {
		t.Error("plain window is topmost")
	}
	if windowExStyle(false, true)&wsExTopmost == 0 {
		t.Error("floating window is not topmost")
	}
	if windowExStyle(true, false)&wsExTopmost == 0 {
		t.Error("full screen window is not topmost")
	}
}

func TestKeyTablesAreInverse(t *testing.T) {
	keycodes, scancodes := keyTables()
	for key, scancode := range scancodes {
		if keycodes[scancode] != key {
			t.Errorf("keycodes[%#x] = %v, want %v", scancode, keycodes[scancode], key)
		}
	}
	if keycodes[0x01E] != platform.KeyA {
		t.Errorf("scancode 0x1e = %v, want A", keycodes[0x01E])
	}
	if keycodes[0x11D] != platform.KeyRightControl {
		t.Errorf("scancode 0x11d = %v, want right control", keycodes[0x11D])
	}
	if keycodes[0x076] != platform.KeyF25-1 {
		t.Errorf("scancode 0x76 = %v, want F24", keycodes[0x076])
	}
	if keycodes[0x0ff] != platform.KeyUnknown {
		t.Errorf("scancode 0xff = %v, want unknown", keycodes[0x0ff])
	}
}

func TestFixScancode(t *testing.T) {
	tests := map[int]int{0x54: 0x137, 0x146: 0x45, 0x136: 0x36, 0x1e: 0x1e}
	for in, want := range tests {
		if got := fixScancode(in); got != want {
			t.Errorf("fixScancode(%#x) = %#x, want %#x", in, got, want)
		}
	}
}

func TestDecodeCharSurrogates(t *testing.T) {
	w := &Window{}
	if r, ok := w.decodeChar('a'); !ok || r != 'a' {
		t.Errorf("decodeChar('a') = %q, %v", r, ok)
	}
	// U+1F600 is D83D DE00.
	if _, ok := w.decodeChar(0xd83d); ok {
		t.Fatal("high surrogate produced a character")
	}
	if r, ok := w.decodeChar(0xde00); !ok || r != 0x1f600 {
		t.Errorf("decodeChar(low) = %U, %v; want U+1F600", r, ok)
	}
	if _, ok := w.decodeChar(0xde00); ok {
		t.Error("lone low surrogate produced a character")
	}
}

func TestModeBitsPerPel(t *testing.T) {
	tests := []struct {
		r, g, b int
		want    uint32
	}{
		{8, 8, 8, 32},
		{5, 6, 5, 16},
		{5, 5, 5, 15},
		{4, 4, 4, 32},
	}
	for _, tt := range tests {
		mode := platform.VideoMode{RedBits: tt.r, GreenBits: tt.g, BlueBits: tt.b}
		if got := modeBitsPerPel(mode); got != tt.want {
			t.Errorf("modeBitsPerPel(%d/%d/%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestModeFromDevMode(t *testing.T) {
	dm := devMode{pelsWidth: 2560, pelsHeight: 1440, bitsPerPel: 32, displayFrequency: 144}
	want := platform.VideoMode{Width: 2560, Height: 1440, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 144}
	if got := modeFromDevMode(dm); got != want {
		t.Errorf("modeFromDevMode() = %v, want %v", got, want)
	}
	dm.bitsPerPel = 16
	if got := modeFromDevMode(dm); got.RedBits != 5 || got.GreenBits != 6 || got.BlueBits != 5 {
		t.Errorf("16 bpp split = %d/%d/%d, want 5/6/5", got.RedBits, got.GreenBits, got.BlueBits)
	}
}

func TestClosestIcon(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 16, 16))
	medium := image.NewRGBA(image.Rect(0, 0, 32, 32))
	large := image.NewRGBA(image.Rect(0, 0, 256, 256))
	images := []*image.RGBA{large, small, medium}
	if got := closestIcon(images, 32, 32); got != medium {
		t.Errorf("closestIcon(32) = %v", got.Rect)
	}
	if got := closestIcon(images, 20, 20); got != small {
		t.Errorf("closestIcon(20) = %v", got.Rect)
	}
}

func TestApplyAspect(t *testing.T) {
	frame := rect{left: -8, top: -31, right: 8, bottom: 8}
	area := rect{left: 0, top: 0, right: 16 + 400, bottom: 100}
	applyAspect(wmszRight, &area, frame, 2)
	if got := area.bottom - area.top - 39; got != 200 {
		t.Errorf("content height = %d, want 200", got)
	}

	area = rect{left: 0, top: 0, right: 500, bottom: 39 + 100}
	applyAspect(wmszBottom, &area, frame, 2)
	if got := area.right - area.left - 16; got != 200 {
		t.Errorf("content width = %d, want 200", got)
	}

	area = rect{left: 0, top: 0, right: 16 + 400, bottom: 300}
	applyAspect(wmszTopLeft, &area, frame, 2)
	if area.bottom != 300 || area.bottom-area.top-39 != 200 {
		t.Errorf("top edge drag moved bottom or kept height: %+v", area)
	}
}

func TestToBGRA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	got := toBGRA(img)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("toBGRA() = %v, want %v", got, want)
		}
	}
}

func TestDispChangeDescription(t *testing.T) {
	if got := dispChangeDescription(-2); got != "graphics mode not supported" {
		t.Errorf("dispChangeDescription(-2) = %q", got)
	}
	if got := dispChangeDescription(42); got != "unknown error" {
		t.Errorf("dispChangeDescription(42) = %q", got)
	}
}
