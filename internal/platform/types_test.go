package platform

import "testing"

func TestParseCursorModeRoundTrip(t *testing.T) {
	for m := CursorNormal; m <= CursorCaptured; m++ {
		got, err := ParseCursorMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseCursorMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseCursorMode("locked"); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}

func TestParseCursorShapeRoundTrip(t *testing.T) {
	for s := CursorArrow; s <= CursorNotAllowed; s++ {
		got, err := ParseCursorShape(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseCursorShape(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseCursorShape("hourglass"); err == nil {
		t.Fatalf("expected an error for an unknown shape")
	}
	if CursorShape(42).Valid() {
		t.Fatalf("expected shape 42 to be invalid")
	}
}

func TestVideoModeBitsPerPixel(t *testing.T) {
	m := VideoMode{Width: 640, Height: 480, RedBits: 5, GreenBits: 6, BlueBits: 5, RefreshRate: 60}
	if m.BitsPerPixel() != 16 {
		t.Fatalf("expected 16 bits, got %d", m.BitsPerPixel())
	}
}
