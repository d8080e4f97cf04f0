//go:build linux

package wayland

import (
	"testing"

	"github.com/1broseidon/windowkit/internal/platform"
)

func TestMessageTypesMatchSignatures(t *testing.T) {
	ifaces := []*iface{
		registryIface, callbackIface, compositorIface, regionIface, surfaceIface,
		shmIface, shmPoolIface, bufferIface, outputIface, seatIface, pointerIface,
		keyboardIface, dataDeviceManagerIface, dataSourceIface, dataOfferIface,
		dataDeviceIface, wmBaseIface, xdgSurfaceIface, toplevelIface,
		decorationManagerIface, toplevelDecorationIface, relativePointerManagerIface,
		relativePointerIface, pointerConstraintsIface, lockedPointerIface,
		confinedPointerIface, idleInhibitManagerIface, idleInhibitorIface,
	}
	for _, i := range ifaces {
		if i.c == nil {
			t.Fatalf("%s has no C description", i.name)
		}
		for _, list := range [][]message{i.requests, i.events} {
			for _, m := range list {
				n := argCount(m.signature)
				if n > 0 && len(m.types) != n {
					t.Errorf("%s.%s: %d types for signature %q", i.name, m.name, len(m.types), m.signature)
				}
			}
		}
		if int(i.c.methodCount) != len(i.requests) || int(i.c.eventCount) != len(i.events) {
			t.Errorf("%s: C counts %d/%d, want %d/%d", i.name, i.c.methodCount, i.c.eventCount, len(i.requests), len(i.events))
		}
	}
}

func TestArgCount(t *testing.T) {
	tests := []struct {
		signature string
		want      int
	}{
		{"", 0},
		{"2", 0},
		{"usun", 4},
		{"?oii", 3},
		{"4iiii", 4},
		{"uoff?o", 5},
	}
	for _, tt := range tests {
		if got := argCount(tt.signature); got != tt.want {
			t.Errorf("argCount(%q) = %d, want %d", tt.signature, got, tt.want)
		}
	}
}

func TestFixedConversion(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 12.5, -0.25, 1023.75} {
		if got := fromFixed(toFixed(v)); got != v {
			t.Errorf("fromFixed(toFixed(%v)) = %v", v, got)
		}
	}
	if got := toFixed(1.5); got != 384 {
		t.Errorf("toFixed(1.5) = %d, want 384", got)
	}
}

func TestScancodesInvertEvdevKeys(t *testing.T) {
	for code, key := range evdevKeys {
		if got := translateKey(code); got != key {
			t.Errorf("translateKey(%d) = %v, want %v", code, got, key)
		}
		if got := scancodes[key]; uint32(got) != code {
			t.Errorf("scancodes[%v] = %d, want %d", key, got, code)
		}
	}
	if got := translateKey(0); got != platform.KeyUnknown {
		t.Errorf("translateKey(0) = %v, want unknown", got)
	}
}

func TestXKBKeycodeOffset(t *testing.T) {
	if got := xkbKeycode(30); got != 38 {
		t.Errorf("xkbKeycode(30) = %d, want 38", got)
	}
}

func TestTranslateButton(t *testing.T) {
	tests := []struct {
		code uint32
		want platform.MouseButton
		ok   bool
	}{
		{btnLeft, platform.MouseButtonLeft, true},
		{btnRight, platform.MouseButtonRight, true},
		{btnMiddle, platform.MouseButtonMiddle, true},
		{btnMiddle + 1, platform.MouseButton4, true},
		{btnMiddle + 5, platform.MouseButton8, true},
		{btnMiddle + 6, 0, false},
		{0x10f, 0, false},
	}
	for _, tt := range tests {
		got, ok := translateButton(tt.code)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("translateButton(%#x) = %v, %v; want %v, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestThemeCursorNamesCoverShapes(t *testing.T) {
	for shape := platform.CursorArrow; shape <= platform.CursorNotAllowed; shape++ {
		if len(themeCursorNames[shape]) == 0 {
			t.Errorf("no theme names for %s", shape)
		}
	}
}

func TestDataOfferTextMime(t *testing.T) {
	o := &dataOffer{mimes: []string{"text/html", "text/plain", mimeUTF8}}
	if mime, ok := o.textMime(); !ok || mime != mimeUTF8 {
		t.Errorf("textMime() = %q, %v; want %q", mime, ok, mimeUTF8)
	}
	o = &dataOffer{mimes: []string{"image/png"}}
	if _, ok := o.textMime(); ok {
		t.Error("textMime() found text in an image offer")
	}
}

func TestMonitorWorkAreaFollowsScaleAndTransform(t *testing.T) {
	m := &Monitor{x: 100, y: 0, scale: 2, transform: 1, current: -1}
	m.addMode(outputModeCurrent, 3840, 2160, 59997)
	area := m.WorkArea()
	want := platform.Rect{X: 100, Y: 0, Width: 1080, Height: 1920}
	if area != want {
		t.Errorf("WorkArea() = %+v, want %+v", area, want)
	}
	mode, err := m.CurrentMode()
	if err != nil {
		t.Fatalf("CurrentMode() error: %v", err)
	}
	if mode.RefreshRate != 60 {
		t.Errorf("RefreshRate = %d, want 60", mode.RefreshRate)
	}
	if err := m.SetVideoMode(mode); err != nil {
		t.Errorf("SetVideoMode(current) error: %v", err)
	}
	other := mode
	other.Width = 1920
	if err := m.SetVideoMode(other); platform.CodeOf(err) != platform.FeatureUnavailable {
		t.Errorf("SetVideoMode(other) error = %v, want FeatureUnavailable", err)
	}
}

func TestMonitorNameFallbacks(t *testing.T) {
	m := &Monitor{name: 7}
	if got := m.Name(); got != "Output 7" {
		t.Errorf("Name() = %q", got)
	}
	m.vendor, m.model = "DEL", "U2720Q"
	if got := m.Name(); got != "DEL U2720Q" {
		t.Errorf("Name() = %q", got)
	}
	m.label = "DP-1"
	if got := m.Name(); got != "DP-1" {
		t.Errorf("Name() = %q", got)
	}
}
