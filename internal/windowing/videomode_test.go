package windowing

import (
	"testing"

	"github.com/1broseidon/windowkit/internal/headless"
)

func mode(width, height, bpp, rate int) VideoMode {
	r, g, b := bpp/3, bpp/3, bpp/3
	if bpp == 16 {
		r, g, b = 5, 6, 5
	}
	return VideoMode{Width: width, Height: height, RedBits: r, GreenBits: g, BlueBits: b, RefreshRate: rate}
}

func TestCompareVideoModes(t *testing.T) {
	tests := []struct {
		name string
		a, b VideoMode
		want int
	}{
		{name: "depth first", a: mode(3840, 2160, 16, 60), b: mode(640, 480, 24, 60), want: -1},
		{name: "then area", a: mode(1280, 1024, 24, 60), b: mode(1920, 1080, 24, 60), want: -1},
		{name: "then width", a: mode(1600, 900, 24, 60), b: mode(1440, 1000, 24, 60), want: 1},
		{name: "then refresh rate", a: mode(1920, 1080, 24, 144), b: mode(1920, 1080, 24, 60), want: 1},
		{name: "equal", a: mode(800, 600, 24, 60), b: mode(800, 600, 24, 60), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVideoModes(tt.a, tt.b)
			if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) {
				t.Fatalf("CompareVideoModes(%s, %s) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMonitorVideoModesAreSortedAndUnique(t *testing.T) {
	spec := headless.MonitorSpec{
		Name:   "Messy",
		Width:  1920,
		Height: 1080,
		Modes: []VideoMode{
			mode(1920, 1080, 24, 60),
			mode(800, 600, 16, 75),
			mode(1920, 1080, 24, 144),
			mode(1280, 720, 24, 60),
			mode(1920, 1080, 24, 60),
			mode(800, 600, 24, 60),
			mode(1280, 720, 24, 60),
		},
	}
	s, _ := newTestState(t, headless.Options{Monitors: []headless.MonitorSpec{spec}})
	modes, err := s.PrimaryMonitor().VideoModes()
	if err != nil {
		t.Fatalf("VideoModes failed: %v", err)
	}
	if len(modes) != 5 {
		t.Fatalf("expected 5 unique modes, got %d: %v", len(modes), modes)
	}
	for i := 1; i < len(modes); i++ {
		if CompareVideoModes(modes[i-1], modes[i]) >= 0 {
			t.Fatalf("modes %d and %d out of order: %s, %s", i-1, i, modes[i-1], modes[i])
		}
	}
	if modes[0] != mode(800, 600, 16, 75) {
		t.Fatalf("expected the 16 bit mode first, got %s", modes[0])
	}
}

func TestChooseVideoMode(t *testing.T) {
	modes := SortVideoModes([]VideoMode{
		mode(640, 480, 24, 60),
		mode(1280, 720, 24, 60),
		mode(1280, 720, 24, 120),
		mode(1920, 1080, 24, 60),
		mode(1920, 1080, 16, 60),
	})
	tests := []struct {
		name    string
		desired VideoMode
		want    VideoMode
	}{
		{name: "exact", desired: mode(1280, 720, 24, 120), want: mode(1280, 720, 24, 120)},
		{name: "nearest size", desired: mode(1300, 700, 24, 60), want: mode(1280, 720, 24, 60)},
		{name: "depth beats size", desired: mode(1920, 1080, 16, 60), want: mode(1920, 1080, 16, 60)},
		{
			name:    "dont care rate keeps first",
			desired: VideoMode{Width: 1280, Height: 720, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: DontCare},
			want:    mode(1280, 720, 24, 60),
		},
		{
			name:    "dont care size",
			desired: VideoMode{Width: DontCare, Height: DontCare, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 120},
			want:    mode(1280, 720, 24, 120),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := ChooseVideoMode(modes, tt.desired)
			if i < 0 {
				t.Fatalf("no mode chosen")
			}
			if modes[i] != tt.want {
				t.Fatalf("ChooseVideoMode(%s) = %s, want %s", tt.desired, modes[i], tt.want)
			}
		})
	}
	if got := ChooseVideoMode(nil, mode(800, 600, 24, 60)); got != -1 {
		t.Fatalf("expected -1 for no modes, got %d", got)
	}
}

func TestMonitorChooseVideoModeIsStable(t *testing.T) {
	s, b := newTestState(t, headless.Options{})
	m := s.PrimaryMonitor()
	desired := mode(1200, 700, 24, 60)

	first, err := m.ChooseVideoMode(desired)
	if err != nil {
		t.Fatalf("ChooseVideoMode failed: %v", err)
	}
	second, err := m.ChooseVideoMode(desired)
	if err != nil {
		t.Fatalf("ChooseVideoMode failed: %v", err)
	}
	if first != second {
		t.Fatalf("repeated calls returned different modes %p and %p", first, second)
	}
	if first.Width != 1280 || first.Height != 720 {
		t.Fatalf("expected 1280x720, got %s", first)
	}

	hm := primaryNative(t, b)
	hm.SetModes([]VideoMode{mode(1024, 768, 24, 60)})
	if again, _ := m.ChooseVideoMode(desired); again != first {
		t.Fatalf("cache refreshed without invalidation")
	}
	m.InvalidateVideoModes()
	fresh, err := m.ChooseVideoMode(desired)
	if err != nil {
		t.Fatalf("ChooseVideoMode failed: %v", err)
	}
	if fresh.Width != 1024 {
		t.Fatalf("expected 1024x768 after invalidation, got %s", fresh)
	}
}
