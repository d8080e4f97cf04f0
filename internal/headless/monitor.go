package headless

import (
	"fmt"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
)

// MonitorSpec describes a simulated monitor. Width and Height are the size of
// the initial mode; Modes defaults to that single mode.
type MonitorSpec struct {
	Name     string
	X, Y     int
	Width    int
	Height   int
	WidthMM  int
	HeightMM int
	// Scale is the content scale, 1 when zero.
	Scale float32
	// WorkArea defaults to the full monitor.
	WorkArea platform.Rect
	Modes    []platform.VideoMode
	// FailModeSwitch makes SetVideoMode report a platform error.
	FailModeSwitch bool
}

// Monitor implements platform.NativeMonitor.
type Monitor struct {
	spec     MonitorSpec
	current  platform.VideoMode
	original platform.VideoMode
	switched bool
	switches int
}

func newMonitor(spec MonitorSpec) (*Monitor, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("headless monitor needs a name")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("headless monitor %q: invalid size %dx%d", spec.Name, spec.Width, spec.Height)
	}
	if spec.Scale == 0 {
		spec.Scale = 1
	}
	if spec.WorkArea.Width == 0 || spec.WorkArea.Height == 0 {
		spec.WorkArea = platform.Rect{X: spec.X, Y: spec.Y, Width: spec.Width, Height: spec.Height}
	}

	current := platform.VideoMode{Width: spec.Width, Height: spec.Height, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60}
	for _, mode := range spec.Modes {
		if mode.Width == spec.Width && mode.Height == spec.Height {
			current = mode
			break
		}
	}
	if len(spec.Modes) == 0 {
		spec.Modes = []platform.VideoMode{current}
	}
	return &Monitor{spec: spec, current: current, original: current}, nil
}

func (m *Monitor) Name() string { return m.spec.Name }

func (m *Monitor) Pos() (x, y int) { return m.spec.X, m.spec.Y }

func (m *Monitor) WorkArea() platform.Rect { return m.spec.WorkArea }

func (m *Monitor) PhysicalSize() (widthMM, heightMM int) {
	return m.spec.WidthMM, m.spec.HeightMM
}

func (m *Monitor) ContentScale() (xscale, yscale float32) {
	return m.spec.Scale, m.spec.Scale
}

func (m *Monitor) VideoModes() ([]platform.VideoMode, error) {
	return slices.Clone(m.spec.Modes), nil
}

func (m *Monitor) CurrentMode() (platform.VideoMode, error) {
	return m.current, nil
}

func (m *Monitor) SetVideoMode(mode platform.VideoMode) error {
	if m.spec.FailModeSwitch {
		return platform.Errorf(platform.PlatformError, "[Window] Headless: mode switch to %s refused", mode)
	}
	if !slices.Contains(m.spec.Modes, mode) {
		return platform.Errorf(platform.PlatformError, "[Window] Headless: mode %s not supported by %s", mode, m.spec.Name)
	}
	m.current = mode
	m.switched = true
	m.switches++
	return nil
}

func (m *Monitor) RestoreVideoMode() {
	if !m.switched {
		return
	}
	m.current = m.original
	m.switched = false
}

// ModeSwitches counts successful SetVideoMode calls.
func (m *Monitor) ModeSwitches() int { return m.switches }

// SetModes replaces the advertised modes, for cache invalidation tests.
func (m *Monitor) SetModes(modes []platform.VideoMode) {
	m.spec.Modes = slices.Clone(modes)
}
