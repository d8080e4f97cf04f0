//go:build linux

package wayland

import (
	"fmt"
	"math"
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Monitor is a wl_output. Outputs cannot change modes on Wayland, so the
// catalogue only lists what the compositor advertises.
type Monitor struct {
	b      *Backend
	output proxy
	name   uint32

	label       string
	description string
	vendor      string
	model       string

	x, y              int
	widthMM, heightMM int
	scale             int
	transform         int32

	modes   []platform.VideoMode
	current int
	done    bool
}

func (b *Backend) addOutput(name uint32, output proxy) {
	m := &Monitor{b: b, output: output, name: name, scale: 1, current: -1}
	b.monitors = append(b.monitors, m)
	output.listen(m.handleOutput)
}

func (m *Monitor) handleOutput(opcode uint32, args eventArgs) {
	switch opcode {
	case outputGeometry:
		m.x, m.y = int(args.Int(0)), int(args.Int(1))
		m.widthMM, m.heightMM = int(args.Int(2)), int(args.Int(3))
		m.vendor, m.model = args.String(5), args.String(6)
		m.transform = args.Int(7)
	case outputMode:
		m.addMode(args.Uint(0), int(args.Int(1)), int(args.Int(2)), int(args.Int(3)))
	case outputScale:
		m.scale = max(int(args.Int(0)), 1)
	case outputName:
		m.label = args.String(0)
	case outputDescription:
		m.description = args.String(0)
	case outputDone:
		m.finish()
	}
	// Version 1 outputs never send done.
	if m.output.version() < 2 && opcode == outputMode {
		m.finish()
	}
}

func (m *Monitor) addMode(flags uint32, width, height, refreshMHz int) {
	mode := platform.VideoMode{
		Width:       width,
		Height:      height,
		RedBits:     8,
		GreenBits:   8,
		BlueBits:    8,
		RefreshRate: int(math.Round(float64(refreshMHz) / 1000)),
	}
	i := slices.Index(m.modes, mode)
	if i < 0 {
		m.modes = append(m.modes, mode)
		i = len(m.modes) - 1
	}
	if flags&outputModeCurrent != 0 {
		m.current = i
	}
}

// finish announces the output the first time its description is complete.
func (m *Monitor) finish() {
	if m.done {
		return
	}
	m.done = true
	if m.widthMM <= 0 || m.heightMM <= 0 {
		if mode, err := m.CurrentMode(); err == nil {
			// Assume 96 DPI when the output reports no physical size.
			m.widthMM = int(float64(mode.Width) * 25.4 / 96)
			m.heightMM = int(float64(mode.Height) * 25.4 / 96)
		}
	}
	if m.b.ready {
		m.b.host.InputMonitorConnect(m, platform.PlaceLast)
	}
}

func (b *Backend) removeMonitor(m *Monitor) {
	i := slices.Index(b.monitors, m)
	if i < 0 {
		return
	}
	b.monitors = slices.Delete(b.monitors, i, i+1)
	for _, w := range b.windows {
		w.outputLeft(m)
	}
	if m.done && b.ready {
		b.host.InputMonitorDisconnect(m)
	}
	m.destroy()
}

func (m *Monitor) destroy() {
	if m.output == 0 {
		return
	}
	if m.output.version() >= 3 {
		m.output.destroy(outputRelease)
	} else {
		m.output.release()
	}
	m.output = 0
}

func (m *Monitor) Name() string {
	switch {
	case m.label != "":
		return m.label
	case m.vendor != "" || m.model != "":
		return fmt.Sprintf("%s %s", m.vendor, m.model)
	default:
		return fmt.Sprintf("Output %d", m.name)
	}
}

func (m *Monitor) Pos() (x, y int) { return m.x, m.y }

// WorkArea is the whole output; Wayland does not expose panel struts.
func (m *Monitor) WorkArea() platform.Rect {
	area := platform.Rect{X: m.x, Y: m.y}
	if mode, err := m.CurrentMode(); err == nil {
		width, height := mode.Width, mode.Height
		if m.transform%2 == 1 {
			width, height = height, width
		}
		area.Width = width / m.scale
		area.Height = height / m.scale
	}
	return area
}

func (m *Monitor) PhysicalSize() (widthMM, heightMM int) {
	return m.widthMM, m.heightMM
}

func (m *Monitor) ContentScale() (xscale, yscale float32) {
	return float32(m.scale), float32(m.scale)
}

func (m *Monitor) VideoModes() ([]platform.VideoMode, error) {
	if len(m.modes) == 0 {
		return nil, platform.Errorf(platform.PlatformError, "[Window] Wayland: output %s reported no modes", m.Name())
	}
	return slices.Clone(m.modes), nil
}

func (m *Monitor) CurrentMode() (platform.VideoMode, error) {
	if m.current < 0 || m.current >= len(m.modes) {
		return platform.VideoMode{}, platform.Errorf(platform.PlatformError, "[Window] Wayland: output %s has no current mode", m.Name())
	}
	return m.modes[m.current], nil
}

// SetVideoMode accepts only the current mode: clients cannot change output
// modes.
func (m *Monitor) SetVideoMode(mode platform.VideoMode) error {
	if current, err := m.CurrentMode(); err == nil && current == mode {
		return nil
	}
	return platform.Errorf(platform.FeatureUnavailable, "[Window] Wayland: Video mode setting is not supported")
}

func (m *Monitor) RestoreVideoMode() {}
