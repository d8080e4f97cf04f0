package windowing

import (
	"slices"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Monitor is one connected display. Records are owned by the State; a
// disconnected monitor stays readable until its disconnect callback returns.
type Monitor struct {
	state  *State
	native platform.NativeMonitor
	name   string

	// modes is the sorted, deduplicated mode cache; nil until first use.
	modes []VideoMode
	// window occupies the monitor in full screen.
	window *Window
	// modeChanged is set while the monitor runs a mode we switched to.
	modeChanged bool
	freed       bool

	userData any
}

func newMonitor(s *State, native platform.NativeMonitor) *Monitor {
	return &Monitor{state: s, native: native, name: native.Name()}
}

func (m *Monitor) check() error {
	if m == nil {
		return platform.Errorf(platform.InvalidValue, "[Window] nil monitor")
	}
	if err := m.state.checkInit(); err != nil {
		return err
	}
	if m.freed {
		return m.state.inputError(platform.InvalidValue, "Monitor %q has been disconnected", m.name)
	}
	return nil
}

// Name is the human readable monitor name.
func (m *Monitor) Name() string {
	if m == nil {
		return ""
	}
	return m.name
}

// Pos is the position of the monitor's viewport on the virtual screen.
func (m *Monitor) Pos() (x, y int) {
	if m.check() != nil {
		return 0, 0
	}
	return m.native.Pos()
}

// WorkArea is the part of the monitor not covered by panels and docks.
func (m *Monitor) WorkArea() Rect {
	if m.check() != nil {
		return Rect{}
	}
	return m.native.WorkArea()
}

// PhysicalSize is the display size in millimetres, zero when unknown.
func (m *Monitor) PhysicalSize() (widthMM, heightMM int) {
	if m.check() != nil {
		return 0, 0
	}
	return m.native.PhysicalSize()
}

// ContentScale is the ratio between the current DPI and the platform default.
func (m *Monitor) ContentScale() (xscale, yscale float32) {
	if m.check() != nil {
		return 0, 0
	}
	return m.native.ContentScale()
}

// VideoModes returns the supported modes in ascending order.
func (m *Monitor) VideoModes() ([]VideoMode, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	if err := m.refreshVideoModes(); err != nil {
		return nil, err
	}
	return slices.Clone(m.modes), nil
}

// VideoMode returns the current mode.
func (m *Monitor) VideoMode() (VideoMode, error) {
	if err := m.check(); err != nil {
		return VideoMode{}, err
	}
	mode, err := m.native.CurrentMode()
	if err != nil {
		return VideoMode{}, m.state.report(err)
	}
	return mode, nil
}

// ChooseVideoMode returns a pointer into the cached mode list for the mode
// closest to desired. Identical inputs return the identical pointer until the
// cache is invalidated.
func (m *Monitor) ChooseVideoMode(desired VideoMode) (*VideoMode, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	if err := m.refreshVideoModes(); err != nil {
		return nil, err
	}
	i := ChooseVideoMode(m.modes, desired)
	if i < 0 {
		return nil, m.state.inputError(platform.PlatformError, "Monitor %q reports no video modes", m.name)
	}
	return &m.modes[i], nil
}

// InvalidateVideoModes drops the mode cache; the next query re-enumerates.
func (m *Monitor) InvalidateVideoModes() {
	if m != nil {
		m.modes = nil
	}
}

// Window returns the window occupying the monitor in full screen, if any.
func (m *Monitor) Window() *Window {
	if m == nil {
		return nil
	}
	return m.window
}

func (m *Monitor) SetUserData(v any) {
	if m != nil {
		m.userData = v
	}
}

func (m *Monitor) UserData() any {
	if m == nil {
		return nil
	}
	return m.userData
}

func (m *Monitor) refreshVideoModes() error {
	if m.modes != nil {
		return nil
	}
	modes, err := m.native.VideoModes()
	if err != nil {
		return m.state.report(err)
	}
	m.modes = SortVideoModes(modes)
	return nil
}

// Monitors returns the connected monitors, primary first.
func (s *State) Monitors() []*Monitor {
	if s.checkInit() != nil {
		return nil
	}
	return slices.Clone(s.monitors)
}

// PrimaryMonitor returns the primary monitor, or nil when none is connected.
func (s *State) PrimaryMonitor() *Monitor {
	if s.checkInit() != nil || len(s.monitors) == 0 {
		return nil
	}
	return s.monitors[0]
}

func (s *State) findMonitor(native platform.NativeMonitor) *Monitor {
	for _, m := range s.monitors {
		if m.native == native {
			return m
		}
	}
	return nil
}

func (s *State) insertMonitor(m *Monitor, placement platform.Placement) {
	if placement == platform.PlaceFirst {
		s.monitors = slices.Insert(s.monitors, 0, m)
		return
	}
	s.monitors = append(s.monitors, m)
}

// InputMonitorConnect is called by the backend when a monitor appears.
func (s *State) InputMonitorConnect(native platform.NativeMonitor, placement platform.Placement) {
	if !s.initialized || native == nil || s.findMonitor(native) != nil {
		return
	}
	m := newMonitor(s, native)
	s.insertMonitor(m, placement)
	s.logger.Info("monitor connected", "name", m.name)
	if s.monitorCallback != nil {
		s.monitorCallback(m, true)
	}
}

// InputMonitorDisconnect is called by the backend when a monitor goes away.
// Full screen windows on it are reverted to windowed mode first and get a
// size notification; the callback runs before the record is released.
func (s *State) InputMonitorDisconnect(native platform.NativeMonitor) {
	if !s.initialized {
		return
	}
	m := s.findMonitor(native)
	if m == nil {
		return
	}

	for _, w := range slices.Clone(s.windows) {
		if w.monitor != m || w.native == nil {
			continue
		}
		width, height := w.native.Size()
		left, top, _, _ := w.native.FrameSize()
		s.releaseMonitor(w, false)
		w.native.SetMonitor(nil, Rect{X: left, Y: top, Width: width, Height: height}, w.attributes())
		w.InputWindowSize(width, height)
	}

	if i := slices.Index(s.monitors, m); i >= 0 {
		s.monitors = slices.Delete(s.monitors, i, i+1)
	}
	s.logger.Info("monitor disconnected", "name", m.name)
	if s.monitorCallback != nil {
		s.monitorCallback(m, false)
	}
	m.freed = true
	m.modes = nil
	m.native = nil
}

// Native returns the backend handle, nil once disconnected.
func (m *Monitor) Native() platform.NativeMonitor {
	if m == nil {
		return nil
	}
	return m.native
}
