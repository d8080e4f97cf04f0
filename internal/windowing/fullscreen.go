package windowing

import "github.com/1broseidon/windowkit/internal/platform"

// Monitor returns the monitor the window is full screen on, or nil.
func (w *Window) Monitor() *Monitor {
	if w == nil {
		return nil
	}
	return w.monitor
}

// Borderless reports whether the window is full screen at the monitor's
// current video mode.
func (w *Window) Borderless() bool {
	return w != nil && w.monitor != nil && w.borderless
}

// SetMonitor makes the window full screen on m at the closest video mode to
// width x height @ refreshRate, or windowed at (x, y) with that size when m is
// nil. refreshRate may be DontCare.
func (w *Window) SetMonitor(m *Monitor, x, y, width, height, refreshRate int) error {
	if err := w.check(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return w.state.inputError(platform.InvalidValue, "Invalid window size %dx%d", width, height)
	}
	if refreshRate < 0 && refreshRate != DontCare {
		return w.state.inputError(platform.InvalidValue, "Invalid refresh rate %d", refreshRate)
	}
	if m != nil {
		if err := m.check(); err != nil {
			return err
		}
	}

	w.videoMode.Width = width
	w.videoMode.Height = height
	w.videoMode.RefreshRate = refreshRate
	w.borderless = false
	return w.state.setWindowMonitor(w, m, Rect{X: x, Y: y, Width: width, Height: height})
}

// SetMonitorBorderless makes the window full screen on m without changing
// the video mode.
func (w *Window) SetMonitorBorderless(m *Monitor) error {
	if err := w.check(); err != nil {
		return err
	}
	if m == nil {
		return w.state.inputError(platform.InvalidValue, "Borderless full screen requires a monitor")
	}
	mode, err := m.VideoMode()
	if err != nil {
		return err
	}
	w.videoMode = mode
	w.borderless = true
	return w.state.setWindowMonitor(w, m, Rect{})
}

func (s *State) setWindowMonitor(w *Window, m *Monitor, windowed Rect) error {
	if m != nil && m.window != nil && m.window != w {
		return s.inputError(platform.InvalidValue, "Monitor %q is already occupied by window %q", m.name, m.window.title)
	}
	if w.monitor != nil && w.monitor != m {
		s.releaseMonitor(w, true)
	}
	if m == nil {
		w.native.SetMonitor(nil, windowed, w.attributes())
		return nil
	}
	return s.acquireMonitor(w, m)
}

// acquireMonitor makes w the full screen occupant of m, switching the video
// mode unless the window is borderless. Calling it again for the current
// occupant re-applies the mode.
func (s *State) acquireMonitor(w *Window, m *Monitor) error {
	if m.window != nil && m.window != w {
		return s.inputError(platform.InvalidValue, "Monitor %q is already occupied by window %q", m.name, m.window.title)
	}
	if m.window == nil {
		if s.acquiredMonitors == 0 {
			s.backend.SetScreensaverInhibited(true)
		}
		s.acquiredMonitors++
		m.window = w
		w.monitor = m
	}

	if !w.borderless {
		if err := s.switchVideoMode(m, w.videoMode); err != nil {
			s.logger.Warn("video mode switch failed, keeping current mode", "monitor", m.name, "error", err)
		}
	}

	mode, err := m.native.CurrentMode()
	if err != nil {
		return s.report(err)
	}
	x, y := m.native.Pos()
	w.native.SetMonitor(m.native, Rect{X: x, Y: y, Width: mode.Width, Height: mode.Height}, w.attributes())
	return nil
}

// releaseMonitor detaches w from its monitor, restoring the original video
// mode when restoreMode is set.
func (s *State) releaseMonitor(w *Window, restoreMode bool) {
	m := w.monitor
	w.monitor = nil
	if m == nil || m.window != w {
		return
	}
	m.window = nil
	s.acquiredMonitors--
	if s.acquiredMonitors == 0 {
		s.backend.SetScreensaverInhibited(false)
	}
	if m.modeChanged && restoreMode {
		m.native.RestoreVideoMode()
		m.modeChanged = false
	}
}

func (s *State) switchVideoMode(m *Monitor, desired VideoMode) error {
	best, err := m.ChooseVideoMode(desired)
	if err != nil {
		return err
	}
	current, err := m.native.CurrentMode()
	if err != nil {
		return s.report(err)
	}
	if CompareVideoModes(current, *best) == 0 {
		return nil
	}
	if err := m.native.SetVideoMode(*best); err != nil {
		return s.report(err)
	}
	m.modeChanged = true
	s.logger.Debug("video mode set", "monitor", m.name, "mode", best.String())
	return nil
}
