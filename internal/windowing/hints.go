package windowing

import "github.com/1broseidon/windowkit/internal/platform"

// Hint names a boolean window creation hint.
type Hint int

const (
	HintResizable Hint = iota
	HintVisible
	HintDecorated
	HintFocused
	HintFloating
	HintMaximized
	HintFocusOnShow
	HintMousePassthrough
)

// Hints are the creation parameters snapshotted by CreateWindow.
type Hints struct {
	Resizable        bool
	Visible          bool
	Decorated        bool
	Focused          bool
	Floating         bool
	Maximized        bool
	FocusOnShow      bool
	MousePassthrough bool

	RedBits     int
	GreenBits   int
	BlueBits    int
	RefreshRate int
}

// DefaultHints returns the built-in creation defaults.
func DefaultHints() Hints {
	return Hints{
		Resizable:   true,
		Visible:     true,
		Decorated:   true,
		Focused:     true,
		FocusOnShow: true,
		RedBits:     8,
		GreenBits:   8,
		BlueBits:    8,
		RefreshRate: DontCare,
	}
}

// DefaultWindowHints resets every hint to its default (or to Options.Hints
// when configured).
func (s *State) DefaultWindowHints() {
	if s.opts.Hints != nil {
		s.hints = *s.opts.Hints
		return
	}
	s.hints = DefaultHints()
}

// WindowHint sets one boolean hint for the next CreateWindow.
func (s *State) WindowHint(hint Hint, value bool) error {
	if err := s.checkInit(); err != nil {
		return err
	}
	switch hint {
	case HintResizable:
		s.hints.Resizable = value
	case HintVisible:
		s.hints.Visible = value
	case HintDecorated:
		s.hints.Decorated = value
	case HintFocused:
		s.hints.Focused = value
	case HintFloating:
		s.hints.Floating = value
	case HintMaximized:
		s.hints.Maximized = value
	case HintFocusOnShow:
		s.hints.FocusOnShow = value
	case HintMousePassthrough:
		s.hints.MousePassthrough = value
	default:
		return s.inputError(platform.InvalidEnum, "Invalid window hint %d", int(hint))
	}
	return nil
}

// SetHints replaces all hints at once.
func (s *State) SetHints(h Hints) error {
	if err := s.checkInit(); err != nil {
		return err
	}
	for _, bits := range []int{h.RedBits, h.GreenBits, h.BlueBits} {
		if bits < DontCare {
			return s.inputError(platform.InvalidValue, "Invalid color depth %d", bits)
		}
	}
	if h.RefreshRate < DontCare || h.RefreshRate == 0 {
		return s.inputError(platform.InvalidValue, "Invalid refresh rate %d", h.RefreshRate)
	}
	s.hints = h
	return nil
}

// Hints returns the hints the next CreateWindow will use.
func (s *State) Hints() Hints {
	return s.hints
}

func (h Hints) config(width, height int, title string) platform.WindowConfig {
	return platform.WindowConfig{
		Width:            width,
		Height:           height,
		Title:            title,
		Resizable:        h.Resizable,
		Visible:          h.Visible,
		Decorated:        h.Decorated,
		Maximized:        h.Maximized,
		Focused:          h.Focused,
		Floating:         h.Floating,
		FocusOnShow:      h.FocusOnShow,
		MousePassthrough: h.MousePassthrough,
	}
}
