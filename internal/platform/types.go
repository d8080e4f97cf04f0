package platform

import "fmt"

// DontCare marks a size limit, aspect ratio or video mode field as unconstrained.
const DontCare = -1

// Rect is a rectangle in virtual screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// VideoMode is one mode a monitor can be driven at.
type VideoMode struct {
	Width       int
	Height      int
	RedBits     int
	GreenBits   int
	BlueBits    int
	RefreshRate int
}

// BitsPerPixel is the sum of the channel depths.
func (m VideoMode) BitsPerPixel() int {
	return m.RedBits + m.GreenBits + m.BlueBits
}

func (m VideoMode) String() string {
	return fmt.Sprintf("%dx%d@%dHz (%d/%d/%d)", m.Width, m.Height, m.RefreshRate, m.RedBits, m.GreenBits, m.BlueBits)
}

// SplitBPP distributes a pixel depth over three channels, green first.
func SplitBPP(bpp int) (red, green, blue int) {
	if bpp == 32 {
		bpp = 24
	}
	red = bpp / 3
	green = red
	blue = red
	delta := bpp - red*3
	if delta >= 1 {
		green++
	}
	if delta == 2 {
		red++
	}
	return red, green, blue
}

// WindowConfig is the creation-time snapshot of the window hints.
type WindowConfig struct {
	Width            int
	Height           int
	Title            string
	Resizable        bool
	Visible          bool
	Decorated        bool
	Maximized        bool
	Focused          bool
	Floating         bool
	FocusOnShow      bool
	MousePassthrough bool
}

// Attributes are the window attributes re-applied when leaving full screen.
type Attributes struct {
	Resizable bool
	Decorated bool
	Floating  bool
}

// Placement tells where a newly connected monitor goes in the monitor list.
type Placement int

const (
	PlaceLast Placement = iota
	PlaceFirst
)

// KeyState is the last known state of a key or mouse button, and the action
// delivered with key and button callbacks.
type KeyState int

const (
	Released KeyState = iota
	Pressed
	Repeat
)

func (s KeyState) String() string {
	switch s {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case Repeat:
		return "repeat"
	default:
		return fmt.Sprintf("key_state(%d)", int(s))
	}
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButton1 MouseButton = iota
	MouseButton2
	MouseButton3
	MouseButton4
	MouseButton5
	MouseButton6
	MouseButton7
	MouseButton8

	MouseButtonLeft   = MouseButton1
	MouseButtonRight  = MouseButton2
	MouseButtonMiddle = MouseButton3
	MouseButtonLast   = MouseButton8
)

// Valid reports whether b is one of the eight tracked buttons.
func (b MouseButton) Valid() bool {
	return b >= MouseButton1 && b <= MouseButtonLast
}

// CursorMode selects how the pointer behaves over a window.
type CursorMode int

const (
	CursorNormal CursorMode = iota
	CursorHidden
	CursorDisabled
	CursorCaptured
)

func (m CursorMode) String() string {
	switch m {
	case CursorNormal:
		return "normal"
	case CursorHidden:
		return "hidden"
	case CursorDisabled:
		return "disabled"
	case CursorCaptured:
		return "captured"
	default:
		return fmt.Sprintf("cursor_mode(%d)", int(m))
	}
}

// Valid reports whether m is a known cursor mode.
func (m CursorMode) Valid() bool {
	return m >= CursorNormal && m <= CursorCaptured
}

// ParseCursorMode is the inverse of CursorMode.String.
func ParseCursorMode(s string) (CursorMode, error) {
	for m := CursorNormal; m <= CursorCaptured; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return CursorNormal, fmt.Errorf("unknown cursor mode %q", s)
}

// CursorShape selects a standard system cursor.
type CursorShape int

const (
	CursorArrow CursorShape = iota
	CursorInput
	CursorCrosshair
	CursorPointingHand
	CursorResizeHorizontal
	CursorResizeVertical
	CursorResizeDiagonalTLBR
	CursorResizeDiagonalTRBL
	CursorResizeAll
	CursorNotAllowed
)

func (s CursorShape) String() string {
	switch s {
	case CursorArrow:
		return "arrow"
	case CursorInput:
		return "input"
	case CursorCrosshair:
		return "crosshair"
	case CursorPointingHand:
		return "pointing_hand"
	case CursorResizeHorizontal:
		return "resize_horizontal"
	case CursorResizeVertical:
		return "resize_vertical"
	case CursorResizeDiagonalTLBR:
		return "resize_diagonal_tlbr"
	case CursorResizeDiagonalTRBL:
		return "resize_diagonal_trbl"
	case CursorResizeAll:
		return "resize_all"
	case CursorNotAllowed:
		return "not_allowed"
	default:
		return fmt.Sprintf("cursor_shape(%d)", int(s))
	}
}

// Valid reports whether s is a known standard cursor.
func (s CursorShape) Valid() bool {
	return s >= CursorArrow && s <= CursorNotAllowed
}

// ParseCursorShape is the inverse of CursorShape.String.
func ParseCursorShape(s string) (CursorShape, error) {
	for shape := CursorArrow; shape <= CursorNotAllowed; shape++ {
		if shape.String() == s {
			return shape, nil
		}
	}
	return CursorArrow, fmt.Errorf("unknown cursor shape %q", s)
}
