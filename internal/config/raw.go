package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawHints struct {
	Resizable        *bool `yaml:"resizable"`
	Visible          *bool `yaml:"visible"`
	Decorated        *bool `yaml:"decorated"`
	Focused          *bool `yaml:"focused"`
	Floating         *bool `yaml:"floating"`
	Maximized        *bool `yaml:"maximized"`
	FocusOnShow      *bool `yaml:"focus_on_show"`
	MousePassthrough *bool `yaml:"mouse_passthrough"`
	RedBits          *int  `yaml:"red_bits"`
	GreenBits        *int  `yaml:"green_bits"`
	BlueBits         *int  `yaml:"blue_bits"`
	RefreshRate      *int  `yaml:"refresh_rate"`
}

type RawX11 struct {
	Display            *string `yaml:"display"`
	ClipboardTimeoutMS *int    `yaml:"clipboard_timeout_ms"`
}

type RawWayland struct {
	Display            *string `yaml:"display"`
	AppID              *string `yaml:"app_id"`
	CursorTheme        *string `yaml:"cursor_theme"`
	CursorSize         *int    `yaml:"cursor_size"`
	ClipboardTimeoutMS *int    `yaml:"clipboard_timeout_ms"`
}

type RawVulkan struct {
	Loader *string `yaml:"loader"`
}

type RawHeadless struct {
	RawMouseMotion  *bool   `yaml:"raw_mouse_motion"`
	VulkanExtension *string `yaml:"vulkan_extension"`
	// Monitors replaces the whole list when present; entries are not merged
	// by position.
	Monitors []HeadlessMonitor `yaml:"monitors"`
}

type RawConfig struct {
	Include  IncludeList  `yaml:"include"`
	Platform *string      `yaml:"platform"`
	LogLevel *string      `yaml:"log_level"`
	Hints    *RawHints    `yaml:"hints"`
	X11      *RawX11      `yaml:"x11"`
	Wayland  *RawWayland  `yaml:"wayland"`
	Vulkan   *RawVulkan   `yaml:"vulkan"`
	Headless *RawHeadless `yaml:"headless"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Platform != nil {
		out.Platform = overlay.Platform
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Hints != nil {
		base := RawHints{}
		if out.Hints != nil {
			base = *out.Hints
		}
		merged := mergeRawHints(base, *overlay.Hints)
		out.Hints = &merged
	}
	if overlay.X11 != nil {
		base := RawX11{}
		if out.X11 != nil {
			base = *out.X11
		}
		if overlay.X11.Display != nil {
			base.Display = overlay.X11.Display
		}
		if overlay.X11.ClipboardTimeoutMS != nil {
			base.ClipboardTimeoutMS = overlay.X11.ClipboardTimeoutMS
		}
		out.X11 = &base
	}
	if overlay.Wayland != nil {
		base := RawWayland{}
		if out.Wayland != nil {
			base = *out.Wayland
		}
		if overlay.Wayland.Display != nil {
			base.Display = overlay.Wayland.Display
		}
		if overlay.Wayland.AppID != nil {
			base.AppID = overlay.Wayland.AppID
		}
		if overlay.Wayland.CursorTheme != nil {
			base.CursorTheme = overlay.Wayland.CursorTheme
		}
		if overlay.Wayland.CursorSize != nil {
			base.CursorSize = overlay.Wayland.CursorSize
		}
		if overlay.Wayland.ClipboardTimeoutMS != nil {
			base.ClipboardTimeoutMS = overlay.Wayland.ClipboardTimeoutMS
		}
		out.Wayland = &base
	}
	if overlay.Vulkan != nil && overlay.Vulkan.Loader != nil {
		out.Vulkan = &RawVulkan{Loader: overlay.Vulkan.Loader}
	}
	if overlay.Headless != nil {
		base := RawHeadless{}
		if out.Headless != nil {
			base = *out.Headless
		}
		if overlay.Headless.RawMouseMotion != nil {
			base.RawMouseMotion = overlay.Headless.RawMouseMotion
		}
		if overlay.Headless.VulkanExtension != nil {
			base.VulkanExtension = overlay.Headless.VulkanExtension
		}
		if overlay.Headless.Monitors != nil {
			base.Monitors = make([]HeadlessMonitor, len(overlay.Headless.Monitors))
			copy(base.Monitors, overlay.Headless.Monitors)
		}
		out.Headless = &base
	}

	return out
}

func mergeRawHints(base RawHints, overlay RawHints) RawHints {
	out := base
	mergeBool := func(dst **bool, src *bool) {
		if src != nil {
			*dst = src
		}
	}
	mergeInt := func(dst **int, src *int) {
		if src != nil {
			*dst = src
		}
	}
	mergeBool(&out.Resizable, overlay.Resizable)
	mergeBool(&out.Visible, overlay.Visible)
	mergeBool(&out.Decorated, overlay.Decorated)
	mergeBool(&out.Focused, overlay.Focused)
	mergeBool(&out.Floating, overlay.Floating)
	mergeBool(&out.Maximized, overlay.Maximized)
	mergeBool(&out.FocusOnShow, overlay.FocusOnShow)
	mergeBool(&out.MousePassthrough, overlay.MousePassthrough)
	mergeInt(&out.RedBits, overlay.RedBits)
	mergeInt(&out.GreenBits, overlay.GreenBits)
	mergeInt(&out.BlueBits, overlay.BlueBits)
	mergeInt(&out.RefreshRate, overlay.RefreshRate)
	return out
}
