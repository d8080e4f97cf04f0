package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies the merged raw overlay on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Platform != nil {
		cfg.Platform = *raw.Platform
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	if h := raw.Hints; h != nil {
		cfg.Hints.Resizable = derefBool(h.Resizable, cfg.Hints.Resizable)
		cfg.Hints.Visible = derefBool(h.Visible, cfg.Hints.Visible)
		cfg.Hints.Decorated = derefBool(h.Decorated, cfg.Hints.Decorated)
		cfg.Hints.Focused = derefBool(h.Focused, cfg.Hints.Focused)
		cfg.Hints.Floating = derefBool(h.Floating, cfg.Hints.Floating)
		cfg.Hints.Maximized = derefBool(h.Maximized, cfg.Hints.Maximized)
		cfg.Hints.FocusOnShow = derefBool(h.FocusOnShow, cfg.Hints.FocusOnShow)
		cfg.Hints.MousePassthrough = derefBool(h.MousePassthrough, cfg.Hints.MousePassthrough)
		cfg.Hints.RedBits = derefInt(h.RedBits, cfg.Hints.RedBits)
		cfg.Hints.GreenBits = derefInt(h.GreenBits, cfg.Hints.GreenBits)
		cfg.Hints.BlueBits = derefInt(h.BlueBits, cfg.Hints.BlueBits)
		cfg.Hints.RefreshRate = derefInt(h.RefreshRate, cfg.Hints.RefreshRate)
	}

	if x := raw.X11; x != nil {
		cfg.X11.Display = derefString(x.Display, cfg.X11.Display)
		cfg.X11.ClipboardTimeoutMS = derefInt(x.ClipboardTimeoutMS, cfg.X11.ClipboardTimeoutMS)
	}

	if w := raw.Wayland; w != nil {
		cfg.Wayland.Display = derefString(w.Display, cfg.Wayland.Display)
		cfg.Wayland.AppID = derefString(w.AppID, cfg.Wayland.AppID)
		cfg.Wayland.CursorTheme = derefString(w.CursorTheme, cfg.Wayland.CursorTheme)
		cfg.Wayland.CursorSize = derefInt(w.CursorSize, cfg.Wayland.CursorSize)
		cfg.Wayland.ClipboardTimeoutMS = derefInt(w.ClipboardTimeoutMS, cfg.Wayland.ClipboardTimeoutMS)
	}

	if raw.Vulkan != nil {
		cfg.Vulkan.Loader = derefString(raw.Vulkan.Loader, cfg.Vulkan.Loader)
	}

	if hl := raw.Headless; hl != nil {
		cfg.Headless.RawMouseMotion = derefBool(hl.RawMouseMotion, cfg.Headless.RawMouseMotion)
		cfg.Headless.VulkanExtension = derefString(hl.VulkanExtension, cfg.Headless.VulkanExtension)
		if hl.Monitors != nil {
			if len(hl.Monitors) == 0 {
				return nil, &ValidationError{Path: "headless.monitors", Err: fmt.Errorf("monitors must not be empty")}
			}
			cfg.Headless.Monitors = append([]HeadlessMonitor(nil), hl.Monitors...)
		}
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
