package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	platform
//	log_level
//	hints
//	hints.<name>
//	x11.display
//	x11.clipboard_timeout_ms
//	wayland.<name>
//	vulkan.loader
//	headless.monitors
//	headless.monitors.<index>.<name>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// A replaced monitor list is attributed to the file that wrote it.
	if strings.HasPrefix(path, "headless.monitors.") {
		if src, ok := res.Sources["headless.monitors"]; ok {
			return value, src, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)
	leaf := func(want int) bool { return len(parts) == want }

	switch parts[0] {
	case "platform":
		if !leaf(1) {
			return nil, unknown
		}
		return cfg.Platform, nil
	case "log_level":
		if !leaf(1) {
			return nil, unknown
		}
		return cfg.LogLevel, nil
	case "hints":
		if leaf(1) {
			return cfg.Hints, nil
		}
		if !leaf(2) {
			return nil, unknown
		}
		return lookupHint(cfg.Hints, parts[1], unknown)
	case "x11":
		if leaf(1) {
			return cfg.X11, nil
		}
		if !leaf(2) {
			return nil, unknown
		}
		switch parts[1] {
		case "display":
			return cfg.X11.Display, nil
		case "clipboard_timeout_ms":
			return cfg.X11.ClipboardTimeoutMS, nil
		}
		return nil, unknown
	case "wayland":
		if leaf(1) {
			return cfg.Wayland, nil
		}
		if !leaf(2) {
			return nil, unknown
		}
		switch parts[1] {
		case "display":
			return cfg.Wayland.Display, nil
		case "app_id":
			return cfg.Wayland.AppID, nil
		case "cursor_theme":
			return cfg.Wayland.CursorTheme, nil
		case "cursor_size":
			return cfg.Wayland.CursorSize, nil
		case "clipboard_timeout_ms":
			return cfg.Wayland.ClipboardTimeoutMS, nil
		}
		return nil, unknown
	case "vulkan":
		if leaf(1) {
			return cfg.Vulkan, nil
		}
		if leaf(2) && parts[1] == "loader" {
			return cfg.Vulkan.Loader, nil
		}
		return nil, unknown
	case "headless":
		if leaf(1) {
			return cfg.Headless, nil
		}
		switch parts[1] {
		case "raw_mouse_motion":
			if leaf(2) {
				return cfg.Headless.RawMouseMotion, nil
			}
		case "vulkan_extension":
			if leaf(2) {
				return cfg.Headless.VulkanExtension, nil
			}
		case "monitors":
			if leaf(2) {
				return cfg.Headless.Monitors, nil
			}
			i, err := strconv.Atoi(parts[2])
			if err != nil || i < 0 || i >= len(cfg.Headless.Monitors) {
				return nil, fmt.Errorf("no monitor at index %s", parts[2])
			}
			if leaf(3) {
				return cfg.Headless.Monitors[i], nil
			}
			if leaf(4) {
				return lookupMonitorField(cfg.Headless.Monitors[i], parts[3], unknown)
			}
		}
		return nil, unknown
	default:
		return nil, unknown
	}
}

func lookupHint(h HintsConfig, name string, unknown error) (any, error) {
	switch name {
	case "resizable":
		return h.Resizable, nil
	case "visible":
		return h.Visible, nil
	case "decorated":
		return h.Decorated, nil
	case "focused":
		return h.Focused, nil
	case "floating":
		return h.Floating, nil
	case "maximized":
		return h.Maximized, nil
	case "focus_on_show":
		return h.FocusOnShow, nil
	case "mouse_passthrough":
		return h.MousePassthrough, nil
	case "red_bits":
		return h.RedBits, nil
	case "green_bits":
		return h.GreenBits, nil
	case "blue_bits":
		return h.BlueBits, nil
	case "refresh_rate":
		return h.RefreshRate, nil
	}
	return nil, unknown
}

func lookupMonitorField(m HeadlessMonitor, name string, unknown error) (any, error) {
	switch name {
	case "name":
		return m.Name, nil
	case "x":
		return m.X, nil
	case "y":
		return m.Y, nil
	case "width":
		return m.Width, nil
	case "height":
		return m.Height, nil
	case "width_mm":
		return m.WidthMM, nil
	case "height_mm":
		return m.HeightMM, nil
	case "scale":
		return m.Scale, nil
	case "refresh_rate":
		return m.RefreshRate, nil
	case "modes":
		return m.Modes, nil
	}
	return nil, unknown
}
