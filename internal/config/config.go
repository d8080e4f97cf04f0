package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DontCare mirrors the windowing sentinel for unconstrained mode fields.
const DontCare = -1

// Platforms accepted by the platform key. Whether a name is usable depends on
// the operating system and is checked when the windowing state starts.
var Platforms = []string{"auto", "x11", "wayland", "win32", "headless"}

// HintsConfig holds the window creation defaults.
type HintsConfig struct {
	Resizable        bool `yaml:"resizable"`
	Visible          bool `yaml:"visible"`
	Decorated        bool `yaml:"decorated"`
	Focused          bool `yaml:"focused"`
	Floating         bool `yaml:"floating"`
	Maximized        bool `yaml:"maximized"`
	FocusOnShow      bool `yaml:"focus_on_show"`
	MousePassthrough bool `yaml:"mouse_passthrough"`
	RedBits          int  `yaml:"red_bits"`
	GreenBits        int  `yaml:"green_bits"`
	BlueBits         int  `yaml:"blue_bits"`
	RefreshRate      int  `yaml:"refresh_rate"`
}

type X11Config struct {
	Display            string `yaml:"display,omitempty"`
	ClipboardTimeoutMS int    `yaml:"clipboard_timeout_ms"`
}

type WaylandConfig struct {
	Display            string `yaml:"display,omitempty"`
	AppID              string `yaml:"app_id"`
	CursorTheme        string `yaml:"cursor_theme,omitempty"`
	CursorSize         int    `yaml:"cursor_size"`
	ClipboardTimeoutMS int    `yaml:"clipboard_timeout_ms"`
}

type VulkanConfig struct {
	Loader string `yaml:"loader,omitempty"`
}

// HeadlessMonitor describes one simulated monitor. Modes are written as
// "WIDTHxHEIGHT@RATE"; the monitor's own size is always offered.
type HeadlessMonitor struct {
	Name        string   `yaml:"name"`
	X           int      `yaml:"x,omitempty"`
	Y           int      `yaml:"y,omitempty"`
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	WidthMM     int      `yaml:"width_mm,omitempty"`
	HeightMM    int      `yaml:"height_mm,omitempty"`
	Scale       float32  `yaml:"scale,omitempty"`
	RefreshRate int      `yaml:"refresh_rate,omitempty"`
	Modes       []string `yaml:"modes,omitempty"`
}

type HeadlessConfig struct {
	RawMouseMotion  bool              `yaml:"raw_mouse_motion"`
	VulkanExtension string            `yaml:"vulkan_extension,omitempty"`
	Monitors        []HeadlessMonitor `yaml:"monitors"`
}

// Config holds the application configuration.
type Config struct {
	Platform string         `yaml:"platform"`
	LogLevel string         `yaml:"log_level"`
	Hints    HintsConfig    `yaml:"hints"`
	X11      X11Config      `yaml:"x11"`
	Wayland  WaylandConfig  `yaml:"wayland"`
	Vulkan   VulkanConfig   `yaml:"vulkan,omitempty"`
	Headless HeadlessConfig `yaml:"headless"`
}

func DefaultConfig() *Config {
	return &Config{
		Platform: "auto",
		LogLevel: "info",
		Hints: HintsConfig{
			Resizable:   true,
			Visible:     true,
			Decorated:   true,
			Focused:     true,
			FocusOnShow: true,
			RedBits:     8,
			GreenBits:   8,
			BlueBits:    8,
			RefreshRate: DontCare,
		},
		X11: X11Config{
			ClipboardTimeoutMS: 3000,
		},
		Wayland: WaylandConfig{
			AppID:              "windowkit",
			CursorSize:         24,
			ClipboardTimeoutMS: 3000,
		},
		Headless: HeadlessConfig{
			Monitors: []HeadlessMonitor{
				{
					Name:        "Headless-1",
					Width:       1920,
					Height:      1080,
					WidthMM:     527,
					HeightMM:    296,
					RefreshRate: 60,
					Modes:       []string{"1280x720@60", "800x600@60"},
				},
			},
		},
	}
}

// Validate checks every field and reports the first problem with its YAML
// path.
func (c *Config) Validate() error {
	if !isPlatform(c.Platform) {
		return &ValidationError{Path: "platform", Err: fmt.Errorf("platform must be one of: %s", strings.Join(Platforms, ", "))}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}

	bits := []struct {
		path  string
		value int
	}{
		{"hints.red_bits", c.Hints.RedBits},
		{"hints.green_bits", c.Hints.GreenBits},
		{"hints.blue_bits", c.Hints.BlueBits},
	}
	for _, b := range bits {
		if b.value != DontCare && (b.value < 0 || b.value > 16) {
			return &ValidationError{Path: b.path, Err: fmt.Errorf("must be between 0 and 16, or -1 for any")}
		}
	}
	if c.Hints.RefreshRate != DontCare && c.Hints.RefreshRate <= 0 {
		return &ValidationError{Path: "hints.refresh_rate", Err: fmt.Errorf("refresh_rate must be > 0, or -1 for any")}
	}

	if c.X11.ClipboardTimeoutMS < 0 {
		return &ValidationError{Path: "x11.clipboard_timeout_ms", Err: fmt.Errorf("clipboard_timeout_ms must be >= 0")}
	}
	if c.Wayland.ClipboardTimeoutMS < 0 {
		return &ValidationError{Path: "wayland.clipboard_timeout_ms", Err: fmt.Errorf("clipboard_timeout_ms must be >= 0")}
	}
	if c.Wayland.CursorSize < 0 {
		return &ValidationError{Path: "wayland.cursor_size", Err: fmt.Errorf("cursor_size must be >= 0")}
	}
	if strings.ContainsAny(c.Wayland.AppID, " \t\n") {
		return &ValidationError{Path: "wayland.app_id", Err: fmt.Errorf("app_id must not contain whitespace")}
	}

	names := make(map[string]struct{}, len(c.Headless.Monitors))
	for i, m := range c.Headless.Monitors {
		path := fmt.Sprintf("headless.monitors.%d", i)
		if strings.TrimSpace(m.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("monitor name is required")}
		}
		if _, dup := names[m.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate monitor name %q", m.Name)}
		}
		names[m.Name] = struct{}{}
		if m.Width <= 0 || m.Height <= 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be > 0")}
		}
		if m.WidthMM < 0 || m.HeightMM < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("width_mm and height_mm must be >= 0")}
		}
		if m.Scale < 0 {
			return &ValidationError{Path: path + ".scale", Err: fmt.Errorf("scale must be >= 0")}
		}
		if m.RefreshRate < 0 {
			return &ValidationError{Path: path + ".refresh_rate", Err: fmt.Errorf("refresh_rate must be >= 0")}
		}
		for j, mode := range m.Modes {
			if _, _, _, err := ParseMode(mode); err != nil {
				return &ValidationError{Path: fmt.Sprintf("%s.modes.%d", path, j), Err: err}
			}
		}
	}
	return nil
}

func isPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}

// ParseLogLevel maps a log_level value to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warning, error")
	}
}

// ParseMode parses "WIDTHxHEIGHT" or "WIDTHxHEIGHT@RATE". A missing rate is
// returned as 0.
func ParseMode(s string) (width, height, rate int, err error) {
	size, rateText, hasRate := strings.Cut(strings.TrimSpace(s), "@")
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return 0, 0, 0, fmt.Errorf("mode %q must look like 1280x720@60", s)
	}
	if width, err = strconv.Atoi(w); err != nil || width <= 0 {
		return 0, 0, 0, fmt.Errorf("mode %q has an invalid width", s)
	}
	if height, err = strconv.Atoi(h); err != nil || height <= 0 {
		return 0, 0, 0, fmt.Errorf("mode %q has an invalid height", s)
	}
	if hasRate {
		if rate, err = strconv.Atoi(rateText); err != nil || rate <= 0 {
			return 0, 0, 0, fmt.Errorf("mode %q has an invalid refresh rate", s)
		}
	}
	return width, height, rate, nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
