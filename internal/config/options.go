package config

import (
	"log/slog"
	"time"

	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/windowing"
)

// WindowingOptions translates the configuration into state options. The
// config must have passed Validate.
func (c *Config) WindowingOptions(logger *slog.Logger) windowing.Options {
	hints := c.WindowHints()
	return windowing.Options{
		Platform: c.Platform,
		BackendOptions: windowing.BackendOptions{
			X11Display:       c.X11.Display,
			ClipboardTimeout: c.clipboardTimeout(),
			WaylandDisplay:   c.Wayland.Display,
			AppID:            c.Wayland.AppID,
			CursorTheme:      c.Wayland.CursorTheme,
			CursorSize:       c.Wayland.CursorSize,
			Headless:         c.HeadlessOptions(),
		},
		Hints:        &hints,
		VulkanLoader: c.Vulkan.Loader,
		Logger:       logger,
	}
}

// clipboardTimeout picks the timeout of the backend that will be used. Zero
// leaves the backend default in place.
func (c *Config) clipboardTimeout() time.Duration {
	ms := c.X11.ClipboardTimeoutMS
	if c.Platform == "wayland" {
		ms = c.Wayland.ClipboardTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Config) WindowHints() windowing.Hints {
	h := c.Hints
	return windowing.Hints{
		Resizable:        h.Resizable,
		Visible:          h.Visible,
		Decorated:        h.Decorated,
		Focused:          h.Focused,
		Floating:         h.Floating,
		Maximized:        h.Maximized,
		FocusOnShow:      h.FocusOnShow,
		MousePassthrough: h.MousePassthrough,
		RedBits:          h.RedBits,
		GreenBits:        h.GreenBits,
		BlueBits:         h.BlueBits,
		RefreshRate:      h.RefreshRate,
	}
}

// HeadlessOptions builds the simulated monitor layout.
func (c *Config) HeadlessOptions() headless.Options {
	opts := headless.Options{
		RawMouseMotion:  c.Headless.RawMouseMotion,
		VulkanExtension: c.Headless.VulkanExtension,
	}
	for _, m := range c.Headless.Monitors {
		opts.Monitors = append(opts.Monitors, m.spec())
	}
	return opts
}

func (m HeadlessMonitor) spec() headless.MonitorSpec {
	rate := m.RefreshRate
	if rate == 0 {
		rate = 60
	}
	modes := []platform.VideoMode{rgb888(m.Width, m.Height, rate)}
	for _, text := range m.Modes {
		w, h, r, err := ParseMode(text)
		if err != nil {
			continue
		}
		if r == 0 {
			r = rate
		}
		modes = append(modes, rgb888(w, h, r))
	}
	return headless.MonitorSpec{
		Name:     m.Name,
		X:        m.X,
		Y:        m.Y,
		Width:    m.Width,
		Height:   m.Height,
		WidthMM:  m.WidthMM,
		HeightMM: m.HeightMM,
		Scale:    m.Scale,
		Modes:    modes,
	}
}

func rgb888(width, height, rate int) platform.VideoMode {
	return platform.VideoMode{Width: width, Height: height, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: rate}
}
