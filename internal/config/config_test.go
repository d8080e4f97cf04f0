package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/windowkit/internal/windowing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.WindowHints() != windowing.DefaultHints() {
		t.Fatalf("default hints drifted from the windowing defaults: %+v", cfg.WindowHints())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Platform != "auto" || len(res.Files) != 0 {
		t.Fatalf("expected defaults and no files, got %q %v", res.Config.Platform, res.Files)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
	if len(res.Config.Headless.Monitors) != 1 {
		t.Fatalf("expected the default headless monitor, got %d", len(res.Config.Headless.Monitors))
	}
}

func TestLoad_PartialHintsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"platform: headless",
		"hints:",
		"  decorated: false",
		"  refresh_rate: 144",
		"",
	}, "\n")
	writeFile(t, path, data)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	h := res.Config.Hints
	if h.Decorated || h.RefreshRate != 144 {
		t.Fatalf("overrides not applied: %+v", h)
	}
	if !h.Resizable || !h.Visible || h.RedBits != 8 {
		t.Fatalf("defaults lost: %+v", h)
	}

	val, src, err := Explain(res, "hints.decorated")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != false || src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("expected false from line 3, got %#v %#v", val, src)
	}
	_, src, err = Explain(res, "hints.resizable")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
}

func TestLoad_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "hints:\n  transparent: true\n")

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "transparent") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoad_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "log_level: debug\nx11:\n  clipboard_timeout_ms: 500\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "log_level: warning\n")
	writeFile(t, filepath.Join(configD, "notes.txt"), "log_level: nonsense\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"log_level: error",
		"x11:",
		"  display: \":1\"",
		"",
	}, "\n")
	writeFile(t, path, main)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "error" {
		t.Fatalf("expected log_level error, got %q", res.Config.LogLevel)
	}
	if res.Config.X11.Display != ":1" || res.Config.X11.ClipboardTimeoutMS != 500 {
		t.Fatalf("expected x11 sections merged, got %+v", res.Config.X11)
	}
	if len(res.Files) != 3 || !strings.HasSuffix(res.Files[0], "10-base.yaml") || !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("unexpected load order %v", res.Files)
	}

	_, src, err := Explain(res, "x11.clipboard_timeout_ms")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "10-base.yaml") {
		t.Fatalf("expected the include as source, got %#v", src)
	}
}

func TestLoad_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoad_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := Load(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoad_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"headless:",
		"  monitors:",
		"    - name: Left",
		"      width: 1280",
		"      height: 1024",
		"    - name: Left",
		"      width: 1920",
		"      height: 1080",
		"",
	}, "\n")
	writeFile(t, path, data)

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if verr.Path != "headless.monitors.1.name" {
		t.Fatalf("expected path headless.monitors.1.name, got %q", verr.Path)
	}
	if verr.Source.Line != 6 {
		t.Fatalf("expected line 6, got %#v", verr.Source)
	}
	if !strings.Contains(err.Error(), path+":6:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{name: "platform", mutate: func(c *Config) { c.Platform = "cocoa" }, path: "platform"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, path: "log_level"},
		{name: "negative bits", mutate: func(c *Config) { c.Hints.GreenBits = -4 }, path: "hints.green_bits"},
		{name: "zero refresh", mutate: func(c *Config) { c.Hints.RefreshRate = 0 }, path: "hints.refresh_rate"},
		{name: "clipboard timeout", mutate: func(c *Config) { c.X11.ClipboardTimeoutMS = -1 }, path: "x11.clipboard_timeout_ms"},
		{name: "cursor size", mutate: func(c *Config) { c.Wayland.CursorSize = -1 }, path: "wayland.cursor_size"},
		{name: "app id", mutate: func(c *Config) { c.Wayland.AppID = "my app" }, path: "wayland.app_id"},
		{name: "monitor size", mutate: func(c *Config) { c.Headless.Monitors[0].Width = 0 }, path: "headless.monitors.0"},
		{name: "monitor mode", mutate: func(c *Config) { c.Headless.Monitors[0].Modes = []string{"big"} }, path: "headless.monitors.0.modes.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("expected a validation error at %q, got %v", tt.path, err)
			}
		})
	}
}

func TestLoad_EmptyMonitorListRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "headless:\n  monitors: []\n")

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "headless.monitors" {
		t.Fatalf("expected a headless.monitors error, got %v", err)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %#v", verr.Source)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in                  string
		width, height, rate int
		ok                  bool
	}{
		{in: "1280x720@60", width: 1280, height: 720, rate: 60, ok: true},
		{in: " 800x600 ", width: 800, height: 600, ok: true},
		{in: "1280x720@0"},
		{in: "1280*720"},
		{in: "0x720"},
		{in: "x"},
	}
	for _, tt := range tests {
		w, h, r, err := ParseMode(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseMode(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && (w != tt.width || h != tt.height || r != tt.rate) {
			t.Errorf("ParseMode(%q) = %d,%d,%d", tt.in, w, h, r)
		}
	}
}

func TestWindowingOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"platform: headless",
		"hints:",
		"  floating: true",
		"x11:",
		"  clipboard_timeout_ms: 250",
		"vulkan:",
		"  loader: /opt/vulkan/libvulkan.so.1",
		"headless:",
		"  raw_mouse_motion: true",
		"  monitors:",
		"    - name: Wide",
		"      width: 3440",
		"      height: 1440",
		"      refresh_rate: 100",
		"      modes: [\"2560x1080\", \"1920x1080@60\"]",
		"",
	}, "\n")
	writeFile(t, path, data)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts := res.Config.WindowingOptions(nil)
	if opts.Platform != "headless" || opts.VulkanLoader != "/opt/vulkan/libvulkan.so.1" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Hints == nil || !opts.Hints.Floating || !opts.Hints.Decorated {
		t.Fatalf("hints not carried over: %+v", opts.Hints)
	}
	if opts.BackendOptions.ClipboardTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms clipboard timeout, got %v", opts.BackendOptions.ClipboardTimeout)
	}

	hl := opts.BackendOptions.Headless
	if !hl.RawMouseMotion || len(hl.Monitors) != 1 {
		t.Fatalf("unexpected headless options %+v", hl)
	}
	modes := hl.Monitors[0].Modes
	if len(modes) != 3 {
		t.Fatalf("expected 3 modes, got %v", modes)
	}
	if modes[0].Width != 3440 || modes[0].RefreshRate != 100 {
		t.Fatalf("expected the native mode first, got %s", modes[0])
	}
	if modes[1].Width != 2560 || modes[1].RefreshRate != 100 {
		t.Fatalf("expected a mode without a rate to inherit 100, got %s", modes[1])
	}
}

func TestWindowingOptionsStartHeadlessState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Platform = "headless"
	cfg.Hints.Visible = false

	s := windowing.New(cfg.WindowingOptions(nil))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer s.Shutdown()

	if s.Platform() != "headless" {
		t.Fatalf("expected the headless backend, got %q", s.Platform())
	}
	if s.Hints().Visible {
		t.Fatalf("configured hints not applied")
	}
	modes, err := s.PrimaryMonitor().VideoModes()
	if err != nil || len(modes) != 3 {
		t.Fatalf("expected the 3 configured modes, got %v (%v)", modes, err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Platform = "headless"
	cfg.Wayland.CursorTheme = "Adwaita"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := Load(path)
	if err != nil {
		t.Fatalf("load saved file: %v", err)
	}
	if res.Config.Platform != "headless" || res.Config.Wayland.CursorTheme != "Adwaita" {
		t.Fatalf("saved values lost: %+v", res.Config)
	}

	cfg.LogLevel = "loud"
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/wk.yaml")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if path != "/tmp/wk.yaml" {
		t.Fatalf("expected override, got %q", path)
	}
}

func TestLoad_MissingKeyBlamesEnclosingItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "headless:\n  monitors:\n    - width: 1280\n      height: 1024\n")

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "headless.monitors.0.name" {
		t.Fatalf("expected a headless.monitors.0.name error, got %v", err)
	}
	if verr.Source.File != path || verr.Source.Line != 3 {
		t.Fatalf("expected the monitor item at line 3, got %#v", verr.Source)
	}
}

func TestLoad_ScalarIncludeErrorHasPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "platform: headless\ninclude: extra.yaml\n")

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected an error for the missing include")
	}
	if !strings.Contains(err.Error(), path+":2:") || !strings.Contains(err.Error(), "extra.yaml") {
		t.Fatalf("expected the include position in the error, got %v", err)
	}
}

func TestLoad_EmptyPathUsesEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: debug\n")
	t.Setenv(EnvConfigPath, path)

	res, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Config.LogLevel != "debug" {
		t.Fatalf("expected the override file to load, got log_level %q", res.Config.LogLevel)
	}
	if len(res.Files) != 1 || res.Files[0] != canonicalPath(path) {
		t.Fatalf("expected files [%s], got %v", path, res.Files)
	}
	if src := res.Sources["log_level"]; src.Line != 1 {
		t.Fatalf("expected log_level at line 1, got %#v", src)
	}
}
