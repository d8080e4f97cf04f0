package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/windowkit/internal/config"
	"github.com/1broseidon/windowkit/internal/headless"
	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/windowing"
)

func newHeadlessState(t *testing.T) (*windowing.State, *headless.Backend) {
	t.Helper()
	backend := headless.New(headless.Options{})
	state := windowing.New(windowing.Options{Backend: backend})
	if err := state.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(state.Shutdown)
	return state, backend
}

func TestWritePlainTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"A", "LONG HEADER"}, [][]string{{"first", "1"}, {"x", "2"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if lines[0] != "A      LONG HEADER" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if lines[2] != "x      2" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestWriteFieldsPlain(t *testing.T) {
	var buf bytes.Buffer
	writeFields(&buf, [][2]string{{"Platform", "headless"}, {"Loader", "-"}})
	if got := buf.String(); got != "Platform: headless\nLoader: -\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintMonitorsAndModes(t *testing.T) {
	state, _ := newHeadlessState(t)

	var buf bytes.Buffer
	printMonitors(&buf, state.Monitors())
	out := buf.String()
	if !strings.Contains(out, "Headless-1 *") || !strings.Contains(out, "527x296mm") {
		t.Fatalf("unexpected monitors output:\n%s", out)
	}

	buf.Reset()
	if err := printModes(&buf, state.PrimaryMonitor()); err != nil {
		t.Fatalf("printModes failed: %v", err)
	}
	out = buf.String()
	if !strings.HasPrefix(out, "Headless-1: 3 modes\n") {
		t.Fatalf("unexpected modes output:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "*") || !strings.Contains(last, "1920x1080") {
		t.Fatalf("expected the current mode last and marked, got %q", last)
	}
}

func TestPrintMonitorsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printMonitors(&buf, nil)
	if buf.String() != "no monitors connected\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestDemoLoopEscapeCloses(t *testing.T) {
	state, backend := newHeadlessState(t)
	w, err := openDemoWindow(state, demoOptions{width: 320, height: 240, title: "demo", monitor: -1})
	if err != nil {
		t.Fatalf("openDemoWindow failed: %v", err)
	}
	logDemoEvents(w, slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	backend.Windows()[0].Key(platform.KeyEscape, 9, platform.Pressed)

	start := time.Now()
	if err := demoLoop(state, w, 5*time.Second); err != nil {
		t.Fatalf("demoLoop failed: %v", err)
	}
	if !w.ShouldClose() {
		t.Fatalf("expected escape to request close")
	}
	if time.Since(start) > 4*time.Second {
		t.Fatalf("demoLoop waited for the timeout instead of the close request")
	}
}

func TestDemoLoopTimeout(t *testing.T) {
	state, _ := newHeadlessState(t)
	w, err := openDemoWindow(state, demoOptions{width: 320, height: 240, title: "demo", monitor: -1})
	if err != nil {
		t.Fatalf("openDemoWindow failed: %v", err)
	}
	if err := demoLoop(state, w, 20*time.Millisecond); err != nil {
		t.Fatalf("demoLoop failed: %v", err)
	}
	if w.ShouldClose() {
		t.Fatalf("timeout must not set the close flag")
	}
}

func TestOpenDemoWindowFullscreen(t *testing.T) {
	state, _ := newHeadlessState(t)

	if _, err := openDemoWindow(state, demoOptions{width: 320, height: 240, monitor: 4}); err == nil {
		t.Fatalf("expected an error for a missing monitor")
	}

	w, err := openDemoWindow(state, demoOptions{width: 320, height: 240, monitor: 0, borderless: true})
	if err != nil {
		t.Fatalf("openDemoWindow failed: %v", err)
	}
	if w.Monitor() != state.PrimaryMonitor() || !w.Borderless() {
		t.Fatalf("expected a borderless window on the primary monitor")
	}
	if width, height := w.Size(); width != 1920 || height != 1080 {
		t.Fatalf("expected the monitor size, got %dx%d", width, height)
	}
}
