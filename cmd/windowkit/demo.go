package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
	"github.com/1broseidon/windowkit/internal/windowing"
)

type demoOptions struct {
	width      int
	height     int
	title      string
	monitor    int
	borderless bool
	cursorMode string
	cursor     string
	rawMotion  bool
	motion     bool
	timeout    time.Duration
}

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var common commonFlags
	common.register(fs)
	var opts demoOptions
	fs.IntVar(&opts.width, "width", 640, "Window width in screen coordinates")
	fs.IntVar(&opts.height, "height", 480, "Window height in screen coordinates")
	fs.StringVar(&opts.title, "title", "windowkit demo", "Window title")
	fs.IntVar(&opts.monitor, "fullscreen", -1, "Monitor index to go full screen on (-1: windowed)")
	fs.BoolVar(&opts.borderless, "borderless", false, "Use borderless full screen instead of a mode switch")
	fs.StringVar(&opts.cursorMode, "cursor-mode", "normal", "Cursor mode (normal, hidden, disabled, captured)")
	fs.StringVar(&opts.cursor, "cursor", "", "Standard cursor shape")
	fs.BoolVar(&opts.rawMotion, "raw", false, "Enable raw mouse motion when supported")
	fs.BoolVar(&opts.motion, "motion", false, "Also log cursor motion")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Close the window after this long (0: wait for close)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowkit demo [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window and log every event it receives. Escape or the window")
		fmt.Fprintln(os.Stderr, "manager's close button ends the demo.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	mode, err := platform.ParseCursorMode(opts.cursorMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	var shape platform.CursorShape
	if opts.cursor != "" {
		if shape, err = platform.ParseCursorShape(opts.cursor); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	state, logger, err := common.openState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer state.Shutdown()

	state.SetMonitorCallback(func(m *windowing.Monitor, connected bool) {
		logger.Info("monitor", "name", m.Name(), "connected", connected)
	})

	w, err := openDemoWindow(state, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer state.DestroyWindow(w)

	logDemoEvents(w, logger, opts.motion)

	if err := w.SetCursorMode(mode); err != nil {
		logger.Warn("cursor mode not applied", "mode", mode.String(), "error", err)
	}
	if opts.cursor != "" {
		cursor, err := state.CreateStandardCursor(shape)
		if err != nil {
			logger.Warn("cursor shape unavailable", "shape", opts.cursor, "error", err)
		} else {
			defer state.DestroyCursor(cursor)
			w.SetCursor(cursor)
		}
	}
	if opts.rawMotion {
		if !state.RawMouseMotionSupported() {
			logger.Warn("raw mouse motion not supported on this platform")
		} else if err := w.SetRawMouseMotion(true); err != nil {
			logger.Warn("raw mouse motion not enabled", "error", err)
		}
	}

	fbw, fbh := w.FramebufferSize()
	xs, ys := w.ContentScale()
	logger.Info("window open",
		"platform", state.Platform(),
		"framebuffer", fmt.Sprintf("%dx%d", fbw, fbh),
		"scale", fmt.Sprintf("%gx%g", xs, ys),
	)

	if err := demoLoop(state, w, opts.timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Info("window closed")
	return 0
}

func openDemoWindow(state *windowing.State, opts demoOptions) (*windowing.Window, error) {
	if opts.monitor < 0 {
		return state.CreateWindow(opts.width, opts.height, opts.title, nil)
	}
	monitors := state.Monitors()
	if opts.monitor >= len(monitors) {
		return nil, fmt.Errorf("no monitor at index %d (%d connected)", opts.monitor, len(monitors))
	}
	m := monitors[opts.monitor]
	if !opts.borderless {
		return state.CreateWindow(opts.width, opts.height, opts.title, m)
	}
	w, err := state.CreateWindow(opts.width, opts.height, opts.title, nil)
	if err != nil {
		return nil, err
	}
	if err := w.SetMonitorBorderless(m); err != nil {
		state.DestroyWindow(w)
		return nil, err
	}
	return w, nil
}

// demoLoop waits for events until the window should close or the timeout
// passes.
func demoLoop(state *windowing.State, w *windowing.Window, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for !w.ShouldClose() {
		var err error
		if deadline.IsZero() {
			err = state.WaitEvents()
		} else {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil
			}
			err = state.WaitEventsTimeout(remaining)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func logDemoEvents(w *windowing.Window, logger *slog.Logger, motion bool) {
	w.SetCloseCallback(func(*windowing.Window) {
		logger.Info("close requested")
	})
	w.SetPosCallback(func(_ *windowing.Window, x, y int) {
		logger.Info("pos", "x", x, "y", y)
	})
	w.SetSizeCallback(func(_ *windowing.Window, width, height int) {
		logger.Info("size", "width", width, "height", height)
	})
	w.SetFramebufferSizeCallback(func(_ *windowing.Window, width, height int) {
		logger.Info("framebuffer size", "width", width, "height", height)
	})
	w.SetContentScaleCallback(func(_ *windowing.Window, xs, ys float32) {
		logger.Info("content scale", "x", xs, "y", ys)
	})
	w.SetFocusCallback(func(_ *windowing.Window, focused bool) {
		logger.Info("focus", "focused", focused)
	})
	w.SetMinimizeCallback(func(_ *windowing.Window, minimized bool) {
		logger.Info("minimize", "minimized", minimized)
	})
	w.SetMaximizeCallback(func(_ *windowing.Window, maximized bool) {
		logger.Info("maximize", "maximized", maximized)
	})
	w.SetKeyCallback(func(win *windowing.Window, key windowing.Key, state windowing.KeyState) {
		logger.Info("key", "key", key.String(), "state", state.String())
		if key == platform.KeyEscape && state == platform.Pressed {
			win.SetShouldClose(true)
		}
	})
	w.SetCharCallback(func(_ *windowing.Window, r rune) {
		logger.Info("char", "codepoint", fmt.Sprintf("U+%04X", r), "text", string(r))
	})
	w.SetMouseButtonCallback(func(_ *windowing.Window, button windowing.MouseButton, state windowing.KeyState) {
		logger.Info("mouse button", "button", int(button), "state", state.String())
	})
	w.SetCursorEnterCallback(func(_ *windowing.Window, entered bool) {
		logger.Info("cursor enter", "entered", entered)
	})
	w.SetScrollCallback(func(_ *windowing.Window, x, y float64) {
		logger.Info("scroll", "x", x, "y", y)
	})
	w.SetDropCallback(func(_ *windowing.Window, paths []string) {
		logger.Info("drop", "paths", paths)
	})
	if motion {
		w.SetCursorPosCallback(func(_ *windowing.Window, x, y float64) {
			logger.Info("cursor", "x", x, "y", y)
		})
	}
}
