// Package windowing is the platform independent half of the windowing layer:
// process state, window and monitor records, cursor modes, input
// normalization and the Vulkan surface bridge. Every operation must be called
// from the goroutine that called Init, except PostEmptyEvent.
package windowing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/windowkit/internal/platform"
)

// Re-exported platform vocabulary.
type (
	Error       = platform.Error
	ErrorCode   = platform.ErrorCode
	Key         = platform.Key
	KeyState    = platform.KeyState
	MouseButton = platform.MouseButton
	CursorMode  = platform.CursorMode
	CursorShape = platform.CursorShape
	VideoMode   = platform.VideoMode
	Rect        = platform.Rect
)

// DontCare marks an unconstrained limit or video mode field.
const DontCare = platform.DontCare

// Options configures a State before Init.
type Options struct {
	// Platform selects the backend: "auto", "x11", "wayland", "win32" or
	// "headless". Ignored when Backend is set.
	Platform string
	// Backend is used instead of selecting one by name.
	Backend platform.Backend
	// BackendOptions are handed to the selected backend.
	BackendOptions BackendOptions
	// Hints replaces the built-in default window hints.
	Hints *Hints
	// VulkanLoader overrides the Vulkan loader library path.
	VulkanLoader string
	Logger       *slog.Logger
}

// State is the process-wide windowing context. The zero value is not usable;
// build one with New.
type State struct {
	opts   Options
	logger *slog.Logger

	initialized bool
	backend     platform.Backend

	hints Hints

	windows  []*Window
	cursors  []*Cursor
	monitors []*Monitor

	monitorCallback MonitorFunc
	errorCallback   ErrorFunc

	vulkan vulkanCache

	// disabledCursorWindow is the single window whose cursor is currently
	// locked for relative motion.
	disabledCursorWindow *Window
	// acquiredMonitors counts monitors occupied by full screen windows.
	acquiredMonitors int
}

// New builds an uninitialized state.
func New(opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &State{opts: opts, logger: logger}
}

// Logger is the logger shared with the backend.
func (s *State) Logger() *slog.Logger {
	return s.logger
}

// Initialized reports whether Init succeeded and Shutdown has not run since.
func (s *State) Initialized() bool {
	return s.initialized
}

// Platform is the name of the active backend, empty before Init.
func (s *State) Platform() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.Name()
}

// Init selects and connects the backend and enumerates monitors. Calling it
// on an initialized state does nothing.
func (s *State) Init() error {
	if s.initialized {
		return nil
	}

	s.windows = nil
	s.cursors = nil
	s.monitors = nil
	s.disabledCursorWindow = nil
	s.acquiredMonitors = 0
	s.vulkan = vulkanCache{}
	s.DefaultWindowHints()

	backend := s.opts.Backend
	if backend == nil {
		b, err := newBackend(s.opts.Platform, s.opts.BackendOptions)
		if err != nil {
			return s.report(err)
		}
		backend = b
	}
	if err := backend.Init(s); err != nil {
		return s.report(fmt.Errorf("failed to initialize %s backend: %w", backend.Name(), err))
	}
	s.backend = backend
	s.initialized = true

	for i, nm := range backend.Monitors() {
		placement := platform.PlaceLast
		if i == 0 {
			placement = platform.PlaceFirst
		}
		s.insertMonitor(newMonitor(s, nm), placement)
	}

	s.logger.Info("windowing initialized", "platform", backend.Name(), "monitors", len(s.monitors))
	return nil
}

// Shutdown destroys every window and cursor, releases monitors and
// disconnects the backend. It is safe to call more than once.
func (s *State) Shutdown() {
	if !s.initialized {
		return
	}

	s.monitorCallback = nil

	for len(s.windows) > 0 {
		s.DestroyWindow(s.windows[0])
	}
	for len(s.cursors) > 0 {
		s.DestroyCursor(s.cursors[0])
	}
	for _, m := range s.monitors {
		if m.modeChanged {
			m.native.RestoreVideoMode()
			m.modeChanged = false
		}
	}
	s.monitors = nil

	s.terminateVulkan()
	s.backend.Shutdown()
	s.logger.Info("windowing shut down", "platform", s.backend.Name())

	s.backend = nil
	s.initialized = false
}

// SetErrorCallback installs fn as the error sink observer and returns the
// previous one. It may be called before Init.
func (s *State) SetErrorCallback(fn ErrorFunc) ErrorFunc {
	prev := s.errorCallback
	s.errorCallback = fn
	return prev
}

// inputError reports a new error through the sink.
func (s *State) inputError(code platform.ErrorCode, format string, args ...any) error {
	err := &platform.Error{Code: code}
	if format != "" {
		err.Message = "[Window] " + fmt.Sprintf(format, args...)
	}
	return s.report(err)
}

// report logs err, forwards it to the error callback and returns it as a
// *platform.Error.
func (s *State) report(err error) error {
	if err == nil {
		return nil
	}
	var perr *platform.Error
	if !errors.As(err, &perr) {
		perr = platform.Wrap(platform.PlatformError, err, "[Window] platform call failed")
	} else if perr != err {
		perr = &platform.Error{Code: perr.Code, Message: err.Error()}
	}
	s.logger.Error(perr.Error(), "code", perr.Code.String())
	if s.errorCallback != nil {
		s.errorCallback(perr)
	}
	return perr
}

func (s *State) checkInit() error {
	if !s.initialized {
		return s.inputError(platform.NotInitialized, "")
	}
	return nil
}

// PollEvents processes pending events without blocking.
func (s *State) PollEvents() error {
	if err := s.checkInit(); err != nil {
		return err
	}
	s.backend.PollEvents()
	return nil
}

// WaitEvents blocks until an event arrives or PostEmptyEvent is called.
func (s *State) WaitEvents() error {
	if err := s.checkInit(); err != nil {
		return err
	}
	s.backend.WaitEvents(-1)
	return nil
}

// WaitEventsTimeout is WaitEvents bounded by timeout.
func (s *State) WaitEventsTimeout(timeout time.Duration) error {
	if err := s.checkInit(); err != nil {
		return err
	}
	if timeout < 0 {
		return s.inputError(platform.InvalidValue, "Invalid time %s", timeout)
	}
	s.backend.WaitEvents(timeout)
	return nil
}

// PostEmptyEvent wakes a goroutine blocked in WaitEvents. It is the only
// operation that may be called from any goroutine.
func (s *State) PostEmptyEvent() {
	if b := s.backend; b != nil {
		b.PostEmptyEvent()
	}
}

// SetClipboardString replaces the system clipboard with text.
func (s *State) SetClipboardString(text string) error {
	if err := s.checkInit(); err != nil {
		return err
	}
	if err := s.backend.SetClipboardString(text); err != nil {
		return s.report(err)
	}
	return nil
}

// ClipboardString returns the clipboard text. An empty clipboard or one that
// holds no text reports Format_Unavailable.
func (s *State) ClipboardString() (string, error) {
	if err := s.checkInit(); err != nil {
		return "", err
	}
	text, err := s.backend.ClipboardString()
	if err != nil {
		return "", s.report(err)
	}
	return text, nil
}

// RawMouseMotionSupported reports whether the backend can deliver raw motion.
func (s *State) RawMouseMotionSupported() bool {
	if s.checkInit() != nil {
		return false
	}
	return s.backend.RawMouseMotionSupported()
}

// KeyScancode returns the platform scancode of key, or -1.
func (s *State) KeyScancode(key Key) int {
	if s.checkInit() != nil {
		return -1
	}
	if !key.Valid() {
		s.inputError(platform.InvalidEnum, "Invalid key %d", int(key))
		return -1
	}
	return s.backend.KeyScancode(key)
}

// KeyName returns the layout specific name of a printable key. When key is
// KeyUnknown the scancode selects the key.
func (s *State) KeyName(key Key, scancode int) string {
	if s.checkInit() != nil {
		return ""
	}
	if key != platform.KeyUnknown {
		if !key.Valid() {
			s.inputError(platform.InvalidEnum, "Invalid key %d", int(key))
			return ""
		}
		if !key.Printable() {
			return ""
		}
		scancode = s.backend.KeyScancode(key)
	}
	return s.backend.KeyName(key, scancode)
}

// Windows returns the live windows, most recently created first.
func (s *State) Windows() []*Window {
	out := make([]*Window, len(s.windows))
	copy(out, s.windows)
	return out
}
