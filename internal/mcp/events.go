package mcp

import (
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/windowkit/internal/windowing"
)

// DefaultEventCapacity bounds the recent event log.
const DefaultEventCapacity = 512

// Event is one recorded windowing callback.
type Event struct {
	Seq    uint64    `json:"seq"`
	Time   time.Time `json:"time"`
	Window string    `json:"window,omitempty"`
	Kind   string    `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

// EventLog keeps the most recent events in sequence order. Older events are
// dropped once the capacity is reached.
type EventLog struct {
	mu       sync.Mutex
	capacity int
	seq      uint64
	events   []Event
	now      func() time.Time
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventLog{capacity: capacity, now: time.Now}
}

// Add records an event and returns it with its sequence number.
func (l *EventLog) Add(window, kind, detail string) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	e := Event{Seq: l.seq, Time: l.now(), Window: window, Kind: kind, Detail: detail}
	if len(l.events) == l.capacity {
		copy(l.events, l.events[1:])
		l.events[len(l.events)-1] = e
	} else {
		l.events = append(l.events, e)
	}
	return e
}

// Since returns up to limit events newer than after, optionally restricted to
// one window, and the last sequence number handed out.
func (l *EventLog) Since(after uint64, window string, limit int) ([]Event, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, 0)
	for _, e := range l.events {
		if e.Seq <= after {
			continue
		}
		if window != "" && e.Window != window {
			continue
		}
		if limit > 0 && len(out) == limit {
			return out, out[len(out)-1].Seq
		}
		out = append(out, e)
	}
	return out, l.seq
}

// Len is the number of retained events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// recordWindow installs callbacks that log every window event under id.
// Cursor motion is not recorded.
func (l *EventLog) recordWindow(id string, w *windowing.Window) {
	w.SetCloseCallback(func(*windowing.Window) {
		l.Add(id, "close", "")
	})
	w.SetPosCallback(func(_ *windowing.Window, x, y int) {
		l.Add(id, "pos", fmt.Sprintf("%d,%d", x, y))
	})
	w.SetSizeCallback(func(_ *windowing.Window, width, height int) {
		l.Add(id, "size", fmt.Sprintf("%dx%d", width, height))
	})
	w.SetFramebufferSizeCallback(func(_ *windowing.Window, width, height int) {
		l.Add(id, "framebuffer_size", fmt.Sprintf("%dx%d", width, height))
	})
	w.SetContentScaleCallback(func(_ *windowing.Window, xs, ys float32) {
		l.Add(id, "content_scale", fmt.Sprintf("%g,%g", xs, ys))
	})
	w.SetFocusCallback(func(_ *windowing.Window, focused bool) {
		l.Add(id, "focus", fmt.Sprint(focused))
	})
	w.SetMinimizeCallback(func(_ *windowing.Window, minimized bool) {
		l.Add(id, "minimize", fmt.Sprint(minimized))
	})
	w.SetMaximizeCallback(func(_ *windowing.Window, maximized bool) {
		l.Add(id, "maximize", fmt.Sprint(maximized))
	})
	w.SetKeyCallback(func(_ *windowing.Window, key windowing.Key, state windowing.KeyState) {
		l.Add(id, "key", fmt.Sprintf("%s %s", key, state))
	})
	w.SetCharCallback(func(_ *windowing.Window, r rune) {
		l.Add(id, "char", fmt.Sprintf("%q", r))
	})
	w.SetMouseButtonCallback(func(_ *windowing.Window, button windowing.MouseButton, state windowing.KeyState) {
		l.Add(id, "mouse_button", fmt.Sprintf("%d %s", int(button), state))
	})
	w.SetCursorEnterCallback(func(_ *windowing.Window, entered bool) {
		l.Add(id, "cursor_enter", fmt.Sprint(entered))
	})
	w.SetScrollCallback(func(_ *windowing.Window, x, y float64) {
		l.Add(id, "scroll", fmt.Sprintf("%g,%g", x, y))
	})
	w.SetDropCallback(func(_ *windowing.Window, paths []string) {
		l.Add(id, "drop", fmt.Sprintf("%q", paths))
	})
}
