package mcp

import (
	"context"
	"errors"
	"testing"
)

func TestEventLogDropsOldest(t *testing.T) {
	l := NewEventLog(3)
	for _, kind := range []string{"a", "b", "c", "d"} {
		l.Add("w", kind, "")
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 retained events, got %d", l.Len())
	}
	events, next := l.Since(0, "", 0)
	if len(events) != 3 || events[0].Kind != "b" || events[2].Kind != "d" {
		t.Fatalf("unexpected events %+v", events)
	}
	if next != 4 {
		t.Fatalf("expected next 4, got %d", next)
	}
}

func TestEventLogSinceFiltersAndLimits(t *testing.T) {
	l := NewEventLog(0)
	l.Add("one", "focus", "true")
	l.Add("two", "focus", "true")
	l.Add("one", "key", "a pressed")
	l.Add("one", "key", "a released")

	events, next := l.Since(0, "one", 2)
	if len(events) != 2 || events[1].Kind != "key" || next != 3 {
		t.Fatalf("expected two events ending at seq 3, got %+v next=%d", events, next)
	}
	events, next = l.Since(next, "one", 2)
	if len(events) != 1 || events[0].Detail != "a released" || next != 4 {
		t.Fatalf("expected the last event, got %+v next=%d", events, next)
	}
	events, _ = l.Since(next, "", 0)
	if len(events) != 0 {
		t.Fatalf("expected no newer events, got %+v", events)
	}
}

func TestMainQueue(t *testing.T) {
	woken := 0
	q := newMainQueue(func() { woken++ })

	ran := make(chan error, 1)
	go func() {
		ran <- q.do(context.Background(), func() error { return errors.New("boom") })
	}()
	for q.drain() == 0 {
	}
	if err := <-ran; err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}

	q.stop()
	if err := q.do(context.Background(), func() error { return nil }); !errors.Is(err, errLoopStopped) {
		t.Fatalf("expected errLoopStopped after stop, got %v", err)
	}
}
