package mcp

import (
	"context"
	"sync"
)

// mainQueue hands work from tool handlers to the goroutine that owns the
// windowing state. wake interrupts a blocking event wait.
type mainQueue struct {
	mu      sync.Mutex
	pending []func()
	stopped bool
	wake    func()
}

func newMainQueue(wake func()) *mainQueue {
	return &mainQueue{wake: wake}
}

// do runs fn on the owning goroutine and waits for its result. A cancelled
// context returns early; fn still runs.
func (q *mainQueue) do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	job := func() { done <- fn() }

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return errLoopStopped
	}
	q.pending = append(q.pending, job)
	q.mu.Unlock()
	q.wake()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain runs every queued job and reports how many ran.
func (q *mainQueue) drain() int {
	q.mu.Lock()
	jobs := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, job := range jobs {
		job()
	}
	return len(jobs)
}

// stop rejects new work and runs whatever is still queued.
func (q *mainQueue) stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.drain()
}
