// Package dispatch marshals work onto the UI event-loop goroutine.
//
// Components running on guest-emulation goroutines must not touch UI-owned
// state directly; they post closures here and the event loop drains them in
// order. Callees must not assume which goroutine queued the work.
package dispatch

import (
	"context"
	"sync"
)

// Queue is an ordered work queue drained by a single event-loop goroutine.
// Post is safe from any goroutine.
type Queue struct {
	mu     sync.Mutex
	work   []func()
	wake   chan struct{}
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
	}
}

// Post queues fn for execution on the event loop. Posting to a closed queue
// drops the work.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.work = append(q.work, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Drain runs all currently queued work in posting order. It must only be
// called from the event-loop goroutine.
func (q *Queue) Drain() {
	q.mu.Lock()
	work := q.work
	q.work = nil
	q.mu.Unlock()

	for _, fn := range work {
		fn()
	}
}

// Wake returns a channel that receives after new work is posted.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Run drains the queue until the context is canceled. It is the event loop
// for callers that do not have their own.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			q.Close()
			return
		case <-q.wake:
			q.Drain()
		}
	}
}

// Close marks the queue closed and discards pending work.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.work = nil
}

// Pending reports how many closures are waiting to run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.work)
}
