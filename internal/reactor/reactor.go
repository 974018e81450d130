// Package reactor implements the single-threaded, cooperative event loop
// that serializes every mutation of the daemon's shared state (the
// session registry, the playlist, the supervised-player list). Handlers
// never take locks on that state; instead they Post a closure onto the
// reactor's queue and it runs, to completion, on the single goroutine
// that drains the queue — so the total order of mutations is exactly
// the FIFO order in which closures were posted.
package reactor

import (
	"context"
	"time"
)

// job is a unit of work posted to the reactor. done, if non-nil, is
// closed after fn returns so PostWait can block the caller until its
// work item has actually executed on the reactor goroutine.
type job struct {
	fn   func()
	done chan struct{}
}

// Reactor owns the single queue of work items. Exactly one goroutine
// (the one Run is called from) ever executes a job's fn, which is what
// makes shared-state mutation inside those closures race-free without
// locks.
type Reactor struct {
	queue chan job
}

// New returns a Reactor with a reasonably sized queue; Post blocks once
// the queue is full, which applies natural backpressure to a runaway
// session rather than growing memory without bound.
func New() *Reactor {
	return &Reactor{
		queue: make(chan job, 256),
	}
}

// Post enqueues fn to run on the reactor goroutine and returns
// immediately. Safe to call from any goroutine, including from inside a
// job itself (self-post).
func (r *Reactor) Post(fn func()) {
	r.queue <- job{fn: fn}
}

// PostWait enqueues fn and blocks the caller until it has finished
// running on the reactor goroutine. The command engine runs every
// handler through it, so each command sees a consistent state without
// introducing its own locking.
func (r *Reactor) PostWait(fn func()) {
	done := make(chan struct{})
	r.queue <- job{fn: fn, done: done}
	<-done
}

// PostAfter schedules fn to be posted onto the reactor queue after d has
// elapsed. The wait itself happens on a dedicated timer goroutine, not
// the reactor goroutine, so it is never a blocking sleep inside a
// handler — this is how the sopcast warmup delay (spawn relay, wait,
// spawn local player) is modeled without stalling the reactor.
func (r *Reactor) PostAfter(d time.Duration, fn func()) {
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		<-t.C
		r.Post(fn)
	}()
}

// Run drains the queue until ctx is cancelled. Cancellation stops the
// loop from picking up new jobs; a job already executing runs to
// completion (handlers are expected to reach a yield point promptly —
// there is no per-command timeout).
func (r *Reactor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			j.fn()
			if j.done != nil {
				close(j.done)
			}
		}
	}
}
