// Package runtime hosts the manager that tracks every spawned
// per-socket task goroutine in a sync.WaitGroup and gives them a
// bounded grace window to unwind on shutdown.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package runtime

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultShutdownGrace is how long Shutdown waits for outstanding task
// goroutines to unwind before giving up on them.
const DefaultShutdownGrace = 200 * time.Millisecond

// Runtime is the manager owning every per-socket task goroutine spawned
// through a Context. It is not a thread pool: each task gets its own
// goroutine for the lifetime of its socket.
type Runtime struct {
	log   *logrus.Entry
	grace time.Duration

	wg       sync.WaitGroup
	quit     chan struct{}
	quitOnce sync.Once
}

// New starts a Runtime. Spawn may be called immediately; Shutdown
// signals every task's quit channel usage (tasks observe it via the
// Done method) and waits up to grace for outstanding goroutines.
func New(log *logrus.Entry, grace time.Duration) *Runtime {
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	return &Runtime{
		log:   log,
		grace: grace,
		quit:  make(chan struct{}),
	}
}

// Done returns a channel that closes once Shutdown has been called.
// Task bodies select on it alongside their own I/O to notice runtime
// teardown even if their own channel pair hasn't been closed yet.
func (r *Runtime) Done() <-chan struct{} {
	return r.quit
}

// Spawn runs fn on a new goroutine tracked by the runtime's WaitGroup.
func (r *Runtime) Spawn(name string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.WithFields(logrus.Fields{"task": name, "panic": rec}).
					Error("task panicked")
			}
		}()
		fn()
	}()
}

// Shutdown closes the runtime's quit channel, then waits up to the
// configured grace window for all spawned tasks to return. It does not
// error if tasks are still running when the grace window elapses; it
// simply stops waiting.
func (r *Runtime) Shutdown() {
	r.quitOnce.Do(func() { close(r.quit) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Debug("runtime tasks drained before grace window elapsed")
	case <-time.After(r.grace):
		r.log.Warn("runtime shutdown grace window elapsed with tasks still running")
	}
}
