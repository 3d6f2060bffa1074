// Package mailbox implements the task-to-host inbound queue: unbounded,
// safe for several producers (the owning task and any goroutines it
// starts), single-consumer (the façade), FIFO, with both a non-blocking
// try-receive and a blocking receive, and best-effort sends that are
// silently dropped once the mailbox has been closed.
//
// The backing store is github.com/eapache/queue, a growable ring
// buffer.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package mailbox

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/pollnet-go/api"
)

// Mailbox is an unbounded FIFO of api.Message values.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      *queue.Queue
	closed bool
}

// New returns an empty, open Mailbox.
func New() *Mailbox {
	m := &Mailbox{q: queue.New()}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Send enqueues msg for the consumer. It is a best-effort operation: if
// the mailbox has already been closed (the owning task closes it when it
// returns), the message is silently discarded.
func (m *Mailbox) Send(msg api.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.q.Add(msg)
	m.cond.Signal()
}

// TryRecv returns the oldest message without blocking. ok is false if
// the mailbox is currently empty (whether or not it is closed).
func (m *Mailbox) TryRecv() (msg api.Message, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.q.Length() == 0 {
		return api.Message{}, false
	}
	return m.q.Remove().(api.Message), true
}

// Recv blocks until a message is available or the mailbox is closed
// with nothing left to deliver, in which case ok is false.
func (m *Mailbox) Recv() (msg api.Message, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.q.Length() == 0 && !m.closed {
		m.cond.Wait()
	}
	if m.q.Length() == 0 {
		return api.Message{}, false
	}
	return m.q.Remove().(api.Message), true
}

// Close marks the mailbox closed. Pending messages already enqueued may
// still be drained by Recv/TryRecv; subsequent Send calls are no-ops.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
