// Package entry implements the façade's per-connection bookkeeping: the
// Entry record and the Table that owns every entry for a Context. Both
// are meant to be owned by a single calling goroutine at a time; the
// Table's mutex is defensive rather than a concurrency feature to
// build on.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package entry

import (
	"github.com/momentics/pollnet-go/api"
)

// Entry is the façade's record for one logical connection.
type Entry struct {
	Kind     string // "tcp-client", "tcp-listener", "ws-client", ... for logging
	Status   api.SocketStatus
	Outbound api.Outbound
	Inbound  api.Inbound

	// message and errMsg are the single-slot buffers a poll may fill
	// and a Get/GetError call drains. nil means empty.
	message []byte
	errMsg  *string

	// LastClientHandle is overwritten (not queued) on every NewClient
	// poll, as is the peer id placed in the message slot; if the host
	// doesn't read them before the next NewClient event on the same
	// handle, the previous child handle and peer id are lost. Zero means
	// "no client materialised yet" (api.InvalidHandle).
	LastClientHandle api.Handle
}

// New builds an Entry in the OPENING state for a freshly spawned task.
func New(kind string, outbound api.Outbound, inbound api.Inbound) *Entry {
	return &Entry{
		Kind:     kind,
		Status:   api.StatusOpening,
		Outbound: outbound,
		Inbound:  inbound,
	}
}

// SetMessage fills the message slot, overwriting any unread content.
func (e *Entry) SetMessage(b []byte) { e.message = b }

// TakeMessage returns and clears the message slot. ok is false if the
// slot was empty.
func (e *Entry) TakeMessage() (b []byte, ok bool) {
	if e.message == nil {
		return nil, false
	}
	b, e.message = e.message, nil
	return b, true
}

// SetError fills the error slot, overwriting any unread content.
func (e *Entry) SetError(msg string) { e.errMsg = &msg }

// TakeError returns and clears the error slot. ok is false if empty.
func (e *Entry) TakeError() (msg string, ok bool) {
	if e.errMsg == nil {
		return "", false
	}
	msg, e.errMsg = *e.errMsg, nil
	return msg, true
}

// Terminal reports whether the entry's status can never progress again.
func (e *Entry) Terminal() bool {
	return e.Status == api.StatusClosed || e.Status == api.StatusError
}
