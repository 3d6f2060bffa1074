// Package task implements the per-protocol task bodies that run on the
// pollnet runtime: TCP client/listener/accepted, WebSocket
// client/listener/accepted, the HTTP server with its virtual-file
// overlay, and the one-shot HTTP GET/POST tasks.
//
// Every body follows the same shape: take the outbound channel and
// inbound mailbox pair the façade built with NewPair, report setup
// failure as an Error on the inbound mailbox (TCP and WebSocket tasks
// also report success as a Connect; the HTTP server and one-shot tasks
// emit no Connect), then loop selecting between the outbound channel
// and whatever I/O event source the protocol needs, until told to stop.
// Each exported Run* function is meant to be handed to
// (*runtime.Runtime).Spawn by the façade.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package task

import (
	"errors"
	"io"
	"net"

	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/mailbox"
)

// ReadBufferSize is the chunk size used for raw TCP reads, matching the
// original implementation's 64KiB scratch buffer.
const ReadBufferSize = 64 * 1024

// frame is what a background reader goroutine relays to a task's main
// select loop: either a payload, a clean close, or a transport error.
type frame struct {
	data   []byte
	closed bool
	err    error
}

// NewPair allocates the outbound channel / inbound mailbox pair every
// task gets at spawn time.
func NewPair() (api.Outbound, *mailbox.Mailbox) {
	return make(api.Outbound, api.OutboundCapacity), mailbox.New()
}

// isCleanClose reports whether err represents an orderly peer
// disconnection (EOF, or a use-of-closed-connection from our own
// teardown) rather than a transport failure worth surfacing as Error.
func isCleanClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	return false
}
