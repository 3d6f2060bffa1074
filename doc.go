// Package pollnet is an embeddable networking library exposing a
// poll-based, handle-oriented API over an internal asynchronous,
// multiplexed I/O runtime. A host program — typically a single-threaded
// game or scripting runtime reached through the cmd/cabi C shim — opens
// TCP/WebSocket connections or listeners, issues one-shot HTTP
// GET/POST requests, or serves HTTP with a static root plus an
// in-memory virtual-file overlay, all without blocking the caller or
// seeing callbacks, futures, or threads.
//
// Every operation returns a Handle immediately; the host drives
// progress by calling Update on that handle, which performs a single
// non-blocking (or, with blocking=true, blocking) drain of the
// connection's inbound queue and reports a SocketResult.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package pollnet
