package pollnet

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/entry"
	ipruntime "github.com/momentics/pollnet-go/internal/runtime"
)

// Context is the top-level object a host program embeds: it owns the
// handle table, the runtime driving every per-socket task, and the
// shutdown sequencing that tears both down in order. The façade must be
// driven by one logical caller at a time: Update, Status, GetMessage,
// GetError and LastClient read and write entries without taking the
// mutex, which only guards the open/send/close paths.
type Context struct {
	log *logrus.Entry
	cfg *Config

	mu      sync.Mutex
	table   *entry.Table
	rt      *ipruntime.Runtime
	down    bool
}

// New starts a Context: its runtime is live and ready to accept
// open/listen/serve calls immediately.
func New(cfg *Config) *Context {
	cfg = cfg.withDefaults()
	log := cfg.Logger.WithField("component", "pollnet.Context")
	warnIfAdditionalContext(log)

	c := &Context{
		log:   log,
		cfg:   cfg,
		table: entry.NewTable(),
		rt:    ipruntime.New(log, cfg.ShutdownGrace),
	}
	return c
}

// Shutdown closes every live socket, signals the runtime, and waits for
// its grace window to let tasks unwind. It is safe to call more than
// once; subsequent calls are no-ops.
func (c *Context) Shutdown() {
	c.mu.Lock()
	if c.down {
		c.mu.Unlock()
		return
	}
	c.down = true
	c.mu.Unlock()

	c.log.Info("starting shutdown")
	c.CloseAll()
	c.log.Info("all sockets should be closed")
	c.rt.Shutdown()
	c.log.Info("runtime should be drained")
}

// closeEntryLocked sends a best-effort Disconnect and flips status to
// CLOSED. Callers must hold c.mu.
func closeEntryLocked(e *entry.Entry) {
	if e.Terminal() {
		return
	}
	select {
	case e.Outbound <- api.Disconnect():
	default:
		// Queue full; close() doesn't wait for acknowledgement, so we
		// proceed regardless and rely on the channel close below.
	}
	close(e.Outbound)
	e.Status = api.StatusClosed
}

// Close removes h from the handle table after a best-effort Disconnect
// send. Unknown or already-removed handles are a silent no-op.
func (c *Context) Close(h api.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.table.Get(h)
	if !ok {
		return
	}
	closeEntryLocked(e)
	c.table.Delete(h)
}

// CloseAll closes and removes every live entry. Close failures are not
// surfaced to the caller — close is always best-effort — but any
// panics recovered along the way are aggregated with go-multierror and
// logged for diagnostics.
func (c *Context) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs *multierror.Error
	var handles []api.Handle
	c.table.Range(func(h api.Handle, e *entry.Entry) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = multierror.Append(errs, errClosePanic(h, r))
				}
			}()
			closeEntryLocked(e)
		}()
		handles = append(handles, h)
	})
	for _, h := range handles {
		c.table.Delete(h)
	}
	if errs != nil {
		c.log.WithError(errs).Warn("errors while closing sockets")
	}
}

// Status returns h's current lifecycle state, or StatusInvalidHandle
// if h is unknown.
func (c *Context) Status(h api.Handle) api.SocketStatus {
	e, ok := c.table.Get(h)
	if !ok {
		return api.StatusInvalidHandle
	}
	return e.Status
}

// Send enqueues a text message for h's task. It is dropped silently if
// the outbound queue is full or the entry isn't OPEN/OPENING.
func (c *Context) Send(h api.Handle, text string) {
	c.trySend(h, api.TextMsg(text))
}

// SendBinary enqueues a binary message for h's task, with the same
// drop-on-full/closed semantics as Send.
func (c *Context) SendBinary(h api.Handle, data []byte) {
	c.trySend(h, api.BinaryMsg(data))
}

// AddVirtualFile enqueues a FileAdd control message. Task kinds other
// than the HTTP server ignore it.
func (c *Context) AddVirtualFile(h api.Handle, name string, data []byte) {
	c.trySend(h, api.FileAddMsg(name, data))
}

// RemoveVirtualFile enqueues a FileRemove control message.
func (c *Context) RemoveVirtualFile(h api.Handle, name string) {
	c.trySend(h, api.FileRemoveMsg(name))
}

// trySend holds c.mu for the duration of the send so it can never race
// with Close/CloseAll closing the same entry's Outbound channel out
// from under it.
func (c *Context) trySend(h api.Handle, msg api.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.table.Get(h)
	if !ok {
		return
	}
	if e.Status != api.StatusOpen && e.Status != api.StatusOpening {
		return
	}
	select {
	case e.Outbound <- msg:
	default:
	}
}

// GetMessage returns and clears h's single-slot inbound message buffer.
// ok is false if the handle is unknown or the slot is empty.
func (c *Context) GetMessage(h api.Handle) (data []byte, ok bool) {
	e, found := c.table.Get(h)
	if !found {
		return nil, false
	}
	return e.TakeMessage()
}

// GetError returns and clears h's single-slot error buffer.
func (c *Context) GetError(h api.Handle) (msg string, ok bool) {
	e, found := c.table.Get(h)
	if !found {
		return "", false
	}
	return e.TakeError()
}

// LastClient returns the handle most recently materialised by a
// NEW_CLIENT poll on h, or api.InvalidHandle if none has occurred (or h
// is unknown).
func (c *Context) LastClient(h api.Handle) api.Handle {
	e, ok := c.table.Get(h)
	if !ok {
		return api.InvalidHandle
	}
	return e.LastClientHandle
}

func errClosePanic(h api.Handle, r any) error {
	return api.NewError(api.ErrCodeTransport, "panic while closing socket").
		WithContext("handle", h).WithContext("panic", r)
}
