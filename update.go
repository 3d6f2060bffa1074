package pollnet

import (
	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/entry"
)

// Update drains at most one message from h's inbound mailbox and
// reports what happened. With blocking false it never waits; with
// blocking true it waits for the task to produce something (or close).
//
// A terminal entry (CLOSED or ERROR) short-circuits without touching
// its mailbox. Otherwise the switch on the received message's kind is
// unconditional — it does not consult the entry's current status —
// including the case where a NewClient-materialised child starts life
// already OPEN yet its very first poll still processes a buffered
// Connect and reports Opening.
func (c *Context) Update(h api.Handle, blocking bool) api.SocketResult {
	e, ok := c.table.Get(h)
	if !ok {
		return api.ResultInvalidHandle
	}
	return update(e, c.table, blocking)
}

func update(e *entry.Entry, table *entry.Table, blocking bool) api.SocketResult {
	if e.Status == api.StatusClosed {
		return api.ResultClosed
	}
	if e.Terminal() {
		return api.ResultError
	}

	var msg api.Message
	var ok bool
	if blocking {
		msg, ok = e.Inbound.Recv()
	} else {
		msg, ok = e.Inbound.TryRecv()
	}
	if !ok {
		if blocking {
			// Recv only returns !ok once the mailbox has been closed with
			// nothing left buffered: the task is gone for good.
			e.Status = api.StatusClosed
			return api.ResultClosed
		}
		if e.Inbound.Closed() {
			// TryRecv came back empty and the task is gone for good, not
			// just quiet for the moment.
			e.Status = api.StatusClosed
			return api.ResultClosed
		}
		return api.ResultNoData
	}

	switch msg.Kind {
	case api.KindConnect:
		e.Status = api.StatusOpen
		return api.ResultOpening

	case api.KindDisconnect:
		e.Status = api.StatusClosed
		return api.ResultClosed

	case api.KindText:
		e.SetMessage([]byte(msg.Text))
		return api.ResultHasData

	case api.KindBinary:
		e.SetMessage(msg.Binary)
		return api.ResultHasData

	case api.KindError:
		e.SetError(msg.Err)
		e.Status = api.StatusError
		return api.ResultError

	case api.KindNewClient:
		child := entry.New(e.Kind+"-accepted", msg.Client.Outbound, msg.Client.Inbound)
		child.Status = api.StatusOpen
		h := table.Insert(child)
		e.LastClientHandle = h
		e.SetMessage([]byte(msg.Client.PeerID))
		return api.ResultNewClient

	default:
		// FileAdd/FileRemove never appear on a task->host mailbox; any
		// future kind added here falls back to NoData rather than a panic.
		return api.ResultNoData
	}
}
