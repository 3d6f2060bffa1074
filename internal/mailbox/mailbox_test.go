package mailbox

import (
	"testing"
	"time"

	"github.com/momentics/pollnet-go/api"
)

func TestTryRecvEmpty(t *testing.T) {
	m := New()
	if _, ok := m.TryRecv(); ok {
		t.Fatal("expected empty mailbox to report no message")
	}
}

func TestSendThenTryRecvFIFO(t *testing.T) {
	m := New()
	m.Send(api.TextMsg("first"))
	m.Send(api.TextMsg("second"))

	msg1, ok := m.TryRecv()
	if !ok || msg1.Text != "first" {
		t.Fatalf("got %+v ok=%v", msg1, ok)
	}
	msg2, ok := m.TryRecv()
	if !ok || msg2.Text != "second" {
		t.Fatalf("got %+v ok=%v", msg2, ok)
	}
	if _, ok := m.TryRecv(); ok {
		t.Fatal("expected mailbox empty after draining both")
	}
}

func TestRecvBlocksUntilSend(t *testing.T) {
	m := New()
	result := make(chan api.Message, 1)
	go func() {
		msg, ok := m.Recv()
		if ok {
			result <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-result:
		t.Fatal("Recv returned before any Send")
	default:
	}

	m.Send(api.BinaryMsg([]byte{1, 2, 3}))

	select {
	case msg := <-result:
		if string(msg.Binary) != "\x01\x02\x03" {
			t.Fatalf("unexpected payload %v", msg.Binary)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Send")
	}
}

func TestCloseUnblocksRecvWithNoMoreMessages(t *testing.T) {
	m := New()
	done := make(chan bool, 1)
	go func() {
		_, ok := m.Recv()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	m.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected Recv to report no message after Close with empty queue")
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Close")
	}
}

func TestCloseStillDeliversBufferedMessages(t *testing.T) {
	m := New()
	m.Send(api.TextMsg("buffered"))
	m.Close()

	msg, ok := m.TryRecv()
	if !ok || msg.Text != "buffered" {
		t.Fatalf("expected buffered message to survive Close, got %+v ok=%v", msg, ok)
	}
	if _, ok := m.TryRecv(); ok {
		t.Fatal("expected mailbox empty after draining")
	}
}

func TestSendAfterCloseIsDiscarded(t *testing.T) {
	m := New()
	m.Close()
	m.Send(api.TextMsg("too late"))
	if _, ok := m.TryRecv(); ok {
		t.Fatal("expected send-after-close to be silently dropped")
	}
}
