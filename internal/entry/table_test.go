package entry

import (
	"testing"

	"github.com/momentics/pollnet-go/api"
)

func newTestEntry() *Entry {
	return New("test", make(api.Outbound, api.OutboundCapacity), nil)
}

func TestInsertHandlesAreMonotonic(t *testing.T) {
	tbl := NewTable()
	h1 := tbl.Insert(newTestEntry())
	h2 := tbl.Insert(newTestEntry())
	h3 := tbl.Insert(newTestEntry())

	if h1 != 1 || h2 != 2 || h3 != 3 {
		t.Fatalf("expected handles 1,2,3, got %d,%d,%d", h1, h2, h3)
	}
}

func TestHandlesNeverReused(t *testing.T) {
	tbl := NewTable()
	h1 := tbl.Insert(newTestEntry())
	tbl.Delete(h1)
	h2 := tbl.Insert(newTestEntry())

	if h2 == h1 {
		t.Fatalf("handle %d was reused after deletion", h1)
	}
	if h2 != 2 {
		t.Fatalf("expected next handle to be 2, got %d", h2)
	}
}

func TestGetMissing(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Get(api.Handle(99)); ok {
		t.Fatal("expected miss for unknown handle")
	}
}

func TestMessageSlotSingleCapacity(t *testing.T) {
	e := newTestEntry()
	if _, ok := e.TakeMessage(); ok {
		t.Fatal("expected empty slot initially")
	}
	e.SetMessage([]byte("a"))
	e.SetMessage([]byte("b")) // overwrite, not queue
	b, ok := e.TakeMessage()
	if !ok || string(b) != "b" {
		t.Fatalf("expected slot to hold last write %q, got %q ok=%v", "b", b, ok)
	}
	if _, ok := e.TakeMessage(); ok {
		t.Fatal("expected slot cleared after Take")
	}
}

func TestErrorSlotSingleCapacity(t *testing.T) {
	e := newTestEntry()
	e.SetError("boom")
	msg, ok := e.TakeError()
	if !ok || msg != "boom" {
		t.Fatalf("got %q ok=%v", msg, ok)
	}
	if _, ok := e.TakeError(); ok {
		t.Fatal("expected error slot cleared after Take")
	}
}

func TestTerminal(t *testing.T) {
	e := newTestEntry()
	if e.Terminal() {
		t.Fatal("fresh entry should not be terminal")
	}
	e.Status = api.StatusOpen
	if e.Terminal() {
		t.Fatal("OPEN should not be terminal")
	}
	e.Status = api.StatusClosed
	if !e.Terminal() {
		t.Fatal("CLOSED should be terminal")
	}
	e.Status = api.StatusError
	if !e.Terminal() {
		t.Fatal("ERROR should be terminal")
	}
}
