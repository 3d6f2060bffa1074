package entry

import (
	"sync"

	"github.com/momentics/pollnet-go/api"
)

// Table is a Context's handle table: a map from opaque handles to
// Entry records plus a monotonic next-handle counter. Handles are never
// reused within the table's lifetime, even after removal. The same
// Insert path is used both for top-level open/listen/serve calls and
// for child entries materialised out of a NewClient poll, so both share
// one counter and one lock.
type Table struct {
	mu      sync.Mutex
	entries map[api.Handle]*Entry
	next    api.Handle
}

// NewTable returns an empty table whose first allocated handle is 1.
func NewTable() *Table {
	return &Table{
		entries: make(map[api.Handle]*Entry),
		next:    1,
	}
}

// Insert allocates the next handle, stores e under it, and returns the
// handle.
func (t *Table) Insert(e *Entry) api.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = e
	return h
}

// Get returns the entry for h, if any.
func (t *Table) Get(h api.Handle) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[h]
	return e, ok
}

// Delete removes h from the table. It does not touch the entry's
// channels; callers are responsible for closing Outbound first.
func (t *Table) Delete(h api.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, h)
}

// Range calls fn for every entry currently in the table. fn must not
// call back into the Table (Insert/Delete/Get), since Range holds the
// table lock for its duration.
func (t *Table) Range(fn func(api.Handle, *Entry)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h, e := range t.entries {
		fn(h, e)
	}
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
