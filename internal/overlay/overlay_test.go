package overlay

import (
	"sync"
	"testing"
)

func TestLookupMiss(t *testing.T) {
	o := New()
	if _, ok := o.Lookup("/missing"); ok {
		t.Fatal("expected miss on empty overlay")
	}
}

func TestAddThenLookupThenRemove(t *testing.T) {
	o := New()
	o.Add("/a.txt", []byte("hi"))

	data, ok := o.Lookup("/a.txt")
	if !ok {
		t.Fatal("expected hit after Add")
	}
	if string(data) != "hi" {
		t.Fatalf("got %q, want %q", data, "hi")
	}

	o.Remove("/a.txt")
	if _, ok := o.Lookup("/a.txt"); ok {
		t.Fatal("expected miss after Remove")
	}
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	o := New()
	o.Remove("/never-existed")
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	o := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			o.Add("/x", []byte{byte(i)})
		}(i)
		go func() {
			defer wg.Done()
			o.Lookup("/x")
		}()
	}
	wg.Wait()
}
