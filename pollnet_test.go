package pollnet

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/momentics/pollnet-go/api"
)

// waitFor polls fn until it returns true or the deadline elapses,
// failing the test in the latter case. Tests in this file exercise
// real loopback sockets end to end (per the library's own testable
// scenarios), so a short deadline stands in for a blocking poll.
func waitFor(t *testing.T, timeout time.Duration, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestTCPLoopback(t *testing.T) {
	ctx := New(DefaultConfig())
	defer ctx.Shutdown()

	hL := ctx.ListenTCP("127.0.0.1:19101")
	waitFor(t, time.Second, func() bool {
		return ctx.Update(hL, false) == api.ResultOpening
	})

	hC := ctx.OpenTCP("127.0.0.1:19101")

	var hS api.Handle
	waitFor(t, time.Second, func() bool {
		if ctx.Update(hL, false) == api.ResultNewClient {
			hS = ctx.LastClient(hL)
			return true
		}
		return false
	})

	waitFor(t, time.Second, func() bool {
		return ctx.Update(hC, false) == api.ResultOpening
	})

	ctx.SendBinary(hC, []byte{1, 2, 3})

	var got []byte
	waitFor(t, time.Second, func() bool {
		if ctx.Update(hS, false) == api.ResultHasData {
			got, _ = ctx.GetMessage(hS)
			return true
		}
		return false
	})

	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestWSEcho(t *testing.T) {
	ctx := New(DefaultConfig())
	defer ctx.Shutdown()

	hL := ctx.ListenWS("127.0.0.1:19106")
	waitFor(t, time.Second, func() bool {
		return ctx.Update(hL, false) == api.ResultOpening
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws://127.0.0.1:19106", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hS api.Handle
	waitFor(t, time.Second, func() bool {
		if ctx.Update(hL, false) == api.ResultNewClient {
			hS = ctx.LastClient(hL)
			return true
		}
		return false
	})
	waitFor(t, time.Second, func() bool {
		return ctx.Update(hS, false) == api.ResultOpening
	})

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []byte
	waitFor(t, time.Second, func() bool {
		if ctx.Update(hS, false) == api.ResultHasData {
			got, _ = ctx.GetMessage(hS)
			return true
		}
		return false
	})
	if string(got) != "ping" {
		t.Fatalf("got %q, want ping", got)
	}
}

func TestHTTPOverlay(t *testing.T) {
	ctx := New(DefaultConfig())
	defer ctx.Shutdown()

	hH := ctx.ServeHTTP("127.0.0.1:19102")
	ctx.AddVirtualFile(hH, "/a.txt", []byte("hi"))

	waitFor(t, time.Second, func() bool {
		resp, err := http.Get("http://127.0.0.1:19102/a.txt")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "hi"
	})

	resp, err := http.Get("http://127.0.0.1:19102/b.txt")
	if err != nil {
		t.Fatalf("GET /b.txt: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	ctx.RemoveVirtualFile(hH, "/a.txt")
	waitFor(t, time.Second, func() bool {
		resp, err := http.Get("http://127.0.0.1:19102/a.txt")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	})
}

func TestHTTPGetCompletion(t *testing.T) {
	ctx := New(DefaultConfig())
	defer ctx.Shutdown()

	hH := ctx.ServeHTTP("127.0.0.1:19103")
	ctx.AddVirtualFile(hH, "/a.txt", []byte("hi"))
	time.Sleep(20 * time.Millisecond)

	hG := ctx.HTTPGet("http://127.0.0.1:19103/a.txt")

	var body []byte
	waitFor(t, time.Second, func() bool {
		if ctx.Update(hG, false) == api.ResultHasData {
			body, _ = ctx.GetMessage(hG)
			return true
		}
		return false
	})
	if string(body) != "hi" {
		t.Fatalf("body = %q, want hi", body)
	}

	waitFor(t, time.Second, func() bool {
		return ctx.Update(hG, false) == api.ResultClosed
	})
}

func TestSendWhileNotOpen(t *testing.T) {
	ctx := New(DefaultConfig())
	defer ctx.Shutdown()

	h := ctx.OpenTCP("127.0.0.1:1") // nothing listening there
	ctx.Send(h, "x")               // must not panic even before Connect/Error arrives

	waitFor(t, time.Second, func() bool {
		return ctx.Update(h, false) == api.ResultError
	})

	msg, ok := ctx.GetError(h)
	if !ok || msg == "" {
		t.Fatalf("expected a connection error string, got ok=%v msg=%q", ok, msg)
	}
}

func TestShutdownWhileOpen(t *testing.T) {
	ctx := New(DefaultConfig())

	h1 := ctx.ListenTCP("127.0.0.1:19104")
	h2 := ctx.OpenTCP("127.0.0.1:19104")
	waitFor(t, time.Second, func() bool {
		return ctx.Update(h2, false) == api.ResultOpening
	})

	ctx.Shutdown()

	if ctx.Status(h1) != api.StatusInvalidHandle {
		t.Fatalf("status(h1) = %v, want INVALID_HANDLE after shutdown", ctx.Status(h1))
	}
	if ctx.Status(h2) != api.StatusInvalidHandle {
		t.Fatalf("status(h2) = %v, want INVALID_HANDLE after shutdown", ctx.Status(h2))
	}
}

func TestCloseMakesStatusInvalid(t *testing.T) {
	ctx := New(DefaultConfig())
	defer ctx.Shutdown()

	h := ctx.ListenTCP(fmt.Sprintf("127.0.0.1:%d", 19105))
	ctx.Close(h)
	if ctx.Status(h) != api.StatusInvalidHandle {
		t.Fatalf("status after close = %v, want INVALID_HANDLE", ctx.Status(h))
	}
}
