package pollnet

import (
	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/entry"
	"github.com/momentics/pollnet-go/internal/task"
)

// OpenTCP dials addr asynchronously, returning a handle immediately.
func (c *Context) OpenTCP(addr string) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("tcp-client", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	c.mu.Unlock()
	c.rt.Spawn("tcp-client", func() {
		task.RunTCPClient(c.rt, c.log, addr, outbound, inbox)
	})
	return h
}

// ListenTCP binds bind asynchronously, accepting connections until
// closed; each accepted peer surfaces as a NewClient poll result.
func (c *Context) ListenTCP(bind string) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("tcp-listener", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	c.mu.Unlock()
	c.rt.Spawn("tcp-listener", func() {
		task.RunTCPListener(c.rt, c.log, bind, outbound, inbox)
	})
	return h
}

// OpenWS connects to the WebSocket URL rawURL asynchronously.
func (c *Context) OpenWS(rawURL string) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("ws-client", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	c.mu.Unlock()
	c.rt.Spawn("ws-client", func() {
		task.RunWSClient(c.rt, c.log, rawURL, outbound, inbox)
	})
	return h
}

// ListenWS binds bind as a WebSocket upgrade server, accepting
// connections until closed.
func (c *Context) ListenWS(bind string) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("ws-listener", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	c.mu.Unlock()
	c.rt.Spawn("ws-listener", func() {
		task.RunWSListener(c.rt, c.log, bind, outbound, inbox)
	})
	return h
}

// ServeHTTP binds bind and serves only the virtual-file overlay (no
// static filesystem root); it never emits a Connect poll result.
func (c *Context) ServeHTTP(bind string) api.Handle {
	return c.serveHTTP(bind, nil)
}

// ServeStaticHTTP binds bind and serves the overlay first, falling
// through to dir for any path the overlay doesn't have.
func (c *Context) ServeStaticHTTP(bind, dir string) api.Handle {
	return c.serveHTTP(bind, &dir)
}

func (c *Context) serveHTTP(bind string, dir *string) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("http-server", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	timeout := c.cfg.HTTPShutdownTimeout
	c.mu.Unlock()
	c.rt.Spawn("http-server", func() {
		task.RunHTTPServer(c.rt, c.log, bind, dir, timeout, outbound, inbox)
	})
	return h
}

// HTTPGet issues a single GET to rawURL; the response body (or failure)
// surfaces through the returned handle's next poll.
func (c *Context) HTTPGet(rawURL string) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("http-get", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	c.mu.Unlock()
	c.rt.Spawn("http-get", func() {
		task.RunHTTPGet(c.rt, c.log, rawURL, outbound, inbox)
	})
	return h
}

// HTTPPost issues a single POST with the given content type and body.
func (c *Context) HTTPPost(rawURL, contentType string, body []byte) api.Handle {
	outbound, inbox := task.NewPair()
	e := entry.New("http-post", outbound, inbox)
	c.mu.Lock()
	h := c.table.Insert(e)
	c.mu.Unlock()
	c.rt.Spawn("http-post", func() {
		task.RunHTTPPost(c.rt, c.log, rawURL, contentType, body, outbound, inbox)
	})
	return h
}
