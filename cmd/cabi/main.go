// Command cabi is the thin C ABI translation layer over package pollnet:
// pointer and C-string marshalling only, dispatching every call straight
// through to a *pollnet.Context method. No protocol or lifecycle logic
// lives here.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/momentics/pollnet-go"
	"github.com/momentics/pollnet-go/api"
)

// ctxHandles maps the uintptr tokens handed across the C boundary back
// to live *pollnet.Context values, since cgo cannot pass a Go pointer
// to C and have it returned safely later.
var (
	ctxMu      sync.Mutex
	ctxHandles = map[uintptr]*pollnet.Context{}
	ctxNext    uintptr = 1
)

func registerCtx(c *pollnet.Context) uintptr {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	tok := ctxNext
	ctxNext++
	ctxHandles[tok] = c
	return tok
}

func lookupCtx(tok C.uintptr_t) *pollnet.Context {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	return ctxHandles[uintptr(tok)]
}

func dropCtx(tok C.uintptr_t) {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	delete(ctxHandles, uintptr(tok))
}

func goString(p *C.char) string {
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

func goBytes(p *C.char, n C.int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(p), n)
}

// copyOut implements the get-buffer contract shared by get/get_error: if
// data fits strictly inside dest_cap, copy it and return its length;
// otherwise (including an exact fit, which would leave no room for a
// terminator) copy nothing and return 0.
func copyOut(data []byte, dest *C.char, destCap C.int) C.int32_t {
	if len(data) >= int(destCap) {
		return 0
	}
	if len(data) > 0 {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(dest)), destCap)
		copy(dst, data)
	}
	return C.int32_t(len(data))
}

//export pollnet_init
func pollnet_init() C.uintptr_t {
	return C.uintptr_t(registerCtx(pollnet.New(pollnet.DefaultConfig())))
}

//export pollnet_shutdown
func pollnet_shutdown(tok C.uintptr_t) {
	if c := lookupCtx(tok); c != nil {
		c.Shutdown()
	}
	dropCtx(tok)
}

var (
	staticTokOnce sync.Once
	staticTok     uintptr
)

//export pollnet_get_or_init_static
func pollnet_get_or_init_static() C.uintptr_t {
	staticTokOnce.Do(func() {
		staticTok = registerCtx(pollnet.GetOrInitStatic())
	})
	return C.uintptr_t(staticTok)
}

//export pollnet_open_ws
func pollnet_open_ws(tok C.uintptr_t, url *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.OpenWS(goString(url)))
}

//export pollnet_listen_ws
func pollnet_listen_ws(tok C.uintptr_t, bind *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.ListenWS(goString(bind)))
}

//export pollnet_open_tcp
func pollnet_open_tcp(tok C.uintptr_t, addr *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.OpenTCP(goString(addr)))
}

//export pollnet_listen_tcp
func pollnet_listen_tcp(tok C.uintptr_t, bind *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.ListenTCP(goString(bind)))
}

//export pollnet_simple_http_get
func pollnet_simple_http_get(tok C.uintptr_t, url *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.HTTPGet(goString(url)))
}

//export pollnet_simple_http_post
func pollnet_simple_http_post(tok C.uintptr_t, url, contentType *C.char, body *C.char, bodyLen C.int) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.HTTPPost(goString(url), goString(contentType), goBytes(body, bodyLen)))
}

//export pollnet_serve_http
func pollnet_serve_http(tok C.uintptr_t, bind *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.ServeHTTP(goString(bind)))
}

//export pollnet_serve_static_http
func pollnet_serve_static_http(tok C.uintptr_t, bind, dir *C.char) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.ServeStaticHTTP(goString(bind), goString(dir)))
}

//export pollnet_close
func pollnet_close(tok C.uintptr_t, h C.uint32_t) {
	if c := lookupCtx(tok); c != nil {
		c.Close(api.Handle(h))
	}
}

//export pollnet_close_all
func pollnet_close_all(tok C.uintptr_t) {
	if c := lookupCtx(tok); c != nil {
		c.CloseAll()
	}
}

//export pollnet_status
func pollnet_status(tok C.uintptr_t, h C.uint32_t) C.int {
	c := lookupCtx(tok)
	if c == nil {
		return C.int(api.StatusInvalidHandle)
	}
	return C.int(c.Status(api.Handle(h)))
}

//export pollnet_send
func pollnet_send(tok C.uintptr_t, h C.uint32_t, text *C.char) {
	if c := lookupCtx(tok); c != nil {
		c.Send(api.Handle(h), goString(text))
	}
}

//export pollnet_send_binary
func pollnet_send_binary(tok C.uintptr_t, h C.uint32_t, buf *C.char, n C.int) {
	if c := lookupCtx(tok); c != nil {
		c.SendBinary(api.Handle(h), goBytes(buf, n))
	}
}

//export pollnet_add_virtual_file
func pollnet_add_virtual_file(tok C.uintptr_t, h C.uint32_t, name *C.char, buf *C.char, n C.int) {
	if c := lookupCtx(tok); c != nil {
		c.AddVirtualFile(api.Handle(h), goString(name), goBytes(buf, n))
	}
}

//export pollnet_remove_virtual_file
func pollnet_remove_virtual_file(tok C.uintptr_t, h C.uint32_t, name *C.char) {
	if c := lookupCtx(tok); c != nil {
		c.RemoveVirtualFile(api.Handle(h), goString(name))
	}
}

//export pollnet_update
func pollnet_update(tok C.uintptr_t, h C.uint32_t) C.int {
	c := lookupCtx(tok)
	if c == nil {
		return C.int(api.ResultInvalidHandle)
	}
	return C.int(c.Update(api.Handle(h), false))
}

//export pollnet_update_blocking
func pollnet_update_blocking(tok C.uintptr_t, h C.uint32_t) C.int {
	c := lookupCtx(tok)
	if c == nil {
		return C.int(api.ResultInvalidHandle)
	}
	return C.int(c.Update(api.Handle(h), true))
}

//export pollnet_get
func pollnet_get(tok C.uintptr_t, h C.uint32_t, dest *C.char, destCap C.int) C.int32_t {
	c := lookupCtx(tok)
	if c == nil {
		return -1
	}
	data, ok := c.GetMessage(api.Handle(h))
	if !ok {
		if c.Status(api.Handle(h)) == api.StatusInvalidHandle {
			return -1
		}
		return 0
	}
	return copyOut(data, dest, destCap)
}

//export pollnet_get_error
func pollnet_get_error(tok C.uintptr_t, h C.uint32_t, dest *C.char, destCap C.int) C.int32_t {
	c := lookupCtx(tok)
	if c == nil {
		return -1
	}
	msg, ok := c.GetError(api.Handle(h))
	if !ok {
		if c.Status(api.Handle(h)) == api.StatusInvalidHandle {
			return -1
		}
		return 0
	}
	return copyOut([]byte(msg), dest, destCap)
}

//export pollnet_get_connected_client_handle
func pollnet_get_connected_client_handle(tok C.uintptr_t, h C.uint32_t) C.uint32_t {
	c := lookupCtx(tok)
	if c == nil {
		return 0
	}
	return C.uint32_t(c.LastClient(api.Handle(h)))
}

//export pollnet_get_nanoid
func pollnet_get_nanoid(dest *C.char, destCap C.int) C.int32_t {
	return copyOut([]byte(pollnet.NewID()), dest, destCap)
}

func main() {}
