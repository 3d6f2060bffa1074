package pollnet

import "sync"

var (
	staticOnce sync.Once
	staticCtx  *Context
)

// GetOrInitStatic returns a single process-wide Context, constructing
// it with DefaultConfig on first use. It exists for the cmd/cabi shim,
// whose C-ABI surface has no natural place to stash a Context pointer
// between calls; every subsequent call returns the same instance. This
// Context is intentionally never torn down: it is a deliberate leak,
// accepted because the process exiting reclaims it anyway.
func GetOrInitStatic() *Context {
	staticOnce.Do(func() {
		staticCtx = New(DefaultConfig())
	})
	return staticCtx
}
