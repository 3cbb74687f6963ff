package matc

import (
	"errors"
	"sync/atomic"
)

// ErrNotAcquired is reported when Build is called without a live
// toolchain context.
var ErrNotAcquired = errors.New("matc: toolchain context not acquired (call Acquire before Build)")

// activeClients counts live toolchain contexts across the process. Build
// refuses to run at zero: the count gates that the shader toolchain has
// been initialized before any compilation starts.
var activeClients atomic.Int32

// Context represents one acquired reference to the process-wide shader
// toolchain. Acquire it once per client (typically per CLI invocation or
// per embedding engine) and release it when done; builds require a live
// context as an explicit precondition.
type Context struct {
	released atomic.Bool
}

// Acquire registers a toolchain client and returns its context.
// Safe for concurrent use.
func Acquire() *Context {
	activeClients.Add(1)
	return &Context{}
}

// Release drops the context's reference. Releasing twice is a no-op.
func (c *Context) Release() {
	if c.released.Swap(true) {
		return
	}
	activeClients.Add(-1)
}

// alive reports whether the context still holds its reference.
func (c *Context) alive() bool {
	return c != nil && !c.released.Load() && activeClients.Load() > 0
}
