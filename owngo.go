// Package owngo provides ownership primitives for heap values whose lifetime
// is managed explicitly rather than by the garbage collector: an exclusive
// handle (Unique), a shared handle with atomic reference counting (Shared),
// and a non-owning observer (Weak) that can detect when its referent is gone.
//
// Every handle carries a release action that runs exactly once, when the last
// owner lets go. Payloads may be ordinary Go values or foreign memory; the
// cmem subpackage allocates payloads on the C heap via libc.
//
// Handles must not be copied by value. Duplicate a Shared or Weak handle with
// Clone; Unique handles transfer ownership with Move/MoveFrom and cannot be
// duplicated at all.
package owngo

import (
	"sync/atomic"

	"github.com/obinnaokechukwu/owngo/internal/handles"
)

// noCopy makes `go vet -copylocks` flag value copies of a handle.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

var leakCheck atomic.Bool

// EnableLeakCheck makes every control block created afterwards register
// itself in a live-handle registry until both of its counts reach zero.
// Intended for tests and debug builds; see LiveHandles.
func EnableLeakCheck() {
	leakCheck.Store(true)
}

// DisableLeakCheck stops registering new control blocks. Blocks registered
// while checking was enabled still unregister themselves normally.
func DisableLeakCheck() {
	leakCheck.Store(false)
}

// LeakCheckEnabled reports whether leak checking is on.
func LeakCheckEnabled() bool {
	return leakCheck.Load()
}

// LiveHandles returns the number of control blocks that were registered by
// the leak checker and have not yet been torn down. A nonzero value after all
// handles should have been released indicates a leaked Shared or Weak handle.
func LiveHandles() int {
	return handles.Count()
}

// LeakReport returns one line per live control block, for test failure
// messages. Empty when nothing is leaked or leak checking is off.
func LeakReport() []string {
	return handles.Snapshot()
}
