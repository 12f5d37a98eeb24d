package owngo

import (
	"sync/atomic"

	"github.com/obinnaokechukwu/owngo/internal/handles"
)

// control is the counting state shared by every Shared and Weak handle
// derived from one allocation: the strong count, the weak count, and the
// payload's release action.
//
// The weak count carries one extra reference held on behalf of the whole
// strong community. It is dropped by the releaseStrong call that takes the
// strong count to zero, so the block is torn down by exactly one of the two
// release paths no matter how strong and weak releases interleave.
type control struct {
	strong atomic.Int64
	weak   atomic.Int64

	// release tears down the payload. Written only by the single
	// releaseStrong call that observes the 1 -> 0 transition.
	release func()

	// leak-check registration, 0 when leak checking was off at creation.
	handle uintptr
}

// newControl returns a fresh block with strong=1 plus the strong community's
// implicit weak reference.
func newControl(release func()) *control {
	c := &control{release: release}
	c.strong.Store(1)
	c.weak.Store(1)
	if leakCheck.Load() {
		c.handle = handles.Register("owngo.control")
	}
	traceEvent(EventAllocate, c)
	return c
}

// acquireStrong increments the strong count. The caller must already hold a
// strong reference, so the count is positive at the time of the call; Weak
// upgrades go through tryUpgrade instead.
func (c *control) acquireStrong() {
	if v := c.strong.Add(1); v <= 1 {
		panic("owngo: acquiring strong count that is not positive")
	}
	traceEvent(EventStrongAcquire, c)
}

// releaseStrong decrements the strong count. The call that takes it to zero
// runs the release action, then drops the implicit weak reference; the
// release action is therefore finished before any caller of releaseStrong
// can observe a zero count and return.
func (c *control) releaseStrong() {
	v := c.strong.Add(-1)
	if v < 0 {
		panic("owngo: strong count released too often")
	}
	traceEvent(EventStrongRelease, c)
	if v == 0 {
		c.destroyPayload()
		c.releaseWeak()
	}
}

// acquireWeak increments the weak count. The caller must hold either a weak
// reference or a strong one (the implicit reference keeps the count positive
// while any strong handle lives).
func (c *control) acquireWeak() {
	if v := c.weak.Add(1); v <= 1 {
		panic("owngo: acquiring weak count that is not positive")
	}
	traceEvent(EventWeakAcquire, c)
}

// releaseWeak decrements the weak count and tears the block down when it
// reaches zero. By then the strong count is already zero and the payload has
// been destroyed.
func (c *control) releaseWeak() {
	v := c.weak.Add(-1)
	if v < 0 {
		panic("owngo: weak count released too often")
	}
	traceEvent(EventWeakRelease, c)
	if v == 0 {
		c.free()
	}
}

// tryUpgrade attempts to turn a weak reference into a strong one. It must
// read and increment in a single compare-and-swap: a plain load followed by
// an add would race with releaseStrong and resurrect a destroyed payload.
func (c *control) tryUpgrade() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			traceEvent(EventUpgradeMiss, c)
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			traceEvent(EventUpgradeHit, c)
			return true
		}
	}
}

// destroyPayload runs the release action. Only the releaseStrong call that
// observed the 1 -> 0 transition reaches here, so the nil-out needs no
// synchronization.
func (c *control) destroyPayload() {
	if r := c.release; r != nil {
		c.release = nil
		r()
	}
	traceEvent(EventPayloadReleased, c)
}

// free marks the block dead. In a collected runtime the memory itself is
// reclaimed by the GC once the last handle drops its pointer; what must
// happen exactly once here is the leak-check unregistration.
func (c *control) free() {
	if c.handle != 0 {
		handles.Unregister(c.handle)
		c.handle = 0
	}
	traceEvent(EventBlockFreed, c)
}
