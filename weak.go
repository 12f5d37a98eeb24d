package owngo

// Weak is a non-owning observer of a shared allocation. It accounts for one
// unit of the control block's weak count, never keeps the payload alive, and
// can attempt to upgrade to a Shared handle while the payload still exists.
//
// Create one with Shared.Downgrade. The zero value is an empty, permanently
// expired handle; all methods are safe on it.
type Weak[T any] struct {
	noCopy noCopy
	// ptr is observational only: it seeds the Shared handle built by a
	// successful Lock and is never dereferenced here.
	ptr *T
	ctl *control
}

// IsNil reports whether the handle observes nothing at all.
func (w *Weak[T]) IsNil() bool {
	return w == nil || w.ctl == nil
}

// Expired reports whether the payload is already gone: the handle is empty,
// or the strong count reads zero. A false result is a point-in-time
// observation, not a guarantee that a subsequent Lock will succeed; a true
// result is final.
func (w *Weak[T]) Expired() bool {
	return w == nil || w.ctl == nil || w.ctl.strong.Load() == 0
}

// Lock attempts to upgrade to shared ownership. On success the returned
// handle owns one fresh unit of the strong count and its payload is
// guaranteed alive for as long as the handle is held. On failure — the
// payload was already released, possibly by a racing goroutine — an EMPTY
// Shared handle is returned; callers must check IsNil before Value.
func (w *Weak[T]) Lock() *Shared[T] {
	if w == nil || w.ctl == nil || !w.ctl.tryUpgrade() {
		return &Shared[T]{}
	}
	// tryUpgrade already took the strong reference; do not acquire again.
	return &Shared[T]{ptr: w.ptr, ctl: w.ctl}
}

// Clone duplicates the observer, incrementing the weak count.
// Cloning an empty handle yields another empty handle.
func (w *Weak[T]) Clone() *Weak[T] {
	if w == nil || w.ctl == nil {
		return &Weak[T]{}
	}
	w.ctl.acquireWeak()
	return &Weak[T]{ptr: w.ptr, ctl: w.ctl}
}

// Assign makes the receiver observe src's block, releasing the receiver's
// prior weak reference. Acquire-before-release ordering makes same-block and
// self-assignment safe.
func (w *Weak[T]) Assign(src *Weak[T]) {
	if w == src {
		return
	}
	var ptr *T
	var ctl *control
	if src != nil {
		ptr, ctl = src.ptr, src.ctl
	}
	if w.ctl == ctl {
		w.ptr = ptr
		return
	}
	if ctl != nil {
		ctl.acquireWeak()
	}
	old := w.ctl
	w.ptr, w.ctl = ptr, ctl
	if old != nil {
		old.releaseWeak()
	}
}

// Release drops this handle's weak reference and empties it. The control
// block is torn down only when this was the last reference of either kind.
// Safe to call multiple times; only the first is counted.
func (w *Weak[T]) Release() {
	if w == nil || w.ctl == nil {
		return
	}
	ctl := w.ctl
	w.ptr, w.ctl = nil, nil
	ctl.releaseWeak()
}
