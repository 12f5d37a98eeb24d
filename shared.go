package owngo

// Shared is a duplicable ownership handle backed by an atomically
// reference-counted control block. Every live Shared handle accounts for one
// unit of the block's strong count; the payload's release action runs exactly
// once, when the last strong owner lets go.
//
// Duplicate with Clone, never by value copy. The zero value is an empty
// handle; all methods are safe on it.
type Shared[T any] struct {
	noCopy noCopy
	ptr    *T
	ctl    *control
}

// NewShared allocates a payload holding v together with a fresh control
// block (strong=1, weak=0) and returns a shared handle over both. This is
// the preferred factory: the payload is never visible without its block.
func NewShared[T any](v T) *Shared[T] {
	return AdoptShared(&v, nil)
}

// AdoptShared takes shared ownership of an existing pointer, allocating a
// fresh control block for it. release, if non-nil, runs exactly once when
// the last strong owner releases; nil means the default action (drop the
// reference). A nil ptr yields an empty handle.
//
// Adopting the same pointer twice creates two independent control blocks and
// two independent releases; the caller must not do that.
func AdoptShared[T any](ptr *T, release func(*T)) *Shared[T] {
	if ptr == nil {
		return &Shared[T]{}
	}
	var action func()
	if release != nil {
		action = func() { release(ptr) }
	}
	return &Shared[T]{ptr: ptr, ctl: newControl(action)}
}

// IsNil reports whether the handle is empty.
func (s *Shared[T]) IsNil() bool {
	return s == nil || s.ctl == nil
}

// Get returns the payload pointer without affecting the count.
// Returns nil on an empty handle.
func (s *Shared[T]) Get() *T {
	if s == nil {
		return nil
	}
	return s.ptr
}

// Value dereferences the payload.
//
// Calling Value on an empty handle is a precondition violation and panics.
// In particular, the result of Weak.Lock must be checked with IsNil first.
func (s *Shared[T]) Value() T {
	if s == nil || s.ptr == nil {
		panic("owngo: dereference of empty Shared handle")
	}
	return *s.ptr
}

// UseCount returns the current strong count, or 0 for an empty handle.
// Advisory: under concurrency the value may be stale as soon as it is read.
func (s *Shared[T]) UseCount() int64 {
	if s == nil || s.ctl == nil {
		return 0
	}
	return s.ctl.strong.Load()
}

// Clone duplicates the handle, incrementing the strong count.
// Cloning an empty handle yields another empty handle.
func (s *Shared[T]) Clone() *Shared[T] {
	if s == nil || s.ctl == nil {
		return &Shared[T]{}
	}
	s.ctl.acquireStrong()
	return &Shared[T]{ptr: s.ptr, ctl: s.ctl}
}

// Assign makes the receiver share src's ownership, releasing whatever the
// receiver owned before. The new reference is acquired before the old one is
// dropped, so assigning between handles of the same block, or a handle to
// itself, never releases prematurely.
func (s *Shared[T]) Assign(src *Shared[T]) {
	if s == src {
		return
	}
	var ptr *T
	var ctl *control
	if src != nil {
		ptr, ctl = src.ptr, src.ctl
	}
	if s.ctl == ctl {
		s.ptr = ptr
		return
	}
	if ctl != nil {
		ctl.acquireStrong()
	}
	old := s.ctl
	s.ptr, s.ctl = ptr, ctl
	if old != nil {
		old.releaseStrong()
	}
}

// Move transfers the receiver's ownership into a fresh handle without
// touching the counts. The receiver becomes empty.
func (s *Shared[T]) Move() *Shared[T] {
	if s == nil || s.ctl == nil {
		return &Shared[T]{}
	}
	m := &Shared[T]{ptr: s.ptr, ctl: s.ctl}
	s.ptr, s.ctl = nil, nil
	return m
}

// MoveFrom releases the receiver's current ownership, then takes src's
// without touching the counts, leaving src empty. Self-move is a no-op.
func (s *Shared[T]) MoveFrom(src *Shared[T]) {
	if s == src || src == nil {
		return
	}
	s.Release()
	s.ptr, s.ctl = src.ptr, src.ctl
	src.ptr, src.ctl = nil, nil
}

// Downgrade derives a non-owning Weak handle, incrementing the weak count.
// The strong count is untouched. Downgrading an empty handle yields an empty
// (already expired) Weak handle.
func (s *Shared[T]) Downgrade() *Weak[T] {
	if s == nil || s.ctl == nil {
		return &Weak[T]{}
	}
	s.ctl.acquireWeak()
	return &Weak[T]{ptr: s.ptr, ctl: s.ctl}
}

// Release drops this handle's strong ownership and empties it. The last
// strong owner's Release runs the payload's release action before returning,
// which makes expiry of derived Weak handles observable deterministically.
// Safe to call multiple times; only the first is counted.
//
// Release only ever gives up the receiver's own unit of the strong count; it
// makes no assumption about other handles aliasing the same block.
func (s *Shared[T]) Release() {
	if s == nil || s.ctl == nil {
		return
	}
	ctl := s.ctl
	s.ptr, s.ctl = nil, nil
	ctl.releaseStrong()
}
