package owngo

// Unique is an exclusive-ownership handle: at most one live Unique ever
// references a given payload. Ownership moves with Move/MoveFrom; there is no
// way to duplicate it, and value copies are flagged by go vet.
//
// The zero value is an empty handle; all methods are safe on it.
type Unique[T any] struct {
	noCopy  noCopy
	ptr     *T
	release func(*T)
}

// NewUnique allocates a payload holding v and returns an exclusive handle
// over it, with the default release action (drop the reference).
func NewUnique[T any](v T) *Unique[T] {
	return AdoptUnique(&v, nil)
}

// AdoptUnique takes exclusive ownership of an existing pointer. No allocation
// is performed. release, if non-nil, runs exactly once when ownership ends;
// it may have observable side effects, which complete before the releasing
// call returns. A nil ptr yields an empty handle and release never runs.
//
// The caller must not retain or free ptr after handing it over.
func AdoptUnique[T any](ptr *T, release func(*T)) *Unique[T] {
	if ptr == nil {
		return &Unique[T]{}
	}
	return &Unique[T]{ptr: ptr, release: release}
}

// IsNil reports whether the handle is empty.
func (u *Unique[T]) IsNil() bool {
	return u == nil || u.ptr == nil
}

// Get returns the payload pointer without transferring ownership.
// Returns nil on an empty handle.
func (u *Unique[T]) Get() *T {
	if u == nil {
		return nil
	}
	return u.ptr
}

// Value dereferences the payload.
//
// Calling Value on an empty handle is a precondition violation and panics.
// Use Get when emptiness is a possibility.
func (u *Unique[T]) Value() T {
	if u == nil || u.ptr == nil {
		panic("owngo: dereference of empty Unique handle")
	}
	return *u.ptr
}

// Move transfers ownership into a fresh handle and leaves the receiver
// empty. The receiver's later Release is then a no-op.
func (u *Unique[T]) Move() *Unique[T] {
	if u == nil || u.ptr == nil {
		return &Unique[T]{}
	}
	m := &Unique[T]{ptr: u.ptr, release: u.release}
	u.ptr, u.release = nil, nil
	return m
}

// MoveFrom releases the receiver's current payload, then takes ownership
// from src, leaving src empty. Moving a handle onto itself is a no-op, so
// self-move never double-releases.
func (u *Unique[T]) MoveFrom(src *Unique[T]) {
	if u == src || src == nil {
		return
	}
	u.Release()
	u.ptr, u.release = src.ptr, src.release
	src.ptr, src.release = nil, nil
}

// Release ends ownership: runs the release action exactly once if the handle
// is non-empty, then empties it. Safe to call multiple times.
func (u *Unique[T]) Release() {
	if u == nil || u.ptr == nil {
		return
	}
	ptr, r := u.ptr, u.release
	u.ptr, u.release = nil, nil
	if r != nil {
		r(ptr)
	}
}
