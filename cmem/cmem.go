//go:build (darwin || linux || freebsd) && (amd64 || arm64)

// Package cmem allocates payload buffers on the C heap via libc, outside the
// Go garbage collector. Allocations are returned as owngo handles whose
// release action calls free, so the usual exactly-once guarantees apply to
// memory the runtime will never reclaim on its own.
//
// The libc binding is loaded lazily through purego; no CGO is involved.
package cmem

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/owngo"
	"github.com/obinnaokechukwu/owngo/internal/platform"
)

// ErrLibcNotFound is returned when no libc candidate can be loaded.
var ErrLibcNotFound = errors.New("cmem: C library not found")

// ErrOutOfMemory indicates malloc returned NULL.
var ErrOutOfMemory = errors.New("cmem: out of memory")

// ErrBadSize indicates a non-positive allocation size.
var ErrBadSize = errors.New("cmem: allocation size must be positive")

// libc bindings
var (
	libc uintptr

	cMalloc func(size uintptr) unsafe.Pointer
	cFree   func(ptr unsafe.Pointer)
	cMemset func(ptr unsafe.Pointer, c int32, n uintptr) unsafe.Pointer

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Load binds malloc/free from libc. It is called automatically by Alloc and
// is safe to call multiple times; subsequent calls are no-ops. Returns an
// error if no libc candidate can be opened.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

// IsLoaded returns true if the libc binding is ready.
func IsLoaded() bool {
	return loaded
}

func doLoad() error {
	candidates := platform.LibcCandidates()
	for _, name := range candidates {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			libc = h
			break
		}
	}
	if libc == 0 {
		return fmt.Errorf("%w: tried %v", ErrLibcNotFound, candidates)
	}

	purego.RegisterLibFunc(&cMalloc, libc, "malloc")
	purego.RegisterLibFunc(&cFree, libc, "free")
	purego.RegisterLibFunc(&cMemset, libc, "memset")
	return nil
}

// Buffer is a byte region on the C heap. The GC neither moves nor frees it;
// it lives until Free runs.
type Buffer struct {
	ptr  unsafe.Pointer
	size int
}

// Alloc reserves size zeroed bytes on the C heap. The caller owns the
// result and must arrange for Free to run, typically by wrapping the buffer
// in a handle via AllocUnique or AllocShared.
func Alloc(size int) (*Buffer, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}

	p := cMalloc(uintptr(size))
	if p == nil {
		return nil, ErrOutOfMemory
	}
	cMemset(p, 0, uintptr(size))
	return &Buffer{ptr: p, size: size}, nil
}

// Free releases the buffer back to the C heap and empties it.
// Safe to call multiple times; only the first call frees.
func Free(b *Buffer) {
	if b == nil || b.ptr == nil {
		return
	}
	p := b.ptr
	b.ptr, b.size = nil, 0
	cFree(p)
}

// IsNil reports whether the buffer has been freed or never allocated.
func (b *Buffer) IsNil() bool {
	return b == nil || b.ptr == nil
}

// Size returns the allocation size in bytes, 0 after Free.
func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Bytes returns the buffer's contents as a slice aliasing the C allocation.
// The slice is valid only until Free runs; nil for a freed buffer.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// AllocUnique allocates a C-heap buffer owned by an exclusive handle.
// Releasing the handle frees the C allocation.
func AllocUnique(size int) (*owngo.Unique[Buffer], error) {
	b, err := Alloc(size)
	if err != nil {
		return nil, err
	}
	return owngo.AdoptUnique(b, Free), nil
}

// AllocShared allocates a C-heap buffer owned by a shared handle. The C
// allocation is freed exactly once, when the last strong owner releases.
func AllocShared(size int) (*owngo.Shared[Buffer], error) {
	b, err := Alloc(size)
	if err != nil {
		return nil, err
	}
	return owngo.AdoptShared(b, Free), nil
}
