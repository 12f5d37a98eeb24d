package owngo

import "sync"

// Pool recycles payload allocations across Unique handles.
//
// Get hands out an exclusive handle whose release action returns the payload
// to the pool instead of dropping it, so each handle still releases exactly
// once while the underlying allocation is reused.
type Pool[T any] struct {
	mu       sync.Mutex
	alloc    func() *T
	reset    func(*T)
	idle     []*T
	closed   bool
	inUse    int
	maxInUse int
}

// NewPool creates a pool. alloc produces fresh payloads (nil means new(T));
// reset, if non-nil, runs on every payload before it is handed out. If
// maxInUse <= 0, the pool is unbounded.
func NewPool[T any](alloc func() *T, reset func(*T), maxInUse int) *Pool[T] {
	if alloc == nil {
		alloc = func() *T { return new(T) }
	}
	return &Pool[T]{alloc: alloc, reset: reset, maxInUse: maxInUse}
}

// Get returns an owned handle over a pooled payload. Releasing the handle
// returns the payload to the pool.
func (p *Pool[T]) Get() (*Unique[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}
	if p.maxInUse > 0 && p.inUse >= p.maxInUse {
		return nil, ErrPoolExhausted
	}

	var v *T
	if n := len(p.idle); n > 0 {
		v = p.idle[n-1]
		p.idle = p.idle[:n-1]
	} else {
		v = p.alloc()
	}

	if p.reset != nil {
		p.reset(v)
	}
	p.inUse++
	return AdoptUnique(v, p.put), nil
}

// put is the release action of handles produced by Get.
func (p *Pool[T]) put(v *T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse--
	if p.closed {
		// Pool is closed: drop the payload.
		return
	}
	p.idle = append(p.idle, v)
}

// Close drops all idle payloads and stops handing out new ones. Payloads
// still in use are unaffected; their handles release as usual and the
// payloads are then dropped rather than pooled.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.idle = nil
}

// InUse returns the number of payloads currently handed out.
func (p *Pool[T]) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Idle returns the number of payloads waiting for reuse.
func (p *Pool[T]) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
