package owngo

import "errors"

// Common errors
var (
	// ErrPoolClosed indicates the pool has been closed.
	ErrPoolClosed = errors.New("owngo: pool is closed")

	// ErrPoolExhausted indicates the pool's in-use limit has been reached.
	ErrPoolExhausted = errors.New("owngo: pool exhausted")
)
