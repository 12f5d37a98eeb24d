// Package handles tracks live control blocks for leak diagnostics.
//
// When leak checking is enabled, every control block registers itself here at
// creation and unregisters when both of its counts reach zero. A nonzero
// Count after a test has released everything points at a leaked handle.
package handles

import "sync"

var (
	mu     sync.RWMutex
	live   = make(map[uintptr]string)
	nextID uintptr = 1
)

// Register records a live owner description and returns its registration ID.
//
// Thread-safe.
func Register(owner string) uintptr {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	live[id] = owner
	return id
}

// Unregister removes a registration. Unknown IDs are ignored.
//
// Thread-safe.
func Unregister(id uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(live, id)
}

// Count returns the number of live registrations.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(live)
}

// Snapshot returns the descriptions of all live registrations, for leak
// reports. Order is unspecified.
//
// Thread-safe.
func Snapshot() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(live))
	for _, owner := range live {
		out = append(out, owner)
	}
	return out
}
