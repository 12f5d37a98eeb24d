package owngo

import (
	"sync"
	"sync/atomic"
)

// EventKind identifies a handle lifecycle event.
type EventKind int32

// Lifecycle events delivered to the trace callback.
const (
	EventAllocate        EventKind = iota // control block created, strong=1
	EventStrongAcquire                    // Shared handle duplicated
	EventStrongRelease                    // Shared handle released
	EventWeakAcquire                      // Weak handle created or duplicated
	EventWeakRelease                      // Weak handle released
	EventPayloadReleased                  // release action has run
	EventBlockFreed                       // both counts reached zero
	EventUpgradeHit                       // Weak.Lock succeeded
	EventUpgradeMiss                      // Weak.Lock failed
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventAllocate:
		return "allocate"
	case EventStrongAcquire:
		return "strong-acquire"
	case EventStrongRelease:
		return "strong-release"
	case EventWeakAcquire:
		return "weak-acquire"
	case EventWeakRelease:
		return "weak-release"
	case EventPayloadReleased:
		return "payload-released"
	case EventBlockFreed:
		return "block-freed"
	case EventUpgradeHit:
		return "upgrade-hit"
	case EventUpgradeMiss:
		return "upgrade-miss"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle step of a control block.
//
// Strong is the strong count observed after the operation. In concurrent use
// it may be stale by the time the callback runs; treat it as advisory.
type Event struct {
	Kind   EventKind
	Strong int64
}

// TraceCallback is called synchronously for each lifecycle event, on the
// goroutine performing the operation. Events for payload release are
// delivered before the call that triggered the release returns.
type TraceCallback func(Event)

var (
	traceCallbackMu sync.Mutex
	traceCallback   TraceCallback
	traceEnabled    atomic.Bool
)

// SetTraceCallback installs a lifecycle event handler. Pass nil to disable
// tracing. With tracing disabled, handle operations pay a single atomic load.
func SetTraceCallback(cb TraceCallback) {
	traceCallbackMu.Lock()
	defer traceCallbackMu.Unlock()
	traceCallback = cb
	traceEnabled.Store(cb != nil)
}

func traceEvent(kind EventKind, c *control) {
	if !traceEnabled.Load() {
		return
	}
	traceCallbackMu.Lock()
	cb := traceCallback
	traceCallbackMu.Unlock()
	if cb == nil {
		return
	}
	cb(Event{Kind: kind, Strong: c.strong.Load()})
}
