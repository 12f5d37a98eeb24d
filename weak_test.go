package owngo

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestWeak_DoesNotKeepPayloadAlive(t *testing.T) {
	releases := 0
	payload := 42
	s := AdoptShared(&payload, func(*int) { releases++ })

	weaks := []*Weak[int]{s.Downgrade(), s.Downgrade(), s.Downgrade()}
	for _, w := range weaks {
		if w.Expired() {
			t.Fatal("weak handle expired while a strong owner is live")
		}
	}

	s.Release()
	if releases != 1 {
		t.Fatalf("release action fired %d times, want 1", releases)
	}
	for i, w := range weaks {
		if !w.Expired() {
			t.Fatalf("weak handle %d not expired after last strong release", i)
		}
		if h := w.Lock(); !h.IsNil() {
			t.Fatalf("Lock on expired weak handle %d returned a non-empty handle", i)
		}
		w.Release()
	}
}

func TestWeak_LockWhileAlive(t *testing.T) {
	s := NewShared("hello")
	w := s.Downgrade()
	defer w.Release()

	h := w.Lock()
	if h.IsNil() {
		t.Fatal("Lock failed while a strong owner is live")
	}
	if got := h.Value(); got != "hello" {
		t.Fatalf("locked Value: got %q want %q", got, "hello")
	}
	if got := s.UseCount(); got != 2 {
		t.Fatalf("UseCount after Lock: got %d want 2", got)
	}

	h.Release()
	s.Release()
}

func TestWeak_ControlBlockOutlivesStrong(t *testing.T) {
	EnableLeakCheck()
	defer DisableLeakCheck()

	before := LiveHandles()
	s := NewShared(1)
	w := s.Downgrade()

	if got := LiveHandles(); got != before+1 {
		t.Fatalf("live handles after allocation: got %d want %d", got, before+1)
	}

	// The payload dies with the last strong owner, but the control block must
	// stay behind for the surviving weak handle.
	s.Release()
	if got := LiveHandles(); got != before+1 {
		t.Fatalf("control block freed while a weak handle survives: live=%d want %d", got, before+1)
	}
	if !w.Expired() {
		t.Fatal("Expired should be true, and well-defined, past the last strong release")
	}

	w.Release()
	if got := LiveHandles(); got != before {
		t.Fatalf("control block not freed after last weak release: live=%d want %d", got, before)
	}
}

func TestWeak_CloneAndAssign(t *testing.T) {
	s := NewShared(1)
	w := s.Downgrade()
	w2 := w.Clone()
	if w2.Expired() {
		t.Fatal("cloned weak handle should observe the live block")
	}

	// Self-assign and same-block assign must not disturb anything.
	w.Assign(w)
	w.Assign(w2)
	if w.Expired() {
		t.Fatal("assignment between aliases expired the handle")
	}

	s2 := NewShared(2)
	wOther := s2.Downgrade()
	w.Assign(wOther)
	if w.Expired() {
		t.Fatal("weak handle should observe the second block after Assign")
	}

	s.Release()
	if !w2.Expired() {
		t.Fatal("w2 should expire with its block's last strong owner")
	}
	if w.Expired() {
		t.Fatal("w observes the second block and must not expire yet")
	}

	s2.Release()
	w.Release()
	w2.Release()
	wOther.Release()
}

func TestWeak_ZeroValue(t *testing.T) {
	var w Weak[int]
	if !w.Expired() {
		t.Fatal("zero-value weak handle should be expired")
	}
	if h := w.Lock(); !h.IsNil() {
		t.Fatal("Lock on zero-value weak handle should return an empty handle")
	}
	if c := w.Clone(); !c.Expired() {
		t.Fatal("clone of zero-value weak handle should be expired")
	}
	w.Release() // no-op
}

func TestWeak_ReleaseIdempotent(t *testing.T) {
	EnableLeakCheck()
	defer DisableLeakCheck()

	before := LiveHandles()
	s := NewShared(1)
	w := s.Downgrade()
	s.Release()

	w.Release()
	w.Release()
	if got := LiveHandles(); got != before {
		t.Fatalf("live handles after double weak release: got %d want %d", got, before)
	}
}

// Scenario: factory -> clone -> weak -> release all strong owners.
func TestWeak_LifecycleScenario(t *testing.T) {
	releases := 0
	payload := 42
	s1 := AdoptShared(&payload, func(*int) { releases++ })
	if got := s1.UseCount(); got != 1 {
		t.Fatalf("UseCount after factory: got %d want 1", got)
	}

	s2 := s1.Clone()
	if got := s2.UseCount(); got != 2 {
		t.Fatalf("UseCount after clone: got %d want 2", got)
	}

	w := s1.Downgrade()
	defer w.Release()
	if w.Expired() {
		t.Fatal("weak handle expired with two strong owners live")
	}

	s1.Release()
	s2.Release()
	if releases != 1 {
		t.Fatalf("release action fired %d times, want 1", releases)
	}
	if !w.Expired() {
		t.Fatal("weak handle should be expired after both strong releases")
	}
	if h := w.Lock(); !h.IsNil() {
		t.Fatal("Lock after expiry should return an empty handle")
	}
}

func TestWeak_UpgradeRaceSafety(t *testing.T) {
	const rounds = 100
	const lockers = 4

	for round := 0; round < rounds; round++ {
		var released atomic.Bool
		payload := 42
		s := AdoptShared(&payload, func(*int) { released.Store(true) })
		w := s.Downgrade()

		start := make(chan struct{})
		var g errgroup.Group
		for i := 0; i < lockers; i++ {
			g.Go(func() error {
				<-start
				for {
					h := w.Lock()
					if h.IsNil() {
						return nil
					}
					// A successful upgrade must never observe a payload that
					// was already released.
					if released.Load() {
						return errors.New("Lock returned a handle over a released payload")
					}
					if got := h.Value(); got != 42 {
						return fmt.Errorf("payload corrupted under race: got %d want 42", got)
					}
					h.Release()
				}
			})
		}
		g.Go(func() error {
			<-start
			s.Release()
			return nil
		})

		close(start)
		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}
		if !released.Load() {
			t.Fatal("payload never released after all strong owners were gone")
		}
		w.Release()
	}
}
