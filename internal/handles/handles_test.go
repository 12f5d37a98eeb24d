package handles

import (
	"sync"
	"testing"
)

func TestRegisterUnregisterCount(t *testing.T) {
	before := Count()

	id := Register("test.owner")
	if id == 0 {
		t.Error("Register should return a non-zero id")
	}
	if got := Count(); got != before+1 {
		t.Errorf("Count after Register: got %d want %d", got, before+1)
	}

	Unregister(id)
	if got := Count(); got != before {
		t.Errorf("Count after Unregister: got %d want %d", got, before)
	}
}

func TestSnapshotContainsOwner(t *testing.T) {
	id := Register("snapshot.owner")
	defer Unregister(id)

	found := false
	for _, owner := range Snapshot() {
		if owner == "snapshot.owner" {
			found = true
		}
	}
	if !found {
		t.Errorf("Snapshot missing registered owner: %v", Snapshot())
	}
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	before := Count()
	Unregister(999999)
	if got := Count(); got != before {
		t.Errorf("Count changed by unknown Unregister: got %d want %d", got, before)
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				id := Register("concurrent.owner")
				Unregister(id)
			}
		}()
	}

	wg.Wait()
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		id := Register("unique.owner")
		if seen[id] {
			t.Errorf("id %d was returned twice", id)
		}
		seen[id] = true
	}

	for id := range seen {
		Unregister(id)
	}
}
