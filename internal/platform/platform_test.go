//go:build (darwin || linux || freebsd) && (amd64 || arm64)

package platform

import "testing"

func TestLibcCandidates(t *testing.T) {
	candidates := LibcCandidates()
	if len(candidates) == 0 {
		t.Fatal("expected at least one libc candidate")
	}
	for _, name := range candidates {
		if name == "" {
			t.Fatal("empty libc candidate name")
		}
	}
}

func TestIs64Bit(t *testing.T) {
	if !Is64Bit {
		t.Fatal("supported platforms are 64-bit only")
	}
}

func TestGOOSAndGOARCH(t *testing.T) {
	if GOOS() == "" {
		t.Fatal("GOOS should not be empty")
	}
	if GOARCH() == "" {
		t.Fatal("GOARCH should not be empty")
	}
}
