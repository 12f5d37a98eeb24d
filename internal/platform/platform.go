//go:build (darwin || linux || freebsd) && (amd64 || arm64)

// Package platform resolves the per-OS C library that cmem binds against.
package platform

import (
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// cmem only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibcCandidates returns the shared library names to try, most specific
// first, when binding the C allocator.
//
// Examples:
//   - Linux:  "libc.so.6", then "libc.so"
//   - macOS:  "/usr/lib/libSystem.B.dylib"
func LibcCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/usr/lib/libSystem.B.dylib", "libSystem.B.dylib"}
	case "freebsd":
		return []string{"libc.so.7", "libc.so"}
	default: // linux
		return []string{"libc.so.6", "libc.so"}
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
