// Package memutil provides the memory hygiene helpers shared by the
// primitive state types: secret zeroization and constant-time equality.
package memutil

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zero bytes. The KeepAlive fence keeps the
// stores from being elided when b is about to go out of scope.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}

// ZeroU64 overwrites a with zero words.
func ZeroU64(a []uint64) {
	for i := range a {
		a[i] = 0
	}
	runtime.KeepAlive(&a)
}

// ZeroU32 overwrites a with zero words.
func ZeroU32(a []uint32) {
	for i := range a {
		a[i] = 0
	}
	runtime.KeepAlive(&a)
}

// Equal reports whether x and y have equal contents, in time dependent
// only on their lengths. Tag verification must use this, never a
// short-circuiting byte compare.
func Equal(x, y []byte) bool {
	return subtle.ConstantTimeCompare(x, y) == 1
}
