// Package qsc is a quantum-secure cryptographic library.
//
// The library provides the Keccak permutation and its derived
// constructions (SHA3, SHAKE, cSHAKE, KMAC, KPA), the AES round engine
// with ECB/CBC/CTR modes, the RCS and CSX-512 authenticated ciphers, the
// Poly1305 one-time authenticator, the SCB memory-hard key derivation
// function, an entropy aggregation provider, and a uniform harness over
// post-quantum key-encapsulation and signature schemes.
//
// Each primitive lives in its own package; this package holds the error
// taxonomy shared by all of them.
package qsc

import "errors"

// The closed error set. Fallible operations across the library return
// one of these values, possibly wrapped with call-site context.
var (
	// ErrAuthFailure is returned on a MAC or tag mismatch, and on
	// signature verification failure.
	ErrAuthFailure = errors.New("qsc: authentication failure")

	// ErrLengthOverflow is returned when a caller requests more output
	// than a provider's documented maximum.
	ErrLengthOverflow = errors.New("qsc: requested length exceeds maximum")

	// ErrInvalidParameter is returned when a seed length, cost bound, or
	// buffer length violates the stated contract.
	ErrInvalidParameter = errors.New("qsc: invalid parameter")

	// ErrOutOfMemory is returned when a transient working buffer could
	// not be allocated.
	ErrOutOfMemory = errors.New("qsc: allocation failed")

	// ErrEntropyFailure is returned when an underlying entropy source
	// fails; the aggregator propagates it.
	ErrEntropyFailure = errors.New("qsc: entropy source failure")
)
