// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keccak

// KMAC is the SP800-185 Keccak message authentication code: a cSHAKE
// instance named "KMAC" keyed by a byte-padded key block.
type KMAC struct {
	s       State
	initial State
	tagSize int
}

func newKMAC(rate int, key, custom []byte, tagSize int) *KMAC {
	d := newCShake(rate, []byte("KMAC"), custom)
	d.Absorb(leftEncode(uint64(rate)))
	d.Absorb(leftEncode(uint64(len(key)) * 8))
	d.Absorb(key)
	d.fillBlock()
	k := &KMAC{s: *d, initial: *d, tagSize: tagSize}
	return k
}

// NewKMAC128 creates a KMAC-128 instance producing tags of tagSize
// bytes. The custom string may be empty.
func NewKMAC128(key, custom []byte, tagSize int) *KMAC {
	return newKMAC(Rate128, key, custom, tagSize)
}

// NewKMAC256 creates a KMAC-256 instance.
func NewKMAC256(key, custom []byte, tagSize int) *KMAC {
	return newKMAC(Rate256, key, custom, tagSize)
}

// NewKMAC512 creates the 512-bit-strength KMAC variant.
func NewKMAC512(key, custom []byte, tagSize int) *KMAC {
	return newKMAC(Rate512, key, custom, tagSize)
}

// Write absorbs message bytes into the MAC.
func (k *KMAC) Write(p []byte) (int, error) {
	k.s.Absorb(p)
	return len(p), nil
}

// Absorb absorbs message bytes into the MAC.
func (k *KMAC) Absorb(p []byte) { k.s.Absorb(p) }

// Finalize appends the output-length encoding, closes the sponge, and
// fills tag. The instance must be Reset before reuse.
func (k *KMAC) Finalize(tag []byte) {
	k.s.Absorb(rightEncode(uint64(len(tag)) * 8))
	k.s.Squeeze(tag)
}

// Sum finalizes a copy of the MAC and appends the tag to in.
func (k *KMAC) Sum(in []byte) []byte {
	dup := k.s
	dup.Absorb(rightEncode(uint64(k.tagSize) * 8))
	tag := make([]byte, k.tagSize)
	dup.Squeeze(tag)
	return append(in, tag...)
}

// Size returns the tag size in bytes.
func (k *KMAC) Size() int { return k.tagSize }

// BlockSize returns the underlying sponge rate.
func (k *KMAC) BlockSize() int { return k.s.rate }

// Reset restores the keyed initial state, discarding absorbed input.
func (k *KMAC) Reset() { k.s = k.initial }

// Dispose overwrites the keyed states. Idempotent.
func (k *KMAC) Dispose() {
	k.s.Dispose()
	k.initial.Dispose()
}
