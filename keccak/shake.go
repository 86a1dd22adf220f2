// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keccak

import "encoding/binary"

// NewShake128 creates a SHAKE-128 XOF. Its generic security strength is
// 128 bits against all attacks if at least 32 bytes of output are used.
func NewShake128() *State { return &State{rate: Rate128, dsbyte: domainShake} }

// NewShake256 creates a SHAKE-256 XOF.
func NewShake256() *State { return &State{rate: Rate256, dsbyte: domainShake} }

// NewShake512 creates the 512-bit-strength SHAKE variant used by the
// wide constructions (rate 72).
func NewShake512() *State { return &State{rate: Rate512, dsbyte: domainShake} }

// ShakeSum128 writes an arbitrary-length digest of data into hash.
func ShakeSum128(hash, data []byte) {
	d := NewShake128()
	d.Absorb(data)
	d.Squeeze(hash)
}

// ShakeSum256 writes an arbitrary-length digest of data into hash.
func ShakeSum256(hash, data []byte) {
	d := NewShake256()
	d.Absorb(data)
	d.Squeeze(hash)
}

// ShakeSum512 writes an arbitrary-length digest of data into hash.
func ShakeSum512(hash, data []byte) {
	d := NewShake512()
	d.Absorb(data)
	d.Squeeze(hash)
}

// leftEncode returns the SP800-185 left encoding of v: one length byte
// followed by the minimal big-endian bytes of v.
func leftEncode(v uint64) []byte {
	var b [9]byte
	binary.BigEndian.PutUint64(b[1:], v)
	i := 1
	for i < 8 && b[i] == 0 {
		i++
	}
	b[i-1] = byte(9 - i)
	return b[i-1:]
}

// rightEncode returns the SP800-185 right encoding of v: the minimal
// big-endian bytes of v followed by one length byte.
func rightEncode(v uint64) []byte {
	var b [9]byte
	binary.BigEndian.PutUint64(b[:8], v)
	i := 0
	for i < 7 && b[i] == 0 {
		i++
	}
	b[8] = byte(8 - i)
	return b[i:]
}

// newCShake builds a cSHAKE sponge for the given rate. With an empty
// name and custom string the construction degrades to plain SHAKE, per
// SP800-185.
func newCShake(rate int, name, custom []byte) *State {
	checkRate(rate)
	if len(name) == 0 && len(custom) == 0 {
		return &State{rate: rate, dsbyte: domainShake}
	}
	d := &State{rate: rate, dsbyte: domainCShake}
	d.Absorb(leftEncode(uint64(rate)))
	d.Absorb(leftEncode(uint64(len(name)) * 8))
	d.Absorb(name)
	d.Absorb(leftEncode(uint64(len(custom)) * 8))
	d.Absorb(custom)
	d.fillBlock()
	return d
}

// NewCShake128 creates a cSHAKE-128 XOF customized by a function name
// and a customization string.
func NewCShake128(name, custom []byte) *State { return newCShake(Rate128, name, custom) }

// NewCShake256 creates a cSHAKE-256 XOF.
func NewCShake256(name, custom []byte) *State { return newCShake(Rate256, name, custom) }

// NewCShake512 creates the 512-bit-strength cSHAKE variant.
func NewCShake512(name, custom []byte) *State { return newCShake(Rate512, name, custom) }

// NewCShake creates a cSHAKE sponge with an explicit rate.
func NewCShake(rate int, name, custom []byte) *State { return newCShake(rate, name, custom) }
