// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keccak

// New256 creates a SHA3-256 hash. It implements hash.Hash.
func New256() *State {
	return &State{rate: Rate256, dsbyte: domainSHA3, outputSize: 32}
}

// New384 creates a SHA3-384 hash.
func New384() *State {
	return &State{rate: Rate384, dsbyte: domainSHA3, outputSize: 48}
}

// New512 creates a SHA3-512 hash.
func New512() *State {
	return &State{rate: Rate512, dsbyte: domainSHA3, outputSize: 64}
}

// Sum256 returns the SHA3-256 digest of data.
func Sum256(data []byte) [32]byte {
	var out [32]byte
	d := New256()
	d.Absorb(data)
	d.Squeeze(out[:])
	return out
}

// Sum384 returns the SHA3-384 digest of data.
func Sum384(data []byte) [48]byte {
	var out [48]byte
	d := New384()
	d.Absorb(data)
	d.Squeeze(out[:])
	return out
}

// Sum512 returns the SHA3-512 digest of data.
func Sum512(data []byte) [64]byte {
	var out [64]byte
	d := New512()
	d.Absorb(data)
	d.Squeeze(out[:])
	return out
}
