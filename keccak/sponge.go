// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keccak implements the Keccak-f[1600] permutation and the
// sponge constructions built from it: the SHA3 fixed-output hashes, the
// SHAKE and cSHAKE extendable-output functions, the KMAC message
// authentication code, and the KPA eight-lane parallel MAC, together
// with four- and eight-lane interleaved permutation states.
//
// A sponge absorbs input in rate-sized blocks, applying the permutation
// between blocks, and squeezes output the same way. The capacity bytes
// (200 minus the rate) are never touched by input or output.
package keccak

import (
	"encoding/binary"

	"github.com/qrcs-corp/go-qsc/internal/memutil"
)

// StateSize is the width of the Keccak-f[1600] sponge in bytes.
const StateSize = 200

// The four supported absorption rates, in bytes.
const (
	Rate128 = 168 // SHAKE-128, cSHAKE-128, KMAC-128
	Rate256 = 136 // SHA3-256, SHAKE-256, cSHAKE-256, KMAC-256
	Rate384 = 104 // SHA3-384 and the 384-bit XOF variants
	Rate512 = 72  // SHA3-512, SHAKE-512, cSHAKE-512, KMAC-512

	maxRate = Rate128
)

// Domain separation bytes appended ahead of the 10*1 padding.
const (
	// DomainSHA3 marks the fixed-output hashes.
	DomainSHA3 = 0x06
	// DomainShake marks the plain XOFs.
	DomainShake = 0x1F
	// DomainCShake marks the SP800-185 constructions (cSHAKE, KMAC, KPA).
	DomainCShake = 0x04

	domainSHA3   = DomainSHA3
	domainShake  = DomainShake
	domainCShake = DomainCShake
)

// State is a Keccak sponge: 25 64-bit lanes plus a byte position within
// the current block. The zero value is not usable; obtain instances
// from the constructors.
type State struct {
	a          [25]uint64
	buf        [maxRate]byte
	rate       int
	position   int
	dsbyte     byte
	outputSize int
	squeezing  bool
}

// NewState creates a sponge with an explicit rate and domain byte. The
// rate must be one of Rate128, Rate256, Rate384 or Rate512.
func NewState(rate int, dsbyte byte) *State {
	checkRate(rate)
	return &State{rate: rate, dsbyte: dsbyte}
}

func checkRate(rate int) {
	switch rate {
	case Rate128, Rate256, Rate384, Rate512:
	default:
		panic("keccak: unsupported rate")
	}
}

// Rate returns the number of bytes absorbed or squeezed per permutation.
func (d *State) Rate() int { return d.rate }

// BlockSize returns the rate, satisfying hash.Hash.
func (d *State) BlockSize() int { return d.rate }

// Size returns the default output size in bytes; zero for an XOF.
func (d *State) Size() int { return d.outputSize }

// Reset returns the sponge to its freshly-constructed state.
func (d *State) Reset() {
	memutil.ZeroU64(d.a[:])
	memutil.Zero(d.buf[:])
	d.position = 0
	d.squeezing = false
}

// Dispose overwrites the sponge state. Disposing an already-disposed
// state is a no-op.
func (d *State) Dispose() { d.Reset() }

// Clone returns an independent copy of the sponge in its current state.
func (d *State) Clone() *State {
	dup := *d
	return &dup
}

func xorIn(a *[25]uint64, buf []byte) {
	for i := 0; i < len(buf)/8; i++ {
		a[i] ^= binary.LittleEndian.Uint64(buf[i*8:])
	}
}

func copyOut(buf []byte, a *[25]uint64) {
	for i := 0; i < len(buf)/8; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], a[i])
	}
}

// Absorb xors input into the sponge, permuting each time a full rate of
// input has accumulated. Absorbing after squeezing has begun is a
// caller bug and panics.
func (d *State) Absorb(p []byte) {
	if d.squeezing {
		panic("keccak: absorb after squeeze")
	}
	for len(p) > 0 {
		if d.position == 0 && len(p) >= d.rate {
			// Full block straight from the input.
			xorIn(&d.a, p[:d.rate])
			permute(&d.a)
			p = p[d.rate:]
			continue
		}
		n := copy(d.buf[d.position:d.rate], p)
		d.position += n
		p = p[n:]
		if d.position == d.rate {
			xorIn(&d.a, d.buf[:d.rate])
			permute(&d.a)
			d.position = 0
		}
	}
}

// Write absorbs p, satisfying io.Writer and hash.Hash.
func (d *State) Write(p []byte) (int, error) {
	d.Absorb(p)
	return len(p), nil
}

// padAndPermute appends the domain byte and the final padding bit,
// permutes, and switches the sponge to squeezing.
func (d *State) padAndPermute() {
	for i := d.position; i < d.rate; i++ {
		d.buf[i] = 0
	}
	d.buf[d.position] = d.dsbyte
	d.buf[d.rate-1] |= 0x80
	xorIn(&d.a, d.buf[:d.rate])
	permute(&d.a)
	copyOut(d.buf[:d.rate], &d.a)
	d.position = 0
	d.squeezing = true
}

// fillBlock zero-pads the pending input to a rate boundary and permutes.
// It implements the bytepad step of the SP800-185 constructions.
func (d *State) fillBlock() {
	if d.position == 0 {
		return
	}
	for i := d.position; i < d.rate; i++ {
		d.buf[i] = 0
	}
	xorIn(&d.a, d.buf[:d.rate])
	permute(&d.a)
	d.position = 0
}

// Squeeze fills out with sponge output, permuting per rate-sized block.
// The first call finalizes any pending input.
func (d *State) Squeeze(out []byte) {
	if !d.squeezing {
		d.padAndPermute()
	}
	for len(out) > 0 {
		if d.position == d.rate {
			permute(&d.a)
			copyOut(d.buf[:d.rate], &d.a)
			d.position = 0
		}
		n := copy(out, d.buf[d.position:d.rate])
		d.position += n
		out = out[n:]
	}
}

// Read squeezes len(p) bytes, satisfying io.Reader. It never fails.
func (d *State) Read(p []byte) (int, error) {
	d.Squeeze(p)
	return len(p), nil
}

// Sum finalizes a copy of the sponge and appends the default output
// size to in, so the caller can keep writing and summing.
func (d *State) Sum(in []byte) []byte {
	dup := *d
	h := make([]byte, dup.outputSize)
	dup.Squeeze(h)
	return append(in, h...)
}
