// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keccak

import "github.com/qrcs-corp/go-qsc/internal/memutil"

// The interleaved states run four or eight independent sponges whose
// lanes are stored word-interleaved, the layout a vectorized kernel
// consumes directly. This implementation computes the lanes serially;
// lane i of every output equals the scalar sponge run on lane i's
// input, so callers can treat the two as interchangeable.

type stateXN struct {
	a         []uint64 // word i of lane l at a[n*i+l]
	n         int
	rate      int
	dsbyte    byte
	position  int
	squeezing bool
}

// StateX4 is a four-lane interleaved Keccak sponge.
type StateX4 struct{ x stateXN }

// StateX8 is an eight-lane interleaved Keccak sponge.
type StateX8 struct{ x stateXN }

// NewStateX4 creates a four-lane sponge with the given rate and domain
// byte, one scalar-equivalent sponge per lane.
func NewStateX4(rate int, dsbyte byte) *StateX4 {
	checkRate(rate)
	return &StateX4{x: stateXN{a: make([]uint64, 4*25), n: 4, rate: rate, dsbyte: dsbyte}}
}

// NewStateX8 creates an eight-lane sponge.
func NewStateX8(rate int, dsbyte byte) *StateX8 {
	checkRate(rate)
	return &StateX8{x: stateXN{a: make([]uint64, 8*25), n: 8, rate: rate, dsbyte: dsbyte}}
}

// Permute applies Keccak-f[1600] to every lane.
func (s *stateXN) permuteAll() {
	var lane [25]uint64
	for l := 0; l < s.n; l++ {
		for i := 0; i < 25; i++ {
			lane[i] = s.a[s.n*i+l]
		}
		permute(&lane)
		for i := 0; i < 25; i++ {
			s.a[s.n*i+l] = lane[i]
		}
	}
	memutil.ZeroU64(lane[:])
}

func (s *stateXN) xorByte(l, pos int, b byte) {
	s.a[s.n*(pos/8)+l] ^= uint64(b) << uint(8*(pos%8))
}

func (s *stateXN) extractByte(l, pos int) byte {
	return byte(s.a[s.n*(pos/8)+l] >> uint(8*(pos%8)))
}

func (s *stateXN) absorb(in [][]byte) {
	n := len(in[0])
	for _, lane := range in {
		if len(lane) != n {
			panic("keccak: interleaved lanes must have equal input lengths")
		}
	}
	if s.squeezing {
		panic("keccak: absorb after squeeze")
	}
	for off := 0; off < n; {
		take := s.rate - s.position
		if rem := n - off; rem < take {
			take = rem
		}
		for l := 0; l < s.n; l++ {
			for j := 0; j < take; j++ {
				s.xorByte(l, s.position+j, in[l][off+j])
			}
		}
		s.position += take
		off += take
		if s.position == s.rate {
			s.permuteAll()
			s.position = 0
		}
	}
}

func (s *stateXN) pad() {
	for l := 0; l < s.n; l++ {
		s.xorByte(l, s.position, s.dsbyte)
		s.xorByte(l, s.rate-1, 0x80)
	}
	s.permuteAll()
	s.position = 0
	s.squeezing = true
}

func (s *stateXN) squeeze(out [][]byte) {
	n := len(out[0])
	for _, lane := range out {
		if len(lane) != n {
			panic("keccak: interleaved lanes must have equal output lengths")
		}
	}
	if !s.squeezing {
		s.pad()
	}
	for off := 0; off < n; {
		if s.position == s.rate {
			s.permuteAll()
			s.position = 0
		}
		take := s.rate - s.position
		if rem := n - off; rem < take {
			take = rem
		}
		for l := 0; l < s.n; l++ {
			for j := 0; j < take; j++ {
				out[l][off+j] = s.extractByte(l, s.position+j)
			}
		}
		s.position += take
		off += take
	}
}

// Absorb absorbs one equal-length input per lane.
func (s *StateX4) Absorb(in *[4][]byte) { s.x.absorb(in[:]) }

// Squeeze fills one equal-length output per lane.
func (s *StateX4) Squeeze(out *[4][]byte) { s.x.squeeze(out[:]) }

// Dispose overwrites all lanes. Idempotent.
func (s *StateX4) Dispose() { s.x.dispose() }

// Absorb absorbs one equal-length input per lane.
func (s *StateX8) Absorb(in *[8][]byte) { s.x.absorb(in[:]) }

// Squeeze fills one equal-length output per lane.
func (s *StateX8) Squeeze(out *[8][]byte) { s.x.squeeze(out[:]) }

// Dispose overwrites all lanes. Idempotent.
func (s *StateX8) Dispose() { s.x.dispose() }

func (s *stateXN) dispose() {
	memutil.ZeroU64(s.a)
	s.position = 0
	s.squeezing = false
}

// ShakeSumX4 runs SHAKE with the given rate over four equal-length
// inputs in parallel lanes, filling four equal-length outputs.
func ShakeSumX4(rate int, out *[4][]byte, in *[4][]byte) {
	s := NewStateX4(rate, domainShake)
	s.Absorb(in)
	s.Squeeze(out)
	s.Dispose()
}

// ShakeSumX8 is the eight-lane variant of ShakeSumX4.
func ShakeSumX8(rate int, out *[8][]byte, in *[8][]byte) {
	s := NewStateX8(rate, domainShake)
	s.Absorb(in)
	s.Squeeze(out)
	s.Dispose()
}
