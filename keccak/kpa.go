// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keccak

import (
	"encoding/binary"

	"github.com/qrcs-corp/go-qsc/internal/memutil"
)

// kpaLanes is the fixed lane count of the parallel MAC.
const kpaLanes = 8

// KPA is the Keccak-based parallel authenticator: eight KMAC lanes,
// each keyed by the user key xored with a distinct lane nonce, fed
// rate-sized message blocks round-robin. Finalization concatenates the
// lane digests into a terminal KMAC under the user key. KPA output is
// not interchangeable with KMAC output.
type KPA struct {
	lanes   [kpaLanes]*KMAC
	final   *KMAC
	buf     []byte
	pos     int
	block   uint64
	rate    int
	tagSize int
}

func newKPA(rate int, key, custom []byte, tagSize int) *KPA {
	k := &KPA{
		final:   newKMAC(rate, key, custom, tagSize),
		buf:     make([]byte, rate),
		rate:    rate,
		tagSize: tagSize,
	}
	klen := len(key)
	if klen < 8 {
		klen = 8
	}
	lk := make([]byte, klen)
	var nonce [8]byte
	for i := 0; i < kpaLanes; i++ {
		copy(lk, key)
		for j := len(key); j < klen; j++ {
			lk[j] = 0
		}
		binary.LittleEndian.PutUint64(nonce[:], uint64(i+1))
		for j := 0; j < 8; j++ {
			lk[j] ^= nonce[j]
		}
		k.lanes[i] = newKMAC(rate, lk, custom, tagSize)
	}
	memutil.Zero(lk)
	return k
}

// NewKPA256 creates a KPA-256 instance with 32-byte lane digests.
func NewKPA256(key, custom []byte) *KPA { return newKPA(Rate256, key, custom, 32) }

// NewKPA512 creates a KPA-512 instance with 64-byte lane digests.
func NewKPA512(key, custom []byte) *KPA { return newKPA(Rate512, key, custom, 64) }

// Write distributes message blocks across the lanes: block i goes to
// lane i mod 8, in rate-sized blocks.
func (k *KPA) Write(p []byte) (int, error) {
	k.Absorb(p)
	return len(p), nil
}

// Absorb distributes message bytes across the lanes.
func (k *KPA) Absorb(p []byte) {
	for len(p) > 0 {
		n := copy(k.buf[k.pos:], p)
		k.pos += n
		p = p[n:]
		if k.pos == k.rate {
			k.lanes[k.block%kpaLanes].Absorb(k.buf)
			k.block++
			k.pos = 0
		}
	}
}

// Finalize flushes the trailing partial block, closes each lane, and
// macs the concatenated lane digests under the user key.
func (k *KPA) Finalize(tag []byte) {
	if k.pos > 0 {
		k.lanes[k.block%kpaLanes].Absorb(k.buf[:k.pos])
		k.block++
		k.pos = 0
	}
	digest := make([]byte, k.tagSize)
	for i := 0; i < kpaLanes; i++ {
		k.lanes[i].Finalize(digest)
		k.final.Absorb(digest)
	}
	k.final.Finalize(tag)
	memutil.Zero(digest)
}

// Size returns the tag size in bytes.
func (k *KPA) Size() int { return k.tagSize }

// BlockSize returns the per-lane sponge rate.
func (k *KPA) BlockSize() int { return k.rate }

// Dispose overwrites all lane states. Idempotent.
func (k *KPA) Dispose() {
	for i := range k.lanes {
		if k.lanes[i] != nil {
			k.lanes[i].Dispose()
		}
	}
	if k.final != nil {
		k.final.Dispose()
	}
	memutil.Zero(k.buf)
}
