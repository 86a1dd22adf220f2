// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keccak

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// SP800-185 KMAC sample vectors. The key is the byte run 0x40..0x5f.
var kmacKey = []byte{
	0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
	0x48, 0x49, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f,
	0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
	0x58, 0x59, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f,
}

func longSample() []byte {
	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func TestKMAC128KAT(t *testing.T) {
	cases := []struct {
		name   string
		data   []byte
		custom string
		tag    string
	}{
		{"sample1", []byte{0, 1, 2, 3}, "",
			"e5780b0d3ea6f7d3a429c5706aa43a00fadbd7d49628839e3187243f456ee14e"},
		{"sample2", []byte{0, 1, 2, 3}, "My Tagged Application",
			"3b1fba963cd8b0b59e8c1a6d71888b7143651af8ba0a7070c0979e2811324aa5"},
		{"sample3", longSample(), "My Tagged Application",
			"1f5b4e6cca02209e0dcb5ca635b89a15e271ecc760071dfd805faa38f9729230"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := NewKMAC128(kmacKey, []byte(tc.custom), 32)
			k.Absorb(tc.data)
			tag := make([]byte, 32)
			k.Finalize(tag)
			require.Equal(t, unhex(t, tc.tag), tag)
		})
	}
}

func TestKMAC256KAT(t *testing.T) {
	cases := []struct {
		name   string
		data   []byte
		custom string
		tag    string
	}{
		{"sample4", []byte{0, 1, 2, 3}, "My Tagged Application",
			"20c570c31346f703c9ac36c61c03cb64c3970d0cfc787e9b79599d273a68d2f7" +
				"f69d4cc3de9d104a351689f27cf6f5951f0103f33f4f24871024d9c27773a8dd"},
		{"sample5", longSample(), "",
			"75358cf39e41494e949707927cee0af20a3ff553904c86b08f21cc414bcfd691" +
				"589d27cf5e15369cbbff8b9a4c2eb17800855d0235ff635da82533ec6b759b69"},
		{"sample6", longSample(), "My Tagged Application",
			"b58618f71f92e1d56c1b8c55ddd7cd188b97b4ca4d99831eb2699a837da2e4d9" +
				"70fbacfde50033aea585f1a2708510c32d07880801bd182898fe476876fc8965"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := NewKMAC256(kmacKey, []byte(tc.custom), 64)
			k.Absorb(tc.data)
			tag := make([]byte, 64)
			k.Finalize(tag)
			require.Equal(t, unhex(t, tc.tag), tag)
		})
	}
}

func TestKMACSumMatchesFinalize(t *testing.T) {
	msg := bytes.Repeat([]byte{0xc7}, 300)
	k := NewKMAC256(kmacKey, nil, 64)
	k.Absorb(msg)
	viaSum := k.Sum(nil)

	k2 := NewKMAC256(kmacKey, nil, 64)
	k2.Absorb(msg)
	tag := make([]byte, 64)
	k2.Finalize(tag)
	require.Equal(t, tag, viaSum)
}

func TestKMACReset(t *testing.T) {
	k := NewKMAC512(kmacKey, []byte("ctx"), 64)
	k.Absorb([]byte("first message"))
	first := k.Sum(nil)

	k.Reset()
	k.Absorb([]byte("first message"))
	again := k.Sum(nil)
	require.Equal(t, first, again)

	k.Reset()
	k.Absorb([]byte("second message"))
	require.NotEqual(t, first, k.Sum(nil))
}

func TestKPAProperties(t *testing.T) {
	key := bytes.Repeat([]byte{0x0f}, 32)
	msg := bytes.Repeat([]byte{0xab}, 136*9+17)

	// Deterministic.
	a := NewKPA256(key, nil)
	a.Absorb(msg)
	tagA := make([]byte, 32)
	a.Finalize(tagA)

	b := NewKPA256(key, nil)
	b.Absorb(msg)
	tagB := make([]byte, 32)
	b.Finalize(tagB)
	require.Equal(t, tagA, tagB)

	// Incremental absorption splits that straddle lane blocks.
	c := NewKPA256(key, nil)
	c.Absorb(msg[:5])
	c.Absorb(msg[5:400])
	c.Absorb(msg[400:])
	tagC := make([]byte, 32)
	c.Finalize(tagC)
	require.Equal(t, tagA, tagC)

	// Not interchangeable with KMAC under the same key.
	k := NewKMAC256(key, nil, 32)
	k.Absorb(msg)
	require.NotEqual(t, tagA, k.Sum(nil))

	// Message sensitivity.
	flipped := append([]byte{}, msg...)
	flipped[700] ^= 1
	d := NewKPA256(key, nil)
	d.Absorb(flipped)
	tagD := make([]byte, 32)
	d.Finalize(tagD)
	require.NotEqual(t, tagA, tagD)
}

func TestKPA512Tag(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 64)
	p := NewKPA512(key, []byte("lane test"))
	p.Absorb([]byte("short"))
	tag := make([]byte, 64)
	p.Finalize(tag)
	var zero [64]byte
	require.NotEqual(t, zero[:], tag)
	p.Dispose()
	require.NotPanics(t, func() { p.Dispose() })
}
