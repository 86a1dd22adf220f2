// Package poly1305 implements the Poly1305 one-time authenticator over
// GF(2^130-5). A key must authenticate at most one message.
package poly1305

import (
	"encoding/binary"
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
)

const (
	// KeySize is the one-time key length: r followed by s.
	KeySize = 32
	// TagSize is the authenticator length.
	TagSize = 16

	mask26 = 0x3ffffff
)

// MAC is a single-use Poly1305 state: the clamped multiplier r, the
// final addend s, and the 130-bit accumulator in 26-bit limbs.
type MAC struct {
	r         [5]uint32
	s         [4]uint32
	h         [5]uint32
	buf       [TagSize]byte
	pos       int
	finalized bool
}

// New creates a one-time authenticator from a 32-byte key. The first
// half is clamped into r; the second half is added unclamped at the end.
func New(key []byte) (*MAC, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("poly1305: key length %d: %w", len(key), qsc.ErrInvalidParameter)
	}
	m := &MAC{}
	m.r[0] = binary.LittleEndian.Uint32(key[0:]) & 0x3ffffff
	m.r[1] = (binary.LittleEndian.Uint32(key[3:]) >> 2) & 0x3ffff03
	m.r[2] = (binary.LittleEndian.Uint32(key[6:]) >> 4) & 0x3ffc0ff
	m.r[3] = (binary.LittleEndian.Uint32(key[9:]) >> 6) & 0x3f03fff
	m.r[4] = (binary.LittleEndian.Uint32(key[12:]) >> 8) & 0x00fffff
	for i := 0; i < 4; i++ {
		m.s[i] = binary.LittleEndian.Uint32(key[16+i*4:])
	}
	return m, nil
}

// blocks folds 16-byte blocks into the accumulator: h = (h + block) * r
// mod 2^130-5. hibit is 1<<24 for full blocks and 0 for the padded
// final block, which carries its own 0x01 terminator.
func (m *MAC) blocks(p []byte, hibit uint32) {
	r0, r1, r2, r3, r4 := m.r[0], m.r[1], m.r[2], m.r[3], m.r[4]
	s1, s2, s3, s4 := r1*5, r2*5, r3*5, r4*5
	h0, h1, h2, h3, h4 := m.h[0], m.h[1], m.h[2], m.h[3], m.h[4]

	for len(p) >= TagSize {
		h0 += binary.LittleEndian.Uint32(p[0:]) & mask26
		h1 += (binary.LittleEndian.Uint32(p[3:]) >> 2) & mask26
		h2 += (binary.LittleEndian.Uint32(p[6:]) >> 4) & mask26
		h3 += (binary.LittleEndian.Uint32(p[9:]) >> 6) & mask26
		h4 += (binary.LittleEndian.Uint32(p[12:]) >> 8) | hibit

		d0 := uint64(h0)*uint64(r0) + uint64(h1)*uint64(s4) + uint64(h2)*uint64(s3) + uint64(h3)*uint64(s2) + uint64(h4)*uint64(s1)
		d1 := uint64(h0)*uint64(r1) + uint64(h1)*uint64(r0) + uint64(h2)*uint64(s4) + uint64(h3)*uint64(s3) + uint64(h4)*uint64(s2)
		d2 := uint64(h0)*uint64(r2) + uint64(h1)*uint64(r1) + uint64(h2)*uint64(r0) + uint64(h3)*uint64(s4) + uint64(h4)*uint64(s3)
		d3 := uint64(h0)*uint64(r3) + uint64(h1)*uint64(r2) + uint64(h2)*uint64(r1) + uint64(h3)*uint64(r0) + uint64(h4)*uint64(s4)
		d4 := uint64(h0)*uint64(r4) + uint64(h1)*uint64(r3) + uint64(h2)*uint64(r2) + uint64(h3)*uint64(r1) + uint64(h4)*uint64(r0)

		c := uint32(d0 >> 26)
		h0 = uint32(d0) & mask26
		d1 += uint64(c)
		c = uint32(d1 >> 26)
		h1 = uint32(d1) & mask26
		d2 += uint64(c)
		c = uint32(d2 >> 26)
		h2 = uint32(d2) & mask26
		d3 += uint64(c)
		c = uint32(d3 >> 26)
		h3 = uint32(d3) & mask26
		d4 += uint64(c)
		c = uint32(d4 >> 26)
		h4 = uint32(d4) & mask26
		h0 += c * 5
		h1 += h0 >> 26
		h0 &= mask26

		p = p[TagSize:]
	}

	m.h[0], m.h[1], m.h[2], m.h[3], m.h[4] = h0, h1, h2, h3, h4
}

// Write absorbs message bytes. Writing after Finalize panics.
func (m *MAC) Write(p []byte) (int, error) {
	if m.finalized {
		panic("poly1305: write after finalize")
	}
	n := len(p)
	if m.pos > 0 {
		take := copy(m.buf[m.pos:], p)
		m.pos += take
		p = p[take:]
		if m.pos == TagSize {
			m.blocks(m.buf[:], 1<<24)
			m.pos = 0
		}
	}
	if full := len(p) &^ (TagSize - 1); full > 0 {
		m.blocks(p[:full], 1<<24)
		p = p[full:]
	}
	m.pos += copy(m.buf[m.pos:], p)
	return n, nil
}

// Finalize completes the reduction, adds s mod 2^128, and writes the
// 16-byte little-endian tag.
func (m *MAC) Finalize(tag []byte) {
	if m.finalized {
		panic("poly1305: finalize twice")
	}
	m.finalized = true

	if m.pos > 0 {
		m.buf[m.pos] = 1
		for i := m.pos + 1; i < TagSize; i++ {
			m.buf[i] = 0
		}
		m.blocks(m.buf[:], 0)
	}

	h0, h1, h2, h3, h4 := m.h[0], m.h[1], m.h[2], m.h[3], m.h[4]

	// Full carry.
	h1 += h0 >> 26
	h0 &= mask26
	h2 += h1 >> 26
	h1 &= mask26
	h3 += h2 >> 26
	h2 &= mask26
	h4 += h3 >> 26
	h3 &= mask26
	h0 += 5 * (h4 >> 26)
	h4 &= mask26
	h1 += h0 >> 26
	h0 &= mask26

	// Compute h + 5 - 2^130 and select it when non-negative.
	g0 := h0 + 5
	c := g0 >> 26
	g0 &= mask26
	g1 := h1 + c
	c = g1 >> 26
	g1 &= mask26
	g2 := h2 + c
	c = g2 >> 26
	g2 &= mask26
	g3 := h3 + c
	c = g3 >> 26
	g3 &= mask26
	g4 := h4 + c - (1 << 26)

	sel := (g4 >> 31) - 1 // all-ones when g4 >= 0
	h0 = h0&^sel | g0&sel
	h1 = h1&^sel | g1&sel
	h2 = h2&^sel | g2&sel
	h3 = h3&^sel | g3&sel
	h4 = h4&^sel | g4&sel

	t0 := h0 | h1<<26
	t1 := h1>>6 | h2<<20
	t2 := h2>>12 | h3<<14
	t3 := h3>>18 | h4<<8

	f := uint64(t0) + uint64(m.s[0])
	binary.LittleEndian.PutUint32(tag[0:], uint32(f))
	f = uint64(t1) + uint64(m.s[1]) + f>>32
	binary.LittleEndian.PutUint32(tag[4:], uint32(f))
	f = uint64(t2) + uint64(m.s[2]) + f>>32
	binary.LittleEndian.PutUint32(tag[8:], uint32(f))
	f = uint64(t3) + uint64(m.s[3]) + f>>32
	binary.LittleEndian.PutUint32(tag[12:], uint32(f))
}

// Sum computes the tag of msg under key in one call.
func Sum(tag *[TagSize]byte, msg, key []byte) error {
	m, err := New(key)
	if err != nil {
		return err
	}
	m.Write(msg)
	m.Finalize(tag[:])
	m.Dispose()
	return nil
}

// Verify recomputes the tag of msg and compares it to want in constant
// time.
func Verify(want []byte, msg, key []byte) bool {
	var tag [TagSize]byte
	if err := Sum(&tag, msg, key); err != nil {
		return false
	}
	return memutil.Equal(want, tag[:])
}

// Dispose overwrites the accumulator and key material. Idempotent.
func (m *MAC) Dispose() {
	memutil.ZeroU32(m.r[:])
	memutil.ZeroU32(m.s[:])
	memutil.ZeroU32(m.h[:])
	memutil.Zero(m.buf[:])
	m.pos = 0
}
