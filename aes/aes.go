// Package aes implements the AES-128 and AES-256 block cipher with the
// ECB, CBC, and CTR modes of operation.
package aes

import (
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/internal/rijndael"
)

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// Cipher holds an expanded AES key schedule. The schedule is immutable
// once built and is overwritten by Dispose.
type Cipher struct {
	schedule []byte // (rounds+1) 16-byte round keys
	rounds   int
}

// New expands a 16- or 32-byte key into a Cipher.
func New(key []byte) (*Cipher, error) {
	var rounds int
	switch len(key) {
	case 16:
		rounds = 10
	case 32:
		rounds = 14
	default:
		return nil, fmt.Errorf("aes: key length %d: %w", len(key), qsc.ErrInvalidParameter)
	}
	c := &Cipher{
		schedule: make([]byte, (rounds+1)*BlockSize),
		rounds:   rounds,
	}
	c.expandKey(key)
	return c, nil
}

// expandKey implements the FIPS-197 key schedule over byte-serialized
// big-endian words.
func (c *Cipher) expandKey(key []byte) {
	nk := len(key) / 4
	words := 4 * (c.rounds + 1)
	copy(c.schedule, key)

	rcon := byte(1)
	for i := nk; i < words; i++ {
		var t [4]byte
		copy(t[:], c.schedule[(i-1)*4:i*4])
		if i%nk == 0 {
			// RotWord then SubWord then Rcon.
			t[0], t[1], t[2], t[3] =
				rijndael.Sbox[t[1]], rijndael.Sbox[t[2]], rijndael.Sbox[t[3]], rijndael.Sbox[t[0]]
			t[0] ^= rcon
			rcon = rijndael.Xtime(rcon)
		} else if nk > 6 && i%nk == 4 {
			t[0], t[1], t[2], t[3] =
				rijndael.Sbox[t[0]], rijndael.Sbox[t[1]], rijndael.Sbox[t[2]], rijndael.Sbox[t[3]]
		}
		for j := 0; j < 4; j++ {
			c.schedule[i*4+j] = c.schedule[(i-nk)*4+j] ^ t[j]
		}
	}
}

// Rounds returns the number of rounds for the configured key length.
func (c *Cipher) Rounds() int { return c.rounds }

func shiftRows(s *[16]byte) {
	s[1], s[5], s[9], s[13] = s[5], s[9], s[13], s[1]
	s[2], s[6], s[10], s[14] = s[10], s[14], s[2], s[6]
	s[3], s[7], s[11], s[15] = s[15], s[3], s[7], s[11]
}

func invShiftRows(s *[16]byte) {
	s[5], s[9], s[13], s[1] = s[1], s[5], s[9], s[13]
	s[10], s[14], s[2], s[6] = s[2], s[6], s[10], s[14]
	s[15], s[3], s[7], s[11] = s[3], s[7], s[11], s[15]
}

func mixColumns(s *[16]byte) {
	for c := 0; c < 16; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		s[c] = rijndael.Xtime(a0) ^ rijndael.Xtime(a1) ^ a1 ^ a2 ^ a3
		s[c+1] = a0 ^ rijndael.Xtime(a1) ^ rijndael.Xtime(a2) ^ a2 ^ a3
		s[c+2] = a0 ^ a1 ^ rijndael.Xtime(a2) ^ rijndael.Xtime(a3) ^ a3
		s[c+3] = rijndael.Xtime(a0) ^ a0 ^ a1 ^ a2 ^ rijndael.Xtime(a3)
	}
}

func invMixColumns(s *[16]byte) {
	for c := 0; c < 16; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		s[c] = rijndael.Gmul(a0, 0x0e) ^ rijndael.Gmul(a1, 0x0b) ^ rijndael.Gmul(a2, 0x0d) ^ rijndael.Gmul(a3, 0x09)
		s[c+1] = rijndael.Gmul(a0, 0x09) ^ rijndael.Gmul(a1, 0x0e) ^ rijndael.Gmul(a2, 0x0b) ^ rijndael.Gmul(a3, 0x0d)
		s[c+2] = rijndael.Gmul(a0, 0x0d) ^ rijndael.Gmul(a1, 0x09) ^ rijndael.Gmul(a2, 0x0e) ^ rijndael.Gmul(a3, 0x0b)
		s[c+3] = rijndael.Gmul(a0, 0x0b) ^ rijndael.Gmul(a1, 0x0d) ^ rijndael.Gmul(a2, 0x09) ^ rijndael.Gmul(a3, 0x0e)
	}
}

func (c *Cipher) addRoundKey(s *[16]byte, round int) {
	rk := c.schedule[round*BlockSize:]
	for i := 0; i < 16; i++ {
		s[i] ^= rk[i]
	}
}

// Encrypt computes one block; dst and src must be at least 16 bytes and
// may overlap exactly.
func (c *Cipher) Encrypt(dst, src []byte) {
	var s [16]byte
	copy(s[:], src[:16])
	c.addRoundKey(&s, 0)
	for r := 1; r < c.rounds; r++ {
		for i := range s {
			s[i] = rijndael.Sbox[s[i]]
		}
		shiftRows(&s)
		mixColumns(&s)
		c.addRoundKey(&s, r)
	}
	for i := range s {
		s[i] = rijndael.Sbox[s[i]]
	}
	shiftRows(&s)
	c.addRoundKey(&s, c.rounds)
	copy(dst[:16], s[:])
	memutil.Zero(s[:])
}

// Decrypt inverts Encrypt for one block.
func (c *Cipher) Decrypt(dst, src []byte) {
	var s [16]byte
	copy(s[:], src[:16])
	c.addRoundKey(&s, c.rounds)
	for r := c.rounds - 1; r > 0; r-- {
		invShiftRows(&s)
		for i := range s {
			s[i] = rijndael.InvSbox[s[i]]
		}
		c.addRoundKey(&s, r)
		invMixColumns(&s)
	}
	invShiftRows(&s)
	for i := range s {
		s[i] = rijndael.InvSbox[s[i]]
	}
	c.addRoundKey(&s, 0)
	copy(dst[:16], s[:])
	memutil.Zero(s[:])
}

// Dispose overwrites the key schedule. Idempotent.
func (c *Cipher) Dispose() {
	memutil.Zero(c.schedule)
}
