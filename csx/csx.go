// Package csx implements CSX-512: a ChaCha-shaped permutation over a
// 16-word 64-bit state (1024 bits) with a 512-bit key, 128-bit nonce,
// and 128-bit counter, authenticated with KMAC-512.
//
// The cipher keys itself by expanding the user key through cSHAKE-512
// into a stream key and a MAC key. Forty rounds (twenty double-rounds)
// produce 128-byte keystream blocks. Decryption verifies the 64-byte
// tag over the full ciphertext before any plaintext is produced.
package csx

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/keccak"
)

const (
	// BlockSize is the keystream block size in bytes.
	BlockSize = 128
	// KeySize is the user key length.
	KeySize = 64
	// NonceSize is the nonce length.
	NonceSize = 16
	// TagSize is the KMAC-512 tag length.
	TagSize = 64

	rounds = 40
)

var expandName = []byte("CSX")

// The 256 bits of domain constants occupying the first four state
// words, read little-endian from a fixed 32-byte string.
var domain = func() [4]uint64 {
	const c = "CSX512 stream cipher expansion!!"
	var d [4]uint64
	for i := range d {
		d[i] = binary.LittleEndian.Uint64([]byte(c)[i*8:])
	}
	return d
}()

// State is a per-message CSX instance. The lifecycle is key-setup, one
// encrypt or decrypt, dispose.
type State struct {
	w      [16]uint64
	mac    *keccak.KMAC
	stream [BlockSize]byte
	pos    int
	aadLen uint64
	used   bool
}

// New keys a CSX-512 state with a 64-byte key and a 16-byte nonce. The
// optional info string customizes the key expansion and is bound into
// the derived keys.
func New(key, nonce, info []byte) (*State, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("csx: key length %d: %w", len(key), qsc.ErrInvalidParameter)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("csx: nonce length %d: %w", len(nonce), qsc.ErrInvalidParameter)
	}

	xof := keccak.NewCShake512(expandName, info)
	xof.Absorb(key)
	streamKey := make([]byte, KeySize)
	macKey := make([]byte, KeySize)
	xof.Squeeze(streamKey)
	xof.Squeeze(macKey)
	xof.Dispose()

	s := &State{pos: BlockSize}
	s.w[0], s.w[1], s.w[2], s.w[3] = domain[0], domain[1], domain[2], domain[3]
	for i := 0; i < 8; i++ {
		s.w[4+i] = binary.LittleEndian.Uint64(streamKey[i*8:])
	}
	s.w[12], s.w[13] = 0, 0
	s.w[14] = binary.LittleEndian.Uint64(nonce[0:])
	s.w[15] = binary.LittleEndian.Uint64(nonce[8:])

	s.mac = keccak.NewKMAC512(macKey, nil, TagSize)
	s.mac.Absorb(nonce)

	memutil.Zero(streamKey)
	memutil.Zero(macKey)
	return s, nil
}

func quarterRound(x *[16]uint64, a, b, c, d int) {
	x[a] += x[b]
	x[d] = bits.RotateLeft64(x[d]^x[a], 32)
	x[c] += x[d]
	x[b] = bits.RotateLeft64(x[b]^x[c], 24)
	x[a] += x[b]
	x[d] = bits.RotateLeft64(x[d]^x[a], 16)
	x[c] += x[d]
	x[b] = bits.RotateLeft64(x[b]^x[c], 14)
}

// core produces one 128-byte block: twenty double-rounds, then the
// word-wise sum of pre- and post-permutation states, little-endian.
func core(out []byte, s *[16]uint64) {
	x := *s
	for i := 0; i < rounds/2; i++ {
		quarterRound(&x, 0, 4, 8, 12)
		quarterRound(&x, 1, 5, 9, 13)
		quarterRound(&x, 2, 6, 10, 14)
		quarterRound(&x, 3, 7, 11, 15)
		quarterRound(&x, 0, 5, 10, 15)
		quarterRound(&x, 1, 6, 11, 12)
		quarterRound(&x, 2, 7, 8, 13)
		quarterRound(&x, 3, 4, 9, 14)
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], x[i]+s[i])
	}
}

// incrementCounter advances the 128-bit counter once per block.
func (s *State) incrementCounter() {
	s.w[12]++
	if s.w[12] == 0 {
		s.w[13]++
	}
}

// XORKeyStream applies the plain CSX stream transform; the
// authenticated Encrypt and Decrypt are built on it.
func (s *State) XORKeyStream(dst, src []byte) {
	for i := 0; i < len(src); i++ {
		if s.pos == BlockSize {
			core(s.stream[:], &s.w)
			s.incrementCounter()
			s.pos = 0
		}
		dst[i] = src[i] ^ s.stream[s.pos]
		s.pos++
	}
}

// SetAssociated absorbs additional authenticated data into the MAC. It
// must be called before Encrypt or Decrypt.
func (s *State) SetAssociated(aad []byte) error {
	if s.used {
		return fmt.Errorf("csx: associated data after transform: %w", qsc.ErrInvalidParameter)
	}
	s.mac.Absorb(aad)
	s.aadLen += uint64(len(aad))
	return nil
}

func (s *State) finalizeMAC(tag []byte, ctLen int) {
	var n [16]byte
	binary.LittleEndian.PutUint64(n[:8], s.aadLen)
	binary.LittleEndian.PutUint64(n[8:], uint64(ctLen))
	s.mac.Absorb(n[:])
	s.mac.Finalize(tag)
}

// Encrypt encrypts plaintext and appends the 64-byte tag; dst must have
// room for len(plaintext)+TagSize bytes.
func (s *State) Encrypt(dst, plaintext []byte) error {
	if s.used {
		return fmt.Errorf("csx: state already used: %w", qsc.ErrInvalidParameter)
	}
	if len(dst) < len(plaintext)+TagSize {
		return fmt.Errorf("csx: output buffer: %w", qsc.ErrInvalidParameter)
	}
	s.used = true
	ct := dst[:len(plaintext)]
	s.XORKeyStream(ct, plaintext)
	s.mac.Absorb(ct)
	s.finalizeMAC(dst[len(plaintext):len(plaintext)+TagSize], len(ct))
	return nil
}

// Decrypt verifies the trailing tag and, only when it matches, decrypts
// into dst. On mismatch no plaintext is produced.
func (s *State) Decrypt(dst, input []byte) error {
	if s.used {
		return fmt.Errorf("csx: state already used: %w", qsc.ErrInvalidParameter)
	}
	if len(input) < TagSize {
		return fmt.Errorf("csx: input shorter than tag: %w", qsc.ErrInvalidParameter)
	}
	s.used = true
	ct := input[:len(input)-TagSize]
	tag := input[len(input)-TagSize:]

	s.mac.Absorb(ct)
	want := make([]byte, TagSize)
	s.finalizeMAC(want, len(ct))
	ok := memutil.Equal(want, tag)
	memutil.Zero(want)
	if !ok {
		return qsc.ErrAuthFailure
	}
	s.XORKeyStream(dst[:len(ct)], ct)
	return nil
}

// Dispose overwrites the cipher and MAC state. Idempotent.
func (s *State) Dispose() {
	memutil.ZeroU64(s.w[:])
	memutil.Zero(s.stream[:])
	if s.mac != nil {
		s.mac.Dispose()
	}
	s.pos = BlockSize
}
