// Package rcs implements the RCS authenticated wide-block cipher: a
// 256-bit-block Rijndael variant run in counter mode, keyed by a cSHAKE
// expansion of the user key, and authenticated with KMAC in an
// encrypt-then-MAC composition.
//
// RCS-256 expands a 32-byte key through cSHAKE-256 into a 22-round
// schedule plus a KMAC-256 key; RCS-512 expands a 64-byte key through
// cSHAKE-512 into a 30-round schedule plus a KMAC-512 key. Decryption
// verifies the tag over the full ciphertext before any plaintext is
// produced.
package rcs

import (
	"encoding/binary"
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/internal/rijndael"
	"github.com/qrcs-corp/go-qsc/keccak"
)

const (
	// BlockSize is the wide cipher block size in bytes.
	BlockSize = 32
	// NonceSize is the nonce length seeding the counter block.
	NonceSize = 16
	// Key256Size and Key512Size are the two supported key lengths.
	Key256Size = 32
	Key512Size = 64
	// Tag256Size and Tag512Size are the authentication tag lengths.
	Tag256Size = 32
	Tag512Size = 64

	rounds256 = 22
	rounds512 = 30
)

var schedName = []byte("RCS")

// State is a per-message RCS instance: the expanded round schedule, the
// running counter block, and the keyed MAC state. The lifecycle is
// key-setup, one encrypt or decrypt, dispose.
type State struct {
	schedule []byte
	rounds   int
	mac      *keccak.KMAC
	counter  [BlockSize]byte
	stream   [BlockSize]byte
	pos      int
	info     []byte
	tagSize  int
	used     bool
}

// New256 keys an RCS-256 state with a 32-byte key and 16-byte nonce.
// The optional info string customizes the key expansion and is folded
// into the tag.
func New256(key, nonce, info []byte) (*State, error) {
	return newState(key, nonce, info, Key256Size)
}

// New512 keys an RCS-512 state with a 64-byte key.
func New512(key, nonce, info []byte) (*State, error) {
	return newState(key, nonce, info, Key512Size)
}

func newState(key, nonce, info []byte, keySize int) (*State, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("rcs: key length %d: %w", len(key), qsc.ErrInvalidParameter)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("rcs: nonce length %d: %w", len(nonce), qsc.ErrInvalidParameter)
	}

	s := &State{info: append([]byte{}, info...), pos: BlockSize}

	var xof *keccak.State
	var macKeySize int
	if keySize == Key256Size {
		s.rounds = rounds256
		s.tagSize = Tag256Size
		macKeySize = 32
		xof = keccak.NewCShake256(schedName, info)
	} else {
		s.rounds = rounds512
		s.tagSize = Tag512Size
		macKeySize = 64
		xof = keccak.NewCShake512(schedName, info)
	}
	xof.Absorb(key)

	s.schedule = make([]byte, (s.rounds+1)*BlockSize)
	xof.Squeeze(s.schedule)
	macKey := make([]byte, macKeySize)
	xof.Squeeze(macKey)
	xof.Dispose()

	if keySize == Key256Size {
		s.mac = keccak.NewKMAC256(macKey, nil, s.tagSize)
	} else {
		s.mac = keccak.NewKMAC512(macKey, nil, s.tagSize)
	}
	memutil.Zero(macKey)

	copy(s.counter[:NonceSize], nonce)
	s.mac.Absorb(nonce)
	return s, nil
}

// TagSize returns the tag length appended by Encrypt.
func (s *State) TagSize() int { return s.tagSize }

// shiftRowsWide rotates row r of the eight-column state left by the
// Nb=8 offsets {0, 1, 3, 4}.
func shiftRowsWide(st *[BlockSize]byte) {
	var t [BlockSize]byte
	offsets := [4]int{0, 1, 3, 4}
	for r := 0; r < 4; r++ {
		for c := 0; c < 8; c++ {
			t[4*c+r] = st[4*((c+offsets[r])%8)+r]
		}
	}
	*st = t
}

func mixColumnsWide(st *[BlockSize]byte) {
	for c := 0; c < BlockSize; c += 4 {
		a0, a1, a2, a3 := st[c], st[c+1], st[c+2], st[c+3]
		st[c] = rijndael.Xtime(a0) ^ rijndael.Xtime(a1) ^ a1 ^ a2 ^ a3
		st[c+1] = a0 ^ rijndael.Xtime(a1) ^ rijndael.Xtime(a2) ^ a2 ^ a3
		st[c+2] = a0 ^ a1 ^ rijndael.Xtime(a2) ^ rijndael.Xtime(a3) ^ a3
		st[c+3] = rijndael.Xtime(a0) ^ a0 ^ a1 ^ a2 ^ rijndael.Xtime(a3)
	}
}

// encryptBlock runs the wide Rijndael rounds over one 32-byte block.
// Only the forward direction exists; counter mode never inverts it.
func (s *State) encryptBlock(dst, src []byte) {
	var st [BlockSize]byte
	copy(st[:], src[:BlockSize])
	for i := 0; i < BlockSize; i++ {
		st[i] ^= s.schedule[i]
	}
	for r := 1; r < s.rounds; r++ {
		for i := range st {
			st[i] = rijndael.Sbox[st[i]]
		}
		shiftRowsWide(&st)
		mixColumnsWide(&st)
		rk := s.schedule[r*BlockSize:]
		for i := 0; i < BlockSize; i++ {
			st[i] ^= rk[i]
		}
	}
	for i := range st {
		st[i] = rijndael.Sbox[st[i]]
	}
	shiftRowsWide(&st)
	rk := s.schedule[s.rounds*BlockSize:]
	for i := 0; i < BlockSize; i++ {
		st[i] ^= rk[i]
	}
	copy(dst[:BlockSize], st[:])
	memutil.Zero(st[:])
}

// incrementCounter advances the low 64 bits little-endian; wrap within
// a message is permitted.
func (s *State) incrementCounter() {
	n := binary.LittleEndian.Uint64(s.counter[:8])
	binary.LittleEndian.PutUint64(s.counter[:8], n+1)
}

// XORKeyStream applies the plain (unauthenticated) RCS counter-mode
// transform. The authenticated Encrypt and Decrypt are built on it.
func (s *State) XORKeyStream(dst, src []byte) {
	for i := 0; i < len(src); i++ {
		if s.pos == BlockSize {
			s.encryptBlock(s.stream[:], s.counter[:])
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
		return fmt.Errorf("rcs: associated data after transform: %w", qsc.ErrInvalidParameter)
	}
	s.mac.Absorb(aad)
	return nil
}

// finalizeMAC closes the tag over what has been absorbed so far plus
// the info string and the ciphertext length.
func (s *State) finalizeMAC(tag []byte, ctLen int) {
	var n [8]byte
	s.mac.Absorb(s.info)
	binary.LittleEndian.PutUint64(n[:], uint64(ctLen))
	s.mac.Absorb(n[:])
	s.mac.Finalize(tag)
}

// Encrypt encrypts plaintext and appends the tag: dst must have room
// for len(plaintext)+TagSize() bytes.
func (s *State) Encrypt(dst, plaintext []byte) error {
	if s.used {
		return fmt.Errorf("rcs: state already used: %w", qsc.ErrInvalidParameter)
	}
	if len(dst) < len(plaintext)+s.tagSize {
		return fmt.Errorf("rcs: output buffer: %w", qsc.ErrInvalidParameter)
	}
	s.used = true
	ct := dst[:len(plaintext)]
	s.XORKeyStream(ct, plaintext)
	s.mac.Absorb(ct)
	s.finalizeMAC(dst[len(plaintext):len(plaintext)+s.tagSize], len(ct))
	return nil
}

// Decrypt verifies the trailing tag over the received ciphertext and,
// only when it matches, decrypts into dst. On mismatch no plaintext is
// produced and ErrAuthFailure is returned.
func (s *State) Decrypt(dst, input []byte) error {
	if s.used {
		return fmt.Errorf("rcs: state already used: %w", qsc.ErrInvalidParameter)
	}
	if len(input) < s.tagSize {
		return fmt.Errorf("rcs: input shorter than tag: %w", qsc.ErrInvalidParameter)
	}
	s.used = true
	ct := input[:len(input)-s.tagSize]
	tag := input[len(input)-s.tagSize:]

	s.mac.Absorb(ct)
	want := make([]byte, s.tagSize)
	s.finalizeMAC(want, len(ct))
	ok := memutil.Equal(want, tag)
	memutil.Zero(want)
	if !ok {
		return qsc.ErrAuthFailure
	}
	s.XORKeyStream(dst[:len(ct)], ct)
	return nil
}

// Dispose overwrites the schedule, counter, and MAC state. Idempotent.
func (s *State) Dispose() {
	memutil.Zero(s.schedule)
	memutil.Zero(s.counter[:])
	memutil.Zero(s.stream[:])
	if s.mac != nil {
		s.mac.Dispose()
	}
	s.pos = BlockSize
}
