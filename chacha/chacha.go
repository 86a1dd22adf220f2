// Package chacha implements the ChaCha20 stream cipher with 128- or
// 256-bit keys, plus the four- and eight-block wide keystream variants
// used to feed vectorized lanes.
package chacha

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
)

const (
	// BlockSize is the keystream block size in bytes.
	BlockSize = 64
	// KeySize is the preferred key length.
	KeySize = 32
	// NonceSize is the IETF nonce length.
	NonceSize = 12

	rounds = 20
)

// "expand 32-byte k" and "expand 16-byte k".
var (
	sigma = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}
	tau   = [4]uint32{0x61707865, 0x3120646e, 0x79622d36, 0x6b206574}
)

// Cipher is a ChaCha20 keystream generator: sixteen 32-bit words holding
// constants, key, a 32-bit block counter, and a 96-bit nonce. The
// counter advances once per 64-byte block.
type Cipher struct {
	state  [16]uint32
	stream [BlockSize]byte
	pos    int
}

// New creates a cipher from a 16- or 32-byte key and a 12-byte nonce,
// with the block counter at zero.
func New(key, nonce []byte) (*Cipher, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("chacha: nonce length %d: %w", len(nonce), qsc.ErrInvalidParameter)
	}
	c := &Cipher{pos: BlockSize}
	switch len(key) {
	case 32:
		copy(c.state[:4], sigma[:])
		for i := 0; i < 8; i++ {
			c.state[4+i] = binary.LittleEndian.Uint32(key[i*4:])
		}
	case 16:
		copy(c.state[:4], tau[:])
		for i := 0; i < 4; i++ {
			w := binary.LittleEndian.Uint32(key[i*4:])
			c.state[4+i] = w
			c.state[8+i] = w
		}
	default:
		return nil, fmt.Errorf("chacha: key length %d: %w", len(key), qsc.ErrInvalidParameter)
	}
	c.state[12] = 0
	c.state[13] = binary.LittleEndian.Uint32(nonce[0:])
	c.state[14] = binary.LittleEndian.Uint32(nonce[4:])
	c.state[15] = binary.LittleEndian.Uint32(nonce[8:])
	return c, nil
}

// SetCounter positions the keystream at a block boundary.
func (c *Cipher) SetCounter(n uint32) {
	c.state[12] = n
	c.pos = BlockSize
}

func quarterRound(x *[16]uint32, a, b, cc, d int) {
	x[a] += x[b]
	x[d] = bits.RotateLeft32(x[d]^x[a], 16)
	x[cc] += x[d]
	x[b] = bits.RotateLeft32(x[b]^x[cc], 12)
	x[a] += x[b]
	x[d] = bits.RotateLeft32(x[d]^x[a], 8)
	x[cc] += x[d]
	x[b] = bits.RotateLeft32(x[b]^x[cc], 7)
}

// core produces one block: ten double-rounds, then the word-wise sum of
// the pre- and post-permutation states, serialized little-endian.
func core(out []byte, s *[16]uint32) {
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
		binary.LittleEndian.PutUint32(out[i*4:], x[i]+s[i])
	}
}

// nextBlocks fills out with n consecutive keystream blocks, advancing
// the counter by one per block. The generic kernel walks the lanes
// serially; a vector kernel runs them in one pass with the same result.
func (c *Cipher) nextBlocks(out []byte, n int) {
	for i := 0; i < n; i++ {
		core(out[i*BlockSize:], &c.state)
		c.state[12]++
	}
}

// NextBlocksX4 writes the next four keystream blocks. The keystream
// position must be block-aligned.
func (c *Cipher) NextBlocksX4(out *[4 * BlockSize]byte) {
	if c.pos != BlockSize {
		panic("chacha: wide keystream requires block alignment")
	}
	c.nextBlocks(out[:], 4)
}

// NextBlocksX8 writes the next eight keystream blocks. The keystream
// position must be block-aligned.
func (c *Cipher) NextBlocksX8(out *[8 * BlockSize]byte) {
	if c.pos != BlockSize {
		panic("chacha: wide keystream requires block alignment")
	}
	c.nextBlocks(out[:], 8)
}

// XORKeyStream xors the keystream into src, writing dst. Long aligned
// runs go through the eight-block wide path.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("chacha: output shorter than input")
	}
	off := 0

	// Drain any buffered partial block first.
	for off < len(src) && c.pos < BlockSize {
		dst[off] = src[off] ^ c.stream[c.pos]
		c.pos++
		off++
	}

	var wide [8 * BlockSize]byte
	for len(src)-off >= len(wide) {
		c.nextBlocks(wide[:], 8)
		for i := range wide {
			dst[off+i] = src[off+i] ^ wide[i]
		}
		off += len(wide)
	}
	memutil.Zero(wide[:])

	for off < len(src) {
		core(c.stream[:], &c.state)
		c.state[12]++
		c.pos = 0
		for off < len(src) && c.pos < BlockSize {
			dst[off] = src[off] ^ c.stream[c.pos]
			c.pos++
			off++
		}
	}
}

// Dispose overwrites the cipher state. Idempotent.
func (c *Cipher) Dispose() {
	memutil.ZeroU32(c.state[:])
	memutil.Zero(c.stream[:])
	c.pos = BlockSize
}
