package aes

import (
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
)

// EncryptECB encrypts src block by block with no chaining. The input
// length must be a multiple of the block size.
func (c *Cipher) EncryptECB(dst, src []byte) error {
	if len(src)%BlockSize != 0 || len(dst) < len(src) {
		return fmt.Errorf("aes: ecb length: %w", qsc.ErrInvalidParameter)
	}
	for i := 0; i < len(src); i += BlockSize {
		c.Encrypt(dst[i:], src[i:])
	}
	return nil
}

// DecryptECB inverts EncryptECB.
func (c *Cipher) DecryptECB(dst, src []byte) error {
	if len(src)%BlockSize != 0 || len(dst) < len(src) {
		return fmt.Errorf("aes: ecb length: %w", qsc.ErrInvalidParameter)
	}
	for i := 0; i < len(src); i += BlockSize {
		c.Decrypt(dst[i:], src[i:])
	}
	return nil
}

// CBC chains blocks through a rolling IV register. The register is
// advanced to the final ciphertext block on completion so chained calls
// continue correctly.
type CBC struct {
	c  *Cipher
	iv [BlockSize]byte
}

// NewCBC wraps an expanded cipher with a 16-byte IV.
func NewCBC(c *Cipher, iv []byte) (*CBC, error) {
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("aes: cbc iv length %d: %w", len(iv), qsc.ErrInvalidParameter)
	}
	m := &CBC{c: c}
	copy(m.iv[:], iv)
	return m, nil
}

// Encrypt encrypts whole blocks, xoring each plaintext block with the
// running register before the block function.
func (m *CBC) Encrypt(dst, src []byte) error {
	if len(src)%BlockSize != 0 || len(dst) < len(src) {
		return fmt.Errorf("aes: cbc length: %w", qsc.ErrInvalidParameter)
	}
	var x [BlockSize]byte
	for i := 0; i < len(src); i += BlockSize {
		for j := 0; j < BlockSize; j++ {
			x[j] = src[i+j] ^ m.iv[j]
		}
		m.c.Encrypt(dst[i:], x[:])
		copy(m.iv[:], dst[i:i+BlockSize])
	}
	memutil.Zero(x[:])
	return nil
}

// Decrypt inverts Encrypt, leaving the register at the final ciphertext
// block.
func (m *CBC) Decrypt(dst, src []byte) error {
	if len(src)%BlockSize != 0 || len(dst) < len(src) {
		return fmt.Errorf("aes: cbc length: %w", qsc.ErrInvalidParameter)
	}
	var ct [BlockSize]byte
	for i := 0; i < len(src); i += BlockSize {
		// Save the ciphertext block before writing; dst may alias src.
		copy(ct[:], src[i:i+BlockSize])
		m.c.Decrypt(dst[i:], src[i:])
		for j := 0; j < BlockSize; j++ {
			dst[i+j] ^= m.iv[j]
		}
		copy(m.iv[:], ct[:])
	}
	memutil.Zero(ct[:])
	return nil
}

// Dispose overwrites the register. Idempotent. The wrapped cipher is
// disposed separately by its owner.
func (m *CBC) Dispose() { memutil.Zero(m.iv[:]) }

// CTR turns the block cipher into a stream: each block of keystream is
// the encryption of a counter that advances once per block. Partial
// blocks are handled and the keystream position persists across calls.
type CTR struct {
	c         *Cipher
	counter   [BlockSize]byte
	stream    [BlockSize]byte
	pos       int
	bigEndian bool
}

// NewCTR wraps an expanded cipher with a 16-byte initial counter. The
// endianness flag selects which end of the counter carries.
func NewCTR(c *Cipher, nonce []byte, bigEndian bool) (*CTR, error) {
	if len(nonce) != BlockSize {
		return nil, fmt.Errorf("aes: ctr nonce length %d: %w", len(nonce), qsc.ErrInvalidParameter)
	}
	m := &CTR{c: c, pos: BlockSize, bigEndian: bigEndian}
	copy(m.counter[:], nonce)
	return m, nil
}

func (m *CTR) increment() {
	if m.bigEndian {
		for i := BlockSize - 1; i >= 0; i-- {
			m.counter[i]++
			if m.counter[i] != 0 {
				break
			}
		}
		return
	}
	for i := 0; i < BlockSize; i++ {
		m.counter[i]++
		if m.counter[i] != 0 {
			break
		}
	}
}

// XORKeyStream xors the keystream into src, writing to dst. Nonce
// uniqueness across messages is the caller's responsibility.
func (m *CTR) XORKeyStream(dst, src []byte) {
	for i := 0; i < len(src); i++ {
		if m.pos == BlockSize {
			m.c.Encrypt(m.stream[:], m.counter[:])
			m.increment()
			m.pos = 0
		}
		dst[i] = src[i] ^ m.stream[m.pos]
		m.pos++
	}
}

// Dispose overwrites the counter and buffered keystream. Idempotent.
func (m *CTR) Dispose() {
	memutil.Zero(m.counter[:])
	memutil.Zero(m.stream[:])
	m.pos = BlockSize
}
