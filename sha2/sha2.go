// Package sha2 rounds out the symmetric layer with the SHA2-based
// constructions the Keccak family does not cover: HMAC-SHA2-256/512 and
// HKDF extract-and-expand.
package sha2

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	qsc "github.com/qrcs-corp/go-qsc"
)

// HmacSum256 returns the HMAC-SHA2-256 tag of msg under key.
func HmacSum256(key, msg []byte) []byte {
	m := hmac.New(sha256.New, key)
	m.Write(msg)
	return m.Sum(nil)
}

// HmacSum512 returns the HMAC-SHA2-512 tag of msg under key.
func HmacSum512(key, msg []byte) []byte {
	m := hmac.New(sha512.New, key)
	m.Write(msg)
	return m.Sum(nil)
}

// NewHmac256 returns a streaming HMAC-SHA2-256.
func NewHmac256(key []byte) hash.Hash { return hmac.New(sha256.New, key) }

// NewHmac512 returns a streaming HMAC-SHA2-512.
func NewHmac512(key []byte) hash.Hash { return hmac.New(sha512.New, key) }

func hkdfKey(h func() hash.Hash, ikm, salt, info []byte, n int) ([]byte, error) {
	// RFC 5869 caps output at 255 hash lengths.
	if n <= 0 || n > 255*h().Size() {
		return nil, fmt.Errorf("sha2: hkdf output length %d: %w", n, qsc.ErrInvalidParameter)
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(h, ikm, salt, info), out); err != nil {
		return nil, err
	}
	return out, nil
}

// HkdfExpand256 derives n bytes from ikm with HKDF-SHA2-256.
func HkdfExpand256(ikm, salt, info []byte, n int) ([]byte, error) {
	return hkdfKey(sha256.New, ikm, salt, info, n)
}

// HkdfExpand512 derives n bytes from ikm with HKDF-SHA2-512.
func HkdfExpand512(ikm, salt, info []byte, n int) ([]byte, error) {
	return hkdfKey(sha512.New, ikm, salt, info, n)
}
