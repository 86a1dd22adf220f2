package rcs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	qsc "github.com/qrcs-corp/go-qsc"
)

func newPair(t *testing.T, key, nonce, info []byte) (*State, *State) {
	t.Helper()
	var enc, dec *State
	var err error
	if len(key) == Key256Size {
		enc, err = New256(key, nonce, info)
		require.NoError(t, err)
		dec, err = New256(key, nonce, info)
	} else {
		enc, err = New512(key, nonce, info)
		require.NoError(t, err)
		dec, err = New512(key, nonce, info)
	}
	require.NoError(t, err)
	return enc, dec
}

// The end-to-end AEAD scenario: fixed key, nonce, info, AAD, plaintext.
func TestAEADRoundTrip256(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, Key256Size)
	nonce := bytes.Repeat([]byte{0x02}, NonceSize)
	info := []byte("test")
	aad := []byte("aad")
	pt := bytes.Repeat([]byte{0x03}, 100)

	enc, dec := newPair(t, key, nonce, info)
	require.NoError(t, enc.SetAssociated(aad))
	ct := make([]byte, len(pt)+enc.TagSize())
	require.NoError(t, enc.Encrypt(ct, pt))
	require.NotEqual(t, pt, ct[:len(pt)])

	require.NoError(t, dec.SetAssociated(aad))
	out := make([]byte, len(pt))
	require.NoError(t, dec.Decrypt(out, ct))
	require.Equal(t, pt, out)
}

func TestAEADRoundTrip512(t *testing.T) {
	key := bytes.Repeat([]byte{0x44}, Key512Size)
	nonce := bytes.Repeat([]byte{0x55}, NonceSize)
	pt := make([]byte, 257)
	for i := range pt {
		pt[i] = byte(i)
	}

	enc, dec := newPair(t, key, nonce, nil)
	ct := make([]byte, len(pt)+Tag512Size)
	require.NoError(t, enc.Encrypt(ct, pt))

	out := make([]byte, len(pt))
	require.NoError(t, dec.Decrypt(out, ct))
	require.Equal(t, pt, out)
}

func TestTamperDetection(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, Key256Size)
	nonce := bytes.Repeat([]byte{0x02}, NonceSize)
	info := []byte("test")
	aad := []byte("aad")
	pt := bytes.Repeat([]byte{0x03}, 100)

	encrypt := func() []byte {
		enc, err := New256(key, nonce, info)
		require.NoError(t, err)
		require.NoError(t, enc.SetAssociated(aad))
		ct := make([]byte, len(pt)+Tag256Size)
		require.NoError(t, enc.Encrypt(ct, pt))
		return ct
	}

	// Flipping the first tag byte fails authentication.
	ct := encrypt()
	ct[len(pt)] ^= 0x01
	dec, err := New256(key, nonce, info)
	require.NoError(t, err)
	require.NoError(t, dec.SetAssociated(aad))
	out := make([]byte, len(pt))
	require.ErrorIs(t, dec.Decrypt(out, ct), qsc.ErrAuthFailure)
	// No plaintext was produced.
	require.Equal(t, make([]byte, len(pt)), out)

	// Flipping any ciphertext byte fails authentication.
	ct = encrypt()
	ct[41] ^= 0x80
	dec, err = New256(key, nonce, info)
	require.NoError(t, err)
	require.NoError(t, dec.SetAssociated(aad))
	require.ErrorIs(t, dec.Decrypt(out, ct), qsc.ErrAuthFailure)

	// Flipping the first AAD byte fails authentication.
	ct = encrypt()
	dec, err = New256(key, nonce, info)
	require.NoError(t, err)
	badAAD := []byte("bad")
	require.NoError(t, dec.SetAssociated(badAAD))
	require.ErrorIs(t, dec.Decrypt(out, ct), qsc.ErrAuthFailure)
}

func TestPlainTransformRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x0a}, Key256Size)
	nonce := bytes.Repeat([]byte{0x0b}, NonceSize)
	pt := make([]byte, 100)
	for i := range pt {
		pt[i] = byte(i * 5)
	}

	enc, dec := newPair(t, key, nonce, nil)
	ct := make([]byte, len(pt))
	enc.XORKeyStream(ct, pt)
	require.NotEqual(t, pt, ct)

	out := make([]byte, len(pt))
	dec.XORKeyStream(out, ct)
	require.Equal(t, pt, out)
}

func TestInfoSeparatesKeystreams(t *testing.T) {
	key := bytes.Repeat([]byte{0x21}, Key256Size)
	nonce := bytes.Repeat([]byte{0x22}, NonceSize)
	pt := make([]byte, 64)

	a, err := New256(key, nonce, []byte("domain-a"))
	require.NoError(t, err)
	b, err := New256(key, nonce, []byte("domain-b"))
	require.NoError(t, err)

	ctA := make([]byte, 64)
	ctB := make([]byte, 64)
	a.XORKeyStream(ctA, pt)
	b.XORKeyStream(ctB, pt)
	require.NotEqual(t, ctA, ctB)
}

func TestSingleUse(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, Key256Size)
	nonce := make([]byte, NonceSize)
	enc, err := New256(key, nonce, nil)
	require.NoError(t, err)
	ct := make([]byte, 16+Tag256Size)
	require.NoError(t, enc.Encrypt(ct, make([]byte, 16)))
	require.ErrorIs(t, enc.Encrypt(ct, make([]byte, 16)), qsc.ErrInvalidParameter)
	require.ErrorIs(t, enc.SetAssociated([]byte("late")), qsc.ErrInvalidParameter)
}

func TestParameterValidation(t *testing.T) {
	_, err := New256(make([]byte, 16), make([]byte, NonceSize), nil)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, err = New256(make([]byte, Key256Size), make([]byte, 12), nil)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, err = New512(make([]byte, Key256Size), make([]byte, NonceSize), nil)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
}

func TestDisposeIdempotent(t *testing.T) {
	s, err := New256(bytes.Repeat([]byte{7}, Key256Size), make([]byte, NonceSize), nil)
	require.NoError(t, err)
	s.Dispose()
	require.NotPanics(t, func() { s.Dispose() })
	for _, b := range s.schedule {
		require.Zero(t, b)
	}
}
