package mldsa

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/sign"
)

func TestNTTRoundTrip(t *testing.T) {
	var p, orig poly
	for i := range p {
		p[i] = int32(i*12345) % q
	}
	orig = p
	p.ntt()
	require.NotEqual(t, orig, p)
	p.invntt()
	require.Equal(t, orig, p)
}

func TestPower2Round(t *testing.T) {
	for _, r := range []int32{0, 1, 4096, 4097, 8191, 8192, q - 1, 123456} {
		r1, r0 := power2Round(r)
		require.Equal(t, r, r1<<d+r0)
		require.Greater(t, r0, int32(-(1 << (d - 1))))
		require.LessOrEqual(t, r0, int32(1<<(d-1)))
	}
}

func TestDecompose(t *testing.T) {
	for _, gamma2 := range []int32{(q - 1) / 88, (q - 1) / 32} {
		for _, r := range []int32{0, 1, gamma2, 2 * gamma2, 2*gamma2 + 1, q - 1, 5000000} {
			r1, r0 := decompose(r, gamma2)
			// Recomposition holds mod q.
			require.Equal(t, toStandard(r1*2*gamma2+r0), r, "gamma2=%d r=%d", gamma2, r)
			require.LessOrEqual(t, r0, gamma2)
			require.GreaterOrEqual(t, r0, -gamma2)
		}
	}
}

func TestUseHintRanges(t *testing.T) {
	// With no hint, useHint is exactly the high part; with a hint it
	// moves one step within the high-bit range.
	for _, gamma2 := range []int32{(q - 1) / 88, (q - 1) / 32} {
		max := (q - 1) / (2 * gamma2)
		for _, r := range []int32{0, 77, 2 * gamma2, 3*gamma2 + 100, q - 1, 4999999} {
			r1, _ := decompose(r, gamma2)
			require.Equal(t, r1, useHint(0, r, gamma2))

			shifted := useHint(1, r, gamma2)
			require.GreaterOrEqual(t, shifted, int32(0))
			require.Less(t, shifted, max)
			require.NotEqual(t, r1, shifted)
		}
	}
}

func schemes() []sign.Scheme {
	return []sign.Scheme{MLDSA44, MLDSA65, MLDSA87}
}

func TestSizes(t *testing.T) {
	expect := map[string][3]int{
		"ML-DSA-44": {1312, 2560, 2420},
		"ML-DSA-65": {1952, 4032, 3309},
		"ML-DSA-87": {2592, 4896, 4627},
	}
	for _, s := range schemes() {
		sz := expect[s.Name()]
		require.Equal(t, sz[0], s.PublicKeySize(), s.Name())
		require.Equal(t, sz[1], s.PrivateKeySize(), s.Name())
		require.Equal(t, sz[2], s.SignatureSize(), s.Name())
	}
}

func TestRoundTripMessageSizes(t *testing.T) {
	s := MLDSA65
	pk, sk, err := sign.Keypair(s, rand.Reader)
	require.NoError(t, err)

	for _, size := range []int{0, 32, 64, 128} {
		msg := bytes.Repeat([]byte{0xb5}, size)
		sig, err := s.Sign(sk, msg, nil)
		require.NoError(t, err)
		require.Len(t, sig, s.SignatureSize())
		require.True(t, s.Verify(pk, msg, sig), "message size %d", size)
	}
}

func TestAllParameterSets(t *testing.T) {
	msg := []byte("parameter set round trip")
	for _, s := range schemes() {
		t.Run(s.Name(), func(t *testing.T) {
			pk, sk, err := sign.Keypair(s, rand.Reader)
			require.NoError(t, err)
			sig, err := s.Sign(sk, msg, rand.Reader)
			require.NoError(t, err)
			require.True(t, s.Verify(pk, msg, sig))
		})
	}
}

func TestDeterministicSigning(t *testing.T) {
	s := MLDSA65
	seed := bytes.Repeat([]byte{0x31}, 32)
	pk, sk, err := s.DeriveKeypair(seed)
	require.NoError(t, err)
	msg := []byte("same message")

	a, err := s.Sign(sk, msg, nil)
	require.NoError(t, err)
	b, err := s.Sign(sk, msg, nil)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.True(t, s.Verify(pk, msg, a))
}

func TestTamperedSignatureFails(t *testing.T) {
	s := MLDSA65
	pk, sk, err := sign.Keypair(s, rand.Reader)
	require.NoError(t, err)
	msg := []byte("bit flips break signatures")
	sig, err := s.Sign(sk, msg, nil)
	require.NoError(t, err)

	for _, pos := range []int{0, s.SignatureSize() / 2, s.SignatureSize() - 1} {
		bad := append([]byte{}, sig...)
		bad[pos] ^= 0x01
		require.False(t, s.Verify(pk, msg, bad), "flip at %d", pos)
	}

	badMsg := append([]byte{}, msg...)
	badMsg[0] ^= 0x01
	require.False(t, s.Verify(pk, badMsg, sig))
}

func TestFlippedSecretKeyFails(t *testing.T) {
	s := MLDSA44
	pk, sk, err := sign.Keypair(s, rand.Reader)
	require.NoError(t, err)
	msg := []byte("key sensitivity")

	// Flip a bit inside the packed s1 share of the private key.
	bad := append([]byte{}, sk...)
	bad[200] ^= 0x01
	sig, err := s.Sign(bad, msg, nil)
	require.NoError(t, err)
	require.False(t, s.Verify(pk, msg, sig))
}

func TestSealOpen(t *testing.T) {
	s := MLDSA44
	pk, sk, err := sign.Keypair(s, rand.Reader)
	require.NoError(t, err)
	msg := []byte("signed message envelope")

	signed, err := sign.Seal(s, sk, msg, nil)
	require.NoError(t, err)
	out, err := sign.Open(s, pk, signed)
	require.NoError(t, err)
	require.Equal(t, msg, out)

	signed[5] ^= 0x40
	_, err = sign.Open(s, pk, signed)
	require.ErrorIs(t, err, qsc.ErrAuthFailure)

	_, err = sign.Open(s, pk, signed[:10])
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
}

func TestParameterValidation(t *testing.T) {
	_, _, err := MLDSA65.DeriveKeypair(make([]byte, 16))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, err = MLDSA65.Sign(make([]byte, 10), []byte("m"), nil)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	require.False(t, MLDSA65.Verify(make([]byte, 10), []byte("m"), make([]byte, 10)))
}

func TestRegistry(t *testing.T) {
	require.NotNil(t, sign.ByName("ML-DSA-65"))
	require.Contains(t, sign.Names(), "ML-DSA-44")
	require.Contains(t, sign.Names(), "ML-DSA-87")
}
