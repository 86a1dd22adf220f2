package sphincs

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/sign"
)

func TestSizes(t *testing.T) {
	s := SphincsShake128s
	require.Equal(t, 32, s.PublicKeySize())
	require.Equal(t, 64, s.PrivateKeySize())
	require.Equal(t, 7856, s.SignatureSize())
	require.Equal(t, 48, s.KeygenSeedSize())
}

func TestWotsRoundTrip(t *testing.T) {
	skSeed := bytes.Repeat([]byte{0x01}, paramN)
	pkSeed := bytes.Repeat([]byte{0x02}, paramN)
	msg := bytes.Repeat([]byte{0xc3}, paramN)

	var a adrs
	a.setLayer(1)
	a.setTree(42)
	a.setKeyPair(7)

	want := make([]byte, paramN)
	wotsPkGen(want, skSeed, pkSeed, &a)

	sig := make([]byte, wotsLen*paramN)
	var sa adrs
	copy(sa[:], a[:])
	wotsSign(sig, msg, skSeed, pkSeed, &sa)

	got := make([]byte, paramN)
	var va adrs
	copy(va[:], a[:])
	wotsPkFromSig(got, sig, msg, pkSeed, &va)
	require.Equal(t, want, got)

	// A different message recovers a different key.
	bad := append([]byte{}, msg...)
	bad[0] ^= 1
	copy(va[:], a[:])
	wotsPkFromSig(got, sig, bad, pkSeed, &va)
	require.NotEqual(t, want, got)
}

func TestXmssRoundTrip(t *testing.T) {
	skSeed := bytes.Repeat([]byte{0x11}, paramN)
	pkSeed := bytes.Repeat([]byte{0x22}, paramN)
	msg := bytes.Repeat([]byte{0x9e}, paramN)

	var a adrs
	a.setLayer(3)
	a.setTree(5)

	root := make([]byte, paramN)
	xmssNode(root, skSeed, pkSeed, 0, paramHPrime, &a)

	leaf := uint32(301)
	sig := make([]byte, (wotsLen+paramHPrime)*paramN)
	xmssSign(sig, msg, skSeed, pkSeed, leaf, &a)

	got := make([]byte, paramN)
	xmssPkFromSig(got, sig, msg, pkSeed, leaf, &a)
	require.Equal(t, root, got)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := SphincsShake128s
	seed := make([]byte, s.KeygenSeedSize())
	for i := range seed {
		seed[i] = byte(i * 3)
	}
	pk, sk, err := s.DeriveKeypair(seed)
	require.NoError(t, err)
	require.Len(t, pk, s.PublicKeySize())
	require.Len(t, sk, s.PrivateKeySize())

	msg := []byte("stateless hash-based signature")
	sig, err := s.Sign(sk, msg, nil)
	require.NoError(t, err)
	require.Len(t, sig, s.SignatureSize())
	require.True(t, s.Verify(pk, msg, sig))

	// Deterministic signing repeats exactly.
	again, err := s.Sign(sk, msg, nil)
	require.NoError(t, err)
	require.Equal(t, sig, again)

	// Tampering anywhere fails.
	for _, pos := range []int{0, paramN + 5, paramN + forsSize + 100, sigSize - 1} {
		bad := append([]byte{}, sig...)
		bad[pos] ^= 0x01
		require.False(t, s.Verify(pk, msg, bad), "flip at %d", pos)
	}
	badMsg := append([]byte{}, msg...)
	badMsg[3] ^= 0x01
	require.False(t, s.Verify(pk, badMsg, sig))
}

func TestRandomizedSigning(t *testing.T) {
	s := SphincsShake128s
	pk, sk, err := sign.Keypair(s, rand.Reader)
	require.NoError(t, err)

	msg := []byte("hedged")
	sig, err := s.Sign(sk, msg, rand.Reader)
	require.NoError(t, err)
	require.True(t, s.Verify(pk, msg, sig))
}

func TestParameterValidation(t *testing.T) {
	s := SphincsShake128s
	_, _, err := s.DeriveKeypair(make([]byte, 16))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, err = s.Sign(make([]byte, 10), []byte("m"), nil)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	require.False(t, s.Verify(make([]byte, 3), []byte("m"), make([]byte, 3)))
}

func TestRegistered(t *testing.T) {
	require.NotNil(t, sign.ByName("SPHINCS+-SHAKE-128s"))
}
