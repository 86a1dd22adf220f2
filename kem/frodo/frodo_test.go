package frodo

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qrcs-corp/go-qsc/kem"
)

func TestRoundTrip(t *testing.T) {
	s := Frodo640Shake
	pk, sk, err := kem.Keypair(s, rand.Reader)
	require.NoError(t, err)

	ct, ss, err := kem.Encapsulate(s, pk, rand.Reader)
	require.NoError(t, err)
	require.Len(t, ct, s.CiphertextSize())

	ss2, _, err := s.Decapsulate(sk, ct)
	require.NoError(t, err)
	require.Equal(t, ss, ss2)
}

func TestDeterministicKeygen(t *testing.T) {
	s := Frodo640Shake
	seed := bytes.Repeat([]byte{0x5c}, s.KeygenSeedSize())
	pk1, sk1, err := s.DeriveKeypair(seed)
	require.NoError(t, err)
	pk2, sk2, err := s.DeriveKeypair(seed)
	require.NoError(t, err)
	require.Equal(t, pk1, pk2)
	require.Equal(t, sk1, sk2)
}

func TestRegistered(t *testing.T) {
	require.NotNil(t, kem.ByName("FrodoKEM-640-SHAKE"))
}
