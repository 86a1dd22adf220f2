package mceliece

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qrcs-corp/go-qsc/kem"
)

// McEliece round-trip with message randomness drawn from the system
// provider.
func TestRoundTrip(t *testing.T) {
	s := McEliece348864
	pk, sk, err := kem.Keypair(s, rand.Reader)
	require.NoError(t, err)
	require.Len(t, pk, s.PublicKeySize())
	require.Len(t, sk, s.PrivateKeySize())

	ct, ss, err := kem.Encapsulate(s, pk, rand.Reader)
	require.NoError(t, err)
	require.Len(t, ct, s.CiphertextSize())

	ss2, _, err := s.Decapsulate(sk, ct)
	require.NoError(t, err)
	require.Equal(t, ss, ss2)
}

func TestTamperedCiphertextDiffers(t *testing.T) {
	s := McEliece348864
	pk, sk, err := kem.Keypair(s, rand.Reader)
	require.NoError(t, err)
	ct, ss, err := kem.Encapsulate(s, pk, rand.Reader)
	require.NoError(t, err)

	bad := append([]byte{}, ct...)
	bad[3] ^= 0x20
	ssBad, _, err := s.Decapsulate(sk, bad)
	require.NoError(t, err)
	require.NotEqual(t, ss, ssBad)
}

func TestRegistered(t *testing.T) {
	require.NotNil(t, kem.ByName("McEliece-348864"))
}
