package mlkem

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/kem"
)

func TestNTTRoundTrip(t *testing.T) {
	var p, orig poly
	for i := range p {
		p[i] = int16((i * 31) % q)
	}
	orig = p
	p.ntt()
	require.NotEqual(t, orig, p)
	p.invntt()
	require.Equal(t, orig, p)
}

func TestBasemulMatchesSchoolbook(t *testing.T) {
	// a(X) * b(X) in the ring equals the NTT-domain base multiply.
	var a, b poly
	a[0] = 1
	a[1] = 5
	a[255] = q - 3
	b[0] = 7
	b[2] = 11

	// Schoolbook multiply mod X^256+1.
	var want poly
	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if b[j] == 0 {
				continue
			}
			k := i + j
			v := int32(a[i]) * int32(b[j]) % q
			if k >= n {
				k -= n
				v = -v
			}
			want[k] = reduce(int32(want[k]) + v)
		}
	}

	an, bn := a, b
	an.ntt()
	bn.ntt()
	var got poly
	got.basemulAcc(&an, &bn)
	got.invntt()
	require.Equal(t, want, got)
}

func TestCompressRoundTrip(t *testing.T) {
	// Decompress(Compress(x)) stays within the rounding radius.
	for _, d := range []uint{1, 4, 5, 10, 11} {
		bound := int32(q+(1<<(d+1))-1) / int32(1<<(d+1))
		for x := int16(0); x < q; x += 13 {
			y := decompress(compress(x, d), d)
			diff := int32(x) - int32(y)
			if diff < 0 {
				diff = -diff
			}
			if q-diff < diff {
				diff = int32(q) - diff
			}
			require.LessOrEqual(t, diff, bound, "d=%d x=%d", d, x)
		}
	}
}

func TestPackUnpack12(t *testing.T) {
	var p, out poly
	for i := range p {
		p[i] = int16((i * 13) % q)
	}
	buf := make([]byte, 384)
	packBits(buf, &p, 12)
	unpackBits(&out, buf, 12)
	require.Equal(t, p, out)
}

func schemes() []kem.Scheme {
	return []kem.Scheme{MLKEM512, MLKEM768, MLKEM1024}
}

func TestSizes(t *testing.T) {
	expect := map[string][3]int{
		"ML-KEM-512":  {800, 1632, 768},
		"ML-KEM-768":  {1184, 2400, 1088},
		"ML-KEM-1024": {1568, 3168, 1568},
	}
	for _, s := range schemes() {
		sz := expect[s.Name()]
		require.Equal(t, sz[0], s.PublicKeySize(), s.Name())
		require.Equal(t, sz[1], s.PrivateKeySize(), s.Name())
		require.Equal(t, sz[2], s.CiphertextSize(), s.Name())
		require.Equal(t, 32, s.SharedSecretSize())
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range schemes() {
		t.Run(s.Name(), func(t *testing.T) {
			pk, sk, err := kem.Keypair(s, rand.Reader)
			require.NoError(t, err)
			require.Len(t, pk, s.PublicKeySize())
			require.Len(t, sk, s.PrivateKeySize())

			ct, ss, err := kem.Encapsulate(s, pk, rand.Reader)
			require.NoError(t, err)
			require.Len(t, ct, s.CiphertextSize())

			ss2, status, err := s.Decapsulate(sk, ct)
			require.NoError(t, err)
			require.Equal(t, kem.AuthOk, status)
			require.Equal(t, ss, ss2)
		})
	}
}

func TestDeterministicKeygen(t *testing.T) {
	seed := bytes.Repeat([]byte{0x41}, 64)
	pk1, sk1, err := MLKEM768.DeriveKeypair(seed)
	require.NoError(t, err)
	pk2, sk2, err := MLKEM768.DeriveKeypair(seed)
	require.NoError(t, err)
	require.Equal(t, pk1, pk2)
	require.Equal(t, sk1, sk2)

	seed[0] ^= 1
	pk3, _, err := MLKEM768.DeriveKeypair(seed)
	require.NoError(t, err)
	require.NotEqual(t, pk1, pk3)
}

func TestDeterministicEncaps(t *testing.T) {
	pk, _, err := MLKEM768.DeriveKeypair(bytes.Repeat([]byte{0x7}, 64))
	require.NoError(t, err)
	m := bytes.Repeat([]byte{0x2d}, 32)

	ct1, ss1, err := MLKEM768.Encapsulate(pk, m)
	require.NoError(t, err)
	ct2, ss2, err := MLKEM768.Encapsulate(pk, m)
	require.NoError(t, err)
	require.Equal(t, ct1, ct2)
	require.Equal(t, ss1, ss2)
}

func TestImplicitRejection(t *testing.T) {
	s := MLKEM768
	pk, sk, err := kem.Keypair(s, rand.Reader)
	require.NoError(t, err)
	ct, ss, err := kem.Encapsulate(s, pk, rand.Reader)
	require.NoError(t, err)

	bad := append([]byte{}, ct...)
	bad[17] ^= 0x04
	ssBad, status, err := s.Decapsulate(sk, bad)
	require.NoError(t, err)
	require.Equal(t, kem.ImplicitReject, status)
	require.NotEqual(t, ss, ssBad)

	// The rejection secret is deterministic for a given (sk, ct).
	ssBad2, status2, err := s.Decapsulate(sk, bad)
	require.NoError(t, err)
	require.Equal(t, kem.ImplicitReject, status2)
	require.Equal(t, ssBad, ssBad2)
}

func TestParameterValidation(t *testing.T) {
	_, _, err := MLKEM768.DeriveKeypair(make([]byte, 32))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, _, err = MLKEM768.Encapsulate(make([]byte, 100), make([]byte, 32))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	pk, sk, err := MLKEM768.DeriveKeypair(make([]byte, 64))
	require.NoError(t, err)
	_, _, err = MLKEM768.Encapsulate(pk, make([]byte, 16))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, _, err = MLKEM768.Decapsulate(sk, make([]byte, 10))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, _, err = MLKEM768.Decapsulate(sk[:100], make([]byte, MLKEM768.CiphertextSize()))
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
}

func TestRegistry(t *testing.T) {
	require.NotNil(t, kem.ByName("ML-KEM-768"))
	require.Contains(t, kem.Names(), "ML-KEM-512")
	require.Contains(t, kem.Names(), "ML-KEM-1024")
}
