// Package mlkem implements the ML-KEM lattice scheme (FIPS 203) at the
// 512, 768, and 1024 security categories: the K-PKE encryption core
// over the ring Z_q[X]/(X^256+1) with uniform matrix expansion and
// centered-binomial noise, wrapped in the Fujisaki-Okamoto transform
// with implicit rejection.
package mlkem

import (
	"crypto/subtle"
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/keccak"
	"github.com/qrcs-corp/go-qsc/kem"
)

// scheme is one ML-KEM parameter set.
type scheme struct {
	name string
	k    int
	eta1 int
	eta2 int
	du   uint
	dv   uint
}

// The three standard parameter sets.
var (
	MLKEM512  kem.Scheme = &scheme{name: "ML-KEM-512", k: 2, eta1: 3, eta2: 2, du: 10, dv: 4}
	MLKEM768  kem.Scheme = &scheme{name: "ML-KEM-768", k: 3, eta1: 2, eta2: 2, du: 10, dv: 4}
	MLKEM1024 kem.Scheme = &scheme{name: "ML-KEM-1024", k: 4, eta1: 2, eta2: 2, du: 11, dv: 5}
)

func init() {
	kem.Register(MLKEM512)
	kem.Register(MLKEM768)
	kem.Register(MLKEM1024)
}

func (s *scheme) Name() string          { return s.name }
func (s *scheme) PublicKeySize() int    { return 384*s.k + 32 }
func (s *scheme) PrivateKeySize() int   { return 768*s.k + 96 }
func (s *scheme) CiphertextSize() int   { return 32 * (int(s.du)*s.k + int(s.dv)) }
func (s *scheme) SharedSecretSize() int { return 32 }
func (s *scheme) KeygenSeedSize() int   { return 64 }
func (s *scheme) EncapsSeedSize() int   { return 32 }

// pkeKeygen derives the K-PKE keypair from the 32-byte seed d: the
// matrix seed rho and noise seed sigma come out of SHA3-512 over d
// plus the module dimension.
func (s *scheme) pkeKeygen(d []byte) (ek, dk []byte) {
	g := keccak.New512()
	g.Absorb(d)
	g.Absorb([]byte{byte(s.k)})
	var gout [64]byte
	g.Squeeze(gout[:])
	g.Dispose()
	rho, sigma := gout[:32], gout[32:]

	noise := make([]byte, 64*s.eta1)
	sv := make([]poly, s.k)
	ev := make([]poly, s.k)
	nonce := byte(0)
	for i := 0; i < s.k; i++ {
		prf(noise, sigma, nonce)
		nonce++
		sampleCBD(&sv[i], noise, s.eta1)
		sv[i].ntt()
	}
	for i := 0; i < s.k; i++ {
		prf(noise, sigma, nonce)
		nonce++
		sampleCBD(&ev[i], noise, s.eta1)
		ev[i].ntt()
	}

	// t = A*s + e, accumulated row by row in the transform domain.
	ek = make([]byte, s.PublicKeySize())
	dk = make([]byte, 384*s.k)
	var a, t poly
	for i := 0; i < s.k; i++ {
		t = ev[i]
		for j := 0; j < s.k; j++ {
			sampleNTT(&a, rho, byte(j), byte(i))
			t.basemulAcc(&a, &sv[j])
		}
		packBits(ek[384*i:384*(i+1)], &t, 12)
		packBits(dk[384*i:384*(i+1)], &sv[i], 12)
	}
	copy(ek[384*s.k:], rho)

	memutil.Zero(gout[:])
	memutil.Zero(noise)
	for i := range sv {
		for j := range sv[i] {
			sv[i][j] = 0
		}
	}
	return ek, dk
}

// pkeEncrypt encrypts the 32-byte message m under ek with the
// encryption randomness r32.
func (s *scheme) pkeEncrypt(ct, ek, m, r32 []byte) {
	tv := make([]poly, s.k)
	for i := 0; i < s.k; i++ {
		unpackBits(&tv[i], ek[384*i:], 12)
	}
	rho := ek[384*s.k:]

	rv := make([]poly, s.k)
	noise := make([]byte, 64*s.eta1)
	nonce := byte(0)
	for i := 0; i < s.k; i++ {
		prf(noise, r32, nonce)
		nonce++
		sampleCBD(&rv[i], noise, s.eta1)
		rv[i].ntt()
	}

	small := make([]byte, 64*s.eta2)
	var a, acc, e poly

	// u = invNTT(A^T * r) + e1, compressed to du bits per coefficient.
	ctu := ct[:32*int(s.du)*s.k]
	for i := 0; i < s.k; i++ {
		acc = poly{}
		for j := 0; j < s.k; j++ {
			sampleNTT(&a, rho, byte(i), byte(j))
			acc.basemulAcc(&a, &rv[j])
		}
		acc.invntt()
		prf(small, r32, nonce)
		nonce++
		sampleCBD(&e, small, s.eta2)
		acc.add(&e)
		packBits(ctu[32*int(s.du)*i:], &acc, s.du)
	}

	// v = invNTT(t . r) + e2 + Decompress1(m), compressed to dv bits.
	acc = poly{}
	for j := 0; j < s.k; j++ {
		acc.basemulAcc(&tv[j], &rv[j])
	}
	acc.invntt()
	prf(small, r32, nonce)
	sampleCBD(&e, small, s.eta2)
	acc.add(&e)
	var mp poly
	unpackBits(&mp, m, 1)
	acc.add(&mp)
	packBits(ct[32*int(s.du)*s.k:], &acc, s.dv)

	memutil.Zero(noise)
	memutil.Zero(small)
}

// pkeDecrypt recovers the 32-byte message from ct under the K-PKE
// private key.
func (s *scheme) pkeDecrypt(m, dk, ct []byte) {
	var u, w, acc poly
	acc = poly{}
	var sk poly
	for i := 0; i < s.k; i++ {
		unpackBits(&u, ct[32*int(s.du)*i:], s.du)
		u.ntt()
		unpackBits(&sk, dk[384*i:], 12)
		acc.basemulAcc(&sk, &u)
	}
	acc.invntt()
	unpackBits(&w, ct[32*int(s.du)*s.k:], s.dv)
	w.sub(&acc)
	for i := range m[:32] {
		m[i] = 0
	}
	packBits(m[:32], &w, 1)
}

// DeriveKeypair expands the 64-byte seed (d then z) into the FO keypair
// layout: dk = dkPKE || ek || H(ek) || z.
func (s *scheme) DeriveKeypair(seed []byte) (pk, sk []byte, err error) {
	if len(seed) != s.KeygenSeedSize() {
		return nil, nil, fmt.Errorf("mlkem: keygen seed length %d: %w", len(seed), qsc.ErrInvalidParameter)
	}
	d, z := seed[:32], seed[32:]
	ek, dkPKE := s.pkeKeygen(d)

	sk = make([]byte, 0, s.PrivateKeySize())
	sk = append(sk, dkPKE...)
	sk = append(sk, ek...)
	h := keccak.Sum256(ek)
	sk = append(sk, h[:]...)
	sk = append(sk, z...)
	return ek, sk, nil
}

// Encapsulate derives (K, r) = G(m || H(ek)) and encrypts m under r.
func (s *scheme) Encapsulate(pk, seed []byte) (ct, ss []byte, err error) {
	if len(pk) != s.PublicKeySize() {
		return nil, nil, fmt.Errorf("mlkem: public key length %d: %w", len(pk), qsc.ErrInvalidParameter)
	}
	if len(seed) != s.EncapsSeedSize() {
		return nil, nil, fmt.Errorf("mlkem: encaps seed length %d: %w", len(seed), qsc.ErrInvalidParameter)
	}

	h := keccak.Sum256(pk)
	g := keccak.New512()
	g.Absorb(seed)
	g.Absorb(h[:])
	var kr [64]byte
	g.Squeeze(kr[:])
	g.Dispose()

	ct = make([]byte, s.CiphertextSize())
	s.pkeEncrypt(ct, pk, seed, kr[32:])
	ss = append([]byte{}, kr[:32]...)
	memutil.Zero(kr[:])
	return ct, ss, nil
}

// Decapsulate decrypts, re-encrypts, and compares in constant time; on
// mismatch the pseudorandom rejection secret J(z || ct) is returned
// with ImplicitReject.
func (s *scheme) Decapsulate(sk, ct []byte) ([]byte, kem.Status, error) {
	if len(sk) != s.PrivateKeySize() {
		return nil, kem.AuthOk, fmt.Errorf("mlkem: private key length %d: %w", len(sk), qsc.ErrInvalidParameter)
	}
	if len(ct) != s.CiphertextSize() {
		return nil, kem.AuthOk, fmt.Errorf("mlkem: ciphertext length %d: %w", len(ct), qsc.ErrInvalidParameter)
	}

	dkPKE := sk[:384*s.k]
	ek := sk[384*s.k : 768*s.k+32]
	h := sk[768*s.k+32 : 768*s.k+64]
	z := sk[768*s.k+64:]

	var m [32]byte
	s.pkeDecrypt(m[:], dkPKE, ct)

	g := keccak.New512()
	g.Absorb(m[:])
	g.Absorb(h)
	var kr [64]byte
	g.Squeeze(kr[:])
	g.Dispose()

	// Rejection secret, computed unconditionally.
	rej := keccak.NewShake256()
	rej.Absorb(z)
	rej.Absorb(ct)
	bar := make([]byte, 32)
	rej.Squeeze(bar)
	rej.Dispose()

	ct2 := make([]byte, s.CiphertextSize())
	s.pkeEncrypt(ct2, ek, m[:], kr[32:])

	ok := subtle.ConstantTimeCompare(ct, ct2)
	ss := make([]byte, 32)
	copy(ss, bar)
	subtle.ConstantTimeCopy(ok, ss, kr[:32])

	memutil.Zero(kr[:])
	memutil.Zero(m[:])
	memutil.Zero(bar)

	if ok == 1 {
		return ss, kem.AuthOk, nil
	}
	return ss, kem.ImplicitReject, nil
}
