// Package mldsa implements the ML-DSA lattice signature scheme
// (FIPS 204) at the 44, 65, and 87 parameter sets: rejection-sampled
// Fiat-Shamir with aborts over the ring Z_q[X]/(X^256+1), with the
// hint mechanism carrying the dropped low bits of the public key and
// hedged or deterministic signing.
package mldsa

import (
	"fmt"
	"io"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/keccak"
	"github.com/qrcs-corp/go-qsc/sign"
)

// scheme is one ML-DSA parameter set.
type scheme struct {
	name      string
	k, l      int
	eta       int32
	etaBits   uint
	tau       int
	beta      int32
	gamma1    int32
	gammaBits uint
	gamma2    int32
	omega     int
	lambda    int
	w1Bits    uint
}

// The three standard parameter sets.
var (
	MLDSA44 sign.Scheme = &scheme{
		name: "ML-DSA-44", k: 4, l: 4, eta: 2, etaBits: 3, tau: 39, beta: 78,
		gamma1: 1 << 17, gammaBits: 18, gamma2: (q - 1) / 88, omega: 80,
		lambda: 128, w1Bits: 6,
	}
	MLDSA65 sign.Scheme = &scheme{
		name: "ML-DSA-65", k: 6, l: 5, eta: 4, etaBits: 4, tau: 49, beta: 196,
		gamma1: 1 << 19, gammaBits: 20, gamma2: (q - 1) / 32, omega: 55,
		lambda: 192, w1Bits: 4,
	}
	MLDSA87 sign.Scheme = &scheme{
		name: "ML-DSA-87", k: 8, l: 7, eta: 2, etaBits: 3, tau: 60, beta: 120,
		gamma1: 1 << 19, gammaBits: 20, gamma2: (q - 1) / 32, omega: 75,
		lambda: 256, w1Bits: 4,
	}
)

func init() {
	sign.Register(MLDSA44)
	sign.Register(MLDSA65)
	sign.Register(MLDSA87)
}

func (s *scheme) Name() string        { return s.name }
func (s *scheme) KeygenSeedSize() int { return 32 }
func (s *scheme) PublicKeySize() int  { return 32 + 320*s.k }
func (s *scheme) PrivateKeySize() int {
	return 128 + 32*int(s.etaBits)*(s.k+s.l) + 416*s.k
}
func (s *scheme) SignatureSize() int {
	return s.lambda/4 + 32*int(s.gammaBits)*s.l + s.omega + s.k
}

// expandA fills the k x l matrix in the transform domain from rho.
func (s *scheme) expandA(a []poly, rho []byte) {
	for r := 0; r < s.k; r++ {
		for c := 0; c < s.l; c++ {
			expandUniform(&a[r*s.l+c], rho, byte(c), byte(r))
		}
	}
}

// matVecNTT computes w = A*v for v already in the transform domain,
// leaving w in the transform domain.
func (s *scheme) matVecNTT(w, a, v []poly) {
	for r := 0; r < s.k; r++ {
		w[r] = poly{}
		for c := 0; c < s.l; c++ {
			w[r].mulAcc(&a[r*s.l+c], &v[c])
		}
	}
}

func shake256Sum(out []byte, parts ...[]byte) {
	xof := keccak.NewShake256()
	for _, p := range parts {
		xof.Absorb(p)
	}
	xof.Squeeze(out)
	xof.Dispose()
}

func (s *scheme) packEta(out []byte, p *poly) {
	eta := s.eta
	bitPack(out, p, s.etaBits, func(v int32) uint32 { return uint32(eta - v) })
}

func (s *scheme) unpackEta(p *poly, in []byte) {
	eta := s.eta
	bitUnpack(p, in, s.etaBits, func(v uint32) int32 { return eta - int32(v) })
}

func packT0(out []byte, p *poly) {
	bitPack(out, p, 13, func(v int32) uint32 { return uint32(1<<(d-1) - v) })
}

func unpackT0(p *poly, in []byte) {
	bitUnpack(p, in, 13, func(v uint32) int32 { return 1<<(d-1) - int32(v) })
}

func (s *scheme) packZ(out []byte, p *poly) {
	g := s.gamma1
	bitPack(out, p, s.gammaBits, func(v int32) uint32 { return uint32(v + g) })
}

func (s *scheme) unpackZ(p *poly, in []byte) {
	g := s.gamma1
	bitUnpack(p, in, s.gammaBits, func(v uint32) int32 { return int32(v) - g })
}

// packHints encodes the hint vector as omega position bytes plus k
// cumulative counts.
func (s *scheme) packHints(out []byte, h []poly) {
	idx := 0
	for i := 0; i < s.k; i++ {
		for j := 0; j < n; j++ {
			if h[i][j] != 0 {
				out[idx] = byte(j)
				idx++
			}
		}
		out[s.omega+i] = byte(idx)
	}
	for ; idx < s.omega; idx++ {
		out[idx] = 0
	}
}

// unpackHints decodes and validates the hint encoding: monotonic
// counts, sorted positions, at most omega set bits.
func (s *scheme) unpackHints(h []poly, in []byte) bool {
	idx := 0
	for i := 0; i < s.k; i++ {
		h[i] = poly{}
		end := int(in[s.omega+i])
		if end < idx || end > s.omega {
			return false
		}
		for j := idx; j < end; j++ {
			if j > idx && in[j] <= in[j-1] {
				return false
			}
			h[i][in[j]] = 1
		}
		idx = end
	}
	for j := idx; j < s.omega; j++ {
		if in[j] != 0 {
			return false
		}
	}
	return true
}

// DeriveKeypair expands the 32-byte seed into the keypair: matrix seed
// rho, noise seed, and signing key K from SHAKE-256 over the seed and
// the module dimensions.
func (s *scheme) DeriveKeypair(seed []byte) (pk, sk []byte, err error) {
	if len(seed) != s.KeygenSeedSize() {
		return nil, nil, fmt.Errorf("mldsa: keygen seed length %d: %w", len(seed), qsc.ErrInvalidParameter)
	}

	var expanded [128]byte
	shake256Sum(expanded[:], seed, []byte{byte(s.k), byte(s.l)})
	rho := expanded[:32]
	rhoPrime := expanded[32:96]
	key := expanded[96:]

	a := make([]poly, s.k*s.l)
	s.expandA(a, rho)

	s1 := make([]poly, s.l)
	s2 := make([]poly, s.k)
	for i := 0; i < s.l; i++ {
		expandShort(&s1[i], rhoPrime, uint16(i), s.eta)
	}
	for i := 0; i < s.k; i++ {
		expandShort(&s2[i], rhoPrime, uint16(s.l+i), s.eta)
	}

	// t = A*s1 + s2 in standard representatives.
	s1hat := make([]poly, s.l)
	for i := range s1hat {
		for j := 0; j < n; j++ {
			s1hat[i][j] = toStandard(s1[i][j])
		}
		s1hat[i].ntt()
	}
	t := make([]poly, s.k)
	s.matVecNTT(t, a, s1hat)
	for i := 0; i < s.k; i++ {
		t[i].invntt()
		for j := 0; j < n; j++ {
			t[i][j] = addq(t[i][j], toStandard(s2[i][j]))
		}
	}

	pk = make([]byte, s.PublicKeySize())
	copy(pk, rho)
	t0 := make([]poly, s.k)
	for i := 0; i < s.k; i++ {
		var t1 poly
		for j := 0; j < n; j++ {
			hi, lo := power2Round(t[i][j])
			t1[j] = hi
			t0[i][j] = lo
		}
		bitPack(pk[32+320*i:32+320*(i+1)], &t1, 10, func(v int32) uint32 { return uint32(v) })
	}

	var tr [64]byte
	shake256Sum(tr[:], pk)

	sk = make([]byte, s.PrivateKeySize())
	copy(sk[0:32], rho)
	copy(sk[32:64], key)
	copy(sk[64:128], tr[:])
	off := 128
	for i := 0; i < s.l; i++ {
		s.packEta(sk[off:off+32*int(s.etaBits)], &s1[i])
		off += 32 * int(s.etaBits)
	}
	for i := 0; i < s.k; i++ {
		s.packEta(sk[off:off+32*int(s.etaBits)], &s2[i])
		off += 32 * int(s.etaBits)
	}
	for i := 0; i < s.k; i++ {
		packT0(sk[off:off+416], &t0[i])
		off += 416
	}

	memutil.Zero(expanded[:])
	return pk, sk, nil
}

// Sign produces a fixed-length signature. A non-nil rng selects hedged
// signing; nil selects the deterministic path.
func (s *scheme) Sign(sk, msg []byte, rng io.Reader) ([]byte, error) {
	if len(sk) != s.PrivateKeySize() {
		return nil, fmt.Errorf("mldsa: private key length %d: %w", len(sk), qsc.ErrInvalidParameter)
	}

	rho := sk[0:32]
	key := sk[32:64]
	tr := sk[64:128]

	etaBytes := 32 * int(s.etaBits)
	off := 128
	s1hat := make([]poly, s.l)
	for i := 0; i < s.l; i++ {
		s.unpackEta(&s1hat[i], sk[off:])
		off += etaBytes
		for j := 0; j < n; j++ {
			s1hat[i][j] = toStandard(s1hat[i][j])
		}
		s1hat[i].ntt()
	}
	s2hat := make([]poly, s.k)
	for i := 0; i < s.k; i++ {
		s.unpackEta(&s2hat[i], sk[off:])
		off += etaBytes
		for j := 0; j < n; j++ {
			s2hat[i][j] = toStandard(s2hat[i][j])
		}
		s2hat[i].ntt()
	}
	t0hat := make([]poly, s.k)
	for i := 0; i < s.k; i++ {
		unpackT0(&t0hat[i], sk[off:])
		off += 416
		for j := 0; j < n; j++ {
			t0hat[i][j] = toStandard(t0hat[i][j])
		}
		t0hat[i].ntt()
	}

	a := make([]poly, s.k*s.l)
	s.expandA(a, rho)

	var mu [64]byte
	shake256Sum(mu[:], tr, msg)

	var rnd [32]byte
	if rng != nil {
		if _, err := io.ReadFull(rng, rnd[:]); err != nil {
			return nil, fmt.Errorf("mldsa: hedge randomness: %v: %w", err, qsc.ErrEntropyFailure)
		}
	}
	var rhoPP [64]byte
	shake256Sum(rhoPP[:], key, rnd[:], mu[:])

	sig := make([]byte, s.SignatureSize())
	ctilde := sig[:s.lambda/4]
	w1Bytes := make([]byte, 32*int(s.w1Bits)*s.k)

	y := make([]poly, s.l)
	yhat := make([]poly, s.l)
	w := make([]poly, s.k)
	w1 := make([]poly, s.k)
	w0 := make([]poly, s.k)
	h := make([]poly, s.k)
	var c, tmp poly

	for kappa := 0; ; kappa += s.l {
		for i := 0; i < s.l; i++ {
			expandMask(&y[i], rhoPP[:], uint16(kappa+i), s.gamma1, s.gammaBits)
			for j := 0; j < n; j++ {
				yhat[i][j] = toStandard(y[i][j])
			}
			yhat[i].ntt()
		}
		s.matVecNTT(w, a, yhat)
		for i := 0; i < s.k; i++ {
			w[i].invntt()
			for j := 0; j < n; j++ {
				w1[i][j], w0[i][j] = decompose(w[i][j], s.gamma2)
			}
		}

		for i := range w1Bytes {
			w1Bytes[i] = 0
		}
		for i := 0; i < s.k; i++ {
			bitPack(w1Bytes[32*int(s.w1Bits)*i:], &w1[i], s.w1Bits,
				func(v int32) uint32 { return uint32(v) })
		}
		shake256Sum(ctilde, mu[:], w1Bytes)
		sampleInBall(&c, ctilde, s.tau)
		chat := c
		for j := 0; j < n; j++ {
			chat[j] = toStandard(chat[j])
		}
		chat.ntt()

		// z = y + c*s1, rejected when it leaks.
		ok := true
		z := make([]poly, s.l)
		for i := 0; i < s.l; i++ {
			tmp = poly{}
			tmp.mulAcc(&chat, &s1hat[i])
			tmp.invntt()
			for j := 0; j < n; j++ {
				z[i][j] = y[i][j] + centered(tmp[j])
			}
			if exceedsNorm(&z[i], s.gamma1-s.beta) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		// w0 - c*s2, rejected when the low part leaks.
		for i := 0; i < s.k && ok; i++ {
			tmp = poly{}
			tmp.mulAcc(&chat, &s2hat[i])
			tmp.invntt()
			for j := 0; j < n; j++ {
				w0[i][j] -= centered(tmp[j])
			}
			if exceedsNorm(&w0[i], s.gamma2-s.beta) {
				ok = false
			}
		}
		if !ok {
			continue
		}

		// c*t0, bounded and folded into the hint input.
		hints := 0
		for i := 0; i < s.k && ok; i++ {
			tmp = poly{}
			tmp.mulAcc(&chat, &t0hat[i])
			tmp.invntt()
			for j := 0; j < n; j++ {
				tmp[j] = centered(tmp[j])
			}
			if exceedsNorm(&tmp, s.gamma2) {
				ok = false
				break
			}
			for j := 0; j < n; j++ {
				w0[i][j] += tmp[j]
				h[i][j] = makeHint(w0[i][j], w1[i][j], s.gamma2)
				hints += int(h[i][j])
			}
		}
		if !ok || hints > s.omega {
			continue
		}

		off := s.lambda / 4
		for i := 0; i < s.l; i++ {
			s.packZ(sig[off:off+32*int(s.gammaBits)], &z[i])
			off += 32 * int(s.gammaBits)
		}
		s.packHints(sig[off:], h)
		memutil.Zero(rhoPP[:])
		return sig, nil
	}
}

// Verify checks a signature: unpack, rebuild the commitment with the
// hints applied, and compare challenge hashes.
func (s *scheme) Verify(pk, msg, sig []byte) bool {
	if len(pk) != s.PublicKeySize() || len(sig) != s.SignatureSize() {
		return false
	}

	rho := pk[:32]
	ctilde := sig[:s.lambda/4]

	z := make([]poly, s.l)
	off := s.lambda / 4
	for i := 0; i < s.l; i++ {
		s.unpackZ(&z[i], sig[off:])
		off += 32 * int(s.gammaBits)
		if exceedsNorm(&z[i], s.gamma1-s.beta) {
			return false
		}
	}
	h := make([]poly, s.k)
	if !s.unpackHints(h, sig[off:]) {
		return false
	}

	a := make([]poly, s.k*s.l)
	s.expandA(a, rho)

	var tr [64]byte
	shake256Sum(tr[:], pk)
	var mu [64]byte
	shake256Sum(mu[:], tr[:], msg)

	var c poly
	sampleInBall(&c, ctilde, s.tau)
	chat := c
	for j := 0; j < n; j++ {
		chat[j] = toStandard(chat[j])
	}
	chat.ntt()

	zhat := make([]poly, s.l)
	for i := 0; i < s.l; i++ {
		for j := 0; j < n; j++ {
			zhat[i][j] = toStandard(z[i][j])
		}
		zhat[i].ntt()
	}

	w := make([]poly, s.k)
	s.matVecNTT(w, a, zhat)

	w1Bytes := make([]byte, 32*int(s.w1Bits)*s.k)
	var t1, w1 poly
	for i := 0; i < s.k; i++ {
		bitUnpack(&t1, pk[32+320*i:], 10, func(v uint32) int32 { return int32(v) })
		for j := 0; j < n; j++ {
			t1[j] = toStandard(t1[j] << d)
		}
		t1.ntt()
		var ct1 poly
		ct1.mulAcc(&chat, &t1)
		w[i].sub(&ct1)
		w[i].invntt()
		for j := 0; j < n; j++ {
			w1[j] = useHint(h[i][j], w[i][j], s.gamma2)
		}
		bitPack(w1Bytes[32*int(s.w1Bits)*i:], &w1, s.w1Bits,
			func(v int32) uint32 { return uint32(v) })
	}

	var check [64]byte
	shake256Sum(check[:s.lambda/4], mu[:], w1Bytes)
	return memutil.Equal(check[:s.lambda/4], ctilde)
}
