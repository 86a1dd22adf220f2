package mldsa

import (
	"encoding/binary"

	"github.com/qrcs-corp/go-qsc/keccak"
)

const (
	n = 256
	q = 8380417
	d = 13

	// 256^-1 mod q, applied at the end of the inverse transform.
	invN = 8347681
)

// poly holds 256 coefficients. NTT-domain values and freshly reduced
// polynomials use the standard representatives [0, q); the rounding and
// norm helpers work on centered values.
type poly [n]int32

// zetas[i] = 1753^BitRev8(i) mod q.
var zetas [256]int32

func bitRev8(x int) int {
	r := 0
	for i := 0; i < 8; i++ {
		r = r<<1 | (x>>i)&1
	}
	return r
}

func init() {
	var pow [256]int32
	p := int64(1)
	for i := range pow {
		pow[i] = int32(p)
		p = p * 1753 % q
	}
	for i := range zetas {
		zetas[i] = pow[bitRev8(i)]
	}
}

func addq(a, b int32) int32 {
	c := a + b
	if c >= q {
		c -= q
	}
	return c
}

func subq(a, b int32) int32 {
	c := a - b
	if c < 0 {
		c += q
	}
	return c
}

func mulq(a, b int32) int32 {
	return int32(int64(a) * int64(b) % q)
}

// centered maps a standard representative to (-q/2, q/2].
func centered(v int32) int32 {
	if v > (q-1)/2 {
		return v - q
	}
	return v
}

// toStandard maps a centered value back to [0, q).
func toStandard(v int32) int32 {
	v %= q
	if v < 0 {
		v += q
	}
	return v
}

// ntt converts to the transform domain in place; standard reps.
func (p *poly) ntt() {
	k := 0
	for length := 128; length >= 1; length >>= 1 {
		for start := 0; start < n; start += 2 * length {
			k++
			z := zetas[k]
			for j := start; j < start+length; j++ {
				t := mulq(z, p[j+length])
				p[j+length] = subq(p[j], t)
				p[j] = addq(p[j], t)
			}
		}
	}
}

// invntt converts back from the transform domain in place.
func (p *poly) invntt() {
	k := 256
	for length := 1; length < n; length <<= 1 {
		for start := 0; start < n; start += 2 * length {
			k--
			z := zetas[k]
			for j := start; j < start+length; j++ {
				t := p[j]
				p[j] = addq(t, p[j+length])
				p[j+length] = mulq(z, subq(p[j+length], t))
			}
		}
	}
	for i := range p {
		p[i] = mulq(p[i], invN)
	}
}

// mulAcc accumulates the pointwise product a*b into p (NTT domain).
func (p *poly) mulAcc(a, b *poly) {
	for i := range p {
		p[i] = addq(p[i], mulq(a[i], b[i]))
	}
}

func (p *poly) add(a *poly) {
	for i := range p {
		p[i] = addq(p[i], a[i])
	}
}

func (p *poly) sub(a *poly) {
	for i := range p {
		p[i] = subq(p[i], a[i])
	}
}

// power2Round splits r into r1*2^d + r0 with r0 in (-2^{d-1}, 2^{d-1}].
func power2Round(r int32) (r1, r0 int32) {
	r1 = (r + (1 << (d - 1)) - 1) >> d
	r0 = r - r1<<d
	return
}

// decompose splits a standard representative around 2*gamma2: r =
// r1*2*gamma2 + r0 with centered r0, folding the q-1 wraparound into
// r1 = 0.
func decompose(r, gamma2 int32) (r1, r0 int32) {
	r1 = (r + 127) >> 7
	if gamma2 == (q-1)/32 {
		r1 = (r1*1025 + (1 << 21)) >> 22
		r1 &= 15
	} else {
		r1 = (r1*11275 + (1 << 23)) >> 24
		r1 ^= ((43 - r1) >> 31) & r1
	}
	r0 = r - r1*2*gamma2
	r0 -= (((q-1)/2 - r0) >> 31) & q
	return
}

// makeHint reports whether the carry of a0 into the high part must be
// recorded; a0 is the centered low part, a1 the high part.
func makeHint(a0, a1, gamma2 int32) int32 {
	if a0 > gamma2 || a0 < -gamma2 || (a0 == -gamma2 && a1 != 0) {
		return 1
	}
	return 0
}

// useHint recovers the high part of r with the recorded carry applied.
func useHint(hint, r, gamma2 int32) int32 {
	r1, r0 := decompose(r, gamma2)
	if hint == 0 {
		return r1
	}
	if gamma2 == (q-1)/32 {
		if r0 > 0 {
			return (r1 + 1) & 15
		}
		return (r1 - 1) & 15
	}
	if r0 > 0 {
		if r1 == 43 {
			return 0
		}
		return r1 + 1
	}
	if r1 == 0 {
		return 43
	}
	return r1 - 1
}

// exceedsNorm reports whether any centered coefficient reaches bound.
func exceedsNorm(p *poly, bound int32) bool {
	for _, v := range p {
		if v < 0 {
			v = -v
		}
		if v >= bound {
			return true
		}
	}
	return false
}

// expandUniform fills p with uniform 23-bit rejection samples from
// SHAKE-128 over seed plus the matrix index bytes.
func expandUniform(p *poly, seed []byte, s, r byte) {
	xof := keccak.NewShake128()
	xof.Absorb(seed)
	xof.Absorb([]byte{s, r})
	var b [3]byte
	i := 0
	for i < n {
		xof.Squeeze(b[:])
		t := int32(b[0]) | int32(b[1])<<8 | int32(b[2]&0x7f)<<16
		if t < q {
			p[i] = t
			i++
		}
	}
	xof.Dispose()
}

// expandShort fills p with eta-bounded secrets from nibble rejection
// over SHAKE-256; coefficients come out centered.
func expandShort(p *poly, seed []byte, nonce uint16, eta int32) {
	xof := keccak.NewShake256()
	xof.Absorb(seed)
	var nb [2]byte
	binary.LittleEndian.PutUint16(nb[:], nonce)
	xof.Absorb(nb[:])

	var b [1]byte
	i := 0
	for i < n {
		xof.Squeeze(b[:])
		for _, z := range []int32{int32(b[0] & 0x0f), int32(b[0] >> 4)} {
			if i >= n {
				break
			}
			if eta == 2 {
				if z < 15 {
					p[i] = 2 - z%5
					i++
				}
			} else {
				if z < 9 {
					p[i] = 4 - z
					i++
				}
			}
		}
	}
	xof.Dispose()
}

// expandMask fills p with centered masking values in [-gamma1, gamma1)
// from gammaBits-wide words of SHAKE-256 output.
func expandMask(p *poly, seed []byte, nonce uint16, gamma1 int32, gammaBits uint) {
	xof := keccak.NewShake256()
	xof.Absorb(seed)
	var nb [2]byte
	binary.LittleEndian.PutUint16(nb[:], nonce)
	xof.Absorb(nb[:])

	buf := make([]byte, n*int(gammaBits)/8)
	xof.Squeeze(buf)
	xof.Dispose()

	pos := 0
	for i := 0; i < n; i++ {
		var v uint32
		for j := uint(0); j < gammaBits; j++ {
			v |= uint32(buf[pos>>3]>>(uint(pos)&7)&1) << j
			pos++
		}
		p[i] = int32(v) - gamma1
	}
}

// sampleInBall derives the tau-sparse challenge polynomial with +-1
// coefficients from the commitment hash.
func sampleInBall(p *poly, ctilde []byte, tau int) {
	*p = poly{}
	xof := keccak.NewShake256()
	xof.Absorb(ctilde)
	var sb [8]byte
	xof.Squeeze(sb[:])
	signs := binary.LittleEndian.Uint64(sb[:])

	var b [1]byte
	for i := n - tau; i < n; i++ {
		for {
			xof.Squeeze(b[:])
			if int(b[0]) <= i {
				break
			}
		}
		j := int(b[0])
		p[i] = p[j]
		p[j] = 1 - 2*int32(signs&1)
		signs >>= 1
	}
	xof.Dispose()
}

// bitPack serializes 256 width-bit words produced by conv, little-endian
// bit order; out must be zeroed and 32*width bytes long.
func bitPack(out []byte, p *poly, width uint, conv func(int32) uint32) {
	pos := 0
	for i := 0; i < n; i++ {
		v := conv(p[i])
		for j := uint(0); j < width; j++ {
			if v>>j&1 != 0 {
				out[pos>>3] |= 1 << (uint(pos) & 7)
			}
			pos++
		}
	}
}

// bitUnpack reads 256 width-bit words and maps them through conv.
func bitUnpack(p *poly, in []byte, width uint, conv func(uint32) int32) {
	pos := 0
	for i := 0; i < n; i++ {
		var v uint32
		for j := uint(0); j < width; j++ {
			v |= uint32(in[pos>>3]>>(uint(pos)&7)&1) << j
			pos++
		}
		p[i] = conv(v)
	}
}
