package mlkem

import "github.com/qrcs-corp/go-qsc/keccak"

const (
	n = 256
	q = 3329

	// 128^-1 mod q, applied at the end of the inverse transform.
	invN2 = 3303
)

// poly holds 256 coefficients, kept in [0, q).
type poly [n]int16

var (
	// zetas[i] = 17^BitRev7(i) mod q, the transform twiddles.
	zetas [128]int16
	// gammas[i] = 17^(2*BitRev7(i)+1) mod q, the base-case moduli.
	gammas [128]int16
)

func bitRev7(x int) int {
	r := 0
	for i := 0; i < 7; i++ {
		r = r<<1 | (x>>i)&1
	}
	return r
}

func init() {
	var pow [256]int16
	p := 1
	for i := range pow {
		pow[i] = int16(p)
		p = p * 17 % q
	}
	for i := 0; i < 128; i++ {
		zetas[i] = pow[bitRev7(i)]
		gammas[i] = pow[2*bitRev7(i)+1]
	}
}

func reduce(a int32) int16 {
	a %= q
	if a < 0 {
		a += q
	}
	return int16(a)
}

func fqmul(a, b int16) int16 {
	return int16(int32(a) * int32(b) % q)
}

// ntt converts to the number-theoretic transform domain in place.
func (p *poly) ntt() {
	k := 1
	for length := 128; length >= 2; length >>= 1 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := fqmul(zeta, p[j+length])
				p[j+length] = reduce(int32(p[j]) - int32(t))
				p[j] = reduce(int32(p[j]) + int32(t))
			}
		}
	}
}

// invntt converts back from the transform domain in place.
func (p *poly) invntt() {
	k := 127
	for length := 2; length <= 128; length <<= 1 {
		for start := 0; start < n; start += 2 * length {
			zeta := zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := p[j]
				p[j] = reduce(int32(t) + int32(p[j+length]))
				p[j+length] = fqmul(zeta, reduce(int32(p[j+length])-int32(t)))
			}
		}
	}
	for i := range p {
		p[i] = fqmul(p[i], invN2)
	}
}

// basemulAcc accumulates a ∘ b into p, all in the transform domain:
// 128 products in GF(q)[X]/(X^2 - gamma_i).
func (p *poly) basemulAcc(a, b *poly) {
	for i := 0; i < 128; i++ {
		a0, a1 := a[2*i], a[2*i+1]
		b0, b1 := b[2*i], b[2*i+1]
		c0 := reduce(int32(fqmul(a0, b0)) + int32(fqmul(fqmul(a1, b1), gammas[i])))
		c1 := reduce(int32(fqmul(a0, b1)) + int32(fqmul(a1, b0)))
		p[2*i] = reduce(int32(p[2*i]) + int32(c0))
		p[2*i+1] = reduce(int32(p[2*i+1]) + int32(c1))
	}
}

func (p *poly) add(a *poly) {
	for i := range p {
		p[i] = reduce(int32(p[i]) + int32(a[i]))
	}
}

func (p *poly) sub(a *poly) {
	for i := range p {
		p[i] = reduce(int32(p[i]) - int32(a[i]))
	}
}

// sampleNTT fills p with uniform coefficients by rejection from the
// SHAKE-128 stream over seed plus the two index bytes.
func sampleNTT(p *poly, seed []byte, x, y byte) {
	xof := keccak.NewShake128()
	xof.Absorb(seed)
	xof.Absorb([]byte{x, y})
	var b [3]byte
	i := 0
	for i < n {
		xof.Squeeze(b[:])
		d1 := int(b[0]) | int(b[1]&0x0f)<<8
		d2 := int(b[1])>>4 | int(b[2])<<4
		if d1 < q {
			p[i] = int16(d1)
			i++
		}
		if d2 < q && i < n {
			p[i] = int16(d2)
			i++
		}
	}
	xof.Dispose()
}

// sampleCBD fills p from the centered binomial distribution with the
// given eta, consuming 64*eta bytes of PRF output.
func sampleCBD(p *poly, buf []byte, eta int) {
	bit := func(i int) int32 {
		return int32(buf[i>>3]>>(uint(i)&7)) & 1
	}
	idx := 0
	for i := 0; i < n; i++ {
		var a, b int32
		for j := 0; j < eta; j++ {
			a += bit(idx)
			idx++
		}
		for j := 0; j < eta; j++ {
			b += bit(idx)
			idx++
		}
		p[i] = reduce(a - b)
	}
}

// prf expands seed plus a domain nonce through SHAKE-256.
func prf(out []byte, seed []byte, nonce byte) {
	xof := keccak.NewShake256()
	xof.Absorb(seed)
	xof.Absorb([]byte{nonce})
	xof.Squeeze(out)
	xof.Dispose()
}

// compress maps x in [0,q) to d bits with round-half-up.
func compress(x int16, d uint) uint32 {
	return uint32((uint64(uint32(x))<<(d+1)+q)/(2*q)) & (1<<d - 1)
}

// decompress maps d bits back to [0,q).
func decompress(y uint32, d uint) int16 {
	return int16((y*q + 1<<(d-1)) >> d)
}

// packBits serializes p with d bits per coefficient, little-endian bit
// order, applying compression when d < 12. out must be zeroed and
// n*d/8 bytes long.
func packBits(out []byte, p *poly, d uint) {
	pos := 0
	for i := 0; i < n; i++ {
		v := uint32(p[i])
		if d < 12 {
			v = compress(p[i], d)
		}
		for j := uint(0); j < d; j++ {
			if v>>j&1 != 0 {
				out[pos>>3] |= 1 << (uint(pos) & 7)
			}
			pos++
		}
	}
}

// unpackBits deserializes d-bit coefficients, decompressing when d < 12
// and reducing mod q at d = 12.
func unpackBits(p *poly, in []byte, d uint) {
	pos := 0
	for i := 0; i < n; i++ {
		var v uint32
		for j := uint(0); j < d; j++ {
			v |= uint32(in[pos>>3]>>(uint(pos)&7)&1) << j
			pos++
		}
		if d < 12 {
			p[i] = decompress(v, d)
		} else {
			p[i] = int16(v % q)
		}
	}
}
