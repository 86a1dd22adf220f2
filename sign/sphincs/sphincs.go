// Package sphincs implements the SPHINCS+ stateless hash-based
// signature scheme with the SHAKE instantiation at the 128s parameter
// set: a hypertree of WOTS+-authenticated Merkle trees over a FORS
// few-time signature, with every hash tweaked by a hypertree address.
package sphincs

import (
	"encoding/binary"
	"fmt"
	"io"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/sign"
)

const (
	// paramN is the hash output length.
	paramN = 16
	// Hypertree: total height, layers, per-tree height.
	paramH      = 63
	paramD      = 7
	paramHPrime = 9
	// FORS: tree height and tree count.
	paramA = 12
	paramK = 14

	// Message digest split: FORS index bits, tree bits, leaf bits.
	mdBytes   = (paramK*paramA + 7) / 8                    // 21
	treeBytes = (paramH - paramHPrime + 7) / 8             // 7
	leafBytes = (paramHPrime + 7) / 8                      // 2
	digestLen = mdBytes + treeBytes + leafBytes            // 30
	forsSize  = paramK * (1 + paramA) * paramN             // 2912
	htSize    = paramD * (wotsLen + paramHPrime) * paramN  // 4928
	sigSize   = paramN + forsSize + htSize                 // 7856
)

// scheme is the SPHINCS+-SHAKE-128s parameter set.
type scheme struct{}

// SphincsShake128s is the small-signature category-1 parameter set.
var SphincsShake128s sign.Scheme = &scheme{}

func init() {
	sign.Register(SphincsShake128s)
}

func (*scheme) Name() string        { return "SPHINCS+-SHAKE-128s" }
func (*scheme) PublicKeySize() int  { return 2 * paramN }
func (*scheme) PrivateKeySize() int { return 4 * paramN }
func (*scheme) SignatureSize() int  { return sigSize }
func (*scheme) KeygenSeedSize() int { return 3 * paramN }

// xmssNode computes node i at height z of the tree addressed by a's
// layer and tree words; leaves are WOTS+ public keys.
func xmssNode(out, skSeed, pkSeed []byte, i, z uint32, a *adrs) {
	if z == 0 {
		var wa adrs
		copy(wa[:], a[:])
		wa.setType(adrsWotsHash)
		wa.setKeyPair(i)
		wotsPkGen(out, skSeed, pkSeed, &wa)
		return
	}
	left := make([]byte, paramN)
	right := make([]byte, paramN)
	xmssNode(left, skSeed, pkSeed, 2*i, z-1, a)
	xmssNode(right, skSeed, pkSeed, 2*i+1, z-1, a)

	var ta adrs
	copy(ta[:], a[:])
	ta.setType(adrsTree)
	ta.setTreeHeight(z)
	ta.setTreeIndex(i)
	thash(out, pkSeed, &ta, left, right)
}

// xmssSign writes a WOTS+ signature over msg plus the authentication
// path for the leaf, and is inverted by xmssPkFromSig.
func xmssSign(sig, msg, skSeed, pkSeed []byte, leaf uint32, a *adrs) {
	var wa adrs
	copy(wa[:], a[:])
	wa.setType(adrsWotsHash)
	wa.setKeyPair(leaf)
	wotsSign(sig[:wotsLen*paramN], msg, skSeed, pkSeed, &wa)

	auth := sig[wotsLen*paramN:]
	for z := uint32(0); z < paramHPrime; z++ {
		sibling := (leaf >> z) ^ 1
		xmssNode(auth[int(z)*paramN:(int(z)+1)*paramN], skSeed, pkSeed, sibling, z, a)
	}
}

// xmssPkFromSig recovers the tree root from a leaf signature and its
// authentication path.
func xmssPkFromSig(root, sig, msg, pkSeed []byte, leaf uint32, a *adrs) {
	var wa adrs
	copy(wa[:], a[:])
	wa.setType(adrsWotsHash)
	wa.setKeyPair(leaf)
	wotsPkFromSig(root, sig[:wotsLen*paramN], msg, pkSeed, &wa)

	auth := sig[wotsLen*paramN:]
	var ta adrs
	copy(ta[:], a[:])
	ta.setType(adrsTree)
	idx := leaf
	node := make([]byte, paramN)
	for z := uint32(0); z < paramHPrime; z++ {
		ta.setTreeHeight(z + 1)
		ta.setTreeIndex(idx >> 1)
		sib := auth[int(z)*paramN : (int(z)+1)*paramN]
		if idx&1 == 0 {
			thash(node, pkSeed, &ta, root, sib)
		} else {
			thash(node, pkSeed, &ta, sib, root)
		}
		copy(root, node)
		idx >>= 1
	}
}

// forsNode computes node i at height z across the k joined FORS trees;
// tree boundaries are encoded in the flat index.
func forsNode(out, skSeed, pkSeed []byte, i, z uint32, a *adrs) {
	if z == 0 {
		var pa adrs
		copy(pa[:], a[:])
		pa.setType(adrsForsPRF)
		pa.setKeyPair(keyPairOf(a))
		pa.setTreeIndex(i)
		sk := make([]byte, paramN)
		prf(sk, pkSeed, skSeed, &pa)

		a.setTreeHeight(0)
		a.setTreeIndex(i)
		thash(out, pkSeed, a, sk)
		return
	}
	left := make([]byte, paramN)
	right := make([]byte, paramN)
	forsNode(left, skSeed, pkSeed, 2*i, z-1, a)
	forsNode(right, skSeed, pkSeed, 2*i+1, z-1, a)
	a.setTreeHeight(z)
	a.setTreeIndex(i)
	thash(out, pkSeed, a, left, right)
}

// forsIndices splits the digest head into k a-bit leaf selectors.
func forsIndices(md []byte) [paramK]uint32 {
	var idx [paramK]uint32
	pos := 0
	for i := 0; i < paramK; i++ {
		var v uint32
		for j := 0; j < paramA; j++ {
			v = v<<1 | uint32(md[pos>>3]>>(7-uint(pos&7)))&1
			pos++
		}
		idx[i] = v
	}
	return idx
}

// forsSign writes k secret leaves with their authentication paths and
// returns the FORS public key the hypertree will certify.
func forsSign(sig, pk, md, skSeed, pkSeed []byte, a *adrs) {
	indices := forsIndices(md)
	roots := make([]byte, paramK*paramN)

	for i := 0; i < paramK; i++ {
		off := i * (1 + paramA) * paramN
		leaf := uint32(i)<<paramA + indices[i]

		var pa adrs
		copy(pa[:], a[:])
		pa.setType(adrsForsPRF)
		pa.setKeyPair(keyPairOf(a))
		pa.setTreeIndex(leaf)
		prf(sig[off:off+paramN], pkSeed, skSeed, &pa)

		var na adrs
		copy(na[:], a[:])
		auth := sig[off+paramN : off+(1+paramA)*paramN]
		for z := 0; z < paramA; z++ {
			sibling := (leaf >> uint(z)) ^ 1
			copy(na[:], a[:])
			forsNode(auth[z*paramN:(z+1)*paramN], skSeed, pkSeed, sibling, uint32(z), &na)
		}

		copy(na[:], a[:])
		forsNode(roots[i*paramN:(i+1)*paramN], skSeed, pkSeed, uint32(i), paramA, &na)
	}

	var ra adrs
	copy(ra[:], a[:])
	ra.setType(adrsForsRoots)
	ra.setKeyPair(keyPairOf(a))
	thash(pk, pkSeed, &ra, roots)
}

// forsPkFromSig recovers the FORS public key from the signed leaves.
func forsPkFromSig(pk, sig, md, pkSeed []byte, a *adrs) {
	indices := forsIndices(md)
	roots := make([]byte, paramK*paramN)

	for i := 0; i < paramK; i++ {
		off := i * (1 + paramA) * paramN
		leaf := uint32(i)<<paramA + indices[i]

		node := make([]byte, paramN)
		var na adrs
		copy(na[:], a[:])
		na.setTreeHeight(0)
		na.setTreeIndex(leaf)
		thash(node, pkSeed, &na, sig[off:off+paramN])

		auth := sig[off+paramN : off+(1+paramA)*paramN]
		idx := leaf
		next := make([]byte, paramN)
		for z := 0; z < paramA; z++ {
			na.setTreeHeight(uint32(z) + 1)
			na.setTreeIndex(idx >> 1)
			sib := auth[z*paramN : (z+1)*paramN]
			if idx&1 == 0 {
				thash(next, pkSeed, &na, node, sib)
			} else {
				thash(next, pkSeed, &na, sib, node)
			}
			copy(node, next)
			idx >>= 1
		}
		copy(roots[i*paramN:(i+1)*paramN], node)
	}

	var ra adrs
	copy(ra[:], a[:])
	ra.setType(adrsForsRoots)
	ra.setKeyPair(keyPairOf(a))
	thash(pk, pkSeed, &ra, roots)
}

// parseDigest splits the message digest into FORS selectors, the
// hypertree index, and the bottom-tree leaf.
func parseDigest(digest []byte) (md []byte, tree uint64, leaf uint32) {
	md = digest[:mdBytes]
	var tb [8]byte
	copy(tb[8-treeBytes:], digest[mdBytes:mdBytes+treeBytes])
	tree = binary.BigEndian.Uint64(tb[:]) & (1<<(paramH-paramHPrime) - 1)
	leaf = uint32(binary.BigEndian.Uint16(digest[mdBytes+treeBytes:])) & (1<<paramHPrime - 1)
	return
}

// DeriveKeypair expands the 48-byte seed (sk.seed, sk.prf, pk.seed)
// and computes the top-tree root.
func (s *scheme) DeriveKeypair(seed []byte) (pk, sk []byte, err error) {
	if len(seed) != s.KeygenSeedSize() {
		return nil, nil, fmt.Errorf("sphincs: keygen seed length %d: %w", len(seed), qsc.ErrInvalidParameter)
	}
	skSeed := seed[:paramN]
	skPrf := seed[paramN : 2*paramN]
	pkSeed := seed[2*paramN : 3*paramN]

	var a adrs
	a.setLayer(paramD - 1)
	a.setTree(0)
	root := make([]byte, paramN)
	xmssNode(root, skSeed, pkSeed, 0, paramHPrime, &a)

	pk = make([]byte, 0, 2*paramN)
	pk = append(pk, pkSeed...)
	pk = append(pk, root...)

	sk = make([]byte, 0, 4*paramN)
	sk = append(sk, skSeed...)
	sk = append(sk, skPrf...)
	sk = append(sk, pk...)
	return pk, sk, nil
}

// Sign produces a signature: randomizer, FORS signature of the digest,
// and the hypertree certification chain. A non-nil rng randomizes the
// opt-rand input; nil signs deterministically.
func (s *scheme) Sign(sk, msg []byte, rng io.Reader) ([]byte, error) {
	if len(sk) != s.PrivateKeySize() {
		return nil, fmt.Errorf("sphincs: private key length %d: %w", len(sk), qsc.ErrInvalidParameter)
	}
	skSeed := sk[:paramN]
	skPrf := sk[paramN : 2*paramN]
	pkSeed := sk[2*paramN : 3*paramN]
	pkRoot := sk[3*paramN:]

	optRand := make([]byte, paramN)
	copy(optRand, pkSeed)
	if rng != nil {
		if _, err := io.ReadFull(rng, optRand); err != nil {
			return nil, fmt.Errorf("sphincs: opt-rand: %v: %w", err, qsc.ErrEntropyFailure)
		}
	}

	sig := make([]byte, sigSize)
	r := sig[:paramN]
	prfMsg(r, skPrf, optRand, msg)

	digest := make([]byte, digestLen)
	hashMsg(digest, r, pkSeed, pkRoot, msg)
	md, tree, leaf := parseDigest(digest)

	var a adrs
	a.setLayer(0)
	a.setTree(tree)
	a.setType(adrsForsTree)
	a.setKeyPair(leaf)

	forsPk := make([]byte, paramN)
	forsSig := sig[paramN : paramN+forsSize]
	forsSign(forsSig, forsPk, md, skSeed, pkSeed, &a)

	// Hypertree: certify the FORS key, then each root above it.
	node := forsPk
	ht := sig[paramN+forsSize:]
	for layer := 0; layer < paramD; layer++ {
		var la adrs
		la.setLayer(uint32(layer))
		la.setTree(tree)

		layerSig := ht[layer*(wotsLen+paramHPrime)*paramN : (layer+1)*(wotsLen+paramHPrime)*paramN]
		xmssSign(layerSig, node, skSeed, pkSeed, leaf, &la)

		root := make([]byte, paramN)
		xmssNode(root, skSeed, pkSeed, 0, paramHPrime, &la)
		node = root

		leaf = uint32(tree) & (1<<paramHPrime - 1)
		tree >>= paramHPrime
	}
	return sig, nil
}

// Verify recomputes the FORS key and climbs the hypertree, comparing
// the final root to the public key.
func (s *scheme) Verify(pk, msg, sig []byte) bool {
	if len(pk) != s.PublicKeySize() || len(sig) != s.SignatureSize() {
		return false
	}
	pkSeed := pk[:paramN]
	pkRoot := pk[paramN:]

	r := sig[:paramN]
	digest := make([]byte, digestLen)
	hashMsg(digest, r, pkSeed, pkRoot, msg)
	md, tree, leaf := parseDigest(digest)

	var a adrs
	a.setLayer(0)
	a.setTree(tree)
	a.setType(adrsForsTree)
	a.setKeyPair(leaf)

	node := make([]byte, paramN)
	forsPkFromSig(node, sig[paramN:paramN+forsSize], md, pkSeed, &a)

	ht := sig[paramN+forsSize:]
	for layer := 0; layer < paramD; layer++ {
		var la adrs
		la.setLayer(uint32(layer))
		la.setTree(tree)

		layerSig := ht[layer*(wotsLen+paramHPrime)*paramN : (layer+1)*(wotsLen+paramHPrime)*paramN]
		root := make([]byte, paramN)
		copy(root, node)
		xmssPkFromSig(root, layerSig, node, pkSeed, leaf, &la)
		node = root

		leaf = uint32(tree) & (1<<paramHPrime - 1)
		tree >>= paramHPrime
	}
	return memutil.Equal(node, pkRoot)
}
