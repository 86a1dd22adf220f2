package sphincs

import (
	"encoding/binary"

	"github.com/qrcs-corp/go-qsc/keccak"
)

// Hypertree address words, 32 bytes: layer, tree, type, and three
// type-specific words.
type adrs [32]byte

// Address types.
const (
	adrsWotsHash  = 0
	adrsWotsPK    = 1
	adrsTree      = 2
	adrsForsTree  = 3
	adrsForsRoots = 4
	adrsWotsPRF   = 5
	adrsForsPRF   = 6
)

func (a *adrs) setLayer(l uint32)  { binary.BigEndian.PutUint32(a[0:], l) }
func (a *adrs) setTree(t uint64)   { binary.BigEndian.PutUint64(a[8:], t) }
func (a *adrs) setType(ty uint32) {
	binary.BigEndian.PutUint32(a[16:], ty)
	for i := 20; i < 32; i++ {
		a[i] = 0
	}
}
func (a *adrs) setKeyPair(i uint32)    { binary.BigEndian.PutUint32(a[20:], i) }
func (a *adrs) setChainAddr(i uint32)  { binary.BigEndian.PutUint32(a[24:], i) }
func (a *adrs) setTreeHeight(i uint32) { binary.BigEndian.PutUint32(a[24:], i) }
func (a *adrs) setHashAddr(i uint32)   { binary.BigEndian.PutUint32(a[28:], i) }
func (a *adrs) setTreeIndex(i uint32)  { binary.BigEndian.PutUint32(a[28:], i) }

// thash is the tweakable hash: SHAKE-256 over the public seed, the
// address, and the message blocks, squeezed to n bytes.
func thash(out, pkSeed []byte, a *adrs, blocks ...[]byte) {
	xof := keccak.NewShake256()
	xof.Absorb(pkSeed)
	xof.Absorb(a[:])
	for _, b := range blocks {
		xof.Absorb(b)
	}
	xof.Squeeze(out)
	xof.Dispose()
}

// prf derives a secret chain or leaf value from the secret seed at an
// address.
func prf(out, pkSeed, skSeed []byte, a *adrs) {
	xof := keccak.NewShake256()
	xof.Absorb(pkSeed)
	xof.Absorb(a[:])
	xof.Absorb(skSeed)
	xof.Squeeze(out)
	xof.Dispose()
}

// prfMsg derives the signature randomizer.
func prfMsg(out, skPrf, optRand, msg []byte) {
	xof := keccak.NewShake256()
	xof.Absorb(skPrf)
	xof.Absorb(optRand)
	xof.Absorb(msg)
	xof.Squeeze(out)
	xof.Dispose()
}

// hashMsg produces the message digest that selects the FORS indices and
// the hypertree position.
func hashMsg(out, r, pkSeed, pkRoot, msg []byte) {
	xof := keccak.NewShake256()
	xof.Absorb(r)
	xof.Absorb(pkSeed)
	xof.Absorb(pkRoot)
	xof.Absorb(msg)
	xof.Squeeze(out)
	xof.Dispose()
}
