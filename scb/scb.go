// Package scb implements the SCB cost-based key derivation function: a
// cSHAKE generator with tunable CPU and memory costs.
//
// Generation scatter-writes XOF output across a transient working
// buffer so that consecutive writes land one L2-cache-size apart,
// while a SHA3 state folds in every written line index and, at each
// L2-size boundary, the whole buffer. The attacker has to keep the full
// buffer resident; the index mixing keeps a precomputed buffer from
// being reused.
package scb

import (
	"encoding/binary"
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/keccak"
)

const (
	// Seed256Size selects the cSHAKE-256 instance.
	Seed256Size = 32
	// Seed512Size selects the cSHAKE-512 instance.
	Seed512Size = 64

	// CPU cost bounds, in iterations.
	CPUCostMin = 1
	CPUCostMax = 1000
	// Memory cost bounds, in mebibytes.
	MemCostMin = 1
	MemCostMax = 128

	// MaxOutput is the generation cap per call.
	MaxOutput = 10240000

	memCostSize   = 1024 * 1024
	l2CacheSize   = 256 * 1024
	cacheLineSize = 64
)

var kdfName = []byte("SCB v1.d")

// State holds the derived cache key and the configured costs.
type State struct {
	ckey []byte
	rate int
	cpu  int
	mem  int
}

// New expands seed (32 or 64 bytes) through cSHAKE under the fixed KDF
// label and optional info string into the cache key. cpuCost is the
// iteration count; memCost is the working set in MiB.
func New(seed, info []byte, cpuCost, memCost int) (*State, error) {
	var rate int
	switch len(seed) {
	case Seed256Size:
		rate = keccak.Rate256
	case Seed512Size:
		rate = keccak.Rate512
	default:
		return nil, fmt.Errorf("scb: seed length %d: %w", len(seed), qsc.ErrInvalidParameter)
	}
	if cpuCost < CPUCostMin || cpuCost > CPUCostMax {
		return nil, fmt.Errorf("scb: cpu cost %d: %w", cpuCost, qsc.ErrInvalidParameter)
	}
	if memCost < MemCostMin || memCost > MemCostMax {
		return nil, fmt.Errorf("scb: memory cost %d: %w", memCost, qsc.ErrInvalidParameter)
	}

	s := &State{rate: rate, cpu: cpuCost, mem: memCost}
	xof := keccak.NewCShake(rate, kdfName, info)
	xof.Absorb(seed)
	block := make([]byte, rate)
	xof.Squeeze(block)
	xof.Dispose()

	s.ckey = make([]byte, len(seed))
	copy(s.ckey, block)
	memutil.Zero(block)
	return s, nil
}

// scatterIndices computes the cache-line write order: consecutive
// writes address lines one L2-size apart. With lanes = bytes/256KiB and
// ccnt lines per lane, position lanes*i+j maps to line i + j*ccnt.
func scatterIndices(lineCount int) []int {
	lanes := (lineCount * cacheLineSize) / l2CacheSize
	ccnt := lineCount / lanes
	idx := make([]int, lineCount)
	for i := 0; i < ccnt; i++ {
		for j := 0; j < lanes; j++ {
			idx[lanes*i+j] = i + j*ccnt
		}
	}
	return idx
}

// fillMemory scatter-fills the buffer from a SHAKE stream keyed with
// the cache key, mixing each iteration counter and line index into the
// hash state, and the entire buffer at every L2-size boundary.
func (s *State) fillMemory(buffer []byte, h *keccak.State) {
	xof := keccak.NewState(s.rate, keccak.DomainShake)
	xof.Absorb(s.ckey)

	idx := scatterIndices(len(buffer) / cacheLineSize)
	block := make([]byte, s.rate)
	var bnum [8]byte
	linesPerL2 := l2CacheSize / cacheLineSize

	for i, line := range idx {
		xof.Squeeze(block)
		copy(buffer[line*cacheLineSize:], block[:cacheLineSize])

		binary.LittleEndian.PutUint64(bnum[:], uint64(i))
		h.Absorb(bnum[:])
		binary.LittleEndian.PutUint64(bnum[:], uint64(line))
		h.Absorb(bnum[:])

		if (i+1)%linesPerL2 == 0 {
			h.Absorb(buffer)
		}
	}
	xof.Dispose()
	memutil.Zero(block)
}

// Generate derives n = len(output) bytes. Each CPU iteration re-keys
// the cache key through a SHA3 pass over the scatter-filled buffer;
// the final key then seeds a SHAKE squeeze of the output.
func (s *State) Generate(output []byte) error {
	if len(output) == 0 {
		return fmt.Errorf("scb: empty output request: %w", qsc.ErrInvalidParameter)
	}
	if len(output) > MaxOutput {
		return fmt.Errorf("scb: %d bytes requested: %w", len(output), qsc.ErrLengthOverflow)
	}
	if s.ckey == nil {
		return fmt.Errorf("scb: disposed state: %w", qsc.ErrInvalidParameter)
	}

	buffer := make([]byte, s.mem*memCostSize)
	for i := 0; i < s.cpu; i++ {
		h := keccak.NewState(s.rate, keccak.DomainSHA3)
		h.Absorb(s.ckey)
		s.fillMemory(buffer, h)
		h.Squeeze(s.ckey)
		h.Dispose()
	}
	memutil.Zero(buffer)

	xof := keccak.NewState(s.rate, keccak.DomainShake)
	xof.Absorb(s.ckey)
	xof.Squeeze(output)
	xof.Dispose()
	return nil
}

// Update folds new keying material into the cache key through SHA3.
func (s *State) Update(seed []byte) error {
	if s.ckey == nil {
		return fmt.Errorf("scb: disposed state: %w", qsc.ErrInvalidParameter)
	}
	h := keccak.NewState(s.rate, keccak.DomainSHA3)
	h.Absorb(s.ckey)
	h.Absorb(seed)
	h.Squeeze(s.ckey)
	h.Dispose()
	return nil
}

// Dispose overwrites the cache key. Idempotent.
func (s *State) Dispose() {
	if s.ckey != nil {
		memutil.Zero(s.ckey)
		s.ckey = nil
	}
	s.cpu = 0
	s.mem = 0
}
