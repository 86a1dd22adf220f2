package entropy

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/cpuid"
	"github.com/qrcs-corp/go-qsc/internal/memutil"
	"github.com/qrcs-corp/go-qsc/keccak"
)

var acpName = []byte("ACP")

var acpCounter atomic.Uint64

// ACPGenerate fills output from the entropy aggregator: a timestamp and
// monotonic counter, process and system state, 256 bytes of CSP output,
// and 256 bytes of RDP output when the hardware source is available,
// all absorbed into a cSHAKE-512 instance named "ACP".
func ACPGenerate(output []byte) error {
	if len(output) > MaxFetch {
		return fmt.Errorf("entropy: acp request %d: %w", len(output), qsc.ErrLengthOverflow)
	}

	xof := keccak.NewCShake512(acpName, nil)
	defer xof.Dispose()

	var w [8]byte
	absorb64 := func(v uint64) {
		binary.LittleEndian.PutUint64(w[:], v)
		xof.Absorb(w[:])
	}

	absorb64(uint64(time.Now().UnixNano()))
	absorb64(acpCounter.Add(1))

	if host, err := os.Hostname(); err == nil {
		xof.Absorb([]byte(host))
	}
	absorb64(uint64(os.Getpid()))
	absorb64(uint64(os.Getuid()))

	uptime, freemem := systemState()
	absorb64(uint64(uptime))
	absorb64(freemem)
	absorb64(uint64(os.Getpagesize()))
	absorb64(uint64(cpuid.Features()))

	seed := make([]byte, 256)
	if err := CSPFetch(seed); err != nil {
		return err
	}
	xof.Absorb(seed)
	if err := RDPFetch(seed); err == nil {
		xof.Absorb(seed)
	}
	memutil.Zero(seed)

	xof.Squeeze(output)
	return nil
}
