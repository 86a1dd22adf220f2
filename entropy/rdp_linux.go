//go:build linux

package entropy

import (
	"fmt"

	"golang.org/x/sys/unix"

	qsc "github.com/qrcs-corp/go-qsc"
	"github.com/qrcs-corp/go-qsc/cpuid"
)

// RDPFetch fills buf from the hardware-backed entropy pool. It is gated
// on the RDRAND capability and never blocks; when the source is
// unavailable or drained it reports EntropyFailure and the aggregator
// compensates with CSP alone.
func RDPFetch(buf []byte) error {
	if len(buf) > MaxFetch {
		return fmt.Errorf("entropy: rdp request %d: %w", len(buf), qsc.ErrLengthOverflow)
	}
	if !cpuid.Features().Has(cpuid.RDRAND) {
		return fmt.Errorf("entropy: no hardware rng: %w", qsc.ErrEntropyFailure)
	}
	off := 0
	for off < len(buf) {
		n, err := unix.Getrandom(buf[off:], unix.GRND_RANDOM|unix.GRND_NONBLOCK)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("entropy: rdp: %v: %w", err, qsc.ErrEntropyFailure)
		}
		off += n
	}
	return nil
}
