//go:build !linux

package entropy

import (
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
)

// RDPFetch reports EntropyFailure on platforms without a wired hardware
// entropy source; the aggregator compensates with CSP alone.
func RDPFetch(buf []byte) error {
	if len(buf) > MaxFetch {
		return fmt.Errorf("entropy: rdp request %d: %w", len(buf), qsc.ErrLengthOverflow)
	}
	return fmt.Errorf("entropy: no hardware rng: %w", qsc.ErrEntropyFailure)
}
