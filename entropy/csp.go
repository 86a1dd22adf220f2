// Package entropy provides the library's randomness sources: CSP wraps
// the operating system CSPRNG, RDP wraps the hardware entropy source
// when the capability is present, and ACP aggregates both with system
// state through cSHAKE-512.
package entropy

import (
	"crypto/rand"
	"fmt"

	qsc "github.com/qrcs-corp/go-qsc"
)

// MaxFetch is the per-call output cap shared by all three providers.
const MaxFetch = 10240000

// CSPFetch fills buf from the operating system's cryptographic RNG.
func CSPFetch(buf []byte) error {
	if len(buf) > MaxFetch {
		return fmt.Errorf("entropy: csp request %d: %w", len(buf), qsc.ErrLengthOverflow)
	}
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("entropy: csp: %v: %w", err, qsc.ErrEntropyFailure)
	}
	return nil
}
