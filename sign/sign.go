// Package sign defines the uniform surface over the library's
// signature schemes and a registry of the built-in parameter sets.
package sign

import (
	"fmt"
	"io"
	"sort"
	"sync"

	qsc "github.com/qrcs-corp/go-qsc"
)

// Scheme is one signature parameter set. Signatures are fixed-length
// per scheme, so a signed message is the signature followed by the
// message.
type Scheme interface {
	Name() string
	PublicKeySize() int
	PrivateKeySize() int
	SignatureSize() int
	KeygenSeedSize() int

	// DeriveKeypair produces a keypair deterministically from seed.
	DeriveKeypair(seed []byte) (pk, sk []byte, err error)
	// Sign produces a signature over msg. Schemes with randomized
	// signing read their hedge from rng; a nil rng selects the
	// deterministic path.
	Sign(sk, msg []byte, rng io.Reader) (sig []byte, err error)
	// Verify reports whether sig is a valid signature of msg under pk.
	Verify(pk, msg, sig []byte) bool
}

// Keypair draws the scheme's keygen seed from rng and derives a pair.
func Keypair(s Scheme, rng io.Reader) (pk, sk []byte, err error) {
	seed := make([]byte, s.KeygenSeedSize())
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, nil, fmt.Errorf("sign: keygen seed: %v: %w", err, qsc.ErrEntropyFailure)
	}
	return s.DeriveKeypair(seed)
}

// Seal signs msg and returns signature-prefixed signed message bytes.
func Seal(s Scheme, sk, msg []byte, rng io.Reader) ([]byte, error) {
	sig, err := s.Sign(sk, msg, rng)
	if err != nil {
		return nil, err
	}
	return append(sig, msg...), nil
}

// Open splits and verifies a signed message, returning the message on
// success and ErrAuthFailure on a bad signature.
func Open(s Scheme, pk, signed []byte) ([]byte, error) {
	if len(signed) < s.SignatureSize() {
		return nil, fmt.Errorf("sign: signed message shorter than signature: %w", qsc.ErrInvalidParameter)
	}
	sig := signed[:s.SignatureSize()]
	msg := signed[s.SignatureSize():]
	if !s.Verify(pk, msg, sig) {
		return nil, qsc.ErrAuthFailure
	}
	return msg, nil
}

var (
	mu       sync.RWMutex
	registry = map[string]Scheme{}
)

// Register adds a scheme to the registry, replacing any previous entry
// with the same name.
func Register(s Scheme) {
	mu.Lock()
	defer mu.Unlock()
	registry[s.Name()] = s
}

// ByName returns the registered scheme, or nil.
func ByName(name string) Scheme {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names lists the registered schemes in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
