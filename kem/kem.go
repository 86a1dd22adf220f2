// Package kem defines the uniform surface over the library's
// key-encapsulation schemes and a registry of the built-in parameter
// sets. Key material crosses the boundary as opaque byte slices whose
// lengths are fixed per scheme.
package kem

import (
	"fmt"
	"io"
	"sort"
	"sync"

	qsc "github.com/qrcs-corp/go-qsc"
)

// Status reports the outcome of decapsulation.
type Status int

const (
	// AuthOk means the ciphertext decapsulated cleanly.
	AuthOk Status = iota
	// ImplicitReject means integrity failed and the returned shared
	// secret is the pseudorandom rejection value derived from the
	// private key and ciphertext. Callers may ignore the flag; a
	// tampered ciphertext yields a secret unknown to the attacker.
	ImplicitReject
)

// Scheme is one KEM parameter set. Deterministic operations take seeds
// of exactly the advertised sizes; the randomized fronts in this
// package draw those seeds from an io.Reader.
type Scheme interface {
	Name() string
	PublicKeySize() int
	PrivateKeySize() int
	CiphertextSize() int
	SharedSecretSize() int
	KeygenSeedSize() int
	EncapsSeedSize() int

	// DeriveKeypair produces a keypair deterministically from seed.
	DeriveKeypair(seed []byte) (pk, sk []byte, err error)
	// Encapsulate produces a ciphertext and shared secret
	// deterministically from the encapsulation seed and pk.
	Encapsulate(pk, seed []byte) (ct, ss []byte, err error)
	// Decapsulate recovers the shared secret, running the scheme's
	// implicit-rejection path on tampered ciphertexts.
	Decapsulate(sk, ct []byte) (ss []byte, status Status, err error)
}

// Keypair draws the scheme's keygen seed from rng and derives a pair.
func Keypair(s Scheme, rng io.Reader) (pk, sk []byte, err error) {
	seed := make([]byte, s.KeygenSeedSize())
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, nil, fmt.Errorf("kem: keygen seed: %v: %w", err, qsc.ErrEntropyFailure)
	}
	return s.DeriveKeypair(seed)
}

// Encapsulate draws the scheme's encapsulation seed from rng.
func Encapsulate(s Scheme, pk []byte, rng io.Reader) (ct, ss []byte, err error) {
	seed := make([]byte, s.EncapsSeedSize())
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, nil, fmt.Errorf("kem: encaps seed: %v: %w", err, qsc.ErrEntropyFailure)
	}
	return s.Encapsulate(pk, seed)
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
