package kem

import (
	"fmt"

	circlkem "github.com/cloudflare/circl/kem"

	qsc "github.com/qrcs-corp/go-qsc"
)

// circlScheme adapts a circl KEM to the library surface. circl runs the
// implicit-rejection path internally and indistinguishably, so
// decapsulation always reports AuthOk; the returned secret is the
// scheme's pseudorandom rejection value on tampered input.
type circlScheme struct {
	inner circlkem.Scheme
	name  string
}

// WrapCircl adapts a circl scheme under the given registry name.
func WrapCircl(inner circlkem.Scheme, name string) Scheme {
	return &circlScheme{inner: inner, name: name}
}

func (c *circlScheme) Name() string          { return c.name }
func (c *circlScheme) PublicKeySize() int    { return c.inner.PublicKeySize() }
func (c *circlScheme) PrivateKeySize() int   { return c.inner.PrivateKeySize() }
func (c *circlScheme) CiphertextSize() int   { return c.inner.CiphertextSize() }
func (c *circlScheme) SharedSecretSize() int { return c.inner.SharedKeySize() }
func (c *circlScheme) KeygenSeedSize() int   { return c.inner.SeedSize() }
func (c *circlScheme) EncapsSeedSize() int   { return c.inner.EncapsulationSeedSize() }

func (c *circlScheme) DeriveKeypair(seed []byte) (pk, sk []byte, err error) {
	if len(seed) != c.inner.SeedSize() {
		return nil, nil, fmt.Errorf("kem: %s keygen seed length %d: %w", c.name, len(seed), qsc.ErrInvalidParameter)
	}
	pub, priv := c.inner.DeriveKeyPair(seed)
	pk, err = pub.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("kem: %s public key: %w", c.name, err)
	}
	sk, err = priv.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("kem: %s private key: %w", c.name, err)
	}
	return pk, sk, nil
}

func (c *circlScheme) Encapsulate(pk, seed []byte) (ct, ss []byte, err error) {
	if len(seed) != c.inner.EncapsulationSeedSize() {
		return nil, nil, fmt.Errorf("kem: %s encaps seed length %d: %w", c.name, len(seed), qsc.ErrInvalidParameter)
	}
	pub, err := c.inner.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("kem: %s public key: %v: %w", c.name, err, qsc.ErrInvalidParameter)
	}
	ct, ss, err = c.inner.EncapsulateDeterministically(pub, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("kem: %s encapsulate: %w", c.name, err)
	}
	return ct, ss, nil
}

func (c *circlScheme) Decapsulate(sk, ct []byte) ([]byte, Status, error) {
	priv, err := c.inner.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, AuthOk, fmt.Errorf("kem: %s private key: %v: %w", c.name, err, qsc.ErrInvalidParameter)
	}
	ss, err := c.inner.Decapsulate(priv, ct)
	if err != nil {
		return nil, AuthOk, fmt.Errorf("kem: %s decapsulate: %v: %w", c.name, err, qsc.ErrInvalidParameter)
	}
	return ss, AuthOk, nil
}
