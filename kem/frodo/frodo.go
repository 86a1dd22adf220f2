// Package frodo registers the FrodoKEM unstructured-lattice KEM at the
// 640-SHAKE parameter set, backed by the circl implementation.
package frodo

import (
	"github.com/cloudflare/circl/kem/frodo/frodo640shake"

	"github.com/qrcs-corp/go-qsc/kem"
)

// Frodo640Shake is the category-1 FrodoKEM parameter set.
var Frodo640Shake = kem.WrapCircl(frodo640shake.Scheme(), "FrodoKEM-640-SHAKE")

func init() {
	kem.Register(Frodo640Shake)
}
