// Package mceliece registers the Classic McEliece code-based KEM at the
// 348864 parameter set, backed by the circl implementation.
package mceliece

import (
	"github.com/cloudflare/circl/kem/mceliece/mceliece348864"

	"github.com/qrcs-corp/go-qsc/kem"
)

// McEliece348864 is the category-1 Classic McEliece parameter set.
var McEliece348864 = kem.WrapCircl(mceliece348864.Scheme(), "McEliece-348864")

func init() {
	kem.Register(McEliece348864)
}
