package cpuid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeaturesStable(t *testing.T) {
	// The bitfield is read once and never changes.
	require.Equal(t, Features(), Features())
}

func TestHas(t *testing.T) {
	c := AESNI | AVX2
	require.True(t, c.Has(AESNI))
	require.True(t, c.Has(AVX2))
	require.True(t, c.Has(AESNI|AVX2))
	require.False(t, c.Has(AVX512))
	require.False(t, c.Has(AESNI|RDRAND))
}
