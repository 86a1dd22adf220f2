package entropy

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	qsc "github.com/qrcs-corp/go-qsc"
)

func TestCSPFetch(t *testing.T) {
	buf := make([]byte, 256)
	require.NoError(t, CSPFetch(buf))
	require.NotEqual(t, make([]byte, 256), buf)

	require.ErrorIs(t, CSPFetch(make([]byte, MaxFetch+1)), qsc.ErrLengthOverflow)
}

func TestRDPFetch(t *testing.T) {
	// The hardware source is optional: either it fills the buffer or it
	// reports EntropyFailure for the aggregator to compensate.
	buf := make([]byte, 64)
	if err := RDPFetch(buf); err != nil {
		require.ErrorIs(t, err, qsc.ErrEntropyFailure)
		return
	}
	require.NotEqual(t, make([]byte, 64), buf)
}

func TestRDPLengthCap(t *testing.T) {
	err := RDPFetch(make([]byte, MaxFetch+1))
	require.Error(t, err)
	require.True(t,
		errors.Is(err, qsc.ErrLengthOverflow) || errors.Is(err, qsc.ErrEntropyFailure))
}

func TestACPGenerate(t *testing.T) {
	a := make([]byte, 512)
	b := make([]byte, 512)
	require.NoError(t, ACPGenerate(a))
	require.NoError(t, ACPGenerate(b))

	// Successive calls must differ: the clock, counter, and fresh CSP
	// draws all move. A statistical check, not a determinism assertion.
	require.NotEqual(t, a, b)

	// The output should not be trivially biased; count equal positions.
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	require.Less(t, equal, 64, "outputs agree in too many positions")

	require.False(t, bytes.Equal(a[:256], a[256:]))
}

func TestACPLengthCap(t *testing.T) {
	require.ErrorIs(t, ACPGenerate(make([]byte, MaxFetch+1)), qsc.ErrLengthOverflow)
}
