package sha2

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	qsc "github.com/qrcs-corp/go-qsc"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// RFC 4231 test case 1.
func TestHmacKAT(t *testing.T) {
	key := bytes.Repeat([]byte{0x0b}, 20)
	msg := []byte("Hi There")

	require.Equal(t,
		unhex(t, "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7"),
		HmacSum256(key, msg))
	require.Equal(t,
		unhex(t, "87aa7cdea5ef619d4ff0b4241a1d6cb02379f4e2ce4ec2787ad0b30545e17cde"+
			"daa833b7d6b8a702038b274eaea3f4e4be9d914eeb61f1702e696c203a126854"),
		HmacSum512(key, msg))
}

// RFC 5869 test case 1.
func TestHkdfKAT(t *testing.T) {
	ikm := bytes.Repeat([]byte{0x0b}, 22)
	salt := unhex(t, "000102030405060708090a0b0c")
	info := unhex(t, "f0f1f2f3f4f5f6f7f8f9")

	okm, err := HkdfExpand256(ikm, salt, info, 42)
	require.NoError(t, err)
	require.Equal(t,
		unhex(t, "3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf"+
			"34007208d5b887185865"),
		okm)
}

func TestHkdfStreamingEqualsOneShot(t *testing.T) {
	ikm := []byte("input keying material")
	a, err := HkdfExpand512(ikm, nil, []byte("ctx"), 100)
	require.NoError(t, err)
	b, err := HkdfExpand512(ikm, nil, []byte("ctx"), 100)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := HkdfExpand512(ikm, nil, []byte("other"), 100)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestHkdfBounds(t *testing.T) {
	_, err := HkdfExpand256([]byte("ikm"), nil, nil, 0)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
	_, err = HkdfExpand256([]byte("ikm"), nil, nil, 255*32+1)
	require.ErrorIs(t, err, qsc.ErrInvalidParameter)
}
