package kat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qrcs-corp/go-qsc/keccak"
)

func TestParseRecords(t *testing.T) {
	in := strings.NewReader(`# comment
[section]

count = 0
seed = 0a0b
ss = ff

count = 1
seed = 0c0d
ss = ee
`)
	records, err := Parse(in)
	require.NoError(t, err)
	require.Len(t, records, 2)

	n, err := records[0].Int("count")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	seed, err := records[1].Hex("seed")
	require.NoError(t, err)
	require.Equal(t, []byte{0x0c, 0x0d}, seed)

	_, err = records[0].Hex("missing")
	require.Error(t, err)
}

func TestRepeatedKeyStartsRecord(t *testing.T) {
	in := strings.NewReader("Len = 0\nMD = aa\nLen = 8\nMD = bb\n")
	records, err := Parse(in)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "bb", records[1]["MD"])
}

func TestUnparseableLine(t *testing.T) {
	_, err := Parse(strings.NewReader("no equals sign here"))
	require.Error(t, err)
}

// The testdata file drives the hash it describes.
func TestSHA3ShortMsgFile(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "sha3_256_shortmsg.rsp"))
	require.NoError(t, err)
	defer f.Close()

	records, err := Parse(f)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, rec := range records {
		bits, err := rec.Int("Len")
		require.NoError(t, err)
		msg, err := rec.Hex("Msg")
		require.NoError(t, err)
		want, err := rec.Hex("MD")
		require.NoError(t, err)

		// A zero-length entry carries a placeholder byte.
		msg = msg[:bits/8]
		got := keccak.Sum256(msg)
		require.Equal(t, want, got[:])
	}
}
