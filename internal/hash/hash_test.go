package hash

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumIsDeterministic(t *testing.T) {
	t.Parallel()

	a := Sum([]byte("hello world"))
	b := Sum([]byte("hello world"))
	assert.Equal(t, a, b)

	// Known SHA-256 of "hello world".
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", a.Hex())
}

func TestSumDistinguishesContent(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("b"),
		[]byte("ab"),
		[]byte("hello world"),
		[]byte("hello world\n"),
	}

	seen := make(map[Digest][]byte)
	for _, in := range inputs {
		d := Sum(in)
		prev, collided := seen[d]
		require.False(t, collided, "digest collision between %q and %q", prev, in)
		seen[d] = in
	}
}

func TestSumFile(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "mod.bin", []byte("payload"), 0o644))

	d, err := SumFile(fsys, "mod.bin")
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte("payload")), d)
}

func TestSumFileMissing(t *testing.T) {
	t.Parallel()

	_, err := SumFile(memfs.New(), "absent.bin")
	require.Error(t, err)
}

func TestParseHexRoundTrip(t *testing.T) {
	t.Parallel()

	d := Sum([]byte("round trip"))
	parsed, err := ParseHex(d.Hex())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestParseHexRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseHex("not-hex")
	assert.Error(t, err)

	_, err = ParseHex("abcd") // valid hex, wrong length
	assert.Error(t, err)
}
