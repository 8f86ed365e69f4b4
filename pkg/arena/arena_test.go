package arena

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/internal/rerr"
)

func TestWriteOpenRoundTrip(t *testing.T) {
	b := NewBuilder()
	off := b.PutUint32(42)
	strOff := b.PutString("hello")

	path := filepath.Join(t.TempDir(), "test.rime")
	require.NoError(t, WriteFile(path, "Rime::Test/", "4.0", 0xdeadbeef, b.Bytes()))

	a, err := Open(path, "Rime::Test/", "4.0")
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, "4.0", a.Version())
	require.Equal(t, uint32(0xdeadbeef), a.Checksum())
	require.Equal(t, uint32(42), a.Uint32(off))
	require.Equal(t, "hello", a.String(strOff))
}

func TestOpenRejectsMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.rime"), "Rime::Test/", "4.0")
	require.Error(t, err)
	require.True(t, rerr.Is(err, rerr.NoRepository))
}

func TestOpenRejectsOldVersion(t *testing.T) {
	b := NewBuilder()
	path := filepath.Join(t.TempDir(), "old.rime")
	require.NoError(t, WriteFile(path, "Rime::Test/", "3.0", 0, b.Bytes()))

	_, err := Open(path, "Rime::Test/", "4.0")
	require.Error(t, err)
	require.True(t, rerr.Is(err, rerr.Broken))
}

func TestOpenRejectsBadMagic(t *testing.T) {
	b := NewBuilder()
	path := filepath.Join(t.TempDir(), "bad.rime")
	require.NoError(t, WriteFile(path, "Rime::Other/", "4.0", 0, b.Bytes()))

	_, err := Open(path, "Rime::Test/", "4.0")
	require.Error(t, err)
	require.True(t, rerr.Is(err, rerr.Broken))
}

func TestStringTableRoundTrip(t *testing.T) {
	sb := NewStrTableBuilder()
	idA := sb.Add("alpha", -1.0)
	idB := sb.Add("beta", -2.5)
	require.Equal(t, uint32(0), idA)
	require.Equal(t, uint32(1), idB)

	ab := NewBuilder()
	root, count := sb.Build(ab)
	require.Equal(t, uint32(2), count)

	path := filepath.Join(t.TempDir(), "strtab.rime")
	require.NoError(t, WriteFile(path, "Rime::Test/", "4.0", 0, ab.Bytes()))

	a, err := Open(path, "Rime::Test/", "4.0")
	require.NoError(t, err)
	defer a.Close()

	st := OpenStrTable(a, root, count)
	require.Equal(t, "alpha", st.Get(idA))
	require.Equal(t, "beta", st.Get(idB))
	require.InDelta(t, -1.0, st.Weight(idA), 1e-9)
	require.InDelta(t, -2.5, st.Weight(idB), 1e-9)
}

func TestDeterministicBuild(t *testing.T) {
	build := func() []byte {
		sb := NewStrTableBuilder()
		sb.Add("a", 1)
		sb.Add("b", 2)
		sb.Add("ab", 3)
		ab := NewBuilder()
		sb.Build(ab)
		return ab.Bytes()
	}
	require.Equal(t, build(), build())
}
