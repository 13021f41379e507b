package gribcodes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/internal/engine"
	"github.com/nwpio/gribcodes/status"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, path string, shortName string, date int64) {
	t.Helper()

	b, err := engine.NewBuilder(engine.WithPacking(format.PackingZstd))
	require.NoError(t, err)

	b.AddLong("edition", 2).
		AddString("shortName", shortName).
		AddLong("dataDate", date).
		AddDouble("values", 101325.0, 101300.25, 100980.5, 101999.75)
	require.Equal(t, status.Success, b.WriteFile(path))
}

func TestOpenFileIteration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.grc")
	writeFixture(t, path, "msl", 20260801)
	writeFixture(t, path, "msl", 20260802)

	src, err := OpenFile(path)
	require.NoError(t, err)
	defer src.Close()

	iter, err := src.Messages()
	require.NoError(t, err)

	n := 0
	for {
		msg, err := iter.Next()
		require.NoError(t, err)
		if msg == nil {
			break
		}
		s, err := msg.ReadString("shortName")
		require.NoError(t, err)
		require.Equal(t, "msl", s)
		n++
	}
	require.Equal(t, 2, n)
}

func TestOpenBufferIteration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.grc")
	writeFixture(t, path, "2t", 20260801)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	src, err := OpenBuffer(data)
	require.NoError(t, err)
	defer src.Close()

	iter, err := src.Messages()
	require.NoError(t, err)

	msg, err := iter.Next()
	require.NoError(t, err)
	require.NotNil(t, msg)

	values, err := msg.ReadFloat64Slice("values")
	require.NoError(t, err)
	require.Len(t, values, 4)
}

func TestIndexConvenience(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.grc")
	writeFixture(t, path, "2t", 20260801)
	writeFixture(t, path, "msl", 20260801)

	idx, err := NewIndex("shortName")
	require.NoError(t, err)

	require.NoError(t, idx.AddFile(path))
	require.NoError(t, idx.SelectString("shortName", "2t"))

	msg, err := idx.Next()
	require.NoError(t, err)
	require.NotNil(t, msg)
	s, err := msg.ReadString("shortName")
	require.NoError(t, err)
	require.Equal(t, "2t", s)
	require.NoError(t, msg.Release())

	idxPath := filepath.Join(t.TempDir(), "fixture.grx")
	require.NoError(t, idx.WriteFile(idxPath))
	require.NoError(t, idx.Close())

	loaded, err := ReadIndexFile(idxPath)
	require.NoError(t, err)
	defer loaded.Close()

	require.NoError(t, loaded.SelectString("shortName", "msl"))
	msg, err = loaded.Next()
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NoError(t, msg.Release())
}
