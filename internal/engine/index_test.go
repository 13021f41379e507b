package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/status"
	"github.com/stretchr/testify/require"
)

// writeMixedFile writes records for two parameters across three dates.
func writeMixedFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mixed.grc")
	for _, shortName := range []string{"2t", "msl"} {
		for _, date := range []int64{20260801, 20260802, 20260803} {
			b := gridBuilder(t, format.PackingS2)
			b.AddString("shortName", shortName).Namespace("parameter", "shortName")
			b.AddLong("dataDate", date)
			require.Equal(t, status.Success, b.WriteFile(path))
		}
	}

	return path
}

func drainIndex(t *testing.T, x *Index) []*Handle {
	t.Helper()

	var out []*Handle
	for {
		h, st := x.Next()
		require.Equal(t, status.Success, st)
		if h == nil {
			return out
		}
		out = append(out, h)
	}
}

func releaseAll(hs []*Handle) {
	for _, h := range hs {
		h.Release()
	}
}

func TestIndexSelect(t *testing.T) {
	path := writeMixedFile(t)

	x, st := NewIndex([]string{"shortName", "dataDate"})
	require.Equal(t, status.Success, st)
	defer x.Release()

	require.Equal(t, status.Success, x.AddFile(path))

	require.Equal(t, status.Success, x.SelectString("shortName", "msl"))
	hs := drainIndex(t, x)
	require.Len(t, hs, 3)
	for _, h := range hs {
		v, st := h.GetStringBytes("shortName")
		require.Equal(t, status.Success, st)
		require.Equal(t, "msl", string(v))
	}
	releaseAll(hs)

	// Narrowing restarts iteration.
	require.Equal(t, status.Success, x.SelectLong("dataDate", 20260802))
	hs = drainIndex(t, x)
	require.Len(t, hs, 1)
	date, st := hs[0].GetLong("dataDate")
	require.Equal(t, status.Success, st)
	require.Equal(t, int64(20260802), date)
	releaseAll(hs)
}

func TestIndexUnselectedKeyMatchesAll(t *testing.T) {
	path := writeMixedFile(t)

	x, st := NewIndex([]string{"shortName", "dataDate"})
	require.Equal(t, status.Success, st)
	defer x.Release()

	require.Equal(t, status.Success, x.AddFile(path))

	hs := drainIndex(t, x)
	require.Len(t, hs, 6)
	releaseAll(hs)
}

func TestIndexSelectUnknownKey(t *testing.T) {
	x, st := NewIndex([]string{"shortName"})
	require.Equal(t, status.Success, st)
	defer x.Release()

	require.Equal(t, status.NotFound, x.SelectLong("level", 500))
}

func TestIndexNoMatch(t *testing.T) {
	path := writeMixedFile(t)

	x, st := NewIndex([]string{"shortName", "dataDate"})
	require.Equal(t, status.Success, st)
	defer x.Release()

	require.Equal(t, status.Success, x.AddFile(path))
	require.Equal(t, status.Success, x.SelectString("shortName", "10u"))

	h, st := x.Next()
	require.Equal(t, status.Success, st)
	require.Nil(t, h)
}

func TestIndexHandlesAreIndependent(t *testing.T) {
	path := writeMixedFile(t)

	x, st := NewIndex([]string{"shortName", "dataDate"})
	require.Equal(t, status.Success, st)
	defer x.Release()

	require.Equal(t, status.Success, x.AddFile(path))
	require.Equal(t, status.Success, x.SelectString("shortName", "2t"))

	h1, st := x.Next()
	require.Equal(t, status.Success, st)
	require.NotNil(t, h1)

	require.Equal(t, status.Success, h1.SetString("centre", "babj"))
	h1.Release()

	// A second pass decodes pristine records.
	require.Equal(t, status.Success, x.SelectString("shortName", "2t"))
	h2, st := x.Next()
	require.Equal(t, status.Success, st)
	require.NotNil(t, h2)
	defer h2.Release()

	v, st := h2.GetStringBytes("centre")
	require.Equal(t, status.Success, st)
	require.Equal(t, "ecmf", string(v))
}

func TestIndexPersistence(t *testing.T) {
	path := writeMixedFile(t)
	idxPath := filepath.Join(t.TempDir(), "mixed.grx")

	x, st := NewIndex([]string{"shortName", "dataDate"})
	require.Equal(t, status.Success, st)

	require.Equal(t, status.Success, x.AddFile(path))
	require.Equal(t, status.Success, x.Write(idxPath))
	require.Equal(t, status.Success, x.Release())

	loaded, st := ReadIndex(idxPath)
	require.Equal(t, status.Success, st)
	defer loaded.Release()

	require.Equal(t, status.Success, loaded.SelectString("shortName", "2t"))
	require.Equal(t, status.Success, loaded.SelectLong("dataDate", 20260803))

	hs := drainIndex(t, loaded)
	require.Len(t, hs, 1)
	releaseAll(hs)
}

func TestReadIndexRejectsCorruption(t *testing.T) {
	path := writeMixedFile(t)
	idxPath := filepath.Join(t.TempDir(), "mixed.grx")

	x, st := NewIndex([]string{"shortName"})
	require.Equal(t, status.Success, st)
	require.Equal(t, status.Success, x.AddFile(path))
	require.Equal(t, status.Success, x.Write(idxPath))
	x.Release()

	data, err := os.ReadFile(idxPath)
	require.NoError(t, err)
	data[len(data)-3] ^= 0xFF
	require.NoError(t, os.WriteFile(idxPath, data, 0o644))

	_, st = ReadIndex(idxPath)
	require.Equal(t, status.CorruptedIndex, st)

	_, st = ReadIndex(filepath.Join(t.TempDir(), "nope.grx"))
	require.Equal(t, status.FileNotFound, st)
}

func TestIndexUseAfterRelease(t *testing.T) {
	x, st := NewIndex([]string{"shortName"})
	require.Equal(t, status.Success, st)
	require.Equal(t, status.Success, x.Release())

	require.Equal(t, status.NullIndex, x.AddFile("whatever"))
	require.Equal(t, status.NullIndex, x.SelectString("shortName", "2t"))
	_, st = x.Next()
	require.Equal(t, status.NullIndex, st)
}

func TestNewIndexRequiresKeys(t *testing.T) {
	_, st := NewIndex(nil)
	require.Equal(t, status.InvalidArgument, st)
}
