package grib

import (
	"path/filepath"
	"testing"

	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/status"
	"github.com/stretchr/testify/require"
)

func openFirstClone(t *testing.T) *ClonedMessage {
	t.Helper()

	src, err := OpenFile(writeFieldFile(t, "2t", 1), ProductGRIB)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	_, msg := firstMessage(t, src)

	clone, err := msg.Clone()
	require.NoError(t, err)
	t.Cleanup(func() { clone.Release() })

	return clone
}

func TestCloneIsIndependentOfOrigin(t *testing.T) {
	src, err := OpenFile(writeFieldFile(t, "2t", 2), ProductGRIB)
	require.NoError(t, err)
	defer src.Close()

	iter, msg := firstMessage(t, src)

	clone, err := msg.Clone()
	require.NoError(t, err)
	defer clone.Release()

	// Advancing kills the borrowed origin but not the clone.
	_, err = iter.Next()
	require.NoError(t, err)
	_, err = msg.ReadInt64("edition")
	require.ErrorIs(t, err, errs.ErrNullHandle)

	edition, err := clone.ReadInt64("edition")
	require.NoError(t, err)
	require.Equal(t, int64(2), edition)
}

func TestWriteRoundTrip(t *testing.T) {
	clone := openFirstClone(t)

	require.NoError(t, clone.WriteString("centre", "kwbc"))
	require.NoError(t, clone.WriteInt64("dataDate", 20261111))
	require.NoError(t, clone.WriteFloat64("angleOfRotation", 12.5))
	require.NoError(t, clone.WriteBytes("localSection", []byte{1, 2, 3}))
	require.NoError(t, clone.WriteInt64Slice("pl", []int64{4, 8, 12}))
	require.NoError(t, clone.WriteFloat64Slice("distinctLatitudes", []float64{60.0, 59.5, 59.0}))

	s, err := clone.ReadString("centre")
	require.NoError(t, err)
	require.Equal(t, "kwbc", s)

	n, err := clone.ReadInt64("dataDate")
	require.NoError(t, err)
	require.Equal(t, int64(20261111), n)

	f, err := clone.ReadFloat64("angleOfRotation")
	require.NoError(t, err)
	require.Equal(t, 12.5, f)

	b, err := clone.ReadBytes("localSection")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	arr, err := clone.ReadInt64Slice("pl")
	require.NoError(t, err)
	require.Equal(t, []int64{4, 8, 12}, arr)

	// No serialization happens in between, so the float array reads back
	// exactly; quantization only applies on the wire.
	fa, err := clone.ReadFloat64Slice("distinctLatitudes")
	require.NoError(t, err)
	require.Equal(t, []float64{60.0, 59.5, 59.0}, fa)
}

func TestWriteFloat64SliceQuantizes(t *testing.T) {
	clone := openFirstClone(t)

	vals := []float64{1000.25, 1001.5, 999.75, 1002.0}
	require.NoError(t, clone.WriteFloat64Slice("values", vals))

	path := filepath.Join(t.TempDir(), "written.grc")
	require.NoError(t, clone.WriteToFile(path, false))

	src, err := OpenFile(path, ProductGRIB)
	require.NoError(t, err)
	defer src.Close()

	_, msg := firstMessage(t, src)
	got, err := msg.ReadFloat64Slice("values")
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := range vals {
		require.InDelta(t, vals[i], got[i], 1e-3)
	}
}

func TestWriteReadOnlyKey(t *testing.T) {
	clone := openFirstClone(t)

	err := clone.WriteInt64("edition", 1)
	require.Error(t, err)
	require.ErrorIs(t, err, status.ReadOnly)

	v, readErr := clone.ReadInt64("edition")
	require.NoError(t, readErr)
	require.Equal(t, int64(2), v)
}

func TestWriteMissing(t *testing.T) {
	clone := openFirstClone(t)

	require.NoError(t, clone.WriteMissing("level"))

	_, err := clone.ReadKeyDynamic("level")
	require.ErrorIs(t, err, errs.ErrMissingKey)
}

func TestWriteToFileAppend(t *testing.T) {
	clone := openFirstClone(t)

	path := filepath.Join(t.TempDir(), "multi.grc")
	require.NoError(t, clone.WriteToFile(path, false))
	require.NoError(t, clone.WriteToFile(path, true))
	require.NoError(t, clone.WriteToFile(path, true))

	src, err := OpenFile(path, ProductGRIB)
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
		n++
	}
	require.Equal(t, 3, n)
}

func TestWriteToFileTruncate(t *testing.T) {
	clone := openFirstClone(t)

	path := filepath.Join(t.TempDir(), "single.grc")
	require.NoError(t, clone.WriteToFile(path, true))
	require.NoError(t, clone.WriteToFile(path, false))

	src, err := OpenFile(path, ProductGRIB)
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
		n++
	}
	require.Equal(t, 1, n)
}

func TestWriteAfterRelease(t *testing.T) {
	clone := openFirstClone(t)
	require.NoError(t, clone.Release())

	err := clone.WriteInt64("dataDate", 1)
	require.ErrorIs(t, err, errs.ErrNullHandle)
}

func TestCloneOfClone(t *testing.T) {
	clone := openFirstClone(t)

	require.NoError(t, clone.WriteString("centre", "lfpw"))

	clone2, err := clone.Clone()
	require.NoError(t, err)
	defer clone2.Release()

	require.NoError(t, clone2.WriteString("centre", "babj"))

	s, err := clone.ReadString("centre")
	require.NoError(t, err)
	require.Equal(t, "lfpw", s)

	s, err = clone2.ReadString("centre")
	require.NoError(t, err)
	require.Equal(t, "babj", s)
}
