package grib

import (
	"testing"

	"github.com/nwpio/gribcodes/errs"
	"github.com/stretchr/testify/require"
)

func TestFindNearestReturnsFourPoints(t *testing.T) {
	_, msg := openFirst(t)

	pts, err := msg.FindNearest(59.8, 0.7)
	require.NoError(t, err)

	seen := make(map[int]bool, 4)
	for _, p := range pts {
		require.False(t, seen[p.Index], "gridpoints are distinct")
		seen[p.Index] = true
		require.GreaterOrEqual(t, p.Index, 0)
		require.Less(t, p.Index, 12)
	}

	for i := 1; i < 4; i++ {
		require.LessOrEqual(t, pts[i-1].Distance, pts[i].Distance,
			"points are ordered by ascending distance")
	}
}

func TestFindNearestDeterministic(t *testing.T) {
	_, msg := openFirst(t)

	first, err := msg.FindNearest(59.33, 1.04)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := msg.FindNearest(59.33, 1.04)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestFindNearestOnGridpoint(t *testing.T) {
	_, msg := openFirst(t)

	pts, err := msg.FindNearest(60.0, 0.0)
	require.NoError(t, err)
	require.Equal(t, 0, pts[0].Index)
	require.InDelta(t, 0.0, pts[0].Distance, 1e-9)
	require.Equal(t, 270.5, pts[0].Value)
	require.Equal(t, 60.0, pts[0].Lat)
	require.Equal(t, 0.0, pts[0].Lon)
}

func TestFindNearestWithoutGrid(t *testing.T) {
	src, err := OpenFile(writeFieldFile(t, "2t", 1), ProductGRIB)
	require.NoError(t, err)
	defer src.Close()

	_, msg := firstMessage(t, src)

	clone, err := msg.Clone()
	require.NoError(t, err)
	defer clone.Release()

	// Breaking the grid/values consistency makes the search fail cleanly.
	require.NoError(t, clone.WriteInt64("Ni", 100))
	_, err = clone.FindNearest(59.8, 0.7)
	require.Error(t, err)
}

func TestNearestFinderLifecycle(t *testing.T) {
	_, msg := openFirst(t)

	f, err := msg.NewNearest()
	require.NoError(t, err)

	// The finder snapshots the grid and outlives the message.
	require.NoError(t, msg.Release())
	pts, err := f.Find(60.0, 0.0)
	require.NoError(t, err)
	require.Equal(t, 0, pts[0].Index)

	f.Close()
	f.Close()
	_, err = f.Find(60.0, 0.0)
	require.Error(t, err)
}

func TestFindNearestReleasedMessage(t *testing.T) {
	_, msg := openFirst(t)

	require.NoError(t, msg.Release())
	_, err := msg.FindNearest(59.8, 0.7)
	require.ErrorIs(t, err, errs.ErrNullHandle)
}
