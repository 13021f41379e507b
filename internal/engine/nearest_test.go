package engine

import (
	"testing"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/status"
	"github.com/stretchr/testify/require"
)

func TestNearestFindsSurroundingPoints(t *testing.T) {
	h := gridBuilder(t, format.PackingNone).Handle()
	defer h.Release()

	n, st := NewNearest(h)
	require.Equal(t, status.Success, st)
	defer n.Release()

	// Between rows 0/1 and columns 1/2 of a 4x3 grid starting at 60N 0E
	// with 0.5 degree spacing.
	pts, st := n.Find(59.8, 0.7)
	require.Equal(t, status.Success, st)

	indices := make(map[int]bool, 4)
	for _, p := range pts {
		indices[p.Index] = true
		require.GreaterOrEqual(t, p.Index, 0)
		require.Less(t, p.Index, 12)
		require.Greater(t, p.Distance, 0.0)
	}
	require.Len(t, indices, 4, "the four gridpoints are distinct")
	require.True(t, indices[1] && indices[2] && indices[5] && indices[6],
		"expected the enclosing cell corners, got %v", pts)

	// Ascending distance ordering.
	for i := 1; i < 4; i++ {
		require.LessOrEqual(t, pts[i-1].Distance, pts[i].Distance)
	}
}

func TestNearestIsDeterministic(t *testing.T) {
	h := gridBuilder(t, format.PackingNone).Handle()
	defer h.Release()

	n, st := NewNearest(h)
	require.Equal(t, status.Success, st)
	defer n.Release()

	first, st := n.Find(59.33, 1.04)
	require.Equal(t, status.Success, st)
	for i := 0; i < 5; i++ {
		again, st := n.Find(59.33, 1.04)
		require.Equal(t, status.Success, st)
		require.Equal(t, first, again)
	}
}

func TestNearestReportsGridValues(t *testing.T) {
	h := gridBuilder(t, format.PackingNone).Handle()
	defer h.Release()

	n, st := NewNearest(h)
	require.Equal(t, status.Success, st)
	defer n.Release()

	// Exactly on gridpoint (i=0, j=0).
	pts, st := n.Find(60.0, 0.0)
	require.Equal(t, status.Success, st)
	require.Equal(t, 0, pts[0].Index)
	require.InDelta(t, 0.0, pts[0].Distance, 1e-9)
	require.Equal(t, 60.0, pts[0].Lat)
	require.Equal(t, 0.0, pts[0].Lon)
	require.Equal(t, 270.5, pts[0].Value)
}

func TestNearestRequiresGridKeys(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)
	b.AddString("centre", "ecmf")

	h := b.Handle()
	defer h.Release()

	_, st := NewNearest(h)
	require.Equal(t, status.GeocalculusProblem, st)
}

func TestNearestRejectsInconsistentGrid(t *testing.T) {
	b := gridBuilder(t, format.PackingNone)
	b.AddLong("Ni", 100) // values no longer matches Ni*Nj

	h := b.Handle()
	defer h.Release()

	_, st := NewNearest(h)
	require.Equal(t, status.WrongGrid, st)
}

func TestNearestAfterRelease(t *testing.T) {
	h := gridBuilder(t, format.PackingNone).Handle()
	defer h.Release()

	n, st := NewNearest(h)
	require.Equal(t, status.Success, st)
	require.Equal(t, status.Success, n.Release())

	_, st = n.Find(60, 0)
	require.Equal(t, status.InvalidNearest, st)
}

func TestNearestNullHandle(t *testing.T) {
	h := gridBuilder(t, format.PackingNone).Handle()
	h.Release()

	_, st := NewNearest(h)
	require.Equal(t, status.NullHandle, st)
}
