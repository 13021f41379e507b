package grib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/internal/engine"
	"github.com/nwpio/gribcodes/status"
	"github.com/stretchr/testify/require"
)

// fieldBuilder assembles a realistic single-field record: identification
// keys, a 4x3 regular lat/lon grid and a values array.
func fieldBuilder(t *testing.T, shortName string, date int64) *engine.Builder {
	t.Helper()

	b, err := engine.NewBuilder(engine.WithPacking(format.PackingS2))
	require.NoError(t, err)

	values := make([]float64, 12)
	for i := range values {
		values[i] = 270.5 + float64(i)*0.25
	}

	b.AddLong("edition", 2).
		AddString("centre", "ecmf").
		AddString("shortName", shortName).
		AddLong("dataDate", date).
		AddLong("level", 0).
		AddLong("Ni", 4).
		AddLong("Nj", 3).
		AddDouble("latitudeOfFirstGridPointInDegrees", 60.0).
		AddDouble("longitudeOfFirstGridPointInDegrees", 0.0).
		AddDouble("iDirectionIncrementInDegrees", 0.5).
		AddDouble("jDirectionIncrementInDegrees", 0.5).
		AddDouble("values", values...).
		AddBytes("section1Padding", []byte{0x00, 0x00, 0x01}).
		AddMissing("scaleFactorOfSecondFixedSurface").
		ReadOnly("edition").
		Computed("shortName").
		Namespace("parameter", "shortName", "level").
		Namespace("geography", "Ni", "Nj")

	return b
}

// writeFieldFile writes n records with ascending dates to a fresh file.
func writeFieldFile(t *testing.T, shortName string, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), shortName+".grc")
	for i := 0; i < n; i++ {
		b := fieldBuilder(t, shortName, int64(20260801+i))
		require.Equal(t, status.Success, b.WriteFile(path))
	}

	return path
}

func readFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return data
}

// firstMessage opens a fresh iterator and returns its first message.
func firstMessage(t *testing.T, src *Source) (*MessageIter, *Message) {
	t.Helper()

	iter, err := src.Messages()
	require.NoError(t, err)

	msg, err := iter.Next()
	require.NoError(t, err)
	require.NotNil(t, msg)

	return iter, msg
}
