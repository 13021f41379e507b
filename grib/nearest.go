package grib

import (
	"github.com/nwpio/gribcodes/internal/engine"
	"github.com/nwpio/gribcodes/status"
)

// GridPoint is one of the gridpoints nearest to a queried location.
type GridPoint struct {
	// Index is the flat position of the gridpoint in the values array.
	Index int
	// Lat and Lon locate the gridpoint in degrees.
	Lat float64
	Lon float64
	// Distance is the great-circle distance to the query in kilometers.
	Distance float64
	// Value is the field value at the gridpoint.
	Value float64
}

// Nearest searches one message's grid for the gridpoints closest to a
// target location. The grid is snapshotted at construction, so the finder
// stays usable after the message itself is released.
type Nearest struct {
	n      *engine.Nearest
	closed bool
}

// NewNearest builds a nearest-gridpoint finder over the message's grid.
func (m *message) NewNearest() (*Nearest, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}

	n, st := engine.NewNearest(h)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return &Nearest{n: n}, nil
}

// Find returns the four gridpoints closest to (lat, lon), ordered by
// ascending distance. The result is deterministic: the same grid and
// target always produce the same four points in the same order.
func (f *Nearest) Find(lat, lon float64) ([4]GridPoint, error) {
	var out [4]GridPoint
	if f.closed {
		return out, errorFromStatus(status.InvalidNearest)
	}

	pts, st := f.n.Find(lat, lon)
	if st.IsFailure() {
		return out, errorFromStatus(st)
	}

	for i, p := range pts {
		out[i] = GridPoint{
			Index:    p.Index,
			Lat:      p.Lat,
			Lon:      p.Lon,
			Distance: p.Distance,
			Value:    p.Value,
		}
	}

	return out, nil
}

// Close releases the finder. A release failure is logged, not returned;
// closing twice is a no-op.
func (f *Nearest) Close() {
	if f.closed {
		return
	}
	f.closed = true
	if st := f.n.Release(); st.IsFailure() {
		log().Warn().Stringer("status", st).Msg("nearest release failed")
	}
}

// FindNearest is a one-shot convenience around NewNearest and Find.
func (m *message) FindNearest(lat, lon float64) ([4]GridPoint, error) {
	f, err := m.NewNearest()
	if err != nil {
		return [4]GridPoint{}, err
	}
	defer f.Close()

	return f.Find(lat, lon)
}
