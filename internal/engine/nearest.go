package engine

import (
	"math"

	"github.com/nwpio/gribcodes/internal/pool"
	"github.com/nwpio/gribcodes/status"
)

// earthRadiusKm is the spherical Earth radius used for gridpoint distances.
const earthRadiusKm = 6371.229

// GridPoint is one gridpoint candidate returned by a nearest search.
type GridPoint struct {
	Index    int
	Lat      float64
	Lon      float64
	Distance float64 // great-circle distance in kilometers
	Value    float64
}

// Nearest searches a regular latitude/longitude grid for the gridpoints
// closest to a target location. The grid geometry is snapshotted from the
// handle at creation.
type Nearest struct {
	ni, nj   int
	lat0     float64
	lon0     float64
	di, dj   float64
	values   []float64
	released bool
}

// Grid geometry keys. Latitude descends from the first gridpoint row by
// row; longitude ascends column by column.
var gridKeys = []string{
	"Ni",
	"Nj",
	"latitudeOfFirstGridPointInDegrees",
	"longitudeOfFirstGridPointInDegrees",
	"iDirectionIncrementInDegrees",
	"jDirectionIncrementInDegrees",
}

// NewNearest builds a nearest search over the handle's grid. It fails with
// GeocalculusProblem when the grid geometry keys are absent or inconsistent
// with the values array.
func NewNearest(h *Handle) (*Nearest, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}

	for _, k := range gridKeys {
		if _, st := h.NativeType(k); st.IsFailure() {
			return nil, status.GeocalculusProblem
		}
	}

	ni, st := h.GetLong("Ni")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}
	nj, st := h.GetLong("Nj")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}
	lat0, st := h.GetDouble("latitudeOfFirstGridPointInDegrees")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}
	lon0, st := h.GetDouble("longitudeOfFirstGridPointInDegrees")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}
	di, st := h.GetDouble("iDirectionIncrementInDegrees")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}
	dj, st := h.GetDouble("jDirectionIncrementInDegrees")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}

	values, st := h.GetDoubleArray("values")
	if st.IsFailure() {
		return nil, status.GeocalculusProblem
	}
	if ni <= 0 || nj <= 0 || len(values) != int(ni*nj) {
		return nil, status.WrongGrid
	}

	return &Nearest{
		ni:     int(ni),
		nj:     int(nj),
		lat0:   lat0,
		lon0:   lon0,
		di:     di,
		dj:     dj,
		values: values,
	}, status.Success
}

// Find returns the four gridpoints nearest to (lat, lon), ordered by
// ascending distance with the gridpoint index breaking ties. The result is
// deterministic for a given grid and target.
func (n *Nearest) Find(lat, lon float64) ([4]GridPoint, status.Status) {
	var out [4]GridPoint
	if n == nil || n.released {
		return out, status.InvalidNearest
	}
	if n.ni*n.nj < 4 {
		return out, status.WrongGrid
	}

	dist, cleanup := pool.GetFloat64Slice(n.ni * n.nj)
	defer cleanup()

	for j := 0; j < n.nj; j++ {
		pLat := n.lat0 - float64(j)*n.dj
		for i := 0; i < n.ni; i++ {
			pLon := n.lon0 + float64(i)*n.di
			dist[j*n.ni+i] = haversineKm(lat, lon, pLat, pLon)
		}
	}

	// Selection of the four smallest keeps the scan single-pass.
	best := [4]int{-1, -1, -1, -1}
	for idx, d := range dist {
		for rank := 0; rank < 4; rank++ {
			if best[rank] < 0 || d < dist[best[rank]] {
				copy(best[rank+1:], best[rank:3])
				best[rank] = idx
				break
			}
		}
	}

	for rank, idx := range best {
		j := idx / n.ni
		i := idx % n.ni
		out[rank] = GridPoint{
			Index:    idx,
			Lat:      n.lat0 - float64(j)*n.dj,
			Lon:      n.lon0 + float64(i)*n.di,
			Distance: dist[idx],
			Value:    n.values[idx],
		}
	}

	return out, status.Success
}

// Release frees the search. Releasing twice is a no-op.
func (n *Nearest) Release() status.Status {
	if n == nil {
		return status.InvalidNearest
	}
	n.released = true
	n.values = nil

	return status.Success
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
