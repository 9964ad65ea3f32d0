// Package spatial provides an in-memory index over port coordinates. It
// implements the flat equirectangular-grid alternative spec.md names as
// acceptable for catalog sizes up to 100k: a 1x1 degree grid keyed by
// (lat, lon) cell, plus a hash table for direct UN/LOCODE lookup. The
// index is immutable once built; a catalog refresh builds a new one and
// swaps it in wholesale (see internal/graphbuild.Handle).
package spatial

import (
	"math"
	"sort"

	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/geodesy"
)

const cellSizeDeg = 1.0

type cellKey struct {
	latCell int
	lonCell int
}

func cellFor(latDeg, lonDeg float64) cellKey {
	return cellKey{
		latCell: int(math.Floor(latDeg / cellSizeDeg)),
		lonCell: int(math.Floor(lonDeg / cellSizeDeg)),
	}
}

// Index answers proximity and code lookups against a fixed port set.
type Index struct {
	byCode map[string]domain.Port
	cells  map[cellKey][]domain.Port
}

// Build indexes ports into a fresh, immutable Index.
func Build(ports []domain.Port) *Index {
	idx := &Index{
		byCode: make(map[string]domain.Port, len(ports)),
		cells:  make(map[cellKey][]domain.Port),
	}
	for _, p := range ports {
		idx.byCode[p.Code] = p
		k := cellFor(p.LatDeg, p.LonDeg)
		idx.cells[k] = append(idx.cells[k], p)
	}
	return idx
}

// ByCode returns the port with the given UN/LOCODE, if indexed.
func (idx *Index) ByCode(code string) (domain.Port, bool) {
	p, ok := idx.byCode[code]
	return p, ok
}

// Len returns the number of indexed ports.
func (idx *Index) Len() int { return len(idx.byCode) }

// All returns every indexed port. The returned slice is a fresh copy per
// call, safe for the caller to mutate or sort.
func (idx *Index) All() []domain.Port {
	out := make([]domain.Port, 0, len(idx.byCode))
	for _, p := range idx.byCode {
		out = append(out, p)
	}
	return out
}

type distanceHit struct {
	port domain.Port
	dist float64
}

// candidateCells returns every grid cell that could possibly contain a
// point within radiusNM of center, using a conservative degree-per-nm
// bound so the subsequent haversine check never misses a true hit.
func (idx *Index) candidateCells(center geodesy.Point, radiusNM float64) []cellKey {
	// 1 degree of latitude is ~60 nm; longitude cells shrink toward the
	// poles, so widen the longitude search window by 1/cos(lat).
	latSpanDeg := radiusNM/60 + cellSizeDeg
	cosLat := math.Cos(center.LatDeg * math.Pi / 180)
	if cosLat < 0.05 {
		cosLat = 0.05
	}
	lonSpanDeg := radiusNM/(60*cosLat) + cellSizeDeg

	minLat := center.LatDeg - latSpanDeg
	maxLat := center.LatDeg + latSpanDeg
	minLon := center.LonDeg - lonSpanDeg
	maxLon := center.LonDeg + lonSpanDeg

	minLatCell := int(math.Floor(minLat / cellSizeDeg))
	maxLatCell := int(math.Floor(maxLat / cellSizeDeg))
	minLonCell := int(math.Floor(minLon / cellSizeDeg))
	maxLonCell := int(math.Floor(maxLon / cellSizeDeg))

	cells := make([]cellKey, 0, (maxLatCell-minLatCell+1)*(maxLonCell-minLonCell+1))
	for la := minLatCell; la <= maxLatCell; la++ {
		for lo := minLonCell; lo <= maxLonCell; lo++ {
			cells = append(cells, cellKey{latCell: la, lonCell: lo})
		}
	}
	return cells
}

// Nearby returns ports within radiusNM of (latDeg, lonDeg), sorted by
// ascending great-circle distance, capped at limit results.
func (idx *Index) Nearby(latDeg, lonDeg, radiusNM float64, limit int) []domain.Port {
	center := geodesy.Point{LatDeg: latDeg, LonDeg: lonDeg}

	hits := make([]distanceHit, 0, 64)
	for _, ck := range idx.candidateCells(center, radiusNM) {
		for _, p := range idx.cells[ck] {
			d := geodesy.DistanceNM(center, p.Position())
			if d <= radiusNM {
				hits = append(hits, distanceHit{port: p, dist: d})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].port.Code < hits[j].port.Code
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.Port, len(hits))
	for i, h := range hits {
		out[i] = h.port
	}
	return out
}

// KNearest returns the k nearest ports to origin (excluding origin
// itself) within radiusNM, sorted by ascending distance.
func (idx *Index) KNearest(origin domain.Port, k int, radiusNM float64) []domain.Port {
	all := idx.Nearby(origin.LatDeg, origin.LonDeg, radiusNM, 0)

	out := make([]domain.Port, 0, k)
	for _, p := range all {
		if p.Code == origin.Code {
			continue
		}
		out = append(out, p)
		if len(out) == k {
			break
		}
	}
	return out
}
