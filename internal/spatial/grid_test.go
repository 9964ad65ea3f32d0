package spatial

import (
	"testing"

	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/geodesy"
)

func port(code string, lat, lon float64) domain.Port {
	return domain.Port{Code: code, LatDeg: lat, LonDeg: lon, Status: domain.PortStatusActive}
}

func sampleIndex() *Index {
	return Build([]domain.Port{
		port("SGSIN", 1.29, 103.85),
		port("MYPKG", 3.0, 101.4),  // Port Klang, close to Singapore
		port("NLRTM", 51.92, 4.48), // far away
		port("CNSHA", 31.23, 121.47),
	})
}

func TestIndexByCode(t *testing.T) {
	idx := sampleIndex()
	p, ok := idx.ByCode("SGSIN")
	if !ok || p.Code != "SGSIN" {
		t.Fatalf("expected to find SGSIN, got %+v ok=%v", p, ok)
	}
	if _, ok := idx.ByCode("ZZZZZ"); ok {
		t.Fatal("expected ZZZZZ to be absent")
	}
}

func TestIndexNearbyOrderedByDistance(t *testing.T) {
	idx := sampleIndex()
	hits := idx.Nearby(1.29, 103.85, 2000, 10)

	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}
	if hits[0].Code != "SGSIN" {
		t.Fatalf("closest hit = %s, want SGSIN (distance 0)", hits[0].Code)
	}

	center := geodesy.Point{LatDeg: 1.29, LonDeg: 103.85}
	for i := 1; i < len(hits); i++ {
		// re-derive to confirm monotonic ordering
		prev := geodesy.DistanceNM(center, hits[i-1].Position())
		cur := geodesy.DistanceNM(center, hits[i].Position())
		if prev > cur {
			t.Fatalf("hits out of order: %s (%.1f nm) before %s (%.1f nm)", hits[i-1].Code, prev, hits[i].Code, cur)
		}
	}
}

func TestIndexNearbyRespectsRadius(t *testing.T) {
	idx := sampleIndex()
	hits := idx.Nearby(1.29, 103.85, 5, 10)
	for _, h := range hits {
		if h.Code == "NLRTM" || h.Code == "CNSHA" {
			t.Fatalf("expected %s to be excluded by radius filter", h.Code)
		}
	}
}

func TestIndexNearbyRespectsLimit(t *testing.T) {
	idx := sampleIndex()
	hits := idx.Nearby(1.29, 103.85, 20000, 2)
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
}

func TestIndexKNearestExcludesOrigin(t *testing.T) {
	idx := sampleIndex()
	origin, _ := idx.ByCode("SGSIN")
	neighbors := idx.KNearest(origin, 8, 20000)

	for _, n := range neighbors {
		if n.Code == "SGSIN" {
			t.Fatal("KNearest should exclude the origin port")
		}
	}
}

func TestIndexAllAndLen(t *testing.T) {
	idx := sampleIndex()
	if idx.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", idx.Len())
	}
	if len(idx.All()) != 4 {
		t.Fatalf("len(All()) = %d, want 4", len(idx.All()))
	}
}
