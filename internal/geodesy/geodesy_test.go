package geodesy

import "testing"

func TestDistanceNMZeroForIdenticalPoint(t *testing.T) {
	p := Point{LatDeg: 1.29, LonDeg: 103.85} // Singapore
	if d := DistanceNM(p, p); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestDistanceNMKnownRoute(t *testing.T) {
	singapore := Point{LatDeg: 1.2897, LonDeg: 103.8501}
	rotterdam := Point{LatDeg: 51.9225, LonDeg: 4.4792}

	d := DistanceNM(singapore, rotterdam)
	// Great-circle distance is roughly 5580 nm; actual sailing routes
	// via canals are much longer because they hug the coast/canal.
	if d < 5000 || d > 6200 {
		t.Fatalf("distance = %v, want in [5000, 6200]", d)
	}
}

func TestDistanceNMAntipodalStability(t *testing.T) {
	a := Point{LatDeg: 0, LonDeg: 0}
	b := Point{LatDeg: 0, LonDeg: 180}

	d := DistanceNM(a, b)
	want := halfCircumference()
	if diff := d - want; diff > 1 || diff < -1 {
		t.Fatalf("antipodal distance = %v, want ~%v", d, want)
	}
}

func halfCircumference() float64 {
	return EarthRadiusNM * 3.14159265358979
}

func TestInitialBearingNorth(t *testing.T) {
	a := Point{LatDeg: 0, LonDeg: 0}
	b := Point{LatDeg: 10, LonDeg: 0}

	bearing := InitialBearingDeg(a, b)
	if bearing > 1 && bearing < 359 {
		t.Fatalf("bearing = %v, want ~0", bearing)
	}
}

func TestInitialBearingRange(t *testing.T) {
	a := Point{LatDeg: 12.5, LonDeg: -45.2}
	b := Point{LatDeg: -3.1, LonDeg: 100.7}

	bearing := InitialBearingDeg(a, b)
	if bearing < 0 || bearing >= 360 {
		t.Fatalf("bearing = %v, want in [0, 360)", bearing)
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	a := Point{LatDeg: 1.29, LonDeg: 103.85}
	b := Point{LatDeg: 51.92, LonDeg: 4.48}

	pts := Interpolate(a, b, 8)
	if len(pts) != 9 {
		t.Fatalf("len(points) = %d, want 9", len(pts))
	}

	if pts[0] != a {
		t.Fatalf("first point = %v, want %v", pts[0], a)
	}

	last := pts[len(pts)-1]
	if diff := DistanceNM(last, b); diff > 1e-6 {
		t.Fatalf("last point = %v, want ~%v (diff %v nm)", last, b, diff)
	}
}

func TestInterpolateCoincidentPoints(t *testing.T) {
	a := Point{LatDeg: 10, LonDeg: 20}
	pts := Interpolate(a, a, 4)
	for i, p := range pts {
		if p != a {
			t.Fatalf("point[%d] = %v, want %v", i, p, a)
		}
	}
}

func TestInterpolateMonotonicDistance(t *testing.T) {
	a := Point{LatDeg: 1.29, LonDeg: 103.85}
	b := Point{LatDeg: 30.0, LonDeg: 32.3} // roughly toward Suez
	pts := Interpolate(a, b, 10)

	total := DistanceNM(a, b)
	prevCum := 0.0
	for i := 1; i < len(pts); i++ {
		cum := prevCum + DistanceNM(pts[i-1], pts[i])
		if cum < prevCum-1e-6 {
			t.Fatalf("cumulative distance decreased at segment %d", i)
		}
		prevCum = cum
	}
	if diff := prevCum - total; diff > 0.5 || diff < -0.5 {
		t.Fatalf("sum of segments = %v, want ~%v", prevCum, total)
	}
}
