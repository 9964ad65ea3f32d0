// Package geodesy provides pure, stateless great-circle math on a WGS-84
// sphere: distance, initial bearing, and waypoint interpolation. Every
// function is total — there is no invalid input short of NaN coordinates,
// which callers are expected to have already rejected at the domain
// boundary.
package geodesy

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles, matching the
// constant used throughout the maritime distance/fuel calculations this
// service is derived from.
const EarthRadiusNM = 3440.065

// Point is a WGS-84 coordinate in degrees.
type Point struct {
	LatDeg float64
	LonDeg float64
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceNM returns the great-circle distance between a and b in
// nautical miles using the haversine formula.
func DistanceNM(a, b Point) float64 {
	lat1, lat2 := toRad(a.LatDeg), toRad(b.LatDeg)
	dLat := lat2 - lat1
	dLon := toRad(b.LonDeg) - toRad(a.LonDeg)

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	// Clamp for numerical stability near antipodal points, where
	// rounding can push h fractionally above 1.
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Asin(math.Sqrt(h))
	return EarthRadiusNM * c
}

// InitialBearingDeg returns the initial compass bearing from a to b in
// degrees, normalized to [0, 360).
func InitialBearingDeg(a, b Point) float64 {
	lat1, lat2 := toRad(a.LatDeg), toRad(b.LatDeg)
	dLon := toRad(b.LonDeg) - toRad(a.LonDeg)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	theta := math.Atan2(y, x)
	deg := math.Mod(toDeg(theta)+360, 360)
	return deg
}

// Interpolate returns n+1 points along the great circle from a to b,
// including both endpoints, evenly spaced by fraction of the total
// angular distance. When a and b coincide, every point equals a.
func Interpolate(a, b Point, n int) []Point {
	if n < 1 {
		n = 1
	}

	lat1, lon1 := toRad(a.LatDeg), toRad(a.LonDeg)
	lat2, lon2 := toRad(b.LatDeg), toRad(b.LonDeg)

	sinDLat := math.Sin((lat2 - lat1) / 2)
	sinDLon := math.Sin((lon2 - lon1) / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	h = math.Min(1, math.Max(0, h))
	angularDist := 2 * math.Asin(math.Sqrt(h))

	points := make([]Point, 0, n+1)
	if angularDist == 0 {
		for i := 0; i <= n; i++ {
			points = append(points, a)
		}
		return points
	}

	sinAngular := math.Sin(angularDist)
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)

		A := math.Sin((1-f)*angularDist) / sinAngular
		B := math.Sin(f*angularDist) / sinAngular

		x := A*math.Cos(lat1)*math.Cos(lon1) + B*math.Cos(lat2)*math.Cos(lon2)
		y := A*math.Cos(lat1)*math.Sin(lon1) + B*math.Cos(lat2)*math.Sin(lon2)
		z := A*math.Sin(lat1) + B*math.Sin(lat2)

		lat := math.Atan2(z, math.Sqrt(x*x+y*y))
		lon := math.Atan2(y, x)

		p := Point{LatDeg: toDeg(lat), LonDeg: toDeg(lon)}
		switch i {
		case 0:
			p = a
		case n:
			p = b
		}
		points = append(points, p)
	}

	return points
}
