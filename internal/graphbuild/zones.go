// Package graphbuild constructs the routing PortGraph from a port
// catalog (spec §4.4) and holds the copy-on-write handle that lets
// readers keep using a stable snapshot while a rebuild is in flight.
package graphbuild

import (
	"encoding/json"
	"os"
)

// WeatherZone is an axis-aligned lat/lon rectangle with a fixed transit
// speed/congestion penalty, standing in for the polygon lookup spec.md
// describes; a rectangle grid is the same simplification the flat
// spatial index already makes for proximity queries.
type WeatherZone struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	Factor float64 `json:"factor"`
}

func (z WeatherZone) contains(lat, lon float64) bool {
	return lat >= z.MinLat && lat <= z.MaxLat && lon >= z.MinLon && lon <= z.MaxLon
}

// countryPairTable holds a symmetric risk score keyed by an
// order-independent "AA|BB" country-code pair.
type countryPairTable map[string]float64

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// ZoneTable is the static input to edge-metric computation: weather
// zones plus piracy/political risk by country pair. It is loaded once
// from data/seeds/zones.json and treated as immutable thereafter.
type ZoneTable struct {
	Weather   []WeatherZone    `json:"weather_zones"`
	Piracy    countryPairTable `json:"piracy_risk"`
	Political countryPairTable `json:"political_risk"`
}

// EmptyZoneTable returns a table with no zones configured: every lookup
// falls back to its baseline (weather factor 1.0, risk 0).
func EmptyZoneTable() *ZoneTable {
	return &ZoneTable{Piracy: countryPairTable{}, Political: countryPairTable{}}
}

// LoadZoneTable reads a zones.json seed file. A missing file is not an
// error — it degrades to EmptyZoneTable, since weather/piracy/political
// data is an optional refinement, not a required input (spec.md §4.4
// only requires the edge fields to exist, not that they be populated
// from any particular source).
func LoadZoneTable(path string) (*ZoneTable, error) {
	if path == "" {
		return EmptyZoneTable(), nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return EmptyZoneTable(), nil
	}
	if err != nil {
		return nil, err
	}

	zt := EmptyZoneTable()
	if err := json.Unmarshal(raw, zt); err != nil {
		return nil, err
	}
	if zt.Piracy == nil {
		zt.Piracy = countryPairTable{}
	}
	if zt.Political == nil {
		zt.Political = countryPairTable{}
	}
	return zt, nil
}

// WeatherFactor returns the multiplier for the first zone containing
// (lat, lon), or 1.0 (no penalty) when the point falls in none.
func (zt *ZoneTable) WeatherFactor(lat, lon float64) float64 {
	for _, z := range zt.Weather {
		if z.contains(lat, lon) {
			return z.Factor
		}
	}
	return 1.0
}

// PiracyRisk returns the configured piracy risk score, [0, 100], for a
// country pair, defaulting to 0.
func (zt *ZoneTable) PiracyRisk(countryA, countryB string) float64 {
	return zt.Piracy[pairKey(countryA, countryB)]
}

// PoliticalRisk returns the configured political risk score, [0, 100],
// for a country pair, defaulting to 0.
func (zt *ZoneTable) PoliticalRisk(countryA, countryB string) float64 {
	return zt.Political[pairKey(countryA, countryB)]
}
