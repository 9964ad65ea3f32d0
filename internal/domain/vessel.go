package domain

import "fmt"

// VesselType mirrors the base_rate fuel-consumption table key.
type VesselType string

const (
	VesselContainer    VesselType = "container"
	VesselTanker       VesselType = "tanker"
	VesselBulk         VesselType = "bulk"
	VesselGeneralCargo VesselType = "general_cargo"
	VesselOther        VesselType = "other"
)

// FuelType enumerates the recognized marine fuel grades.
type FuelType string

const (
	FuelVLSFO FuelType = "vlsfo"
	FuelMGO   FuelType = "mgo"
	FuelLNG   FuelType = "lng"
	FuelHFO   FuelType = "hfo"
)

// VesselConstraints describes the ship a route is being planned for.
type VesselConstraints struct {
	Type VesselType

	LengthM float64
	BeamM   float64
	DraftM  float64

	DeadweightTonnage *float64
	GrossTonnage      *float64

	CruiseSpeedKn float64
	MaxSpeedKn    float64
	MaxRangeNM    *float64

	FuelType FuelType

	SuezCompatible   bool
	PanamaCompatible bool
}

// Validate checks the invariants of §3.
func (v VesselConstraints) Validate() error {
	if v.LengthM <= 0 {
		return fmt.Errorf("vessel: length_m must be > 0")
	}
	if v.BeamM <= 0 {
		return fmt.Errorf("vessel: beam_m must be > 0")
	}
	if v.DraftM <= 0 {
		return fmt.Errorf("vessel: draft_m must be > 0")
	}
	if v.BeamM > v.LengthM {
		return fmt.Errorf("vessel: beam_m (%v) must be <= length_m (%v)", v.BeamM, v.LengthM)
	}
	if v.CruiseSpeedKn < 1 || v.CruiseSpeedKn > 40 {
		return fmt.Errorf("vessel: cruise_speed_kn %v out of range [1, 40]", v.CruiseSpeedKn)
	}
	if v.MaxSpeedKn < v.CruiseSpeedKn || v.MaxSpeedKn > 40 {
		return fmt.Errorf("vessel: max_speed_kn %v must be in [cruise_speed_kn, 40]", v.MaxSpeedKn)
	}
	switch v.FuelType {
	case FuelVLSFO, FuelMGO, FuelLNG, FuelHFO:
	default:
		return fmt.Errorf("vessel: unrecognized fuel_type %q", v.FuelType)
	}
	return nil
}

// DeadweightOr returns the vessel's DWT, or fallback when unspecified —
// used by the cost model's port-fee base charge.
func (v VesselConstraints) DeadweightOr(fallback float64) float64 {
	if v.DeadweightTonnage != nil {
		return *v.DeadweightTonnage
	}
	return fallback
}

// GrossTonnageOr returns the vessel's gross tonnage, or fallback when
// unspecified — used by the cost model's canal-fee formulas.
func (v VesselConstraints) GrossTonnageOr(fallback float64) float64 {
	if v.GrossTonnage != nil {
		return *v.GrossTonnage
	}
	return fallback
}
