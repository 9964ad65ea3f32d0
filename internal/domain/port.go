package domain

import (
	"fmt"
	"regexp"

	"maritime-route-service/internal/geodesy"
)

// PortType classifies the kind of cargo a port primarily handles.
type PortType string

const (
	PortTypeContainer     PortType = "container"
	PortTypeBulk          PortType = "bulk"
	PortTypeTanker        PortType = "tanker"
	PortTypeMultipurpose  PortType = "multipurpose"
	PortTypeGeneralCargo  PortType = "general_cargo"
)

// PortStatus reflects operational availability. Only Active and
// Restricted ports may appear as an edge endpoint on a returned route.
type PortStatus string

const (
	PortStatusActive      PortStatus = "active"
	PortStatusRestricted  PortStatus = "restricted"
	PortStatusMaintenance PortStatus = "maintenance"
	PortStatusInactive    PortStatus = "inactive"
)

var locodePattern = regexp.MustCompile(`^[A-Z]{5}$`)

// ValidUNLOCODE reports whether code is a well-formed 5-letter UN/LOCODE.
func ValidUNLOCODE(code string) bool {
	return locodePattern.MatchString(code)
}

// Port is a node in the port graph. Ports are read-only from the core's
// perspective — ingestion and updates happen entirely outside this
// subsystem, through the PortRepository port.
type Port struct {
	Code    string // UN/LOCODE, e.g. "SGSIN"
	Name    string
	Country string

	LatDeg float64
	LonDeg float64

	Type   PortType
	Status PortStatus

	MaxLengthM *float64
	MaxBeamM   *float64
	MaxDraftM  *float64

	BerthCount        int
	CongestionFactor  float64 // [0.5, 3.0]
	AvgPortStayHours  float64
	Services          []string
	Facilities        []string // non-authoritative hints consumed only by the cost model

	SuezConnected     bool
	PanamaConnected   bool
}

// Position returns p's coordinates as a geodesy.Point.
func (p Port) Position() geodesy.Point {
	return geodesy.Point{LatDeg: p.LatDeg, LonDeg: p.LonDeg}
}

// Operable reports whether p may be used as a route endpoint or
// intermediate hop: only active or restricted ports qualify.
func (p Port) Operable() bool {
	return p.Status == PortStatusActive || p.Status == PortStatusRestricted
}

// Validate checks the invariants of §3: lat/lon ranges, positive
// dimension maxima when present, and a well-formed UN/LOCODE.
func (p Port) Validate() error {
	if !ValidUNLOCODE(p.Code) {
		return fmt.Errorf("port %q: code must match ^[A-Z]{5}$", p.Code)
	}
	if p.LatDeg < -90 || p.LatDeg > 90 {
		return fmt.Errorf("port %s: latitude %v out of range [-90, 90]", p.Code, p.LatDeg)
	}
	if p.LonDeg < -180 || p.LonDeg > 180 {
		return fmt.Errorf("port %s: longitude %v out of range [-180, 180]", p.Code, p.LonDeg)
	}
	if p.MaxLengthM != nil && *p.MaxLengthM <= 0 {
		return fmt.Errorf("port %s: max_length_m must be > 0", p.Code)
	}
	if p.MaxBeamM != nil && *p.MaxBeamM <= 0 {
		return fmt.Errorf("port %s: max_beam_m must be > 0", p.Code)
	}
	if p.MaxDraftM != nil && *p.MaxDraftM <= 0 {
		return fmt.Errorf("port %s: max_draft_m must be > 0", p.Code)
	}
	if p.CongestionFactor != 0 && (p.CongestionFactor < 0.5 || p.CongestionFactor > 3.0) {
		return fmt.Errorf("port %s: congestion_factor %v out of range [0.5, 3.0]", p.Code, p.CongestionFactor)
	}
	return nil
}

// HasFacility reports whether p advertises the named facility, used only
// by the cost model's port-fee tier bonus.
func (p Port) HasFacility(name string) bool {
	for _, f := range p.Facilities {
		if f == name {
			return true
		}
	}
	return false
}
