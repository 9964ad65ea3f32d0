package costmodel

import (
	"math"
	"strings"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
)

const (
	timeScaleHours  = 24
	costScaleUSD    = 100_000
	riskScaleMax    = 100
	referenceSpeed  = 15 // nm/h, the fuel-curve reference point of spec.md §4.5
)

// EdgeBreakdown is the full per-edge cost decomposition, carried forward
// into the assembled RouteSegment by internal/assembler.
type EdgeBreakdown struct {
	TimeHours    float64
	FuelTons     float64
	FuelCostUSD  float64
	CanalFeesUSD float64

	WeatherRisk   float64
	PiracyRisk    float64
	PoliticalRisk float64
	RiskScore     float64 // 0.5*weather + 0.3*piracy + 0.2*political, [0,100]
}

// Model evaluates spec.md §4.5's edge cost formulas against a fixed
// table of fuel/fee constants, with an optional scripted escape hatch
// for criteria named "custom:<name>".
type Model struct {
	tables  Tables
	scripts map[string]*ScriptedCriterion
}

func New(tables Tables, scripts map[string]*ScriptedCriterion) *Model {
	return &Model{tables: tables, scripts: scripts}
}

// EdgeCost computes the scalar cost used by the pathfinder's heap, plus
// the full breakdown the assembler needs to build a RouteSegment.
func (m *Model) EdgeCost(edge domain.Edge, vessel domain.VesselConstraints, criterion domain.OptimizationCriterion) (float64, EdgeBreakdown, error) {
	effectiveSpeed := vessel.CruiseSpeedKn
	if edge.Kind.IsCanal() && m.tables.CanalSpeedCapKn < effectiveSpeed {
		effectiveSpeed = m.tables.CanalSpeedCapKn
	}
	if effectiveSpeed <= 0 {
		return 0, EdgeBreakdown{}, apperr.New(apperr.KindValidation, "vessel cruise speed must be positive")
	}

	timeHours := edge.DistanceNM / effectiveSpeed * edge.BaseCongestionFactor * edge.WeatherZoneFactor

	fuelTons := m.tables.baseFuelRate(vessel.Type) * math.Pow(effectiveSpeed/referenceSpeed, 3) * (timeHours / 24)
	fuelCost := fuelTons * m.tables.fuelPrice(vessel.FuelType)

	canalFees := m.canalFee(edge, vessel)

	weatherRisk := clamp((edge.WeatherZoneFactor-1)*100, 0, riskScaleMax)
	riskScore := 0.5*weatherRisk + 0.3*edge.PiracyRiskScore + 0.2*edge.PoliticalRiskScore

	breakdown := EdgeBreakdown{
		TimeHours: timeHours, FuelTons: fuelTons, FuelCostUSD: fuelCost, CanalFeesUSD: canalFees,
		WeatherRisk: weatherRisk, PiracyRisk: edge.PiracyRiskScore, PoliticalRisk: edge.PoliticalRiskScore,
		RiskScore: riskScore,
	}

	scalar, err := m.scalarCost(criterion, timeHours, fuelCost+canalFees, riskScore, edge, vessel)
	if err != nil {
		return 0, EdgeBreakdown{}, err
	}
	return scalar, breakdown, nil
}

func (m *Model) scalarCost(criterion domain.OptimizationCriterion, timeHours, economicCost, riskScore float64, edge domain.Edge, vessel domain.VesselConstraints) (float64, error) {
	switch criterion {
	case domain.CriterionFastest:
		return timeHours, nil
	case domain.CriterionMostEconomical:
		return economicCost, nil
	case domain.CriterionMostReliable:
		return timeHours * math.Pow(1+riskScore/100, 2), nil
	case domain.CriterionBalanced:
		return 0.4*(timeHours/timeScaleHours) + 0.35*(economicCost/costScaleUSD) + 0.25*(riskScore/riskScaleMax), nil
	}

	name := strings.TrimPrefix(string(criterion), "custom:")
	script, ok := m.scripts[name]
	if !ok {
		return 0, apperr.New(apperr.KindValidation, "unrecognized optimization criterion").WithDetail("criterion", string(criterion))
	}
	return script.Cost(edge, vessel)
}

// PortFee computes spec.md §4.5's port_fees term for a single stop.
// Charged by internal/assembler only at intermediate and destination
// nodes, never per-edge.
func (m *Model) PortFee(port domain.Port, vessel domain.VesselConstraints) float64 {
	dwt := vessel.DeadweightOr(m.tables.DefaultDWT)
	base := dwt*m.tables.PortFeePerDWTUSD + m.tables.PortFeeFlatUSD

	discount := 0.0
	for facility, rate := range m.tables.FacilityFeeDiscount {
		if port.HasFacility(facility) {
			discount += rate
		}
	}
	if discount > 0.9 {
		discount = 0.9
	}

	return port.CongestionFactor * base * (1 - discount)
}

func (m *Model) canalFee(edge domain.Edge, vessel domain.VesselConstraints) float64 {
	gt := vessel.GrossTonnageOr(m.tables.DefaultGrossTonnage)
	switch edge.Kind {
	case domain.EdgeCanalSuez:
		return gt * m.tables.SuezFeePerGTUSD
	case domain.EdgeCanalPanama:
		return gt * m.tables.PanamaFeePerNetTonUSD
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
