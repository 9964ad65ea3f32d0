// Package assembler expands a pathfinder.Path into a domain.DetailedRoute:
// per-segment waypoints, port fees and stay time, cumulative totals, and
// the four aggregate scores.
package assembler

import (
	"fmt"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/costmodel"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/geodesy"
	"maritime-route-service/internal/pathfinder"
)

const (
	maxWaypointsPerSegment = 32

	// referenceFuelTonsPerNM calibrates the environmental impact score.
	// A route burning this much fuel per nautical mile scores 0; a route
	// burning none scores 100. 0.1 t/nm sits above the "typical
	// container ship" 0.03-0.05 t/nm range so ordinary routes land in
	// the middle of the scale rather than pinned to the extremes.
	referenceFuelTonsPerNM = 0.1
)

// Assemble expands path into a fully-scored DetailedRoute, pricing port
// fees and stay time at every intermediate stop plus the destination,
// per non-terminal edge.
func Assemble(path *pathfinder.Path, graph *domain.PortGraph, vessel domain.VesselConstraints, model *costmodel.Model, criterion domain.OptimizationCriterion) (*domain.DetailedRoute, error) {
	if len(path.Nodes) < 2 || len(path.Edges) != len(path.Nodes)-1 {
		return nil, apperr.New(apperr.KindInternal, "assemble: malformed path").
			WithDetail("nodes", len(path.Nodes)).WithDetail("edges", len(path.Edges))
	}

	route := &domain.DetailedRoute{
		Segments:          make([]domain.RouteSegment, 0, len(path.Edges)),
		IntermediatePorts: path.Nodes[1 : len(path.Nodes)-1],
	}

	for i, edge := range path.Edges {
		fromPort, ok := graph.Port(edge.From)
		if !ok {
			return nil, apperr.New(apperr.KindInternal, "assemble: edge endpoint missing from graph").WithDetail("code", edge.From)
		}
		toPort, ok := graph.Port(edge.To)
		if !ok {
			return nil, apperr.New(apperr.KindInternal, "assemble: edge endpoint missing from graph").WithDetail("code", edge.To)
		}

		_, breakdown, err := model.EdgeCost(edge, vessel, criterion)
		if err != nil {
			return nil, fmt.Errorf("assemble: edge cost %s->%s: %w", edge.From, edge.To, err)
		}

		segment := domain.RouteSegment{
			From:          edge.From,
			To:            edge.To,
			Waypoints:     geodesy.Interpolate(fromPort.Position(), toPort.Position(), maxWaypointsPerSegment-1),
			DistanceNM:    edge.DistanceNM,
			TransitTimeH:  breakdown.TimeHours,
			FuelTons:      breakdown.FuelTons,
			FuelCostUSD:   breakdown.FuelCostUSD,
			CanalFeesUSD:  breakdown.CanalFeesUSD,
			WeatherRisk:   breakdown.WeatherRisk,
			PiracyRisk:    breakdown.PiracyRisk,
			PoliticalRisk: breakdown.PoliticalRisk,
		}

		// Non-terminal edges charge the arrival port's fee and add its
		// stay time; the final edge's arrival (the destination) is
		// charged once more below regardless of edge count.
		isTerminal := i == len(path.Edges)-1
		if !isTerminal {
			segment.PortFeesUSD = model.PortFee(toPort, vessel)
			segment.TransitTimeH += toPort.AvgPortStayHours
		}

		route.Segments = append(route.Segments, segment)

		route.TotalDistanceNM += segment.DistanceNM
		route.TotalTimeHours += segment.TransitTimeH
		route.TotalFuelTons += segment.FuelTons
		route.TotalFuelCostUSD += segment.FuelCostUSD
		route.TotalPortFeesUSD += segment.PortFeesUSD
		route.TotalCanalFeesUSD += segment.CanalFeesUSD
	}

	destPort, _ := graph.Port(path.Nodes[len(path.Nodes)-1])
	destFee := model.PortFee(destPort, vessel)
	route.TotalPortFeesUSD += destFee
	route.TotalTimeHours += destPort.AvgPortStayHours
	if n := len(route.Segments); n > 0 {
		route.Segments[n-1].PortFeesUSD += destFee
		route.Segments[n-1].TransitTimeH += destPort.AvgPortStayHours
	}

	route.TotalCostUSD = route.TotalFuelCostUSD + route.TotalPortFeesUSD + route.TotalCanalFeesUSD

	scoreRoute(route, graph, path, criterion)
	return route, nil
}

// scoreRoute computes the four aggregate [0,100] scores, mutating route
// in place once its totals and segments are already populated.
func scoreRoute(route *domain.DetailedRoute, graph *domain.PortGraph, path *pathfinder.Path, criterion domain.OptimizationCriterion) {
	originPort, _ := graph.Port(path.Nodes[0])
	destPort, _ := graph.Port(path.Nodes[len(path.Nodes)-1])

	directDistance := geodesy.DistanceNM(originPort.Position(), destPort.Position())
	route.EfficiencyScore = 100
	if route.TotalDistanceNM > 0 {
		route.EfficiencyScore = clamp(100*(directDistance/route.TotalDistanceNM), 0, 100)
	}

	var weightedRisk float64
	if route.TotalDistanceNM > 0 {
		for _, seg := range route.Segments {
			risk := 0.5*seg.WeatherRisk + 0.3*seg.PiracyRisk + 0.2*seg.PoliticalRisk
			weightedRisk += risk * (seg.DistanceNM / route.TotalDistanceNM)
		}
	}
	route.OverallRiskScore = clamp(weightedRisk, 0, 100)
	route.ReliabilityScore = clamp(100-weightedRisk, 0, 100)

	fuelPerNM := 0.0
	if route.TotalDistanceNM > 0 {
		fuelPerNM = route.TotalFuelTons / route.TotalDistanceNM
	}
	route.EnvironmentalImpactScore = clamp(100*(1-fuelPerNM/referenceFuelTonsPerNM), 0, 100)

	route.OverallOptimizationScore = clamp(overallOptimizationWeighting(criterion, route), 0, 100)
}

// overallOptimizationWeighting combines the three component scores using
// criterion-specific weights: each optimization goal favors the score
// dimension it most directly targets.
func overallOptimizationWeighting(criterion domain.OptimizationCriterion, route *domain.DetailedRoute) float64 {
	efficiency := route.EfficiencyScore
	reliability := route.ReliabilityScore
	environmental := route.EnvironmentalImpactScore

	switch criterion {
	case domain.CriterionFastest:
		return efficiency*0.6 + reliability*0.3 + environmental*0.1
	case domain.CriterionMostEconomical:
		return efficiency*0.4 + reliability*0.2 + environmental*0.4
	case domain.CriterionMostReliable:
		return reliability*0.6 + efficiency*0.3 + environmental*0.1
	default:
		// balanced, and any custom:<name> criterion with no domain-specific
		// weighting of its own.
		return (efficiency + reliability + environmental) / 3
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
