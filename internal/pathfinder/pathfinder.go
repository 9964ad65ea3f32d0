package pathfinder

import (
	"context"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/costmodel"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/geodesy"
)

const (
	defaultMaxAlternatives    = 3
	hardCapMaxAlternatives    = 10
	defaultMaxConnectingPorts = 2
	hardCapMaxConnectingPorts = 8
	defaultAltCostRatio       = 1.5
)

// Options configures one FindPaths call. Zero values fall back to the
// spec's defaults; out-of-range values are clamped to the hard caps
// rather than rejected, since the API layer is responsible for
// surfacing a validation error on a request that asked for more.
type Options struct {
	MaxAlternatives    int
	MaxConnectingPorts int
	AltCostRatio       float64

	// CancelCheckInterval bounds how many node expansions run between
	// context.Context checks; 0 disables cooperative cancellation.
	CancelCheckInterval int
}

func (o Options) normalize() Options {
	if o.MaxAlternatives <= 0 {
		o.MaxAlternatives = defaultMaxAlternatives
	}
	if o.MaxAlternatives > hardCapMaxAlternatives {
		o.MaxAlternatives = hardCapMaxAlternatives
	}
	if o.MaxConnectingPorts <= 0 {
		o.MaxConnectingPorts = defaultMaxConnectingPorts
	}
	if o.MaxConnectingPorts > hardCapMaxConnectingPorts {
		o.MaxConnectingPorts = hardCapMaxConnectingPorts
	}
	if o.AltCostRatio <= 0 {
		o.AltCostRatio = defaultAltCostRatio
	}
	return o
}

// FindPaths computes the primary shortest path from origin to
// destination under criterion, plus up to opts.MaxAlternatives loopless
// alternatives via Yen's algorithm. The returned slice always has the
// primary path at index 0, sorted by ascending cost otherwise never
// (alternatives are already cost-ordered by yenAlternatives). The
// returned int is the total number of candidate paths evaluated (the
// primary search plus every Yen spur search attempted, whether or not
// it produced an accepted alternative).
func FindPaths(ctx context.Context, graph *domain.PortGraph, vessel domain.VesselConstraints, model *costmodel.Model, criterion domain.OptimizationCriterion, origin, destination string, opts Options) ([]*Path, int, error) {
	opts = opts.normalize()

	if _, ok := graph.Port(origin); !ok {
		return nil, 0, apperr.New(apperr.KindPortNotFound, "origin port not found in graph").WithDetail("code", origin)
	}
	destPort, ok := graph.Port(destination)
	if !ok {
		return nil, 0, apperr.New(apperr.KindPortNotFound, "destination port not found in graph").WithDetail("code", destination)
	}

	params := searchParams{
		graph:               graph,
		vessel:              vessel,
		model:               model,
		criterion:           criterion,
		origin:              origin,
		destination:         destination,
		maxHops:             opts.MaxConnectingPorts,
		cancelCheckInterval: opts.CancelCheckInterval,
		heuristic:           admissibleHeuristic(graph, vessel, criterion, destPort),
	}

	primary, err := search(ctx, params)
	if err != nil {
		return nil, 1, err
	}

	if opts.MaxAlternatives == 0 {
		return []*Path{primary}, 1, nil
	}

	// Yen's spur searches reuse the primary search's heuristic: it is
	// admissible relative to the true destination, and every spur here
	// still terminates at the same destination, so it stays valid.
	alternatives, spursEvaluated, err := yenAlternatives(ctx, params, primary, opts.MaxAlternatives+1, opts.AltCostRatio)
	if err != nil {
		return nil, 1 + spursEvaluated, err
	}

	return append([]*Path{primary}, alternatives...), 1 + spursEvaluated, nil
}

// admissibleHeuristic returns a lower-bound estimator of remaining cost
// to destPort, per spec.md's "great-circle distance x minimum per-nm
// cost" guidance, or nil (plain Dijkstra) for criteria where no cheap
// admissible bound is worth computing.
func admissibleHeuristic(graph *domain.PortGraph, vessel domain.VesselConstraints, criterion domain.OptimizationCriterion, destPort domain.Port) heuristicFunc {
	maxSpeed := vessel.MaxSpeedKn
	if maxSpeed <= 0 {
		maxSpeed = vessel.CruiseSpeedKn
	}
	if maxSpeed <= 0 {
		return nil
	}

	remainingNM := func(code string) (float64, bool) {
		p, ok := graph.Port(code)
		if !ok {
			return 0, false
		}
		return geodesy.DistanceNM(p.Position(), destPort.Position()), true
	}

	switch criterion {
	case domain.CriterionFastest:
		return func(code string) float64 {
			nm, ok := remainingNM(code)
			if !ok {
				return 0
			}
			return nm / maxSpeed
		}
	case domain.CriterionBalanced:
		// Lower bound on the balanced scalar cost: the 0.4-weighted time
		// term alone, computed at best-case speed with no congestion or
		// weather penalty. Fuel and risk terms only add cost, so this
		// never overestimates.
		return func(code string) float64 {
			nm, ok := remainingNM(code)
			if !ok {
				return 0
			}
			const timeWeight = 0.4
			const timeScaleHours = 24.0
			return timeWeight * (nm / maxSpeed) / timeScaleHours
		}
	default:
		return nil
	}
}
