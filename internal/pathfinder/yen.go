package pathfinder

import (
	"context"
	"sort"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
)

// yenAlternatives runs Yen's algorithm over the feasible subgraph to
// find up to k-1 loopless alternatives to primary, stopping early once
// an alternative's cost exceeds maxCostRatio * primary.Cost (spec.md
// §4.6's "1.5 x primary_cost" cutoff, made a parameter here). The
// returned int is the number of spur searches actually run, i.e. the
// number of candidate paths evaluated beyond the primary.
func yenAlternatives(ctx context.Context, p searchParams, primary *Path, k int, maxCostRatio float64) ([]*Path, int, error) {
	if k <= 1 {
		return nil, 0, nil
	}

	accepted := []*Path{primary}
	var candidates []*Path
	seen := map[string]bool{pathSignature(primary): true}
	evaluated := 0

	for len(accepted) < k {
		last := accepted[len(accepted)-1]

		for i := 0; i < len(last.Nodes)-1; i++ {
			spurNode := last.Nodes[i]
			rootNodes := last.Nodes[:i+1]

			excludedEdges := map[edgeKey]bool{}
			for _, a := range accepted {
				if len(a.Nodes) > i && sameNodes(a.Nodes[:i+1], rootNodes) && len(a.Edges) > i {
					e := a.Edges[i]
					excludedEdges[edgeKey{e.From, e.To}] = true
				}
			}

			excludedNodes := map[string]bool{}
			for _, n := range rootNodes[:i] {
				excludedNodes[n] = true
			}

			spurParams := p
			spurParams.origin = spurNode
			spurParams.maxHops = p.maxHops - i
			spurParams.excludedEdges = excludedEdges
			spurParams.excludedNodes = excludedNodes

			if spurParams.maxHops < 0 {
				continue
			}

			spurPath, err := search(ctx, spurParams)
			evaluated++
			if err != nil {
				if apperr.Is(err, apperr.KindNoRouteFound) {
					continue
				}
				return nil, evaluated, err
			}

			rootCost := sumCosts(last.EdgeCosts[:i])
			totalNodes := append(append([]string{}, rootNodes[:i]...), spurPath.Nodes...)
			totalEdges := append(append([]domain.Edge{}, last.Edges[:i]...), spurPath.Edges...)
			totalEdgeCosts := append(append([]float64{}, last.EdgeCosts[:i]...), spurPath.EdgeCosts...)
			total := &Path{
				Nodes:     totalNodes,
				Edges:     totalEdges,
				EdgeCosts: totalEdgeCosts,
				Cost:      rootCost + spurPath.Cost,
			}

			sig := pathSignature(total)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			candidates = append(candidates, total)
		}

		if len(candidates) == 0 {
			break
		}

		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Cost < candidates[j].Cost })
		next := candidates[0]
		candidates = candidates[1:]

		if next.Cost > primary.Cost*maxCostRatio {
			break
		}

		accepted = append(accepted, next)
	}

	return accepted[1:], evaluated, nil
}

func pathSignature(p *Path) string {
	sig := ""
	for _, n := range p.Nodes {
		sig += n + ">"
	}
	return sig
}

func sumCosts(costs []float64) float64 {
	var total float64
	for _, c := range costs {
		total += c
	}
	return total
}
