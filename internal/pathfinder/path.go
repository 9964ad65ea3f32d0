// Package pathfinder implements spec.md §4.6: Dijkstra/A* primary-path
// search over the feasible subgraph, Yen's algorithm for loopless
// alternatives, hop capping, and cooperative cancellation.
package pathfinder

import "maritime-route-service/internal/domain"

// Path is one candidate route through the graph: the UN/LOCODE sequence,
// the edges actually traversed, their individual scalar costs (parallel
// to Edges, used by Yen's algorithm to price a shared route prefix
// without recomputing edge costs), and the total scalar cost the search
// minimized. internal/assembler expands this into a full DetailedRoute.
type Path struct {
	Nodes     []string
	Edges     []domain.Edge
	EdgeCosts []float64
	Cost      float64
}

// edgeKey identifies one directed edge for the exclusion sets Yen's
// algorithm builds during spur searches.
type edgeKey struct{ from, to string }

func sameNodes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
