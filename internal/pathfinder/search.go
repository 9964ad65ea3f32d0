package pathfinder

import (
	"container/heap"
	"context"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/costmodel"
	"maritime-route-service/internal/domain"
)

// heuristicFunc returns an admissible (never-overestimating) lower bound
// on the remaining cost from code to the search's destination. A nil
// heuristic (or one that always returns 0) makes the search plain
// Dijkstra; a non-trivial one makes it A*.
type heuristicFunc func(code string) float64

// searchParams bundles the inputs shared by every spur/primary search
// Yen's algorithm and the top-level FindPaths entry point issue.
type searchParams struct {
	graph     *domain.PortGraph
	vessel    domain.VesselConstraints
	model     *costmodel.Model
	criterion domain.OptimizationCriterion

	origin, destination string
	maxHops              int // max intermediate ports; max edges = maxHops+1

	excludedEdges map[edgeKey]bool
	excludedNodes map[string]bool

	heuristic heuristicFunc

	cancelCheckInterval int
}

type heapItem struct {
	code     string
	priority float64 // cost + heuristic
	cost     float64
	hops     int
	index    int
}

type priorityQueue []*heapItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	if pq[i].hops != pq[j].hops {
		return pq[i].hops < pq[j].hops
	}
	return pq[i].code < pq[j].code
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*heapItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

type nodeState struct {
	cost     float64
	hops     int
	prevCode string
	prevEdge domain.Edge
	edgeCost float64 // scalar cost of prevEdge alone
	visited  bool
}

// search runs a single-source shortest-path computation (Dijkstra when
// p.heuristic is nil, A* otherwise) from p.origin to p.destination,
// honoring vessel feasibility (§3), the hop cap, the edge/node exclusion
// sets Yen's algorithm supplies, and cooperative cancellation.
func search(ctx context.Context, p searchParams) (*Path, error) {
	if p.excludedNodes[p.origin] || p.excludedNodes[p.destination] {
		return nil, apperr.New(apperr.KindNoRouteFound, "origin or destination excluded from search")
	}

	states := make(map[string]*nodeState, len(p.graph.Nodes))
	states[p.origin] = &nodeState{cost: 0, hops: 0}

	h := func(code string) float64 {
		if p.heuristic == nil {
			return 0
		}
		return p.heuristic(code)
	}

	pq := &priorityQueue{{code: p.origin, priority: h(p.origin), cost: 0, hops: 0}}
	heap.Init(pq)

	expansions := 0
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*heapItem)
		st := states[item.code]
		if st == nil || st.visited {
			continue
		}
		if st.cost != item.cost || st.hops != item.hops {
			// stale entry superseded by a better relaxation
			continue
		}
		st.visited = true

		expansions++
		if p.cancelCheckInterval > 0 && expansions%p.cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperr.Wrap(apperr.KindCancelled, "pathfinder cancelled", err)
			}
		}

		if item.code == p.destination {
			return reconstruct(states, p.destination), nil
		}

		if st.hops >= p.maxHops+1 {
			continue
		}
		if p.excludedNodes[item.code] {
			continue
		}

		fromPort, ok := p.graph.Port(item.code)
		if !ok {
			continue
		}

		for _, edge := range p.graph.Neighbors(item.code) {
			if p.excludedEdges[edgeKey{edge.From, edge.To}] {
				continue
			}
			if p.excludedNodes[edge.To] {
				continue
			}
			toPort, ok := p.graph.Port(edge.To)
			if !ok {
				continue
			}
			if !edge.Feasible(p.vessel, fromPort, toPort) {
				continue
			}

			edgeCost, _, err := p.model.EdgeCost(edge, p.vessel, p.criterion)
			if err != nil {
				return nil, err
			}

			newCost := st.cost + edgeCost
			newHops := st.hops + 1

			cur, exists := states[edge.To]
			if exists && cur.visited {
				continue
			}
			if !exists || better(newCost, newHops, item.code, cur.cost, cur.hops, cur.prevCode) {
				states[edge.To] = &nodeState{cost: newCost, hops: newHops, prevCode: item.code, prevEdge: edge, edgeCost: edgeCost}
				heap.Push(pq, &heapItem{code: edge.To, priority: newCost + h(edge.To), cost: newCost, hops: newHops})
			}
		}
	}

	return nil, apperr.New(apperr.KindNoRouteFound, "no feasible route found").
		WithDetail("origin", p.origin).WithDetail("destination", p.destination)
}

// better implements spec.md §4.6's tie-break: lower cost wins; on equal
// cost, fewer hops wins; on equal cost and hops, the lexicographically
// smaller predecessor UN/LOCODE wins, which — combined with adjacency
// lists sorted by destination code — makes the overall result
// deterministic given identical inputs.
func better(newCost float64, newHops int, newPrev string, curCost float64, curHops int, curPrev string) bool {
	const eps = 1e-9
	if newCost < curCost-eps {
		return true
	}
	if newCost > curCost+eps {
		return false
	}
	if newHops != curHops {
		return newHops < curHops
	}
	return newPrev < curPrev
}

func reconstruct(states map[string]*nodeState, destination string) *Path {
	var nodes []string
	var edges []domain.Edge
	var edgeCosts []float64

	code := destination
	for {
		nodes = append([]string{code}, nodes...)
		st := states[code]
		if st.prevCode == "" {
			break
		}
		edges = append([]domain.Edge{st.prevEdge}, edges...)
		edgeCosts = append([]float64{st.edgeCost}, edgeCosts...)
		code = st.prevCode
	}

	return &Path{Nodes: nodes, Edges: edges, EdgeCosts: edgeCosts, Cost: states[destination].cost}
}
