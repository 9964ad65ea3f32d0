package graphbuild

import (
	"context"
	"sort"
	"time"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/geodesy"
	"maritime-route-service/internal/spatial"
)

// Params configures graph construction; fields mirror internal/config's
// graph-related Settings so callers pass a subset without importing the
// whole config package.
type Params struct {
	KNearest      int
	KNNRadiusNM   float64
	HubCount      int
	HubRadiusNM   float64
}

// Stats accumulates operational counters about one build, following the
// original_source's pathfinding_engine's build-time stats block (kept
// per SPEC_FULL.md §4.4 supplements) rather than the distillation's
// silence on the topic.
type Stats struct {
	NodeCount    int
	EdgesCreated int
	HubCount     int
	BuildDuration time.Duration
}

type edgeKey struct{ from, to string }

// Build constructs a PortGraph from the given catalog following spec.md
// §4.4's five steps: spatial index, k-NN edges, curated canal edges, hub
// edges, connectivity check.
func Build(_ context.Context, catalog []domain.Port, zones *ZoneTable, p Params, generation int64) (*domain.PortGraph, Stats, error) {
	start := time.Now()

	active := make([]domain.Port, 0, len(catalog))
	nodes := make(map[string]domain.Port, len(catalog))
	for _, port := range catalog {
		if !port.Operable() {
			continue
		}
		active = append(active, port)
		nodes[port.Code] = port
	}

	idx := spatial.Build(active)

	edges := make(map[edgeKey]domain.Edge)
	addEdge := func(from, to domain.Port, kind domain.EdgeKind) {
		if from.Code == to.Code {
			return
		}
		k := edgeKey{from.Code, to.Code}
		if _, exists := edges[k]; exists {
			return
		}
		edges[k] = buildEdge(from, to, kind, zones)
	}

	// Step 2: k-NN, both directions.
	for _, from := range active {
		neighbors := idx.KNearest(from, p.KNearest, p.KNNRadiusNM)
		for _, to := range neighbors {
			addEdge(from, to, classifyOpenEdge(geodesy.DistanceNM(from.Position(), to.Position())))
			addEdge(to, from, classifyOpenEdge(geodesy.DistanceNM(from.Position(), to.Position())))
		}
	}

	// Step 3: curated canal edges — every pair of canal-connected ports
	// gets a direct edge representing the canal transit shortcut.
	addCanalEdges(active, addEdge, func(p domain.Port) bool { return p.SuezConnected }, domain.EdgeCanalSuez)
	addCanalEdges(active, addEdge, func(p domain.Port) bool { return p.PanamaConnected }, domain.EdgeCanalPanama)

	// Step 4: hub edges from the top-N hubs by berth count.
	hubs := selectHubs(active, p.HubCount)
	for _, hub := range hubs {
		reachable := idx.Nearby(hub.LatDeg, hub.LonDeg, p.HubRadiusNM, 0)
		for _, to := range reachable {
			addEdge(hub, to, domain.EdgeOpenSea)
			addEdge(to, hub, domain.EdgeOpenSea)
		}
	}

	edgeList := make([]domain.Edge, 0, len(edges))
	for _, e := range edges {
		edgeList = append(edgeList, e)
	}

	graph := domain.NewPortGraph(nodes, edgeList, generation)

	// Step 5: connectivity check (undirected reachability from any node).
	if len(nodes) > 0 {
		if unreachable := findUnreachable(graph); len(unreachable) > 0 {
			return nil, Stats{}, apperr.New(apperr.KindGraphBuildFailed, "port graph is disconnected").
				WithDetail("unreachable_count", len(unreachable)).
				WithDetail("sample", unreachable[:min(5, len(unreachable))])
		}
	}

	stats := Stats{
		NodeCount:     len(nodes),
		EdgesCreated:  len(edgeList),
		HubCount:      len(hubs),
		BuildDuration: time.Since(start),
	}
	return graph, stats, nil
}

func classifyOpenEdge(distanceNM float64) domain.EdgeKind {
	if distanceNM < 50 {
		return domain.EdgeCoastal
	}
	return domain.EdgeOpenSea
}

func buildEdge(from, to domain.Port, kind domain.EdgeKind, zones *ZoneTable) domain.Edge {
	dist := geodesy.DistanceNM(from.Position(), to.Position())
	mid := geodesy.Interpolate(from.Position(), to.Position(), 2)[1]

	return domain.Edge{
		From: from.Code, To: to.Code,
		DistanceNM: dist, Kind: kind,
		BaseCongestionFactor: (from.CongestionFactor + to.CongestionFactor) / 2,
		WeatherZoneFactor:    zones.WeatherFactor(mid.LatDeg, mid.LonDeg),
		PiracyRiskScore:      zones.PiracyRisk(from.Country, to.Country),
		PoliticalRiskScore:   zones.PoliticalRisk(from.Country, to.Country),
	}
}

func addCanalEdges(ports []domain.Port, addEdge func(from, to domain.Port, kind domain.EdgeKind), connected func(domain.Port) bool, kind domain.EdgeKind) {
	var connectedPorts []domain.Port
	for _, p := range ports {
		if connected(p) {
			connectedPorts = append(connectedPorts, p)
		}
	}
	for i, a := range connectedPorts {
		for _, b := range connectedPorts[i+1:] {
			addEdge(a, b, kind)
			addEdge(b, a, kind)
		}
	}
}

// selectHubs picks the top n ports by descending berth count among
// container/multipurpose types, per spec.md §4.4 step 4's explicit
// commitment (see REDESIGN FLAGS / Open Questions in spec.md §9).
func selectHubs(ports []domain.Port, n int) []domain.Port {
	var candidates []domain.Port
	for _, p := range ports {
		if p.Type == domain.PortTypeContainer || p.Type == domain.PortTypeMultipurpose {
			candidates = append(candidates, p)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].BerthCount != candidates[j].BerthCount {
			return candidates[i].BerthCount > candidates[j].BerthCount
		}
		return candidates[i].Code < candidates[j].Code
	})
	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// findUnreachable BFS-explores the graph as undirected (an edge in
// either direction counts as connectivity) from an arbitrary node and
// returns every node never visited.
func findUnreachable(graph *domain.PortGraph) []string {
	codes := make([]string, 0, len(graph.Nodes))
	for code := range graph.Nodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		return nil
	}

	adjacent := make(map[string][]string, len(codes))
	for _, code := range codes {
		for _, e := range graph.Neighbors(code) {
			adjacent[code] = append(adjacent[code], e.To)
			adjacent[e.To] = append(adjacent[e.To], code)
		}
	}

	visited := map[string]bool{codes[0]: true}
	queue := []string{codes[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var unreachable []string
	for _, code := range codes {
		if !visited[code] {
			unreachable = append(unreachable, code)
		}
	}
	return unreachable
}
