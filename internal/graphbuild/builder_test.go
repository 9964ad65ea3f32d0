package graphbuild

import (
	"context"
	"testing"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
)

func testParams() Params {
	// HubRadiusNM is set generously wide (well past spec.md's 6000nm
	// default) so this small, geographically scattered fixture stays
	// connected through its hub without the test depending on a
	// borderline great-circle distance calculation.
	return Params{KNearest: 8, KNNRadiusNM: 1500, HubCount: 40, HubRadiusNM: 20000}
}

func connectedCatalog() []domain.Port {
	return []domain.Port{
		{Code: "SGSIN", Name: "Singapore", Country: "SG", LatDeg: 1.29, LonDeg: 103.85, Type: domain.PortTypeContainer, Status: domain.PortStatusActive, BerthCount: 60, CongestionFactor: 1.2, SuezConnected: true},
		{Code: "MYPKG", Name: "Port Klang", Country: "MY", LatDeg: 3.0, LonDeg: 101.4, Type: domain.PortTypeContainer, Status: domain.PortStatusActive, BerthCount: 20, CongestionFactor: 1.0},
		{Code: "EGPSD", Name: "Port Said", Country: "EG", LatDeg: 31.26, LonDeg: 32.30, Type: domain.PortTypeContainer, Status: domain.PortStatusActive, BerthCount: 15, CongestionFactor: 1.1, SuezConnected: true},
		{Code: "NLRTM", Name: "Rotterdam", Country: "NL", LatDeg: 51.95, LonDeg: 4.14, Type: domain.PortTypeMultipurpose, Status: domain.PortStatusActive, BerthCount: 45, CongestionFactor: 1.0},
	}
}

func TestBuildConnectedGraph(t *testing.T) {
	graph, stats, err := Build(context.Background(), connectedCatalog(), EmptyZoneTable(), testParams(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NodeCount != 4 {
		t.Fatalf("expected 4 nodes, got %d", stats.NodeCount)
	}
	if stats.EdgesCreated == 0 {
		t.Fatal("expected at least one edge")
	}
	if graph.Generation != 0 {
		t.Fatalf("expected generation 0, got %d", graph.Generation)
	}

	// the two Suez-connected ports must have a direct canal edge.
	found := false
	for _, e := range graph.Neighbors("SGSIN") {
		if e.To == "EGPSD" && e.Kind == domain.EdgeCanalSuez {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a canal-suez edge between the two Suez-connected ports")
	}
}

func TestBuildDeterministicEdgeOrder(t *testing.T) {
	catalog := connectedCatalog()
	g1, _, err := Build(context.Background(), catalog, EmptyZoneTable(), testParams(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g2, _, err := Build(context.Background(), catalog, EmptyZoneTable(), testParams(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n1 := g1.Neighbors("SGSIN")
	n2 := g2.Neighbors("SGSIN")
	if len(n1) != len(n2) {
		t.Fatalf("edge count mismatch across identical builds: %d vs %d", len(n1), len(n2))
	}
	for i := range n1 {
		if n1[i].To != n2[i].To {
			t.Fatalf("adjacency order mismatch at %d: %s vs %s", i, n1[i].To, n2[i].To)
		}
	}
}

func TestBuildDisconnectedGraphFails(t *testing.T) {
	catalog := []domain.Port{
		{Code: "AAAAA", Name: "Isolated A", Country: "AA", LatDeg: 0, LonDeg: 0, Type: domain.PortTypeBulk, Status: domain.PortStatusActive, BerthCount: 1},
		{Code: "BBBBB", Name: "Isolated B", Country: "BB", LatDeg: 60, LonDeg: 170, Type: domain.PortTypeBulk, Status: domain.PortStatusActive, BerthCount: 1},
	}
	_, _, err := Build(context.Background(), catalog, EmptyZoneTable(), Params{KNearest: 8, KNNRadiusNM: 100, HubCount: 0, HubRadiusNM: 0}, 0)
	if !apperr.Is(err, apperr.KindGraphBuildFailed) {
		t.Fatalf("expected KindGraphBuildFailed, got %v", err)
	}
}

func TestBuildIgnoresInoperablePorts(t *testing.T) {
	catalog := connectedCatalog()
	catalog = append(catalog, domain.Port{Code: "ZZZZZ", Name: "Mothballed", Country: "ZZ", LatDeg: 1.3, LonDeg: 103.9, Type: domain.PortTypeBulk, Status: domain.PortStatusInactive})

	graph, stats, err := Build(context.Background(), catalog, EmptyZoneTable(), testParams(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NodeCount != 4 {
		t.Fatalf("expected inactive port excluded, got %d nodes", stats.NodeCount)
	}
	if _, ok := graph.Port("ZZZZZ"); ok {
		t.Fatal("expected inactive port not to appear in the graph")
	}
}
