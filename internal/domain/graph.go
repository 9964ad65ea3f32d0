package domain

import "sort"

// PortGraph is the materialized routing graph: nodes are the active port
// catalog at build time, edges are the union of k-NN, canal, and hub
// legs. It is immutable once built; a new catalog version produces a
// wholly new PortGraph (see internal/graphbuild.Handle).
type PortGraph struct {
	Nodes map[string]Port    // by UN/LOCODE
	adj   map[string][]Edge  // adjacency, sorted by To for deterministic iteration

	Generation int64
}

// NewPortGraph builds a PortGraph from a node set and an edge list,
// indexing adjacency and sorting it into UN/LOCODE order so that every
// consumer iterates edges deterministically.
func NewPortGraph(nodes map[string]Port, edges []Edge, generation int64) *PortGraph {
	adj := make(map[string][]Edge, len(nodes))
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e)
	}
	for from := range adj {
		list := adj[from]
		sort.Slice(list, func(i, j int) bool { return list[i].To < list[j].To })
		adj[from] = list
	}

	return &PortGraph{Nodes: nodes, adj: adj, Generation: generation}
}

// Neighbors returns the outgoing edges of code in deterministic
// (destination UN/LOCODE ascending) order.
func (g *PortGraph) Neighbors(code string) []Edge {
	return g.adj[code]
}

// Port looks up a node by UN/LOCODE.
func (g *PortGraph) Port(code string) (Port, bool) {
	p, ok := g.Nodes[code]
	return p, ok
}

// EdgeCount returns the total number of directed edges in the graph.
func (g *PortGraph) EdgeCount() int {
	n := 0
	for _, list := range g.adj {
		n += len(list)
	}
	return n
}
