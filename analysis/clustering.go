package analysis

import (
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
)

// neighbors returns the undirected neighbor set of n on layer: every
// node reachable by an outgoing or incoming edge, deduplicated, self
// excluded (a self-loop never counts as a neighbor for clustering
// purposes).
func neighbors[T any](n *graph.Node[T], layer int) []id.DistributedId {
	seen := make(map[id.DistributedId]struct{})
	for _, e := range n.OutEdges(layer) {
		if e.Tgt.Id != n.Id {
			seen[e.Tgt.Id] = struct{}{}
		}
	}
	for _, e := range n.InEdges(layer) {
		if e.Src.Id != n.Id {
			seen[e.Src.Id] = struct{}{}
		}
	}
	out := make([]id.DistributedId, 0, len(seen))
	for nid := range seen {
		out = append(out, nid)
	}
	return out
}

// adjacent reports whether an edge exists between a and b on layer, in
// either direction.
func adjacent[T any](a *graph.Node[T], b id.DistributedId, layer int) bool {
	for _, e := range a.OutEdges(layer) {
		if e.Tgt.Id == b {
			return true
		}
	}
	for _, e := range a.InEdges(layer) {
		if e.Src.Id == b {
			return true
		}
	}
	return false
}

// LocalClusteringCoefficient computes node n's local clustering
// coefficient on layer: the fraction of pairs among n's neighbors that
// are themselves connected, out of all possible pairs. g resolves a
// neighbor id back to its *graph.Node so the edge check between two
// neighbors (not n itself) can run. A neighbor id g does not currently
// hold (e.g. a DISTANT placeholder never materialized on this process)
// contributes no links for that pair — its adjacency to other neighbors
// is unknown here, not assumed absent, but the local view can only
// report what it can see.
//
// Returns 0 for a node with fewer than 2 neighbors (undefined, by
// convention taken as zero rather than NaN).
func LocalClusteringCoefficient[T any](g *graph.Graph[T], n *graph.Node[T], layer int) float64 {
	nbrs := neighbors(n, layer)
	k := len(nbrs)
	if k < 2 {
		return 0
	}

	links := 0
	for i := 0; i < len(nbrs); i++ {
		ni, err := g.GetNode(nbrs[i])
		if err != nil {
			continue
		}
		for j := i + 1; j < len(nbrs); j++ {
			if adjacent(ni, nbrs[j], layer) {
				links++
			}
		}
	}
	return float64(2*links) / float64(k*(k-1))
}

// GlobalClusteringCoefficient averages LocalClusteringCoefficient over
// every node in nodes that has at least 2 neighbors on layer; nodes
// below that threshold are excluded from both the sum and the count
// (not counted as zero), matching the usual "average over defined
// values" convention for this metric.
func GlobalClusteringCoefficient[T any](g *graph.Graph[T], nodes []*graph.Node[T], layer int) float64 {
	var sum float64
	var counted int
	for _, n := range nodes {
		if len(neighbors(n, layer)) < 2 {
			continue
		}
		sum += LocalClusteringCoefficient(g, n, layer)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}
