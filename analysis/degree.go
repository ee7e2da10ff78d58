package analysis

import "github.com/katalvlaran/fpmgraph/graph"

// DegreeDistribution returns a histogram of out-degree on layer across
// nodes: histogram[d] is the number of nodes in nodes whose OutEdges(layer)
// has length d. Directed out-degree, not undirected total degree, since
// every edge in this model has an explicit direction.
func DegreeDistribution[T any](nodes []*graph.Node[T], layer int) map[int]int {
	hist := make(map[int]int)
	for _, n := range nodes {
		hist[len(n.OutEdges(layer))]++
	}
	return hist
}

// AverageOutDegree returns the mean out-degree on layer across nodes, 0
// for an empty node set.
func AverageOutDegree[T any](nodes []*graph.Node[T], layer int) float64 {
	if len(nodes) == 0 {
		return 0
	}
	total := 0
	for _, n := range nodes {
		total += len(n.OutEdges(layer))
	}
	return float64(total) / float64(len(nodes))
}
