// Package analysis provides read-only graph metrics over a
// distributed.Graph[T]'s locally-visible nodes: clustering coefficients
// and degree-distribution snapshots. These are integration fixtures for
// exercising builder's generated topologies (a property test can assert
// a UniformRandom graph's expected average degree, or that a SmallWorld
// graph's clustering coefficient falls in the range the Watts-Strogatz
// model predicts) — not part of the simulation engine's core contract.
//
// Every function here only inspects nodes and edges already resident on
// this process (graph.Graph[T].Nodes(), not location.Manager's distant
// registry) — a metric computed mid-distribution, while some neighbors
// are still DISTANT ghosts, reflects this process's partial view, not
// necessarily the whole cluster's topology.
package analysis
