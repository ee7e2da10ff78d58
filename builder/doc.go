// Package builder constructs deterministic-shape distributed graphs:
// a NodeBuilder yields a process's share of node payloads, and a
// GraphBuilder wires those nodes together according to some topology.
// Every constructor here validates its parameters eagerly and returns a
// sentinel error (errors.go) rather than panicking.
//
// Both required implementations (UniformRandom, SmallWorld) only ever
// link nodes this process already holds LOCAL: cross-rank linking is the
// distributed.Graph.Link/sync-mode's job, not the builder's. A caller
// wanting a graph that spans ranks builds locally per-rank and then
// Distributes.
package builder
