// Package graph defines the local, single-process building blocks of the
// distributed labelled multigraph: Node, Edge, Layer and Graph.
//
// This generalizes a plain in-memory graph's separate-RWMutex
// locking discipline (muNodes guards the node catalog, muEdges guards
// the edge catalog) and the same sentinel-error-via-errors.Is policy,
// but keyed by id.DistributedId instead of a plain string, and carrying
// the LOCAL/DISTANT state that makes a single Graph instance double as
// the "ghost graph" for whichever process holds it, deliberately without
// a separate shadow structure for ghosts.
//
// A Graph does not know about MPI, location management, or
// synchronization modes — those are layered on top by the location and
// distributed packages. Graph only guarantees its local invariants:
// edge state derived from endpoint state, erasure ordering (incident
// edges before their node), and callback-fires-in-registration-order
// semantics.
package graph
