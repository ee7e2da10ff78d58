package graph

import (
	"sync"

	"github.com/katalvlaran/fpmgraph/id"
)

// Graph owns the node and edge catalogs of a single process, plus four
// callback registries fired on insert/erase of either. It knows nothing
// about MPI or ownership transfer; LOCAL/DISTANT bookkeeping beyond the
// State field itself is the location manager's job (package location).
//
// Locking uses separate locks per catalog: muNodes guards the node
// catalog, muEdges guards the edge catalog and the per-node adjacency
// slices reachable from it. No method holds both at once, which rules
// out lock-ordering bugs. EraseNode touches both catalogs but takes the
// locks one after another (muEdges for each incident edge, then muNodes
// for the node itself), so its erasure is not atomic with respect to
// readers: a concurrent reader can see the node with some of its edges
// already gone.
type Graph[T any] struct {
	muNodes sync.RWMutex
	muEdges sync.RWMutex

	nodes map[id.DistributedId]*Node[T]
	edges map[id.DistributedId]*Edge[T]

	onInsertNode []func(*Node[T])
	onEraseNode  []func(*Node[T])
	onInsertEdge []func(*Edge[T])
	onEraseEdge  []func(*Edge[T])
}

// New constructs an empty Graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		nodes: make(map[id.DistributedId]*Node[T]),
		edges: make(map[id.DistributedId]*Edge[T]),
	}
}

// AddCallOnInsertNode registers cb to run, in registration order, every
// time InsertNode succeeds.
func (g *Graph[T]) AddCallOnInsertNode(cb func(*Node[T])) {
	g.onInsertNode = append(g.onInsertNode, cb)
}

// AddCallOnEraseNode registers cb to run, in registration order, every
// time EraseNode removes a node.
func (g *Graph[T]) AddCallOnEraseNode(cb func(*Node[T])) {
	g.onEraseNode = append(g.onEraseNode, cb)
}

// AddCallOnInsertEdge registers cb to run, in registration order, every
// time InsertEdge succeeds.
func (g *Graph[T]) AddCallOnInsertEdge(cb func(*Edge[T])) {
	g.onInsertEdge = append(g.onInsertEdge, cb)
}

// AddCallOnEraseEdge registers cb to run, in registration order, every
// time EraseEdge removes an edge.
func (g *Graph[T]) AddCallOnEraseEdge(cb func(*Edge[T])) {
	g.onEraseEdge = append(g.onEraseEdge, cb)
}

// InsertNode adds n to the graph's node catalog. Returns ErrNodeExists if
// n.Id is already present. Fires onInsertNode callbacks in registration
// order after the node is visible to lookups.
func (g *Graph[T]) InsertNode(n *Node[T]) error {
	g.muNodes.Lock()
	if _, exists := g.nodes[n.Id]; exists {
		g.muNodes.Unlock()
		return ErrNodeExists
	}
	g.nodes[n.Id] = n
	g.muNodes.Unlock()

	for _, cb := range g.onInsertNode {
		cb(n)
	}
	return nil
}

// GetNode returns the node with the given id, or ErrNodeNotFound.
func (g *Graph[T]) GetNode(nid id.DistributedId) (*Node[T], error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	n, ok := g.nodes[nid]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

// HasNode reports whether nid is present in the graph.
func (g *Graph[T]) HasNode(nid id.DistributedId) bool {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	_, ok := g.nodes[nid]
	return ok
}

// Nodes returns every node currently in the graph, in unspecified order.
func (g *Graph[T]) Nodes() []*Node[T] {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]*Node[T], 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph[T]) NodeCount() int {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	return len(g.nodes)
}

// InsertEdge adds e to the graph's edge catalog and wires it into both
// endpoints' per-layer adjacency (order-preserving append). Both
// endpoints must already be present in this graph (ErrDanglingEdge
// otherwise) — callers that import an edge whose endpoint is unknown
// must materialize a DISTANT placeholder node first (the distributed
// package's ImportEdge does this via TemporaryNode.Build).
//
// e.State is recomputed from its endpoints before insertion; callers
// must not set it directly.
func (g *Graph[T]) InsertEdge(e *Edge[T]) error {
	if !g.HasNode(e.Src.Id) || !g.HasNode(e.Tgt.Id) {
		return ErrDanglingEdge
	}

	g.muEdges.Lock()
	if _, exists := g.edges[e.Id]; exists {
		g.muEdges.Unlock()
		return ErrEdgeExists
	}
	e.recomputeState()
	g.edges[e.Id] = e
	e.Src.out[e.Layer] = append(e.Src.out[e.Layer], e)
	e.Tgt.in[e.Layer] = append(e.Tgt.in[e.Layer], e)
	g.muEdges.Unlock()

	for _, cb := range g.onInsertEdge {
		cb(e)
	}
	return nil
}

// GetEdge returns the edge with the given id, or ErrEdgeNotFound.
func (g *Graph[T]) GetEdge(eid id.DistributedId) (*Edge[T], error) {
	g.muEdges.RLock()
	defer g.muEdges.RUnlock()
	e, ok := g.edges[eid]
	if !ok {
		return nil, ErrEdgeNotFound
	}
	return e, nil
}

// HasEdge reports whether eid is present in the graph.
func (g *Graph[T]) HasEdge(eid id.DistributedId) bool {
	g.muEdges.RLock()
	defer g.muEdges.RUnlock()
	_, ok := g.edges[eid]
	return ok
}

// Edges returns every edge currently in the graph, in unspecified order.
func (g *Graph[T]) Edges() []*Edge[T] {
	g.muEdges.RLock()
	defer g.muEdges.RUnlock()
	out := make([]*Edge[T], 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	return out
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph[T]) EdgeCount() int {
	g.muEdges.RLock()
	defer g.muEdges.RUnlock()
	return len(g.edges)
}

// EraseEdge removes e from the catalog and from both endpoints'
// adjacency, preserving the relative order of the survivors.
// unlinkOut/unlinkIn happen before the edge is deallocated from the
// catalog, so a removal never observes a half-updated adjacency list.
func (g *Graph[T]) EraseEdge(eid id.DistributedId) error {
	g.muEdges.Lock()
	e, ok := g.edges[eid]
	if !ok {
		g.muEdges.Unlock()
		return ErrEdgeNotFound
	}
	unlinkOut(e.Src, e)
	unlinkIn(e.Tgt, e)
	delete(g.edges, eid)
	g.muEdges.Unlock()

	for _, cb := range g.onEraseEdge {
		cb(e)
	}
	return nil
}

// unlinkOut removes e from n's outgoing adjacency on e.Layer, preserving
// the order of the remaining edges.
func unlinkOut[T any](n *Node[T], e *Edge[T]) {
	list := n.out[e.Layer]
	for i, cand := range list {
		if cand.Id == e.Id {
			n.out[e.Layer] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// unlinkIn removes e from n's incoming adjacency on e.Layer, preserving
// the order of the remaining edges.
func unlinkIn[T any](n *Node[T], e *Edge[T]) {
	list := n.in[e.Layer]
	for i, cand := range list {
		if cand.Id == e.Id {
			n.in[e.Layer] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// EraseNode removes n and every edge incident to it (in both
// directions, across every layer), then removes n itself. Incident
// edges are erased first so onEraseEdge observes a graph that still
// contains both endpoints.
//
// This is the one operation that touches both muNodes and muEdges: it
// takes muEdges first to erase the incident edges (each via the normal
// EraseEdge path, so callbacks fire edge-by-edge), then muNodes to
// remove the node and fire onEraseNode.
func (g *Graph[T]) EraseNode(nid id.DistributedId) error {
	n, err := g.GetNode(nid)
	if err != nil {
		return err
	}

	var incident []id.DistributedId
	g.muEdges.RLock()
	for layer, list := range n.out {
		for _, e := range list {
			incident = append(incident, e.Id)
		}
		_ = layer
	}
	for layer, list := range n.in {
		for _, e := range list {
			incident = append(incident, e.Id)
		}
		_ = layer
	}
	g.muEdges.RUnlock()

	for _, eid := range incident {
		if err := g.EraseEdge(eid); err != nil && err != ErrEdgeNotFound {
			return err
		}
	}

	g.muNodes.Lock()
	delete(g.nodes, nid)
	g.muNodes.Unlock()

	for _, cb := range g.onEraseNode {
		cb(n)
	}
	return nil
}
