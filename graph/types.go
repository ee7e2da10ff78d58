package graph

import "github.com/katalvlaran/fpmgraph/id"

// State classifies a Node or Edge as LOCAL (authoritative copy lives on
// this process) or DISTANT (this process only holds a ghost proxy).
type State int

const (
	// Local marks a node whose authoritative data lives on this process,
	// or an edge whose two endpoints are both Local.
	Local State = iota
	// Distant marks a node that is a proxy for a copy living elsewhere,
	// or an edge with at least one Distant endpoint.
	Distant
)

// String renders the state for logging and test failure messages.
func (s State) String() string {
	if s == Local {
		return "LOCAL"
	}
	return "DISTANT"
}

// Mutex mediates access to a Node's Data. The concrete implementation is
// installed by whichever synchronization mode (ghost or hard) built the
// owning DistributedGraph; Graph itself never constructs one. A Mutex
// must never hold a pointer back to its Node — only the node's id — so
// that Node → Mutex ownership stays one-directional.
type Mutex[T any] interface {
	// Read returns the current value without acquiring exclusive access.
	// Under ghost sync this is the last value received from
	// synchronize(); under hard sync it may block on a remote fetch.
	Read() (T, error)

	// Acquire blocks until exclusive access is granted and returns the
	// current value. Must be paired with Release.
	Acquire() (T, error)

	// Release writes back newData and relinquishes exclusive access
	// acquired by a prior Acquire.
	Release(newData T) error

	// LockShared blocks until shared (read) access is granted.
	LockShared() error

	// UnlockShared releases shared access acquired by a prior
	// LockShared.
	UnlockShared() error
}

// Node is a vertex of the distributed multigraph: an agent or a spatial
// cell, depending on the layer built on top of this package.
type Node[T any] struct {
	Id       id.DistributedId
	Data     T
	Weight   float64
	State    State
	Location int32 // rank currently holding the LOCAL copy
	Mutex    Mutex[T]

	// in/out hold, per layer, the ordered sequence of incident edges.
	// Order is insertion order; never resorted.
	in  map[int][]*Edge[T]
	out map[int][]*Edge[T]
}

// newNode allocates a Node with empty per-layer adjacency. Weight
// defaults to 1.0.
func newNode[T any](nid id.DistributedId, data T) *Node[T] {
	return &Node[T]{
		Id:     nid,
		Data:   data,
		Weight: 1.0,
		State:  Local,
		in:     make(map[int][]*Edge[T]),
		out:    make(map[int][]*Edge[T]),
	}
}

// NewLocalNode constructs a Node in LOCAL state, as buildNode does on its
// owning process. Location is left at the zero rank; callers that build nodes on a
// specific process should set n.Location themselves.
func NewLocalNode[T any](nid id.DistributedId, data T) *Node[T] {
	return newNode(nid, data)
}

// NewDistantNode constructs a Node in DISTANT state representing a ghost
// proxy for a copy living on location. Used by the migration pipeline
// when materializing an edge's unknown endpoint (TemporaryNode.Build)
// and by the sync modes when installing a fresh ghost.
func NewDistantNode[T any](nid id.DistributedId, data T, location int32) *Node[T] {
	n := newNode(nid, data)
	n.State = Distant
	n.Location = location
	return n
}

// InEdges returns the ordered incoming edges of this node on layer, or
// nil if none. The returned slice must be treated as read-only.
func (n *Node[T]) InEdges(layer int) []*Edge[T] {
	return n.in[layer]
}

// OutEdges returns the ordered outgoing edges of this node on layer, or
// nil if none. The returned slice must be treated as read-only.
func (n *Node[T]) OutEdges(layer int) []*Edge[T] {
	return n.out[layer]
}

// Layers returns the set of layer ids this node has at least one
// incident edge on, in no particular order.
func (n *Node[T]) Layers() []int {
	seen := make(map[int]struct{}, len(n.in)+len(n.out))
	for l, list := range n.in {
		if len(list) > 0 {
			seen[l] = struct{}{}
		}
	}
	for l, list := range n.out {
		if len(list) > 0 {
			seen[l] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	return out
}

// Edge is a labelled, directed connection between two nodes. Multiple
// edges with the same (Src, Tgt, Layer) are permitted and distinguished
// by Id.
type Edge[T any] struct {
	Id     id.DistributedId
	Layer  int
	Weight float64
	Src    *Node[T]
	Tgt    *Node[T]
	State  State
}

// RecomputeState re-derives Edge.State from its endpoints' current
// State. Exported for callers (the distributed package's idempotent edge
// import) that must resync an existing edge's state after an endpoint's
// LOCAL/DISTANT status changed without the edge itself being
// reinserted.
func (e *Edge[T]) RecomputeState() {
	e.recomputeState()
}

// recomputeState derives Edge.State from its endpoints' current State:
// an edge is LOCAL iff both endpoints are LOCAL.
func (e *Edge[T]) recomputeState() {
	if e.Src.State == Local && e.Tgt.State == Local {
		e.State = Local
	} else {
		e.State = Distant
	}
}
