package distributed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/location"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/katalvlaran/fpmgraph/syncmode"
)

// Graph is the distributed multigraph a simulation builds agents and
// links on: one process's view, backed by a local graph.Graph, a
// location.Manager, and a synchronization mode. It implements
// syncmode.Host[T] so its chosen mode can call back into it.
type Graph[T any] struct {
	self int32
	comm mpi.Communicator
	g    *graph.Graph[T]
	loc  *location.Manager[T]
	mode syncmode.Mode[T]
	ids  *id.Allocator
	log  *slog.Logger

	distributeEpoch int32
}

// New builds an empty distributed graph for this process, wired to comm
// and to the given synchronization mode.
func New[T any](comm mpi.Communicator, mode syncmode.Mode[T], opts ...Option[T]) *Graph[T] {
	dg := &Graph[T]{
		self: comm.Rank(),
		comm: comm,
		g:    graph.New[T](),
		loc:  location.NewManager[T](comm),
		mode: mode,
		ids:  id.NewAllocator(comm.Rank()),
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(dg)
	}
	dg.log.Debug("distributed graph constructed", "rank", dg.self)
	return dg
}

// Rank implements syncmode.Host.
func (dg *Graph[T]) Rank() int32 { return dg.self }

// Underlying exposes the local graph catalog for read-only traversal
// (adjacency, callback registration) that doesn't need distribution
// semantics.
func (dg *Graph[T]) Underlying() *graph.Graph[T] { return dg.g }

// Locations exposes the location manager for callers that need direct
// LOCAL/DISTANT enumeration (analysis, builders).
func (dg *Graph[T]) Locations() *location.Manager[T] { return dg.loc }

// AddCallOnInsertNode forwards to the underlying local graph's callback
// registry: cb runs, in registration order, every time a node is
// inserted into this process's local catalog — by BuildNode, ImportNode,
// or a resolved edge endpoint.
func (dg *Graph[T]) AddCallOnInsertNode(cb func(*graph.Node[T])) {
	dg.g.AddCallOnInsertNode(cb)
}

// AddCallOnEraseNode forwards to the underlying local graph's callback
// registry: cb runs every time a node is erased from this process's
// local catalog, LOCAL or DISTANT.
func (dg *Graph[T]) AddCallOnEraseNode(cb func(*graph.Node[T])) {
	dg.g.AddCallOnEraseNode(cb)
}

// AddCallOnInsertEdge forwards to the underlying local graph's callback
// registry: cb runs every time an edge is inserted, via Link or a
// received ImportEdge.
func (dg *Graph[T]) AddCallOnInsertEdge(cb func(*graph.Edge[T])) {
	dg.g.AddCallOnInsertEdge(cb)
}

// AddCallOnEraseEdge forwards to the underlying local graph's callback
// registry: cb runs every time an edge is erased, via Unlink or a
// received LocalUnlink.
func (dg *Graph[T]) AddCallOnEraseEdge(cb func(*graph.Edge[T])) {
	dg.g.AddCallOnEraseEdge(cb)
}

// NodeByID looks n up regardless of whether it is LOCAL or DISTANT here,
// failing with a wrapped fpmaserr.ErrOutOfGraph if this process has no
// record of it at all.
func (dg *Graph[T]) NodeByID(nid id.DistributedId) (*graph.Node[T], error) {
	if n, err := dg.g.GetNode(nid); err == nil {
		return n, nil
	}
	return nil, errUnknownManagedNode(nid)
}

// BuildNode allocates a fresh id, inserts data as a new LOCAL node, and
// registers it as managed by this process.
func (dg *Graph[T]) BuildNode(data T) (*graph.Node[T], error) {
	nid := dg.ids.NextNode()
	n := graph.NewLocalNode(nid, data)
	n.Mutex = dg.mode.NewMutex(nid)
	if err := dg.g.InsertNode(n); err != nil {
		return nil, err
	}
	dg.loc.SetLocal(n)
	dg.loc.AddManagedNode(nid, dg.self)
	return n, nil
}

// Link creates a new edge between src and tgt on layer, informing the
// synchronization mode if either endpoint is DISTANT so the link can be
// propagated to its owner.
func (dg *Graph[T]) Link(src, tgt *graph.Node[T], layer int, weight float64) (*graph.Edge[T], error) {
	if err := src.Mutex.LockShared(); err != nil {
		return nil, err
	}
	defer src.Mutex.UnlockShared()
	if err := tgt.Mutex.LockShared(); err != nil {
		return nil, err
	}
	defer tgt.Mutex.UnlockShared()

	eid := dg.ids.NextEdge()
	e := &graph.Edge[T]{Id: eid, Layer: layer, Weight: weight, Src: src, Tgt: tgt}
	if err := dg.g.InsertEdge(e); err != nil {
		return nil, err
	}
	if e.State == graph.Distant {
		dg.mode.BufferLink(e)
	}
	return e, nil
}

// Unlink removes e from the local graph and, if it was DISTANT, informs
// the synchronization mode. After removal, an endpoint left DISTANT with
// no remaining incident edges on this process is cleared entirely.
func (dg *Graph[T]) Unlink(e *graph.Edge[T]) error {
	if err := e.Src.Mutex.LockShared(); err != nil {
		return err
	}
	defer e.Src.Mutex.UnlockShared()
	if err := e.Tgt.Mutex.LockShared(); err != nil {
		return err
	}
	defer e.Tgt.Mutex.UnlockShared()

	wasDistant := e.State == graph.Distant
	if err := dg.g.EraseEdge(e.Id); err != nil {
		return err
	}
	if wasDistant {
		dg.mode.BufferUnlink(e)
	}

	for _, n := range [2]*graph.Node[T]{e.Src, e.Tgt} {
		if n.State == graph.Distant && len(n.Layers()) == 0 {
			_ = dg.g.EraseNode(n.Id)
			dg.loc.Forget(n.Id)
		}
	}
	return nil
}

// RemoveNode erases n if it is LOCAL (unlinking every incident edge
// first); if n is DISTANT, it forwards a remove request to n's owner
// instead.
func (dg *Graph[T]) RemoveNode(n *graph.Node[T]) error {
	if n.State == graph.Local {
		return dg.eraseLocalNode(n.Id)
	}
	dg.mode.BufferRemoveNode(n.Id, n.Location)
	return nil
}

func (dg *Graph[T]) eraseLocalNode(nid id.DistributedId) error {
	if err := dg.g.EraseNode(nid); err != nil {
		return err
	}
	dg.loc.Forget(nid)
	return nil
}

// ImportNode implements syncmode.Host: installs n as a fresh LOCAL node,
// or upgrades an existing DISTANT copy in place.
func (dg *Graph[T]) ImportNode(n *graph.Node[T]) {
	if existing, err := dg.g.GetNode(n.Id); err == nil {
		if existing.State == graph.Distant {
			existing.Data = n.Data
			existing.Weight = n.Weight
			dg.loc.SetLocal(existing)
		}
		return
	}
	n.Mutex = dg.mode.NewMutex(n.Id)
	_ = dg.g.InsertNode(n)
	dg.loc.SetLocal(n)
	dg.loc.AddManagedNode(n.Id, dg.self)
}

// ImportEdge implements syncmode.Host: resolves each endpoint (reusing
// an already-local node, or materializing the TemporaryNode as a
// DISTANT placeholder), then inserts the edge idempotently.
func (dg *Graph[T]) ImportEdge(eid id.DistributedId, layer int, weight float64, srcTN, tgtTN *datapack.TemporaryNode[T]) error {
	src, err := dg.resolveEndpoint(srcTN)
	if err != nil {
		return err
	}
	tgt, err := dg.resolveEndpoint(tgtTN)
	if err != nil {
		return err
	}

	if existing, err := dg.g.GetEdge(eid); err == nil {
		existing.RecomputeState()
		return nil
	}

	e := &graph.Edge[T]{Id: eid, Layer: layer, Weight: weight, Src: src, Tgt: tgt}
	return dg.g.InsertEdge(e)
}

func (dg *Graph[T]) resolveEndpoint(tn *datapack.TemporaryNode[T]) (*graph.Node[T], error) {
	if n, err := dg.g.GetNode(tn.ID()); err == nil {
		return n, nil
	}
	n, err := tn.Build()
	if err != nil {
		return nil, err
	}
	n.Mutex = dg.mode.NewMutex(n.Id)
	if err := dg.g.InsertNode(n); err != nil && !errors.Is(err, graph.ErrNodeExists) {
		return nil, err
	}
	dg.loc.SetDistant(n, tn.Location())
	return n, nil
}

// LocalRemoveNode implements syncmode.Host: erases a LOCAL node and its
// incident edges on behalf of a forwarded remove request.
func (dg *Graph[T]) LocalRemoveNode(nid id.DistributedId) error {
	return dg.eraseLocalNode(nid)
}

// LocalUnlink implements syncmode.Host: applies a remote UNLINK
// notification by erasing the named edge without re-buffering it.
func (dg *Graph[T]) LocalUnlink(eid id.DistributedId) error {
	return dg.g.EraseEdge(eid)
}

// NodeData implements syncmode.Host.
func (dg *Graph[T]) NodeData(nid id.DistributedId) (T, float64, bool) {
	var zero T
	n, err := dg.g.GetNode(nid)
	if err != nil {
		return zero, 0, false
	}
	return n.Data, n.Weight, true
}

// SetNodeData implements syncmode.Host.
func (dg *Graph[T]) SetNodeData(nid id.DistributedId, data T, weight float64) bool {
	n, err := dg.g.GetNode(nid)
	if err != nil {
		return false
	}
	n.Data = data
	n.Weight = weight
	return true
}

// SetDistantData implements syncmode.Host.
func (dg *Graph[T]) SetDistantData(nid id.DistributedId, data T, weight float64) bool {
	n, err := dg.g.GetNode(nid)
	if err != nil || n.State != graph.Distant {
		return false
	}
	n.Data = data
	n.Weight = weight
	return true
}

// DistantNodeOwner implements syncmode.Host.
func (dg *Graph[T]) DistantNodeOwner(nid id.DistributedId) (int32, bool) {
	n, ok := dg.loc.DistantNode(nid)
	if !ok {
		return 0, false
	}
	return n.Location, true
}

// DistantNodes implements syncmode.Host.
func (dg *Graph[T]) DistantNodes() []*graph.Node[T] {
	return dg.loc.DistantNodes()
}

// Synchronize flushes buffered link/unlink/remove-node operations via
// the synchronization mode, then refreshes DISTANT node data.
func (dg *Graph[T]) Synchronize(ctx context.Context) error {
	if err := dg.mode.SyncLinker().Synchronize(ctx); err != nil {
		return err
	}
	return dg.mode.DataSync().Synchronize(ctx)
}
