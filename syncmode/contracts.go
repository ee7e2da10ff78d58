// Package syncmode defines the seam between the distributed graph (C7)
// and whichever synchronization mode mediates its cross-process state —
// ghost (optimistic, epoch-based) or hard (per-node mutex with
// termination detection). Neither concrete mode package imports the
// distributed package; instead, the distributed graph implements Host
// and hands itself to whichever mode it was built with, and the mode
// package only ever sees that narrow interface. This keeps
// distributed -> {sync/ghost, sync/hard} a one-way dependency.
package syncmode

import (
	"context"

	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
)

// Host is the subset of the distributed graph's behavior a
// synchronization mode needs to call back into — on receipt of a
// migrated node/edge, a forwarded remove request, or a buffered
// link/unlink flush.
type Host[T any] interface {
	// Rank returns this process's rank.
	Rank() int32
	// ImportNode installs or upgrades a node received from the network.
	ImportNode(n *graph.Node[T])
	// ImportEdge installs an edge received from the network, resolving
	// its endpoints (already-local nodes are reused; otherwise the
	// supplied TemporaryNode is materialized as a DISTANT placeholder).
	ImportEdge(eid id.DistributedId, layer int, weight float64, src, tgt *datapack.TemporaryNode[T]) error
	// LocalRemoveNode erases a LOCAL node and its incident edges. Called
	// when this process is the owner of a forwarded remove request.
	LocalRemoveNode(nid id.DistributedId) error
	// LocalUnlink erases a single edge already known on this process,
	// without forwarding (used applying a remote UNLINK notification).
	LocalUnlink(eid id.DistributedId) error
	// NodeData returns the current (data, weight) pair of any node in
	// this process's graph, LOCAL or DISTANT, for serving a read/refresh
	// request or a ghost-mode mutex read.
	NodeData(nid id.DistributedId) (T, float64, bool)
	// SetNodeData overwrites the data and weight of any node in this
	// process's graph, LOCAL or DISTANT, for applying a RELEASE_ACQUIRE
	// or a ghost-mode mutex release. A received ghost refresh goes
	// through SetDistantData instead.
	SetNodeData(nid id.DistributedId, data T, weight float64) bool
	// SetDistantData overwrites a DISTANT node's cached data and weight
	// after a ghost refresh or hard-sync read reply.
	SetDistantData(nid id.DistributedId, data T, weight float64) bool
	// DistantNodeOwner returns the rank currently holding nid's LOCAL
	// copy, for a DISTANT node known here.
	DistantNodeOwner(nid id.DistributedId) (int32, bool)
	// DistantNodes returns every node currently held as a DISTANT ghost
	// on this process, for a data-sync mode to enumerate what it must
	// refresh.
	DistantNodes() []*graph.Node[T]
}

// Flusher is the shape of both syncLinker and dataSync: each is a
// suspension point that must pump incoming requests while it waits.
type Flusher interface {
	Synchronize(ctx context.Context) error
}

// MutexFactory builds the Mutex a newly LOCAL or newly DISTANT node
// installs — ghost mode builds a no-op/cached mutex, hard mode builds a
// HardSyncMutex wired to the reception pump.
type MutexFactory[T any] interface {
	NewMutex(nid id.DistributedId) graph.Mutex[T]
}

// Mode bundles everything the distributed graph needs from its chosen
// synchronization mode.
type Mode[T any] interface {
	MutexFactory[T]

	// BufferLink records that edge e (incident to at least one DISTANT
	// endpoint) was created locally, for propagation to whichever
	// process(es) own its DISTANT endpoint(s).
	BufferLink(e *graph.Edge[T])
	// BufferUnlink records that edge e was removed locally.
	BufferUnlink(e *graph.Edge[T])
	// BufferRemoveNode forwards a remove request for a DISTANT node to
	// owner.
	BufferRemoveNode(nid id.DistributedId, owner int32)

	// SyncLinker flushes buffered link/unlink/remove-node notifications.
	SyncLinker() Flusher
	// DataSync refreshes DISTANT node data from their current owners.
	DataSync() Flusher

	// Pump receives and dispatches incoming protocol traffic, so a
	// suspension point elsewhere can make progress while this process
	// waits on something else. It may block until a message arrives or
	// ctx is done (hard mode does). A no-op for modes with no reception
	// pump (ghost mode).
	Pump(ctx context.Context) error
}
