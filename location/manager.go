package location

import (
	"context"
	"sync"

	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
)

// Manager owns the partitioned local/distant node view for one process
// and the managed_nodes_locations oracle for every id this process
// originates.
type Manager[T any] struct {
	self int32
	comm mpi.Communicator

	muNodes      sync.RWMutex
	localNodes   map[id.DistributedId]*graph.Node[T]
	distantNodes map[id.DistributedId]*graph.Node[T]

	muManaged             sync.RWMutex
	managedNodesLocations map[id.DistributedId]int32

	muEpoch sync.Mutex
	epoch   int32
}

// NewManager returns a Manager for the process identified by comm.Rank().
func NewManager[T any](comm mpi.Communicator) *Manager[T] {
	return &Manager[T]{
		self:                  comm.Rank(),
		comm:                  comm,
		localNodes:            make(map[id.DistributedId]*graph.Node[T]),
		distantNodes:          make(map[id.DistributedId]*graph.Node[T]),
		managedNodesLocations: make(map[id.DistributedId]int32),
	}
}

// SetLocal moves n into local_nodes, marking it LOCAL and owned by this
// process.
func (m *Manager[T]) SetLocal(n *graph.Node[T]) {
	m.muNodes.Lock()
	defer m.muNodes.Unlock()
	delete(m.distantNodes, n.Id)
	n.State = graph.Local
	n.Location = m.self
	m.localNodes[n.Id] = n
}

// SetDistant moves n into distant_nodes, marking it DISTANT and recording
// location as the rank currently holding its LOCAL copy.
func (m *Manager[T]) SetDistant(n *graph.Node[T], location int32) {
	m.muNodes.Lock()
	defer m.muNodes.Unlock()
	delete(m.localNodes, n.Id)
	n.State = graph.Distant
	n.Location = location
	m.distantNodes[n.Id] = n
}

// LocalNode returns the LOCAL node for id, if known here.
func (m *Manager[T]) LocalNode(nid id.DistributedId) (*graph.Node[T], bool) {
	m.muNodes.RLock()
	defer m.muNodes.RUnlock()
	n, ok := m.localNodes[nid]
	return n, ok
}

// DistantNode returns the DISTANT node for id, if known here.
func (m *Manager[T]) DistantNode(nid id.DistributedId) (*graph.Node[T], bool) {
	m.muNodes.RLock()
	defer m.muNodes.RUnlock()
	n, ok := m.distantNodes[nid]
	return n, ok
}

// ClearDistant drops a DISTANT node entirely: it is no longer tracked as
// local or distant. Unlike Forget it leaves the managed-nodes oracle
// untouched; the orphan-ghost paths in package distributed use Forget.
func (m *Manager[T]) ClearDistant(nid id.DistributedId) {
	m.muNodes.Lock()
	defer m.muNodes.Unlock()
	delete(m.distantNodes, nid)
}

// Forget drops nid from both the local and distant maps and from the
// managed-nodes oracle. Used once a node has been erased from the graph
// entirely (an owner completing a forwarded remove, or a DISTANT ghost
// left with no incident edges after an unlink).
func (m *Manager[T]) Forget(nid id.DistributedId) {
	m.muNodes.Lock()
	delete(m.localNodes, nid)
	delete(m.distantNodes, nid)
	m.muNodes.Unlock()
	m.RemoveManagedNode(nid)
}

// LocalNodes returns every node this process currently holds LOCAL.
func (m *Manager[T]) LocalNodes() []*graph.Node[T] {
	m.muNodes.RLock()
	defer m.muNodes.RUnlock()
	out := make([]*graph.Node[T], 0, len(m.localNodes))
	for _, n := range m.localNodes {
		out = append(out, n)
	}
	return out
}

// DistantNodes returns every node this process currently holds as a
// DISTANT ghost.
func (m *Manager[T]) DistantNodes() []*graph.Node[T] {
	m.muNodes.RLock()
	defer m.muNodes.RUnlock()
	out := make([]*graph.Node[T], 0, len(m.distantNodes))
	for _, n := range m.distantNodes {
		out = append(out, n)
	}
	return out
}

// AddManagedNode records that nid's LOCAL copy currently lives on
// initialRank. A no-op if nid.Rank != self — only the origin tracks a
// managed entry for its own ids.
func (m *Manager[T]) AddManagedNode(nid id.DistributedId, initialRank int32) {
	if nid.Rank != m.self {
		return
	}
	m.muManaged.Lock()
	defer m.muManaged.Unlock()
	m.managedNodesLocations[nid] = initialRank
}

// RemoveManagedNode drops nid's managed entry. A no-op if nid.Rank != self.
func (m *Manager[T]) RemoveManagedNode(nid id.DistributedId) {
	if nid.Rank != m.self {
		return
	}
	m.muManaged.Lock()
	defer m.muManaged.Unlock()
	delete(m.managedNodesLocations, nid)
}

// ManagedLocation returns the last-known LOCAL-holding rank for an id
// this process originates.
func (m *Manager[T]) ManagedLocation(nid id.DistributedId) (int32, bool) {
	m.muManaged.RLock()
	defer m.muManaged.RUnlock()
	r, ok := m.managedNodesLocations[nid]
	return r, ok
}

// UpdateLocations runs a three-phase synchronous protocol: every process
// reports its LOCAL nodes to their origins, then resolves every known
// DISTANT node's current location — locally when this process is the
// origin, over the network otherwise. All network rounds are symmetric
// AllToAll exchanges; every participating process must call
// UpdateLocations for any round to complete.
func (m *Manager[T]) UpdateLocations(ctx context.Context) error {
	m.muEpoch.Lock()
	e := m.epoch
	m.epoch += 3
	m.muEpoch.Unlock()

	if err := m.phase1ReportOwnership(ctx, mpi.EpochTag(mpi.PurposeLocationUpdate, e)); err != nil {
		return err
	}
	m.phase2ResolveOwnOrigin()
	return m.phase3ResolveRemoteOrigin(ctx,
		mpi.EpochTag(mpi.PurposeLocationUpdate, e+1),
		mpi.EpochTag(mpi.PurposeLocationUpdate, e+2))
}

// phase1ReportOwnership sends every LOCAL node whose origin is not self
// to that origin, so the origin can update managed_nodes_locations.
func (m *Manager[T]) phase1ReportOwnership(ctx context.Context, tag int32) error {
	sendTo := m.groupLocalIDsByOrigin()
	recv, err := m.comm.AllToAll(ctx, tag, sendTo)
	if err != nil {
		return err
	}
	for src, body := range recv {
		ids, err := decodeIDs(body)
		if err != nil {
			return err
		}
		for _, nid := range ids {
			m.AddManagedNode(nid, src)
		}
	}
	return nil
}

// groupLocalIDsByOrigin buckets this process's LOCAL node ids by
// id.Rank, excluding ids this process itself originates (self already
// knows its own managed entries without a message).
func (m *Manager[T]) groupLocalIDsByOrigin() map[int32][]byte {
	byOrigin := make(map[int32][]id.DistributedId)
	m.muNodes.RLock()
	for nid := range m.localNodes {
		if nid.Rank == m.self {
			continue
		}
		byOrigin[nid.Rank] = append(byOrigin[nid.Rank], nid)
	}
	m.muNodes.RUnlock()

	sendTo := make(map[int32][]byte, len(byOrigin))
	for dest, ids := range byOrigin {
		sendTo[dest] = encodeIDs(ids)
	}
	return sendTo
}

// phase2ResolveOwnOrigin fills in node.Location for every DISTANT node
// this process itself originates, straight from the local managed-nodes
// oracle — no network round needed.
func (m *Manager[T]) phase2ResolveOwnOrigin() {
	m.muNodes.RLock()
	own := make([]*graph.Node[T], 0)
	for nid, n := range m.distantNodes {
		if nid.Rank == m.self {
			own = append(own, n)
		}
	}
	m.muNodes.RUnlock()

	for _, n := range own {
		if loc, ok := m.ManagedLocation(n.Id); ok {
			n.Location = loc
		}
	}
}

// phase3ResolveRemoteOrigin asks, for every DISTANT node originated
// elsewhere, that origin for the node's current location, and applies
// the answers.
func (m *Manager[T]) phase3ResolveRemoteOrigin(ctx context.Context, requestTag, responseTag int32) error {
	requests := m.groupRemoteDistantIDsByOrigin()
	received, err := m.comm.AllToAll(ctx, requestTag, requests)
	if err != nil {
		return err
	}

	responses := make(map[int32][]byte, len(received))
	for src, body := range received {
		ids, err := decodeIDs(body)
		if err != nil {
			return err
		}
		entries := make([]locationEntry, 0, len(ids))
		for _, nid := range ids {
			loc, ok := m.ManagedLocation(nid)
			if !ok {
				return errUnknownOrigin(nid)
			}
			entries = append(entries, locationEntry{ID: nid, Location: loc})
		}
		responses[src] = encodeEntries(entries)
	}

	answers, err := m.comm.AllToAll(ctx, responseTag, responses)
	if err != nil {
		return err
	}

	m.muNodes.Lock()
	defer m.muNodes.Unlock()
	for _, body := range answers {
		entries, err := decodeEntries(body)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if n, ok := m.distantNodes[e.ID]; ok {
				n.Location = e.Location
			}
		}
	}
	return nil
}

func (m *Manager[T]) groupRemoteDistantIDsByOrigin() map[int32][]byte {
	byOrigin := make(map[int32][]id.DistributedId)
	m.muNodes.RLock()
	for nid := range m.distantNodes {
		if nid.Rank == m.self {
			continue
		}
		byOrigin[nid.Rank] = append(byOrigin[nid.Rank], nid)
	}
	m.muNodes.RUnlock()

	out := make(map[int32][]byte, len(byOrigin))
	for dest, ids := range byOrigin {
		out[dest] = encodeIDs(ids)
	}
	return out
}
