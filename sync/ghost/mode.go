package ghost

import (
	"context"
	"sync"

	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/katalvlaran/fpmgraph/syncmode"
)

// Mode is the ghost synchronization mode. It satisfies
// syncmode.Mode[T]; a distributed.Graph is built with one via
// distributed.New(comm, mode), followed by mode.SetHost(graph).
type Mode[T any] struct {
	comm mpi.Communicator
	host syncmode.Host[T]

	mu             sync.Mutex
	pendingRemoves map[int32][]id.DistributedId
	pendingUnlinks map[int32][]id.DistributedId
	pendingLinks   map[int32][]linkMsg

	linkEpoch int32
	dataEpoch int32
}

// New builds a ghost Mode communicating over comm. Its host is
// typically the *distributed.Graph under construction; distributed.New
// takes the mode before the graph exists, so callers wire the host in
// via a two-step construction: pass the Mode to distributed.New, then
// call SetHost once the graph is built.
func New[T any](comm mpi.Communicator) *Mode[T] {
	return &Mode[T]{
		comm:           comm,
		pendingRemoves: make(map[int32][]id.DistributedId),
		pendingUnlinks: make(map[int32][]id.DistributedId),
		pendingLinks:   make(map[int32][]linkMsg),
	}
}

// SetHost wires the callback target this mode forwards received
// operations to. Must be called exactly once, before any buffered
// operation is flushed.
func (m *Mode[T]) SetHost(host syncmode.Host[T]) {
	m.host = host
}

// NewMutex implements syncmode.MutexFactory.
func (m *Mode[T]) NewMutex(nid id.DistributedId) graph.Mutex[T] {
	return newMutex[T](m.host)(nid)
}

// BufferLink implements syncmode.Mode: queues e once per DISTANT
// endpoint, addressed to that endpoint's current owner.
func (m *Mode[T]) BufferLink(e *graph.Edge[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := linkMsg{
		EdgeID:     e.Id,
		Layer:      int32(e.Layer),
		Weight:     e.Weight,
		SrcID:      e.Src.Id,
		SrcLoc:     e.Src.Location,
		SrcPayload: encodePayload(e.Src.Data),
		TgtID:      e.Tgt.Id,
		TgtLoc:     e.Tgt.Location,
		TgtPayload: encodePayload(e.Tgt.Data),
	}
	for _, n := range [2]*graph.Node[T]{e.Src, e.Tgt} {
		if n.State != graph.Distant {
			continue
		}
		m.pendingLinks[n.Location] = append(m.pendingLinks[n.Location], msg)
	}
}

// BufferUnlink implements syncmode.Mode.
func (m *Mode[T]) BufferUnlink(e *graph.Edge[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range [2]*graph.Node[T]{e.Src, e.Tgt} {
		if n.State != graph.Distant {
			continue
		}
		m.pendingUnlinks[n.Location] = append(m.pendingUnlinks[n.Location], e.Id)
	}
}

// BufferRemoveNode implements syncmode.Mode.
func (m *Mode[T]) BufferRemoveNode(nid id.DistributedId, owner int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingRemoves[owner] = append(m.pendingRemoves[owner], nid)
}

func encodePayload[T any](v T) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, v)
	return p.Dump()
}

// SyncLinker implements syncmode.Mode.
func (m *Mode[T]) SyncLinker() syncmode.Flusher { return (*linkFlusher[T])(m) }

// DataSync implements syncmode.Mode.
func (m *Mode[T]) DataSync() syncmode.Flusher { return (*dataFlusher[T])(m) }

// Pump implements syncmode.Mode: ghost mode has no reception pump to
// drain between suspension points, since its only network rounds are
// the synchronous flushes below.
func (m *Mode[T]) Pump(context.Context) error { return nil }

// linkFlusher flushes the three buffered operation queues in a fixed
// order — remove-node, then unlink, then link — so a queued link never
// resurrects a node or edge removed earlier in the same epoch.
type linkFlusher[T any] Mode[T]

func (f *linkFlusher[T]) Synchronize(ctx context.Context) error {
	m := (*Mode[T])(f)

	m.mu.Lock()
	removes, unlinks, links := m.pendingRemoves, m.pendingUnlinks, m.pendingLinks
	m.pendingRemoves = make(map[int32][]id.DistributedId)
	m.pendingUnlinks = make(map[int32][]id.DistributedId)
	m.pendingLinks = make(map[int32][]linkMsg)
	m.mu.Unlock()

	removeTag := mpi.EpochTag(mpi.PurposeGhostRemoveNode, m.linkEpoch)
	unlinkTag := mpi.EpochTag(mpi.PurposeGhostUnlink, m.linkEpoch+1)
	linkTag := mpi.EpochTag(mpi.PurposeGhostLink, m.linkEpoch+2)
	m.linkEpoch += 3

	if err := f.flushRemoves(ctx, removeTag, removes); err != nil {
		return err
	}
	if err := f.flushUnlinks(ctx, unlinkTag, unlinks); err != nil {
		return err
	}
	return f.flushLinks(ctx, linkTag, links)
}

func (f *linkFlusher[T]) flushRemoves(ctx context.Context, tag int32, removes map[int32][]id.DistributedId) error {
	m := (*Mode[T])(f)
	send := make(map[int32][]byte, len(removes))
	for dest, ids := range removes {
		send[dest] = encodeIDs(ids)
	}
	recv, err := m.comm.AllToAll(ctx, tag, send)
	if err != nil {
		return err
	}
	for _, body := range recv {
		ids, err := decodeIDs(body)
		if err != nil {
			return err
		}
		for _, nid := range ids {
			if err := m.host.LocalRemoveNode(nid); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *linkFlusher[T]) flushUnlinks(ctx context.Context, tag int32, unlinks map[int32][]id.DistributedId) error {
	m := (*Mode[T])(f)
	send := make(map[int32][]byte, len(unlinks))
	for dest, ids := range unlinks {
		send[dest] = encodeIDs(ids)
	}
	recv, err := m.comm.AllToAll(ctx, tag, send)
	if err != nil {
		return err
	}
	for _, body := range recv {
		ids, err := decodeIDs(body)
		if err != nil {
			return err
		}
		for _, eid := range ids {
			if err := m.host.LocalUnlink(eid); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *linkFlusher[T]) flushLinks(ctx context.Context, tag int32, links map[int32][]linkMsg) error {
	m := (*Mode[T])(f)
	send := make(map[int32][]byte, len(links))
	for dest, msgs := range links {
		send[dest] = encodeLinks[T](msgs)
	}
	recv, err := m.comm.AllToAll(ctx, tag, send)
	if err != nil {
		return err
	}
	for _, body := range recv {
		msgs, err := decodeLinks(body)
		if err != nil {
			return err
		}
		for _, l := range msgs {
			src := datapack.NewTemporaryNode[T](l.SrcID, l.SrcLoc, datapack.Parse(l.SrcPayload))
			tgt := datapack.NewTemporaryNode[T](l.TgtID, l.TgtLoc, datapack.Parse(l.TgtPayload))
			if err := m.host.ImportEdge(l.EdgeID, int(l.Layer), l.Weight, src, tgt); err != nil {
				return err
			}
		}
	}
	return nil
}

// dataFlusher refreshes every DISTANT node's cached data from its
// current owner in two AllToAll rounds: a batched request per
// destination, then a batched response per destination.
type dataFlusher[T any] Mode[T]

func (f *dataFlusher[T]) Synchronize(ctx context.Context) error {
	m := (*Mode[T])(f)

	byOwner := make(map[int32][]id.DistributedId)
	for _, n := range m.host.DistantNodes() {
		byOwner[n.Location] = append(byOwner[n.Location], n.Id)
	}

	requestTag := mpi.EpochTag(mpi.PurposeGhostDataSync, m.dataEpoch)
	responseTag := mpi.EpochTag(mpi.PurposeGhostDataSync, m.dataEpoch+1)
	m.dataEpoch += 2

	requests := make(map[int32][]byte, len(byOwner))
	for dest, ids := range byOwner {
		requests[dest] = encodeIDs(ids)
	}
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
		entries := make([]refreshEntry[T], 0, len(ids))
		for _, nid := range ids {
			data, weight, ok := m.host.NodeData(nid)
			if !ok {
				continue
			}
			entries = append(entries, refreshEntry[T]{ID: nid, Weight: weight, Data: data})
		}
		responses[src] = encodeRefreshEntries(entries)
	}
	answers, err := m.comm.AllToAll(ctx, responseTag, responses)
	if err != nil {
		return err
	}

	for _, body := range answers {
		entries, err := decodeRefreshEntries[T](body)
		if err != nil {
			return err
		}
		for _, e := range entries {
			m.host.SetDistantData(e.ID, e.Data, e.Weight)
		}
	}
	return nil
}
