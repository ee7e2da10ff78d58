package hard

import (
	"context"
	"sync"

	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/katalvlaran/fpmgraph/syncmode"
)

// Mode is the hard synchronization mode. It satisfies
// syncmode.Mode[T]; wire it to a distributed.Graph with the same
// two-phase construction sync/ghost.Mode needs (New, then SetHost once
// the graph exists).
type Mode[T any] struct {
	comm mpi.Communicator
	self int32
	host syncmode.Host[T]

	muLocks sync.Mutex
	locks   map[id.DistributedId]*lockState

	muWaiters sync.Mutex
	waiters   map[int32]chan hardMsg

	muRecv sync.Mutex // serializes drainOne: one logical thread of control per rank

	muEpoch sync.Mutex
	epoch   int32

	term *terminationDetector
}

// New builds a hard Mode for comm. SetHost must be called once the
// owning distributed.Graph exists, before any lock operation runs.
func New[T any](comm mpi.Communicator) *Mode[T] {
	m := &Mode[T]{
		comm:    comm,
		self:    comm.Rank(),
		locks:   make(map[id.DistributedId]*lockState),
		waiters: make(map[int32]chan hardMsg),
	}
	m.term = newTerminationDetector(comm)
	return m
}

// SetHost wires the callback target this mode forwards received
// operations to.
func (m *Mode[T]) SetHost(host syncmode.Host[T]) {
	m.host = host
}

// send wraps comm.Send with the termination detector's bookkeeping: a
// message sent to a numerically lower rank marks this rank active for
// the current token-ring pass.
func (m *Mode[T]) send(dest int32, tag int32, body []byte) error {
	m.term.markActive(dest)
	return m.comm.Send(dest, tag, body)
}

func (m *Mode[T]) nextEpoch() int32 {
	m.muEpoch.Lock()
	defer m.muEpoch.Unlock()
	e := m.epoch
	m.epoch += 2
	return e
}

func (m *Mode[T]) lockStateFor(nid id.DistributedId) *lockState {
	m.muLocks.Lock()
	defer m.muLocks.Unlock()
	ls, ok := m.locks[nid]
	if !ok {
		ls = newLockState()
		m.locks[nid] = ls
	}
	return ls
}

// NewMutex implements syncmode.MutexFactory.
func (m *Mode[T]) NewMutex(nid id.DistributedId) graph.Mutex[T] {
	return &mutex[T]{nid: nid, mode: m}
}

// BufferLink implements syncmode.Mode: hard sync has no batch flush —
// a link touching a DISTANT endpoint is forwarded to that endpoint's
// owner immediately, as a one-way notification.
func (m *Mode[T]) BufferLink(e *graph.Edge[T]) {
	payload := linkPayload{
		EdgeID: e.Id, Layer: int32(e.Layer), Weight: e.Weight,
		SrcID: e.Src.Id, SrcLoc: e.Src.Location, SrcPayload: encodePayload(e.Src.Data),
		TgtID: e.Tgt.Id, TgtLoc: e.Tgt.Location, TgtPayload: encodePayload(e.Tgt.Data),
	}
	body := encodeHardMsg(hardMsg{Kind: kindLink, Requester: m.self, Data: encodeLinkPayload(payload)})
	for _, n := range [2]*graph.Node[T]{e.Src, e.Tgt} {
		if n.State != graph.Distant {
			continue
		}
		tag := mpi.EpochTag(mpi.PurposeHardSyncRelease, m.nextEpoch())
		_ = m.send(n.Location, tag, body)
	}
}

// BufferUnlink implements syncmode.Mode.
func (m *Mode[T]) BufferUnlink(e *graph.Edge[T]) {
	body := encodeHardMsg(hardMsg{Kind: kindUnlink, NID: e.Id, Requester: m.self})
	for _, n := range [2]*graph.Node[T]{e.Src, e.Tgt} {
		if n.State != graph.Distant {
			continue
		}
		tag := mpi.EpochTag(mpi.PurposeHardSyncRelease, m.nextEpoch())
		_ = m.send(n.Location, tag, body)
	}
}

// BufferRemoveNode implements syncmode.Mode.
func (m *Mode[T]) BufferRemoveNode(nid id.DistributedId, owner int32) {
	body := encodeHardMsg(hardMsg{Kind: kindRemoveNode, NID: nid, Requester: m.self})
	tag := mpi.EpochTag(mpi.PurposeHardSyncRelease, m.nextEpoch())
	_ = m.send(owner, tag, body)
}

// noopFlusher satisfies syncmode.Flusher for the two spots hard sync has
// nothing to batch: operations propagate immediately (SyncLinker) and
// reads always fetch live data on demand rather than a cached refresh
// (DataSync).
type noopFlusher struct{}

func (noopFlusher) Synchronize(context.Context) error { return nil }

// SyncLinker implements syncmode.Mode.
func (m *Mode[T]) SyncLinker() syncmode.Flusher { return noopFlusher{} }

// DataSync implements syncmode.Mode.
func (m *Mode[T]) DataSync() syncmode.Flusher { return noopFlusher{} }

// Pump implements syncmode.Mode: blocks until one incoming message
// arrives (or ctx is done) and dispatches it.
func (m *Mode[T]) Pump(ctx context.Context) error {
	_, err := m.drainOne(ctx)
	return err
}

// registerWaiter installs a one-shot channel keyed by respTag, for
// request() to block on until handleIncoming delivers the matching
// response (possibly from this very process, for a self-targeted
// request).
func (m *Mode[T]) registerWaiter(tag int32) chan hardMsg {
	ch := make(chan hardMsg, 1)
	m.muWaiters.Lock()
	m.waiters[tag] = ch
	m.muWaiters.Unlock()
	return ch
}

func (m *Mode[T]) unregisterWaiter(tag int32) {
	m.muWaiters.Lock()
	delete(m.waiters, tag)
	m.muWaiters.Unlock()
}

func (m *Mode[T]) deliverToWaiter(tag int32, msg hardMsg) bool {
	m.muWaiters.Lock()
	ch, ok := m.waiters[tag]
	m.muWaiters.Unlock()
	if !ok {
		return false
	}
	ch <- msg
	return true
}

// reply sends msg to requester on respTag, routing through the local
// waiters map directly when requester is this process (no network hop
// needed for a rank's own request against its own LOCAL node).
func (m *Mode[T]) reply(requester int32, respTag int32, msg hardMsg) error {
	if requester == m.self {
		m.deliverToWaiter(respTag, msg)
		return nil
	}
	return m.send(requester, respTag, encodeHardMsg(msg))
}

// request issues a request for nid against whichever rank holds its
// LOCAL copy (owner), pumping unrelated incoming traffic while it waits
// for the matching response — never a silent block.
func (m *Mode[T]) request(ctx context.Context, owner int32, purpose mpi.Purpose, kind wireKind, nid id.DistributedId, data []byte) (hardMsg, error) {
	e := m.nextEpoch()
	reqTag := mpi.EpochTag(purpose, e)
	respTag := mpi.EpochTag(purpose, e+1)

	ch := m.registerWaiter(respTag)
	defer m.unregisterWaiter(respTag)

	req := hardMsg{Kind: kind, NID: nid, Requester: m.self, RespTag: respTag, Data: data}
	if owner == m.self {
		m.handleRequest(req)
	} else if err := m.send(owner, reqTag, encodeHardMsg(req)); err != nil {
		return hardMsg{}, err
	}

	for {
		select {
		case resp := <-ch:
			return resp, nil
		case <-ctx.Done():
			return hardMsg{}, ctx.Err()
		default:
		}
		if _, err := m.drainOne(ctx); err != nil {
			return hardMsg{}, err
		}
		select {
		case resp := <-ch:
			return resp, nil
		default:
		}
	}
}

// drainOne receives exactly one pending message for this rank and
// dispatches it: to a registered waiter if it is a response this
// process itself is blocked on, otherwise to handleRequest/handleNotify.
func (m *Mode[T]) drainOne(ctx context.Context) (bool, error) {
	m.muRecv.Lock()
	defer m.muRecv.Unlock()

	body, status, err := m.comm.Recv(ctx, mpi.RankAny, mpi.TagAny)
	if err != nil {
		return false, err
	}
	if m.term.isTerminationTag(status.Tag) {
		return true, m.term.handle(status.Tag, body)
	}
	msg, err := decodeHardMsg(body)
	if err != nil {
		return false, err
	}
	if m.deliverToWaiter(status.Tag, msg) {
		return true, nil
	}
	return true, m.handleIncoming(msg)
}

// handleIncoming routes a freshly received message to the request path
// (owner-side lock bookkeeping) or the notification path (forwarded
// graph operations, and release/unlock signals).
func (m *Mode[T]) handleIncoming(msg hardMsg) error {
	switch msg.Kind {
	case kindReadReq, kindAcquireReq, kindLockSharedReq:
		m.handleRequest(msg)
		return nil
	case kindReleaseAcquire:
		return m.applyReleaseAcquire(msg)
	case kindUnlockShared:
		m.applyUnlockShared(msg)
		return nil
	case kindRemoveNode:
		return m.host.LocalRemoveNode(msg.NID)
	case kindUnlink:
		return m.host.LocalUnlink(msg.NID)
	case kindLink:
		return m.applyLink(msg)
	default:
		return errUnexpectedKind(msg.Kind)
	}
}

func (m *Mode[T]) handleRequest(req hardMsg) {
	ls := m.lockStateFor(req.NID)
	var kind grantKind
	switch req.Kind {
	case kindReadReq:
		kind = grantRead
	case kindAcquireReq:
		kind = grantExclusive
	case kindLockSharedReq:
		kind = grantShared
	}
	ls.enqueue(pendingGrant{rank: req.Requester, respTag: req.RespTag, kind: kind}, func(g pendingGrant) {
		switch req.Kind {
		case kindReadReq:
			data, _, _ := m.host.NodeData(req.NID)
			_ = m.reply(g.rank, g.respTag, hardMsg{Kind: kindReadResp, NID: req.NID, Data: encodePayload(data)})
		case kindAcquireReq:
			data, _, _ := m.host.NodeData(req.NID)
			_ = m.reply(g.rank, g.respTag, hardMsg{Kind: kindAcquireResp, NID: req.NID, Data: encodePayload(data)})
		case kindLockSharedReq:
			_ = m.reply(g.rank, g.respTag, hardMsg{Kind: kindLockSharedResp, NID: req.NID})
		}
	})
}

func (m *Mode[T]) applyReleaseAcquire(msg hardMsg) error {
	data, err := decodePayload[T](msg.Data)
	if err != nil {
		return err
	}
	_, weight, _ := m.host.NodeData(msg.NID)
	m.host.SetNodeData(msg.NID, data, weight)
	ls := m.lockStateFor(msg.NID)
	ls.releaseExclusive(func(g pendingGrant) { m.grantQueued(msg.NID, g) })
	return nil
}

func (m *Mode[T]) applyUnlockShared(msg hardMsg) {
	ls := m.lockStateFor(msg.NID)
	ls.releaseShared(msg.Requester, func(g pendingGrant) { m.grantQueued(msg.NID, g) })
}

func (m *Mode[T]) grantQueued(nid id.DistributedId, g pendingGrant) {
	switch g.kind {
	case grantRead:
		data, _, _ := m.host.NodeData(nid)
		_ = m.reply(g.rank, g.respTag, hardMsg{Kind: kindReadResp, NID: nid, Data: encodePayload(data)})
	case grantShared:
		_ = m.reply(g.rank, g.respTag, hardMsg{Kind: kindLockSharedResp, NID: nid})
	case grantExclusive:
		data, _, _ := m.host.NodeData(nid)
		_ = m.reply(g.rank, g.respTag, hardMsg{Kind: kindAcquireResp, NID: nid, Data: encodePayload(data)})
	}
}

func (m *Mode[T]) applyLink(msg hardMsg) error {
	l, err := decodeLinkPayload(msg.Data)
	if err != nil {
		return err
	}
	src := datapack.NewTemporaryNode[T](l.SrcID, l.SrcLoc, datapack.Parse(l.SrcPayload))
	tgt := datapack.NewTemporaryNode[T](l.TgtID, l.TgtLoc, datapack.Parse(l.TgtPayload))
	return m.host.ImportEdge(l.EdgeID, int(l.Layer), l.Weight, src, tgt)
}
