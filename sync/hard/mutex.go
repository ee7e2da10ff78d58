package hard

import (
	"context"

	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
)

// mutex is hard mode's graph.Mutex: every operation resolves to a
// request against whichever rank currently holds nid's LOCAL copy,
// including this process's own LOCAL nodes (so a remote Acquire still
// excludes this process's own local access). Holds only nid, never a
// pointer back to its node, so a remote remove or relocation is never
// observed as a stale pointer.
type mutex[T any] struct {
	nid  id.DistributedId
	mode *Mode[T]
}

func (m *mutex[T]) owner() int32 {
	if owner, ok := m.mode.host.DistantNodeOwner(m.nid); ok {
		return owner
	}
	return m.mode.self
}

func (m *mutex[T]) Read() (T, error) {
	var zero T
	resp, err := m.mode.request(context.Background(), m.owner(), mpi.PurposeHardSyncRead, kindReadReq, m.nid, nil)
	if err != nil {
		return zero, err
	}
	return decodePayload[T](resp.Data)
}

func (m *mutex[T]) Acquire() (T, error) {
	var zero T
	resp, err := m.mode.request(context.Background(), m.owner(), mpi.PurposeHardSyncAcquire, kindAcquireReq, m.nid, nil)
	if err != nil {
		return zero, err
	}
	return decodePayload[T](resp.Data)
}

func (m *mutex[T]) Release(newData T) error {
	owner := m.owner()
	body := encodeHardMsg(hardMsg{Kind: kindReleaseAcquire, NID: m.nid, Requester: m.mode.self, Data: encodePayload(newData)})
	tag := mpi.EpochTag(mpi.PurposeHardSyncRelease, m.mode.nextEpoch())
	if owner == m.mode.self {
		msg, err := decodeHardMsg(body)
		if err != nil {
			return err
		}
		return m.mode.applyReleaseAcquire(msg)
	}
	return m.mode.send(owner, tag, body)
}

func (m *mutex[T]) LockShared() error {
	_, err := m.mode.request(context.Background(), m.owner(), mpi.PurposeHardSyncAcquire, kindLockSharedReq, m.nid, nil)
	return err
}

func (m *mutex[T]) UnlockShared() error {
	owner := m.owner()
	body := encodeHardMsg(hardMsg{Kind: kindUnlockShared, NID: m.nid, Requester: m.mode.self})
	tag := mpi.EpochTag(mpi.PurposeHardSyncRelease, m.mode.nextEpoch())
	if owner == m.mode.self {
		msg, err := decodeHardMsg(body)
		if err != nil {
			return err
		}
		m.mode.applyUnlockShared(msg)
		return nil
	}
	return m.mode.send(owner, tag, body)
}
