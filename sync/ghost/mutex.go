package ghost

import (
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/syncmode"
)

// mutex is ghost mode's graph.Mutex: it never blocks. LockShared and
// UnlockShared are no-ops (ghost mode never excludes concurrent local
// access), and Read/Acquire/Release all resolve through the host's
// current view of the node, LOCAL or DISTANT — a DISTANT read simply
// returns whatever the last dataSync.Synchronize pulled in. It holds
// only the node's id, never a pointer back to the node itself, so a
// host-side remove or relocation is never observed as a stale pointer.
type mutex[T any] struct {
	nid  id.DistributedId
	host syncmode.Host[T]
}

func newMutex[T any](host syncmode.Host[T]) func(id.DistributedId) graph.Mutex[T] {
	return func(nid id.DistributedId) graph.Mutex[T] {
		return &mutex[T]{nid: nid, host: host}
	}
}

func (m *mutex[T]) Read() (T, error) {
	data, _, ok := m.host.NodeData(m.nid)
	if !ok {
		var zero T
		return zero, errNoSuchNode(m.nid)
	}
	return data, nil
}

func (m *mutex[T]) Acquire() (T, error) {
	return m.Read()
}

func (m *mutex[T]) Release(newData T) error {
	_, weight, ok := m.host.NodeData(m.nid)
	if !ok {
		return errNoSuchNode(m.nid)
	}
	if !m.host.SetNodeData(m.nid, newData, weight) {
		return errNoSuchNode(m.nid)
	}
	return nil
}

func (m *mutex[T]) LockShared() error   { return nil }
func (m *mutex[T]) UnlockShared() error { return nil }
