package distributed_test

import (
	"context"

	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/syncmode"
)

// fakeMutex is the simplest possible graph.Mutex: no real exclusion,
// just enough to satisfy Link/Unlink's LockShared/UnlockShared calls.
// Good enough for distributed package tests, which exercise the graph
// and migration logic, not a specific synchronization mode's locking
// semantics (those are covered in sync/ghost and sync/hard).
type fakeMutex[T any] struct{ data T }

func (m *fakeMutex[T]) Read() (T, error)         { return m.data, nil }
func (m *fakeMutex[T]) Acquire() (T, error)      { return m.data, nil }
func (m *fakeMutex[T]) Release(v T) error        { m.data = v; return nil }
func (m *fakeMutex[T]) LockShared() error        { return nil }
func (m *fakeMutex[T]) UnlockShared() error      { return nil }

// fakeMode is a no-op synchronization mode: it buffers nothing and
// flushes nothing, recording only what was buffered for assertions.
type fakeMode[T any] struct {
	linked   []id.DistributedId
	unlinked []id.DistributedId
	removed  []id.DistributedId
}

func (m *fakeMode[T]) NewMutex(id.DistributedId) graph.Mutex[T] { return &fakeMutex[T]{} }
func (m *fakeMode[T]) BufferLink(e *graph.Edge[T])              { m.linked = append(m.linked, e.Id) }
func (m *fakeMode[T]) BufferUnlink(e *graph.Edge[T])            { m.unlinked = append(m.unlinked, e.Id) }
func (m *fakeMode[T]) BufferRemoveNode(nid id.DistributedId, _ int32) {
	m.removed = append(m.removed, nid)
}
func (m *fakeMode[T]) SyncLinker() syncmode.Flusher { return noopFlusher{} }
func (m *fakeMode[T]) DataSync() syncmode.Flusher   { return noopFlusher{} }
func (m *fakeMode[T]) Pump(context.Context) error   { return nil }

type noopFlusher struct{}

func (noopFlusher) Synchronize(context.Context) error { return nil }
