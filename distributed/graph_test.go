package distributed_test

import (
	"testing"

	"github.com/katalvlaran/fpmgraph/distributed"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/stretchr/testify/require"
)

func TestBuildNodeRegistersLocalAndManaged(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	dg := distributed.New[string](comms[0], &fakeMode[string]{})

	n, err := dg.BuildNode("alpha")
	require.NoError(t, err)
	require.Equal(t, graph.Local, n.State)
	require.Equal(t, int32(0), n.Location)

	got, err := dg.NodeByID(n.Id)
	require.NoError(t, err)
	require.Same(t, n, got)

	loc, ok := dg.Locations().ManagedLocation(n.Id)
	require.True(t, ok)
	require.Equal(t, int32(0), loc)
}

func TestLinkBetweenLocalNodesStaysLocal(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	mode := &fakeMode[string]{}
	dg := distributed.New[string](comms[0], mode)

	a, _ := dg.BuildNode("a")
	b, _ := dg.BuildNode("b")

	e, err := dg.Link(a, b, 0, 1.0)
	require.NoError(t, err)
	require.Equal(t, graph.Local, e.State)
	require.Empty(t, mode.linked, "a link between two LOCAL nodes must not be buffered for propagation")
}

// newGhost installs a ready-to-use DISTANT placeholder node directly
// (bypassing the migration pipeline, which is exercised separately), so
// Link/Unlink/RemoveNode tests can exercise a DISTANT endpoint without
// spinning up a second process.
func newGhost(t *testing.T, dg *distributed.Graph[string], mode *fakeMode[string], counter uint64, data string, owner int32) *graph.Node[string] {
	t.Helper()
	nid := id.New(owner, counter)
	ghost := graph.NewDistantNode(nid, data, owner)
	ghost.Mutex = mode.NewMutex(nid)
	require.NoError(t, dg.Underlying().InsertNode(ghost))
	dg.Locations().SetDistant(ghost, owner)
	return ghost
}

func TestLinkWithDistantEndpointBuffers(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	mode := &fakeMode[string]{}
	dg := distributed.New[string](comms[0], mode)

	a, _ := dg.BuildNode("a")
	ghost := newGhost(t, dg, mode, 99, "ghost-data", 1)

	e, err := dg.Link(a, ghost, 0, 1.0)
	require.NoError(t, err)
	require.Equal(t, graph.Distant, e.State)
	require.Len(t, mode.linked, 1)
	require.Equal(t, e.Id, mode.linked[0])
}

func TestUnlinkClearsOrphanedGhost(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	mode := &fakeMode[string]{}
	dg := distributed.New[string](comms[0], mode)

	a, _ := dg.BuildNode("a")
	ghost := newGhost(t, dg, mode, 100, "ghost-data", 1)

	e, err := dg.Link(a, ghost, 0, 1.0)
	require.NoError(t, err)

	require.NoError(t, dg.Unlink(e))
	require.Len(t, mode.unlinked, 1)

	_, ok := dg.Locations().DistantNode(ghost.Id)
	require.False(t, ok, "an orphaned DISTANT endpoint must be cleared after its last incident edge is removed")
	require.False(t, dg.Underlying().HasNode(ghost.Id))
}

func TestRemoveNodeForwardsForDistant(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	mode := &fakeMode[string]{}
	dg := distributed.New[string](comms[0], mode)

	ghost := newGhost(t, dg, mode, 200, "ghost-data", 1)

	require.NoError(t, dg.RemoveNode(ghost))
	require.Len(t, mode.removed, 1)
	require.Equal(t, ghost.Id, mode.removed[0])
	require.True(t, dg.Underlying().HasNode(ghost.Id), "a DISTANT node is only forwarded, not erased locally")
}

func TestRemoveNodeErasesLocal(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	dg := distributed.New[string](comms[0], &fakeMode[string]{})

	n, _ := dg.BuildNode("solo")
	require.NoError(t, dg.RemoveNode(n))
	require.False(t, dg.Underlying().HasNode(n.Id))

	_, err := dg.NodeByID(n.Id)
	require.Error(t, err)
}

func TestCallbacksForwardToUnderlyingGraph(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	dg := distributed.New[string](comms[0], &fakeMode[string]{})

	var insertedNodes, erasedNodes []id.DistributedId
	var insertedEdges, erasedEdges []id.DistributedId
	dg.AddCallOnInsertNode(func(n *graph.Node[string]) { insertedNodes = append(insertedNodes, n.Id) })
	dg.AddCallOnEraseNode(func(n *graph.Node[string]) { erasedNodes = append(erasedNodes, n.Id) })
	dg.AddCallOnInsertEdge(func(e *graph.Edge[string]) { insertedEdges = append(insertedEdges, e.Id) })
	dg.AddCallOnEraseEdge(func(e *graph.Edge[string]) { erasedEdges = append(erasedEdges, e.Id) })

	a, _ := dg.BuildNode("a")
	b, _ := dg.BuildNode("b")
	require.Equal(t, []id.DistributedId{a.Id, b.Id}, insertedNodes)

	e, err := dg.Link(a, b, 0, 1.0)
	require.NoError(t, err)
	require.Equal(t, []id.DistributedId{e.Id}, insertedEdges)

	require.NoError(t, dg.Unlink(e))
	require.Equal(t, []id.DistributedId{e.Id}, erasedEdges)

	require.NoError(t, dg.RemoveNode(a))
	require.Equal(t, []id.DistributedId{a.Id}, erasedNodes)
}

func TestImportNodeUpgradesExistingGhost(t *testing.T) {
	comms := mpi.NewLocalCluster(1)
	mode := &fakeMode[string]{}
	dg := distributed.New[string](comms[0], mode)

	ghost := newGhost(t, dg, mode, 300, "stale", 1)

	fresh := graph.NewLocalNode(ghost.Id, "fresh")
	dg.ImportNode(fresh)

	got, err := dg.NodeByID(ghost.Id)
	require.NoError(t, err)
	require.Equal(t, graph.Local, got.State)
	require.Equal(t, "fresh", got.Data)
}
