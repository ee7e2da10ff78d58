package distributed_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/fpmgraph/distributed"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/stretchr/testify/require"
)

// runOnAll runs fn concurrently for every rank and fails the test on the
// first error any rank returns — Distribute and UpdateLocations are
// synchronous collectives, so every rank must call in together.
func runOnAll(t *testing.T, n int, fn func(r int) error) {
	t.Helper()
	errs := make(chan error, n)
	for r := 0; r < n; r++ {
		r := r
		go func() { errs <- fn(r) }()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}
}

// TestDistributeMovesNodeAndLeavesGhost exercises scenario S1: a node
// migrated from rank 0 to rank 1 becomes LOCAL on rank 1 and a DISTANT
// ghost on rank 0, with its cross-rank edge surviving the move.
func TestDistributeMovesNodeAndLeavesGhost(t *testing.T) {
	comms := mpi.NewLocalCluster(2)
	mode0, mode1 := &fakeMode[string]{}, &fakeMode[string]{}
	dg0 := distributed.New[string](comms[0], mode0)
	dg1 := distributed.New[string](comms[1], mode1)

	home, err := dg0.BuildNode("home")
	require.NoError(t, err)
	anchor, err := dg1.BuildNode("anchor")
	require.NoError(t, err)

	// Rank 0 already holds a ghost of rank 1's anchor (as if imported by
	// a prior Distribute round), so home can be linked to it before the
	// migration under test.
	ghostAnchor := newGhost(t, dg0, mode0, anchor.Id.Counter, "anchor", 1)
	_, err = dg0.Link(home, ghostAnchor, 0, 1.0)
	require.NoError(t, err)

	ctx := context.Background()
	partitionOnRank0 := map[id.DistributedId]int32{home.Id: 1}
	partitionOnRank1 := map[id.DistributedId]int32{}

	runOnAll(t, 2, func(r int) error {
		if r == 0 {
			return dg0.Distribute(ctx, partitionOnRank0)
		}
		return dg1.Distribute(ctx, partitionOnRank1)
	})

	movedOnRank1, err := dg1.NodeByID(home.Id)
	require.NoError(t, err)
	require.Equal(t, graph.Local, movedOnRank1.State)
	require.Equal(t, "home", movedOnRank1.Data)

	ghostOnRank0, err := dg0.NodeByID(home.Id)
	require.NoError(t, err)
	require.Equal(t, graph.Distant, ghostOnRank0.State)

	// Rank 1 now has its own LOCAL anchor linked to a LOCAL home, so the
	// edge that crossed ranks with home should resolve to fully LOCAL.
	var moved *graph.Edge[string]
	for _, e := range movedOnRank1.OutEdges(0) {
		moved = e
	}
	require.NotNil(t, moved)
	require.Equal(t, graph.Local, moved.State)
}

// TestDistributeUpdatesLocationAfterSecondHop exercises property #1/#3: a
// node migrated twice (rank 0 -> rank 1 -> rank 2) leaves every earlier
// ghost holder able to resolve its current location via UpdateLocations.
func TestDistributeUpdatesLocationAfterSecondHop(t *testing.T) {
	comms := mpi.NewLocalCluster(3)
	modes := make([]*fakeMode[string], 3)
	dgs := make([]*distributed.Graph[string], 3)
	for r := range dgs {
		modes[r] = &fakeMode[string]{}
		dgs[r] = distributed.New[string](comms[r], modes[r])
	}

	wanderer, err := dgs[0].BuildNode("wanderer")
	require.NoError(t, err)

	ctx := context.Background()

	// Hop 1: rank 0 -> rank 1.
	runOnAll(t, 3, func(r int) error {
		p := map[id.DistributedId]int32{}
		if r == 0 {
			p[wanderer.Id] = 1
		}
		return dgs[r].Distribute(ctx, p)
	})

	onRank1, err := dgs[1].NodeByID(wanderer.Id)
	require.NoError(t, err)
	require.Equal(t, graph.Local, onRank1.State)

	// Hop 2: rank 1 -> rank 2.
	runOnAll(t, 3, func(r int) error {
		p := map[id.DistributedId]int32{}
		if r == 1 {
			p[wanderer.Id] = 2
		}
		return dgs[r].Distribute(ctx, p)
	})

	onRank2, err := dgs[2].NodeByID(wanderer.Id)
	require.NoError(t, err)
	require.Equal(t, graph.Local, onRank2.State)

	// Rank 0 is wanderer's origin and still remembers it as a (now stale)
	// managed entry; a further UpdateLocations round must resolve it to
	// rank 2 without any ghost having to exist on rank 0.
	loc, ok := dgs[0].Locations().ManagedLocation(wanderer.Id)
	require.True(t, ok)
	require.Equal(t, int32(2), loc)
}
