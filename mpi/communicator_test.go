package mpi_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/stretchr/testify/require"
)

func TestSendRecvValueRoundTrip(t *testing.T) {
	comms := mpi.NewLocalCluster(2)
	ctx := context.Background()

	want := id.New(1, 77)
	require.NoError(t, mpi.SendValue(comms[0], 1, 3, want))

	got, status, err := mpi.RecvValue[id.DistributedId](ctx, comms[1], 0, 3)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, int32(0), status.Source)
}

func TestIssendValueCompletesAfterRecv(t *testing.T) {
	comms := mpi.NewLocalCluster(2)
	ctx := context.Background()

	req, err := mpi.IssendValue(comms[0], 1, 4, "hello")
	require.NoError(t, err)

	got, _, err := mpi.RecvValue[string](ctx, comms[1], 0, 4)
	require.NoError(t, err)
	require.Equal(t, "hello", got)
	require.NoError(t, req.Wait())
}

func TestIprobeReportsWithoutConsuming(t *testing.T) {
	comms := mpi.NewLocalCluster(2)
	ctx := context.Background()

	_, ready := comms[1].Iprobe(0, 5)
	require.False(t, ready)

	require.NoError(t, mpi.SendValue(comms[0], 1, 5, "peek me"))

	status, ready := comms[1].Iprobe(0, 5)
	require.True(t, ready)
	require.Equal(t, int32(0), status.Source)

	// Iprobe never consumes: the message is still there for Recv.
	got, _, err := mpi.RecvValue[string](ctx, comms[1], 0, 5)
	require.NoError(t, err)
	require.Equal(t, "peek me", got)
}

func TestIRecvValueCompletesAfterSend(t *testing.T) {
	comms := mpi.NewLocalCluster(2)
	ctx := context.Background()

	req := mpi.IRecvValue[string](comms[1], 0, 6)

	ready, _, _, err := req.Test()
	require.NoError(t, err)
	require.False(t, ready)

	require.NoError(t, mpi.SendValue(comms[0], 1, 6, "async hello"))

	got, _, err := req.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "async hello", got)
}
