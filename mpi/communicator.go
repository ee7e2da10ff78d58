package mpi

import (
	"context"

	"github.com/katalvlaran/fpmgraph/datapack"
)

// Status describes a completed or probed receive: which rank the message
// came from, under what tag, and how many bytes it carries.
type Status struct {
	Source int32
	Tag    int32
	Count  int
}

// Communicator is the cluster's abstraction over point-to-point and
// collective message passing. Payloads travel as
// raw bytes — the output of datapack.ObjectPack.Dump — so Communicator
// itself stays free of the type parameter T; SendValue/RecvValue below
// are the generic convenience wrappers callers actually reach for.
//
// Every blocking method honors ctx cancellation: a cancelled context
// unblocks a pending Recv/Probe/AllToAll/Barrier with ctx.Err(). IRecv
// and Iprobe never block the caller in the first place, so they take no
// ctx; IRecv's returned *RecvRequest takes one on Wait instead.
type Communicator interface {
	// Rank returns this process's rank in [0, Size()).
	Rank() int32
	// Size returns the number of processes in the cluster.
	Size() int32

	// Send is a buffered, asynchronous point-to-point send: it returns
	// once data is queued for delivery, without waiting for the peer to
	// receive it.
	Send(dest int32, tag int32, data []byte) error

	// Issend is a synchronous send: the returned Request's Wait does not
	// complete until the destination has posted a matching receive. Used
	// wherever termination detection correctness depends on knowing a
	// send has actually been handed off.
	Issend(dest int32, tag int32, data []byte) (*Request, error)

	// Recv blocks until a message matching (source, tag) arrives, or ctx
	// is done. Use RankAny/TagAny as wildcards.
	Recv(ctx context.Context, source int32, tag int32) ([]byte, Status, error)

	// IRecv is Recv's non-blocking counterpart: it returns immediately
	// with a *RecvRequest the caller polls (Test) or blocks on (Wait)
	// whenever it is ready to, instead of suspending the calling
	// goroutine for the duration of the wait.
	IRecv(source int32, tag int32) *RecvRequest

	// Probe blocks until a message matching (source, tag) is available
	// to receive, without consuming it.
	Probe(ctx context.Context, source int32, tag int32) (Status, error)

	// Iprobe is Probe's non-blocking counterpart: it reports immediately
	// whether a message matching (source, tag) is already available to
	// receive, without consuming it and without waiting for one to
	// arrive.
	Iprobe(source int32, tag int32) (Status, bool)

	// AllToAll is the full collective exchange: every rank in [0, Size())
	// must call it under the same tag. sendTo[r] is delivered to rank r;
	// ranks absent from sendTo receive a zero-length message. The result
	// maps every rank in [0, Size()) back to what it sent this process
	// (zero-length if it sent nothing). Because every rank receives from
	// every rank, AllToAll never requires the caller to know in advance
	// which peers will actually have something to say — that asymmetry
	// is exactly why this is a full collective rather than a sparse
	// personalized exchange over a caller-chosen peer subset.
	AllToAll(ctx context.Context, tag int32, sendTo map[int32][]byte) (map[int32][]byte, error)

	// Barrier blocks until every rank in the cluster has called Barrier.
	Barrier(ctx context.Context) error

	// Close releases resources backing the communicator. Afterwards a
	// receive or probe on it that finds no queued match, and any send
	// addressed to it, fail with fpmaserr.ErrMpi.
	Close() error
}

// RankAny and TagAny are wildcard values accepted by Recv/Probe in place
// of a specific source rank or tag.
const (
	RankAny int32 = -1
	TagAny  int32 = -1
)

// SendValue serializes v via its registered datapack.Serializer and sends
// it with Send.
func SendValue[T any](c Communicator, dest int32, tag int32, v T) error {
	p := datapack.NewObjectPack()
	if err := datapack.Put(p, v); err != nil {
		return err
	}
	return c.Send(dest, tag, p.Dump())
}

// IssendValue serializes v and sends it with Issend.
func IssendValue[T any](c Communicator, dest int32, tag int32, v T) (*Request, error) {
	p := datapack.NewObjectPack()
	if err := datapack.Put(p, v); err != nil {
		return nil, err
	}
	return c.Issend(dest, tag, p.Dump())
}

// RecvValue blocks for a matching message and deserializes it as T.
func RecvValue[T any](ctx context.Context, c Communicator, source int32, tag int32) (T, Status, error) {
	var zero T
	b, status, err := c.Recv(ctx, source, tag)
	if err != nil {
		return zero, status, err
	}
	v, err := datapack.Get[T](datapack.Parse(b))
	if err != nil {
		return zero, status, err
	}
	return v, status, nil
}

// IRecvValueRequest wraps a *RecvRequest with T's deserialization,
// returned by IRecvValue.
type IRecvValueRequest[T any] struct {
	req *RecvRequest
}

// Wait blocks until the matching message arrives and deserializes it as T.
func (r *IRecvValueRequest[T]) Wait(ctx context.Context) (T, Status, error) {
	var zero T
	b, status, err := r.req.Wait(ctx)
	if err != nil {
		return zero, status, err
	}
	v, err := datapack.Get[T](datapack.Parse(b))
	if err != nil {
		return zero, status, err
	}
	return v, status, nil
}

// Test reports whether Wait would return immediately, without blocking;
// if so it also returns the deserialized message.
func (r *IRecvValueRequest[T]) Test() (bool, T, Status, error) {
	var zero T
	ready, b, status, err := r.req.Test()
	if !ready || err != nil {
		return ready, zero, status, err
	}
	v, err := datapack.Get[T](datapack.Parse(b))
	if err != nil {
		return true, zero, status, err
	}
	return true, v, status, nil
}

// IRecvValue issues a non-blocking receive and returns a handle that
// deserializes the eventual payload as T.
func IRecvValue[T any](c Communicator, source int32, tag int32) *IRecvValueRequest[T] {
	return &IRecvValueRequest[T]{req: c.IRecv(source, tag)}
}
