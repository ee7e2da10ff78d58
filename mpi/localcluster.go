package mpi

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// envelope is one queued message sitting in a localComm's mailbox.
type envelope struct {
	from int32
	tag  int32
	data []byte
	req  *Request // non-nil only if this envelope came from Issend
}

// localComm is one rank's view of a LocalCluster.
type localComm struct {
	rank int32
	cl   *LocalCluster

	mu      sync.Mutex
	mailbox []envelope
	notify  chan struct{} // closed and replaced whenever mailbox or closed changes
	closed  bool
}

// LocalCluster is an in-memory Communicator fleet backed by goroutines
// and channels: every rank in a LocalCluster shares one process, making
// it exercise exactly the same Communicator contract a real MPI binding
// would without requiring one. AllToAll uses golang.org/x/sync/errgroup
// to fan out and fan in across ranks; Barrier is a closing-channel
// countdown.
type LocalCluster struct {
	size  int32
	comms []*localComm

	barrierMu    sync.Mutex
	barrierCh    chan struct{}
	barrierCount int32
}

// NewLocalCluster builds a cluster of size communicating ranks and
// returns one Communicator per rank, indexed by rank.
func NewLocalCluster(size int32) []Communicator {
	cl := &LocalCluster{size: size, barrierCh: make(chan struct{})}
	cl.comms = make([]*localComm, size)
	for r := int32(0); r < size; r++ {
		cl.comms[r] = &localComm{rank: r, cl: cl, notify: make(chan struct{})}
	}
	out := make([]Communicator, size)
	for r := int32(0); r < size; r++ {
		out[r] = cl.comms[r]
	}
	return out
}

func (c *localComm) Rank() int32 { return c.rank }
func (c *localComm) Size() int32 { return c.cl.size }

func (c *localComm) enqueue(e envelope) error {
	if e.from < 0 || e.from >= c.cl.size {
		return errUnknownRank(e.from, c.cl.size)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errClosedCommunicator()
	}
	c.mailbox = append(c.mailbox, e)
	close(c.notify)
	c.notify = make(chan struct{})
	c.mu.Unlock()
	return nil
}

func (c *localComm) Send(dest int32, tag int32, data []byte) error {
	if dest < 0 || dest >= c.cl.size {
		return errUnknownRank(dest, c.cl.size)
	}
	return c.cl.comms[dest].enqueue(envelope{from: c.rank, tag: tag, data: data})
}

func (c *localComm) Issend(dest int32, tag int32, data []byte) (*Request, error) {
	if dest < 0 || dest >= c.cl.size {
		return nil, errUnknownRank(dest, c.cl.size)
	}
	req := newRequest()
	if err := c.cl.comms[dest].enqueue(envelope{from: c.rank, tag: tag, data: data, req: req}); err != nil {
		return nil, err
	}
	return req, nil
}

func matches(e envelope, source, tag int32) bool {
	return (source == RankAny || e.from == source) && (tag == TagAny || e.tag == tag)
}

func (c *localComm) Recv(ctx context.Context, source int32, tag int32) ([]byte, Status, error) {
	for {
		c.mu.Lock()
		for i, e := range c.mailbox {
			if matches(e, source, tag) {
				c.mailbox = append(c.mailbox[:i:i], c.mailbox[i+1:]...)
				c.mu.Unlock()
				if e.req != nil {
					e.req.complete(nil)
				}
				return e.data, Status{Source: e.from, Tag: e.tag, Count: len(e.data)}, nil
			}
		}
		if c.closed {
			c.mu.Unlock()
			return nil, Status{}, errClosedCommunicator()
		}
		ch := c.notify
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, Status{}, ctx.Err()
		}
	}
}

// IRecv returns immediately with a *RecvRequest that completes once a
// message matching (source, tag) arrives, using a dedicated goroutine
// that runs the same match/wait loop as Recv against a background
// context — Close still unblocks it the same way it unblocks a direct
// Recv, by closing the mailbox's notify channel.
func (c *localComm) IRecv(source int32, tag int32) *RecvRequest {
	req := newRecvRequest()
	go func() {
		data, status, err := c.Recv(context.Background(), source, tag)
		req.complete(data, status, err)
	}()
	return req
}

func (c *localComm) Probe(ctx context.Context, source int32, tag int32) (Status, error) {
	for {
		c.mu.Lock()
		for _, e := range c.mailbox {
			if matches(e, source, tag) {
				c.mu.Unlock()
				return Status{Source: e.from, Tag: e.tag, Count: len(e.data)}, nil
			}
		}
		if c.closed {
			c.mu.Unlock()
			return Status{}, errClosedCommunicator()
		}
		ch := c.notify
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return Status{}, ctx.Err()
		}
	}
}

// Iprobe reports immediately whether a message matching (source, tag)
// is already sitting in the mailbox, without consuming it and without
// waiting for one to arrive.
func (c *localComm) Iprobe(source int32, tag int32) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.mailbox {
		if matches(e, source, tag) {
			return Status{Source: e.from, Tag: e.tag, Count: len(e.data)}, true
		}
	}
	return Status{}, false
}

// AllToAll is a full collective over every rank in [0, Size()): this
// rank sends sendTo[dest] (or a zero-length message, if dest is absent
// from sendTo) to each dest, and receives exactly one message back from
// each rank in the cluster, including itself.
func (c *localComm) AllToAll(ctx context.Context, tag int32, sendTo map[int32][]byte) (map[int32][]byte, error) {
	size := c.cl.size

	g, gctx := errgroup.WithContext(ctx)
	for dest := int32(0); dest < size; dest++ {
		dest := dest
		data := sendTo[dest]
		g.Go(func() error {
			return c.Send(dest, tag, data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(map[int32][]byte, size)
	var mu sync.Mutex
	g2, gctx2 := errgroup.WithContext(gctx)
	for src := int32(0); src < size; src++ {
		src := src
		g2.Go(func() error {
			data, _, err := c.Recv(gctx2, src, tag)
			if err != nil {
				return err
			}
			mu.Lock()
			results[src] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Barrier blocks until every rank in the cluster has called Barrier with
// a matching generation, implemented as a reusable closing-channel
// countdown (the same "close to wake everyone, then swap in a fresh
// channel" idiom Recv/Probe use for mailbox notification).
func (c *localComm) Barrier(ctx context.Context) error {
	cl := c.cl
	cl.barrierMu.Lock()
	ch := cl.barrierCh
	cl.barrierCount++
	if cl.barrierCount == cl.size {
		cl.barrierCount = 0
		cl.barrierCh = make(chan struct{})
		close(ch)
		cl.barrierMu.Unlock()
		return nil
	}
	cl.barrierMu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks this rank's communicator closed. Pending Recv/Probe calls
// unblock with fpmaserr.ErrMpi; future Send/Issend to this rank fail the
// same way, and Issend requests still queued here complete with that
// error.
func (c *localComm) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for i := range c.mailbox {
		if c.mailbox[i].req != nil {
			c.mailbox[i].req.complete(errClosedCommunicator())
			c.mailbox[i].req = nil
		}
	}
	close(c.notify)
	c.mu.Unlock()
	return nil
}
