package hard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/mpi"
)

// terminationDetector implements a Dijkstra-Feijen-van Gasteren token
// ring: a token carrying one color bit circulates
// size-1 -> ... -> 0. Rank 0 initiates a round with a white token; every
// other rank ORs its own color into the token, resets to white, and
// forwards it to its predecessor. A rank turns black whenever it sends a
// message to a numerically lower rank (a message the token might not yet
// have accounted for); rank 0 concludes once a token returns white *and*
// rank 0 itself is still white, meaning a full pass saw no such sends.
type terminationDetector struct {
	comm mpi.Communicator
	self int32
	size int32

	mu    sync.Mutex
	black bool
	epoch int32
	done  chan struct{}
}

func newTerminationDetector(comm mpi.Communicator) *terminationDetector {
	return &terminationDetector{
		comm: comm,
		self: comm.Rank(),
		size: comm.Size(),
		done: make(chan struct{}, 1),
	}
}

func (d *terminationDetector) isTerminationTag(tag int32) bool {
	purpose, _ := mpi.SplitEpochTag(tag)
	return purpose == mpi.PurposeTerminationToken
}

// markActive records that this rank just sent a message to a
// numerically lower rank — the event the token ring must not miss.
func (d *terminationDetector) markActive(dest int32) {
	if dest >= d.self {
		return
	}
	d.mu.Lock()
	d.black = true
	d.mu.Unlock()
}

type tokenMsg struct{ Black bool }

func encodeToken(t tokenMsg) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, t.Black)
	return p.Dump()
}

func decodeToken(b []byte) (tokenMsg, error) {
	p := datapack.Parse(b)
	black, err := datapack.Get[bool](p)
	return tokenMsg{Black: black}, err
}

func (d *terminationDetector) predecessor() int32 {
	return (d.self - 1 + d.size) % d.size
}

func (d *terminationDetector) forward(epoch int32, black bool) error {
	tag := mpi.EpochTag(mpi.PurposeTerminationToken, epoch)
	return d.comm.Send(d.predecessor(), tag, encodeToken(tokenMsg{Black: black}))
}

// handle processes one received token, per the rules above.
func (d *terminationDetector) handle(tag int32, body []byte) error {
	_, epoch := mpi.SplitEpochTag(tag)
	msg, err := decodeToken(body)
	if err != nil {
		return err
	}

	if d.self == 0 {
		d.mu.Lock()
		myBlack := d.black
		d.mu.Unlock()
		if !msg.Black && !myBlack {
			slog.Default().Info("hard sync: termination detected", "epoch", epoch)
			select {
			case d.done <- struct{}{}:
			default:
			}
			return nil
		}
		d.mu.Lock()
		d.black = false
		d.mu.Unlock()
		return d.forward(epoch+1, false)
	}

	d.mu.Lock()
	outBlack := msg.Black || d.black
	d.black = false
	d.mu.Unlock()
	return d.forward(epoch, outBlack)
}

// initiate starts the first round: only meaningful called from rank 0.
func (d *terminationDetector) initiate() error {
	d.mu.Lock()
	d.black = false
	d.mu.Unlock()
	return d.forward(0, false)
}

// DetectTermination runs the token ring to convergence: rank 0 starts a
// round and pumps incoming traffic (including this ring's own tokens and
// any ordinary protocol messages, which keeps the cluster servicing
// requests while detection is in flight) until a round returns clean.
// Every other rank must simply keep pumping via Mode.Pump for the ring
// to make progress; it does not call DetectTermination itself.
func (m *Mode[T]) DetectTermination(ctx context.Context) error {
	if m.self != 0 {
		panic("hard: DetectTermination must be called on rank 0 only")
	}
	if err := m.term.initiate(); err != nil {
		return err
	}
	for {
		select {
		case <-m.term.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := m.drainOne(ctx); err != nil {
			return err
		}
	}
}
