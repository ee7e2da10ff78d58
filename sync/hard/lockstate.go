package hard

// grantKind distinguishes the three request shapes a lockState queues.
type grantKind int

const (
	grantRead      grantKind = iota // momentary, never held past its own reply
	grantShared                     // held until a matching unlockShared
	grantExclusive                  // held until a matching release
)

// pendingGrant is one FIFO-queued request waiting on a lockState.
type pendingGrant struct {
	rank    int32
	respTag int32
	kind    grantKind
}

// lockState is the per-node queue a HardSyncMutex's owner side runs
// requests through: strict FIFO, a queued exclusive request blocks every
// later request (reader or writer) until it is served and released
// (DESIGN.md Open Question 4).
type lockState struct {
	exclusive   bool
	exclusiveBy int32
	sharedBy    map[int32]struct{}
	queue       []pendingGrant
}

func newLockState() *lockState {
	return &lockState{sharedBy: make(map[int32]struct{})}
}

// enqueue appends req and runs the queue forward as far as it will go,
// invoking grant for every request that becomes servable (read requests
// are granted and then immediately forgotten; shared/exclusive requests
// are granted and held until release/unlockShared removes them).
func (ls *lockState) enqueue(req pendingGrant, grant func(pendingGrant)) {
	ls.queue = append(ls.queue, req)
	ls.advance(grant)
}

func (ls *lockState) advance(grant func(pendingGrant)) {
	for len(ls.queue) > 0 {
		req := ls.queue[0]
		switch req.kind {
		case grantRead:
			if ls.exclusive {
				return
			}
			ls.queue = ls.queue[1:]
			grant(req)
		case grantShared:
			if ls.exclusive {
				return
			}
			ls.sharedBy[req.rank] = struct{}{}
			ls.queue = ls.queue[1:]
			grant(req)
		case grantExclusive:
			if ls.exclusive || len(ls.sharedBy) > 0 {
				return
			}
			ls.exclusive = true
			ls.exclusiveBy = req.rank
			ls.queue = ls.queue[1:]
			grant(req)
			return
		}
	}
}

// releaseExclusive clears an exclusive hold and advances the queue.
func (ls *lockState) releaseExclusive(grant func(pendingGrant)) {
	ls.exclusive = false
	ls.exclusiveBy = 0
	ls.advance(grant)
}

// releaseShared clears one rank's shared hold and advances the queue.
func (ls *lockState) releaseShared(rank int32, grant func(pendingGrant)) {
	delete(ls.sharedBy, rank)
	ls.advance(grant)
}
