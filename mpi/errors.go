package mpi

import (
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
)

// errUnknownRank wraps fpmaserr.ErrMpi: a send/receive named a rank
// outside [0, size).
func errUnknownRank(rank int32, size int32) error {
	return fmt.Errorf("mpi: rank %d out of range [0,%d): %w", rank, size, fpmaserr.ErrMpi)
}

// errClosedCommunicator wraps fpmaserr.ErrMpi: an operation ran after
// Close.
func errClosedCommunicator() error {
	return fmt.Errorf("mpi: communicator closed: %w", fpmaserr.ErrMpi)
}

// errTagOutOfEpoch wraps fpmaserr.ErrProtocol: a message arrived tagged
// for an epoch the receiver is not currently in, which would indicate a
// round boundary was crossed incorrectly.
func errTagOutOfEpoch(tag, epoch int32) error {
	return fmt.Errorf("mpi: tag %d does not belong to epoch %d: %w", tag, epoch, fpmaserr.ErrProtocol)
}
