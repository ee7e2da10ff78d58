// Package mpi abstracts the point-to-point and collective message
// passing every distributed cluster operation is built on. Communicator
// is the contract; LocalCluster is the in-memory, goroutine-backed
// implementation used both by this module's own tests and by any caller
// that wants a fully functional cluster without a real MPI binding.
//
// Tags are never bare purpose constants: EpochTag folds a round counter
// into the tag so that a message delayed across a round boundary cannot
// be mistaken for one belonging to the following round.
package mpi
