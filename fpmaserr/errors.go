// Package fpmaserr defines the error kinds shared across the distributed
// graph engine. Every subpackage wraps these sentinels with
// fmt.Errorf("%s: %w", ...) for call-site context: callers branch with
// errors.Is, never on message text.
//
// Policy:
//   - ErrOutOfGraph is recoverable by the caller and surfaced as-is.
//   - ErrDeserialization, ErrProtocol, ErrDoubleMaterialization are
//     programming errors: surface with full context, never retried.
//   - ErrMpi is fatal: the process group is assumed dead once it occurs.
//
// No package in this module retries an operation after one of these
// errors; retries, if any, belong to the caller.
package fpmaserr

import "errors"

var (
	// ErrOutOfGraph indicates a lookup for an unknown node or edge id.
	ErrOutOfGraph = errors.New("fpmas: id not present in graph")

	// ErrDeserialization indicates a truncated or malformed ObjectPack,
	// LightObjectPack, or JSON payload.
	ErrDeserialization = errors.New("fpmas: deserialization failed")

	// ErrProtocol indicates a size/offset mismatch during serialization,
	// or an unexpected tag observed by a reception pump.
	ErrProtocol = errors.New("fpmas: protocol violation")

	// ErrMpi indicates a failure reported by the MPI abstraction. Fatal:
	// the caller is expected to abort the process group, not recover.
	ErrMpi = errors.New("fpmas: mpi failure")

	// ErrDoubleMaterialization indicates TemporaryNode.Build was called
	// more than once on the same instance.
	ErrDoubleMaterialization = errors.New("fpmas: temporary node already built")
)
