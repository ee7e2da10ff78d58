// Package id defines DistributedId, the globally unique identity used for
// every node and edge in the distributed graph, and the per-process
// Allocator that mints them.
//
// An id is a pair (rank, counter): rank is the MPI rank that originally
// allocated the id, counter is a monotonically increasing value local to
// that rank. rank is immutable for the lifetime of the id — it is also
// the authoritative "origin" used by the location manager to resolve who
// currently knows where a node lives.
//
// DistributedId is comparable and usable as a map key directly; Hash and
// Less are provided for code that wants an explicit total order or a
// combined hash (e.g. datapack's registry, or any caller that wants
// deterministic iteration order without sorting a map first).
package id

import (
	"fmt"
)

// DistributedId uniquely identifies a node or an edge across every
// process in the cluster. Total order is lexicographic on (Rank, Counter).
type DistributedId struct {
	Rank    int32
	Counter uint64
}

// New builds a DistributedId directly. Prefer Allocator.NextNode/NextEdge
// in production code; New is for tests and deserialization.
func New(rank int32, counter uint64) DistributedId {
	return DistributedId{Rank: rank, Counter: counter}
}

// Less reports whether id sorts strictly before other: first by Rank,
// then by Counter.
func (d DistributedId) Less(other DistributedId) bool {
	if d.Rank != other.Rank {
		return d.Rank < other.Rank
	}
	return d.Counter < other.Counter
}

// Hash combines Rank and Counter into a single uint64 using FNV-1a.
// Used wherever a caller needs a hash distinct from Go's native map
// hashing (e.g. sharding ids across a fixed bucket count deterministically
// across processes).
func (d DistributedId) Hash() uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	h = (h ^ uint64(uint32(d.Rank))) * prime64
	h = (h ^ d.Counter) * prime64

	return h
}

// String renders the id as "[rank:counter]", mirroring the original
// source's deprecated std::string conversion.
func (d DistributedId) String() string {
	return fmt.Sprintf("[%d:%d]", d.Rank, d.Counter)
}

// Allocator mints DistributedIds for a single process. Nodes and edges
// use independent counters that both start at zero, so a node id and an
// edge id can be equal values (the first of each is (rank, 0)); callers
// that need to distinguish a node id from an edge id must track that out
// of band (the graph package keeps them in separate maps).
//
// Counters never reset and ids are never reused; uint64 exhaustion is
// assumed unreachable in practice.
type Allocator struct {
	rank     int32
	nextNode uint64
	nextEdge uint64
}

// NewAllocator constructs an Allocator for the given process rank.
// Counters start at zero.
func NewAllocator(rank int32) *Allocator {
	return &Allocator{rank: rank}
}

// Rank returns the process rank this allocator mints ids for.
func (a *Allocator) Rank() int32 {
	return a.rank
}

// NextNode returns the next unused node id for this process and advances
// the node counter.
func (a *Allocator) NextNode() DistributedId {
	c := a.nextNode
	a.nextNode++

	return DistributedId{Rank: a.rank, Counter: c}
}

// NextEdge returns the next unused edge id for this process and advances
// the edge counter.
func (a *Allocator) NextEdge() DistributedId {
	c := a.nextEdge
	a.nextEdge++

	return DistributedId{Rank: a.rank, Counter: c}
}
