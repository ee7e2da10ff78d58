package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared across every Cluster built by this package.
var validate = validator.New()

// SyncMode names which sync/* package a Cluster's distributed graph should
// be wired with.
type SyncMode string

const (
	// Ghost selects sync/ghost: optimistic, epoch-based, buffered flush.
	Ghost SyncMode = "ghost"
	// Hard selects sync/hard: per-node mutex with termination detection.
	Hard SyncMode = "hard"
)

// LoadBalancer names which balance.LoadBalancing implementation a Cluster
// should use when redistributing nodes.
type LoadBalancer string

// RoundRobinBalancer selects balance.RoundRobin.
const RoundRobinBalancer LoadBalancer = "round_robin"

// Cluster is one process's validated view of the cluster it belongs to:
// its rank, the cluster size, and the synchronization and balancing modes
// every other package wires against. Zero values are never valid; Cluster
// is only ever produced by New.
type Cluster struct {
	// Rank is this process's 0-based position, matching mpi.Communicator.Rank.
	Rank int32 `validate:"gte=0"`
	// Size is the cluster's process count, matching mpi.Communicator.Size.
	Size int32 `validate:"gt=0"`
	// SyncMode chooses the synchronization mode this process's distributed
	// graph is constructed with.
	SyncMode SyncMode `validate:"required,oneof=ghost hard"`
	// LoadBalancer chooses the balance.LoadBalancing implementation used
	// for periodic redistribution.
	LoadBalancer LoadBalancer `validate:"required,oneof=round_robin"`
	// PartitionSeed seeds the deterministic math/rand.Rand a builder draws
	// from, so a run can be replayed byte-for-byte.
	PartitionSeed int64 `validate:"gte=0"`
}

// Option configures a Cluster before New validates it, following exactly
// the core.GraphOption shape: a function closing over the value under
// construction.
type Option func(*Cluster)

// WithSyncMode overrides the default synchronization mode (Ghost).
func WithSyncMode(mode SyncMode) Option {
	return func(c *Cluster) { c.SyncMode = mode }
}

// WithLoadBalancer overrides the default load balancer (RoundRobinBalancer).
func WithLoadBalancer(lb LoadBalancer) Option {
	return func(c *Cluster) { c.LoadBalancer = lb }
}

// WithPartitionSeed overrides the default partition seed (0).
func WithPartitionSeed(seed int64) Option {
	return func(c *Cluster) { c.PartitionSeed = seed }
}

// New builds a Cluster for this process out of rank and size, applies opts
// left-to-right over defaults (Ghost sync, round-robin balancing, seed 0),
// then validates the result. A caller gets back a usable Cluster,
// ErrInvalidSize or ErrInvalidRank for an out-of-range size or rank, or
// a wrapped validator.ValidationErrors describing every failing field.
func New(rank, size int32, opts ...Option) (*Cluster, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if rank < 0 || rank >= size {
		return nil, ErrInvalidRank
	}

	c := &Cluster{
		Rank:         rank,
		Size:         size,
		SyncMode:     Ghost,
		LoadBalancer: RoundRobinBalancer,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return c, nil
}
