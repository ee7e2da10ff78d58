package balance

import (
	"sort"

	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
)

// LoadBalancing computes a target partition for this process's LOCAL
// nodes: for each id in local, which rank should end up owning
// it after the next Distribute round. fixed names nodes the caller has
// pinned to a specific rank regardless of what the balancer would
// otherwise choose (e.g. an agent a simulation's scheduler requires to
// stay put) — an implementation must honor every entry in fixed
// verbatim in its returned map.
type LoadBalancing[T any] interface {
	Balance(local map[id.DistributedId]*graph.Node[T], fixed map[id.DistributedId]int32) (map[id.DistributedId]int32, error)
}

// RoundRobin assigns every unfixed node to one of Size ranks in
// DistributedId order — not by any cost model, just a deterministic,
// stable rotation enough to exercise Distribute without a real
// partitioner. Fixed nodes are carried through unchanged.
type RoundRobin[T any] struct {
	Size int32
}

// Balance implements LoadBalancing.
func (r RoundRobin[T]) Balance(local map[id.DistributedId]*graph.Node[T], fixed map[id.DistributedId]int32) (map[id.DistributedId]int32, error) {
	ids := make([]id.DistributedId, 0, len(local))
	for nid := range local {
		ids = append(ids, nid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	assignment := make(map[id.DistributedId]int32, len(local))
	var next int32
	for _, nid := range ids {
		if rank, pinned := fixed[nid]; pinned {
			assignment[nid] = rank
			continue
		}
		assignment[nid] = next % r.Size
		next++
	}
	return assignment, nil
}
