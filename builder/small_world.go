package builder

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/fpmgraph/distributed"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
)

const methodSmallWorld = "SmallWorld"

// SmallWorld builds a directed Watts-Strogatz small-world graph: a ring
// of out-degree K over nb's deterministic node order, then each outgoing
// edge is independently rewired with probability P to a uniformly drawn
// non-duplicate target. A ring target that an earlier rewire of the same
// source already took is redrawn the same way. Only the one target is
// redrawn on a collision, which keeps the retry surface to a single edge
// instead of reshuffling the whole pairing on any invalid draw.
type SmallWorld[T any] struct {
	N    int
	K    int
	P    float64
	Rand *rand.Rand
}

// Build implements GraphBuilder.
func (s SmallWorld[T]) Build(g *distributed.Graph[T], nb NodeBuilder[T]) error {
	if s.Rand == nil {
		return fmt.Errorf("%s: %w", methodSmallWorld, ErrNeedRandSource)
	}
	if s.N < 1 {
		return fmt.Errorf("%s: N must be >= 1, got %d: %w", methodSmallWorld, s.N, ErrTooFewNodes)
	}
	if s.K < 0 {
		return fmt.Errorf("%s: K must be >= 0, got %d: %w", methodSmallWorld, s.K, ErrTooFewNodes)
	}
	if s.K >= s.N {
		return fmt.Errorf("%s: K=%d must be < N=%d: %w", methodSmallWorld, s.K, s.N, ErrDegreeTooLarge)
	}
	if s.P < 0 || s.P > 1 {
		return fmt.Errorf("%s: P must be in [0,1], got %f: %w", methodSmallWorld, s.P, ErrInvalidProbability)
	}

	payloads := nb.Build(s.N)
	nodes, err := buildNodes(g, payloads)
	if err != nil {
		return err
	}
	n := len(nodes)

	for src := 0; src < n; src++ {
		seen := map[id.DistributedId]struct{}{nodes[src].Id: {}}
		for offset := 1; offset <= s.K; offset++ {
			tgtIdx := (src + offset) % n
			_, dup := seen[nodes[tgtIdx].Id]
			if s.Rand.Float64() < s.P || dup {
				tgtIdx = s.rewireTarget(nodes, seen)
			}
			tgt := nodes[tgtIdx]
			seen[tgt.Id] = struct{}{}
			if _, err := g.Link(nodes[src], tgt, 0, 1.0); err != nil {
				return fmt.Errorf("%s: Link: %w", methodSmallWorld, err)
			}
		}
	}
	return nil
}

// rewireTarget draws a uniform index into nodes not yet present in seen,
// redrawing only on a collision — bounded because len(seen) < len(nodes)
// always holds here (K < N is validated in Build).
func (s SmallWorld[T]) rewireTarget(nodes []*graph.Node[T], seen map[id.DistributedId]struct{}) int {
	for {
		idx := s.Rand.Intn(len(nodes))
		if _, dup := seen[nodes[idx].Id]; !dup {
			return idx
		}
	}
}
