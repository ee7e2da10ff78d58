package builder

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/fpmgraph/distributed"
	"github.com/katalvlaran/fpmgraph/graph"
)

const methodUniformRandom = "UniformRandom"

// UniformRandom links each node to K distinct others sampled uniformly
// at random, via a Fisher-Yates partial shuffle over the other nodes'
// indices — no retry loop is needed since sampling without replacement
// cannot produce a duplicate by construction.
type UniformRandom[T any] struct {
	N    int
	K    int
	Rand *rand.Rand
}

// Build implements GraphBuilder.
func (u UniformRandom[T]) Build(g *distributed.Graph[T], nb NodeBuilder[T]) error {
	if u.Rand == nil {
		return fmt.Errorf("%s: %w", methodUniformRandom, ErrNeedRandSource)
	}
	if u.N < 1 {
		return fmt.Errorf("%s: N must be >= 1, got %d: %w", methodUniformRandom, u.N, ErrTooFewNodes)
	}
	if u.K < 0 {
		return fmt.Errorf("%s: K must be >= 0, got %d: %w", methodUniformRandom, u.K, ErrTooFewNodes)
	}

	payloads := nb.Build(u.N)
	if len(payloads) == 0 {
		return nil
	}
	if u.K >= len(payloads) {
		return fmt.Errorf("%s: K=%d must be < node count %d: %w", methodUniformRandom, u.K, len(payloads), ErrDegreeTooLarge)
	}

	nodes, err := buildNodes(g, payloads)
	if err != nil {
		return err
	}

	others := make([]int, len(nodes))
	for i := range nodes {
		others[i] = i
	}

	for src := range nodes {
		// Partial Fisher-Yates over every index but src: swap candidates
		// from a scratch slice built fresh per source, so one source's
		// draw never perturbs another's.
		pool := make([]int, 0, len(nodes)-1)
		for _, j := range others {
			if j != src {
				pool = append(pool, j)
			}
		}
		for k := 0; k < u.K; k++ {
			pick := k + u.Rand.Intn(len(pool)-k)
			pool[k], pool[pick] = pool[pick], pool[k]
			tgt := nodes[pool[k]]
			if _, err := g.Link(nodes[src], tgt, 0, 1.0); err != nil {
				return fmt.Errorf("%s: Link: %w", methodUniformRandom, err)
			}
		}
	}
	return nil
}

// buildNodes inserts every payload as a fresh LOCAL node, preserving nb's
// output order so callers can address nodes by index.
func buildNodes[T any](g *distributed.Graph[T], payloads []T) ([]*graph.Node[T], error) {
	nodes := make([]*graph.Node[T], len(payloads))
	for i, p := range payloads {
		n, err := g.BuildNode(p)
		if err != nil {
			return nil, fmt.Errorf("BuildNode: %w", err)
		}
		nodes[i] = n
	}
	return nodes, nil
}
