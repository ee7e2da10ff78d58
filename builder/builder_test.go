package builder_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/katalvlaran/fpmgraph/builder"
	"github.com/katalvlaran/fpmgraph/distributed"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/katalvlaran/fpmgraph/sync/ghost"
)

func newSoloGraph(t *testing.T) *distributed.Graph[int] {
	t.Helper()
	comms := mpi.NewLocalCluster(1)
	mode := ghost.New[int](comms[0])
	dg := distributed.New[int](comms[0], mode)
	mode.SetHost(dg)
	return dg
}

func sequentialBuilder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestUniformRandomLinksExactlyKDistinctTargets(t *testing.T) {
	dg := newSoloGraph(t)
	ub := builder.UniformRandom[int]{N: 8, K: 3, Rand: rand.New(rand.NewSource(1))}
	if err := ub.Build(dg, builder.FuncNodeBuilder[int](sequentialBuilder)); err != nil {
		t.Fatalf("Build: %v", err)
	}

	g := dg.Underlying()
	if got, want := g.NodeCount(), 8; got != want {
		t.Fatalf("NodeCount = %d, want %d", got, want)
	}
	if got, want := g.EdgeCount(), 8*3; got != want {
		t.Fatalf("EdgeCount = %d, want %d", got, want)
	}
	for _, n := range g.Nodes() {
		out := n.OutEdges(0)
		if len(out) != 3 {
			t.Fatalf("node %v has %d outgoing edges, want 3", n.Id, len(out))
		}
		targets := map[string]struct{}{}
		for _, e := range out {
			key := e.Tgt.Id.String()
			if _, dup := targets[key]; dup {
				t.Fatalf("node %v linked to target %v twice", n.Id, e.Tgt.Id)
			}
			targets[key] = struct{}{}
			if e.Tgt.Id == n.Id {
				t.Fatalf("node %v linked to itself", n.Id)
			}
		}
	}
}

func TestUniformRandomRejectsDegreeTooLarge(t *testing.T) {
	dg := newSoloGraph(t)
	ub := builder.UniformRandom[int]{N: 3, K: 3, Rand: rand.New(rand.NewSource(1))}
	err := ub.Build(dg, builder.FuncNodeBuilder[int](sequentialBuilder))
	if !errors.Is(err, builder.ErrDegreeTooLarge) {
		t.Fatalf("expected ErrDegreeTooLarge, got %v", err)
	}
}

func TestUniformRandomRejectsMissingRand(t *testing.T) {
	dg := newSoloGraph(t)
	ub := builder.UniformRandom[int]{N: 3, K: 1}
	err := ub.Build(dg, builder.FuncNodeBuilder[int](sequentialBuilder))
	if !errors.Is(err, builder.ErrNeedRandSource) {
		t.Fatalf("expected ErrNeedRandSource, got %v", err)
	}
}

func TestSmallWorldBuildsRingWithRewiring(t *testing.T) {
	dg := newSoloGraph(t)
	sw := builder.SmallWorld[int]{N: 10, K: 2, P: 0.5, Rand: rand.New(rand.NewSource(7))}
	if err := sw.Build(dg, builder.FuncNodeBuilder[int](sequentialBuilder)); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestSmallWorldRejectsInvalidProbability(t *testing.T) {
	dg := newSoloGraph(t)
	sw := builder.SmallWorld[int]{N: 5, K: 1, P: 1.5, Rand: rand.New(rand.NewSource(1))}
	err := sw.Build(dg, builder.FuncNodeBuilder[int](sequentialBuilder))
	if !errors.Is(err, builder.ErrInvalidProbability) {
		t.Fatalf("expected ErrInvalidProbability, got %v", err)
	}
}

func TestSmallWorldRejectsDegreeTooLarge(t *testing.T) {
	dg := newSoloGraph(t)
	sw := builder.SmallWorld[int]{N: 4, K: 4, P: 0.1, Rand: rand.New(rand.NewSource(1))}
	err := sw.Build(dg, builder.FuncNodeBuilder[int](sequentialBuilder))
	if !errors.Is(err, builder.ErrDegreeTooLarge) {
		t.Fatalf("expected ErrDegreeTooLarge, got %v", err)
	}
}
