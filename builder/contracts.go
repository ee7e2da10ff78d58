package builder

import "github.com/katalvlaran/fpmgraph/distributed"

// NodeBuilder yields this process's share of node payloads: n values to
// insert as fresh LOCAL nodes before a GraphBuilder wires them together.
type NodeBuilder[T any] interface {
	Build(n int) []T
}

// GraphBuilder inserts n nodes from nb into g and links them into some
// deterministic-shape topology, entirely among nodes this call itself
// creates — it never reaches across ranks.
type GraphBuilder[T any] interface {
	Build(g *distributed.Graph[T], nb NodeBuilder[T]) error
}

// FuncNodeBuilder adapts a plain function to NodeBuilder, for callers
// that favor a small closure over a one-method interface when a factory
// is the entire contract.
type FuncNodeBuilder[T any] func(n int) []T

// Build implements NodeBuilder.
func (f FuncNodeBuilder[T]) Build(n int) []T { return f(n) }
