package graph

import (
	"errors"
	"testing"

	"github.com/katalvlaran/fpmgraph/id"
)

func mkNode[T any](rank int32, counter uint64, data T) *Node[T] {
	return newNode(id.New(rank, counter), data)
}

func TestInsertAndGetNode(t *testing.T) {
	g := New[int]()
	n := mkNode(0, 0, 42)
	if err := g.InsertNode(n); err != nil {
		t.Fatalf("InsertNode: %v", err)
	}
	got, err := g.GetNode(n.Id)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if got.Data != 42 {
		t.Errorf("Data = %d, want 42", got.Data)
	}
	if err := g.InsertNode(n); !errors.Is(err, ErrNodeExists) {
		t.Errorf("duplicate insert: got %v, want ErrNodeExists", err)
	}
}

func TestGetNodeNotFound(t *testing.T) {
	g := New[int]()
	if _, err := g.GetNode(id.New(0, 99)); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("got %v, want ErrNodeNotFound", err)
	}
}

func TestInsertEdgeRequiresEndpoints(t *testing.T) {
	g := New[int]()
	a := mkNode(0, 0, 1)
	b := mkNode(0, 1, 2)
	_ = g.InsertNode(a)
	// b not inserted yet.
	e := &Edge[int]{Id: id.New(0, 100), Layer: 0, Src: a, Tgt: b}
	if err := g.InsertEdge(e); !errors.Is(err, ErrDanglingEdge) {
		t.Fatalf("got %v, want ErrDanglingEdge", err)
	}
	_ = g.InsertNode(b)
	if err := g.InsertEdge(e); err != nil {
		t.Fatalf("InsertEdge after endpoints present: %v", err)
	}
}

func TestEdgeStateDerivedFromEndpoints(t *testing.T) {
	g := New[int]()
	a := mkNode(0, 0, 1)
	b := mkNode(0, 1, 2)
	_ = g.InsertNode(a)
	_ = g.InsertNode(b)

	e := &Edge[int]{Id: id.New(0, 10), Layer: 0, Src: a, Tgt: b}
	_ = g.InsertEdge(e)
	if e.State != Local {
		t.Errorf("both endpoints LOCAL: state = %v, want LOCAL", e.State)
	}

	b.State = Distant
	e.recomputeState()
	if e.State != Distant {
		t.Errorf("one endpoint DISTANT: state = %v, want DISTANT", e.State)
	}
}

func TestInsertionOrderPreservedOnAdjacency(t *testing.T) {
	g := New[int]()
	a := mkNode(0, 0, 0)
	targets := make([]*Node[int], 5)
	_ = g.InsertNode(a)
	for i := range targets {
		targets[i] = mkNode(0, uint64(i+1), i)
		_ = g.InsertNode(targets[i])
		e := &Edge[int]{Id: id.New(0, uint64(100+i)), Layer: 0, Src: a, Tgt: targets[i]}
		if err := g.InsertEdge(e); err != nil {
			t.Fatalf("InsertEdge %d: %v", i, err)
		}
	}

	out := a.OutEdges(0)
	if len(out) != 5 {
		t.Fatalf("expected 5 outgoing edges, got %d", len(out))
	}
	for i, e := range out {
		if e.Tgt != targets[i] {
			t.Errorf("position %d: got target %v, want %v", i, e.Tgt.Id, targets[i].Id)
		}
	}
}

func TestEraseEdgePreservesSurvivorOrder(t *testing.T) {
	g := New[int]()
	a := mkNode(0, 0, 0)
	_ = g.InsertNode(a)
	var edges []*Edge[int]
	for i := 0; i < 4; i++ {
		b := mkNode(0, uint64(i+1), i)
		_ = g.InsertNode(b)
		e := &Edge[int]{Id: id.New(0, uint64(200+i)), Layer: 0, Src: a, Tgt: b}
		_ = g.InsertEdge(e)
		edges = append(edges, e)
	}

	// Remove the second edge; the remaining three must keep their
	// relative order.
	if err := g.EraseEdge(edges[1].Id); err != nil {
		t.Fatalf("EraseEdge: %v", err)
	}
	out := a.OutEdges(0)
	if len(out) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(out))
	}
	wantOrder := []id.DistributedId{edges[0].Id, edges[2].Id, edges[3].Id}
	for i, e := range out {
		if e.Id != wantOrder[i] {
			t.Errorf("position %d: got %v, want %v", i, e.Id, wantOrder[i])
		}
	}
}

func TestEraseNodeErasesIncidentEdgesFirst(t *testing.T) {
	g := New[int]()
	a := mkNode(0, 0, 0)
	b := mkNode(0, 1, 1)
	_ = g.InsertNode(a)
	_ = g.InsertNode(b)
	e := &Edge[int]{Id: id.New(0, 50), Layer: 0, Src: a, Tgt: b}
	_ = g.InsertEdge(e)

	var eraseOrder []string
	g.AddCallOnEraseEdge(func(e *Edge[int]) { eraseOrder = append(eraseOrder, "edge") })
	g.AddCallOnEraseNode(func(n *Node[int]) { eraseOrder = append(eraseOrder, "node") })

	if err := g.EraseNode(a.Id); err != nil {
		t.Fatalf("EraseNode: %v", err)
	}
	if g.HasEdge(e.Id) {
		t.Errorf("incident edge should have been erased")
	}
	if g.HasNode(a.Id) {
		t.Errorf("node should have been erased")
	}
	if len(eraseOrder) != 2 || eraseOrder[0] != "edge" || eraseOrder[1] != "node" {
		t.Errorf("expected edge callbacks before node callback, got %v", eraseOrder)
	}
	// b survives; only the incident edge on b's side is gone.
	if !g.HasNode(b.Id) {
		t.Errorf("b must survive erasure of a")
	}
	if len(b.InEdges(0)) != 0 {
		t.Errorf("b should have no remaining incoming edges, got %d", len(b.InEdges(0)))
	}
}

func TestCallbacksFireInRegistrationOrder(t *testing.T) {
	g := New[int]()
	var order []int
	g.AddCallOnInsertNode(func(n *Node[int]) { order = append(order, 1) })
	g.AddCallOnInsertNode(func(n *Node[int]) { order = append(order, 2) })
	g.AddCallOnInsertNode(func(n *Node[int]) { order = append(order, 3) })

	_ = g.InsertNode(mkNode[int](0, 0, 0))
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, order[i], want[i])
		}
	}
}
