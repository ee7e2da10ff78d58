package graph

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
)

// Sentinel errors for graph operations. Checked with errors.Is, never by
// message text.
var (
	// ErrNodeNotFound indicates an operation referenced a node id absent
	// from this graph.
	ErrNodeNotFound = fmt.Errorf("graph: node not found: %w", fpmaserr.ErrOutOfGraph)

	// ErrEdgeNotFound indicates an operation referenced an edge id absent
	// from this graph.
	ErrEdgeNotFound = fmt.Errorf("graph: edge not found: %w", fpmaserr.ErrOutOfGraph)

	// ErrNodeExists indicates InsertNode was called with an id already
	// present in the graph.
	ErrNodeExists = errors.New("graph: node already present")

	// ErrEdgeExists indicates InsertEdge was called with an id already
	// present in the graph.
	ErrEdgeExists = errors.New("graph: edge already present")

	// ErrDanglingEdge indicates an edge referenced an endpoint not
	// present in this graph — a programming error, since every edge
	// import path (importEdge, link) must materialize its endpoints
	// first.
	ErrDanglingEdge = errors.New("graph: edge endpoint not present in graph")
)
