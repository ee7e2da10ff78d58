package datapack

import (
	"github.com/katalvlaran/fpmgraph/fpmaserr"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
)

// TemporaryNode holds an edge's embedded endpoint on the wire without
// paying to deserialize it until the receiver actually needs a live
// node: an edge import carries its endpoints' id/location eagerly but
// their Data payload stays an opaque, not-yet-parsed ObjectPack until
// Build is called, or never, if the endpoint was already locally known.
type TemporaryNode[T any] struct {
	id       id.DistributedId
	location int32
	payload  *ObjectPack
	built    bool
}

// NewTemporaryNode wraps an endpoint's id, owning location, and still-
// opaque payload. Import code calls this once per edge endpoint instead
// of eagerly deserializing T.
func NewTemporaryNode[T any](nid id.DistributedId, location int32, payload *ObjectPack) *TemporaryNode[T] {
	return &TemporaryNode[T]{id: nid, location: location, payload: payload}
}

// ID returns the endpoint's id without touching the payload.
func (tn *TemporaryNode[T]) ID() id.DistributedId { return tn.id }

// Location returns the endpoint's owning rank without touching the
// payload.
func (tn *TemporaryNode[T]) Location() int32 { return tn.location }

// Build deserializes the payload and returns a fresh DISTANT graph.Node.
// It may be called at most once: a second call returns
// fpmaserr.ErrDoubleMaterialization, since the payload is consumed (and
// discarded) on the first successful Build.
func (tn *TemporaryNode[T]) Build() (*graph.Node[T], error) {
	if tn.built {
		return nil, fpmaserr.ErrDoubleMaterialization
	}
	data, err := Get[T](tn.payload)
	if err != nil {
		return nil, err
	}
	tn.built = true
	tn.payload = nil

	return graph.NewDistantNode(tn.id, data, tn.location), nil
}
