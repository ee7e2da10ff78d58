package datapack

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
	"github.com/katalvlaran/fpmgraph/id"
)

// idJSON is the wire shape for DistributedId's JSON form: a 2-element
// array [rank, counter], matching the compact tuple form the cluster's
// debug/export tooling expects rather than a verbose object.
type idJSON [2]uint64

// MarshalDistributedId renders a DistributedId as [rank, counter].
func MarshalDistributedId(v id.DistributedId) ([]byte, error) {
	return json.Marshal(idJSON{uint64(uint32(v.Rank)), v.Counter})
}

// UnmarshalDistributedId parses the [rank, counter] form produced by
// MarshalDistributedId.
func UnmarshalDistributedId(b []byte) (id.DistributedId, error) {
	var arr idJSON
	if err := json.Unmarshal(b, &arr); err != nil {
		return id.DistributedId{}, fmt.Errorf("datapack: decode DistributedId: %w: %w", err, fpmaserr.ErrDeserialization)
	}
	return id.New(int32(arr[0]), arr[1]), nil
}

// JSONCodec is the debug/export alternative to the binary Serializer
// registry: types that want a human-readable dump (cluster introspection,
// golden-file tests) implement this instead of, or in addition to,
// Serializer[T].
type JSONCodec[T any] interface {
	EncodeJSON(v T) ([]byte, error)
	DecodeJSON(b []byte) (T, error)
}

// jsonCodec adapts encoding/json's Marshal/Unmarshal into a JSONCodec for
// any type that is itself JSON-marshalable, for callers that don't need a
// custom wire shape.
type jsonCodec[T any] struct{}

// DefaultJSONCodec returns a JSONCodec backed directly by encoding/json,
// for payload types with no bespoke JSON shape.
func DefaultJSONCodec[T any]() JSONCodec[T] { return jsonCodec[T]{} }

func (jsonCodec[T]) EncodeJSON(v T) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec[T]) DecodeJSON(b []byte) (T, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("datapack: decode %T: %w: %w", v, err, fpmaserr.ErrDeserialization)
	}
	return v, nil
}
