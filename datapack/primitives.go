package datapack

import (
	"encoding/binary"
	"math"

	"github.com/katalvlaran/fpmgraph/id"
)

// This file registers Serializers for the primitive and composite types
// used throughout the cluster's own messages (DistributedId, strings,
// integers, and slices/maps thereof). User payload types register their
// own Serializer[T] the same way, from their own package's init().

func init() {
	RegisterSerializer[bool](boolSerializer{})
	RegisterSerializer[string](stringSerializer{})
	RegisterSerializer[int32](int32Serializer{})
	RegisterSerializer[int64](int64Serializer{})
	RegisterSerializer[uint64](uint64Serializer{})
	RegisterSerializer[float64](float64Serializer{})
	RegisterSerializer[[]byte](bytesSerializer{})
	RegisterSerializer[id.DistributedId](idSerializer{})
	RegisterSerializer[[]string](SliceSerializer[string](stringSerializer{}))
	RegisterSerializer[[]int64](SliceSerializer[int64](int64Serializer{}))
	RegisterSerializer[map[string]string](MapSerializer[string, string](stringSerializer{}, stringSerializer{}))

	// Light variants: for the primitives used as-is in ghost refresh
	// bodies, light == full (nothing to drop). Registered so generic
	// code paths that always go through the light registry still work
	// for these scalar types.
	RegisterLightSerializer[float64](float64Serializer{})
	RegisterLightSerializer[id.DistributedId](idSerializer{})
}

// --- bool ---

type boolSerializer struct{}

func (boolSerializer) Size(bool) int { return 1 }
func (boolSerializer) To(p *ObjectPack, v bool) error {
	if v {
		p.WriteRaw([]byte{1})
	} else {
		p.WriteRaw([]byte{0})
	}
	return nil
}
func (boolSerializer) From(p *ObjectPack) (bool, error) {
	b, err := p.ReadRaw(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// --- fixed-width integers ---

type int32Serializer struct{}

func (int32Serializer) Size(int32) int { return 4 }
func (int32Serializer) To(p *ObjectPack, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	p.WriteRaw(b[:])
	return nil
}
func (int32Serializer) From(p *ObjectPack) (int32, error) {
	b, err := p.ReadRaw(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

type int64Serializer struct{}

func (int64Serializer) Size(int64) int { return 8 }
func (int64Serializer) To(p *ObjectPack, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	p.WriteRaw(b[:])
	return nil
}
func (int64Serializer) From(p *ObjectPack) (int64, error) {
	b, err := p.ReadRaw(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

type uint64Serializer struct{}

func (uint64Serializer) Size(uint64) int { return 8 }
func (uint64Serializer) To(p *ObjectPack, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	p.WriteRaw(b[:])
	return nil
}
func (uint64Serializer) From(p *ObjectPack) (uint64, error) {
	b, err := p.ReadRaw(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

type float64Serializer struct{}

func (float64Serializer) Size(float64) int { return 8 }
func (float64Serializer) To(p *ObjectPack, v float64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	p.WriteRaw(b[:])
	return nil
}
func (float64Serializer) From(p *ObjectPack) (float64, error) {
	b, err := p.ReadRaw(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// --- []byte (length-prefixed: uint64 count + raw bytes) ---

type bytesSerializer struct{}

func (bytesSerializer) Size(v []byte) int { return 8 + len(v) }
func (bytesSerializer) To(p *ObjectPack, v []byte) error {
	if err := Put(p, uint64(len(v))); err != nil {
		return err
	}
	p.WriteRaw(v)
	return nil
}
func (bytesSerializer) From(p *ObjectPack) ([]byte, error) {
	n, err := Get[uint64](p)
	if err != nil {
		return nil, err
	}
	b, err := p.ReadRaw(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// --- string (length-prefixed, same shape as []byte) ---

type stringSerializer struct{}

func (stringSerializer) Size(v string) int { return 8 + len(v) }
func (stringSerializer) To(p *ObjectPack, v string) error {
	if err := Put(p, uint64(len(v))); err != nil {
		return err
	}
	p.WriteRaw([]byte(v))
	return nil
}
func (stringSerializer) From(p *ObjectPack) (string, error) {
	n, err := Get[uint64](p)
	if err != nil {
		return "", err
	}
	b, err := p.ReadRaw(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// --- id.DistributedId: 4-byte rank, 8-byte counter ---

type idSerializer struct{}

func (idSerializer) Size(id.DistributedId) int { return 4 + 8 }
func (idSerializer) To(p *ObjectPack, v id.DistributedId) error {
	if err := Put(p, v.Rank); err != nil {
		return err
	}
	return Put(p, v.Counter)
}
func (idSerializer) From(p *ObjectPack) (id.DistributedId, error) {
	rank, err := Get[int32](p)
	if err != nil {
		return id.DistributedId{}, err
	}
	counter, err := Get[uint64](p)
	if err != nil {
		return id.DistributedId{}, err
	}
	return id.New(rank, counter), nil
}

// --- generic slice/map composition helpers ---

// sliceSerializer adapts an element Serializer into a Serializer for
// []T: a uint64 count followed by each element in order.
type sliceSerializer[T any] struct {
	elem Serializer[T]
}

// SliceSerializer builds a Serializer[[]T] from an element Serializer[T].
// Used both by this package's own []string/[]int64 registrations and by
// user payload packages composing their own slice fields.
func SliceSerializer[T any](elem Serializer[T]) Serializer[[]T] {
	return sliceSerializer[T]{elem: elem}
}

func (s sliceSerializer[T]) Size(v []T) int {
	n := 8
	for _, e := range v {
		n += s.elem.Size(e)
	}
	return n
}
func (s sliceSerializer[T]) To(p *ObjectPack, v []T) error {
	if err := Put(p, uint64(len(v))); err != nil {
		return err
	}
	for _, e := range v {
		if err := s.elem.To(p, e); err != nil {
			return err
		}
	}
	return nil
}
func (s sliceSerializer[T]) From(p *ObjectPack) ([]T, error) {
	n, err := Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		e, err := s.elem.From(p)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// mapSerializer adapts key/value Serializers into a Serializer for
// map[K]V: a uint64 count followed by each (key, value) pair.
type mapSerializer[K comparable, V any] struct {
	key Serializer[K]
	val Serializer[V]
}

// MapSerializer builds a Serializer[map[K]V] from key and value
// Serializers. Iteration order on To is Go's native (unspecified) map
// order — callers needing a deterministic wire form must sort keys
// themselves before calling Put.
func MapSerializer[K comparable, V any](key Serializer[K], val Serializer[V]) Serializer[map[K]V] {
	return mapSerializer[K, V]{key: key, val: val}
}

func (s mapSerializer[K, V]) Size(v map[K]V) int {
	n := 8
	for k, val := range v {
		n += s.key.Size(k) + s.val.Size(val)
	}
	return n
}
func (s mapSerializer[K, V]) To(p *ObjectPack, v map[K]V) error {
	if err := Put(p, uint64(len(v))); err != nil {
		return err
	}
	for k, val := range v {
		if err := s.key.To(p, k); err != nil {
			return err
		}
		if err := s.val.To(p, val); err != nil {
			return err
		}
	}
	return nil
}
func (s mapSerializer[K, V]) From(p *ObjectPack) (map[K]V, error) {
	n, err := Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, n)
	for i := uint64(0); i < n; i++ {
		k, err := s.key.From(p)
		if err != nil {
			return nil, err
		}
		val, err := s.val.From(p)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}
