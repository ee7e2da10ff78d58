package datapack

import (
	"reflect"
	"sync"
)

// Serializer is the contract a payload type T must satisfy to travel
// inside an ObjectPack: a reflection-keyed open-trait dispatch table in
// place of compile-time template specialization. Implementations
// register themselves once via RegisterSerializer[T], and Put/Get/Size
// dispatch to them by T's reflect.Type.
type Serializer[T any] interface {
	// Size returns the exact number of bytes To will write for v. Must
	// be exact: Put treats any mismatch as fpmaserr.ErrProtocol.
	Size(v T) int
	// To writes v to p starting at p's current write cursor.
	To(p *ObjectPack, v T) error
	// From reads a T from p starting at p's current read cursor.
	From(p *ObjectPack) (T, error)
}

var registry sync.Map // reflect.Type -> Serializer[T] (type-erased)

// RegisterSerializer installs s as the Serializer for T. Intended to run
// from an init() function; registering the same T twice overwrites the
// previous entry (last writer wins), which is only ever exercised in
// tests that swap in a fake serializer.
func RegisterSerializer[T any](s Serializer[T]) {
	registry.Store(reflect.TypeOf((*T)(nil)).Elem(), s)
}

func lookupSerializer[T any]() (Serializer[T], bool) {
	v, ok := registry.Load(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return nil, false
	}
	s, ok := v.(Serializer[T])

	return s, ok
}

// Size returns the exact wire size of v per its registered Serializer.
func Size[T any](v T) (int, error) {
	s, ok := lookupSerializer[T]()
	if !ok {
		return 0, errNoSerializer("serializer", v)
	}

	return s.Size(v), nil
}

// Put writes v to p using T's registered Serializer, pre-growing p by
// exactly the declared size and failing with fpmaserr.ErrProtocol if the
// serializer wrote a different number of bytes than it declared.
func Put[T any](p *ObjectPack, v T) error {
	s, ok := lookupSerializer[T]()
	if !ok {
		return errNoSerializer("serializer", v)
	}
	want := s.Size(v)
	p.Expand(want)
	before := p.wOff
	if err := s.To(p, v); err != nil {
		return err
	}
	if wrote := p.wOff - before; wrote != want {
		return errSizeMismatch(want, wrote)
	}

	return nil
}

// Get reads a T from p using T's registered Serializer, advancing p's
// read cursor.
func Get[T any](p *ObjectPack) (T, error) {
	var zero T
	s, ok := lookupSerializer[T]()
	if !ok {
		return zero, errNoSerializer("serializer", zero)
	}

	return s.From(p)
}
