package datapack

import "reflect"

// LightSerializer is the "light" counterpart to Serializer: a payload
// type may register one to drop fields not needed by a ghost-data
// refresh (e.g. skip auxiliary Data fields, keep only what link
// continuity needs). The sync mode picks Serializer or
// LightSerializer depending on whether it is sending a full payload
// (migration) or a ghost pull (dataSync.synchronize).
//
// A type with no registered LightSerializer simply has no light path;
// PutLight/GetLight then fail with fpmaserr.ErrProtocol via
// errNoSerializer, and callers fall back to the full Serializer.
type LightSerializer[T any] interface {
	Size(v T) int
	To(p *ObjectPack, v T) error
	From(p *ObjectPack) (T, error)
}

// lightRegistry uses a plain map, not sync.Map: registrations happen in
// init() functions before any goroutine runs, and the single-threaded-
// per-process model never mutates it afterward.
var lightRegistry = struct {
	m map[reflect.Type]any
}{m: make(map[reflect.Type]any)}

// RegisterLightSerializer installs s as the LightSerializer for T.
func RegisterLightSerializer[T any](s LightSerializer[T]) {
	lightRegistry.m[reflect.TypeOf((*T)(nil)).Elem()] = s
}

func lookupLightSerializer[T any]() (LightSerializer[T], bool) {
	v, ok := lightRegistry.m[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	s, ok := v.(LightSerializer[T])

	return s, ok
}

// HasLightSerializer reports whether T has a registered light variant.
func HasLightSerializer[T any]() bool {
	_, ok := lookupLightSerializer[T]()
	return ok
}

// SizeLight returns the light wire size of v, or ok=false if T has no
// registered LightSerializer.
func SizeLight[T any](v T) (int, bool) {
	s, ok := lookupLightSerializer[T]()
	if !ok {
		return 0, false
	}
	return s.Size(v), true
}

// PutLight writes v to p using T's registered LightSerializer.
func PutLight[T any](p *ObjectPack, v T) error {
	s, ok := lookupLightSerializer[T]()
	if !ok {
		return errNoSerializer("light serializer", v)
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

// GetLight reads a T from p using T's registered LightSerializer.
func GetLight[T any](p *ObjectPack) (T, error) {
	var zero T
	s, ok := lookupLightSerializer[T]()
	if !ok {
		return zero, errNoSerializer("light serializer", zero)
	}
	return s.From(p)
}
