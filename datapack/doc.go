// Package datapack implements the binary serialization substrate used by
// every MPI message in the cluster: ObjectPack (full payload), its
// LightObjectPack variant (ghost-refresh payload, fields-minimal), and
// TemporaryNode, the lazy handle attached to imported edges so an
// already-known endpoint never pays a deserialization cost.
//
// The dispatch is reflection-based rather than compile-time generic
// specialization: every payload type T registers a Serializer[T] (or
// LightSerializer[T]) instance once, at init time, via
// RegisterSerializer/RegisterLightSerializer. Put[T]/Get[T]/Size[T] then
// dispatch to the registered instance by T's reflect.Type — an open
// trait, not a closed type switch, so user payload types plug in without
// touching this package.
//
// ObjectPack itself is a single growable byte buffer with independent
// read and write cursors, under a single-allocation contract: Size[T]
// computes the exact byte count up front so the buffer backing a
// message is grown at most once per Put call.
package datapack
