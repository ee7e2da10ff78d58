// Package ghost implements an optimistic, epoch-based synchronization
// mode: link/unlink/remove-node operations touching a
// DISTANT endpoint are buffered per destination rank and flushed in one
// batched AllToAll round each (remove-node, then unlink, then link);
// DISTANT node data is refreshed in bulk, pull-style, rather than kept
// current by any per-object locking. Reads of a DISTANT node return
// whatever the last refresh delivered — there is no notion of waiting
// for a fresher value.
//
// Ghost mode trades staleness for throughput: it never blocks a
// process's own progress on another rank's response, unlike sync/hard.
package ghost
