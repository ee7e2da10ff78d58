// Package hard implements a pessimistic synchronization mode: every node
// carries a HardSyncMutex mediating Read/Acquire/Release across whichever
// rank currently holds its LOCAL copy, queued strictly FIFO, with a
// Dijkstra-Feijen-van Gasteren token ring for termination detection.
// Unlike sync/ghost, a blocking call here never returns stale data — it
// suspends until the current owner actually grants access, pumping
// unrelated incoming protocol traffic while it waits so the cluster as a
// whole keeps making progress instead of deadlocking on a silent block.
package hard
