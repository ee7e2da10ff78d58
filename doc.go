// Package graph (fpmgraph) is a distributed, labelled-multigraph engine
// for MPI-style simulations: every process builds and mutates its own
// local slice of one logical graph, and a chosen synchronization mode
// reconciles that state across processes.
//
// Under the hood, everything is organized under a handful of
// subpackages:
//
//	id/          — process-local distributed identifiers
//	graph/       — the local, thread-safe multigraph: Node, Edge, layers
//	datapack/    — the wire codec nodes and edges cross a process on
//	mpi/         — the typed point-to-point/collective transport seam
//	location/    — LOCAL/DISTANT bookkeeping and ownership resolution
//	syncmode/    — the contract a synchronization mode implements
//	distributed/ — the distributed graph built on top of all of the above
//	sync/ghost/  — optimistic, epoch-based, buffered synchronization
//	sync/hard/   — per-node mutex synchronization with termination
//	             detection
//	builder/     — deterministic local topology generators
//	analysis/    — read-only clustering/degree statistics
//	balance/     — the load-balancing contract Distribute partitions by
//	config/      — process/cluster bootstrap options
//
// cmd/ringdemo wires all of the above together over an in-process
// mpi.LocalCluster as a runnable example.
package graph
