// Package distributed implements the distributed graph: the public
// build/link/unlink/remove surface, the receive-side
// import logic, and the distribute(partition) migration orchestrator.
// It owns one local graph.Graph, one location.Manager, and a
// syncmode.Mode — ghost or hard — that it never imports directly; the
// mode is supplied by the caller and reaches back into this graph only
// through the narrow syncmode.Host interface this package implements.
package distributed
