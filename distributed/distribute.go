package distributed

import (
	"context"

	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
)

// Distribute runs the migration pipeline for the given
// partition: ids mapped to a rank other than this process are exported
// (with their incident edges); ids absent from partition, or mapped to
// this process, are left untouched.
func (dg *Graph[T]) Distribute(ctx context.Context, partition map[id.DistributedId]int32) error {
	if err := dg.mode.SyncLinker().Synchronize(ctx); err != nil {
		return err
	}

	exportedNodes, exportedEdgesByDest := dg.buildExportSets(partition)
	dg.log.Debug("distribute: export sets built", "rank", dg.self, "nodes", len(exportedNodes), "edge_destinations", len(exportedEdgesByDest))

	nodeTag := mpi.EpochTag(mpi.PurposeDistribute, dg.distributeEpoch)
	edgeTag := mpi.EpochTag(mpi.PurposeDistribute, dg.distributeEpoch+1)
	dg.distributeEpoch += 2

	nodesRecv, err := dg.comm.AllToAll(ctx, nodeTag, dg.encodeNodesByDest(exportedNodes, partition))
	if err != nil {
		return err
	}
	edgesRecv, err := dg.comm.AllToAll(ctx, edgeTag, dg.encodeEdgesByDest(exportedEdgesByDest))
	if err != nil {
		return err
	}

	if err := dg.importReceivedNodes(nodesRecv); err != nil {
		return err
	}
	if err := dg.importReceivedEdges(edgesRecv); err != nil {
		return err
	}

	for _, n := range exportedNodes {
		dg.loc.SetDistant(n, partition[n.Id])
	}
	for _, n := range exportedNodes {
		if len(n.Layers()) == 0 {
			_ = dg.g.EraseNode(n.Id)
			dg.loc.Forget(n.Id)
		}
	}

	if err := dg.loc.UpdateLocations(ctx); err != nil {
		return err
	}
	if err := dg.mode.DataSync().Synchronize(ctx); err != nil {
		return err
	}
	dg.log.Info("distribute: round complete", "rank", dg.self, "exported", len(exportedNodes))
	return nil
}

// buildExportSets gathers every local node targeted at another rank,
// plus — deduplicated per destination — every edge incident to one of
// those nodes.
func (dg *Graph[T]) buildExportSets(partition map[id.DistributedId]int32) ([]*graph.Node[T], map[int32]map[id.DistributedId]*graph.Edge[T]) {
	var exportedNodes []*graph.Node[T]
	byDest := make(map[int32]map[id.DistributedId]*graph.Edge[T])

	addEdge := func(dest int32, e *graph.Edge[T]) {
		set, ok := byDest[dest]
		if !ok {
			set = make(map[id.DistributedId]*graph.Edge[T])
			byDest[dest] = set
		}
		set[e.Id] = e
	}

	for nid, dest := range partition {
		if dest == dg.self {
			continue
		}
		n, err := dg.g.GetNode(nid)
		if err != nil {
			continue
		}
		exportedNodes = append(exportedNodes, n)

		for _, layer := range n.Layers() {
			for _, e := range n.OutEdges(layer) {
				addEdge(dest, e)
			}
			for _, e := range n.InEdges(layer) {
				addEdge(dest, e)
			}
		}
	}
	return exportedNodes, byDest
}

func (dg *Graph[T]) encodeNodesByDest(nodes []*graph.Node[T], partition map[id.DistributedId]int32) map[int32][]byte {
	byDest := make(map[int32][][]byte)
	for _, n := range nodes {
		b, err := encodeNode(n)
		if err != nil {
			continue
		}
		dest := partition[n.Id]
		byDest[dest] = append(byDest[dest], b)
	}
	return packFrames(byDest)
}

func (dg *Graph[T]) encodeEdgesByDest(byDest map[int32]map[id.DistributedId]*graph.Edge[T]) map[int32][]byte {
	frames := make(map[int32][][]byte, len(byDest))
	for dest, edges := range byDest {
		for _, e := range edges {
			b, err := encodeEdge(e)
			if err != nil {
				continue
			}
			frames[dest] = append(frames[dest], b)
		}
	}
	return packFrames(frames)
}

func (dg *Graph[T]) importReceivedNodes(recv map[int32][]byte) error {
	for _, body := range recv {
		frames, err := unpackFrames(body)
		if err != nil {
			return err
		}
		for _, f := range frames {
			nid, weight, data, err := decodeNode[T](f)
			if err != nil {
				return err
			}
			n := graph.NewLocalNode(nid, data)
			n.Weight = weight
			dg.ImportNode(n)
		}
	}
	return nil
}

func (dg *Graph[T]) importReceivedEdges(recv map[int32][]byte) error {
	for _, body := range recv {
		frames, err := unpackFrames(body)
		if err != nil {
			return err
		}
		for _, f := range frames {
			de, err := decodeEdge[T](f)
			if err != nil {
				return err
			}
			if err := dg.ImportEdge(de.ID, de.Layer, de.Weight, de.Src, de.Tgt); err != nil {
				return err
			}
		}
	}
	return nil
}
