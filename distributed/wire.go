package distributed

import (
	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
)

// packFrames concatenates, per destination rank, a list of
// already-encoded frames into the single byte slice an AllToAll round
// sends to that rank: a uint64 frame count followed by each frame
// length-prefixed.
func packFrames(byDest map[int32][][]byte) map[int32][]byte {
	out := make(map[int32][]byte, len(byDest))
	for dest, frames := range byDest {
		p := datapack.NewObjectPack()
		_ = datapack.Put(p, uint64(len(frames)))
		for _, f := range frames {
			_ = datapack.Put(p, uint64(len(f)))
			p.WriteRaw(f)
		}
		out[dest] = p.Dump()
	}
	return out
}

// unpackFrames inverts packFrames; an empty body (a destination that
// received nothing this round) yields zero frames.
func unpackFrames(b []byte) ([][]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	p := datapack.Parse(b)
	n, err := datapack.Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		flen, err := datapack.Get[uint64](p)
		if err != nil {
			return nil, err
		}
		raw, err := p.ReadRaw(int(flen))
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		out = append(out, cp)
	}
	return out, nil
}

// encodeNode writes a migrating node's id, weight, and payload. Location
// is deliberately not carried: whoever receives a migrated node treats
// it as its own fresh LOCAL copy.
func encodeNode[T any](n *graph.Node[T]) ([]byte, error) {
	p := datapack.NewObjectPack()
	if err := datapack.Put(p, n.Id); err != nil {
		return nil, err
	}
	if err := datapack.Put(p, n.Weight); err != nil {
		return nil, err
	}
	if err := datapack.Put(p, n.Data); err != nil {
		return nil, err
	}
	return p.Dump(), nil
}

func decodeNode[T any](b []byte) (nid id.DistributedId, weight float64, data T, err error) {
	p := datapack.Parse(b)
	if nid, err = datapack.Get[id.DistributedId](p); err != nil {
		return
	}
	if weight, err = datapack.Get[float64](p); err != nil {
		return
	}
	data, err = datapack.Get[T](p)
	return
}

// encodeEdge writes an edge plus, for each endpoint, enough to
// reconstruct a TemporaryNode on the receiver: id, owning rank, and the
// endpoint's still-opaque serialized payload.
func encodeEdge[T any](e *graph.Edge[T]) ([]byte, error) {
	p := datapack.NewObjectPack()
	if err := datapack.Put(p, e.Id); err != nil {
		return nil, err
	}
	if err := datapack.Put(p, int32(e.Layer)); err != nil {
		return nil, err
	}
	if err := datapack.Put(p, e.Weight); err != nil {
		return nil, err
	}
	for _, n := range []*graph.Node[T]{e.Src, e.Tgt} {
		if err := datapack.Put(p, n.Id); err != nil {
			return nil, err
		}
		if err := datapack.Put(p, n.Location); err != nil {
			return nil, err
		}
		payload := datapack.NewObjectPack()
		if err := datapack.Put(payload, n.Data); err != nil {
			return nil, err
		}
		dumped := payload.Dump()
		if err := datapack.Put(p, uint64(len(dumped))); err != nil {
			return nil, err
		}
		p.WriteRaw(dumped)
	}
	return p.Dump(), nil
}

// decodedEdge is the receive-side shape of an imported edge: concrete
// fields plus one TemporaryNode per endpoint, left unbuilt until
// ImportEdge discovers whether that endpoint is already known locally.
type decodedEdge[T any] struct {
	ID     id.DistributedId
	Layer  int
	Weight float64
	Src    *datapack.TemporaryNode[T]
	Tgt    *datapack.TemporaryNode[T]
}

func decodeEdge[T any](b []byte) (decodedEdge[T], error) {
	var de decodedEdge[T]
	p := datapack.Parse(b)

	eid, err := datapack.Get[id.DistributedId](p)
	if err != nil {
		return de, err
	}
	layer32, err := datapack.Get[int32](p)
	if err != nil {
		return de, err
	}
	weight, err := datapack.Get[float64](p)
	if err != nil {
		return de, err
	}

	readEndpoint := func() (*datapack.TemporaryNode[T], error) {
		nid, err := datapack.Get[id.DistributedId](p)
		if err != nil {
			return nil, err
		}
		location, err := datapack.Get[int32](p)
		if err != nil {
			return nil, err
		}
		n, err := datapack.Get[uint64](p)
		if err != nil {
			return nil, err
		}
		raw, err := p.ReadRaw(int(n))
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return datapack.NewTemporaryNode[T](nid, location, datapack.Parse(cp)), nil
	}

	src, err := readEndpoint()
	if err != nil {
		return de, err
	}
	tgt, err := readEndpoint()
	if err != nil {
		return de, err
	}

	de.ID, de.Layer, de.Weight, de.Src, de.Tgt = eid, int(layer32), weight, src, tgt
	return de, nil
}
