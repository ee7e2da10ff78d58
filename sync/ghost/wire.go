package ghost

import (
	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/id"
)

func encodeIDs(ids []id.DistributedId) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, uint64(len(ids)))
	for _, i := range ids {
		_ = datapack.Put(p, i)
	}
	return p.Dump()
}

func decodeIDs(b []byte) ([]id.DistributedId, error) {
	if len(b) == 0 {
		return nil, nil
	}
	p := datapack.Parse(b)
	n, err := datapack.Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make([]id.DistributedId, 0, n)
	for i := uint64(0); i < n; i++ {
		nid, err := datapack.Get[id.DistributedId](p)
		if err != nil {
			return nil, err
		}
		out = append(out, nid)
	}
	return out, nil
}

// linkMsg is the wire shape of one buffered Link: enough to reconstruct
// the edge and, if needed, materialize either endpoint as a fresh DISTANT
// placeholder on the receiving rank.
type linkMsg struct {
	EdgeID       id.DistributedId
	Layer        int32
	Weight       float64
	SrcID, TgtID id.DistributedId
	SrcLoc       int32
	TgtLoc       int32
	SrcPayload   []byte
	TgtPayload   []byte
}

func encodeLinks[T any](links []linkMsg) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, uint64(len(links)))
	for _, l := range links {
		_ = datapack.Put(p, l.EdgeID)
		_ = datapack.Put(p, l.Layer)
		_ = datapack.Put(p, l.Weight)
		_ = datapack.Put(p, l.SrcID)
		_ = datapack.Put(p, l.SrcLoc)
		_ = datapack.Put(p, uint64(len(l.SrcPayload)))
		p.WriteRaw(l.SrcPayload)
		_ = datapack.Put(p, l.TgtID)
		_ = datapack.Put(p, l.TgtLoc)
		_ = datapack.Put(p, uint64(len(l.TgtPayload)))
		p.WriteRaw(l.TgtPayload)
	}
	return p.Dump()
}

func decodeLinks(b []byte) ([]linkMsg, error) {
	if len(b) == 0 {
		return nil, nil
	}
	p := datapack.Parse(b)
	n, err := datapack.Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make([]linkMsg, 0, n)
	readPayload := func() ([]byte, error) {
		plen, err := datapack.Get[uint64](p)
		if err != nil {
			return nil, err
		}
		raw, err := p.ReadRaw(int(plen))
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return cp, nil
	}
	for i := uint64(0); i < n; i++ {
		var l linkMsg
		if l.EdgeID, err = datapack.Get[id.DistributedId](p); err != nil {
			return nil, err
		}
		if l.Layer, err = datapack.Get[int32](p); err != nil {
			return nil, err
		}
		if l.Weight, err = datapack.Get[float64](p); err != nil {
			return nil, err
		}
		if l.SrcID, err = datapack.Get[id.DistributedId](p); err != nil {
			return nil, err
		}
		if l.SrcLoc, err = datapack.Get[int32](p); err != nil {
			return nil, err
		}
		if l.SrcPayload, err = readPayload(); err != nil {
			return nil, err
		}
		if l.TgtID, err = datapack.Get[id.DistributedId](p); err != nil {
			return nil, err
		}
		if l.TgtLoc, err = datapack.Get[int32](p); err != nil {
			return nil, err
		}
		if l.TgtPayload, err = readPayload(); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// refreshEntry is one (id, data, weight) answer to a data-sync pull.
type refreshEntry[T any] struct {
	ID     id.DistributedId
	Weight float64
	Data   T
}

// putRefreshValue writes v using T's LightSerializer when one is
// registered, trimming a refresh round to the fields that actually need
// to travel, falling back to the full Serializer otherwise.
func putRefreshValue[T any](p *datapack.ObjectPack, v T) error {
	if datapack.HasLightSerializer[T]() {
		return datapack.PutLight(p, v)
	}
	return datapack.Put(p, v)
}

func getRefreshValue[T any](p *datapack.ObjectPack) (T, error) {
	if datapack.HasLightSerializer[T]() {
		return datapack.GetLight[T](p)
	}
	return datapack.Get[T](p)
}

func encodeRefreshEntries[T any](entries []refreshEntry[T]) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, uint64(len(entries)))
	for _, e := range entries {
		_ = datapack.Put(p, e.ID)
		_ = datapack.Put(p, e.Weight)
		_ = putRefreshValue(p, e.Data)
	}
	return p.Dump()
}

func decodeRefreshEntries[T any](b []byte) ([]refreshEntry[T], error) {
	if len(b) == 0 {
		return nil, nil
	}
	p := datapack.Parse(b)
	n, err := datapack.Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make([]refreshEntry[T], 0, n)
	for i := uint64(0); i < n; i++ {
		var e refreshEntry[T]
		if e.ID, err = datapack.Get[id.DistributedId](p); err != nil {
			return nil, err
		}
		if e.Weight, err = datapack.Get[float64](p); err != nil {
			return nil, err
		}
		if e.Data, err = getRefreshValue[T](p); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
