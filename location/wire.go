package location

import (
	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/id"
)

// locationEntry is one (id, current-location) pair, the shape phase 3's
// response round carries back from an origin to the processes that asked.
type locationEntry struct {
	ID       id.DistributedId
	Location int32
}

func encodeIDs(ids []id.DistributedId) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, uint64(len(ids)))
	for _, v := range ids {
		_ = datapack.Put(p, v)
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
		v, err := datapack.Get[id.DistributedId](p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func encodeEntries(entries []locationEntry) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, uint64(len(entries)))
	for _, e := range entries {
		_ = datapack.Put(p, e.ID)
		_ = datapack.Put(p, e.Location)
	}
	return p.Dump()
}

func decodeEntries(b []byte) ([]locationEntry, error) {
	if len(b) == 0 {
		return nil, nil
	}
	p := datapack.Parse(b)
	n, err := datapack.Get[uint64](p)
	if err != nil {
		return nil, err
	}
	out := make([]locationEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		nid, err := datapack.Get[id.DistributedId](p)
		if err != nil {
			return nil, err
		}
		loc, err := datapack.Get[int32](p)
		if err != nil {
			return nil, err
		}
		out = append(out, locationEntry{ID: nid, Location: loc})
	}
	return out, nil
}
