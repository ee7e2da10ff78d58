package hard

import (
	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/id"
)

// wireKind identifies what a hardMsg carries. Request/response pairs
// share a Purpose tag (request on epoch e, response on epoch e+1, per
// mpi.EpochTag); notifications (remove-node, link, unlink, the release
// variants) are one-way and need no response tag.
type wireKind int32

const (
	kindReadReq wireKind = iota
	kindReadResp
	kindAcquireReq
	kindAcquireResp
	kindLockSharedReq
	kindLockSharedResp
	kindReleaseAcquire // notification: exclusive hold released, carries new data
	kindUnlockShared   // notification: shared hold released
	kindRemoveNode     // notification: forwarded remove request
	kindLink           // notification: forwarded link
	kindUnlink         // notification: forwarded unlink
)

// hardMsg is the single wire envelope every hard-sync message uses.
// RespTag is meaningful only for the *Req kinds: it tells the owner
// which tag to reply on (always EpochTag(samePurpose, epoch+1) of the
// tag the request itself arrived on, computed by the requester and
// echoed back so the owner never has to guess the requester's purpose).
type hardMsg struct {
	Kind      wireKind
	NID       id.DistributedId
	Requester int32
	RespTag   int32
	Data      []byte
}

func encodeHardMsg(m hardMsg) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, int32(m.Kind))
	_ = datapack.Put(p, m.NID)
	_ = datapack.Put(p, m.Requester)
	_ = datapack.Put(p, m.RespTag)
	_ = datapack.Put(p, uint64(len(m.Data)))
	p.WriteRaw(m.Data)
	return p.Dump()
}

func decodeHardMsg(b []byte) (hardMsg, error) {
	var m hardMsg
	p := datapack.Parse(b)

	kind, err := datapack.Get[int32](p)
	if err != nil {
		return m, err
	}
	nid, err := datapack.Get[id.DistributedId](p)
	if err != nil {
		return m, err
	}
	requester, err := datapack.Get[int32](p)
	if err != nil {
		return m, err
	}
	respTag, err := datapack.Get[int32](p)
	if err != nil {
		return m, err
	}
	n, err := datapack.Get[uint64](p)
	if err != nil {
		return m, err
	}
	raw, err := p.ReadRaw(int(n))
	if err != nil {
		return m, err
	}
	data := make([]byte, len(raw))
	copy(data, raw)

	m.Kind, m.NID, m.Requester, m.RespTag, m.Data = wireKind(kind), nid, requester, respTag, data
	return m, nil
}

// encodePayload/decodePayload wrap a single T value as a hardMsg.Data
// body using T's full Serializer (hard sync never trims via
// LightSerializer — every read must return the authoritative value).
func encodePayload[T any](v T) []byte {
	p := datapack.NewObjectPack()
	_ = datapack.Put(p, v)
	return p.Dump()
}

func decodePayload[T any](b []byte) (T, error) {
	p := datapack.Parse(b)
	return datapack.Get[T](p)
}

// linkPayload mirrors sync/ghost's linkMsg: enough to reconstruct the
// forwarded edge and materialize an unseen endpoint as a DISTANT
// placeholder.
type linkPayload struct {
	EdgeID       id.DistributedId
	Layer        int32
	Weight       float64
	SrcID, TgtID id.DistributedId
	SrcLoc, TgtLoc int32
	SrcPayload, TgtPayload []byte
}

func encodeLinkPayload(l linkPayload) []byte {
	p := datapack.NewObjectPack()
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
	return p.Dump()
}

func decodeLinkPayload(b []byte) (linkPayload, error) {
	var l linkPayload
	p := datapack.Parse(b)
	var err error
	if l.EdgeID, err = datapack.Get[id.DistributedId](p); err != nil {
		return l, err
	}
	if l.Layer, err = datapack.Get[int32](p); err != nil {
		return l, err
	}
	if l.Weight, err = datapack.Get[float64](p); err != nil {
		return l, err
	}
	readEndpoint := func() (id.DistributedId, int32, []byte, error) {
		nid, err := datapack.Get[id.DistributedId](p)
		if err != nil {
			return nid, 0, nil, err
		}
		loc, err := datapack.Get[int32](p)
		if err != nil {
			return nid, 0, nil, err
		}
		n, err := datapack.Get[uint64](p)
		if err != nil {
			return nid, 0, nil, err
		}
		raw, err := p.ReadRaw(int(n))
		if err != nil {
			return nid, 0, nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return nid, loc, cp, nil
	}
	if l.SrcID, l.SrcLoc, l.SrcPayload, err = readEndpoint(); err != nil {
		return l, err
	}
	if l.TgtID, l.TgtLoc, l.TgtPayload, err = readEndpoint(); err != nil {
		return l, err
	}
	return l, nil
}
