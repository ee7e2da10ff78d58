package datapack

// ObjectPack is a single contiguously-allocated byte buffer with
// independent write and read cursors. Every MPI message body in the
// cluster is exactly one ObjectPack.
//
// Allocate/Expand grow the backing array; WriteRaw/ReadRaw are the
// trivially-copyable shortcuts; Put/Get (free functions below, since Go
// methods cannot introduce their own type parameter) dispatch through
// the Serializer[T] registry. Extract copies out a nested, still-opaque
// sub-payload (used to carry a TemporaryNode's embedded endpoint data
// without deserializing it).
type ObjectPack struct {
	buf  []byte
	wOff int
	rOff int
}

// NewObjectPack returns an empty ObjectPack ready for writing.
func NewObjectPack() *ObjectPack {
	return &ObjectPack{}
}

// Allocate grows the backing array's capacity to at least n bytes,
// preserving existing contents. It never shrinks the buffer and never
// changes WriteOffset/ReadOffset.
func (p *ObjectPack) Allocate(n int) {
	if cap(p.buf) >= n {
		return
	}
	grown := make([]byte, len(p.buf), n)
	copy(grown, p.buf)
	p.buf = grown
}

// Expand grows capacity by delta bytes relative to the current length,
// preserving contents. Equivalent to Allocate(len(buf) + delta).
func (p *ObjectPack) Expand(delta int) {
	p.Allocate(len(p.buf) + delta)
}

// WriteRaw copies b into the buffer at the current write cursor,
// growing the backing array if necessary, and advances the write
// cursor by len(b).
func (p *ObjectPack) WriteRaw(b []byte) {
	end := p.wOff + len(b)
	if end > len(p.buf) {
		if cap(p.buf) < end {
			grown := make([]byte, end)
			copy(grown, p.buf)
			p.buf = grown
		} else {
			p.buf = p.buf[:end]
		}
	}
	copy(p.buf[p.wOff:end], b)
	p.wOff = end
}

// ReadRaw returns the next n bytes from the read cursor and advances it.
// The returned slice aliases the pack's backing array; callers that need
// to retain it across further writes must copy it themselves.
func (p *ObjectPack) ReadRaw(n int) ([]byte, error) {
	if p.rOff+n > len(p.buf) {
		return nil, errTruncated(n, len(p.buf)-p.rOff)
	}
	out := p.buf[p.rOff : p.rOff+n]
	p.rOff += n

	return out, nil
}

// SeekWrite repositions the write cursor to offset off.
func (p *ObjectPack) SeekWrite(off int) { p.wOff = off }

// SeekRead repositions the read cursor to offset off.
func (p *ObjectPack) SeekRead(off int) { p.rOff = off }

// WriteOffset returns the current write cursor position.
func (p *ObjectPack) WriteOffset() int { return p.wOff }

// ReadOffset returns the current read cursor position.
func (p *ObjectPack) ReadOffset() int { return p.rOff }

// Len returns the number of bytes currently written to the pack.
func (p *ObjectPack) Len() int { return len(p.buf) }

// Remaining returns the number of unread bytes left after the read
// cursor.
func (p *ObjectPack) Remaining() int { return len(p.buf) - p.rOff }

// Extract copies n bytes starting at the read cursor into a fresh,
// independent ObjectPack and advances the read cursor past them. Used to
// carry a nested payload (e.g. an edge's embedded endpoint data) opaquely
// without deserializing it at this level.
func (p *ObjectPack) Extract(n int) (*ObjectPack, error) {
	b, err := p.ReadRaw(n)
	if err != nil {
		return nil, err
	}
	cp := make([]byte, n)
	copy(cp, b)

	return &ObjectPack{buf: cp, wOff: n}, nil
}

// Dump returns the pack's full written contents and leaves the pack
// usable for further writes/reads; the returned slice aliases the
// backing array.
func (p *ObjectPack) Dump() []byte {
	return p.buf[:p.wOff]
}

// Parse wraps an existing byte slice as a fresh ObjectPack positioned for
// reading from offset 0. It does not copy b.
func Parse(b []byte) *ObjectPack {
	return &ObjectPack{buf: b, wOff: len(b)}
}
