package detect

// BufferSetOption switches the active cursor buffer for its descendants
// to a named alternate view of the packet,
// e.g. a normalized URI or a decoded body distinct from the raw payload.
type BufferSetOption struct {
	Name string
}

// Kind implements Option.
func (b *BufferSetOption) Kind() Kind { return KindBufferSet }

// IsRelative implements Option. Buffer selection depends on packet
// identity alone, not cursor position.
func (b *BufferSetOption) IsRelative() bool { return false }

// Hash implements Option.
func (b *BufferSetOption) Hash() uint64 {
	h := uint64(1469598103934665603)
	for i := 0; i < len(b.Name); i++ {
		h ^= uint64(b.Name[i])
		h *= 1099511628211
	}
	return h
}

// Equal implements Option.
func (b *BufferSetOption) Equal(other Option) bool {
	o, ok := other.(*BufferSetOption)
	return ok && b.Name == o.Name
}

// Evaluate implements Option: on success it replaces *cursor wholesale
// with a fresh view over the named buffer.
func (b *BufferSetOption) Evaluate(cursor *Cursor, pkt *PacketContext) EvalStatus {
	buf, ok := pkt.Buffers[b.Name]
	if !ok {
		return NoMatch
	}
	*cursor = NewCursor(buf)
	return Match
}
