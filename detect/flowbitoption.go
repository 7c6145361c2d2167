package detect

// FlowbitOp discriminates the operation a FlowbitOption performs.
type FlowbitOp int

const (
	FlowbitIsSet FlowbitOp = iota
	FlowbitIsNotSet
	FlowbitSet
	FlowbitClear
	FlowbitToggle
)

// FlowbitOption tests or mutates a named per-flow boolean.
// Mutating operations (Set/Clear/Toggle) are reported as Match without
// taking effect when first evaluated; the tree evaluator invokes Apply
// once the enclosing subtree is known to have matched.
type FlowbitOption struct {
	BitID uint32
	Op FlowbitOp
}

// Kind implements Option.
func (f *FlowbitOption) Kind() Kind { return KindFlowbit }

// IsRelative implements Option. Flowbit state is keyed by flow, not
// cursor position, so flowbit nodes participate in packet-local
// memoization like any other non-relative node.
func (f *FlowbitOption) IsRelative() bool { return false }

// Hash implements Option.
func (f *FlowbitOption) Hash() uint64 {
	return 0x9e3779b97f4a7c15 ^ uint64(f.BitID)<<8 ^ uint64(f.Op)
}

// Equal implements Option.
func (f *FlowbitOption) Equal(other Option) bool {
	o, ok := other.(*FlowbitOption)
	return ok && f.BitID == o.BitID && f.Op == o.Op
}

// Evaluate implements Option.
func (f *FlowbitOption) Evaluate(cursor *Cursor, pkt *PacketContext) EvalStatus {
	switch f.Op {
	case FlowbitIsSet:
		if pkt.Flowbits != nil && pkt.Flowbits.Test(f.BitID) {
			return Match
		}
		return FailedBit
	case FlowbitIsNotSet:
		if pkt.Flowbits == nil || !pkt.Flowbits.Test(f.BitID) {
			return Match
		}
		return FailedBit
	default:
		// Set/Clear/Toggle: tentatively matched; the real mutation
		// happens in Apply.
		return Match
	}
}

// Apply implements Deferred.
func (f *FlowbitOption) Apply(cursor *Cursor, pkt *PacketContext) {
	if pkt.Flowbits == nil {
		return
	}
	switch f.Op {
	case FlowbitSet:
		pkt.Flowbits.Set(f.BitID)
	case FlowbitClear:
		pkt.Flowbits.Clear(f.BitID)
	case FlowbitToggle:
		pkt.Flowbits.Toggle(f.BitID)
	}
}
