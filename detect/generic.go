package detect

// GenericFunc is the predicate a GenericOption wraps: protocol checks,
// byte-extract, or any other rule option with no dedicated Kind of its
// own.
type GenericFunc func(cursor *Cursor, pkt *PacketContext) EvalStatus

// GenericOption adapts an arbitrary predicate into the Option interface.
// Because the predicate itself is an opaque closure, structural identity
// is carried by Key rather than by inspecting Fn: callers (the rule
// compiler) must assign the same Key to semantically identical options
// for interning to dedup them.
type GenericOption struct {
	Key string
	Relative bool
	Fn GenericFunc
}

// Kind implements Option.
func (g *GenericOption) Kind() Kind { return KindGeneric }

// IsRelative implements Option.
func (g *GenericOption) IsRelative() bool { return g.Relative }

// Hash implements Option.
func (g *GenericOption) Hash() uint64 {
	h := uint64(1469598103934665603)
	for i := 0; i < len(g.Key); i++ {
		h ^= uint64(g.Key[i])
		h *= 1099511628211
	}
	return h
}

// Equal implements Option.
func (g *GenericOption) Equal(other Option) bool {
	o, ok := other.(*GenericOption)
	return ok && g.Key == o.Key && g.Relative == o.Relative
}

// Evaluate implements Option.
func (g *GenericOption) Evaluate(cursor *Cursor, pkt *PacketContext) EvalStatus {
	return g.Fn(cursor, pkt)
}
