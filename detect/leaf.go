package detect

// RuleLeaf is the concrete LeafOption every rule's terminating node
// carries: its (gid, sid, rev) identity plus the service/port prefilter
// data a leaf-node check consults. The detect package has no notion of
// a rule-file representation; the compiler constructs these from
// whatever input contract it is handed.
type RuleLeaf struct {
	GIDVal uint32
	SIDVal uint32
	RevVal uint32
	ServicesVal []string
	PortsVal PortTest

	// NoAlertVal marks a rule that matches (drives flowbits, counts
	// toward its parent's result) without ever emitting an event.
	NoAlertVal bool
}

// Kind implements Option.
func (l *RuleLeaf) Kind() Kind { return KindLeaf }

// IsRelative implements Option. Leaves terminate a rule; they carry no
// cursor-relative state of their own.
func (l *RuleLeaf) IsRelative() bool { return false }

// Hash implements Option.
func (l *RuleLeaf) Hash() uint64 {
	h := uint64(l.GIDVal)<<32 ^ uint64(l.SIDVal) ^ uint64(l.RevVal)<<16
	if l.NoAlertVal {
		h ^= 1 << 63
	}
	return h
}

// Equal implements Option.
func (l *RuleLeaf) Equal(other Option) bool {
	o, ok := other.(*RuleLeaf)
	return ok && l.GIDVal == o.GIDVal && l.SIDVal == o.SIDVal &&
		l.RevVal == o.RevVal && l.NoAlertVal == o.NoAlertVal
}

// Evaluate implements Option: a leaf's own predicate is always
// satisfied once reached — the protocol/port prefilter is applied
// separately by the evaluator before this is called. A noalert leaf
// still matches; it only suppresses event emission.
func (l *RuleLeaf) Evaluate(cursor *Cursor, pkt *PacketContext) EvalStatus {
	if l.NoAlertVal {
		return NoAlert
	}
	return Match
}

// GID implements LeafOption.
func (l *RuleLeaf) GID() uint32 { return l.GIDVal }

// SID implements LeafOption.
func (l *RuleLeaf) SID() uint32 { return l.SIDVal }

// Rev implements LeafOption.
func (l *RuleLeaf) Rev() uint32 { return l.RevVal }

// Services implements LeafOption.
func (l *RuleLeaf) Services() []string { return l.ServicesVal }

// Ports implements LeafOption.
func (l *RuleLeaf) Ports() PortTest {
	if l.PortsVal == nil {
		return AnyPort{}
	}
	return l.PortsVal
}
