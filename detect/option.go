// Package detect implements the detection-option tree: a deduplicated DAG
// of rule options, a packet-local memoization layer, and the tree walker
// that evaluates a packet against the options reachable from an MPM match.
package detect

// Kind discriminates Option's tagged variants: a shared capability set
// dispatched by a kind tag rather than an open inheritance hierarchy.
type Kind int

const (
	// KindLeaf marks a node that terminates a rule: its Evaluate always
	// reports Match (NoAlert for a noalert rule), and the tree evaluator
	// treats it specially (rate limiting, event emission).
	KindLeaf Kind = iota
	// KindContent is a (possibly relative) literal/byte-pattern search.
	KindContent
	// KindFlowbit tests or mutates a named per-flow boolean.
	KindFlowbit
	// KindBufferSet switches the active cursor buffer for descendants.
	KindBufferSet
	// KindGeneric covers protocol checks, byte-extract, and other
	// predicates with no dedicated kind of their own.
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindContent:
		return "content"
	case KindFlowbit:
		return "flowbit"
	case KindBufferSet:
		return "buffer_set"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// EvalStatus is the result of evaluating a single Option against a
// cursor and packet.
type EvalStatus int

const (
	// NoMatch means this option's predicate did not hold for the cursor.
	NoMatch EvalStatus = iota
	// Match means the predicate held; children should be considered.
	Match
	// NoAlert means the predicate held but alerts in this subtree should
	// be suppressed (e.g. a rule marked "noalert").
	NoAlert
	// FailedBit means a flowbit test failed; propagated specially so the
	// evaluator can mark the node/packet flowbit-failed.
	FailedBit
)

// Option is a single, interned, stateless predicate: one node's worth of
// rule logic. Two distinct Option values with equal Hash and Equal must
// never coexist in an OptionTable — callers must always intern through the
// table rather than comparing Option values directly.
type Option interface {
	Kind() Kind

	// Hash returns a domain-specific structural hash, stable for the
	// lifetime of the option (its fields never change after construction).
	Hash() uint64

	// Equal reports structural equality with another Option of any kind.
	// Two options of different kinds are never equal.
	Equal(other Option) bool

	// Evaluate tests the option against cursor and pkt, optionally
	// advancing cursor.Start (relative content searches) or pkt's
	// byte-extract registers.
	Evaluate(cursor *Cursor, pkt *PacketContext) EvalStatus

	// IsRelative reports whether this option's matches are anchored to a
	// cursor position rather than packet identity alone — such nodes
	// bypass the packet-local memoization cache.
	IsRelative() bool
}

// Retryable is implemented by options that can attempt another match
// position within the same cursor buffer — in practice, CONTENT-kind options with relative children.
type Retryable interface {
	Option
	// Retry reports whether another match position is plausible and, if
	// so, advances cursor accordingly. orig is the cursor this node was
	// first evaluated with in the current packet, used to bound the
	// search (e.g. "within depth bytes of the original start").
	Retry(cursor *Cursor, orig *Cursor) bool
}

// Deferred is implemented by options whose side effect must not take
// place during the tentative evaluation pass, only once the subtree
// beneath the node is known to have matched.
type Deferred interface {
	Option
	// Apply performs the side effect for real. Called at most once per
	// node per packet, only when the subtree result was > 0.
	Apply(cursor *Cursor, pkt *PacketContext)
}

// LeafOption is implemented by KindLeaf options, exposing the rule
// descriptor the tree evaluator needs for detection-filter lookups and
// event emission.
type LeafOption interface {
	Option
	GID() uint32
	SID() uint32
	Rev() uint32
	Services() []string
	Ports() PortTest
}

// PortTest is the runtime-policy port predicate a leaf option carries,
// decoupled from any specific rule-language representation.
type PortTest interface {
	Match(srcPort, dstPort uint16) bool
}

// AnyPort matches every port pair; used by leaf options with no port
// restriction.
type AnyPort struct{}

// Match implements PortTest.
func (AnyPort) Match(srcPort, dstPort uint16) bool { return true }
