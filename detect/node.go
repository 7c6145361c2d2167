package detect

import "sync/atomic"

var nodeSeq atomic.Uint64

// fingerprint identifies "this packet, as far as this node is concerned"
// for the memoization check.
type fingerprint struct {
	valid bool
	timestamp int64
	run uint32
	ctx uint32
	rebuild bool
}

func (f fingerprint) matches(pkt *PacketContext) bool {
	return f.valid &&
		f.timestamp == pkt.Timestamp &&
		f.run == pkt.RunNumber &&
		f.ctx == pkt.ContextNumber &&
		f.rebuild == pkt.Rebuild
}

// NodeState is the per-thread evaluation state: each worker thread
// writes only state[ThreadID], so no locking is required.
type NodeState struct {
	lastCheck fingerprint
	lastResult int
	flowbitFailed bool
	suspendedUntil int64

	checks uint64
	elapsedMatchNs int64
	elapsedNoMatchNs int64
	timeouts uint64
	suspends uint64
}

// Checks returns how many times this slot's node has actually been
// evaluated; cache hits do not count.
func (s *NodeState) Checks() uint64 { return s.checks }

// Node is one node of the detection-option tree DAG. Nodes are
// allocated one at a time and hold non-owning child references; the
// TreeTable that interned them holds every node of a configuration and
// drops them together at teardown.
type Node struct {
	id uint64
	option Option
	children []*Node
	relativeChildCount int
	isRelative bool
	state []*NodeState
}

// newNode constructs a node. Callers should go through TreeTable.Intern
// rather than calling this directly, so structurally equal subtrees share
// identity.
func newNode(option Option, children []*Node, threadCount int) *Node {
	n := &Node{
		id: nodeSeq.Add(1),
		option: option,
		children: children,
		isRelative: option.IsRelative(),
	}
	for _, c := range children {
		if c.option.IsRelative() {
			n.relativeChildCount++
		}
	}
	n.state = make([]*NodeState, threadCount)
	for i := range n.state {
		n.state[i] = &NodeState{}
	}
	return n
}

// Option returns the node's interned option.
func (n *Node) Option() Option { return n.option }

// Children returns the node's child nodes in build order.
func (n *Node) Children() []*Node { return n.children }

// IsRelative reports whether this node's own option is relative.
func (n *Node) IsRelative() bool { return n.isRelative }

// RelativeChildCount returns how many of this node's children are
// themselves relative-content nodes.
func (n *Node) RelativeChildCount() int { return n.relativeChildCount }

// Leaf returns the node's rule descriptor if its option is a leaf, or
// (nil, false) otherwise.
func (n *Node) Leaf() (LeafOption, bool) {
	l, ok := n.option.(LeafOption)
	return l, ok
}

// State returns the per-thread state slot for tid. Panics if tid is out of
// range: thread ids are fixed at startup and never exceed the configured
// worker count.
func (n *Node) State(tid int) *NodeState {
	return n.state[tid]
}
