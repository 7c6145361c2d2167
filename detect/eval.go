package detect

import (
	"time"

	"github.com/coregx/vigil/internal/sparse"
)

// Evaluate walks the option-tree rooted at node against cursor and pkt,
// returning the number of fully-resolved branches beneath node. A leaf
// that matched (and was not suppressed by a rate-limited detection
// filter check) counts as one fully-resolved branch; an internal node
// counts as one fully-resolved branch in its parent's eyes iff its own
// returned result equals its own child count.
//
// wc identifies the calling worker (for per-thread state and the latency
// budget); filter gates leaf event emission. Evaluate is safe to call
// concurrently from distinct workers against the same tree, provided
// each worker passes its own WorkerContext.
func Evaluate(node *Node, wc *WorkerContext, pkt *PacketContext, cursor Cursor, filter *DetectionFilter) int {
	return evaluateNode(node, wc, pkt, cursor, cursor, false, filter)
}

func evaluateNode(node *Node, wc *WorkerContext, pkt *PacketContext, cursor, origCursor Cursor, suppressAlerts bool, filter *DetectionFilter) int {
	tid := wc.ThreadID
	st := node.state[tid]

	// A node suspended by an earlier latency timeout sits out whole
	// packets until its cool-down expires.
	if st.suspendedUntil > 0 {
		if pkt.Timestamp < st.suspendedUntil {
			st.suspends++
			return 0
		}
		st.suspendedUntil = 0
	}

	// Packet-local memoization.
	if cached, ok := checkMemo(node, tid, pkt); ok {
		return cached
	}

	start := time.Now()
	result := 0
	timedOut := false

	// Protocol/port prefilter for leaf nodes.
	leaf, isLeaf := node.Leaf()
	if isLeaf && !leafPasses(leaf, pkt) {
		recordElapsed(st, time.Since(start), false)
		updateMemo(node, tid, pkt, 0)
		return 0
	}

	// This node's own option.
	status := node.option.Evaluate(&cursor, pkt)
	switch status {
	case NoMatch:
		recordElapsed(st, time.Since(start), false)
		updateMemo(node, tid, pkt, 0)
		return 0
	case FailedBit:
		st.flowbitFailed = true
		pkt.FlowbitFailed = true
		recordElapsed(st, time.Since(start), false)
		return 0
	case NoAlert:
		suppressAlerts = true
	case Match:
		// fall through
	}

	if isLeaf {
		if suppressAlerts || emitLeaf(leaf, pkt, filter) {
			result = 1
		}
	}

	retryable, canRetry := node.option.(Retryable)
	canRetry = canRetry && node.relativeChildCount > 0

	if len(node.children) > 0 {
		snap := pkt.SnapshotByteExtract()
		done := sparse.New(uint32(len(node.children)))

		result += runChildren(node, wc, pkt, cursor, origCursor, suppressAlerts, filter, snap, done)

		// Retry loop: while some child is unresolved and this node's
		// option can plausibly match at another position, advance the
		// cursor and run the unresolved children again.
		for canRetry && done.Len() < len(node.children) {
			if wc.Budget.exceeded() {
				timedOut = true
				break
			}
			if !retryable.Retry(&cursor, &origCursor) {
				break
			}
			result += runChildren(node, wc, pkt, cursor, origCursor, suppressAlerts, filter, snap, done)
		}
	}

	// Deferred side effect (flowbit set/clear), applied only once the
	// subtree is known to have matched.
	if deferred, ok := node.option.(Deferred); ok && result > 0 {
		deferred.Apply(&cursor, pkt)
	}

	// Latency fast-path: commit the partial result, optionally suspending
	// this node for subsequent packets.
	if timedOut || wc.Budget.exceeded() {
		st.timeouts++
		if cd := wc.Budget.cooldown(); cd > 0 {
			st.suspendedUntil = pkt.Timestamp + cd
		}
		recordElapsed(st, time.Since(start), result > 0)
		updateMemo(node, tid, pkt, result)
		return result
	}

	recordElapsed(st, time.Since(start), result > 0)
	updateMemo(node, tid, pkt, result)
	return result
}

// runChildren executes one pass over node's not-yet-resolved children,
// adding newly resolved children (matched, or failed for good) to done
// and returning how many of them this pass resolved as matched.
func runChildren(node *Node, wc *WorkerContext, pkt *PacketContext, cursor, origCursor Cursor, suppressAlerts bool, filter *DetectionFilter, snap [16]uint32, done *sparse.Set) int {
	gained := 0
	for i, child := range node.children {
		if done.Contains(uint32(i)) {
			continue
		}
		if wc.Budget.exceeded() {
			break
		}

		pkt.RestoreByteExtract(snap)
		cres := evaluateNode(child, wc, pkt, cursor, origCursor, suppressAlerts, filter)

		if _, leafChild := child.Leaf(); leafChild {
			done.Insert(uint32(i))
			if cres > 0 {
				gained++
			}
			continue
		}

		if cres == len(child.children) && cres > 0 {
			done.Insert(uint32(i))
			gained++
			continue
		}
		if cres == 0 {
			if !child.isRelative {
				done.Insert(uint32(i))
			} else if isUnboundedRelative(child) && node.option.Kind() != KindBufferSet {
				done.Insert(uint32(i))
			}
			// A bounded-relative child (e.g. CONTENT with a "within"
			// bound) is left eligible for re-evaluation: a parent retry
			// that moves the cursor may put it back in range.
		}
	}
	return gained
}

// isUnboundedRelative reports whether a relative-content node's search
// window is unbounded, for the children-loop skip rule. Option kinds
// with no declared bound (including anything other than ContentOption)
// default to unbounded, the conservative "stays failed" choice.
func isUnboundedRelative(n *Node) bool {
	c, ok := n.option.(*ContentOption)
	if !ok {
		return true
	}
	return c.Within == 0 && c.Depth == 0
}

func leafPasses(leaf LeafOption, pkt *PacketContext) bool {
	if svcs := leaf.Services(); len(svcs) > 0 {
		for _, s := range svcs {
			if s == pkt.Service {
				return true
			}
		}
		return false
	}
	return leaf.Ports().Match(pkt.SrcPort, pkt.DstPort)
}

// emitLeaf appends the leaf's event unless the detection filter rejects
// it, and reports whether the filter let the match through.
func emitLeaf(leaf LeafOption, pkt *PacketContext, filter *DetectionFilter) bool {
	if filter != nil && !filter.Hit(leaf.GID(), leaf.SID(), pkt.SrcIP, pkt.DstIP, pkt.Timestamp) {
		return false
	}
	if pkt.Events != nil {
		pkt.Events.Append(Event{GID: leaf.GID(), SID: leaf.SID(), Rev: leaf.Rev()})
	}
	return true
}

func recordElapsed(st *NodeState, d time.Duration, matched bool) {
	st.checks++
	if matched {
		st.elapsedMatchNs += d.Nanoseconds()
	} else {
		st.elapsedNoMatchNs += d.Nanoseconds()
	}
}
