package detect

// checkMemo consults a node's per-thread cache for the current packet.
// It returns (result, true) when the cached result may be reused
// without re-evaluating the node's option or descending into its
// children again; (0, false) otherwise.
//
// A relative node's result depends on the cursor position it was called
// with, not just packet identity, so relative nodes never hit the cache.
func checkMemo(n *Node, tid int, pkt *PacketContext) (int, bool) {
	if n.isRelative {
		return 0, false
	}
	if pkt.AllowMultipleDetect || pkt.IPRuleSecondPass || pkt.UDPTunneled {
		return 0, false
	}
	st := n.state[tid]
	if st.flowbitFailed {
		return 0, false
	}
	if !st.lastCheck.matches(pkt) {
		return 0, false
	}
	return st.lastResult, true
}

// updateMemo records the result of a fresh evaluation for later reuse by
// checkMemo, stamping the fingerprint that pins it to this exact packet.
func updateMemo(n *Node, tid int, pkt *PacketContext, result int) {
	st := n.state[tid]
	st.flowbitFailed = false
	st.lastCheck = fingerprint{
		valid: true,
		timestamp: pkt.Timestamp,
		run: pkt.RunNumber,
		ctx: pkt.ContextNumber,
		rebuild: pkt.Rebuild,
	}
	st.lastResult = result
}
