package compiler

import (
	"github.com/coregx/vigil/detect"
	"github.com/coregx/vigil/mpm"
)

// scanCtx is the ctx value threaded through mpm.Automaton.Scan: the
// match callback needs the packet-local evaluation context, the worker,
// the detection filter, and the buffer the MPM scanned, to construct a
// Cursor and call detect.Evaluate.
type scanCtx struct {
	wc *detect.WorkerContext
	pkt *detect.PacketContext
	filter *detect.DetectionFilter
	buffer []byte
}

// ScanBuffer runs the compiled MPM automaton over buffer and evaluates
// every matched pattern's option-tree root against pkt, accumulating the
// total match fan-out score. state is the DFA resume cursor (pass a pointer to zero for a
// fresh scan; streaming scans reuse it across calls).
func (c *Config) ScanBuffer(wc *detect.WorkerContext, pkt *detect.PacketContext, buffer []byte, state *uint32) int {
	ctx := &scanCtx{wc: wc, pkt: pkt, filter: c.Filter, buffer: buffer}
	total := 0
	c.Automaton.Scan(buffer, matchCallback(&total), ctx, state)
	return total
}

// matchCallback builds the mpm.MatchCallback that bridges a raw AC match
// into a tree evaluation, accumulating into total. The callback's
// non-zero return aborts the scan only when the latency fast-path fired;
// the accumulated score and the abort signal are orthogonal.
func matchCallback(total *int) mpm.MatchCallback {
	return func(user interface{}, treeRoot mpm.TreeHandle, offset int, rawCtx interface{}, negList mpm.NegateList) int {
		ctx := rawCtx.(*scanCtx)
		root, ok := treeRoot.(*detect.Node)
		if !ok || root == nil {
			return 0
		}

		cursor := detect.NewCursor(ctx.buffer)
		cursor.Start = offset
		cursor.Length = len(ctx.buffer) - offset

		*total += detect.Evaluate(root, ctx.wc, ctx.pkt, cursor, ctx.filter)

		if ctx.wc.LatencyExceeded() {
			return 1
		}
		return 0
	}
}
