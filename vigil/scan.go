package vigil

import "github.com/coregx/vigil/detect"

// ScanPacket runs the compiled rule set against pkt and returns every
// rule that fired, in depth-first leaf order. ScanPacket is safe to call
// concurrently from any number of goroutines as long as each uses a
// distinct Packet.ThreadID in [0, ThreadCount); per-thread node state is
// otherwise unsynchronized.
//
// Calling ScanPacket after Shutdown is safe: in-flight calls hold their
// own reference to the compiled automaton and interning tables, so
// resources are not freed out from under them.
func (c *Config) ScanPacket(pkt *Packet) ([]Event, error) {
	if pkt.ThreadID < 0 || pkt.ThreadID >= c.threadCount {
		return nil, &ErrThreadOutOfRange{ThreadID: pkt.ThreadID, ThreadCount: c.threadCount}
	}

	c.acquire()
	defer c.release()

	var budget *detect.LatencyBudget
	if pkt.Deadline != nil {
		budget = &detect.LatencyBudget{Exceeded: pkt.Deadline, SuspendCooldown: c.suspendCooldown}
	}
	wc := &detect.WorkerContext{ThreadID: pkt.ThreadID, Budget: budget}

	dctx := &detect.PacketContext{
		Timestamp: pkt.Timestamp,
		RunNumber: pkt.RunNumber,
		ContextNumber: pkt.ContextNumber,
		Rebuild: pkt.Rebuild,
		AllowMultipleDetect: pkt.AllowMultipleDetect,
		IPRuleSecondPass: pkt.IPRuleSecondPass,
		UDPTunneled: pkt.UDPTunneled,
		Service: pkt.Service,
		SrcPort: pkt.SrcPort,
		DstPort: pkt.DstPort,
		SrcIP: pkt.SrcIP,
		DstIP: pkt.DstIP,
		Flowbits: pkt.Flowbits,
		Events: &detect.EventQueue{},
		Buffers: pkt.Buffers,
	}

	var state uint32
	c.compiled.ScanBuffer(wc, dctx, pkt.Data, &state)

	raw := dctx.Events.Events()
	events := make([]Event, len(raw))
	for i, e := range raw {
		events[i] = Event{GID: e.GID, SID: e.SID, Rev: e.Rev}
	}
	return events, nil
}
