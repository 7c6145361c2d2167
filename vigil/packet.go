package vigil

import "github.com/coregx/vigil/detect"

// Packet is the caller-owned per-packet handle passed to ScanPacket.
// Data is the raw buffer the MPM scans; the remaining fields carry the
// packet identity and flow metadata evaluation consults.
type Packet struct {
	Data []byte

	// ThreadID selects this call's per-thread node state slot; must be
	// in [0, Config.ThreadCount()).
	ThreadID int

	// Timestamp, RunNumber, ContextNumber, and Rebuild together identify
	// this packet for per-node result caching.
	Timestamp int64
	RunNumber uint32
	ContextNumber uint32
	Rebuild bool

	// AllowMultipleDetect, IPRuleSecondPass, and UDPTunneled each force
	// full re-evaluation, bypassing the packet-local cache.
	AllowMultipleDetect bool
	IPRuleSecondPass bool
	UDPTunneled bool

	// Service, SrcPort, DstPort, SrcIP, and DstIP back leaf prefiltering
	// and per-flow detection-filter rate limiting.
	Service string
	SrcPort, DstPort uint16
	SrcIP, DstIP uint64

	// Flowbits is this packet's flow's boolean register file. Nil
	// disables flowbit options for this packet (is-set tests fail,
	// is-not-set tests pass, mutations are no-ops).
	Flowbits *detect.FlowbitState

	// Buffers holds named alternate views (normalized URI, decoded
	// body,...) a BUFFER_SET option may switch the active cursor onto.
	Buffers map[string][]byte

	// Deadline, if set, is polled opportunistically during evaluation;
	// once it returns true the evaluator commits its partial result and
	// unwinds.
	Deadline func() bool
}
