package detect

// WorkerContext identifies one packet-inspection worker thread and carries
// the latency budget for its current packet. It is passed explicitly
// through evaluation instead of living in a thread-local: there is
// exactly one WorkerContext per worker, reused across packets, and
// workers never touch each other's.
type WorkerContext struct {
	// ThreadID is this worker's stable index in [0, N), used to select
	// Node.state[ThreadID].
	ThreadID int

	// Budget is the packet-latency monitor. Nil disables latency
	// enforcement.
	Budget *LatencyBudget
}

// LatencyExceeded reports whether this worker's current packet has blown
// through its latency budget, for callers outside this package that need
// to decide whether to abort a scan early.
func (w *WorkerContext) LatencyExceeded() bool {
	return w.Budget.exceeded()
}

// LatencyBudget signals deadline pressure to the evaluator. Exceeded is
// checked opportunistically (not after every option) so the fast-path
// check itself stays cheap.
type LatencyBudget struct {
	// Exceeded, when it returns true, tells the evaluator to commit its
	// current partial result and unwind immediately.
	Exceeded func() bool

	// SuspendCooldown, when non-zero, is how long (in the same units as
	// PacketContext.Timestamp) a node that hit the deadline sits out
	// subsequent packets before it is evaluated again.
	SuspendCooldown int64
}

func (b *LatencyBudget) exceeded() bool {
	return b != nil && b.Exceeded != nil && b.Exceeded()
}

func (b *LatencyBudget) cooldown() int64 {
	if b == nil {
		return 0
	}
	return b.SuspendCooldown
}

// Event is a recorded rule match, appended to a packet's EventQueue in
// depth-first, child-order leaf traversal order.
type Event struct {
	GID uint32
	SID uint32
	Rev uint32
}

// EventQueue accumulates Events for one packet. It is not safe for
// concurrent use; each packet is owned by exactly one worker.
type EventQueue struct {
	events []Event
}

// Append records a match.
func (q *EventQueue) Append(e Event) {
	q.events = append(q.events, e)
}

// Events returns the recorded matches in append order.
func (q *EventQueue) Events() []Event {
	return q.events
}

// PacketContext is the per-packet handle threaded through evaluation:
// packet identity, flow metadata, the byte-extract registers, and the
// event queue rule matches append to.
type PacketContext struct {
	// Timestamp, RunNumber, ContextNumber, and Rebuild together form the
	// fingerprint that pins a node's cached result to one packet.
	Timestamp int64
	RunNumber uint32
	ContextNumber uint32
	Rebuild bool

	// AllowMultipleDetect disables the packet-local cache entirely for
	// this packet.
	AllowMultipleDetect bool

	// IPRuleSecondPass and UDPTunneled additionally force re-evaluation
	// even when the fingerprint would otherwise hit cache.
	IPRuleSecondPass bool
	UDPTunneled bool

	// Service is the flow's resolved application-protocol service,
	// consulted by the leaf prefilter before any port test. Empty means
	// "unresolved".
	Service string

	// SrcPort and DstPort back leaf PortTest evaluation.
	SrcPort, DstPort uint16

	// SrcIP and DstIP key the detection filter's per-flow rate windows.
	// IPv4 addresses fit directly; IPv6 callers pass a caller-computed
	// 64-bit digest.
	SrcIP, DstIP uint64

	// FlowbitFailed is set when any node in this packet's evaluation
	// reported FailedBit. The failing node's own cache entry is
	// invalidated separately.
	FlowbitFailed bool

	// ByteExtract holds the 16 byte-extract variable registers.
	ByteExtract [16]uint32

	// Flowbits is the per-flow boolean register file. Caller-owned: the
	// engine only reads and writes through this pointer.
	Flowbits *FlowbitState

	// Events is the queue rule matches append to.
	Events *EventQueue

	// Buffers holds named alternate views of the packet (normalized URI,
	// decoded body, header block,...) that a BUFFER_SET option can swap
	// the active cursor onto for its descendants.
	Buffers map[string][]byte
}

// SnapshotByteExtract copies the current byte-extract registers, taken
// before descending into a node's children so each child starts from the
// same register state.
func (p *PacketContext) SnapshotByteExtract() [16]uint32 {
	return p.ByteExtract
}

// RestoreByteExtract writes back a previously captured snapshot.
func (p *PacketContext) RestoreByteExtract(snap [16]uint32) {
	p.ByteExtract = snap
}
