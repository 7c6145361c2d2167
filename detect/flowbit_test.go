package detect

import "testing"

func TestFlowbitRegistryInternStable(t *testing.T) {
	r := NewFlowbitRegistry()
	a := r.Intern("established")
	b := r.Intern("established")
	c := r.Intern("suspicious")

	if a != b {
		t.Fatalf("same name interned to different ids: %d vs %d", a, b)
	}
	if a == c {
		t.Fatalf("distinct names interned to the same id")
	}
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", r.Count())
	}
}

func TestFlowbitStateSetClearToggleTest(t *testing.T) {
	s := NewFlowbitState(4)

	if s.Test(1) {
		t.Fatalf("unset bit reported set")
	}
	s.Set(1)
	if !s.Test(1) {
		t.Fatalf("bit not set after Set")
	}
	s.Toggle(1)
	if s.Test(1) {
		t.Fatalf("bit still set after Toggle")
	}
	s.Toggle(1)
	if !s.Test(1) {
		t.Fatalf("bit not set after second Toggle")
	}
	s.Clear(1)
	if s.Test(1) {
		t.Fatalf("bit still set after Clear")
	}
}

func TestFlowbitStateGrowsPastInitialSize(t *testing.T) {
	s := NewFlowbitState(1)
	s.Set(200)
	if !s.Test(200) {
		t.Fatalf("bit 200 not set after growth")
	}
}

func TestFlowbitOptionTestAndFail(t *testing.T) {
	isSet := &FlowbitOption{BitID: 5, Op: FlowbitIsSet}
	pkt := &PacketContext{Flowbits: NewFlowbitState(8)}
	cursor := NewCursor(nil)

	if status := isSet.Evaluate(&cursor, pkt); status != FailedBit {
		t.Fatalf("Evaluate() on unset bit = %v, want FailedBit", status)
	}

	pkt.Flowbits.Set(5)
	if status := isSet.Evaluate(&cursor, pkt); status != Match {
		t.Fatalf("Evaluate() on set bit = %v, want Match", status)
	}
}

func TestFlowbitOptionSetDeferredUntilApply(t *testing.T) {
	setOp := &FlowbitOption{BitID: 3, Op: FlowbitSet}
	pkt := &PacketContext{Flowbits: NewFlowbitState(8)}
	cursor := NewCursor(nil)

	if status := setOp.Evaluate(&cursor, pkt); status != Match {
		t.Fatalf("Evaluate() = %v, want Match", status)
	}
	if pkt.Flowbits.Test(3) {
		t.Fatalf("bit set before Apply was called")
	}

	setOp.Apply(&cursor, pkt)
	if !pkt.Flowbits.Test(3) {
		t.Fatalf("bit not set after Apply")
	}
}
