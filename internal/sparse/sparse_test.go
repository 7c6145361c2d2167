package sparse

import "testing"

func TestSetInsertContains(t *testing.T) {
	s := New(16)
	if s.Contains(3) {
		t.Fatal("empty set should not contain 3")
	}
	s.Insert(3)
	s.Insert(3) // idempotent
	if !s.Contains(3) {
		t.Fatal("expected 3 to be present")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestSetRemove(t *testing.T) {
	s := New(8)
	s.Insert(1)
	s.Insert(2)
	s.Insert(5)
	s.Remove(2)
	if s.Contains(2) {
		t.Fatal("2 should have been removed")
	}
	if !s.Contains(1) || !s.Contains(5) {
		t.Fatal("remove disturbed other members")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestSetClear(t *testing.T) {
	s := New(8)
	s.Insert(0)
	s.Insert(7)
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after Clear", s.Len())
	}
	if s.Contains(0) || s.Contains(7) {
		t.Fatal("Clear left members behind")
	}
}

func TestSetValuesOrder(t *testing.T) {
	s := New(8)
	s.Insert(4)
	s.Insert(1)
	s.Insert(6)
	vals := s.Values()
	if len(vals) != 3 {
		t.Fatalf("Values() len = %d, want 3", len(vals))
	}
	seen := map[uint32]bool{}
	for _, v := range vals {
		seen[v] = true
	}
	for _, want := range []uint32{4, 1, 6} {
		if !seen[want] {
			t.Fatalf("Values() missing %d", want)
		}
	}
}

func TestSetOutOfRange(t *testing.T) {
	s := New(4)
	if s.Contains(100) {
		t.Fatal("out-of-range value should not be contained")
	}
}
