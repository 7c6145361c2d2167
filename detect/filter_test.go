package detect

import "testing"

func TestDetectionFilterUnconfiguredAlwaysHits(t *testing.T) {
	f := NewDetectionFilter()
	if !f.Hit(1, 100, 1, 2, 0) {
		t.Fatalf("Hit() = false for an unconfigured (gid,sid), want true")
	}
}

func TestDetectionFilterThresholdWithinWindow(t *testing.T) {
	f := NewDetectionFilter()
	f.AddRule(FilterRule{GID: 1, SID: 100, Count: 2, Seconds: 60})

	if !f.Hit(1, 100, 1, 2, 0) {
		t.Fatalf("1st hit rejected")
	}
	if !f.Hit(1, 100, 1, 2, 10) {
		t.Fatalf("2nd hit rejected")
	}
	if f.Hit(1, 100, 1, 2, 20) {
		t.Fatalf("3rd hit within window accepted, want rejected")
	}
}

func TestDetectionFilterResetsAfterWindow(t *testing.T) {
	f := NewDetectionFilter()
	f.AddRule(FilterRule{GID: 1, SID: 100, Count: 1, Seconds: 60})

	if !f.Hit(1, 100, 1, 2, 0) {
		t.Fatalf("1st hit rejected")
	}
	if f.Hit(1, 100, 1, 2, 30) {
		t.Fatalf("2nd hit within window accepted, want rejected")
	}
	if !f.Hit(1, 100, 1, 2, 61) {
		t.Fatalf("hit after window elapsed rejected, want accepted")
	}
}

func TestDetectionFilterKeyedPerFlow(t *testing.T) {
	f := NewDetectionFilter()
	f.AddRule(FilterRule{GID: 1, SID: 100, Count: 1, Seconds: 60})

	if !f.Hit(1, 100, 1, 2, 0) {
		t.Fatalf("flow A 1st hit rejected")
	}
	if !f.Hit(1, 100, 3, 4, 0) {
		t.Fatalf("flow B 1st hit rejected, flows should not share a window")
	}
}
