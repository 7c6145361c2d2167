package rules

import "testing"

func TestValidateAcceptsNonRelativeFirst(t *testing.T) {
	r := Rule{
		GID: 1, SID: 100,
		Options: []OptionSpec{
			{Kind: OptionContent, Content: &ContentSpec{Pattern: []byte("GET ")}},
			{Kind: OptionContent, Content: &ContentSpec{Pattern: []byte("foo"), Relative: true}},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsLeadingRelative(t *testing.T) {
	r := Rule{
		GID: 1, SID: 101,
		Options: []OptionSpec{
			{Kind: OptionContent, Content: &ContentSpec{Pattern: []byte("foo"), Relative: true}},
		},
	}
	if err := r.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for leading relative option")
	}
}

func TestValidateRejectsMissingSpec(t *testing.T) {
	r := Rule{
		GID: 1, SID: 102,
		Options: []OptionSpec{
			{Kind: OptionContent},
		},
	}
	if err := r.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for missing ContentSpec")
	}
}

func TestPortSpecMatches(t *testing.T) {
	var nilSpec *PortSpec
	if !nilSpec.Matches(80) {
		t.Fatalf("nil PortSpec should match any port")
	}

	p := &PortSpec{Ranges: [][2]uint16{{80, 80}, {8000, 8100}}}
	if !p.Matches(80) {
		t.Fatalf("80 should match")
	}
	if !p.Matches(8050) {
		t.Fatalf("8050 should match")
	}
	if p.Matches(443) {
		t.Fatalf("443 should not match")
	}
}

func TestValidateFlowbitNeverRelative(t *testing.T) {
	r := Rule{
		GID: 1, SID: 103,
		Options: []OptionSpec{
			{Kind: OptionFlowbit, Flowbit: &FlowbitSpec{Name: "established", Op: FlowbitIsSet}},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil (flowbit is never relative)", err)
	}
}

func TestValidateRejectsEmptyFilter(t *testing.T) {
	r := Rule{
		GID: 1, SID: 104,
		Filter: &FilterSpec{},
		Options: []OptionSpec{
			{Kind: OptionContent, Content: &ContentSpec{Pattern: []byte("x")}},
		},
	}
	if err := r.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for zero-valued filter")
	}
}
