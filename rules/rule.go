// Package rules gives the compiler a concrete Go-typed rule input
// contract: a Rule carries (gid, sid, rev) identity plus an ordered list
// of options with kinds and parameters. Order matters — it drives
// deterministic tree construction.
package rules

import "fmt"

// OptionKind discriminates which field of an OptionSpec is populated.
type OptionKind int

const (
	OptionContent OptionKind = iota
	OptionFlowbit
	OptionBufferSet
	OptionByteExtract
	OptionGeneric
)

// ContentSpec configures a literal byte-pattern search option.
type ContentSpec struct {
	Pattern []byte
	Nocase bool
	Negated bool
	Relative bool
	Distance, Within int
	Offset, Depth int
}

// FlowbitOp mirrors detect.FlowbitOp without importing the detect
// package from rules, keeping the input contract free of evaluation
// machinery.
type FlowbitOp int

const (
	FlowbitIsSet FlowbitOp = iota
	FlowbitIsNotSet
	FlowbitSet
	FlowbitClear
	FlowbitToggle
)

// FlowbitSpec configures a named per-flow boolean test or mutation.
type FlowbitSpec struct {
	Name string
	Op FlowbitOp
}

// BufferSetSpec configures a named alternate-buffer switch.
type BufferSetSpec struct {
	Name string
}

// ByteExtractSpec configures a byte-extract-style generic predicate:
// read Length bytes at the cursor (Relative) or at the buffer start
// (not Relative), optionally
// interpret as big-endian, and store into register Slot.
type ByteExtractSpec struct {
	Length int
	Slot int
	Relative bool
	BigEndian bool
}

// GenericSpec configures an opaque named predicate the compiler resolves
// against a registry of known checks (protocol tests, and the like).
type GenericSpec struct {
	Key string
	Relative bool
}

// OptionSpec is one option within a Rule's ordered option list. Exactly
// one of the kind-specific fields is meaningful, selected by Kind.
type OptionSpec struct {
	Kind OptionKind

	Content *ContentSpec
	Flowbit *FlowbitSpec
	BufferSet *BufferSetSpec
	ByteExtract *ByteExtractSpec
	Generic *GenericSpec
}

// PortSpec is a simple closed/open port-range predicate; nil means "any
// port", matching detect.AnyPort.
type PortSpec struct {
	Ranges [][2]uint16
}

// Matches reports whether port falls in any configured range.
func (p *PortSpec) Matches(port uint16) bool {
	if p == nil {
		return true
	}
	for _, r := range p.Ranges {
		if port >= r[0] && port <= r[1] {
			return true
		}
	}
	return false
}

// FilterSpec configures a rule's detection filter: at most Count events
// may be emitted for the rule within a Seconds-long window, per flow; the
// window opens at the flow's first match and a new one opens at the first
// match after it ends.
type FilterSpec struct {
	Count int
	Seconds int64
}

// Rule is one detection rule: an ordered option list terminating
// implicitly in a leaf carrying (GID, SID, Rev).
type Rule struct {
	GID, SID, Rev uint32
	Services []string
	SrcPorts *PortSpec
	DstPorts *PortSpec
	NoAlert bool
	Filter *FilterSpec
	Options []OptionSpec
}

// Validate checks the structural invariants the compiler relies on:
// every relative option (content, byte-extract, generic) must be
// preceded by at least one non-relative anchor earlier in the same
// rule's option list, since "relative to nothing" has no meaning, and a
// detection filter, if present, must carry a usable threshold.
func (r *Rule) Validate() error {
	if r.Filter != nil && (r.Filter.Count <= 0 || r.Filter.Seconds <= 0) {
		return fmt.Errorf("rule %d:%d: detection filter needs positive count and seconds", r.GID, r.SID)
	}
	sawAnchor := false
	for i, opt := range r.Options {
		relative, err := opt.isRelative()
		if err != nil {
			return fmt.Errorf("rule %d:%d option %d: %w", r.GID, r.SID, i, err)
		}
		if relative && !sawAnchor {
			return fmt.Errorf("rule %d:%d option %d: relative option with no preceding anchor", r.GID, r.SID, i)
		}
		if !relative {
			sawAnchor = true
		}
	}
	return nil
}

func (o OptionSpec) isRelative() (bool, error) {
	switch o.Kind {
	case OptionContent:
		if o.Content == nil {
			return false, fmt.Errorf("content option missing ContentSpec")
		}
		return o.Content.Relative, nil
	case OptionFlowbit:
		if o.Flowbit == nil {
			return false, fmt.Errorf("flowbit option missing FlowbitSpec")
		}
		return false, nil
	case OptionBufferSet:
		if o.BufferSet == nil {
			return false, fmt.Errorf("buffer_set option missing BufferSetSpec")
		}
		return false, nil
	case OptionByteExtract:
		if o.ByteExtract == nil {
			return false, fmt.Errorf("byte_extract option missing ByteExtractSpec")
		}
		return o.ByteExtract.Relative, nil
	case OptionGeneric:
		if o.Generic == nil {
			return false, fmt.Errorf("generic option missing GenericSpec")
		}
		return o.Generic.Relative, nil
	default:
		return false, fmt.Errorf("unknown option kind %d", o.Kind)
	}
}
