package compiler

import (
	"fmt"

	"github.com/coregx/vigil/detect"
	"github.com/coregx/vigil/rules"
)

// ruleBuilder turns rules.Rule values into interned option chains and
// merges the chains of rules sharing an anchor pattern into one
// branching tree, so an option prefix common to several rules becomes a
// single node evaluated at most once per packet.
type ruleBuilder struct {
	optionTbl *detect.OptionTable
	treeTbl *detect.TreeTable
	flowbits *detect.FlowbitRegistry
	generics map[string]detect.GenericFunc
}

// buildRuleChain interns one rule's options in order — the anchoring
// CONTENT first, the rule's leaf last — and returns the chain along with
// the ContentSpec the caller adds to the pattern store as the anchoring
// literal. Because every element is interned, two rules with the same
// option prefix yield chains whose prefixes are identical pointers,
// which is what protoNode.add merges on.
func (b *ruleBuilder) buildRuleChain(r *rules.Rule) ([]detect.Option, *rules.ContentSpec, error) {
	if len(r.Options) == 0 {
		return nil, nil, fmt.Errorf("rule has no options")
	}
	first := r.Options[0]
	if first.Kind != rules.OptionContent || first.Content == nil {
		return nil, nil, fmt.Errorf("rule's first option must be a non-relative CONTENT anchor")
	}
	if first.Content.Relative {
		return nil, nil, fmt.Errorf("rule's anchoring CONTENT option must not be relative")
	}

	chain := make([]detect.Option, 0, len(r.Options)+1)
	for i := range r.Options {
		opt, err := b.buildOption(r.Options[i])
		if err != nil {
			return nil, nil, fmt.Errorf("option %d: %w", i, err)
		}
		chain = append(chain, b.optionTbl.Intern(opt))
	}

	leaf := &detect.RuleLeaf{
		GIDVal: r.GID,
		SIDVal: r.SID,
		RevVal: r.Rev,
		ServicesVal: r.Services,
		PortsVal: newPortTest(r.SrcPorts, r.DstPorts),
		NoAlertVal: r.NoAlert,
	}
	chain = append(chain, b.optionTbl.Intern(leaf))
	return chain, first.Content, nil
}

// protoNode is the mutable prototype of one merged tree, built top-down
// before interning. Children keep the order rules were added in, which
// fixes leaf traversal order.
type protoNode struct {
	opt detect.Option
	children []*protoNode
}

// add merges an option chain into the prototype: it descends along
// children whose interned option matches the chain head and branches off
// a new child at the first divergence.
func (p *protoNode) add(chain []detect.Option) {
	if len(chain) == 0 {
		return
	}
	for _, c := range p.children {
		if c.opt == chain[0] {
			c.add(chain[1:])
			return
		}
	}
	child := &protoNode{opt: chain[0]}
	p.children = append(p.children, child)
	child.add(chain[1:])
}

// intern converts a merged prototype into interned detect.Nodes,
// bottom-up so identical subtrees collapse in the tree table.
func (b *ruleBuilder) intern(p *protoNode) *detect.Node {
	var kids []*detect.Node
	if len(p.children) > 0 {
		kids = make([]*detect.Node, len(p.children))
		for i, c := range p.children {
			kids[i] = b.intern(c)
		}
	}
	return b.treeTbl.Intern(p.opt, kids)
}

func (b *ruleBuilder) buildOption(spec rules.OptionSpec) (detect.Option, error) {
	switch spec.Kind {
	case rules.OptionContent:
		c := spec.Content
		if c == nil {
			return nil, fmt.Errorf("missing ContentSpec")
		}
		return detect.NewContentOption(c.Pattern, c.Nocase, c.Negated, c.Relative, c.Distance, c.Within, c.Offset, c.Depth), nil

	case rules.OptionFlowbit:
		f := spec.Flowbit
		if f == nil {
			return nil, fmt.Errorf("missing FlowbitSpec")
		}
		return &detect.FlowbitOption{BitID: b.flowbits.Intern(f.Name), Op: mapFlowbitOp(f.Op)}, nil

	case rules.OptionBufferSet:
		bs := spec.BufferSet
		if bs == nil {
			return nil, fmt.Errorf("missing BufferSetSpec")
		}
		return &detect.BufferSetOption{Name: bs.Name}, nil

	case rules.OptionByteExtract:
		be := spec.ByteExtract
		if be == nil {
			return nil, fmt.Errorf("missing ByteExtractSpec")
		}
		return byteExtractOption(be), nil

	case rules.OptionGeneric:
		g := spec.Generic
		if g == nil {
			return nil, fmt.Errorf("missing GenericSpec")
		}
		fn, ok := b.generics[g.Key]
		if !ok {
			return nil, fmt.Errorf("unresolved generic option key %q", g.Key)
		}
		return &detect.GenericOption{Key: g.Key, Relative: g.Relative, Fn: fn}, nil

	default:
		return nil, fmt.Errorf("unknown option kind %d", spec.Kind)
	}
}

func mapFlowbitOp(op rules.FlowbitOp) detect.FlowbitOp {
	switch op {
	case rules.FlowbitIsSet:
		return detect.FlowbitIsSet
	case rules.FlowbitIsNotSet:
		return detect.FlowbitIsNotSet
	case rules.FlowbitSet:
		return detect.FlowbitSet
	case rules.FlowbitClear:
		return detect.FlowbitClear
	case rules.FlowbitToggle:
		return detect.FlowbitToggle
	default:
		return detect.FlowbitIsSet
	}
}

// byteExtractOption wraps a ByteExtractSpec as a GenericOption: reads
// Length bytes at the cursor when Relative is set and at the start of
// the cursor's buffer otherwise, decodes a
// big- or little-endian unsigned integer, and stores it into the
// packet's byte-extract register Slot.
func byteExtractOption(spec *rules.ByteExtractSpec) *detect.GenericOption {
	key := fmt.Sprintf("byte_extract:%d:%d:%t:%t", spec.Length, spec.Slot, spec.Relative, spec.BigEndian)
	return &detect.GenericOption{
		Key: key,
		Relative: spec.Relative,
		Fn: func(cursor *detect.Cursor, pkt *detect.PacketContext) detect.EvalStatus {
			if !spec.Relative {
				*cursor = detect.NewCursor(cursor.Buffer)
			}
			view := cursor.View()
			if spec.Length <= 0 || spec.Length > 4 || len(view) < spec.Length {
				return detect.NoMatch
			}
			var v uint32
			if spec.BigEndian {
				for i := 0; i < spec.Length; i++ {
					v = v<<8 | uint32(view[i])
				}
			} else {
				for i := spec.Length - 1; i >= 0; i-- {
					v = v<<8 | uint32(view[i])
				}
			}
			if spec.Slot >= 0 && spec.Slot < 16 {
				pkt.ByteExtract[spec.Slot] = v
			}
			cursor.Start += spec.Length
			cursor.Length -= spec.Length
			return detect.Match
		},
	}
}

// portSpecAdapter adapts rules.PortSpec to detect.PortTest without
// giving the detect package a dependency on rules.
type portSpecAdapter struct {
	src, dst *rules.PortSpec
}

func newPortTest(src, dst *rules.PortSpec) detect.PortTest {
	return &portSpecAdapter{src: src, dst: dst}
}

// Match implements detect.PortTest.
func (p *portSpecAdapter) Match(srcPort, dstPort uint16) bool {
	if p.src != nil && !p.src.Matches(srcPort) {
		return false
	}
	return p.dst.Matches(dstPort)
}
