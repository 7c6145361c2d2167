// Package compiler turns a set of rules into a compiled Config: an MPM
// automaton whose match-list entries carry detection-option tree roots,
// plus the interning tables and flowbit registry those roots reference.
// It is the single place that imports both mpm and detect, bridging the
// opaque-user-pointer/agent-vtable boundary between them.
package compiler

import (
	"github.com/coregx/vigil/detect"
	"github.com/coregx/vigil/mpm"
	"github.com/coregx/vigil/rules"
)

// Config is the compiled, immutable result of Compile: everything a
// vigil.Config needs to scan packets.
type Config struct {
	Automaton *mpm.Automaton
	OptionTbl *detect.OptionTable
	TreeTbl *detect.TreeTable
	Flowbits *detect.FlowbitRegistry
	Filter *detect.DetectionFilter
	ThreadCount int
}

// Options configures Compile.
type Options struct {
	// ThreadCount sizes every node's per-thread state array.
	ThreadCount int

	// Generics resolves rules.GenericSpec.Key to an evaluator function;
	// an unresolved key is a ConfigError at compile time.
	Generics map[string]detect.GenericFunc
}

// Compile builds a complete Config from an ordered rule list. Rules
// whose anchoring CONTENT is the same literal share one MPM pattern and
// one tree root, with their common option prefixes merged into shared
// branching nodes. Compile is the only entry point that mutates the
// interning tables; the returned Config is thereafter read-only.
func Compile(ruleList []rules.Rule, opts Options) (*Config, error) {
	if opts.ThreadCount <= 0 {
		opts.ThreadCount = 1
	}

	store := mpm.NewStore()
	optionTbl := detect.NewOptionTable()
	treeTbl := detect.NewTreeTable(opts.ThreadCount)
	flowbits := detect.NewFlowbitRegistry()
	filter := detect.NewDetectionFilter()

	rb := &ruleBuilder{
		optionTbl: optionTbl,
		treeTbl: treeTbl,
		flowbits: flowbits,
		generics: opts.Generics,
	}

	// One group per distinct anchor: its pattern spec and the merged
	// prototype of every rule it reaches. Groups keep first-appearance
	// order so pattern insertion stays deterministic.
	type patternGroup struct {
		spec *rules.ContentSpec
		root *protoNode
	}
	var groups []*patternGroup
	byAnchor := make(map[detect.Option]*patternGroup)

	for i := range ruleList {
		r := &ruleList[i]
		if err := r.Validate(); err != nil {
			return nil, &ConfigError{Rule: r, Err: err}
		}
		chain, anchor, err := rb.buildRuleChain(r)
		if err != nil {
			return nil, &ConfigError{Rule: r, Err: err}
		}

		g := byAnchor[chain[0]]
		if g == nil {
			g = &patternGroup{spec: anchor, root: &protoNode{opt: chain[0]}}
			byAnchor[chain[0]] = g
			groups = append(groups, g)
		}
		g.root.add(chain[1:])

		if r.Filter != nil {
			filter.AddRule(detect.FilterRule{
				GID: r.GID, SID: r.SID,
				Count: r.Filter.Count,
				Seconds: r.Filter.Seconds,
			})
		}
	}

	for _, g := range groups {
		root := rb.intern(g.root)
		store.AddPattern(g.spec.Pattern, g.spec.Nocase, g.spec.Negated, root)
	}

	am, err := mpm.NewBuilder(store, &treeAgent{}).Build()
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	return &Config{
		Automaton: am,
		OptionTbl: optionTbl,
		TreeTbl: treeTbl,
		Flowbits: flowbits,
		Filter: filter,
		ThreadCount: opts.ThreadCount,
	}, nil
}

// Close releases every resource Compile allocated.
func (c *Config) Close() {
	c.Automaton.Close()
	c.OptionTbl.Release(nil)
	c.TreeTbl.Release()
}
