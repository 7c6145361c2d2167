package mpm

// matchEntry is one entry of a state's match list: a pattern that ends at
// this state, the interned tree root the agent built for it, and (for
// negated patterns) the negation list.
type matchEntry struct {
	pattern *Pattern
	tree TreeHandle
	negate NegateList
}

// Builder drives the build over a Store's patterns, producing an
// immutable Automaton: goto trie, failure links, path compression, dense
// row layout, then the agent pass that resolves match lists into tree
// roots.
type Builder struct {
	store *Store
	agent Agent
}

// NewBuilder creates a Builder over store, using agent to resolve match
// lists into tree roots.
func NewBuilder(store *Store, agent Agent) *Builder {
	return &Builder{store: store, agent: agent}
}

// Build compiles the automaton. It is deterministic: the same ordered
// pattern list always yields automata whose DFA rows are identical up to
// state numbering.
func (b *Builder) Build() (*Automaton, error) {
	patterns := b.store.Patterns()
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	if b.agent == nil {
		return nil, ErrAgentRequired
	}
	for i, p := range patterns {
		if p.Len() == 0 {
			return nil, &BuildError{PatternIndex: i, Err: ErrEmptyPattern}
		}
	}

	trie := buildGotoTrie(patterns)
	if len(trie.nodes) > maxStateCount {
		return nil, &BuildError{PatternIndex: -1, Err: ErrTooManyStates}
	}
	trie.computeFailureLinks()
	trie.pathCompress()

	rowTable := buildRows(trie)

	matches := make(map[uint32][]*matchEntry, len(patterns))
	for s, node := range trie.nodes {
		if len(node.matches) == 0 {
			continue
		}
		entries := make([]*matchEntry, 0, len(node.matches))
		var acc TreeHandle
		for _, p := range node.matches {
			tree, err := b.agent.BuildTree(p.User(), acc)
			if err != nil {
				return nil, &BuildError{PatternIndex: p.id, Err: err}
			}
			acc = tree

			var neg NegateList
			if p.Negated() {
				neg, err = b.agent.NegateList(p.User())
				if err != nil {
					return nil, &BuildError{PatternIndex: p.id, Err: err}
				}
			}

			entries = append(entries, &matchEntry{pattern: p, tree: tree, negate: neg})
		}
		if _, err := b.agent.BuildTree(nil, acc); err != nil {
			return nil, &BuildError{PatternIndex: -1, Err: err}
		}
		matches[uint32(s)] = entries
	}

	return &Automaton{
		store: b.store,
		rows: rowTable,
		matches: matches,
		agent: b.agent,
	}, nil
}
