package mpm

import (
	"github.com/coregx/vigil/internal/simd"
	"github.com/coregx/vigil/internal/sparse"
)

// noEdge marks the absence of a goto-trie transition during the build
// passes. It is never a valid trie state id (ids are dense from 0).
const noEdge = ^uint32(0)

// trieNode is a build-time-only goto-trie node. Nodes are released once the dense DFA rows are populated.
type trieNode struct {
	edges [256]uint32
	fail uint32
	matches []*Pattern
}

func newTrieNode() *trieNode {
	n := &trieNode{}
	for i := range n.edges {
		n.edges[i] = noEdge
	}
	return n
}

// trieBuild holds the intermediate state shared by the builder's goto,
// failure-link, and path-compression passes.
type trieBuild struct {
	nodes []*trieNode
}

// buildGotoTrie walks each pattern from state 0 on its bytes, folded
// through the same uppercase table Scan applies to input, allocating
// new states for missing edges, and appends the pattern to the final
// state's match list.
//
// States are numbered in insertion order (the order new states are
// allocated while walking patterns in the order they were added to the
// Store), which is required for build determinism.
func buildGotoTrie(patterns []*Pattern) *trieBuild {
	b := &trieBuild{nodes: []*trieNode{newTrieNode()}}
	for _, p := range patterns {
		state := uint32(0)
		for _, raw := range p.Bytes() {
			c := simd.UpperTable[raw]
			next := b.nodes[state].edges[c]
			if next == noEdge {
				next = uint32(len(b.nodes))
				b.nodes = append(b.nodes, newTrieNode())
				b.nodes[state].edges[c] = next
			}
			state = next
		}
		b.nodes[state].matches = append(b.nodes[state].matches, p)
	}
	return b
}

// computeFailureLinks runs breadth-first from state 0, computing each
// state's failure link as the longest proper suffix of its path that is
// itself reachable, and inheriting the match list found at that failure
// target so every match is reported at the deepest state containing it.
//
// New states discovered at a given BFS depth are enqueued and processed in
// the order their parent's byte loop visits 0..255, which combined with
// the goto pass's insertion-order numbering makes the whole build
// deterministic for a fixed pattern order.
func (b *trieBuild) computeFailureLinks() {
	const root = uint32(0)
	queue := make([]uint32, 0, len(b.nodes))

	for c := 0; c < 256; c++ {
		child := b.nodes[root].edges[c]
		if child == noEdge {
			continue
		}
		b.nodes[child].fail = root
		queue = append(queue, child)
	}

	for qi := 0; qi < len(queue); qi++ {
		s := queue[qi]
		for c := 0; c < 256; c++ {
			u := b.nodes[s].edges[c]
			if u == noEdge {
				continue
			}
			queue = append(queue, u)

			v := b.nodes[s].fail
			for v != root && b.nodes[v].edges[c] == noEdge {
				v = b.nodes[v].fail
			}
			target := b.nodes[v].edges[c]
			if target != noEdge && target != u {
				b.nodes[u].fail = target
			} else {
				b.nodes[u].fail = root
			}
			b.nodes[u].matches = append(b.nodes[u].matches, b.nodes[b.nodes[u].fail].matches...)
		}
	}
}

// pathCompress replaces every missing transition with the transition its
// failure-link target takes on the same byte, so the runtime scanner
// never follows failure links itself. Root's own missing transitions
// become self-loops. Failure targets sit at strictly smaller depth than
// their state, so compressing in BFS order sees every target already
// compressed.
func (b *trieBuild) pathCompress() {
	const root = uint32(0)

	for c := 0; c < 256; c++ {
		if b.nodes[root].edges[c] == noEdge {
			b.nodes[root].edges[c] = root
		}
	}

	// The frontier doubles as the visited set: Insert is a no-op on
	// members, and the dense slice preserves BFS discovery order.
	frontier := sparse.New(uint32(len(b.nodes)))
	frontier.Insert(root)
	for qi := 0; qi < frontier.Len(); qi++ {
		s := frontier.Values()[qi]
		for c := 0; c < 256; c++ {
			u := b.nodes[s].edges[c]
			if u == noEdge {
				continue
			}
			if s == root && u == root {
				// self-loop we just installed; not a "real" child
				continue
			}
			frontier.Insert(u)
		}
	}

	for _, s := range frontier.Values() {
		if s == root {
			continue
		}
		f := b.nodes[s].fail
		for c := 0; c < 256; c++ {
			if b.nodes[s].edges[c] == noEdge {
				b.nodes[s].edges[c] = b.nodes[f].edges[c]
			}
		}
	}
}
