// Package mpm implements the multi-pattern matcher: an Aho-Corasick
// automaton compiled once from a set of literal patterns, used to funnel
// packet bytes to candidate detection-option tree roots.
//
// The package is split across the five build stages described by the
// design (goto trie, failure links, NFA-to-DFA compression, dense row
// layout, tree-agent hookup) plus the runtime scanner that walks the
// compiled automaton over packet buffers.
package mpm

import "github.com/coregx/vigil/internal/simd"

// Pattern is an immutable literal added to a Store before compilation.
//
// Case-insensitive patterns keep both the canonical (uppercase) bytes used
// for matching and the original bytes used for reporting; the two slices
// are distinct allocations so callers may safely hold onto Original() past
// automaton teardown.
type Pattern struct {
	canonical []byte
	original []byte
	nocase bool
	negated bool
	user interface{}
	id int
}

// Bytes returns the canonical (match-time) form of the pattern: uppercased
// if the pattern is case-insensitive, otherwise identical to Original.
func (p *Pattern) Bytes() []byte { return p.canonical }

// Original returns the pattern exactly as it was added, before any case
// folding.
func (p *Pattern) Original() []byte { return p.original }

// NoCase reports whether this pattern matches case-insensitively.
func (p *Pattern) NoCase() bool { return p.nocase }

// Negated reports whether a match of this pattern should be treated as a
// negative constraint by the caller (MPM itself does not interpret this;
// it only carries the flag through to NegateList construction).
func (p *Pattern) Negated() bool { return p.negated }

// User returns the opaque back-pointer supplied when the pattern was
// added (the rule-option this literal backs).
func (p *Pattern) User() interface{} { return p.user }

// Len returns the length of the canonical pattern bytes.
func (p *Pattern) Len() int { return len(p.canonical) }

// Store holds the set of literal patterns that will be compiled into an
// automaton. A Store does not deduplicate: two identical literals added
// with different user pointers produce two distinct Pattern values and,
// after compilation, two distinct match-list entries at the same state.
type Store struct {
	patterns []*Pattern
}

// NewStore creates an empty pattern store.
func NewStore() *Store {
	return &Store{}
}

// AddPattern appends a new pattern to the store and returns it.
//
// If nocase is true, bytes is canonicalized to uppercase for matching; the
// original bytes are retained unchanged for reporting.
func (s *Store) AddPattern(bytes []byte, nocase, negated bool, user interface{}) *Pattern {
	original := make([]byte, len(bytes))
	copy(original, bytes)

	canonical := original
	if nocase {
		canonical = make([]byte, len(bytes))
		simd.FoldUpper(canonical, original)
	}

	p := &Pattern{
		canonical: canonical,
		original: original,
		nocase: nocase,
		negated: negated,
		user: user,
		id: len(s.patterns),
	}
	s.patterns = append(s.patterns, p)
	return p
}

// PatternCount returns the number of patterns added so far.
func (s *Store) PatternCount() int {
	return len(s.patterns)
}

// Patterns returns the patterns in insertion order. The returned slice must
// not be mutated by the caller.
func (s *Store) Patterns() []*Pattern {
	return s.patterns
}
