package mpm

import (
	"bytes"

	"github.com/coregx/vigil/internal/simd"
)

// MatchCallback is invoked once per match-list entry at a matching state.
// offset is the byte index (into the scanned buffer) one past the end of
// the match. A non-zero return aborts the scan.
type MatchCallback func(user interface{}, treeRoot TreeHandle, offset int, ctx interface{}, negList NegateList) int

// Scan walks data one byte at a time through the compiled DFA,
// case-folding each input byte through the precomputed uppercase table,
// and invokes cb once per match-list entry at every state flagged as a
// match state. A case-sensitive pattern's entry is reported only when
// its original bytes appear exactly at the match; a match that began in
// an earlier chunk of a streaming scan is reported without that check.
//
// state is both an input (the state to resume from, for streaming scans)
// and an output (the state the scan ended in); pass a pointer to zero to
// start a fresh scan. Scan returns the number of matches reported and, if
// cb ever returns non-zero, stops early and returns that count.
//
// Matches are reported in non-decreasing byte-offset order within one
// call, and in match-list order (pattern insertion order after
// failure-link inheritance) for matches ending at the same offset.
func (a *Automaton) Scan(data []byte, cb MatchCallback, ctx interface{}, state *uint32) int {
	s := *state
	count := 0

	for i, c := range data {
		folded := simd.UpperTable[c]
		s = a.rows.next(s, folded)

		if a.rows.isMatch(s) {
			for _, entry := range a.matches[s] {
				if p := entry.pattern; !p.nocase && i+1 >= len(p.original) &&
					!bytes.Equal(data[i+1-len(p.original):i+1], p.original) {
					continue
				}
				count++
				if r := cb(entry.pattern.User(), entry.tree, i+1, ctx, entry.negate); r != 0 {
					*state = s
					return count
				}
			}
		}
	}

	*state = s
	return count
}
