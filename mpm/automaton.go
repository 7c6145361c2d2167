package mpm

// Alphabet is the fixed input alphabet size the automaton is built over.
const Alphabet = 256

// Automaton is the compiled, immutable Aho-Corasick state machine. It is
// safe for concurrent read-only use by any number of worker goroutines.
type Automaton struct {
	store *Store
	rows *rows
	matches map[uint32][]*matchEntry
	agent Agent
}

// PatternCount returns the number of patterns compiled into the automaton.
func (a *Automaton) PatternCount() int {
	return a.store.PatternCount()
}

// StateCount returns the number of DFA states in the compiled automaton.
func (a *Automaton) StateCount() int {
	return a.rows.stateCount
}

// SizeofState returns the byte width used to store each row cell (1, 2,
// or 4), driven by the compiled state count.
func (a *Automaton) SizeofState() int {
	return int(a.rows.width)
}

// Close releases the resources the automaton's agent owns: interned tree
// handles, negate lists, and user pointers. Close must only be called
// once all workers have stopped referencing this automaton.
func (a *Automaton) Close() {
	if a.agent == nil {
		return
	}
	for _, entries := range a.matches {
		for _, e := range entries {
			a.agent.TreeFree(e.tree)
			if e.negate != nil {
				a.agent.ListFree(e.negate)
			}
		}
	}
	for _, p := range a.store.Patterns() {
		a.agent.UserFree(p.User())
	}
}
