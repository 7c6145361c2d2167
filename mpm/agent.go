package mpm

// TreeHandle is an opaque reference into the caller's detection-option
// tree. The MPM layer never dereferences it; it only stores it alongside a
// match-list entry and hands it back through MatchCallback. In practice
// this is a *detect.Node, but mpm must not import the detect package (the
// dependency runs the other way: detect's owner, the compiler package,
// implements Agent).
type TreeHandle interface{}

// NegateList is the set of patterns whose presence negates a match of a
// negated pattern at the same state. Built by Agent.NegateList for every
// match-list entry of a negated pattern.
type NegateList []*Pattern

// Agent is the vtable the tree layer registers with the automaton
// builder. The builder calls BuildTree/NegateList while attaching match
// lists; Automaton.Close calls the free hooks at teardown.
type Agent interface {
	// BuildTree is called once per match-list entry (with that entry's
	// pattern user pointer) and once more with user == nil to finalize the
	// state. acc is the handle returned by the previous call for this same
	// state (nil on the first call). BuildTree returns the handle to store
	// for this entry (or, for the finalize call, a handle that is
	// discarded by the builder but still reachable to the agent for
	// bookkeeping).
	BuildTree(user interface{}, acc TreeHandle) (TreeHandle, error)

	// NegateList builds the negation list for a negated pattern's user
	// pointer.
	NegateList(user interface{}) (NegateList, error)

	// TreeFree releases a tree handle at configuration teardown.
	TreeFree(tree TreeHandle)

	// ListFree releases a negate list at configuration teardown.
	ListFree(list NegateList)

	// UserFree releases a pattern's user pointer at configuration
	// teardown, once no match-list entry references it anymore.
	UserFree(user interface{})
}
