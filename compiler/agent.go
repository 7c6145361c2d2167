package compiler

import "github.com/coregx/vigil/mpm"

// treeAgent implements mpm.Agent. Tree roots are not built lazily inside
// the agent vtable: ruleBuilder constructs each rule's full option-tree
// ahead of time and hands the root through as the pattern's user
// pointer, so BuildTree's job reduces to handing that pointer back
// unchanged.
//
// Negation is folded into ContentOption.Evaluate itself (it searches for
// absence directly), so NegateList never needs a separate agent-built
// list of alternative patterns; it always returns an empty list.
type treeAgent struct{}

// BuildTree implements mpm.Agent.
func (a *treeAgent) BuildTree(user interface{}, acc mpm.TreeHandle) (mpm.TreeHandle, error) {
	if user == nil {
		return nil, nil
	}
	return user, nil
}

// NegateList implements mpm.Agent.
func (a *treeAgent) NegateList(user interface{}) (mpm.NegateList, error) {
	return nil, nil
}

// TreeFree implements mpm.Agent. The garbage collector reclaims interned
// nodes once the TreeTable drops its references; nothing to do here.
func (a *treeAgent) TreeFree(tree mpm.TreeHandle) {}

// ListFree implements mpm.Agent.
func (a *treeAgent) ListFree(list mpm.NegateList) {}

// UserFree implements mpm.Agent.
func (a *treeAgent) UserFree(user interface{}) {}
