package managers

import "github.com/bawdo/litequery/nodes"

// JoinContext is returned by SelectManager.Join() and enforces that
// a join edge is provided via On() before continuing to build
// the query.
type JoinContext struct {
	manager  *SelectManager
	joinType nodes.JoinType
}

// On adds the join edge to the query and returns the SelectManager for
// continued method chaining. The caller's condition is left untouched.
func (jc *JoinContext) On(edge *nodes.ConditionNode) *SelectManager {
	return jc.manager.Where(edge.WithJoinType(jc.joinType))
}
