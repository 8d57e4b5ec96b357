package plugins

import "github.com/bawdo/litequery/nodes"

// CollectModels returns every model referenced by q: the root model, the
// models reached through its conditions, and explicit includes. Each model
// appears once, in encounter order.
func CollectModels(q *nodes.Query) []*nodes.Model {
	if q == nil {
		return nil
	}
	return q.Models()
}

// CollectJoinedModels returns the models of q that are reached through a
// join edge, excluding the root.
func CollectJoinedModels(q *nodes.Query) []*nodes.Model {
	if q == nil {
		return nil
	}
	seen := map[*nodes.Model]bool{q.Model: true}
	var out []*nodes.Model
	nodes.Walk(q.Where, func(c *nodes.ConditionNode) {
		if !c.IsJoin() {
			return
		}
		for _, m := range []*nodes.Model{c.Field.Model, refModel(c)} {
			if m != nil && !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	})
	return out
}

func refModel(c *nodes.ConditionNode) *nodes.Model {
	if ref := c.Reference(); ref != nil {
		return ref.Model
	}
	return nil
}
