package visitors

import (
	"strings"

	"github.com/bawdo/litequery/nodes"
)

// joinClause collects the ON conditions for one joined table.
type joinClause struct {
	model    *nodes.Model
	joinType nodes.JoinType
	on       []string
}

// Joins renders one JOIN clause per table reached through a join edge, in
// first-encountered order. Conditions reaching the same table are ANDed.
// The result is "" when the query has no join edges.
func (b *baseVisitor) Joins(q *nodes.Query) (string, error) {
	var (
		clauses []*joinClause
		byModel = map[*nodes.Model]*joinClause{}
		walkErr error
	)
	nodes.Walk(q.Where, func(c *nodes.ConditionNode) {
		if walkErr != nil || !c.IsJoin() {
			return
		}
		target, on, err := b.joinEdge(q.Model, c)
		if err != nil {
			walkErr = err
			return
		}
		jc, ok := byModel[target]
		if !ok {
			jc = &joinClause{model: target}
			byModel[target] = jc
			clauses = append(clauses, jc)
		}
		if jc.joinType == "" {
			jc.joinType = c.JoinType
		}
		jc.on = append(jc.on, on)
	})
	if walkErr != nil {
		return "", walkErr
	}

	parts := make([]string, 0, len(clauses))
	for _, jc := range clauses {
		parts = append(parts, b.joinKeyword(jc.joinType)+" "+b.tableID(jc.model)+" ON "+strings.Join(jc.on, " AND "))
	}
	return strings.Join(parts, " "), nil
}

// joinEdge returns the table joined by c and the ON condition, written with
// the joined table's column first.
func (b *baseVisitor) joinEdge(root *nodes.Model, c *nodes.ConditionNode) (*nodes.Model, string, error) {
	op := c.EffectiveOperator()
	ref := c.Reference()
	if ref == nil {
		opSQL, err := MapOperator(op, c.Value, false)
		if err != nil {
			return nil, "", err
		}
		raw, err := b.EscapeValue(c.Field, c.Value)
		if err != nil {
			return nil, "", err
		}
		return c.Field.Model, b.fieldID(c.Field) + " " + opSQL + " " + raw, nil
	}

	near, far := ref, c.Field
	if ref.Model == root {
		near, far = c.Field, ref
	} else {
		op = mirror(op)
	}
	opSQL, err := MapOperator(op, far, true)
	if err != nil {
		return nil, "", err
	}
	return near.Model, b.fieldID(near) + " " + opSQL + " " + b.fieldID(far), nil
}

// FromOrJoin renders the table of m as the FROM target, or as a join target
// when joinType is set, e.g. `FROM "users"` or `LEFT JOIN "users"`.
func (b *baseVisitor) FromOrJoin(m *nodes.Model, joinType nodes.JoinType) string {
	if joinType == "" {
		return "FROM " + b.tableID(m)
	}
	return b.joinKeyword(joinType) + " " + b.tableID(m)
}
