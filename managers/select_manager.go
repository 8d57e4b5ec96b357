// Package managers provides high-level fluent APIs for building queries
// and statements over entity models.
package managers

import (
	"strings"

	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a nodes.Query and applies transformer plugins before SQL generation.
type SelectManager struct {
	treeManager
	query *nodes.Query
}

// NewSelectManager creates a new SelectManager over the given root model.
func NewSelectManager(model *nodes.Model) *SelectManager {
	return &SelectManager{query: nodes.NewQuery(model)}
}

// Where ANDs one or more conditions into the condition tree. Conditions
// that reference another model's field become join edges.
func (m *SelectManager) Where(conditions ...nodes.Node) *SelectManager {
	m.query.Where = andAll(m.query.Where, conditions)
	return m
}

// And is an alias for Where.
func (m *SelectManager) And(conditions ...nodes.Node) *SelectManager {
	return m.Where(conditions...)
}

// Or combines the existing condition tree with cond using OR.
func (m *SelectManager) Or(cond nodes.Node) *SelectManager {
	m.query.Where = nodes.Or(m.query.Where, cond)
	return m
}

// Join returns a JoinContext for adding a join edge of the given type.
// The default join type is InnerJoin.
func (m *SelectManager) Join(joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	return &JoinContext{manager: m, joinType: jt}
}

// LeftJoin is a convenience for Join with LeftJoin type.
func (m *SelectManager) LeftJoin() *JoinContext {
	return m.Join(nodes.LeftJoin)
}

// Include adds models whose fields may be projected or ordered on without
// a join edge of their own.
func (m *SelectManager) Include(models ...*nodes.Model) *SelectManager {
	m.query.Includes = append(m.query.Includes, models...)
	return m
}

// Project appends projection entries: "*", "Model:field", "field",
// "-Model:field", "+Model:field", *nodes.Field or a literal.
func (m *SelectManager) Project(entries ...any) *SelectManager {
	m.query.Projection = append(m.query.Projection, entries...)
	return m
}

// Distinct enables or disables the DISTINCT modifier.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	if len(on) == 0 || on[0] {
		m.query.Distinct = nodes.Distinct
	} else {
		m.query.Distinct = nil
	}
	return m
}

// Order appends ascending order terms. Strings are field names resolved at
// generation time; use a *nodes.Literal for raw SQL.
func (m *SelectManager) Order(values ...any) *SelectManager {
	return m.order(nodes.Asc, values)
}

// OrderDesc appends descending order terms.
func (m *SelectManager) OrderDesc(values ...any) *SelectManager {
	return m.order(nodes.Desc, values)
}

func (m *SelectManager) order(dir nodes.Direction, values []any) *SelectManager {
	if m.query.Order == nil {
		m.query.Order = nodes.NewOrderMap()
	}
	for _, v := range values {
		key, val := orderKey(m.query.Model, v)
		m.query.Order.Set(key, nodes.OrderEntry{Value: val, Direction: dir})
	}
	return m
}

// orderKey derives the order map key for a value. Field references are
// keyed by their qualified "Model:field" name, so "id", "User:id" and the
// *Field itself share one entry. Setting the same key twice keeps the first
// position and the last direction.
func orderKey(root *nodes.Model, v any) (string, any) {
	switch t := v.(type) {
	case *nodes.Field:
		return t.Key(), t
	case *nodes.FieldLiteral:
		return t.Key(), t
	case *nodes.Literal:
		return t.Raw, t
	case nodes.FieldName:
		name := qualify(root, string(t))
		return name, nodes.FieldName(name)
	case string:
		name := qualify(root, t)
		return name, nodes.FieldName(name)
	}
	return "", v
}

// qualify prefixes a bare field name with the root model's name.
func qualify(root *nodes.Model, name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return root.Name + ":" + name
}

// ClearOrder removes every order term, including the default one, so no
// ORDER BY is generated.
func (m *SelectManager) ClearOrder() *SelectManager {
	m.query.Order = nodes.NewOrderMap()
	return m
}

// DefaultOrder drops explicit order terms and restores the dialect's
// default order.
func (m *SelectManager) DefaultOrder() *SelectManager {
	m.query.Order = nil
	return m
}

// Limit sets the LIMIT value. nodes.Infinity means no limit.
func (m *SelectManager) Limit(n int64) *SelectManager {
	m.query.Limit = &n
	return m
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n int64) *SelectManager {
	m.query.Offset = &n
	return m
}

// Take is an alias for Limit.
func (m *SelectManager) Take(n int64) *SelectManager {
	return m.Limit(n)
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// Query applies all registered transformers to a copy of the query and
// returns it. The result can be passed to a generator, or used as the value
// of an Eq/NotEq condition to render an IN subquery.
func (m *SelectManager) Query() (*nodes.Query, error) {
	return transform(m.transformers, m.query.Clone(), plugins.Transformer.TransformSelect)
}

// ToSQL applies all registered transformers and generates SQL.
func (m *SelectManager) ToSQL(g Generator) (string, error) {
	q, err := m.Query()
	if err != nil {
		return "", err
	}
	return g.Select(q)
}
