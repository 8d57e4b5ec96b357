package nodes

import (
	"math"
	"strings"

	"github.com/bawdo/litequery/sqlerr"
)

// Infinity as a limit means "no limit".
const Infinity int64 = math.MaxInt64

// Query describes a SELECT over a root model: the condition tree (filters
// and join edges), projection, order and paging.
type Query struct {
	Model *Model
	Where Node
	// Includes lists models that take part in projection without a join edge.
	Includes []*Model
	// Projection entries: "*", "Model:field", "field", "-Model:field",
	// *Field, or a LiteralValue. Empty means the root model's fields.
	Projection []any
	Distinct   *DistinctLiteral
	// Order is nil for the dialect's default order.
	Order  *OrderMap
	Limit  *int64
	Offset *int64
}

// NewQuery creates a query over model.
func NewQuery(model *Model) *Query {
	return &Query{Model: model}
}

// Clone returns a copy of q that can be modified independently. The
// condition tree is shared; nodes are treated as immutable once built.
func (q *Query) Clone() *Query {
	cp := *q
	cp.Includes = append([]*Model(nil), q.Includes...)
	cp.Projection = append([]any(nil), q.Projection...)
	cp.Order = q.Order.Clone()
	if q.Limit != nil {
		n := *q.Limit
		cp.Limit = &n
	}
	if q.Offset != nil {
		n := *q.Offset
		cp.Offset = &n
	}
	return &cp
}

// Models returns every model taking part in the query in encounter order:
// the root, then models named by conditions (each condition's own model
// before the model it references), then explicit includes.
func (q *Query) Models() []*Model {
	seen := map[*Model]bool{}
	var out []*Model
	add := func(m *Model) {
		if m != nil && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	add(q.Model)
	Walk(q.Where, func(c *ConditionNode) {
		if c.Field != nil {
			add(c.Field.Model)
		}
		if ref := c.Reference(); ref != nil {
			add(ref.Model)
		}
	})
	for _, m := range q.Includes {
		add(m)
	}
	return out
}

// HasJoins reports whether the condition tree contains a join edge.
func (q *Query) HasJoins() bool {
	found := false
	Walk(q.Where, func(c *ConditionNode) {
		if c.IsJoin() {
			found = true
		}
	})
	return found
}

// ResolveField resolves "Model:field" against the query's models, or a bare
// name against the root model.
func (q *Query) ResolveField(name string) (*Field, error) {
	modelName, fieldName, qualified := strings.Cut(name, ":")
	if !qualified {
		if f := q.Model.Field(name); f != nil {
			return f, nil
		}
		return nil, sqlerr.UnresolvedField(name)
	}
	for _, m := range q.Models() {
		if m.Name != modelName {
			continue
		}
		if f := m.Field(fieldName); f != nil {
			return f, nil
		}
	}
	return nil, sqlerr.UnresolvedField(name)
}
