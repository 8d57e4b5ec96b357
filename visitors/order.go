package visitors

import (
	"strconv"
	"strings"

	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// effectiveOrder returns the query's order, or the dialect default when the
// query has none.
func (b *baseVisitor) effectiveOrder(q *nodes.Query) *nodes.OrderMap {
	if q.Order != nil {
		return q.Order
	}
	return b.defaultOrder(q.Model, b.defaultDirection)
}

// Order renders the ORDER BY clause, or "" for an empty order.
func (b *baseVisitor) Order(q *nodes.Query) (string, error) {
	order := b.effectiveOrder(q)
	if order == nil || order.Len() == 0 {
		return "", nil
	}
	parts := make([]string, 0, order.Len())
	for _, key := range order.Keys() {
		e, _ := order.Get(key)
		sql, err := b.orderValue(q, e.Value)
		if err != nil {
			return "", err
		}
		if e.Direction == nodes.Desc {
			sql += " DESC"
		} else {
			sql += " ASC"
		}
		parts = append(parts, sql)
	}
	return "ORDER BY " + strings.Join(parts, ","), nil
}

func (b *baseVisitor) orderValue(q *nodes.Query, v any) (string, error) {
	switch t := v.(type) {
	case *nodes.Field:
		return b.fieldID(t), nil
	case *nodes.FieldLiteral:
		return b.fieldLiteralID(t), nil
	case *nodes.Literal:
		return t.Raw, nil
	case nodes.FieldName:
		f, err := q.ResolveField(string(t))
		if err != nil {
			return "", err
		}
		return b.fieldID(f), nil
	case string:
		return t, nil
	}
	return "", sqlerr.TypeMismatch("Unsupported order value type %T", v)
}

// LimitOffset renders the LIMIT and OFFSET clauses. An Infinity limit is
// omitted; OFFSET is rendered whenever set.
func (b *baseVisitor) LimitOffset(q *nodes.Query) string {
	var parts []string
	if q.Limit != nil && *q.Limit != nodes.Infinity {
		parts = append(parts, "LIMIT "+strconv.FormatInt(*q.Limit, 10))
	}
	if q.Offset != nil {
		parts = append(parts, "OFFSET "+strconv.FormatInt(*q.Offset, 10))
	}
	return strings.Join(parts, " ")
}
