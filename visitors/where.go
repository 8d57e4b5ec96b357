package visitors

import (
	"strings"

	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// Where renders the filter part of a condition tree, without the WHERE
// keyword. Join edges are left out; a tree made only of join edges renders
// as "".
func (b *baseVisitor) Where(n nodes.Node) (string, error) {
	sql, _, err := b.where(n)
	return sql, err
}

// where renders n and reports whether the result is a bare OR chain, which
// must be parenthesized when it becomes an operand of AND.
func (b *baseVisitor) where(n nodes.Node) (string, bool, error) {
	switch t := n.(type) {
	case nil:
		return "", false, nil
	case *nodes.AndNode:
		sql, err := b.VisitAnd(t)
		return sql, false, err
	case *nodes.OrNode:
		left, right, err := b.sides(t.Left, t.Right)
		if err != nil {
			return "", false, err
		}
		switch {
		case left == "":
			return right, false, nil
		case right == "":
			return left, false, nil
		}
		return left + " OR " + right, true, nil
	default:
		sql, err := n.Accept(b)
		return sql, false, err
	}
}

func (b *baseVisitor) sides(l, r nodes.Node) (string, string, error) {
	left, _, err := b.where(l)
	if err != nil {
		return "", "", err
	}
	right, _, err := b.where(r)
	if err != nil {
		return "", "", err
	}
	return left, right, nil
}

func (b *baseVisitor) VisitAnd(n *nodes.AndNode) (string, error) {
	left, leftOr, err := b.where(n.Left)
	if err != nil {
		return "", err
	}
	right, rightOr, err := b.where(n.Right)
	if err != nil {
		return "", err
	}
	switch {
	case left == "":
		return right, nil
	case right == "":
		return left, nil
	}
	if leftOr {
		left = "(" + left + ")"
	}
	if rightOr {
		right = "(" + right + ")"
	}
	return left + " AND " + right, nil
}

func (b *baseVisitor) VisitOr(n *nodes.OrNode) (string, error) {
	sql, _, err := b.where(n)
	return sql, err
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) (string, error) {
	inner, _, err := b.where(n.Expr)
	if err != nil || inner == "" {
		return "", err
	}
	return "(" + inner + ")", nil
}

func (b *baseVisitor) VisitCondition(n *nodes.ConditionNode) (string, error) {
	if n.IsJoin() {
		return "", nil
	}
	op := n.EffectiveOperator()
	left := b.fieldID(n.Field)

	if named, ok := op.(nodes.Operator); ok {
		switch named {
		case nodes.OpLike, nodes.OpNotLike:
			return b.likeCondition(n, named, left)
		case nodes.OpEq, nodes.OpNeq:
			if items, isSeq := sequence(n.Value); isSeq {
				return b.sequenceCondition(n, named, left, items)
			}
		}
	}

	if sub, ok := n.Value.(*nodes.Query); ok {
		return b.subqueryCondition(op, left, sub)
	}
	if ref := n.Reference(); ref != nil {
		opSQL, err := MapOperator(op, ref, true)
		if err != nil {
			return "", err
		}
		return left + " " + opSQL + " " + b.fieldID(ref), nil
	}

	opSQL, err := MapOperator(op, n.Value, false)
	if err != nil {
		return "", err
	}
	if items, isSeq := sequence(n.Value); isSeq {
		// Only raw operators reach here with a sequence.
		list, err := b.escapeList(n.Field, items)
		if err != nil {
			return "", err
		}
		return left + " " + opSQL + " (" + strings.Join(list, ",") + ")", nil
	}
	val, err := b.EscapeValue(n.Field, n.Value)
	if err != nil {
		return "", err
	}
	return left + " " + opSQL + " " + val, nil
}

func (b *baseVisitor) likeCondition(n *nodes.ConditionNode, op nodes.Operator, left string) (string, error) {
	if n.CaseSensitive {
		keyword := "LIKE"
		if op == nodes.OpNotLike {
			keyword = "NOT LIKE"
		}
		return "", sqlerr.UnsupportedOption(`"{ caseSensitive: true }" is not supported for this connection type for the %q operator`, keyword)
	}
	keyword, err := MapOperator(op, n.Value, false)
	if err != nil {
		return "", err
	}
	val := ""
	switch v := n.Value.(type) {
	case string:
		val = b.quoteString(v)
	case *nodes.Literal:
		val = v.Raw
	}
	return left + " " + keyword + " " + val + ` ESCAPE '\'`, nil
}

// sequenceCondition expands EQ/NEQ over a list of values. Nulls and
// booleans cannot take part in IN, so they become IS comparisons.
func (b *baseVisitor) sequenceCondition(n *nodes.ConditionNode, op nodes.Operator, left string, items []any) (string, error) {
	if len(items) == 0 {
		return "", sqlerr.EmptyOperandSet("Array value provided to \"%s.%s\" can not be empty", n.Field.Name, string(op))
	}

	var hasNull, hasTrue, hasFalse, hasOther bool
	list := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			hasNull = true
			continue
		case bool:
			if v {
				hasTrue = true
			} else {
				hasFalse = true
			}
		case *nodes.Field, *nodes.Model, *nodes.Query:
			return "", sqlerr.TypeMismatch("Invalid value provided to \"%s.%s\": %T is not allowed in a list", n.Field.Name, string(op), item)
		default:
			if _, nested := sequence(item); nested {
				return "", sqlerr.TypeMismatch("Invalid value provided to \"%s.%s\": nested lists are not allowed", n.Field.Name, string(op))
			}
			hasOther = true
		}
		s, err := b.EscapeValue(n.Field, item)
		if err != nil {
			return "", err
		}
		list = append(list, s)
	}

	isKW, inKW, joiner := "IS", "IN", " OR "
	if op == nodes.OpNeq {
		isKW, inKW, joiner = "IS NOT", "NOT IN", " AND "
	}

	var terms []string
	if hasOther {
		if hasNull {
			terms = append(terms, left+" "+isKW+" NULL")
		}
		terms = append(terms, left+" "+inKW+" ("+strings.Join(list, ",")+")")
	} else {
		if hasTrue {
			terms = append(terms, left+" "+isKW+" TRUE")
		}
		if hasFalse {
			terms = append(terms, left+" "+isKW+" FALSE")
		}
		if hasNull {
			terms = append(terms, left+" "+isKW+" NULL")
		}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return "(" + strings.Join(terms, joiner) + ")", nil
}

func (b *baseVisitor) subqueryCondition(op nodes.OperatorNode, left string, sub *nodes.Query) (string, error) {
	var opSQL string
	switch op {
	case nodes.OpEq:
		opSQL = "IN"
	case nodes.OpNeq:
		opSQL = "NOT IN"
	default:
		var err error
		if opSQL, err = MapOperator(op, sub, false); err != nil {
			return "", err
		}
	}
	sql, _, err := b.selectSQL(sub, true)
	if err != nil {
		return "", err
	}
	return left + " " + opSQL + " (" + sql + ")", nil
}

func (b *baseVisitor) escapeList(field *nodes.Field, items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := b.EscapeValue(field, item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
