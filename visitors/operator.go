package visitors

import (
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// relational operators with their SQL symbol and their description used in
// error messages.
var relationalOps = map[nodes.Operator]struct{ sql, desc string }{
	nodes.OpGt:  {">", "greater than"},
	nodes.OpGte: {">=", "greater than or equal to"},
	nodes.OpLt:  {"<", "less than"},
	nodes.OpLte: {"<=", "less than or equal to"},
}

// mirroredOps swaps the sides of a relational comparison.
var mirroredOps = map[nodes.Operator]nodes.Operator{
	nodes.OpGt:  nodes.OpLt,
	nodes.OpGte: nodes.OpLte,
	nodes.OpLt:  nodes.OpGt,
	nodes.OpLte: nodes.OpGte,
}

// mirror returns the operator that keeps a comparison's meaning when its
// operands are swapped.
func mirror(op nodes.OperatorNode) nodes.OperatorNode {
	if named, ok := op.(nodes.Operator); ok {
		if m, ok := mirroredOps[named]; ok {
			return m
		}
	}
	return op
}

// MapOperator returns the SQL operator for op applied to value. asReference
// is set when value is another column (a join edge), which always compares
// with plain = or !=.
func MapOperator(op nodes.OperatorNode, value any, asReference bool) (string, error) {
	if lit, ok := op.(*nodes.Literal); ok {
		return lit.Raw, nil
	}
	named, ok := op.(nodes.Operator)
	if !ok {
		if op == nil {
			return "", sqlerr.UnknownOperator("")
		}
		return "", sqlerr.UnknownOperator(op.OperatorName())
	}

	_, isSeq := sequence(value)
	switch named {
	case nodes.OpEq:
		switch {
		case asReference:
			return "=", nil
		case isSeq:
			return "IN", nil
		case isNullOrBool(value):
			return "IS", nil
		}
		return "=", nil
	case nodes.OpNeq:
		switch {
		case asReference:
			return "!=", nil
		case isSeq:
			return "NOT IN", nil
		case isNullOrBool(value):
			return "IS NOT", nil
		}
		return "!=", nil
	case nodes.OpGt, nodes.OpGte, nodes.OpLt, nodes.OpLte:
		rel := relationalOps[named]
		if isSeq && !asReference {
			return "", sqlerr.InvalidOperandKind("Array of values provided to %q (%s) operator.", string(named), rel.desc)
		}
		return rel.sql, nil
	case nodes.OpLike, nodes.OpNotLike:
		keyword := "LIKE"
		if named == nodes.OpNotLike {
			keyword = "NOT LIKE"
		}
		if asReference {
			return keyword, nil
		}
		if isSeq {
			return "", sqlerr.InvalidOperandKind("Invalid value provided to operator %q", string(named))
		}
		switch value.(type) {
		case string, *nodes.Literal:
			return keyword, nil
		}
		return "", sqlerr.TypeMismatch("The %q operator requires a string for a value", keyword)
	}
	return "", sqlerr.UnknownOperator(string(named))
}

func isNullOrBool(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(bool)
	return ok
}
