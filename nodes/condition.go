package nodes

// OperatorNode is the operator of a condition: either an Operator or a
// *Literal whose text is used verbatim.
type OperatorNode interface {
	OperatorName() string
}

// Operator is a named comparison operator.
type Operator string

const (
	OpEq      Operator = "EQ"
	OpNeq     Operator = "NEQ"
	OpGt      Operator = "GT"
	OpGte     Operator = "GTE"
	OpLt      Operator = "LT"
	OpLte     Operator = "LTE"
	OpLike    Operator = "LIKE"
	OpNotLike Operator = "NOT_LIKE"
)

// OperatorName returns the operator's name.
func (o Operator) OperatorName() string { return string(o) }

// OperatorName returns the literal's raw text.
func (l *Literal) OperatorName() string { return l.Raw }

var inverseOps = map[Operator]Operator{
	OpEq:      OpNeq,
	OpNeq:     OpEq,
	OpGt:      OpLte,
	OpGte:     OpLt,
	OpLt:      OpGte,
	OpLte:     OpGt,
	OpLike:    OpNotLike,
	OpNotLike: OpLike,
}

// Inverse returns the logical negation of o. Unknown operators are returned unchanged.
func (o Operator) Inverse() Operator {
	if inv, ok := inverseOps[o]; ok {
		return inv
	}
	return o
}

// JoinType selects the join keyword for a join edge. Values other than the
// predefined ones are emitted verbatim, e.g. "NATURAL JOIN".
type JoinType string

const (
	InnerJoin JoinType = "inner"
	LeftJoin  JoinType = "left"
	CrossJoin JoinType = "cross"
)

// ConditionNode compares a field against a value. When Value references a
// field or model the condition is a join edge rather than a filter.
type ConditionNode struct {
	Combinable
	Field    *Field
	Operator OperatorNode
	// Inverse replaces Operator when Not is set. When nil the inverse of a
	// named Operator is derived.
	Inverse       OperatorNode
	Not           bool
	CaseSensitive bool
	// JoinType sets the join keyword when the condition is a join edge.
	JoinType JoinType
	Value    any
}

// NewCondition creates a condition on field.
func NewCondition(field *Field, op OperatorNode, value any) *ConditionNode {
	n := &ConditionNode{Field: field, Operator: op, Value: value}
	n.self = n
	return n
}

func (n *ConditionNode) Accept(v Visitor) (string, error) { return v.VisitCondition(n) }

// EffectiveOperator returns the operator after applying negation.
func (n *ConditionNode) EffectiveOperator() OperatorNode {
	if !n.Not {
		return n.Operator
	}
	if n.Inverse != nil {
		return n.Inverse
	}
	if op, ok := n.Operator.(Operator); ok {
		return op.Inverse()
	}
	return n.Operator
}

// Negate returns a copy of n with Not toggled.
func (n *ConditionNode) Negate() *ConditionNode {
	cp := *n
	cp.Not = !n.Not
	cp.self = &cp
	return &cp
}

// WithJoinType returns a copy of n that joins with jt.
func (n *ConditionNode) WithJoinType(jt JoinType) *ConditionNode {
	cp := *n
	cp.JoinType = jt
	cp.self = &cp
	return &cp
}

// Reference returns the field this condition joins against, if the value
// is a field or a model (meaning its primary key).
func (n *ConditionNode) Reference() *Field {
	switch v := n.Value.(type) {
	case *Field:
		return v
	case *Model:
		return v.PrimaryKey()
	}
	return nil
}

// IsJoin reports whether the condition is a join edge. A reference to a
// field of another model is an edge; a literal value is an edge only when a
// join type is set.
func (n *ConditionNode) IsJoin() bool {
	if ref := n.Reference(); ref != nil {
		return ref.Model != n.Field.Model
	}
	if _, ok := n.Value.(*Literal); ok && n.JoinType != "" {
		return true
	}
	return false
}
