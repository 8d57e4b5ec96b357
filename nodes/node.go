// Package nodes defines the entity metadata and the AST node types that
// describe a query: conditions, logical combinators, literals, order and
// projection entries, and the statements built from them.
package nodes

// Node is the interface implemented by every node of a condition tree.
// Rendering can fail (unknown operator, bad operand), so Accept returns
// an error alongside the SQL fragment.
type Node interface {
	Accept(visitor Visitor) (string, error)
}

// Visitor walks a condition tree and produces SQL.
type Visitor interface {
	VisitCondition(node *ConditionNode) (string, error)
	VisitAnd(node *AndNode) (string, error)
	VisitOr(node *OrNode) (string, error)
	VisitGrouping(node *GroupingNode) (string, error)
}

// Walk calls fn for every ConditionNode under n, left to right.
func Walk(n Node, fn func(*ConditionNode)) {
	switch t := n.(type) {
	case *ConditionNode:
		fn(t)
	case *AndNode:
		Walk(t.Left, fn)
		Walk(t.Right, fn)
	case *OrNode:
		Walk(t.Left, fn)
		Walk(t.Right, fn)
	case *GroupingNode:
		Walk(t.Expr, fn)
	}
}
