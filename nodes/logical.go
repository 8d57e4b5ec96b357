package nodes

// AndNode represents a logical AND between two expressions.
type AndNode struct {
	Combinable
	Left  Node
	Right Node
}

func (n *AndNode) Accept(v Visitor) (string, error) { return v.VisitAnd(n) }

// OrNode represents a logical OR between two expressions.
type OrNode struct {
	Combinable
	Left  Node
	Right Node
}

func (n *OrNode) Accept(v Visitor) (string, error) { return v.VisitOr(n) }

// GroupingNode wraps an expression in parentheses.
type GroupingNode struct {
	Combinable
	Expr Node
}

func (n *GroupingNode) Accept(v Visitor) (string, error) { return v.VisitGrouping(n) }

// And combines left and right. A nil side yields the other side.
func And(left, right Node) Node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	n := &AndNode{Left: left, Right: right}
	n.self = n
	return n
}

// Or combines left and right. A nil side yields the other side.
func Or(left, right Node) Node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	n := &OrNode{Left: left, Right: right}
	n.self = n
	return n
}

// Group wraps expr in a GroupingNode.
func Group(expr Node) *GroupingNode {
	g := &GroupingNode{Expr: expr}
	g.self = g
	return g
}
