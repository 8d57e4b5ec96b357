package nodes

// Combinable provides logical chaining methods to types that embed it.
// The self field must be set to the embedding node.
type Combinable struct {
	self Node
}

// And creates an AndNode combining self with other.
func (c Combinable) And(other Node) Node {
	return And(c.self, other)
}

// Or creates an OrNode combining self with other.
func (c Combinable) Or(other Node) Node {
	return Or(c.self, other)
}

// Group wraps self in parentheses.
func (c Combinable) Group() *GroupingNode {
	return Group(c.self)
}
