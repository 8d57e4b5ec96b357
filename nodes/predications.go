package nodes

import "github.com/bawdo/litequery/internal/quoting"

// Eq creates an equality condition: field = val. A nil val compares with
// IS NULL, a slice expands to IN, and a *Field or *Model makes a join edge.
func (f *Field) Eq(val any) *ConditionNode {
	return NewCondition(f, OpEq, val)
}

// NotEq creates an inequality condition: field != val.
func (f *Field) NotEq(val any) *ConditionNode {
	return NewCondition(f, OpNeq, val)
}

// Gt creates a greater-than condition: field > val.
func (f *Field) Gt(val any) *ConditionNode {
	return NewCondition(f, OpGt, val)
}

// Gte creates a greater-than-or-equal condition: field >= val.
func (f *Field) Gte(val any) *ConditionNode {
	return NewCondition(f, OpGte, val)
}

// Lt creates a less-than condition: field < val.
func (f *Field) Lt(val any) *ConditionNode {
	return NewCondition(f, OpLt, val)
}

// Lte creates a less-than-or-equal condition: field <= val.
func (f *Field) Lte(val any) *ConditionNode {
	return NewCondition(f, OpLte, val)
}

// Like creates a LIKE condition. The pattern is used as given; wildcards
// may be escaped with a backslash.
func (f *Field) Like(pattern any) *ConditionNode {
	return NewCondition(f, OpLike, pattern)
}

// NotLike creates a NOT LIKE condition.
func (f *Field) NotLike(pattern any) *ConditionNode {
	return NewCondition(f, OpNotLike, pattern)
}

// In creates a membership condition: field IN (vals...).
func (f *Field) In(vals ...any) *ConditionNode {
	return NewCondition(f, OpEq, vals)
}

// NotIn creates a negated membership condition: field NOT IN (vals...).
func (f *Field) NotIn(vals ...any) *ConditionNode {
	return NewCondition(f, OpNeq, vals)
}

// Contains matches values containing s. Wildcards in s match literally.
func (f *Field) Contains(s string) *ConditionNode {
	return f.Like("%" + quoting.EscapeLikePattern(s) + "%")
}

// StartsWith matches values beginning with s.
func (f *Field) StartsWith(s string) *ConditionNode {
	return f.Like(quoting.EscapeLikePattern(s) + "%")
}

// EndsWith matches values ending with s.
func (f *Field) EndsWith(s string) *ConditionNode {
	return f.Like("%" + quoting.EscapeLikePattern(s))
}

// Op creates a condition using a raw SQL operator, e.g. NewLiteral("GLOB").
func (f *Field) Op(op *Literal, val any) *ConditionNode {
	return NewCondition(f, op, val)
}
