package nodes

import (
	"fmt"
	"strings"
)

// LiteralValue is implemented by values that render as raw SQL and are
// never escaped.
type LiteralValue interface {
	literalValue()
}

// Literal is a raw SQL fragment.
type Literal struct {
	Raw string
	// NoDefaultOnCreate suppresses emitting this literal as a column default.
	NoDefaultOnCreate bool
	// Remote marks the value as computed by the engine.
	Remote bool
}

// NewLiteral creates a Literal from raw SQL text.
func NewLiteral(raw string) *Literal {
	return &Literal{Raw: raw}
}

func (*Literal) literalValue() {}

// String returns the raw text.
func (l *Literal) String() string { return l.Raw }

// FieldLiteral references a column of a model directly, bypassing field
// metadata. It renders as a qualified identifier.
type FieldLiteral struct {
	Model  *Model
	Column string
}

func (*FieldLiteral) literalValue() {}

// Key returns the qualified name, e.g. "User:rowid".
func (f *FieldLiteral) Key() string {
	return f.Model.Name + ":" + f.Column
}

// DistinctLiteral renders the DISTINCT keyword.
type DistinctLiteral struct{}

func (*DistinctLiteral) literalValue() {}

// Distinct is the shared DISTINCT literal.
var Distinct = &DistinctLiteral{}

// LiteralByName builds a literal of the named kind. Names are matched
// case-insensitively: "literal" and "base" produce a *Literal, "distinct"
// produces the DISTINCT literal.
func LiteralByName(kind, raw string) (LiteralValue, error) {
	switch strings.ToLower(kind) {
	case "literal", "base":
		return NewLiteral(raw), nil
	case "distinct":
		return Distinct, nil
	default:
		return nil, fmt.Errorf("unknown literal kind %q", kind)
	}
}
