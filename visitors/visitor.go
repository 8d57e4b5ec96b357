// Package visitors generates SQL text from queries and statements.
//
// A baseVisitor holds the dialect-neutral clause builders; the dialect
// supplies a small set of strategy functions (identifier quoting, string
// quoting, join keywords, default order) when it is constructed.
package visitors

import (
	"strings"

	"github.com/bawdo/litequery/nodes"
)

// SQL keywords for the predefined JoinType values.
var joinTypeSQL = map[nodes.JoinType]string{
	"":              "INNER JOIN",
	nodes.InnerJoin: "INNER JOIN",
	nodes.LeftJoin:  "LEFT JOIN",
	nodes.CrossJoin: "CROSS JOIN",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithDefaultOrderDirection sets the direction of the dialect's default
// order, used when a query has no explicit order.
func WithDefaultOrderDirection(d nodes.Direction) Option {
	return func(b *baseVisitor) {
		b.defaultDirection = d
	}
}

// baseVisitor implements the shared SQL generation logic. Dialects construct
// one and fill in the strategy fields.
type baseVisitor struct {
	// quoteIdent quotes a single SQL identifier (table name, column name).
	quoteIdent func(string) string

	// quoteString renders a string value as a SQL string literal.
	quoteString func(string) string

	// joinKeyword maps a join type to its keyword.
	joinKeyword func(nodes.JoinType) string

	// defaultOrder returns the order used when a query has none.
	defaultOrder func(*nodes.Model, nodes.Direction) *nodes.OrderMap

	defaultDirection nodes.Direction
}

var _ nodes.Visitor = (*baseVisitor)(nil)

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// tableID returns the quoted table name of m.
func (b *baseVisitor) tableID(m *nodes.Model) string {
	return b.quoteIdent(m.Table)
}

// fieldID returns the qualified, quoted column of f: "table"."column".
func (b *baseVisitor) fieldID(f *nodes.Field) string {
	return b.tableID(f.Model) + "." + b.quoteIdent(f.ColumnName())
}

// fieldLiteralID returns the qualified, quoted column of a field literal.
func (b *baseVisitor) fieldLiteralID(f *nodes.FieldLiteral) string {
	return b.tableID(f.Model) + "." + b.quoteIdent(f.Column)
}

// defaultJoinKeyword maps join types through joinTypeSQL and passes any
// other keyword through verbatim.
func defaultJoinKeyword(jt nodes.JoinType) string {
	if kw, ok := joinTypeSQL[jt]; ok {
		return kw
	}
	return strings.TrimSpace(string(jt))
}
