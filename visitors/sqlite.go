package visitors

import (
	"github.com/bawdo/litequery/internal/quoting"
	"github.com/bawdo/litequery/nodes"
)

// DialectSQLite names the dialect generated by SQLiteVisitor.
const DialectSQLite = "sqlite"

// sequenceTable is the engine's store of AUTOINCREMENT counters.
const sequenceTable = "sqlite_sequence"

// SQLiteVisitor generates SQLite-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column" (ANSI SQL).
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		quoteIdent:   quoting.DoubleQuote,
		quoteString:  quoting.QuoteString,
		joinKeyword:  defaultJoinKeyword,
		defaultOrder: rowidOrder,
	}
	v.applyOptions(opts)
	return v
}

// Dialect returns the dialect name.
func (v *SQLiteVisitor) Dialect() string { return DialectSQLite }

// rowidOrder orders by the implicit rowid column every SQLite table has.
func rowidOrder(m *nodes.Model, dir nodes.Direction) *nodes.OrderMap {
	rowid := m.FieldLiteral("rowid")
	order := nodes.NewOrderMap()
	order.Set(rowid.Key(), nodes.OrderEntry{Value: rowid, Direction: dir})
	return order
}

// Truncate returns the statements that empty m's table: an unconditional
// DELETE, then a reset of the table's AUTOINCREMENT sequence. The second
// statement fails with "no such table" when no table in the database has
// ever used AUTOINCREMENT; callers treat that as nothing to reset.
func (v *SQLiteVisitor) Truncate(m *nodes.Model) (deleteSQL, resetSQL string) {
	deleteSQL = "DELETE FROM " + v.tableID(m)
	resetSQL = "UPDATE " + v.quoteIdent(sequenceTable) + " SET " + v.quoteIdent("seq") + "=0 WHERE " +
		v.quoteIdent("name") + "=" + v.quoteString(m.Table)
	return deleteSQL, resetSQL
}
