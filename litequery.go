// Package litequery generates SQLite statements from model descriptions and
// runs them on a SQLite connection.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/litequery/nodes (models, queries and conditions)
//   - github.com/bawdo/litequery/managers (statement builders)
//   - github.com/bawdo/litequery/visitors (SQL generation)
//   - github.com/bawdo/litequery/connection (execution and transactions)
//   - github.com/bawdo/litequery/plugins (query transformers)
package litequery

import (
	"context"

	"github.com/bawdo/litequery/connection"
	"github.com/bawdo/litequery/managers"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/txn"
	"github.com/bawdo/litequery/visitors"
)

// --- Schema Types ---

// Model describes an entity type and the table that stores it.
type Model = nodes.Model

// Field describes one column of a model.
type Field = nodes.Field

// Query is the description of a SELECT.
type Query = nodes.Query

// Node is the base interface all condition nodes implement.
type Node = nodes.Node

// NewModel creates a model and binds the given fields to it.
func NewModel(name string, fields ...*nodes.Field) *nodes.Model {
	return nodes.NewModel(name, fields...)
}

// NewQuery creates a query rooted at model.
func NewQuery(model *nodes.Model) *nodes.Query {
	return nodes.NewQuery(model)
}

// And combines two conditions; a nil side is dropped.
func And(left, right nodes.Node) nodes.Node {
	return nodes.And(left, right)
}

// Or combines two conditions; a nil side is dropped.
func Or(left, right nodes.Node) nodes.Node {
	return nodes.Or(left, right)
}

// Order directions.
const (
	Asc  = nodes.Asc
	Desc = nodes.Desc
)

// --- Manager Types ---

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager = managers.SelectManager

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager = managers.InsertManager

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager = managers.DeleteManager

// NewSelect creates a SelectManager reading from model.
func NewSelect(model *nodes.Model) *managers.SelectManager {
	return managers.NewSelectManager(model)
}

// NewInsert creates an InsertManager writing to model.
func NewInsert(model *nodes.Model) *managers.InsertManager {
	return managers.NewInsertManager(model)
}

// NewUpdate creates an UpdateManager for model.
func NewUpdate(model *nodes.Model) *managers.UpdateManager {
	return managers.NewUpdateManager(model)
}

// NewDelete creates a DeleteManager for model.
func NewDelete(model *nodes.Model) *managers.DeleteManager {
	return managers.NewDeleteManager(model)
}

// --- SQL Generation ---

// SQLiteVisitor generates SQLite SQL.
type SQLiteVisitor = visitors.SQLiteVisitor

// NewSQLiteVisitor creates a new SQLite visitor.
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}

// WithDefaultOrderDirection sets the direction of the implicit rowid order.
func WithDefaultOrderDirection(d nodes.Direction) visitors.Option {
	return visitors.WithDefaultOrderDirection(d)
}

// --- Connection ---

// Connection is a SQLite database handle.
type Connection = connection.Connection

// Values maps field names to the values of one row.
type Values = connection.Values

// Open creates a connection and starts it.
func Open(ctx context.Context, opts ...connection.Option) (*connection.Connection, error) {
	c := connection.New(opts...)
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Transaction runs fn in a transaction on c, or in a savepoint when ctx
// already carries one.
func Transaction(ctx context.Context, c *connection.Connection, fn func(ctx context.Context) error, opts ...txn.Option) error {
	return c.Transaction(ctx, fn, opts...)
}
