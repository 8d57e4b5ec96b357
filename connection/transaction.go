package connection

import (
	"context"
	"fmt"

	"github.com/bawdo/litequery/txn"
)

// Transaction runs fn inside a transaction, or inside a savepoint of the
// transaction carried by ctx. Statements issued through this connection
// with the context passed to fn join the scope.
func (c *Connection) Transaction(ctx context.Context, fn func(ctx context.Context) error, opts ...txn.Option) error {
	_, err := TransactionValue(ctx, c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

// TransactionValue is Transaction for work units that return a value.
func TransactionValue[T any](ctx context.Context, c *Connection, fn func(ctx context.Context) (T, error), opts ...txn.Option) (T, error) {
	opts = append([]txn.Option{txn.WithLogger(c.logger)}, opts...)

	if s, ok := txn.FromContext(ctx); ok && s.Active() {
		return txn.Do(ctx, nil, fn, opts...)
	}

	var zero T
	db := c.DB()
	if db == nil {
		return zero, ErrNotStarted
	}
	// A transaction is bound to one connection, so the pool can't serve it.
	conn, err := db.Conn(ctx)
	if err != nil {
		return zero, fmt.Errorf("conn: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return txn.Do(ctx, conn, fn, opts...)
}
