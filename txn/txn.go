// Package txn runs work units inside transactions and nested savepoints.
//
// A top-level scope emits BEGIN <mode> TRANSACTION and ends with COMMIT or
// ROLLBACK. A scope opened while another is active on the context becomes a
// savepoint of it and ends with RELEASE SAVEPOINT or ROLLBACK TO SAVEPOINT.
// The active scope travels on the context.Context passed to the work unit:
//
//	err := txn.Run(ctx, conn, func(ctx context.Context) error {
//		// statements here run inside the transaction
//		return txn.Run(ctx, nil, func(ctx context.Context) error {
//			// and these inside a savepoint
//			return nil
//		})
//	})
package txn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bawdo/litequery/sqlerr"
)

// Executor wraps the standard Exec and Query methods. *sql.DB, *sql.Conn
// and *sql.Tx satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// LockMode selects how a top-level transaction acquires the database lock.
type LockMode string

const (
	LockDeferred  LockMode = "DEFERRED"
	LockImmediate LockMode = "IMMEDIATE"
	LockExclusive LockMode = "EXCLUSIVE"
)

func (m LockMode) valid() bool {
	return m == LockDeferred || m == LockImmediate || m == LockExclusive
}

// ErrScopeClosed is returned when a scope is opened under a parent that has
// already committed or rolled back.
var ErrScopeClosed = errors.New("txn: scope is closed")

// ErrNoExecutor is returned when a top-level scope has no executor.
var ErrNoExecutor = errors.New("txn: no executor")

// RollbackError is returned when rolling back after a failure fails too.
// It matches both errors with errors.Is.
type RollbackError struct {
	// Err is the failure that triggered the rollback.
	Err error
	// Rollback is the error of the rollback statement.
	Rollback error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback failed: %v (after: %v)", e.Rollback, e.Err)
}

// Unwrap returns the rollback error followed by the triggering error.
func (e *RollbackError) Unwrap() []error {
	return []error{e.Rollback, e.Err}
}

// Scope is one transaction or savepoint level.
type Scope struct {
	parent    *Scope
	exec      Executor
	savepoint string
	active    atomic.Bool

	// sem is shared by every scope of one chain and admits a single control
	// statement at a time.
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// Parent returns the enclosing scope, or nil at top level.
func (s *Scope) Parent() *Scope { return s.parent }

// IsSavepoint reports whether the scope is a savepoint of an outer transaction.
func (s *Scope) IsSavepoint() bool { return s.parent != nil }

// SavepointName returns the generated savepoint name, or "" at top level.
func (s *Scope) SavepointName() string { return s.savepoint }

// Active reports whether the scope is still open.
func (s *Scope) Active() bool { return s.active.Load() }

// Executor returns the executor statements of this scope must run on.
func (s *Scope) Executor() Executor { return s.exec }

// Depth returns 0 for a transaction, 1 for its first savepoint level, and so on.
func (s *Scope) Depth() int {
	d := 0
	for p := s.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope carried by ctx.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Scope)
	return s, ok && s != nil
}

type options struct {
	lock     bool
	mode     LockMode
	parent   *Scope
	noParent bool
	logger   *slog.Logger
}

// Option configures a scope.
type Option func(*options)

// WithLock requests a lock mode for a top-level transaction. Without a
// mode the lock is EXCLUSIVE; without this option it is DEFERRED.
// Savepoints ignore the lock.
func WithLock(mode ...LockMode) Option {
	return func(o *options) {
		o.lock = true
		o.mode = LockExclusive
		if len(mode) > 0 {
			o.mode = mode[0]
		}
	}
}

// WithParent nests the new scope under parent instead of the scope carried
// by the context. A nil parent forces a new top-level transaction.
func WithParent(parent *Scope) Option {
	return func(o *options) {
		o.parent = parent
		o.noParent = parent == nil
	}
}

// WithLogger sets the logger for control statements.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run runs fn inside a new scope. See Do.
func Run(ctx context.Context, exec Executor, fn func(ctx context.Context) error, opts ...Option) error {
	_, err := Do(ctx, exec, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

// Do runs fn inside a new scope and returns its result. When ctx carries an
// active scope (or WithParent names one) the new scope is a savepoint of it
// and exec is ignored. fn receives a context carrying the new scope.
//
// If fn returns an error or panics the scope is rolled back before the
// error is returned or the panic resumes. If the rollback fails as well a
// *RollbackError carrying both errors is returned.
func Do[T any](ctx context.Context, exec Executor, fn func(ctx context.Context) (T, error), opts ...Option) (result T, err error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := open(ctx, exec, &o)
	if err != nil {
		return result, err
	}

	panicked := true
	defer func() {
		if !panicked {
			return
		}
		if rbErr := s.rollback(ctx); rbErr != nil {
			s.logger.Error("rollback after panic failed", "err", rbErr)
		}
	}()

	result, err = fn(NewContext(ctx, s))
	panicked = false

	if err != nil {
		if rbErr := s.rollback(ctx); rbErr != nil {
			return result, &RollbackError{Err: err, Rollback: rbErr}
		}
		return result, err
	}
	if err := s.commit(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// open creates the scope and emits its opening statement.
func open(ctx context.Context, exec Executor, o *options) (*Scope, error) {
	if o.lock && !o.mode.valid() {
		return nil, sqlerr.UnsupportedOption("Unsupported transaction lock mode %q", string(o.mode))
	}

	parent := o.parent
	if parent == nil && !o.noParent {
		parent, _ = FromContext(ctx)
	}

	s := &Scope{parent: parent, logger: o.logger}
	var stmt string
	if parent != nil {
		if !parent.Active() {
			return nil, ErrScopeClosed
		}
		s.exec = parent.exec
		s.sem = parent.sem
		s.savepoint = newSavepointName(parent)
		stmt = "SAVEPOINT " + s.savepoint
	} else {
		if exec == nil {
			return nil, ErrNoExecutor
		}
		mode := LockDeferred
		if o.lock {
			mode = o.mode
		}
		s.exec = exec
		s.sem = semaphore.NewWeighted(1)
		stmt = "BEGIN " + string(mode) + " TRANSACTION"
	}

	if err := s.control(ctx, stmt); err != nil {
		return nil, err
	}
	s.active.Store(true)
	return s, nil
}

// commit releases a savepoint or commits a transaction. If that fails the
// scope is rolled back so the connection is not left inside it.
func (s *Scope) commit(ctx context.Context) error {
	stmt := "COMMIT"
	if s.IsSavepoint() {
		stmt = "RELEASE SAVEPOINT " + s.savepoint
	}
	err := s.control(ctx, stmt)
	if err == nil {
		s.active.Store(false)
		return nil
	}
	if rbErr := s.rollback(ctx); rbErr != nil {
		return &RollbackError{Err: err, Rollback: rbErr}
	}
	return err
}

func (s *Scope) rollback(ctx context.Context) error {
	if !s.active.Swap(false) {
		return nil
	}
	stmt := "ROLLBACK"
	if s.IsSavepoint() {
		stmt = "ROLLBACK TO SAVEPOINT " + s.savepoint
	}
	return s.control(ctx, stmt)
}

// control runs one control statement. Control statements must complete even
// when ctx has been cancelled, so cancellation is detached here.
func (s *Scope) control(ctx context.Context, stmt string) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.logger.Debug("txn", "sql", stmt, "depth", s.Depth())
	if _, err := s.exec.ExecContext(ctx, stmt); err != nil {
		s.logger.Error("txn control statement failed", "sql", stmt, "err", err)
		return sqlerr.Execution(stmt, err)
	}
	return nil
}

// savepointAlphabet has 16 symbols so each nibble maps to one letter.
const savepointAlphabet = "ABCDEFGHIJKLMNOP"

// newSavepointName returns a name that no open ancestor of parent uses.
func newSavepointName(parent *Scope) string {
	for {
		name := encodeSavepoint(uuid.New())
		if !nameInUse(parent, name) {
			return name
		}
	}
}

func nameInUse(s *Scope, name string) bool {
	for ; s != nil; s = s.parent {
		if s.savepoint == name && s.Active() {
			return true
		}
	}
	return false
}

// encodeSavepoint renders the 128 bits of id as "SP" followed by 32 letters.
func encodeSavepoint(id uuid.UUID) string {
	buf := make([]byte, 2, 2+2*len(id))
	copy(buf, "SP")
	for _, b := range id {
		buf = append(buf, savepointAlphabet[b>>4], savepointAlphabet[b&0x0f])
	}
	return string(buf)
}
