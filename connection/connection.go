// Package connection runs generated SQL against a SQLite database.
//
// A Connection owns the *sql.DB, the SQL generator and the auto-increment
// emulation table. Statements run on the transaction scope carried by the
// context when there is one, and on the pool otherwise.
package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bawdo/litequery/autoinc"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
	"github.com/bawdo/litequery/txn"
	"github.com/bawdo/litequery/visitors"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryFilename opens a private in-memory database.
const MemoryFilename = ":memory:"

// ErrNotStarted is returned by statement methods before Start.
var ErrNotStarted = errors.New("connection: not started")

// rowQuery selects statements that produce rows.
var rowQuery = regexp.MustCompile(`(?i)^\s*SELECT\s+|RETURNING`)

// Result is the outcome of one statement. Row statements fill Columns and
// Rows; other statements fill RowsAffected and LastInsertID.
type Result struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
	LastInsertID int64
}

// Maps returns each row keyed by column name.
func (r *Result) Maps() []map[string]any {
	if r == nil {
		return nil
	}
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			m[col] = row[j]
		}
		out[i] = m
	}
	return out
}

type options struct {
	filename           string
	foreignConstraints bool
	emulateBigInt      bool
	logger             *slog.Logger
	generatorOpts      []visitors.Option
	db                 *sql.DB
	now                func() time.Time
}

// Option configures a Connection.
type Option func(*options)

// WithFilename sets the database file. The default is MemoryFilename.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithForeignConstraints toggles PRAGMA foreign_keys on Start. On by default.
func WithForeignConstraints(enabled bool) Option {
	return func(o *options) { o.foreignConstraints = enabled }
}

// WithEmulatedBigIntAutoIncrement numbers BIGINT auto-increment fields on
// the client, since the engine only auto-increments INTEGER primary keys.
func WithEmulatedBigIntAutoIncrement(enabled bool) Option {
	return func(o *options) { o.emulateBigInt = enabled }
}

// WithLogger sets the statement logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGeneratorOptions passes options to the SQL generator.
func WithGeneratorOptions(opts ...visitors.Option) Option {
	return func(o *options) { o.generatorOpts = append(o.generatorOpts, opts...) }
}

// WithDB uses an already opened pool instead of opening Filename.
// Stop still closes it.
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// WithClock sets the time source for client-side date defaults.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Connection executes statements against one SQLite database.
type Connection struct {
	opts    options
	gen     *visitors.SQLiteVisitor
	autoinc *autoinc.Table
	logger  *slog.Logger

	mu sync.RWMutex
	db *sql.DB
}

// New creates a Connection. Call Start before running statements.
func New(opts ...Option) *Connection {
	o := options{
		filename:           MemoryFilename,
		foreignConstraints: true,
		logger:             slog.Default(),
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Connection{
		opts:    o,
		gen:     visitors.NewSQLiteVisitor(o.generatorOpts...),
		autoinc: autoinc.New(o.emulateBigInt),
		logger:  o.logger,
	}
}

// Start opens the database. Calling it on a started connection is a no-op.
func (c *Connection) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.db != nil {
		c.mu.Unlock()
		return nil
	}

	db := c.opts.db
	if db == nil {
		var err error
		db, err = sql.Open(DriverName, c.opts.filename)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("open: %w", err)
		}
		if isMemory(c.opts.filename) {
			// Every new connection to :memory: is a new, empty database.
			db.SetMaxOpenConns(1)
		}
		if err := db.PingContext(ctx); err != nil {
			c.mu.Unlock()
			_ = db.Close()
			return fmt.Errorf("ping: %w", err)
		}
	}
	c.db = db
	c.mu.Unlock()

	c.logger.Debug("connection started", "filename", c.opts.filename)
	if c.opts.foreignConstraints {
		if err := c.EnableForeignKeyConstraints(ctx, true); err != nil {
			_ = c.Stop()
			return err
		}
	}
	return nil
}

// Stop closes the database. Calling it on a stopped connection is a no-op.
func (c *Connection) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// IsStarted reports whether Start has opened the database.
func (c *Connection) IsStarted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db != nil
}

// DB returns the underlying pool, or nil before Start.
func (c *Connection) DB() *sql.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Filename returns the configured database file.
func (c *Connection) Filename() string { return c.opts.filename }

// Dialect returns the SQL dialect name.
func (c *Connection) Dialect() string { return visitors.DialectSQLite }

// Generator returns the SQL generator.
func (c *Connection) Generator() *visitors.SQLiteVisitor { return c.gen }

// AutoIncrement returns the BIGINT auto-increment emulation table.
func (c *Connection) AutoIncrement() *autoinc.Table { return c.autoinc }

// LiteralByName builds a literal of the named kind.
func (c *Connection) LiteralByName(kind, raw string) (nodes.LiteralValue, error) {
	return nodes.LiteralByName(kind, raw)
}

func isMemory(filename string) bool {
	return filename == "" || filename == MemoryFilename || strings.Contains(filename, "mode=memory")
}

// executor returns the open scope's executor, or the pool.
func (c *Connection) executor(ctx context.Context) (txn.Executor, error) {
	if s, ok := txn.FromContext(ctx); ok && s.Active() {
		return s.Executor(), nil
	}
	db := c.DB()
	if db == nil {
		return nil, ErrNotStarted
	}
	return db, nil
}

// Query runs one statement. SELECT statements and statements with a
// RETURNING clause return rows; everything else reports the rows affected.
// An empty statement returns a nil Result.
func (c *Connection) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return c.run(ctx, query, rowQuery.MatchString(query), args)
}

// Exec runs a script of one or more statements.
func (c *Connection) Exec(ctx context.Context, script string) error {
	_, err := c.run(ctx, script, false, nil)
	return err
}

// Pragma runs "PRAGMA stmt" and returns the rows it produces, if any.
func (c *Connection) Pragma(ctx context.Context, stmt string) (*Result, error) {
	return c.run(ctx, "PRAGMA "+stmt, true, nil)
}

// EnableForeignKeyConstraints switches foreign key enforcement.
func (c *Connection) EnableForeignKeyConstraints(ctx context.Context, enable bool) error {
	state := "OFF"
	if enable {
		state = "ON"
	}
	_, err := c.run(ctx, "PRAGMA foreign_keys = "+state, false, nil)
	return err
}

func (c *Connection) run(ctx context.Context, query string, rows bool, args []any) (*Result, error) {
	exec, err := c.executor(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("query", "sql", query)
	var res *Result
	if rows {
		res, err = queryRows(ctx, exec, query, args)
	} else {
		res, err = execStatement(ctx, exec, query, args)
	}
	if err != nil {
		c.logger.Error("query failed", "sql", query, "err", err)
		return nil, sqlerr.Execution(query, err)
	}
	return res, nil
}

func queryRows(ctx context.Context, exec txn.Executor, query string, args []any) (*Result, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	res := &Result{Columns: columns}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return res, nil
}

func execStatement(ctx context.Context, exec txn.Executor, query string, args []any) (*Result, error) {
	r, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	// Both are best effort; some statements report neither.
	res.RowsAffected, _ = r.RowsAffected()
	res.LastInsertID, _ = r.LastInsertId()
	return res, nil
}
