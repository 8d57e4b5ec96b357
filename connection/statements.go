package connection

import (
	"context"
	"strings"
	"time"

	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// NowExpression evaluates to the current time in epoch milliseconds inside
// the engine.
const NowExpression = `(STRFTIME('%s','now')||SUBSTR(STRFTIME('%f','now'),4))`

// missingSequence is the engine error for a database in which no table has
// used AUTOINCREMENT yet.
const missingSequence = "no such table: sqlite_sequence"

// Values maps field names to the values of one row.
type Values map[string]any

// Select runs q and returns its rows. Columns are named by field key,
// e.g. "User:id".
func (c *Connection) Select(ctx context.Context, q *nodes.Query) (*Result, error) {
	query, err := c.gen.Select(q)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, query)
}

// Insert inserts rows into m's table and returns the inserted rows. Missing
// values are filled from field defaults. Rows that end up with different
// column sets are inserted by separate statements, in order.
func (c *Connection) Insert(ctx context.Context, m *nodes.Model, rows ...Values) (*Result, error) {
	if len(rows) == 0 {
		return nil, sqlerr.EmptyOperandSet("Insert into %q has no rows", m.Name)
	}

	total := &Result{}
	var (
		stmt *nodes.InsertStatement
		sig  string
	)
	flush := func() error {
		if stmt == nil {
			return nil
		}
		query, err := c.gen.Insert(stmt)
		if err != nil {
			return err
		}
		res, err := c.Query(ctx, query)
		if err != nil {
			return err
		}
		total.Columns = res.Columns
		total.Rows = append(total.Rows, res.Rows...)
		return nil
	}

	for _, row := range rows {
		cols, vals, err := c.rowValues(m, row)
		if err != nil {
			return nil, err
		}
		s := signature(cols)
		if stmt != nil && s == sig && len(cols) > 0 {
			stmt.Rows = append(stmt.Rows, vals)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		stmt = &nodes.InsertStatement{Model: m, Columns: cols, Rows: [][]any{vals}}
		sig = s
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return total, nil
}

// rowValues resolves one row into columns and values in field order.
func (c *Connection) rowValues(m *nodes.Model, row Values) ([]*nodes.Field, []any, error) {
	for name := range row {
		if f := m.Field(name); f == nil || f.Virtual() {
			return nil, nil, sqlerr.UnresolvedField(name)
		}
	}

	var (
		cols []*nodes.Field
		vals []any
	)
	for _, f := range m.Fields() {
		if f.Virtual() {
			continue
		}
		if v, ok := row[f.Name]; ok {
			cols = append(cols, f)
			vals = append(vals, v)
			continue
		}
		v, ok := c.insertDefault(f)
		if !ok {
			continue
		}
		cols = append(cols, f)
		vals = append(vals, v)
	}
	return cols, vals, nil
}

// insertDefault returns the value to insert for a field the row left out.
// It reports false when the engine supplies the value.
func (c *Connection) insertDefault(f *nodes.Field) (any, bool) {
	switch d := f.Default.(type) {
	case nil:
		return nil, false
	case nodes.DefaultKind:
		if d == nodes.DefaultAutoIncrement {
			if f.Type != nodes.TypeBigInt {
				return nil, false
			}
			return c.autoinc.Allocate(f.Model, f)
		}
		v, err := c.DefaultFieldValue(d, f)
		if err != nil || skipOnCreate(v) {
			return nil, false
		}
		return v, true
	default:
		if skipOnCreate(d) {
			return nil, false
		}
		return d, true
	}
}

func skipOnCreate(v any) bool {
	lit, ok := v.(*nodes.Literal)
	return ok && lit.NoDefaultOnCreate
}

func signature(cols []*nodes.Field) string {
	names := make([]string, len(cols))
	for i, f := range cols {
		names[i] = f.Name
	}
	return strings.Join(names, ",")
}

// Update sets values on the rows q matches and returns the updated rows.
// Assignments follow the model's field order.
func (c *Connection) Update(ctx context.Context, q *nodes.Query, values Values) (*Result, error) {
	stmt := &nodes.UpdateStatement{Query: q}
	for name := range values {
		if f := q.Model.Field(name); f == nil || f.Virtual() {
			return nil, sqlerr.UnresolvedField(name)
		}
	}
	for _, f := range q.Model.Fields() {
		if v, ok := values[f.Name]; ok {
			stmt.Assignments = append(stmt.Assignments, nodes.Assignment{Field: f, Value: v})
		}
	}

	query, err := c.gen.Update(stmt)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, query)
}

// Delete removes the rows q matches and returns how many were removed.
func (c *Connection) Delete(ctx context.Context, q *nodes.Query) (int64, error) {
	query, err := c.gen.Delete(&nodes.DeleteStatement{Query: q})
	if err != nil {
		return 0, err
	}
	res, err := c.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// Truncate removes every row of m's table and resets its id counters, both
// the emulated ones and the engine's AUTOINCREMENT sequence.
func (c *Connection) Truncate(ctx context.Context, m *nodes.Model) (int64, error) {
	deleteSQL, resetSQL := c.gen.Truncate(m)
	res, err := c.Query(ctx, deleteSQL)
	if err != nil {
		return 0, err
	}

	c.autoinc.Reset(m, nil)

	if _, err := c.Query(ctx, resetSQL); err != nil && !strings.Contains(err.Error(), missingSequence) {
		return 0, err
	}
	return res.RowsAffected, nil
}

// DefaultFieldValue resolves a default kind for f:
//
//   - DefaultAutoIncrement on a primary key is the AUTOINCREMENT keyword.
//     On other fields it is an empty literal when BIGINT emulation is on,
//     and an error otherwise. Both are Remote and NoDefaultOnCreate.
//   - DefaultDatetimeNow and DefaultDateNow are NowExpression, Remote.
//   - DefaultDatetimeNowLocal is the client's current time in epoch
//     milliseconds; DefaultDateNowLocal is the start of the client's day.
//
// Anything else is returned unchanged.
func (c *Connection) DefaultFieldValue(kind any, f *nodes.Field) (any, error) {
	d, ok := kind.(nodes.DefaultKind)
	if !ok {
		return kind, nil
	}
	switch d {
	case nodes.DefaultAutoIncrement:
		if f != nil && f.PrimaryKey {
			return &nodes.Literal{Raw: "AUTOINCREMENT", NoDefaultOnCreate: true, Remote: true}, nil
		}
		if !c.autoinc.Enabled() {
			return nil, sqlerr.UnsupportedOption(
				"AUTOINCREMENT isn't supported with BIGINT. You can silently convert to INTEGER for proper support " +
					"if you enable BIGINT auto-increment emulation on the connection.")
		}
		return &nodes.Literal{NoDefaultOnCreate: true, Remote: true}, nil
	case nodes.DefaultDatetimeNow, nodes.DefaultDateNow:
		return &nodes.Literal{Raw: NowExpression, Remote: true}, nil
	case nodes.DefaultDatetimeNowLocal:
		return c.opts.now().UnixMilli(), nil
	case nodes.DefaultDateNowLocal:
		now := c.opts.now()
		y, mo, day := now.Date()
		return time.Date(y, mo, day, 0, 0, 0, 0, now.Location()).UnixMilli(), nil
	}
	return kind, nil
}
