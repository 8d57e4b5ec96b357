package visitors

import (
	"strings"

	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// Select renders a SELECT statement for q.
func (b *baseVisitor) Select(q *nodes.Query) (string, error) {
	sql, _, err := b.selectSQL(q, false)
	return sql, err
}

// SelectWithProjection renders a SELECT statement and also returns the
// projection map, whose keys name the result columns in order.
func (b *baseVisitor) SelectWithProjection(q *nodes.Query) (string, *nodes.ProjectionMap, error) {
	return b.selectSQL(q, false)
}

// selectSQL assembles a SELECT. A subquery only orders when an order was
// set explicitly and never widens its projection with order fields.
func (b *baseVisitor) selectSQL(q *nodes.Query, subquery bool) (string, *nodes.ProjectionMap, error) {
	proj, err := b.Projection(q, !subquery)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.Distinct != nil {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(proj.Fragments(), ","))
	sb.WriteByte(' ')
	sb.WriteString(b.FromOrJoin(q.Model, ""))

	if err := b.writeFilter(&sb, q); err != nil {
		return "", nil, err
	}

	if !subquery || q.Order != nil {
		order, err := b.Order(q)
		if err != nil {
			return "", nil, err
		}
		writeClause(&sb, order)
	}
	writeClause(&sb, b.LimitOffset(q))
	return sb.String(), proj, nil
}

// writeFilter writes the JOIN and WHERE clauses of q.
func (b *baseVisitor) writeFilter(sb *strings.Builder, q *nodes.Query) error {
	joins, err := b.Joins(q)
	if err != nil {
		return err
	}
	writeClause(sb, joins)
	where, err := b.Where(q.Where)
	if err != nil {
		return err
	}
	if where != "" {
		writeClause(sb, "WHERE "+where)
	}
	return nil
}

// writeClause appends a space-separated clause, skipping empty ones.
func writeClause(sb *strings.Builder, clause string) {
	if clause == "" {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(clause)
}

// Insert renders an INSERT of one or more rows. Without explicit columns
// and with a single empty row it inserts DEFAULT VALUES.
func (b *baseVisitor) Insert(stmt *nodes.InsertStatement) (string, error) {
	if len(stmt.Rows) == 0 {
		return "", sqlerr.EmptyOperandSet("Insert into %q has no rows", stmt.Model.Name)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.tableID(stmt.Model))

	if len(stmt.Columns) == 0 {
		if len(stmt.Rows) != 1 || len(stmt.Rows[0]) != 0 {
			return "", sqlerr.TypeMismatch("Insert into %q has values but no columns", stmt.Model.Name)
		}
		sb.WriteString(" DEFAULT VALUES")
	} else {
		cols := make([]string, len(stmt.Columns))
		for i, f := range stmt.Columns {
			cols[i] = b.quoteIdent(f.ColumnName())
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(cols, ","))
		sb.WriteString(") VALUES ")

		for r, row := range stmt.Rows {
			if len(row) != len(stmt.Columns) {
				return "", sqlerr.TypeMismatch("Insert row %d has %d values for %d columns", r, len(row), len(stmt.Columns))
			}
			vals := make([]string, len(row))
			for i, v := range row {
				s, err := b.EscapeValue(stmt.Columns[i], v)
				if err != nil {
					return "", err
				}
				vals[i] = s
			}
			if r > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			sb.WriteString(strings.Join(vals, ","))
			sb.WriteByte(')')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.returning(stmt.Returning, true))
	return sb.String(), nil
}

// Update renders an UPDATE of the rows matched by the statement's query.
func (b *baseVisitor) Update(stmt *nodes.UpdateStatement) (string, error) {
	q := stmt.Query
	if len(stmt.Assignments) == 0 {
		return "", sqlerr.EmptyOperandSet("Update of %q has no assignments", q.Model.Name)
	}

	sets := make([]string, len(stmt.Assignments))
	for i, a := range stmt.Assignments {
		v, err := b.EscapeValue(a.Field, a.Value)
		if err != nil {
			return "", err
		}
		sets[i] = b.quoteIdent(a.Field.ColumnName()) + "=" + v
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.tableID(q.Model))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ","))
	if err := b.writeTargetFilter(&sb, q); err != nil {
		return "", err
	}
	sb.WriteByte(' ')
	sb.WriteString(b.returning(stmt.Returning, true))
	return sb.String(), nil
}

// Delete renders a DELETE of the rows matched by the statement's query.
func (b *baseVisitor) Delete(stmt *nodes.DeleteStatement) (string, error) {
	q := stmt.Query
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.tableID(q.Model))
	if err := b.writeTargetFilter(&sb, q); err != nil {
		return "", err
	}
	writeClause(&sb, b.returning(stmt.Returning, false))
	return sb.String(), nil
}

// writeTargetFilter writes the WHERE clause of an UPDATE or DELETE. Joins
// and paging cannot be expressed directly there, so such queries select the
// matching keys in a subquery.
func (b *baseVisitor) writeTargetFilter(sb *strings.Builder, q *nodes.Query) error {
	if !q.HasJoins() && q.Limit == nil && q.Offset == nil {
		where, err := b.Where(q.Where)
		if err != nil {
			return err
		}
		if where != "" {
			writeClause(sb, "WHERE "+where)
		}
		return nil
	}

	sub := q.Clone()
	sub.Distinct = nil
	var key string
	if pk := q.Model.PrimaryKey(); pk != nil {
		sub.Projection = []any{pk}
		key = b.fieldID(pk)
	} else {
		rowid := q.Model.FieldLiteral("rowid")
		sub.Projection = []any{rowid}
		key = b.fieldLiteralID(rowid)
	}
	sql, _, err := b.selectSQL(sub, true)
	if err != nil {
		return err
	}
	writeClause(sb, "WHERE "+key+" IN ("+sql+")")
	return nil
}

// returning renders the RETURNING clause. With no field it returns every
// column when all is set, and nothing otherwise.
func (b *baseVisitor) returning(f *nodes.Field, all bool) string {
	if f != nil {
		return "RETURNING " + b.quoteIdent(f.ColumnName())
	}
	if all {
		return "RETURNING *"
	}
	return ""
}

// ForeignKeyConstraint renders the table constraint for a foreign-key field.
func (b *baseVisitor) ForeignKeyConstraint(f *nodes.Field) (string, error) {
	fk := f.ForeignKey
	if fk == nil || fk.Target == nil {
		return "", sqlerr.UnresolvedField(f.Key() + " foreign key target")
	}
	var sb strings.Builder
	sb.WriteString("FOREIGN KEY(")
	sb.WriteString(b.quoteIdent(f.ColumnName()))
	sb.WriteString(") REFERENCES ")
	sb.WriteString(b.tableID(fk.Target.Model))
	sb.WriteByte('(')
	sb.WriteString(b.quoteIdent(fk.Target.ColumnName()))
	sb.WriteByte(')')
	if fk.Deferred {
		sb.WriteString(" DEFERRABLE INITIALLY DEFERRED")
	}
	if fk.OnDelete != "" {
		sb.WriteString(" ON DELETE ")
		sb.WriteString(strings.ToUpper(fk.OnDelete))
	}
	if fk.OnUpdate != "" {
		sb.WriteString(" ON UPDATE ")
		sb.WriteString(strings.ToUpper(fk.OnUpdate))
	}
	return sb.String(), nil
}

// ForeignKeyConstraints renders the foreign-key constraints of every field
// of m, comma-joined, for the tail of a CREATE TABLE body.
func (b *baseVisitor) ForeignKeyConstraints(m *nodes.Model) (string, error) {
	var parts []string
	for _, f := range m.Fields() {
		if f.ForeignKey == nil {
			continue
		}
		s, err := b.ForeignKeyConstraint(f)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ","), nil
}
