package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/bawdo/litequery/connection"
	"github.com/bawdo/litequery/nodes"
)

const maxRows = 1000

const tablesQuery = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"

// schemaCache holds introspected tables and the models built from them.
type schemaCache struct {
	tables []string
	models map[string]*nodes.Model // table name -> model
}

// load refreshes the table list and drops cached models.
func (c *schemaCache) load(ctx context.Context, conn *connection.Connection) error {
	res, err := conn.Query(ctx, tablesQuery)
	if err != nil {
		return err
	}
	c.tables = c.tables[:0]
	for _, row := range res.Rows {
		c.tables = append(c.tables, cellString(row[0]))
	}
	c.models = make(map[string]*nodes.Model)
	return nil
}

// has reports whether table is a known table.
func (c *schemaCache) has(table string) bool {
	for _, t := range c.tables {
		if t == table {
			return true
		}
	}
	return false
}

// model returns a model describing table, built from PRAGMA table_info.
// "user_things" becomes model "UserThing".
func (c *schemaCache) model(ctx context.Context, conn *connection.Connection, table string) (*nodes.Model, error) {
	if m, ok := c.models[table]; ok {
		return m, nil
	}
	id, err := conn.Generator().EscapeID(table)
	if err != nil {
		return nil, err
	}
	res, err := conn.Pragma(ctx, "table_info("+id+")")
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("no such table: %s", table)
	}

	col := columnIndex(res.Columns)
	var fields []*nodes.Field
	for _, row := range res.Rows {
		f := &nodes.Field{
			Name:      cellString(row[col["name"]]),
			Type:      fieldType(cellString(row[col["type"]])),
			AllowNull: cellString(row[col["notnull"]]) == "0",
		}
		f.PrimaryKey = cellString(row[col["pk"]]) != "0"
		fields = append(fields, f)
	}

	m := nodes.NewModel(inflect.Camelize(inflect.Singularize(table)), fields...).WithTable(table)
	if c.models == nil {
		c.models = make(map[string]*nodes.Model)
	}
	c.models[table] = m
	return m, nil
}

func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return idx
}

// fieldType maps a declared column type to a field type using SQLite's
// affinity rules, with the date types recognised by name.
func fieldType(declared string) nodes.FieldType {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "BIGINT"):
		return nodes.TypeBigInt
	case strings.Contains(t, "INT"):
		return nodes.TypeInteger
	case strings.Contains(t, "DATETIME"), strings.Contains(t, "TIMESTAMP"):
		return nodes.TypeDateTime
	case strings.Contains(t, "DATE"):
		return nodes.TypeDate
	case strings.Contains(t, "BOOL"):
		return nodes.TypeBoolean
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"), strings.Contains(t, "DECIMAL"):
		return nodes.TypeNumeric
	default:
		return nodes.TypeString
	}
}

// formatResult renders a statement result as a boxed table, or as an
// affected-rows line for statements without rows.
func formatResult(res *connection.Result) string {
	if res == nil {
		return "OK\n"
	}
	if len(res.Columns) == 0 {
		if res.RowsAffected == 1 {
			return "OK (1 row affected)\n"
		}
		return fmt.Sprintf("OK (%d rows affected)\n", res.RowsAffected)
	}

	rows := res.Rows
	truncated := false
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}
	data := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		data[i] = cells
	}

	result := formatTable(res.Columns, data)
	if truncated {
		result += fmt.Sprintf("(truncated at %d rows)\n", maxRows)
	}
	return result
}

func cellString(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	// Calculate column widths.
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	sep := buildSeparator(widths)

	b.WriteString(sep)
	b.WriteByte('|')
	for i, c := range columns {
		fmt.Fprintf(&b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
	b.WriteString(sep)

	for _, row := range rows {
		b.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}

	b.WriteString(sep)

	n := len(rows)
	if n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}

	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		for j := 0; j < w+2; j++ {
			b.WriteByte('-')
		}
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}
