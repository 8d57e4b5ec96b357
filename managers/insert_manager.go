package managers

import (
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
}

// NewInsertManager creates a new InsertManager targeting the given model.
func NewInsertManager(model *nodes.Model) *InsertManager {
	return &InsertManager{
		Statement: &nodes.InsertStatement{Model: model},
	}
}

// Columns sets the column list for the INSERT statement.
func (m *InsertManager) Columns(fields ...*nodes.Field) *InsertManager {
	m.Statement.Columns = fields
	return m
}

// Values appends a row of values. Each call adds one row; values are
// matched to Columns by position.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	m.Statement.Rows = append(m.Statement.Rows, vals)
	return m
}

// DefaultValues inserts a single row made entirely of column defaults.
func (m *InsertManager) DefaultValues() *InsertManager {
	m.Statement.Columns = nil
	m.Statement.Rows = [][]any{{}}
	return m
}

// Returning sets the RETURNING column. Without one every column is returned.
func (m *InsertManager) Returning(f *nodes.Field) *InsertManager {
	m.Statement.Returning = f
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

// Build applies transformers to a copy of the statement and returns it.
func (m *InsertManager) Build() (*nodes.InsertStatement, error) {
	return transform(m.transformers, m.cloneStatement(), plugins.Transformer.TransformInsert)
}

// ToSQL applies transformers and generates SQL.
func (m *InsertManager) ToSQL(g Generator) (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return g.Insert(stmt)
}

func (m *InsertManager) cloneStatement() *nodes.InsertStatement {
	columns := make([]*nodes.Field, len(m.Statement.Columns))
	copy(columns, m.Statement.Columns)

	rows := make([][]any, len(m.Statement.Rows))
	for i, row := range m.Statement.Rows {
		r := make([]any, len(row))
		copy(r, row)
		rows[i] = r
	}

	return &nodes.InsertStatement{
		Model:     m.Statement.Model,
		Columns:   columns,
		Rows:      rows,
		Returning: m.Statement.Returning,
	}
}
