package managers

import (
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a new DeleteManager targeting the given model.
func NewDeleteManager(model *nodes.Model) *DeleteManager {
	return &DeleteManager{
		Statement: &nodes.DeleteStatement{Query: nodes.NewQuery(model)},
	}
}

// Where ANDs conditions into the filter.
func (m *DeleteManager) Where(conditions ...nodes.Node) *DeleteManager {
	m.Statement.Query.Where = andAll(m.Statement.Query.Where, conditions)
	return m
}

// Limit caps the number of deleted rows.
func (m *DeleteManager) Limit(n int64) *DeleteManager {
	m.Statement.Query.Limit = &n
	return m
}

// Returning sets the RETURNING column. Without one nothing is returned.
func (m *DeleteManager) Returning(f *nodes.Field) *DeleteManager {
	m.Statement.Returning = f
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

// Build applies transformers to a copy of the statement and returns it.
func (m *DeleteManager) Build() (*nodes.DeleteStatement, error) {
	return transform(m.transformers, m.cloneStatement(), plugins.Transformer.TransformDelete)
}

// ToSQL applies transformers and generates SQL.
func (m *DeleteManager) ToSQL(g Generator) (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return g.Delete(stmt)
}

func (m *DeleteManager) cloneStatement() *nodes.DeleteStatement {
	return &nodes.DeleteStatement{
		Query:     m.Statement.Query.Clone(),
		Returning: m.Statement.Returning,
	}
}
