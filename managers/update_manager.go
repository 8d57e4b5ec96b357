package managers

import (
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates a new UpdateManager targeting the given model.
func NewUpdateManager(model *nodes.Model) *UpdateManager {
	return &UpdateManager{
		Statement: &nodes.UpdateStatement{Query: nodes.NewQuery(model)},
	}
}

// Set adds a column assignment to the SET clause.
func (m *UpdateManager) Set(f *nodes.Field, val any) *UpdateManager {
	m.Statement.Assignments = append(m.Statement.Assignments, nodes.Assignment{Field: f, Value: val})
	return m
}

// Where ANDs conditions into the filter. Join edges are allowed; the
// generator turns them into a key subquery.
func (m *UpdateManager) Where(conditions ...nodes.Node) *UpdateManager {
	m.Statement.Query.Where = andAll(m.Statement.Query.Where, conditions)
	return m
}

// Limit caps the number of updated rows.
func (m *UpdateManager) Limit(n int64) *UpdateManager {
	m.Statement.Query.Limit = &n
	return m
}

// Returning sets the RETURNING column. Without one every column is returned.
func (m *UpdateManager) Returning(f *nodes.Field) *UpdateManager {
	m.Statement.Returning = f
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// Build applies transformers to a copy of the statement and returns it.
func (m *UpdateManager) Build() (*nodes.UpdateStatement, error) {
	return transform(m.transformers, m.cloneStatement(), plugins.Transformer.TransformUpdate)
}

// ToSQL applies transformers and generates SQL.
func (m *UpdateManager) ToSQL(g Generator) (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return g.Update(stmt)
}

func (m *UpdateManager) cloneStatement() *nodes.UpdateStatement {
	assignments := make([]nodes.Assignment, len(m.Statement.Assignments))
	copy(assignments, m.Statement.Assignments)

	return &nodes.UpdateStatement{
		Query:       m.Statement.Query.Clone(),
		Assignments: assignments,
		Returning:   m.Statement.Returning,
	}
}
