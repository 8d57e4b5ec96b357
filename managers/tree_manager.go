package managers

import (
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

// Generator renders queries and statements as SQL text. It is satisfied by
// *visitors.SQLiteVisitor.
type Generator interface {
	Select(q *nodes.Query) (string, error)
	Insert(stmt *nodes.InsertStatement) (string, error)
	Update(stmt *nodes.UpdateStatement) (string, error)
	Delete(stmt *nodes.DeleteStatement) (string, error)
}

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline common to Select, Insert, Update, and Delete managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// transform runs each transformer in order, threading the result of one
// into the next.
func transform[T any](ts []plugins.Transformer, v T, step func(plugins.Transformer, T) (T, error)) (T, error) {
	for _, t := range ts {
		var err error
		v, err = step(t, v)
		if err != nil {
			return v, err
		}
	}
	return v, nil
}

// andAll folds conditions into an AND chain on top of existing.
func andAll(existing nodes.Node, conditions []nodes.Node) nodes.Node {
	for _, c := range conditions {
		existing = nodes.And(existing, c)
	}
	return existing
}
