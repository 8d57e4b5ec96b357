// Package plugins defines the Transformer interface for query middleware.
package plugins

import "github.com/bawdo/litequery/nodes"

// Transformer is the interface that query transformation plugins implement.
// Plugins embed BaseTransformer and override only the methods they need.
// Managers hand transformers a copy, so a plugin may modify its argument.
type Transformer interface {
	TransformSelect(q *nodes.Query) (*nodes.Query, error)
	TransformInsert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(q *nodes.Query) (*nodes.Query, error) {
	return q, nil
}
func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}
