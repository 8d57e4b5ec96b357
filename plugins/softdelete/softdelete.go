// Package softdelete provides a Transformer that automatically injects
// "field IS NULL" conditions into queries, filtering out soft-deleted rows.
//
// By default it adds "deleted_at" IS NULL for the root model and every
// joined model that declares a "deleted_at" field. Models without the field
// are left alone. Both the field name and the set of models can be
// customised via options.
//
// # Basic usage
//
//	sd := softdelete.New()
//	query := managers.NewSelectManager(post).Use(sd)
//	// SELECT ... FROM "posts" WHERE "posts"."deleted_at" IS NULL ...
//
// # Custom field
//
//	sd := softdelete.New(softdelete.WithField("removedAt"))
//
// # Restrict to specific models
//
//	sd := softdelete.New(softdelete.WithModels("Post"))
//
// # Per-model fields
//
//	sd := softdelete.New(
//	    softdelete.WithModelField("Post", "deleted_at"),
//	    softdelete.WithModelField("Comment", "removedAt"),
//	)
//
// Updates and deletes are filtered the same way, so a soft-deleted row is
// never modified or hard-deleted by a filtered statement. Inserts are not
// touched.
package softdelete

import (
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

// DefaultField is the soft-delete field used when none is configured.
const DefaultField = "deleted_at"

// SoftDelete is a Transformer that adds IS NULL conditions for a
// soft-delete field on every participating model (or a configured subset).
type SoftDelete struct {
	plugins.BaseTransformer
	Field  string
	Fields map[string]string // per-model field overrides (model name → field name)
	models map[string]bool   // nil means apply to all models
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithField sets the soft-delete field name. Default is "deleted_at".
func WithField(name string) Option {
	return func(sd *SoftDelete) { sd.Field = name }
}

// WithModels restricts the plugin to only the named models.
func WithModels(names ...string) Option {
	return func(sd *SoftDelete) {
		sd.models = make(map[string]bool, len(names))
		for _, n := range names {
			sd.models[n] = true
		}
	}
}

// WithModelField sets a per-model field override. The model is
// automatically added to the whitelist, restricting the plugin's scope.
func WithModelField(model, field string) Option {
	return func(sd *SoftDelete) {
		if sd.Fields == nil {
			sd.Fields = make(map[string]string)
		}
		sd.Fields[model] = field
		if sd.models == nil {
			sd.models = make(map[string]bool)
		}
		sd.models[model] = true
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Field: DefaultField}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect ANDs "field IS NULL" into the query for each matching model.
func (sd *SoftDelete) TransformSelect(q *nodes.Query) (*nodes.Query, error) {
	sd.filter(q)
	return q, nil
}

// TransformUpdate filters the rows an UPDATE may touch.
func (sd *SoftDelete) TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	sd.filter(stmt.Query)
	return stmt, nil
}

// TransformDelete filters the rows a DELETE may remove.
func (sd *SoftDelete) TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	sd.filter(stmt.Query)
	return stmt, nil
}

// filter only considers the root and joined models. Included models have
// no table in the FROM clause, so a condition on them would not resolve.
func (sd *SoftDelete) filter(q *nodes.Query) {
	if q == nil {
		return
	}
	models := append([]*nodes.Model{q.Model}, plugins.CollectJoinedModels(q)...)
	for _, m := range models {
		if !sd.appliesTo(m.Name) {
			continue
		}
		f := m.Field(sd.fieldFor(m.Name))
		if f == nil {
			continue
		}
		q.Where = nodes.And(q.Where, f.Eq(nil))
	}
}

func (sd *SoftDelete) appliesTo(model string) bool {
	if sd.models == nil {
		return true
	}
	return sd.models[model]
}

// fieldFor returns the field name to use for the given model.
// It checks Fields for a per-model override, falling back to Field.
func (sd *SoftDelete) fieldFor(model string) string {
	if sd.Fields != nil {
		if f, ok := sd.Fields[model]; ok {
			return f
		}
	}
	return sd.Field
}
