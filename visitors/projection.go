package visitors

import (
	"strings"

	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// Projection computes the SELECT list of q. With withOrder set, order
// fields that are not already projected are appended at the end so the
// engine can sort on them.
func (b *baseVisitor) Projection(q *nodes.Query, withOrder bool) (*nodes.ProjectionMap, error) {
	proj := nodes.NewProjectionMap()

	if extendsDefault(q.Projection) {
		for _, f := range q.Model.Fields() {
			b.projectField(proj, f)
		}
	}

	var excluded []*nodes.Field
	for _, entry := range q.Projection {
		switch v := entry.(type) {
		case string:
			ex, err := b.projectName(proj, q, v)
			if err != nil {
				return nil, err
			}
			if ex != nil {
				excluded = append(excluded, ex)
			}
		case nodes.FieldName:
			ex, err := b.projectName(proj, q, string(v))
			if err != nil {
				return nil, err
			}
			if ex != nil {
				excluded = append(excluded, ex)
			}
		case *nodes.Field:
			b.projectField(proj, v)
		case *nodes.FieldLiteral:
			b.projectFieldLiteral(proj, v)
		case *nodes.Literal:
			proj.Set(v.Raw, v.Raw)
		default:
			return nil, sqlerr.TypeMismatch("Unsupported projection value type %T", entry)
		}
	}
	for _, f := range excluded {
		proj.Delete(f.Key())
	}

	if withOrder {
		if err := b.projectOrder(proj, q); err != nil {
			return nil, err
		}
	}
	if proj.Len() == 0 {
		return nil, sqlerr.EmptyOperandSet("Projection for %q can not be empty", q.Model.Name)
	}
	return proj, nil
}

// projectName applies a named projection entry. Exclusions are returned
// rather than applied so they take effect after every inclusion.
func (b *baseVisitor) projectName(proj *nodes.ProjectionMap, q *nodes.Query, name string) (*nodes.Field, error) {
	switch {
	case name == "*":
		for _, m := range q.Models() {
			for _, f := range m.Fields() {
				b.projectField(proj, f)
			}
		}
		return nil, nil
	case strings.HasPrefix(name, "-"):
		return q.ResolveField(name[1:])
	}
	f, err := q.ResolveField(strings.TrimPrefix(name, "+"))
	if err != nil {
		return nil, err
	}
	b.projectField(proj, f)
	return nil, nil
}

func (b *baseVisitor) projectField(proj *nodes.ProjectionMap, f *nodes.Field) {
	if f.Virtual() {
		return
	}
	proj.Set(f.Key(), b.fieldID(f)+" AS "+b.quoteIdent(f.Key()))
}

func (b *baseVisitor) projectFieldLiteral(proj *nodes.ProjectionMap, l *nodes.FieldLiteral) {
	proj.Set(l.Key(), b.fieldLiteralID(l)+" AS "+b.quoteIdent(l.Key()))
}

func (b *baseVisitor) projectOrder(proj *nodes.ProjectionMap, q *nodes.Query) error {
	order := b.effectiveOrder(q)
	if order == nil {
		return nil
	}
	for _, key := range order.Keys() {
		e, _ := order.Get(key)
		switch v := e.Value.(type) {
		case *nodes.Field:
			if !proj.Has(v.Key()) {
				b.projectField(proj, v)
			}
		case nodes.FieldName:
			f, err := q.ResolveField(string(v))
			if err != nil {
				return err
			}
			if !proj.Has(f.Key()) {
				b.projectField(proj, f)
			}
		case *nodes.FieldLiteral:
			if !proj.Has(v.Key()) {
				b.projectFieldLiteral(proj, v)
			}
		}
	}
	return nil
}

// extendsDefault reports whether the projection list starts from the
// default field set: it is empty, or every entry is an exclusion or a
// "+" addition.
func extendsDefault(entries []any) bool {
	for _, e := range entries {
		var name string
		switch v := e.(type) {
		case string:
			name = v
		case nodes.FieldName:
			name = string(v)
		default:
			return false
		}
		if !strings.HasPrefix(name, "-") && !strings.HasPrefix(name, "+") {
			return false
		}
	}
	return true
}
