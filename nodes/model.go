package nodes

import (
	"github.com/go-openapi/inflect"
)

// FieldType is the type category of a field.
type FieldType int

const (
	TypeInteger FieldType = iota
	TypeBigInt
	TypeNumeric
	TypeString
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeForeignKey
	TypeVirtual
)

// Temporal reports whether values of this type are stored as epoch milliseconds.
func (t FieldType) Temporal() bool {
	return t == TypeDate || t == TypeDateTime
}

// DefaultKind names a default that is resolved at insert time rather than
// stored as a static value.
type DefaultKind int

const (
	// DefaultAutoIncrement asks the engine (or the emulation table) for the next id.
	DefaultAutoIncrement DefaultKind = iota + 1
	// DefaultDatetimeNow is evaluated by the engine as epoch milliseconds.
	DefaultDatetimeNow
	// DefaultDatetimeNowLocal is evaluated by the client as epoch milliseconds.
	DefaultDatetimeNowLocal
	// DefaultDateNow is evaluated by the engine like DefaultDatetimeNow.
	DefaultDateNow
	// DefaultDateNowLocal is the start of the client's current day.
	DefaultDateNowLocal
)

// ForeignKey describes a reference from one field to another model's field.
type ForeignKey struct {
	Target   *Field
	Deferred bool
	OnDelete string
	OnUpdate string
}

// Field describes one attribute of a model.
type Field struct {
	Model *Model
	Name  string
	// Column is the physical column name. Empty means Name.
	Column        string
	Type          FieldType
	PrimaryKey    bool
	AutoIncrement bool
	AllowNull     bool
	// Default is either a DefaultKind or a static value.
	Default    any
	ForeignKey *ForeignKey
}

// ColumnName returns the physical column name.
func (f *Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Key returns the fully qualified field name, e.g. "User:id".
func (f *Field) Key() string {
	return f.Model.Name + ":" + f.Name
}

// Virtual reports whether the field has no physical column.
func (f *Field) Virtual() bool {
	return f.Type == TypeVirtual
}

// Model describes an entity type and the table that stores it.
type Model struct {
	Name  string
	Table string

	fields []*Field
	byName map[string]*Field
}

// NewModel creates a model and binds the given fields to it. The table name
// is derived from the model name: "UserThing" is stored in "user_things".
func NewModel(name string, fields ...*Field) *Model {
	m := &Model{
		Name:   name,
		Table:  inflect.Pluralize(inflect.Underscore(name)),
		byName: make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		f.Model = m
		m.fields = append(m.fields, f)
		m.byName[f.Name] = f
	}
	return m
}

// WithTable overrides the derived table name.
func (m *Model) WithTable(table string) *Model {
	m.Table = table
	return m
}

// Fields returns the model's fields in declaration order.
func (m *Model) Fields() []*Field {
	return m.fields
}

// Field looks up a field by name, returning nil if it does not exist.
func (m *Model) Field(name string) *Field {
	return m.byName[name]
}

// PrimaryKey returns the first primary-key field, or nil.
func (m *Model) PrimaryKey() *Field {
	for _, f := range m.fields {
		if f.PrimaryKey {
			return f
		}
	}
	return nil
}

// FieldLiteral returns a literal reference to a column of this model that is
// not a declared field, such as the engine's implicit "rowid".
func (m *Model) FieldLiteral(column string) *FieldLiteral {
	return &FieldLiteral{Model: m, Column: column}
}
