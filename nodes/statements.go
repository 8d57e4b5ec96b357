package nodes

// Assignment pairs a field with the value written to it.
type Assignment struct {
	Field *Field
	Value any
}

// InsertStatement inserts one or more rows into a model's table. Every row
// holds one value per column, in column order.
type InsertStatement struct {
	Model   *Model
	Columns []*Field
	Rows    [][]any
	// Returning names the column to return; nil returns every column.
	Returning *Field
}

// UpdateStatement updates the rows matched by Query.
type UpdateStatement struct {
	Query       *Query
	Assignments []Assignment
	// Returning names the column to return; nil returns every column.
	Returning *Field
}

// DeleteStatement deletes the rows matched by Query.
type DeleteStatement struct {
	Query *Query
	// Returning names the column to return; nil returns nothing.
	Returning *Field
}
