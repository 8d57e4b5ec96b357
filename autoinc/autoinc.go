// Package autoinc emulates AUTOINCREMENT for BIGINT columns, which SQLite
// only supports on INTEGER PRIMARY KEY columns.
//
// A Table holds one counter per model and field. Counters start at zero and
// only move backwards through Reset. The table is owned by a connection and
// is not shared between connections.
package autoinc

import (
	"sync"

	"github.com/bawdo/litequery/nodes"
)

// Table is a set of per-model, per-field counters.
type Table struct {
	enabled bool

	mu       sync.Mutex
	counters map[*nodes.Model]map[*nodes.Field]int64
}

// New creates a table. A disabled table allocates nothing and ignores resets.
func New(enabled bool) *Table {
	return &Table{
		enabled:  enabled,
		counters: make(map[*nodes.Model]map[*nodes.Field]int64),
	}
}

// Enabled reports whether emulation is active.
func (t *Table) Enabled() bool { return t.enabled }

// Allocate increments and returns the counter of field on model. The first
// allocation returns 1. It returns false when the table is disabled.
func (t *Table) Allocate(model *nodes.Model, field *nodes.Field) (int64, bool) {
	if !t.enabled {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	fields, ok := t.counters[model]
	if !ok {
		fields = make(map[*nodes.Field]int64)
		t.counters[model] = fields
	}
	fields[field]++
	return fields[field], true
}

// Reset zeroes one counter, or every counter of model when field is nil.
func (t *Table) Reset(model *nodes.Model, field *nodes.Field) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if field == nil {
		delete(t.counters, model)
		return
	}
	if fields, ok := t.counters[model]; ok {
		if _, ok := fields[field]; ok {
			fields[field] = 0
		}
	}
}

// Current returns the last value allocated for field on model, or 0.
func (t *Table) Current(model *nodes.Model, field *nodes.Field) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[model][field]
}
