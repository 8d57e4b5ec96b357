package nodes

// Direction is the sort direction of an order entry.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// FieldName is an unresolved field reference, either "Model:field" or a
// bare field name of the root model. It is resolved when SQL is generated.
type FieldName string

// OrderEntry is one ORDER BY term. Value is a *Field, *FieldLiteral,
// *Literal, FieldName, or a string that is emitted verbatim.
type OrderEntry struct {
	Value     any
	Direction Direction
}

// OrderMap is an insertion-ordered set of order entries keyed by name.
type OrderMap struct {
	keys    []string
	entries map[string]OrderEntry
}

// NewOrderMap creates an empty order map.
func NewOrderMap() *OrderMap {
	return &OrderMap{entries: make(map[string]OrderEntry)}
}

// Set adds or replaces the entry for key. A replaced entry keeps its position.
func (m *OrderMap) Set(key string, e OrderEntry) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = e
}

// Delete removes the entry for key.
func (m *OrderMap) Delete(key string) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *OrderMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *OrderMap) Keys() []string { return m.keys }

// Get returns the entry for key.
func (m *OrderMap) Get(key string) (OrderEntry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Clone returns a copy of m.
func (m *OrderMap) Clone() *OrderMap {
	if m == nil {
		return nil
	}
	cp := NewOrderMap()
	for _, k := range m.keys {
		cp.Set(k, m.entries[k])
	}
	return cp
}

// ProjectionMap is the insertion-ordered mapping from projection key to the
// SQL fragment emitted for it, e.g. "User:id" -> `"users"."id" AS "User:id"`.
type ProjectionMap struct {
	keys      []string
	fragments map[string]string
}

// NewProjectionMap creates an empty projection map.
func NewProjectionMap() *ProjectionMap {
	return &ProjectionMap{fragments: make(map[string]string)}
}

// Set adds or replaces a projection entry. A replaced entry keeps its position.
func (p *ProjectionMap) Set(key, fragment string) {
	if _, ok := p.fragments[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.fragments[key] = fragment
}

// Delete removes a projection entry.
func (p *ProjectionMap) Delete(key string) {
	if _, ok := p.fragments[key]; !ok {
		return
	}
	delete(p.fragments, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Has reports whether key is projected.
func (p *ProjectionMap) Has(key string) bool {
	_, ok := p.fragments[key]
	return ok
}

// Get returns the fragment for key.
func (p *ProjectionMap) Get(key string) string { return p.fragments[key] }

// Keys returns the keys in projection order.
func (p *ProjectionMap) Keys() []string { return p.keys }

// Len returns the number of entries.
func (p *ProjectionMap) Len() int { return len(p.keys) }

// Fragments returns the SQL fragments in projection order.
func (p *ProjectionMap) Fragments() []string {
	out := make([]string, len(p.keys))
	for i, k := range p.keys {
		out[i] = p.fragments[k]
	}
	return out
}
