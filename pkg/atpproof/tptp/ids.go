package tptp

// IdentifierTable maps a prover's native step labels to dense integer ids.
// Each table belongs to one transcript; ids start at 0 and are never reused.
type IdentifierTable struct {
	ids  map[string]int
	next int
}

// NewIdentifierTable creates an empty table.
func NewIdentifierTable() *IdentifierTable {
	return &IdentifierTable{ids: make(map[string]int)}
}

// Assign returns the id of label, allocating the next one if label is new.
func (t *IdentifierTable) Assign(label string) int {
	if id, ok := t.ids[label]; ok {
		return id
	}
	id := t.next
	t.ids[label] = id
	t.next++
	return id
}

// Lookup returns the id of a previously assigned label.
func (t *IdentifierTable) Lookup(label string) (int, bool) {
	id, ok := t.ids[label]
	return id, ok
}

// Len returns the number of assigned labels.
func (t *IdentifierTable) Len() int { return len(t.ids) }
