package services

import "github.com/ersonp/trope-crawler/internal/domain/entities"

// RelationTable accumulates relation rows for the current run on top of the
// rows loaded from the previous checkpoint. Rows are only ever appended.
type RelationTable struct {
	rows []entities.Relation
}

// NewRelationTable creates a table seeded with previously persisted rows.
func NewRelationTable(rows []entities.Relation) *RelationTable {
	t := &RelationTable{rows: make([]entities.Relation, len(rows))}
	copy(t.rows, rows)
	return t
}

// Append adds rows to the end of the table.
func (t *RelationTable) Append(rows ...entities.Relation) {
	t.rows = append(t.rows, rows...)
}

// Dedupe drops repeated (parent, trope) pairs, keeping first occurrences,
// and returns how many rows were removed.
func (t *RelationTable) Dedupe() int {
	before := len(t.rows)
	t.rows = entities.DedupeRelations(t.rows)
	return before - len(t.rows)
}

// Len returns the number of rows.
func (t *RelationTable) Len() int {
	return len(t.rows)
}

// Rows returns a copy of all rows.
func (t *RelationTable) Rows() []entities.Relation {
	out := make([]entities.Relation, len(t.rows))
	copy(out, t.rows)
	return out
}
