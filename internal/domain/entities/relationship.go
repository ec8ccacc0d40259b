package entities

// Relation records that a parent (movie) page references a trope.
type Relation struct {
	ParentID string `json:"movie_id"`
	TropeID  string `json:"tropeid"`
}

// DedupeRelations returns rows with repeated (parent, trope) pairs removed,
// keeping the first occurrence of each pair in its original position.
func DedupeRelations(rows []Relation) []Relation {
	seen := make(map[Relation]struct{}, len(rows))
	out := make([]Relation, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
