package entities

// Snapshot is the full persisted state written at every checkpoint: the
// complete trope registry in id order and the complete relation table.
type Snapshot struct {
	Tropes    []Trope
	Relations []Relation
}
