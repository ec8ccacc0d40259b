package services

import (
	"fmt"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// Registry maps canonical trope names to stable identifiers. Identifiers are
// handed out in sequence: the next id is always FormatID(Len()+1).
//
// Registry does not guard against assigning the same name twice; callers
// must Lookup before Assign.
type Registry struct {
	ids    map[string]string
	tropes []entities.Trope
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]string)}
}

// LoadRegistry rebuilds a registry from persisted tropes. Duplicate names,
// duplicate or malformed ids, and ids outside 1..len(tropes) are rejected,
// since any of them would let the next assignment collide.
func LoadRegistry(tropes []entities.Trope) (*Registry, error) {
	r := &Registry{
		ids:    make(map[string]string, len(tropes)),
		tropes: make([]entities.Trope, 0, len(tropes)),
	}
	seenIDs := make(map[string]struct{}, len(tropes))

	for i, t := range tropes {
		seq, err := entities.ParseID(t.ID)
		if err != nil {
			return nil, fmt.Errorf("registry row %d: %w", i+1, err)
		}
		if seq > len(tropes) {
			return nil, fmt.Errorf("registry row %d: %w: %s exceeds registry size %d",
				i+1, entities.ErrIDOutOfSequence, t.ID, len(tropes))
		}
		if _, ok := seenIDs[t.ID]; ok {
			return nil, fmt.Errorf("registry row %d: %w: %s", i+1, entities.ErrDuplicateID, t.ID)
		}
		if _, ok := r.ids[t.Name]; ok {
			return nil, fmt.Errorf("registry row %d: %w: %q", i+1, entities.ErrDuplicateName, t.Name)
		}
		seenIDs[t.ID] = struct{}{}
		r.ids[t.Name] = t.ID
		r.tropes = append(r.tropes, t)
	}

	return r, nil
}

// Lookup returns the id registered for name.
func (r *Registry) Lookup(name string) (string, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Assign registers name under the next sequence id and returns it.
func (r *Registry) Assign(name string) string {
	id := entities.FormatID(len(r.tropes) + 1)
	r.ids[name] = id
	r.tropes = append(r.tropes, entities.Trope{ID: id, Name: name})
	return id
}

// Resolve returns the id for name, assigning one if the name is new.
// created reports whether an assignment happened.
func (r *Registry) Resolve(name string) (id string, created bool) {
	if id, ok := r.Lookup(name); ok {
		return id, false
	}
	return r.Assign(name), true
}

// Len returns the number of registered tropes.
func (r *Registry) Len() int {
	return len(r.tropes)
}

// Tropes returns a copy of all registered tropes in assignment order.
func (r *Registry) Tropes() []entities.Trope {
	out := make([]entities.Trope, len(r.tropes))
	copy(out, r.tropes)
	return out
}
