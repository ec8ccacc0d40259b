package mocks

import (
	"io"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// CatalogSource serves a fixed list of parents.
type CatalogSource struct {
	Parents []entities.Parent
	// Err is returned instead of the row at index ErrAt.
	Err   error
	ErrAt int
	Reads int
}

// NewCatalogSource creates a source over parents.
func NewCatalogSource(parents ...entities.Parent) *CatalogSource {
	return &CatalogSource{Parents: parents, ErrAt: -1}
}

func (m *CatalogSource) Next() (entities.Parent, error) {
	if m.Err != nil && m.Reads == m.ErrAt {
		m.Reads++
		return entities.Parent{}, m.Err
	}
	if m.Reads >= len(m.Parents) {
		return entities.Parent{}, io.EOF
	}
	p := m.Parents[m.Reads]
	m.Reads++
	return p, nil
}

func (m *CatalogSource) Close() error { return nil }
