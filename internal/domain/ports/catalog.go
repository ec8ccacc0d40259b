package ports

import "github.com/ersonp/trope-crawler/internal/domain/entities"

// CatalogSource streams rows of the parent catalog in file order.
type CatalogSource interface {
	// Next returns the next catalog row, or io.EOF once the catalog is exhausted.
	Next() (entities.Parent, error)

	// Close releases the underlying reader.
	Close() error
}
