package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// Enumerator yields catalog parents that have a locator, in catalog order,
// stopping after limit parents. It reads the source lazily and cannot be
// rewound.
type Enumerator struct {
	source    ports.CatalogSource
	limit     int
	batchSize int
	yielded   int
	done      bool
}

// NewEnumerator creates an enumerator over source that yields at most limit
// parents, grouped by NextBatch into batches of batchSize.
func NewEnumerator(source ports.CatalogSource, limit, batchSize int) (*Enumerator, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &Enumerator{
		source:    source,
		limit:     limit,
		batchSize: batchSize,
	}, nil
}

// Next returns the next eligible parent. ok is false once the catalog is
// exhausted or the limit has been reached.
func (e *Enumerator) Next() (entities.Parent, bool, error) {
	for !e.done {
		if e.yielded >= e.limit {
			e.done = true
			break
		}

		p, err := e.source.Next()
		if errors.Is(err, io.EOF) {
			e.done = true
			break
		}
		if err != nil {
			return entities.Parent{}, false, fmt.Errorf("reading catalog: %w", err)
		}

		if strings.TrimSpace(p.Locator) == "" {
			continue
		}

		e.yielded++
		return p, true, nil
	}
	return entities.Parent{}, false, nil
}

// NextBatch returns up to batchSize parents. An empty batch means the
// enumeration is finished.
func (e *Enumerator) NextBatch() ([]entities.Parent, error) {
	batch := make([]entities.Parent, 0, e.batchSize)
	for len(batch) < e.batchSize {
		p, ok, err := e.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		batch = append(batch, p)
	}
	return batch, nil
}

// Yielded returns how many parents have been produced so far.
func (e *Enumerator) Yielded() int {
	return e.yielded
}
