package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// CatalogReader streams parents from a catalog CSV with at least the columns
// id and link. Rows are read one at a time.
type CatalogReader struct {
	reader   *csv.Reader
	closer   io.Closer
	colIndex map[string]int
	lineNum  int
}

var _ ports.CatalogSource = (*CatalogReader)(nil)

// NewCatalogReader reads and validates the catalog header from r.
func NewCatalogReader(r io.Reader) (*CatalogReader, error) {
	reader := newReader(r)
	colIndex, err := readHeader(reader, ColumnParentID, ColumnLink)
	if err != nil {
		return nil, err
	}

	c := &CatalogReader{reader: reader, colIndex: colIndex, lineNum: 1}
	if closer, ok := r.(io.Closer); ok {
		c.closer = closer
	}
	return c, nil
}

// OpenCatalog opens the catalog file at path.
func OpenCatalog(path string) (*CatalogReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c, err := NewCatalogReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Next returns the next catalog row or io.EOF.
func (c *CatalogReader) Next() (entities.Parent, error) {
	c.lineNum++
	record, err := c.reader.Read()
	if errors.Is(err, io.EOF) {
		return entities.Parent{}, io.EOF
	}
	if err != nil {
		return entities.Parent{}, fmt.Errorf("line %d: %w", c.lineNum, err)
	}

	return entities.Parent{
		ID:      getColumn(record, c.colIndex, ColumnParentID),
		Locator: getColumn(record, c.colIndex, ColumnLink),
	}, nil
}

// Close closes the underlying file, if any.
func (c *CatalogReader) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
