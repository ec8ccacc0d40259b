// Package parsers reads and writes the crawler's tabular files: the movie
// catalog, the trope registry and the movie-trope relation table.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// Column names of the files this package understands.
const (
	ColumnParentID  = "id"
	ColumnLink      = "link"
	ColumnTropeID   = "tropeid"
	ColumnTropeName = "tropename"
	ColumnMovieID   = "movie_id"
)

// readHeader reads the header row and checks that every required column is
// present. It returns the column positions by name.
func readHeader(reader *csv.Reader, required ...string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = trimBOM(col)
		}
		colIndex[col] = i
	}

	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: %s", entities.ErrMissingColumn, col)
		}
	}

	return colIndex, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}

// trimBOM drops a UTF-8 byte order mark, which spreadsheet exports often
// put in front of the first header cell.
func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}
