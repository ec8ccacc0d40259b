package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// ReadTropes parses a registry CSV with columns tropeid and tropename.
func ReadTropes(r io.Reader) ([]entities.Trope, error) {
	reader := newReader(r)
	colIndex, err := readHeader(reader, ColumnTropeID, ColumnTropeName)
	if err != nil {
		return nil, err
	}

	tropes := []entities.Trope{}
	for lineNum := 2; ; lineNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		tropes = append(tropes, entities.Trope{
			ID:   getColumn(record, colIndex, ColumnTropeID),
			Name: getColumn(record, colIndex, ColumnTropeName),
		})
	}
	return tropes, nil
}

// ReadRelations parses a relation CSV with columns movie_id and tropeid.
func ReadRelations(r io.Reader) ([]entities.Relation, error) {
	reader := newReader(r)
	colIndex, err := readHeader(reader, ColumnMovieID, ColumnTropeID)
	if err != nil {
		return nil, err
	}

	relations := []entities.Relation{}
	for lineNum := 2; ; lineNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		relations = append(relations, entities.Relation{
			ParentID: getColumn(record, colIndex, ColumnMovieID),
			TropeID:  getColumn(record, colIndex, ColumnTropeID),
		})
	}
	return relations, nil
}

// WriteTropes writes the registry as CSV with a tropeid,tropename header.
func WriteTropes(w io.Writer, tropes []entities.Trope) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnTropeID, ColumnTropeName}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, t := range tropes {
		if err := cw.Write([]string{t.ID, t.Name}); err != nil {
			return fmt.Errorf("writing trope %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRelations writes the relation table as CSV with a movie_id,tropeid header.
func WriteRelations(w io.Writer, relations []entities.Relation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnMovieID, ColumnTropeID}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range relations {
		if err := cw.Write([]string{r.ParentID, r.TropeID}); err != nil {
			return fmt.Errorf("writing relation: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
