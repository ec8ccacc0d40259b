// Package csv persists crawl checkpoints as two CSV files: the trope
// registry (tropeid,tropename) and the relation table (movie_id,tropeid).
package csv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
	"github.com/ersonp/trope-crawler/internal/infrastructure/parsers"
)

// Store implements ports.CheckpointStore on the local filesystem.
type Store struct {
	tropesPath    string
	relationsPath string
}

var _ ports.CheckpointStore = (*Store)(nil)

// NewStore creates a store writing to the given file paths.
func NewStore(tropesPath, relationsPath string) (*Store, error) {
	if tropesPath == "" || relationsPath == "" {
		return nil, errors.New("tropes and relations paths are required")
	}
	if filepath.Clean(tropesPath) == filepath.Clean(relationsPath) {
		return nil, errors.New("tropes and relations paths must differ")
	}
	return &Store{tropesPath: tropesPath, relationsPath: relationsPath}, nil
}

// Load reads both tables. A missing file is treated as an empty table.
func (s *Store) Load(ctx context.Context) (*entities.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tropes, err := readFile(s.tropesPath, parsers.ReadTropes)
	if err != nil {
		return nil, fmt.Errorf("loading tropes: %w", err)
	}
	relations, err := readFile(s.relationsPath, parsers.ReadRelations)
	if err != nil {
		return nil, fmt.Errorf("loading relations: %w", err)
	}

	return &entities.Snapshot{Tropes: tropes, Relations: relations}, nil
}

// Save writes both tables to temporary siblings, then renames them into
// place. A failure before the renames leaves the previous files untouched.
func (s *Store) Save(ctx context.Context, snap *entities.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tropesTmp, err := writeTemp(s.tropesPath, func(w io.Writer) error {
		return parsers.WriteTropes(w, snap.Tropes)
	})
	if err != nil {
		return fmt.Errorf("writing tropes: %w", err)
	}
	relationsTmp, err := writeTemp(s.relationsPath, func(w io.Writer) error {
		return parsers.WriteRelations(w, snap.Relations)
	})
	if err != nil {
		_ = os.Remove(tropesTmp)
		return fmt.Errorf("writing relations: %w", err)
	}

	if err := os.Rename(tropesTmp, s.tropesPath); err != nil {
		_ = os.Remove(tropesTmp)
		_ = os.Remove(relationsTmp)
		return fmt.Errorf("replacing %s: %w", s.tropesPath, err)
	}
	if err := os.Rename(relationsTmp, s.relationsPath); err != nil {
		_ = os.Remove(relationsTmp)
		return fmt.Errorf("replacing %s: %w", s.relationsPath, err)
	}
	return nil
}

// Close is a no-op; files are closed after every write.
func (s *Store) Close() error {
	return nil
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func writeTemp(target string, write func(io.Writer) error) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(target)+"-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return tmpPath, nil
}
