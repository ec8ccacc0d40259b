// Package sqlite provides a SQLite implementation of the checkpoint store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Options configures the store.
type Options struct {
	Path string
	// RunID is recorded with every checkpoint entry.
	RunID string
}

// Store implements ports.CheckpointStore and ports.CheckpointLog using SQLite.
type Store struct {
	db    *sql.DB
	path  string
	runID string
}

var (
	_ ports.CheckpointStore = (*Store)(nil)
	_ ports.CheckpointLog   = (*Store)(nil)
)

// NewStore opens the database at opts.Path and ensures the schema exists.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	pragmas := []struct {
		stmt string
		desc string
	}{
		{"PRAGMA journal_mode = WAL", "enabling WAL mode"},
		{"PRAGMA busy_timeout = 5000", "setting busy timeout"},
		{"PRAGMA synchronous = NORMAL", "setting synchronous mode"},
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.desc, err)
		}
	}

	s := &Store{db: db, path: opts.Path, runID: opts.RunID}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Trope registry; seq preserves assignment order
	CREATE TABLE IF NOT EXISTS tropes (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL UNIQUE
	);

	-- Parent/trope relation rows in append order
	CREATE TABLE IF NOT EXISTS relations (
		seq INTEGER PRIMARY KEY,
		movie_id TEXT NOT NULL,
		trope_id TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_relations_movie ON relations(movie_id);
	CREATE INDEX IF NOT EXISTS idx_relations_trope ON relations(trope_id);

	-- Checkpoint history
	CREATE TABLE IF NOT EXISTS checkpoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tropes INTEGER NOT NULL,
		relations INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_checkpoints_run ON checkpoints(run_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Load returns the persisted registry and relation table in stored order.
func (s *Store) Load(ctx context.Context) (*entities.Snapshot, error) {
	tropes, err := s.loadTropes(ctx)
	if err != nil {
		return nil, err
	}
	relations, err := s.loadRelations(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.Snapshot{Tropes: tropes, Relations: relations}, nil
}

func (s *Store) loadTropes(ctx context.Context) ([]entities.Trope, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tropes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying tropes: %w", err)
	}
	defer rows.Close()

	tropes := []entities.Trope{}
	for rows.Next() {
		var t entities.Trope
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning trope: %w", err)
		}
		tropes = append(tropes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tropes: %w", err)
	}
	return tropes, nil
}

func (s *Store) loadRelations(ctx context.Context) ([]entities.Relation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie_id, trope_id FROM relations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	relations := []entities.Relation{}
	for rows.Next() {
		var r entities.Relation
		if err := rows.Scan(&r.ParentID, &r.TropeID); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return relations, nil
}

// Save replaces both tables and appends a checkpoint entry in one
// transaction.
func (s *Store) Save(ctx context.Context, snap *entities.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tropes`); err != nil {
		return fmt.Errorf("clearing tropes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM relations`); err != nil {
		return fmt.Errorf("clearing relations: %w", err)
	}

	tropeStmt, err := tx.PrepareContext(ctx, `INSERT INTO tropes (seq, id, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing trope insert: %w", err)
	}
	defer tropeStmt.Close()
	for i, t := range snap.Tropes {
		if _, err := tropeStmt.ExecContext(ctx, i+1, t.ID, t.Name); err != nil {
			return fmt.Errorf("inserting trope %s: %w", t.ID, err)
		}
	}

	relStmt, err := tx.PrepareContext(ctx, `INSERT INTO relations (seq, movie_id, trope_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing relation insert: %w", err)
	}
	defer relStmt.Close()
	for i, r := range snap.Relations {
		if _, err := relStmt.ExecContext(ctx, i+1, r.ParentID, r.TropeID); err != nil {
			return fmt.Errorf("inserting relation: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO checkpoints (run_id, tropes, relations, created_at) VALUES (?, ?, ?, ?)`,
		s.runID, len(snap.Tropes), len(snap.Relations), timeNow().UTC(),
	)
	if err != nil {
		return fmt.Errorf("logging checkpoint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing checkpoint: %w", err)
	}
	return nil
}

// Checkpoints returns the most recent checkpoint entries, newest first.
func (s *Store) Checkpoints(ctx context.Context, limit int) ([]entities.CheckpointEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, run_id, tropes, relations, created_at
		FROM checkpoints
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying checkpoints: %w", err)
	}
	defer rows.Close()

	entries := []entities.CheckpointEntry{}
	for rows.Next() {
		var e entities.CheckpointEntry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Tropes, &e.Relations, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning checkpoint: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checkpoints: %w", err)
	}
	return entries, nil
}
