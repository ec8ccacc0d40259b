package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/ports"
)

// DefaultListLimit is the default number of tropes to return.
const DefaultListLimit = 50

// TropeSummary is a registry entry with the number of distinct movies that
// reference it.
type TropeSummary struct {
	entities.Trope
	Movies int `json:"movies"`
}

// Stats summarizes the persisted crawl output.
type Stats struct {
	Tropes        int                        `json:"tropes"`
	Relations     int                        `json:"relations"`
	Movies        int                        `json:"movies"`
	DuplicateRows int                        `json:"duplicate_rows"`
	UnusedTropes  int                        `json:"unused_tropes"`
	Checkpoints   []entities.CheckpointEntry `json:"checkpoints,omitempty"`
}

// QueryService answers read-only questions about persisted checkpoints.
type QueryService struct {
	store ports.CheckpointStore
}

// NewQueryService creates a new query service.
func NewQueryService(store ports.CheckpointStore) *QueryService {
	return &QueryService{store: store}
}

// List returns tropes in id order whose name contains search
// (case-insensitive). An empty search matches everything.
func (s *QueryService) List(ctx context.Context, search string, limit int) ([]TropeSummary, int, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	movies := moviesPerTrope(snap.Relations)
	needle := strings.ToLower(strings.TrimSpace(search))

	out := []TropeSummary{}
	total := 0
	for _, t := range snap.Tropes {
		if needle != "" && !strings.Contains(strings.ToLower(t.Name), needle) {
			continue
		}
		total++
		if len(out) < limit {
			out = append(out, TropeSummary{Trope: t, Movies: movies[t.ID]})
		}
	}
	return out, total, nil
}

// ForMovie returns the distinct tropes referenced by movieID, in the order
// their rows were first written. Ids missing from the registry are returned
// with an empty name.
func (s *QueryService) ForMovie(ctx context.Context, movieID string) ([]entities.Trope, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(snap.Tropes))
	for _, t := range snap.Tropes {
		names[t.ID] = t.Name
	}

	seen := make(map[string]struct{})
	out := []entities.Trope{}
	for _, r := range snap.Relations {
		if r.ParentID != movieID {
			continue
		}
		if _, ok := seen[r.TropeID]; ok {
			continue
		}
		seen[r.TropeID] = struct{}{}
		out = append(out, entities.Trope{ID: r.TropeID, Name: names[r.TropeID]})
	}
	return out, nil
}

// Top returns the n tropes referenced by the most movies, ties broken by id
// order.
func (s *QueryService) Top(ctx context.Context, n int) ([]TropeSummary, error) {
	if n <= 0 {
		n = DefaultListLimit
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	movies := moviesPerTrope(snap.Relations)
	out := make([]TropeSummary, 0, len(snap.Tropes))
	for _, t := range snap.Tropes {
		out = append(out, TropeSummary{Trope: t, Movies: movies[t.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Movies > out[j].Movies
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Stats returns counts over the persisted state. If the store keeps a
// checkpoint history, the most recent entries are included.
func (s *QueryService) Stats(ctx context.Context, recent int) (*Stats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	movies := make(map[string]struct{})
	for _, r := range snap.Relations {
		movies[r.ParentID] = struct{}{}
	}
	used := moviesPerTrope(snap.Relations)

	stats := &Stats{
		Tropes:        len(snap.Tropes),
		Relations:     len(snap.Relations),
		Movies:        len(movies),
		DuplicateRows: len(snap.Relations) - len(entities.DedupeRelations(snap.Relations)),
	}
	for _, t := range snap.Tropes {
		if used[t.ID] == 0 {
			stats.UnusedTropes++
		}
	}

	if log, ok := s.store.(ports.CheckpointLog); ok && recent > 0 {
		entries, err := log.Checkpoints(ctx, recent)
		if err != nil {
			return nil, fmt.Errorf("reading checkpoint history: %w", err)
		}
		stats.Checkpoints = entries
	}
	return stats, nil
}

func (s *QueryService) load(ctx context.Context) (*entities.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint: %w", err)
	}
	return snap, nil
}

// moviesPerTrope counts distinct parents per trope id.
func moviesPerTrope(rows []entities.Relation) map[string]int {
	counts := make(map[string]int)
	for _, r := range entities.DedupeRelations(rows) {
		counts[r.TropeID]++
	}
	return counts
}
