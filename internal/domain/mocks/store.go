package mocks

import (
	"context"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// CheckpointStore keeps checkpoints in memory.
type CheckpointStore struct {
	Current *entities.Snapshot
	// Saves records every snapshot written, in order.
	Saves   []entities.Snapshot
	LoadErr error
	// SaveErr fails every save; FailOnSave fails only the n-th save (1-based).
	SaveErr    error
	FailOnSave int
	Closed     bool
}

// NewCheckpointStore creates a store holding snap. A nil snap means empty.
func NewCheckpointStore(snap *entities.Snapshot) *CheckpointStore {
	if snap == nil {
		snap = &entities.Snapshot{}
	}
	return &CheckpointStore{Current: snap}
}

func (m *CheckpointStore) Load(_ context.Context) (*entities.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return &entities.Snapshot{
		Tropes:    append([]entities.Trope(nil), m.Current.Tropes...),
		Relations: append([]entities.Relation(nil), m.Current.Relations...),
	}, nil
}

func (m *CheckpointStore) Save(_ context.Context, snap *entities.Snapshot) error {
	if m.SaveErr != nil && (m.FailOnSave == 0 || m.FailOnSave == len(m.Saves)+1) {
		return m.SaveErr
	}
	m.Saves = append(m.Saves, *snap)
	m.Current = snap
	return nil
}

func (m *CheckpointStore) Close() error {
	m.Closed = true
	return nil
}

// LoggedCheckpointStore is a CheckpointStore that also serves a checkpoint
// history.
type LoggedCheckpointStore struct {
	*CheckpointStore
	History    []entities.CheckpointEntry
	HistoryErr error
}

func (m *LoggedCheckpointStore) Checkpoints(_ context.Context, limit int) ([]entities.CheckpointEntry, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if limit > len(m.History) {
		limit = len(m.History)
	}
	return m.History[:limit], nil
}
