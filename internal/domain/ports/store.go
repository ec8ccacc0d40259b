package ports

import (
	"context"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

// CheckpointStore persists the trope registry and the relation table.
type CheckpointStore interface {
	// Load returns the previously persisted state, or an empty snapshot if
	// nothing has been written yet.
	Load(ctx context.Context) (*entities.Snapshot, error)

	// Save replaces the persisted state with snap. On error the previous
	// state must be left in place.
	Save(ctx context.Context, snap *entities.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}

// CheckpointLog is implemented by stores that keep a history of checkpoint
// writes.
type CheckpointLog interface {
	// Checkpoints returns the most recent entries, newest first.
	Checkpoints(ctx context.Context, limit int) ([]entities.CheckpointEntry, error)
}
