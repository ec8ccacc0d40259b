package entities

import "time"

// CheckpointEntry records one successful checkpoint write.
type CheckpointEntry struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Tropes    int       `json:"tropes"`
	Relations int       `json:"relations"`
	CreatedAt time.Time `json:"created_at"`
}
