package domain

import (
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID                    uuid.UUID  `json:"id" db:"photo_id"`
	EventID               uuid.UUID  `json:"event_id" db:"event_id"`
	UploadedBy            uuid.UUID  `json:"uploaded_by" db:"uploaded_by"`
	FileName              string     `json:"file_name" db:"file_name"`
	FileSize              int64      `json:"file_size" db:"file_size"`
	MimeType              string     `json:"mime_type" db:"mime_type"`
	StoragePath           string     `json:"-" db:"storage_path"`
	URL                   string     `json:"url" db:"-"`
	Processed             bool       `json:"processed" db:"processed"`
	ProcessingStartedAt   *time.Time `json:"processing_started_at,omitempty" db:"processing_started_at"`
	ProcessingCompletedAt *time.Time `json:"processing_completed_at,omitempty" db:"processing_completed_at"`
	DeletionScheduledAt   *time.Time `json:"deletion_scheduled_at,omitempty" db:"deletion_scheduled_at"`
	DeletedAt             *time.Time `json:"-" db:"deleted_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// BatchResult summarizes one upload batch. Per-file failures never abort the
// batch; they are collected here and surfaced in aggregate.
type BatchResult struct {
	PhotoIDs []uuid.UUID `json:"photo_ids"`
	Uploaded int         `json:"uploaded"`
	Failed   int         `json:"failed"`
	Errors   []string    `json:"errors,omitempty"`
}

// SweepResult reports one retention sweep run. Deletion is best effort per
// photo; a failed photo stays eligible for the next sweep.
type SweepResult struct {
	DeletedCount int      `json:"deleted_count"`
	Errors       []string `json:"errors,omitempty"`
}
