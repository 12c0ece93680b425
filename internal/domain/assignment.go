package domain

import (
	"time"

	"github.com/google/uuid"
)

// PhotographerAssignment links one photographer to one event and carries that
// photographer's own upload-completion flag. Only the owning photographer's
// upload session writes the mutable fields; removal of the row is an
// administrative action.
type PhotographerAssignment struct {
	EventID         uuid.UUID  `json:"event_id" db:"event_id"`
	PhotographerID  uuid.UUID  `json:"photographer_id" db:"photographer_id"`
	UploadsComplete bool       `json:"uploads_complete" db:"uploads_complete"`
	LastUploadAt    *time.Time `json:"last_upload_at,omitempty" db:"last_upload_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
