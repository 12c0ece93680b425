package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Face is one detection produced by the external recognition engine for an
// uploaded photo. UserID is set when the engine matched the face to a
// registered attendee.
type Face struct {
	ID         uuid.UUID       `json:"id" db:"face_id"`
	PhotoID    uuid.UUID       `json:"photo_id" db:"photo_id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Embedding  pq.Float64Array `json:"-" db:"embedding"`
	Confidence float64         `json:"confidence" db:"confidence"`
	BoxX       int             `json:"box_x" db:"box_x"`
	BoxY       int             `json:"box_y" db:"box_y"`
	BoxWidth   int             `json:"box_width" db:"box_width"`
	BoxHeight  int             `json:"box_height" db:"box_height"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
