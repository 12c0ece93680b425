package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"snapfolio/internal/domain"
)

type AssignmentRepository interface {
	Upsert(ctx context.Context, eventID, photographerID uuid.UUID, lastUploadAt time.Time) error
	SetComplete(ctx context.Context, eventID, photographerID uuid.UUID, completedAt time.Time) error
	Get(ctx context.Context, eventID, photographerID uuid.UUID) (*domain.PhotographerAssignment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.PhotographerAssignment, error)
	Delete(ctx context.Context, eventID, photographerID uuid.UUID) error
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// Upsert creates the assignment on a photographer's first upload and stamps
// activity on every later one. A photographer who resumes uploading after
// signalling done is no longer done, so the conflict branch always resets
// uploads_complete.
func (r *assignmentRepository) Upsert(ctx context.Context, eventID, photographerID uuid.UUID, lastUploadAt time.Time) error {
	query := `
		INSERT INTO photographer_assignments (event_id, photographer_id, uploads_complete, last_upload_at)
		VALUES ($1, $2, FALSE, $3)
		ON CONFLICT (event_id, photographer_id)
		DO UPDATE SET uploads_complete = FALSE, last_upload_at = $3`

	_, err := r.db.ExecContext(ctx, query, eventID, photographerID, lastUploadAt)
	return err
}

func (r *assignmentRepository) SetComplete(ctx context.Context, eventID, photographerID uuid.UUID, completedAt time.Time) error {
	query := `
		UPDATE photographer_assignments
		SET uploads_complete = TRUE, last_upload_at = $3
		WHERE event_id = $1 AND photographer_id = $2`

	res, err := r.db.ExecContext(ctx, query, eventID, photographerID, completedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) Get(ctx context.Context, eventID, photographerID uuid.UUID) (*domain.PhotographerAssignment, error) {
	var assignment domain.PhotographerAssignment
	query := `SELECT * FROM photographer_assignments WHERE event_id = $1 AND photographer_id = $2`

	err := r.db.GetContext(ctx, &assignment, query, eventID, photographerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.PhotographerAssignment, error) {
	query := `SELECT * FROM photographer_assignments WHERE event_id = $1 ORDER BY created_at ASC`
	var assignments []domain.PhotographerAssignment
	err := r.db.SelectContext(ctx, &assignments, query, eventID)
	return assignments, err
}

func (r *assignmentRepository) Delete(ctx context.Context, eventID, photographerID uuid.UUID) error {
	query := `DELETE FROM photographer_assignments WHERE event_id = $1 AND photographer_id = $2`
	_, err := r.db.ExecContext(ctx, query, eventID, photographerID)
	return err
}
