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

type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, params domain.PaginationParams) ([]domain.Photo, int64, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Photo, error)
	ListUnprocessedByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Photo, error)
	MarkProcessingStarted(ctx context.Context, id uuid.UUID, startedAt time.Time) error
	MarkProcessed(ctx context.Context, id uuid.UUID, completedAt time.Time) error
	ScheduleDeletion(ctx context.Context, eventID uuid.UUID, deleteAt time.Time) (int64, error)
	ListDueForDeletion(ctx context.Context, now time.Time) ([]domain.Photo, error)
	MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error
	CountByEvent(ctx context.Context, eventID uuid.UUID) (total, processed int64, err error)
}

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	query := `
		INSERT INTO photos (photo_id, event_id, uploaded_by, file_name, file_size, mime_type, storage_path, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		photo.ID, photo.EventID, photo.UploadedBy,
		photo.FileName, photo.FileSize, photo.MimeType, photo.StoragePath,
	).Scan(&photo.CreatedAt)
}

func (r *photoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	var photo domain.Photo
	query := `SELECT * FROM photos WHERE photo_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &photo, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, params domain.PaginationParams) ([]domain.Photo, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM photos WHERE event_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, eventID); err != nil {
		return nil, 0, err
	}

	var photos []domain.Photo
	query := `
		SELECT * FROM photos
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &photos, query, eventID, params.PageSize, params.Offset())
	return photos, total, err
}

func (r *photoRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Photo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM photos WHERE photo_id IN (?) AND deleted_at IS NULL ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, err
	}

	var photos []domain.Photo
	err = r.db.SelectContext(ctx, &photos, r.db.Rebind(query), args...)
	return photos, err
}

func (r *photoRepository) ListUnprocessedByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Photo, error) {
	query := `
		SELECT * FROM photos
		WHERE event_id = $1 AND processed = FALSE AND deleted_at IS NULL
		ORDER BY created_at ASC`
	var photos []domain.Photo
	err := r.db.SelectContext(ctx, &photos, query, eventID)
	return photos, err
}

func (r *photoRepository) MarkProcessingStarted(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	query := `UPDATE photos SET processing_started_at = $2 WHERE photo_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, startedAt)
	return err
}

func (r *photoRepository) MarkProcessed(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	query := `
		UPDATE photos
		SET processed = TRUE, processing_completed_at = $2
		WHERE photo_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, completedAt)
	return err
}

// ScheduleDeletion stamps a deletion deadline on every processed photo of the
// event that does not already carry one. The processed predicate is part of
// the statement so an unprocessed photo can never pick up a deadline, whatever
// the caller believes about event state.
func (r *photoRepository) ScheduleDeletion(ctx context.Context, eventID uuid.UUID, deleteAt time.Time) (int64, error) {
	query := `
		UPDATE photos
		SET deletion_scheduled_at = $2
		WHERE event_id = $1 AND processed = TRUE AND deletion_scheduled_at IS NULL AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, eventID, deleteAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *photoRepository) ListDueForDeletion(ctx context.Context, now time.Time) ([]domain.Photo, error) {
	query := `
		SELECT * FROM photos
		WHERE deletion_scheduled_at IS NOT NULL AND deletion_scheduled_at < $1 AND deleted_at IS NULL
		ORDER BY deletion_scheduled_at ASC`
	var photos []domain.Photo
	err := r.db.SelectContext(ctx, &photos, query, now)
	return photos, err
}

func (r *photoRepository) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	query := `UPDATE photos SET deleted_at = $2 WHERE photo_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, deletedAt)
	return err
}

func (r *photoRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, int64, error) {
	var counts struct {
		Total     int64 `db:"total"`
		Processed int64 `db:"processed"`
	}
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE processed) AS processed
		FROM photos
		WHERE event_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &counts, query, eventID)
	return counts.Total, counts.Processed, err
}
