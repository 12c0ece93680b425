package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"snapfolio/internal/domain"
)

type FaceRepository interface {
	CreateBatch(ctx context.Context, faces []domain.Face) error
	ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Face, error)
	ListPhotoIDsByUser(ctx context.Context, eventID, userID uuid.UUID) ([]uuid.UUID, error)
}

type faceRepository struct {
	db *sqlx.DB
}

func NewFaceRepository(db *sqlx.DB) FaceRepository {
	return &faceRepository{db: db}
}

func (r *faceRepository) CreateBatch(ctx context.Context, faces []domain.Face) error {
	if len(faces) == 0 {
		return nil
	}

	query := `
		INSERT INTO faces (face_id, photo_id, user_id, embedding, confidence, box_x, box_y, box_width, box_height)
		VALUES (:face_id, :photo_id, :user_id, :embedding, :confidence, :box_x, :box_y, :box_width, :box_height)`

	_, err := r.db.NamedExecContext(ctx, query, faces)
	return err
}

func (r *faceRepository) ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Face, error) {
	query := `SELECT * FROM faces WHERE photo_id = $1 ORDER BY confidence DESC`
	var faces []domain.Face
	err := r.db.SelectContext(ctx, &faces, query, photoID)
	return faces, err
}

// ListPhotoIDsByUser returns the photos of an event a recognized attendee
// appears in. Soft-deleted photos are excluded here rather than in the caller
// so an expired photo never resurfaces through the faces table.
func (r *faceRepository) ListPhotoIDsByUser(ctx context.Context, eventID, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT f.photo_id
		FROM faces f
		JOIN photos p ON p.photo_id = f.photo_id
		WHERE p.event_id = $1 AND f.user_id = $2 AND p.deleted_at IS NULL`

	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, eventID, userID)
	return ids, err
}
