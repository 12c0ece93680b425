package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"snapfolio/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetByCode(ctx context.Context, code string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	List(ctx context.Context, createdBy *uuid.UUID, params domain.PaginationParams) ([]domain.Event, int64, error)
	AdvanceToCompleted(ctx context.Context, id uuid.UUID) (bool, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (event_id, code, name, description, date, start_time, location, host_name, host_email, expected_attendees, cover_image_path, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		event.ID, event.Code, event.Name, event.Description, event.Date, event.StartTime,
		event.Location, event.HostName, event.HostEmail, event.ExpectedAttendees,
		event.CoverImagePath, event.Status, event.CreatedBy,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	query := `SELECT * FROM events WHERE event_id = $1`

	err := r.db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByCode(ctx context.Context, code string) (*domain.Event, error) {
	var event domain.Event
	query := `SELECT * FROM events WHERE code = $1`

	err := r.db.GetContext(ctx, &event, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, date = $4, start_time = $5, location = $6,
		    host_name = $7, host_email = $8, expected_attendees = $9, cover_image_path = $10,
		    updated_at = NOW()
		WHERE event_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		event.ID, event.Name, event.Description, event.Date, event.StartTime, event.Location,
		event.HostName, event.HostEmail, event.ExpectedAttendees, event.CoverImagePath,
	).Scan(&event.UpdatedAt)
}

func (r *eventRepository) List(ctx context.Context, createdBy *uuid.UUID, params domain.PaginationParams) ([]domain.Event, int64, error) {
	params.Validate()

	var total int64
	var events []domain.Event

	if createdBy != nil {
		countQuery := `SELECT COUNT(*) FROM events WHERE created_by = $1`
		if err := r.db.GetContext(ctx, &total, countQuery, *createdBy); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM events
			WHERE created_by = $1
			ORDER BY date DESC
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &events, query, *createdBy, params.PageSize, params.Offset())
		return events, total, err
	}

	countQuery := `SELECT COUNT(*) FROM events`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM events
		ORDER BY date DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &events, query, params.PageSize, params.Offset())
	return events, total, err
}

// AdvanceToCompleted writes the completed status with a guard so the write
// happens at most once no matter how many callers race on it. The store only
// gives us single-row atomicity, so the guard lives in the row predicate.
// Returns true when this call won the transition.
func (r *eventRepository) AdvanceToCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE events
		SET status = 'completed', updated_at = NOW()
		WHERE event_id = $1 AND status NOT IN ('completed', 'archived')`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
