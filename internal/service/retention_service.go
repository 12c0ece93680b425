package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"snapfolio/internal/domain"
	"snapfolio/internal/metrics"
	"snapfolio/internal/repository"
	"snapfolio/internal/storage"
)

// RetentionService stamps deletion deadlines on processed photos of completed
// events and performs the periodic purge. The sweep itself is invoked from
// outside (a daily scheduler hitting the admin endpoint); this subsystem never
// runs its own timer.
type RetentionService interface {
	// ScheduleForEvent sets deletion_scheduled_at on every processed,
	// not-yet-scheduled photo of the event. Called only after the event
	// reached completed. Returns how many photos were stamped.
	ScheduleForEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	// Sweep purges every photo whose deadline has passed: blob first, then
	// the soft-delete stamp. Per-photo failures are collected and the rest
	// of the batch continues.
	Sweep(ctx context.Context) (*domain.SweepResult, error)
}

type retentionService struct {
	photoRepo repository.PhotoRepository
	store     storage.ObjectStore
	window    time.Duration
}

func NewRetentionService(photoRepo repository.PhotoRepository, store storage.ObjectStore, window time.Duration) RetentionService {
	return &retentionService{
		photoRepo: photoRepo,
		store:     store,
		window:    window,
	}
}

func (s *retentionService) ScheduleForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	deleteAt := time.Now().Add(s.window)
	stamped, err := s.photoRepo.ScheduleDeletion(ctx, eventID, deleteAt)
	if err != nil {
		return 0, err
	}
	if stamped > 0 {
		log.Printf("event %s: %d photo(s) scheduled for deletion at %s", eventID, stamped, deleteAt.Format(time.RFC3339))
	}
	return stamped, nil
}

func (s *retentionService) Sweep(ctx context.Context) (*domain.SweepResult, error) {
	photos, err := s.photoRepo.ListDueForDeletion(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := &domain.SweepResult{}

	for _, photo := range photos {
		if err := s.store.Remove(ctx, photo.StoragePath); err != nil {
			// Leave deleted_at unset so the photo is retried next sweep.
			result.Errors = append(result.Errors, fmt.Sprintf("photo %s: %v", photo.ID, err))
			metrics.RetentionErrors.Inc()
			continue
		}

		if err := s.photoRepo.MarkDeleted(ctx, photo.ID, time.Now()); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("photo %s: %v", photo.ID, err))
			metrics.RetentionErrors.Inc()
			continue
		}

		result.DeletedCount++
		metrics.RetentionDeleted.Inc()
	}

	return result, nil
}
