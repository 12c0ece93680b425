package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"snapfolio/internal/domain"
	"snapfolio/internal/metrics"
	"snapfolio/internal/repository"
)

// LifecycleService owns the automated part of the event state machine. The
// only transition it ever writes is active (or upcoming) to completed; the
// projection to active is read-time and archived is administrative.
type LifecycleService interface {
	// ReevaluateCompletion re-reads the event's assignment set and, when every
	// photographer is done, advances the event to completed and fires the
	// downstream work exactly once. Returns whether this call performed the
	// transition. Calling it on an already-completed or archived event is a
	// silent no-op, never an error.
	ReevaluateCompletion(ctx context.Context, eventID uuid.UUID) (bool, error)
	// RetryEventProcessing re-runs recognition over the event's unprocessed
	// photos and, when the event is already completed, stamps retention
	// deadlines on whatever the retry managed to process. Photos processed
	// after the completion transition would otherwise never pick up a
	// deletion deadline.
	RetryEventProcessing(ctx context.Context, eventID uuid.UUID) (processed, failed int, err error)
	// RetryPhotoProcessing is the single-photo variant of RetryEventProcessing.
	RetryPhotoProcessing(ctx context.Context, photoID uuid.UUID) error
	// RemovePhotographer drops the assignment and re-evaluates completion;
	// removing the last pending photographer can complete the event. Removal
	// is an administrative action, never part of the upload flow.
	RemovePhotographer(ctx context.Context, eventID, photographerID uuid.UUID) (bool, error)
}

type lifecycleService struct {
	eventRepo      repository.EventRepository
	assignmentRepo repository.AssignmentRepository
	photoRepo      repository.PhotoRepository
	processing     ProcessingService
	retention      RetentionService
	email          EmailService
	redis          *redis.Client
}

func NewLifecycleService(
	eventRepo repository.EventRepository,
	assignmentRepo repository.AssignmentRepository,
	photoRepo repository.PhotoRepository,
	processing ProcessingService,
	retention RetentionService,
	email EmailService,
	redisClient *redis.Client,
) LifecycleService {
	return &lifecycleService{
		eventRepo:      eventRepo,
		assignmentRepo: assignmentRepo,
		photoRepo:      photoRepo,
		processing:     processing,
		retention:      retention,
		email:          email,
		redis:          redisClient,
	}
}

func (s *lifecycleService) ReevaluateCompletion(ctx context.Context, eventID uuid.UUID) (bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if event == nil {
		return false, ErrEventNotFound
	}

	if event.Status.IsTerminal() {
		return false, nil
	}

	// Always a fresh read of the full set; photographers may have been added
	// or removed since any previous evaluation.
	assignments, err := s.assignmentRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	if !AllUploadsComplete(assignments) {
		return false, nil
	}

	// Several markDone calls can reach this point at once. The guarded write
	// picks one winner; everyone else sees a no-op and skips the downstream
	// work, so processing and retention fire at most once per event.
	won, err := s.eventRepo.AdvanceToCompleted(ctx, eventID)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}

	metrics.EventsCompleted.Inc()
	log.Printf("event %s completed: all %d photographer(s) done", eventID, len(assignments))

	// Downstream failures do not roll back the transition. Photos that miss
	// processing here stay unprocessed and are picked up by a retry trigger;
	// retention only ever schedules photos that did get processed.
	if _, _, err := s.processing.ProcessEventPhotos(ctx, eventID); err != nil {
		log.Printf("event %s: photo processing incomplete: %v", eventID, err)
	}

	if _, err := s.retention.ScheduleForEvent(ctx, eventID); err != nil {
		log.Printf("event %s: retention scheduling failed: %v", eventID, err)
	}

	s.notifyHost(ctx, eventID)

	if s.redis != nil {
		_ = s.redis.Del(ctx, statsCacheKey(eventID)).Err()
	}

	return true, nil
}

func (s *lifecycleService) RetryEventProcessing(ctx context.Context, eventID uuid.UUID) (int, int, error) {
	processed, failed, err := s.processing.ProcessEventPhotos(ctx, eventID)
	if err != nil {
		return processed, failed, err
	}
	s.scheduleIfCompleted(ctx, eventID)
	return processed, failed, nil
}

func (s *lifecycleService) RetryPhotoProcessing(ctx context.Context, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}

	if err := s.processing.ProcessPhoto(ctx, photoID); err != nil {
		return err
	}

	s.scheduleIfCompleted(ctx, photo.EventID)
	return nil
}

func (s *lifecycleService) RemovePhotographer(ctx context.Context, eventID, photographerID uuid.UUID) (bool, error) {
	assignment, err := s.assignmentRepo.Get(ctx, eventID, photographerID)
	if err != nil {
		return false, err
	}
	if assignment == nil {
		return false, ErrNotAssigned
	}

	if err := s.assignmentRepo.Delete(ctx, eventID, photographerID); err != nil {
		return false, err
	}

	// The remaining set may now be all-done, or empty. Same evaluation as
	// markDone; the guarded write keeps the transition single-shot.
	return s.ReevaluateCompletion(ctx, eventID)
}

// scheduleIfCompleted stamps retention deadlines after an out-of-band
// processing pass on an event that already left the upload phase. The
// statement's processed/not-yet-scheduled predicate makes repeat calls
// harmless.
func (s *lifecycleService) scheduleIfCompleted(ctx context.Context, eventID uuid.UUID) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil || event == nil {
		return
	}
	if event.Status != domain.EventCompleted {
		return
	}
	if _, err := s.retention.ScheduleForEvent(ctx, eventID); err != nil {
		log.Printf("event %s: retention scheduling failed: %v", eventID, err)
	}
}

func (s *lifecycleService) notifyHost(ctx context.Context, eventID uuid.UUID) {
	if s.email == nil {
		return
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil || event == nil {
		return
	}
	total, processed, err := s.photoRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return
	}

	go func() {
		if err := s.email.SendEventCompletedEmail(context.Background(), event.HostEmail, event.HostName, event.Name, total, processed); err != nil {
			log.Printf("event %s: completion email failed: %v", eventID, err)
		}
	}()
}

func statsCacheKey(eventID uuid.UUID) string {
	return "event:stats:" + eventID.String()
}
