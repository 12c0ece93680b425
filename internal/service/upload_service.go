package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"snapfolio/internal/domain"
	"snapfolio/internal/metrics"
	"snapfolio/internal/repository"
	"snapfolio/internal/storage"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEmptyBatch       = errors.New("no files in upload batch")
	ErrBatchTooLarge    = errors.New("too many files in upload batch")
	ErrAllUploadsFailed = errors.New("all files in the batch failed to upload")
	ErrNotAssigned      = errors.New("photographer is not assigned to this event")
)

// BatchFile is one file of an upload batch, already opened by the handler.
type BatchFile struct {
	FileName string
	Size     int64
	MimeType string
	Reader   io.Reader
}

// UploadService is the per-photographer, per-event upload workflow: it
// persists photos, keeps the photographer's assignment row current, and on
// markDone hands the event to the lifecycle controller for re-evaluation.
type UploadService interface {
	IngestBatch(ctx context.Context, eventID, photographerID uuid.UUID, files []BatchFile) (*domain.BatchResult, error)
	MarkDone(ctx context.Context, eventID, photographerID uuid.UUID) error
}

type uploadService struct {
	eventRepo      repository.EventRepository
	photoRepo      repository.PhotoRepository
	assignmentRepo repository.AssignmentRepository
	store          storage.ObjectStore
	lifecycle      LifecycleService
	redis          *redis.Client
	maxUploadBytes int64
	maxBatchFiles  int
}

func NewUploadService(
	eventRepo repository.EventRepository,
	photoRepo repository.PhotoRepository,
	assignmentRepo repository.AssignmentRepository,
	store storage.ObjectStore,
	lifecycle LifecycleService,
	redisClient *redis.Client,
	maxUploadBytes int64,
	maxBatchFiles int,
) UploadService {
	return &uploadService{
		eventRepo:      eventRepo,
		photoRepo:      photoRepo,
		assignmentRepo: assignmentRepo,
		store:          store,
		lifecycle:      lifecycle,
		redis:          redisClient,
		maxUploadBytes: maxUploadBytes,
		maxBatchFiles:  maxBatchFiles,
	}
}

// IngestBatch stores each file and inserts its photo record. A batch is not
// atomic: per-file failures are collected and the rest of the batch continues.
// Only a batch with zero successes is an error to the caller. After the photo
// writes, the photographer's assignment row is upserted: uploading again
// after signalling done makes the photographer active (not done) again.
func (s *uploadService) IngestBatch(ctx context.Context, eventID, photographerID uuid.UUID, files []BatchFile) (*domain.BatchResult, error) {
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}
	// The HTTP body limit is sized to maxBatchFiles files of maxUploadBytes
	// each; this check keeps the two bounds in agreement.
	if s.maxBatchFiles > 0 && len(files) > s.maxBatchFiles {
		return nil, ErrBatchTooLarge
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	result := &domain.BatchResult{}

	for _, file := range files {
		photoID, err := s.ingestOne(ctx, eventID, photographerID, file)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.FileName, err))
			continue
		}
		result.PhotoIDs = append(result.PhotoIDs, photoID)
		result.Uploaded++
		metrics.PhotosUploaded.Inc()
	}

	if result.Uploaded == 0 {
		return result, ErrAllUploadsFailed
	}

	// Photo inserts happen-before the assignment upsert for this batch.
	if err := s.assignmentRepo.Upsert(ctx, eventID, photographerID, time.Now()); err != nil {
		return result, fmt.Errorf("failed to record upload activity: %w", err)
	}

	s.invalidateStats(ctx, eventID)

	return result, nil
}

func (s *uploadService) ingestOne(ctx context.Context, eventID, photographerID uuid.UUID, file BatchFile) (uuid.UUID, error) {
	if err := validateImage(file, s.maxUploadBytes); err != nil {
		metrics.UploadFailures.WithLabelValues("validation").Inc()
		return uuid.Nil, err
	}

	photoID := uuid.New()
	storagePath := fmt.Sprintf("photos/%s/%s", eventID, photoID)

	if err := s.store.Put(ctx, storagePath, file.Reader, file.Size, file.MimeType); err != nil {
		metrics.UploadFailures.WithLabelValues("storage").Inc()
		return uuid.Nil, err
	}

	photo := &domain.Photo{
		ID:          photoID,
		EventID:     eventID,
		UploadedBy:  photographerID,
		FileName:    file.FileName,
		FileSize:    file.Size,
		MimeType:    file.MimeType,
		StoragePath: storagePath,
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		_ = s.store.Remove(ctx, storagePath)
		metrics.UploadFailures.WithLabelValues("storage").Inc()
		return uuid.Nil, err
	}

	return photoID, nil
}

// MarkDone flips the photographer's own completion flag and re-runs the
// completion evaluation for the event. The flag write is fatal on failure:
// the event must never advance on a write that did not durably succeed.
func (s *uploadService) MarkDone(ctx context.Context, eventID, photographerID uuid.UUID) error {
	err := s.assignmentRepo.SetComplete(ctx, eventID, photographerID, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotAssigned
	}
	if err != nil {
		return fmt.Errorf("failed to mark uploads complete: %w", err)
	}

	s.invalidateStats(ctx, eventID)

	// Every markDone re-evaluates, not just the "last" one; which caller is
	// last is not knowable across concurrent photographers.
	_, err = s.lifecycle.ReevaluateCompletion(ctx, eventID)
	return err
}

func (s *uploadService) invalidateStats(ctx context.Context, eventID uuid.UUID) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, statsCacheKey(eventID)).Err()
	}
}

func validateImage(file BatchFile, maxBytes int64) error {
	if !strings.HasPrefix(file.MimeType, "image/") {
		return fmt.Errorf("unsupported file type %q", file.MimeType)
	}
	if file.Size <= 0 {
		return fmt.Errorf("empty file")
	}
	if file.Size > maxBytes {
		return fmt.Errorf("file exceeds maximum size of %d bytes", maxBytes)
	}
	return nil
}
