package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"snapfolio/internal/domain"
	"snapfolio/internal/faceclient"
	"snapfolio/internal/metrics"
	"snapfolio/internal/repository"
)

var (
	ErrPhotoNotFound          = errors.New("photo not found")
	ErrFaceServiceUnavailable = errors.New("face recognition service unavailable")
)

// FaceClient is the slice of the recognition engine this package drives.
// *faceclient.Client satisfies it.
type FaceClient interface {
	ProcessPhoto(ctx context.Context, photoID string) (*faceclient.ProcessResult, error)
	Enroll(ctx context.Context, userID, imageURL string) (*faceclient.EnrollResult, error)
	Health(ctx context.Context) (*faceclient.HealthStatus, error)
}

// ProcessingService triggers face recognition per photo and tracks the
// per-photo processed flag. The engine itself is external; this service only
// drives it and records outcomes.
type ProcessingService interface {
	// ProcessEventPhotos runs recognition over every unprocessed photo of the
	// event, with a fixed delay between calls so the engine is not flooded.
	// Returns how many photos were processed and how many failed.
	ProcessEventPhotos(ctx context.Context, eventID uuid.UUID) (processed, failed int, err error)
	// ProcessPhoto handles a single photo. Re-triggering an already processed
	// photo is a no-op.
	ProcessPhoto(ctx context.Context, photoID uuid.UUID) error
	EngineHealth(ctx context.Context) (*faceclient.HealthStatus, error)
}

type processingService struct {
	photoRepo repository.PhotoRepository
	faceRepo  repository.FaceRepository
	face      FaceClient
	delay     time.Duration
}

func NewProcessingService(photoRepo repository.PhotoRepository, faceRepo repository.FaceRepository, face FaceClient, delay time.Duration) ProcessingService {
	return &processingService{
		photoRepo: photoRepo,
		faceRepo:  faceRepo,
		face:      face,
		delay:     delay,
	}
}

func (s *processingService) ProcessEventPhotos(ctx context.Context, eventID uuid.UUID) (int, int, error) {
	// Gate on engine health: no point stamping processing_started_at on a
	// whole event's photos when the model is not even loaded.
	health, err := s.face.Health(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrFaceServiceUnavailable, err)
	}
	if !health.ModelLoaded {
		return 0, 0, ErrFaceServiceUnavailable
	}

	photos, err := s.photoRepo.ListUnprocessedByEvent(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}

	var processed, failed int
	for i, photo := range photos {
		if i > 0 {
			// Fixed pacing between engine calls, a plain rate limit rather
			// than backoff. Failed photos are retried by a later trigger,
			// not within this pass.
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return processed, failed, ctx.Err()
			}
		}

		if err := s.ProcessPhoto(ctx, photo.ID); err != nil {
			failed++
			log.Printf("photo %s: processing failed: %v", photo.ID, err)
			continue
		}
		processed++
	}

	return processed, failed, nil
}

func (s *processingService) ProcessPhoto(ctx context.Context, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}
	if photo.Processed {
		return nil
	}

	started := time.Now()
	if err := s.photoRepo.MarkProcessingStarted(ctx, photoID, started); err != nil {
		return err
	}

	result, err := s.face.ProcessPhoto(ctx, photoID.String())
	metrics.ProcessingDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		// Timeouts land here too: the photo keeps processed=false with
		// processing_started_at set, so a later sweep can retry it.
		metrics.PhotosProcessed.WithLabelValues("failure").Inc()
		return err
	}

	faces := facesFromResult(photoID, result.Faces)
	if err := s.faceRepo.CreateBatch(ctx, faces); err != nil {
		// Without its faces persisted the photo is not usefully processed;
		// leave the flag down so the retry path runs the whole step again.
		metrics.PhotosProcessed.WithLabelValues("failure").Inc()
		return err
	}

	if err := s.photoRepo.MarkProcessed(ctx, photoID, time.Now()); err != nil {
		metrics.PhotosProcessed.WithLabelValues("failure").Inc()
		return err
	}

	metrics.PhotosProcessed.WithLabelValues("success").Inc()
	return nil
}

func (s *processingService) EngineHealth(ctx context.Context) (*faceclient.HealthStatus, error) {
	return s.face.Health(ctx)
}

func facesFromResult(photoID uuid.UUID, detected []faceclient.DetectedFace) []domain.Face {
	faces := make([]domain.Face, 0, len(detected))
	for _, d := range detected {
		face := domain.Face{
			ID:         uuid.New(),
			PhotoID:    photoID,
			Embedding:  pq.Float64Array(d.Embedding),
			Confidence: d.Confidence,
			BoxX:       d.BoxX,
			BoxY:       d.BoxY,
			BoxWidth:   d.BoxWidth,
			BoxHeight:  d.BoxHeight,
		}
		if d.UserID != "" {
			if userID, err := uuid.Parse(d.UserID); err == nil {
				face.UserID = &userID
			}
		}
		faces = append(faces, face)
	}
	return faces
}
