package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"snapfolio/internal/domain"
	"snapfolio/internal/repository"
	"snapfolio/internal/storage"
	"snapfolio/internal/utils"
)

var (
	ErrCodeGeneration = errors.New("failed to generate a unique event code")
	ErrNotEventOwner  = errors.New("event belongs to another organizer")
)

const (
	eventCodeLength = 6
	codeRetries     = 5
	statsCacheTTL   = 30 * time.Second
)

type EventService interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateEventInput) (*domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetByCode(ctx context.Context, code string) (*domain.Event, error)
	// Update applies a partial edit. Only the creating organizer (or an
	// admin) may edit an event.
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateEventInput) (*domain.Event, error)
	List(ctx context.Context, createdBy *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Event], error)
	Gallery(ctx context.Context, eventID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Photo], error)
	MyPhotos(ctx context.Context, eventID, userID uuid.UUID) ([]domain.Photo, error)
	PhotoFaces(ctx context.Context, photoID uuid.UUID) ([]domain.Face, error)
	Stats(ctx context.Context, eventID uuid.UUID) (*domain.EventStats, error)
}

type eventService struct {
	eventRepo      repository.EventRepository
	photoRepo      repository.PhotoRepository
	faceRepo       repository.FaceRepository
	assignmentRepo repository.AssignmentRepository
	store          storage.ObjectStore
	redis          *redis.Client
}

func NewEventService(
	eventRepo repository.EventRepository,
	photoRepo repository.PhotoRepository,
	faceRepo repository.FaceRepository,
	assignmentRepo repository.AssignmentRepository,
	store storage.ObjectStore,
	redisClient *redis.Client,
) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		photoRepo:      photoRepo,
		faceRepo:       faceRepo,
		assignmentRepo: assignmentRepo,
		store:          store,
		redis:          redisClient,
	}
}

func (s *eventService) Create(ctx context.Context, userID uuid.UUID, input domain.CreateEventInput) (*domain.Event, error) {
	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	status := domain.EventUpcoming
	if !input.Date.After(time.Now()) {
		status = domain.EventActive
	}

	event := &domain.Event{
		ID:                uuid.New(),
		Code:              code,
		Name:              input.Name,
		Description:       input.Description,
		Date:              input.Date,
		StartTime:         input.StartTime,
		Location:          input.Location,
		HostName:          input.HostName,
		HostEmail:         input.HostEmail,
		ExpectedAttendees: input.ExpectedAttendees,
		Status:            status,
		CreatedBy:         userID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *eventService) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeRetries; i++ {
		code, err := utils.GenerateEventCode(eventCodeLength)
		if err != nil {
			return "", err
		}
		existing, err := s.eventRepo.GetByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

func (s *eventService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil || event == nil {
		return event, err
	}
	s.fillCoverURL(event)
	return event, nil
}

func (s *eventService) GetByCode(ctx context.Context, code string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByCode(ctx, code)
	if err != nil || event == nil {
		return event, err
	}
	s.fillCoverURL(event)
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateEventInput) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if event.CreatedBy != actor.ID && !actor.HasRole("admin") {
		return nil, ErrNotEventOwner
	}

	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.StartTime != nil {
		event.StartTime = *input.StartTime
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.HostName != nil {
		event.HostName = *input.HostName
	}
	if input.HostEmail != nil {
		event.HostEmail = *input.HostEmail
	}
	if input.ExpectedAttendees != nil {
		event.ExpectedAttendees = *input.ExpectedAttendees
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.fillCoverURL(event)
	return event, nil
}

func (s *eventService) List(ctx context.Context, createdBy *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Event], error) {
	params.Validate()
	events, total, err := s.eventRepo.List(ctx, createdBy, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Event]{}, err
	}

	for i := range events {
		s.fillCoverURL(&events[i])
	}

	return domain.NewPaginatedResponse(events, params.Page, params.PageSize, total), nil
}

func (s *eventService) Gallery(ctx context.Context, eventID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Photo], error) {
	params.Validate()
	photos, total, err := s.photoRepo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Photo]{}, err
	}

	for i := range photos {
		photos[i].URL = s.store.PublicURL(photos[i].StoragePath)
	}

	return domain.NewPaginatedResponse(photos, params.Page, params.PageSize, total), nil
}

// MyPhotos returns the event photos a recognized attendee appears in.
func (s *eventService) MyPhotos(ctx context.Context, eventID, userID uuid.UUID) ([]domain.Photo, error) {
	ids, err := s.faceRepo.ListPhotoIDsByUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range photos {
		photos[i].URL = s.store.PublicURL(photos[i].StoragePath)
	}
	return photos, nil
}

// PhotoFaces returns the detections recorded for one gallery photo.
func (s *eventService) PhotoFaces(ctx context.Context, photoID uuid.UUID) ([]domain.Face, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}
	return s.faceRepo.ListByPhoto(ctx, photoID)
}

// Stats aggregates upload and processing progress for an event. The counters
// are a display-side consistency signal; the lifecycle never reads them.
func (s *eventService) Stats(ctx context.Context, eventID uuid.UUID) (*domain.EventStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey(eventID)).Bytes(); err == nil {
			var stats domain.EventStats
			if json.Unmarshal(cached, &stats) == nil {
				return &stats, nil
			}
		}
	}

	total, processed, err := s.photoRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	done := 0
	for _, a := range assignments {
		if a.UploadsComplete {
			done++
		}
	}

	stats := &domain.EventStats{
		EventID:           eventID,
		TotalPhotos:       total,
		ProcessedPhotos:   processed,
		Photographers:     len(assignments),
		PhotographersDone: done,
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey(eventID), payload, statsCacheTTL).Err()
		}
	}

	return stats, nil
}

func (s *eventService) fillCoverURL(event *domain.Event) {
	if event.CoverImagePath != nil {
		event.CoverImageURL = s.store.PublicURL(*event.CoverImagePath)
	}
}
