package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"snapfolio/internal/domain"
	"snapfolio/internal/faceclient"
	"snapfolio/internal/repository"
)

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepository) GetByCode(ctx context.Context, code string) (*domain.Event, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepository) List(ctx context.Context, createdBy *uuid.UUID, params domain.PaginationParams) ([]domain.Event, int64, error) {
	args := m.Called(ctx, createdBy, params)
	return args.Get(0).([]domain.Event), args.Get(1).(int64), args.Error(2)
}

func (m *mockEventRepository) AdvanceToCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockAssignmentRepository struct {
	mock.Mock
}

func (m *mockAssignmentRepository) Upsert(ctx context.Context, eventID, photographerID uuid.UUID, lastUploadAt time.Time) error {
	args := m.Called(ctx, eventID, photographerID, lastUploadAt)
	return args.Error(0)
}

func (m *mockAssignmentRepository) SetComplete(ctx context.Context, eventID, photographerID uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, eventID, photographerID, completedAt)
	return args.Error(0)
}

func (m *mockAssignmentRepository) Get(ctx context.Context, eventID, photographerID uuid.UUID) (*domain.PhotographerAssignment, error) {
	args := m.Called(ctx, eventID, photographerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhotographerAssignment), args.Error(1)
}

func (m *mockAssignmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.PhotographerAssignment, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.PhotographerAssignment), args.Error(1)
}

func (m *mockAssignmentRepository) Delete(ctx context.Context, eventID, photographerID uuid.UUID) error {
	args := m.Called(ctx, eventID, photographerID)
	return args.Error(0)
}

type mockPhotoRepository struct {
	mock.Mock
}

func (m *mockPhotoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *mockPhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *mockPhotoRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, params domain.PaginationParams) ([]domain.Photo, int64, error) {
	args := m.Called(ctx, eventID, params)
	return args.Get(0).([]domain.Photo), args.Get(1).(int64), args.Error(2)
}

func (m *mockPhotoRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Photo, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Photo), args.Error(1)
}

func (m *mockPhotoRepository) ListUnprocessedByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Photo, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Photo), args.Error(1)
}

func (m *mockPhotoRepository) MarkProcessingStarted(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *mockPhotoRepository) MarkProcessed(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

func (m *mockPhotoRepository) ScheduleDeletion(ctx context.Context, eventID uuid.UUID, deleteAt time.Time) (int64, error) {
	args := m.Called(ctx, eventID, deleteAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPhotoRepository) ListDueForDeletion(ctx context.Context, now time.Time) ([]domain.Photo, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Photo), args.Error(1)
}

func (m *mockPhotoRepository) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	args := m.Called(ctx, id, deletedAt)
	return args.Error(0)
}

func (m *mockPhotoRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type mockFaceRepository struct {
	mock.Mock
}

func (m *mockFaceRepository) CreateBatch(ctx context.Context, faces []domain.Face) error {
	args := m.Called(ctx, faces)
	return args.Error(0)
}

func (m *mockFaceRepository) ListByPhoto(ctx context.Context, photoID uuid.UUID) ([]domain.Face, error) {
	args := m.Called(ctx, photoID)
	return args.Get(0).([]domain.Face), args.Error(1)
}

func (m *mockFaceRepository) ListPhotoIDsByUser(ctx context.Context, eventID, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *mockObjectStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockObjectStore) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

type mockFaceClient struct {
	mock.Mock
}

func (m *mockFaceClient) ProcessPhoto(ctx context.Context, photoID string) (*faceclient.ProcessResult, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceclient.ProcessResult), args.Error(1)
}

func (m *mockFaceClient) Enroll(ctx context.Context, userID, imageURL string) (*faceclient.EnrollResult, error) {
	args := m.Called(ctx, userID, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceclient.EnrollResult), args.Error(1)
}

func (m *mockFaceClient) Health(ctx context.Context) (*faceclient.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceclient.HealthStatus), args.Error(1)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendEventCompletedEmail(ctx context.Context, toEmail, hostName, eventName string, totalPhotos, processedPhotos int64) error {
	args := m.Called(ctx, toEmail, hostName, eventName, totalPhotos, processedPhotos)
	return args.Error(0)
}

type mockProcessingService struct {
	mock.Mock
}

func (m *mockProcessingService) ProcessEventPhotos(ctx context.Context, eventID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockProcessingService) ProcessPhoto(ctx context.Context, photoID uuid.UUID) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func (m *mockProcessingService) EngineHealth(ctx context.Context) (*faceclient.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceclient.HealthStatus), args.Error(1)
}

type mockRetentionService struct {
	mock.Mock
}

func (m *mockRetentionService) ScheduleForEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRetentionService) Sweep(ctx context.Context) (*domain.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepResult), args.Error(1)
}

type mockLifecycleService struct {
	mock.Mock
}

func (m *mockLifecycleService) ReevaluateCompletion(ctx context.Context, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLifecycleService) RetryEventProcessing(ctx context.Context, eventID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockLifecycleService) RetryPhotoProcessing(ctx context.Context, photoID uuid.UUID) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func (m *mockLifecycleService) RemovePhotographer(ctx context.Context, eventID, photographerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID, photographerID)
	return args.Bool(0), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) SetFacePhoto(ctx context.Context, id uuid.UUID, storagePath string) error {
	args := m.Called(ctx, id, storagePath)
	return args.Error(0)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *repository.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*repository.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Session), args.Error(1)
}

func (m *mockSessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
