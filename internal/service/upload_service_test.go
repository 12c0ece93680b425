package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"snapfolio/internal/domain"
)

func newUploadFixture() (*mockEventRepository, *mockPhotoRepository, *mockAssignmentRepository, *mockObjectStore, *mockLifecycleService, UploadService) {
	eventRepo := new(mockEventRepository)
	photoRepo := new(mockPhotoRepository)
	assignmentRepo := new(mockAssignmentRepository)
	store := new(mockObjectStore)
	lifecycle := new(mockLifecycleService)

	svc := NewUploadService(eventRepo, photoRepo, assignmentRepo, store, lifecycle, nil, 20*1024*1024, 12)
	return eventRepo, photoRepo, assignmentRepo, store, lifecycle, svc
}

func batchFile(name string) BatchFile {
	return BatchFile{
		FileName: name,
		Size:     1024,
		MimeType: "image/jpeg",
		Reader:   strings.NewReader("jpeg bytes"),
	}
}

func TestUploadService_IngestBatch(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	photographerID := uuid.New()
	activeEvent := &domain.Event{ID: eventID, Status: domain.EventActive}

	t.Run("Success", func(t *testing.T) {
		eventRepo, photoRepo, assignmentRepo, store, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(activeEvent, nil).Once()
		store.On("Put", ctx, mock.Anything, mock.Anything, int64(1024), "image/jpeg").Return(nil).Twice()
		photoRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Photo) bool {
			return p.EventID == eventID && p.UploadedBy == photographerID
		})).Return(nil).Twice()
		assignmentRepo.On("Upsert", ctx, eventID, photographerID, mock.Anything).Return(nil).Once()

		result, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{batchFile("a.jpg"), batchFile("b.jpg")})

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Uploaded)
		assert.Equal(t, 0, result.Failed)
		assert.Len(t, result.PhotoIDs, 2)

		eventRepo.AssertExpectations(t)
		photoRepo.AssertExpectations(t)
		assignmentRepo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Empty Batch", func(t *testing.T) {
		_, _, _, _, _, svc := newUploadFixture()

		result, err := svc.IngestBatch(ctx, eventID, photographerID, nil)

		assert.ErrorIs(t, err, ErrEmptyBatch)
		assert.Nil(t, result)
	})

	t.Run("Batch Too Large", func(t *testing.T) {
		eventRepo, _, _, store, _, svc := newUploadFixture()

		files := make([]BatchFile, 13)
		for i := range files {
			files[i] = batchFile("a.jpg")
		}

		result, err := svc.IngestBatch(ctx, eventID, photographerID, files)

		assert.ErrorIs(t, err, ErrBatchTooLarge)
		assert.Nil(t, result)
		eventRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Event Not Found", func(t *testing.T) {
		eventRepo, _, _, _, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(nil, nil).Once()

		result, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{batchFile("a.jpg")})

		assert.ErrorIs(t, err, ErrEventNotFound)
		assert.Nil(t, result)
	})

	t.Run("Partial Failure Continues", func(t *testing.T) {
		eventRepo, photoRepo, assignmentRepo, store, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(activeEvent, nil).Once()
		store.On("Put", ctx, mock.Anything, mock.Anything, int64(1024), "image/jpeg").
			Return(errors.New("connection reset")).Once()
		store.On("Put", ctx, mock.Anything, mock.Anything, int64(1024), "image/jpeg").
			Return(nil).Once()
		photoRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		assignmentRepo.On("Upsert", ctx, eventID, photographerID, mock.Anything).Return(nil).Once()

		result, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{batchFile("a.jpg"), batchFile("b.jpg")})

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Uploaded)
		assert.Equal(t, 1, result.Failed)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "a.jpg")

		assignmentRepo.AssertExpectations(t)
	})

	t.Run("All Failed", func(t *testing.T) {
		eventRepo, _, assignmentRepo, store, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(activeEvent, nil).Once()
		store.On("Put", ctx, mock.Anything, mock.Anything, int64(1024), "image/jpeg").
			Return(errors.New("bucket gone")).Twice()

		result, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{batchFile("a.jpg"), batchFile("b.jpg")})

		assert.ErrorIs(t, err, ErrAllUploadsFailed)
		assert.NotNil(t, result)
		assert.Equal(t, 0, result.Uploaded)
		assert.Equal(t, 2, result.Failed)

		// No activity recorded for a batch that put nothing in the gallery.
		assignmentRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejects Non Image", func(t *testing.T) {
		eventRepo, _, assignmentRepo, store, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(activeEvent, nil).Once()

		file := BatchFile{FileName: "notes.pdf", Size: 512, MimeType: "application/pdf", Reader: strings.NewReader("%PDF")}
		result, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{file})

		assert.ErrorIs(t, err, ErrAllUploadsFailed)
		assert.Equal(t, 1, result.Failed)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assignmentRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Orphaned Blob Removed On Insert Failure", func(t *testing.T) {
		eventRepo, photoRepo, assignmentRepo, store, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(activeEvent, nil).Once()
		store.On("Put", ctx, mock.Anything, mock.Anything, int64(1024), "image/jpeg").Return(nil).Once()
		photoRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()
		store.On("Remove", ctx, mock.Anything).Return(nil).Once()

		result, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{batchFile("a.jpg")})

		assert.ErrorIs(t, err, ErrAllUploadsFailed)
		assert.Equal(t, 1, result.Failed)

		store.AssertExpectations(t)
		assignmentRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Upsert Resets Done Flag On Resume", func(t *testing.T) {
		// The same Upsert runs whether or not the photographer previously
		// marked done; the conflict branch clears uploads_complete, so a
		// resumed uploader counts as active again.
		eventRepo, photoRepo, assignmentRepo, store, _, svc := newUploadFixture()

		eventRepo.On("GetByID", ctx, eventID).Return(activeEvent, nil).Once()
		store.On("Put", ctx, mock.Anything, mock.Anything, int64(1024), "image/jpeg").Return(nil).Once()
		photoRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		assignmentRepo.On("Upsert", ctx, eventID, photographerID, mock.Anything).Return(nil).Once()

		_, err := svc.IngestBatch(ctx, eventID, photographerID, []BatchFile{batchFile("more.jpg")})

		assert.NoError(t, err)
		assignmentRepo.AssertExpectations(t)
	})
}

func TestUploadService_MarkDone(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	photographerID := uuid.New()

	t.Run("Success Triggers Reevaluation", func(t *testing.T) {
		_, _, assignmentRepo, _, lifecycle, svc := newUploadFixture()

		assignmentRepo.On("SetComplete", ctx, eventID, photographerID, mock.Anything).Return(nil).Once()
		lifecycle.On("ReevaluateCompletion", ctx, eventID).Return(true, nil).Once()

		err := svc.MarkDone(ctx, eventID, photographerID)

		assert.NoError(t, err)
		assignmentRepo.AssertExpectations(t)
		lifecycle.AssertExpectations(t)
	})

	t.Run("Not Assigned", func(t *testing.T) {
		_, _, assignmentRepo, _, lifecycle, svc := newUploadFixture()

		assignmentRepo.On("SetComplete", ctx, eventID, photographerID, mock.Anything).Return(sql.ErrNoRows).Once()

		err := svc.MarkDone(ctx, eventID, photographerID)

		assert.ErrorIs(t, err, ErrNotAssigned)
		lifecycle.AssertNotCalled(t, "ReevaluateCompletion", mock.Anything, mock.Anything)
	})

	t.Run("Flag Write Failure Is Fatal", func(t *testing.T) {
		_, _, assignmentRepo, _, lifecycle, svc := newUploadFixture()

		assignmentRepo.On("SetComplete", ctx, eventID, photographerID, mock.Anything).
			Return(errors.New("connection lost")).Once()

		err := svc.MarkDone(ctx, eventID, photographerID)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotAssigned)
		// The event must never advance on a completion flag that did not
		// durably persist.
		lifecycle.AssertNotCalled(t, "ReevaluateCompletion", mock.Anything, mock.Anything)
	})

	t.Run("Reevaluation Error Propagates", func(t *testing.T) {
		_, _, assignmentRepo, _, lifecycle, svc := newUploadFixture()

		assignmentRepo.On("SetComplete", ctx, eventID, photographerID, mock.Anything).Return(nil).Once()
		lifecycle.On("ReevaluateCompletion", ctx, eventID).Return(false, errors.New("db error")).Once()

		err := svc.MarkDone(ctx, eventID, photographerID)

		assert.Error(t, err)
	})
}
