package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"snapfolio/internal/middleware"
	"snapfolio/internal/service"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadBatch accepts a multipart batch of images from the signed-in
// photographer. The batch is not atomic; the response reports per-file
// outcomes in aggregate ("N of M uploaded"), never a raw per-file error.
func (h *UploadHandler) UploadBatch(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}
	photographerID := middleware.GetCurrentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.BadRequest("Multipart form required")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return middleware.BadRequest("At least one file is required")
	}

	files := make([]service.BatchFile, 0, len(headers))
	for _, header := range headers {
		reader, err := header.Open()
		if err != nil {
			return middleware.BadRequest("Failed to read uploaded file")
		}
		defer reader.Close()

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		files = append(files, service.BatchFile{
			FileName: header.Filename,
			Size:     header.Size,
			MimeType: mimeType,
			Reader:   reader,
		})
	}

	result, err := h.uploadService.IngestBatch(c.Context(), eventID, photographerID, files)
	if errors.Is(err, service.ErrEventNotFound) {
		return middleware.NotFound("Event not found")
	}
	if errors.Is(err, service.ErrBatchTooLarge) {
		return middleware.BadRequest("Too many files in one batch")
	}
	if errors.Is(err, service.ErrAllUploadsFailed) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":    "VALIDATION_ERROR",
			"message": "No files could be uploaded",
			"result":  result,
		})
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// MarkDone signals that this photographer has finished uploading for the
// event. The completion evaluation runs on every call; whether the event
// transitions is internal and not part of the response.
func (h *UploadHandler) MarkDone(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}
	photographerID := middleware.GetCurrentUserID(c)

	err = h.uploadService.MarkDone(c.Context(), eventID, photographerID)
	if errors.Is(err, service.ErrNotAssigned) {
		return middleware.NotFound("No uploads recorded for this photographer on this event")
	}
	if errors.Is(err, service.ErrEventNotFound) {
		return middleware.NotFound("Event not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Uploads marked complete"})
}
