package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"snapfolio/internal/middleware"
	"snapfolio/internal/service"
)

type AdminHandler struct {
	retentionService  service.RetentionService
	processingService service.ProcessingService
	lifecycleService  service.LifecycleService
	authService       service.AuthService
}

func NewAdminHandler(retentionService service.RetentionService, processingService service.ProcessingService, lifecycleService service.LifecycleService, authService service.AuthService) *AdminHandler {
	return &AdminHandler{
		retentionService:  retentionService,
		processingService: processingService,
		lifecycleService:  lifecycleService,
		authService:       authService,
	}
}

// TriggerSweep is the entry point for the externally scheduled retention
// sweep. It takes no parameters and reports what it purged.
func (h *AdminHandler) TriggerSweep(c *fiber.Ctx) error {
	result, err := h.retentionService.Sweep(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// RetryEventProcessing re-runs recognition for every photo of the event that
// is still unprocessed, typically after an engine outage. Photos processed by
// the retry on an already-completed event pick up their retention deadline
// here.
func (h *AdminHandler) RetryEventProcessing(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	processed, failed, err := h.lifecycleService.RetryEventProcessing(c.Context(), eventID)
	if errors.Is(err, service.ErrFaceServiceUnavailable) {
		return middleware.BadGateway("Face recognition service unavailable")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"processed": processed, "failed": failed})
}

// RetryPhotoProcessing re-triggers a single photo. Already processed photos
// are a no-op success.
func (h *AdminHandler) RetryPhotoProcessing(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	err = h.lifecycleService.RetryPhotoProcessing(c.Context(), photoID)
	if errors.Is(err, service.ErrPhotoNotFound) {
		return middleware.NotFound("Photo not found")
	}
	if err != nil {
		return middleware.BadGateway("Photo processing failed")
	}

	return c.JSON(fiber.Map{"message": "Photo processed"})
}

// RemovePhotographer withdraws a photographer's assignment from an event.
// Removing the last pending photographer can complete the event.
func (h *AdminHandler) RemovePhotographer(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}
	photographerID, err := uuid.Parse(c.Params("photographerId"))
	if err != nil {
		return middleware.BadRequest("Invalid photographer ID")
	}

	completed, err := h.lifecycleService.RemovePhotographer(c.Context(), eventID, photographerID)
	if errors.Is(err, service.ErrNotAssigned) {
		return middleware.NotFound("Photographer is not assigned to this event")
	}
	if errors.Is(err, service.ErrEventNotFound) {
		return middleware.NotFound("Event not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":         "Photographer removed",
		"event_completed": completed,
	})
}

// PurgeSessions drops expired refresh sessions, invoked by the same external
// scheduler that triggers the retention sweep.
func (h *AdminHandler) PurgeSessions(c *fiber.Ctx) error {
	if err := h.authService.PurgeExpiredSessions(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Expired sessions purged"})
}

func (h *AdminHandler) FaceServiceHealth(c *fiber.Ctx) error {
	health, err := h.processingService.EngineHealth(c.Context())
	if err != nil {
		return middleware.BadGateway("Face recognition service unavailable")
	}
	return c.JSON(health)
}
