package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"snapfolio/internal/domain"
	"snapfolio/internal/middleware"
	"snapfolio/internal/service"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Name == "" || input.HostName == "" || input.HostEmail == "" {
		return middleware.BadRequest("Name, host name and host email are required")
	}
	if input.Date.IsZero() {
		return middleware.BadRequest("Event date is required")
	}

	event, err := h.eventService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	event, err := h.eventService.GetByID(c.Context(), eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return middleware.NotFound("Event not found")
	}

	return c.JSON(withEffectiveStatus(event))
}

// GetByCode resolves the short registration code printed in invites and QR
// codes.
func (h *EventHandler) GetByCode(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))
	if code == "" {
		return middleware.BadRequest("Event code is required")
	}

	event, err := h.eventService.GetByCode(c.Context(), code)
	if err != nil {
		return err
	}
	if event == nil {
		return middleware.NotFound("Event not found")
	}

	return c.JSON(withEffectiveStatus(event))
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return middleware.BadRequest("Invalid pagination parameters")
	}

	var createdBy *uuid.UUID
	if c.Query("mine") == "true" {
		userID := middleware.GetCurrentUserID(c)
		createdBy = &userID
	}

	events, err := h.eventService.List(c.Context(), createdBy, params)
	if err != nil {
		return err
	}

	return c.JSON(events)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.UpdateEventInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	event, err := h.eventService.Update(c.Context(), user, eventID, input)
	if errors.Is(err, service.ErrEventNotFound) {
		return middleware.NotFound("Event not found")
	}
	if errors.Is(err, service.ErrNotEventOwner) {
		return middleware.Forbidden("Only the event owner can update this event")
	}
	if err != nil {
		return err
	}

	return c.JSON(event)
}

func (h *EventHandler) Gallery(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return middleware.BadRequest("Invalid pagination parameters")
	}

	photos, err := h.eventService.Gallery(c.Context(), eventID, params)
	if err != nil {
		return err
	}

	return c.JSON(photos)
}

// MyPhotos returns the photos the signed-in attendee was recognized in.
func (h *EventHandler) MyPhotos(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}
	userID := middleware.GetCurrentUserID(c)

	photos, err := h.eventService.MyPhotos(c.Context(), eventID, userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"photos": photos})
}

// PhotoFaces returns the detections recorded for one gallery photo.
func (h *EventHandler) PhotoFaces(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return middleware.BadRequest("Invalid photo ID")
	}

	faces, err := h.eventService.PhotoFaces(c.Context(), photoID)
	if errors.Is(err, service.ErrPhotoNotFound) {
		return middleware.NotFound("Photo not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"faces": faces})
}

func (h *EventHandler) Stats(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return middleware.BadRequest("Invalid event ID")
	}

	stats, err := h.eventService.Stats(c.Context(), eventID)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// withEffectiveStatus decorates an event with the wall-clock projection of
// its status. The stored value is returned unchanged alongside it.
func withEffectiveStatus(event *domain.Event) fiber.Map {
	return fiber.Map{
		"event":            event,
		"effective_status": event.EffectiveStatus(time.Now()),
	}
}
