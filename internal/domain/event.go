package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventArchived  EventStatus = "archived"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventUpcoming, EventActive, EventCompleted, EventArchived:
		return true
	}
	return false
}

// IsTerminal reports whether the automated lifecycle is finished with this
// status. completed and archived are never left by the coordinator.
func (s EventStatus) IsTerminal() bool {
	return s == EventCompleted || s == EventArchived
}

type Event struct {
	ID                uuid.UUID   `json:"id" db:"event_id"`
	Code              string      `json:"code" db:"code"`
	Name              string      `json:"name" db:"name"`
	Description       *string     `json:"description,omitempty" db:"description"`
	Date              time.Time   `json:"date" db:"date"`
	StartTime         *string     `json:"start_time,omitempty" db:"start_time"`
	Location          *string     `json:"location,omitempty" db:"location"`
	HostName          string      `json:"host_name" db:"host_name"`
	HostEmail         string      `json:"host_email" db:"host_email"`
	ExpectedAttendees int         `json:"expected_attendees" db:"expected_attendees"`
	CoverImagePath    *string     `json:"-" db:"cover_image_path"`
	CoverImageURL     string      `json:"cover_image_url,omitempty" db:"-"`
	Status            EventStatus `json:"status" db:"status"`
	CreatedBy         uuid.UUID   `json:"created_by" db:"created_by"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// EffectiveStatus projects an upcoming event to active once its date has
// arrived. The stored status may lag the wall clock; the projection is for
// display only and is never written back. Completion checks use the stored
// status.
func (e *Event) EffectiveStatus(now time.Time) EventStatus {
	if e.Status == EventUpcoming && !e.Date.After(endOfDay(now)) {
		return EventActive
	}
	return e.Status
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

type CreateEventInput struct {
	Name              string    `json:"name" validate:"required,min=2"`
	Description       *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Date              time.Time `json:"date" validate:"required"`
	StartTime         *string   `json:"start_time,omitempty"`
	Location          *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	HostName          string    `json:"host_name" validate:"required"`
	HostEmail         string    `json:"host_email" validate:"required,email"`
	ExpectedAttendees int       `json:"expected_attendees" validate:"omitempty,min=0"`
}

type UpdateEventInput struct {
	Name              *string    `json:"name,omitempty" validate:"omitempty,min=2"`
	Description       **string   `json:"description,omitempty"`
	Date              *time.Time `json:"date,omitempty"`
	StartTime         **string   `json:"start_time,omitempty"`
	Location          **string   `json:"location,omitempty"`
	HostName          *string    `json:"host_name,omitempty"`
	HostEmail         *string    `json:"host_email,omitempty" validate:"omitempty,email"`
	ExpectedAttendees *int       `json:"expected_attendees,omitempty" validate:"omitempty,min=0"`
}

// EventStats is the read-side summary shown to organizers. Processed counts
// are a consistency signal only; completion is decided from photographer
// assignments, never from these counters.
type EventStats struct {
	EventID           uuid.UUID `json:"event_id"`
	TotalPhotos       int64     `json:"total_photos"`
	ProcessedPhotos   int64     `json:"processed_photos"`
	Photographers     int       `json:"photographers"`
	PhotographersDone int       `json:"photographers_done"`
}
