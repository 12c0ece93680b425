package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	FullName      string     `json:"full_name" db:"full_name"`
	Role          string     `json:"role" db:"role"`
	FacePhotoPath *string    `json:"-" db:"face_photo_path"`
	FacePhotoURL  string     `json:"face_photo_url,omitempty" db:"-"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Role     string `json:"role" validate:"omitempty,oneof=attendee photographer organizer"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserRole string

const (
	RoleAttendee     UserRole = "attendee"
	RolePhotographer UserRole = "photographer"
	RoleOrganizer    UserRole = "organizer"
	RoleAdmin        UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAttendee, RolePhotographer, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// CanSelfRegister reports whether a role may be chosen at registration.
// admin is granted out-of-band, never through the public signup endpoint.
func (r UserRole) CanSelfRegister() bool {
	switch r {
	case RoleAttendee, RolePhotographer, RoleOrganizer:
		return true
	}
	return false
}

// HasRole implements the role ladder: admin covers everything, an organizer
// can do what a photographer can, and every signed-in role covers attendee.
func (u *User) HasRole(requiredRole string) bool {
	switch requiredRole {
	case "admin":
		return u.Role == "admin"
	case "organizer":
		return u.Role == "organizer" || u.Role == "admin"
	case "photographer":
		return u.Role == "photographer" || u.Role == "organizer" || u.Role == "admin"
	case "attendee":
		return u.Role != ""
	}
	return false
}
