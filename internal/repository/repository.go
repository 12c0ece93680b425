package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User       UserRepository
	Session    SessionRepository
	Event      EventRepository
	Assignment AssignmentRepository
	Photo      PhotoRepository
	Face       FaceRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Session:    NewSessionRepository(db),
		Event:      NewEventRepository(db),
		Assignment: NewAssignmentRepository(db),
		Photo:      NewPhotoRepository(db),
		Face:       NewFaceRepository(db),
	}
}
