package handler

import (
	"snapfolio/internal/service"
)

type Handlers struct {
	Auth   *AuthHandler
	Event  *EventHandler
	Upload *UploadHandler
	Admin  *AdminHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:   NewAuthHandler(services.Auth),
		Event:  NewEventHandler(services.Event),
		Upload: NewUploadHandler(services.Upload),
		Admin:  NewAdminHandler(services.Retention, services.Processing, services.Lifecycle, services.Auth),
	}
}
