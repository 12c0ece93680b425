package service

import (
	"github.com/redis/go-redis/v9"

	"snapfolio/internal/config"
	"snapfolio/internal/repository"
	"snapfolio/internal/storage"
)

type Services struct {
	Auth       AuthService
	Event      EventService
	Upload     UploadService
	Lifecycle  LifecycleService
	Processing ProcessingService
	Retention  RetentionService
	Email      EmailService
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, store storage.ObjectStore, face FaceClient, cfg *config.Config) *Services {
	emailService := NewEmailService(cfg)
	authService := NewAuthService(repos.User, repos.Session, store, face, cfg)
	eventService := NewEventService(repos.Event, repos.Photo, repos.Face, repos.Assignment, store, redisClient)

	processingService := NewProcessingService(repos.Photo, repos.Face, face, cfg.ProcessingDelay)
	retentionService := NewRetentionService(repos.Photo, store, cfg.RetentionWindow)
	lifecycleService := NewLifecycleService(repos.Event, repos.Assignment, repos.Photo, processingService, retentionService, emailService, redisClient)
	uploadService := NewUploadService(repos.Event, repos.Photo, repos.Assignment, store, lifecycleService, redisClient, cfg.MaxUploadBytes, cfg.MaxBatchFiles)

	return &Services{
		Auth:       authService,
		Event:      eventService,
		Upload:     uploadService,
		Lifecycle:  lifecycleService,
		Processing: processingService,
		Retention:  retentionService,
		Email:      emailService,
	}
}
