package main

import (
	"log"
	"math"
	"os"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"snapfolio/internal/config"
	"snapfolio/internal/faceclient"
	"snapfolio/internal/handler"
	"snapfolio/internal/middleware"
	"snapfolio/internal/repository"
	"snapfolio/internal/service"
	"snapfolio/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	store := storage.NewMinIOStore(minioClient, cfg.MinIOBucket, cfg.MinIOPublicEndpoint, cfg.MinIOPublicUseSSL)

	face := faceclient.New(cfg.FaceServiceURL, cfg.FaceServiceTimeout, cfg.FaceServiceSkip)
	if cfg.FaceServiceSkip {
		log.Println("Face service calls are skipped (FACE_SERVICE_SKIP=true)")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, store, face, cfg)
	handlers := handler.NewHandlers(services)

	// A batch request can carry up to MaxBatchFiles files of MaxUploadBytes
	// each. Clamp so the int conversion cannot wrap on 32-bit builds.
	bodyLimit := cfg.MaxUploadBytes * int64(cfg.MaxBatchFiles)
	if bodyLimit > int64(math.MaxInt) {
		bodyLimit = int64(math.MaxInt)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    int(bodyLimit),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService service.AuthService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)

	// Public lookup for registration links and QR codes.
	v1.Get("/events/code/:code", h.Event.GetByCode)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me", h.Auth.GetProfile)
	users.Post("/me/face-photo", h.Auth.UploadFacePhoto)

	events := protected.Group("/events")
	events.Post("/", middleware.RequireRole("organizer"), h.Event.Create)
	events.Get("/", h.Event.List)
	events.Get("/:eventId", h.Event.Get)
	events.Put("/:eventId", middleware.RequireRole("organizer"), h.Event.Update)
	events.Get("/:eventId/stats", middleware.RequireRole("photographer"), h.Event.Stats)
	events.Get("/:eventId/photos", h.Event.Gallery)
	events.Get("/:eventId/my-photos", h.Event.MyPhotos)

	protected.Get("/photos/:photoId/faces", middleware.RequireRole("photographer"), h.Event.PhotoFaces)

	uploads := protected.Group("/events/:eventId", middleware.RequireRole("photographer"))
	uploads.Post("/photos", h.Upload.UploadBatch)
	uploads.Post("/uploads/complete", h.Upload.MarkDone)

	admin := protected.Group("/admin", middleware.RequireRole("admin"))
	admin.Post("/retention/sweep", h.Admin.TriggerSweep)
	admin.Post("/sessions/purge", h.Admin.PurgeSessions)
	admin.Post("/events/:eventId/process", h.Admin.RetryEventProcessing)
	admin.Post("/photos/:photoId/process", h.Admin.RetryPhotoProcessing)
	admin.Delete("/events/:eventId/photographers/:photographerId", h.Admin.RemovePhotographer)
	admin.Get("/face-service/health", h.Admin.FaceServiceHealth)
}
