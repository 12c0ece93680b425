package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"snapfolio/internal/domain"
	"snapfolio/internal/middleware"
	"snapfolio/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return middleware.BadRequest("Email, password and full name are required")
	}
	if input.Role != "" && !domain.UserRole(input.Role).CanSelfRegister() {
		return middleware.BadRequest("Invalid role")
	}

	user, tokens, err := h.authService.Register(c.Context(), input)
	if errors.Is(err, service.ErrEmailExists) {
		return middleware.Conflict("Email already registered")
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, tokens, err := h.authService.Login(c.Context(), input)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return middleware.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return middleware.BadRequest("refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Context(), body.RefreshToken)
	if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrUserNotFound) {
		return middleware.Unauthorized("Invalid or expired refresh token")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"tokens": tokens})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}
	return c.JSON(user)
}

// UploadFacePhoto stores the attendee's reference photo and enrolls it with
// the recognition engine.
func (h *AuthHandler) UploadFacePhoto(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	url, err := h.authService.SetFacePhoto(c.Context(), userID, file.Filename, mimeType, file.Size, fileReader)
	if err != nil {
		return middleware.BadGateway("Face photo enrollment failed")
	}

	return c.JSON(fiber.Map{"face_photo_url": url})
}
