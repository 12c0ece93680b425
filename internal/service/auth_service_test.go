package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"snapfolio/internal/config"
	"snapfolio/internal/domain"
)

func newAuthFixture() (*mockUserRepository, *mockSessionRepository, AuthService) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}

	svc := NewAuthService(userRepo, sessionRepo, nil, nil, cfg)
	return userRepo, sessionRepo, svc
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	input := domain.CreateUserInput{
		Email:    "guest@example.com",
		Password: "correct-horse",
		FullName: "Guest User",
	}

	t.Run("Defaults To Attendee", func(t *testing.T) {
		userRepo, sessionRepo, svc := newAuthFixture()

		userRepo.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == string(domain.RoleAttendee) && u.Email == input.Email
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, tokens, err := svc.Register(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, "attendee", user.Role)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		userRepo.AssertExpectations(t)
	})

	t.Run("Photographer Role Accepted", func(t *testing.T) {
		userRepo, sessionRepo, svc := newAuthFixture()

		photographerInput := input
		photographerInput.Role = "photographer"

		userRepo.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == "photographer"
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, _, err := svc.Register(ctx, photographerInput)

		assert.NoError(t, err)
		assert.Equal(t, "photographer", user.Role)
	})

	t.Run("Admin Role Rejected", func(t *testing.T) {
		// admin is granted out-of-band only; the public signup payload must
		// never mint one.
		userRepo, _, svc := newAuthFixture()

		adminInput := input
		adminInput.Role = "admin"

		user, tokens, err := svc.Register(ctx, adminInput)

		assert.ErrorIs(t, err, ErrInvalidRole)
		assert.Nil(t, user)
		assert.Nil(t, tokens)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Role Rejected", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()

		badInput := input
		badInput.Role = "superuser"

		_, _, err := svc.Register(ctx, badInput)

		assert.ErrorIs(t, err, ErrInvalidRole)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Email Exists", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()

		userRepo.On("ExistsByEmail", ctx, input.Email).Return(true, nil).Once()

		user, tokens, err := svc.Register(ctx, input)

		assert.ErrorIs(t, err, ErrEmailExists)
		assert.Nil(t, user)
		assert.Nil(t, tokens)
	})
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Delegates To The Store", func(t *testing.T) {
		_, sessionRepo, svc := newAuthFixture()

		sessionRepo.On("DeleteExpired", ctx).Return(nil).Once()

		assert.NoError(t, svc.PurgeExpiredSessions(ctx))
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Propagates Errors", func(t *testing.T) {
		_, sessionRepo, svc := newAuthFixture()

		sessionRepo.On("DeleteExpired", ctx).Return(errors.New("db error")).Once()

		assert.Error(t, svc.PurgeExpiredSessions(ctx))
	})
}
