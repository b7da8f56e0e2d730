package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"helpdesk-api/internal/config"
	"helpdesk-api/internal/domain"
	"helpdesk-api/internal/repository"
	"helpdesk-api/internal/service/auth"
	"helpdesk-api/tests/mocks"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func hashedUser(password string, active bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         domain.RoleEndUser,
		IsActive:     active,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success returns working token pair", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, testAuthConfig())

		account := hashedUser("correct-horse", true)
		userRepo.On("GetByEmail", ctx, account.Email).Return(account, nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		got, tokens, err := svc.Login(ctx, domain.LoginInput{
			Email:    account.Email,
			Password: "correct-horse",
		}, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		require.NotNil(t, tokens)
		assert.NotEmpty(t, tokens.RefreshToken)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, account.ID, claims.UserID)
		assert.Equal(t, domain.RoleEndUser, claims.Role)
	})

	t.Run("Unknown email", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := auth.NewService(userRepo, new(mocks.SessionRepository), testAuthConfig())

		userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "x"}, nil, nil)

		assert.ErrorIs(t, err, auth.ErrEmailNotRegistered)
	})

	t.Run("Disabled account", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := auth.NewService(userRepo, new(mocks.SessionRepository), testAuthConfig())

		account := hashedUser("correct-horse", false)
		userRepo.On("GetByEmail", ctx, account.Email).Return(account, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: account.Email, Password: "correct-horse"}, nil, nil)

		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		svc := auth.NewService(userRepo, new(mocks.SessionRepository), testAuthConfig())

		account := hashedUser("correct-horse", true)
		userRepo.On("GetByEmail", ctx, account.Email).Return(account, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: account.Email, Password: "wrong"}, nil, nil)

		assert.ErrorIs(t, err, auth.ErrWrongPassword)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Rotates the session", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, testAuthConfig())

		account := hashedUser("pw", true)
		session := &repository.Session{
			ID:        uuid.New(),
			UserID:    account.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}

		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(session, nil).Once()
		userRepo.On("GetByID", ctx, account.ID).Return(account, nil).Once()
		sessionRepo.On("Revoke", ctx, session.ID).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		tokens, err := svc.RefreshToken(ctx, "some-refresh-token")

		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Unknown token", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(new(mocks.UserRepository), sessionRepo, testAuthConfig())

		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		_, err := svc.RefreshToken(ctx, "bogus")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Disabled account cannot refresh", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		svc := auth.NewService(userRepo, sessionRepo, testAuthConfig())

		account := hashedUser("pw", false)
		session := &repository.Session{ID: uuid.New(), UserID: account.ID}
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(session, nil).Once()
		userRepo.On("GetByID", ctx, account.ID).Return(account, nil).Once()

		_, err := svc.RefreshToken(ctx, "token")

		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
		sessionRepo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc := auth.NewService(new(mocks.UserRepository), new(mocks.SessionRepository), testAuthConfig())

	t.Run("Garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Token signed with another secret rejected", func(t *testing.T) {
		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "different-secret"
		otherSvc := auth.NewService(new(mocks.UserRepository), new(mocks.SessionRepository), otherCfg)

		ctx := context.Background()
		userRepo := new(mocks.UserRepository)
		sessionRepo := new(mocks.SessionRepository)
		issuer := auth.NewService(userRepo, sessionRepo, testAuthConfig())

		account := hashedUser("pw", true)
		userRepo.On("GetByEmail", ctx, account.Email).Return(account, nil).Once()
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*repository.Session")).Return(nil).Once()

		_, tokens, err := issuer.Login(ctx, domain.LoginInput{Email: account.Email, Password: "pw"}, nil, nil)
		require.NoError(t, err)

		_, err = otherSvc.ValidateAccessToken(tokens.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
