package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
	apperrors "staff-portal/pkg/errors"
	"staff-portal/pkg/service"
	"staff-portal/pkg/utils"
)

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthServiceInterface) {
	t.Helper()
	userRepo := &fakeUserRepo{}
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	return userRepo, NewAuthService(userRepo, jwtSvc, zap.NewNop())
}

func registerUser(t *testing.T, userRepo *fakeUserRepo, email, password string, isAdmin bool) {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	_, err = userRepo.Create(context.Background(), entities.User{
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	})
	require.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	userRepo, authService := newAuthFixture(t)
	registerUser(t, userRepo, "user@stud.local", "secret123", false)

	tokens, err := authService.Login(context.Background(), dto.LoginDTO{
		Email:    "user@stud.local",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo, authService := newAuthFixture(t)
	registerUser(t, userRepo, "user@stud.local", "secret123", false)

	_, err := authService.Login(context.Background(), dto.LoginDTO{
		Email:    "user@stud.local",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	_, authService := newAuthFixture(t)

	// Отсутствие пользователя неотличимо от неверного пароля.
	_, err := authService.Login(context.Background(), dto.LoginDTO{
		Email:    "nobody@stud.local",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	userRepo, authService := newAuthFixture(t)
	registerUser(t, userRepo, "user@stud.local", "secret123", false)

	tokens, err := authService.Login(context.Background(), dto.LoginDTO{
		Email:    "user@stud.local",
		Password: "secret123",
	})
	require.NoError(t, err)

	rotated, err := authService.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	userRepo, authService := newAuthFixture(t)
	registerUser(t, userRepo, "user@stud.local", "secret123", false)

	tokens, err := authService.Login(context.Background(), dto.LoginDTO{
		Email:    "user@stud.local",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = authService.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
}
