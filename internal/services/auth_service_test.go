package services

import (
	"context"
	"testing"

	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(cache *MockCacheService, userRepo *MockUserRepository) AuthService {
	return NewAuthService(cache, userRepo, "test-secret-at-least-32-bytes-long!", 900, 3600)
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Role:     models.RoleManager,
		IsActive: true,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(NewMockCacheService(), &MockUserRepository{})
	user := testUser()

	tokens, err := svc.GenerateTokens(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, 900, tokens.ExpiresIn)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.TenantID.String(), claims.TenantID)
	assert.Equal(t, string(models.RoleManager), claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	cache := NewMockCacheService()
	user := testUser()

	tokens, err := newTestAuthService(cache, &MockUserRepository{}).GenerateTokens(ctx, user)
	require.NoError(t, err)

	other := NewAuthService(cache, &MockUserRepository{}, "a-completely-different-signing-key!!", 900, 3600)
	_, err = other.ValidateToken(ctx, tokens.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(NewMockCacheService(), &MockUserRepository{})
	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := newTestAuthService(NewMockCacheService(), userRepo)
	user := testUser()
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	first, err := svc.GenerateTokens(ctx, user)
	require.NoError(t, err)

	second, err := svc.RefreshTokens(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, user.ID.String(), second.UserID)

	// The role claim survives rotation.
	claims, err := svc.ValidateToken(ctx, second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleManager), claims.Role)

	// The first refresh token is single-use.
	_, err = svc.RefreshTokens(ctx, first.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := newTestAuthService(NewMockCacheService(), userRepo)
	user := testUser()

	tokens, err := svc.GenerateTokens(ctx, user)
	require.NoError(t, err)

	// Deactivated after issuance: the exchange must fail.
	deactivated := *user
	deactivated.IsActive = false
	userRepo.On("GetByID", mock.Anything, user.ID).Return(&deactivated, nil)

	_, err = svc.RefreshTokens(ctx, tokens.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	userRepo := &MockUserRepository{}
	svc := newTestAuthService(NewMockCacheService(), userRepo)
	user := testUser()

	tokens, err := svc.GenerateTokens(ctx, user)
	require.NoError(t, err)

	userRepo.On("GetByID", mock.Anything, user.ID).Return(nil, repositories.ErrNotFound)

	_, err = svc.RefreshTokens(ctx, tokens.RefreshToken)
	assert.Error(t, err)
}

func TestRevokedRefreshTokenStopsWorking(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(NewMockCacheService(), &MockUserRepository{})
	user := testUser()

	tokens, err := svc.GenerateTokens(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefreshToken(ctx, tokens.RefreshToken))
	_, err = svc.RefreshTokens(ctx, tokens.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := newTestAuthService(NewMockCacheService(), &MockUserRepository{})
	_, err := svc.RefreshTokens(context.Background(), "never-issued")
	assert.Error(t, err)
}
