package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"commercehub/internal/common"
	"commercehub/internal/models"
	"commercehub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTenantService struct {
	mock.Mock
}

func (m *mockTenantService) RegisterOwner(ctx context.Context, req *services.RegisterOwnerRequest) (*models.Tenant, *models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Tenant), args.Get(1).(*models.User), args.Error(2)
}

func (m *mockTenantService) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantService) UpdateTenant(ctx context.Context, actor *models.User, id uuid.UUID, req *services.UpdateTenantRequest) (*models.Tenant, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Login(ctx context.Context, req *services.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) RegisterStaff(ctx context.Context, req *services.RegisterStaffRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, actor *models.User, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, actor, tenantID, id)
	return args.Error(0)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *mockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *mockAuthService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func newAuthHandlersForTest() (*AuthHandlers, *mockTenantService, *mockUserService, *mockAuthService) {
	tenantSvc := &mockTenantService{}
	userSvc := &mockUserService{}
	authSvc := &mockAuthService{}
	return NewAuthHandlers(tenantSvc, userSvc, authSvc, zap.NewNop()), tenantSvc, userSvc, authSvc
}

func TestMe_ReturnsUserAndTenant(t *testing.T) {
	e := newTestEcho()
	h, tenantSvc, _, _ := newAuthHandlersForTest()
	actor := testActor(models.RoleStaff)
	actor.Email = "staff@example.com"

	tenantSvc.On("GetTenant", mock.Anything, actor.TenantID).Return(&models.Tenant{
		ID:           actor.TenantID,
		BusinessName: "City Pharmacy",
		DomainCodes:  []string{"pharmacy"},
		IsActive:     true,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withActor(c, actor)

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		User   models.User   `json:"user"`
		Tenant models.Tenant `json:"tenant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, actor.ID, payload.User.ID)
	assert.Equal(t, "staff@example.com", payload.User.Email)
	assert.Equal(t, actor.TenantID, payload.Tenant.ID)
	assert.Equal(t, "City Pharmacy", payload.Tenant.BusinessName)
	tenantSvc.AssertExpectations(t)
}

func TestMe_MissingActorUnauthorized(t *testing.T) {
	e := newTestEcho()
	h, _, _, _ := newAuthHandlersForTest()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_InvalidTokenIsUniform401(t *testing.T) {
	e := newTestEcho()
	h, _, _, authSvc := newAuthHandlersForTest()

	authSvc.On("RefreshTokens", mock.Anything, "stale-token").
		Return(nil, errors.New("invalid refresh token"))

	body := `{"refresh_token":"stale-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/token/refresh", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid refresh token", resp.Error.Message)
}
