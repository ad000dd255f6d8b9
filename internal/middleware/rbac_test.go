package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"commercehub/internal/common"
	"commercehub/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequireRole(t *testing.T, required models.RoleType, actor *models.User) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if actor != nil {
		ctx := context.WithValue(c.Request().Context(), common.TenantIDKey, actor.TenantID)
		ctx = context.WithValue(ctx, common.ActorKey, actor)
		c.SetRequest(c.Request().WithContext(ctx))
	}

	handler := RequireRole(required)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireRole_MissingActorUnauthorized(t *testing.T) {
	rec := callRequireRole(t, models.RoleStaff, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_InactiveActorUnauthorized(t *testing.T) {
	actor := &models.User{ID: uuid.New(), TenantID: uuid.New(), Role: models.RoleOwner, IsActive: false}
	rec := callRequireRole(t, models.RoleStaff, actor)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_RoleShortfallForbidden(t *testing.T) {
	actor := &models.User{ID: uuid.New(), TenantID: uuid.New(), Role: models.RoleStaff, IsActive: true}
	rec := callRequireRole(t, models.RoleOwner, actor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_SufficientRolePasses(t *testing.T) {
	actor := &models.User{ID: uuid.New(), TenantID: uuid.New(), Role: models.RoleManager, IsActive: true}
	rec := callRequireRole(t, models.RoleManager, actor)
	assert.Equal(t, http.StatusOK, rec.Code)
}
