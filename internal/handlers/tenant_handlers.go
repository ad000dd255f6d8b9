package handlers

import (
	"net/http"
	"strconv"

	"commercehub/internal/common"
	"commercehub/internal/middleware"
	"commercehub/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers serves the business profile and team membership routes.
type TenantHandlers struct {
	tenantService services.TenantService
	userService   services.UserService
}

func NewTenantHandlers(tenantService services.TenantService, userService services.UserService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService, userService: userService}
}

// GetTenant handles GET /tenant: the actor's own business profile.
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenant, err := h.tenantService.GetTenant(c.Request().Context(), actor.TenantID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenant handles PUT /tenant. Owner only, enforced on the route.
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request().Context(), actor, actor.TenantID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// ListUsers handles GET /users: the tenant's team members.
func (h *TenantHandlers) ListUsers(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	users, err := h.userService.ListUsers(c.Request().Context(), actor.TenantID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

// DeleteUser handles DELETE /users/:id.
func (h *TenantHandlers) DeleteUser(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.userService.DeleteUser(c.Request().Context(), actor, actor.TenantID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
