package handlers

import (
	"net/http"
	"strconv"

	"commercehub/internal/common"
	"commercehub/internal/middleware"
	"commercehub/internal/services"

	"github.com/labstack/echo/v4"
)

// InviteHandlers serves the staff-invite lifecycle. Invites are immutable:
// there is no update route, only create, read and revoke.
type InviteHandlers struct {
	inviteService services.InviteService
}

func NewInviteHandlers(inviteService services.InviteService) *InviteHandlers {
	return &InviteHandlers{inviteService: inviteService}
}

// CreateInvite handles POST /invites.
func (h *InviteHandlers) CreateInvite(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	invite, err := h.inviteService.CreateInvite(c.Request().Context(), actor, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, invite)
}

// ListInvites handles GET /invites.
func (h *InviteHandlers) ListInvites(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	invites, err := h.inviteService.ListInvites(c.Request().Context(), actor.TenantID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"invites": invites})
}

// GetInvite handles GET /invites/:id.
func (h *InviteHandlers) GetInvite(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	invite, err := h.inviteService.GetInvite(c.Request().Context(), actor.TenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, invite)
}

// RevokeInvite handles DELETE /invites/:id.
func (h *InviteHandlers) RevokeInvite(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.inviteService.RevokeInvite(c.Request().Context(), actor.TenantID, id); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateNotAllowed answers PUT/PATCH /invites/:id with 405.
func (h *InviteHandlers) UpdateNotAllowed(c echo.Context) error {
	return echo.NewHTTPError(http.StatusMethodNotAllowed, "Invites cannot be modified; revoke and re-issue instead")
}
