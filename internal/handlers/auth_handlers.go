package handlers

import (
	"net/http"

	"commercehub/internal/common"
	"commercehub/internal/middleware"
	"commercehub/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers serves registration, login and token lifecycle endpoints.
type AuthHandlers struct {
	tenantService services.TenantService
	userService   services.UserService
	authService   services.AuthService
	logger        *zap.Logger
}

func NewAuthHandlers(tenantService services.TenantService, userService services.UserService, authService services.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		tenantService: tenantService,
		userService:   userService,
		authService:   authService,
		logger:        logger,
	}
}

// RegisterOwner handles POST /auth/register-owner: one call creates the business
// and its owner account and signs the owner in.
func (h *AuthHandlers) RegisterOwner(c echo.Context) error {
	var req services.RegisterOwnerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	tenant, owner, err := h.tenantService.RegisterOwner(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), owner)
	if err != nil {
		h.logger.Error("token issuance failed after registration", zap.Error(err))
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"tenant": tenant,
		"user":   owner,
		"tokens": tokens,
	})
}

// RegisterStaff handles POST /auth/register-staff: invite token redemption.
func (h *AuthHandlers) RegisterStaff(c echo.Context) error {
	var req services.RegisterStaffRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	user, err := h.userService.RegisterStaff(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), user)
	if err != nil {
		h.logger.Error("token issuance failed after staff registration", zap.Error(err))
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"user":   user,
		"tokens": tokens,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req services.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.RespondError(c, common.NewUnauthorizedError("Invalid email or password"))
	}

	user, err := h.userService.Login(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), user)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /token/refresh. The presented refresh token is
// rotated: it stops working whether or not the exchange succeeds.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.RespondError(c, common.NewUnauthorizedError("Invalid refresh token"))
	}

	tokens, err := h.authService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.RespondError(c, common.NewUnauthorizedError("Invalid refresh token"))
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout: revokes the presented refresh token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(c.Request().Context(), req.RefreshToken); err != nil {
			h.logger.Warn("refresh token revocation failed", zap.Error(err))
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /auth/me: the authenticated user's own profile together
// with the tenant it belongs to.
func (h *AuthHandlers) Me(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenant, err := h.tenantService.GetTenant(c.Request().Context(), actor.TenantID)
	if err != nil {
		h.logger.Error("tenant lookup failed for authenticated user", zap.Error(err))
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":   actor,
		"tenant": tenant,
	})
}
