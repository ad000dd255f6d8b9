package middleware

import (
	"context"
	"strings"

	"commercehub/internal/common"
	"commercehub/internal/models"
	"commercehub/internal/repositories"
	"commercehub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTMiddleware authenticates requests with a Bearer access token. The
// user row is re-read on every request, so deleting or deactivating an
// account locks it out immediately regardless of outstanding tokens.
func JWTMiddleware(authSvc services.AuthService, userRepo repositories.UserRepository, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return common.SendUnauthorizedError(c)
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return common.SendUnauthorizedError(c)
			}

			claims, err := authSvc.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				logger.Debug("token validation failed", zap.Error(err))
				return common.SendUnauthorizedError(c)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return common.SendUnauthorizedError(c)
			}

			actor, err := userRepo.GetByID(c.Request().Context(), userID)
			if err != nil || !actor.IsActive {
				return common.SendUnauthorizedError(c)
			}

			ctx := context.WithValue(c.Request().Context(), common.TenantIDKey, actor.TenantID)
			ctx = context.WithValue(ctx, common.ActorKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ActorFromContext returns the authenticated user set by JWTMiddleware.
func ActorFromContext(ctx context.Context) (*models.User, bool) {
	actor, ok := ctx.Value(common.ActorKey).(*models.User)
	return actor, ok
}
