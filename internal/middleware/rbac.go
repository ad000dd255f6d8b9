package middleware

import (
	"commercehub/internal/authz"
	"commercehub/internal/common"
	"commercehub/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route group behind a minimum role. Runs after
// JWTMiddleware, which put the actor in the request context. The route
// level only knows the actor's own tenant; services re-run the same gate
// against the loaded resource's tenant.
func RequireRole(required models.RoleType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if err := authz.Authorize(actor, actor.TenantID, required); err != nil {
				return common.RespondError(c, err)
			}
			return next(c)
		}
	}
}
