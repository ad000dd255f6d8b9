// Package authz is the single permission gate shared by every endpoint.
// It is pure: no I/O, no side effects, one decision per call.
package authz

import (
	"commercehub/internal/common"
	"commercehub/internal/models"

	"github.com/google/uuid"
)

// Authorize decides whether actor may perform an operation that requires
// the given minimum role against a resource owned by resourceTenant.
//
// A tenant mismatch is reported as NOT_FOUND rather than FORBIDDEN so the
// response never confirms that a foreign resource exists; a role shortfall
// inside the actor's own tenant is an honest FORBIDDEN.
func Authorize(actor *models.User, resourceTenant uuid.UUID, required models.RoleType) error {
	if actor == nil || !actor.IsActive {
		return common.NewUnauthorizedError("User not authenticated")
	}
	if actor.TenantID != resourceTenant {
		return common.NewNotFoundError("Resource")
	}
	if actor.Role.Level() < required.Level() {
		return common.NewForbiddenError("Insufficient permissions")
	}
	return nil
}

// CanActAs reports whether actor holds at least the given role in its own
// tenant. Used where there is no target resource yet (e.g. list endpoints).
func CanActAs(actor *models.User, required models.RoleType) bool {
	return actor != nil && actor.IsActive && actor.Role.Level() >= required.Level()
}
