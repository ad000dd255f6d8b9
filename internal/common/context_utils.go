package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	TenantIDKey contextKey = "tenant_id"
	ActorKey    contextKey = "actor"
)

// GetTenantIDFromContext extracts the tenant ID from the request context.
// Tenant-scoped handlers read this instead of the full actor.
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// ValidateUUID parses a path or payload id and reports a field error on
// malformed input.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewFieldError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewFieldError(fieldName, fmt.Sprintf("%s is not a valid UUID", fieldName))
	}
	return id, nil
}

// ValidatePaginationParams clamps limit and offset to safe bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
