package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffInvite binds a future staff registration to a tenant and role.
// The row id doubles as the invite token handed to the invitee.
// Invites never expire; they end only by consumption or explicit revocation.
type StaffInvite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email     string    `json:"email" db:"email"`
	RoleType  RoleType  `json:"role_type" db:"role_type"`
	InvitedBy uuid.UUID `json:"invited_by" db:"invited_by"`
	IsUsed    bool      `json:"is_used" db:"is_used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
