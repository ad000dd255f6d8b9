package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleType is the three-tier tenant role hierarchy.
type RoleType string

const (
	RoleOwner   RoleType = "owner"
	RoleManager RoleType = "manager"
	RoleStaff   RoleType = "staff"
)

// Level returns the numeric rank of a role: owner > manager > staff.
// Unknown roles rank below staff and never pass a minimum-role check.
func (r RoleType) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

func (r RoleType) Valid() bool {
	return r.Level() > 0
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         RoleType  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
