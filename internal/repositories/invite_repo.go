package repositories

import (
	"context"
	"errors"
	"time"

	"commercehub/internal/models"

	"github.com/google/uuid"
)

// ErrInviteUnavailable is returned when a consume or revoke targets an
// invite that is unknown, already consumed, or already revoked.
var ErrInviteUnavailable = errors.New("invite is not available")

type InviteRepository interface {
	Create(ctx context.Context, invite *models.StaffInvite) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StaffInvite, error)
	GetByToken(ctx context.Context, token uuid.UUID) (*models.StaffInvite, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StaffInvite, error)
	HasPending(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	ConsumeWithUser(ctx context.Context, token uuid.UUID, user *models.User) error
	DeletePending(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type inviteRepo struct {
	db DB
}

func NewInviteRepo(db DB) InviteRepository {
	return &inviteRepo{db: db}
}

const inviteColumns = `id, tenant_id, email, role_type, invited_by, is_used, created_at`

func scanInvite(row interface{ Scan(dest ...any) error }) (*models.StaffInvite, error) {
	invite := &models.StaffInvite{}
	err := row.Scan(&invite.ID, &invite.TenantID, &invite.Email, &invite.RoleType, &invite.InvitedBy, &invite.IsUsed, &invite.CreatedAt)
	if err != nil {
		return nil, mapScanErr(err)
	}
	return invite, nil
}

func (r *inviteRepo) Create(ctx context.Context, invite *models.StaffInvite) error {
	query := `
		INSERT INTO staff_invites (id, tenant_id, email, role_type, invited_by, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW())
	`
	_, err := r.db.Exec(ctx, query, invite.ID, invite.TenantID, invite.Email, invite.RoleType, invite.InvitedBy)
	return err
}

func (r *inviteRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StaffInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM staff_invites WHERE tenant_id = $1 AND id = $2`
	return scanInvite(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetByToken is the one tenant-unscoped read: the registering staff member
// has a token but no tenant yet.
func (r *inviteRepo) GetByToken(ctx context.Context, token uuid.UUID) (*models.StaffInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM staff_invites WHERE id = $1`
	return scanInvite(r.db.QueryRow(ctx, query, token))
}

func (r *inviteRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StaffInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM staff_invites
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*models.StaffInvite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

func (r *inviteRepo) HasPending(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM staff_invites WHERE tenant_id = $1 AND email = $2 AND is_used = false)`
	if err := r.db.QueryRow(ctx, query, tenantID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ConsumeWithUser marks the invite consumed and creates the staff user in
// one transaction. The conditional UPDATE on is_used is the guard against
// two simultaneous registrations consuming the same token: only one
// transaction can flip the flag, the other sees zero rows and rolls back.
func (r *inviteRepo) ConsumeWithUser(ctx context.Context, token uuid.UUID, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	consumeQuery := `
		UPDATE staff_invites
		SET is_used = true
		WHERE id = $1 AND is_used = false
	`
	tag, err := tx.Exec(ctx, consumeQuery, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInviteUnavailable
	}

	userQuery := `
		INSERT INTO users (id, tenant_id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, userQuery, user.ID, user.TenantID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role, user.IsActive); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeletePending revokes a not-yet-consumed invite. A consumed invite does
// not match and reports ErrInviteUnavailable, which surfaces as NotFound.
func (r *inviteRepo) DeletePending(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM staff_invites WHERE tenant_id = $1 AND id = $2 AND is_used = false`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInviteUnavailable
	}
	return nil
}

func (r *inviteRepo) DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM staff_invites WHERE is_used = true AND created_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
