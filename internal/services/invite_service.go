package services

import (
	"context"
	"errors"
	"strings"

	"commercehub/internal/authz"
	"commercehub/internal/common"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
)

type CreateInviteRequest struct {
	Email    string `json:"email" validate:"required,email"`
	RoleType string `json:"role_type" validate:"required,oneof=manager staff"`
}

type InviteService interface {
	CreateInvite(ctx context.Context, actor *models.User, req *CreateInviteRequest) (*models.StaffInvite, error)
	GetInvite(ctx context.Context, tenantID, id uuid.UUID) (*models.StaffInvite, error)
	ListInvites(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StaffInvite, error)
	RevokeInvite(ctx context.Context, tenantID, id uuid.UUID) error
}

type inviteService struct {
	inviteRepo repositories.InviteRepository
	userRepo   repositories.UserRepository
}

func NewInviteService(inviteRepo repositories.InviteRepository, userRepo repositories.UserRepository) InviteService {
	return &inviteService{inviteRepo: inviteRepo, userRepo: userRepo}
}

// CreateInvite issues a staff or manager invite. The rules:
//   - owner invites are never issued; ownership comes only from tenant signup
//   - a manager invite requires an owner actor
//   - one pending invite per (tenant, email) at a time
//   - an email already registered in the tenant cannot be invited again
func (s *inviteService) CreateInvite(ctx context.Context, actor *models.User, req *CreateInviteRequest) (*models.StaffInvite, error) {
	role := models.RoleType(strings.ToLower(strings.TrimSpace(req.RoleType)))
	switch role {
	case models.RoleStaff:
	case models.RoleManager:
		if !authz.CanActAs(actor, models.RoleOwner) {
			return nil, common.NewForbiddenError("Only an owner can invite a manager")
		}
	case models.RoleOwner:
		return nil, common.NewFieldError("role_type", "owner invites cannot be issued")
	default:
		return nil, common.NewFieldError("role_type", "must be manager or staff")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.TenantID == actor.TenantID {
		return nil, common.NewConflictError("Email already belongs to a member of this business")
	}

	pending, err := s.inviteRepo.HasPending(ctx, actor.TenantID, email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, common.NewConflictError("A pending invite already exists for this email")
	}

	invite := &models.StaffInvite{
		ID:        uuid.New(),
		TenantID:  actor.TenantID,
		Email:     email,
		RoleType:  role,
		InvitedBy: actor.ID,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflictError("A pending invite already exists for this email")
		}
		return nil, err
	}
	return invite, nil
}

func (s *inviteService) GetInvite(ctx context.Context, tenantID, id uuid.UUID) (*models.StaffInvite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Invite")
		}
		return nil, err
	}
	return invite, nil
}

func (s *inviteService) ListInvites(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StaffInvite, error) {
	return s.inviteRepo.List(ctx, tenantID, limit, offset)
}

// RevokeInvite deletes a pending invite. A consumed invite is immutable
// history and revoking it reports NOT_FOUND, same as an unknown id.
func (s *inviteService) RevokeInvite(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.inviteRepo.DeletePending(ctx, tenantID, id); err != nil {
		if errors.Is(err, repositories.ErrInviteUnavailable) {
			return common.NewNotFoundError("Invite")
		}
		return err
	}
	return nil
}
