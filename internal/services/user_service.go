package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"commercehub/internal/authz"
	"commercehub/internal/caching"
	"commercehub/internal/common"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxLoginAttempts   = 10
	loginAttemptWindow = time.Minute
)

// RegisterStaffRequest is the invite-redemption payload. The token is the
// invite id handed out when the invite was created.
type RegisterStaffRequest struct {
	InviteToken string `json:"invite_token" validate:"required,uuid"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserService interface {
	Login(ctx context.Context, req *LoginRequest) (*models.User, error)
	RegisterStaff(ctx context.Context, req *RegisterStaffRequest) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, tenantID, id uuid.UUID) error
}

type userService struct {
	userRepo   repositories.UserRepository
	inviteRepo repositories.InviteRepository
	cacheSvc   caching.CacheService
}

func NewUserService(userRepo repositories.UserRepository, inviteRepo repositories.InviteRepository, cacheSvc caching.CacheService) UserService {
	return &userService{userRepo: userRepo, inviteRepo: inviteRepo, cacheSvc: cacheSvc}
}

// Login verifies credentials. Every failure mode returns the same
// UNAUTHORIZED error so the response does not reveal which check failed.
// Attempts are rate limited per email; a cache outage fails open.
func (s *userService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	invalid := common.NewUnauthorizedError("Invalid email or password")
	email := strings.ToLower(strings.TrimSpace(req.Email))

	limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+email, maxLoginAttempts, loginAttemptWindow)
	if err == nil && limited {
		return nil, common.NewUnauthorizedError("Too many login attempts, try again later")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}
	return user, nil
}

// RegisterStaff redeems an invite token into a staff account. The invite
// fixes the tenant, email and role; the invitee only supplies credentials
// and a name. Consumption and user creation commit together, and a token
// can be consumed exactly once even under concurrent redemption.
func (s *userService) RegisterStaff(ctx context.Context, req *RegisterStaffRequest) (*models.User, error) {
	token, err := uuid.Parse(req.InviteToken)
	if err != nil {
		return nil, common.NewInvalidInviteError("Invalid invite token")
	}

	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewInvalidInviteError("Invite not found")
		}
		return nil, err
	}
	if invite.IsUsed {
		return nil, common.NewInvalidInviteError("Invite has already been used")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     invite.TenantID,
		Email:        invite.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         invite.RoleType,
		IsActive:     true,
	}

	if err := s.inviteRepo.ConsumeWithUser(ctx, token, user); err != nil {
		if errors.Is(err, repositories.ErrInviteUnavailable) {
			return nil, common.NewInvalidInviteError("Invite has already been used")
		}
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflictError("Email is already registered")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("User")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	return s.userRepo.ListByTenant(ctx, tenantID, limit, offset)
}

// DeleteUser removes a staff account. Owners cannot be deleted, and nobody
// can delete themselves through this path.
func (s *userService) DeleteUser(ctx context.Context, actor *models.User, tenantID, id uuid.UUID) error {
	if actor.ID == id {
		return common.NewFieldError("id", "cannot delete your own account")
	}

	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("User")
		}
		return err
	}
	// Foreign-tenant targets come back as NOT_FOUND from the gate.
	if err := authz.Authorize(actor, target.TenantID, models.RoleOwner); err != nil {
		return err
	}
	if target.Role == models.RoleOwner {
		return common.NewForbiddenError("Owner accounts cannot be deleted")
	}

	if err := s.userRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("User")
		}
		return err
	}
	return nil
}
