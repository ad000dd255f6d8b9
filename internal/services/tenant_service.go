package services

import (
	"context"
	"errors"
	"strings"

	"commercehub/internal/authz"
	"commercehub/internal/caching"
	"commercehub/internal/common"
	"commercehub/internal/domains"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterOwnerRequest carries the combined tenant + owner signup payload.
type RegisterOwnerRequest struct {
	BusinessName string   `json:"business_name" validate:"required,max=255"`
	DomainCodes  []string `json:"domain_codes" validate:"required,min=1"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=8"`
	FirstName    string   `json:"first_name" validate:"required,max=150"`
	LastName     string   `json:"last_name" validate:"max=150"`
}

type UpdateTenantRequest struct {
	BusinessName *string  `json:"business_name" validate:"omitempty,max=255"`
	DomainCodes  []string `json:"domain_codes" validate:"omitempty,min=1"`
}

type TenantService interface {
	RegisterOwner(ctx context.Context, req *RegisterOwnerRequest) (*models.Tenant, *models.User, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateTenantRequest) (*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	logger     *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository, cacheSvc caching.CacheService, logger *zap.Logger) TenantService {
	return &tenantService{tenantRepo: tenantRepo, userRepo: userRepo, cacheSvc: cacheSvc, logger: logger}
}

// RegisterOwner creates a tenant and its owner account atomically. The
// owner role is assigned here and nowhere else; no invite path grants it.
func (s *tenantService) RegisterOwner(ctx context.Context, req *RegisterOwnerRequest) (*models.Tenant, *models.User, error) {
	codes, err := normalizeDomainCodes(req.DomainCodes)
	if err != nil {
		return nil, nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, common.NewConflictError("Email is already registered")
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	tenant := &models.Tenant{
		ID:           uuid.New(),
		BusinessName: strings.TrimSpace(req.BusinessName),
		DomainCodes:  codes,
		IsActive:     true,
	}
	owner := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         models.RoleOwner,
		IsActive:     true,
	}

	if err := s.tenantRepo.CreateWithOwner(ctx, tenant, owner); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, nil, common.NewConflictError("Email is already registered")
		}
		return nil, nil, err
	}
	return tenant, owner, nil
}

func (s *tenantService) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Tenant")
		}
		return nil, err
	}
	return tenant, nil
}

// UpdateTenant changes the business profile. Adding a domain code widens
// the product schema; removing one narrows what reads expose, but already
// stored attribute values stay in place.
func (s *tenantService) UpdateTenant(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateTenantRequest) (*models.Tenant, error) {
	tenant, err := s.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, tenant.ID, models.RoleOwner); err != nil {
		return nil, err
	}

	if req.BusinessName != nil {
		name := strings.TrimSpace(*req.BusinessName)
		if name == "" {
			return nil, common.NewFieldError("business_name", "cannot be empty")
		}
		tenant.BusinessName = name
	}
	if req.DomainCodes != nil {
		codes, err := normalizeDomainCodes(req.DomainCodes)
		if err != nil {
			return nil, err
		}
		tenant.DomainCodes = codes
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	// A domain-code change alters the resolved product schema, so cached
	// product payloads serialized under the old schema must go.
	if req.DomainCodes != nil {
		if err := s.cacheSvc.InvalidateTenantCache(ctx, tenant.ID); err != nil {
			s.logger.Warn("tenant cache invalidation failed", zap.Error(err))
		}
	}
	return tenant, nil
}

// normalizeDomainCodes trims, dedupes and validates domain codes while
// preserving the caller's order, which drives field-conflict resolution.
func normalizeDomainCodes(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	codes := make([]string, 0, len(raw))
	for _, code := range raw {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		if !domains.Known(code) {
			return nil, common.NewFieldError("domain_codes", "unknown domain code: "+code)
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil, common.NewFieldError("domain_codes", "at least one domain code is required")
	}
	return codes, nil
}
