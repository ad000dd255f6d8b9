package repositories

import (
	"context"

	"commercehub/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	CreateWithOwner(ctx context.Context, tenant *models.Tenant, owner *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

// CreateWithOwner writes the tenant and its owner user in one transaction:
// a tenant without an owner must never be observable.
func (r *tenantRepo) CreateWithOwner(ctx context.Context, tenant *models.Tenant, owner *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tenantQuery := `
		INSERT INTO tenants (id, business_name, domain_codes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, tenantQuery, tenant.ID, tenant.BusinessName, tenant.DomainCodes, tenant.IsActive); err != nil {
		return err
	}

	userQuery := `
		INSERT INTO users (id, tenant_id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, userQuery, owner.ID, owner.TenantID, owner.Email, owner.PasswordHash, owner.FirstName, owner.LastName, owner.Role, owner.IsActive); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, business_name, domain_codes, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&tenant.ID, &tenant.BusinessName, &tenant.DomainCodes, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, mapScanErr(err)
	}
	return tenant, nil
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET business_name = $1, domain_codes = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, tenant.BusinessName, tenant.DomainCodes, tenant.IsActive, tenant.ID)
	return err
}
