package repositories

import (
	"context"

	"commercehub/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error)
	GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error)
	GetActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*models.Product, error)
	SetImageObject(ctx context.Context, tenantID, id uuid.UUID, object string) error
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, tenant_id, name, description, price, cost_price, sku, image_object, is_active, attributes, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.TenantID, &product.Name, &product.Description, &product.Price, &product.CostPrice, &product.SKU, &product.ImageObject, &product.IsActive, &product.Attributes, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, mapScanErr(err)
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, name, description, price, cost_price, sku, image_object, is_active, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.TenantID, product.Name, product.Description, product.Price, product.CostPrice, product.SKU, product.ImageObject, product.IsActive, product.Attributes)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	return scanProduct(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *productRepo) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND sku = $2`
	return scanProduct(r.db.QueryRow(ctx, query, tenantID, sku))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, cost_price = $4, sku = $5, is_active = $6, attributes = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.CostPrice, product.SKU, product.IsActive, product.Attributes, product.TenantID, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND ($2 = false OR is_active = true)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// GetActiveByIDs resolves the products an order references. The tenant
// filter makes a foreign product indistinguishable from a missing one.
func (r *productRepo) GetActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND is_active = true AND id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) SetImageObject(ctx context.Context, tenantID, id uuid.UUID, object string) error {
	query := `UPDATE products SET image_object = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, object, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
