package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"commercehub/internal/caching"
	"commercehub/internal/common"
	"commercehub/internal/domains"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productCacheTTL = 10 * time.Minute

type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description *string        `json:"description"`
	Price       float64        `json:"price" validate:"gte=0"`
	CostPrice   float64        `json:"cost_price" validate:"gte=0"`
	SKU         *string        `json:"sku" validate:"omitempty,max=100"`
	IsActive    *bool          `json:"is_active"`
	Attributes  map[string]any `json:"attributes"`
}

type UpdateProductRequest struct {
	Name        *string        `json:"name" validate:"omitempty,max=255"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	CostPrice   *float64       `json:"cost_price" validate:"omitempty,gte=0"`
	SKU         *string        `json:"sku" validate:"omitempty,max=100"`
	IsActive    *bool          `json:"is_active"`
	Attributes  map[string]any `json:"attributes"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, tenantID uuid.UUID, req *CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error
	SchemaForTenant(ctx context.Context, tenantID uuid.UUID) (*domains.Schema, error)
	SetProductImage(ctx context.Context, tenantID, id uuid.UUID, objectName string) error
	GetProductImageObject(ctx context.Context, tenantID, id uuid.UUID) (string, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	tenantRepo  repositories.TenantRepository
	cacheSvc    caching.CacheService
	logger      *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepository, tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		tenantRepo:  tenantRepo,
		cacheSvc:    cacheSvc,
		logger:      logger,
	}
}

// SchemaForTenant resolves the tenant's effective product field schema from
// its assigned domain codes.
func (s *productService) SchemaForTenant(ctx context.Context, tenantID uuid.UUID) (*domains.Schema, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Tenant")
		}
		return nil, err
	}
	return domains.Resolve(tenant.DomainCodes), nil
}

func (s *productService) CreateProduct(ctx context.Context, tenantID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	schema, err := s.SchemaForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	attrs := req.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	if err := schema.ValidateCreate(attrs); err != nil {
		var vErr *domains.ValidationError
		if errors.As(err, &vErr) {
			return nil, common.NewValidationError("Invalid product attributes", vErr.Fields)
		}
		return nil, err
	}

	if req.SKU != nil {
		if err := s.checkSKUAvailable(ctx, tenantID, *req.SKU, uuid.Nil); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		SKU:         req.SKU,
		IsActive:    true,
		Attributes:  attrs,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflictError("SKU is already in use")
		}
		return nil, err
	}

	product.Attributes = schema.SerializeAttributes(product.Attributes)
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	schema, err := s.SchemaForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cacheSvc.GetProduct(ctx, tenantID, id); err == nil && cached != nil {
		cached.Attributes = schema.SerializeAttributes(cached.Attributes)
		return cached, nil
	} else if err != nil {
		s.logger.Warn("product cache read failed", zap.Error(err))
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Product")
		}
		return nil, err
	}

	if err := s.cacheSvc.SetProduct(ctx, tenantID, product, productCacheTTL); err != nil {
		s.logger.Warn("product cache write failed", zap.Error(err))
	}

	product.Attributes = schema.SerializeAttributes(product.Attributes)
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, tenantID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error) {
	schema, err := s.SchemaForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.List(ctx, tenantID, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		product.Attributes = schema.SerializeAttributes(product.Attributes)
	}
	return products, nil
}

// UpdateProduct applies a partial update. Attribute updates are merged
// key-by-key into the stored map; a null value clears a key.
func (s *productService) UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	schema, err := s.SchemaForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Product")
		}
		return nil, err
	}

	if req.Attributes != nil {
		if err := schema.ValidateUpdate(req.Attributes); err != nil {
			var vErr *domains.ValidationError
			if errors.As(err, &vErr) {
				return nil, common.NewValidationError("Invalid product attributes", vErr.Fields)
			}
			return nil, err
		}
		if product.Attributes == nil {
			product.Attributes = map[string]any{}
		}
		for name, value := range req.Attributes {
			if value == nil {
				delete(product.Attributes, name)
				continue
			}
			product.Attributes[name] = value
		}
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SKU != nil {
		if err := s.checkSKUAvailable(ctx, tenantID, *req.SKU, id); err != nil {
			return nil, err
		}
		product.SKU = req.SKU
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflictError("SKU is already in use")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Product")
		}
		return nil, err
	}

	if err := s.cacheSvc.DeleteProduct(ctx, tenantID, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}

	product.Attributes = schema.SerializeAttributes(product.Attributes)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("Product")
		}
		return err
	}
	if err := s.cacheSvc.DeleteProduct(ctx, tenantID, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
	return nil
}

// SetProductImage records the storage object backing the product image.
func (s *productService) SetProductImage(ctx context.Context, tenantID, id uuid.UUID, objectName string) error {
	if err := s.productRepo.SetImageObject(ctx, tenantID, id, objectName); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("Product")
		}
		return err
	}
	if err := s.cacheSvc.DeleteProduct(ctx, tenantID, id); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
	return nil
}

// GetProductImageObject returns the stored image object name, empty when
// the product exists but carries no image. Errors only report a missing or
// foreign product.
func (s *productService) GetProductImageObject(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", common.NewNotFoundError("Product")
		}
		return "", err
	}
	if product.ImageObject == nil {
		return "", nil
	}
	return *product.ImageObject, nil
}

// checkSKUAvailable enforces per-tenant SKU uniqueness. self is the product
// being updated, uuid.Nil on create.
func (s *productService) checkSKUAvailable(ctx context.Context, tenantID uuid.UUID, sku string, self uuid.UUID) error {
	existing, err := s.productRepo.GetBySKU(ctx, tenantID, sku)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return common.NewConflictError("SKU is already in use")
	}
	return nil
}
