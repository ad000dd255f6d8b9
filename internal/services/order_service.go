package services

import (
	"context"
	"errors"
	"strings"

	"commercehub/internal/common"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest references a catalog product. UnitPrice is optional: when
// absent the product's current price is snapshotted onto the line item.
type OrderItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice *float64 `json:"unit_price" validate:"omitempty,gte=0"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required,max=255"`
	CustomerEmail *string            `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone *string            `json:"customer_phone" validate:"omitempty,max=50"`
	Notes         *string            `json:"notes"`
	Discount      float64            `json:"discount" validate:"gte=0"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	CustomerName  *string  `json:"customer_name" validate:"omitempty,max=255"`
	CustomerEmail *string  `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone *string  `json:"customer_phone" validate:"omitempty,max=50"`
	Notes         *string  `json:"notes"`
	Status        *string  `json:"status"`
	Discount      *float64 `json:"discount" validate:"omitempty,gte=0"`
}

type ReplaceOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor *models.User, req *CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, tenantID, id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error)
	ReplaceOrderItems(ctx context.Context, tenantID, id uuid.UUID, req *ReplaceOrderItemsRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, tenantID, id uuid.UUID) error
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	logger      *zap.Logger
}

func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, logger *zap.Logger) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo, logger: logger}
}

// CreateOrder validates every referenced product and writes the order with
// its line items atomically. Name and unit price are copied onto each line
// item, so later product edits never alter an existing order.
func (s *orderService) CreateOrder(ctx context.Context, actor *models.User, req *CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		ID:            uuid.New(),
		TenantID:      actor.TenantID,
		CreatedBy:     actor.ID,
		Status:        models.OrderStatusPending,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Discount:      req.Discount,
	}

	items, err := s.buildLineItems(ctx, order, req.Items)
	if err != nil {
		return nil, err
	}
	order.LineItems = items
	order.RecalculateTotals()

	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("tenant_id", order.TenantID.String()),
		zap.String("created_by", actor.FullName()),
		zap.Int("line_items", len(order.LineItems)),
		zap.Float64("total", order.Total))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Order")
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, common.NewFieldError("status", "unknown order status")
	}
	return s.orderRepo.List(ctx, tenantID, status, limit, offset)
}

// UpdateOrder edits customer details, notes, discount and status. Discount
// changes recompute the clamped total against the existing line items.
func (s *orderService) UpdateOrder(ctx context.Context, tenantID, id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	order, err := s.GetOrder(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !models.ValidOrderStatus(*req.Status) {
			return nil, common.NewFieldError("status", "unknown order status")
		}
		order.Status = *req.Status
	}
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return nil, common.NewFieldError("customer_name", "cannot be empty")
		}
		order.CustomerName = name
	}
	if req.CustomerEmail != nil {
		order.CustomerEmail = req.CustomerEmail
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = req.CustomerPhone
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}
	if req.Discount != nil {
		order.Discount = *req.Discount
		order.RecalculateTotals()
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Order")
		}
		return nil, err
	}
	return order, nil
}

// ReplaceOrderItems swaps the full line-item set, re-snapshotting prices
// from the current catalog, and persists the recomputed totals.
func (s *orderService) ReplaceOrderItems(ctx context.Context, tenantID, id uuid.UUID, req *ReplaceOrderItemsRequest) (*models.Order, error) {
	order, err := s.GetOrder(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	items, err := s.buildLineItems(ctx, order, req.Items)
	if err != nil {
		return nil, err
	}
	order.LineItems = items
	order.RecalculateTotals()

	if err := s.orderRepo.ReplaceItems(ctx, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewNotFoundError("Order")
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewNotFoundError("Order")
		}
		return err
	}
	return nil
}

// buildLineItems resolves requested products against the tenant's active
// catalog and snapshots name and price onto fresh line items. Every invalid
// reference is reported, not just the first.
func (s *orderService) buildLineItems(ctx context.Context, order *models.Order, reqs []OrderItemRequest) ([]*models.OrderLineItem, error) {
	fields := map[string]string{}
	ids := make([]uuid.UUID, 0, len(reqs))
	parsed := make([]uuid.UUID, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))

	for i, item := range reqs {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			fields[item.ProductID] = "not a valid product id"
			continue
		}
		if seen[productID] {
			fields[item.ProductID] = "product referenced more than once"
			continue
		}
		seen[productID] = true
		parsed[i] = productID
		ids = append(ids, productID)
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("Invalid order items", fields)
	}

	products, err := s.productRepo.GetActiveByIDs(ctx, order.TenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	items := make([]*models.OrderLineItem, 0, len(reqs))
	for i, item := range reqs {
		product, ok := byID[parsed[i]]
		if !ok {
			fields[item.ProductID] = "product does not exist or is inactive"
			continue
		}
		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		items = append(items, &models.OrderLineItem{
			ID:          uuid.New(),
			TenantID:    order.TenantID,
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   float64(item.Quantity) * unitPrice,
		})
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("Invalid order items", fields)
	}
	return items, nil
}
