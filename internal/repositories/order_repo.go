package repositories

import (
	"context"

	"commercehub/internal/models"

	"github.com/google/uuid"
)

type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	ReplaceItems(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, tenant_id, customer_name, customer_email, customer_phone, status, subtotal, discount, total, notes, created_by, created_at, updated_at`

const lineItemColumns = `id, tenant_id, order_id, product_id, product_name, quantity, unit_price, line_total, created_at`

const insertLineItemQuery = `
	INSERT INTO order_line_items (id, tenant_id, order_id, product_id, product_name, quantity, unit_price, line_total, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.TenantID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.Status, &order.Subtotal, &order.Discount, &order.Total, &order.Notes, &order.CreatedBy, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, mapScanErr(err)
	}
	return order, nil
}

func scanLineItem(row interface{ Scan(dest ...any) error }) (*models.OrderLineItem, error) {
	item := &models.OrderLineItem{}
	err := row.Scan(&item.ID, &item.TenantID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt)
	if err != nil {
		return nil, mapScanErr(err)
	}
	return item, nil
}

// CreateWithItems inserts the order and all of its line items in a single
// transaction, so a half-written order never shows up in a list.
func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, tenant_id, customer_name, customer_email, customer_phone, status, subtotal, discount, total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, orderQuery, order.ID, order.TenantID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.Status, order.Subtotal, order.Discount, order.Total, order.Notes, order.CreatedBy); err != nil {
		return err
	}

	for _, item := range order.LineItems {
		if _, err := tx.Exec(ctx, insertLineItemQuery, item.ID, item.TenantID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2`
	order, err := scanOrder(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, err
	}

	itemsQuery := `SELECT ` + lineItemColumns + ` FROM order_line_items WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order, rows.Err()
}

func (r *orderRepo) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	var orders []*models.Order
	byID := make(map[uuid.UUID]*models.Order)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, order)
		byID[order.ID] = order
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	// One batched query for all line items instead of one per order.
	itemsQuery := `SELECT ` + lineItemColumns + ` FROM order_line_items WHERE order_id = ANY($1) ORDER BY created_at`
	itemRows, err := r.db.Query(ctx, itemsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanLineItem(itemRows)
		if err != nil {
			return nil, err
		}
		if order, ok := byID[item.OrderID]; ok {
			order.LineItems = append(order.LineItems, item)
		}
	}
	return orders, itemRows.Err()
}

func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $1, customer_email = $2, customer_phone = $3, status = $4, subtotal = $5, discount = $6, total = $7, notes = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10
	`
	tag, err := r.db.Exec(ctx, query, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.Status, order.Subtotal, order.Discount, order.Total, order.Notes, order.TenantID, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceItems swaps the full line-item set and the recomputed totals in
// one transaction.
func (r *orderRepo) ReplaceItems(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleteQuery := `DELETE FROM order_line_items WHERE tenant_id = $1 AND order_id = $2`
	if _, err := tx.Exec(ctx, deleteQuery, order.TenantID, order.ID); err != nil {
		return err
	}

	for _, item := range order.LineItems {
		if _, err := tx.Exec(ctx, insertLineItemQuery, item.ID, item.TenantID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal); err != nil {
			return err
		}
	}

	totalsQuery := `
		UPDATE orders
		SET subtotal = $1, total = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	tag, err := tx.Exec(ctx, totalsQuery, order.Subtotal, order.Total, order.TenantID, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_line_items WHERE tenant_id = $1 AND order_id = $2`, tenantID, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
