package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem snapshots product name and unit price at order time so
// later catalog edits never alter historical orders.
type OrderLineItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	LineTotal   float64   `json:"line_total" db:"line_total"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
