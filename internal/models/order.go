package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether status is one of the known order states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	TenantID      uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	CreatedBy     uuid.UUID        `json:"created_by" db:"created_by"`
	Status        string           `json:"status" db:"status"`
	CustomerName  string           `json:"customer_name" db:"customer_name"`
	CustomerEmail *string          `json:"customer_email" db:"customer_email"`
	CustomerPhone *string          `json:"customer_phone" db:"customer_phone"`
	Notes         *string          `json:"notes" db:"notes"`
	Subtotal      float64          `json:"subtotal" db:"subtotal"`
	Discount      float64          `json:"discount" db:"discount"`
	Total         float64          `json:"total" db:"total"`
	LineItems     []*OrderLineItem `json:"line_items" db:"-"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// RecalculateTotals recomputes subtotal and total from the current line
// items. Total is clamped at zero so a discount can never push it negative.
func (o *Order) RecalculateTotals() {
	o.Subtotal = 0
	for _, item := range o.LineItems {
		o.Subtotal += item.LineTotal
	}
	o.Total = o.Subtotal - o.Discount
	if o.Total < 0 {
		o.Total = 0
	}
}
