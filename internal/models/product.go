package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Product is the single underlying product row shared by every business
// domain. Base fields live in dedicated columns; the domain-conditional
// fields (dosage, warranty_months, room_type, ...) live in Attributes and
// are validated against the tenant's resolved domain schema.
type Product struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	TenantID    uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	Name        string         `json:"name" db:"name"`
	Description *string        `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	CostPrice   float64        `json:"cost_price" db:"cost_price"`
	SKU         *string        `json:"sku" db:"sku"`
	ImageObject *string        `json:"-" db:"image_object"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	Attributes  map[string]any `json:"attributes" db:"attributes"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ProfitMargin returns the margin percentage, 0 when cost price is unset.
func (p *Product) ProfitMargin() float64 {
	if p.CostPrice <= 0 || p.Price <= 0 {
		return 0
	}
	return float64(int((p.Price-p.CostPrice)/p.Price*100*100+0.5)) / 100
}

// MarshalJSON adds the derived profit_margin to every serialized product.
func (p *Product) MarshalJSON() ([]byte, error) {
	type productAlias Product
	return json.Marshal(struct {
		*productAlias
		ProfitMargin float64 `json:"profit_margin"`
	}{(*productAlias)(p), p.ProfitMargin()})
}
