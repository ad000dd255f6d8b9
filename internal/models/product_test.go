package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		costPrice float64
		want      float64
	}{
		{"typical margin", 100, 60, 40},
		{"rounded to two decimals", 3, 2, 33.33},
		{"zero cost price", 100, 0, 0},
		{"zero price", 0, 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.price, CostPrice: tt.costPrice}
			assert.Equal(t, tt.want, p.ProfitMargin())
		})
	}
}

func TestProductJSONCarriesProfitMargin(t *testing.T) {
	product := &Product{
		ID:        uuid.New(),
		Name:      "Ceramic Mug",
		Price:     100,
		CostPrice: 60,
	}

	data, err := json.Marshal(product)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 40.0, out["profit_margin"])
	assert.Equal(t, "Ceramic Mug", out["name"])
	assert.NotContains(t, out, "image_object")
}
