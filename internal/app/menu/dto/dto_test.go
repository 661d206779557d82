package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain/services"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
)

func TestNewProductDTO_Promotion(t *testing.T) {
	promo := decimal.RequireFromString("9.9")
	p := domain.Product{
		ID:               "p1",
		Name:             "Brigadeiro",
		Price:            decimal.RequireFromString("12"),
		PromotionalPrice: &promo,
		SaleUnit:         domain.SaleUnitCento,
		CreatedAt:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	out := NewProductDTO(p, services.NewPricingCalculator())
	assert.Equal(t, "12.00", out.Price)
	require.NotNil(t, out.PromotionalPrice)
	assert.Equal(t, "9.90", *out.PromotionalPrice)
	assert.Equal(t, "9.90", out.EffectivePrice)
	assert.Equal(t, "R$ 9,90", out.PriceLabel)
	assert.True(t, out.OnSale)
	assert.Equal(t, "2026-03-02T10:00:00Z", out.CreatedAt)
	assert.Equal(t, "", out.UpdatedAt)
	assert.Equal(t, []string{}, out.Bases)
}

func TestNewMenuDTO(t *testing.T) {
	b := &resolver.Bundle{
		TenantID: "tenant-1",
		Design:   &domain.DesignSettings{TenantID: "tenant-1", Code: "abc12"},
		Config:   domain.DefaultOperatingConfig("tenant-1"),
	}
	out := NewMenuDTO(b, true, services.NewPricingCalculator())
	assert.Equal(t, "abc12", out.Code)
	assert.True(t, out.Open)
	assert.Equal(t, []ProductDTO{}, out.Products)
}

func TestNewCartDTO(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", ProductName: "Bolo", UnitPrice: decimal.RequireFromString("35.50"), Quantity: 1.5, SaleUnit: domain.SaleUnitKg},
		{ProductID: "p2", ProductName: "Pudim", UnitPrice: decimal.RequireFromString("8"), Quantity: 2, SaleUnit: domain.SaleUnitUnit},
	}
	out := NewCartDTO(lines)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, lines[0].Key(), out.Lines[0].Key)
	assert.Equal(t, "53.25", out.Lines[0].Subtotal)
	assert.Equal(t, "69.25", out.TotalPrice)
	assert.Equal(t, "R$ 69,25", out.TotalLabel)

	empty := NewCartDTO(nil)
	assert.Empty(t, empty.Lines)
	assert.Equal(t, "0.00", empty.TotalPrice)
}
