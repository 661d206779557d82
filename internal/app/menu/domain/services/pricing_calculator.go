package services

import (
	"github.com/shopspring/decimal"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

// PricingCalculator resolves which price a visitor pays for a product.
type PricingCalculator struct{}

func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// HasActivePromotion reports whether the promotional price applies: it must be
// set, positive and below the normal price.
func (pc *PricingCalculator) HasActivePromotion(p domain.Product) bool {
	promo := p.PromotionalPrice
	return promo != nil && promo.IsPositive() && promo.LessThan(p.Price)
}

// EffectivePrice is the unit price put on a cart line.
func (pc *PricingCalculator) EffectivePrice(p domain.Product) decimal.Decimal {
	if pc.HasActivePromotion(p) {
		return *p.PromotionalPrice
	}
	return p.Price
}

// CalculateSavings is how much a unit costs less than the normal price.
func (pc *PricingCalculator) CalculateSavings(p domain.Product) decimal.Decimal {
	return p.Price.Sub(pc.EffectivePrice(p))
}

// LineFor builds the cart line for a visitor's pick, priced with the
// promotion already resolved.
func (pc *PricingCalculator) LineFor(p domain.Product, quantity float64, choices cart.Choices, observation *string) cart.Line {
	return cart.NewLine(p, pc.EffectivePrice(p), quantity, choices, observation)
}
