package dto

import (
	"time"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cache"
	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain/services"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
)

// ProductDTO is a product as shown to visitors and operators. Prices are
// decimal strings; PriceLabel is the BRL rendering of EffectivePrice.
type ProductDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	ImageURL         string   `json:"imageUrl"`
	SaleUnit         string   `json:"saleUnit"`
	Price            string   `json:"price"`
	PromotionalPrice *string  `json:"promotionalPrice,omitempty"`
	EffectivePrice   string   `json:"effectivePrice"`
	PriceLabel       string   `json:"priceLabel"`
	OnSale           bool     `json:"onSale"`
	Available        bool     `json:"available"`
	Customizable     bool     `json:"customizable"`
	Bases            []string `json:"bases"`
	Fillings         []string `json:"fillings"`
	Toppings         []string `json:"toppings"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// MenuDTO is the public storefront.
type MenuDTO struct {
	Code     string                  `json:"code"`
	Design   *domain.DesignSettings  `json:"design"`
	Config   *domain.OperatingConfig `json:"config"`
	Products []ProductDTO            `json:"products"`
	Open     bool                    `json:"aberto"`
}

// CartLineDTO is a cart line plus the key used to address it.
type CartLineDTO struct {
	Key string `json:"key"`
	cart.Line
	Subtotal string `json:"subtotal"`
}

// CartDTO is a visitor's cart with its totals.
type CartDTO struct {
	Lines      []CartLineDTO `json:"lines"`
	TotalItems float64       `json:"totalItems"`
	TotalPrice string        `json:"totalPrice"`
	TotalLabel string        `json:"totalLabel"`
}

// OrderDTO is a composed order ready to be opened in WhatsApp.
type OrderDTO struct {
	Message  string `json:"message"`
	DeepLink string `json:"deepLink"`
}

func NewProductDTO(p domain.Product, pc *services.PricingCalculator) ProductDTO {
	effective := pc.EffectivePrice(p)
	out := ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		ImageURL:       p.ImageURL,
		SaleUnit:       string(p.SaleUnit),
		Price:          p.Price.StringFixed(2),
		EffectivePrice: effective.StringFixed(2),
		PriceLabel:     domain.FormatBRL(effective),
		OnSale:         pc.HasActivePromotion(p),
		Available:      p.Available,
		Customizable:   p.Customizable,
		Bases:          nonNil(p.Bases),
		Fillings:       nonNil(p.Fillings),
		Toppings:       nonNil(p.Toppings),
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
	if p.PromotionalPrice != nil {
		promo := p.PromotionalPrice.StringFixed(2)
		out.PromotionalPrice = &promo
	}
	return out
}

func NewProductDTOs(products []domain.Product, pc *services.PricingCalculator) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductDTO(p, pc))
	}
	return out
}

// NewMenuDTO renders a resolved bundle. open comes from the status calculator.
func NewMenuDTO(b *resolver.Bundle, open bool, pc *services.PricingCalculator) MenuDTO {
	out := MenuDTO{
		Design:   b.Design,
		Config:   b.Config,
		Products: NewProductDTOs(b.Products, pc),
		Open:     open,
	}
	if b.Design != nil {
		out.Code = b.Design.Code
	}
	return out
}

func NewCartDTO(lines []cart.Line) CartDTO {
	out := make([]CartLineDTO, 0, len(lines))
	var items float64
	for _, l := range lines {
		items += l.ItemCount()
		out = append(out, CartLineDTO{Key: l.Key(), Line: l, Subtotal: l.Subtotal().StringFixed(2)})
	}
	total := cart.Total(lines)
	return CartDTO{
		Lines:      out,
		TotalItems: items,
		TotalPrice: total.StringFixed(2),
		TotalLabel: domain.FormatBRL(total),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// TenantDTO is the operator view of a loaded tenant.
type TenantDTO struct {
	TenantID string                  `json:"tenantId"`
	Design   *domain.DesignSettings  `json:"design"`
	Config   *domain.OperatingConfig `json:"config"`
	Products []ProductDTO            `json:"products"`
	Options  map[string][]string     `json:"options"`
	Open     bool                    `json:"aberto"`
}

// NewTenantDTO renders the controller cache of tenantID.
func NewTenantDTO(tenantID string, store *cache.Store, open bool, pc *services.PricingCalculator) TenantDTO {
	options := make(map[string][]string, len(domain.OptionKinds))
	for _, kind := range domain.OptionKinds {
		options[string(kind)] = store.Options(kind)
	}
	return TenantDTO{
		TenantID: tenantID,
		Design:   store.Design(),
		Config:   store.Config(),
		Products: NewProductDTOs(store.Products(), pc),
		Options:  options,
		Open:     open,
	}
}
