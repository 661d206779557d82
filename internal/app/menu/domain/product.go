package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SaleUnit is how a product is sold.
type SaleUnit string

const (
	SaleUnitUnit  SaleUnit = "unidade"
	SaleUnitSlice SaleUnit = "fatia"
	SaleUnitCento SaleUnit = "cento"
	SaleUnitKg    SaleUnit = "kg"
)

func (u SaleUnit) Valid() bool {
	switch u {
	case SaleUnitUnit, SaleUnitSlice, SaleUnitCento, SaleUnitKg:
		return true
	}
	return false
}

// IsWeight reports whether quantities are fractional weights.
func (u SaleUnit) IsWeight() bool {
	return u == SaleUnitKg
}

// Step is the quantity increment and also the smallest allowed quantity.
func (u SaleUnit) Step() float64 {
	if u.IsWeight() {
		return 0.5
	}
	return 1
}

// Product is one item of a tenant's catalog.
type Product struct {
	ID               string           `json:"id"`
	TenantID         string           `json:"tenantId"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Price            decimal.Decimal  `json:"price"`
	PromotionalPrice *decimal.Decimal `json:"promotionalPrice,omitempty"`
	SaleUnit         SaleUnit         `json:"saleUnit"`
	Category         string           `json:"category"`
	ImageURL         string           `json:"imageUrl"`
	Available        bool             `json:"available"`
	Customizable     bool             `json:"customizable"`
	Bases            []string         `json:"bases"`
	Fillings         []string         `json:"fillings"`
	Toppings         []string         `json:"toppings"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ProductInput carries operator-entered fields for a new product.
type ProductInput struct {
	Name             string
	Description      string
	Price            decimal.Decimal
	PromotionalPrice *decimal.Decimal
	SaleUnit         SaleUnit
	Category         string
	ImageURL         string
	Available        bool
	Customizable     bool
	Bases            []string
	Fillings         []string
	Toppings         []string
}

// NewProduct validates input and builds a product stamped with now.
func NewProduct(id, tenantID string, in ProductInput, now time.Time) (*Product, error) {
	p := &Product{
		ID:               id,
		TenantID:         tenantID,
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Price:            in.Price,
		PromotionalPrice: in.PromotionalPrice,
		SaleUnit:         in.SaleUnit,
		Category:         strings.TrimSpace(in.Category),
		ImageURL:         in.ImageURL,
		Available:        in.Available,
		Customizable:     in.Customizable,
		Bases:            cleanOptions(in.Bases),
		Fillings:         cleanOptions(in.Fillings),
		Toppings:         cleanOptions(in.Toppings),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.SaleUnit == "" {
		p.SaleUnit = SaleUnitUnit
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants enforced before any write.
func (p *Product) Validate() error {
	if err := validateProductName(p.Name); err != nil {
		return err
	}
	if err := validatePrice(p.Price); err != nil {
		return err
	}
	if p.PromotionalPrice != nil && p.PromotionalPrice.IsNegative() {
		return ErrNegativePrice
	}
	if !p.SaleUnit.Valid() {
		return ErrInvalidSaleUnit
	}
	return nil
}

// Options returns the customization list of the given kind.
func (p *Product) Options(kind OptionKind) []string {
	switch kind {
	case OptionBase:
		return p.Bases
	case OptionFilling:
		return p.Fillings
	case OptionTopping:
		return p.Toppings
	}
	return nil
}

// Clone returns a deep copy.
func (p Product) Clone() Product {
	out := p
	if p.PromotionalPrice != nil {
		promo := *p.PromotionalPrice
		out.PromotionalPrice = &promo
	}
	out.Bases = slices.Clone(p.Bases)
	out.Fillings = slices.Clone(p.Fillings)
	out.Toppings = slices.Clone(p.Toppings)
	return out
}

// AvailableOnly filters a catalog down to what visitors may see.
func AvailableOnly(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

func cleanOptions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validateProductName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyProductName
	}
	if len(trimmed) > 255 {
		return ErrProductNameTooLong
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if price.IsZero() {
		return ErrZeroPrice
	}
	return nil
}
