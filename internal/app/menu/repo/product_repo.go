package repo

import (
	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/models/m_option"
	"github.com/murkotick/digital-menu-service/internal/models/m_product"
)

// ProductRepo is the Spanner implementation of the catalog write side.
// It returns *spanner.Mutation objects but never applies them.
type ProductRepo struct{}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{}
}

// buildProductValues maps every mutable column. It is unexported so tests in
// the same package can inspect the map without relying on spanner.Mutation
// internals.
func buildProductValues(p *domain.Product) map[string]interface{} {
	return map[string]interface{}{
		m_product.ColName:             p.Name,
		m_product.ColDescription:      p.Description,
		m_product.ColPrice:            numeric(&p.Price),
		m_product.ColPromotionalPrice: numeric(p.PromotionalPrice),
		m_product.ColSaleUnit:         string(p.SaleUnit),
		m_product.ColCategory:         p.Category,
		m_product.ColImageURL:         p.ImageURL,
		m_product.ColAvailable:        p.Available,
		m_product.ColCustomizable:     p.Customizable,
		m_product.ColBases:            nonNil(p.Bases),
		m_product.ColFillings:         nonNil(p.Fillings),
		m_product.ColToppings:         nonNil(p.Toppings),
		m_product.ColUpdatedAt:        p.UpdatedAt.UTC(),
	}
}

func buildInsertValues(p *domain.Product) map[string]interface{} {
	values := buildProductValues(p)
	values[m_product.ColProductID] = p.ID
	values[m_product.ColTenantID] = p.TenantID
	values[m_product.ColCreatedAt] = p.CreatedAt.UTC()
	return values
}

// InsertMut builds an Insert mutation for a new product.
func (r *ProductRepo) InsertMut(p *domain.Product) *spanner.Mutation {
	return m_product.InsertMutation(buildInsertValues(p))
}

// UpdateMut replaces every mutable column. tenant_id and created_at are kept.
func (r *ProductRepo) UpdateMut(p *domain.Product) *spanner.Mutation {
	if p == nil {
		return nil
	}
	return m_product.UpdateMutation(p.ID, buildProductValues(p))
}

func (r *ProductRepo) DeleteMut(productID string) *spanner.Mutation {
	return m_product.DeleteMutation(productID)
}

// OptionRepo builds customization_options mutations.
type OptionRepo struct{}

func NewOptionRepo() *OptionRepo {
	return &OptionRepo{}
}

func (r *OptionRepo) InsertMut(tenantID string, kind domain.OptionKind, name string) *spanner.Mutation {
	return m_option.InsertMutation(tenantID, string(kind), name)
}

func numeric(d *decimal.Decimal) spanner.NullNumeric {
	if d == nil {
		return spanner.NullNumeric{}
	}
	return spanner.NullNumeric{Numeric: *d.Rat(), Valid: true}
}

// DecodeNumeric converts a NUMERIC column back to a decimal.
func DecodeNumeric(n spanner.NullNumeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d, err := decimal.NewFromString(spanner.NumericString(&n.Numeric))
	if err != nil {
		return nil
	}
	return &d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
