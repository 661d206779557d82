package list_products

import (
	"context"
	"strings"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/repo"
	"github.com/murkotick/digital-menu-service/internal/models/m_product"
)

type SpannerListProductsQuery struct {
	Client *spanner.Client
}

func NewSpannerListProductsQuery(client *spanner.Client) *SpannerListProductsQuery {
	return &SpannerListProductsQuery{Client: client}
}

// ListProducts returns the tenant's catalog newest first.
func (q *SpannerListProductsQuery) ListProducts(ctx context.Context, tenantID string, onlyAvailable bool) ([]domain.Product, error) {
	baseSQL := "SELECT " + strings.Join(m_product.SelectColumns, ", ") + `
		FROM products
		WHERE tenant_id = @tenant`
	if onlyAvailable {
		baseSQL += " AND available = TRUE"
	}
	baseSQL += " ORDER BY created_at DESC"

	stmt := spanner.Statement{SQL: baseSQL, Params: map[string]interface{}{"tenant": tenantID}}
	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := []domain.Product{}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := ScanRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
}

// ScanRow decodes a row selected with m_product.SelectColumns.
func ScanRow(row *spanner.Row) (*domain.Product, error) {
	var (
		p           domain.Product
		description spanner.NullString
		price       spanner.NullNumeric
		promo       spanner.NullNumeric
		saleUnit    spanner.NullString
		category    spanner.NullString
		imageURL    spanner.NullString
	)
	if err := row.Columns(&p.ID, &p.TenantID, &p.Name, &description, &price, &promo,
		&saleUnit, &category, &imageURL, &p.Available, &p.Customizable,
		&p.Bases, &p.Fillings, &p.Toppings, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = description.StringVal
	if d := repo.DecodeNumeric(price); d != nil {
		p.Price = *d
	}
	p.PromotionalPrice = repo.DecodeNumeric(promo)
	p.SaleUnit = domain.SaleUnit(saleUnit.StringVal)
	if p.SaleUnit == "" {
		p.SaleUnit = domain.SaleUnitUnit
	}
	p.Category = category.StringVal
	p.ImageURL = imageURL.StringVal
	return &p, nil
}
