package queries

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries/find_tenant"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries/get_config"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries/get_design"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries/list_options"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries/list_products"
)

// SpannerReadModel composes the individual queries into the read half of the
// persistence port.
type SpannerReadModel struct {
	findQ     *find_tenant.SpannerFindTenantQuery
	designQ   *get_design.SpannerGetDesignQuery
	configQ   *get_config.SpannerGetConfigQuery
	productsQ *list_products.SpannerListProductsQuery
	optionsQ  *list_options.SpannerListOptionsQuery
}

func NewSpannerReadModel(client *spanner.Client) *SpannerReadModel {
	return &SpannerReadModel{
		findQ:     find_tenant.NewSpannerFindTenantQuery(client),
		designQ:   get_design.NewSpannerGetDesignQuery(client),
		configQ:   get_config.NewSpannerGetConfigQuery(client),
		productsQ: list_products.NewSpannerListProductsQuery(client),
		optionsQ:  list_options.NewSpannerListOptionsQuery(client),
	}
}

func (rm *SpannerReadModel) FindTenantByCode(ctx context.Context, code string) (string, error) {
	return rm.findQ.FindTenantByCode(ctx, code)
}

func (rm *SpannerReadModel) GetDesignSettings(ctx context.Context, tenantID string) (*domain.DesignSettings, error) {
	return rm.designQ.GetDesignSettings(ctx, tenantID)
}

func (rm *SpannerReadModel) GetOperatingConfig(ctx context.Context, tenantID string) (*domain.OperatingConfig, error) {
	return rm.configQ.GetOperatingConfig(ctx, tenantID)
}

func (rm *SpannerReadModel) ListProducts(ctx context.Context, tenantID string, onlyAvailable bool) ([]domain.Product, error) {
	return rm.productsQ.ListProducts(ctx, tenantID, onlyAvailable)
}

func (rm *SpannerReadModel) ListOptions(ctx context.Context, tenantID string, kind domain.OptionKind) ([]string, error) {
	return rm.optionsQ.ListOptions(ctx, tenantID, kind)
}
