package find_tenant

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

type SpannerFindTenantQuery struct {
	Client *spanner.Client
}

func NewSpannerFindTenantQuery(client *spanner.Client) *SpannerFindTenantQuery {
	return &SpannerFindTenantQuery{Client: client}
}

// FindTenantByCode resolves a public code through the unique code index.
func (q *SpannerFindTenantQuery) FindTenantByCode(ctx context.Context, code string) (string, error) {
	stmt := spanner.Statement{
		SQL:    `SELECT tenant_id FROM design_settings@{FORCE_INDEX=design_settings_by_code} WHERE code = @code LIMIT 1`,
		Params: map[string]interface{}{"code": code},
	}
	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	var tenantID string
	if err := row.Columns(&tenantID); err != nil {
		return "", err
	}
	return tenantID, nil
}
