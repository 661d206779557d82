package get_config

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

type SpannerGetConfigQuery struct {
	Client *spanner.Client
}

func NewSpannerGetConfigQuery(client *spanner.Client) *SpannerGetConfigQuery {
	return &SpannerGetConfigQuery{Client: client}
}

const newestConfigSQL = `SELECT config_id, tenant_id, phone, open_time, close_time, days,
		saturday_open, saturday_open_time, saturday_close_time,
		sunday_open, sunday_open_time, sunday_close_time, updated_at
	FROM operating_configs
	WHERE tenant_id = @tenant
	ORDER BY updated_at DESC
	LIMIT 1`

// GetOperatingConfig returns the most recently updated row of the tenant.
func (q *SpannerGetConfigQuery) GetOperatingConfig(ctx context.Context, tenantID string) (*domain.OperatingConfig, error) {
	return Newest(q.Client.Single().Query(ctx, Statement(tenantID)))
}

// Statement selects the newest config row of tenantID.
func Statement(tenantID string) spanner.Statement {
	return spanner.Statement{SQL: newestConfigSQL, Params: map[string]interface{}{"tenant": tenantID}}
}

// Newest decodes the first row of iter, or domain.ErrNotFound.
func Newest(iter *spanner.RowIterator) (*domain.OperatingConfig, error) {
	defer iter.Stop()
	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var (
		c                          domain.OperatingConfig
		phone, openTime, closeTime spanner.NullString
		satOpenTime, satCloseTime  spanner.NullString
		sunOpenTime, sunCloseTime  spanner.NullString
	)
	if err := row.Columns(&c.ConfigID, &c.TenantID, &phone, &openTime, &closeTime, &c.Days,
		&c.SaturdayOpen, &satOpenTime, &satCloseTime,
		&c.SundayOpen, &sunOpenTime, &sunCloseTime, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Phone = phone.StringVal
	c.OpenTime = openTime.StringVal
	c.CloseTime = closeTime.StringVal
	c.SaturdayOpenTime = satOpenTime.StringVal
	c.SaturdayCloseTime = satCloseTime.StringVal
	c.SundayOpenTime = sunOpenTime.StringVal
	c.SundayCloseTime = sunCloseTime.StringVal
	if c.Days == nil {
		c.Days = []string{}
	}
	return &c, nil
}
