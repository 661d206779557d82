package get_design

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/repo"
	"github.com/murkotick/digital-menu-service/internal/models/m_design"
)

type SpannerGetDesignQuery struct {
	Client *spanner.Client
}

func NewSpannerGetDesignQuery(client *spanner.Client) *SpannerGetDesignQuery {
	return &SpannerGetDesignQuery{Client: client}
}

func (q *SpannerGetDesignQuery) GetDesignSettings(ctx context.Context, tenantID string) (*domain.DesignSettings, error) {
	row, err := q.Client.Single().ReadRow(ctx, m_design.TableName, spanner.Key{tenantID}, m_design.SelectColumns)
	if spanner.ErrCode(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ScanRow(row)
}

// ScanRow decodes a row read with m_design.SelectColumns.
func ScanRow(row *spanner.Row) (*domain.DesignSettings, error) {
	var (
		d          domain.DesignSettings
		code       spanner.NullString
		name       spanner.NullString
		desc       spanner.NullString
		primary    spanner.NullString
		secondary  spanner.NullString
		background spanner.NullString
		text       spanner.NullString
		logo       spanner.NullString
		banner     spanner.NullString
		icons      spanner.NullString
		gradient   spanner.NullString
	)
	if err := row.Columns(&d.TenantID, &code, &name, &desc, &primary, &secondary,
		&background, &text, &logo, &banner, &icons, &gradient,
		&d.ShowLogo, &d.ShowBanner, &d.ShowDescription, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Code = code.StringVal
	d.Name = name.StringVal
	d.Description = desc.StringVal
	d.PrimaryColor = primary.StringVal
	d.SecondaryColor = secondary.StringVal
	d.BackgroundColor = background.StringVal
	d.TextColor = text.StringVal
	d.LogoURL = logo.StringVal
	d.BannerURL = banner.StringVal
	d.CategoryIcons = repo.DecodeIcons(icons.StringVal)
	d.BannerGradient = gradient.StringVal
	return &d, nil
}
