package repo

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/models/m_design"
)

// DesignRepo builds design_settings mutations. It never applies them.
type DesignRepo struct{}

func NewDesignRepo() *DesignRepo {
	return &DesignRepo{}
}

// buildUpsertValues maps every stored column. The code column is only written
// when includeCode is set, so an assigned code is never overwritten.
func buildUpsertValues(d *domain.DesignSettings, includeCode bool) (map[string]interface{}, error) {
	icons, err := encodeIcons(d.CategoryIcons)
	if err != nil {
		return nil, err
	}
	values := map[string]interface{}{
		m_design.ColTenantID:        d.TenantID,
		m_design.ColName:            d.Name,
		m_design.ColDescription:     d.Description,
		m_design.ColPrimaryColor:    d.PrimaryColor,
		m_design.ColSecondaryColor:  d.SecondaryColor,
		m_design.ColBackgroundColor: d.BackgroundColor,
		m_design.ColTextColor:       d.TextColor,
		m_design.ColLogoURL:         d.LogoURL,
		m_design.ColBannerURL:       d.BannerURL,
		m_design.ColCategoryIcons:   icons,
		m_design.ColBannerGradient:  d.BannerGradient,
		m_design.ColShowLogo:        d.ShowLogo,
		m_design.ColShowBanner:      d.ShowBanner,
		m_design.ColShowDescription: d.ShowDescription,
		m_design.ColUpdatedAt:       d.UpdatedAt.UTC(),
	}
	if includeCode && d.Code != "" {
		values[m_design.ColCode] = d.Code
	}
	return values, nil
}

// UpsertMut writes the full row.
func (r *DesignRepo) UpsertMut(d *domain.DesignSettings, includeCode bool) (*spanner.Mutation, error) {
	values, err := buildUpsertValues(d, includeCode)
	if err != nil {
		return nil, err
	}
	return m_design.InsertOrUpdateMutation(values), nil
}

// buildUpdateValues maps only the columns the patch touches.
func buildUpdateValues(patch domain.DesignSettingsPatch, now time.Time) (map[string]interface{}, error) {
	ct := patch.Changes()
	if !ct.HasChanges() {
		return nil, nil
	}
	updates := map[string]interface{}{}
	str := func(field, col string, v *string) {
		if ct.Dirty(field) {
			updates[col] = *v
		}
	}
	flag := func(field, col string, v *bool) {
		if ct.Dirty(field) {
			updates[col] = *v
		}
	}
	str(domain.FieldDesignName, m_design.ColName, patch.Name)
	str(domain.FieldDesignDescription, m_design.ColDescription, patch.Description)
	str(domain.FieldDesignPrimaryColor, m_design.ColPrimaryColor, patch.PrimaryColor)
	str(domain.FieldDesignSecondaryColor, m_design.ColSecondaryColor, patch.SecondaryColor)
	str(domain.FieldDesignBackgroundColor, m_design.ColBackgroundColor, patch.BackgroundColor)
	str(domain.FieldDesignTextColor, m_design.ColTextColor, patch.TextColor)
	str(domain.FieldDesignLogoURL, m_design.ColLogoURL, patch.LogoURL)
	str(domain.FieldDesignBannerURL, m_design.ColBannerURL, patch.BannerURL)
	str(domain.FieldDesignBannerGradient, m_design.ColBannerGradient, patch.BannerGradient)
	flag(domain.FieldDesignShowLogo, m_design.ColShowLogo, patch.ShowLogo)
	flag(domain.FieldDesignShowBanner, m_design.ColShowBanner, patch.ShowBanner)
	flag(domain.FieldDesignShowDescription, m_design.ColShowDescription, patch.ShowDescription)
	if ct.Dirty(domain.FieldDesignCategoryIcons) {
		icons, err := encodeIcons(patch.CategoryIcons)
		if err != nil {
			return nil, err
		}
		updates[m_design.ColCategoryIcons] = icons
	}
	updates[m_design.ColUpdatedAt] = now.UTC()
	return updates, nil
}

// UpdateMut returns nil when the patch is empty.
func (r *DesignRepo) UpdateMut(tenantID string, patch domain.DesignSettingsPatch, now time.Time) (*spanner.Mutation, error) {
	updates, err := buildUpdateValues(patch, now)
	if err != nil || updates == nil {
		return nil, err
	}
	return m_design.UpdateMutation(tenantID, updates), nil
}

func encodeIcons(icons map[string]string) (string, error) {
	if icons == nil {
		icons = map[string]string{}
	}
	b, err := json.Marshal(icons)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeIcons parses the stored category icon JSON. Empty or invalid text
// yields an empty map.
func DecodeIcons(raw string) map[string]string {
	out := map[string]string{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]string{}
	}
	return out
}
