package domain

import (
	"maps"
	"time"
)

// Field constants for design settings change tracking.
const (
	FieldDesignName            = "name"
	FieldDesignDescription     = "description"
	FieldDesignPrimaryColor    = "primary_color"
	FieldDesignSecondaryColor  = "secondary_color"
	FieldDesignBackgroundColor = "background_color"
	FieldDesignTextColor       = "text_color"
	FieldDesignLogoURL         = "logo_url"
	FieldDesignBannerURL       = "banner_url"
	FieldDesignCategoryIcons   = "category_icons"
	FieldDesignBannerGradient  = "banner_gradient"
	FieldDesignShowLogo        = "show_logo"
	FieldDesignShowBanner      = "show_banner"
	FieldDesignShowDescription = "show_description"
)

// DesignSettings is the storefront look of one tenant. It also carries the
// tenant's public code.
type DesignSettings struct {
	TenantID        string            `json:"tenantId"`
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	PrimaryColor    string            `json:"primaryColor"`
	SecondaryColor  string            `json:"secondaryColor"`
	BackgroundColor string            `json:"backgroundColor"`
	TextColor       string            `json:"textColor"`
	LogoURL         string            `json:"logoUrl"`
	BannerURL       string            `json:"bannerUrl"`
	CategoryIcons   map[string]string `json:"categoryIcons"`
	BannerGradient  string            `json:"bannerGradient"`
	ShowLogo        bool              `json:"showLogo"`
	ShowBanner      bool              `json:"showBanner"`
	ShowDescription bool              `json:"showDescription"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// DefaultDesignSettings are the values a brand-new storefront starts with.
func DefaultDesignSettings() DesignSettings {
	return DesignSettings{
		Name:            "Minha Loja",
		Description:     "Confira nosso cardápio e faça seu pedido pelo WhatsApp.",
		PrimaryColor:    "#E11D48",
		SecondaryColor:  "#FDE68A",
		BackgroundColor: "#FFFFFF",
		TextColor:       "#1F2937",
		CategoryIcons:   map[string]string{},
		BannerGradient:  "linear-gradient(135deg, #E11D48 0%, #F59E0B 100%)",
		ShowLogo:        true,
		ShowBanner:      true,
		ShowDescription: true,
	}
}

// Clone returns a deep copy.
func (d *DesignSettings) Clone() *DesignSettings {
	if d == nil {
		return nil
	}
	out := *d
	out.CategoryIcons = maps.Clone(d.CategoryIcons)
	return &out
}

// WithDefaults returns a copy of a stored record with only the parts the
// record truly lacks taken from defaults. Text fields and visibility flags are
// NOT NULL columns, so an empty string is an operator's choice and is kept.
// Only a category icon map that was never stored (nil) is filled.
func (d *DesignSettings) WithDefaults(defaults DesignSettings) *DesignSettings {
	out := d.Clone()
	if out.CategoryIcons == nil {
		out.CategoryIcons = maps.Clone(defaults.CategoryIcons)
		if out.CategoryIcons == nil {
			out.CategoryIcons = map[string]string{}
		}
	}
	return out
}

// Equal compares every stored field except UpdatedAt.
func (d *DesignSettings) Equal(other *DesignSettings) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.TenantID == other.TenantID &&
		d.Code == other.Code &&
		d.Name == other.Name &&
		d.Description == other.Description &&
		d.PrimaryColor == other.PrimaryColor &&
		d.SecondaryColor == other.SecondaryColor &&
		d.BackgroundColor == other.BackgroundColor &&
		d.TextColor == other.TextColor &&
		d.LogoURL == other.LogoURL &&
		d.BannerURL == other.BannerURL &&
		d.BannerGradient == other.BannerGradient &&
		d.ShowLogo == other.ShowLogo &&
		d.ShowBanner == other.ShowBanner &&
		d.ShowDescription == other.ShowDescription &&
		maps.Equal(d.CategoryIcons, other.CategoryIcons)
}

// DesignSettingsPatch is a partial update. Nil fields are left untouched. The
// public code is deliberately absent: it never changes once assigned.
type DesignSettingsPatch struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	PrimaryColor    *string           `json:"primaryColor,omitempty"`
	SecondaryColor  *string           `json:"secondaryColor,omitempty"`
	BackgroundColor *string           `json:"backgroundColor,omitempty"`
	TextColor       *string           `json:"textColor,omitempty"`
	LogoURL         *string           `json:"logoUrl,omitempty"`
	BannerURL       *string           `json:"bannerUrl,omitempty"`
	CategoryIcons   map[string]string `json:"categoryIcons,omitempty"`
	BannerGradient  *string           `json:"bannerGradient,omitempty"`
	ShowLogo        *bool             `json:"showLogo,omitempty"`
	ShowBanner      *bool             `json:"showBanner,omitempty"`
	ShowDescription *bool             `json:"showDescription,omitempty"`
}

// Changes reports the fields this patch sets.
func (p DesignSettingsPatch) Changes() *ChangeTracker {
	ct := NewChangeTracker()
	mark := func(set bool, field string) {
		if set {
			ct.MarkDirty(field)
		}
	}
	mark(p.Name != nil, FieldDesignName)
	mark(p.Description != nil, FieldDesignDescription)
	mark(p.PrimaryColor != nil, FieldDesignPrimaryColor)
	mark(p.SecondaryColor != nil, FieldDesignSecondaryColor)
	mark(p.BackgroundColor != nil, FieldDesignBackgroundColor)
	mark(p.TextColor != nil, FieldDesignTextColor)
	mark(p.LogoURL != nil, FieldDesignLogoURL)
	mark(p.BannerURL != nil, FieldDesignBannerURL)
	mark(p.CategoryIcons != nil, FieldDesignCategoryIcons)
	mark(p.BannerGradient != nil, FieldDesignBannerGradient)
	mark(p.ShowLogo != nil, FieldDesignShowLogo)
	mark(p.ShowBanner != nil, FieldDesignShowBanner)
	mark(p.ShowDescription != nil, FieldDesignShowDescription)
	return ct
}

// IsEmpty reports whether the patch sets nothing.
func (p DesignSettingsPatch) IsEmpty() bool {
	return !p.Changes().HasChanges()
}

// Apply shallow-merges the patch into a copy of d and stamps UpdatedAt.
func (p DesignSettingsPatch) Apply(d *DesignSettings, now time.Time) *DesignSettings {
	out := d.Clone()
	if out == nil {
		out = &DesignSettings{}
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.Name, p.Name)
	set(&out.Description, p.Description)
	set(&out.PrimaryColor, p.PrimaryColor)
	set(&out.SecondaryColor, p.SecondaryColor)
	set(&out.BackgroundColor, p.BackgroundColor)
	set(&out.TextColor, p.TextColor)
	set(&out.LogoURL, p.LogoURL)
	set(&out.BannerURL, p.BannerURL)
	set(&out.BannerGradient, p.BannerGradient)
	if p.CategoryIcons != nil {
		out.CategoryIcons = maps.Clone(p.CategoryIcons)
	}
	setBool(&out.ShowLogo, p.ShowLogo)
	setBool(&out.ShowBanner, p.ShowBanner)
	setBool(&out.ShowDescription, p.ShowDescription)
	out.UpdatedAt = now
	return out
}
