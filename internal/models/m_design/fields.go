package m_design

// Field constants for the design_settings table. One row per tenant.
const (
	TableName = "design_settings"

	// CodeIndex enforces one tenant per public code.
	CodeIndex = "design_settings_by_code"

	ColTenantID        = "tenant_id"
	ColCode            = "code"
	ColName            = "name"
	ColDescription     = "description"
	ColPrimaryColor    = "primary_color"
	ColSecondaryColor  = "secondary_color"
	ColBackgroundColor = "background_color"
	ColTextColor       = "text_color"
	ColLogoURL         = "logo_url"
	ColBannerURL       = "banner_url"
	ColCategoryIcons   = "category_icons"
	ColBannerGradient  = "banner_gradient"
	ColShowLogo        = "show_logo"
	ColShowBanner      = "show_banner"
	ColShowDescription = "show_description"
	ColUpdatedAt       = "updated_at"
)

var SelectColumns = []string{
	ColTenantID, ColCode, ColName, ColDescription, ColPrimaryColor, ColSecondaryColor,
	ColBackgroundColor, ColTextColor, ColLogoURL, ColBannerURL, ColCategoryIcons,
	ColBannerGradient, ColShowLogo, ColShowBanner, ColShowDescription, ColUpdatedAt,
}
