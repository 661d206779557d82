package m_config

// Field constants for the operating_configs table. A tenant should have one
// row; readers take the most recently updated one when there are more.
const (
	TableName = "operating_configs"

	ColConfigID          = "config_id"
	ColTenantID          = "tenant_id"
	ColPhone             = "phone"
	ColOpenTime          = "open_time"
	ColCloseTime         = "close_time"
	ColDays              = "days"
	ColSaturdayOpen      = "saturday_open"
	ColSaturdayOpenTime  = "saturday_open_time"
	ColSaturdayCloseTime = "saturday_close_time"
	ColSundayOpen        = "sunday_open"
	ColSundayOpenTime    = "sunday_open_time"
	ColSundayCloseTime   = "sunday_close_time"
	ColUpdatedAt         = "updated_at"
)

var SelectColumns = []string{
	ColConfigID, ColTenantID, ColPhone, ColOpenTime, ColCloseTime, ColDays,
	ColSaturdayOpen, ColSaturdayOpenTime, ColSaturdayCloseTime,
	ColSundayOpen, ColSundayOpenTime, ColSundayCloseTime, ColUpdatedAt,
}
