package m_option

// Field constants for the customization_options table. The primary key
// (tenant_id, kind, name) rejects duplicate names per list.
const (
	TableName = "customization_options"

	ColTenantID  = "tenant_id"
	ColKind      = "kind"
	ColName      = "name"
	ColCreatedAt = "created_at"
)
