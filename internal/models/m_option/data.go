package m_option

import (
	"cloud.google.com/go/spanner"
)

// InsertMutation adds one option; created_at takes the commit timestamp.
func InsertMutation(tenantID, kind, name string) *spanner.Mutation {
	return spanner.Insert(TableName,
		[]string{ColTenantID, ColKind, ColName, ColCreatedAt},
		[]interface{}{tenantID, kind, name, spanner.CommitTimestamp},
	)
}
