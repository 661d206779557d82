package m_design

import (
	"cloud.google.com/go/spanner"
)

// InsertOrUpdateMutation writes the given columns, creating the row when absent.
// values must contain ColTenantID.
func InsertOrUpdateMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.InsertOrUpdate(TableName, cols, vals)
}

// UpdateMutation writes the given columns of an existing row.
func UpdateMutation(tenantID string, values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColTenantID}
	vals := []interface{}{tenantID}
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.Update(TableName, cols, vals)
}
