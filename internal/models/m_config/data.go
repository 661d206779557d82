package m_config

import (
	"cloud.google.com/go/spanner"
)

func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.Insert(TableName, cols, vals)
}

// UpdateMutation writes the given columns of the row identified by configID.
func UpdateMutation(configID string, values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColConfigID}
	vals := []interface{}{configID}
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.Update(TableName, cols, vals)
}
