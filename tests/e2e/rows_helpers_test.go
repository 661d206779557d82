package e2e

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
)

type configRow struct {
	ConfigID  string
	Phone     string
	UpdatedAt time.Time
}

func mustFetchConfigRows(ctx context.Context, t *testing.T, client *spanner.Client, tenantID string) []configRow {
	t.Helper()
	items, err := fetchConfigRows(ctx, client, tenantID)
	require.NoError(t, err)
	return items
}

func fetchConfigRows(ctx context.Context, client *spanner.Client, tenantID string) ([]configRow, error) {
	stmt := spanner.Statement{
		SQL: `SELECT config_id, phone, updated_at
        FROM operating_configs
        WHERE tenant_id = @tenant
        ORDER BY updated_at ASC, config_id ASC`,
		Params: map[string]any{"tenant": tenantID},
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := make([]configRow, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var (
			r     configRow
			phone spanner.NullString
		)
		if err := row.Columns(&r.ConfigID, &phone, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Phone = phone.StringVal
		out = append(out, r)
	}
}
