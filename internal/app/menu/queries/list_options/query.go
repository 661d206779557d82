package list_options

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

type SpannerListOptionsQuery struct {
	Client *spanner.Client
}

func NewSpannerListOptionsQuery(client *spanner.Client) *SpannerListOptionsQuery {
	return &SpannerListOptionsQuery{Client: client}
}

// ListOptions returns the option names of kind sorted ascending.
func (q *SpannerListOptionsQuery) ListOptions(ctx context.Context, tenantID string, kind domain.OptionKind) ([]string, error) {
	stmt := spanner.Statement{
		SQL: `SELECT name FROM customization_options
			WHERE tenant_id = @tenant AND kind = @kind
			ORDER BY name ASC`,
		Params: map[string]interface{}{"tenant": tenantID, "kind": string(kind)},
	}
	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := []string{}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var name string
		if err := row.Columns(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
}
