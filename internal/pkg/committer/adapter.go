package committer

import (
	"context"
	"errors"

	"cloud.google.com/go/spanner"
)

var errNilClient = errors.New("committer: spanner client is nil")

// Adapter applies plans in a read-write transaction.
type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply commits plan. An empty plan is a no-op.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	return a.ApplyFunc(ctx, func(context.Context, *spanner.ReadWriteTransaction) (*Plan, error) {
		return plan, nil
	})
}

// ApplyFunc lets build read inside the transaction before deciding what to
// write. build may run more than once when Spanner retries the transaction.
func (a *Adapter) ApplyFunc(ctx context.Context, build func(context.Context, *spanner.ReadWriteTransaction) (*Plan, error)) error {
	if a.client == nil {
		return errNilClient
	}
	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		plan, err := build(ctx, tx)
		if err != nil {
			return err
		}
		if plan.IsEmpty() {
			return nil
		}
		return tx.BufferWrite(plan.Mutations())
	})
	return err
}
