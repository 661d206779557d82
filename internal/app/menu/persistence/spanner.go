package persistence

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries"
	"github.com/murkotick/digital-menu-service/internal/app/menu/queries/get_config"
	"github.com/murkotick/digital-menu-service/internal/app/menu/repo"
	"github.com/murkotick/digital-menu-service/internal/models/m_design"
	"github.com/murkotick/digital-menu-service/internal/models/m_product"
	"github.com/murkotick/digital-menu-service/internal/pkg/committer"
)

// Spanner is the Cloud Spanner PersistencePort. Reads go through the read
// model; writes are built by the repos and committed as a single plan.
type Spanner struct {
	*queries.SpannerReadModel

	committer   *committer.Adapter
	designRepo  *repo.DesignRepo
	configRepo  *repo.ConfigRepo
	productRepo *repo.ProductRepo
	optionRepo  *repo.OptionRepo
	newID       func() string
}

var _ contracts.PersistencePort = (*Spanner)(nil)

func NewSpanner(client *spanner.Client) *Spanner {
	return &Spanner{
		SpannerReadModel: queries.NewSpannerReadModel(client),
		committer:        committer.NewAdapter(client),
		designRepo:       repo.NewDesignRepo(),
		configRepo:       repo.NewConfigRepo(),
		productRepo:      repo.NewProductRepo(),
		optionRepo:       repo.NewOptionRepo(),
		newID:            uuid.NewString,
	}
}

// UpsertDesignSettings writes the full row. The code column is only written
// while the stored row has none, so an assigned code never changes.
func (s *Spanner) UpsertDesignSettings(ctx context.Context, d *domain.DesignSettings) error {
	err := s.committer.ApplyFunc(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		includeCode := true
		row, err := tx.ReadRow(ctx, m_design.TableName, spanner.Key{d.TenantID}, []string{m_design.ColCode})
		switch {
		case spanner.ErrCode(err) == codes.NotFound:
		case err != nil:
			return nil, err
		default:
			var code spanner.NullString
			if err := row.Columns(&code); err != nil {
				return nil, err
			}
			includeCode = code.StringVal == ""
		}

		mut, err := s.designRepo.UpsertMut(d, includeCode)
		if err != nil {
			return nil, err
		}
		return committer.NewPlan(mut), nil
	})
	if spanner.ErrCode(err) == codes.AlreadyExists {
		return domain.ErrTenantCodeConflict
	}
	return translate(err)
}

func (s *Spanner) UpdateDesignSettings(ctx context.Context, tenantID string, patch domain.DesignSettingsPatch, now time.Time) error {
	mut, err := s.designRepo.UpdateMut(tenantID, patch, now)
	if err != nil {
		return err
	}
	return translate(s.committer.Apply(ctx, committer.NewPlan(mut)))
}

// UpdateOperatingConfig patches the newest row, inserting a default row first
// when the tenant has none.
func (s *Spanner) UpdateOperatingConfig(ctx context.Context, tenantID string, patch domain.OperatingConfigPatch, now time.Time) error {
	err := s.committer.ApplyFunc(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		// 1. Find the row to patch
		current, err := get_config.Newest(tx.Query(ctx, get_config.Statement(tenantID)))
		if errors.Is(err, domain.ErrNotFound) {
			fresh := domain.DefaultOperatingConfig(tenantID)
			fresh.ConfigID = s.newID()
			fresh.UpdatedAt = now
			// 2. A brand-new row carries the patch directly
			return committer.NewPlan(s.configRepo.InsertMut(patch.Apply(fresh, now))), nil
		}
		if err != nil {
			return nil, err
		}

		// 3. Existing row: write only the touched columns
		return committer.NewPlan(s.configRepo.UpdateMut(current.ConfigID, patch, now)), nil
	})
	return translate(err)
}

func (s *Spanner) InsertProduct(ctx context.Context, p *domain.Product) error {
	return translate(s.committer.Apply(ctx, committer.NewPlan(s.productRepo.InsertMut(p))))
}

// UpdateProduct replaces the mutable columns of an existing product of the tenant.
func (s *Spanner) UpdateProduct(ctx context.Context, p *domain.Product) error {
	err := s.committer.ApplyFunc(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		if err := ensureProduct(ctx, tx, p.TenantID, p.ID); err != nil {
			return nil, err
		}
		return committer.NewPlan(s.productRepo.UpdateMut(p)), nil
	})
	return translate(err)
}

func (s *Spanner) DeleteProduct(ctx context.Context, tenantID, productID string) error {
	err := s.committer.ApplyFunc(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		if err := ensureProduct(ctx, tx, tenantID, productID); err != nil {
			return nil, err
		}
		return committer.NewPlan(s.productRepo.DeleteMut(productID)), nil
	})
	return translate(err)
}

func (s *Spanner) InsertOption(ctx context.Context, tenantID string, kind domain.OptionKind, name string) error {
	return translate(s.committer.Apply(ctx, committer.NewPlan(s.optionRepo.InsertMut(tenantID, kind, name))))
}

// ensureProduct fails with domain.ErrNotFound unless productID exists and
// belongs to tenantID.
func ensureProduct(ctx context.Context, tx *spanner.ReadWriteTransaction, tenantID, productID string) error {
	row, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, []string{m_product.ColTenantID})
	if spanner.ErrCode(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	var owner string
	if err := row.Columns(&owner); err != nil {
		return err
	}
	if owner != tenantID {
		return domain.ErrNotFound
	}
	return nil
}

// translate maps a Spanner NOT_FOUND onto domain.ErrNotFound.
func translate(err error) error {
	switch spanner.ErrCode(err) {
	case codes.OK:
		return err
	case codes.NotFound:
		return domain.ErrNotFound
	}
	return err
}
