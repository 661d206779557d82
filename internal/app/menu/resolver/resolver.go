// Package resolver loads the bundle of resources that makes up one storefront,
// either for a public visitor arriving with a short code or for the operator
// who owns the store.
package resolver

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

// DefaultCodeAttempts bounds how many codes are tried before giving up.
const DefaultCodeAttempts = 8

// Bundle is everything a storefront needs to render.
type Bundle struct {
	TenantID string
	Design   *domain.DesignSettings
	Config   *domain.OperatingConfig
	Products []domain.Product
}

type Resolver struct {
	port         contracts.PersistencePort
	clock        clock.Clock
	randomCode   func() (string, error)
	codeAttempts int
}

func New(port contracts.PersistencePort, clk clock.Clock) *Resolver {
	return &Resolver{
		port:         port,
		clock:        clk,
		randomCode:   domain.RandomTenantCode,
		codeAttempts: DefaultCodeAttempts,
	}
}

// ResolveByCode loads the public storefront owning code. Unknown or malformed
// codes yield domain.ErrTenantNotFound; a malformed code costs no I/O.
func (r *Resolver) ResolveByCode(ctx context.Context, code string) (*Bundle, error) {
	code = domain.NormalizeTenantCode(code)
	if !domain.ValidTenantCode(code) {
		return nil, domain.ErrTenantNotFound
	}

	tenantID, err := r.port.FindTenantByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTenantNotFound
	}
	if err != nil {
		return nil, domain.PersistenceError("find tenant by code", err)
	}

	b := &Bundle{TenantID: tenantID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := r.port.GetDesignSettings(gctx, tenantID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTenantNotFound
		}
		if err != nil {
			return domain.PersistenceError("get design settings", err)
		}
		b.Design = d
		return nil
	})
	g.Go(func() error {
		cfg, err := r.loadConfig(gctx, tenantID)
		b.Config = cfg
		return err
	})
	g.Go(func() error {
		products, err := r.port.ListProducts(gctx, tenantID, true)
		if err != nil {
			return domain.PersistenceError("list products", err)
		}
		b.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}

// ResolveForOperator loads the operator's own store, including unavailable
// products. It guarantees a design row with a public code exists, merging
// defaults under whatever the operator already saved.
func (r *Resolver) ResolveForOperator(ctx context.Context, identity string, defaults domain.DesignSettings) (*Bundle, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, domain.ErrEmptyIdentity
	}

	b := &Bundle{TenantID: identity}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := r.ensureDesign(gctx, identity, defaults)
		b.Design = d
		return err
	})
	g.Go(func() error {
		cfg, err := r.loadConfig(gctx, identity)
		b.Config = cfg
		return err
	})
	g.Go(func() error {
		products, err := r.port.ListProducts(gctx, identity, false)
		if err != nil {
			return domain.PersistenceError("list products", err)
		}
		b.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}

// loadConfig falls back to the default schedule when the tenant never saved one.
func (r *Resolver) loadConfig(ctx context.Context, tenantID string) (*domain.OperatingConfig, error) {
	cfg, err := r.port.GetOperatingConfig(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultOperatingConfig(tenantID), nil
	}
	if err != nil {
		return nil, domain.PersistenceError("get operating config", err)
	}
	return cfg, nil
}

func (r *Resolver) ensureDesign(ctx context.Context, identity string, defaults domain.DesignSettings) (*domain.DesignSettings, error) {
	existing, err := r.port.GetDesignSettings(ctx, identity)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.PersistenceError("get design settings", err)
	}

	// A missing record starts from the full defaults; a stored one keeps its values
	var merged *domain.DesignSettings
	if existing == nil {
		merged = defaults.Clone()
		if merged.CategoryIcons == nil {
			merged.CategoryIcons = map[string]string{}
		}
		merged.TenantID = identity
	} else {
		merged = existing.WithDefaults(defaults)
	}

	if merged.Code != "" {
		if existing != nil && merged.Equal(existing) {
			return existing, nil
		}
		merged.UpdatedAt = r.clock.Now()
		if err := r.port.UpsertDesignSettings(ctx, merged); err != nil {
			return nil, domain.PersistenceError("upsert design settings", err)
		}
		return merged, nil
	}
	return r.assignCode(ctx, identity, merged)
}

// assignCode tries the derived code first, then random ones, and persists the
// row with the first code nobody else owns.
func (r *Resolver) assignCode(ctx context.Context, identity string, d *domain.DesignSettings) (*domain.DesignSettings, error) {
	candidate := domain.DeriveTenantCode(identity)
	for attempt := 0; attempt < r.codeAttempts; attempt++ {
		if attempt > 0 {
			code, err := r.randomCode()
			if err != nil {
				return nil, err
			}
			candidate = code
		}

		owner, err := r.port.FindTenantByCode(ctx, candidate)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return nil, domain.PersistenceError("find tenant by code", err)
		case owner != identity:
			continue
		}

		d.Code = candidate
		d.UpdatedAt = r.clock.Now()
		err = r.port.UpsertDesignSettings(ctx, d)
		if errors.Is(err, domain.ErrTenantCodeConflict) {
			continue
		}
		if err != nil {
			return nil, domain.PersistenceError("upsert design settings", err)
		}
		return d, nil
	}
	return nil, domain.ErrTenantCodeExhausted
}
