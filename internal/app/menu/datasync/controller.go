// Package datasync owns an operator's view of their own store: it loads every
// resource into a cache.Store and keeps that cache in step with storage as the
// operator edits.
package datasync

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cache"
	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

// ErrClosed is returned by operations on, or finishing after, a closed controller.
var ErrClosed = errors.New("datasync: controller closed")

type Controller struct {
	port     contracts.PersistencePort
	resolver *resolver.Resolver
	cache    *cache.Store
	pub      contracts.Publisher
	clock    clock.Clock
	logger   *log.Logger
	defaults domain.DesignSettings
	newID    func() string

	mu       sync.Mutex
	tenantID string
	epoch    uint64
	closed   bool
}

// New wires a controller. pub and logger may be nil.
func New(port contracts.PersistencePort, store *cache.Store, pub contracts.Publisher, clk clock.Clock, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		port:     port,
		resolver: resolver.New(port, clk),
		cache:    store,
		pub:      pub,
		clock:    clk,
		logger:   logger,
		defaults: domain.DefaultDesignSettings(),
		newID:    uuid.NewString,
	}
}

// WithDefaults replaces the design defaults merged in on load.
func (c *Controller) WithDefaults(d domain.DesignSettings) *Controller {
	c.defaults = d
	return c
}

// Cache exposes the read side. Every getter returns a copy.
func (c *Controller) Cache() *cache.Store {
	return c.cache
}

// TenantID is the identity of the last successful load, or "".
func (c *Controller) TenantID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tenantID
}

// Close makes every in-flight and future call a no-op on the cache.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.epoch++
	c.mu.Unlock()
}

// LoadAll fetches the operator's store and replaces the cache wholesale. On
// failure the cache keeps its previous contents.
func (c *Controller) LoadAll(ctx context.Context, identity string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	epoch := c.epoch
	c.mu.Unlock()

	// 1. Resolve the bundle and the three option lists in parallel
	var bundle *resolver.Bundle
	options := make([][]string, len(domain.OptionKinds))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.resolver.ResolveForOperator(gctx, identity, c.defaults)
		bundle = b
		return err
	})
	for i, kind := range domain.OptionKinds {
		g.Go(func() error {
			names, err := c.port.ListOptions(gctx, strings.TrimSpace(identity), kind)
			if err != nil {
				return domain.PersistenceError("list "+string(kind)+" options", err)
			}
			options[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Printf("datasync: load tenant %q: %v", identity, err)
		return classify("load tenant", err)
	}

	// 2. Write every kind unless the controller moved on meanwhile
	applied := c.applyLocked(epoch, func() {
		if c.tenantID != bundle.TenantID {
			c.epoch++
			c.tenantID = bundle.TenantID
		}
		c.cache.SetDesign(bundle.Design)
		c.cache.SetConfig(bundle.Config)
		c.cache.SetProducts(bundle.Products)
		for i, kind := range domain.OptionKinds {
			c.cache.SetOptions(kind, options[i])
		}
	})
	if !applied {
		return ErrClosed
	}

	// 3. Announce
	c.publish(bundle.TenantID, contracts.ScopeAll)
	return nil
}

// Reload repeats LoadAll for the current tenant.
func (c *Controller) Reload(ctx context.Context) error {
	tenantID, _, err := c.begin()
	if err != nil {
		return err
	}
	return c.LoadAll(ctx, tenantID)
}

// IsStale reports whether any cached kind is older than maxAge.
func (c *Controller) IsStale(maxAge time.Duration) bool {
	for _, k := range cache.Kinds {
		if c.cache.IsStale(k, maxAge) {
			return true
		}
	}
	return false
}

// MutateDesignSettings persists patch and merges it into the cached settings.
func (c *Controller) MutateDesignSettings(ctx context.Context, patch domain.DesignSettingsPatch) error {
	tenantID, epoch, err := c.begin()
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	now := c.clock.Now()

	if err := c.port.UpdateDesignSettings(ctx, tenantID, patch, now); err != nil {
		return c.failed("update design settings", err)
	}
	if !c.applyLocked(epoch, func() {
		c.cache.SetDesign(patch.Apply(c.cache.Design(), now))
	}) {
		return ErrClosed
	}
	c.publish(tenantID, contracts.ScopeDesign)
	return nil
}

// MutateOperatingConfig persists patch and merges it into the cached config.
func (c *Controller) MutateOperatingConfig(ctx context.Context, patch domain.OperatingConfigPatch) error {
	tenantID, epoch, err := c.begin()
	if err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	now := c.clock.Now()

	if err := c.port.UpdateOperatingConfig(ctx, tenantID, patch, now); err != nil {
		return c.failed("update operating config", err)
	}
	if !c.applyLocked(epoch, func() {
		current := c.cache.Config()
		if current == nil {
			current = domain.DefaultOperatingConfig(tenantID)
		}
		c.cache.SetConfig(patch.Apply(current, now))
	}) {
		return ErrClosed
	}
	c.publish(tenantID, contracts.ScopeConfig)
	return nil
}

// AddProduct creates a product and puts it first in the cached catalog.
func (c *Controller) AddProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	tenantID, epoch, err := c.begin()
	if err != nil {
		return nil, err
	}

	// 1. Build and validate before any I/O
	p, err := domain.NewProduct(c.newID(), tenantID, in, c.clock.Now())
	if err != nil {
		return nil, err
	}

	// 2. Persist
	if err := c.port.InsertProduct(ctx, p); err != nil {
		return nil, c.failed("insert product", err)
	}

	// 3. Prepend to the cache
	if !c.applyLocked(epoch, func() {
		c.cache.UpdateProducts(func(list []domain.Product) []domain.Product {
			return append([]domain.Product{p.Clone()}, list...)
		})
	}) {
		return nil, ErrClosed
	}
	c.publish(tenantID, contracts.ScopeProducts)
	return p, nil
}

// EditProduct replaces a product in storage and in place in the cache.
func (c *Controller) EditProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tenantID, epoch, err := c.begin()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.ID) == "" {
		return nil, domain.ErrEmptyProductID
	}

	edited := p.Clone()
	edited.TenantID = tenantID
	edited.Name = strings.TrimSpace(edited.Name)
	if edited.SaleUnit == "" {
		edited.SaleUnit = domain.SaleUnitUnit
	}
	if edited.CreatedAt.IsZero() {
		for _, cached := range c.cache.Products() {
			if cached.ID == edited.ID {
				edited.CreatedAt = cached.CreatedAt
			}
		}
	}
	edited.UpdatedAt = c.clock.Now()
	if err := edited.Validate(); err != nil {
		return nil, err
	}

	if err := c.port.UpdateProduct(ctx, &edited); err != nil {
		return nil, c.failed("update product", err)
	}
	if !c.applyLocked(epoch, func() {
		c.cache.UpdateProducts(func(list []domain.Product) []domain.Product {
			for i := range list {
				if list[i].ID == edited.ID {
					list[i] = edited.Clone()
				}
			}
			return list
		})
	}) {
		return nil, ErrClosed
	}
	c.publish(tenantID, contracts.ScopeProducts)
	return &edited, nil
}

// RemoveProduct deletes a product and filters it out of the cache.
func (c *Controller) RemoveProduct(ctx context.Context, productID string) error {
	tenantID, epoch, err := c.begin()
	if err != nil {
		return err
	}
	if strings.TrimSpace(productID) == "" {
		return domain.ErrEmptyProductID
	}

	if err := c.port.DeleteProduct(ctx, tenantID, productID); err != nil {
		return c.failed("delete product", err)
	}
	if !c.applyLocked(epoch, func() {
		c.cache.UpdateProducts(func(list []domain.Product) []domain.Product {
			return slices.DeleteFunc(list, func(p domain.Product) bool { return p.ID == productID })
		})
	}) {
		return ErrClosed
	}
	c.publish(tenantID, contracts.ScopeProducts)
	return nil
}

// AddCustomizationOption adds name to the option list of kind. Empty names and
// exact duplicates of cached names are rejected without I/O.
func (c *Controller) AddCustomizationOption(ctx context.Context, kind domain.OptionKind, name string) error {
	tenantID, epoch, err := c.begin()
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return domain.ErrInvalidOptionKind
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyOptionName
	}
	if slices.Contains(c.cache.Options(kind), name) {
		return domain.ErrDuplicateOption
	}

	if err := c.port.InsertOption(ctx, tenantID, kind, name); err != nil {
		return c.failed("insert "+string(kind)+" option", err)
	}
	if !c.applyLocked(epoch, func() {
		c.cache.UpdateOptions(kind, func(list []string) []string {
			list = append(list, name)
			slices.Sort(list)
			return list
		})
	}) {
		return ErrClosed
	}
	c.publish(tenantID, contracts.ScopeProducts)
	return nil
}

// begin returns the loaded tenant and the epoch the caller's result must match.
func (c *Controller) begin() (string, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", 0, ErrClosed
	}
	if c.tenantID == "" {
		return "", 0, domain.ErrNoTenant
	}
	return c.tenantID, c.epoch, nil
}

// applyLocked runs fn only if nothing invalidated epoch since the call began.
func (c *Controller) applyLocked(epoch uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.epoch != epoch {
		return false
	}
	fn()
	return true
}

func (c *Controller) failed(op string, err error) error {
	c.logger.Printf("datasync: %s: %v", op, err)
	return domain.PersistenceError(op, err)
}

func (c *Controller) publish(tenantID, scope string) {
	if c.pub != nil {
		c.pub.PublishTenantChanged(tenantID, scope)
	}
}

// classify keeps validation and already classified storage errors as they are
// and wraps anything else as a persistence failure.
func classify(op string, err error) error {
	if errors.Is(err, domain.ErrPersistence) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return domain.PersistenceError(op, err)
}
