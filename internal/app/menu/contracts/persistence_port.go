package contracts

import (
	"context"
	"time"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

// TenantDirectory maps public codes to tenant identities.
type TenantDirectory interface {
	// FindTenantByCode returns the identity owning code, or domain.ErrNotFound.
	FindTenantByCode(ctx context.Context, code string) (string, error)
}

// DesignStore persists design settings. Updates never touch the public code.
type DesignStore interface {
	// GetDesignSettings returns domain.ErrNotFound when the tenant has no row.
	GetDesignSettings(ctx context.Context, tenantID string) (*domain.DesignSettings, error)
	// UpsertDesignSettings writes the full row, creating it when absent.
	UpsertDesignSettings(ctx context.Context, s *domain.DesignSettings) error
	// UpdateDesignSettings writes only the fields the patch sets.
	UpdateDesignSettings(ctx context.Context, tenantID string, patch domain.DesignSettingsPatch, now time.Time) error
}

// ConfigStore persists operating configuration.
type ConfigStore interface {
	// GetOperatingConfig returns the most recently updated row or domain.ErrNotFound.
	GetOperatingConfig(ctx context.Context, tenantID string) (*domain.OperatingConfig, error)
	// UpdateOperatingConfig writes the patch, creating a default row first when absent.
	UpdateOperatingConfig(ctx context.Context, tenantID string, patch domain.OperatingConfigPatch, now time.Time) error
}

// ProductStore persists the catalog.
type ProductStore interface {
	// ListProducts returns products newest first.
	ListProducts(ctx context.Context, tenantID string, onlyAvailable bool) ([]domain.Product, error)
	InsertProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, tenantID, productID string) error
}

// OptionStore persists the three customization option lists.
type OptionStore interface {
	// ListOptions returns names sorted ascending.
	ListOptions(ctx context.Context, tenantID string, kind domain.OptionKind) ([]string, error)
	InsertOption(ctx context.Context, tenantID string, kind domain.OptionKind, name string) error
}

// PersistencePort is the full durable-storage contract consumed by the menu core.
// No transaction spans more than one call.
type PersistencePort interface {
	TenantDirectory
	DesignStore
	ConfigStore
	ProductStore
	OptionStore
}
