package persistence

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

func TestDesignArgs(t *testing.T) {
	d := &domain.DesignSettings{TenantID: "tenant-1", Code: "abc12", Name: "Doces", UpdatedAt: now}
	args := designArgs(d)
	require.Len(t, args, 16)
	assert.Equal(t, "tenant-1", args[0])
	assert.Equal(t, "abc12", args[1])
	assert.Equal(t, "{}", args[10])
	assert.Equal(t, now, args[15])
}

func TestProductArgs(t *testing.T) {
	promo := decimal.RequireFromString("9.90")
	p := &domain.Product{ID: "p1", TenantID: "tenant-1", Price: decimal.RequireFromString("12.50"), PromotionalPrice: &promo}
	args := productArgs(p)
	require.Len(t, args, 16)
	assert.Equal(t, "12.5", args[4])
	require.IsType(t, (*string)(nil), args[5])
	assert.Equal(t, "9.9", *args[5].(*string))
	assert.Equal(t, []string{}, args[11])

	p.PromotionalPrice = nil
	assert.Nil(t, productArgs(p)[5])
}

func TestConfigArgs(t *testing.T) {
	args := configArgs(&domain.OperatingConfig{ConfigID: "c1", TenantID: "tenant-1"})
	require.Len(t, args, 13)
	assert.Equal(t, []string{}, args[5])
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(nil))
}

func TestNewPostgres_RequiresPool(t *testing.T) {
	_, err := NewPostgres(nil)
	assert.Error(t, err)
}

// TestPostgres_RoundTrip runs against a real database when TEST_DATABASE_URL is set.
func TestPostgres_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	port, err := NewPostgres(pool)
	require.NoError(t, err)
	require.NoError(t, port.EnsureSchema(ctx))

	tenant := "pg-" + uuid.NewString()
	code := domain.DeriveTenantCode(uuid.NewString())

	// 1. Design: the first code sticks
	require.NoError(t, port.UpsertDesignSettings(ctx, &domain.DesignSettings{TenantID: tenant, Code: code, Name: "A", UpdatedAt: now}))
	require.NoError(t, port.UpsertDesignSettings(ctx, &domain.DesignSettings{TenantID: tenant, Code: "other", Name: "B", UpdatedAt: now}))
	d, err := port.GetDesignSettings(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, code, d.Code)
	assert.Equal(t, "B", d.Name)

	found, err := port.FindTenantByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, tenant, found)

	// 2. Config: created on first patch
	phone := "(11) 4000-1234"
	require.NoError(t, port.UpdateOperatingConfig(ctx, tenant, domain.OperatingConfigPatch{Phone: &phone}, now))
	cfg, err := port.GetOperatingConfig(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, phone, cfg.Phone)

	// 3. Products keep exact prices
	promo := decimal.RequireFromString("7.99")
	p := &domain.Product{ID: uuid.NewString(), TenantID: tenant, Name: "Pudim", Price: decimal.RequireFromString("10.10"),
		PromotionalPrice: &promo, SaleUnit: domain.SaleUnitUnit, Available: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, port.InsertProduct(ctx, p))
	list, err := port.ListProducts(ctx, tenant, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Price.Equal(p.Price))
	assert.True(t, list[0].PromotionalPrice.Equal(promo))

	assert.ErrorIs(t, port.DeleteProduct(ctx, "someone-else", p.ID), domain.ErrNotFound)
	require.NoError(t, port.DeleteProduct(ctx, tenant, p.ID))

	// 4. Options sorted by name
	require.NoError(t, port.InsertOption(ctx, tenant, domain.OptionBase, "Chocolate"))
	require.NoError(t, port.InsertOption(ctx, tenant, domain.OptionBase, "Baunilha"))
	names, err := port.ListOptions(ctx, tenant, domain.OptionBase)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baunilha", "Chocolate"}, names)
}
