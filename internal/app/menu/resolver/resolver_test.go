package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/persistence"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func setup() (*Resolver, *persistence.Memory) {
	port := persistence.NewMemory()
	return New(port, clock.NewFake(testNow)), port
}

func seedStore(port *persistence.Memory) {
	port.SeedDesign(&domain.DesignSettings{TenantID: "tenant-1", Code: "abc12", Name: "Doces da Ana"})
	port.SeedProduct(domain.Product{ID: "p1", TenantID: "tenant-1", Name: "Brigadeiro", Price: decimal.NewFromInt(3), Available: true, CreatedAt: testNow.Add(-time.Hour)})
	port.SeedProduct(domain.Product{ID: "p2", TenantID: "tenant-1", Name: "Bolo", Price: decimal.NewFromInt(40), Available: false, CreatedAt: testNow})
}

// TestResolveByCode_UnknownCode verifies a miss stops after the directory lookup.
func TestResolveByCode_UnknownCode(t *testing.T) {
	r, port := setup()
	seedStore(port)

	_, err := r.ResolveByCode(context.Background(), "zzzzz")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, port.Calls("FindTenantByCode"))
	assert.Equal(t, 1, port.TotalCalls())
}

// TestResolveByCode_MalformedCode verifies malformed codes never reach storage.
func TestResolveByCode_MalformedCode(t *testing.T) {
	r, port := setup()

	for _, code := range []string{"", "abc", "abcdef", "ab-12"} {
		_, err := r.ResolveByCode(context.Background(), code)
		assert.ErrorIs(t, err, domain.ErrTenantNotFound, code)
	}
	assert.Zero(t, port.TotalCalls())
}

// TestResolveByCode_Found verifies normalization, default config and available-only products.
func TestResolveByCode_Found(t *testing.T) {
	r, port := setup()
	seedStore(port)

	b, err := r.ResolveByCode(context.Background(), "  ABC12 ")
	require.NoError(t, err)

	assert.Equal(t, "tenant-1", b.TenantID)
	assert.Equal(t, "Doces da Ana", b.Design.Name)
	require.NotNil(t, b.Config)
	assert.Equal(t, "08:00", b.Config.OpenTime)
	require.Len(t, b.Products, 1)
	assert.Equal(t, "p1", b.Products[0].ID)
}

// TestResolveByCode_NewestConfigWins verifies duplicate config rows resolve to the latest.
func TestResolveByCode_NewestConfigWins(t *testing.T) {
	r, port := setup()
	seedStore(port)
	port.SeedConfig(&domain.OperatingConfig{TenantID: "tenant-1", Phone: "old", UpdatedAt: testNow.Add(-time.Hour)})
	port.SeedConfig(&domain.OperatingConfig{TenantID: "tenant-1", Phone: "new", UpdatedAt: testNow})

	b, err := r.ResolveByCode(context.Background(), "abc12")
	require.NoError(t, err)
	assert.Equal(t, "new", b.Config.Phone)
}

// TestResolveByCode_PersistenceFailure verifies storage errors are classified.
func TestResolveByCode_PersistenceFailure(t *testing.T) {
	r, port := setup()
	seedStore(port)
	port.FailWith("ListProducts", errors.New("connection reset"))

	_, err := r.ResolveByCode(context.Background(), "abc12")
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

// TestResolveForOperator_CreatesDesign verifies a first load provisions the store.
func TestResolveForOperator_CreatesDesign(t *testing.T) {
	r, port := setup()
	defaults := domain.DefaultDesignSettings()

	b, err := r.ResolveForOperator(context.Background(), "user-9F3K2", defaults)
	require.NoError(t, err)

	assert.Equal(t, "9f3k2", b.Design.Code)
	assert.Equal(t, defaults.Name, b.Design.Name)
	assert.Equal(t, testNow, b.Design.UpdatedAt)
	assert.Equal(t, 1, port.Calls("UpsertDesignSettings"))

	owner, err := port.FindTenantByCode(context.Background(), "9f3k2")
	require.NoError(t, err)
	assert.Equal(t, "user-9F3K2", owner)
}

// TestResolveForOperator_KeepsOperatorEdits verifies defaults never clobber saved values,
// including fields the operator left empty.
func TestResolveForOperator_KeepsOperatorEdits(t *testing.T) {
	r, port := setup()
	port.SeedDesign(&domain.DesignSettings{TenantID: "t1", Code: "aaaaa", Name: "Minha Doceria", PrimaryColor: "#000000"})

	b, err := r.ResolveForOperator(context.Background(), "t1", domain.DefaultDesignSettings())
	require.NoError(t, err)

	assert.Equal(t, "Minha Doceria", b.Design.Name)
	assert.Equal(t, "#000000", b.Design.PrimaryColor)
	assert.Empty(t, b.Design.TextColor)
	assert.Equal(t, "aaaaa", b.Design.Code)
	assert.Zero(t, port.Calls("UpsertDesignSettings"))
}

// TestResolveForOperator_MissingRowGetsDefaults verifies a first load writes the full defaults.
func TestResolveForOperator_MissingRowGetsDefaults(t *testing.T) {
	r, port := setup()
	defaults := domain.DefaultDesignSettings()

	b, err := r.ResolveForOperator(context.Background(), "t1", defaults)
	require.NoError(t, err)

	assert.Equal(t, "t1", b.Design.TenantID)
	assert.Equal(t, defaults.Name, b.Design.Name)
	assert.Equal(t, defaults.Description, b.Design.Description)
	assert.Equal(t, defaults.TextColor, b.Design.TextColor)
	assert.NotNil(t, b.Design.CategoryIcons)
	assert.Len(t, b.Design.Code, domain.TenantCodeLength)
	assert.Equal(t, 1, port.Calls("UpsertDesignSettings"))
}

// TestResolveForOperator_NoWriteWhenComplete verifies a complete row is not rewritten.
func TestResolveForOperator_NoWriteWhenComplete(t *testing.T) {
	r, port := setup()
	full := domain.DefaultDesignSettings()
	full.TenantID = "t1"
	full.Code = "bbbbb"
	full.LogoURL = "https://cdn.example/logo.png"
	full.BannerURL = "https://cdn.example/banner.png"
	port.SeedDesign(&full)

	defaults := domain.DefaultDesignSettings()
	_, err := r.ResolveForOperator(context.Background(), "t1", defaults)
	require.NoError(t, err)
	assert.Zero(t, port.Calls("UpsertDesignSettings"))
}

// TestResolveForOperator_CodeCollision verifies a taken derived code falls back to a random one.
func TestResolveForOperator_CodeCollision(t *testing.T) {
	r, port := setup()
	port.SeedDesign(&domain.DesignSettings{TenantID: "other", Code: "12345"})
	r.randomCode = func() (string, error) { return "rnd01", nil }

	b, err := r.ResolveForOperator(context.Background(), "owner-12345", domain.DefaultDesignSettings())
	require.NoError(t, err)
	assert.Equal(t, "rnd01", b.Design.Code)
}

// TestResolveForOperator_CodeExhausted verifies allocation gives up after bounded attempts.
func TestResolveForOperator_CodeExhausted(t *testing.T) {
	r, port := setup()
	port.SeedDesign(&domain.DesignSettings{TenantID: "other", Code: "12345"})
	r.randomCode = func() (string, error) { return "12345", nil }

	_, err := r.ResolveForOperator(context.Background(), "owner-12345", domain.DefaultDesignSettings())
	assert.ErrorIs(t, err, domain.ErrTenantCodeExhausted)
	assert.Equal(t, DefaultCodeAttempts, port.Calls("FindTenantByCode"))
}

// TestResolveForOperator_AllProducts verifies operators see unavailable products too.
func TestResolveForOperator_AllProducts(t *testing.T) {
	r, port := setup()
	seedStore(port)

	b, err := r.ResolveForOperator(context.Background(), "tenant-1", domain.DefaultDesignSettings())
	require.NoError(t, err)
	require.Len(t, b.Products, 2)
	assert.Equal(t, "p2", b.Products[0].ID)
}

func TestResolveForOperator_EmptyIdentity(t *testing.T) {
	r, port := setup()
	_, err := r.ResolveForOperator(context.Background(), "  ", domain.DefaultDesignSettings())
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, port.TotalCalls())
}
