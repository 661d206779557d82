package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

func newTestStore() (*Store, *clock.FakeClock) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	return NewStore(clk), clk
}

// TestStore_EmptyDefaults verifies a fresh store returns empty values and is stale everywhere.
func TestStore_EmptyDefaults(t *testing.T) {
	s, _ := newTestStore()

	assert.Nil(t, s.Design())
	assert.Nil(t, s.Config())
	assert.NotNil(t, s.Products())
	assert.Empty(t, s.Products())
	for _, k := range domain.OptionKinds {
		assert.NotNil(t, s.Options(k))
		assert.Empty(t, s.Options(k))
	}
	for _, k := range Kinds {
		assert.True(t, s.IsStale(k, 0), "kind %s", k)
		assert.Nil(t, s.LastUpdated(k), "kind %s", k)
	}
}

// TestStore_Staleness verifies the freshness window boundary.
func TestStore_Staleness(t *testing.T) {
	s, clk := newTestStore()
	s.SetProducts([]domain.Product{{ID: "p1", Name: "Bolo"}})

	require.NotNil(t, s.LastUpdated(KindProducts))
	assert.Equal(t, clk.Now(), *s.LastUpdated(KindProducts))
	assert.False(t, s.IsStale(KindProducts, 0))

	clk.Advance(4*time.Minute + 59*time.Second)
	assert.False(t, s.IsStale(KindProducts, 0))

	clk.Advance(time.Second)
	assert.True(t, s.IsStale(KindProducts, 0))

	assert.False(t, s.IsStale(KindProducts, 10*time.Minute))
	assert.True(t, s.IsStale(KindDesign, 10*time.Minute))
}

// TestStore_ReadsAreCopies verifies callers cannot mutate cached state.
func TestStore_ReadsAreCopies(t *testing.T) {
	s, _ := newTestStore()

	promo := decimal.RequireFromString("9.90")
	s.SetProducts([]domain.Product{{ID: "p1", Name: "Bolo", Price: decimal.NewFromInt(12), PromotionalPrice: &promo, Bases: []string{"Chocolate"}}})
	s.SetDesign(&domain.DesignSettings{Name: "Doces da Ana", CategoryIcons: map[string]string{"Bolos": "cake"}})
	s.SetOptions(domain.OptionFilling, []string{"Brigadeiro"})

	got := s.Products()
	got[0].Name = "changed"
	got[0].Bases[0] = "changed"
	*got[0].PromotionalPrice = decimal.Zero

	d := s.Design()
	d.CategoryIcons["Bolos"] = "changed"

	opts := s.Options(domain.OptionFilling)
	opts[0] = "changed"

	again := s.Products()
	assert.Equal(t, "Bolo", again[0].Name)
	assert.Equal(t, "Chocolate", again[0].Bases[0])
	assert.True(t, again[0].PromotionalPrice.Equal(promo))
	assert.Equal(t, "cake", s.Design().CategoryIcons["Bolos"])
	assert.Equal(t, []string{"Brigadeiro"}, s.Options(domain.OptionFilling))
}

// TestStore_SetOptionsNil verifies a nil list is stored as empty.
func TestStore_SetOptionsNil(t *testing.T) {
	s, _ := newTestStore()
	s.SetOptions(domain.OptionTopping, nil)

	assert.NotNil(t, s.Options(domain.OptionTopping))
	assert.False(t, s.IsStale(KindToppings, 0))
	assert.True(t, s.IsStale(KindBases, 0))
}

// TestStore_Clear verifies every kind returns to its empty default.
func TestStore_Clear(t *testing.T) {
	s, _ := newTestStore()
	s.SetDesign(&domain.DesignSettings{Name: "x"})
	s.SetConfig(domain.DefaultOperatingConfig("t1"))
	s.SetProducts([]domain.Product{{ID: "p1"}})
	s.SetOptions(domain.OptionBase, []string{"Baunilha"})

	s.Clear()

	assert.Nil(t, s.Design())
	assert.Nil(t, s.Config())
	assert.Empty(t, s.Products())
	assert.Empty(t, s.Options(domain.OptionBase))
	for _, k := range Kinds {
		assert.Nil(t, s.LastUpdated(k))
	}
}

// TestStore_UpdateProducts verifies the read-modify-write helper refreshes the timestamp.
func TestStore_UpdateProducts(t *testing.T) {
	s, clk := newTestStore()
	s.SetProducts([]domain.Product{{ID: "p1"}})
	clk.Advance(time.Minute)

	s.UpdateProducts(func(in []domain.Product) []domain.Product {
		return append([]domain.Product{{ID: "p0"}}, in...)
	})

	got := s.Products()
	require.Len(t, got, 2)
	assert.Equal(t, "p0", got[0].ID)
	assert.Equal(t, clk.Now(), *s.LastUpdated(KindProducts))
}

func TestStore_UnknownKindPanics(t *testing.T) {
	s, _ := newTestStore()
	assert.Panics(t, func() { s.IsStale(Kind("nope"), 0) })
	assert.Panics(t, func() { s.LastUpdated(Kind("nope")) })
}
