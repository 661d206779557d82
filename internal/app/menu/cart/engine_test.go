package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/kv"
)

type recordingPublisher struct {
	cartEvents [][]Line
}

func (r *recordingPublisher) PublishTenantChanged(string, string) {}

func (r *recordingPublisher) PublishCartChanged(payload any) {
	r.cartEvents = append(r.cartEvents, payload.([]Line))
}

func newTestEngine(t *testing.T) (*Engine, *kv.Memory, *recordingPublisher) {
	t.Helper()
	store := kv.NewMemory()
	pub := &recordingPublisher{}
	return NewEngine(store, pub, nil), store, pub
}

func line(productID, base string, price string, qty float64) Line {
	return Line{
		ProductID:   productID,
		ProductName: "Bolo " + productID,
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    qty,
		SaleUnit:    domain.SaleUnitUnit,
		ChosenBase:  base,
	}
}

func encoded(t *testing.T, lines []Line) string {
	t.Helper()
	raw, err := Encode(lines)
	require.NoError(t, err)
	return raw
}

// TestEngine_SingleLineTotals covers the basic price and count scenario.
func TestEngine_SingleLineTotals(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Add(line("p1", "", "25.00", 2))

	assert.True(t, e.TotalPrice().Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 2.0, e.TotalItemCount())
}

// TestEngine_MergeByChoices verifies identical keys merge and a different choice splits.
func TestEngine_MergeByChoices(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Add(line("p1", "chocolate", "10", 1))
	e.Add(line("p1", "chocolate", "10", 1))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2.0, lines[0].Quantity)

	e.Add(line("p1", "vanilla", "10", 1))
	lines = e.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "vanilla", lines[1].ChosenBase)
	assert.Equal(t, 1.0, lines[1].Quantity)
}

// TestEngine_MergeSumsQuantities checks merged quantity equals the sum of additions.
func TestEngine_MergeSumsQuantities(t *testing.T) {
	e, _, _ := newTestEngine(t)
	quantities := []float64{1, 3, 2, 7, 1}
	var sum float64
	for _, q := range quantities {
		e.Add(line("p1", "chocolate", "4.50", q))
		sum += q
	}

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, sum, lines[0].Quantity)
}

// TestEngine_TotalIndependentOfOrder checks total price for two add orders of the same multiset.
func TestEngine_TotalIndependentOfOrder(t *testing.T) {
	adds := []Line{
		line("p1", "chocolate", "12.90", 2),
		line("p2", "", "7.25", 1),
		line("p1", "chocolate", "12.90", 1),
		line("p3", "morango", "3.10", 4),
	}

	forward, _, _ := newTestEngine(t)
	for _, l := range adds {
		forward.Add(l)
	}
	backward, _, _ := newTestEngine(t)
	for i := len(adds) - 1; i >= 0; i-- {
		backward.Add(adds[i])
	}

	assert.True(t, forward.TotalPrice().Equal(backward.TotalPrice()))
	assert.True(t, forward.TotalPrice().Equal(Total(forward.Lines())))
	assert.Equal(t, "58.35", forward.TotalPrice().StringFixed(2))
}

// TestEngine_AddDefaultsQuantity verifies non-positive quantities use the unit minimum.
func TestEngine_AddDefaultsQuantity(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Add(line("p1", "", "10", 0))
	kg := line("p2", "", "80", -1)
	kg.SaleUnit = domain.SaleUnitKg
	e.Add(kg)

	lines := e.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1.0, lines[0].Quantity)
	assert.Equal(t, 0.5, lines[1].Quantity)
}

// TestEngine_WeightSteps verifies kg lines step by half a kilo and count fractionally.
func TestEngine_WeightSteps(t *testing.T) {
	e, _, _ := newTestEngine(t)
	kg := line("p1", "", "80", 1)
	kg.SaleUnit = domain.SaleUnitKg
	e.Add(kg)
	key := kg.Key()

	e.Increment(key)
	assert.Equal(t, 1.5, e.Lines()[0].Quantity)
	assert.Equal(t, 1.5, e.TotalItemCount())
	assert.True(t, e.TotalPrice().Equal(decimal.NewFromInt(120)))

	e.Decrement(key)
	e.Decrement(key)
	assert.Equal(t, 0.5, e.Lines()[0].Quantity)

	e.Decrement(key)
	assert.Empty(t, e.Lines())
}

// TestEngine_ItemCountTruncatesCountable verifies fractional countable quantities floor.
func TestEngine_ItemCountTruncatesCountable(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Add(line("p1", "", "10", 2.7))
	assert.Equal(t, 2.0, e.TotalItemCount())
}

func TestEngine_SetQuantity(t *testing.T) {
	e, _, _ := newTestEngine(t)
	l := line("p1", "", "10", 1)
	e.Add(l)

	e.SetQuantity(l.Key(), 5)
	assert.Equal(t, 5.0, e.Lines()[0].Quantity)

	e.SetQuantity(l.Key(), 0)
	assert.Empty(t, e.Lines())
}

// TestEngine_Observation verifies an empty observation is kept distinct from none.
func TestEngine_Observation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	l := line("p1", "", "10", 1)
	e.Add(l)
	assert.Nil(t, e.Lines()[0].Observation)

	e.SetObservation(l.Key(), "")
	got := e.Lines()[0].Observation
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	e.SetObservation(l.Key(), "sem açúcar")
	assert.Equal(t, "sem açúcar", *e.Lines()[0].Observation)
}

func TestEngine_RemoveAndClear(t *testing.T) {
	e, _, _ := newTestEngine(t)
	a := line("p1", "", "10", 1)
	b := line("p2", "", "10", 1)
	e.Add(a)
	e.Add(b)

	e.Remove("missing")
	assert.Len(t, e.Lines(), 2)

	e.Remove(a.Key())
	require.Len(t, e.Lines(), 1)
	assert.Equal(t, "p2", e.Lines()[0].ProductID)

	e.Clear()
	assert.Empty(t, e.Lines())
	assert.NotNil(t, e.Lines())
}

// TestEngine_PersistsAndPublishes verifies every mutation writes the key and announces the full list.
func TestEngine_PersistsAndPublishes(t *testing.T) {
	e, store, pub := newTestEngine(t)
	l := line("p1", "", "10", 1)
	e.Add(l)
	e.Increment(l.Key())

	raw, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, encoded(t, e.Lines()), raw)

	require.Len(t, pub.cartEvents, 2)
	assert.Equal(t, 2.0, pub.cartEvents[1][0].Quantity)
}

// TestEngine_RoundTrip verifies a persisted cart re-hydrates to the same list.
func TestEngine_RoundTrip(t *testing.T) {
	e, store, _ := newTestEngine(t)
	obs := "capricha no recheio"
	first := line("p1", "chocolate", "25.90", 2)
	first.Observation = &obs
	first.ChosenFilling = "brigadeiro"
	kg := line("p2", "", "79.90", 1.5)
	kg.SaleUnit = domain.SaleUnitKg
	e.Add(first)
	e.Add(kg)

	again := NewEngine(store, nil, nil)
	assert.Equal(t, encoded(t, e.Lines()), encoded(t, again.Lines()))
	assert.True(t, e.TotalPrice().Equal(again.TotalPrice()))
}

// TestEngine_MalformedStorage verifies corrupt data hydrates to an empty cart.
func TestEngine_MalformedStorage(t *testing.T) {
	for _, raw := range []string{"{oops", `{"productId":"p1"}`, "null", `[{"productId":"","quantity":1}]`} {
		store := kv.NewMemory()
		require.NoError(t, store.Set(StorageKey, raw))

		e := NewEngine(store, nil, nil)
		assert.NotNil(t, e.Lines(), raw)
		assert.Empty(t, e.Lines(), raw)
	}
}

// TestEngine_Reload verifies a remote write becomes visible after Reload.
func TestEngine_Reload(t *testing.T) {
	store := kv.NewMemory()
	a := NewEngine(store, nil, nil)
	b := NewEngine(store, nil, nil)

	a.Add(line("p1", "", "10", 3))
	assert.Empty(t, b.Lines())

	b.Reload()
	require.Len(t, b.Lines(), 1)
	assert.Equal(t, 3.0, b.Lines()[0].Quantity)
}

// TestNewLine verifies choices only stick to customizable products.
func TestNewLine(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Bolo de pote", SaleUnit: domain.SaleUnitUnit}
	choices := Choices{Base: " Chocolate ", Filling: "Ninho"}

	plain := NewLine(p, decimal.NewFromInt(12), 1, choices, nil)
	assert.Empty(t, plain.ChosenBase)
	assert.Equal(t, "Bolo de pote", plain.ProductName)

	p.Customizable = true
	custom := NewLine(p, decimal.NewFromInt(12), 1, choices, nil)
	assert.Equal(t, "Chocolate", custom.ChosenBase)
	assert.Equal(t, "Ninho", custom.ChosenFilling)
	assert.NotEqual(t, plain.Key(), custom.Key())
}
