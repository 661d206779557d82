// Package cart keeps a visitor's in-progress order. The line list is persisted
// to a kv key after every mutation and announced on the bus.
package cart

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/kv"
)

// StorageKey is the kv key holding the JSON line array.
const StorageKey = "carrinho"

type Engine struct {
	store  kv.Store
	pub    contracts.Publisher
	logger *log.Logger

	mu    sync.Mutex
	lines []Line
}

// NewEngine hydrates the cart from store. Missing or corrupt data yields an
// empty cart. pub may be nil.
func NewEngine(store kv.Store, pub contracts.Publisher, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{store: store, pub: pub, logger: logger}
	e.lines = e.load()
	return e
}

// Decode parses a persisted line array, dropping lines without a product or
// with a non-positive quantity.
func Decode(raw string) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		if l.SaleUnit == "" {
			l.SaleUnit = domain.SaleUnitUnit
		}
		out = append(out, l)
	}
	return out, nil
}

// Encode renders lines the way they are persisted.
func Encode(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Engine) load() []Line {
	raw, ok, err := e.store.Get(StorageKey)
	if err != nil {
		e.logger.Printf("cart: read %s: %v", StorageKey, err)
		return []Line{}
	}
	if !ok {
		return []Line{}
	}
	lines, err := Decode(raw)
	if err != nil {
		e.logger.Printf("cart: discarding stored cart: %v", err)
		return []Line{}
	}
	return lines
}

// Reload re-reads the persisted cart, typically after a remote cart-changed.
func (e *Engine) Reload() {
	lines := e.load()
	e.mu.Lock()
	e.lines = lines
	e.mu.Unlock()
}

// Lines returns a copy of the current lines in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneLines(e.lines)
}

// Add merges l into the line with the same key or appends it. A non-positive
// quantity is replaced by the unit's minimum step.
func (e *Engine) Add(l Line) {
	if l.SaleUnit == "" {
		l.SaleUnit = domain.SaleUnitUnit
	}
	if l.Quantity <= 0 {
		l.Quantity = l.SaleUnit.Step()
	}
	l = l.clone()
	e.mutate(func(lines []Line) []Line {
		key := l.Key()
		for i := range lines {
			if lines[i].Key() == key {
				lines[i].Quantity += l.Quantity
				return lines
			}
		}
		return append(lines, l)
	})
}

// SetQuantity replaces the quantity of key. qty <= 0 removes the line.
func (e *Engine) SetQuantity(key string, qty float64) {
	if qty <= 0 {
		e.Remove(key)
		return
	}
	e.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, key); i >= 0 {
			lines[i].Quantity = qty
		}
		return lines
	})
}

// Increment adds one unit step to key.
func (e *Engine) Increment(key string) {
	e.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, key); i >= 0 {
			lines[i].Quantity += lines[i].SaleUnit.Step()
		}
		return lines
	})
}

// Decrement removes one unit step from key, dropping the line at zero.
func (e *Engine) Decrement(key string) {
	e.mutate(func(lines []Line) []Line {
		i := indexOf(lines, key)
		if i < 0 {
			return lines
		}
		lines[i].Quantity -= lines[i].SaleUnit.Step()
		if lines[i].Quantity <= 0 {
			return slices.Delete(lines, i, i+1)
		}
		return lines
	})
}

// SetObservation replaces the free text of key. An empty string is kept as
// an empty observation, distinct from none.
func (e *Engine) SetObservation(key, text string) {
	e.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, key); i >= 0 {
			lines[i].Observation = &text
		}
		return lines
	})
}

// Remove drops key; unknown keys are a no-op.
func (e *Engine) Remove(key string) {
	e.mutate(func(lines []Line) []Line {
		if i := indexOf(lines, key); i >= 0 {
			return slices.Delete(lines, i, i+1)
		}
		return lines
	})
}

// Clear empties the cart.
func (e *Engine) Clear() {
	e.mutate(func([]Line) []Line { return []Line{} })
}

// TotalItemCount sums ItemCount over lines.
func (e *Engine) TotalItemCount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var n float64
	for _, l := range e.lines {
		n += l.ItemCount()
	}
	return n
}

// TotalPrice sums unit price times quantity over lines.
func (e *Engine) TotalPrice() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Total(e.lines)
}

// Total is the price of an arbitrary line list.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// mutate applies fn, persists the result and publishes the full list.
func (e *Engine) mutate(fn func([]Line) []Line) {
	e.mu.Lock()
	e.lines = fn(e.lines)
	if e.lines == nil {
		e.lines = []Line{}
	}
	snapshot := cloneLines(e.lines)
	raw, err := Encode(snapshot)
	if err == nil {
		err = e.store.Set(StorageKey, raw)
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Printf("cart: persist %s: %v", StorageKey, err)
	}
	if e.pub != nil {
		e.pub.PublishCartChanged(snapshot)
	}
}

func indexOf(lines []Line, key string) int {
	return slices.IndexFunc(lines, func(l Line) bool { return l.Key() == key })
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.clone()
	}
	return out
}
