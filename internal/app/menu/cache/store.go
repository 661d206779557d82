// Package cache holds the in-memory copy of one tenant's resources together
// with the time each resource was last fetched. It performs no I/O.
package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

// DefaultMaxAge is the freshness window used when callers pass no max age.
const DefaultMaxAge = 5 * time.Minute

// Kind names a cached resource collection.
type Kind string

const (
	KindDesign   Kind = "design"
	KindConfig   Kind = "config"
	KindProducts Kind = "products"
	KindBases    Kind = "bases"
	KindFillings Kind = "fillings"
	KindToppings Kind = "toppings"
)

// Kinds lists every cached kind.
var Kinds = []Kind{KindDesign, KindConfig, KindProducts, KindBases, KindFillings, KindToppings}

// OptionKind maps a customization option kind to its cache kind.
func OptionKind(k domain.OptionKind) Kind {
	switch k {
	case domain.OptionBase:
		return KindBases
	case domain.OptionFilling:
		return KindFillings
	case domain.OptionTopping:
		return KindToppings
	}
	panic(fmt.Sprintf("cache: unknown option kind %q", k))
}

// Entry is one cached collection. LastUpdated is nil until the first set.
type Entry[T any] struct {
	Data        T
	LastUpdated *time.Time
}

func (e *Entry[T]) set(data T, now time.Time) {
	e.Data = data
	e.LastUpdated = &now
}

func (e *Entry[T]) stale(now time.Time, maxAge time.Duration) bool {
	if e.LastUpdated == nil {
		return true
	}
	return now.Sub(*e.LastUpdated) >= maxAge
}

// Store is the tenant-data cache. Reads return copies, so callers can never
// mutate cached state except through the setters.
type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	design   Entry[*domain.DesignSettings]
	config   Entry[*domain.OperatingConfig]
	products Entry[[]domain.Product]
	options  map[Kind]*Entry[[]string]
}

func NewStore(clk clock.Clock) *Store {
	s := &Store{clock: clk}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.design = Entry[*domain.DesignSettings]{}
	s.config = Entry[*domain.OperatingConfig]{}
	s.products = Entry[[]domain.Product]{Data: []domain.Product{}}
	s.options = map[Kind]*Entry[[]string]{
		KindBases:    {Data: []string{}},
		KindFillings: {Data: []string{}},
		KindToppings: {Data: []string{}},
	}
}

// Design returns the cached settings or nil.
func (s *Store) Design() *domain.DesignSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.design.Data.Clone()
}

// Config returns the cached operating config or nil.
func (s *Store) Config() *domain.OperatingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Data.Clone()
}

// Products returns the cached catalog; never nil.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products.Data))
	for i, p := range s.products.Data {
		out[i] = p.Clone()
	}
	return out
}

// Options returns the cached option list of kind; never nil.
func (s *Store) Options(kind domain.OptionKind) []string {
	k := OptionKind(kind)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.options[k].Data)
}

func (s *Store) SetDesign(d *domain.DesignSettings) {
	now := s.clock.Now()
	s.mu.Lock()
	s.design.set(d.Clone(), now)
	s.mu.Unlock()
}

func (s *Store) SetConfig(c *domain.OperatingConfig) {
	now := s.clock.Now()
	s.mu.Lock()
	s.config.set(c.Clone(), now)
	s.mu.Unlock()
}

func (s *Store) SetProducts(products []domain.Product) {
	data := make([]domain.Product, len(products))
	for i, p := range products {
		data[i] = p.Clone()
	}
	now := s.clock.Now()
	s.mu.Lock()
	s.products.set(data, now)
	s.mu.Unlock()
}

func (s *Store) SetOptions(kind domain.OptionKind, names []string) {
	k := OptionKind(kind)
	data := slices.Clone(names)
	if data == nil {
		data = []string{}
	}
	now := s.clock.Now()
	s.mu.Lock()
	s.options[k].set(data, now)
	s.mu.Unlock()
}

// LastUpdated returns when kind was last set, or nil if never.
func (s *Store) LastUpdated(kind Kind) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ts *time.Time
	switch kind {
	case KindDesign:
		ts = s.design.LastUpdated
	case KindConfig:
		ts = s.config.LastUpdated
	case KindProducts:
		ts = s.products.LastUpdated
	case KindBases, KindFillings, KindToppings:
		ts = s.options[kind].LastUpdated
	default:
		panic(fmt.Sprintf("cache: unknown kind %q", kind))
	}
	if ts == nil {
		return nil
	}
	t := *ts
	return &t
}

// IsStale reports whether kind was never fetched or is at least maxAge old.
// A non-positive maxAge means DefaultMaxAge.
func (s *Store) IsStale(kind Kind, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case KindDesign:
		return s.design.stale(now, maxAge)
	case KindConfig:
		return s.config.stale(now, maxAge)
	case KindProducts:
		return s.products.stale(now, maxAge)
	case KindBases, KindFillings, KindToppings:
		return s.options[kind].stale(now, maxAge)
	}
	panic(fmt.Sprintf("cache: unknown kind %q", kind))
}

// Clear resets every kind to its empty default and forgets all timestamps.
func (s *Store) Clear() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}

// UpdateProducts runs fn with exclusive access to the cached catalog and stores what
// it returns. The product timestamp is refreshed.
func (s *Store) UpdateProducts(fn func([]domain.Product) []domain.Product) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products.set(fn(s.products.Data), now)
}

// UpdateOptions is UpdateProducts for an option list.
func (s *Store) UpdateOptions(kind domain.OptionKind, fn func([]string) []string) {
	k := OptionKind(kind)
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[k].set(fn(s.options[k].Data), now)
}
