// Package bus propagates "tenant data changed" and "cart changed" signals
// between subscribers of one process and between processes sharing a kv store.
//
// Local subscribers are called synchronously by Publish. Other processes learn
// about a publish through a storage key holding the latest event; Run polls
// those keys and delivers foreign writes with Remote set.
package bus

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
	"github.com/murkotick/digital-menu-service/internal/pkg/kv"
)

const (
	TopicTenantDataChanged = "tenant-data-changed"
	TopicCartChanged       = "cart-changed"
)

// Storage keys watched by other processes.
const (
	KeyLastConfigUpdate = "lastConfigUpdate"
	KeyCartUpdatedAt    = "cartUpdatedAt"
)

// DefaultPollInterval is used by Run when no interval is given.
const DefaultPollInterval = time.Second

var topicKeys = map[string]string{
	TopicTenantDataChanged: KeyLastConfigUpdate,
	TopicCartChanged:       KeyCartUpdatedAt,
}

// Event is what subscribers receive. Payload is only set for local delivery;
// remote handlers re-read the authoritative store instead.
type Event struct {
	Topic    string
	Scope    string
	TenantID string
	Payload  any
	Stamp    time.Time
	Remote   bool
}

type Handler func(Event)

// record is the JSON written under a topic's storage key.
type record struct {
	ID     string    `json:"id"`
	Origin string    `json:"origin"`
	Stamp  time.Time `json:"stamp"`
	Scope  string    `json:"scope,omitempty"`
	Tenant string    `json:"tenant,omitempty"`
}

type Bus struct {
	store  kv.Store
	clock  clock.Clock
	logger *log.Logger
	origin string

	// keyMu orders storage writes against poll reads so seen always matches
	// the value last read or written.
	keyMu sync.Mutex

	mu     sync.Mutex
	subs   map[string]map[int]Handler
	nextID int
	seen   map[string]string
}

// New creates a bus writing to store. Values already present in store are
// treated as seen and will not be delivered by Run.
func New(store kv.Store, clk clock.Clock, logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	b := &Bus{
		store:  store,
		clock:  clk,
		logger: logger,
		origin: uuid.NewString(),
		subs:   make(map[string]map[int]Handler),
		seen:   make(map[string]string),
	}
	for _, key := range topicKeys {
		if raw, ok, err := store.Get(key); err == nil && ok {
			b.seen[key] = raw
		}
	}
	return b
}

// Origin identifies this bus in storage records.
func (b *Bus) Origin() string {
	return b.origin
}

// Subscribe registers h for topic and returns a function removing it.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = h
	return func() {
		b.mu.Lock()
		delete(b.subs[topic], id)
		b.mu.Unlock()
	}
}

// Publish delivers ev to local subscribers, then records it for other processes.
func (b *Bus) Publish(topic string, ev Event) {
	ev.Topic = topic
	ev.Remote = false
	if ev.Stamp.IsZero() {
		ev.Stamp = b.clock.Now()
	}
	b.deliver(ev)

	key, ok := topicKeys[topic]
	if !ok {
		return
	}
	raw, err := json.Marshal(record{
		ID:     uuid.NewString(),
		Origin: b.origin,
		Stamp:  ev.Stamp,
		Scope:  ev.Scope,
		Tenant: ev.TenantID,
	})
	if err != nil {
		b.logger.Printf("bus: encode %s: %v", topic, err)
		return
	}
	b.keyMu.Lock()
	defer b.keyMu.Unlock()
	if err := b.store.Set(key, string(raw)); err != nil {
		b.logger.Printf("bus: write %s: %v", key, err)
		return
	}
	b.mu.Lock()
	b.seen[key] = string(raw)
	b.mu.Unlock()
}

// PublishTenantChanged implements contracts.Publisher.
func (b *Bus) PublishTenantChanged(tenantID, scope string) {
	b.Publish(TopicTenantDataChanged, Event{Scope: scope, TenantID: tenantID})
}

// PublishCartChanged implements contracts.Publisher.
func (b *Bus) PublishCartChanged(payload any) {
	b.Publish(TopicCartChanged, Event{Payload: payload})
}

var _ contracts.Publisher = (*Bus)(nil)

// Run polls the storage keys until ctx is done.
func (b *Bus) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			b.Poll()
		}
	}
}

// Poll checks every storage key once and delivers writes made by other buses.
func (b *Bus) Poll() {
	for topic, key := range topicKeys {
		raw, changed := b.observe(key)
		if !changed {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			b.logger.Printf("bus: ignoring malformed %s value: %v", key, err)
			continue
		}
		if rec.Origin == b.origin {
			continue
		}
		b.deliver(Event{
			Topic:    topic,
			Scope:    rec.Scope,
			TenantID: rec.Tenant,
			Stamp:    rec.Stamp,
			Remote:   true,
		})
	}
}

// observe reads key and reports whether it differs from what this bus last
// saw, recording the new value.
func (b *Bus) observe(key string) (string, bool) {
	b.keyMu.Lock()
	defer b.keyMu.Unlock()
	raw, ok, err := b.store.Get(key)
	if err != nil {
		b.logger.Printf("bus: read %s: %v", key, err)
		return "", false
	}
	if !ok {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := b.seen[key] != raw
	b.seen[key] = raw
	return raw, changed
}

func (b *Bus) deliver(ev Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[ev.Topic]))
	for _, h := range b.subs[ev.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}
