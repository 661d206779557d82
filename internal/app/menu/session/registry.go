// Package session keeps one datasync.Controller per operator so repeated
// operator calls reuse the loaded cache instead of reloading the store.
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/murkotick/digital-menu-service/internal/app/menu/bus"
	"github.com/murkotick/digital-menu-service/internal/app/menu/cache"
	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/datasync"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

type entry struct {
	ctrl  *datasync.Controller
	dirty bool
}

type Registry struct {
	port   contracts.PersistencePort
	pub    contracts.Publisher
	clock  clock.Clock
	logger *log.Logger
	maxAge time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry. maxAge <= 0 means cache.DefaultMaxAge.
func NewRegistry(port contracts.PersistencePort, pub contracts.Publisher, clk clock.Clock, logger *log.Logger, maxAge time.Duration) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	if maxAge <= 0 {
		maxAge = cache.DefaultMaxAge
	}
	return &Registry{
		port:     port,
		pub:      pub,
		clock:    clk,
		logger:   logger,
		maxAge:   maxAge,
		sessions: make(map[string]*entry),
	}
}

// Get returns the controller of identity, loading it on first use and again
// whenever its cache went stale or another process changed the tenant.
func (r *Registry) Get(ctx context.Context, identity string) (*datasync.Controller, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, domain.ErrEmptyIdentity
	}

	r.mu.Lock()
	e, ok := r.sessions[identity]
	if !ok {
		e = &entry{ctrl: datasync.New(r.port, cache.NewStore(r.clock), r.pub, r.clock, r.logger)}
		r.sessions[identity] = e
	}
	wasDirty := e.dirty
	reload := wasDirty || e.ctrl.TenantID() == "" || e.ctrl.IsStale(r.maxAge)
	e.dirty = false
	ctrl := e.ctrl
	r.mu.Unlock()

	if reload {
		if err := ctrl.LoadAll(ctx, identity); err != nil {
			// A failed reload must not swallow the change notice
			if wasDirty {
				r.mu.Lock()
				e.dirty = true
				r.mu.Unlock()
			}
			return nil, err
		}
	}
	return ctrl, nil
}

// MarkStale forces the next Get of tenantID to reload.
func (r *Registry) MarkStale(tenantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[tenantID]; ok {
		e.dirty = true
	}
}

// HandleEvent reacts to tenant changes published by other processes.
func (r *Registry) HandleEvent(ev bus.Event) {
	if !ev.Remote || ev.Topic != bus.TopicTenantDataChanged {
		return
	}
	if ev.TenantID == "" {
		r.mu.Lock()
		for _, e := range r.sessions {
			e.dirty = true
		}
		r.mu.Unlock()
		return
	}
	r.MarkStale(ev.TenantID)
}

// Attach subscribes the registry to b and returns the unsubscribe function.
func (r *Registry) Attach(b *bus.Bus) func() {
	return b.Subscribe(bus.TopicTenantDataChanged, r.HandleEvent)
}

// Close closes every controller and forgets them.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		e.ctrl.Close()
		delete(r.sessions, id)
	}
}
