package persistence

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

// Memory is an in-process PersistencePort. It backs dev mode and tests, and
// counts calls per method so tests can assert which fetches happened.
type Memory struct {
	mu       sync.Mutex
	designs  map[string]*domain.DesignSettings
	configs  map[string][]*domain.OperatingConfig
	products map[string][]domain.Product
	options  map[string]map[domain.OptionKind][]string
	calls    map[string]int
	failures map[string]error
}

var _ contracts.PersistencePort = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		designs:  make(map[string]*domain.DesignSettings),
		configs:  make(map[string][]*domain.OperatingConfig),
		products: make(map[string][]domain.Product),
		options:  make(map[string]map[domain.OptionKind][]string),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// Calls returns how many times method was invoked.
func (m *Memory) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (m *Memory) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// FailWith makes method return err until cleared with a nil err.
func (m *Memory) FailWith(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

// enter records a call and returns the injected failure, if any. Callers must
// hold m.mu.
func (m *Memory) enter(ctx context.Context, method string) error {
	m.calls[method]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.failures[method]
}

// SeedDesign stores a design row as is.
func (m *Memory) SeedDesign(d *domain.DesignSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.designs[d.TenantID] = d.Clone()
}

// SeedConfig appends a config row, allowing duplicates per tenant.
func (m *Memory) SeedConfig(c *domain.OperatingConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[c.TenantID] = append(m.configs[c.TenantID], c.Clone())
}

// SeedProduct stores a product as is.
func (m *Memory) SeedProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.TenantID] = append(m.products[p.TenantID], p.Clone())
}

// SeedOption stores an option name.
func (m *Memory) SeedOption(tenantID string, kind domain.OptionKind, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendOption(tenantID, kind, name)
}

func (m *Memory) FindTenantByCode(ctx context.Context, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "FindTenantByCode"); err != nil {
		return "", err
	}
	for tenantID, d := range m.designs {
		if d.Code != "" && d.Code == code {
			return tenantID, nil
		}
	}
	return "", domain.ErrNotFound
}

func (m *Memory) GetDesignSettings(ctx context.Context, tenantID string) (*domain.DesignSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "GetDesignSettings"); err != nil {
		return nil, err
	}
	d, ok := m.designs[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d.Clone(), nil
}

// UpsertDesignSettings keeps an already assigned code and rejects a code owned
// by another tenant.
func (m *Memory) UpsertDesignSettings(ctx context.Context, s *domain.DesignSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpsertDesignSettings"); err != nil {
		return err
	}
	row := s.Clone()
	if existing, ok := m.designs[s.TenantID]; ok && existing.Code != "" {
		row.Code = existing.Code
	}
	for tenantID, d := range m.designs {
		if tenantID != row.TenantID && row.Code != "" && d.Code == row.Code {
			return domain.ErrTenantCodeConflict
		}
	}
	m.designs[row.TenantID] = row
	return nil
}

func (m *Memory) UpdateDesignSettings(ctx context.Context, tenantID string, patch domain.DesignSettingsPatch, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpdateDesignSettings"); err != nil {
		return err
	}
	d, ok := m.designs[tenantID]
	if !ok {
		return domain.ErrNotFound
	}
	m.designs[tenantID] = patch.Apply(d, now)
	return nil
}

func (m *Memory) GetOperatingConfig(ctx context.Context, tenantID string) (*domain.OperatingConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "GetOperatingConfig"); err != nil {
		return nil, err
	}
	newest := domain.NewestConfig(m.configs[tenantID])
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	return newest.Clone(), nil
}

func (m *Memory) UpdateOperatingConfig(ctx context.Context, tenantID string, patch domain.OperatingConfigPatch, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpdateOperatingConfig"); err != nil {
		return err
	}
	rows := m.configs[tenantID]
	newest := domain.NewestConfig(rows)
	if newest == nil {
		newest = domain.DefaultOperatingConfig(tenantID)
		newest.ConfigID = uuid.NewString()
		rows = append(rows, newest)
	}
	updated := patch.Apply(newest, now)
	for i, r := range rows {
		if r == newest {
			rows[i] = updated
		}
	}
	m.configs[tenantID] = rows
	return nil
}

func (m *Memory) ListProducts(ctx context.Context, tenantID string, onlyAvailable bool) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListProducts"); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(m.products[tenantID]))
	for _, p := range m.products[tenantID] {
		if onlyAvailable && !p.Available {
			continue
		}
		out = append(out, p.Clone())
	}
	slices.SortStableFunc(out, func(a, b domain.Product) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *Memory) InsertProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "InsertProduct"); err != nil {
		return err
	}
	m.products[p.TenantID] = append(m.products[p.TenantID], p.Clone())
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpdateProduct"); err != nil {
		return err
	}
	list := m.products[p.TenantID]
	i := slices.IndexFunc(list, func(x domain.Product) bool { return x.ID == p.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	list[i] = p.Clone()
	return nil
}

func (m *Memory) DeleteProduct(ctx context.Context, tenantID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteProduct"); err != nil {
		return err
	}
	list := m.products[tenantID]
	i := slices.IndexFunc(list, func(x domain.Product) bool { return x.ID == productID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.products[tenantID] = slices.Delete(list, i, i+1)
	return nil
}

func (m *Memory) ListOptions(ctx context.Context, tenantID string, kind domain.OptionKind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "ListOptions"); err != nil {
		return nil, err
	}
	out := slices.Clone(m.options[tenantID][kind])
	if out == nil {
		out = []string{}
	}
	slices.SortFunc(out, cmp.Compare[string])
	return out, nil
}

func (m *Memory) InsertOption(ctx context.Context, tenantID string, kind domain.OptionKind, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "InsertOption"); err != nil {
		return err
	}
	m.appendOption(tenantID, kind, name)
	return nil
}

func (m *Memory) appendOption(tenantID string, kind domain.OptionKind, name string) {
	if m.options[tenantID] == nil {
		m.options[tenantID] = make(map[domain.OptionKind][]string)
	}
	m.options[tenantID][kind] = append(m.options[tenantID][kind], name)
}
