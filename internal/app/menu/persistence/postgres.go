package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/repo"
)

const pgUniqueViolation = "23505"

// Postgres is the PersistencePort over a pgx pool. Patches are applied to the
// locked row inside one transaction, then the full row is written back.
type Postgres struct {
	pool  *pgxpool.Pool
	newID func() string
}

var _ contracts.PersistencePort = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) (*Postgres, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &Postgres{pool: pool, newID: uuid.NewString}, nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS design_settings (
		tenant_id TEXT PRIMARY KEY,
		code TEXT,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		primary_color TEXT NOT NULL DEFAULT '',
		secondary_color TEXT NOT NULL DEFAULT '',
		background_color TEXT NOT NULL DEFAULT '',
		text_color TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		banner_url TEXT NOT NULL DEFAULT '',
		category_icons JSONB NOT NULL DEFAULT '{}',
		banner_gradient TEXT NOT NULL DEFAULT '',
		show_logo BOOLEAN NOT NULL DEFAULT TRUE,
		show_banner BOOLEAN NOT NULL DEFAULT TRUE,
		show_description BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS design_settings_by_code ON design_settings (code) WHERE code IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS operating_configs (
		config_id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		open_time TEXT NOT NULL DEFAULT '',
		close_time TEXT NOT NULL DEFAULT '',
		days TEXT[] NOT NULL DEFAULT '{}',
		saturday_open BOOLEAN NOT NULL DEFAULT FALSE,
		saturday_open_time TEXT NOT NULL DEFAULT '',
		saturday_close_time TEXT NOT NULL DEFAULT '',
		sunday_open BOOLEAN NOT NULL DEFAULT FALSE,
		sunday_open_time TEXT NOT NULL DEFAULT '',
		sunday_close_time TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS operating_configs_by_tenant ON operating_configs (tenant_id, updated_at DESC)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC NOT NULL,
		promotional_price NUMERIC,
		sale_unit TEXT NOT NULL DEFAULT 'unidade',
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		available BOOLEAN NOT NULL DEFAULT TRUE,
		customizable BOOLEAN NOT NULL DEFAULT FALSE,
		bases TEXT[] NOT NULL DEFAULT '{}',
		fillings TEXT[] NOT NULL DEFAULT '{}',
		toppings TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS products_by_tenant ON products (tenant_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS customization_options (
		tenant_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (tenant_id, kind, name)
	)`,
}

// EnsureSchema creates the tables and indexes when missing.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Postgres) FindTenantByCode(ctx context.Context, code string) (string, error) {
	var tenantID string
	err := s.pool.QueryRow(ctx, `SELECT tenant_id FROM design_settings WHERE code = $1`, code).Scan(&tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	return tenantID, err
}

const designColumns = `tenant_id, COALESCE(code, ''), name, description, primary_color, secondary_color,
	background_color, text_color, logo_url, banner_url, category_icons::text, banner_gradient,
	show_logo, show_banner, show_description, updated_at`

func scanDesign(row pgx.Row) (*domain.DesignSettings, error) {
	var (
		d     domain.DesignSettings
		icons string
	)
	err := row.Scan(&d.TenantID, &d.Code, &d.Name, &d.Description, &d.PrimaryColor, &d.SecondaryColor,
		&d.BackgroundColor, &d.TextColor, &d.LogoURL, &d.BannerURL, &icons, &d.BannerGradient,
		&d.ShowLogo, &d.ShowBanner, &d.ShowDescription, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.CategoryIcons = repo.DecodeIcons(icons)
	return &d, nil
}

func (s *Postgres) GetDesignSettings(ctx context.Context, tenantID string) (*domain.DesignSettings, error) {
	return scanDesign(s.pool.QueryRow(ctx, `SELECT `+designColumns+` FROM design_settings WHERE tenant_id = $1`, tenantID))
}

// UpsertDesignSettings writes the full row. An existing non-empty code wins
// over the incoming one.
func (s *Postgres) UpsertDesignSettings(ctx context.Context, d *domain.DesignSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO design_settings (`+designInsertColumns+`)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15, $16)
		ON CONFLICT (tenant_id) DO UPDATE SET
			code = COALESCE(design_settings.code, EXCLUDED.code),
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			background_color = EXCLUDED.background_color,
			text_color = EXCLUDED.text_color,
			logo_url = EXCLUDED.logo_url,
			banner_url = EXCLUDED.banner_url,
			category_icons = EXCLUDED.category_icons,
			banner_gradient = EXCLUDED.banner_gradient,
			show_logo = EXCLUDED.show_logo,
			show_banner = EXCLUDED.show_banner,
			show_description = EXCLUDED.show_description,
			updated_at = EXCLUDED.updated_at`,
		designArgs(d)...)
	if isUniqueViolation(err) {
		return domain.ErrTenantCodeConflict
	}
	return err
}

const designInsertColumns = `tenant_id, code, name, description, primary_color, secondary_color,
	background_color, text_color, logo_url, banner_url, category_icons, banner_gradient,
	show_logo, show_banner, show_description, updated_at`

func designArgs(d *domain.DesignSettings) []any {
	icons := d.CategoryIcons
	if icons == nil {
		icons = map[string]string{}
	}
	raw, _ := json.Marshal(icons)
	return []any{d.TenantID, d.Code, d.Name, d.Description, d.PrimaryColor, d.SecondaryColor,
		d.BackgroundColor, d.TextColor, d.LogoURL, d.BannerURL, string(raw), d.BannerGradient,
		d.ShowLogo, d.ShowBanner, d.ShowDescription, d.UpdatedAt.UTC()}
}

func (s *Postgres) UpdateDesignSettings(ctx context.Context, tenantID string, patch domain.DesignSettingsPatch, now time.Time) error {
	if !patch.Changes().HasChanges() {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		current, err := scanDesign(tx.QueryRow(ctx, `SELECT `+designColumns+` FROM design_settings WHERE tenant_id = $1 FOR UPDATE`, tenantID))
		if err != nil {
			return err
		}
		// The code column is never part of the SET list.
		args := designArgs(patch.Apply(current, now))
		_, err = tx.Exec(ctx, `
			UPDATE design_settings SET
				name = $2, description = $3, primary_color = $4, secondary_color = $5,
				background_color = $6, text_color = $7, logo_url = $8, banner_url = $9,
				category_icons = $10::jsonb, banner_gradient = $11, show_logo = $12,
				show_banner = $13, show_description = $14, updated_at = $15
			WHERE tenant_id = $1`, append(args[:1:1], args[2:]...)...)
		return err
	})
}

const configColumns = `config_id, tenant_id, phone, open_time, close_time, days,
	saturday_open, saturday_open_time, saturday_close_time,
	sunday_open, sunday_open_time, sunday_close_time, updated_at`

func scanConfig(row pgx.Row) (*domain.OperatingConfig, error) {
	var c domain.OperatingConfig
	err := row.Scan(&c.ConfigID, &c.TenantID, &c.Phone, &c.OpenTime, &c.CloseTime, &c.Days,
		&c.SaturdayOpen, &c.SaturdayOpenTime, &c.SaturdayCloseTime,
		&c.SundayOpen, &c.SundayOpenTime, &c.SundayCloseTime, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.Days == nil {
		c.Days = []string{}
	}
	return &c, nil
}

const newestConfigSQL = `SELECT ` + configColumns + ` FROM operating_configs
	WHERE tenant_id = $1 ORDER BY updated_at DESC LIMIT 1`

func (s *Postgres) GetOperatingConfig(ctx context.Context, tenantID string) (*domain.OperatingConfig, error) {
	return scanConfig(s.pool.QueryRow(ctx, newestConfigSQL, tenantID))
}

// UpdateOperatingConfig patches the newest row or inserts a default row
// carrying the patch.
func (s *Postgres) UpdateOperatingConfig(ctx context.Context, tenantID string, patch domain.OperatingConfigPatch, now time.Time) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		current, err := scanConfig(tx.QueryRow(ctx, newestConfigSQL+` FOR UPDATE`, tenantID))
		if errors.Is(err, domain.ErrNotFound) {
			fresh := domain.DefaultOperatingConfig(tenantID)
			fresh.ConfigID = s.newID()
			c := patch.Apply(fresh, now)
			_, err = tx.Exec(ctx, `INSERT INTO operating_configs (`+configColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, configArgs(c)...)
			return err
		}
		if err != nil {
			return err
		}
		c := patch.Apply(current, now)
		_, err = tx.Exec(ctx, `UPDATE operating_configs SET
				tenant_id = $2, phone = $3, open_time = $4, close_time = $5, days = $6,
				saturday_open = $7, saturday_open_time = $8, saturday_close_time = $9,
				sunday_open = $10, sunday_open_time = $11, sunday_close_time = $12, updated_at = $13
			WHERE config_id = $1`, configArgs(c)...)
		return err
	})
}

func configArgs(c *domain.OperatingConfig) []any {
	days := c.Days
	if days == nil {
		days = []string{}
	}
	return []any{c.ConfigID, c.TenantID, c.Phone, c.OpenTime, c.CloseTime, days,
		c.SaturdayOpen, c.SaturdayOpenTime, c.SaturdayCloseTime,
		c.SundayOpen, c.SundayOpenTime, c.SundayCloseTime, c.UpdatedAt.UTC()}
}

const productColumns = `product_id, tenant_id, name, description, price::text, promotional_price::text,
	sale_unit, category, image_url, available, customizable, bases, fillings, toppings,
	created_at, updated_at`

func (s *Postgres) ListProducts(ctx context.Context, tenantID string, onlyAvailable bool) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1`
	if onlyAvailable {
		query += ` AND available = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		var (
			p     domain.Product
			price string
			promo *string
			unit  string
		)
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &price, &promo,
			&unit, &p.Category, &p.ImageURL, &p.Available, &p.Customizable,
			&p.Bases, &p.Fillings, &p.Toppings, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		if promo != nil {
			d, err := decimal.NewFromString(*promo)
			if err != nil {
				return nil, err
			}
			p.PromotionalPrice = &d
		}
		p.SaleUnit = domain.SaleUnit(unit)
		out = append(out, p)
	}
	return out, rows.Err()
}

func productArgs(p *domain.Product) []any {
	var promo *string
	if p.PromotionalPrice != nil {
		v := p.PromotionalPrice.String()
		promo = &v
	}
	return []any{p.ID, p.TenantID, p.Name, p.Description, p.Price.String(), promo,
		string(p.SaleUnit), p.Category, p.ImageURL, p.Available, p.Customizable,
		nonNilStrings(p.Bases), nonNilStrings(p.Fillings), nonNilStrings(p.Toppings),
		p.CreatedAt.UTC(), p.UpdatedAt.UTC()}
}

func (s *Postgres) InsertProduct(ctx context.Context, p *domain.Product) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO products (product_id, tenant_id, name, description, price,
			promotional_price, sale_unit, category, image_url, available, customizable,
			bases, fillings, toppings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::text::numeric, $6::text::numeric, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		productArgs(p)...)
	return err
}

// UpdateProduct keeps tenant_id and created_at.
func (s *Postgres) UpdateProduct(ctx context.Context, p *domain.Product) error {
	args := productArgs(p)
	tag, err := s.pool.Exec(ctx, `UPDATE products SET
			name = $3, description = $4, price = $5::text::numeric, promotional_price = $6::text::numeric,
			sale_unit = $7, category = $8, image_url = $9, available = $10, customizable = $11,
			bases = $12, fillings = $13, toppings = $14, updated_at = $15
		WHERE product_id = $1 AND tenant_id = $2`,
		append(args[:14:14], args[15])...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteProduct(ctx context.Context, tenantID, productID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1 AND tenant_id = $2`, productID, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListOptions(ctx context.Context, tenantID string, kind domain.OptionKind) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM customization_options
		WHERE tenant_id = $1 AND kind = $2 ORDER BY name ASC`, tenantID, string(kind))
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *Postgres) InsertOption(ctx context.Context, tenantID string, kind domain.OptionKind, name string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO customization_options (tenant_id, kind, name) VALUES ($1, $2, $3)`,
		tenantID, string(kind), name)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
