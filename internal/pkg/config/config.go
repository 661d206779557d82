package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Persistence backends selectable with PERSISTENCE.
const (
	BackendSpanner  = "spanner"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the process settings read from the environment.
type Config struct {
	GRPCAddr        string
	HTTPAddr        string
	Persistence     string
	SpannerDatabase string
	DatabaseURL     string
	KVDir           string
	SessionSecret   string
	StoreTimezone   string
	BusPollInterval time.Duration
	CacheMaxAge     time.Duration
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: .env ignored: %v", err)
	}

	cfg := Config{
		GRPCAddr:        env("GRPC_ADDR", ":50051"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		Persistence:     strings.ToLower(env("PERSISTENCE", BackendSpanner)),
		SpannerDatabase: env("SPANNER_DATABASE", "projects/test-project/instances/emulator-instance/databases/test-db"),
		DatabaseURL:     env("DATABASE_URL", ""),
		KVDir:           env("KV_DIR", ".menu-state"),
		SessionSecret:   env("SESSION_SECRET", ""),
		StoreTimezone:   env("STORE_TIMEZONE", "America/Sao_Paulo"),
		BusPollInterval: durationEnv("BUS_POLL_INTERVAL", time.Second),
		CacheMaxAge:     durationEnv("CACHE_MAX_AGE", 5*time.Minute),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that depend on the chosen backend.
func (c Config) Validate() error {
	switch c.Persistence {
	case BackendSpanner:
		if c.SpannerDatabase == "" {
			return errors.New("SPANNER_DATABASE is required for the spanner backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return errors.New("PERSISTENCE must be one of spanner, postgres, memory")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	return nil
}

// Location resolves StoreTimezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StoreTimezone)
	if err != nil {
		log.Printf("config: unknown STORE_TIMEZONE %q, using UTC", c.StoreTimezone)
		return time.UTC
	}
	return loc
}

func env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
