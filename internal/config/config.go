package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded by .env files.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DataSourceMode string `env:"DATA_SOURCE_MODE" envDefault:"mock"`
	// APIBaseURL is required in api mode and has no default.
	APIBaseURL string `env:"API_BASE_URL"`
	// Placeholders for a hosted backend integration that is not wired up.
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`

	StorageBackend string `env:"STORAGE_BACKEND"`
	DBPath         string `env:"DB_PATH"`
	PostgresDSN    string `env:"POSTGRES_DSN"`
	MigrationsDir  string `env:"DB_MIGRATIONS_DIR"`
	BoltPath       string `env:"BOLT_PATH"`
	MaxValueBytes  int    `env:"STORAGE_MAX_VALUE_BYTES" envDefault:"5242880"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	VAPIDSubject    string `env:"VAPID_SUBJECT" envDefault:"mailto:admin@time.com"`

	Worker WorkerConfig
}

// WorkerConfig drives cmd/offline-proxy.
type WorkerConfig struct {
	Port                 string        `env:"WORKER_PORT" envDefault:"8081"`
	OriginURL            string        `env:"ORIGIN_URL" envDefault:"http://localhost:8080"`
	CacheVersion         string        `env:"CACHE_VERSION" envDefault:"v1"`
	SyncEndpoint         string        `env:"SYNC_ENDPOINT" envDefault:"/sync"`
	PeriodicSyncInterval time.Duration `env:"PERIODIC_SYNC_INTERVAL" envDefault:"12h"`
	ActivateTimeout      time.Duration `env:"ACTIVATE_TIMEOUT" envDefault:"30s"`
}

var validModes = map[string]bool{"mock": true, "api": true, "supabase": true}

// Load reads .env and .env.local unless running on Lambda, then parses the
// environment into a Config.
func Load() (Config, error) {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		_ = godotenv.Load(existingFiles(".env", ".env.local")...)
	}
	return Parse()
}

// Parse reads only the process environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DataSourceMode = strings.ToLower(strings.TrimSpace(cfg.DataSourceMode))
	if !validModes[cfg.DataSourceMode] {
		return Config{}, fmt.Errorf("invalid DATA_SOURCE_MODE %q (want mock, api or supabase)", cfg.DataSourceMode)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.DataSourceMode == "api" && cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required when DATA_SOURCE_MODE is api")
	}
	return cfg, nil
}

func (c Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       store.Backend(c.StorageBackend),
		SQLitePath:    c.DBPath,
		PostgresDSN:   c.PostgresDSN,
		BoltPath:      c.BoltPath,
		MigrationsDir: c.MigrationsDir,
		MaxValueBytes: c.MaxValueBytes,
	}
}

func existingFiles(names ...string) []string {
	found := make([]string, 0, len(names))
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	return found
}
