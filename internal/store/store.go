package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is a flat key/value namespace holding opaque byte values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var ErrValueTooLarge = errors.New("value exceeds storage quota")

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendBolt     Backend = "bolt"
)

type Options struct {
	Backend       Backend
	SQLitePath    string
	PostgresDSN   string
	BoltPath      string
	MigrationsDir string
	MaxValueBytes int
}

// Open builds the backend named by opts.Backend. An empty backend falls back
// to whichever connection setting is present, then to memory.
func Open(opts Options) (Store, error) {
	backend := Backend(strings.ToLower(strings.TrimSpace(string(opts.Backend))))
	if backend == "" {
		switch {
		case strings.TrimSpace(opts.PostgresDSN) != "":
			backend = BackendPostgres
		case strings.TrimSpace(opts.SQLitePath) != "":
			backend = BackendSQLite
		case strings.TrimSpace(opts.BoltPath) != "":
			backend = BackendBolt
		default:
			backend = BackendMemory
		}
	}
	switch backend {
	case BackendMemory:
		return NewMemoryStore(MemoryOptions{MaxValueBytes: opts.MaxValueBytes}), nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath, SQLiteOptions{MigrationsDir: opts.MigrationsDir})
	case BackendPostgres:
		return NewPostgresStore(opts.PostgresDSN, PostgresOptions{MigrationsDir: opts.MigrationsDir})
	case BackendBolt:
		return NewBoltStore(opts.BoltPath)
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}
	return nil
}
