package registry

import (
	"context"
	"errors"
	"fmt"

	"telelink-go/internal/config"
	"telelink-go/internal/database"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("registry: key not found")

// Store is a key-value registry with last-write-wins semantics per key.
// Values are opaque serialized records; no transactional guarantees are
// assumed across keys or concurrent writers.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Keys returns all known keys.
	Keys(ctx context.Context) ([]string, error)
}

// New creates a registry store based on configuration. The database handle
// is only required for the postgres provider.
func New(cfg config.RegistryConfig, db *database.DB) (Store, error) {
	switch cfg.Provider {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres registry requires a database connection")
		}
		return NewPostgresStore(db.DB), nil
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	default:
		return nil, fmt.Errorf("unsupported registry provider: %s", cfg.Provider)
	}
}
