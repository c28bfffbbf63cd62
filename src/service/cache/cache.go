// Package cache stores extraction results keyed by language and content hash
// so unchanged files are not re-parsed
package cache

import (
	"fmt"
	"time"

	"code-analyzer/src/config"
)

// SchemaVersion is bumped whenever the encoded value layout changes; entries
// written under another version are treated as misses
const SchemaVersion = 1

// Store is a byte-oriented key/value cache
type Store interface {
	// Get returns the value stored under key. Expired or stale-version
	// entries report found == false.
	Get(key string) (value []byte, found bool, err error)

	// Set stores value under key
	Set(key string, value []byte) error

	// Close releases the underlying resources
	Close() error
}

// New builds the store selected by cfg. A disabled cache returns a nil
// Store and no error.
func New(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.TTL), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path, cfg.TTL)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be memory or sqlite", cfg.Backend)
	}
}

// expired reports whether an entry written at ts is older than ttl.
// A zero ttl never expires.
func expired(ts int64, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(time.Unix(0, ts)) > ttl
}
