package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"code-analyzer/src/util"
)

const tableName = "extraction_cache"

// SQLiteStore persists entries across runs in a single SQLite file
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the cache database at path and
// drops entries that are expired or from an older schema version
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite cache requires cache.path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w. Ensure the directory is writable", path, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked" errors
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open SQLite cache at %q: %w", path, err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			cache_key TEXT PRIMARY KEY,
			cache_value BLOB NOT NULL,
			cache_version INTEGER NOT NULL,
			cache_timestamp INTEGER NOT NULL
		);
	`, tableName)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	s := &SQLiteStore{db: db, ttl: ttl, now: time.Now}
	removed, err := s.Prune()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if removed > 0 {
		util.Debug("Pruned %d stale entries from %s", removed, path)
	}
	return s, nil
}

// Get retrieves a value by key
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var (
		value   []byte
		version int
		ts      int64
	)

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = ?`, tableName)
	err := s.db.QueryRow(query, key).Scan(&value, &version, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	if version != SchemaVersion || expired(ts, s.ttl, s.now()) {
		return nil, false, nil
	}
	return value, true, nil
}

// Set inserts or replaces a key/value pair
func (s *SQLiteStore) Set(key string, value []byte) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, tableName)
	if _, err := s.db.Exec(query, key, value, SchemaVersion, s.now().UnixNano()); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Prune deletes entries that are expired or were written under another
// schema version and returns how many were removed
func (s *SQLiteStore) Prune() (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE cache_version != ?`, tableName)
	args := []any{SchemaVersion}
	if s.ttl > 0 {
		query += ` OR cache_timestamp < ?`
		args = append(args, s.now().Add(-s.ttl).UnixNano())
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying DB connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
