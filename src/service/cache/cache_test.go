package cache

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/config"
)

func TestNewSelectsBackend(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s, err := New(config.CacheConfig{Enabled: false})
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("memory", func(t *testing.T) {
		s, err := New(config.CacheConfig{Enabled: true, Backend: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "cache.db")
		s, err := New(config.CacheConfig{Enabled: true, Backend: "sqlite", Path: path})
		require.NoError(t, err)
		defer func() { _ = s.Close() }()
		assert.IsType(t, &SQLiteStore{}, s)
		assert.FileExists(t, path)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(config.CacheConfig{Enabled: true, Backend: "redis"})
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	_, found, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("k", []byte("first")))
	require.NoError(t, s.Set("k", []byte("second")))

	v, found, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("first"), v, "first live writer wins")
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set("k", []byte("old")))
	now = now.Add(2 * time.Minute)

	_, found, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("k", []byte("new")))
	v, found, _ := s.Get("k")
	assert.True(t, found)
	assert.Equal(t, []byte("new"), v)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = s.Set(key, []byte(key))
			_, _, _ = s.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, s.Len())
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Set("python:abc", []byte(`{"functions":[]}`)))
	require.NoError(t, s.Close())

	// reopen to prove persistence
	s, err = NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, found, err := s.Get("python:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"functions":[]}`, string(v))

	_, found, err = s.Get("python:missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStoreExpiryAndVersion(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), time.Minute)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set("fresh", []byte("1")))
	require.NoError(t, s.Set("stale", []byte("2")))
	_, err = s.db.Exec(`UPDATE extraction_cache SET cache_timestamp = ? WHERE cache_key = 'stale'`, now.Add(-time.Hour).UnixNano())
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO extraction_cache VALUES ('old-version', x'00', ?, ?)`, SchemaVersion+1, now.UnixNano())
	require.NoError(t, err)

	_, found, _ := s.Get("fresh")
	assert.True(t, found)
	_, found, _ = s.Get("stale")
	assert.False(t, found)
	_, found, _ = s.Get("old-version")
	assert.False(t, found)

	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestSQLiteStorePrunesOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Set("fresh", []byte("1")))
	require.NoError(t, s.Set("stale", []byte("2")))
	_, err = s.db.Exec(`UPDATE extraction_cache SET cache_timestamp = ? WHERE cache_key = 'stale'`, time.Now().Add(-2*time.Hour).UnixNano())
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO extraction_cache VALUES ('old-version', x'00', ?, ?)`, SchemaVersion+1, time.Now().UnixNano())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	var keys []string
	rows, err := s.db.Query(`SELECT cache_key FROM extraction_cache`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("", time.Hour)
	assert.Error(t, err)
}
