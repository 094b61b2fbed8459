// ABOUTME: SQLite-backed content-addressed cache entries with TTL
// ABOUTME: Expired rows read as misses and are removed by PurgeExpired
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CacheStore implements the cache backend on the cache_entries table
type CacheStore struct {
	db  *DB
	now func() time.Time
}

// NewCacheStore creates a new CacheStore
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db, now: time.Now}
}

// Get returns the payload for key. Expired entries are reported as absent;
// reading never extends an entry's lifetime.
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `
		SELECT payload FROM cache_entries
		WHERE key = ? AND expires_at > ?
	`, key, s.now().UnixNano()).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return payload, true, nil
}

// Set stores payload under key for ttl, replacing any previous entry
func (s *CacheStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	expires := s.now().Add(ttl).UnixNano()
	_, err := s.db.Exec(ctx, `
		INSERT INTO cache_entries (key, namespace, payload, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at
	`, key, namespaceOf(key), payload, expires)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed
func (s *CacheStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.Exec(ctx, "DELETE FROM cache_entries WHERE expires_at <= ?", s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// CountByNamespace returns live entry counts keyed by namespace
func (s *CacheStore) CountByNamespace(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT namespace, COUNT(*) FROM cache_entries
		WHERE expires_at > ?
		GROUP BY namespace
	`, s.now().UnixNano())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			ns string
			n  int
		)
		if err := rows.Scan(&ns, &n); err != nil {
			return nil, err
		}
		counts[ns] = n
	}
	return counts, rows.Err()
}

// namespaceOf extracts the namespace segment from "orbit:<namespace>:<hash>"
func namespaceOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) == 3 {
		return parts[1]
	}
	return ""
}
