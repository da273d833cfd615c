// Package clientdata provides persistent caching for fetched price data.
// Price windows are stored as JSON blobs with expiration timestamps for
// cache-first behavior: the engine never waits on the network when a fresh
// window is already on disk.
package clientdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aristath/statarb/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_windows (
	cache_key  TEXT PRIMARY KEY,
	symbol     TEXT NOT NULL,
	data       TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_windows_expires ON price_windows(expires_at);
`

// Repository provides cache operations for fetched price windows.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new price cache repository and ensures the schema
// exists.
func NewRepository(db *sql.DB) (*Repository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize price cache schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// cacheKey identifies one fetched window. Keyed by (symbol, start, end) so
// different date ranges never share cached data.
func cacheKey(symbol, start, end string) string {
	return symbol + "|" + start + "|" + end
}

// Store saves a price series for (symbol, start, end) with
// expiration = now + ttl. Uses INSERT OR REPLACE to upsert.
func (r *Repository) Store(symbol, start, end string, series domain.PriceSeries, ttl time.Duration) error {
	jsonData, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to marshal price series: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO price_windows (cache_key, symbol, data, expires_at) VALUES (?, ?, ?, ?)",
		cacheKey(symbol, start, end), symbol, string(jsonData), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store price window: %w", err)
	}

	return nil
}

// GetIfFresh returns the cached series only if expires_at > now.
// Returns nil, nil when the key doesn't exist or the data is expired.
func (r *Repository) GetIfFresh(symbol, start, end string) (*domain.PriceSeries, error) {
	var data string
	err := r.db.QueryRow(
		"SELECT data FROM price_windows WHERE cache_key = ? AND expires_at > ?",
		cacheKey(symbol, start, end), time.Now().Unix(),
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price window: %w", err)
	}

	var series domain.PriceSeries
	if err := json.Unmarshal([]byte(data), &series); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached price series: %w", err)
	}

	return &series, nil
}

// DeleteExpired removes all rows whose expiration has passed and returns the
// number of rows deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(
		"DELETE FROM price_windows WHERE expires_at <= ?",
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired price windows: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of cached windows (fresh and stale).
func (r *Repository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM price_windows").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count price windows: %w", err)
	}
	return n, nil
}
