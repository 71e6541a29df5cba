package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/preference"
)

const (
	prefCacheKeyPrefix = "notif:prefs:"
	prefCacheTTL       = 5 * time.Minute
)

// GetPreferences returns the user's preference document, or nil when
// the user has none (fail-open default applied by the resolver). Reads
// go through the Redis cache when one is configured.
func (db *DB) GetPreferences(ctx context.Context, userID string) (*preference.Document, error) {
	if doc, ok := db.cachedPreferences(ctx, userID); ok {
		return doc, nil
	}

	query := `
		SELECT preferences
		FROM user_notification_preferences
		WHERE user_id = $1
	`
	var raw []byte
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		db.cachePreferences(ctx, userID, []byte("null"))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences for user %s: %w", userID, err)
	}

	var doc preference.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences for user %s: %w", userID, err)
	}

	db.cachePreferences(ctx, userID, raw)
	return &doc, nil
}

// cachedPreferences returns the cached document and whether the cache
// had an entry. A cached "null" means the user has no document.
func (db *DB) cachedPreferences(ctx context.Context, userID string) (*preference.Document, bool) {
	if db.cache == nil {
		return nil, false
	}

	raw, err := db.cache.Get(ctx, prefCacheKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("Preference cache read failed", "user_id", userID, "error", err)
		return nil, false
	}

	var doc *preference.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Warn("Discarding corrupt preference cache entry", "user_id", userID, "error", err)
		return nil, false
	}
	return doc, true
}

func (db *DB) cachePreferences(ctx context.Context, userID string, raw []byte) {
	if db.cache == nil {
		return
	}
	if err := db.cache.Set(ctx, prefCacheKeyPrefix+userID, raw, prefCacheTTL).Err(); err != nil {
		slog.Warn("Preference cache write failed", "user_id", userID, "error", err)
	}
}
