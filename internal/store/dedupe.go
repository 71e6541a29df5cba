package store

import (
	"context"
	"fmt"
	"time"
)

const (
	dedupeKeyPrefix = "notif:dedupe:"
	dedupeTTL       = 24 * time.Hour
)

// ClaimDispatch records that an event-derived dedupe key is being
// dispatched. It returns false when the key was already claimed, which
// happens on bus redelivery of an event that was already handled.
// Without a cache the claim always succeeds; the bus's at-least-once
// semantics then apply unfiltered.
func (db *DB) ClaimDispatch(ctx context.Context, key string) (bool, error) {
	if db.cache == nil || key == "" {
		return true, nil
	}

	ok, err := db.cache.SetNX(ctx, dedupeKeyPrefix+key, 1, dedupeTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim dispatch for %s: %w", key, err)
	}
	return ok, nil
}
