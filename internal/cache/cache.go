// Package cache provides a short-TTL redis projection cache for the
// read paths (lot listings, spot grids, availability counts).  It is a
// performance layer only: every method degrades to a no-op when redis
// is unavailable, and the services invalidate keys on every write that
// touches lot or spot state so a stale entry never outlives its TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyLots caches the full lot listing.
const KeyLots = "lots"

// KeySpots caches the spot grid of one lot.
func KeySpots(lotID uint64) string { return fmt.Sprintf("spots:%d", lotID) }

// KeyAvailability caches the available-spot count of one lot.
func KeyAvailability(lotID uint64) string { return fmt.Sprintf("avail:%d", lotID) }

// Store wraps a redis client with JSON marshalling and a fixed TTL.
// A nil *Store (or a Store built over a nil client) is valid and
// behaves as an always-miss cache.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a Store.  rdb may be nil when redis is down; the store
// then misses on every read and drops every write.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// GetJSON loads a cached value into v.  Returns false on miss, decode
// failure or a disabled cache.
func (s *Store) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if s == nil || s.rdb == nil {
		return false
	}
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(bs, v) == nil
}

// SetJSON stores a value under key with the configured TTL.  Failures
// are ignored; the cache never gates a response.
func (s *Store) SetJSON(ctx context.Context, key string, v interface{}) {
	if s == nil || s.rdb == nil {
		return
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.rdb.SetEx(ctx, key, bs, s.ttl).Err()
}

// Del drops the given keys.  Called by the core after every write that
// mutates lot or spot state.
func (s *Store) Del(ctx context.Context, keys ...string) {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return
	}
	_ = s.rdb.Del(ctx, keys...).Err()
}
