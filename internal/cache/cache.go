// Package cache implements a time-boxed read-through cache for collection
// reads, keyed by collection name and backed by Redis. Expiry is lazy: an
// entry older than the TTL is evicted on read, there is no background sweep.
// Mutations close the read-after-write gap by invalidating eagerly instead of
// updating in place.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/observability"
)

const keyPrefix = "ffs:cache:"

// DefaultTTL bounds staleness for cached collection reads.
const DefaultTTL = 5 * time.Minute

type envelope struct {
	Data     json.RawMessage `json:"data"`
	CachedAt time.Time       `json:"cached_at"`
}

// Store is a namespaced collection cache. A nil *Store is a valid no-op
// cache: every Get misses and every Set is dropped.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a cache store. A non-positive ttl falls back to DefaultTTL.
func New(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "collection_cache").Logger(),
		now:    time.Now,
	}
}

// Set serialises data with a write timestamp and stores it under the
// namespaced key. Failures are logged and swallowed: the cache never breaks
// the read path.
func (s *Store) Set(ctx context.Context, key string, data interface{}) {
	if s == nil || s.client == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set: marshal failed")
		return
	}

	payload, err := json.Marshal(envelope{Data: raw, CachedAt: s.now()})
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set: envelope marshal failed")
		return
	}

	// Redis expiry is a backstop at twice the TTL; the age check in Get is
	// the authoritative expiry.
	if err := s.client.Set(ctx, keyPrefix+key, payload, 2*s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Get deserialises the entry under key into dest and reports whether it was
// a usable hit. Entries at or past the TTL are evicted and reported as a
// miss. Any deserialisation error is a miss, never an error.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.client == nil {
		return false
	}

	payload, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		observability.CacheLookups().WithLabelValues(key, "miss").Inc()
		return false
	}

	var entry envelope
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache get: corrupt entry")
		observability.CacheLookups().WithLabelValues(key, "miss").Inc()
		return false
	}

	if s.now().Sub(entry.CachedAt) >= s.ttl {
		s.Invalidate(ctx, key)
		observability.CacheLookups().WithLabelValues(key, "expired").Inc()
		return false
	}

	if err := json.Unmarshal(entry.Data, dest); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache get: unmarshal failed")
		observability.CacheLookups().WithLabelValues(key, "miss").Inc()
		return false
	}

	observability.CacheLookups().WithLabelValues(key, "hit").Inc()
	return true
}

// Invalidate removes the entry under key immediately. Called after every
// successful write to the corresponding collection.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}

// ClearAll removes every namespaced entry. Used by destructive reset
// operations.
func (s *Store) ClearAll(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("cache clear: delete failed")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("cache clear: scan failed")
	}
}
