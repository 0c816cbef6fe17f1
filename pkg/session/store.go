package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long a stored query survives without being saved again.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNotFound indicates no query is stored for the key.
	ErrNotFound = errors.New("session query not found")

	// ErrInvalidEntry indicates the stored value could not be decoded.
	ErrInvalidEntry = errors.New("invalid session entry")
)

// Entry is the stored value.
type Entry struct {
	Query   query.ListQuery `json:"query"`
	SavedAt time.Time       `json:"saved_at"`
}

// Store keeps list queries in Redis.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStore creates a store. A non-positive ttl uses DefaultTTL.
func NewStore(redisClient *redis.Client, ttl time.Duration, logger zerolog.Logger) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// TTL returns the expiry applied on Save.
func (s *Store) TTL() time.Duration { return s.ttl }

// Load returns the query stored for key.
// Returns ErrNotFound if nothing is stored or the entry has expired.
func (s *Store) Load(ctx context.Context, key Key) (query.ListQuery, error) {
	data, err := s.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			StoreOps.WithLabelValues("load", "miss").Inc()
			return query.ListQuery{}, ErrNotFound
		}
		StoreOps.WithLabelValues("load", "error").Inc()
		return query.ListQuery{}, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		StoreOps.WithLabelValues("load", "error").Inc()
		return query.ListQuery{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	StoreOps.WithLabelValues("load", "ok").Inc()
	s.logger.Debug().
		Str("key", key.String()).
		Time("saved_at", entry.SavedAt).
		Msg("Restored list query")

	return entry.Query.Clone(), nil
}

// Save stores q for key and refreshes the TTL.
func (s *Store) Save(ctx context.Context, key Key, q query.ListQuery) error {
	data, err := json.Marshal(Entry{Query: q, SavedAt: time.Now().UTC()})
	if err != nil {
		StoreOps.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("marshal session entry: %w", err)
	}

	if err := s.redis.Set(ctx, key.String(), data, s.ttl).Err(); err != nil {
		StoreOps.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	StoreOps.WithLabelValues("save", "ok").Inc()
	return nil
}

// Delete removes the query stored for key.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := s.redis.Del(ctx, key.String()).Err(); err != nil {
		StoreOps.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	StoreOps.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
