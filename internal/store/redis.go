package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agilerecords/records-frontend/internal/records"
)

// RedisOptions configures the connection to the shared records store.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	QueueKey string // list the backend pops records from
	CacheKey string // hash of committed records keyed by plot number
}

// RedisStore issues the queue and cache commands against Redis.
type RedisStore struct {
	client   *redis.Client
	queueKey string
	cacheKey string
}

// NewRedisStore opens a long-lived client. Connections are dialed lazily;
// call Ping to check reachability.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisStore{client: client, queueKey: opts.QueueKey, cacheKey: opts.CacheKey}
}

// Enqueue appends the serialized record to the queue list and clears any
// expiry on it, as one MULTI/EXEC.
func (s *RedisStore) Enqueue(ctx context.Context, rec records.TransactionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %w", ErrQueueWrite, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, s.queueKey, body)
		p.Persist(ctx, s.queueKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: rpush %s: %w", ErrQueueWrite, s.queueKey, err)
	}
	return nil
}

// Lookup reads a single committed record from the cache hash.
// It returns ErrRecordNotFound for an absent key and an error wrapping
// ErrCacheRead when Redis fails or the value is not a JSON object.
func (s *RedisStore) Lookup(ctx context.Context, plotNumber string) (records.CachedRecord, error) {
	raw, err := s.client.HGet(ctx, s.cacheKey, plotNumber).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: hget %s: %w", ErrCacheRead, s.cacheKey, err)
	}

	var rec records.CachedRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", ErrCacheRead, plotNumber, err)
	}
	if rec == nil {
		// JSON null
		return nil, fmt.Errorf("%w: %q is not an object", ErrCacheRead, plotNumber)
	}
	return rec, nil
}

// Ping checks that Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
