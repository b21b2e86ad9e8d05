// Package redisstore provides the tiny storage tier on Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/runoshun/taskboard/internal/domain"
)

const (
	// MaxValueSize is the largest value accepted, in characters.
	MaxValueSize = 3000
	// Expiry is the TTL set on every write.
	Expiry = 30 * 24 * time.Hour
	// KeyPrefix namespaces every key.
	KeyPrefix = "taskboard:"
)

// Store implements domain.StorageAdapter using Redis keys with a TTL.
type Store struct {
	client *redis.Client
}

// New creates a Store using the provided Redis client.
func New(client *redis.Client) *Store {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	return &Store{client: client}
}

// NewFromConfig creates a client from the [redis] config section.
func NewFromConfig(cfg domain.RedisConfig) *Store {
	return New(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// Name returns the backend name.
func (s *Store) Name() string {
	return domain.BackendRedis
}

// Write stores value under key with a fresh TTL. Values over MaxValueSize
// characters are rejected with domain.ErrPayloadTooLarge.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if n := len([]rune(string(value))); n > MaxValueSize {
		return fmt.Errorf("redisstore: %d characters: %w", n, domain.ErrPayloadTooLarge)
	}
	if err := s.client.Set(ctx, KeyPrefix+key, value, Expiry).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", key, err)
	}
	return nil
}

// Read returns the value under key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %q: %w", key, err)
	}
	return value, nil
}

// Clear removes key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redisstore: del %q: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements StorageAdapter.
var _ domain.StorageAdapter = (*Store)(nil)
