package redisstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Store wraps a Redis client for the small amount of shared state the API keeps:
// auth rate-limit counters and idempotent check-in responses.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func Connect(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

// Get returns "" with a nil error when the key does not exist.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Allow counts a hit for key in a fixed window and reports whether the caller
// is still within limit. The window starts at the first hit.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	hashed := fmt.Sprintf("ratelimit:%x", sha256.Sum256([]byte(key)))
	count, err := s.client.Incr(ctx, hashed).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, hashed, window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(limit), nil
}
