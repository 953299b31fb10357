package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catering/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL applies when Set is called with a zero ttl.
	DefaultTTL = 24 * time.Hour
	// DefaultPrefix namespaces every key of the service.
	DefaultPrefix = "catering"
)

// Config configures the Redis backed cache.
type Config struct {
	Prefix     string
	DefaultTTL time.Duration
}

// Store is a ports.Cache on Redis. Values are stored as JSON under
// "<prefix>:<namespace>:<key>".
type Store struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

var _ ports.Cache = (*Store)(nil)

func NewStore(client *redis.Client, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	return &Store{client: client, prefix: cfg.Prefix, defaultTTL: cfg.DefaultTTL}
}

func (s *Store) key(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, namespace, key)
}

func (s *Store) Get(ctx context.Context, namespace, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, s.key(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: %s/%s: %w", ports.ErrCacheValueInvalid, namespace, key, err)
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.client.Set(ctx, s.key(namespace, key), data, ttl).Err()
}
