// Package graphstore implements the shared graph capability on Redis.
// Values live under namespaced keys, sets under the same paths, and
// writes are published on the key's channel so other clients observe
// them. Last write wins; the store is eventually consistent.
package graphstore

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"prereq-orchestrator/internal/domain"
)

// RedisStore backs domain.GraphStore with a Redis instance. ObserveOnce
// reads go through a small LRU cache so repeated lookups of the same
// node stay local.
type RedisStore struct {
	client *redis.Client
	prefix string
	cache  *lru.Cache[string, string]
	logger *slog.Logger
}

// NewRedisStore connects to the Redis URL and prepares the read cache.
func NewRedisStore(redisURL, prefix string, cacheSize int, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		prefix: prefix,
		cache:  cache,
		logger: logger,
	}, nil
}

// Ping verifies connectivity, for readiness checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, path ...string) (string, bool, error) {
	value, err := s.client.Get(ctx, keyPath(s.prefix, path)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, value string, path ...string) error {
	key := keyPath(s.prefix, path)
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return err
	}
	s.cache.Add(key, value)
	// Notify observers; a dropped publish only delays convergence.
	if err := s.client.Publish(ctx, key, value).Err(); err != nil {
		s.logger.Warn("graph publish failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func (s *RedisStore) ObserveOnce(ctx context.Context, path ...string) (string, bool, error) {
	key := keyPath(s.prefix, path)
	if value, ok := s.cache.Get(key); ok {
		return value, true, nil
	}
	value, ok, err := s.Get(ctx, path...)
	if err == nil && ok {
		s.cache.Add(key, value)
	}
	return value, ok, err
}

func (s *RedisStore) Observe(ctx context.Context, path ...string) (<-chan string, func(), error) {
	key := keyPath(s.prefix, path)
	pubsub := s.client.Subscribe(ctx, key)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				s.cache.Add(key, msg.Payload)
				select {
				case out <- msg.Payload:
				case <-done:
					return
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = pubsub.Close()
	}
	return out, cancel, nil
}

func (s *RedisStore) SetMember(ctx context.Context, member string, path ...string) error {
	return s.client.SAdd(ctx, keyPath(s.prefix, path), member).Err()
}

func (s *RedisStore) RemoveMember(ctx context.Context, member string, path ...string) error {
	return s.client.SRem(ctx, keyPath(s.prefix, path), member).Err()
}

func (s *RedisStore) Members(ctx context.Context, path ...string) ([]string, error) {
	return s.client.SMembers(ctx, keyPath(s.prefix, path)).Result()
}

func keyPath(prefix string, path []string) string {
	return prefix + ":" + strings.Join(path, ":")
}

var _ domain.GraphStore = (*RedisStore)(nil)
