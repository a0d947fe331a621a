package redisad

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

const keyPrefix = "artifact:"

// Store keeps raw-feed artifacts in redis under artifact:<name>.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

func NewWithClient(c *redis.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := s.c.Set(ctx, keyPrefix+name, data, s.ttl).Err(); err != nil {
		observability.ObserveArtifact("redis", "error")
		return err
	}
	observability.ObserveArtifact("redis", "save")
	return nil
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	v, err := s.c.Get(ctx, keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveArtifact("redis", "miss")
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		observability.ObserveArtifact("redis", "error")
		return nil, err
	}
	observability.ObserveArtifact("redis", "load")
	return v, nil
}
