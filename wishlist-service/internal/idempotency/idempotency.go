package idempotency

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-redis/redis/v8"
	"time"
)

// ErrDuplicateRequest is returned when a key has already been claimed.
var ErrDuplicateRequest = errors.New("idempotent key already exists")

const defaultTTL = 24 * time.Hour

type Guard interface {
	// Claim marks key as used. It returns ErrDuplicateRequest if the key was
	// claimed before. An empty key is always accepted.
	Claim(ctx context.Context, scope, key string) error
	// Release frees a claimed key so the request can be retried.
	Release(ctx context.Context, scope, key string) error
}

// NopGuard accepts every request.
type NopGuard struct{}

func (NopGuard) Claim(context.Context, string, string) error { return nil }
func (NopGuard) Release(context.Context, string, string) error { return nil }

type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: defaultTTL}
}

// New returns a redis-backed guard, or a NopGuard when addr is empty.
func New(addr string) Guard {
	if addr == "" {
		return NopGuard{}
	}
	return NewRedisGuard(redis.NewClient(&redis.Options{Addr: addr}))
}

func (g *RedisGuard) Claim(ctx context.Context, scope, key string) error {
	if key == "" {
		return nil
	}

	ok, err := g.rdb.SetNX(ctx, redisKey(scope, key), "exists", g.ttl).Result()
	if err != nil {
		return fmt.Errorf("claim idempotent key: %w", err)
	}
	if !ok {
		return ErrDuplicateRequest
	}
	return nil
}

func (g *RedisGuard) Release(ctx context.Context, scope, key string) error {
	if key == "" {
		return nil
	}
	if err := g.rdb.Del(ctx, redisKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("release idempotent key: %w", err)
	}
	return nil
}

func (g *RedisGuard) Close() error {
	return g.rdb.Close()
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("idempotent-key:%s:%s", scope, key)
}
