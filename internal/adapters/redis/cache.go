package redisad

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"uae_edu/internal/adapters/observability"
)

// PageCache stores fetched page bodies keyed by URL digest so reruns within
// the TTL replay captured responses instead of re-hitting the sources.
type PageCache struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *PageCache {
	return &PageCache{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

func key(url string) string {
	sum := sha1.Sum([]byte(url))
	return "page:" + hex.EncodeToString(sum[:])
}

func (p *PageCache) GetPage(ctx context.Context, url string) ([]byte, bool, error) {
	v, err := p.c.Get(ctx, key(url)).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	observability.ObserveCache("redis", "hit")
	return v, true, nil
}

func (p *PageCache) SetPage(ctx context.Context, url string, body []byte) error {
	observability.ObserveCache("redis", "set")
	return p.c.Set(ctx, key(url), body, p.ttl).Err()
}
