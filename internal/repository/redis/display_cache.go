package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/repository"
)

// DisplayCacheConfig configures key layout and entry lifetime.
type DisplayCacheConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// DisplayCache caches politician and author display data in Redis so listing
// enrichment does not hit PostgreSQL for every page.
type DisplayCache struct {
	client *redis.Client
	cfg    DisplayCacheConfig
}

// NewDisplayCache constructs a Redis-backed display cache.
func NewDisplayCache(client *redis.Client, cfg DisplayCacheConfig) *DisplayCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &DisplayCache{client: client, cfg: cfg}
}

// GetPolitician returns a cached politician or repository.ErrNotFound on miss.
func (c *DisplayCache) GetPolitician(ctx context.Context, id string) (*domain.Politician, error) {
	var politician domain.Politician
	if err := c.get(ctx, c.key("politician", id), &politician); err != nil {
		return nil, err
	}
	return &politician, nil
}

// SetPolitician caches politician display data.
func (c *DisplayCache) SetPolitician(ctx context.Context, politician domain.Politician) error {
	return c.set(ctx, c.key("politician", politician.ID), politician)
}

// GetProfile returns a cached author profile or repository.ErrNotFound on miss.
func (c *DisplayCache) GetProfile(ctx context.Context, id string) (*domain.AuthorProfile, error) {
	var profile domain.AuthorProfile
	if err := c.get(ctx, c.key("profile", id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfile caches author profile display data.
func (c *DisplayCache) SetProfile(ctx context.Context, profile domain.AuthorProfile) error {
	return c.set(ctx, c.key("profile", profile.ID), profile)
}

func (c *DisplayCache) get(ctx context.Context, key string, dest any) error {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode cached entry %s: %w", key, err)
	}

	return nil
}

func (c *DisplayCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (c *DisplayCache) key(kind, id string) string {
	if c.cfg.KeyPrefix == "" {
		return fmt.Sprintf("%s:%s", kind, id)
	}
	return fmt.Sprintf("%s:%s:%s", c.cfg.KeyPrefix, kind, id)
}

var _ port.DisplayCache = (*DisplayCache)(nil)
