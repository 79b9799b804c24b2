package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tecawayBack/internal/models"
)

const (
	sectionsKey    = "tecaway:catalog:sections"
	knowledgesKey  = "tecaway:catalog:knowledges"
	membershipsKey = "tecaway:catalog:user_knowledges"
)

// CatalogCache keeps JSON copies of the skill catalogs in Redis.
// A zero TTL disables caching.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) enabled() bool { return c != nil && c.rdb != nil && c.ttl > 0 }

func load[T any](ctx context.Context, c *CatalogCache, key string) ([]T, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("catalog cache get %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("catalog cache decode %s: %w", key, err)
	}
	return out, true, nil
}

func (c *CatalogCache) store(ctx context.Context, key string, v any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set %s: %w", key, err)
	}
	return nil
}

func (c *CatalogCache) Sections(ctx context.Context) ([]models.Section, bool, error) {
	return load[models.Section](ctx, c, sectionsKey)
}

func (c *CatalogCache) SetSections(ctx context.Context, v []models.Section) error {
	return c.store(ctx, sectionsKey, v)
}

func (c *CatalogCache) Knowledges(ctx context.Context) ([]models.Knowledge, bool, error) {
	return load[models.Knowledge](ctx, c, knowledgesKey)
}

func (c *CatalogCache) SetKnowledges(ctx context.Context, v []models.Knowledge) error {
	return c.store(ctx, knowledgesKey, v)
}

func (c *CatalogCache) Memberships(ctx context.Context) ([]models.UserKnowledge, bool, error) {
	return load[models.UserKnowledge](ctx, c, membershipsKey)
}

func (c *CatalogCache) SetMemberships(ctx context.Context, v []models.UserKnowledge) error {
	return c.store(ctx, membershipsKey, v)
}

// InvalidateSections drops sections and everything derived from them.
func (c *CatalogCache) InvalidateSections(ctx context.Context) error {
	return c.del(ctx, sectionsKey, knowledgesKey, membershipsKey)
}

func (c *CatalogCache) InvalidateKnowledges(ctx context.Context) error {
	return c.del(ctx, knowledgesKey, membershipsKey)
}

func (c *CatalogCache) InvalidateMemberships(ctx context.Context) error {
	return c.del(ctx, membershipsKey)
}

func (c *CatalogCache) del(ctx context.Context, keys ...string) error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
