package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/storefront/model"
	logx "github.com/storefront-core/server/pkg/logger"
)

// RedisCache stores normalised listings as JSON strings with a TTL.
type RedisCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "catalog"
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *RedisCache) productsKey(key string) string {
	return fmt.Sprintf("%s:products:%s", c.prefix, key)
}

func (c *RedisCache) categoriesKey() string {
	return fmt.Sprintf("%s:categories", c.prefix)
}

func (c *RedisCache) GetProducts(ctx context.Context, key string) ([]model.Product, bool, error) {
	var products []model.Product
	found, err := c.get(ctx, c.productsKey(key), &products)
	return products, found, err
}

func (c *RedisCache) SetProducts(ctx context.Context, key string, products []model.Product) error {
	return c.set(ctx, c.productsKey(key), products)
}

func (c *RedisCache) GetCategories(ctx context.Context) ([]model.Category, bool, error) {
	var categories []model.Category
	found, err := c.get(ctx, c.categoriesKey(), &categories)
	return categories, found, err
}

func (c *RedisCache) SetCategories(ctx context.Context, categories []model.Category) error {
	return c.set(ctx, c.categoriesKey(), categories)
}

// Invalidate scans and deletes every key under the cache prefix.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	pattern := c.prefix + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logx.Error().Err(err).Str("pattern", pattern).Msg("failed to scan catalog keys")
		return errx.WrapRedis(err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logx.Error().Err(err).Int("keys", len(keys)).Msg("failed to delete catalog keys")
		return errx.WrapRedis(err)
	}
	return nil
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read catalog cache")
		return false, errx.WrapRedis(err)
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("discarding undecodable catalog cache entry")
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal catalog entry: %w", err)
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write catalog cache")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.CatalogCache = (*RedisCache)(nil)
