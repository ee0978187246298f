// Package cache 提供商品详情的 Redis 读缓存
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/pkg/cache"
	"github.com/linjx/gomall/pkg/logger"
)

// ProductCache 商品详情缓存，写路径负责失效。
// 缓存故障只降级为直查数据库，不向上冒错。
type ProductCache struct {
	redis *cache.RedisCache
	ttl   time.Duration
}

// NewProductCache 创建商品缓存实例
func NewProductCache(redis *cache.RedisCache, ttl time.Duration) *ProductCache {
	return &ProductCache{redis: redis, ttl: ttl}
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// Get 读取缓存中的商品详情
func (c *ProductCache) Get(ctx context.Context, productID string) (*domain.Product, bool) {
	var product domain.Product
	err := c.redis.GetJSON(ctx, cacheKey(productID), &product)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn(ctx, "product cache read failed", "product_id", productID, "error", err)
		}
		return nil, false
	}
	return &product, true
}

// Set 写入商品详情缓存
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) {
	if err := c.redis.SetJSON(ctx, cacheKey(product.ProductID), product, c.ttl); err != nil {
		logger.Warn(ctx, "product cache write failed", "product_id", product.ProductID, "error", err)
	}
}

// Invalidate 删除商品详情缓存
func (c *ProductCache) Invalidate(ctx context.Context, productID string) {
	if err := c.redis.Delete(ctx, cacheKey(productID)); err != nil {
		logger.Warn(ctx, "product cache invalidate failed", "product_id", productID, "error", err)
	}
}
