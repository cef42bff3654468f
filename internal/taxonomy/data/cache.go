package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lokmitra/content-catalog-backend/internal/pkg/logger"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/redis"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/biz"
	"github.com/lokmitra/content-catalog-backend/internal/taxonomy/types"
)

// ListingCache caches rendered taxonomy listings in Redis, one key per
// language. Cache errors degrade to a miss; the read path then hits
// the database.
type ListingCache struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewListingCache creates a Redis-backed listing cache
func NewListingCache(rdb *redis.Client, log *logger.Logger) biz.ListingCache {
	return &ListingCache{rdb: rdb, log: log}
}

func categoriesKey(lang string) string {
	return fmt.Sprintf("categories:%s", lang)
}

func subcategoriesKey(categoryID uint64, lang string) string {
	return fmt.Sprintf("subcategories:%d:%s", categoryID, lang)
}

// GetCategories returns the cached category listing for a language
func (c *ListingCache) GetCategories(ctx context.Context, lang string) ([]types.CategoryView, bool) {
	var views []types.CategoryView
	if !c.get(ctx, categoriesKey(lang), &views) {
		return nil, false
	}
	return views, true
}

// SetCategories caches the category listing for a language
func (c *ListingCache) SetCategories(ctx context.Context, lang string, views []types.CategoryView, ttl time.Duration) {
	c.set(ctx, categoriesKey(lang), views, ttl)
}

// GetSubcategories returns the cached subcategory listing for a
// category and language
func (c *ListingCache) GetSubcategories(ctx context.Context, categoryID uint64, lang string) ([]types.SubcategoryView, bool) {
	var views []types.SubcategoryView
	if !c.get(ctx, subcategoriesKey(categoryID, lang), &views) {
		return nil, false
	}
	return views, true
}

// SetSubcategories caches the subcategory listing for a category and
// language
func (c *ListingCache) SetSubcategories(ctx context.Context, categoryID uint64, lang string, views []types.SubcategoryView, ttl time.Duration) {
	c.set(ctx, subcategoriesKey(categoryID, lang), views, ttl)
}

// InvalidateCategories drops the category listing for every language
func (c *ListingCache) InvalidateCategories(ctx context.Context, langs []string) {
	keys := make([]string, len(langs))
	for i, lang := range langs {
		keys[i] = categoriesKey(lang)
	}
	c.del(ctx, keys)
}

// InvalidateSubcategories drops a category's subcategory listing for
// every language
func (c *ListingCache) InvalidateSubcategories(ctx context.Context, categoryID uint64, langs []string) {
	keys := make([]string, len(langs))
	for i, lang := range langs {
		keys[i] = subcategoriesKey(categoryID, lang)
	}
	c.del(ctx, keys)
}

func (c *ListingCache) get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			c.log.WithContext(ctx).Warn("listing cache read failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.WithContext(ctx).Warn("listing cache entry corrupt, dropping",
			zap.String("key", key),
			zap.Error(err),
		)
		c.del(ctx, []string{key})
		return false
	}
	return true
}

func (c *ListingCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.WithContext(ctx).Warn("listing cache marshal failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl); err != nil {
		c.log.WithContext(ctx).Warn("listing cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (c *ListingCache) del(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if _, err := c.rdb.Del(ctx, keys...); err != nil {
		c.log.WithContext(ctx).Warn("listing cache invalidation failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}
