package waste

import (
	"context"
	"fmt"
	"time"

	interf "github.com/Anit-Biswas/Waste-management-website/internal/interfaces"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

type CacheService struct {
	client *redis.Client
}

func NewCacheService(ctx context.Context, addr, user, pwd string) (serv *CacheService, err error) {
	db := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    pwd,
		Username:    user,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	err = db.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return &CacheService{db}, nil
}

func cacheKey(key string) string {
	return "waste:" + key
}

func (c *CacheService) GetCollection(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("cache %s %w", key, model.ErrNotFound)
	} else if err != nil {
		return "", err
	}
	return val, nil
}

func (c *CacheService) SetCollection(ctx context.Context, key string, value string) error {
	return c.client.Set(ctx, cacheKey(key), value, cacheTTL).Err()
}

func (c *CacheService) InvalidateCollection(ctx context.Context, key string) error {
	return c.client.Del(ctx, cacheKey(key)).Err()
}

func (c *CacheService) Close() error {
	return c.client.Close()
}

// CachedKV - чтение через кэш, запись в основное хранилище с инвалидацией кэша
type CachedKV struct {
	db     interf.KeyValue
	cache  interf.CacheStorage
	logger *zap.Logger
}

func NewCachedKV(db interf.KeyValue, cache interf.CacheStorage, logger *zap.Logger) *CachedKV {
	return &CachedKV{db, cache, logger}
}

func (c *CachedKV) Get(ctx context.Context, key string) (string, bool, error) {
	// cache
	value, err := c.cache.GetCollection(ctx, key)
	if err == nil {
		return value, true, nil
	}
	// database
	value, ok, err := c.db.Get(ctx, key)
	if err != nil || !ok {
		return value, ok, err
	}
	err = c.cache.SetCollection(ctx, key, value)
	if err != nil {
		c.logger.Warn("cache set",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return value, true, nil
}

func (c *CachedKV) Set(ctx context.Context, key string, value string) error {
	err := c.db.Set(ctx, key, value)
	if err != nil {
		return err
	}
	err = c.cache.InvalidateCollection(ctx, key)
	if err != nil {
		c.logger.Error("cache invalidate",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return nil
}
