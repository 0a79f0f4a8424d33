package waste

import (
	"context"
	"fmt"

	"github.com/Anit-Biswas/Waste-management-website/internal/config"
	interf "github.com/Anit-Biswas/Waste-management-website/internal/interfaces"
	"go.uber.org/zap"
)

// Open подключает выбранное хранилище и, если настроен, кэш redis поверх него.
// cleanup освобождает все соединения.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (kv interf.KeyValue, cleanup func(), err error) {
	var closers []func()
	var cached bool
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Store {
	case config.StoreMongo:
		m, err := NewMongoKV(ctx, cfg.Mongo.Addr, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo: %w", err)
		}
		closers = append(closers, func() { _ = m.Close(context.Background()) })
		kv = m
	case config.StorePostgres:
		p, err := NewPostgresKV(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, p.Close)
		kv = p
	default:
		kv = NewMemoryKV()
	}

	// cache
	if cfg.Cache != nil {
		cache, err := NewCacheService(ctx, cfg.Cache.Addr, cfg.Cache.User, cfg.Cache.Password)
		if err != nil {
			// без кэша работаем напрямую с хранилищем
			logger.Error("cache", zap.Error(err))
		} else {
			closers = append(closers, func() { _ = cache.Close() })
			kv = NewCachedKV(kv, cache, logger)
			cached = true
		}
	}
	logger.Info("storage",
		zap.String("store", cfg.Store),
		zap.Bool("cache", cached),
	)
	return kv, cleanup, nil
}
