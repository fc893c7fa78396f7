// Package cache holds the read-through store for fetched orders.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/config"
)

// Store is a byte-oriented key value cache with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

var errEmptyKey = errors.New("cache key is required")

// Module provides the configured Store.
var Module = fx.Provide(NewStore)

// NewStore picks the backend named by CACHE_DRIVER.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Store, error) {
	log := logger.With(zap.String("component", "cache"), zap.String("driver", cfg.Cache.Driver))

	switch cfg.Cache.Driver {
	case "noop":
		log.Info("order cache disabled")
		return Noop(), nil
	case "memory":
		log.Debug("order cache in process", zap.Duration("default_ttl", cfg.Cache.DefaultTTL))
		return NewMemory(cfg.Cache.DefaultTTL), nil
	case "redis":
		store := NewRedis(cfg.Cache)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := store.Ping(ctx); err != nil {
					return err
				}
				log.Info("order cache connected", zap.String("addr", cfg.Cache.Redis.Addr), zap.String("prefix", cfg.Cache.Prefix))
				return nil
			},
			OnStop: func(context.Context) error { return store.Close() },
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}
}

// Noop returns a Store that keeps nothing; every Get misses.
func Noop() Store { return noopStore{} }

type noopStore struct{}

func (noopStore) Get(context.Context, string) ([]byte, error)             { return nil, ErrCacheMiss }
func (noopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noopStore) Delete(context.Context, string) error                    { return nil }
