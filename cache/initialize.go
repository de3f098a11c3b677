package cache

import (
	"os"

	"caption-service/config"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Disabled is the cache type that turns settings caching off.
const Disabled = "none"

// InitializeCache builds the settings cache backend selected in cfg. It
// returns nil when caching is disabled.
func InitializeCache(cfg config.CacheConfig) cache.Cache {
	if cfg.Type == "" || cfg.Type == Disabled {
		logger.Info("Cache disabled")
		return nil
	}
	c, err := cache.New(cache.Config{
		Type:          cfg.Type,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache", zap.Error(err), zap.String("type", cfg.Type))
		os.Exit(1)
	}
	logger.Info("Cache initialized", zap.String("type", cfg.Type))
	return c
}
