// Package bootstrap wires the storage dependencies shared by every binary.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"shiftswap/internal/cache"
	"shiftswap/internal/config"
	"shiftswap/internal/database"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs the configured schema policy after connecting.
	ApplySchema bool
	// SkipRedis leaves the cache disabled, for tools that never read it.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis. The Redis client is nil
// when REDIS_URL is unset or unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("schema setup failed: %w", err)
		}
	}

	if opts.SkipRedis {
		return db, nil, nil
	}

	cache.InitRedis(cfg.RedisURL)
	return db, cache.GetClient(), nil
}
