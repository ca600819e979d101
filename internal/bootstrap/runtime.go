// Package bootstrap wires the runtime dependencies of the server and
// the seed command.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"muckd/internal/cache"
	"muckd/internal/config"
	"muckd/internal/database"
	"muckd/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis. The Redis client is
// nil when the server is unreachable; phone verification and real-time
// delivery degrade, everything else keeps working.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		log.Println("redis unreachable; phone verification and live notifications are degraded")
	}

	if opts.SeedDemoData {
		if !strings.EqualFold(cfg.Env, "development") {
			return nil, nil, fmt.Errorf("demo seeding is only allowed in development, APP_ENV is %q", cfg.Env)
		}
		if err := seed.Seed(db, seed.Options{NumUsers: 25, NumPosts: 60, SkipBcrypt: true}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}
