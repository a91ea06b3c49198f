// Package bootstrap wires the shared runtime dependencies (database, Redis,
// built-in accounts) used by the server and the seeder commands.
package bootstrap

import (
	"fmt"

	"astra/internal/cache"
	"astra/internal/config"
	"astra/internal/database"
	"astra/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureDemoUser creates the built-in demo account on startup.
	EnsureDemoUser bool
}

// InitRuntime connects to the database and Redis and optionally ensures the
// demo account exists. The Redis client may be nil if the server is
// unreachable; callers degrade gracefully.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDemoUser {
		if _, err := seed.EnsureDemoUser(db); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure demo user: %w", err)
		}
	}

	return db, r, nil
}
