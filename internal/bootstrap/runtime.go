package bootstrap

import (
	"fmt"
	"log"

	"notably/internal/cache"
	"notably/internal/config"
	"notably/internal/database"
	"notably/internal/models"
	"notably/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo content.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := ensureDemoData(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// ensureDemoData seeds a small data set for local development, but only when
// the users table is empty so restarts never duplicate content.
func ensureDemoData(cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed demo data with production settings")
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		log.Printf("demo seed skipped, %d users already present", users)
		return nil
	}

	return seed.Seed(db, seed.Options{
		NumUsers: 10,
		NumNotes: 40,
	})
}
