// Package bootstrap establishes runtime dependencies for the binaries.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"entrelinhas/internal/cache"
	"entrelinhas/internal/config"
	"entrelinhas/internal/database"
	"entrelinhas/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureDevAdmin creates or repairs the development admin account.
	EnsureDevAdmin bool
}

// InitRuntime connects to the database and Redis. Redis failures degrade to
// a nil client; the board runs uncached.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDevAdmin {
		if err := ensureDevAdmin(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAdmin guarantees a usable admin account in development so the
// moderation endpoints can be exercised without manual setup. Never runs in
// production.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin-dev-password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("username = ?", "admin").First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				Username: "admin",
				Nickname: "Moderação",
				Password: string(hashedPassword),
				IsAdmin:  true,
				IsActive: true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			log.Println("development admin account created (username: admin)")
		case findErr != nil:
			return findErr
		default:
			if !admin.IsAdmin {
				if err := tx.Model(&admin).Update("is_admin", true).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
