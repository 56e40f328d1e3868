// Package bootstrap wires up shared runtime dependencies for the binaries.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"meriter/internal/cache"
	"meriter/internal/config"
	"meriter/internal/database"
	"meriter/internal/models"
	"meriter/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally runs built-in seeding.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevSuperadmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development superadmin: %w", err)
	}

	if opts.SeedBuiltIns {
		if err := seed.Communities(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in communities: %w", err)
		}
	}

	return db, r, nil
}

func ensureDevSuperadmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapSuperadmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevSuperadminUsername)
	if username == "" {
		username = "meriter_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevSuperadminEmail))
	if email == "" {
		email = "root@meriter.local"
	}
	password := cfg.DevSuperadminPassword
	if password == "" {
		return fmt.Errorf("DEV_SUPERADMIN_PASSWORD must be set when DEV_BOOTSTRAP_SUPERADMIN is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:           1,
				Username:     username,
				Email:        email,
				Password:     string(hashedPassword),
				IsSuperadmin: true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", 1).
				Update("is_superadmin", true).Error; err != nil {
				return err
			}
		}

		// Ensure users ID sequence is not behind explicit ID insertion.
		// This is PostgreSQL-specific.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return err
	}

	log.Printf("development superadmin bootstrap ensured for user ID 1 (%s)", email)
	return nil
}
