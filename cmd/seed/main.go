package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
	"github.com/oksasatya/protocol-blackout/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/protocol-blackout/internal/infrastructure/postgres"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
)

const (
	demoEmail    = "demo@protocol-blackout.local"
	demoUsername = "demoUser"
	demoPassword = "password123"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	content := pginfra.NewCatalogRepository(pool)
	if err := content.UpsertQuestions(ctx, quizQuestions); err != nil {
		log.Fatalf("failed to seed quiz questions: %v", err)
	}
	if err := content.UpsertPasswordTargets(ctx, passwordTargets); err != nil {
		log.Fatalf("failed to seed password targets: %v", err)
	}
	logger.WithFields(logrus.Fields{"questions": len(quizQuestions), "password_targets": len(passwordTargets)}).Info("catalog seeded")

	users := pginfra.NewUserRepository(pool)
	u, err := seedDemoUser(ctx, users, helpers.NewBcryptHasher(cfg.BcryptCost))
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email, "password": demoPassword}).Info("demo user ready")

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := cache.NewCatalogCache(content, rdb, cfg.CatalogCacheTTL, logger).Invalidate(ctx); err != nil {
		helpers.LogWarn(logger, "catalog cache not invalidated", err, nil)
	}
}

// seedDemoUser creates the verified demo account, or verifies and resets the
// password of an existing one.
func seedDemoUser(ctx context.Context, users repo.UserRepository, hasher helpers.PasswordHasher) (*entity.User, error) {
	hash, err := hasher.Hash(demoPassword)
	if err != nil {
		return nil, err
	}
	u, err := users.GetByEmail(ctx, demoEmail)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		u = entity.NewUser(demoUsername, demoEmail, hash)
		u.MarkEmailVerified()
		if err := users.Create(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	case err != nil:
		return nil, err
	}
	u.ChangePassword(hash)
	u.MarkEmailVerified()
	if err := users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
