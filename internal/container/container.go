package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router wires modules from these singletons; cmd/main.go sets them once at startup.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	hasher     helpers.PasswordHasher

	mailSender   mailer.Sender
	mailNotifier mailer.Notifier
	rabbitPub    *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }

// GetJWT falls back to a manager built from the current config.
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil && cfg != nil {
		jwtManager = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	}
	return jwtManager
}

func SetHasher(h helpers.PasswordHasher) { hasher = h }

// GetHasher falls back to bcrypt at the configured cost.
func GetHasher() helpers.PasswordHasher {
	if hasher == nil {
		cost := config.MinBcryptCost
		if cfg != nil {
			cost = cfg.BcryptCost
		}
		hasher = helpers.NewBcryptHasher(cost)
	}
	return hasher
}

func SetMailSender(s mailer.Sender)           { mailSender = s }
func GetMailSender() mailer.Sender            { return mailSender }
func SetMailNotifier(n mailer.Notifier)       { mailNotifier = n }
func GetMailNotifier() mailer.Notifier        { return mailNotifier }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
