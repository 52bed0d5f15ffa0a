package router

import (
	"github.com/oksasatya/protocol-blackout/internal/application"
	"github.com/oksasatya/protocol-blackout/internal/container"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
	"github.com/oksasatya/protocol-blackout/internal/infrastructure/cache"
	"github.com/oksasatya/protocol-blackout/internal/infrastructure/catalog"
	pginfra "github.com/oksasatya/protocol-blackout/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/protocol-blackout/internal/interface/http"
	"github.com/oksasatya/protocol-blackout/internal/router/modules"
	"github.com/oksasatya/protocol-blackout/pkg/mailer"
)

// Handlers bundles the HTTP handlers built from the container.
type Handlers struct {
	Auth *handlers.AuthHandler
	Game *handlers.GameHandler
	Mail *handlers.MailHandler
}

func buildHandlers() Handlers {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	var content repo.CatalogRepository = pginfra.NewCatalogRepository(container.GetPGPool())
	if rdb := container.GetRedis(); rdb != nil {
		content = cache.NewCatalogCache(content, rdb, cfg.CatalogCacheTTL, logger)
	}
	games := catalog.NewStaticGames()

	authSvc := application.NewAuthService(users, container.GetHasher(), container.GetJWT(), container.GetMailNotifier(), cfg, logger)
	progression := application.NewProgressionService(users, games, logger)
	catalogSvc := application.NewCatalogService(games, content)

	sender := container.GetMailSender()
	if sender == nil {
		sender = mailer.NewFallbackSender(logger, cfg.MailFrom())
	}

	return Handlers{
		Auth: handlers.NewAuthHandler(authSvc, logger),
		Game: handlers.NewGameHandler(catalogSvc, progression, logger),
		Mail: handlers.NewMailHandler(sender, cfg, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	h := buildHandlers()
	AddModules(r, h)
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// AddModules registers the feature modules for h. The health check lives on
// the engine root regardless of API_PREFIX.
func AddModules(r *Registry, h Handlers) {
	sessions := container.GetJWT()
	logger := container.GetLogger()

	r.Engine.GET("/health", handlers.Health)
	r.Add(modules.NewAuthModule(h.Auth, h.Game, sessions, logger))
	r.Add(modules.NewGameModule(h.Game, sessions, logger))
	r.Add(modules.NewMailModule(h.Mail, sessions, logger))
}
