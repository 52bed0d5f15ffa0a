package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/protocol-blackout/internal/interface/http"
	"github.com/oksasatya/protocol-blackout/internal/interface/middleware"
)

// AuthModule wires the account lifecycle routes.
// Public: register, login, password reset, email verification.
// Protected: GET/DELETE /auth/profile, GET /auth/profile/progress.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Games    *handlers.GameHandler
	Sessions middleware.SessionVerifier
	Logger   logrus.FieldLogger
}

func NewAuthModule(h *handlers.AuthHandler, games *handlers.GameHandler, sessions middleware.SessionVerifier, logger logrus.FieldLogger) *AuthModule {
	return &AuthModule{Handler: h, Games: games, Sessions: sessions, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", m.Handler.Register)
	a.POST("/login", m.Handler.Login)
	a.POST("/password-reset/request", m.Handler.RequestPasswordReset)
	a.POST("/password-reset/confirm", m.Handler.ConfirmPasswordReset)
	a.GET("/verify-email", m.Handler.VerifyEmail)

	profile := a.Group("/profile")
	profile.Use(middleware.Auth(m.Sessions, m.Logger))
	{
		profile.GET("", m.Handler.GetProfile)
		profile.DELETE("", m.Handler.DeleteProfile)
		profile.GET("/progress", m.Games.Progress)
	}
}
