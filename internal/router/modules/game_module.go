package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/protocol-blackout/internal/interface/http"
	"github.com/oksasatya/protocol-blackout/internal/interface/middleware"
)

// GameModule serves the catalog publicly and records results for signed-in users.
type GameModule struct {
	Handler  *handlers.GameHandler
	Sessions middleware.SessionVerifier
	Logger   logrus.FieldLogger
}

func NewGameModule(h *handlers.GameHandler, sessions middleware.SessionVerifier, logger logrus.FieldLogger) *GameModule {
	return &GameModule{Handler: h, Sessions: sessions, Logger: logger}
}

func (m *GameModule) Register(rg *gin.RouterGroup) {
	rg.GET("/games", m.Handler.List)
	rg.GET("/games/:id", m.Handler.Get)
	rg.POST("/games/:id/result", middleware.Auth(m.Sessions, m.Logger), m.Handler.SubmitResult)

	rg.GET("/quiz/questions", m.Handler.Questions)
	rg.GET("/password-targets", m.Handler.PasswordTargets)
}
