package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/protocol-blackout/internal/interface/http"
	"github.com/oksasatya/protocol-blackout/internal/interface/middleware"
)

type MailModule struct {
	Handler  *handlers.MailHandler
	Sessions middleware.SessionVerifier
	Logger   logrus.FieldLogger
}

func NewMailModule(h *handlers.MailHandler, sessions middleware.SessionVerifier, logger logrus.FieldLogger) *MailModule {
	return &MailModule{Handler: h, Sessions: sessions, Logger: logger}
}

func (m *MailModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/mail")
	auth.Use(middleware.Auth(m.Sessions, m.Logger))
	{
		auth.POST("/test", m.Handler.SendTest)
	}
}
