package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/mailer"
	"github.com/oksasatya/protocol-blackout/pkg/mailer/templates"
	"github.com/oksasatya/protocol-blackout/pkg/response"
)

// MailHandler sends a synchronous test mail through the provider chain.
type MailHandler struct {
	Sender mailer.Sender
	Cfg    *config.Config
	Logger logrus.FieldLogger
}

func NewMailHandler(sender mailer.Sender, cfg *config.Config, logger logrus.FieldLogger) *MailHandler {
	return &MailHandler{Sender: sender, Cfg: cfg, Logger: logger}
}

func (h *MailHandler) recipient() string {
	if h.Cfg.MailTestRecipient != "" {
		return h.Cfg.MailTestRecipient
	}
	return h.Cfg.MailFrom()
}

// SendTest POST /mail/test (auth required)
func (h *MailHandler) SendTest(c *gin.Context) {
	to := h.recipient()
	if to == "" {
		response.Error[any](c, http.StatusInternalServerError, "no test recipient configured (MAIL_TEST_RECIPIENT or a sender address)", nil)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Cfg.MailTimeout)
	defer cancel()
	job := mailer.EmailJob{To: to, Template: templates.MailTest, Data: templates.NewMailTestData(h.Cfg, to, time.Now())}
	provider, err := mailer.Deliver(ctx, h.Sender, job)
	if errors.Is(err, mailer.ErrMailNotConfigured) {
		response.Error[any](c, http.StatusInternalServerError, "no mail provider configured (Gmail API, Mailgun or SMTP)", nil)
		return
	}
	if err != nil {
		helpers.LogWarn(h.Logger, "test mail failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error[any](c, http.StatusInternalServerError, "mail delivery failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"provider": provider, "to": to}, "test mail sent", nil)
}
