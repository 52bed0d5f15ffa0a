package mailer

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/config"
)

// ProvidersFromConfig lists the configured providers in fallback order:
// Gmail API, then Mailgun, then SMTP.
func ProvidersFromConfig(cfg *config.Config) []Provider {
	var out []Provider
	if cfg.GmailConfigured() {
		out = append(out, NewGmail(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRedirectURI, cfg.GmailRefreshToken, cfg.MailFrom()))
	}
	if cfg.MailgunConfigured() {
		out = append(out, NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender))
	}
	if cfg.SMTPConfigured() {
		out = append(out, NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.MailTimeout))
	}
	return out
}

// NewSenderFromConfig builds the fallback chain. With no provider configured
// it still returns a sender; every Send then fails with ErrMailNotConfigured.
func NewSenderFromConfig(cfg *config.Config, logger logrus.FieldLogger) *FallbackSender {
	providers := ProvidersFromConfig(cfg)
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	if len(providers) == 0 {
		logger.Warn("no mail provider configured; emails will not be delivered")
	} else {
		logger.WithField("providers", names).Info("mail providers configured")
	}
	return NewFallbackSender(logger, cfg.MailFrom(), providers...)
}
