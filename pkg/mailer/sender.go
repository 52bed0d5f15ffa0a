package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/metrics"
)

// ErrMailNotConfigured is returned at send time when no provider has credentials.
var ErrMailNotConfigured = errors.New("mail provider not configured")

// Message is a rendered email ready for a provider.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Provider delivers through one backend (Gmail API, Mailgun, SMTP).
type Provider interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

// Sender delivers a message and reports which provider accepted it.
type Sender interface {
	Send(ctx context.Context, msg Message) (provider string, err error)
}

// ProviderError records one failed provider attempt.
type ProviderError struct {
	Provider string
	Err      error
}

func (e ProviderError) Error() string { return e.Provider + ": " + e.Err.Error() }
func (e ProviderError) Unwrap() error { return e.Err }

// MailError is returned when every configured provider failed.
type MailError struct {
	Attempts []ProviderError
}

func (e *MailError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("all mail providers failed: %s", strings.Join(parts, "; "))
}

func (e *MailError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a)
	}
	return errs
}

// FallbackSender tries providers in order until one accepts the message.
type FallbackSender struct {
	providers []Provider
	from      string
	logger    logrus.FieldLogger
}

func NewFallbackSender(logger logrus.FieldLogger, from string, providers ...Provider) *FallbackSender {
	return &FallbackSender{providers: providers, from: from, logger: logger}
}

// Configured reports whether at least one provider is wired.
func (s *FallbackSender) Configured() bool { return len(s.providers) > 0 }

func (s *FallbackSender) Send(ctx context.Context, msg Message) (string, error) {
	if len(s.providers) == 0 {
		return "", ErrMailNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", oops.Code("MAIL_NO_RECIPIENT").Errorf("mail recipient is empty")
	}
	if msg.From == "" {
		msg.From = s.from
	}
	var attempts []ProviderError
	for _, p := range s.providers {
		err := p.Deliver(ctx, msg)
		metrics.MailDeliveries.WithLabelValues(p.Name(), metrics.Outcome(err)).Inc()
		if err == nil {
			return p.Name(), nil
		}
		helpers.LogWarn(s.logger, "mail provider failed", err, logrus.Fields{"provider": p.Name()})
		attempts = append(attempts, ProviderError{Provider: p.Name(), Err: err})
		if ctx.Err() != nil {
			break
		}
	}
	return "", &MailError{Attempts: attempts}
}

var _ Sender = (*FallbackSender)(nil)
