package mailer

import (
	"context"
	"time"

	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"
)

// SMTP delivers through an authenticated SMTP relay.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func NewSMTP(host string, port int, user, pass, from string, timeout time.Duration) *SMTP {
	return &SMTP{Host: host, Port: port, Username: user, Password: pass, From: from, Timeout: timeout}
}

func (s *SMTP) Name() string { return "smtp" }

func (s *SMTP) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.Username),
		gomail.WithPassword(s.Password),
	}
	if s.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(s.Timeout))
	}
	if s.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	return gomail.NewClient(s.Host, opts...)
}

func (s *SMTP) Deliver(ctx context.Context, msg Message) error {
	if s.From != "" {
		msg.From = s.From
	}
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return oops.Code("SMTP_CLIENT_FAILED").With("host", s.Host).Wrap(err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return oops.Code("SMTP_SEND_FAILED").With("host", s.Host, "port", s.Port).Wrap(err)
	}
	return nil
}
