package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/pkg/mailer/templates"
)

func mailTestJob(t *testing.T) []byte {
	t.Helper()
	cfg := &config.Config{AppName: "Protocol Blackout", CompanyName: "Protocol Blackout"}
	job := EmailJob{
		To:       "neo@example.com",
		Template: templates.MailTest,
		Data:     templates.NewMailTestData(cfg, "neo@example.com", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)),
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return body
}

func TestHandleJob(t *testing.T) {
	transient := errors.New("connection reset")

	tests := []struct {
		name        string
		body        func(t *testing.T) []byte
		providerErr error
		providers   int
		redelivered bool
		want        Disposition
	}{
		{"delivered", mailTestJob, nil, 1, false, Ack},
		{"transient failure requeued", mailTestJob, transient, 1, false, Requeue},
		{"transient failure on redelivery dropped", mailTestJob, transient, 1, true, Drop},
		{"no provider dropped", mailTestJob, nil, 0, false, Drop},
		{"bad json dropped", func(*testing.T) []byte { return []byte("{") }, nil, 1, false, Drop},
		{"unknown template dropped", func(t *testing.T) []byte {
			b, err := json.Marshal(EmailJob{To: "neo@example.com", Template: "nope"})
			require.NoError(t, err)
			return b
		}, nil, 1, false, Drop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			var providers []Provider
			p := &fakeProvider{name: "smtp", err: tt.providerErr}
			if tt.providers > 0 {
				providers = append(providers, p)
			}
			sender := NewFallbackSender(logger, "from@example.com", providers...)

			got := HandleJob(context.Background(), sender, logger, tt.body(t), tt.redelivered)
			assert.Equal(t, tt.want, got, got.String())
		})
	}
}

func TestProvidersFromConfig_Order(t *testing.T) {
	cfg := &config.Config{
		GmailClientID:     "id",
		GmailClientSecret: "secret",
		GmailRefreshToken: "rt",
		GmailRedirectURI:  "http://localhost",
		GmailFrom:         "gmail@example.com",
		SMTPHost:          "smtp.example.com",
		SMTPPort:          587,
		SMTPUser:          "u",
		SMTPPass:          "p",
		SMTPFrom:          "smtp@example.com",
	}
	var names []string
	for _, p := range ProvidersFromConfig(cfg) {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"gmail", "smtp"}, names)

	cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender = "mg.example.com", "key", "mg@example.com"
	names = names[:0]
	for _, p := range ProvidersFromConfig(cfg) {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"gmail", "mailgun", "smtp"}, names)
}

func TestNewSenderFromConfig_Unconfigured(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewSenderFromConfig(&config.Config{}, logger)
	assert.False(t, s.Configured())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "no mail provider configured; emails will not be delivered", hook.LastEntry().Message)
}
