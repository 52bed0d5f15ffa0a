package mailer

import (
	"context"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/samber/oops"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, client: mg.NewMailgun(domain, apiKey)}
}

func (m *Mailgun) Name() string { return "mailgun" }

// Deliver sends via the Mailgun HTTP API. The configured sender wins over msg.From.
func (m *Mailgun) Deliver(ctx context.Context, msg Message) error {
	from := m.Sender
	if from == "" {
		from = msg.From
	}
	out := m.client.NewMessage(from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	if _, _, err := m.client.Send(ctx, out); err != nil {
		return oops.Code("MAILGUN_SEND_FAILED").With("domain", m.Domain).Wrap(err)
	}
	return nil
}
