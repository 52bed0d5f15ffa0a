package mailer

import (
	"context"
	"encoding/base64"

	"github.com/samber/oops"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail sends through the Gmail API using an OAuth2 refresh token.
type Gmail struct {
	From   string
	oauth  *oauth2.Config
	token  *oauth2.Token
	svcOpt []option.ClientOption // appended to the client options; tests point it at a local endpoint
}

func NewGmail(clientID, clientSecret, redirectURI, refreshToken, from string) *Gmail {
	return &Gmail{
		From: from,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		},
		token: &oauth2.Token{RefreshToken: refreshToken},
	}
}

func (g *Gmail) Name() string { return "gmail" }

func (g *Gmail) Deliver(ctx context.Context, msg Message) error {
	if g.From != "" {
		msg.From = g.From
	}
	raw, err := rawMIME(msg)
	if err != nil {
		return err
	}
	opts := append([]option.ClientOption{option.WithTokenSource(g.oauth.TokenSource(ctx, g.token))}, g.svcOpt...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return oops.Code("GMAIL_CLIENT_FAILED").Wrap(err)
	}
	_, err = svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return oops.Code("GMAIL_SEND_FAILED").Wrap(err)
	}
	return nil
}
