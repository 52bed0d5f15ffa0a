package templates

import (
	"time"

	"github.com/oksasatya/protocol-blackout/config"
)

// Option pattern
type Option func(*EmailData)

func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }
func WithResetURL(url string) Option  { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

// NewBaseEmailData fills branding from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		AppName:     cfg.AppName,
		CompanyName: cfg.CompanyName,
		SupportURL:  cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewWelcomeData carries the verification link sent after registration.
func NewWelcomeData(cfg *config.Config, name, email, verifyURL string, expiresAt time.Time) map[string]any {
	return ToMap(NewBaseEmailData(cfg, name, email, WithVerifyURL(verifyURL), WithExpiresAt(expiresAt)))
}

func NewPasswordResetData(cfg *config.Config, name, email, resetURL string, expiresAt time.Time) map[string]any {
	return ToMap(NewBaseEmailData(cfg, name, email, WithResetURL(resetURL), WithExpiresAt(expiresAt)))
}

func NewMailTestData(cfg *config.Config, email string, at time.Time) map[string]any {
	return ToMap(NewBaseEmailData(cfg, "", email, WithTime(at)))
}
