package application

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/mailer"
	"github.com/oksasatya/protocol-blackout/pkg/mailer/templates"
	"github.com/oksasatya/protocol-blackout/pkg/metrics"
)

// SessionIssuer signs session tokens for a user id.
type SessionIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// AuthService owns the credential lifecycle: registration, login,
// email verification, password reset and profile removal.
type AuthService struct {
	Users        repo.UserRepository
	Hasher       helpers.PasswordHasher
	Sessions     SessionIssuer
	VerifyTokens *helpers.TokenIssuer
	ResetTokens  *helpers.TokenIssuer
	Mail         mailer.Notifier
	Cfg          *config.Config
	Logger       logrus.FieldLogger
}

func NewAuthService(users repo.UserRepository, hasher helpers.PasswordHasher, sessions SessionIssuer, mail mailer.Notifier, cfg *config.Config, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		Users:        users,
		Hasher:       hasher,
		Sessions:     sessions,
		VerifyTokens: helpers.NewTokenIssuer(cfg.VerifyTokenTTL),
		ResetTokens:  helpers.NewTokenIssuer(cfg.ResetTokenTTL),
		Mail:         mail,
		Cfg:          cfg,
		Logger:       logger,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      entity.PublicUser
}

// Register creates an unverified account and mails its verification link.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (entity.PublicUser, error) {
	if err := requireFields(
		[2]string{"username", in.Username},
		[2]string{"email", in.Email},
		[2]string{"password", in.Password},
	); err != nil {
		return entity.PublicUser{}, err
	}
	email := entity.NormalizeEmail(in.Email)

	// Fast path only; the unique index decides races.
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		s.event("register", ErrDuplicateEmail)
		return entity.PublicUser{}, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return entity.PublicUser{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return entity.PublicUser{}, err
	}
	tok, err := s.VerifyTokens.Issue()
	if err != nil {
		return entity.PublicUser{}, err
	}

	u := entity.NewUser(in.Username, email, hash)
	u.SetVerificationToken(tok.Hash, tok.ExpiresAt)
	if err := s.Users.Create(ctx, u); err != nil {
		s.event("register", err)
		return entity.PublicUser{}, err
	}
	s.event("register", nil)
	s.Logger.WithField("user_id", u.ID).Info("user registered")

	s.notify(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     templates.NewWelcomeData(s.Cfg, u.Username, u.Email, withToken(s.Cfg.VerifyEmailURL, tok.Raw), tok.ExpiresAt),
	})
	return u.Public(), nil
}

// Login checks verification before the password. Both failures reach the
// client as the same invalid-credentials response.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if err := requireFields([2]string{"email", email}, [2]string{"password", password}); err != nil {
		return LoginResult{}, err
	}
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.Debug("login for unknown email")
		s.event("login", ErrInvalidCredentials)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !u.IsEmailVerified {
		s.Logger.WithField("user_id", u.ID).Debug("login before email verification")
		s.event("login", ErrUnverifiedAccount)
		return LoginResult{}, ErrUnverifiedAccount
	}
	ok, err := s.Hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		s.Logger.WithField("user_id", u.ID).Debug("login with wrong password")
		s.event("login", ErrInvalidCredentials)
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := s.Sessions.Issue(u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	s.event("login", nil)
	return LoginResult{Token: token, ExpiresAt: exp, User: u.Public()}, nil
}

// RequestPasswordReset answers with ResetRequestedMessage whether or not the email is known.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if err := requireFields([2]string{"email", email}); err != nil {
		return "", err
	}
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.Debug("password reset for unknown email")
		return ResetRequestedMessage, nil
	}
	if err != nil {
		return "", err
	}

	tok, err := s.ResetTokens.Issue()
	if err != nil {
		return "", err
	}
	err = s.Users.SetResetToken(ctx, u.ID, tok.Hash, tok.ExpiresAt)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithField("user_id", u.ID).Debug("password reset for a user deleted mid-request")
		return ResetRequestedMessage, nil
	}
	if err != nil {
		return "", err
	}
	s.event("password_reset_request", nil)

	s.notify(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: templates.PasswordReset,
		Data:     templates.NewPasswordResetData(s.Cfg, u.Username, u.Email, withToken(s.Cfg.ResetPasswordURL, tok.Raw), tok.ExpiresAt),
	})
	return ResetRequestedMessage, nil
}

// ConfirmPasswordReset sets a new password for the holder of a live reset token.
// The caller has to log in again afterwards.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	if err := requireFields([2]string{"token", rawToken}, [2]string{"password", newPassword}); err != nil {
		return err
	}
	hash := helpers.HashToken(rawToken)
	u, err := s.Users.GetByResetTokenHash(ctx, hash)
	if errors.Is(err, repo.ErrNotFound) {
		return s.invalidToken("password_reset_confirm")
	}
	if err != nil {
		return err
	}
	if !s.ResetTokens.Validate(rawToken, u.PasswordResetTokenHash, u.PasswordResetTokenExpires) {
		return s.invalidToken("password_reset_confirm")
	}

	newHash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	err = s.Users.ConsumeResetToken(ctx, u.ID, hash, newHash)
	if errors.Is(err, repo.ErrNotFound) {
		return s.invalidToken("password_reset_confirm")
	}
	if err != nil {
		return err
	}
	s.event("password_reset_confirm", nil)
	s.Logger.WithField("user_id", u.ID).Info("password reset")
	return nil
}

// VerifyEmail marks the token holder verified. A token works once.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	if err := requireFields([2]string{"token", rawToken}); err != nil {
		return err
	}
	hash := helpers.HashToken(rawToken)
	u, err := s.Users.GetByVerificationTokenHash(ctx, hash)
	if errors.Is(err, repo.ErrNotFound) {
		return s.invalidToken("verify_email")
	}
	if err != nil {
		return err
	}
	if !s.VerifyTokens.Validate(rawToken, u.EmailVerificationTokenHash, u.EmailVerificationTokenExpires) {
		return s.invalidToken("verify_email")
	}
	err = s.Users.ConsumeVerificationToken(ctx, u.ID, hash)
	if errors.Is(err, repo.ErrNotFound) {
		return s.invalidToken("verify_email")
	}
	if err != nil {
		return err
	}
	s.event("verify_email", nil)
	s.Logger.WithField("user_id", u.ID).Info("email verified")
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return entity.PublicUser{}, ErrUserNotFound
	}
	if err != nil {
		return entity.PublicUser{}, err
	}
	return u.Public(), nil
}

// DeleteProfile removes the account immediately. Issued session tokens stay
// valid until they expire but resolve to no user.
func (s *AuthService) DeleteProfile(ctx context.Context, userID string) error {
	removed, err := s.Users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrUserNotFound
	}
	s.event("delete_profile", nil)
	s.Logger.WithField("user_id", userID).Info("profile deleted")
	return nil
}

func (s *AuthService) invalidToken(event string) error {
	s.Logger.WithField("event", event).Debug("invalid or expired token")
	s.event(event, ErrInvalidOrExpiredToken)
	return ErrInvalidOrExpiredToken
}

func (s *AuthService) event(name string, err error) {
	metrics.AuthEvents.WithLabelValues(name, metrics.Outcome(err)).Inc()
}

// notify never fails the caller.
func (s *AuthService) notify(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.Notify(ctx, job); err != nil {
		mailer.LogFailure(s.Logger, job, err)
	}
}

// withToken appends token as a query parameter, keeping any existing query.
func withToken(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
