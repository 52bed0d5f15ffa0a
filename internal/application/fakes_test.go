package application

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/mailer"
)

// memUsers is a mutex-guarded UserRepository used by service tests.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	now   func() time.Time
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}, now: time.Now}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.CompletedGames = slices.Clone(u.CompletedGames)
	if u.EmailVerificationTokenHash != nil {
		h, e := *u.EmailVerificationTokenHash, *u.EmailVerificationTokenExpires
		c.EmailVerificationTokenHash, c.EmailVerificationTokenExpires = &h, &e
	}
	if u.PasswordResetTokenHash != nil {
		h, e := *u.PasswordResetTokenHash, *u.PasswordResetTokenExpires
		c.PasswordResetTokenHash, c.PasswordResetTokenExpires = &h, &e
	}
	return &c
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if strings.EqualFold(x.Email, u.Email) {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = m.now(), m.now()
	m.byID[u.ID] = clone(u)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(u), nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) findLive(pick func(*entity.User) (*string, *time.Time), hash string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		h, exp := pick(u)
		if h != nil && *h == hash && exp != nil && exp.After(m.now()) {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func verifyCols(u *entity.User) (*string, *time.Time) {
	return u.EmailVerificationTokenHash, u.EmailVerificationTokenExpires
}

func resetCols(u *entity.User) (*string, *time.Time) {
	return u.PasswordResetTokenHash, u.PasswordResetTokenExpires
}

func (m *memUsers) GetByVerificationTokenHash(_ context.Context, hash string) (*entity.User, error) {
	return m.findLive(verifyCols, hash)
}

func (m *memUsers) GetByResetTokenHash(_ context.Context, hash string) (*entity.User, error) {
	return m.findLive(resetCols, hash)
}

func (m *memUsers) Save(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	next := clone(u)
	next.XP, next.Level, next.CompletedGames = cur.XP, cur.Level, cur.CompletedGames
	m.byID[u.ID] = next
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, id, hash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.SetResetToken(hash, expires)
	return nil
}

func (m *memUsers) consume(id, hash string, pick func(*entity.User) (*string, *time.Time), apply func(*entity.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	h, exp := pick(u)
	if h == nil || *h != hash || exp == nil || !exp.After(m.now()) {
		return repo.ErrNotFound
	}
	apply(u)
	return nil
}

func (m *memUsers) ConsumeVerificationToken(_ context.Context, id, hash string) error {
	return m.consume(id, hash, verifyCols, (*entity.User).MarkEmailVerified)
}

func (m *memUsers) ConsumeResetToken(_ context.Context, id, hash, newPasswordHash string) error {
	return m.consume(id, hash, resetCols, func(u *entity.User) { u.ChangePassword(newPasswordHash) })
}

func (m *memUsers) UpdateProgress(_ context.Context, id string, fn func(*entity.User) error) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	work := clone(cur)
	if err := fn(work); err != nil {
		return nil, err
	}
	cur.XP, cur.Level, cur.CompletedGames = work.XP, work.Level, work.CompletedGames
	return clone(cur), nil
}

func (m *memUsers) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// plainHasher keeps service tests fast; bcrypt is covered in pkg/helpers.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) (bool, error) {
	return h == "hashed:"+p, nil
}

// recordingNotifier captures jobs and optionally fails.
type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
	return n.err
}

func (n *recordingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.jobs)
}

func (n *recordingNotifier) last() mailer.EmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.jobs[len(n.jobs)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:          "protocol-blackout",
		VerifyTokenTTL:   24 * time.Hour,
		ResetTokenTTL:    time.Hour,
		VerifyEmailURL:   "http://api.test/auth/verify-email",
		ResetPasswordURL: "http://app.test/reset-password",
	}
}

type authFixture struct {
	svc    *AuthService
	users  *memUsers
	mail   *recordingNotifier
	jwt    *helpers.JWTManager
	logger *logrus.Logger
	hook   *test.Hook
}

func newAuthFixture() *authFixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	users := newMemUsers()
	mail := &recordingNotifier{}
	jwt := helpers.NewJWTManager("test-secret", "test", time.Hour)
	svc := NewAuthService(users, plainHasher{}, jwt, mail, testConfig(), logger)
	return &authFixture{svc: svc, users: users, mail: mail, jwt: jwt, logger: logger, hook: hook}
}
