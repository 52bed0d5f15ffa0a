package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	err   error
	calls int
	last  Message
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Deliver(_ context.Context, msg Message) error {
	p.calls++
	p.last = msg
	return p.err
}

func TestFallbackSender_NotConfigured(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewFallbackSender(logger, "from@example.com")

	_, err := s.Send(context.Background(), Message{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrMailNotConfigured)
	assert.False(t, s.Configured())
}

func TestFallbackSender_FirstProviderWins(t *testing.T) {
	logger, _ := test.NewNullLogger()
	gmail := &fakeProvider{name: "gmail"}
	smtp := &fakeProvider{name: "smtp"}
	s := NewFallbackSender(logger, "from@example.com", gmail, smtp)

	provider, err := s.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "gmail", provider)
	assert.Equal(t, "from@example.com", gmail.last.From)
	assert.Zero(t, smtp.calls)
}

func TestFallbackSender_FallsThrough(t *testing.T) {
	logger, hook := test.NewNullLogger()
	gmail := &fakeProvider{name: "gmail", err: errors.New("quota")}
	smtp := &fakeProvider{name: "smtp"}
	s := NewFallbackSender(logger, "from@example.com", gmail, smtp)

	provider, err := s.Send(context.Background(), Message{To: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "smtp", provider)
	assert.Equal(t, 1, gmail.calls)
	assert.Len(t, hook.Entries, 1)
}

func TestFallbackSender_AllFail(t *testing.T) {
	logger, _ := test.NewNullLogger()
	quota := errors.New("quota")
	refused := errors.New("refused")
	s := NewFallbackSender(logger, "", &fakeProvider{name: "gmail", err: quota}, &fakeProvider{name: "smtp", err: refused})

	_, err := s.Send(context.Background(), Message{To: "a@example.com"})
	var mailErr *MailError
	require.ErrorAs(t, err, &mailErr)
	assert.Len(t, mailErr.Attempts, 2)
	assert.ErrorIs(t, err, quota)
	assert.ErrorIs(t, err, refused)
	assert.Contains(t, err.Error(), "gmail: quota")
}

func TestFallbackSender_EmptyRecipient(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := &fakeProvider{name: "smtp"}
	s := NewFallbackSender(logger, "", p)

	_, err := s.Send(context.Background(), Message{To: "  "})
	assert.Error(t, err)
	assert.Zero(t, p.calls)
}

func TestRawMIME(t *testing.T) {
	raw, err := rawMIME(Message{From: "from@example.com", To: "to@example.com", Subject: "Hello", Text: "plain", HTML: "<p>rich</p>"})
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, "Subject: Hello")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "to@example.com")
}

func TestRawMIME_BadAddress(t *testing.T) {
	_, err := rawMIME(Message{From: "not an address", To: "to@example.com"})
	assert.Error(t, err)
}
