package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/protocol-blackout/pkg/mailer/templates"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, msg Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

func welcomeJob() EmailJob {
	return EmailJob{
		To:       "neo@example.com",
		Template: templates.Welcome,
		Data:     map[string]any{"Name": "neo", "VerifyURL": "https://x.test/v?token=abc"},
	}
}

func TestDeliver_RendersTemplate(t *testing.T) {
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.To == "neo@example.com" && m.Subject != "" && m.HTML != "" && m.Text != ""
	})).Return("smtp", nil)

	provider, err := Deliver(context.Background(), s, welcomeJob())
	require.NoError(t, err)
	assert.Equal(t, "smtp", provider)
	s.AssertExpectations(t)
}

func TestDeliver_UnknownTemplate(t *testing.T) {
	s := new(mockSender)
	_, err := Deliver(context.Background(), s, EmailJob{To: "a@example.com", Template: "missing"})
	assert.ErrorIs(t, err, ErrRender)
	assert.False(t, Retryable(err))
	s.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(ErrMailNotConfigured))
	assert.False(t, Retryable(context.Canceled))
	assert.True(t, Retryable(&MailError{}))
	assert.True(t, Retryable(errors.New("timeout")))
}

func TestDirectNotifier_RetriesTransientFailures(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return("", errors.New("temporary")).Twice()
	s.On("Send", mock.Anything, mock.Anything).Return("gmail", nil).Once()

	n := NewDirectNotifier(s, logger, 5*time.Second, 2)
	n.backoff = time.Millisecond

	require.NoError(t, n.Notify(context.Background(), welcomeJob()))
	s.AssertNumberOfCalls(t, "Send", 3)
}

func TestDirectNotifier_GivesUp(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return("", errors.New("down"))

	n := NewDirectNotifier(s, logger, 5*time.Second, 1)
	n.backoff = time.Millisecond

	assert.Error(t, n.Notify(context.Background(), welcomeJob()))
	s.AssertNumberOfCalls(t, "Send", 2)
}

func TestDirectNotifier_NoRetryWhenUnconfigured(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return("", ErrMailNotConfigured)

	n := NewDirectNotifier(s, logger, time.Second, 3)
	n.backoff = time.Millisecond

	err := n.Notify(context.Background(), welcomeJob())
	assert.ErrorIs(t, err, ErrMailNotConfigured)
	s.AssertNumberOfCalls(t, "Send", 1)
}

func TestDirectNotifier_IgnoresCallerCancellation(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := new(mockSender)
	s.On("Send", mock.Anything, mock.Anything).Return("smtp", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewDirectNotifier(s, logger, time.Second, 0)
	assert.NoError(t, n.Notify(ctx, welcomeJob()))
}

func TestQueueNotifier(t *testing.T) {
	p := new(mockPublisher)
	job := welcomeJob()
	p.On("PublishJSON", mock.Anything, job).Return(nil).Once()
	p.On("PublishJSON", mock.Anything, job).Return(errors.New("closed")).Once()

	n := NewQueueNotifier(p)
	assert.NoError(t, n.Notify(context.Background(), job))
	assert.Error(t, n.Notify(context.Background(), job))
	p.AssertExpectations(t)
}

func TestDisabledNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	assert.NoError(t, NewDisabledNotifier(logger).Notify(context.Background(), welcomeJob()))
	require.Len(t, hook.Entries, 1)
}
