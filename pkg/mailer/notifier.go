package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/mailer/templates"
)

// ErrRender marks a job whose template cannot be rendered; retrying will not help.
var ErrRender = errors.New("mail template render failed")

// Notifier accepts an email job for delivery.
type Notifier interface {
	Notify(ctx context.Context, job EmailJob) error
}

// Deliver renders job and hands it to sender.
func Deliver(ctx context.Context, sender Sender, job EmailJob) (string, error) {
	subject, text, html, err := templates.Render(job.Template, job.Data)
	if err != nil {
		return "", errors.Join(ErrRender, oops.Code("MAIL_RENDER_FAILED").With("template", job.Template).Wrap(err))
	}
	return sender.Send(ctx, Message{To: job.To, Subject: subject, Text: text, HTML: html})
}

// Retryable reports whether a delivery failure may succeed on a later attempt.
func Retryable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrRender),
		errors.Is(err, ErrMailNotConfigured),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// DirectNotifier sends in-process with a bounded exponential retry.
type DirectNotifier struct {
	sender     Sender
	logger     logrus.FieldLogger
	timeout    time.Duration
	maxRetries uint64
	backoff    time.Duration
}

func NewDirectNotifier(sender Sender, logger logrus.FieldLogger, timeout time.Duration, maxRetries int) *DirectNotifier {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &DirectNotifier{
		sender:     sender,
		logger:     logger,
		timeout:    timeout,
		maxRetries: uint64(maxRetries),
		backoff:    200 * time.Millisecond,
	}
}

// Notify is detached from the caller's cancellation so a dropped client does not abort the send.
func (n *DirectNotifier) Notify(ctx context.Context, job EmailJob) error {
	ctx = context.WithoutCancel(ctx)
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	b := retry.WithMaxRetries(n.maxRetries, retry.NewExponential(n.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		provider, err := Deliver(ctx, n.sender, job)
		if err == nil {
			n.logger.WithFields(logrus.Fields{"template": job.Template, "provider": provider}).Debug("mail sent")
			return nil
		}
		if Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// Publisher is the queue side of QueueNotifier.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands jobs to the email worker through RabbitMQ.
type QueueNotifier struct {
	pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier { return &QueueNotifier{pub: pub} }

func (n *QueueNotifier) Notify(ctx context.Context, job EmailJob) error {
	if err := n.pub.PublishJSON(ctx, job); err != nil {
		return oops.Code("MAIL_ENQUEUE_FAILED").With("template", job.Template).Wrap(err)
	}
	return nil
}

// DisabledNotifier drops every job.
type DisabledNotifier struct {
	logger logrus.FieldLogger
}

func NewDisabledNotifier(logger logrus.FieldLogger) *DisabledNotifier {
	return &DisabledNotifier{logger: logger}
}

func (n *DisabledNotifier) Notify(_ context.Context, job EmailJob) error {
	n.logger.WithField("template", job.Template).Info("MAIL_SEND_ENABLED=false; email skipped")
	return nil
}

// LogFailure is the shared warn line for best-effort sends.
func LogFailure(logger logrus.FieldLogger, job EmailJob, err error) {
	helpers.LogWarn(logger, "email delivery failed", err, logrus.Fields{"template": job.Template})
}

var (
	_ Notifier = (*DirectNotifier)(nil)
	_ Notifier = (*QueueNotifier)(nil)
	_ Notifier = (*DisabledNotifier)(nil)
)
