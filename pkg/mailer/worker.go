package mailer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// Disposition tells the queue consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	Requeue
	Drop
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// HandleJob decodes one queued EmailJob and delivers it. Undecodable bodies,
// render failures and missing provider configuration are dropped; other
// failures are requeued once and dropped on redelivery.
func HandleJob(ctx context.Context, sender Sender, logger logrus.FieldLogger, body []byte, redelivered bool) Disposition {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		LogFailure(logger, job, oops.Code("MAIL_BAD_JOB").Wrap(err))
		return Drop
	}
	provider, err := Deliver(ctx, sender, job)
	if err == nil {
		logger.WithFields(logrus.Fields{"template": job.Template, "provider": provider}).Info("queued mail sent")
		return Ack
	}
	LogFailure(logger, job, err)
	if errors.Is(err, ErrRender) || !Retryable(err) || redelivered {
		return Drop
	}
	return Requeue
}
