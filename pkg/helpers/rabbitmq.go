package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/oops"
)

// ErrPublishNacked is returned when the broker refuses a confirmed publish.
var ErrPublishNacked = errors.New("amqp publish not confirmed by broker")

// RabbitPublisher publishes persistent JSON messages to one durable queue
// with publisher confirms, so a returned nil means the broker has the job.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

// DeclareQueue declares the durable queue shared by the API and the email worker.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return oops.Code("AMQP_DECLARE_FAILED").With("queue", queue).Wrap(err)
	}
	return nil
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, oops.Code("AMQP_DIAL_FAILED").Wrap(err)
	}
	p := &RabbitPublisher{conn: conn, Queue: queue}
	if p.ch, err = conn.Channel(); err != nil {
		p.Close()
		return nil, oops.Code("AMQP_CHANNEL_FAILED").Wrap(err)
	}
	if err := DeclareQueue(p.ch, queue); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.ch.Confirm(false); err != nil {
		p.Close()
		return nil, oops.Code("AMQP_CONFIRM_MODE_FAILED").Wrap(err)
	}
	return p, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON encodes body, publishes it to Queue through the default exchange
// and waits for the broker confirm or ctx.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return oops.Code("AMQP_ENCODE_FAILED").Wrap(err)
	}
	msgID := uuid.NewString()
	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msgID,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
	if err != nil {
		return oops.Code("AMQP_PUBLISH_FAILED").With("queue", p.Queue).Wrap(err)
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return oops.Code("AMQP_CONFIRM_FAILED").With("queue", p.Queue, "message_id", msgID).Wrap(err)
	}
	if !acked {
		return oops.Code("AMQP_PUBLISH_NACKED").With("queue", p.Queue, "message_id", msgID).Wrap(ErrPublishNacked)
	}
	return nil
}
