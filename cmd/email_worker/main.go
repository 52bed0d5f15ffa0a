package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/config"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/mailer"
)

const consumerTag = "email-worker"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	sender := mailer.NewSenderFromConfig(cfg, logger)
	if !sender.Configured() {
		log.Fatal("no mail provider configured (Gmail API, Mailgun or SMTP)")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			settle(msg, process(cfg, sender, logger, msg), logger)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(cfg.MailTimeout + 2*time.Second):
	}
}

func process(cfg *config.Config, sender mailer.Sender, logger logrus.FieldLogger, msg amqp.Delivery) mailer.Disposition {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MailTimeout)
	defer cancel()
	return mailer.HandleJob(ctx, sender, logger, msg.Body, msg.Redelivered)
}

func settle(msg amqp.Delivery, d mailer.Disposition, logger logrus.FieldLogger) {
	var err error
	switch d {
	case mailer.Ack:
		err = msg.Ack(false)
	case mailer.Requeue:
		err = msg.Nack(false, true)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		helpers.LogWarn(logger, "amqp settle failed", err, logrus.Fields{"disposition": d.String()})
	}
}
