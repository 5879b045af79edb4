package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shopease-api/config"
	"github.com/oksasatya/shopease-api/pkg/helpers"
	"github.com/oksasatya/shopease-api/pkg/mailer"
	mailtpl "github.com/oksasatya/shopease-api/pkg/mailer/templates"
)

const consumerTag = "shopease-email-worker"

var errUnknownTemplate = errors.New("unknown template")

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	resolver := mailtpl.NewCachingResolver(mailtpl.IPAPIResolver{}, time.Hour)
	ctx, stopCtx := context.WithCancel(context.Background())
	defer stopCtx()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Warn("dropping malformed email job")
				_ = msg.Nack(false, false)
				continue
			}
			entry := logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

			subject, text, html, err := render(ctx, resolver, &job)
			if err != nil {
				entry.WithError(err).Error("render failed")
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err = mg.Send(c, job.To, subject, text, html)
			cancel()
			if err != nil {
				// redeliver once; a second failure is dropped
				entry.WithError(err).WithField("redelivered", msg.Redelivered).Error("send failed")
				_ = msg.Nack(false, !msg.Redelivered)
				continue
			}
			_ = msg.Ack(false)
			entry.Info("email sent")
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down")
	stopCtx()
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

// render builds the message for template jobs and passes raw jobs through.
func render(ctx context.Context, resolver mailtpl.GeoResolver, job *mailer.EmailJob) (string, string, string, error) {
	helpers.NormalizeEmailJob(job)
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	if !mailtpl.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: %q", errUnknownTemplate, job.Template)
	}
	lookupCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	helpers.LocalizeTimesIfPossible(lookupCtx, resolver, job.Data)
	cancel()
	return mailtpl.Render(job.Template, job.Data)
}
