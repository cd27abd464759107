package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Mailer delivers a notification by email.
type Mailer interface {
	SendNotification(title, description, variant string) error
}

type Worker struct {
	Channel *amqp.Channel
	Mailer  Mailer
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, mailer Mailer, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Mailer: mailer, Logger: logger}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed registering consumer: %w", err)
	}

	w.Logger.Info("Notification worker waiting", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.ProcessMessage(d.Body); err != nil {
				w.Logger.Error("Notification not delivered", zap.Error(err))
				// dead-lettered through the queue's DLX
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// ProcessMessage decodes one message body and mails it.
func (w *Worker) ProcessMessage(body []byte) error {
	var payload NotificationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.Title == "" {
		return fmt.Errorf("invalid payload: missing title")
	}

	if err := w.Mailer.SendNotification(payload.Title, payload.Description, payload.Variant); err != nil {
		return err
	}

	w.Logger.Debug("Notification mailed", zap.String("title", payload.Title))
	return nil
}
