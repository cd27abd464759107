package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/usecase"
)

// NotificationPayload is the message body published for every notification.
type NotificationPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     string    `json:"variant"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch     Publisher
	Logger *zap.Logger
	now    func() time.Time
}

func NewProducer(ch Publisher, logger *zap.Logger) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch, Logger: logger, now: time.Now}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed encoding payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed publishing to RabbitMQ: %w", err)
	}
	return nil
}

// Notify implements usecase.Notifier. Publish failures are logged and dropped.
func (p *RabbitMQProducer) Notify(ctx context.Context, n usecase.Notification) {
	payload := NotificationPayload{
		Title:       n.Title,
		Description: n.Description,
		Variant:     string(n.Variant),
		OccurredAt:  p.now().UTC(),
	}
	if err := p.Publish(ctx, payload); err != nil {
		p.Logger.Error("Failed publishing notification", zap.String("title", n.Title), zap.Error(err))
	}
}
