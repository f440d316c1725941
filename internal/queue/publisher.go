package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hairfit-server/internal/logging"
)

// Publisher sends events to RabbitMQ.  Each call dials its own connection,
// so a broker outage never leaves a stale channel behind.  Failures are
// logged and returned; callers treat publishing as best effort.
type Publisher struct {
	url    string
	logger logging.Logger
}

func NewPublisher(url string, logger logging.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishSynthesisRecorded publishes ev to the synthesis.recorded queue as
// a persistent JSON message.
func (p *Publisher) PublishSynthesisRecorded(ctx context.Context, ev SynthesisRecordedEvent) error {
	if err := p.publish(ctx, SynthesisQueueName, ev); err != nil {
		p.logger.Warn(ctx, "rabbitmq publish failed", "queue", SynthesisQueueName, "history_id", ev.HistoryID, "error", err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
