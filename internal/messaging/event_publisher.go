package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/config"
)

// EventPublisher publishes conversion result events from the processing side.
type EventPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *logrus.Logger
}

func NewEventPublisher(cfg config.RabbitMQConfig, logger *logrus.Logger) (*EventPublisher, error) {
	conn, err := connectWithRetry(cfg.URL, cfg.RetryAttempts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.EventExchange, // name
		"direct",          // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare event exchange: %w", err)
	}

	logger.Infof("✅ Conversion event publisher initialized (exchange: %s)", cfg.EventExchange)

	return &EventPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   cfg.EventExchange,
		routingKey: cfg.EventRoutingKey,
		logger:     logger,
	}, nil
}

// PublishConversionEvent serializes and publishes one result event.
func (p *EventPublisher) PublishConversionEvent(ctx context.Context, event *ConversionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			CorrelationId: event.CorrelationID,
			ContentType:   "application/json",
			Body:          body,
			Timestamp:     time.Now(),
			DeliveryMode:  amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish conversion event: %w", err)
	}

	p.logger.Debugf("📤 Published conversion event %s (command: %s, status: %s)",
		event.EventID, event.CommandID, event.Status)
	return nil
}

func (p *EventPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
