package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/config"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// EventHandler applies a conversion result event to the initiating side.
type EventHandler interface {
	ApplyConversionEvent(ctx context.Context, event *ConversionEvent) error
}

// EventConsumer consumes conversion result events on the initiating side
// and hands them to the handler that settles the originating transaction.
type EventConsumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	handler   EventHandler
	logger    *logrus.Logger
}

func NewEventConsumer(cfg config.RabbitMQConfig, handler EventHandler, logger *logrus.Logger) (*EventConsumer, error) {
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

	queue, err := channel.QueueDeclare(
		cfg.EventQueue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare event queue: %w", err)
	}

	err = channel.QueueBind(
		queue.Name,
		cfg.EventRoutingKey,
		cfg.EventExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind event queue: %w", err)
	}

	err = channel.Qos(1, 0, false)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	logger.Infof("✅ Conversion event consumer initialized (queue: %s)", cfg.EventQueue)

	return &EventConsumer{
		conn:      conn,
		channel:   channel,
		queueName: queue.Name,
		handler:   handler,
		logger:    logger,
	}, nil
}

// Start consumes events until the context is cancelled.
func (c *EventConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("🔄 Conversion event worker started, waiting for messages...")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("🛑 Conversion event worker shutting down...")
			return ctx.Err()

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleDelivery(ctx, msg)
		}
	}
}

func (c *EventConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	var event ConversionEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Errorf("Failed to unmarshal conversion event, dropping: %v", err)
		msg.Ack(false)
		return
	}

	c.logger.Infof("📨 Received conversion event %s (correlation: %s, status: %s)",
		event.EventID, event.CorrelationID, event.Status)

	if err := c.handler.ApplyConversionEvent(ctx, &event); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			// No transaction matches this event; nothing a redelivery can do.
			c.logger.Warnf("No transaction matches conversion event %s (correlation: %s), dropping",
				event.EventID, event.CorrelationID)
			msg.Ack(false)
			return
		}
		c.logger.Errorf("Failed to apply conversion event %s, requeueing: %v", event.EventID, err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
	c.logger.Infof("✅ Conversion event applied: %s", event.EventID)
}

func (c *EventConsumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.logger.Warnf("Error closing channel: %v", err)
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Warnf("Error closing connection: %v", err)
		return err
	}
	c.logger.Info("Conversion event consumer closed")
	return nil
}
