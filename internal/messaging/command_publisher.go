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

// CommandPublisher publishes conversion commands from the initiating side.
// Publishing is fire-and-forget at the call site; the initiator never blocks
// waiting for the decision.
type CommandPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *logrus.Logger
}

func NewCommandPublisher(cfg config.RabbitMQConfig, logger *logrus.Logger) (*CommandPublisher, error) {
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
		cfg.CommandExchange, // name
		"direct",            // type
		true,                // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare command exchange: %w", err)
	}

	logger.Infof("✅ Conversion command publisher initialized (exchange: %s)", cfg.CommandExchange)

	return &CommandPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   cfg.CommandExchange,
		routingKey: cfg.CommandRoutingKey,
		logger:     logger,
	}, nil
}

// PublishConversionCommand serializes and publishes one command.
func (p *CommandPublisher) PublishConversionCommand(ctx context.Context, cmd *ConversionCommand) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			CorrelationId: cmd.CorrelationID,
			ContentType:   "application/json",
			Body:          body,
			Timestamp:     time.Now(),
			DeliveryMode:  amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish conversion command: %w", err)
	}

	p.logger.Debugf("📤 Published conversion command %s (correlation: %s)",
		cmd.CommandID, cmd.CorrelationID)
	return nil
}

func (p *CommandPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// connectWithRetry dials RabbitMQ with exponential backoff.
func connectWithRetry(url string, maxRetries int, logger *logrus.Logger) (*amqp.Connection, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	for i := 0; i < maxRetries; i++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			logger.Info("✅ Successfully connected to RabbitMQ")
			return conn, nil
		}

		if i < maxRetries-1 {
			wait := time.Duration(1<<uint(i)) * time.Second
			logger.Warnf("⚠️ Failed to connect to RabbitMQ (attempt %d/%d), retrying in %v...",
				i+1, maxRetries, wait)
			time.Sleep(wait)
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d retries", maxRetries)
}
