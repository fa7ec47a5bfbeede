package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/config"
	"github.com/claudemirLima/changeApp/internal/dto"
)

// Converter runs the conversion pipeline for one request.
type Converter interface {
	Convert(ctx context.Context, req *dto.ConversionRequest) (*dto.ConversionResponse, error)
}

// EventSink publishes conversion result events.
type EventSink interface {
	PublishConversionEvent(ctx context.Context, event *ConversionEvent) error
}

// CommandConsumer consumes conversion commands on the processing side.
// Prefetch is fixed at 1 so a worker never starts a new command before the
// current one is fully acknowledged, keeping per-queue processing ordered
// and non-overlapping.
type CommandConsumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	converter Converter
	events    EventSink
	logger    *logrus.Logger
}

func NewCommandConsumer(cfg config.RabbitMQConfig, converter Converter, events EventSink, logger *logrus.Logger) (*CommandConsumer, error) {
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

	queue, err := channel.QueueDeclare(
		cfg.CommandQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare command queue: %w", err)
	}

	err = channel.QueueBind(
		queue.Name,
		cfg.CommandRoutingKey,
		cfg.CommandExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind command queue: %w", err)
	}

	// One in-flight command per consumer: ordered, non-overlapping processing.
	err = channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	logger.Infof("✅ Conversion command consumer initialized (queue: %s)", cfg.CommandQueue)

	return &CommandConsumer{
		conn:      conn,
		channel:   channel,
		queueName: queue.Name,
		converter: converter,
		events:    events,
		logger:    logger,
	}, nil
}

// Start consumes commands until the context is cancelled.
func (c *CommandConsumer) Start(ctx context.Context) error {
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

	c.logger.Info("🔄 Conversion command worker started, waiting for messages...")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("🛑 Conversion command worker shutting down...")
			return ctx.Err()

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleDelivery(ctx, msg)
		}
	}
}

// handleDelivery processes one command. The inbound delivery is acknowledged
// only after the result event was published; if even the error event cannot
// be published the delivery is requeued for at-least-once redelivery.
func (c *CommandConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	var cmd ConversionCommand
	if err := json.Unmarshal(msg.Body, &cmd); err != nil {
		// Malformed payload: redelivery cannot fix it, drop.
		c.logger.Errorf("Failed to unmarshal conversion command, dropping: %v", err)
		msg.Ack(false)
		return
	}

	c.logger.Infof("📨 Received conversion command %s (correlation: %s)",
		cmd.CommandID, cmd.CorrelationID)

	event := c.process(ctx, &cmd)

	if err := c.events.PublishConversionEvent(ctx, event); err != nil {
		c.logger.Errorf("Failed to publish conversion event for command %s, requeueing: %v",
			cmd.CommandID, err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
	c.logger.Infof("✅ Conversion command processed: %s (status: %s)", cmd.CommandID, event.Status)
}

func (c *CommandConsumer) process(ctx context.Context, cmd *ConversionCommand) *ConversionEvent {
	response, err := c.converter.Convert(ctx, cmd.ToConversionRequest())
	if err != nil {
		c.logger.Warnf("Conversion failed for command %s: %v", cmd.CommandID, err)
		return NewErrorEvent(cmd, fmt.Sprintf("failed to process conversion: %v", err))
	}
	return NewConversionEvent(cmd, response)
}

func (c *CommandConsumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.logger.Warnf("Error closing channel: %v", err)
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Warnf("Error closing connection: %v", err)
		return err
	}
	c.logger.Info("Conversion command consumer closed")
	return nil
}
