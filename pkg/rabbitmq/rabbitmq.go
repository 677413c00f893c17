// Package rabbitmq publishes and consumes order events over AMQP.
package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-faster/errors"
	amqp "github.com/streadway/amqp"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tokobuku/internal/models"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
	lg      *zap.Logger

	mu sync.Mutex // serializes publishes on channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string // topic exchange order events are published to
	Queue    string // queue ConsumeOrderEvents reads from; defaults to DefaultQueue
}

const (
	// DefaultQueue receives every order event.
	DefaultQueue = "order_events"
	bindingKey   = "order.#"
)

// NewClient connects to RabbitMQ and declares the exchange and the order
// event queue.
func NewClient(cfg Config, lg *zap.Logger) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if lg == nil {
		lg = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	if err := declare(ch, cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	lg.Info("RabbitMQ client connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
	)

	return &Client{
		cfg:     cfg,
		conn:    conn,
		channel: ch,
		lg:      lg,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return errors.Wrapf(err, "declare exchange %s", cfg.Exchange)
	}

	if _, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable (persists messages across broker restarts)
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return errors.Wrapf(err, "declare queue %s", cfg.Queue)
	}

	if err := ch.QueueBind(cfg.Queue, bindingKey, cfg.Exchange, false, nil); err != nil {
		return errors.Wrapf(err, "bind queue %s", cfg.Queue)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var err error
	if c.channel != nil {
		if closeErr := c.channel.Close(); closeErr != nil {
			err = multierr.Append(err, errors.Wrap(closeErr, "close channel"))
		}
	}
	if c.conn != nil {
		if closeErr := c.conn.Close(); closeErr != nil {
			err = multierr.Append(err, errors.Wrap(closeErr, "close connection"))
		}
	}
	return err
}

// NewPublishing wraps a JSON body in a persistent message.
func NewPublishing(body []byte, at time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    at,
		Body:         body,
	}
}

// Publish sends body to the exchange under routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	err := c.channel.Publish(
		c.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		NewPublishing(body, time.Now()),
	)
	c.mu.Unlock()
	if err != nil {
		return errors.Wrapf(err, "publish %s", routingKey)
	}

	c.lg.Debug("Sent order event", zap.String("routing_key", routingKey))
	return nil
}

// EventHandler processes one decoded order event.
type EventHandler func(ctx context.Context, event models.OrderEvent) error

// ConsumeOrderEvents delivers messages from the order event queue to handler
// until ctx is cancelled or the channel closes. It returns once the consumer
// is registered.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler EventHandler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack: messages are acknowledged after handling
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "register consumer")
	}

	c.lg.Info("Waiting for order events", zap.String("queue", c.cfg.Queue))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.lg.Warn("Order event stream closed")
					return
				}
				HandleDelivery(ctx, msg, handler, c.lg)
			}
		}
	}()

	return nil
}

// HandleDelivery decodes msg and settles it: acked when handler succeeds,
// requeued when handler fails, and rejected outright when it is not an
// order event.
func HandleDelivery(ctx context.Context, msg amqp.Delivery, handler EventHandler, lg *zap.Logger) {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		lg.Error("Malformed order event",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Error(err),
		)
		if rejectErr := msg.Reject(false); rejectErr != nil {
			lg.Error("Reject failed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(rejectErr))
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		lg.Error("Order event handling failed",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			lg.Error("Nack failed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		lg.Error("Ack failed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}
